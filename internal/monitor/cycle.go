package monitor

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/skill-docket/skd/internal/backend"
	"github.com/skill-docket/skd/internal/expander"
	"github.com/skill-docket/skd/internal/messagequeue"
	"github.com/skill-docket/skd/internal/model"
)

// errorPatterns is the closed, ordered set of substrings the cycle scans
// a pane capture for. Order decides which pattern is reported when more
// than one appears in a capture.
var errorPatterns = []string{"error:", "panic:", "traceback", "fatal"}

// Cycle runs one monitoring tick across a set of agents: pane capture,
// heartbeat parsing, error-pattern scanning, SSH probing, health
// aggregation, and pending-message delivery to healthy agents.
type Cycle struct {
	backend            backend.SessionBackend
	queue              *messagequeue.Store
	probe              SSHProbe
	readyPromptPattern *regexp.Regexp
	heartbeatTimeoutMs int64
}

// NewCycle builds a Cycle. readyPromptPattern is compiled once up front;
// an invalid pattern is a configuration error the caller should surface
// at startup, not per tick.
func NewCycle(b backend.SessionBackend, queue *messagequeue.Store, probe SSHProbe, readyPromptPattern string, heartbeatTimeoutMs int64) (*Cycle, error) {
	re, err := regexp.Compile(readyPromptPattern)
	if err != nil {
		return nil, fmt.Errorf("monitor: invalid ready prompt pattern: %w", err)
	}
	return &Cycle{
		backend:            b,
		queue:              queue,
		probe:              probe,
		readyPromptPattern: re,
		heartbeatTimeoutMs: heartbeatTimeoutMs,
	}, nil
}

// Assess runs the capture/parse/scan/probe/aggregate contract for a
// single agent and mutates agent's Health, StatusNotes, and
// LastHeartbeatMs in place to reflect the outcome. extra carries signals
// sourced outside the cycle itself, such as an ExplicitError; the
// orchestrator's Tick passes none.
func (c *Cycle) Assess(agent *model.Agent, nowMs int64, extra ...HealthSignal) Assessment {
	target := expander.SessionName(agent.Name) + ":0.0"

	capture, err := c.backend.CapturePane(target)
	if err != nil {
		signals := []HealthSignal{InfrastructureFailed(err.Error())}
		assessment := Assessment{
			Agent:       agent.Name,
			Overall:     model.HealthUnhealthy,
			Signals:     signals,
			Reason:      "infrastructure failed",
			TimestampMs: nowMs,
		}
		agent.Health = model.HealthUnhealthy
		agent.StatusNotes = assessment.Reason
		return assessment
	}

	var signals []HealthSignal

	if line := lastNonEmptyLine(capture); c.readyPromptPattern.MatchString(line) {
		agent.LastHeartbeatMs = &nowMs
		signals = append(signals, HeartbeatRecent(0))
	} else if agent.LastHeartbeatMs != nil {
		ageSecs := uint64((nowMs - *agent.LastHeartbeatMs) / 1000)
		signals = append(signals, HeartbeatStale(ageSecs))
	}
	// agent.LastHeartbeatMs == nil and no match: heartbeat age is
	// undefined, no heartbeat signal is emitted, and aggregation falls
	// through to its Unknown default.

	if pattern := scanErrorPatterns(capture); pattern != "" {
		signals = append(signals, ErrorPatternDetected(pattern))
	}

	if agent.Kind == model.AgentKindSSH {
		if c.probe != nil && c.probe.Reachable(agent.Name) {
			signals = append(signals, SSHConnected())
		} else {
			signals = append(signals, SSHDisconnected())
		}
	}

	signals = append(signals, extra...)

	overall, reason := aggregate(signals, c.heartbeatTimeoutMs)

	assessment := Assessment{
		Agent:       agent.Name,
		Overall:     overall,
		Signals:     signals,
		Reason:      reason,
		TimestampMs: nowMs,
	}
	agent.Health = overall
	if reason != "" {
		agent.StatusNotes = reason
	}
	return assessment
}

// aggregate applies the precedence rule over a signal set and returns
// the resulting state plus a comma-joined human reason built from the
// deciding signals.
func aggregate(signals []HealthSignal, heartbeatTimeoutMs int64) (model.HealthState, string) {
	var unhealthy, degraded []string
	var sawHeartbeatRecent, sawInfraOk, sawSSHConnected, sawSSHAny bool

	for _, s := range signals {
		switch s.Kind {
		case SignalInfrastructureFailed:
			unhealthy = append(unhealthy, "infrastructure failed")
		case SignalErrorPatternDetected:
			unhealthy = append(unhealthy, "error pattern detected")
		case SignalExplicitError:
			unhealthy = append(unhealthy, "explicit error")
		case SignalHeartbeatStale:
			if int64(s.AgeSecs)*1000 > heartbeatTimeoutMs {
				unhealthy = append(unhealthy, "heartbeat stale")
			} else {
				degraded = append(degraded, "heartbeat stale")
			}
		case SignalSSHDisconnected:
			degraded = append(degraded, "ssh disconnected")
			sawSSHAny = true
		case SignalHeartbeatRecent:
			sawHeartbeatRecent = true
		case SignalInfrastructureOk:
			sawInfraOk = true
		case SignalSSHConnected:
			sawSSHConnected = true
			sawSSHAny = true
		}
	}

	if len(unhealthy) > 0 {
		return model.HealthUnhealthy, strings.Join(unhealthy, ", ")
	}
	if len(degraded) > 0 {
		return model.HealthDegraded, strings.Join(degraded, ", ")
	}
	if sawHeartbeatRecent && (sawInfraOk || sawSSHConnected || !sawSSHAny) {
		return model.HealthHealthy, "heartbeat recent"
	}
	return model.HealthUnknown, ""
}

func lastNonEmptyLine(capture string) string {
	lines := strings.Split(capture, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		trimmed := strings.TrimRight(lines[i], "\r")
		if strings.TrimSpace(trimmed) != "" {
			return trimmed
		}
	}
	return ""
}

func scanErrorPatterns(capture string) string {
	lower := strings.ToLower(capture)
	for _, pattern := range errorPatterns {
		if strings.Contains(lower, pattern) {
			return pattern
		}
	}
	return ""
}

// DeliverPending sends the oldest pending message to agent via the
// backend and, only on backend success, stamps it delivered in queue.
// Call only for agents the cycle has just assessed Healthy.
func (c *Cycle) DeliverPending(agent *model.Agent) error {
	pending := c.queue.PendingFor(agent.Name)
	if len(pending) == 0 {
		return nil
	}
	oldest := pending[0]
	target := expander.SessionName(agent.Name) + ":0.0"
	action := backend.SendKeys(target, formatMessage(oldest))
	if err := c.backend.ExecuteAction(action); err != nil {
		return err
	}
	c.queue.Deliver(agent.Name)
	return nil
}

func formatMessage(m *model.Message) string {
	return fmt.Sprintf("[message from %s] %s", m.Sender, m.Text)
}
