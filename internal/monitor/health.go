// Package monitor implements the monitoring cycle: pane capture →
// heartbeat parse → health signal synthesis → message delivery to
// healthy agents.
package monitor

import (
	"encoding/json"

	"github.com/skill-docket/skd/internal/model"
)

// SignalKind discriminates a HealthSignal's variant on the wire.
type SignalKind string

const (
	SignalInfrastructureOk     SignalKind = "infrastructure_ok"
	SignalInfrastructureFailed SignalKind = "infrastructure_failed"
	SignalHeartbeatRecent      SignalKind = "heartbeat_recent"
	SignalHeartbeatStale       SignalKind = "heartbeat_stale"
	SignalErrorPatternDetected SignalKind = "error_pattern_detected"
	SignalExplicitError        SignalKind = "explicit_error"
	SignalSSHConnected         SignalKind = "ssh_connected"
	SignalSSHDisconnected      SignalKind = "ssh_disconnected"
)

// HealthSignal is a single observation feeding into a health assessment.
type HealthSignal struct {
	Kind    SignalKind
	Reason  string // InfrastructureFailed
	AgeSecs uint64 // HeartbeatRecent / HeartbeatStale
	Pattern string // ErrorPatternDetected
	Message string // ExplicitError
}

func InfrastructureOk() HealthSignal { return HealthSignal{Kind: SignalInfrastructureOk} }
func InfrastructureFailed(reason string) HealthSignal {
	return HealthSignal{Kind: SignalInfrastructureFailed, Reason: reason}
}
func HeartbeatRecent(ageSecs uint64) HealthSignal {
	return HealthSignal{Kind: SignalHeartbeatRecent, AgeSecs: ageSecs}
}
func HeartbeatStale(ageSecs uint64) HealthSignal {
	return HealthSignal{Kind: SignalHeartbeatStale, AgeSecs: ageSecs}
}
func ErrorPatternDetected(pattern string) HealthSignal {
	return HealthSignal{Kind: SignalErrorPatternDetected, Pattern: pattern}
}
func ExplicitError(message string) HealthSignal {
	return HealthSignal{Kind: SignalExplicitError, Message: message}
}
func SSHConnected() HealthSignal    { return HealthSignal{Kind: SignalSSHConnected} }
func SSHDisconnected() HealthSignal { return HealthSignal{Kind: SignalSSHDisconnected} }

// MarshalJSON projects the signal onto its tagged wire form.
func (s HealthSignal) MarshalJSON() ([]byte, error) {
	m := map[string]any{"type": s.Kind}
	switch s.Kind {
	case SignalInfrastructureFailed:
		m["reason"] = s.Reason
	case SignalHeartbeatRecent, SignalHeartbeatStale:
		m["age_secs"] = s.AgeSecs
	case SignalErrorPatternDetected:
		m["pattern"] = s.Pattern
	case SignalExplicitError:
		m["message"] = s.Message
	}
	return json.Marshal(m)
}

func (s *HealthSignal) UnmarshalJSON(data []byte) error {
	var raw struct {
		Type    SignalKind `json:"type"`
		Reason  string     `json:"reason"`
		AgeSecs uint64     `json:"age_secs"`
		Pattern string     `json:"pattern"`
		Message string     `json:"message"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*s = HealthSignal{Kind: raw.Type, Reason: raw.Reason, AgeSecs: raw.AgeSecs, Pattern: raw.Pattern, Message: raw.Message}
	return nil
}

// Assessment is the outcome of evaluating one agent's signals.
type Assessment struct {
	Agent       string            `json:"agent"`
	Overall     model.HealthState `json:"overall"`
	Signals     []HealthSignal    `json:"signals"`
	Reason      string            `json:"reason"`
	TimestampMs int64             `json:"timestamp_ms"`
}
