package orchestrator

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/skill-docket/skd/internal/backend"
	"github.com/skill-docket/skd/internal/expander"
	"github.com/skill-docket/skd/internal/model"
	"github.com/skill-docket/skd/internal/monitor"
	"github.com/skill-docket/skd/internal/planner"
	"github.com/skill-docket/skd/internal/retry"
)

// defaultLaunchCommand is sent to a freshly created agent's session
// immediately after creation when Config.LaunchCommand is empty.
const defaultLaunchCommand = "claude"

// Orchestrator is the sole writer of Data, the retry tracker, and the
// parameter store. It is not safe for concurrent use: callers serialize
// requests and ticks onto a single goroutine, per the single-threaded
// cooperative scheduling model.
type Orchestrator struct {
	data          *Data
	backend       backend.SessionBackend
	retryTracker  *retry.Tracker
	monitorCycle  *monitor.Cycle
	log           zerolog.Logger
	launchCommand string
	lastAttemptMs map[string]int64
	observedTasks map[string]*string
}

// Config bundles the dependencies an Orchestrator needs at construction.
type Config struct {
	Data          *Data
	Backend       backend.SessionBackend
	Probe         monitor.SSHProbe
	Log           zerolog.Logger
	LaunchCommand string
}

// New constructs an Orchestrator wired to the given backend and data
// aggregate. It owns the retry tracker and monitoring cycle internally.
func New(cfg Config) (*Orchestrator, error) {
	if cfg.Data == nil {
		return nil, fmt.Errorf("orchestrator: data is required")
	}
	if cfg.Backend == nil {
		return nil, fmt.Errorf("orchestrator: backend is required")
	}
	policy := retry.NewPolicy(cfg.Data.Settings.MaxRetries, cfg.Data.Settings.BackoffStrategy, 1000)
	probe := cfg.Probe
	if probe == nil {
		probe = monitor.FuncProbe(func(string) bool { return true })
	}
	cycle, err := monitor.NewCycle(cfg.Backend, cfg.Data.Messages, probe,
		cfg.Data.Settings.ReadyPromptPattern, int64(cfg.Data.Settings.HeartbeatTimeout))
	if err != nil {
		return nil, fmt.Errorf("orchestrator: build monitoring cycle: %w", err)
	}
	launch := cfg.LaunchCommand
	if launch == "" {
		launch = defaultLaunchCommand
	}
	return &Orchestrator{
		data:          cfg.Data,
		backend:       cfg.Backend,
		retryTracker:  retry.NewTracker(policy),
		monitorCycle:  cycle,
		log:           cfg.Log,
		launchCommand: launch,
		lastAttemptMs: map[string]int64{},
		observedTasks: map[string]*string{},
	}, nil
}

// Data returns the orchestrator's state aggregate.
func (o *Orchestrator) Data() *Data { return o.data }

// TickResult summarizes the outcome of one convergence+monitoring tick,
// returned so a caller (the transport layer, a CLI, or a test) can
// report it without re-deriving state.
type TickResult struct {
	RunID     string
	Planned   int
	Executed  int
	Failed    int
	Skipped   int
	Assessed  []monitor.Assessment
	StartedAt time.Time
}

// Tick runs exactly one iteration of the orchestrator's main loop:
// observe, plan, expand, filter by retry eligibility, execute, then
// assess agent health and deliver pending messages. Ordering within a
// tick is sequential and deterministic.
func (o *Orchestrator) Tick() (TickResult, error) {
	runID := uuid.NewString()
	result := TickResult{RunID: runID, StartedAt: time.Now().UTC()}

	observed := o.observe()
	desired := o.desired()

	plan := planner.Plan(desired, observed)
	result.Planned = len(plan)

	expanded, bindings := expander.Expand(plan, o.launchCommand)
	agentBySession := make(map[string]string, len(bindings))
	for _, binding := range bindings {
		agentBySession[binding.Session] = binding.Agent
	}

	nowMs := time.Now().UnixMilli()
	for _, action := range expanded {
		key := action.Key()
		if !o.retryTracker.CanRetry(key) {
			result.Skipped++
			continue
		}
		if last, attempted := o.lastAttemptMs[key]; attempted {
			delay := int64(o.retryTracker.NextDelayMs(key))
			if nowMs-last < delay {
				result.Skipped++
				continue
			}
		}
		o.lastAttemptMs[key] = nowMs
		if err := o.backend.ExecuteAction(action); err != nil {
			o.retryTracker.RecordFailure(key)
			result.Failed++
			o.log.Warn().Err(err).Str("action", string(action.Kind)).Msg("action execution failed")
			continue
		}
		o.retryTracker.RecordSuccess(key)
		delete(o.lastAttemptMs, key)
		result.Executed++
		o.applyActionEffects(action, agentBySession)
	}

	for _, agent := range o.data.Agents.All() {
		if agent.Session == nil {
			// Not yet converged (CreateAgent hasn't run, or its
			// CreateSession is still retry-backed-off): there is no
			// session to capture, and the agent stays at whatever
			// health it already has (Unknown if never assessed).
			continue
		}
		assessment := o.monitorCycle.Assess(agent, nowMs)
		o.data.Agents.Put(*agent)
		result.Assessed = append(result.Assessed, assessment)
		if assessment.Overall != model.HealthHealthy {
			continue
		}
		if err := o.monitorCycle.DeliverPending(agent); err != nil {
			o.log.Warn().Err(err).Str("agent", agent.Name).Msg("message delivery failed")
		}
	}

	return result, nil
}

// applyActionEffects updates registry-level state the backend itself
// does not track, once an action has actually executed successfully.
// agentBySession resolves a just-created session back to the agent
// expander.Expand bound it to; a session is only recorded onto its
// agent here, after CreateSession has succeeded, so an agent whose
// CreateSession is still pending or retry-backed-off keeps Session nil
// and stays out of the monitoring cycle. KillAgent never reaches here:
// the expander replaces it with KillSession before execution, and
// Stop already removes the agent from the registry synchronously at
// request time. UpdateAssignment is a no-op on TmuxBackend (see
// internal/backend/tmux.go), so its success is recorded here as the
// agent's observed assignment, which observe reports to the planner on
// later ticks. PlaceAgent has no effect here.
func (o *Orchestrator) applyActionEffects(action backend.Action, agentBySession map[string]string) {
	switch action.Kind {
	case backend.ActionCreateSession:
		if agentName, ok := agentBySession[action.Name]; ok {
			if agent := o.data.Agents.Get(agentName); agent != nil {
				session := action.Name
				agent.Session = &session
				o.data.Agents.Put(*agent)
			}
		}
	case backend.ActionUpdateAssignment:
		o.observedTasks[action.Agent] = action.Task
		if agent := o.data.Agents.Get(action.Agent); agent != nil {
			agent.Task = action.Task
			o.data.Agents.Put(*agent)
		}
	}
}

// desired snapshots the registries into the planner's Desired shape.
func (o *Orchestrator) desired() planner.Desired {
	agents := o.data.Agents.All()
	out := make([]model.Agent, len(agents))
	for i, a := range agents {
		out[i] = *a
	}
	return planner.Desired{Agents: out, Layouts: o.data.Layouts}
}

// observe builds the planner's Observed shape. Live sessions come from
// the backend; a live session named by the expander's convention is
// bound to the agent its name encodes, even after that agent has left
// the registry. Task assignments are the ones recorded by successful
// UpdateAssignment actions. The backend reports no pane geometry, so
// Layouts holds the desired layouts and the planner's layout rule never
// fires from Tick.
func (o *Orchestrator) observe() planner.Observed {
	sessions := map[string]bool{}
	boundAgent := map[string]string{}
	tasks := map[string]*string{}
	prefix := expander.SessionName("")
	for _, name := range o.backend.ListSessions() {
		sessions[name] = true
		if strings.HasPrefix(name, prefix) {
			boundAgent[name] = strings.TrimPrefix(name, prefix)
		}
	}
	for _, agent := range o.data.Agents.All() {
		if agent.Session != nil && sessions[*agent.Session] {
			boundAgent[*agent.Session] = agent.Name
		}
		tasks[agent.Name] = o.observedTasks[agent.Name]
	}
	return planner.Observed{
		Sessions:   sessions,
		BoundAgent: boundAgent,
		Layouts:    o.data.Layouts,
		Tasks:      tasks,
	}
}
