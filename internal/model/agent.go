// Package model defines the plain data types shared across the daemon:
// agents, task nodes, messages, folders, tiles, and layout trees.
package model

// AgentKind distinguishes how an agent's process is driven.
type AgentKind string

const (
	AgentKindClaude  AgentKind = "claude"
	AgentKindConsole AgentKind = "console"
	AgentKindSSH     AgentKind = "ssh"
)

// AgentStatus is the agent's coarse activity state.
type AgentStatus string

const (
	AgentStatusIdle    AgentStatus = "idle"
	AgentStatusBusy    AgentStatus = "busy"
	AgentStatusStalled AgentStatus = "stalled"
	AgentStatusError   AgentStatus = "error"
	AgentStatusDead    AgentStatus = "dead"
)

// HealthState is the aggregated health verdict produced by the monitoring cycle.
type HealthState string

const (
	HealthHealthy   HealthState = "healthy"
	HealthDegraded  HealthState = "degraded"
	HealthUnhealthy HealthState = "unhealthy"
	HealthUnknown   HealthState = "unknown"
)

// Agent is a long-running interactive process supervised by the daemon.
//
// Session is set iff the agent is currently placed in a live backend
// session. Health starts at HealthUnknown until the first monitoring
// assessment runs. A transition to AgentStatusDead is terminal within a
// run of the daemon.
type Agent struct {
	Name             string      `json:"name" yaml:"name"`
	Role             string      `json:"role" yaml:"role"`
	Kind             AgentKind   `json:"kind" yaml:"kind"`
	Task             *string     `json:"task,omitempty" yaml:"task,omitempty"`
	Path             string      `json:"path" yaml:"path"`
	Status           AgentStatus `json:"status" yaml:"status"`
	StatusNotes      string      `json:"status_notes,omitempty" yaml:"status_notes,omitempty"`
	Health           HealthState `json:"health" yaml:"health"`
	LastHeartbeatMs  *int64      `json:"last_heartbeat_ms,omitempty" yaml:"last_heartbeat_ms,omitempty"`
	Session          *string     `json:"session,omitempty" yaml:"session,omitempty"`
}

// NewAgent returns an Agent with the defaults the registry expects on
// creation: idle status, unknown health, no session bound yet.
func NewAgent(name, role, path string, kind AgentKind) Agent {
	return Agent{
		Name:   name,
		Role:   role,
		Path:   path,
		Kind:   kind,
		Status: AgentStatusIdle,
		Health: HealthUnknown,
	}
}
