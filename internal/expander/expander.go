// Package expander translates logical CreateAgent/KillAgent actions into
// the backend primitives that implement them. The expansion is pure and
// total: it never fails and never reads I/O.
package expander

import (
	"fmt"

	"github.com/skill-docket/skd/internal/backend"
)

// SessionName returns the backend session name bound to an agent name.
func SessionName(agentName string) string {
	return fmt.Sprintf("skd-%s", agentName)
}

// Binding records an agent-to-session relation produced by expanding a
// CreateAgent action, so the orchestrator can record it against the
// registry.
type Binding struct {
	Agent   string
	Session string
}

// Expand translates actions, in order, emitting backend-level primitives
// in place of CreateAgent/KillAgent. launchCommand is sent to a freshly
// created agent's session via SendKeys.
func Expand(actions []backend.Action, launchCommand string) ([]backend.Action, []Binding) {
	var expanded []backend.Action
	var bindings []Binding
	for _, action := range actions {
		switch action.Kind {
		case backend.ActionCreateAgent:
			session := SessionName(action.Name)
			expanded = append(expanded,
				backend.CreateSession(session, action.Path),
				backend.SendKeys(session, launchCommand),
			)
			bindings = append(bindings, Binding{Agent: action.Name, Session: session})
		case backend.ActionKillAgent:
			expanded = append(expanded, backend.KillSession(SessionName(action.Name)))
		default:
			expanded = append(expanded, action)
		}
	}
	return expanded, bindings
}
