// Package planner implements the convergence planner: it diffs desired
// registry state against an observed backend snapshot and emits an
// ordered, idempotent action plan. No bodies for this stage survived in
// the retrieval pack's original sources (only its module declaration
// did), so the diff policy below is authored directly from the
// component's contract rather than ported, in the ordered-rule,
// skip-reason style the workflow scheduler uses.
package planner

import (
	"fmt"
	"sort"

	"github.com/skill-docket/skd/internal/backend"
	"github.com/skill-docket/skd/internal/expander"
	"github.com/skill-docket/skd/internal/model"
)

// Desired is the registry-derived target state for one convergence tick.
type Desired struct {
	// Agents is the full desired agent set, each carrying its own
	// desired Task assignment.
	Agents []model.Agent
	// Layouts maps session name to the desired pane layout for that
	// session. A session absent here has no layout requirement beyond
	// its agent existing.
	Layouts map[string]*model.LayoutNode
}

// Observed is a snapshot of live backend state plus last-known
// placements, gathered once at the start of a tick.
type Observed struct {
	// Sessions is the set of live session names.
	Sessions map[string]bool
	// BoundAgent maps a live session name to the agent name last placed
	// in it, if any.
	BoundAgent map[string]string
	// Layouts maps session name to the last-observed pane layout.
	Layouts map[string]*model.LayoutNode
	// Tasks maps agent name to its last-observed task assignment.
	Tasks map[string]*string
}

// Plan diffs desired against observed and returns the ordered action
// list per the four-rule policy: create missing agents, kill orphaned
// sessions, reconcile layout mismatches, then reconcile task
// assignment drift. Each agent is subject to at most one structural
// rule per tick; once rule 1 fires for an agent, rules 3 and 4 are
// skipped for it this tick since creation alone will converge it.
func Plan(desired Desired, observed Observed) []backend.Action {
	var actions []backend.Action
	handled := map[string]bool{}

	sortedAgents := make([]model.Agent, len(desired.Agents))
	copy(sortedAgents, desired.Agents)
	sort.Slice(sortedAgents, func(i, j int) bool { return sortedAgents[i].Name < sortedAgents[j].Name })

	// Rule 1: create agents whose session does not exist yet.
	for _, agent := range sortedAgents {
		session := expander.SessionName(agent.Name)
		if !observed.Sessions[session] {
			actions = append(actions, backend.CreateAgent(agent.Name, agent.Role, agent.Path))
			handled[agent.Name] = true
		}
	}

	// Rule 2: kill agents whose live session is no longer desired.
	desiredByName := make(map[string]model.Agent, len(sortedAgents))
	for _, agent := range sortedAgents {
		desiredByName[agent.Name] = agent
	}
	var orphanedSessions []string
	for session := range observed.Sessions {
		orphanedSessions = append(orphanedSessions, session)
	}
	sort.Strings(orphanedSessions)
	for _, session := range orphanedSessions {
		boundAgent, ok := observed.BoundAgent[session]
		if !ok {
			continue
		}
		if _, stillDesired := desiredByName[boundAgent]; !stillDesired {
			actions = append(actions, backend.KillAgent(boundAgent))
			handled[boundAgent] = true
		}
	}

	// Rule 3: reconcile layout mismatches per session, skipping agents
	// already handled this tick (their session doesn't exist yet).
	var sessions []string
	for session := range desired.Layouts {
		sessions = append(sessions, session)
	}
	sort.Strings(sessions)
	for _, session := range sessions {
		wantLayout := desired.Layouts[session]
		if wantLayout == nil {
			continue
		}
		if layoutOwnerHandled(wantLayout, handled) {
			continue
		}
		haveLayout := observed.Layouts[session]
		if wantLayout.Equal(haveLayout) {
			continue
		}
		splits, placements := expandLayout(session, wantLayout)
		actions = append(actions, splits...)
		actions = append(actions, placements...)
	}

	// Rule 4: reconcile task assignment drift.
	for _, agent := range sortedAgents {
		if handled[agent.Name] {
			continue
		}
		observedTask := observed.Tasks[agent.Name]
		if !stringPtrEqual(agent.Task, observedTask) {
			actions = append(actions, backend.UpdateAssignment(agent.Name, agent.Task))
		}
	}

	return actions
}

// layoutOwnerHandled reports whether any pane in the layout names an
// agent that rule 1 or rule 2 already handled this tick, in which case
// the layout is left for a later tick once the agent set stabilizes.
func layoutOwnerHandled(node *model.LayoutNode, handled map[string]bool) bool {
	if node == nil {
		return false
	}
	if node.Kind == model.LayoutKindPane {
		return handled[node.Agent]
	}
	for _, child := range node.Children {
		if layoutOwnerHandled(child.Node, handled) {
			return true
		}
	}
	return false
}

// expandLayout walks the desired tree top-down and returns the
// SplitPane sequence that builds it, followed by the PlaceAgent
// sequence in tree-traversal order. Pane identifiers are synthetic,
// sequential by creation order ("0" is the session's original pane);
// they need not match a real terminal multiplexer's own pane IDs, since
// TmuxBackend ignores PlaceAgent and the orchestrator records no
// placement from it.
func expandLayout(session string, root *model.LayoutNode) (splits, placements []backend.Action) {
	nextPane := 1
	walk(session, root, "0", &nextPane, &splits, &placements)
	return splits, placements
}

func walk(session string, node *model.LayoutNode, paneID string, nextPane *int, splits, placements *[]backend.Action) {
	if node == nil {
		return
	}
	if node.Kind == model.LayoutKindPane {
		*placements = append(*placements, backend.PlaceAgent(paneID, node.Agent))
		return
	}

	direction := model.DirectionHorizontal
	if node.Kind == model.LayoutKindCol {
		direction = model.DirectionVertical
	}

	for i, child := range node.Children {
		if i == 0 {
			walk(session, child.Node, paneID, nextPane, splits, placements)
			continue
		}
		newPane := fmt.Sprintf("%d", *nextPane)
		*nextPane++
		var percent uint32
		if child.Percent != nil {
			percent = uint32(*child.Percent)
		}
		*splits = append(*splits, backend.SplitPane(session, direction, percent))
		walk(session, child.Node, newPane, nextPane, splits, placements)
	}
}

func stringPtrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
