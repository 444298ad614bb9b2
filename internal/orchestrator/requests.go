package orchestrator

import (
	"fmt"

	"github.com/skill-docket/skd/internal/model"
	"github.com/skill-docket/skd/internal/skderrors"
)

// CreateAgentRequest describes a caller's desired new agent. Issuing it
// mutates desired state only; the resulting session is materialized on
// the next Tick.
type CreateAgentRequest struct {
	Name string
	Role string
	Path string
	Kind model.AgentKind
}

// Start registers a new desired agent, rejecting a duplicate name with
// skderrors.Conflict. Every request mutates desired state only, per the
// orchestrator's ownership model; the session itself is created on the
// orchestrator's next tick.
func (o *Orchestrator) Start(req CreateAgentRequest) (model.Agent, error) {
	agent := model.NewAgent(req.Name, req.Role, req.Path, req.Kind)
	if err := o.data.Agents.CreateUnique(agent); err != nil {
		return model.Agent{}, skderrors.Wrap(skderrors.KindConflict,
			fmt.Sprintf("agent %s already exists", req.Name), err)
	}
	return agent, nil
}

// Stop removes a desired agent by name. The next tick kills its
// session.
func (o *Orchestrator) Stop(name string) error {
	if o.data.Agents.Get(name) == nil {
		return skderrors.New(skderrors.KindNotFound, fmt.Sprintf("agent %s not found", name))
	}
	o.data.Agents.Remove(name)
	return nil
}

// Assign sets or clears (task == nil) an agent's desired task
// assignment. The next tick reconciles it via UpdateAssignment.
func (o *Orchestrator) Assign(name string, task *string) error {
	agent := o.data.Agents.Get(name)
	if agent == nil {
		return skderrors.New(skderrors.KindNotFound, fmt.Sprintf("agent %s not found", name))
	}
	agent.Task = task
	o.data.Agents.Put(*agent)
	return nil
}

// SendMessage enqueues a message for delivery to recipient on a future
// tick's monitoring cycle.
func (o *Orchestrator) SendMessage(sender, recipient, text string) *model.Message {
	return o.data.Messages.Enqueue(sender, recipient, text)
}

// View returns a read-only snapshot of every known agent, sorted by
// name, for status reporting.
func (o *Orchestrator) View() []*model.Agent {
	return o.data.Agents.All()
}
