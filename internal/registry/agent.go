// Package registry holds the daemon's entity registries: named
// collections of agents, folders, and tiles, each exclusively owned by
// the top-level Data aggregate and guarded for concurrent access the
// way the teacher's module registry guards its factory map.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/skill-docket/skd/internal/model"
)

// AgentRegistry is the authoritative set of agents the orchestrator
// knows about, keyed by name.
type AgentRegistry struct {
	mu     sync.RWMutex
	agents map[string]*model.Agent
}

// NewAgentRegistry returns an empty registry.
func NewAgentRegistry() *AgentRegistry {
	return &AgentRegistry{agents: map[string]*model.Agent{}}
}

// Put inserts or replaces an agent.
func (r *AgentRegistry) Put(agent model.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a := agent
	r.agents[agent.Name] = &a
}

// Get returns the agent with the given name, or nil if unknown.
func (r *AgentRegistry) Get(name string) *model.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.agents[name]
}

// Remove deletes an agent by name. A no-op if the name is unknown.
func (r *AgentRegistry) Remove(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.agents, name)
}

// Names returns every agent name, sorted for deterministic iteration.
func (r *AgentRegistry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every agent, sorted by name.
func (r *AgentRegistry) All() []*model.Agent {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]*model.Agent, 0, len(names))
	for _, name := range names {
		out = append(out, r.agents[name])
	}
	return out
}

// Len reports the number of registered agents.
func (r *AgentRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// CreateUnique inserts a new agent, failing if the name is already taken.
func (r *AgentRegistry) CreateUnique(agent model.Agent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.agents[agent.Name]; exists {
		return fmt.Errorf("registry: agent %q already exists", agent.Name)
	}
	a := agent
	r.agents[agent.Name] = &a
	return nil
}
