// Package orchestrator owns the daemon's mutable state and drives its
// per-tick convergence loop: sample the backend, plan a diff, expand it
// to backend primitives, filter through the retry controller, execute,
// then run a monitoring cycle. See Orchestrator.Tick.
package orchestrator

import (
	"sync"

	"github.com/skill-docket/skd/internal/config"
	"github.com/skill-docket/skd/internal/messagequeue"
	"github.com/skill-docket/skd/internal/model"
	"github.com/skill-docket/skd/internal/paramstore"
	"github.com/skill-docket/skd/internal/registry"
)

// Data is the orchestrator's full in-memory state: everything a tick
// reads or mutates. It is owned exclusively by the Orchestrator and
// never accessed concurrently from another goroutine, per the
// single-writer scheduling model.
type Data struct {
	mu sync.RWMutex

	Settings    config.Settings
	Agents      *registry.AgentRegistry
	Folders     *registry.FolderRegistry
	Tiles       *registry.TileRegistry
	Tasks       []*model.TaskNode
	Messages    *messagequeue.Store
	Params      *paramstore.Store
	Layouts     map[string]*model.LayoutNode
	ConfigDir   string
	RoadmapPath string
}

// NewData constructs an empty Data aggregate seeded with the given
// settings and config directory.
func NewData(settings config.Settings, configDir string) *Data {
	return &Data{
		Settings:  settings,
		Agents:    registry.NewAgentRegistry(),
		Folders:   registry.NewFolderRegistry(),
		Tiles:     registry.NewTileRegistry(),
		Messages:  messagequeue.New(),
		Params:    paramstore.New(),
		Layouts:   map[string]*model.LayoutNode{},
		ConfigDir: configDir,
	}
}

// SetLayout records the desired layout for a session, or clears it when
// node is nil.
func (d *Data) SetLayout(session string, node *model.LayoutNode) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if node == nil {
		delete(d.Layouts, session)
		return
	}
	d.Layouts[session] = node
}

// Layout returns the desired layout for a session, if any.
func (d *Data) Layout(session string) *model.LayoutNode {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.Layouts[session]
}
