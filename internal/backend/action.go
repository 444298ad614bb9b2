// Package backend defines the SessionBackend port: the narrow capability
// set the orchestration core depends on to create/destroy terminal
// sessions, split panes, place agents, and capture pane output. It also
// defines the tagged Action/Response wire types exchanged across that
// port, and a MockBackend test double.
package backend

import (
	"encoding/json"
	"fmt"

	"github.com/skill-docket/skd/internal/model"
)

// ActionKind discriminates an Action's variant on the wire.
type ActionKind string

const (
	ActionCreateSession     ActionKind = "create_session"
	ActionKillSession       ActionKind = "kill_session"
	ActionSplitPane         ActionKind = "split_pane"
	ActionPlaceAgent        ActionKind = "place_agent"
	ActionCreateAgent       ActionKind = "create_agent"
	ActionKillAgent         ActionKind = "kill_agent"
	ActionConnectSSH        ActionKind = "connect_ssh"
	ActionUpdateAssignment  ActionKind = "update_assignment"
	ActionSendKeys          ActionKind = "send_keys"
)

// Action is a tagged variant covering every backend-level and logical
// effect the convergence loop can request. Only the fields relevant to
// Kind are populated; MarshalJSON/UnmarshalJSON project to and from the
// tagged wire form the rest of the system (and the original daemon this
// was ported from) uses.
type Action struct {
	Kind ActionKind

	// CreateSession
	Name string
	Cwd  string

	// SplitPane
	Session   string
	Direction model.Direction
	Percent   uint32

	// PlaceAgent
	PaneID string
	Agent  string

	// CreateAgent
	Role string
	Path string

	// ConnectSsh
	Host string
	Port uint16

	// UpdateAssignment
	Task *string

	// SendKeys
	Target string
	Keys   string
}

func CreateSession(name, cwd string) Action {
	return Action{Kind: ActionCreateSession, Name: name, Cwd: cwd}
}

func KillSession(name string) Action {
	return Action{Kind: ActionKillSession, Name: name}
}

func SplitPane(session string, direction model.Direction, percent uint32) Action {
	return Action{Kind: ActionSplitPane, Session: session, Direction: direction, Percent: percent}
}

func PlaceAgent(paneID, agent string) Action {
	return Action{Kind: ActionPlaceAgent, PaneID: paneID, Agent: agent}
}

func CreateAgent(name, role, path string) Action {
	return Action{Kind: ActionCreateAgent, Name: name, Role: role, Path: path}
}

func KillAgent(name string) Action {
	return Action{Kind: ActionKillAgent, Name: name}
}

func ConnectSSH(agent, host string, port uint16) Action {
	return Action{Kind: ActionConnectSSH, Agent: agent, Host: host, Port: port}
}

func UpdateAssignment(agent string, task *string) Action {
	return Action{Kind: ActionUpdateAssignment, Agent: agent, Task: task}
}

func SendKeys(target, keys string) Action {
	return Action{Kind: ActionSendKeys, Target: target, Keys: keys}
}

// Key returns a stable string identifier for the action, used by the
// retry controller to key per-action attempt state. It is the action's
// canonical JSON serialization.
func (a Action) Key() string {
	b, err := json.Marshal(a)
	if err != nil {
		return fmt.Sprintf("%s:%s:%s", a.Kind, a.Name, a.Target)
	}
	return string(b)
}

// MarshalJSON projects the Action onto its tagged wire form.
func (a Action) MarshalJSON() ([]byte, error) {
	m := map[string]any{"action": a.Kind}
	switch a.Kind {
	case ActionCreateSession:
		m["name"] = a.Name
		m["cwd"] = a.Cwd
	case ActionKillSession:
		m["name"] = a.Name
	case ActionSplitPane:
		m["session"] = a.Session
		m["direction"] = a.Direction
		m["percent"] = a.Percent
	case ActionPlaceAgent:
		m["pane_id"] = a.PaneID
		m["agent"] = a.Agent
	case ActionCreateAgent:
		m["name"] = a.Name
		m["role"] = a.Role
		m["path"] = a.Path
	case ActionKillAgent:
		m["name"] = a.Name
	case ActionConnectSSH:
		m["agent"] = a.Agent
		m["host"] = a.Host
		m["port"] = a.Port
	case ActionUpdateAssignment:
		m["agent"] = a.Agent
		m["task"] = a.Task
	case ActionSendKeys:
		m["target"] = a.Target
		m["keys"] = a.Keys
	}
	return json.Marshal(m)
}

// UnmarshalJSON reconstructs an Action from its tagged wire form.
func (a *Action) UnmarshalJSON(data []byte) error {
	var raw struct {
		Action    ActionKind       `json:"action"`
		Name      string           `json:"name"`
		Cwd       string           `json:"cwd"`
		Session   string           `json:"session"`
		Direction model.Direction  `json:"direction"`
		Percent   uint32           `json:"percent"`
		PaneID    string           `json:"pane_id"`
		Agent     string           `json:"agent"`
		Role      string           `json:"role"`
		Path      string           `json:"path"`
		Host      string           `json:"host"`
		Port      uint16           `json:"port"`
		Task      *string          `json:"task"`
		Target    string           `json:"target"`
		Keys      string           `json:"keys"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*a = Action{
		Kind:      raw.Action,
		Name:      raw.Name,
		Cwd:       raw.Cwd,
		Session:   raw.Session,
		Direction: raw.Direction,
		Percent:   raw.Percent,
		PaneID:    raw.PaneID,
		Agent:     raw.Agent,
		Role:      raw.Role,
		Path:      raw.Path,
		Host:      raw.Host,
		Port:      raw.Port,
		Task:      raw.Task,
		Target:    raw.Target,
		Keys:      raw.Keys,
	}
	return nil
}

// Response is the tagged result of executing an action over a transport
// boundary (the transport itself is out of scope for the core).
type Response struct {
	Status  string `json:"status"`
	Output  string `json:"output,omitempty"`
	Message string `json:"message,omitempty"`
}

func OkResponse(output string) Response {
	return Response{Status: "ok", Output: output}
}

func ErrResponse(message string) Response {
	return Response{Status: "error", Message: message}
}
