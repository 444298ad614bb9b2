package backend

import "fmt"

// MockBackend is a test double that records every action, maintains an
// in-memory session list, and serves pre-seeded pane-capture responses.
// It is not required to be safe for concurrent use.
type MockBackend struct {
	Actions      []Action
	Sessions     []string
	PaneCaptures map[string]string

	// FailAction, when set, is consulted before executing an action; if
	// it returns an error, ExecuteAction returns that error without
	// recording the action as executed (session list untouched),
	// simulating a backend-side failure for retry/backoff tests.
	FailAction func(Action) error
}

// NewMockBackend returns an empty mock.
func NewMockBackend() *MockBackend {
	return &MockBackend{PaneCaptures: make(map[string]string)}
}

// NewMockBackendWithSessions returns a mock pre-seeded with the given sessions.
func NewMockBackendWithSessions(sessions []string) *MockBackend {
	return &MockBackend{Sessions: sessions, PaneCaptures: make(map[string]string)}
}

// SetCapture pre-loads a pane capture result for target.
func (m *MockBackend) SetCapture(target, content string) {
	m.PaneCaptures[target] = content
}

// ClearActions empties the recorded action log.
func (m *MockBackend) ClearActions() {
	m.Actions = nil
}

func (m *MockBackend) ExecuteAction(action Action) error {
	if m.FailAction != nil {
		if err := m.FailAction(action); err != nil {
			return err
		}
	}
	switch action.Kind {
	case ActionCreateSession:
		if !m.SessionExists(action.Name) {
			m.Sessions = append(m.Sessions, action.Name)
		}
	case ActionKillSession:
		out := m.Sessions[:0]
		for _, s := range m.Sessions {
			if s != action.Name {
				out = append(out, s)
			}
		}
		m.Sessions = out
	}
	m.Actions = append(m.Actions, action)
	return nil
}

func (m *MockBackend) SessionExists(name string) bool {
	for _, s := range m.Sessions {
		if s == name {
			return true
		}
	}
	return false
}

func (m *MockBackend) ListSessions() []string {
	out := make([]string, len(m.Sessions))
	copy(out, m.Sessions)
	return out
}

func (m *MockBackend) CapturePane(target string) (string, error) {
	content, ok := m.PaneCaptures[target]
	if !ok {
		return "", fmt.Errorf("mock: no capture for '%s'", target)
	}
	return content, nil
}

var _ SessionBackend = (*MockBackend)(nil)
