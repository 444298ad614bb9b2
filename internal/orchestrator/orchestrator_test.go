package orchestrator

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skill-docket/skd/internal/backend"
	"github.com/skill-docket/skd/internal/config"
	"github.com/skill-docket/skd/internal/model"
)

func newTestOrchestrator(t *testing.T, mock *backend.MockBackend) *Orchestrator {
	t.Helper()
	data := NewData(config.DefaultSettings(), t.TempDir())
	orch, err := New(Config{
		Data:          data,
		Backend:       mock,
		Log:           zerolog.Nop(),
		LaunchCommand: "claude",
	})
	require.NoError(t, err)
	return orch
}

func TestTickColdStartConvergence(t *testing.T) {
	mock := backend.NewMockBackend()
	orch := newTestOrchestrator(t, mock)
	_, err := orch.Start(CreateAgentRequest{Name: "w1", Role: "worker", Path: "/tmp/work", Kind: model.AgentKindClaude})
	require.NoError(t, err)

	result, err := orch.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Planned)
	assert.Equal(t, 2, result.Executed)
	require.Len(t, mock.Actions, 2)
	assert.Equal(t, backend.ActionCreateSession, mock.Actions[0].Kind)
	assert.Equal(t, "skd-w1", mock.Actions[0].Name)
	assert.Equal(t, backend.ActionSendKeys, mock.Actions[1].Kind)
	assert.Equal(t, "claude", mock.Actions[1].Keys)

	mock.ClearActions()
	second, err := orch.Tick()
	require.NoError(t, err)
	assert.Equal(t, 0, second.Planned)
	assert.Empty(t, mock.Actions)
}

func TestTickAgentRemoval(t *testing.T) {
	mock := backend.NewMockBackendWithSessions([]string{"skd-w1"})
	orch := newTestOrchestrator(t, mock)
	agent := model.NewAgent("w1", "worker", "/tmp/work", model.AgentKindClaude)
	session := "skd-w1"
	agent.Session = &session
	orch.data.Agents.Put(agent)

	orch.Stop("w1")
	result, err := orch.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Planned)
	require.Len(t, mock.Actions, 1)
	assert.Equal(t, backend.ActionKillSession, mock.Actions[0].Kind)
	assert.Equal(t, "skd-w1", mock.Actions[0].Name)
	assert.Nil(t, orch.data.Agents.Get("w1"))
}

func TestTickSkipsMonitoringForUnconvergedAgent(t *testing.T) {
	mock := backend.NewMockBackend()
	mock.FailAction = func(a backend.Action) error {
		if a.Kind == backend.ActionCreateSession {
			return fmt.Errorf("tmux: session creation failed")
		}
		return nil
	}
	orch := newTestOrchestrator(t, mock)
	_, err := orch.Start(CreateAgentRequest{Name: "w1", Role: "worker", Path: "/tmp/work", Kind: model.AgentKindClaude})
	require.NoError(t, err)

	result, err := orch.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Failed)
	assert.Empty(t, result.Assessed, "agent has no bound session yet and must not be captured")

	agent := orch.data.Agents.Get("w1")
	require.NotNil(t, agent)
	assert.Nil(t, agent.Session)
	assert.Equal(t, model.HealthUnknown, agent.Health)
}

func TestStartRejectsDuplicateName(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMockBackend())
	_, err := orch.Start(CreateAgentRequest{Name: "w1", Role: "worker", Path: "/tmp/a", Kind: model.AgentKindClaude})
	require.NoError(t, err)
	_, err = orch.Start(CreateAgentRequest{Name: "w1", Role: "worker", Path: "/tmp/b", Kind: model.AgentKindClaude})
	require.Error(t, err)
}

func TestStopUnknownAgentReturnsNotFound(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMockBackend())
	err := orch.Stop("ghost")
	require.Error(t, err)
}

func TestAssignUpdatesTaskOnNextTick(t *testing.T) {
	mock := backend.NewMockBackendWithSessions([]string{"skd-w1"})
	orch := newTestOrchestrator(t, mock)
	agent := model.NewAgent("w1", "worker", "/tmp/work", model.AgentKindClaude)
	session := "skd-w1"
	agent.Session = &session
	orch.data.Agents.Put(agent)

	task := "CMX1"
	require.NoError(t, orch.Assign("w1", &task))
	result, err := orch.Tick()
	require.NoError(t, err)
	assert.Equal(t, 1, result.Planned)
	require.Len(t, mock.Actions, 1)
	assert.Equal(t, backend.ActionUpdateAssignment, mock.Actions[0].Kind)
	updated := orch.data.Agents.Get("w1")
	require.NotNil(t, updated.Task)
	assert.Equal(t, "CMX1", *updated.Task)
}

func TestSendMessageDeliveredOnNextTick(t *testing.T) {
	mock := backend.NewMockBackendWithSessions([]string{"skd-w1"})
	mock.SetCapture("skd-w1:0.0", "$ ")
	orch := newTestOrchestrator(t, mock)
	agent := model.NewAgent("w1", "worker", "/tmp/work", model.AgentKindClaude)
	session := "skd-w1"
	agent.Session = &session
	orch.data.Agents.Put(agent)

	orch.SendMessage("pm", "w1", "ship it")
	_, err := orch.Tick()
	require.NoError(t, err)

	found := false
	for _, action := range mock.Actions {
		if action.Kind == backend.ActionSendKeys && action.Target == "skd-w1:0.0" {
			found = true
		}
	}
	assert.True(t, found, "expected a SendKeys action delivering the queued message")
}

func TestViewReturnsAllAgents(t *testing.T) {
	orch := newTestOrchestrator(t, backend.NewMockBackend())
	_, err := orch.Start(CreateAgentRequest{Name: "b", Role: "worker", Path: "/tmp/b", Kind: model.AgentKindClaude})
	require.NoError(t, err)
	_, err = orch.Start(CreateAgentRequest{Name: "a", Role: "worker", Path: "/tmp/a", Kind: model.AgentKindClaude})
	require.NoError(t, err)

	agents := orch.View()
	require.Len(t, agents, 2)
	assert.Equal(t, "a", agents[0].Name)
	assert.Equal(t, "b", agents[1].Name)
}
