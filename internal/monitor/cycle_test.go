package monitor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skill-docket/skd/internal/backend"
	"github.com/skill-docket/skd/internal/expander"
	"github.com/skill-docket/skd/internal/messagequeue"
	"github.com/skill-docket/skd/internal/model"
)

const readyPattern = `\$\s*$`

func newTestCycle(t *testing.T, mock *backend.MockBackend, probe SSHProbe) *Cycle {
	t.Helper()
	c, err := NewCycle(mock, messagequeue.New(), probe, readyPattern, 30000)
	require.NoError(t, err)
	return c
}

func TestAssessHealthyOnRecentHeartbeat(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("worker-1")
	mock.SetCapture(session+":0.0", "running tests\n$ ")

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)

	assessment := c.Assess(&agent, 1000)
	assert.Equal(t, model.HealthHealthy, assessment.Overall)
	assert.Equal(t, model.HealthHealthy, agent.Health)
	require.NotNil(t, agent.LastHeartbeatMs)
	assert.Equal(t, int64(1000), *agent.LastHeartbeatMs)
}

func TestAssessInfrastructureFailureShortCircuits(t *testing.T) {
	mock := backend.NewMockBackend() // no capture registered -> CapturePane errors

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)

	assessment := c.Assess(&agent, 1000)
	assert.Equal(t, model.HealthUnhealthy, assessment.Overall)
	require.Len(t, assessment.Signals, 1)
	assert.Equal(t, SignalInfrastructureFailed, assessment.Signals[0].Kind)
}

func TestAssessStaleHeartbeatWithinTimeoutIsDegraded(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("worker-1")
	mock.SetCapture(session+":0.0", "still thinking...")

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)
	last := int64(1000)
	agent.LastHeartbeatMs = &last

	assessment := c.Assess(&agent, 1000+10000) // 10s elapsed, under 30s timeout
	assert.Equal(t, model.HealthDegraded, assessment.Overall)
}

func TestAssessStaleHeartbeatPastTimeoutIsUnhealthy(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("worker-1")
	mock.SetCapture(session+":0.0", "still thinking...")

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)
	last := int64(1000)
	agent.LastHeartbeatMs = &last

	assessment := c.Assess(&agent, 1000+60000) // 60s elapsed, over 30s timeout
	assert.Equal(t, model.HealthUnhealthy, assessment.Overall)
}

func TestAssessErrorPatternIsUnhealthy(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("worker-1")
	mock.SetCapture(session+":0.0", "Traceback (most recent call last)\n$ ")

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)

	assessment := c.Assess(&agent, 1000)
	assert.Equal(t, model.HealthUnhealthy, assessment.Overall)
	found := false
	for _, s := range assessment.Signals {
		if s.Kind == SignalErrorPatternDetected && s.Pattern == "traceback" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestAssessSSHDisconnectedDegradesUnlessOtherwiseUnhealthy(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("bastion")
	mock.SetCapture(session+":0.0", "last login\n$ ")

	probe := FuncProbe(func(agent string) bool { return false })
	c := newTestCycle(t, mock, probe)
	agent := model.NewAgent("bastion", "ops", "/tmp/work", model.AgentKindSSH)

	assessment := c.Assess(&agent, 1000)
	assert.Equal(t, model.HealthDegraded, assessment.Overall)
}

func TestAssessUnknownWithNoHeartbeatEverSeen(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("worker-1")
	mock.SetCapture(session+":0.0", "booting up...")

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)

	assessment := c.Assess(&agent, 1000)
	assert.Equal(t, model.HealthUnknown, assessment.Overall)
	assert.Empty(t, assessment.Signals)
}

func TestAssessExplicitErrorOverridesEverything(t *testing.T) {
	mock := backend.NewMockBackend()
	session := expander.SessionName("worker-1")
	mock.SetCapture(session+":0.0", "all good\n$ ")

	c := newTestCycle(t, mock, nil)
	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)

	assessment := c.Assess(&agent, 1000, ExplicitError("agent crashed"))
	assert.Equal(t, model.HealthUnhealthy, assessment.Overall)
}

func TestDeliverPendingSendsOldestAndStampsOnSuccess(t *testing.T) {
	mock := backend.NewMockBackend()
	queue := messagequeue.New()
	queue.Enqueue("pm", "worker-1", "status please")

	c, err := NewCycle(mock, queue, nil, readyPattern, 30000)
	require.NoError(t, err)

	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)
	require.NoError(t, c.DeliverPending(&agent))

	require.Len(t, mock.Actions, 1)
	assert.Equal(t, backend.ActionSendKeys, mock.Actions[0].Kind)
	assert.Empty(t, queue.PendingFor("worker-1"))
}

func TestDeliverPendingNoMessagesIsNoop(t *testing.T) {
	mock := backend.NewMockBackend()
	c, err := NewCycle(mock, messagequeue.New(), nil, readyPattern, 30000)
	require.NoError(t, err)

	agent := model.NewAgent("worker-1", "worker", "/tmp/work", model.AgentKindClaude)
	require.NoError(t, c.DeliverPending(&agent))
	assert.Empty(t, mock.Actions)
}

func TestLastNonEmptyLineSkipsTrailingBlankLines(t *testing.T) {
	assert.Equal(t, "$ ", lastNonEmptyLine("output\n\n$ \n\n"))
	assert.Equal(t, "", lastNonEmptyLine(""))
}

func TestScanErrorPatternsIsCaseInsensitiveAndOrdered(t *testing.T) {
	assert.Equal(t, "panic:", scanErrorPatterns("boom PANIC: nil pointer"))
	assert.Equal(t, "error:", scanErrorPatterns("fatal error: disk full"))
	assert.Equal(t, "", scanErrorPatterns("all clear"))
}
