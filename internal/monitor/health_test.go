package monitor

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skill-docket/skd/internal/model"
)

func TestHealthSignalTagged(t *testing.T) {
	sig := HeartbeatStale(120)
	b, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"heartbeat_stale"`)
	assert.Contains(t, string(b), `"age_secs":120`)

	var back HealthSignal
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, sig, back)
}

func TestHealthAssessmentRoundTrip(t *testing.T) {
	assessment := Assessment{
		Agent:   "worker-1",
		Overall: model.HealthDegraded,
		Signals: []HealthSignal{
			HeartbeatStale(45),
			SSHDisconnected(),
		},
		Reason:      "heartbeat stale, ssh disconnected",
		TimestampMs: 1700000000000,
	}
	b, err := json.Marshal(assessment)
	require.NoError(t, err)

	var back Assessment
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, assessment.Agent, back.Agent)
	assert.Equal(t, assessment.Overall, back.Overall)
	assert.Len(t, back.Signals, 2)
}

func TestInfrastructureFailedTagged(t *testing.T) {
	sig := InfrastructureFailed("pane not found")
	b, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"reason":"pane not found"`)
}

func TestExplicitErrorTagged(t *testing.T) {
	sig := ExplicitError("agent reported a fatal condition")
	b, err := json.Marshal(sig)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"type":"explicit_error"`)
	assert.Contains(t, string(b), "fatal condition")
}
