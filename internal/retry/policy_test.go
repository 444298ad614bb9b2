package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultPolicy(t *testing.T) {
	p := DefaultPolicy()
	assert.Equal(t, uint32(3), p.MaxRetries)
	assert.Equal(t, uint64(1000), p.BaseDelayMs)
	assert.Equal(t, StrategyExponential, p.Strategy)
}

func TestShouldRetryWithinBudget(t *testing.T) {
	p := NewPolicy(3, StrategyFixed, 100)
	assert.True(t, p.ShouldRetry(0))
	assert.True(t, p.ShouldRetry(1))
	assert.True(t, p.ShouldRetry(2))
	assert.False(t, p.ShouldRetry(3))
	assert.False(t, p.ShouldRetry(4))
}

func TestFixedDelay(t *testing.T) {
	p := NewPolicy(3, StrategyFixed, 500)
	assert.Equal(t, uint64(500), p.DelayMs(0))
	assert.Equal(t, uint64(500), p.DelayMs(1))
	assert.Equal(t, uint64(500), p.DelayMs(5))
}

func TestLinearDelay(t *testing.T) {
	p := NewPolicy(5, StrategyLinear, 1000)
	assert.Equal(t, uint64(1000), p.DelayMs(0))
	assert.Equal(t, uint64(2000), p.DelayMs(1))
	assert.Equal(t, uint64(3000), p.DelayMs(2))
}

func TestExponentialDelay(t *testing.T) {
	p := NewPolicy(5, StrategyExponential, 1000)
	assert.Equal(t, uint64(1000), p.DelayMs(0))
	assert.Equal(t, uint64(2000), p.DelayMs(1))
	assert.Equal(t, uint64(4000), p.DelayMs(2))
	assert.Equal(t, uint64(8000), p.DelayMs(3))
}
