package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewCreatesLogFile(t *testing.T) {
	dir := t.TempDir()
	logger, err := New(dir, false)
	require.NoError(t, err)
	defer logger.Close()

	logger.Info().Str("agent", "w1").Msg("tick started")

	data, err := os.ReadFile(filepath.Join(dir, logFileName))
	require.NoError(t, err)
	require.Contains(t, string(data), "tick started")
	require.Contains(t, string(data), `"agent":"w1"`)
}

func TestCloseIsIdempotentOnNil(t *testing.T) {
	var logger *Logger
	require.NoError(t, logger.Close())
}
