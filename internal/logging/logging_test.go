package logging

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "logs", "lovestory.log")

	logger, err := New("debug", file)
	require.NoError(t, err)
	logger.Debug("section changed", zap.Int("to", 3))
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), "section changed")
	assert.Contains(t, string(data), `"to":3`)
}

func TestNewRespectsLevel(t *testing.T) {
	file := filepath.Join(t.TempDir(), "l.log")
	logger, err := New("warn", file)
	require.NoError(t, err)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()

	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestNewRejectsBadLevel(t *testing.T) {
	_, err := New("loud", "")
	assert.Error(t, err)
}

func TestNamedNil(t *testing.T) {
	assert.NotNil(t, Named(nil, "x"))
}
