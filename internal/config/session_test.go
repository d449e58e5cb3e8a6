package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionsDefaults(t *testing.T) {
	s, err := NewSessions()
	require.NoError(t, err)

	assert.Equal(t, time.Hour, s.TTL)
	assert.Equal(t, time.Minute, s.SweepInterval)
	assert.Equal(t, 10000, s.MaxCells)
}

func TestNewSessionsFromEnv(t *testing.T) {
	t.Setenv("SESSION_TTL", "90s")
	t.Setenv("SESSION_SWEEP_INTERVAL", "5s")
	t.Setenv("SESSION_MAX_CELLS", "400")

	s, err := NewSessions()
	require.NoError(t, err)

	assert.Equal(t, 90*time.Second, s.TTL)
	assert.Equal(t, 5*time.Second, s.SweepInterval)
	assert.Equal(t, 400, s.MaxCells)
}

func TestNewSessionsInvalid(t *testing.T) {
	t.Setenv("SESSION_MAX_CELLS", "lots")

	_, err := NewSessions()
	assert.Error(t, err)
}
