package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RejectsUnknownLevel(t *testing.T) {
	_, err := New(nil, Config{Level: "chatty"})
	require.Error(t, err)
}

func TestNew_DefaultsToInfo(t *testing.T) {
	log, err := New(nil, Config{Format: "console"})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(0))
	assert.False(t, log.Core().Enabled(-1))
}

func TestNormalizeFormat(t *testing.T) {
	assert.Equal(t, "console", normalizeFormat(" Console "))
	assert.Equal(t, "json", normalizeFormat("logfmt"))
}
