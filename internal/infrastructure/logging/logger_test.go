package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, err := New(Config{Level: "debug", OutputPaths: []string{"stdout"}})
	require.NoError(t, err)
	require.NotNil(t, logger)
	logger.Debug("debug message")

	_, err = New(Config{Level: "verbose"})
	assert.Error(t, err)
}

func TestConstructorsNeverReturnNil(t *testing.T) {
	assert.NotNil(t, NewDefault())
	assert.NotNil(t, NewDevelopment())
	assert.NotNil(t, NewNop())
}

func TestConfigDefaults(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.False(t, cfg.Development)

	dev := DevelopmentConfig()
	assert.Equal(t, "debug", dev.Level)
	assert.True(t, dev.Development)
}
