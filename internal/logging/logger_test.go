package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDevelopment(t *testing.T) {
	logger, err := New(true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.True(t, logger.Core().Enabled(-1)) // debug enabled in dev mode
}

func TestNewProduction(t *testing.T) {
	logger, err := New(false)
	require.NoError(t, err)
	require.NotNil(t, logger)
	require.False(t, logger.Core().Enabled(-1)) // debug disabled in prod mode
}
