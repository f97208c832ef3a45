package obs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ukrail/railplanner/internal/obs"
)

func TestNewLogger_BuildsForEveryKnownLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error", "nonsense"} {
		log, err := obs.NewLogger(level)
		require.NoError(t, err)
		assert.NotNil(t, log)
	}
}
