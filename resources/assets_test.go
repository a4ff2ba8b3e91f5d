package resources

import (
	"testing"

	"ddctimer/internal/core/timer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIconsAreEmbedded(t *testing.T) {
	for _, state := range []timer.State{timer.StateIdle, timer.StateRunning, timer.StatePaused, timer.StateEnded} {
		icon := StateIcon(state)
		require.NotNil(t, icon)
		assert.Contains(t, string(icon.Content()), "<svg")
	}
}

func TestIconIsCached(t *testing.T) {
	first := MustIcon("timer-idle.svg")
	second := MustIcon("timer-idle.svg")
	assert.Same(t, first, second)
}

func TestMissingIcon(t *testing.T) {
	_, err := Icon("nope.svg")
	assert.Error(t, err)
	assert.Panics(t, func() { MustIcon("nope.svg") })
}
