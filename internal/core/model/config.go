package model

import "time"

const (
	DefaultDuration      = 12 * time.Minute
	DefaultCeiling       = 99 * time.Minute
	DefaultTickInterval  = time.Second
	DefaultFlashDuration = 600 * time.Millisecond
)

// DefaultPresets are the quick duration switches, in minutes.
var DefaultPresets = []int{12, 10, 8, 5, 3}

// TimerConfig contains runtime settings for the countdown state machine.
type TimerConfig struct {
	DefaultDuration time.Duration
	Ceiling         time.Duration
	Presets         []int
	TickInterval    time.Duration
	FlashDuration   time.Duration

	Label        string
	SoundEnabled bool
}

// DefaultTimerConfig returns the configuration used for a fresh session.
func DefaultTimerConfig() TimerConfig {
	return TimerConfig{
		DefaultDuration: DefaultDuration,
		Ceiling:         DefaultCeiling,
		Presets:         append([]int(nil), DefaultPresets...),
		TickInterval:    DefaultTickInterval,
		FlashDuration:   DefaultFlashDuration,
		SoundEnabled:    true,
	}
}

// Normalize fills zero values with defaults and keeps the default duration
// inside (0, Ceiling]. Ceiling never exceeds DefaultCeiling so minutes stay
// two digits. Whole seconds only.
func (config TimerConfig) Normalize() TimerConfig {
	if config.Ceiling < time.Second || config.Ceiling > DefaultCeiling {
		config.Ceiling = DefaultCeiling
	}
	config.Ceiling = config.Ceiling.Truncate(time.Second)
	if config.DefaultDuration < time.Second {
		config.DefaultDuration = DefaultDuration
	}
	if config.DefaultDuration > config.Ceiling {
		config.DefaultDuration = config.Ceiling
	}
	config.DefaultDuration = config.DefaultDuration.Truncate(time.Second)
	if config.TickInterval <= 0 {
		config.TickInterval = DefaultTickInterval
	}
	if config.FlashDuration <= 0 {
		config.FlashDuration = DefaultFlashDuration
	}

	presets := filterPresets(config.Presets, config.Ceiling)
	if len(presets) == 0 {
		presets = filterPresets(DefaultPresets, config.Ceiling)
	}
	config.Presets = presets
	return config
}

func filterPresets(minutes []int, ceiling time.Duration) []int {
	presets := make([]int, 0, len(minutes))
	for _, value := range minutes {
		if value > 0 && time.Duration(value)*time.Minute <= ceiling {
			presets = append(presets, value)
		}
	}
	return presets
}
