package preferences

import (
	"time"

	"ddctimer/internal/core/model"
)

// MaxCeilingMinutes is the largest ceiling the clock face can show.
const MaxCeilingMinutes = int(model.DefaultCeiling / time.Minute)

// Settings defines editable user preferences.
type Settings struct {
	RoundMinutes   int
	CeilingMinutes int
	Label          string
	AppName        string
	SoundEnabled   bool
	Fullscreen     bool
	LogLevel       string
}

// DefaultSettings returns default settings for the DDC timer.
func DefaultSettings() Settings {
	return Settings{
		RoundMinutes:   int(model.DefaultDuration / time.Minute),
		CeilingMinutes: MaxCeilingMinutes,
		AppName:        "DDC Timer",
		SoundEnabled:   true,
		Fullscreen:     false,
		LogLevel:       "info",
	}
}

// TimerConfig converts settings to a normalized TimerConfig.
func (settings Settings) TimerConfig() model.TimerConfig {
	config := model.DefaultTimerConfig()
	config.DefaultDuration = time.Duration(settings.RoundMinutes) * time.Minute
	config.Ceiling = time.Duration(settings.CeilingMinutes) * time.Minute
	config.Label = settings.Label
	config.SoundEnabled = settings.SoundEnabled
	return config.Normalize()
}
