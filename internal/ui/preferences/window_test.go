package preferences

import (
	"testing"

	"fyne.io/fyne/v2/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveParsesFields(t *testing.T) {
	app := test.NewTempApp(t)

	var saved []Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = append(saved, settings)
	})

	prefs.round.SetText("25")
	prefs.ceiling.SetText("20")
	prefs.label.SetText("  Design review ")
	prefs.sound.SetChecked(false)
	prefs.fullscreen.SetChecked(true)
	prefs.logLevel.SetSelected("debug")
	test.Tap(prefs.saveButton)

	require.Len(t, saved, 1)
	assert.Equal(t, 20, saved[0].RoundMinutes)
	assert.Equal(t, 20, saved[0].CeilingMinutes)
	assert.Equal(t, "Design review", saved[0].Label)
	assert.False(t, saved[0].SoundEnabled)
	assert.True(t, saved[0].Fullscreen)
	assert.Equal(t, "debug", saved[0].LogLevel)
	assert.Equal(t, saved[0], prefs.Settings())
}

func TestSaveIgnoresInvalidNumbers(t *testing.T) {
	app := test.NewTempApp(t)

	var saved Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = settings
	})

	prefs.round.SetText("soon")
	prefs.ceiling.SetText("-5")
	test.Tap(prefs.saveButton)

	assert.Equal(t, 12, saved.RoundMinutes)
	assert.Equal(t, 99, saved.CeilingMinutes)
}

func TestSaveCapsCeiling(t *testing.T) {
	app := test.NewTempApp(t)

	var saved Settings
	prefs := New(app, DefaultSettings(), func(settings Settings) {
		saved = settings
	})

	prefs.ceiling.SetText("500")
	prefs.round.SetText("150")
	test.Tap(prefs.saveButton)

	assert.Equal(t, 99, saved.CeilingMinutes)
	assert.Equal(t, 99, saved.RoundMinutes)
}
