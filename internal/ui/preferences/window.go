package preferences

import (
	"fmt"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Window handles the preferences UI.
type Window struct {
	window     fyne.Window
	settings   Settings
	onSave     func(Settings)
	onCancel   func()
	round      *widget.Entry
	ceiling    *widget.Entry
	label      *widget.Entry
	sound      *widget.Check
	fullscreen *widget.Check
	logLevel   *widget.Select
	saveButton *widget.Button
}

var logLevels = []string{"debug", "info", "warn", "error"}

// New creates a preferences window.
func New(app fyne.App, settings Settings, onSave func(Settings)) *Window {
	window := app.NewWindow(settings.AppName + " Settings")

	round := widget.NewEntry()
	ceiling := widget.NewEntry()
	label := widget.NewEntry()
	label.SetPlaceHolder("Round name")

	sound := widget.NewCheck("Chime when a round ends", nil)
	fullscreen := widget.NewCheck("Start fullscreen", nil)
	logLevel := widget.NewSelect(logLevels, nil)

	form := container.NewVBox(
		widget.NewLabelWithStyle("Round", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		container.NewHBox(widget.NewLabel("Default round"), round, widget.NewLabel("min")),
		container.NewHBox(widget.NewLabel("Longest round"), ceiling, widget.NewLabel("min")),
		label,
		sound,
		fullscreen,
		container.NewHBox(widget.NewLabel("Log level"), logLevel),
	)

	saveButton := widget.NewButton("Save", nil)
	cancelButton := widget.NewButton("Cancel", nil)
	buttons := container.NewHBox(saveButton, layout.NewSpacer(), cancelButton)

	content := container.NewBorder(nil, buttons, nil, nil, form)
	window.SetContent(content)
	window.Resize(fyne.NewSize(380, 320))

	prefs := &Window{
		window:     window,
		onSave:     onSave,
		round:      round,
		ceiling:    ceiling,
		label:      label,
		sound:      sound,
		fullscreen: fullscreen,
		logLevel:   logLevel,
		saveButton: saveButton,
	}
	prefs.UpdateSettings(settings)

	saveButton.OnTapped = prefs.handleSave
	cancelButton.OnTapped = func() {
		window.Hide()
		prefs.UpdateSettings(prefs.settings)
		if prefs.onCancel != nil {
			prefs.onCancel()
		}
	}
	window.SetCloseIntercept(cancelButton.OnTapped)

	return prefs
}

// Show displays the preferences window.
func (prefs *Window) Show() {
	prefs.window.Show()
	prefs.window.RequestFocus()
}

// SetOnCancel sets the handler run when edits are discarded.
func (prefs *Window) SetOnCancel(handler func()) {
	prefs.onCancel = handler
}

// Settings returns the last saved settings.
func (prefs *Window) Settings() Settings {
	return prefs.settings
}

// UpdateSettings replaces window values.
func (prefs *Window) UpdateSettings(settings Settings) {
	prefs.settings = settings
	prefs.round.SetText(fmt.Sprintf("%d", settings.RoundMinutes))
	prefs.ceiling.SetText(fmt.Sprintf("%d", settings.CeilingMinutes))
	prefs.label.SetText(settings.Label)
	prefs.sound.SetChecked(settings.SoundEnabled)
	prefs.fullscreen.SetChecked(settings.Fullscreen)
	prefs.logLevel.SetSelected(strings.ToLower(settings.LogLevel))
}

func (prefs *Window) handleSave() {
	settings := prefs.settings

	if minutes, ok := parsePositiveInt(prefs.ceiling.Text); ok {
		settings.CeilingMinutes = min(minutes, MaxCeilingMinutes)
	}
	if minutes, ok := parsePositiveInt(prefs.round.Text); ok {
		settings.RoundMinutes = minutes
	}
	if settings.RoundMinutes > settings.CeilingMinutes {
		settings.RoundMinutes = settings.CeilingMinutes
	}

	settings.Label = strings.TrimSpace(prefs.label.Text)
	settings.SoundEnabled = prefs.sound.Checked
	settings.Fullscreen = prefs.fullscreen.Checked
	if prefs.logLevel.Selected != "" {
		settings.LogLevel = prefs.logLevel.Selected
	}

	prefs.UpdateSettings(settings)
	if prefs.onSave != nil {
		prefs.onSave(settings)
	}
	prefs.window.Hide()
}

func parsePositiveInt(value string) (int, bool) {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || parsed <= 0 {
		return 0, false
	}
	return parsed, true
}
