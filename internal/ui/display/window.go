// Package display is the desktop rendering of the timer: a fyne window that
// also serves as the title, fullscreen and key capabilities of its host.
package display

import (
	"fmt"
	"image/color"
	"sync"

	"ddctimer/internal/command"
	"ddctimer/internal/core/clock"
	"ddctimer/internal/core/timer"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/widget"
)

// Mode is shown in the event details line.
const Mode = "Single Round"

const adjustStep = 60

var (
	backgroundColor = color.NRGBA{R: 18, G: 18, B: 24, A: 255}
	flashColor      = color.NRGBA{R: 196, G: 40, B: 40, A: 255}
	labelColor      = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	clockColor      = color.NRGBA{R: 232, G: 190, B: 66, A: 255}
)

// Controls are the timer operations wired to the window buttons.
type Controls interface {
	ToggleRun()
	Reset()
	AdjustBy(deltaSeconds int)
	SetPreset(minutes int)
	ToggleSound()
}

// Config defines window content.
type Config struct {
	AppName string
	Presets []int
}

// Window manages the main timer window.
type Window struct {
	app      fyne.App
	window   fyne.Window
	config   Config
	controls Controls

	mu          sync.Mutex
	fullscreen  bool
	keyHandlers map[int]command.KeyHandler
	nextKey     int

	onFullscreen func()
	onCheck      func()

	background   *canvas.Rectangle
	labelText    *canvas.Text
	clockText    *canvas.Text
	progress     *widget.ProgressBar
	status       *widget.Label
	details      *widget.Label
	startButton  *keyButton
	resetButton  *keyButton
	minusButton  *keyButton
	plusButton   *keyButton
	screenButton *keyButton
	soundButton  *keyButton
	checkButton  *keyButton
	presets      []*keyButton
}

// New creates the main window. Nothing is shown until Show.
func New(app fyne.App, config Config, controls Controls) *Window {
	if config.AppName == "" {
		config.AppName = "DDC Timer"
	}
	window := app.NewWindow(config.AppName)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}

	background := canvas.NewRectangle(backgroundColor)

	labelText := canvas.NewText(config.AppName, labelColor)
	labelText.Alignment = fyne.TextAlignCenter
	labelText.TextStyle = fyne.TextStyle{Bold: true}
	labelText.TextSize = 28

	clockText := canvas.NewText("--:--", clockColor)
	clockText.Alignment = fyne.TextAlignCenter
	clockText.TextStyle = fyne.TextStyle{Bold: true, Monospace: true}
	clockText.TextSize = 120

	display := &Window{
		app:         app,
		window:      window,
		config:      config,
		controls:    controls,
		keyHandlers: make(map[int]command.KeyHandler),
		background:  background,
		labelText:   labelText,
		clockText:   clockText,
		progress:    widget.NewProgressBar(),
		status:      widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{Italic: true}),
		details:     widget.NewLabelWithStyle("", fyne.TextAlignCenter, fyne.TextStyle{}),
	}
	display.progress.TextFormatter = func() string { return "" }

	display.startButton = newKeyButton("Start", controls.ToggleRun, display.typedKey)
	display.resetButton = newKeyButton("Reset", controls.Reset, display.typedKey)
	display.minusButton = newKeyButton("-1:00", func() { controls.AdjustBy(-adjustStep) }, display.typedKey)
	display.plusButton = newKeyButton("+1:00", func() { controls.AdjustBy(adjustStep) }, display.typedKey)
	display.screenButton = newKeyButton("Fullscreen", func() {
		if display.onFullscreen != nil {
			display.onFullscreen()
		}
	}, display.typedKey)
	display.soundButton = newKeyButton("Sound: On", controls.ToggleSound, display.typedKey)
	display.checkButton = newKeyButton("System Check", func() {
		if display.onCheck != nil {
			display.onCheck()
		}
	}, display.typedKey)

	presetRow := container.NewHBox(layout.NewSpacer())
	for _, minutes := range config.Presets {
		minutes := minutes
		button := newKeyButton(fmt.Sprintf("%d min", minutes), func() { controls.SetPreset(minutes) }, display.typedKey)
		display.presets = append(display.presets, button)
		presetRow.Add(button)
	}
	presetRow.Add(layout.NewSpacer())

	controlRow := container.NewHBox(
		layout.NewSpacer(),
		display.startButton,
		display.resetButton,
		display.minusButton,
		display.plusButton,
		layout.NewSpacer(),
	)
	toolRow := container.NewHBox(
		layout.NewSpacer(),
		display.screenButton,
		display.soundButton,
		display.checkButton,
		layout.NewSpacer(),
	)
	hints := widget.NewLabelWithStyle(command.Hints, fyne.TextAlignCenter, fyne.TextStyle{Monospace: true})

	content := container.NewVBox(
		layout.NewSpacer(),
		labelText,
		clockText,
		display.progress,
		display.status,
		controlRow,
		presetRow,
		toolRow,
		display.details,
		hints,
		layout.NewSpacer(),
	)
	window.SetContent(container.NewStack(background, container.NewPadded(content)))
	window.Resize(fyne.NewSize(720, 520))
	window.Canvas().SetOnTypedKey(display.typedKey)

	return display
}

// Window returns the underlying fyne window.
func (display *Window) Window() fyne.Window {
	return display.window
}

// Show displays the window.
func (display *Window) Show() {
	display.window.Show()
	display.window.RequestFocus()
}

// SetOnFullscreen sets the Fullscreen button handler.
func (display *Window) SetOnFullscreen(handler func()) {
	display.onFullscreen = handler
}

// SetOnCheck sets the System Check button handler.
func (display *Window) SetOnCheck(handler func()) {
	display.onCheck = handler
}

// Watch renders every snapshot from events on the fyne goroutine until the
// channel closes.
func (display *Window) Watch(events <-chan timer.Snapshot) {
	go func() {
		for snapshot := range events {
			snapshot := snapshot
			fyne.Do(func() {
				display.Render(snapshot)
			})
		}
	}()
}

// Render applies one snapshot. Must run on the fyne goroutine.
func (display *Window) Render(snapshot timer.Snapshot) {
	label := snapshot.Label
	if label == "" {
		label = display.config.AppName
	}
	display.labelText.Text = label
	display.labelText.Refresh()

	display.clockText.Text = snapshot.Display()
	display.clockText.Refresh()

	display.progress.SetValue(snapshot.Progress())
	display.status.SetText(statusText(snapshot.State()))
	display.details.SetText(fmt.Sprintf("%s • %s • %s", label, clock.Format(snapshot.Total), Mode))

	if snapshot.Running {
		display.startButton.SetText("Pause")
	} else {
		display.startButton.SetText("Start")
	}
	if snapshot.Remaining == 0 {
		display.startButton.Disable()
	} else {
		display.startButton.Enable()
	}

	if snapshot.SoundEnabled {
		display.soundButton.SetText("Sound: On")
	} else {
		display.soundButton.SetText("Sound: Off")
	}
}

// SetFlash switches the end-of-round background. Safe from any goroutine.
func (display *Window) SetFlash(on bool) {
	fyne.Do(func() {
		if on {
			display.background.FillColor = flashColor
		} else {
			display.background.FillColor = backgroundColor
		}
		display.background.Refresh()
	})
}

// ShowFullscreenState updates the Fullscreen button label.
func (display *Window) ShowFullscreenState(on bool) {
	fyne.Do(func() {
		if on {
			display.screenButton.SetText("Exit Fullscreen")
		} else {
			display.screenButton.SetText("Fullscreen")
		}
	})
}

// Title returns the window title.
func (display *Window) Title() string {
	return display.window.Title()
}

// SetTitle updates the window title. Safe from any goroutine.
func (display *Window) SetTitle(title string) {
	fyne.Do(func() {
		display.window.SetTitle(title)
	})
}

// EnterFullscreen switches the window to fullscreen.
func (display *Window) EnterFullscreen() error {
	return display.setFullscreen(true)
}

// ExitFullscreen restores the windowed mode.
func (display *Window) ExitFullscreen() error {
	return display.setFullscreen(false)
}

// IsFullscreen reports the last requested mode.
func (display *Window) IsFullscreen() bool {
	display.mu.Lock()
	defer display.mu.Unlock()
	return display.fullscreen
}

// AddKeyListener registers a handler for keys typed on the window canvas.
func (display *Window) AddKeyListener(handler command.KeyHandler) func() {
	display.mu.Lock()
	defer display.mu.Unlock()
	display.nextKey++
	id := display.nextKey
	display.keyHandlers[id] = handler
	return func() {
		display.mu.Lock()
		delete(display.keyHandlers, id)
		display.mu.Unlock()
	}
}

func (display *Window) setFullscreen(on bool) error {
	display.mu.Lock()
	display.fullscreen = on
	display.mu.Unlock()

	fyne.Do(func() {
		display.window.SetFullScreen(on)
	})
	return nil
}

func (display *Window) typedKey(event *fyne.KeyEvent) {
	key := translateKey(event.Name)
	if key.Code == command.KeyOther {
		return
	}

	display.mu.Lock()
	handlers := make([]command.KeyHandler, 0, len(display.keyHandlers))
	for _, handler := range display.keyHandlers {
		handlers = append(handlers, handler)
	}
	display.mu.Unlock()

	for _, handler := range handlers {
		if handler(key) {
			return
		}
	}
}

func translateKey(name fyne.KeyName) command.Key {
	if name == fyne.KeySpace {
		return command.Key{Code: command.KeySpace}
	}
	if len(name) == 1 {
		return command.Key{Code: command.KeyRune, Rune: rune(name[0])}
	}
	return command.Key{Code: command.KeyOther}
}

func statusText(state timer.State) string {
	switch state {
	case timer.StateRunning:
		return "Running"
	case timer.StatePaused:
		return "Paused"
	case timer.StateEnded:
		return "Time's up"
	default:
		return "Ready"
	}
}
