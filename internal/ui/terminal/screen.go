// Package terminal is the tcell host: it renders the timer full-screen in a
// terminal and feeds key presses to the command dispatcher.
package terminal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"unicode"

	"ddctimer/internal/command"
	"ddctimer/internal/core/clock"
	"ddctimer/internal/core/timer"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Mode is shown in the event details line.
const Mode = "Single Round"

// LocalHints lists the keys handled by the terminal host itself.
const LocalHints = "+/-: ±1:00 • 1-9: Presets • C: Check • Q: Quit"

const (
	adjustStep = 60
	barWidth   = 40
)

var (
	baseStyle   = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorBlack)
	flashStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite).Background(tcell.ColorDarkRed)
	accentColor = tcell.NewRGBColor(232, 190, 66)
)

// Controls are the timer operations reachable from local keys.
type Controls interface {
	AdjustBy(deltaSeconds int)
	SetPreset(minutes int)
}

// Config defines terminal content.
type Config struct {
	AppName string
	Presets []int
}

type flashEvent struct {
	on bool
}

type line struct {
	text  string
	style tcell.Style
}

// Screen renders snapshots on a tcell screen and implements the title and
// key capabilities of the terminal host.
type Screen struct {
	screen   tcell.Screen
	config   Config
	controls Controls
	onCheck  func()

	mu          sync.Mutex
	title       string
	keyHandlers map[int]command.KeyHandler
	nextKey     int

	// Owned by the Run goroutine.
	snapshot timer.Snapshot
	flashing bool
}

// New wraps an initialised tcell screen.
func New(screen tcell.Screen, config Config, controls Controls) *Screen {
	if config.AppName == "" {
		config.AppName = "DDC Timer"
	}
	screen.SetStyle(baseStyle)
	screen.HideCursor()
	return &Screen{
		screen:      screen,
		config:      config,
		controls:    controls,
		title:       config.AppName,
		keyHandlers: make(map[int]command.KeyHandler),
	}
}

// SetOnCheck sets the handler for the System Check key.
func (term *Screen) SetOnCheck(handler func()) {
	term.onCheck = handler
}

// Title returns the last title set.
func (term *Screen) Title() string {
	term.mu.Lock()
	defer term.mu.Unlock()
	return term.title
}

// SetTitle sets the terminal window title.
func (term *Screen) SetTitle(title string) {
	term.mu.Lock()
	term.title = title
	term.mu.Unlock()
	term.screen.SetTitle(title)
}

// SetFlash toggles the end-of-round background. Safe from any goroutine.
func (term *Screen) SetFlash(on bool) {
	_ = term.screen.PostEvent(tcell.NewEventInterrupt(flashEvent{on: on}))
}

// AddKeyListener registers a handler for key presses.
func (term *Screen) AddKeyListener(handler command.KeyHandler) func() {
	term.mu.Lock()
	defer term.mu.Unlock()
	term.nextKey++
	id := term.nextKey
	term.keyHandlers[id] = handler
	return func() {
		term.mu.Lock()
		delete(term.keyHandlers, id)
		term.mu.Unlock()
	}
}

// Run draws snapshots and handles input until ctx is done, the snapshot
// channel closes or the user quits.
func (term *Screen) Run(ctx context.Context, snapshots <-chan timer.Snapshot) error {
	events := make(chan tcell.Event, 16)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			event := term.screen.PollEvent()
			if event == nil {
				close(events)
				return
			}
			select {
			case events <- event:
			case <-done:
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case snapshot, ok := <-snapshots:
			if !ok {
				return nil
			}
			term.Render(snapshot)
		case event, ok := <-events:
			if !ok {
				return nil
			}
			if !term.handleEvent(event) {
				return nil
			}
		}
	}
}

// Render stores snapshot and redraws. Only the Run goroutine may call it
// while Run is active.
func (term *Screen) Render(snapshot timer.Snapshot) {
	term.snapshot = snapshot
	term.Draw()
}

// Draw renders the current snapshot.
func (term *Screen) Draw() {
	style := baseStyle
	if term.flashing {
		style = flashStyle
	}
	term.screen.SetStyle(style)
	term.screen.Fill(' ', style)

	width, height := term.screen.Size()
	snapshot := term.snapshot
	label := snapshot.Label
	if label == "" {
		label = term.config.AppName
	}

	lines := []line{
		{label, style.Bold(true)},
		{"", style},
	}
	for _, row := range bigText(snapshot.Display()) {
		lines = append(lines, line{row, style.Foreground(accentColor)})
	}
	for _, text := range []string{
		"",
		progressBar(snapshot.Progress(), barWidth),
		statusText(snapshot.State()),
		"",
		fmt.Sprintf("%s • %s • %s", label, clock.Format(snapshot.Total), Mode),
		soundText(snapshot.SoundEnabled),
		"",
		command.Hints,
		LocalHints,
	} {
		lines = append(lines, line{text, style})
	}

	top := (height - len(lines)) / 2
	if top < 0 {
		top = 0
	}
	for index, current := range lines {
		drawCentered(term.screen, top+index, width, current.text, current.style)
	}
	term.screen.Show()
}

func (term *Screen) handleEvent(event tcell.Event) bool {
	switch event := event.(type) {
	case *tcell.EventKey:
		return term.handleKey(event)
	case *tcell.EventResize:
		term.screen.Sync()
		term.Draw()
	case *tcell.EventInterrupt:
		if flash, ok := event.Data().(flashEvent); ok {
			term.flashing = flash.on
			term.Draw()
		}
	}
	return true
}

func (term *Screen) handleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyCtrlC, tcell.KeyEscape:
		return false
	}

	key := translateKey(event)
	if key.Code != command.KeyOther && term.dispatch(key) {
		return true
	}
	if event.Key() != tcell.KeyRune {
		return true
	}

	value := unicode.ToLower(event.Rune())
	switch {
	case value == 'q':
		return false
	case value == '+' || value == '=':
		term.controls.AdjustBy(adjustStep)
	case value == '-' || value == '_':
		term.controls.AdjustBy(-adjustStep)
	case value == 'c':
		if term.onCheck != nil {
			term.onCheck()
		}
	case value >= '1' && value <= '9':
		index := int(value - '1')
		if index < len(term.config.Presets) {
			term.controls.SetPreset(term.config.Presets[index])
		}
	}
	return true
}

func (term *Screen) dispatch(key command.Key) bool {
	term.mu.Lock()
	handlers := make([]command.KeyHandler, 0, len(term.keyHandlers))
	for _, handler := range term.keyHandlers {
		handlers = append(handlers, handler)
	}
	term.mu.Unlock()

	for _, handler := range handlers {
		if handler(key) {
			return true
		}
	}
	return false
}

func translateKey(event *tcell.EventKey) command.Key {
	if event.Key() != tcell.KeyRune {
		return command.Key{Code: command.KeyOther}
	}
	if event.Rune() == ' ' {
		return command.Key{Code: command.KeySpace}
	}
	return command.Key{Code: command.KeyRune, Rune: event.Rune()}
}

func drawCentered(screen tcell.Screen, y, width int, text string, style tcell.Style) {
	if y < 0 {
		return
	}
	x := (width - runewidth.StringWidth(text)) / 2
	if x < 0 {
		x = 0
	}
	for _, char := range text {
		screen.SetContent(x, y, char, nil, style)
		x += runewidth.RuneWidth(char)
	}
}

func progressBar(fraction float64, width int) string {
	filled := int(fraction*float64(width) + 0.5)
	filled = clock.Clamp(filled, 0, width)
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]"
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

func soundText(enabled bool) string {
	if enabled {
		return "Sound: On"
	}
	return "Sound: Off"
}
