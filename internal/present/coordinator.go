// Package present turns timer snapshots into host side effects: the window
// title, the end-of-round chime and flash, and fullscreen mode.
package present

import (
	"errors"
	"sync"
	"time"

	"ddctimer/internal/core/model"
	"ddctimer/internal/core/timer"
	"ddctimer/internal/platform"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// AlertPlayer plays the end-of-round chime.
type AlertPlayer interface {
	PlayEndSequence()
}

// SnapshotSource is the part of the timer the coordinator observes.
type SnapshotSource interface {
	Snapshot() timer.Snapshot
	OnChange(fn timer.Listener) func()
}

// Config contains coordinator settings.
type Config struct {
	AppName       string
	FlashDuration time.Duration
}

// Options contains runtime dependencies for Coordinator.
type Options struct {
	Clock  clockwork.Clock
	Logger *zerolog.Logger
}

// Coordinator is the only component performing presentation side effects.
type Coordinator struct {
	mu         sync.Mutex
	config     Config
	title      platform.TitleSetter
	fullscreen platform.Fullscreen
	alert      AlertPlayer
	clock      clockwork.Clock
	logger     zerolog.Logger

	originalTitle string
	lastAlert     bool
	detach        func()
	closed        bool

	flashing   bool
	flashGen   uint64
	flashTimer clockwork.Timer
	onFlash    listeners

	isFullscreen bool
	switching    bool
	onFullscreen listeners
}

// New creates a coordinator and captures the current title.
func New(config Config, title platform.TitleSetter, fullscreen platform.Fullscreen, alert AlertPlayer, options Options) *Coordinator {
	if config.AppName == "" {
		config.AppName = "DDC Timer"
	}
	if config.FlashDuration <= 0 {
		config.FlashDuration = model.DefaultFlashDuration
	}
	if title == nil {
		title = &memoryTitle{}
	}
	if fullscreen == nil {
		fullscreen = platform.NewUnsupportedFullscreen()
	}
	if alert == nil {
		alert = silentAlert{}
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}

	return &Coordinator{
		config:        config,
		title:         title,
		fullscreen:    fullscreen,
		alert:         alert,
		clock:         options.Clock,
		logger:        logger,
		originalTitle: title.Title(),
		isFullscreen:  fullscreen.IsFullscreen(),
	}
}

// Attach starts observing source, replacing any previous source. The title
// is synced immediately; an alert already fired is not replayed.
func (coordinator *Coordinator) Attach(source SnapshotSource) {
	coordinator.mu.Lock()
	previous := coordinator.detach
	coordinator.detach = nil
	closed := coordinator.closed
	coordinator.mu.Unlock()

	// The timer calls Handle under its own lock, so never hold ours while
	// calling into the timer.
	if previous != nil {
		previous()
	}
	if closed {
		return
	}

	current := source.Snapshot()
	coordinator.mu.Lock()
	coordinator.lastAlert = current.AlertFired
	coordinator.mu.Unlock()
	coordinator.title.SetTitle(coordinator.titleFor(current))

	remove := source.OnChange(coordinator.Handle)
	coordinator.mu.Lock()
	coordinator.detach = remove
	coordinator.mu.Unlock()
}

// Handle applies one snapshot.
func (coordinator *Coordinator) Handle(snapshot timer.Snapshot) {
	coordinator.mu.Lock()
	if coordinator.closed {
		coordinator.mu.Unlock()
		return
	}

	title := coordinator.titleFor(snapshot)
	flashChanged := false
	if snapshot.Action == timer.ActionReset {
		title = coordinator.originalTitle
		flashChanged = coordinator.clearFlashLocked()
	}

	edge := snapshot.AlertFired && !coordinator.lastAlert
	coordinator.lastAlert = snapshot.AlertFired
	if edge {
		flashChanged = coordinator.startFlashLocked() || flashChanged
	}
	flashing := coordinator.flashing
	coordinator.mu.Unlock()

	coordinator.title.SetTitle(title)
	if edge {
		coordinator.logger.Info().
			Str("label", snapshot.Label).
			Bool("sound", snapshot.SoundEnabled).
			Msg("round over, alerting")
		if snapshot.SoundEnabled {
			coordinator.alert.PlayEndSequence()
		}
	}
	if flashChanged {
		coordinator.onFlash.notify(flashing)
	}
}

// Flashing reports whether the end-of-round flash is active.
func (coordinator *Coordinator) Flashing() bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.flashing
}

// OnFlash registers a listener for flash changes.
func (coordinator *Coordinator) OnFlash(fn func(bool)) func() {
	return coordinator.onFlash.add(fn)
}

// IsFullscreen reports the last confirmed fullscreen state.
func (coordinator *Coordinator) IsFullscreen() bool {
	coordinator.mu.Lock()
	defer coordinator.mu.Unlock()
	return coordinator.isFullscreen
}

// OnFullscreen registers a listener for confirmed fullscreen changes.
func (coordinator *Coordinator) OnFullscreen(fn func(bool)) func() {
	return coordinator.onFullscreen.add(fn)
}

// ToggleFullscreen enters fullscreen if the host is not fullscreen, else
// exits. The switch runs in the background; failures are ignored.
func (coordinator *Coordinator) ToggleFullscreen() {
	coordinator.requestFullscreen(!coordinator.fullscreen.IsFullscreen())
}

// SetFullscreen requests a specific mode in the background.
func (coordinator *Coordinator) SetFullscreen(enabled bool) {
	if coordinator.fullscreen.IsFullscreen() == enabled {
		return
	}
	coordinator.requestFullscreen(enabled)
}

// Close detaches from the timer, cancels the flash and restores the title.
func (coordinator *Coordinator) Close() {
	coordinator.mu.Lock()
	if coordinator.closed {
		coordinator.mu.Unlock()
		return
	}
	coordinator.closed = true
	detach := coordinator.detach
	coordinator.detach = nil
	if coordinator.flashTimer != nil {
		coordinator.flashTimer.Stop()
	}
	coordinator.flashing = false
	coordinator.mu.Unlock()

	if detach != nil {
		detach()
	}

	coordinator.title.SetTitle(coordinator.originalTitle)
}

func (coordinator *Coordinator) titleFor(snapshot timer.Snapshot) string {
	return snapshot.Display() + " • " + coordinator.config.AppName
}

func (coordinator *Coordinator) startFlashLocked() bool {
	coordinator.flashGen++
	generation := coordinator.flashGen
	if coordinator.flashTimer != nil {
		coordinator.flashTimer.Stop()
	}
	coordinator.flashTimer = coordinator.clock.AfterFunc(coordinator.config.FlashDuration, func() {
		coordinator.endFlash(generation)
	})
	changed := !coordinator.flashing
	coordinator.flashing = true
	return changed
}

func (coordinator *Coordinator) clearFlashLocked() bool {
	if !coordinator.flashing {
		return false
	}
	coordinator.flashGen++
	coordinator.flashing = false
	return true
}

func (coordinator *Coordinator) endFlash(generation uint64) {
	coordinator.mu.Lock()
	if coordinator.closed || generation != coordinator.flashGen || !coordinator.flashing {
		coordinator.mu.Unlock()
		return
	}
	coordinator.flashing = false
	coordinator.mu.Unlock()

	coordinator.onFlash.notify(false)
}

func (coordinator *Coordinator) requestFullscreen(enter bool) {
	coordinator.mu.Lock()
	if coordinator.closed || coordinator.switching {
		coordinator.mu.Unlock()
		return
	}
	coordinator.switching = true
	coordinator.mu.Unlock()

	go coordinator.switchFullscreen(enter)
}

func (coordinator *Coordinator) switchFullscreen(enter bool) {
	var err error
	if enter {
		err = coordinator.fullscreen.EnterFullscreen()
	} else {
		err = coordinator.fullscreen.ExitFullscreen()
	}

	coordinator.mu.Lock()
	coordinator.switching = false
	changed := err == nil && coordinator.isFullscreen != enter
	if err == nil {
		coordinator.isFullscreen = enter
	}
	coordinator.mu.Unlock()

	if err != nil {
		event := coordinator.logger.Warn()
		if errors.Is(err, platform.ErrUnsupported) {
			event = coordinator.logger.Debug()
		}
		event.Err(err).Bool("enter", enter).Msg("fullscreen request failed")
		return
	}
	if changed {
		coordinator.onFullscreen.notify(enter)
	}
}

type listeners struct {
	mu      sync.Mutex
	next    int
	entries map[int]func(bool)
}

func (set *listeners) add(fn func(bool)) func() {
	if fn == nil {
		return func() {}
	}
	set.mu.Lock()
	defer set.mu.Unlock()
	if set.entries == nil {
		set.entries = make(map[int]func(bool))
	}
	set.next++
	id := set.next
	set.entries[id] = fn
	return func() {
		set.mu.Lock()
		delete(set.entries, id)
		set.mu.Unlock()
	}
}

func (set *listeners) notify(value bool) {
	set.mu.Lock()
	fns := make([]func(bool), 0, len(set.entries))
	for _, fn := range set.entries {
		fns = append(fns, fn)
	}
	set.mu.Unlock()

	for _, fn := range fns {
		fn(value)
	}
}

type memoryTitle struct {
	mu    sync.Mutex
	value string
}

func (title *memoryTitle) Title() string {
	title.mu.Lock()
	defer title.mu.Unlock()
	return title.value
}

func (title *memoryTitle) SetTitle(value string) {
	title.mu.Lock()
	title.value = value
	title.mu.Unlock()
}

type silentAlert struct{}

func (silentAlert) PlayEndSequence() {}
