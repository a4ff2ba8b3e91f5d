package timer

import (
	"sync"

	"ddctimer/internal/core/clock"
	"ddctimer/internal/core/model"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Listener receives every snapshot synchronously, in mutation order.
// It runs under the timer lock and must not call back into the Timer.
type Listener func(Snapshot)

// Options contains runtime dependencies for Timer.
type Options struct {
	Clock  clockwork.Clock
	Logger *zerolog.Logger
}

type listenerEntry struct {
	id int
	fn Listener
}

// Timer is the countdown state machine for a single round.
type Timer struct {
	mu      sync.Mutex
	config  model.TimerConfig
	clock   clockwork.Clock
	logger  zerolog.Logger
	session string

	remaining    int
	total        int
	ceiling      int
	running      bool
	paused       bool
	alertFired   bool
	soundEnabled bool
	label        string

	generation uint64
	stopCh     chan struct{}

	listeners    []listenerEntry
	nextListener int
	events       []chan Snapshot
	closed       bool
}

// New creates a Timer loaded with the configured default duration.
func New(config model.TimerConfig, options Options) *Timer {
	config = config.Normalize()
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}
	session := uuid.New().String()[:8]

	total := clock.Seconds(config.DefaultDuration)
	return &Timer{
		config:       config,
		clock:        options.Clock,
		logger:       logger.With().Str("session", session).Logger(),
		session:      session,
		remaining:    total,
		total:        total,
		ceiling:      clock.Seconds(config.Ceiling),
		soundEnabled: config.SoundEnabled,
		label:        config.Label,
	}
}

// Session returns the short id used to correlate log lines.
func (keeper *Timer) Session() string {
	return keeper.session
}

// Config returns the normalized configuration.
func (keeper *Timer) Config() model.TimerConfig {
	return keeper.config
}

// Snapshot returns the current state.
func (keeper *Timer) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked(ActionInit)
}

// OnChange registers a listener and returns a function removing it.
func (keeper *Timer) OnChange(fn Listener) func() {
	if fn == nil {
		return func() {}
	}
	keeper.mu.Lock()
	keeper.nextListener++
	id := keeper.nextListener
	keeper.listeners = append(keeper.listeners, listenerEntry{id: id, fn: fn})
	keeper.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			keeper.mu.Lock()
			defer keeper.mu.Unlock()
			for index, entry := range keeper.listeners {
				if entry.id == id {
					keeper.listeners = append(keeper.listeners[:index], keeper.listeners[index+1:]...)
					return
				}
			}
		})
	}
}

// Subscribe registers a channel observer. The current snapshot is delivered
// first; when the buffer is full the oldest pending snapshot is dropped.
func (keeper *Timer) Subscribe(buffer int) <-chan Snapshot {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Snapshot, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	ch <- keeper.snapshotLocked(ActionInit)
	keeper.events = append(keeper.events, ch)
	return ch
}

// Start activates the tick scheduler. A round already at zero does not run.
func (keeper *Timer) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.startLocked()
}

// Pause stops the scheduler without touching the remaining time.
func (keeper *Timer) Pause() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.pauseLocked()
}

// ToggleRun pauses a running timer and starts a stopped one.
func (keeper *Timer) ToggleRun() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.running {
		keeper.pauseLocked()
		return
	}
	keeper.startLocked()
}

// Tick advances the countdown by one second. It is a no-op unless running.
func (keeper *Timer) Tick() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || !keeper.running {
		return
	}
	keeper.tickLocked()
}

// Reset stops the round and restores the last established duration.
func (keeper *Timer) Reset() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.stopSchedulerLocked()
	keeper.running = false
	keeper.paused = false
	keeper.remaining = keeper.total
	keeper.alertFired = false
	keeper.logger.Debug().Int("total", keeper.total).Msg("timer reset")
	keeper.emitLocked(ActionReset)
}

// SetPreset stops the round and switches to a new duration in minutes.
// Minutes are clamped to the configured ceiling.
func (keeper *Timer) SetPreset(minutes int) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	maxMinutes := keeper.ceiling / 60
	if maxMinutes < 1 {
		maxMinutes = 1
	}
	seconds := clock.Clamp(minutes, 1, maxMinutes) * 60
	if seconds > keeper.ceiling {
		seconds = keeper.ceiling
	}

	keeper.stopSchedulerLocked()
	keeper.running = false
	keeper.paused = false
	keeper.total = seconds
	keeper.remaining = seconds
	keeper.alertFired = false
	keeper.logger.Debug().Int("minutes", minutes).Int("total", seconds).Msg("preset applied")
	keeper.emitLocked(ActionPreset)
}

// AdjustBy moves the remaining time by deltaSeconds, clamped to [0, ceiling].
func (keeper *Timer) AdjustBy(deltaSeconds int) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	previous := keeper.remaining
	keeper.remaining = clock.Clamp(previous+deltaSeconds, 0, keeper.ceiling)
	if keeper.remaining == 0 {
		if keeper.running {
			keeper.stopSchedulerLocked()
			keeper.running = false
		}
		if previous > 0 {
			keeper.markEndedLocked()
		}
	} else {
		keeper.alertFired = false
	}
	keeper.logger.Debug().Int("delta", deltaSeconds).Int("remaining", keeper.remaining).Msg("timer adjusted")
	keeper.emitLocked(ActionAdjust)
}

// SetSoundEnabled updates the sound flag.
func (keeper *Timer) SetSoundEnabled(enabled bool) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.soundEnabled == enabled {
		return
	}
	keeper.soundEnabled = enabled
	keeper.emitLocked(ActionSound)
}

// ToggleSound flips the sound flag.
func (keeper *Timer) ToggleSound() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		return
	}
	keeper.soundEnabled = !keeper.soundEnabled
	keeper.emitLocked(ActionSound)
}

// SetLabel updates the round name.
func (keeper *Timer) SetLabel(label string) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.label == label {
		return
	}
	keeper.label = label
	keeper.emitLocked(ActionLabel)
}

// Close cancels the scheduler and closes all observers.
func (keeper *Timer) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.stopSchedulerLocked()
	keeper.running = false
	keeper.emitLocked(ActionClose)
	keeper.closed = true
	events := keeper.events
	keeper.events = nil
	keeper.listeners = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *Timer) startLocked() {
	if keeper.closed || keeper.running {
		return
	}
	if keeper.remaining == 0 {
		keeper.logger.Debug().Msg("start ignored, nothing left to count")
		return
	}
	keeper.running = true
	keeper.paused = false
	keeper.startSchedulerLocked()
	keeper.logger.Debug().Int("remaining", keeper.remaining).Msg("timer started")
	keeper.emitLocked(ActionStart)
}

func (keeper *Timer) pauseLocked() {
	if keeper.closed || !keeper.running {
		return
	}
	keeper.stopSchedulerLocked()
	keeper.running = false
	keeper.paused = true
	keeper.logger.Debug().Int("remaining", keeper.remaining).Msg("timer paused")
	keeper.emitLocked(ActionPause)
}

func (keeper *Timer) startSchedulerLocked() {
	keeper.stopSchedulerLocked()
	keeper.generation++
	stopCh := make(chan struct{})
	keeper.stopCh = stopCh
	ticker := keeper.clock.NewTicker(keeper.config.TickInterval)
	go keeper.run(ticker, stopCh, keeper.generation)
}

func (keeper *Timer) stopSchedulerLocked() {
	if keeper.stopCh == nil {
		return
	}
	close(keeper.stopCh)
	keeper.stopCh = nil
	keeper.generation++
}

func (keeper *Timer) run(ticker clockwork.Ticker, stopCh <-chan struct{}, generation uint64) {
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case <-ticker.Chan():
			keeper.scheduledTick(generation)
		}
	}
}

func (keeper *Timer) scheduledTick(generation uint64) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	// A tick already in flight when its scheduler was cancelled is dropped.
	if keeper.closed || !keeper.running || generation != keeper.generation {
		return
	}
	keeper.tickLocked()
}

func (keeper *Timer) tickLocked() {
	keeper.remaining = clock.Clamp(keeper.remaining-1, 0, keeper.ceiling)
	if keeper.remaining == 0 {
		keeper.stopSchedulerLocked()
		keeper.running = false
		keeper.markEndedLocked()
	}
	keeper.emitLocked(ActionTick)
}

func (keeper *Timer) markEndedLocked() {
	if keeper.alertFired {
		return
	}
	keeper.alertFired = true
	keeper.paused = false
	keeper.logger.Info().Str("label", keeper.label).Int("total", keeper.total).Msg("round ended")
}

func (keeper *Timer) snapshotLocked(action Action) Snapshot {
	return Snapshot{
		Remaining:    keeper.remaining,
		Total:        keeper.total,
		Running:      keeper.running,
		Paused:       keeper.paused,
		SoundEnabled: keeper.soundEnabled,
		Label:        keeper.label,
		AlertFired:   keeper.alertFired,
		Action:       action,
		At:           keeper.clock.Now(),
	}
}

func (keeper *Timer) emitLocked(action Action) {
	snapshot := keeper.snapshotLocked(action)
	for _, entry := range keeper.listeners {
		entry.fn(snapshot)
	}
	for _, ch := range keeper.events {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
			}
		}
	}
}
