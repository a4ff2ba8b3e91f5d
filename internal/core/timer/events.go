package timer

import (
	"time"

	"ddctimer/internal/core/clock"
)

// State represents the observable timer mode.
type State string

const (
	StateIdle    State = "idle"
	StateRunning State = "running"
	StatePaused  State = "paused"
	StateEnded   State = "ended"
)

// Action names the operation that produced a snapshot.
type Action string

const (
	ActionInit   Action = "init"
	ActionStart  Action = "start"
	ActionPause  Action = "pause"
	ActionTick   Action = "tick"
	ActionReset  Action = "reset"
	ActionPreset Action = "preset"
	ActionAdjust Action = "adjust"
	ActionSound  Action = "sound"
	ActionLabel  Action = "label"
	ActionClose  Action = "close"
)

// Snapshot is an immutable read of the timer state.
type Snapshot struct {
	Remaining    int
	Total        int
	Running      bool
	Paused       bool
	SoundEnabled bool
	Label        string

	// AlertFired is set on the change that brings Remaining to zero and
	// cleared whenever Remaining becomes positive again.
	AlertFired bool

	Action Action
	At     time.Time
}

// Ended reports whether the countdown sits at zero.
func (snapshot Snapshot) Ended() bool {
	return snapshot.Remaining == 0
}

// State derives the timer mode from the snapshot fields.
func (snapshot Snapshot) State() State {
	switch {
	case snapshot.Remaining == 0:
		return StateEnded
	case snapshot.Running:
		return StateRunning
	case snapshot.Paused:
		return StatePaused
	default:
		return StateIdle
	}
}

// Progress returns the remaining fraction of the round in [0, 1].
func (snapshot Snapshot) Progress() float64 {
	return clock.ProgressFraction(snapshot.Remaining, snapshot.Total)
}

// Display returns the remaining time as MM:SS.
func (snapshot Snapshot) Display() string {
	return clock.Format(snapshot.Remaining)
}
