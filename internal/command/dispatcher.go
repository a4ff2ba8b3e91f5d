// Package command maps the global key stream of a host to timer actions.
package command

import (
	"sync"
	"unicode"
)

// Hints lists the shortcuts handled by Dispatcher, for on-screen help.
const Hints = "Space: Start/Pause • R: Reset • F: Fullscreen • M: Sound"

// KeyCode classifies a key press.
type KeyCode int

const (
	KeyOther KeyCode = iota
	KeySpace
	KeyRune
)

// Key is a host-neutral key press.
type Key struct {
	Code KeyCode
	Rune rune
}

// KeyHandler returns true when it consumed the key, in which case the host
// suppresses the key's default behaviour.
type KeyHandler func(Key) bool

// KeySource is a host capability delivering key presses.
type KeySource interface {
	AddKeyListener(handler KeyHandler) (remove func())
}

// Actions are the operations the dispatcher can trigger.
type Actions interface {
	ToggleRun()
	Reset()
	ToggleSound()
}

// FullscreenToggler is implemented by the presentation coordinator.
type FullscreenToggler interface {
	ToggleFullscreen()
}

// Dispatcher routes keys to actions. At most one listener is mounted.
type Dispatcher struct {
	mu         sync.Mutex
	actions    Actions
	fullscreen FullscreenToggler
	remove     func()
}

// New creates a dispatcher. fullscreen may be nil.
func New(actions Actions, fullscreen FullscreenToggler) *Dispatcher {
	return &Dispatcher{
		actions:    actions,
		fullscreen: fullscreen,
	}
}

// Mount attaches the dispatcher to source, removing any previous listener
// first.
func (dispatcher *Dispatcher) Mount(source KeySource) {
	dispatcher.mu.Lock()
	defer dispatcher.mu.Unlock()
	if dispatcher.remove != nil {
		dispatcher.remove()
		dispatcher.remove = nil
	}
	if source == nil {
		return
	}
	dispatcher.remove = source.AddKeyListener(dispatcher.Handle)
}

// Unmount removes the active listener, if any.
func (dispatcher *Dispatcher) Unmount() {
	dispatcher.Mount(nil)
}

// Handle dispatches one key press.
func (dispatcher *Dispatcher) Handle(key Key) bool {
	switch key.Code {
	case KeySpace:
		dispatcher.actions.ToggleRun()
		return true
	case KeyRune:
		return dispatcher.handleRune(key.Rune)
	default:
		return false
	}
}

func (dispatcher *Dispatcher) handleRune(value rune) bool {
	switch unicode.ToLower(value) {
	case ' ':
		dispatcher.actions.ToggleRun()
	case 'r':
		dispatcher.actions.Reset()
	case 'f':
		if dispatcher.fullscreen == nil {
			return false
		}
		dispatcher.fullscreen.ToggleFullscreen()
	case 'm':
		dispatcher.actions.ToggleSound()
	default:
		return false
	}
	return true
}
