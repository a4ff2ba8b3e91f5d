package tray

import (
	"fmt"

	"ddctimer/internal/core/timer"

	"fyne.io/fyne/v2"
)

// MenuHost is the part of desktop.App the tray needs.
type MenuHost interface {
	SetSystemTrayMenu(menu *fyne.Menu)
}

// Callbacks defines tray action handlers.
type Callbacks struct {
	OnShow             func()
	OnToggleRun        func()
	OnReset            func()
	OnPreset           func(minutes int)
	OnToggleSound      func()
	OnToggleFullscreen func()
	OnCheck            func()
	OnPreferences      func()
	OnQuit             func()
}

// Manager handles system tray state.
type Manager struct {
	app       MenuHost
	callbacks Callbacks

	statusItem *fyne.MenuItem
	runItem    *fyne.MenuItem
	soundItem  *fyne.MenuItem
	presetItem *fyne.MenuItem
	menu       *fyne.Menu
}

// New creates a tray manager with the provided callbacks.
func New(app MenuHost, title string, presets []int, callbacks Callbacks) *Manager {
	manager := &Manager{
		app:       app,
		callbacks: callbacks,
	}

	manager.statusItem = fyne.NewMenuItem("Status: starting...", nil)
	manager.statusItem.Disabled = true

	manager.runItem = fyne.NewMenuItem("Start", call(callbacks.OnToggleRun))
	manager.soundItem = fyne.NewMenuItem("Mute", call(callbacks.OnToggleSound))

	presetItems := make([]*fyne.MenuItem, 0, len(presets))
	for _, minutes := range presets {
		minutes := minutes
		presetItems = append(presetItems, fyne.NewMenuItem(fmt.Sprintf("%d minutes", minutes), func() {
			if manager.callbacks.OnPreset != nil {
				manager.callbacks.OnPreset(minutes)
			}
		}))
	}
	manager.presetItem = fyne.NewMenuItem("Round length", nil)
	manager.presetItem.ChildMenu = fyne.NewMenu("", presetItems...)

	manager.menu = fyne.NewMenu(title,
		manager.statusItem,
		fyne.NewMenuItem("Show timer", call(callbacks.OnShow)),
		fyne.NewMenuItemSeparator(),
		manager.runItem,
		fyne.NewMenuItem("Reset", call(callbacks.OnReset)),
		manager.presetItem,
		fyne.NewMenuItemSeparator(),
		manager.soundItem,
		fyne.NewMenuItem("Toggle fullscreen", call(callbacks.OnToggleFullscreen)),
		fyne.NewMenuItem("System Check", call(callbacks.OnCheck)),
		fyne.NewMenuItem("Preferences", call(callbacks.OnPreferences)),
		fyne.NewMenuItemSeparator(),
		fyne.NewMenuItem("Quit", call(callbacks.OnQuit)),
	)
	manager.refreshMenu()

	return manager
}

// Menu returns the current tray menu.
func (manager *Manager) Menu() *fyne.Menu {
	return manager.menu
}

// SetSnapshot updates status and toggle labels. Must run on the fyne
// goroutine.
func (manager *Manager) SetSnapshot(snapshot timer.Snapshot) {
	manager.statusItem.Label = fmt.Sprintf("Status: %s %s", snapshot.Display(), snapshot.State())
	if snapshot.Running {
		manager.runItem.Label = "Pause"
	} else {
		manager.runItem.Label = "Start"
	}
	manager.runItem.Disabled = snapshot.Remaining == 0
	if snapshot.SoundEnabled {
		manager.soundItem.Label = "Mute"
	} else {
		manager.soundItem.Label = "Unmute"
	}
	manager.refreshMenu()
}

func (manager *Manager) refreshMenu() {
	if manager.app != nil {
		manager.app.SetSystemTrayMenu(manager.menu)
	}
}

func call(fn func()) func() {
	return func() {
		if fn != nil {
			fn()
		}
	}
}
