package tray

import (
	"testing"

	"ddctimer/internal/core/timer"

	"fyne.io/fyne/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	menus []*fyne.Menu
}

func (host *fakeHost) SetSystemTrayMenu(menu *fyne.Menu) {
	host.menus = append(host.menus, menu)
}

func findItem(t *testing.T, menu *fyne.Menu, label string) *fyne.MenuItem {
	t.Helper()
	for _, item := range menu.Items {
		if item.Label == label {
			return item
		}
	}
	require.Failf(t, "menu item not found", "label %q", label)
	return nil
}

func TestMenuCallsCallbacks(t *testing.T) {
	host := &fakeHost{}
	var calls []string
	var preset int
	manager := New(host, "DDC Timer", []int{12, 5}, Callbacks{
		OnToggleRun: func() { calls = append(calls, "run") },
		OnReset:     func() { calls = append(calls, "reset") },
		OnPreset:    func(minutes int) { preset = minutes },
		OnQuit:      func() { calls = append(calls, "quit") },
	})
	require.NotEmpty(t, host.menus)

	menu := manager.Menu()
	findItem(t, menu, "Start").Action()
	findItem(t, menu, "Reset").Action()
	findItem(t, menu, "Quit").Action()
	findItem(t, menu, "System Check").Action()

	presets := findItem(t, menu, "Round length").ChildMenu
	require.Len(t, presets.Items, 2)
	presets.Items[1].Action()

	assert.Equal(t, []string{"run", "reset", "quit"}, calls)
	assert.Equal(t, 5, preset)
}

func TestSetSnapshotUpdatesLabels(t *testing.T) {
	host := &fakeHost{}
	manager := New(host, "DDC Timer", nil, Callbacks{})

	manager.SetSnapshot(timer.Snapshot{Remaining: 719, Total: 720, Running: true, SoundEnabled: false})
	assert.Equal(t, "Status: 11:59 running", manager.statusItem.Label)
	assert.Equal(t, "Pause", manager.runItem.Label)
	assert.Equal(t, "Unmute", manager.soundItem.Label)

	manager.SetSnapshot(timer.Snapshot{Remaining: 0, Total: 720, SoundEnabled: true})
	assert.Equal(t, "Status: 00:00 ended", manager.statusItem.Label)
	assert.Equal(t, "Start", manager.runItem.Label)
	assert.True(t, manager.runItem.Disabled)
	assert.Equal(t, "Mute", manager.soundItem.Label)
	assert.Len(t, host.menus, 3)
}
