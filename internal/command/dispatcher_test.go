package command

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeActions struct {
	calls []string
}

func (actions *fakeActions) ToggleRun()        { actions.calls = append(actions.calls, "toggle") }
func (actions *fakeActions) Reset()            { actions.calls = append(actions.calls, "reset") }
func (actions *fakeActions) ToggleSound()      { actions.calls = append(actions.calls, "sound") }
func (actions *fakeActions) ToggleFullscreen() { actions.calls = append(actions.calls, "fullscreen") }

type fakeSource struct {
	handlers map[int]KeyHandler
	next     int
}

func newFakeSource() *fakeSource {
	return &fakeSource{handlers: map[int]KeyHandler{}}
}

func (source *fakeSource) AddKeyListener(handler KeyHandler) func() {
	source.next++
	id := source.next
	source.handlers[id] = handler
	return func() { delete(source.handlers, id) }
}

func (source *fakeSource) press(key Key) (handled bool) {
	for _, handler := range source.handlers {
		if handler(key) {
			handled = true
		}
	}
	return handled
}

func TestHandleMapsKeys(t *testing.T) {
	actions := &fakeActions{}
	dispatcher := New(actions, actions)

	assert.True(t, dispatcher.Handle(Key{Code: KeySpace}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'r'}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'R'}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'f'}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'F'}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'm'}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'M'}))
	assert.True(t, dispatcher.Handle(Key{Code: KeyRune, Rune: ' '}))

	assert.Equal(t, []string{"toggle", "reset", "reset", "fullscreen", "fullscreen", "sound", "sound", "toggle"}, actions.calls)
}

func TestHandleIgnoresOtherInput(t *testing.T) {
	actions := &fakeActions{}
	dispatcher := New(actions, actions)

	assert.False(t, dispatcher.Handle(Key{Code: KeyOther}))
	assert.False(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'x'}))
	assert.False(t, dispatcher.Handle(Key{Code: KeyRune, Rune: '1'}))
	assert.Empty(t, actions.calls)
}

func TestFullscreenWithoutToggler(t *testing.T) {
	actions := &fakeActions{}
	dispatcher := New(actions, nil)
	assert.False(t, dispatcher.Handle(Key{Code: KeyRune, Rune: 'f'}))
	assert.Empty(t, actions.calls)
}

func TestMountReplacesPreviousListener(t *testing.T) {
	actions := &fakeActions{}
	dispatcher := New(actions, actions)
	source := newFakeSource()

	dispatcher.Mount(source)
	dispatcher.Mount(source)
	dispatcher.Mount(source)
	require.Len(t, source.handlers, 1)

	assert.True(t, source.press(Key{Code: KeySpace}))
	assert.Equal(t, []string{"toggle"}, actions.calls)

	dispatcher.Unmount()
	assert.Empty(t, source.handlers)
	assert.False(t, source.press(Key{Code: KeySpace}))
	assert.Len(t, actions.calls, 1)
}

func TestMountMovesBetweenSources(t *testing.T) {
	actions := &fakeActions{}
	dispatcher := New(actions, actions)
	first := newFakeSource()
	second := newFakeSource()

	dispatcher.Mount(first)
	dispatcher.Mount(second)

	assert.Empty(t, first.handlers)
	assert.Len(t, second.handlers, 1)
}
