package display

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/widget"
)

// keyButton is a button that hands typed keys to the window shortcuts.
// A focused widget.Button would otherwise take Space as a tap.
type keyButton struct {
	widget.Button
	onKey func(*fyne.KeyEvent)
}

func newKeyButton(label string, tapped func(), onKey func(*fyne.KeyEvent)) *keyButton {
	button := &keyButton{onKey: onKey}
	button.Text = label
	button.OnTapped = tapped
	button.ExtendBaseWidget(button)
	return button
}

// TypedKey forwards to the window key handler.
func (button *keyButton) TypedKey(event *fyne.KeyEvent) {
	if button.onKey != nil {
		button.onKey(event)
	}
}
