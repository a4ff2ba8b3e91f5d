package platform

import "errors"

// ErrUnsupported indicates the host does not provide a capability, or the
// user denied it.
var ErrUnsupported = errors.New("capability unsupported")

// TitleSetter controls the host window or tab title.
type TitleSetter interface {
	Title() string
	SetTitle(title string)
}

// Fullscreen enters and leaves fullscreen mode. Enter and Exit may block
// while the host switches modes.
type Fullscreen interface {
	EnterFullscreen() error
	ExitFullscreen() error
	IsFullscreen() bool
}

type unsupportedFullscreen struct{}

// NewUnsupportedFullscreen returns a Fullscreen that always fails with
// ErrUnsupported.
func NewUnsupportedFullscreen() Fullscreen {
	return unsupportedFullscreen{}
}

func (unsupportedFullscreen) EnterFullscreen() error { return ErrUnsupported }

func (unsupportedFullscreen) ExitFullscreen() error { return ErrUnsupported }

func (unsupportedFullscreen) IsFullscreen() bool { return false }
