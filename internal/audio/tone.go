package audio

import (
	"errors"
	"time"
)

// ErrUnavailable indicates no audio output can be used on this system.
var ErrUnavailable = errors.New("audio output unavailable")

// Waveform defines oscillator wave shapes.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
)

func (waveform Waveform) String() string {
	switch waveform {
	case Sine:
		return "sine"
	case Square:
		return "square"
	case Triangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// Tone is one step of an alert motif, scheduled Offset after the motif starts.
type Tone struct {
	Offset    time.Duration
	Frequency float64
	Duration  time.Duration
	Waveform  Waveform
}

// EndSequence is the ascending end-of-round chime.
var EndSequence = []Tone{
	{Offset: 0, Frequency: 660, Duration: 200 * time.Millisecond, Waveform: Sine},
	{Offset: 260 * time.Millisecond, Frequency: 880, Duration: 260 * time.Millisecond, Waveform: Sine},
	{Offset: 560 * time.Millisecond, Frequency: 1046, Duration: 520 * time.Millisecond, Waveform: Sine},
}

// CheckTone is played by the system check.
var CheckTone = Tone{Frequency: 880, Duration: 300 * time.Millisecond, Waveform: Square}

// Synthesizer renders a single tone on the host's audio output.
type Synthesizer interface {
	Synthesize(frequency float64, duration time.Duration, waveform Waveform) error
}

type unsupportedSynthesizer struct{}

// NewUnsupportedSynthesizer returns a Synthesizer that always reports
// ErrUnavailable.
func NewUnsupportedSynthesizer() Synthesizer {
	return unsupportedSynthesizer{}
}

func (unsupportedSynthesizer) Synthesize(float64, time.Duration, Waveform) error {
	return ErrUnavailable
}
