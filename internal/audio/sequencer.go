package audio

import (
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Options contains runtime dependencies for Sequencer.
type Options struct {
	Clock  clockwork.Clock
	Logger *zerolog.Logger
}

// Sequencer plays tones and short motifs without blocking the caller.
// Output failures are logged and dropped.
type Sequencer struct {
	synth  Synthesizer
	clock  clockwork.Clock
	logger zerolog.Logger
}

// NewSequencer creates a Sequencer over synth. A nil synth plays nothing.
func NewSequencer(synth Synthesizer, options Options) *Sequencer {
	if synth == nil {
		synth = NewUnsupportedSynthesizer()
	}
	if options.Clock == nil {
		options.Clock = clockwork.NewRealClock()
	}
	logger := zerolog.Nop()
	if options.Logger != nil {
		logger = *options.Logger
	}
	return &Sequencer{
		synth:  synth,
		clock:  options.Clock,
		logger: logger,
	}
}

// Play synthesizes one tone in the background.
func (sequencer *Sequencer) Play(duration time.Duration, frequency float64, waveform Waveform) {
	tone := Tone{Frequency: frequency, Duration: duration, Waveform: waveform}
	go sequencer.render(tone)
}

// PlayEndSequence schedules the end-of-round chime.
func (sequencer *Sequencer) PlayEndSequence() {
	sequencer.PlaySequence(EndSequence)
}

// PlaySequence schedules every tone as an independent one-shot timer.
func (sequencer *Sequencer) PlaySequence(tones []Tone) {
	for _, tone := range tones {
		tone := tone
		sequencer.clock.AfterFunc(tone.Offset, func() {
			sequencer.render(tone)
		})
	}
}

// Check plays the system check tone.
func (sequencer *Sequencer) Check() {
	sequencer.Play(CheckTone.Duration, CheckTone.Frequency, CheckTone.Waveform)
}

func (sequencer *Sequencer) render(tone Tone) {
	if tone.Duration <= 0 || tone.Frequency <= 0 {
		return
	}
	err := sequencer.synth.Synthesize(tone.Frequency, tone.Duration, tone.Waveform)
	if err == nil {
		return
	}
	event := sequencer.logger.Warn()
	if errors.Is(err, ErrUnavailable) {
		event = sequencer.logger.Debug()
	}
	event.Err(err).
		Float64("frequency", tone.Frequency).
		Dur("duration", tone.Duration).
		Msg("tone dropped")
}
