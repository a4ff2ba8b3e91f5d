package audio

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

const (
	DefaultSampleRate = beep.SampleRate(48000)
	DefaultVolume     = 0.2

	attackTime = 25 * time.Millisecond
	// decayFloor is the gain reached at the end of a tone.
	decayFloor = 0.005
)

// BeepConfig controls the speaker backed synthesizer.
type BeepConfig struct {
	SampleRate beep.SampleRate
	Volume     float64
}

// BeepSynthesizer plays tones through the default speaker. The speaker is
// initialised on first use and shared by every tone afterwards.
type BeepSynthesizer struct {
	mu          sync.Mutex
	config      BeepConfig
	initialized bool
	unavailable bool

	initSpeaker func(rate beep.SampleRate, bufferSize int) error
	play        func(streamers ...beep.Streamer)
}

// NewBeepSynthesizer creates a synthesizer; no device is opened until the
// first tone.
func NewBeepSynthesizer(config BeepConfig) *BeepSynthesizer {
	if config.SampleRate <= 0 {
		config.SampleRate = DefaultSampleRate
	}
	if config.Volume <= 0 || config.Volume > 1 {
		config.Volume = DefaultVolume
	}
	return &BeepSynthesizer{
		config:      config,
		initSpeaker: speaker.Init,
		play:        speaker.Play,
	}
}

// Synthesize queues one tone and returns immediately.
func (synth *BeepSynthesizer) Synthesize(frequency float64, duration time.Duration, waveform Waveform) error {
	if err := synth.ensureSpeaker(); err != nil {
		return err
	}
	synth.play(NewTone(frequency, duration, waveform, synth.config.SampleRate, synth.config.Volume))
	return nil
}

// Available reports whether the speaker was opened or has not been tried yet.
func (synth *BeepSynthesizer) Available() bool {
	synth.mu.Lock()
	defer synth.mu.Unlock()
	return !synth.unavailable
}

func (synth *BeepSynthesizer) ensureSpeaker() error {
	synth.mu.Lock()
	defer synth.mu.Unlock()

	if synth.unavailable {
		return ErrUnavailable
	}
	if synth.initialized {
		return nil
	}

	rate := synth.config.SampleRate
	if err := synth.initSpeaker(rate, rate.N(100*time.Millisecond)); err != nil {
		synth.unavailable = true
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	synth.initialized = true
	return nil
}

// NewTone builds a finite streamer: an oscillator shaped by a short linear
// attack and an exponential decay, scaled to volume.
func NewTone(frequency float64, duration time.Duration, waveform Waveform, rate beep.SampleRate, volume float64) beep.Streamer {
	osc := NewOscillator(frequency, duration, waveform, rate)
	shaped := NewEnvelope(osc, duration, attackTime, rate)
	return newVolume(shaped, volume)
}

type oscillator struct {
	freq     float64
	phase    float64
	duration int
	position int
	wave     Waveform
	rate     beep.SampleRate
}

// NewOscillator creates a raw waveform generator that stops after duration.
func NewOscillator(freq float64, duration time.Duration, wave Waveform, rate beep.SampleRate) beep.Streamer {
	return &oscillator{
		freq:     freq,
		duration: rate.N(duration),
		wave:     wave,
		rate:     rate,
	}
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	if o.position >= o.duration {
		return 0, false
	}
	for i := range samples {
		if o.position >= o.duration {
			return i, true
		}

		var val float64
		switch o.wave {
		case Square:
			if o.phase < 0.5 {
				val = 1.0
			} else {
				val = -1.0
			}
		case Triangle:
			val = 1.0 - 4.0*math.Abs(o.phase-0.5)
		default:
			val = math.Sin(2 * math.Pi * o.phase)
		}

		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase = o.phase - math.Floor(o.phase)
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

type envelope struct {
	streamer      beep.Streamer
	position      int
	attackSamples int
	totalSamples  int
}

// NewEnvelope ramps gain linearly to 1 over attack, then decays
// exponentially to decayFloor at the end of duration.
func NewEnvelope(s beep.Streamer, duration, attack time.Duration, rate beep.SampleRate) beep.Streamer {
	total := rate.N(duration)
	att := rate.N(attack)
	if att > total {
		att = total
	}
	return &envelope{
		streamer:      s,
		attackSamples: att,
		totalSamples:  total,
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := 0; i < n; i++ {
		gain := e.gain(e.position)
		samples[i][0] *= gain
		samples[i][1] *= gain
		e.position++
	}
	return n, ok
}

func (e *envelope) gain(position int) float64 {
	if position >= e.totalSamples {
		return 0
	}
	if position < e.attackSamples {
		return float64(position) / float64(e.attackSamples)
	}
	decaySamples := e.totalSamples - e.attackSamples
	if decaySamples <= 0 {
		return 1
	}
	progress := float64(position-e.attackSamples) / float64(decaySamples)
	return math.Exp(math.Log(decayFloor) * progress)
}

func (e *envelope) Err() error { return e.streamer.Err() }

// math.Log2(0) is -Inf, so zero volume is made silent instead.
func newVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Volume: 0, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol), Silent: false}
}
