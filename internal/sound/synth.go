// Package sound synthesizes the game's short sound cues. Package playback
// plays them on the speaker.
package sound

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
)

// SampleRate is the rate cues are synthesized at.
const SampleRate = beep.SampleRate(44100)

// Cue names a sound effect.
type Cue int

const (
	Step Cue = iota
	Jump
	Land
	Door
	Squash
	Goal
	cueCount
)

func (c Cue) String() string {
	switch c {
	case Step:
		return "step"
	case Jump:
		return "jump"
	case Land:
		return "land"
	case Door:
		return "door"
	case Squash:
		return "squash"
	case Goal:
		return "goal"
	}
	return "unknown"
}

// Wave is an oscillator shape.
type Wave int

const (
	Sine Wave = iota
	Square
	Saw
	Noise
)

// oscillator generates a wave whose frequency slides linearly over time.
type oscillator struct {
	freq     float64 // Hz
	slide    float64 // Hz per sample
	phase    float64
	duration int
	position int
	wave     Wave
	rate     beep.SampleRate
	rng      *rand.Rand
}

// NewOscillator returns a streamer playing wave for duration, gliding from
// freq to endFreq. Noise ignores the frequencies and draws from rng.
func NewOscillator(wave Wave, freq, endFreq float64, duration time.Duration, rate beep.SampleRate, rng *rand.Rand) beep.Streamer {
	samples := rate.N(duration)
	o := &oscillator{
		freq:     freq,
		duration: samples,
		wave:     wave,
		rate:     rate,
		rng:      rng,
	}
	if samples > 0 {
		o.slide = (endFreq - freq) / float64(samples)
	}
	return o
}

func (o *oscillator) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if o.position >= o.duration {
			return i, i > 0
		}

		var val float64
		switch o.wave {
		case Sine:
			val = math.Sin(2 * math.Pi * o.phase)
		case Square:
			val = 1
			if o.phase >= 0.5 {
				val = -1
			}
		case Saw:
			val = 2 * (o.phase - 0.5)
		case Noise:
			val = o.rng.Float64()*2 - 1
		}
		samples[i][0] = val
		samples[i][1] = val

		o.phase += o.freq / float64(o.rate)
		o.phase -= math.Floor(o.phase)
		o.freq += o.slide
		o.position++
	}
	return len(samples), true
}

func (o *oscillator) Err() error { return nil }

// envelope fades a stream in over attack samples and out over the last
// release samples of total.
type envelope struct {
	streamer beep.Streamer
	position int
	attack   int
	release  int
	total    int
}

// NewEnvelope shapes s with a linear attack and release.
func NewEnvelope(s beep.Streamer, duration, attack, release time.Duration, rate beep.SampleRate) beep.Streamer {
	return &envelope{
		streamer: s,
		attack:   rate.N(attack),
		release:  rate.N(release),
		total:    rate.N(duration),
	}
}

func (e *envelope) Stream(samples [][2]float64) (n int, ok bool) {
	n, ok = e.streamer.Stream(samples)
	for i := range n {
		if e.position >= e.total {
			return i, i > 0
		}

		vol := 1.0
		if e.position < e.attack {
			vol = float64(e.position) / float64(e.attack)
		}
		if left := e.total - e.position; left < e.release {
			vol = min(vol, float64(left)/float64(e.release))
		}
		samples[i][0] *= vol
		samples[i][1] *= vol
		e.position++
	}
	return n, ok
}

func (e *envelope) Err() error { return e.streamer.Err() }

// withVolume scales s by a linear gain. Zero or less is silent.
func withVolume(s beep.Streamer, gain float64) beep.Streamer {
	if gain <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(gain)}
}

func tone(wave Wave, from, to float64, d, attack, release time.Duration, rng *rand.Rand) beep.Streamer {
	return NewEnvelope(NewOscillator(wave, from, to, d, SampleRate, rng), d, attack, release, SampleRate)
}

// Synth builds cue streamers. Noise is seeded so a cue always sounds the
// same for the same seed.
type Synth struct {
	Volume float64 // linear master gain
	rng    *rand.Rand
}

// NewSynth returns a synth at full volume.
func NewSynth(seed uint64) *Synth {
	return &Synth{Volume: 1, rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Cue returns a fresh streamer for c, or nil for an unknown cue.
func (s *Synth) Cue(c Cue) beep.Streamer {
	const ms = time.Millisecond

	var out beep.Streamer
	gain := 1.0
	switch c {
	case Step:
		out = tone(Noise, 0, 0, 45*ms, 5*ms, 30*ms, s.rng)
		gain = 0.25
	case Jump:
		out = tone(Square, 220, 520, 140*ms, 5*ms, 60*ms, s.rng)
		gain = 0.3
	case Land:
		out = beep.Mix(
			tone(Sine, 110, 60, 90*ms, 2*ms, 70*ms, s.rng),
			withVolume(tone(Noise, 0, 0, 50*ms, 2*ms, 40*ms, s.rng), 0.4),
		)
		gain = 0.5
	case Door:
		out = tone(Saw, 70, 55, 350*ms, 30*ms, 120*ms, s.rng)
		gain = 0.35
	case Squash:
		out = tone(Noise, 0, 0, 220*ms, 5*ms, 150*ms, s.rng)
		gain = 0.6
	case Goal:
		out = beep.Seq(
			tone(Square, 987.77, 987.77, 90*ms, 2*ms, 40*ms, s.rng),
			tone(Square, 1318.51, 1318.51, 260*ms, 2*ms, 200*ms, s.rng),
		)
		gain = 0.3
	default:
		return nil
	}
	return withVolume(out, gain*s.Volume)
}
