// Package playback plays sound cues on the system speaker.
package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/taigrr/gridcast/internal/sound"
)

// Player plays cues on the speaker. A nil *Player is silent, so callers can
// hold one whether or not sound is enabled.
type Player struct {
	mu     sync.Mutex
	synth  *sound.Synth
	mixer  *beep.Mixer
	closed bool
}

// Open initializes the speaker and starts an empty mixer on it.
func Open(volume float64) (*Player, error) {
	if err := speaker.Init(sound.SampleRate, sound.SampleRate.N(50*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	p := &Player{
		synth: sound.NewSynth(uint64(time.Now().UnixNano())),
		mixer: &beep.Mixer{},
	}
	p.synth.Volume = volume
	speaker.Play(p.mixer)
	return p, nil
}

// Play starts c on top of whatever is playing.
func (p *Player) Play(c sound.Cue) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	s := p.synth.Cue(c)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// Close stops playback and releases the speaker.
func (p *Player) Close() {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return
	}
	p.closed = true
	speaker.Clear()
	speaker.Close()
}
