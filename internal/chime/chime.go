// Package chime plays a short tone when a wave switches the shape.
package chime

import (
	"fmt"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/ayusman/particleflow/internal/particle"
)

const sampleRate = beep.SampleRate(44100)

// NoteLength is the duration of each of the two notes in a chime.
const NoteLength = 90 * time.Millisecond

// root frequencies in Hz, one per shape.
var root = map[particle.Shape]float64{
	particle.Heart:     523.25, // C5
	particle.Flower:    659.25, // E5
	particle.Fireworks: 783.99, // G5
}

// Tone returns the chime for a shape: the root note followed by its fifth,
// each with a linear decay.
func Tone(sr beep.SampleRate, shape particle.Shape) (beep.Streamer, error) {
	freq, ok := root[shape]
	if !ok {
		freq = root[particle.Heart]
	}

	first, err := generators.SineTone(sr, freq)
	if err != nil {
		return nil, fmt.Errorf("chime tone: %w", err)
	}
	second, err := generators.SineTone(sr, freq*1.5)
	if err != nil {
		return nil, fmt.Errorf("chime tone: %w", err)
	}

	n := sr.N(NoteLength)
	return beep.Seq(
		decay(beep.Take(n, first), n),
		decay(beep.Take(n, second), n),
	), nil
}

// decay scales s linearly from full volume to silence over n samples.
func decay(s beep.Streamer, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		got, ok := s.Stream(samples)
		for i := 0; i < got; i++ {
			g := 1 - float64(pos)/float64(n)
			if g < 0 {
				g = 0
			}
			samples[i][0] *= g
			samples[i][1] *= g
			pos++
		}
		return got, ok
	})
}

// Player mixes chimes onto the default audio device.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	volume      float64
	initialized bool
}

// NewPlayer creates a player. Volume is in beep's base-2 units; 0 is unity
// gain and -1 halves the amplitude.
func NewPlayer(volume float64) *Player {
	return &Player{mixer: &beep.Mixer{}, volume: volume}
}

// Init opens the speaker. It is safe to call more than once.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("init speaker: %w", err)
	}
	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Play queues the chime for shape. It does nothing before Init.
func (p *Player) Play(shape particle.Shape) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return nil
	}
	tone, err := Tone(sampleRate, shape)
	if err != nil {
		return err
	}
	speaker.Lock()
	p.mixer.Add(&effects.Volume{Streamer: tone, Base: 2, Volume: p.volume})
	speaker.Unlock()
	return nil
}

// Close silences any pending chimes.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}
