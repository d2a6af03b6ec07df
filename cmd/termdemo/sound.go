package main

import (
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/generators"
	"github.com/gopxl/beep/speaker"

	"github.com/milk9111/charctl/character"
)

const sampleRate = beep.SampleRate(44100)

// cueTones maps each accepted ability to a short tone.
var cueTones = map[character.Key]float64{
	character.KeyAttack: 440,
	character.KeySpell:  660,
	character.KeyDash:   880,
}

// Cues plays input feedback. A Cues that failed to open the speaker stays
// silent.
type Cues struct {
	mu      sync.Mutex
	enabled bool
}

func NewCues() (*Cues, error) {
	c := &Cues{}
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return c, err
	}
	c.enabled = true
	return c, nil
}

func (c *Cues) Play(k character.Key) {
	c.tone(cueTones[k], 60*time.Millisecond)
}

// Ready marks the end of the intro.
func (c *Cues) Ready() {
	c.tone(330, 150*time.Millisecond)
}

func (c *Cues) tone(freq float64, d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.enabled || freq <= 0 {
		return
	}
	sine, err := generators.SineTone(sampleRate, freq)
	if err != nil {
		return
	}
	speaker.Play(beep.Take(sampleRate.N(d), sine))
}

func (c *Cues) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.enabled {
		speaker.Close()
		c.enabled = false
	}
}
