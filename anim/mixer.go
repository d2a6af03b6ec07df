package anim

import (
	"fmt"
	"math"
	"sort"
)

type playback struct {
	handle   Handle
	req      ClipRequest
	duration float64
	time     float64
	weight   float64
	fadeRate float64
	done     bool
}

// Mixer owns the clip table and every active playback. Update is the only
// place time enters: each playback advances by dt * TimeScale * its own
// request TimeScale.
type Mixer struct {
	TimeScale float64

	clips  map[string]Clip
	active map[string]*playback
	plays  uint64
}

func NewMixer(clips ...Clip) *Mixer {
	m := &Mixer{
		TimeScale: 1,
		clips:     make(map[string]Clip, len(clips)),
		active:    make(map[string]*playback),
	}
	for _, c := range clips {
		m.AddClip(c)
	}
	return m
}

// AddClip registers or replaces a clip definition. Playbacks already running
// keep the duration they started with.
func (m *Mixer) AddClip(c Clip) {
	if c.Name == "" {
		return
	}
	if c.Duration < 0 {
		c.Duration = 0
	}
	m.clips[c.Name] = c
}

func (m *Mixer) Has(name string) bool {
	_, ok := m.clips[name]
	return ok
}

// Clips returns the registered clip names in sorted order.
func (m *Mixer) Clips() []string {
	names := make([]string, 0, len(m.clips))
	for name := range m.clips {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Request restarts the named clip from its first frame.
func (m *Mixer) Request(req ClipRequest) (Handle, error) {
	clip, ok := m.clips[req.Name]
	if !ok {
		return Handle{}, fmt.Errorf("anim: request %s: %w", req.Name, ErrClipNotFound)
	}
	if req.TimeScale == 0 {
		req.TimeScale = 1
	}

	m.plays++
	p := &playback{
		handle:   Handle{Clip: clip.Name, Play: m.plays},
		req:      req,
		duration: clip.Duration,
		weight:   1,
	}
	if req.FadeIn > 0 {
		p.weight = 0
		p.fadeRate = 1 / req.FadeIn
	}
	m.active[clip.Name] = p
	return p.handle, nil
}

// Stop removes the playback immediately. A stopped clip never reports
// Finished.
func (m *Mixer) Stop(name string) {
	delete(m.active, name)
}

func (m *Mixer) FadeOut(name string, duration float64) {
	p, ok := m.active[name]
	if !ok {
		return
	}
	if duration <= 0 {
		m.Stop(name)
		return
	}
	p.fadeRate = -1 / duration
}

// Playing reports whether the clip is active and not on its way out.
func (m *Mixer) Playing(name string) bool {
	p, ok := m.active[name]
	return ok && p.fadeRate >= 0
}

func (m *Mixer) Weight(name string) float64 {
	if p, ok := m.active[name]; ok {
		return p.weight
	}
	return 0
}

// Current returns the handle of the active playback of name.
func (m *Mixer) Current(name string) (Handle, bool) {
	p, ok := m.active[name]
	if !ok {
		return Handle{}, false
	}
	return p.handle, true
}

// Dominant is the most recently requested clip that is not fading out, or
// the heaviest remaining clip when everything is fading.
func (m *Mixer) Dominant() string {
	var best *playback
	for _, p := range m.active {
		if p.fadeRate < 0 {
			continue
		}
		if best == nil || p.handle.Play > best.handle.Play {
			best = p
		}
	}
	if best != nil {
		return best.handle.Clip
	}
	for _, p := range m.active {
		if best == nil || p.weight > best.weight {
			best = p
		}
	}
	if best == nil {
		return ""
	}
	return best.handle.Clip
}

// Update advances every playback and returns the play-once clips that
// reached their end, in request order.
func (m *Mixer) Update(dt float64) []Finished {
	scaled := dt * m.TimeScale
	if scaled <= 0 || len(m.active) == 0 {
		return nil
	}

	order := make([]*playback, 0, len(m.active))
	for _, p := range m.active {
		order = append(order, p)
	}
	sort.Slice(order, func(i, j int) bool { return order[i].handle.Play < order[j].handle.Play })

	var finished []Finished
	for _, p := range order {
		if p.fadeRate != 0 {
			p.weight += p.fadeRate * scaled
			if p.weight >= 1 {
				p.weight = 1
				p.fadeRate = 0
			}
			if p.weight <= 0 {
				m.Stop(p.handle.Clip)
				continue
			}
		}
		if p.done {
			continue
		}

		p.time += scaled * p.req.TimeScale
		if p.req.Loop == LoopRepeat {
			if p.duration > 0 {
				p.time = math.Mod(p.time, p.duration)
			}
			continue
		}
		if p.time < p.duration {
			continue
		}

		p.time = p.duration
		p.done = true
		finished = append(finished, Finished{Handle: p.handle})
		if !p.req.Clamp {
			m.Stop(p.handle.Clip)
		}
	}
	return finished
}
