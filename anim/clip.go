package anim

import (
	"errors"
	"strconv"
)

var ErrClipNotFound = errors.New("anim: clip not found")

// LoopMode selects between play-once and repeat-forever playback.
type LoopMode int

const (
	LoopOnce LoopMode = iota
	LoopRepeat
)

func (m LoopMode) String() string {
	if m == LoopRepeat {
		return "repeat"
	}
	return "once"
}

// Clip is a named skeletal sequence. Duration is in clip seconds at a time
// scale of 1.
type Clip struct {
	Name     string
	Duration float64
}

// ClipRequest describes one playback of a clip. A zero TimeScale plays at
// the clip's natural speed.
type ClipRequest struct {
	Name      string
	Loop      LoopMode
	TimeScale float64
	FadeIn    float64
	Clamp     bool
}

// Handle identifies a single playback. Requesting the same clip again
// produces a new handle, so a finish event for an older playback can be
// recognised as stale.
type Handle struct {
	Clip string
	Play uint64
}

func (h Handle) Valid() bool {
	return h.Play != 0
}

func (h Handle) String() string {
	if !h.Valid() {
		return "<none>"
	}
	return h.Clip + "#" + strconv.FormatUint(h.Play, 10)
}

// Finished is reported by Mixer.Update when a play-once clip reaches its end.
type Finished struct {
	Handle Handle
}

// Library is the playback surface the character controller drives.
type Library interface {
	Has(name string) bool
	Request(req ClipRequest) (Handle, error)
	Stop(name string)
	FadeOut(name string, duration float64)
	Playing(name string) bool
}
