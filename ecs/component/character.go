package component

import (
	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
)

// Phase is the character controller's current named state.
type Phase int

const (
	PhaseIntroPending Phase = iota
	PhaseIdle
	PhaseStarting
	PhaseRunning
	PhaseResheathing
	PhaseIdleInSheath
	PhaseQAttack
	PhaseQHold
	PhaseResuming
	PhaseSpell
	PhaseDashing
)

var phaseNames = [...]string{
	PhaseIntroPending: "intro_pending",
	PhaseIdle:         "idle",
	PhaseStarting:     "starting",
	PhaseRunning:      "running",
	PhaseResheathing:  "resheathing",
	PhaseIdleInSheath: "idle_in_sheath",
	PhaseQAttack:      "q_attack",
	PhaseQHold:        "q_hold",
	PhaseResuming:     "resuming",
	PhaseSpell:        "spell",
	PhaseDashing:      "dashing",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}

// Combat reports whether dash only turns and glides instead of bursting.
func (p Phase) Combat() bool {
	return p == PhaseQAttack || p == PhaseQHold || p == PhaseSpell
}

// ComboStep tracks which clip of the combo chain is in flight.
type ComboStep int

const (
	ComboStepNone ComboStep = iota
	ComboStepStrike
	ComboStepRecovery
	ComboStepResheath
)

// DashState is the record of an in-flight dash burst.
type DashState struct {
	Direction common.Vec3
	Remaining float64
	Previous  Phase
}

// CharacterState is the single source of truth for one controlled
// character. Only the character systems mutate it.
type CharacterState struct {
	Phase      Phase
	ComboIndex int
	ComboStep  ComboStep
	Facing     float64

	Target    common.Vec3
	HasTarget bool

	Glide    common.Vec3
	HasGlide bool

	// OneShots holds the combo strike and its recovery so a new input can
	// stop them.
	OneShots [2]anim.Handle
	// Awaiting is the playback whose finish advances the current phase. Finish
	// events for any other handle are stale.
	Awaiting anim.Handle

	SpellMoving bool
	Dash        DashState

	PendingDestination    common.Vec3
	HasPendingDestination bool

	ReadyForInput bool
	IntroSignaled bool
}

// NewCharacterState returns the spawn state: waiting on the intro, combo at
// its first stage.
func NewCharacterState() *CharacterState {
	return &CharacterState{Phase: PhaseIntroPending, ComboIndex: 1}
}

func (s *CharacterState) SetTarget(p common.Vec3) {
	s.Target = p
	s.HasTarget = true
}

func (s *CharacterState) ClearTarget() {
	s.Target = common.Vec3{}
	s.HasTarget = false
}

func (s *CharacterState) SetGlide(p common.Vec3) {
	s.Glide = p
	s.HasGlide = true
}

func (s *CharacterState) ClearGlide() {
	s.Glide = common.Vec3{}
	s.HasGlide = false
}

// NextComboIndex advances the combo cyclically 1 -> 2 -> 3 -> 1.
func NextComboIndex(i int) int {
	if i < 1 || i > 3 {
		i = 1
	}
	return i%3 + 1
}

var CharacterStateComponent = NewComponent[CharacterState]()
