package system

import (
	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
)

type trigger int

const (
	triggerDestination trigger = iota
	triggerAttack
	triggerSpell
	triggerDash
	triggerClipFinished
	triggerArrival
	triggerDashExpired
)

var triggerNames = [...]string{
	triggerDestination:  "destination",
	triggerAttack:       "attack",
	triggerSpell:        "spell",
	triggerDash:         "dash",
	triggerClipFinished: "clip_finished",
	triggerArrival:      "arrival",
	triggerDashExpired:  "dash_expired",
}

func (t trigger) String() string {
	if t < 0 || int(t) >= len(triggerNames) {
		return "unknown"
	}
	return triggerNames[t]
}

func keyTrigger(k component.AbilityKey) (trigger, bool) {
	switch k {
	case component.KeyAttack:
		return triggerAttack, true
	case component.KeySpell:
		return triggerSpell, true
	case component.KeyDash:
		return triggerDash, true
	}
	return 0, false
}

type outcome int

const (
	// rejected: the guard failed and the input is ignored.
	rejected outcome = iota
	// stay: handled without leaving the phase; no on-enter runs.
	stay
	// move: enter the returned phase, re-entering it when it is the current one.
	move
)

// handler performs the transition's exit-side actions and names the next
// phase.
type handler func(c *characterCtx) (component.Phase, outcome)

// enterAction is a phase's on-enter action. Returning true chains straight
// into the returned phase within the same step.
type enterAction func(c *characterCtx) (component.Phase, bool)

type phaseDef struct {
	OnEnter enterAction
}

type phaseMachine struct {
	states      map[component.Phase]phaseDef
	transitions map[component.Phase]map[trigger]handler
}

// maxChain bounds on-enter chaining; every chain in the table settles in at
// most three hops.
const maxChain = 8

func newPhaseMachine() *phaseMachine {
	return &phaseMachine{
		states: map[component.Phase]phaseDef{
			component.PhaseIdle:         {OnEnter: enterIdle},
			component.PhaseStarting:     {OnEnter: enterStarting},
			component.PhaseRunning:      {OnEnter: enterRunning},
			component.PhaseResheathing:  {OnEnter: enterResheathing},
			component.PhaseIdleInSheath: {OnEnter: enterIdleInSheath},
			component.PhaseQAttack:      {OnEnter: enterQAttack},
			component.PhaseQHold:        {OnEnter: enterQHold},
			component.PhaseResuming:     {OnEnter: enterResuming},
			component.PhaseSpell:        {OnEnter: enterSpell},
			component.PhaseDashing:      {OnEnter: enterDashing},
		},
		transitions: map[component.Phase]map[trigger]handler{
			component.PhaseIntroPending: {
				triggerClipFinished: introFinished,
			},
			component.PhaseIdle: {
				triggerDestination: startMoving,
				triggerAttack:      beginAttack,
				triggerSpell:       beginSpell,
				triggerDash:        beginDash,
			},
			component.PhaseStarting: {
				triggerClipFinished: unsheathFinished,
			},
			component.PhaseRunning: {
				triggerDestination: retarget,
				triggerArrival:     arrive,
				triggerAttack:      beginAttack,
				triggerSpell:       beginSpell,
				triggerDash:        beginDash,
			},
			component.PhaseResheathing: {
				triggerClipFinished: resheathFinished,
			},
			component.PhaseIdleInSheath: {
				triggerClipFinished: idleInSheathFinished,
				triggerDestination:  startMoving,
			},
			component.PhaseQAttack: {
				triggerClipFinished: strikeFinished,
				triggerAttack:       beginAttack,
				triggerDestination:  resumeFromCombo,
				triggerSpell:        beginSpell,
				triggerDash:         combatDash,
			},
			component.PhaseQHold: {
				triggerClipFinished: holdFinished,
				triggerAttack:       beginAttack,
				triggerDestination:  resumeFromCombo,
				triggerSpell:        beginSpell,
				triggerDash:         combatDash,
			},
			component.PhaseSpell: {
				triggerClipFinished: spellFinished,
				triggerAttack:       interruptSpell,
				triggerSpell:        interruptSpell,
				triggerDash:         combatDash,
			},
			component.PhaseDashing: {
				triggerDashExpired: dashExpired,
				triggerDestination: deferDestination,
			},
		},
	}
}

// fire runs one input or event through the table. It reports whether the
// trigger was accepted.
func (m *phaseMachine) fire(c *characterCtx, t trigger) bool {
	from := c.state.Phase
	h, ok := m.transitions[from][t]
	if !ok {
		c.cfg.debugf("%s ignored in %s", t, from)
		return false
	}

	prev := c.trigger
	c.trigger = t
	next, out := h(c)
	c.trigger = prev

	switch out {
	case rejected:
		c.resetEntry()
		c.cfg.debugf("%s rejected in %s", t, from)
		return false
	case stay:
		c.resetEntry()
		return true
	}
	m.enter(c, next)
	return true
}

func (m *phaseMachine) enter(c *characterCtx, next component.Phase) {
	defer c.resetEntry()
	for i := 0; i < maxChain; i++ {
		from := c.state.Phase
		c.state.Phase = next
		c.cfg.debugf("%s -> %s", from, next)

		def, ok := m.states[next]
		if !ok || def.OnEnter == nil {
			return
		}
		follow, chained := def.OnEnter(c)
		if !chained {
			return
		}
		next = follow
	}
	c.cfg.warnf("phase chain did not settle, stopping in %s", c.state.Phase)
}

// characterCtx is the view a transition gets of one character for the
// duration of a single step.
type characterCtx struct {
	cfg     *Config
	machine *phaseMachine
	entity  ecs.Entity
	state   *component.CharacterState
	xf      *component.Transform
	aim     *component.Aim
	lib     anim.Library
	intro   func(ecs.Entity)

	trigger trigger
	point   common.Vec3

	// entry parameters consumed by the next on-enter
	fade      float64
	silent    bool
	crossFrom string
}

func (c *characterCtx) resetEntry() {
	c.fade = 0
	c.silent = false
	c.crossFrom = ""
}

func (c *characterCtx) has(name string) bool {
	return name != "" && c.lib.Has(name)
}

// play issues a clip request; local is scaled by the global speed.
func (c *characterCtx) play(name string, loop anim.LoopMode, local, fade float64, clamp bool) (anim.Handle, bool) {
	if !c.has(name) {
		return anim.Handle{}, false
	}
	h, err := c.lib.Request(anim.ClipRequest{
		Name:      name,
		Loop:      loop,
		TimeScale: local * c.cfg.GlobalSpeed,
		FadeIn:    fade,
		Clamp:     clamp,
	})
	if err != nil {
		c.cfg.warnf("%v", err)
		return anim.Handle{}, false
	}
	return h, true
}

func (c *characterCtx) stop(names ...string) {
	for _, name := range names {
		if name != "" {
			c.lib.Stop(name)
		}
	}
}

// require reports whether every named clip exists, logging the first gap.
func (c *characterCtx) require(action string, names ...string) bool {
	for _, name := range names {
		if !c.has(name) {
			c.cfg.warnf("%s: missing clip %q, falling back to idle", action, name)
			return false
		}
	}
	return true
}

func (c *characterCtx) stopOneShots() {
	for i, h := range c.state.OneShots {
		if h.Valid() {
			c.lib.Stop(h.Clip)
		}
		c.state.OneShots[i] = anim.Handle{}
	}
}

func (c *characterCtx) face(p common.Vec3) {
	if p.Sub(c.xf.Position).IsZero() {
		return
	}
	c.state.Facing = common.YawToward(c.xf.Position, p)
}

func (c *characterCtx) markReady() {
	c.state.ReadyForInput = true
	if c.state.IntroSignaled {
		return
	}
	c.state.IntroSignaled = true
	if c.intro != nil {
		c.intro(c.entity)
	}
}

// abort falls back to Idle from an on-enter that could not start its clip.
func (c *characterCtx) abort() (component.Phase, bool) {
	c.fade = c.cfg.ActionFade
	return component.PhaseIdle, true
}
