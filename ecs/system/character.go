package system

import (
	"errors"
	"fmt"

	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
)

var ErrNotCharacter = errors.New("system: entity is not a character")

// CharacterSystem owns the phase machine. Inputs are applied synchronously
// through its Submit methods; Update consumes clip-finished events pushed by
// the AnimationSystem earlier in the same tick.
type CharacterSystem struct {
	cfg     *Config
	machine *phaseMachine

	// OnIntroComplete fires once per character, when it becomes ready for
	// input.
	OnIntroComplete func(e ecs.Entity)
}

func NewCharacterSystem(cfg Config) *CharacterSystem {
	return &CharacterSystem{cfg: &cfg, machine: newPhaseMachine()}
}

func (s *CharacterSystem) Config() *Config {
	return s.cfg
}

// SetConfig swaps the tunables. Playbacks already running keep the speed
// they were requested with. An invalid config leaves the current one in
// place.
func (s *CharacterSystem) SetConfig(cfg Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Logger == nil {
		cfg.Logger = s.cfg.Logger
	}
	*s.cfg = cfg
	return nil
}

func (s *CharacterSystem) context(w *ecs.World, e ecs.Entity) (*characterCtx, error) {
	if !ecs.IsAlive(w, e) {
		return nil, fmt.Errorf("system: %s is not alive: %w", e, ErrNotCharacter)
	}
	state, ok := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("system: %s: %w", e, ErrNotCharacter)
	}
	xf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("system: %s has no transform: %w", e, ErrNotCharacter)
	}
	animator, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok || animator.Mixer == nil {
		return nil, fmt.Errorf("system: %s has no animator: %w", e, ErrNotCharacter)
	}
	aim, ok := ecs.Get(w, e, component.AimComponent.Kind())
	if !ok {
		aim = &component.Aim{}
	}
	return &characterCtx{
		cfg:     s.cfg,
		machine: s.machine,
		entity:  e,
		state:   state,
		xf:      xf,
		aim:     aim,
		lib:     animator.Mixer,
		intro:   s.OnIntroComplete,
	}, nil
}

// Start plays the intro. Without an intro clip the character is ready
// immediately.
func (s *CharacterSystem) Start(w *ecs.World, e ecs.Entity) error {
	c, err := s.context(w, e)
	if err != nil {
		return err
	}
	if c.state.Phase != component.PhaseIntroPending || c.state.Awaiting.Valid() {
		return nil
	}

	h, ok := c.play(c.cfg.Clips.Intro, anim.LoopOnce, 1, c.cfg.IntroFade, false)
	if ok {
		c.state.Awaiting = h
		return nil
	}
	c.cfg.warnf("intro: missing clip %q, skipping to idle", c.cfg.Clips.Intro)
	s.machine.enter(c, component.PhaseIdle)
	return nil
}

func (s *CharacterSystem) SubmitDestination(w *ecs.World, e ecs.Entity, p common.Vec3) bool {
	return s.submit(w, e, triggerDestination, p)
}

func (s *CharacterSystem) SubmitAbilityKey(w *ecs.World, e ecs.Entity, key component.AbilityKey) bool {
	t, ok := keyTrigger(key)
	if !ok {
		s.cfg.debugf("unknown ability key %s", key)
		return false
	}
	return s.submit(w, e, t, common.Vec3{})
}

// SubmitAimPoint records the pointer's ground projection used by dash. An
// invalid projection drops the aim entirely.
func (s *CharacterSystem) SubmitAimPoint(w *ecs.World, e ecs.Entity, p common.Vec3, valid bool) {
	if !ecs.Has(w, e, component.CharacterStateComponent.Kind()) {
		s.cfg.debugf("aim for %s ignored: %v", e, ErrNotCharacter)
		return
	}
	if !valid {
		ecs.Remove(w, e, component.AimComponent.Kind())
		return
	}
	aim, ok := ecs.Get(w, e, component.AimComponent.Kind())
	if !ok {
		if err := ecs.Add(w, e, component.AimComponent.Kind(), &component.Aim{Point: p, Valid: true}); err != nil {
			s.cfg.warnf("aim: %v", err)
		}
		return
	}
	aim.Point = p
	aim.Valid = true
}

func (s *CharacterSystem) submit(w *ecs.World, e ecs.Entity, t trigger, p common.Vec3) bool {
	c, err := s.context(w, e)
	if err != nil {
		s.cfg.warnf("%s: %v", t, err)
		return false
	}
	if !c.state.ReadyForInput {
		s.cfg.debugf("%s ignored until the intro completes", t)
		return false
	}
	c.point = p
	return s.machine.fire(c, t)
}

// fire delivers an internal event. Internal events are not gated on
// readiness.
func (s *CharacterSystem) fire(w *ecs.World, e ecs.Entity, t trigger) bool {
	c, err := s.context(w, e)
	if err != nil {
		s.cfg.warnf("%s: %v", t, err)
		return false
	}
	return s.machine.fire(c, t)
}

func (s *CharacterSystem) Update(w *ecs.World) {
	if w == nil || w.Events().Len() == 0 {
		return
	}
	var keep []ecs.Event
	for _, ev := range w.Events().Drain() {
		finished, ok := ev.Data.(ClipFinishedEvent)
		if ev.Type != EventClipFinished || !ok {
			keep = append(keep, ev)
			continue
		}
		s.clipFinished(w, finished)
	}
	for _, ev := range keep {
		w.Events().Push(ev)
	}
}

func (s *CharacterSystem) clipFinished(w *ecs.World, ev ClipFinishedEvent) {
	c, err := s.context(w, ev.Entity)
	if err != nil {
		return
	}
	if !c.state.Awaiting.Valid() || c.state.Awaiting != ev.Handle {
		c.cfg.debugf("stale finish %s in %s", ev.Handle, c.state.Phase)
		return
	}
	c.state.Awaiting = anim.Handle{}
	s.machine.fire(c, triggerClipFinished)
}
