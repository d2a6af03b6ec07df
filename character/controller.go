// Package character drives one controlled character: it turns destinations
// and ability keys into clip playback, movement, dash bursts and combat.
package character

import (
	"errors"
	"fmt"
	"log"

	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
	"github.com/milk9111/charctl/ecs/entity"
	"github.com/milk9111/charctl/ecs/system"
	"github.com/milk9111/charctl/prefabs"
)

var ErrNoCharacter = errors.New("character: no character entity")

type Key = component.AbilityKey

const (
	KeyAttack = component.KeyAttack
	KeySpell  = component.KeySpell
	KeyDash   = component.KeyDash
)

type Phase = component.Phase

// Snapshot is the read-only view handed to rendering, camera and UI.
type Snapshot struct {
	Position   common.Vec3
	Facing     float64
	Clip       string
	Phase      Phase
	ComboIndex int
	Target     common.Vec3
	HasTarget  bool
	Ready      bool
}

type Option func(*options)

type options struct {
	logger *log.Logger
	config *system.Config
}

func WithLogger(l *log.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithConfig replaces the tunables derived from the spec.
func WithConfig(cfg system.Config) Option {
	return func(o *options) { o.config = &cfg }
}

// Controller owns the world holding the character and the systems that run
// it. It is not safe for concurrent use; inputs and ticks must come from one
// goroutine.
type Controller struct {
	world  *ecs.World
	sched  *ecs.Scheduler
	chars  *system.CharacterSystem
	entity ecs.Entity
	mixer  *anim.Mixer

	introHooks []func()
}

func New(spec *prefabs.CharacterSpec, opts ...Option) (*Controller, error) {
	if spec == nil {
		return nil, fmt.Errorf("character: new: nil spec")
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	cfg := system.ConfigFromSpec(spec)
	if o.config != nil {
		cfg = *o.config
	}
	if o.logger != nil {
		cfg.Logger = o.logger
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("character: new: %w", err)
	}

	w := ecs.NewWorld()
	e, err := entity.NewCharacter(w, spec)
	if err != nil {
		return nil, fmt.Errorf("character: new: %w", err)
	}
	animator, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok {
		return nil, fmt.Errorf("character: new: %w", ErrNoCharacter)
	}

	chars := system.NewCharacterSystem(cfg)
	c := &Controller{
		world:  w,
		chars:  chars,
		entity: e,
		mixer:  animator.Mixer,
	}
	chars.OnIntroComplete = func(ecs.Entity) { c.introComplete() }
	c.sched = ecs.NewScheduler(
		system.NewAnimationSystem(chars),
		chars,
		system.NewDashSystem(chars),
		system.NewMovementSystem(chars),
	)
	return c, nil
}

// Load reads the named prefab (the default character when empty) with
// environment overrides applied and builds a controller from it.
func Load(name string, opts ...Option) (*Controller, error) {
	spec, err := prefabs.LoadCharacterSpec(name)
	if err != nil {
		return nil, err
	}
	return New(spec, opts...)
}

// Start begins the intro sequence. Input is ignored until it finishes.
func (c *Controller) Start() error {
	return c.chars.Start(c.world, c.entity)
}

// Tick advances the mixer, dash timer and movement by dt seconds.
func (c *Controller) Tick(dt float64) {
	c.sched.Tick(c.world, dt)
}

func (c *Controller) SubmitDestination(p common.Vec3) bool {
	return c.chars.SubmitDestination(c.world, c.entity, p)
}

func (c *Controller) SubmitAbilityKey(k Key) bool {
	return c.chars.SubmitAbilityKey(c.world, c.entity, k)
}

// SubmitAimPoint records where the pointer meets the ground.
func (c *Controller) SubmitAimPoint(p common.Vec3) {
	c.chars.SubmitAimPoint(c.world, c.entity, p, true)
}

// ClearAimPoint marks the pointer as off the ground; dash is then ignored.
func (c *Controller) ClearAimPoint() {
	c.chars.SubmitAimPoint(c.world, c.entity, common.Vec3{}, false)
}

// OnIntroComplete registers fn to run once when the character becomes ready.
// Registering after that point runs fn immediately.
func (c *Controller) OnIntroComplete(fn func()) {
	if fn == nil {
		return
	}
	if st := c.state(); st != nil && st.IntroSignaled {
		fn()
		return
	}
	c.introHooks = append(c.introHooks, fn)
}

func (c *Controller) introComplete() {
	hooks := c.introHooks
	c.introHooks = nil
	for _, fn := range hooks {
		fn()
	}
}

// Reconfigure swaps tunables between ticks. Invalid tunables are refused
// and the running config is kept.
func (c *Controller) Reconfigure(cfg system.Config) error {
	if err := c.chars.SetConfig(cfg); err != nil {
		return fmt.Errorf("character: reconfigure: %w", err)
	}
	return nil
}

// ReloadSpec applies the tuning and bindings of a reloaded prefab and
// registers any clips it adds.
func (c *Controller) ReloadSpec(spec *prefabs.CharacterSpec) error {
	if spec == nil {
		return fmt.Errorf("character: reload: nil spec")
	}
	if err := spec.Validate(); err != nil {
		return fmt.Errorf("character: reload: %w", err)
	}
	for _, clip := range spec.Clips {
		c.mixer.AddClip(anim.Clip{Name: clip.Name, Duration: clip.Duration})
	}
	cfg := system.ConfigFromSpec(spec)
	cfg.Logger = c.chars.Config().Logger
	return c.Reconfigure(cfg)
}

func (c *Controller) Config() system.Config {
	return *c.chars.Config()
}

func (c *Controller) Snapshot() Snapshot {
	st := c.state()
	xf, _ := ecs.Get(c.world, c.entity, component.TransformComponent.Kind())
	if st == nil || xf == nil {
		return Snapshot{}
	}
	return Snapshot{
		Position:   xf.Position,
		Facing:     st.Facing,
		Clip:       c.mixer.Dominant(),
		Phase:      st.Phase,
		ComboIndex: st.ComboIndex,
		Target:     st.Target,
		HasTarget:  st.HasTarget,
		Ready:      st.ReadyForInput,
	}
}

// Clips lists the clip library.
func (c *Controller) Clips() []string {
	return c.mixer.Clips()
}

func (c *Controller) state() *component.CharacterState {
	st, ok := ecs.Get(c.world, c.entity, component.CharacterStateComponent.Kind())
	if !ok {
		return nil
	}
	return st
}
