package system

import (
	"errors"
	"io"
	"log"
	"testing"

	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
	"github.com/milk9111/charctl/prefabs"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.GlobalSpeed = 1
	cfg.Logger = log.New(io.Discard, "", 0)
	return cfg
}

func testMixer(cfg Config, skip ...string) *anim.Mixer {
	cl := cfg.Clips
	names := []string{
		cl.Intro, cl.Idle, cl.Unsheath, cl.Run, cl.Resheath, cl.IdleInSheath,
		cl.ComboResheath, cl.SpellWindup, cl.SpellStationary, cl.SpellStop,
		cl.Dash, cl.DashRecovery,
	}
	for _, stage := range cl.Combo {
		names = append(names, stage.Strike, stage.Recovery)
	}
	m := anim.NewMixer()
outer:
	for _, name := range names {
		for _, s := range skip {
			if s == name {
				continue outer
			}
		}
		m.AddClip(anim.Clip{Name: name, Duration: 0.5})
	}
	return m
}

type rig struct {
	w     *ecs.World
	e     ecs.Entity
	chars *CharacterSystem
	sched *ecs.Scheduler
	mixer *anim.Mixer
}

func newRig(t *testing.T, cfg Config, skip ...string) *rig {
	t.Helper()
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)
	m := testMixer(cfg, skip...)

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("add component: %v", err)
		}
	}
	must(ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{}))
	must(ecs.Add(w, e, component.CharacterStateComponent.Kind(), component.NewCharacterState()))
	must(ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Mixer: m}))

	chars := NewCharacterSystem(cfg)
	return &rig{
		w:     w,
		e:     e,
		chars: chars,
		mixer: m,
		sched: ecs.NewScheduler(NewAnimationSystem(chars), chars, NewDashSystem(chars), NewMovementSystem(chars)),
	}
}

func (r *rig) state() *component.CharacterState {
	st, _ := ecs.Get(r.w, r.e, component.CharacterStateComponent.Kind())
	return st
}

func (r *rig) ready(t *testing.T) {
	t.Helper()
	if err := r.chars.Start(r.w, r.e); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 100 && !r.state().ReadyForInput; i++ {
		r.sched.Tick(r.w, 0.01)
	}
	if !r.state().ReadyForInput {
		t.Fatalf("intro never completed")
	}
}

func TestStartRequiresCharacter(t *testing.T) {
	chars := NewCharacterSystem(testConfig())
	w := ecs.NewWorld()
	e := ecs.CreateEntity(w)

	if err := chars.Start(w, e); !errors.Is(err, ErrNotCharacter) {
		t.Fatalf("expected ErrNotCharacter, got %v", err)
	}
	if chars.SubmitDestination(w, e, common.V3(1, 0, 0)) {
		t.Fatalf("destination accepted for a bare entity")
	}
}

func TestIntroHookFiresOnce(t *testing.T) {
	r := newRig(t, testConfig())
	calls := 0
	r.chars.OnIntroComplete = func(e ecs.Entity) {
		if e != r.e {
			t.Errorf("hook got entity %s", e)
		}
		calls++
	}
	r.ready(t)
	for i := 0; i < 50; i++ {
		r.sched.Tick(r.w, 0.1)
	}
	if calls != 1 {
		t.Fatalf("expected one intro signal, got %d", calls)
	}
	if got := r.state().Phase; got != component.PhaseIdle {
		t.Fatalf("expected idle, got %s", got)
	}
}

func TestUnknownAbilityKeyIgnored(t *testing.T) {
	r := newRig(t, testConfig())
	r.ready(t)
	if r.chars.SubmitAbilityKey(r.w, r.e, component.AbilityKey(42)) {
		t.Fatalf("unknown key accepted")
	}
}

func TestAnimationSystemQueuesFinishedClips(t *testing.T) {
	cfg := testConfig()
	r := newRig(t, cfg)
	h, err := r.mixer.Request(anim.ClipRequest{Name: cfg.Clips.Dash, TimeScale: 1})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	r.w.SetDeltaTime(1)
	NewAnimationSystem(r.chars).Update(r.w)

	events := r.w.Events().Drain()
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	got, ok := events[0].Data.(ClipFinishedEvent)
	if events[0].Type != EventClipFinished || !ok {
		t.Fatalf("unexpected event %+v", events[0])
	}
	if got.Entity != r.e || got.Handle != h {
		t.Fatalf("expected %s/%s, got %s/%s", r.e, h, got.Entity, got.Handle)
	}
}

func TestCharacterSystemKeepsForeignEvents(t *testing.T) {
	r := newRig(t, testConfig())
	r.w.Events().Push(ecs.Event{Type: "other", Data: 1})
	r.chars.Update(r.w)
	if got := r.w.Events().Len(); got != 1 {
		t.Fatalf("expected foreign event to survive, queue has %d", got)
	}
}

func TestMissingRunClipAbortsToIdle(t *testing.T) {
	cfg := testConfig()
	r := newRig(t, cfg, cfg.Clips.Run)
	r.ready(t)

	r.chars.SubmitDestination(r.w, r.e, common.V3(5, 0, 0))
	st := r.state()
	if st.Phase != component.PhaseIdle {
		t.Fatalf("expected idle fallback, got %s", st.Phase)
	}
	if st.HasTarget {
		t.Fatalf("fallback should drop the target")
	}
	if _, ok := r.mixer.Current(cfg.Clips.Unsheath); ok {
		t.Fatalf("unsheath should not start without a run clip")
	}
}

func TestMissingSpellClipAbortsToIdle(t *testing.T) {
	cfg := testConfig()
	r := newRig(t, cfg, cfg.Clips.SpellStationary)
	r.ready(t)

	if !r.chars.SubmitAbilityKey(r.w, r.e, component.KeySpell) {
		t.Fatalf("spell key should be handled")
	}
	if got := r.state().Phase; got != component.PhaseIdle {
		t.Fatalf("expected idle fallback, got %s", got)
	}
}

func TestDashWithoutClipStillMoves(t *testing.T) {
	cfg := testConfig()
	r := newRig(t, cfg, cfg.Clips.Dash)
	r.ready(t)
	r.chars.SubmitAimPoint(r.w, r.e, common.V3(-3, 2, 0), true)

	if !r.chars.SubmitAbilityKey(r.w, r.e, component.KeyDash) {
		t.Fatalf("dash rejected")
	}
	for i := 0; i < 100 && r.state().Phase == component.PhaseDashing; i++ {
		r.sched.Tick(r.w, 0.05)
	}

	xf, _ := ecs.Get(r.w, r.e, component.TransformComponent.Kind())
	want := common.V3(-cfg.DashSpeed*cfg.DashDuration, 0, 0)
	if xf.Position.Dist(want) > 1e-6 {
		t.Fatalf("expected flat dash to %v, got %v", want, xf.Position)
	}
	if got := r.state().Phase; got != component.PhaseIdle {
		t.Fatalf("expected idle after dash, got %s", got)
	}
}

func TestDashAtOwnPositionRejected(t *testing.T) {
	r := newRig(t, testConfig())
	r.ready(t)
	r.chars.SubmitAimPoint(r.w, r.e, common.V3(0, 4, 0), true)
	if r.chars.SubmitAbilityKey(r.w, r.e, component.KeyDash) {
		t.Fatalf("dash with no horizontal distance accepted")
	}
}

func TestSetConfigKeepsLogger(t *testing.T) {
	cfg := testConfig()
	chars := NewCharacterSystem(cfg)
	next := DefaultConfig()
	next.RunSpeed = 9
	if err := chars.SetConfig(next); err != nil {
		t.Fatalf("set config: %v", err)
	}

	if chars.Config().RunSpeed != 9 {
		t.Fatalf("config not swapped")
	}
	if chars.Config().Logger != cfg.Logger {
		t.Fatalf("logger lost on reconfigure")
	}
}

func TestSetConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero_global_speed", func(c *Config) { c.GlobalSpeed = 0 }},
		{"negative_run_speed", func(c *Config) { c.RunSpeed = -1 }},
		{"zero_glide_speed", func(c *Config) { c.GlideSpeed = 0 }},
		{"zero_dash_speed", func(c *Config) { c.DashSpeed = 0 }},
		{"zero_dash_duration", func(c *Config) { c.DashDuration = 0 }},
		{"negative_arrival_threshold", func(c *Config) { c.ArrivalThreshold = -0.1 }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := testConfig()
			chars := NewCharacterSystem(cfg)
			next := cfg
			next.RunSpeed = 9
			tc.mutate(&next)

			if err := chars.SetConfig(next); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if got := *chars.Config(); got.GlobalSpeed != cfg.GlobalSpeed || got.RunSpeed != cfg.RunSpeed {
				t.Fatalf("config changed after refusal: %+v", got)
			}
		})
	}
}

func TestAimPoint(t *testing.T) {
	tests := []struct {
		name  string
		valid bool
		want  bool
	}{
		{"valid_installs_aim", true, true},
		{"invalid_drops_aim", false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := newRig(t, testConfig())
			r.ready(t)
			r.chars.SubmitAimPoint(r.w, r.e, common.V3(4, 0, 0), true)
			r.chars.SubmitAimPoint(r.w, r.e, common.V3(4, 0, 0), tc.valid)

			aim, ok := ecs.Get(r.w, r.e, component.AimComponent.Kind())
			if ok != tc.want {
				t.Fatalf("aim present=%v, want %v", ok, tc.want)
			}
			if ok && (!aim.Valid || aim.Point != common.V3(4, 0, 0)) {
				t.Fatalf("unexpected aim %+v", aim)
			}
			if got := r.chars.SubmitAbilityKey(r.w, r.e, component.KeyDash); got != tc.want {
				t.Fatalf("dash accepted=%v, want %v", got, tc.want)
			}
		})
	}

	t.Run("non_character_ignored", func(t *testing.T) {
		r := newRig(t, testConfig())
		other := ecs.CreateEntity(r.w)
		r.chars.SubmitAimPoint(r.w, other, common.V3(1, 0, 0), true)
		if _, ok := ecs.Get(r.w, other, component.AimComponent.Kind()); ok {
			t.Fatalf("aim attached to a non-character entity")
		}
	})
}

func TestConfigFromSpec(t *testing.T) {
	spec, err := prefabs.LoadCharacterSpec("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	cfg := ConfigFromSpec(spec)

	if cfg.GlobalSpeed != spec.Tuning.GlobalSpeed || cfg.DashDuration != spec.Tuning.DashDuration {
		t.Fatalf("tuning not copied: %+v", cfg)
	}
	for i, stage := range spec.Bindings.Combo {
		if cfg.Clips.Combo[i].Strike != stage.Strike || cfg.Clips.Combo[i].Recovery != stage.Recovery {
			t.Fatalf("combo stage %d not bound", i+1)
		}
	}
	if cfg.Clips.Idle != spec.Bindings.Idle || cfg.Clips.DashRecovery != spec.Bindings.DashRecovery {
		t.Fatalf("clip bindings not copied")
	}

	if got := ConfigFromSpec(nil); got.RunSpeed != DefaultConfig().RunSpeed {
		t.Fatalf("nil spec should give defaults")
	}
}

func TestTriggerNames(t *testing.T) {
	cases := []struct {
		t    trigger
		want string
	}{
		{triggerDestination, "destination"},
		{triggerClipFinished, "clip_finished"},
		{triggerDashExpired, "dash_expired"},
		{trigger(99), "unknown"},
	}
	for _, tc := range cases {
		t.Run(tc.want, func(t *testing.T) {
			if got := tc.t.String(); got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}
