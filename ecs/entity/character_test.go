package entity

import (
	"testing"

	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
	"github.com/milk9111/charctl/prefabs"
)

func TestNewCharacter(t *testing.T) {
	spec := &prefabs.CharacterSpec{
		Name:  "test",
		Spawn: common.V3(1, 0, 2),
		Clips: []prefabs.ClipSpec{{Name: "idle", Duration: 1}},
	}
	spec.Tuning.GlobalSpeed = 0.5

	w := ecs.NewWorld()
	e, err := NewCharacter(w, spec)
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}

	st, ok := ecs.Get(w, e, component.CharacterStateComponent.Kind())
	if !ok {
		t.Fatalf("missing character state")
	}
	if st.Phase != component.PhaseIntroPending || st.ReadyForInput || st.ComboIndex != 1 {
		t.Fatalf("unexpected spawn state %+v", st)
	}
	xf, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || xf.Position != spec.Spawn {
		t.Fatalf("expected spawn position %v, got %+v", spec.Spawn, xf)
	}
	animator, ok := ecs.Get(w, e, component.AnimatorComponent.Kind())
	if !ok || !animator.Mixer.Has("idle") {
		t.Fatalf("expected mixer with idle clip")
	}
	if animator.Mixer.TimeScale != 0.5 {
		t.Fatalf("expected mixer time scale 0.5, got %v", animator.Mixer.TimeScale)
	}
	if !ecs.Has(w, e, component.CharacterTagComponent.Kind()) {
		t.Fatalf("expected character tag")
	}
}

func TestNewCharacterNilSpec(t *testing.T) {
	w := ecs.NewWorld()
	if _, err := NewCharacter(w, nil); err == nil {
		t.Fatalf("expected error for nil spec")
	}
	if next, fresh := ecs.CreateEntity(w), ecs.CreateEntity(ecs.NewWorld()); next != fresh {
		t.Fatalf("no entity should be left behind, next allocation is %s", next)
	}
}
