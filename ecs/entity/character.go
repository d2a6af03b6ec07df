package entity

import (
	"fmt"

	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
	"github.com/milk9111/charctl/prefabs"
)

type componentBuildFn func(w *ecs.World, e ecs.Entity, spec *prefabs.CharacterSpec) error

var characterBuildOrder = []struct {
	name  string
	build componentBuildFn
}{
	{"character_tag", addCharacterTag},
	{"transform", addTransform},
	{"character_state", addCharacterState},
	{"animator", addAnimator},
	{"aim", addAim},
}

// NewCharacter creates a character entity from its prefab spec. The entity
// starts waiting on its intro.
func NewCharacter(w *ecs.World, spec *prefabs.CharacterSpec) (ecs.Entity, error) {
	if spec == nil {
		return 0, fmt.Errorf("entity: character: nil spec")
	}
	e := ecs.CreateEntity(w)
	for _, step := range characterBuildOrder {
		if err := step.build(w, e, spec); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("entity: character %s: %s: %w", spec.Name, step.name, err)
		}
	}
	return e, nil
}

// NewMixer builds the clip library declared by the spec.
func NewMixer(spec *prefabs.CharacterSpec) *anim.Mixer {
	m := anim.NewMixer()
	for _, c := range spec.Clips {
		m.AddClip(anim.Clip{Name: c.Name, Duration: c.Duration})
	}
	m.TimeScale = spec.Tuning.GlobalSpeed
	return m
}

func addCharacterTag(w *ecs.World, e ecs.Entity, spec *prefabs.CharacterSpec) error {
	return ecs.Add(w, e, component.CharacterTagComponent.Kind(), &component.CharacterTag{Name: spec.Name})
}

func addTransform(w *ecs.World, e ecs.Entity, spec *prefabs.CharacterSpec) error {
	return ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{Position: spec.Spawn})
}

func addCharacterState(w *ecs.World, e ecs.Entity, _ *prefabs.CharacterSpec) error {
	return ecs.Add(w, e, component.CharacterStateComponent.Kind(), component.NewCharacterState())
}

func addAnimator(w *ecs.World, e ecs.Entity, spec *prefabs.CharacterSpec) error {
	return ecs.Add(w, e, component.AnimatorComponent.Kind(), &component.Animator{Mixer: NewMixer(spec)})
}

func addAim(w *ecs.World, e ecs.Entity, _ *prefabs.CharacterSpec) error {
	return ecs.Add(w, e, component.AimComponent.Kind(), &component.Aim{})
}
