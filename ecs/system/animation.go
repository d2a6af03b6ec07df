package system

import (
	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
)

const EventClipFinished = "clip_finished"

type ClipFinishedEvent struct {
	Entity ecs.Entity
	Handle anim.Handle
}

// AnimationSystem advances every character mixer under the global time
// scale and queues the clips that finished for the CharacterSystem.
type AnimationSystem struct {
	chars *CharacterSystem
}

func NewAnimationSystem(chars *CharacterSystem) *AnimationSystem {
	return &AnimationSystem{chars: chars}
}

func (a *AnimationSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	scale := 1.0
	if a.chars != nil {
		scale = a.chars.Config().GlobalSpeed
	}
	dt := w.DeltaTime()

	ecs.ForEach(w, component.AnimatorComponent.Kind(), func(e ecs.Entity, animator *component.Animator) {
		if animator.Mixer == nil {
			return
		}
		animator.Mixer.TimeScale = scale
		for _, f := range animator.Mixer.Update(dt) {
			w.Events().Push(ecs.Event{
				Type: EventClipFinished,
				Data: ClipFinishedEvent{Entity: e, Handle: f.Handle},
			})
		}
	})
}
