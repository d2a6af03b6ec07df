package system

import (
	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
)

// MovementSystem integrates running and mid-combat glides toward their
// targets.
type MovementSystem struct {
	chars *CharacterSystem
}

func NewMovementSystem(chars *CharacterSystem) *MovementSystem {
	return &MovementSystem{chars: chars}
}

func (m *MovementSystem) Update(w *ecs.World) {
	if w == nil || m.chars == nil {
		return
	}
	cfg := m.chars.Config()
	dt := w.DeltaTime()

	ecs.ForEach2(w, component.CharacterStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.CharacterState, xf *component.Transform) {
		if st.Phase == component.PhaseDashing {
			return
		}

		if st.Phase == component.PhaseRunning {
			if !st.HasTarget {
				m.chars.fire(w, e, triggerArrival)
			} else {
				remaining := xf.Position.Dist(st.Target)
				step := cfg.RunSpeed * dt
				if remaining < cfg.ArrivalThreshold || remaining <= step {
					xf.Position = st.Target
					st.ClearTarget()
					m.chars.fire(w, e, triggerArrival)
				} else {
					dir := st.Target.Sub(xf.Position).Scale(1 / remaining)
					xf.Position = xf.Position.Add(dir.Scale(step))
				}
			}
		}

		// Running has its own integrator and owns facing.
		if st.HasGlide && st.Phase != component.PhaseRunning {
			remaining := xf.Position.Dist(st.Glide)
			step := cfg.GlideSpeed * dt
			if remaining <= step {
				xf.Position = st.Glide
				st.ClearGlide()
				return
			}
			st.Facing = yawToward(xf.Position, st.Glide, st.Facing)
			xf.Position = xf.Position.LerpTo(st.Glide, step/remaining)
		}
	})
}

// startMoving leaves a settled idle for a new destination.
func startMoving(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	c.state.SetTarget(c.point)
	c.face(c.point)
	if c.state.Phase == component.PhaseIdleInSheath {
		c.stop(cl.IdleInSheath)
		c.state.Awaiting = anim.Handle{}
	}
	c.lib.FadeOut(cl.Idle, c.cfg.ActionFade)
	return component.PhaseStarting, move
}

func retarget(c *characterCtx) (component.Phase, outcome) {
	c.state.SetTarget(c.point)
	c.face(c.point)
	return component.PhaseRunning, stay
}

func arrive(c *characterCtx) (component.Phase, outcome) {
	c.lib.FadeOut(c.cfg.Clips.Run, c.cfg.ActionFade)
	return component.PhaseResheathing, move
}

func unsheathFinished(c *characterCtx) (component.Phase, outcome) {
	c.stop(c.cfg.Clips.Unsheath)
	c.fade = c.cfg.SettleFade
	return component.PhaseRunning, move
}

func resheathFinished(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	c.stop(cl.Resheath)
	if c.has(cl.IdleInSheath) {
		return component.PhaseIdleInSheath, move
	}
	return component.PhaseIdle, move
}

func idleInSheathFinished(c *characterCtx) (component.Phase, outcome) {
	c.stop(c.cfg.Clips.IdleInSheath)
	return component.PhaseIdle, move
}

// introFinished leaves the intro for Idle; input opens once Idle is entered.
func introFinished(c *characterCtx) (component.Phase, outcome) {
	c.fade = c.cfg.IntroFade
	return component.PhaseIdle, move
}

func enterIdle(c *characterCtx) (component.Phase, bool) {
	c.stopOneShots()
	c.state.ClearTarget()
	c.state.SpellMoving = false
	c.state.ComboStep = component.ComboStepNone
	c.state.Awaiting = anim.Handle{}
	c.markReady()
	if c.silent {
		return 0, false
	}

	idle := c.cfg.Clips.Idle
	if c.lib.Playing(idle) {
		return 0, false
	}
	if _, ok := c.play(idle, anim.LoopRepeat, 1, c.fade, false); !ok {
		c.cfg.warnf("idle: missing clip %q", idle)
	}
	return 0, false
}

func enterStarting(c *characterCtx) (component.Phase, bool) {
	cl := c.cfg.Clips
	c.state.ClearGlide()
	if !c.require("unsheath", cl.Unsheath, cl.Run) {
		return c.abort()
	}
	c.stop(cl.Unsheath, cl.Run)
	h, ok := c.play(cl.Unsheath, anim.LoopOnce, 1, c.cfg.SettleFade, true)
	if !ok {
		return c.abort()
	}
	c.state.Awaiting = h
	return 0, false
}

func enterRunning(c *characterCtx) (component.Phase, bool) {
	c.state.Awaiting = anim.Handle{}
	c.state.ClearGlide()
	if c.state.HasTarget {
		c.face(c.state.Target)
	}
	run := c.cfg.Clips.Run
	if !c.require("run", run) {
		return c.abort()
	}
	if _, ok := c.play(run, anim.LoopRepeat, 1, c.fade, false); !ok {
		return c.abort()
	}
	if c.crossFrom != "" {
		c.lib.FadeOut(c.crossFrom, c.fade)
	}
	return 0, false
}

func enterResheathing(c *characterCtx) (component.Phase, bool) {
	resheath := c.cfg.Clips.Resheath
	if !c.require("resheath", resheath) {
		return c.abort()
	}
	h, ok := c.play(resheath, anim.LoopOnce, 1, 0, false)
	if !ok {
		return c.abort()
	}
	c.state.Awaiting = h
	return 0, false
}

func enterIdleInSheath(c *characterCtx) (component.Phase, bool) {
	h, ok := c.play(c.cfg.Clips.IdleInSheath, anim.LoopOnce, 1, 0, false)
	if !ok {
		return component.PhaseIdle, true
	}
	c.state.Awaiting = h
	return 0, false
}

// yawToward faces to from from, keeping fallback when the points coincide.
func yawToward(from, to common.Vec3, fallback float64) float64 {
	d := to.Sub(from)
	d.Y = 0
	if d.IsZero() {
		return fallback
	}
	return common.Yaw(d)
}
