package system

import (
	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/common"
	"github.com/milk9111/charctl/ecs"
	"github.com/milk9111/charctl/ecs/component"
)

const dashEpsilon = 1e-9

// DashSystem advances dash bursts and hands the character back to running
// or idle when the timer runs out.
type DashSystem struct {
	chars *CharacterSystem
}

func NewDashSystem(chars *CharacterSystem) *DashSystem {
	return &DashSystem{chars: chars}
}

func (d *DashSystem) Update(w *ecs.World) {
	if w == nil || d.chars == nil {
		return
	}
	cfg := d.chars.Config()
	dt := w.DeltaTime()

	ecs.ForEach2(w, component.CharacterStateComponent.Kind(), component.TransformComponent.Kind(), func(e ecs.Entity, st *component.CharacterState, xf *component.Transform) {
		if st.Phase != component.PhaseDashing {
			return
		}
		step := dt
		if step > st.Dash.Remaining {
			step = st.Dash.Remaining
		}
		xf.Position = xf.Position.Add(st.Dash.Direction.Scale(cfg.DashSpeed * step))
		st.Facing = common.Yaw(st.Dash.Direction)
		st.Dash.Remaining -= step
		if st.Dash.Remaining > dashEpsilon {
			return
		}

		d.chars.fire(w, e, triggerDashExpired)
		if st.HasPendingDestination {
			p := st.PendingDestination
			st.PendingDestination = common.Vec3{}
			st.HasPendingDestination = false
			d.chars.submit(w, e, triggerDestination, p)
		}
	})
}

// dashDirection resolves the flat direction from the character to the aim
// point. ok is false when there is no ground hit or no distance to cover.
func (c *characterCtx) dashDirection() (common.Vec3, bool) {
	if c.aim == nil || !c.aim.Valid {
		c.cfg.debugf("dash: no ground point under the pointer")
		return common.Vec3{}, false
	}
	dir := c.aim.Point.Sub(c.xf.Position)
	dir.Y = 0
	dir = dir.Normalize()
	if dir.IsZero() {
		return common.Vec3{}, false
	}
	return dir, true
}

func beginDash(c *characterCtx) (component.Phase, outcome) {
	dir, ok := c.dashDirection()
	if !ok {
		return c.state.Phase, rejected
	}
	c.state.Dash = component.DashState{
		Direction: dir,
		Remaining: c.cfg.DashDuration,
		Previous:  c.state.Phase,
	}
	c.state.Facing = common.Yaw(dir)
	return component.PhaseDashing, move
}

func enterDashing(c *characterCtx) (component.Phase, bool) {
	c.state.Awaiting = anim.Handle{}
	if _, ok := c.play(c.cfg.Clips.Dash, anim.LoopOnce, 1, c.cfg.ActionFade, false); !ok {
		c.cfg.debugf("dash: no clip %q, moving without animation", c.cfg.Clips.Dash)
	}
	return 0, false
}

// combatDash turns the character and installs a glide target without
// touching the running animation chain.
func combatDash(c *characterCtx) (component.Phase, outcome) {
	dir, ok := c.dashDirection()
	if !ok {
		return c.state.Phase, rejected
	}
	c.state.Facing = common.Yaw(dir)
	c.state.SetGlide(c.xf.Position.Add(dir.Scale(c.cfg.GlideDistance)))
	return c.state.Phase, stay
}

func dashExpired(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	prev := c.state.Dash.Previous
	c.state.Dash = component.DashState{}
	c.state.ClearGlide()
	c.lib.FadeOut(cl.Dash, c.cfg.RecoveryFade)

	if prev != component.PhaseRunning {
		c.fade = c.cfg.ActionFade
		return component.PhaseIdle, move
	}
	c.fade = c.cfg.ActionFade
	if c.has(cl.DashRecovery) && c.has(cl.Run) {
		if _, ok := c.play(cl.DashRecovery, anim.LoopOnce, c.cfg.DashRecoverySpeed, c.cfg.RecoveryFade, false); ok {
			c.fade = c.cfg.RecoveryFade
			c.crossFrom = cl.DashRecovery
		}
	}
	return component.PhaseRunning, move
}

func deferDestination(c *characterCtx) (component.Phase, outcome) {
	c.state.PendingDestination = c.point
	c.state.HasPendingDestination = true
	return component.PhaseDashing, stay
}
