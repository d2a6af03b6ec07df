package system

import (
	"github.com/milk9111/charctl/anim"
	"github.com/milk9111/charctl/ecs/component"
)

func (c *characterCtx) comboStage(index int) ComboClips {
	if index < 1 || index > len(c.cfg.Clips.Combo) {
		index = 1
	}
	return c.cfg.Clips.Combo[index-1]
}

// cancelCombo stops every clip of the combo chain that may be in flight.
func (c *characterCtx) cancelCombo() {
	c.stopOneShots()
	if c.state.ComboStep == component.ComboStepResheath {
		c.stop(c.cfg.Clips.ComboResheath)
	}
	c.state.ComboStep = component.ComboStepNone
	c.state.Awaiting = anim.Handle{}
}

// beginAttack advances the combo on every accepted press. The movement
// target survives an attack issued while running.
func beginAttack(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	next := component.NextComboIndex(c.state.ComboIndex)
	stage := c.comboStage(next)

	if c.state.Phase == component.PhaseRunning {
		c.stop(cl.Run)
	}
	c.cancelCombo()

	// A missing stage drops to Idle without requesting any clip.
	if !c.require("combo", stage.Strike, stage.Recovery) {
		c.state.ComboIndex = 1
		c.silent = true
		return component.PhaseIdle, move
	}
	if c.state.Phase == component.PhaseIdle {
		c.stop(cl.Idle)
	}
	c.state.ComboIndex = next
	return component.PhaseQAttack, move
}

func enterQAttack(c *characterCtx) (component.Phase, bool) {
	stage := c.comboStage(c.state.ComboIndex)
	h, ok := c.play(stage.Strike, anim.LoopOnce, 1, c.cfg.ActionFade, true)
	if !ok {
		c.state.ComboIndex = 1
		return c.abort()
	}
	c.state.OneShots = [2]anim.Handle{h}
	c.state.ComboStep = component.ComboStepStrike
	c.state.Awaiting = h
	return 0, false
}

func strikeFinished(c *characterCtx) (component.Phase, outcome) {
	if h := c.state.OneShots[0]; h.Valid() {
		c.stop(h.Clip)
	}
	c.state.OneShots[0] = anim.Handle{}
	return component.PhaseQHold, move
}

func enterQHold(c *characterCtx) (component.Phase, bool) {
	stage := c.comboStage(c.state.ComboIndex)
	h, ok := c.play(stage.Recovery, anim.LoopOnce, 1, c.cfg.ActionFade, true)
	if !ok {
		c.state.ComboIndex = 1
		return c.abort()
	}
	c.state.OneShots[1] = h
	c.state.ComboStep = component.ComboStepRecovery
	c.state.Awaiting = h
	return 0, false
}

// holdFinished closes the chain: recovery leads to the combo resheath, or
// straight back to running when a movement target is still pending.
func holdFinished(c *characterCtx) (component.Phase, outcome) {
	switch c.state.ComboStep {
	case component.ComboStepRecovery:
		c.stopOneShots()
		if c.state.HasTarget {
			c.state.ComboIndex = 1
			return component.PhaseResuming, move
		}
		h, ok := c.play(c.cfg.Clips.ComboResheath, anim.LoopOnce, 1, c.cfg.ActionFade, false)
		if !ok {
			c.state.ComboIndex = 1
			c.fade = c.cfg.ActionFade
			return component.PhaseIdle, move
		}
		c.state.ComboStep = component.ComboStepResheath
		c.state.Awaiting = h
		return component.PhaseQHold, stay
	case component.ComboStepResheath:
		c.stop(c.cfg.Clips.ComboResheath)
		c.state.ComboIndex = 1
		c.fade = c.cfg.ActionFade
		return component.PhaseIdle, move
	}
	return c.state.Phase, rejected
}

// resumeFromCombo cancels the chain for a new destination and runs again
// without the unsheath.
func resumeFromCombo(c *characterCtx) (component.Phase, outcome) {
	c.cancelCombo()
	c.state.ComboIndex = component.NextComboIndex(c.state.ComboIndex)
	c.state.SetTarget(c.point)
	c.face(c.point)
	return component.PhaseResuming, move
}

func enterResuming(c *characterCtx) (component.Phase, bool) {
	c.state.ClearGlide()
	c.state.ComboStep = component.ComboStepNone
	c.state.Awaiting = anim.Handle{}
	c.fade = c.cfg.SettleFade
	return component.PhaseRunning, true
}

func beginSpell(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	moving := c.state.Phase == component.PhaseRunning
	switch c.state.Phase {
	case component.PhaseIdle:
		c.lib.FadeOut(cl.Idle, c.cfg.ActionFade)
	case component.PhaseRunning:
		c.lib.FadeOut(cl.Run, c.cfg.ActionFade)
	}
	c.cancelCombo()
	c.state.SpellMoving = moving
	return component.PhaseSpell, move
}

func enterSpell(c *characterCtx) (component.Phase, bool) {
	cl := c.cfg.Clips
	var (
		h  anim.Handle
		ok bool
	)
	if c.state.SpellMoving {
		if !c.require("spell", cl.SpellWindup) {
			return c.abort()
		}
		h, ok = c.play(cl.SpellWindup, anim.LoopOnce, 1, c.cfg.ActionFade, false)
	} else {
		if !c.require("spell", cl.SpellStationary) {
			return c.abort()
		}
		h, ok = c.play(cl.SpellStationary, anim.LoopOnce, c.cfg.SpellSpeed, c.cfg.ActionFade, false)
	}
	if !ok {
		return c.abort()
	}
	c.state.Awaiting = h
	return 0, false
}

func spellFinished(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	c.stop(cl.SpellWindup, cl.SpellStationary)
	c.fade = c.cfg.ActionFade
	if c.state.SpellMoving {
		c.stop(cl.SpellStop)
		c.state.SpellMoving = false
		return component.PhaseRunning, move
	}
	return component.PhaseIdle, move
}

// interruptSpell hard-cuts every spell clip, settles in Idle without a
// recovery and then handles the key that caused it.
func interruptSpell(c *characterCtx) (component.Phase, outcome) {
	cl := c.cfg.Clips
	c.stop(cl.SpellWindup, cl.SpellStationary, cl.SpellStop)
	key := c.trigger

	c.silent = true
	c.machine.enter(c, component.PhaseIdle)
	c.machine.fire(c, key)
	return c.state.Phase, stay
}
