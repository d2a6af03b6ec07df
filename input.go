package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/charctl/character"
	"github.com/milk9111/charctl/common"
)

// Input holds the frame's pointer and ability key state.
type Input struct {
	// Ground is the cursor projected onto the ground plane.
	Ground common.Vec3
	// OnGround is false while the cursor is outside the window.
	OnGround bool
	// MovePressed is true on the frame the right mouse button was pressed.
	MovePressed bool
	// Keys pressed this frame, in Q W E order.
	Keys []character.Key

	view *View
}

func NewInput(view *View) *Input {
	return &Input{view: view}
}

var abilityKeys = []struct {
	key ebiten.Key
	ab  character.Key
}{
	{ebiten.KeyQ, character.KeyAttack},
	{ebiten.KeyW, character.KeySpell},
	{ebiten.KeyE, character.KeyDash},
}

func (i *Input) Update() {
	mx, my := ebiten.CursorPosition()
	i.Ground = i.view.ToGround(float64(mx), float64(my))
	i.OnGround = i.view.Contains(float64(mx), float64(my))

	i.MovePressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight)

	i.Keys = i.Keys[:0]
	for _, k := range abilityKeys {
		if inpututil.IsKeyJustPressed(k.key) {
			i.Keys = append(i.Keys, k.ab)
		}
	}
	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft) {
			i.Keys = append(i.Keys, character.KeyAttack)
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightTop) {
			i.Keys = append(i.Keys, character.KeySpell)
		}
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom) {
			i.Keys = append(i.Keys, character.KeyDash)
		}
	}
}
