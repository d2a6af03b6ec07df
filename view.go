package main

import "github.com/milk9111/charctl/common"

// View maps the ground plane to the screen, looking straight down with +Z
// pointing up the screen.
type View struct {
	Width, Height float64
	// Scale is pixels per world unit.
	Scale float64
	// Center is the world point drawn in the middle of the screen.
	Center common.Vec3
}

func (v *View) ToScreen(p common.Vec3) (float64, float64) {
	x := v.Width/2 + (p.X-v.Center.X)*v.Scale
	y := v.Height/2 - (p.Z-v.Center.Z)*v.Scale
	return x, y
}

func (v *View) ToGround(x, y float64) common.Vec3 {
	return common.Vec3{
		X: v.Center.X + (x-v.Width/2)/v.Scale,
		Z: v.Center.Z - (y-v.Height/2)/v.Scale,
	}
}

func (v *View) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x < v.Width && y < v.Height
}

// Follow eases the view toward p.
func (v *View) Follow(p common.Vec3, t float64) {
	v.Center = v.Center.LerpTo(common.Vec3{X: p.X, Z: p.Z}, t)
}
