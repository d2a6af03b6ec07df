package main

import (
	"math"

	"github.com/milk9111/charctl/common"
)

// cellsPerUnit is horizontal; terminal cells are about twice as tall as
// they are wide.
const cellsPerUnit = 2

// Grid maps terminal cells to the ground plane with the origin in the middle
// of the screen and +Z pointing up.
type Grid struct {
	Width, Height int
}

func (g Grid) ToCell(p common.Vec3) (int, int) {
	x := g.Width/2 + int(roundHalf(p.X*cellsPerUnit))
	y := g.Height/2 - int(roundHalf(p.Z))
	return x, y
}

func (g Grid) ToGround(x, y int) common.Vec3 {
	return common.Vec3{
		X: float64(x-g.Width/2) / cellsPerUnit,
		Z: float64(g.Height/2 - y),
	}
}

func (g Grid) Contains(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.Width && y < g.Height
}

func roundHalf(v float64) float64 {
	if v < 0 {
		return -roundHalf(-v)
	}
	return float64(int(v + 0.5))
}

// facingRune picks the arrow closest to the yaw, measured from +Z toward +X.
func facingRune(yaw float64) rune {
	arrows := []rune{'↑', '↗', '→', '↘', '↓', '↙', '←', '↖'}
	const slice = 2 * math.Pi / 8
	i := int(roundHalf(yaw/slice)) % len(arrows)
	if i < 0 {
		i += len(arrows)
	}
	return arrows[i]
}
