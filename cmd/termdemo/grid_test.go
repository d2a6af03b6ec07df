package main

import (
	"math"
	"testing"

	"github.com/milk9111/charctl/common"
)

func TestGridRoundTrip(t *testing.T) {
	g := Grid{Width: 80, Height: 24}
	cases := []struct {
		x, y int
	}{
		{40, 12},
		{0, 0},
		{79, 23},
		{13, 5},
	}
	for _, tc := range cases {
		p := g.ToGround(tc.x, tc.y)
		if x, y := g.ToCell(p); x != tc.x || y != tc.y {
			t.Fatalf("cell %d,%d came back as %d,%d", tc.x, tc.y, x, y)
		}
	}
	if x, y := g.ToCell(common.V3(0, 0, 1)); x != 40 || y != 11 {
		t.Fatalf("+Z should point up, got %d,%d", x, y)
	}
}

func TestFacingRune(t *testing.T) {
	cases := []struct {
		yaw  float64
		want rune
	}{
		{0, '↑'},
		{math.Pi / 2, '→'},
		{math.Pi, '↓'},
		{-math.Pi / 2, '←'},
		{math.Atan2(10, 10), '↗'},
	}
	for _, tc := range cases {
		if got := facingRune(tc.yaw); got != tc.want {
			t.Fatalf("yaw %v: expected %c, got %c", tc.yaw, tc.want, got)
		}
	}
}
