package main

import (
	"testing"

	"github.com/milk9111/charctl/common"
)

func TestViewRoundTrip(t *testing.T) {
	v := &View{Width: 1280, Height: 720, Scale: 32, Center: common.V3(4, 0, -2)}
	cases := []common.Vec3{
		common.V3(0, 0, 0),
		common.V3(4, 0, -2),
		common.V3(-10.5, 0, 7.25),
	}
	for _, p := range cases {
		x, y := v.ToScreen(p)
		if got := v.ToGround(x, y); got.Dist(p) > 1e-9 {
			t.Fatalf("round trip of %v gave %v", p, got)
		}
	}

	x, y := v.ToScreen(common.V3(4, 0, -1))
	if x != 640 || y != 360-32 {
		t.Fatalf("+Z should point up the screen, got %v,%v", x, y)
	}
}

func TestViewContains(t *testing.T) {
	v := &View{Width: 100, Height: 50, Scale: 1}
	cases := []struct {
		x, y float64
		want bool
	}{
		{0, 0, true},
		{99, 49, true},
		{100, 10, false},
		{-1, 10, false},
	}
	for _, tc := range cases {
		if got := v.Contains(tc.x, tc.y); got != tc.want {
			t.Fatalf("Contains(%v,%v) = %v", tc.x, tc.y, got)
		}
	}
}
