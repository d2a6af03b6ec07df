package common

import "math"

func Lerp(a, b, t float64) float64 {
	return a + t*(b-a)
}

// Vec3 is a world-space point or direction. Y is up; characters move on the
// XZ ground plane.
type Vec3 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	Z float64 `yaml:"z"`
}

func V3(x, y, z float64) Vec3 {
	return Vec3{X: x, Y: y, Z: z}
}

func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

func (v Vec3) Scale(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

func (v Vec3) Dist(o Vec3) float64 {
	return o.Sub(v).Len()
}

// Normalize returns the unit vector of v, or the zero vector when v has no
// length.
func (v Vec3) Normalize() Vec3 {
	l := v.Len()
	if l < 1e-9 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

func (v Vec3) IsZero() bool {
	return v.X == 0 && v.Y == 0 && v.Z == 0
}

// LerpTo moves v toward o by fraction t.
func (v Vec3) LerpTo(o Vec3, t float64) Vec3 {
	return Vec3{Lerp(v.X, o.X, t), Lerp(v.Y, o.Y, t), Lerp(v.Z, o.Z, t)}
}

// Yaw is the rotation around Y that faces dir, measured from +Z toward +X.
func Yaw(dir Vec3) float64 {
	return math.Atan2(dir.X, dir.Z)
}

// YawToward is the yaw that faces to from the point from.
func YawToward(from, to Vec3) float64 {
	return Yaw(to.Sub(from))
}
