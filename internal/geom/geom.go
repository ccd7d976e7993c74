// Package geom holds the small amount of vector and box math the simulation
// needs. World space is right-handed with Y up; actor positions are feet
// positions, so the ground plane is y=0.
package geom

import "math"

type Vec3 struct {
	X, Y, Z float64
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vec3) Mul(s float64) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

func (v Vec3) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z)
}

// DistXZ is the horizontal distance between two points, ignoring height.
// Engagement, follow hysteresis and attack ranges all measure in the plane.
func DistXZ(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

// DistSqXZ avoids the sqrt for strict-< radius comparisons.
func DistSqXZ(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return dx*dx + dz*dz
}

// AABB is an axis-aligned box in world space, Min inclusive, Max exclusive
// only in the sense that touching faces do not count as an intersection.
type AABB struct {
	Min, Max Vec3
}

// BoxAt builds a box from a feet position, half-width in the XZ plane and a
// height above the feet.
func BoxAt(feet Vec3, halfWidth, height float64) AABB {
	return AABB{
		Min: Vec3{feet.X - halfWidth, feet.Y, feet.Z - halfWidth},
		Max: Vec3{feet.X + halfWidth, feet.Y + height, feet.Z + halfWidth},
	}
}

// BoxFromCenter builds a box from its center point and full extents.
func BoxFromCenter(center, size Vec3) AABB {
	h := size.Mul(0.5)
	return AABB{Min: center.Sub(h), Max: center.Add(h)}
}

func (b AABB) Intersects(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Y < o.Max.Y && b.Max.Y > o.Min.Y &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

// OverlapsXZ reports horizontal overlap regardless of height. Ground and
// ceiling probes pre-filter volumes with it.
func (b AABB) OverlapsXZ(o AABB) bool {
	return b.Min.X < o.Max.X && b.Max.X > o.Min.X &&
		b.Min.Z < o.Max.Z && b.Max.Z > o.Min.Z
}

func (b AABB) Translate(d Vec3) AABB {
	return AABB{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}
