// Package math provides the float32 vector, quaternion and matrix types
// shared by the scene model, the exporter core and the container codec.
package math

import (
	"encoding/json"
	"fmt"
	"math"
)

// Vec3 is a 3D vector. Y is up.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + other.
func (v Vec3) Add(other Vec3) Vec3 {
	return Vec3{v.X + other.X, v.Y + other.Y, v.Z + other.Z}
}

// Sub returns v - other.
func (v Vec3) Sub(other Vec3) Vec3 {
	return Vec3{v.X - other.X, v.Y - other.Y, v.Z - other.Z}
}

// Scale returns v * scalar.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product.
func (v Vec3) Dot(other Vec3) float32 {
	return v.X*other.X + v.Y*other.Y + v.Z*other.Z
}

// Cross returns the cross product.
func (v Vec3) Cross(other Vec3) Vec3 {
	return Vec3{
		v.Y*other.Z - v.Z*other.Y,
		v.Z*other.X - v.X*other.Z,
		v.X*other.Y - v.Y*other.X,
	}
}

// Length returns the magnitude.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.X*v.X + v.Y*v.Y + v.Z*v.Z)))
}

// Normalize returns a unit vector.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return Vec3{}
	}
	return Vec3{v.X / l, v.Y / l, v.Z / l}
}

// Distance returns the distance to another point.
func (v Vec3) Distance(other Vec3) float32 {
	return v.Sub(other).Length()
}

// XZ returns the ground-plane projection as Vec2.
func (v Vec3) XZ() Vec2 {
	return Vec2{v.X, v.Z}
}

// Centroid returns the arithmetic mean of points.
// Returns the zero vector for an empty slice.
func Centroid(points []Vec3) Vec3 {
	if len(points) == 0 {
		return Vec3{}
	}
	var sum Vec3
	for _, p := range points {
		sum = sum.Add(p)
	}
	return sum.Scale(1 / float32(len(points)))
}

// ClosestPointOnSegment returns the point of segment [a, b] nearest to p.
func ClosestPointOnSegment(p, a, b Vec3) Vec3 {
	ab := b.Sub(a)
	l2 := ab.Dot(ab)
	if l2 == 0 {
		return a
	}
	t := p.Sub(a).Dot(ab) / l2
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return a.Add(ab.Scale(t))
}

// ClosestPointOnCurve returns the nearest point of the polyline curve to p
// and the index of the segment it lies on. The index is -1 when the curve
// has fewer than two points.
func ClosestPointOnCurve(p Vec3, curve []Vec3) (Vec3, int) {
	best := Vec3{}
	bestIdx := -1
	bestDist := float32(math.Inf(1))
	for i := 0; i+1 < len(curve); i++ {
		c := ClosestPointOnSegment(p, curve[i], curve[i+1])
		if d := p.Distance(c); d < bestDist {
			best, bestIdx, bestDist = c, i, d
		}
	}
	return best, bestIdx
}

// UnmarshalJSON accepts either [x, y, z] or {"x": .., "y": .., "z": ..}.
func (v *Vec3) UnmarshalJSON(data []byte) error {
	var arr []float32
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 3 {
			return fmt.Errorf("vec3: expected 3 components, got %d", len(arr))
		}
		*v = Vec3{arr[0], arr[1], arr[2]}
		return nil
	}
	var obj struct {
		X, Y, Z float32
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vec3: %w", err)
	}
	*v = Vec3{obj.X, obj.Y, obj.Z}
	return nil
}
