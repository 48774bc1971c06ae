package math

import (
	"encoding/json"
	"fmt"
	"math"
)

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	halfAngle := angle / 2
	s := float32(math.Sin(float64(halfAngle)))
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: float32(math.Cos(float64(halfAngle))),
	}
}

// IsIdentity reports whether q is exactly (0, 0, 0, 1).
func (q Quat) IsIdentity() bool {
	return q == QuatIdentity()
}

// Normalize returns a normalized quaternion.
func (q Quat) Normalize() Quat {
	length := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if length < 0.0001 {
		return QuatIdentity()
	}
	invLen := 1.0 / length
	return Quat{
		X: q.X * invLen,
		Y: q.Y * invLen,
		Z: q.Z * invLen,
		W: q.W * invLen,
	}
}

// UnmarshalJSON accepts either [x, y, z, w] or {"x": .., "y": .., "z": .., "w": ..}.
func (q *Quat) UnmarshalJSON(data []byte) error {
	var arr []float32
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 4 {
			return fmt.Errorf("quat: expected 4 components, got %d", len(arr))
		}
		*q = Quat{arr[0], arr[1], arr[2], arr[3]}
		return nil
	}
	var obj struct {
		X, Y, Z, W float32
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("quat: %w", err)
	}
	*q = Quat{obj.X, obj.Y, obj.Z, obj.W}
	return nil
}
