package math

import (
	"encoding/json"
	"fmt"
)

// Vec2 is a 2D vector, used for texture coordinates and ground-plane points.
type Vec2 struct {
	X, Y float32
}

// Add returns v + other.
func (v Vec2) Add(other Vec2) Vec2 {
	return Vec2{v.X + other.X, v.Y + other.Y}
}

// Sub returns v - other.
func (v Vec2) Sub(other Vec2) Vec2 {
	return Vec2{v.X - other.X, v.Y - other.Y}
}

// Dot returns the dot product.
func (v Vec2) Dot(other Vec2) float32 {
	return v.X*other.X + v.Y*other.Y
}

// Cross returns the z component of the 3D cross product of v and other.
func (v Vec2) Cross(other Vec2) float32 {
	return v.X*other.Y - v.Y*other.X
}

// UnmarshalJSON accepts either [x, y] or {"x": .., "y": ..}.
func (v *Vec2) UnmarshalJSON(data []byte) error {
	var arr []float32
	if err := json.Unmarshal(data, &arr); err == nil {
		if len(arr) != 2 {
			return fmt.Errorf("vec2: expected 2 components, got %d", len(arr))
		}
		*v = Vec2{arr[0], arr[1]}
		return nil
	}
	var obj struct {
		X, Y float32
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("vec2: %w", err)
	}
	*v = Vec2{obj.X, obj.Y}
	return nil
}
