// Package formats provides the km2B city container codec and the prop rule
// CSV side tables.
package formats

import (
	"slices"
	"strings"

	"github.com/Faultbox/cityexport/pkg/math"
)

// Property is a single key/value entry of an element's property map.
type Property struct {
	Key   string
	Value string
}

// Properties is an insertion-ordered string map. The order is written
// verbatim to the container.
type Properties struct {
	entries []Property
	index   map[string]int
}

// Set stores value under key. Overwriting an existing key keeps its
// original position.
func (p *Properties) Set(key, value string) {
	if p.index == nil {
		p.index = make(map[string]int)
	}
	if i, ok := p.index[key]; ok {
		p.entries[i].Value = value
		return
	}
	p.index[key] = len(p.entries)
	p.entries = append(p.entries, Property{Key: key, Value: value})
}

// Get returns the value stored under key.
func (p *Properties) Get(key string) (string, bool) {
	i, ok := p.index[key]
	if !ok {
		return "", false
	}
	return p.entries[i].Value, true
}

// Value returns the value stored under key, or "" when absent.
func (p *Properties) Value(key string) string {
	v, _ := p.Get(key)
	return v
}

// Len returns the number of properties.
func (p *Properties) Len() int {
	return len(p.entries)
}

// All returns the properties in insertion order.
func (p *Properties) All() []Property {
	out := make([]Property, len(p.entries))
	copy(out, p.entries)
	return out
}

// Transform is a rigid placement: translation, scale and rotation.
type Transform struct {
	Translation math.Vec3
	Scale       math.Vec3
	Rotation    math.Quat
}

// IdentityTransform returns the transform that leaves geometry in place.
func IdentityTransform() Transform {
	return Transform{
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
		Rotation: math.QuatIdentity(),
	}
}

// IsIdentity reports whether t is exactly the identity transform. Only
// identity transforms are omitted from the container.
func (t Transform) IsIdentity() bool {
	return t == IdentityTransform()
}

// Element is one exported city element. Plain elements carry a single
// triangle list in Indices; mesh elements (IsMesh) carry one list per
// submesh in Submeshes plus per-vertex normals and UVs.
type Element struct {
	IsMesh     bool
	Name       string
	Properties Properties
	Vertices   []math.Vec3
	Indices    []int
	Submeshes  [][]int
	Normals    []math.Vec3
	UVs        []math.Vec2
	Materials  string // comma-joined material names
	Transform  Transform
}

// NewElement returns an element with the given name and an identity
// transform.
func NewElement(name string) *Element {
	return &Element{
		Name:      name,
		Transform: IdentityTransform(),
	}
}

// MaterialList splits the comma-joined material field. An empty field
// yields a single empty name.
func (e *Element) MaterialList() []string {
	return strings.Split(e.Materials, ",")
}

// Suffix returns the type suffix of the element name: the part after the
// first underscore of the last comma-separated component ("12,3_INST"
// yields "INST").
func (e *Element) Suffix() string {
	name := e.Name
	if i := strings.LastIndexByte(name, ','); i >= 0 {
		name = name[i+1:]
	}
	if i := strings.IndexByte(name, '_'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Clone returns a deep copy of p.
func (p *Properties) Clone() Properties {
	var c Properties
	for _, e := range p.entries {
		c.Set(e.Key, e.Value)
	}
	return c
}

// Clone returns a deep copy of e.
func (e *Element) Clone() *Element {
	c := *e
	c.Properties = e.Properties.Clone()
	c.Vertices = slices.Clone(e.Vertices)
	c.Indices = slices.Clone(e.Indices)
	c.Normals = slices.Clone(e.Normals)
	c.UVs = slices.Clone(e.UVs)
	if e.Submeshes != nil {
		c.Submeshes = make([][]int, len(e.Submeshes))
		for i, sm := range e.Submeshes {
			c.Submeshes[i] = slices.Clone(sm)
		}
	}
	return &c
}
