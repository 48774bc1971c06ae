package formats

import (
	"bytes"
	"encoding/binary"
	"errors"
	"math"
	"path/filepath"
	"strings"
	"testing"

	cmath "github.com/Faultbox/cityexport/pkg/math"
)

func encode(t *testing.T, elements ...*Element) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, DefaultFormatName, elements); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes()
}

func TestWrite_Header(t *testing.T) {
	data := encode(t)

	if string(data[0:4]) != "km2B" {
		t.Fatalf("expected magic km2B, got %q", data[0:4])
	}
	if int(data[4]) != len(DefaultFormatName) {
		t.Fatalf("expected name length %d, got %d", len(DefaultFormatName), data[4])
	}
	name := string(data[5 : 5+len(DefaultFormatName)])
	if name != DefaultFormatName {
		t.Errorf("expected format name %q, got %q", DefaultFormatName, name)
	}
	count := binary.LittleEndian.Uint32(data[5+len(DefaultFormatName):])
	if count != 0 {
		t.Errorf("expected 0 elements, got %d", count)
	}
	if len(data) != 5+len(DefaultFormatName)+4 {
		t.Errorf("unexpected trailing data: %d bytes", len(data))
	}
}

func TestWrite_PlainElementLayout(t *testing.T) {
	e := NewElement("3_ROADN")
	e.Properties.Set("bai_vps", "2")
	e.Vertices = []cmath.Vec3{{X: 1, Y: 2, Z: 3}}
	e.Indices = []int{0, 1, 2}
	e.Materials = "R2"

	data := encode(t, e)
	r := bytes.NewReader(data[4+1+len(DefaultFormatName)+4:])

	flag, _ := r.ReadByte()
	if flag != 0 {
		t.Errorf("expected is_mesh 0, got %d", flag)
	}
	if s, _ := readString(r); s != "3_ROADN" {
		t.Errorf("expected name 3_ROADN, got %q", s)
	}
	var n uint32
	binary.Read(r, binary.LittleEndian, &n)
	if n != 1 {
		t.Fatalf("expected 1 property, got %d", n)
	}
	k, _ := readString(r)
	v, _ := readString(r)
	if k != "bai_vps" || v != "2" {
		t.Errorf("expected bai_vps=2, got %s=%s", k, v)
	}

	binary.Read(r, binary.LittleEndian, &n)
	var xyz [3]float32
	binary.Read(r, binary.LittleEndian, &xyz)
	if xyz != [3]float32{1, 3, 2} {
		t.Errorf("expected swizzled vertex (1,3,2), got %v", xyz)
	}

	binary.Read(r, binary.LittleEndian, &n)
	if n != 3 {
		t.Fatalf("expected 3 indices, got %d", n)
	}
	idx := make([]uint16, 3)
	binary.Read(r, binary.LittleEndian, idx)
	if idx[0] != 2 || idx[1] != 1 || idx[2] != 0 {
		t.Errorf("expected reversed indices [2 1 0], got %v", idx)
	}

	binary.Read(r, binary.LittleEndian, &n)
	if n != 1 {
		t.Errorf("expected 1 material, got %d", n)
	}
	if s, _ := readString(r); s != "R2" {
		t.Errorf("expected material R2, got %q", s)
	}
	if tf, _ := r.ReadByte(); tf != 0 {
		t.Errorf("identity transform should be omitted, got flag %d", tf)
	}
	if r.Len() != 0 {
		t.Errorf("unexpected %d trailing bytes", r.Len())
	}
}

func TestWrite_TransformFlag(t *testing.T) {
	tests := []struct {
		name string
		tf   Transform
		want bool
	}{
		{"identity", IdentityTransform(), false},
		{"translated", Transform{Translation: cmath.Vec3{X: 1}, Scale: cmath.Vec3{X: 1, Y: 1, Z: 1}, Rotation: cmath.QuatIdentity()}, true},
		{"scaled", Transform{Scale: cmath.Vec3{X: 2, Y: 1, Z: 1}, Rotation: cmath.QuatIdentity()}, true},
		{"rotated", Transform{Scale: cmath.Vec3{X: 1, Y: 1, Z: 1}, Rotation: cmath.Quat{Y: 1}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewElement("0_INST")
			e.Transform = tt.tf
			data := encode(t, e)
			c, err := Read(data)
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if got := !c.Elements[0].Transform.IsIdentity(); got != tt.want {
				t.Errorf("has transform = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWrite_RotationEncoding(t *testing.T) {
	e := NewElement("0_INST")
	e.Transform.Rotation = cmath.Quat{X: 0.1, Y: 0.2, Z: 0.3, W: 0.9}

	data := encode(t, e)
	tail := data[len(data)-16:]
	var q [4]float32
	binary.Read(bytes.NewReader(tail), binary.LittleEndian, &q)
	want := [4]float32{-0.9, 0.1, 0.3, 0.2}
	if q != want {
		t.Errorf("rotation written as %v, want %v", q, want)
	}
}

func TestRoundTrip_Transform(t *testing.T) {
	axis := cmath.Vec3{X: 1, Y: 2, Z: 3}.Normalize()
	want := Transform{
		Translation: cmath.Vec3{X: 12.5, Y: -3.25, Z: 400},
		Scale:       cmath.Vec3{X: 1, Y: 2, Z: 0.5},
		Rotation:    cmath.QuatFromAxisAngle(axis, 1.1),
	}
	e := NewElement("1,4_INST")
	e.Transform = want
	e.Properties.Set("object", "lamp")
	e.Properties.Set("flags", "256")

	c, err := Read(encode(t, e))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	got := c.Elements[0].Transform

	const eps = 1e-5
	near := func(a, b float32) bool { return math.Abs(float64(a-b)) < eps }
	if !near(got.Translation.X, want.Translation.X) || !near(got.Translation.Y, want.Translation.Y) || !near(got.Translation.Z, want.Translation.Z) {
		t.Errorf("translation: got %v, want %v", got.Translation, want.Translation)
	}
	if !near(got.Scale.X, want.Scale.X) || !near(got.Scale.Y, want.Scale.Y) || !near(got.Scale.Z, want.Scale.Z) {
		t.Errorf("scale: got %v, want %v", got.Scale, want.Scale)
	}
	if !near(got.Rotation.X, want.Rotation.X) || !near(got.Rotation.Y, want.Rotation.Y) ||
		!near(got.Rotation.Z, want.Rotation.Z) || !near(got.Rotation.W, want.Rotation.W) {
		t.Errorf("rotation: got %v, want %v", got.Rotation, want.Rotation)
	}

	props := c.Elements[0].Properties.All()
	if len(props) != 2 || props[0].Key != "object" || props[1].Key != "flags" {
		t.Errorf("property order not preserved: %v", props)
	}
}

func TestRoundTrip_Mesh(t *testing.T) {
	e := NewElement("2_PKG")
	e.IsMesh = true
	e.Vertices = []cmath.Vec3{{X: 0, Y: 0, Z: 0}, {X: 1, Y: 0, Z: 0}, {X: 0, Y: 1, Z: 0}, {X: 0, Y: 0, Z: 1}}
	e.Normals = []cmath.Vec3{{Y: 1}, {Y: 1}, {Y: 1}, {Z: 1}}
	e.UVs = []cmath.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0, Y: 1}, {X: 1, Y: 1}}
	e.Submeshes = [][]int{{0, 1, 2}, {0, 2, 3}}
	e.Materials = "BRICK,NONE"

	c, err := Read(encode(t, e))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if c.FormatName != DefaultFormatName {
		t.Errorf("format name: got %q", c.FormatName)
	}
	got := c.Elements[0]
	if !got.IsMesh {
		t.Fatal("expected mesh element")
	}
	if len(got.Submeshes) != 2 || got.Submeshes[1][2] != 3 || got.Submeshes[0][0] != 0 {
		t.Errorf("submeshes: got %v", got.Submeshes)
	}
	if got.Vertices[2] != e.Vertices[2] || got.Normals[3] != e.Normals[3] || got.UVs[3] != e.UVs[3] {
		t.Errorf("vertex data mismatch: %v %v %v", got.Vertices, got.Normals, got.UVs)
	}
	if got.Materials != "BRICK,NONE" {
		t.Errorf("materials: got %q", got.Materials)
	}
}

func TestWrite_EmptyMaterials(t *testing.T) {
	e := NewElement("0_BAI")
	c, err := Read(encode(t, e))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got := c.Elements[0].MaterialList(); len(got) != 1 || got[0] != "" {
		t.Errorf("expected single empty material, got %q", got)
	}
}

func TestWrite_Errors(t *testing.T) {
	long := NewElement(strings.Repeat("x", 256))
	if err := Write(&bytes.Buffer{}, DefaultFormatName, []*Element{long}); !errors.Is(err, ErrStringTooLong) {
		t.Errorf("expected ErrStringTooLong, got %v", err)
	}

	big := NewElement("1_BLOCK")
	big.Indices = []int{0, 1, 70000}
	if err := Write(&bytes.Buffer{}, DefaultFormatName, []*Element{big}); !errors.Is(err, ErrIndexOverflow) {
		t.Errorf("expected ErrIndexOverflow, got %v", err)
	}
}

func TestRead_InvalidMagic(t *testing.T) {
	_, err := Read([]byte("XXXX\x00\x00\x00\x00\x00"))
	if !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestRead_Truncated(t *testing.T) {
	e := NewElement("1_BLOCK")
	e.Vertices = []cmath.Vec3{{X: 1}, {X: 2}}
	data := encode(t, e)

	_, err := Read(data[:len(data)-5])
	if !errors.Is(err, ErrTruncatedData) {
		t.Errorf("expected ErrTruncatedData, got %v", err)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.bin")
	e := NewElement("1_BLOCK")
	e.Materials = "GRASS"
	if err := WriteFile(path, DefaultFormatName, []*Element{e}); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	c, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if len(c.Elements) != 1 || c.Elements[0].Name != "1_BLOCK" {
		t.Errorf("unexpected elements: %+v", c.Elements)
	}
}

func TestProperties_SetKeepsOrder(t *testing.T) {
	var p Properties
	p.Set("a", "1")
	p.Set("b", "2")
	p.Set("a", "3")

	all := p.All()
	if len(all) != 2 || all[0] != (Property{"a", "3"}) || all[1] != (Property{"b", "2"}) {
		t.Errorf("unexpected properties: %v", all)
	}
	if _, ok := p.Get("c"); ok {
		t.Error("expected missing key")
	}
}

func TestElement_Suffix(t *testing.T) {
	tests := map[string]string{
		"3_ROADS":     "ROADS",
		"12,4_INST":   "INST",
		"f3*,7_FACB":  "FACB",
		"0_BAI":       "BAI",
		"noSeparator": "noSeparator",
	}
	for name, want := range tests {
		if got := NewElement(name).Suffix(); got != want {
			t.Errorf("Suffix(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestElement_Clone(t *testing.T) {
	e := NewElement("f1*,3_FACB")
	e.Properties.Set("original_name", "Row [facade bound]")
	e.Vertices = []cmath.Vec3{{X: 1}}
	e.Indices = []int{0, 2, 1}

	c := e.Clone()
	c.Name = "f1z*,4_FACB"
	c.Properties.Set("original_name", "changed")
	c.Vertices[0].X = 5
	c.Indices[0] = 9

	if e.Properties.Value("original_name") != "Row [facade bound]" {
		t.Error("clone shares properties with the original")
	}
	if e.Vertices[0].X != 1 || e.Indices[0] != 0 {
		t.Error("clone shares geometry with the original")
	}
	if e.Name != "f1*,3_FACB" {
		t.Errorf("original name changed to %q", e.Name)
	}
}
