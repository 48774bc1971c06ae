package city

import (
	"testing"

	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/math"
)

func TestTexName(t *testing.T) {
	tests := map[string]string{
		"":                      "NONE",
		"asphalt":               "asphalt",
		"textures/road/asphalt": "asphalt",
		"textures\\walk.tex":    "walk",
		"city/sidewalk_01.dds":  "sidewalk_01",
	}
	for in, want := range tests {
		if got := TexName(in); got != want {
			t.Errorf("TexName(%q) = %q, want %q", in, got, want)
		}
	}
	if got := TexNames("a/b", "", "c"); got != "b,NONE,c" {
		t.Errorf("TexNames = %q", got)
	}
}

func TestMeshName(t *testing.T) {
	if got := MeshName("props\\street\\lamp.pkg.json"); got != "lamp" {
		t.Errorf("MeshName = %q, want lamp", got)
	}
}

func TestMaterialName(t *testing.T) {
	s := &scene.Scene{Materials: []scene.Material{{Texture: "tex/brick"}}}
	if got := MaterialName(s, 0); got != "brick" {
		t.Errorf("MaterialName(0) = %q", got)
	}
	if got := MaterialName(s, scene.NoMaterial); got != NoTexture {
		t.Errorf("MaterialName(-1) = %q", got)
	}
	if got := MaterialName(s, 3); got != NoTexture {
		t.Errorf("MaterialName(3) = %q", got)
	}
}

func TestSectionIndices(t *testing.T) {
	got := SectionIndices(1, 4, 2)
	want := []int{9, 10, 14, 9, 14, 13}
	assertInts(t, "SectionIndices", got, want)

	got = SectionIndicesRev(1, 4, 2)
	want = []int{13, 14, 9, 14, 10, 9}
	assertInts(t, "SectionIndicesRev", got, want)
}

func TestSplitSubmeshes(t *testing.T) {
	m := &scene.Mesh{
		Vertices: []math.Vec3{{X: 0}, {X: 1}, {X: 2}, {X: 3}, {X: 4}},
		Submeshes: []scene.Submesh{
			{Indices: []int{4, 2, 3}},
			{Indices: []int{0, 1, 2, 2, 1, 0}},
		},
	}
	parts := SplitSubmeshes(m)
	if len(parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(parts))
	}

	p := parts[0]
	if len(p.Vertices) != 3 || p.Vertices[0].X != 2 || p.Vertices[2].X != 4 {
		t.Errorf("unexpected vertices %v", p.Vertices)
	}
	assertInts(t, "part 0 indices", p.Indices, []int{2, 0, 1})
	assertInts(t, "part 1 indices", parts[1].Indices, []int{0, 1, 2, 2, 1, 0})
}

func TestCube(t *testing.T) {
	c := Cube(10)
	if len(c.Vertices) != 8 || len(c.Indices) != 36 {
		t.Fatalf("unexpected cube size %d/%d", len(c.Vertices), len(c.Indices))
	}
	minY, maxY := c.Vertices[0].Y, c.Vertices[0].Y
	for _, v := range c.Vertices {
		minY = min(minY, v.Y)
		maxY = max(maxY, v.Y)
	}
	if minY != 0 || maxY != 10 {
		t.Errorf("cube should rest on y=0 with height 10, got %v..%v", minY, maxY)
	}
}

func TestPKGMesh(t *testing.T) {
	s := &scene.Scene{Materials: []scene.Material{{Texture: "tex/grass"}}}
	m := &scene.Mesh{
		Vertices:  []math.Vec3{{}, {X: 1}, {Z: 1}},
		Normals:   []math.Vec3{{Y: 1}, {Y: 1}, {Y: 1}},
		Submeshes: []scene.Submesh{{Indices: []int{0, 1, 2}, MaterialID: 0}, {Indices: []int{2, 1, 0}, MaterialID: scene.NoMaterial}},
	}
	var out Output

	e := out.PKGMesh(s, m, 4, LODVeryLow, "Park")
	if e.Name != "4_PKG" || !e.IsMesh {
		t.Errorf("unexpected element %q mesh=%v", e.Name, e.IsMesh)
	}
	if e.Materials != "grass,NONE" {
		t.Errorf("materials = %q", e.Materials)
	}
	if len(e.UVs) != 3 {
		t.Errorf("missing uvs should be padded to one per normal, got %d", len(e.UVs))
	}
	if e.Properties.Value("pkg_name") != "mesh0" || e.Properties.Value("lod_name") != "VL" {
		t.Errorf("unexpected properties %v", e.Properties.All())
	}

	bnd := out.PKGMeshAt(s, m, 4, LODBound, "Park", out.LastMeshIndex())
	if bnd.Properties.Value("pkg_name") != "mesh0" {
		t.Errorf("bound should reuse mesh0, got %s", bnd.Properties.Value("pkg_name"))
	}
	if next := out.PKGMesh(s, m, 4, LODVeryLow, "Park"); next.Properties.Value("pkg_name") != "mesh1" {
		t.Errorf("expected mesh1, got %s", next.Properties.Value("pkg_name"))
	}
}

func TestOutputCounters(t *testing.T) {
	var out Output
	if out.LastMeshIndex() != -1 {
		t.Errorf("LastMeshIndex on empty output = %d", out.LastMeshIndex())
	}
	if out.NextFacadeIndex() != 0 || out.NextFacadeIndex() != 1 || out.FacadeIndex() != 2 {
		t.Error("facade counter should advance by one")
	}
	if Name(12, SuffixRoadS) != "12_ROADS" {
		t.Errorf("Name = %q", Name(12, SuffixRoadS))
	}
}

func TestPropRules(t *testing.T) {
	lamp := scene.PropElement{Name: "lamp", Distance: 10, Meshes: []string{"lamp.pkg"}}
	left := &scene.PropRuleSide{Type: "psdl", Elements: []scene.PropElement{lamp}}
	leftCopy := &scene.PropRuleSide{Type: "psdl", Elements: []scene.PropElement{lamp}}
	right := &scene.PropRuleSide{Type: "psdl"}

	var r PropRules
	if got := r.Register(left, nil); got != 1 {
		t.Errorf("first rule index = %d", got)
	}
	if got := r.Register(left, right); got != 2 {
		t.Errorf("second rule index = %d", got)
	}
	if got := r.Register(leftCopy, nil); got != 1 {
		t.Errorf("equal pair should reuse index 1, got %d", got)
	}
	if r.Len() != 2 {
		t.Errorf("expected 2 rules, got %d", r.Len())
	}

	tables := r.Tables()
	if len(tables.Defs) != 1 || tables.Defs[0].Name != "lamp" {
		t.Errorf("unexpected defs %+v", tables.Defs)
	}
	if len(tables.Rules) != 2 || len(tables.Rules[1][1]) != 0 {
		t.Errorf("unexpected rules %+v", tables.Rules)
	}
}

func assertInts(t *testing.T, what string, got, want []int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s: got %v, want %v", what, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%s: got %v, want %v", what, got, want)
		}
	}
}

func TestRailCap(t *testing.T) {
	rs := &scene.RailState{Type: scene.RailWall, Height: 1.5, Texture0: "rail/wall", Texture5: "rail/top.dds"}
	piece := Piece{Vertices: []math.Vec3{{}, {Y: 1}, {X: 1}, {X: 1, Y: 1}}, Indices: []int{0, 1, 2}}

	e := RailCap(rs, piece, 6, "Park")
	if e.Name != "6_RAILC" {
		t.Errorf("name = %q", e.Name)
	}
	if e.Materials != "wall,NONE,NONE,NONE,NONE,top" {
		t.Errorf("materials = %q", e.Materials)
	}

	want := []string{
		"is_wall=1", "is_flat_gallery=0",
		"cap_start_left=1", "cap_end_left=1", "cap_start_right=1", "cap_end_right=1",
		"is_curved_gallery=0",
		"offset_start_left=0", "offset_end_left=0", "offset_start_right=0", "offset_end_right=0",
		"curved_sides=0", "is_rail=0", "height=384", "original_name=Park [rail]",
	}
	got := e.Properties.All()
	if len(got) != len(want) {
		t.Fatalf("got %d properties, want %d", len(got), len(want))
	}
	for i, w := range want {
		if kv := got[i].Key + "=" + got[i].Value; kv != w {
			t.Errorf("property %d = %s, want %s", i, kv, w)
		}
	}
}
