package scene

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Faultbox/cityexport/pkg/math"
)

func TestParsePartType(t *testing.T) {
	tests := []struct {
		tag  string
		want PartType
	}{
		{"junction_0", PartType{PartSidewalk, -1}},
		{"junction_0.2", PartType{PartSidewalk, 2}},
		{"junction_1.0", PartType{PartRail, 0}},
		{"terrain", PartType{PartTerrain, -1}},
		{"crosswalk", PartType{PartCrosswalk, -1}},
		{"decal", PartType{PartUnknown, -1}},
		{"junction_1.x", PartType{PartRail, -1}},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			if got := ParsePartType(tt.tag); got != tt.want {
				t.Errorf("ParsePartType(%q) = %+v, want %+v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestDecodeDefaults(t *testing.T) {
	input := `{
		"roads": [{"id": 0, "name": "Main", "vertsPerSection": 2, "mesh": {"submeshes": [{"indices": [0, 1, 2]}]}}],
		"meshInstances": [{"name": "lamp", "reference": {"meshId": 0, "position": [1, 2, 3]}, "settings": {}}]
	}`
	s, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}

	road := s.Roads[0]
	if road.StartIntersectionID != NoIntersection || road.EndIntersectionID != NoIntersection {
		t.Errorf("expected open road ends, got %d/%d", road.StartIntersectionID, road.EndIntersectionID)
	}
	if road.HasStartIntersection() || road.HasEndIntersection() {
		t.Error("open road should not report intersections")
	}
	if road.Mesh.Submeshes[0].MaterialID != NoMaterial {
		t.Errorf("expected missing material id to default to %d, got %d", NoMaterial, road.Mesh.Submeshes[0].MaterialID)
	}

	inst := s.MeshInstances[0]
	if !inst.Reference.Rotation.IsIdentity() {
		t.Errorf("expected identity rotation, got %+v", inst.Reference.Rotation)
	}
	if inst.Reference.Scale != (math.Vec3{X: 1, Y: 1, Z: 1}) {
		t.Errorf("expected unit scale, got %+v", inst.Reference.Scale)
	}
	if inst.Reference.HasTransform() {
		t.Error("default reference should have no transform")
	}
	if inst.Settings.ParentObjectID != -1 {
		t.Errorf("expected parent id -1, got %d", inst.Settings.ParentObjectID)
	}
}

func TestDecodeRoadState(t *testing.T) {
	input := `{"roads": [{"id": 3, "startIntersectionId": 1, "endIntersectionId": 2, "state": {
		"type": "psdl", "isDouble": true, "divider": 3, "hasSidewalks": true,
		"texture0": "tex/side", "rail_type": 2, "rail_hasLeft": true, "rail_texture0": "rail/a",
		"propRule": {"left": {"type": "psdl", "elements": [{"name": "lamp", "elemDistance": 10, "meshes": ["lamp.pkg"]}]}}
	}}]}`
	s, err := Decode(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	st := s.Roads[0].State

	if !st.IsPSDL() || st.Divider != DividerWedged {
		t.Errorf("unexpected state %+v", st)
	}
	if st.Texture0 != "tex/side" || st.RailState.Texture0 != "rail/a" {
		t.Errorf("road and rail textures mixed up: %q %q", st.Texture0, st.RailState.Texture0)
	}
	if st.RailState.Type != RailWall || !st.HasRail() {
		t.Errorf("expected wall rail, got %+v", st.RailState)
	}
	if !st.HasCaps() {
		t.Error("wedged divider should have caps")
	}
	if st.PropRule == nil || st.PropRule.Side("left") == nil || st.PropRule.Side("right") != nil {
		t.Fatalf("unexpected prop rule %+v", st.PropRule)
	}
	if got := st.PropRule.Left.Elements[0].Distance; got != 10 {
		t.Errorf("expected element distance 10, got %v", got)
	}
}

func TestRoadStateSidewalks(t *testing.T) {
	tests := []struct {
		name      string
		state     RoadState
		runtime   RoadRuntimeState
		sidewalks bool
		shoulders bool
	}{
		{"single road", RoadState{Sidewalks: true}, RoadRuntimeState{}, false, false},
		{"double with sidewalks", RoadState{IsDouble: true, Sidewalks: true}, RoadRuntimeState{}, true, false},
		{"flat sidewalk", RoadState{IsDouble: true, Sidewalks: true, FlatSidewalk: true}, RoadRuntimeState{}, false, true},
		{"through intersection", RoadState{IsDouble: true, Sidewalks: true}, RoadRuntimeState{ThroughIntersection: true}, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.HasSidewalks(tt.runtime); got != tt.sidewalks {
				t.Errorf("HasSidewalks = %v, want %v", got, tt.sidewalks)
			}
			if got := tt.state.HasShoulders(tt.runtime); got != tt.shoulders {
				t.Errorf("HasShoulders = %v, want %v", got, tt.shoulders)
			}
		})
	}
}

func TestManualBlockNumbers(t *testing.T) {
	s := &Scene{
		Roads:          []Road{{State: RoadState{BlockNumber: 5}}, {State: RoadState{}}},
		Intersections:  []Intersection{{State: IntersectionState{BlockNumber: 2}}, {State: IntersectionState{BlockNumber: 5}}},
		TerrainPatches: []TerrainPatch{{State: PatchState{BlockNumber: 9}}},
	}
	got := s.ManualBlockNumbers()
	want := []int{5, 2, 9}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
			break
		}
	}
}

func TestLookups(t *testing.T) {
	s := &Scene{
		Roads:     []Road{{ID: 4}, {ID: 1}},
		Materials: []Material{{Texture: "asphalt"}},
		Meshes:    []MeshAsset{{Name: "props/lamp.pkg"}},
	}

	if r, ok := s.RoadByID(1); !ok || r != &s.Roads[1] {
		t.Error("RoadByID(1) should return the second road")
	}
	if _, ok := s.RoadByID(7); ok {
		t.Error("RoadByID(7) should miss")
	}
	if tex, ok := s.MaterialTexture(0); !ok || tex != "asphalt" {
		t.Errorf("MaterialTexture(0) = %q, %v", tex, ok)
	}
	if _, ok := s.MaterialTexture(NoMaterial); ok {
		t.Error("MaterialTexture(-1) should miss")
	}
	if _, ok := s.MeshAsset(1); ok {
		t.Error("MeshAsset(1) should miss")
	}
}

func TestBuildingSides(t *testing.T) {
	b := Building{Front: &BuildingSide{}, Back: &BuildingSide{}}
	sides := b.Sides()
	if len(sides) != 2 || sides[0] != b.Front || sides[1] != b.Back {
		t.Errorf("unexpected sides %v", sides)
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "city.json")
	content := `{"intersections": [{"id": 0, "partsInfo": ["terrain", "junction_1.1"], "roads": [0, 1], "sortOrder": [1, 0]}]}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write scene: %v", err)
	}

	s, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	in := s.Intersections[0]
	if in.Part(1) != (PartType{PartRail, 1}) {
		t.Errorf("unexpected part %+v", in.Part(1))
	}
	if in.Part(5).Kind != PartUnknown {
		t.Error("out of range part should be unknown")
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}
}
