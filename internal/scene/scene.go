// Package scene defines the typed scene graph consumed by the exporter.
//
// The graph is read-only once loaded. Missing optional fields decode to
// their zero value, except where a type documents a different default
// (intersection ids and parent ids default to -1, transforms to identity).
package scene

import (
	"encoding/json"

	"github.com/Faultbox/cityexport/pkg/math"
)

// TypePSDL marks entities exported as native city geometry.
// Every other type string is exported as a PKG mesh.
const TypePSDL = "psdl"

// NoIntersection is the intersection id of an open road end.
const NoIntersection = -1

// NoMaterial is the material id of a submesh without material.
const NoMaterial = -1

// Scene is the root of a city scene.
type Scene struct {
	Roads          []Road         `json:"roads"`
	Intersections  []Intersection `json:"intersections"`
	TerrainPatches []TerrainPatch `json:"terrainPatches"`
	BuildingLines  []BuildingLine `json:"buildingLines"`
	MeshInstances  []MeshInstance `json:"meshInstances"`
	Materials      []Material     `json:"materialDict"`
	Meshes         []MeshAsset    `json:"meshDict"`
}

// Material is an entry of the scene material table.
type Material struct {
	Texture string `json:"texture"`
}

// MeshAsset is an entry of the scene mesh table.
type MeshAsset struct {
	Name      string    `json:"name"`
	BoundsMin math.Vec3 `json:"boundsMin"`
}

// Mesh is an indexed triangle mesh split into submeshes.
type Mesh struct {
	Vertices  []math.Vec3 `json:"vertices"`
	Normals   []math.Vec3 `json:"normals"`
	UVs       []math.Vec2 `json:"uvs"`
	Submeshes []Submesh   `json:"submeshes"`
}

// Submesh is one material group of a Mesh.
type Submesh struct {
	Indices    []int `json:"indices"`
	MaterialID int   `json:"materialId"`
}

// UnmarshalJSON defaults MaterialID to NoMaterial.
func (s *Submesh) UnmarshalJSON(data []byte) error {
	type plain Submesh
	p := plain{MaterialID: NoMaterial}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = Submesh(p)
	return nil
}

// MaterialTexture returns the texture of material id.
func (s *Scene) MaterialTexture(id int) (string, bool) {
	if id < 0 || id >= len(s.Materials) {
		return "", false
	}
	return s.Materials[id].Texture, true
}

// MeshAsset returns the mesh table entry id.
func (s *Scene) MeshAsset(id int) (MeshAsset, bool) {
	if id < 0 || id >= len(s.Meshes) {
		return MeshAsset{}, false
	}
	return s.Meshes[id], true
}

// RoadByID returns the road with the given id.
func (s *Scene) RoadByID(id int) (*Road, bool) {
	if id >= 0 && id < len(s.Roads) && s.Roads[id].ID == id {
		return &s.Roads[id], true
	}
	for i := range s.Roads {
		if s.Roads[i].ID == id {
			return &s.Roads[i], true
		}
	}
	return nil, false
}

// ManualBlockNumbers returns the distinct positive block numbers declared
// by roads, intersections and terrain patches, in first-seen order.
func (s *Scene) ManualBlockNumbers() []int {
	var res []int
	seen := make(map[int]bool)
	add := func(n int) {
		if n > 0 && !seen[n] {
			seen[n] = true
			res = append(res, n)
		}
	}
	for i := range s.Roads {
		add(s.Roads[i].State.BlockNumber)
	}
	for i := range s.Intersections {
		add(s.Intersections[i].State.BlockNumber)
	}
	for i := range s.TerrainPatches {
		add(s.TerrainPatches[i].State.BlockNumber)
	}
	return res
}
