package scene

import "github.com/Faultbox/cityexport/pkg/math"

// TerrainPatch is a ground polygon with its triangulated mesh.
type TerrainPatch struct {
	Name            string       `json:"name"`
	Mesh            Mesh         `json:"mesh"`
	State           PatchState   `json:"state"`
	PerimeterPoints []math.Vec3  `json:"perimeterPoints"`
	BorderMeshes    []BorderMesh `json:"borderMeshes"`
}

// PatchState holds the authored flags of a terrain patch.
type PatchState struct {
	Type               string `json:"type"`
	BlockNumber        int    `json:"blockNumber"`
	MergeWithConnected bool   `json:"mergeWithConnected"`
	ExportToPKG        bool   `json:"exportToPKG"`
	Invisible          bool   `json:"invisible"`
	Echo               bool   `json:"echo"`
	Warp               bool   `json:"warp"`
	Texture            string `json:"texture"`
}

// BorderMesh is a rail running along part of a patch border.
type BorderMesh struct {
	Segment []math.Vec3 `json:"segment"`
	State   RailState   `json:"state"`
}
