package scene

import "github.com/Faultbox/cityexport/pkg/math"

// BuildingLine is a row of buildings generated along a curve.
type BuildingLine struct {
	Name       string            `json:"name"`
	State      BuildingLineState `json:"state"`
	Instance   InstanceState     `json:"instanceState"`
	Mesh       Mesh              `json:"mesh"`
	Collider   Mesh              `json:"collider"`
	LinePoints []math.Vec3       `json:"linePoints"`
	Roof       *Mesh             `json:"roof"`
	Buildings  []Building        `json:"buildings"`
}

// BuildingLineState holds the authored flags of a building line.
type BuildingLineState struct {
	Type        string `json:"type"`
	FrontOnly   bool   `json:"frontOnly"`
	FixBound    bool   `json:"fixBound"`
	RoofTexture string `json:"roofTex"`
}

// Building is one building of a line. Spline is its front curve and
// SplineNormals the outward normals at each curve point.
type Building struct {
	State         BuildingState `json:"state"`
	Spline        []math.Vec3   `json:"spline"`
	SplineNormals []math.Vec3   `json:"splineActualNormals"`
	Front         *BuildingSide `json:"front"`
	Left          *BuildingSide `json:"left"`
	Right         *BuildingSide `json:"right"`
	Back          *BuildingSide `json:"back"`
	Roof          *Mesh         `json:"roof"`
}

// Sides returns the present sides in front, left, right, back order.
func (b *Building) Sides() []*BuildingSide {
	var res []*BuildingSide
	for _, s := range []*BuildingSide{b.Front, b.Left, b.Right, b.Back} {
		if s != nil {
			res = append(res, s)
		}
	}
	return res
}

// BuildingState holds the authored flags of a building.
type BuildingState struct {
	FixBound   bool    `json:"fixBound"`
	Depth      float32 `json:"depth"`
	TopTexture string  `json:"topTexture"`
}

// BuildingSide is one wall of a building. Collider holds two rows of
// points (bottom then top) outlining the wall; Meshes is the table the
// facade instances index into; Slivers are the filler strips between
// facades.
type BuildingSide struct {
	Collider Mesh     `json:"collider"`
	Facades  []Facade `json:"facades"`
	Meshes   []Mesh   `json:"meshDict"`
	Slivers  []Mesh   `json:"paramMeshes"`
}

// Facade is a run of instanced facade meshes.
type Facade struct {
	Instances []FacadeInstances `json:"instances"`
}

// FacadeInstances places mesh MeshIndex of the side's mesh table once per
// matrix, with the matrices grouped in batches.
type FacadeInstances struct {
	MeshIndex int           `json:"meshIndex"`
	Batches   [][]math.Mat4 `json:"batches"`
}
