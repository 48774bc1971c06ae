package scene

// Intersection joins roads. Mesh submeshes are tagged one-to-one by Parts.
// Roads lists the ids of the bordering roads; SortOrder indexes Roads in
// clockwise order.
type Intersection struct {
	ID           int               `json:"id"`
	Name         string            `json:"name"`
	Mesh         Mesh              `json:"mesh"`
	State        IntersectionState `json:"state"`
	Instance     InstanceState     `json:"instanceState"`
	RoadsThrough []Road            `json:"roadsThrough"`
	Parts        []PartType        `json:"partsInfo"`
	Roads        []int             `json:"roads"`
	SortOrder    []int             `json:"sortOrder"`
}

// IntersectionState holds the authored flags of an intersection.
type IntersectionState struct {
	Type           string `json:"type"`
	BlockNumber    int    `json:"blockNumber"`
	FixSidewalksUV bool   `json:"fixSidewalksUV"`
	Echo           bool   `json:"echo"`
	Warp           bool   `json:"warp"`
	Texture0       string `json:"texture0"`
	Texture1       string `json:"texture1"`
	Texture2       string `json:"texture2"`
}

// InstanceState holds the per-instance flags shared by several entities.
type InstanceState struct {
	ExportToPKG bool `json:"exportToPKG"`
}

// Part returns the tag of submesh i, PartUnknown when untagged.
func (in *Intersection) Part(i int) PartType {
	if i < 0 || i >= len(in.Parts) {
		return PartType{Kind: PartUnknown, Junction: -1}
	}
	return in.Parts[i]
}
