package scene

import (
	"encoding/json"

	"github.com/Faultbox/cityexport/pkg/math"
)

// DividerType is the median style of a double road.
type DividerType int

const (
	DividerNone DividerType = iota
	DividerFlat
	DividerElevated
	DividerWedged
)

// RailType is the barrier style along a road edge.
type RailType int

const (
	RailNone RailType = iota
	RailRail
	RailWall
	RailFlatGallery
	RailCurvedGallery
)

// Road is a parametric road segment. Its mesh vertices are laid out as
// consecutive sections of VertsPerSection vertices, optionally followed
// by 8 cap vertices.
type Road struct {
	ID                  int               `json:"id"`
	Name                string            `json:"name"`
	Mesh                Mesh              `json:"mesh"`
	VertsPerSection     int               `json:"vertsPerSection"`
	StartIntersectionID int               `json:"startIntersectionId"`
	EndIntersectionID   int               `json:"endIntersectionId"`
	State               RoadState         `json:"state"`
	Runtime             RoadRuntimeState  `json:"runtimeState"`
	Instance            RoadInstanceState `json:"instanceState"`
	PropLines           []PropLine        `json:"propLines"`
}

// UnmarshalJSON defaults both intersection ids to NoIntersection.
func (r *Road) UnmarshalJSON(data []byte) error {
	type plain Road
	p := plain{StartIntersectionID: NoIntersection, EndIntersectionID: NoIntersection}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*r = Road(p)
	return nil
}

// HasStartIntersection reports whether the road begins at an intersection.
func (r *Road) HasStartIntersection() bool { return r.StartIntersectionID != NoIntersection }

// HasEndIntersection reports whether the road ends at an intersection.
func (r *Road) HasEndIntersection() bool { return r.EndIntersectionID != NoIntersection }

// RailState describes the barriers of a road or terrain border.
type RailState struct {
	Type             RailType `json:"rail_type"`
	HasLeft          bool     `json:"rail_hasLeft"`
	HasRight         bool     `json:"rail_hasRight"`
	Height           float32  `json:"rail_height"`
	OffsetStartLeft  bool     `json:"rail_offsetStartLeft"`
	OffsetEndLeft    bool     `json:"rail_offsetEndLeft"`
	OffsetStartRight bool     `json:"rail_offsetStartRight"`
	OffsetEndRight   bool     `json:"rail_offsetEndRight"`
	Texture0         string   `json:"rail_texture0"`
	Texture1         string   `json:"rail_texture1"`
	Texture2         string   `json:"rail_texture2"`
	Texture3         string   `json:"rail_texture3"`
	Texture4         string   `json:"rail_texture4"`
	Texture5         string   `json:"rail_texture5"`
}

// Textures returns the six rail texture slots in order.
func (s RailState) Textures() [6]string {
	return [6]string{s.Texture0, s.Texture1, s.Texture2, s.Texture3, s.Texture4, s.Texture5}
}

// RoadState holds the authored feature flags of a road.
type RoadState struct {
	Type         string      `json:"type"`
	IsDouble     bool        `json:"isDouble"`
	Divider      DividerType `json:"divider"`
	DividerParam float32     `json:"dividerParam"`
	Sidewalks    bool        `json:"hasSidewalks"`
	FlatSidewalk bool        `json:"flatSidewalk"`
	Echo         bool        `json:"echo"`
	Warp         bool        `json:"warp"`
	Texture0     string      `json:"texture0"`
	Texture1     string      `json:"texture1"`
	Texture2     string      `json:"texture2"`
	Texture3     string      `json:"texture3"`
	Texture4     string      `json:"texture4"`
	Texture5     string      `json:"texture5"`
	TextureLOD   string      `json:"textureLOD"`
	BlockNumber  int         `json:"blockNumber"`
	PropRule     *PropRule   `json:"propRule"`
	RailState

	ForwardLanes            int  `json:"forwardLanes"`
	BackwardLanes           int  `json:"backwardLanes"`
	DisableTraffic          bool `json:"disableTraffic"`
	PedestrianStreet        bool `json:"pedestrianStreet"`
	DisableLeftPedestrians  bool `json:"disableLeftPedestrians"`
	DisableRightPedestrians bool `json:"disableRightPedestrians"`
	SpeedLimit              int  `json:"speedLimit"`
}

// IsPSDL reports whether the road is exported as native geometry.
func (s *RoadState) IsPSDL() bool { return s.Type == TypePSDL }

// HasDivider reports whether a double road carries a median.
func (s *RoadState) HasDivider() bool {
	return s.IsDouble && s.Divider > DividerNone
}

// HasCaps reports whether the mesh ends with the 8 divider cap vertices.
func (s *RoadState) HasCaps() bool {
	return s.HasDivider() && s.Divider != DividerFlat
}

func (s *RoadState) sidewalksOrShoulders(rt RoadRuntimeState) bool {
	return s.Sidewalks && !rt.ThroughIntersection && s.IsDouble
}

// HasSidewalks reports whether raised sidewalks are present.
func (s *RoadState) HasSidewalks(rt RoadRuntimeState) bool {
	return s.sidewalksOrShoulders(rt) && !s.FlatSidewalk
}

// HasShoulders reports whether flat sidewalks (shoulders) are present.
func (s *RoadState) HasShoulders(rt RoadRuntimeState) bool {
	return s.sidewalksOrShoulders(rt) && s.FlatSidewalk
}

// HasRail reports whether the road has a barrier on at least one side.
func (s *RoadState) HasRail() bool {
	return s.RailState.Type > RailNone && (s.HasLeft || s.HasRight)
}

// RoadRuntimeState holds flags set by the editor while generating the road.
type RoadRuntimeState struct {
	ThroughIntersection bool `json:"throughIntersection"`
}

// RoadInstanceState holds per-instance flags of a placed road.
type RoadInstanceState struct {
	ExportToPKG          bool `json:"exportToPKG"`
	ContinueLeftOnStart  bool `json:"rail_continueLeftOnStartIntersection"`
	ContinueLeftOnEnd    bool `json:"rail_continueLeftOnEndIntersection"`
	ContinueRightOnStart bool `json:"rail_continueRightOnStartIntersection"`
	ContinueRightOnEnd   bool `json:"rail_continueRightOnEndIntersection"`
	StartRule            int  `json:"start_rule"`
	EndRule              int  `json:"end_rule"`
}

// PropRule is the pair of decoration rules along the road sides.
type PropRule struct {
	Left  *PropRuleSide `json:"left"`
	Right *PropRuleSide `json:"right"`
}

// Side returns the rule for the named side ("left" or "right").
func (r *PropRule) Side(name string) *PropRuleSide {
	switch name {
	case "left":
		return r.Left
	case "right":
		return r.Right
	}
	return nil
}

// PropRuleSide is one side of a PropRule. Rules of type psdl are written
// to the prop rule tables; other types are baked as placed props.
type PropRuleSide struct {
	Type     string        `json:"type"`
	Elements []PropElement `json:"elements"`
}

// PropElement is a decoration definition repeated along a road side.
type PropElement struct {
	Name        string   `json:"name"`
	Start       float64  `json:"start"`
	Distance    float64  `json:"elemDistance"`
	MaxNumber   int      `json:"maxNumber"`
	MinHorizPos float64  `json:"minHorizPos"`
	MaxHorizPos float64  `json:"maxHorizPos"`
	Meshes      []string `json:"meshes"`
}

// PropLine holds the props the editor placed for one prop rule side.
type PropLine struct {
	Name  string          `json:"name"`
	Props []MeshReference `json:"props"`
}

// MeshReference places an entry of the scene mesh table.
type MeshReference struct {
	MeshID   int       `json:"meshId"`
	Position math.Vec3 `json:"position"`
	Rotation math.Quat `json:"rotation"`
	Scale    math.Vec3 `json:"scale"`
}

// UnmarshalJSON defaults Rotation to identity and Scale to one.
func (m *MeshReference) UnmarshalJSON(data []byte) error {
	type plain MeshReference
	p := plain{Rotation: math.QuatIdentity(), Scale: math.Vec3{X: 1, Y: 1, Z: 1}}
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*m = MeshReference(p)
	return nil
}

// HasTransform reports whether rotation or scale differ from identity.
func (m *MeshReference) HasTransform() bool {
	return !m.Rotation.IsIdentity() || m.Scale != (math.Vec3{X: 1, Y: 1, Z: 1})
}
