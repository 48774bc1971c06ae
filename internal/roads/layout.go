package roads

import (
	"slices"
	"strconv"

	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
)

// Road element suffixes by cross-section.
const (
	SuffixRoadN  = "ROADN"
	SuffixRoadS  = city.SuffixRoadS
	SuffixRoadSN = "ROADSN"
	SuffixRoadD  = "ROADD"
	SuffixRoadDN = "ROADDN"
)

const (
	sidewalkSkip       = 3
	shoulderSkip       = 2
	dividerParamFactor = 256
)

// Layout is the cross-section of a PSDL road: which vertices of each mesh
// section form the exported strip and how the element is named and
// textured.
type Layout struct {
	// Sections lists, per mesh section, the vertex offsets of the strip
	// in export order.
	Sections []int
	// Shoulders holds the offsets of the left and right flat sidewalk
	// strips, empty when the road has none.
	Shoulders [2][]int

	Suffix       string
	TextureSlots int
	SidewalkSkip int

	DividerType  string
	DividerSkip  int
	DividerParam string
	Caps         string
}

// ComputeLayout derives the cross-section of a road from its state.
//
// The editor emits raised sidewalks as four vertices per side and flat
// sidewalks as three, of which the outer one or two are skipped. A divider
// is always a single vertex pair in the mesh, whatever its skip width in
// the game's own layout.
func ComputeLayout(st *scene.RoadState, rt scene.RoadRuntimeState) Layout {
	var l Layout
	switch {
	case st.HasSidewalks(rt):
		l.SidewalkSkip = sidewalkSkip
	case st.HasShoulders(rt):
		l.SidewalkSkip = shoulderSkip
	}

	div := st.HasDivider()
	if div {
		l.Caps = "3"
		param := strconv.Itoa(int(st.DividerParam * dividerParamFactor))
		switch st.Divider {
		case scene.DividerFlat:
			l.DividerType, l.DividerSkip, l.DividerParam = "F", 2, param
		case scene.DividerElevated:
			l.DividerType, l.DividerSkip, l.DividerParam = "E", 10, param
		case scene.DividerWedged:
			l.DividerType, l.DividerSkip = "W", 6
		}
	}

	if !st.IsDouble {
		l.Suffix = SuffixRoadN
		l.TextureSlots = 1
		l.Sections = []int{1, 0}
		return l
	}

	sw := l.SidewalkSkip
	switch {
	case div && sw == sidewalkSkip:
		l.Suffix, l.TextureSlots = SuffixRoadD, 7
	case div:
		l.Suffix, l.TextureSlots = SuffixRoadDN, 7
	case sw == sidewalkSkip:
		l.Suffix, l.TextureSlots = SuffixRoadS, 3
	default:
		l.Suffix, l.TextureSlots = SuffixRoadSN, 3
	}

	var sec []int
	cur := 0
	switch sw {
	case sidewalkSkip:
		sec = append(sec, cur)
		cur++
	case shoulderSkip:
		l.Shoulders[0] = []int{cur, cur + 1}
	}
	cur += sw
	sec = append(sec, cur)
	cur++
	if div {
		sec = append(sec, cur)
	}
	cur++
	if div {
		sec = append(sec, cur)
		cur++
	}
	sec = append(sec, cur)
	cur += 1 + sw
	switch sw {
	case sidewalkSkip:
		sec = append(sec, cur)
	case shoulderSkip:
		l.Shoulders[1] = []int{cur - 2, cur - 1}
	}

	slices.Reverse(sec)
	l.Sections = sec
	return l
}

// Materials returns the comma-separated texture list of a road using l.
func (l Layout) Materials(st *scene.RoadState) string {
	switch l.TextureSlots {
	case 1:
		return city.TexName(st.Texture1)
	case 3:
		return city.TexNames(st.Texture1, st.Texture0, st.TextureLOD)
	default:
		return city.TexNames(st.Texture1, st.Texture0, st.TextureLOD,
			st.Texture2, st.Texture3, st.Texture4, st.Texture5)
	}
}
