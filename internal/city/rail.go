package city

import (
	"strconv"

	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
)

// RailProperties writes the rail flag set shared by road rails and rail
// caps, in container order. caps holds cap_start_left, cap_end_left,
// cap_start_right and cap_end_right.
func RailProperties(p *formats.Properties, rs *scene.RailState, caps [4]bool, offsets [4]bool) {
	p.Set("is_wall", Flag(rs.Type == scene.RailWall))
	p.Set("is_flat_gallery", Flag(rs.Type == scene.RailFlatGallery))
	p.Set("cap_start_left", Flag(caps[0]))
	p.Set("cap_end_left", Flag(caps[1]))
	p.Set("cap_start_right", Flag(caps[2]))
	p.Set("cap_end_right", Flag(caps[3]))
	p.Set("is_curved_gallery", Flag(rs.Type == scene.RailCurvedGallery))
	p.Set("offset_start_left", Flag(offsets[0]))
	p.Set("offset_end_left", Flag(offsets[1]))
	p.Set("offset_start_right", Flag(offsets[2]))
	p.Set("offset_end_right", Flag(offsets[3]))
	p.Set("curved_sides", "0")
	p.Set("is_rail", Flag(rs.Type == scene.RailRail))
	p.Set("height", strconv.Itoa(int(rs.Height*256)))
}

// RailTextures returns the six rail texture names joined by commas.
func RailTextures(rs *scene.RailState) string {
	t := rs.Textures()
	return TexNames(t[:]...)
}

// RailCap builds a closed rail element over piece: every side capped, no
// offsets.
func RailCap(rs *scene.RailState, piece Piece, block int, originalName string) *formats.Element {
	e := formats.NewElement(Name(block, SuffixRailCap))
	e.Vertices = piece.Vertices
	e.Indices = piece.Indices
	RailProperties(&e.Properties, rs, [4]bool{true, true, true, true}, [4]bool{})
	e.Properties.Set("original_name", originalName+" [rail]")
	e.Materials = RailTextures(rs)
	return e
}

// Flag formats b as "1" or "0".
func Flag(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

// SetFlag stores "1" under key when b is set and leaves p untouched
// otherwise.
func SetFlag(p *formats.Properties, key string, b bool) {
	if b {
		p.Set(key, "1")
	}
}
