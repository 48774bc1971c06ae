package scene

import (
	"encoding/json"
	"strconv"
	"strings"
)

// PartKind classifies an intersection submesh.
type PartKind int

const (
	PartUnknown PartKind = iota
	PartSidewalk
	PartRail
	PartTerrain
	PartCrosswalk
)

func (k PartKind) String() string {
	switch k {
	case PartSidewalk:
		return "sidewalk"
	case PartRail:
		return "rail"
	case PartTerrain:
		return "terrain"
	case PartCrosswalk:
		return "crosswalk"
	default:
		return "unknown"
	}
}

// PartType is the decoded tag of an intersection submesh. Junction is the
// index of the corner between two bordering roads, or -1.
type PartType struct {
	Kind     PartKind
	Junction int
}

// ParsePartType decodes tags of the form "junction_0", "junction_1.3",
// "terrain" and "crosswalk".
func ParsePartType(tag string) PartType {
	pt := PartType{Junction: -1}
	name, suffix, dotted := strings.Cut(tag, ".")
	if dotted {
		if n, err := strconv.Atoi(suffix); err == nil {
			pt.Junction = n
		}
	}
	switch name {
	case "junction_0":
		pt.Kind = PartSidewalk
	case "junction_1":
		pt.Kind = PartRail
	case "terrain":
		pt.Kind = PartTerrain
	case "crosswalk":
		pt.Kind = PartCrosswalk
	}
	return pt
}

// UnmarshalJSON decodes a part tag string.
func (p *PartType) UnmarshalJSON(data []byte) error {
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return err
	}
	*p = ParsePartType(tag)
	return nil
}
