package city

import (
	"reflect"

	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
)

// PropRules is the append-only list of distinct prop rule pairs referenced
// by road elements.
type PropRules struct {
	rules []propRulePair
}

type propRulePair struct {
	left, right *scene.PropRuleSide
}

// Register returns the 1-based index of the (left, right) pair, adding it
// when no equal pair is registered yet.
func (r *PropRules) Register(left, right *scene.PropRuleSide) int {
	pair := propRulePair{left, right}
	for i, existing := range r.rules {
		if reflect.DeepEqual(existing, pair) {
			return i + 1
		}
	}
	r.rules = append(r.rules, pair)
	return len(r.rules)
}

// Len returns the number of registered pairs.
func (r *PropRules) Len() int { return len(r.rules) }

// Tables converts the registered pairs to the CSV side table form.
func (r *PropRules) Tables() formats.PropTables {
	sides := make([]formats.PropRuleSides, len(r.rules))
	for i, pair := range r.rules {
		sides[i] = formats.PropRuleSides{Left: propDefs(pair.left), Right: propDefs(pair.right)}
	}
	return formats.BuildPropTables(sides)
}

func propDefs(side *scene.PropRuleSide) []formats.PropDef {
	if side == nil {
		return nil
	}
	defs := make([]formats.PropDef, len(side.Elements))
	for i, el := range side.Elements {
		defs[i] = formats.PropDef{
			Name:     el.Name,
			Start:    el.Start,
			Distance: el.Distance,
			MaxUse:   el.MaxNumber,
			MinLerp:  el.MinHorizPos,
			MaxLerp:  el.MaxHorizPos,
			Meshes:   el.Meshes,
		}
	}
	return defs
}
