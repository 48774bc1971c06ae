// Package placement exports terrain patches, building lines and mesh
// instances, locating each in the blocks built by the road pass.
package placement

import (
	"github.com/Faultbox/cityexport/internal/blocks"
	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Placer emits the elements of the entities placed on top of the road
// network into one export.
type Placer struct {
	scene  *scene.Scene
	blocks *blocks.Index
	out    *city.Output
}

// NewPlacer returns a placer writing to out.
func NewPlacer(s *scene.Scene, idx *blocks.Index, out *city.Output) *Placer {
	return &Placer{scene: s, blocks: idx, out: out}
}

// findBlock returns the block containing p, or 0.
func (p *Placer) findBlock(v math.Vec3) int {
	id, _ := p.blocks.Find(v)
	return id
}
