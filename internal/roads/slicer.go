// Package roads slices road and intersection meshes into city elements and
// registers them with the block index and the traffic graph.
package roads

import (
	"github.com/Faultbox/cityexport/internal/blocks"
	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/internal/traffic"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Slicer emits the elements of roads and intersections into one export.
type Slicer struct {
	scene   *scene.Scene
	blocks  *blocks.Index
	out     *city.Output
	traffic *traffic.Graph
	rules   *city.PropRules
}

// NewSlicer returns a slicer writing to out and the given registries.
func NewSlicer(s *scene.Scene, idx *blocks.Index, out *city.Output, g *traffic.Graph, rules *city.PropRules) *Slicer {
	return &Slicer{scene: s, blocks: idx, out: out, traffic: g, rules: rules}
}

// roadContext describes where a road is sliced. Standalone roads own a
// block of their own; roads through an intersection add their outline to
// the intersection's block.
type roadContext struct {
	parent   *scene.Intersection
	block    int
	polygons *[][]math.Vec3
	instance scene.RoadInstanceState
}

func (c *roadContext) standalone() bool { return c.parent == nil }

func vertex(m *scene.Mesh, i int) math.Vec3 {
	if i < 0 || i >= len(m.Vertices) {
		return math.Vec3{}
	}
	return m.Vertices[i]
}

// numSections returns the number of full cross-sections of r, ignoring the
// trailing divider cap vertices.
func numSections(r *scene.Road) int {
	vps := r.VertsPerSection
	if vps <= 0 {
		return 0
	}
	n := len(r.Mesh.Vertices)
	if r.State.HasCaps() {
		n -= 8
	}
	if n <= 0 {
		return 0
	}
	return n / vps
}

// outline returns the block polygon of r: the left edge forward, then the
// right edge back.
func outline(r *scene.Road, sections int) []math.Vec3 {
	vps := r.VertsPerSection
	poly := make([]math.Vec3, 0, 2*sections)
	for i := 0; i < sections; i++ {
		poly = append(poly, vertex(&r.Mesh, i*vps))
	}
	for i := sections - 1; i >= 0; i-- {
		poly = append(poly, vertex(&r.Mesh, (i+1)*vps-1))
	}
	return poly
}
