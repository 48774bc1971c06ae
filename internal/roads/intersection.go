package roads

import (
	"github.com/Faultbox/cityexport/internal/blocks"
	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Intersection slices in and the roads running through it into a single
// block. Intersections of a type other than psdl are skipped.
func (s *Slicer) Intersection(in *scene.Intersection) {
	if in.State.Type != scene.TypePSDL {
		return
	}
	block := s.blocks.Slot(in.State.BlockNumber)
	var polys [][]math.Vec3
	if in.Instance.ExportToPKG {
		s.pkgIntersection(in, block, &polys)
	} else {
		s.psdlIntersection(in, block, &polys)
	}
	s.blocks.Commit(block, blocks.Plain, polys...)
}

func (s *Slicer) psdlIntersection(in *scene.Intersection, block int, polys *[][]math.Vec3) {
	for i := range in.RoadsThrough {
		ctx := roadContext{parent: in, block: block, polygons: polys}
		s.slice(&in.RoadsThrough[i], &ctx)
	}

	registered := false
	for i, part := range city.SplitSubmeshes(&in.Mesh) {
		pt := in.Part(i)
		switch pt.Kind {
		case scene.PartRail:
			if rs := s.junctionRail(in, pt.Junction); rs != nil {
				s.out.Add(city.RailCap(rs, part, block, in.Name))
			}
		case scene.PartSidewalk:
			e := sidewalk(in, part, block, in.State.FixSidewalksUV)
			s.out.Add(e)
			*polys = append(*polys, e.Vertices)
		case scene.PartTerrain, scene.PartCrosswalk:
			e := s.surface(in, part, block, in.Mesh.Submeshes[i].MaterialID, pt.Kind)
			s.out.Add(e)
			*polys = append(*polys, e.Vertices)
			if !registered && pt.Kind == scene.PartTerrain && len(in.Roads) > 0 {
				s.traffic.AddIntersection(e, in, block)
				registered = true
			}
		}
	}
}

func (s *Slicer) pkgIntersection(in *scene.Intersection, block int, polys *[][]math.Vec3) {
	var pieces []city.Piece
	for i := range in.RoadsThrough {
		r := &in.RoadsThrough[i]
		nul, pkg := s.pkgRoad(r, block, numSections(r), in.Name)
		s.out.Add(pkg)
		pieces = append(pieces, city.Piece{Vertices: nul.Vertices, Indices: nul.Indices})
	}
	for i, part := range city.SplitSubmeshes(&in.Mesh) {
		switch in.Part(i).Kind {
		case scene.PartSidewalk:
			verts, indices := sidewalkStrip(part.Vertices, false)
			pieces = append(pieces, city.Piece{Vertices: verts, Indices: indices})
		case scene.PartTerrain, scene.PartCrosswalk:
			pieces = append(pieces, part)
		}
	}

	var last *formats.Element
	for _, p := range pieces {
		e := formats.NewElement(city.Name(block, city.SuffixNull))
		e.Vertices, e.Indices = p.Vertices, p.Indices
		e.Properties.Set("original_name", in.Name)
		s.out.Add(e)
		*polys = append(*polys, p.Vertices)
		last = e
	}

	s.out.Add(s.out.PKGMesh(s.scene, &in.Mesh, block, city.LODVeryLow, in.Name))
	if len(in.Roads) > 0 {
		s.traffic.AddIntersection(last, in, block)
	}
}

// sidewalkStrip rebuilds a sidewalk corner, stored as consecutive groups of
// four curb vertices, as a strip of its outer and inner edges. With fixUV
// every group keeps four vertices so the curb textures line up.
func sidewalkStrip(v []math.Vec3, fixUV bool) ([]math.Vec3, []int) {
	var verts []math.Vec3
	var indices []int
	for j := len(v) - 4; j >= 0; j -= 4 {
		if fixUV {
			verts = append(verts, v[j], v[j], v[j], v[j+3])
			if j < len(v)-4 {
				indices = append(indices, city.SectionIndicesRev(2, 4, j/4)...)
			}
		} else {
			verts = append(verts, v[j+3], v[j])
			if j < len(v)-4 {
				indices = append(indices, city.SectionIndices(0, 2, j/4)...)
			}
		}
	}
	return verts, indices
}

func sidewalk(in *scene.Intersection, part city.Piece, block int, fixUV bool) *formats.Element {
	st := &in.State
	verts, indices := sidewalkStrip(part.Vertices, fixUV)

	var e *formats.Element
	if fixUV {
		e = formats.NewElement(city.Name(block, city.SuffixRoadS))
		e.Materials = city.TexNames(st.Texture0, st.Texture0, st.Texture0)
	} else {
		e = formats.NewElement(city.Name(block, city.SuffixSidewalk))
		e.Materials = city.TexNames(st.Texture1, st.Texture0, st.Texture2)
	}
	e.Vertices, e.Indices = verts, indices
	e.Properties.Set("original_name", in.Name)
	return e
}

func (s *Slicer) surface(in *scene.Intersection, part city.Piece, block, material int, kind scene.PartKind) *formats.Element {
	suffix := city.SuffixBlock
	if kind == scene.PartCrosswalk {
		suffix = city.SuffixCrosswalk
	}
	st := &in.State
	e := formats.NewElement(city.Name(block, suffix))
	e.Vertices, e.Indices = part.Vertices, part.Indices
	e.Properties.Set("original_name", in.Name)
	city.SetFlag(&e.Properties, "echo", st.Echo)
	city.SetFlag(&e.Properties, "warp", st.Warp)
	e.Materials = city.MaterialName(s.scene, material) + "," + city.TexNames(st.Texture0, st.Texture2)
	return e
}

// junctionRail picks the rail style of the corner between the bordering
// roads junction and junction+1 in clockwise order. For each style the
// road after the corner owns it when it carries the style on its left
// rail; the road before it owns it on its right rail, but only when the
// road after carries no rail there at all. The road before wins when it
// owns any style.
func (s *Slicer) junctionRail(in *scene.Intersection, junction int) *scene.RailState {
	next := junction + 1
	if next >= len(in.Roads) {
		next = 0
	}
	if junction < 0 || junction >= len(in.SortOrder) || next >= len(in.SortOrder) {
		return nil
	}
	road1 := s.sortedRoad(in, in.SortOrder[junction])
	road0 := s.sortedRoad(in, in.SortOrder[next])

	owner := -1
	for typ := scene.RailRail; typ <= scene.RailCurvedGallery; typ++ {
		switch {
		case hasRailType(road0, in, typ, true):
			owner = max(owner, 0)
		case hasRailType(road1, in, typ, false) && !continuesRail(road0, in, true):
			owner = 1
		}
	}
	switch owner {
	case 0:
		return &road0.State.RailState
	case 1:
		return &road1.State.RailState
	}
	return nil
}

func (s *Slicer) sortedRoad(in *scene.Intersection, i int) *scene.Road {
	if i < 0 || i >= len(in.Roads) {
		return nil
	}
	r, _ := s.scene.RoadByID(in.Roads[i])
	return r
}

// continuesRail reports whether r carries its left (or right) rail into in.
func continuesRail(r *scene.Road, in *scene.Intersection, left bool) bool {
	if r == nil {
		return false
	}
	isEnd := r.EndIntersectionID == in.ID
	rs, inst := &r.State.RailState, &r.Instance
	if left {
		if isEnd {
			return inst.ContinueLeftOnEnd && rs.HasLeft
		}
		return inst.ContinueLeftOnStart && rs.HasLeft
	}
	if isEnd {
		return inst.ContinueRightOnEnd && rs.HasRight
	}
	return inst.ContinueRightOnStart && rs.HasRight
}

func hasRailType(r *scene.Road, in *scene.Intersection, typ scene.RailType, left bool) bool {
	return r != nil && r.State.RailState.Type == typ && continuesRail(r, in, left)
}
