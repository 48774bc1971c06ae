package roads

import (
	"strconv"

	"github.com/Faultbox/cityexport/internal/blocks"
	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Road slices a standalone road into its own block and returns the
// element registered with the traffic graph.
func (s *Slicer) Road(r *scene.Road) *formats.Element {
	ctx := roadContext{block: s.blocks.Slot(r.State.BlockNumber), instance: r.Instance}
	return s.slice(r, &ctx)
}

func (s *Slicer) slice(r *scene.Road, ctx *roadContext) *formats.Element {
	name := r.Name
	if ctx.parent != nil {
		name = ctx.parent.Name
	}

	sections := numSections(r)
	poly := outline(r, sections)

	var elem *formats.Element
	if r.State.IsPSDL() && !ctx.instance.ExportToPKG {
		elem = s.psdlRoad(r, ctx, sections, name)
	} else {
		nul, pkg := s.pkgRoad(r, ctx.block, sections, name)
		elem = nul
		s.out.Add(nul, pkg)
	}

	s.propLines(r, name)

	if r.HasStartIntersection() && r.HasEndIntersection() {
		s.traffic.AddRoad(elem, r, ctx.block)
	}

	if ctx.standalone() {
		s.blocks.Commit(ctx.block, blocks.Plain, poly)
	} else {
		*ctx.polygons = append(*ctx.polygons, poly)
	}
	return elem
}

func (s *Slicer) psdlRoad(r *scene.Road, ctx *roadContext, sections int, name string) *formats.Element {
	st := &r.State
	l := ComputeLayout(st, r.Runtime)

	elem := formats.NewElement(city.Name(ctx.block, l.Suffix))
	elem.Vertices, elem.Indices = strip(r, l.Sections, sections, city.SectionIndicesRev)
	elem.Materials = l.Materials(st)

	p := &elem.Properties
	p.Set("original_name", name)
	p.Set("bai_vps", strconv.Itoa(len(l.Sections)))
	if ctx.standalone() && st.PropRule != nil && st.HasSidewalks(r.Runtime) {
		left, right := psdlSide(st.PropRule.Left), psdlSide(st.PropRule.Right)
		if left != nil || right != nil {
			p.Set("prop_rule", strconv.Itoa(s.rules.Register(left, right)))
		}
	}
	city.SetFlag(p, "echo", st.Echo)
	city.SetFlag(p, "warp", st.Warp)
	if l.DividerType != "" {
		p.Set("divider_type", l.DividerType)
	}
	if l.Caps != "" {
		p.Set("caps", l.Caps)
	}
	if l.DividerParam != "" {
		p.Set("divider_param", l.DividerParam)
	}
	s.out.Add(elem)

	for _, sh := range l.Shoulders {
		if len(sh) == 0 {
			continue
		}
		verts, indices := strip(r, sh, sections, city.SectionIndices)
		if len(verts) == 0 {
			continue
		}
		e := formats.NewElement(city.Name(ctx.block, city.SuffixBlock))
		e.Vertices, e.Indices = verts, indices
		e.Materials = city.TexName(st.Texture0)
		e.Properties.Set("original_name", name+" [shoulder]")
		s.out.Add(e)
	}

	if st.HasRail() {
		s.out.Add(rail(r, ctx, name))
	}
	return elem
}

func psdlSide(side *scene.PropRuleSide) *scene.PropRuleSide {
	if side == nil || side.Type != scene.TypePSDL {
		return nil
	}
	return side
}

// strip takes the vertices at offsets of every section of r and joins
// consecutive sections with quads built by join.
func strip(r *scene.Road, offsets []int, sections int, join func(i, n, section int) []int) ([]math.Vec3, []int) {
	vps := r.VertsPerSection
	n := len(offsets)
	verts := make([]math.Vec3, 0, n*sections)
	var indices []int
	for i := 0; i < sections; i++ {
		for _, off := range offsets {
			verts = append(verts, vertex(&r.Mesh, i*vps+off))
		}
		if i < sections-1 {
			for j := 0; j < n-1; j++ {
				indices = append(indices, join(j, n, i)...)
			}
		}
	}
	return verts, indices
}

// rail returns the barrier element of r. The game builds the barrier
// geometry from the road it follows, so the element carries none.
func rail(r *scene.Road, ctx *roadContext, name string) *formats.Element {
	rs := &r.State.RailState
	in := &ctx.instance
	hasStart := ctx.standalone() && r.HasStartIntersection()
	hasEnd := ctx.standalone() && r.HasEndIntersection()
	caps := [4]bool{
		!(in.ContinueLeftOnStart && hasStart),
		!(in.ContinueLeftOnEnd && hasEnd),
		!(in.ContinueRightOnStart && hasStart),
		!(in.ContinueRightOnEnd && hasEnd),
	}
	offsets := [4]bool{rs.OffsetStartLeft, rs.OffsetEndLeft, rs.OffsetStartRight, rs.OffsetEndRight}

	e := formats.NewElement(city.Name(ctx.block, city.SuffixRail))
	p := &e.Properties
	p.Set("has_left", city.Flag(rs.HasLeft))
	p.Set("has_right", city.Flag(rs.HasRight))
	city.RailProperties(p, rs, caps, offsets)
	p.Set("original_name", name+" [rail]")
	e.Materials = city.RailTextures(rs)
	return e
}

// pkgRoad returns the invisible traffic strip of r and its PKG mesh.
func (s *Slicer) pkgRoad(r *scene.Road, block, sections int, name string) (*formats.Element, *formats.Element) {
	piece, vps := pkgStrip(r, sections)
	pkg := s.out.PKGMesh(s.scene, &r.Mesh, block, city.LODVeryLow, name)

	nul := formats.NewElement(city.Name(block, city.SuffixNull))
	nul.Vertices, nul.Indices = piece.Vertices, piece.Indices
	nul.Properties.Set("original_name", name)
	nul.Properties.Set("bai_vps", strconv.Itoa(vps))
	return nul, pkg
}

// pkgStrip reduces every section of r to its outer edges, plus the inner
// sidewalk edges on wide roads, and returns the strip with its section
// width.
func pkgStrip(r *scene.Road, sections int) (city.Piece, int) {
	vps := r.VertsPerSection
	if sections == 0 {
		return city.Piece{}, 0
	}
	var p city.Piece
	if vps <= 2 {
		for i := 0; i < sections; i++ {
			p.Vertices = append(p.Vertices,
				vertex(&r.Mesh, i*vps),
				vertex(&r.Mesh, (i+1)*vps-1))
			if i < sections-1 {
				b := 2 * i
				p.Indices = append(p.Indices, b, b+1, b+2, b+1, b+3, b+2)
			}
		}
		return p, 2
	}

	sw := ComputeLayout(&r.State, r.Runtime).SidewalkSkip
	for i := 0; i < sections; i++ {
		p.Vertices = append(p.Vertices,
			vertex(&r.Mesh, i*vps),
			vertex(&r.Mesh, i*vps+sw),
			vertex(&r.Mesh, (i+1)*vps-1-sw),
			vertex(&r.Mesh, (i+1)*vps-1))
		if i < sections-1 {
			for j := 0; j < 3; j++ {
				b := 4*i + j
				p.Indices = append(p.Indices, b, b+1, b+4, b+1, b+5, b+4)
			}
		}
	}
	return p, 4
}

// propLines places the props of non-psdl prop rule sides.
func (s *Slicer) propLines(r *scene.Road, name string) {
	rule := r.State.PropRule
	if rule == nil || len(r.PropLines) == 0 {
		return
	}
	for _, key := range []string{"left", "right"} {
		side := rule.Side(key)
		if side == nil || side.Type == scene.TypePSDL {
			continue
		}
		for i := range r.PropLines {
			line := &r.PropLines[i]
			if line.Name != key {
				continue
			}
			for j := range line.Props {
				s.out.Add(s.placedProp(&line.Props[j], name))
			}
			break
		}
	}
}

func (s *Slicer) placedProp(ref *scene.MeshReference, name string) *formats.Element {
	asset, _ := s.scene.MeshAsset(ref.MeshID)
	cube := city.Cube(1)

	e := formats.NewElement(city.Name(0, city.SuffixPath))
	e.Vertices, e.Indices = cube.Vertices, cube.Indices
	e.Properties.Set("original_name", name+" [prop]")
	e.Properties.Set("object", city.MeshName(asset.Name))
	e.Properties.Set("flags", city.Flag(ref.HasTransform()))
	e.Transform = formats.Transform{
		Translation: ref.Position.Add(math.Vec3{Y: asset.BoundsMin.Y}),
		Scale:       ref.Scale,
		Rotation:    ref.Rotation,
	}
	e.Materials = city.NoTexture
	return e
}
