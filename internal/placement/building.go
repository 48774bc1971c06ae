package placement

import (
	"strconv"

	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/logger"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
	"github.com/Faultbox/cityexport/pkg/math"
	"go.uber.org/zap"
)

// boundProbe is how far behind a facade bound the block of its other side
// is looked up.
const boundProbe = 5

var up = math.Vec3{Y: 1}

// BuildingLine exports a building line: as one PKG mesh with its bound
// when it is not psdl, as roof, facades and bounds per building otherwise.
func (p *Placer) BuildingLine(line *scene.BuildingLine) {
	st := &line.State
	if st.Type != scene.TypePSDL || line.Instance.ExportToPKG {
		block := 0
		if len(line.LinePoints) > 0 {
			block = p.findBlock(math.Centroid(line.LinePoints))
		}
		p.out.Add(p.out.PKGMesh(p.scene, &line.Mesh, block, city.LODVeryLow, line.Name))
		p.out.Add(p.out.PKGMeshAt(p.scene, &line.Collider, block, city.LODBound, line.Name, p.out.LastMeshIndex()))
		return
	}

	if line.Roof != nil && len(line.LinePoints) > 0 {
		if block := p.findBlock(math.Centroid(line.LinePoints)); block > 0 {
			p.roof(line.Roof, block, st.RoofTexture, line.Name)
		}
	}
	for i := range line.Buildings {
		p.building(&line.Buildings[i], line.Name, st.FrontOnly, st.FixBound)
	}
}

func (p *Placer) building(b *scene.Building, name string, frontOnly, lineFixBound bool) {
	st := &b.State
	bothSides := (frontOnly && lineFixBound) || st.FixBound
	depth := st.Depth
	if frontOnly {
		depth = 1
	}

	block := 0
	switch {
	case frontOnly && len(b.Spline) > 2:
		block = p.findBlock(math.Centroid(b.Spline))
	case len(b.Spline) > 0 && len(b.SplineNormals) > 0:
		curve := b.Spline
		mid := curve[0].Add(curve[len(curve)-1]).Scale(0.5)
		if c, i := math.ClosestPointOnCurve(mid, curve); i >= 0 {
			mid = c
		}
		n := b.SplineNormals
		dir := n[0].Add(n[len(n)-1]).Normalize()
		block = p.findBlock(mid.Add(dir.Scale(0.5 * depth)))
		if block == 0 {
			// no terrain behind the building, try in front of it
			bothSides = false
			block = p.findBlock(mid.Sub(dir))
		}
	}
	if block == 0 {
		logger.Debug("building outside any block", zap.String("line", name))
		return
	}

	for _, side := range b.Sides() {
		p.buildingSide(side, block, bothSides, name)
	}
	if b.Roof != nil {
		p.roof(b.Roof, block, st.TopTexture, name)
	}
}

func (p *Placer) roof(m *scene.Mesh, block int, tex, name string) {
	if len(m.Submeshes) == 0 || len(m.Submeshes[0].Indices) == 0 {
		logger.Warn("roof on object " + name + " has invalid geometry")
		return
	}
	e := formats.NewElement(city.Name(block, city.SuffixRoof))
	e.Vertices = m.Vertices
	e.Indices = m.Submeshes[0].Indices
	e.Properties.Set("original_name", name)
	e.Materials = city.TexName(tex)
	p.out.Add(e)
}

// facadeName returns the name of facade element idx: "f", the index, a
// marker and the block-qualified suffix, as in "f12+,3_FAC".
func facadeName(idx int, mark string, block int, suffix string) string {
	return "f" + strconv.Itoa(idx) + mark + "," + city.Name(block, suffix)
}

func (p *Placer) buildingSide(side *scene.BuildingSide, block int, bothSides bool, name string) {
	geoIdx := p.out.FacadeIndex()

	cv := side.Collider.Vertices
	nb := len(cv)/2 - 1
	for i := 0; i < nb; i++ {
		idx := p.out.NextFacadeIndex()
		bound := []math.Vec3{cv[i], cv[i+1], cv[i+nb+1], cv[i+nb+2]}
		e := formats.NewElement(facadeName(idx, "*", block, city.SuffixFacadeBound))
		e.Vertices = bound
		e.Indices = []int{0, 2, 1, 1, 2, 3}
		e.Materials = city.NoTexture
		e.Properties.Set("original_name", name+" [facade bound]")
		p.out.Add(e)

		if bothSides {
			mid := bound[0].Add(bound[1]).Scale(0.5)
			dir := bound[1].Sub(bound[0]).Cross(up).Normalize()
			if other := p.findBlock(mid.Sub(dir.Scale(boundProbe))); other > 0 && other != block {
				twin := e.Clone()
				twin.Name = facadeName(idx, "z*", other, city.SuffixFacadeBound)
				p.out.Add(twin)
			}
		}
	}

	for _, f := range side.Facades {
		for _, inst := range f.Instances {
			if inst.MeshIndex < 0 || inst.MeshIndex >= len(side.Meshes) {
				continue
			}
			m := &side.Meshes[inst.MeshIndex]
			if len(m.Vertices) != 4 || len(m.Submeshes) != 1 || m.Submeshes[0].MaterialID == scene.NoMaterial {
				continue
			}
			for _, batch := range inst.Batches {
				for _, mat := range batch {
					p.out.Add(p.facade(m, mat, geoIdx, block, name))
				}
			}
		}
		geoIdx++
	}

	for i := range side.Slivers {
		s := &side.Slivers[i]
		if len(s.Submeshes) == 0 {
			continue
		}
		e := formats.NewElement(city.Name(block, city.SuffixSliver))
		e.Vertices = s.Vertices
		e.Indices = s.Submeshes[0].Indices
		e.Properties.Set("tiling", strconv.Itoa(int(firstUV(s).X*100)))
		e.Properties.Set("original_name", name+" [sliver]")
		e.Materials = city.MaterialName(p.scene, s.Submeshes[0].MaterialID)
		p.out.Add(e)
	}
}

func (p *Placer) facade(m *scene.Mesh, mat math.Mat4, idx, block int, name string) *formats.Element {
	e := formats.NewElement(facadeName(idx, "+", block, city.SuffixFacade))
	e.Vertices = make([]math.Vec3, len(m.Vertices))
	for i, v := range m.Vertices {
		e.Vertices[i] = mat.TransformVec3(v)
	}
	sm := &m.Submeshes[0]
	e.Indices = sm.Indices
	uv := firstUV(m)
	e.Properties.Set("u_tiling", strconv.Itoa(-int(uv.X)))
	e.Properties.Set("v_tiling", strconv.Itoa(int(uv.Y)))
	e.Properties.Set("original_name", name+" [facade]")
	e.Materials = city.MaterialName(p.scene, sm.MaterialID)
	return e
}

func firstUV(m *scene.Mesh) math.Vec2 {
	if len(m.UVs) == 0 {
		return math.Vec2{}
	}
	return m.UVs[0]
}
