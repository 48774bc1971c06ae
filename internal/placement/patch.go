package placement

import (
	"github.com/Faultbox/cityexport/internal/blocks"
	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Patch exports a psdl terrain patch. A patch marked mergeable joins the
// mergeable block it shares a perimeter edge with; otherwise it opens a
// block of its own, unless a manual block number places it.
func (p *Placer) Patch(tp *scene.TerrainPatch) {
	st := &tp.State
	if st.Type != scene.TypePSDL {
		return
	}

	block := p.blocks.Next()
	merged := 0
	if st.MergeWithConnected {
		if id, ok := p.blocks.MergeTarget(tp.PerimeterPoints); ok {
			merged, block = id, id
		}
	}
	if st.BlockNumber > 0 {
		if id := p.blocks.Slot(st.BlockNumber); id != p.blocks.Next() {
			block = id
		}
	}

	if parts := city.SplitSubmeshes(&tp.Mesh); len(parts) > 0 {
		suffix := city.SuffixBlock
		if st.Invisible || st.ExportToPKG {
			suffix = city.SuffixNull
		}
		e := formats.NewElement(city.Name(block, suffix))
		e.Vertices, e.Indices = parts[0].Vertices, parts[0].Indices
		city.SetFlag(&e.Properties, "echo", st.Echo)
		city.SetFlag(&e.Properties, "warp", st.Warp)
		e.Materials = city.TexName(st.Texture)
		p.out.Add(e)
	}

	if merged != 0 {
		p.blocks.Extend(merged, tp.PerimeterPoints)
	} else {
		kind := blocks.Plain
		if st.MergeWithConnected {
			kind = blocks.Mergeable
		}
		p.blocks.Commit(block, kind, tp.PerimeterPoints)
	}

	if st.ExportToPKG {
		p.out.Add(p.out.PKGMesh(p.scene, &tp.Mesh, block, city.LODVeryLow, tp.Name))
		return
	}
	for i := range tp.BorderMeshes {
		bm := &tp.BorderMeshes[i]
		p.out.Add(city.RailCap(&bm.State, borderWall(bm.Segment), block, tp.Name))
	}
}

// borderWall extrudes segment one unit up into a vertical strip.
func borderWall(segment []math.Vec3) city.Piece {
	var w city.Piece
	up := math.Vec3{Y: 1}
	for j, v := range segment {
		w.Vertices = append(w.Vertices, v, v.Add(up))
		if j < len(segment)-1 {
			w.Indices = append(w.Indices, city.SectionIndicesRev(0, 2, j)...)
		}
	}
	return w
}
