package city

import (
	"slices"
	"strconv"
	"strings"

	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
	"github.com/Faultbox/cityexport/pkg/math"
)

// LOD names of PKG meshes.
const (
	LODVeryLow = "VL"
	LODBound   = "BND"
)

// Piece is a standalone triangle list.
type Piece struct {
	Vertices []math.Vec3
	Indices  []int
}

// SectionIndices returns the two triangles joining vertex i of section to
// vertex i+1 of the next section, for sections of n vertices.
func SectionIndices(i, n, section int) []int {
	i += section * n
	return []int{i, i + 1, i + 1 + n, i, i + 1 + n, i + n}
}

// SectionIndicesRev is SectionIndices with the opposite winding.
func SectionIndicesRev(i, n, section int) []int {
	i += section * n
	return []int{i + n, i + 1 + n, i, i + 1 + n, i + 1, i}
}

// SplitSubmeshes returns one Piece per submesh, holding only the vertices
// the submesh references (in ascending source index order) and indices
// remapped to them.
func SplitSubmeshes(m *scene.Mesh) []Piece {
	res := make([]Piece, len(m.Submeshes))
	for i, sm := range m.Submeshes {
		used := slices.Clone(sm.Indices)
		slices.Sort(used)
		used = slices.Compact(used)

		remap := make(map[int]int, len(used))
		p := Piece{Vertices: make([]math.Vec3, 0, len(used)), Indices: make([]int, len(sm.Indices))}
		for j, src := range used {
			remap[src] = j
			if src >= 0 && src < len(m.Vertices) {
				p.Vertices = append(p.Vertices, m.Vertices[src])
			} else {
				p.Vertices = append(p.Vertices, math.Vec3{})
			}
		}
		for j, src := range sm.Indices {
			p.Indices[j] = remap[src]
		}
		res[i] = p
	}
	return res
}

// Cube returns a box of edge size resting on the origin plane.
func Cube(size float32) Piece {
	pivot := math.Vec3{Y: 0.5 * size}
	corner := func(x, y, z float32) math.Vec3 {
		return pivot.Add(math.Vec3{X: x, Y: y, Z: z}.Scale(size))
	}
	face := func(a, b, c, d int) []int {
		return []int{a, b, c, a, c, d}
	}
	p := Piece{
		Vertices: []math.Vec3{
			corner(0.5, 0.5, 0.5),
			corner(0.5, 0.5, -0.5),
			corner(-0.5, 0.5, -0.5),
			corner(-0.5, 0.5, 0.5),
			corner(0.5, -0.5, 0.5),
			corner(0.5, -0.5, -0.5),
			corner(-0.5, -0.5, -0.5),
			corner(-0.5, -0.5, 0.5),
		},
	}
	for _, f := range [][4]int{{0, 1, 2, 3}, {7, 6, 5, 4}, {4, 5, 1, 0}, {6, 7, 3, 2}, {5, 6, 2, 1}, {7, 4, 0, 3}} {
		p.Indices = append(p.Indices, face(f[0], f[1], f[2], f[3])...)
	}
	return p
}

// PKGMesh builds a mesh element for m in block under a new mesh index.
func (o *Output) PKGMesh(s *scene.Scene, m *scene.Mesh, block int, lod, originalName string) *formats.Element {
	return o.PKGMeshAt(s, m, block, lod, originalName, o.NextMeshIndex())
}

// PKGMeshAt builds a mesh element for m reusing mesh index idx, as the
// bound LOD of an already exported mesh does.
func (o *Output) PKGMeshAt(s *scene.Scene, m *scene.Mesh, block int, lod, originalName string, idx int) *formats.Element {
	e := formats.NewElement(Name(block, SuffixPKG))
	e.IsMesh = true
	e.Vertices = m.Vertices
	e.Normals = m.Normals
	e.UVs = m.UVs
	if len(e.UVs) != len(e.Normals) {
		e.UVs = make([]math.Vec2, len(e.Normals))
	}
	materials := make([]string, len(m.Submeshes))
	e.Submeshes = make([][]int, len(m.Submeshes))
	for i, sm := range m.Submeshes {
		e.Submeshes[i] = sm.Indices
		materials[i] = MaterialName(s, sm.MaterialID)
	}
	e.Materials = strings.Join(materials, ",")
	e.Properties.Set("original_name", originalName)
	e.Properties.Set("pkg_name", "mesh"+strconv.Itoa(idx))
	e.Properties.Set("lod_name", lod)
	return e
}
