// Package blocks implements the spatial block index: numbered groups of
// ground polygons that every exported element is assigned to.
//
// Block ids are 1-based in creation order. Ids reserved for manual block
// numbers come first. A block's polygon list only grows.
package blocks

import (
	gomath "math"

	"github.com/paulmach/orb"

	"github.com/Faultbox/cityexport/pkg/math"
)

// Kind classifies a block.
type Kind int

const (
	// Plain blocks hold roads, intersections and ordinary patches.
	Plain Kind = iota
	// Mergeable blocks accept adjoining terrain patches that share edges.
	Mergeable
)

// Block is a group of closed polygons with cached XZ bounds.
type Block struct {
	Polygons [][]math.Vec3
	Kind     Kind
	Bounds   orb.Bound
}

// Height returns the mean over polygons of each polygon's mean Y.
// Empty polygons are ignored.
func (b *Block) Height() float64 {
	var sum float64
	n := 0
	for _, poly := range b.Polygons {
		if len(poly) == 0 {
			continue
		}
		var h float64
		for _, p := range poly {
			h += float64(p.Y)
		}
		sum += h / float64(len(poly))
		n++
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// Contains reports whether the XZ projection of p lies inside any polygon.
func (b *Block) Contains(p math.Vec3) bool {
	pt := xz(p)
	if !b.Bounds.Contains(pt) {
		return false
	}
	for _, poly := range b.Polygons {
		if polygonContains(poly, pt) {
			return true
		}
	}
	return false
}

// HasVertex reports whether p is exactly a vertex of one of the polygons.
func (b *Block) HasVertex(p math.Vec3) bool {
	for _, poly := range b.Polygons {
		for _, v := range poly {
			if v == p {
				return true
			}
		}
	}
	return false
}

func (b *Block) updateBounds() {
	bound := emptyBound()
	for _, poly := range b.Polygons {
		for _, v := range poly {
			bound = bound.Extend(xz(v))
		}
	}
	b.Bounds = bound
}

// Index is the ordered collection of blocks of one export.
type Index struct {
	blocks []*Block
	manual map[int]int
}

// New returns an index with one empty, unbounded block reserved per
// distinct manual block number, in first-seen order.
func New(manual []int) *Index {
	idx := &Index{manual: make(map[int]int)}
	for _, n := range manual {
		if _, ok := idx.manual[n]; ok || n <= 0 {
			continue
		}
		idx.blocks = append(idx.blocks, &Block{Kind: Plain, Bounds: fullBound()})
		idx.manual[n] = len(idx.blocks)
	}
	return idx
}

// Len returns the number of blocks.
func (idx *Index) Len() int { return len(idx.blocks) }

// Next returns the id the next added block will get.
func (idx *Index) Next() int { return len(idx.blocks) + 1 }

// Slot returns the block id reserved for a manual block number, or Next
// when blockNumber is not reserved.
func (idx *Index) Slot(blockNumber int) int {
	if id, ok := idx.manual[blockNumber]; ok && blockNumber > 0 {
		return id
	}
	return idx.Next()
}

// Block returns block id, or nil when id is out of range.
func (idx *Index) Block(id int) *Block {
	if id < 1 || id > len(idx.blocks) {
		return nil
	}
	return idx.blocks[id-1]
}

// Add appends a new block and returns its id.
func (idx *Index) Add(kind Kind, polygons ...[]math.Vec3) int {
	b := &Block{Kind: kind, Polygons: append([][]math.Vec3(nil), polygons...)}
	b.updateBounds()
	idx.blocks = append(idx.blocks, b)
	return len(idx.blocks)
}

// Extend appends polygon to block id. Unknown ids are ignored.
func (idx *Index) Extend(id int, polygon []math.Vec3) {
	b := idx.Block(id)
	if b == nil {
		return
	}
	b.Polygons = append(b.Polygons, polygon)
	b.updateBounds()
}

// Commit stores polygons in block id: as a new block when id is Next,
// appended to the existing block otherwise. It returns id.
func (idx *Index) Commit(id int, kind Kind, polygons ...[]math.Vec3) int {
	if id == idx.Next() {
		return idx.Add(kind, polygons...)
	}
	for _, poly := range polygons {
		idx.Extend(id, poly)
	}
	return id
}

// Find returns the block containing p. When several blocks contain p the
// one whose Height is closest to p.Y wins, the earliest on ties.
func (idx *Index) Find(p math.Vec3) (int, bool) {
	best := 0
	bestDist := gomath.Inf(1)
	for i, b := range idx.blocks {
		if !b.Contains(p) {
			continue
		}
		d := gomath.Abs(float64(p.Y) - b.Height())
		if best == 0 || d < bestDist {
			best, bestDist = i+1, d
		}
	}
	return best, best != 0
}

// MergeTarget returns the first mergeable block holding both end points of
// any edge of the closed perimeter as exact vertices.
func (idx *Index) MergeTarget(perimeter []math.Vec3) (int, bool) {
	for i, b := range idx.blocks {
		if b.Kind != Mergeable {
			continue
		}
		for j := range perimeter {
			v0 := perimeter[j]
			v1 := perimeter[(j+1)%len(perimeter)]
			if b.HasVertex(v0) && b.HasVertex(v1) {
				return i + 1, true
			}
		}
	}
	return 0, false
}

func xz(v math.Vec3) orb.Point {
	return orb.Point{float64(v.X), float64(v.Z)}
}

func emptyBound() orb.Bound {
	inf := gomath.Inf(1)
	return orb.Bound{Min: orb.Point{inf, inf}, Max: orb.Point{-inf, -inf}}
}

func fullBound() orb.Bound {
	inf := gomath.Inf(1)
	return orb.Bound{Min: orb.Point{-inf, -inf}, Max: orb.Point{inf, inf}}
}
