// Package city holds the state shared by the exporter passes: the output
// element list, the PKG mesh and facade counters and the prop rule
// registry, plus the geometry helpers the passes build elements with.
package city

import (
	"strconv"

	"github.com/Faultbox/cityexport/pkg/formats"
)

// Element type suffixes.
const (
	SuffixBlock        = "BLOCK"
	SuffixNull         = "NUL"
	SuffixPKG          = "PKG"
	SuffixRail         = "RAIL"
	SuffixRailCap      = "RAILC"
	SuffixSidewalk     = "SW"
	SuffixRoadS        = "ROADS"
	SuffixCrosswalk    = "CW"
	SuffixRoof         = "ROOF"
	SuffixFacade       = "FAC"
	SuffixFacadeBound  = "FACB"
	SuffixSliver       = "SLIVER"
	SuffixInstance     = "INST"
	SuffixPath         = "PTH"
	SuffixTrafficLight = "TRAFL"
	SuffixTraffic      = "BAI"
)

// Name returns the element name for block and suffix, e.g. "3_ROADS".
func Name(block int, suffix string) string {
	return strconv.Itoa(block) + "_" + suffix
}

// Output accumulates the exported elements of one run.
type Output struct {
	Elements []*formats.Element

	meshIndex   int
	facadeIndex int
}

// Add appends elements to the output.
func (o *Output) Add(elems ...*formats.Element) {
	o.Elements = append(o.Elements, elems...)
}

// Len returns the number of elements emitted so far.
func (o *Output) Len() int { return len(o.Elements) }

// NextMeshIndex returns a new PKG mesh index.
func (o *Output) NextMeshIndex() int {
	idx := o.meshIndex
	o.meshIndex++
	return idx
}

// LastMeshIndex returns the most recently allocated PKG mesh index, or -1.
func (o *Output) LastMeshIndex() int { return o.meshIndex - 1 }

// FacadeIndex returns the current facade counter.
func (o *Output) FacadeIndex() int { return o.facadeIndex }

// NextFacadeIndex returns the current facade counter and advances it.
func (o *Output) NextFacadeIndex() int {
	idx := o.facadeIndex
	o.facadeIndex++
	return idx
}
