package blocks

import (
	gomath "math"

	"github.com/paulmach/orb"

	"github.com/Faultbox/cityexport/pkg/math"
)

// parallelEpsilon rejects edges (nearly) parallel to the ray.
const parallelEpsilon = 1e-4

// polygonContains casts a ray from p in +X and counts edge crossings.
func polygonContains(poly []math.Vec3, p orb.Point) bool {
	count := 0
	for i := range poly {
		a := xz(poly[i])
		b := xz(poly[(i+1)%len(poly)])
		if rayCrossesEdge(p, a, b) {
			count++
		}
	}
	return count%2 != 0
}

// rayCrossesEdge reports whether the +X ray from p crosses edge [a, b).
// The end point b is excluded so a crossing through a vertex shared by
// consecutive edges counts once.
func rayCrossesEdge(p, a, b orb.Point) bool {
	v1 := orb.Point{p[0] - a[0], p[1] - a[1]}
	v2 := orb.Point{b[0] - a[0], b[1] - a[1]}
	// v3 = (0, 1) is the ray direction rotated by 90 degrees
	dot := v2[1]
	if gomath.Abs(dot) < parallelEpsilon {
		return false
	}
	t1 := (v2[0]*v1[1] - v2[1]*v1[0]) / dot
	t2 := v1[1] / dot
	return t1 >= 0 && t2 >= 0 && t2 < 1
}
