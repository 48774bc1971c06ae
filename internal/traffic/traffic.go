// Package traffic builds the traffic graph elements ("BAI") that link
// exported roads and intersections for the game's traffic simulation.
package traffic

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
)

// Traffic graph errors.
var (
	ErrInvalidRoad         = errors.New("invalid road while exporting traffic info")
	ErrUnknownRoad         = errors.New("road is not part of the traffic graph")
	ErrUnknownIntersection = errors.New("intersection is not part of the traffic graph")
)

// Traffic types of a road element.
const (
	TypeMixed      = 0
	TypePedestrian = 1
	TypeVehicle    = 2
	TypeNone       = 3
)

type road struct {
	elem   *formats.Element
	road   *scene.Road
	blocks []int
}

type intersection struct {
	elem         *formats.Element
	intersection *scene.Intersection
	block        int
}

// Graph collects traffic participants during slicing and emits their
// elements afterwards. Ids are assigned in registration order.
type Graph struct {
	roads           []road
	intersections   []intersection
	roadIDs         map[int]int
	intersectionIDs map[int]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{roadIDs: make(map[int]int), intersectionIDs: make(map[int]int)}
}

// AddRoad registers the exported element of a road joining two
// intersections, with the blocks it lies in.
func (g *Graph) AddRoad(elem *formats.Element, r *scene.Road, blocks ...int) {
	g.roadIDs[r.ID] = len(g.roads)
	g.roads = append(g.roads, road{elem: elem, road: r, blocks: blocks})
}

// AddIntersection registers the anchor element of an intersection.
func (g *Graph) AddIntersection(elem *formats.Element, in *scene.Intersection, block int) {
	g.intersectionIDs[in.ID] = len(g.intersections)
	g.intersections = append(g.intersections, intersection{elem: elem, intersection: in, block: block})
}

// Roads returns the number of registered roads.
func (g *Graph) Roads() int { return len(g.roads) }

// Intersections returns the number of registered intersections.
func (g *Graph) Intersections() int { return len(g.intersections) }

// RoadID returns the traffic id of scene road sourceID.
func (g *Graph) RoadID(sourceID int) (int, error) {
	id, ok := g.roadIDs[sourceID]
	if !ok {
		return 0, fmt.Errorf("%w: road %d", ErrUnknownRoad, sourceID)
	}
	return id, nil
}

// IntersectionID returns the traffic id of scene intersection sourceID.
func (g *Graph) IntersectionID(sourceID int) (int, error) {
	id, ok := g.intersectionIDs[sourceID]
	if !ok {
		return 0, fmt.Errorf("%w: intersection %d", ErrUnknownIntersection, sourceID)
	}
	return id, nil
}

// Build returns the road elements followed by the intersection elements.
func (g *Graph) Build() ([]*formats.Element, error) {
	res := make([]*formats.Element, 0, len(g.roads)+len(g.intersections))
	for i := range g.roads {
		e, err := g.roadElement(&g.roads[i])
		if err != nil {
			return nil, err
		}
		res = append(res, e)
	}
	for i := range g.intersections {
		res = append(res, g.intersectionElement(&g.intersections[i]))
	}
	return res, nil
}

func newElement(src *formats.Element, fallbackName string) *formats.Element {
	e := formats.NewElement(city.Name(0, city.SuffixTraffic))
	name := fallbackName
	if src != nil {
		e.Vertices = src.Vertices
		e.Indices = src.Indices
		if n, ok := src.Properties.Get("original_name"); ok {
			name = n
		}
	}
	e.Properties.Set("original_name", name+" [BAI]")
	e.Materials = city.NoTexture
	return e
}

func (g *Graph) roadElement(tr *road) (*formats.Element, error) {
	e := newElement(tr.elem, tr.road.Name)
	st := &tr.road.State

	var vps string
	if tr.elem != nil {
		vps = tr.elem.Properties.Value("bai_vps")
	}
	if vps == "" || vps == "0" {
		return nil, fmt.Errorf("%w: %s", ErrInvalidRoad, e.Properties.Value("original_name"))
	}

	forward, backward := st.ForwardLanes, st.BackwardLanes
	if st.DisableTraffic {
		forward, backward = 0, 0
	}
	withPeds := !st.DisableLeftPedestrians || !st.DisableRightPedestrians
	withTraffic := (forward > 0 || backward > 0) && !st.PedestrianStreet

	trafficType := TypeNone
	switch {
	case withPeds && withTraffic:
		trafficType = TypeMixed
	case withPeds:
		trafficType = TypePedestrian
	case withTraffic:
		trafficType = TypeVehicle
	}

	startRule, endRule := 0, 0
	if backward > 0 {
		startRule = tr.road.Instance.StartRule
	}
	if forward > 0 {
		endRule = tr.road.Instance.EndRule
	}

	startID, err := g.IntersectionID(tr.road.StartIntersectionID)
	if err != nil {
		return nil, fmt.Errorf("road %s start: %w", tr.road.Name, err)
	}
	endID, err := g.IntersectionID(tr.road.EndIntersectionID)
	if err != nil {
		return nil, fmt.Errorf("road %s end: %w", tr.road.Name, err)
	}

	blocks := make([]string, len(tr.blocks))
	for i, b := range tr.blocks {
		blocks[i] = strconv.Itoa(b)
	}

	p := &e.Properties
	p.Set("is_road", "1")
	p.Set("id", strconv.Itoa(g.roadIDs[tr.road.ID]))
	p.Set("right_lanes", strconv.Itoa(forward))
	p.Set("left_lanes", strconv.Itoa(backward))
	p.Set("has_sidewalks", city.Flag(!st.DisableRightPedestrians)+":"+city.Flag(!st.DisableLeftPedestrians))
	p.Set("traffic_type", strconv.Itoa(trafficType))
	p.Set("speed", strconv.Itoa(st.SpeedLimit))
	p.Set("vertices_per_section", vps)
	p.Set("start_rule", strconv.Itoa(startRule))
	p.Set("end_rule", strconv.Itoa(endRule))
	p.Set("start_intersection", strconv.Itoa(startID))
	p.Set("end_intersection", strconv.Itoa(endID))
	p.Set("blocks", strings.Join(blocks, ";"))
	return e, nil
}

// intersectionElement lists the bordering roads counter-clockwise; the
// scene stores them clockwise.
func (g *Graph) intersectionElement(ti *intersection) *formats.Element {
	in := ti.intersection
	e := newElement(ti.elem, in.Name)

	var roads []string
	for i := len(in.SortOrder) - 1; i >= 0; i-- {
		j := in.SortOrder[i]
		if j < 0 || j >= len(in.Roads) {
			continue
		}
		if id, ok := g.roadIDs[in.Roads[j]]; ok {
			roads = append(roads, strconv.Itoa(id))
		}
	}

	e.Properties.Set("is_road", "0")
	e.Properties.Set("block", strconv.Itoa(ti.block))
	e.Properties.Set("roads", strings.Join(roads, ";"))
	return e
}
