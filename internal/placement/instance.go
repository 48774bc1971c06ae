package placement

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/internal/traffic"
	"github.com/Faultbox/cityexport/pkg/formats"
	"github.com/Faultbox/cityexport/pkg/math"
)

// Instance cube sizes.
const (
	propCubeSize     = 1
	instanceCubeSize = 10
)

// instanceFlags marks instances visible from every angle.
const instanceFlags = "256"

// MeshInstances exports the scene mesh instances sorted by name. Traffic
// lights are attached to the traffic road of their parent, so g must be
// complete. An instance numbered i in sorted order is named "i,<block>_INST"
// or "i,0_PTH" for props.
func (p *Placer) MeshInstances(g *traffic.Graph) error {
	sorted := make([]*scene.MeshInstance, len(p.scene.MeshInstances))
	for i := range p.scene.MeshInstances {
		sorted[i] = &p.scene.MeshInstances[i]
	}
	slices.SortStableFunc(sorted, func(a, b *scene.MeshInstance) int {
		return strings.Compare(a.Name, b.Name)
	})

	for i, mi := range sorted {
		if err := p.meshInstance(mi, i, g); err != nil {
			return err
		}
	}
	return nil
}

func (p *Placer) meshInstance(mi *scene.MeshInstance, index int, g *traffic.Graph) error {
	ref := &mi.Reference
	asset, _ := p.scene.MeshAsset(ref.MeshID)
	set := &mi.Settings

	if mi.IsTrafficLight() {
		if set.ParentObjectID < 0 {
			return nil
		}
		roadID, err := g.RoadID(set.ParentObjectID)
		if err != nil {
			return fmt.Errorf("traffic light %s: %w", mi.Name, err)
		}
		e := placed(city.Name(0, city.SuffixTrafficLight), ref, propCubeSize)
		e.Properties.Set("is_start_intersection_light", city.Flag(set.ParameterName == scene.StartTrafficLight))
		e.Properties.Set("road_id", strconv.Itoa(roadID))
		e.Properties.Set("original_name", mi.Name)
		e.Properties.Set("object", city.MeshName(asset.Name))
		p.out.Add(e)
		return nil
	}

	var e *formats.Element
	if set.Prop {
		e = placed(strconv.Itoa(index)+","+city.Name(0, city.SuffixPath), ref, propCubeSize)
		e.Properties.Set("original_name", mi.Name)
		e.Properties.Set("object", city.MeshName(asset.Name))
		e.Properties.Set("flags", city.Flag(ref.HasTransform()))
	} else {
		block := p.findBlock(ref.Position.Add(math.Vec3{Y: asset.BoundsMin.Y}))
		if block == 0 {
			return nil
		}
		e = placed(strconv.Itoa(index)+","+city.Name(block, city.SuffixInstance), ref, instanceCubeSize)
		e.Properties.Set("original_name", mi.Name)
		e.Properties.Set("object", city.MeshName(asset.Name))
		e.Properties.Set("flags", instanceFlags)
	}
	p.out.Add(e)
	return nil
}

// placed returns a cube placeholder element carrying the transform of ref.
func placed(name string, ref *scene.MeshReference, size float32) *formats.Element {
	cube := city.Cube(size)
	e := formats.NewElement(name)
	e.Vertices, e.Indices = cube.Vertices, cube.Indices
	e.Transform = formats.Transform{
		Translation: ref.Position,
		Scale:       ref.Scale,
		Rotation:    ref.Rotation,
	}
	e.Materials = city.NoTexture
	return e
}
