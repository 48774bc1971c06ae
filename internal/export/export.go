// Package export runs the exporter passes over a scene in order and
// writes the resulting km2B container and prop rule tables.
package export

import (
	"fmt"

	"github.com/Faultbox/cityexport/internal/blocks"
	"github.com/Faultbox/cityexport/internal/city"
	"github.com/Faultbox/cityexport/internal/logger"
	"github.com/Faultbox/cityexport/internal/placement"
	"github.com/Faultbox/cityexport/internal/roads"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/internal/traffic"
	"github.com/Faultbox/cityexport/pkg/formats"
	"go.uber.org/zap"
)

// Options configures an export.
type Options struct {
	// FormatName is written after the container magic.
	FormatName string
	// Verbose logs every exported entity.
	Verbose bool
}

// Exporter converts one scene. Run may be called more than once; every
// run starts from empty blocks, counters and registries.
type Exporter struct {
	scene *scene.Scene
	opts  Options

	result *Result
}

// Result is the output of one run.
type Result struct {
	Elements   []*formats.Element
	PropTables formats.PropTables
	Blocks     int
}

// New returns an exporter for s.
func New(s *scene.Scene, opts Options) *Exporter {
	if opts.FormatName == "" {
		opts.FormatName = formats.DefaultFormatName
	}
	return &Exporter{scene: s, opts: opts}
}

// Run exports the scene: roads, intersections, terrain patches and
// building lines first, then the traffic graph, then the mesh instances,
// which need the final traffic road ids.
func (e *Exporter) Run() (*Result, error) {
	s := e.scene
	idx := blocks.New(s.ManualBlockNumbers())
	out := &city.Output{}
	graph := traffic.NewGraph()
	rules := &city.PropRules{}
	slicer := roads.NewSlicer(s, idx, out, graph, rules)
	placer := placement.NewPlacer(s, idx, out)

	logger.Info("processing roads", zap.Int("count", len(s.Roads)))
	for i := range s.Roads {
		e.entity("road", s.Roads[i].Name)
		slicer.Road(&s.Roads[i])
	}

	logger.Info("processing intersections", zap.Int("count", len(s.Intersections)))
	for i := range s.Intersections {
		e.entity("intersection", s.Intersections[i].Name)
		slicer.Intersection(&s.Intersections[i])
	}

	logger.Info("processing terrain patches", zap.Int("count", len(s.TerrainPatches)))
	for i := range s.TerrainPatches {
		e.entity("terrain patch", s.TerrainPatches[i].Name)
		placer.Patch(&s.TerrainPatches[i])
	}

	logger.Info("processing building lines", zap.Int("count", len(s.BuildingLines)))
	for i := range s.BuildingLines {
		e.entity("building line", s.BuildingLines[i].Name)
		placer.BuildingLine(&s.BuildingLines[i])
	}

	logger.Info("processing traffic",
		zap.Int("roads", graph.Roads()),
		zap.Int("intersections", graph.Intersections()))
	bai, err := graph.Build()
	if err != nil {
		return nil, fmt.Errorf("traffic: %w", err)
	}
	out.Add(bai...)

	logger.Info("processing meshes", zap.Int("count", len(s.MeshInstances)))
	if err := placer.MeshInstances(graph); err != nil {
		return nil, fmt.Errorf("mesh instances: %w", err)
	}

	r := &Result{
		Elements:   out.Elements,
		PropTables: rules.Tables(),
		Blocks:     idx.Len(),
	}
	logger.Info("export complete",
		zap.Int("elements", len(r.Elements)),
		zap.Int("blocks", r.Blocks),
		zap.Int("prop_rules", len(r.PropTables.Rules)))
	e.result = r
	return r, nil
}

func (e *Exporter) entity(kind, name string) {
	if e.opts.Verbose {
		logger.Info("exporting "+kind, zap.String("name", name))
	} else {
		logger.Debug("exporting "+kind, zap.String("name", name))
	}
}

func (e *Exporter) ensure() (*Result, error) {
	if e.result != nil {
		return e.result, nil
	}
	return e.Run()
}

// WriteBin writes the container to path, running the export first if
// needed.
func (e *Exporter) WriteBin(path string) error {
	r, err := e.ensure()
	if err != nil {
		return err
	}
	if err := formats.WriteFile(path, e.opts.FormatName, r.Elements); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	logger.Info("wrote container", zap.String("path", path), zap.Int("elements", len(r.Elements)))
	return nil
}

// WritePropRules writes proprules.csv and propdefs.csv into dir.
func (e *Exporter) WritePropRules(dir string) error {
	r, err := e.ensure()
	if err != nil {
		return err
	}
	if err := formats.WritePropTables(dir, r.PropTables); err != nil {
		return err
	}
	logger.Info("wrote prop rules", zap.String("dir", dir), zap.Int("rules", len(r.PropTables.Rules)))
	return nil
}
