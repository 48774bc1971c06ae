package main

import (
	"cmp"
	"fmt"
	"io"
	"path/filepath"
	"slices"
	"strings"

	"github.com/Faultbox/cityexport/internal/config"
	"github.com/Faultbox/cityexport/internal/export"
	"github.com/Faultbox/cityexport/internal/logger"
	"github.com/Faultbox/cityexport/internal/scene"
	"github.com/Faultbox/cityexport/pkg/formats"
	"go.uber.org/zap"
)

func runExport(scenePath, outPath string, flags config.Flags) error {
	cfg, err := config.Load(flags)
	if err != nil {
		return err
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	s, err := scene.LoadFile(scenePath)
	if err != nil {
		return err
	}
	logger.Info("loaded scene", zap.String("path", scenePath))

	outPath, outDir := outputPaths(scenePath, outPath, cfg.Export.OutputDir)
	ex := export.New(s, export.Options{
		FormatName: cfg.Export.FormatName,
		Verbose:    cfg.Export.Verbose,
	})
	if err := ex.WriteBin(outPath); err != nil {
		return err
	}
	if cfg.Export.WritePropRules {
		return ex.WritePropRules(outDir)
	}
	return nil
}

// outputPaths resolves the container path and the side table directory.
// An explicit output path wins; otherwise the container is named after
// the scene and placed in dir, or next to the scene when dir is empty.
func outputPaths(scenePath, outPath, dir string) (string, string) {
	if outPath != "" {
		return outPath, filepath.Dir(outPath)
	}
	if dir == "" {
		dir = filepath.Dir(scenePath)
	}
	name := strings.TrimSuffix(filepath.Base(scenePath), filepath.Ext(scenePath)) + ".bin"
	return filepath.Join(dir, name), dir
}

type suffixCount struct {
	suffix   string
	elements int
	vertices int
}

func runInspect(w io.Writer, path string) error {
	c, err := formats.ReadFile(path)
	if err != nil {
		return err
	}

	counts := make(map[string]*suffixCount)
	var totalVerts int
	for _, e := range c.Elements {
		sc, ok := counts[e.Suffix()]
		if !ok {
			sc = &suffixCount{suffix: e.Suffix()}
			counts[e.Suffix()] = sc
		}
		sc.elements++
		sc.vertices += len(e.Vertices)
		totalVerts += len(e.Vertices)
	}

	rows := make([]*suffixCount, 0, len(counts))
	for _, sc := range counts {
		rows = append(rows, sc)
	}
	slices.SortFunc(rows, func(a, b *suffixCount) int {
		if n := cmp.Compare(b.elements, a.elements); n != 0 {
			return n
		}
		return strings.Compare(a.suffix, b.suffix)
	})

	fmt.Fprintf(w, "Container: %s\n", path)
	fmt.Fprintf(w, "Format:    %s\n", c.FormatName)
	fmt.Fprintf(w, "Elements:  %d\n", len(c.Elements))
	fmt.Fprintf(w, "Vertices:  %d\n", totalVerts)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Elements by type:")
	for _, sc := range rows {
		fmt.Fprintf(w, "  %-8s %6d elements %8d vertices\n", sc.suffix, sc.elements, sc.vertices)
	}
	return nil
}

func runConfigInit(w io.Writer, path string) error {
	cfg := config.Default()
	if path == "" {
		if err := cfg.Save(); err != nil {
			return err
		}
		path = filepath.Join(config.ConfigDir(), "config.yaml")
	} else if err := cfg.SaveTo(path); err != nil {
		return err
	}
	fmt.Fprintf(w, "wrote %s\n", path)
	return nil
}
