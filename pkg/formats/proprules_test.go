package formats

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBuildPropTables_DedupAndRename(t *testing.T) {
	lamp := PropDef{Name: "lamp", Start: 1, Distance: 10, MaxUse: 5, Meshes: []string{"props/lamp.pkg"}}
	bench := PropDef{Name: "bench", Distance: 20, MaxUse: 2, Meshes: []string{"bench"}}
	otherLamp := PropDef{Name: "lamp", Distance: 15, MaxUse: 1, Meshes: []string{"lamp2.pkg"}}

	rules := []PropRuleSides{
		{Left: []PropDef{lamp}, Right: []PropDef{lamp, bench}},
		{Left: []PropDef{otherLamp}},
	}
	tables := BuildPropTables(rules)

	if len(tables.Defs) != 3 {
		t.Fatalf("expected 3 unique defs, got %d", len(tables.Defs))
	}
	if tables.Defs[2].Name != "lamp2" {
		t.Errorf("expected clashing def renamed to lamp2, got %q", tables.Defs[2].Name)
	}
	if got := tables.Rules[0][1]; len(got) != 2 || got[0] != "lamp" || got[1] != "bench" {
		t.Errorf("rule 1 right: got %v", got)
	}
	if got := tables.Rules[1][0]; len(got) != 1 || got[0] != "lamp2" {
		t.Errorf("rule 2 left: got %v", got)
	}
	if len(tables.Rules[1][1]) != 0 {
		t.Errorf("rule 2 right should be empty, got %v", tables.Rules[1][1])
	}
}

func TestWritePropRulesCSV(t *testing.T) {
	tables := PropTables{Rules: [][2][]string{{{"lamp"}, {"lamp", "bench"}}}}
	var buf bytes.Buffer
	if err := WritePropRulesCSV(&buf, tables); err != nil {
		t.Fatalf("WritePropRulesCSV failed: %v", err)
	}
	want := "rulename,prop1,prop2,prop3,prop4,prop5,prop6,prop7,prop8\r\n" +
		"n01left,lamp\r\n" +
		"n01right,lamp,bench\r\n"
	if buf.String() != want {
		t.Errorf("got:\n%s\nwant:\n%s", buf.String(), want)
	}
}

func TestWritePropDefsCSV(t *testing.T) {
	tables := PropTables{Defs: []PropDef{{Name: "lamp", Start: 1.5, Distance: 10, MaxUse: 5, MinLerp: 0, MaxLerp: 1, Meshes: []string{"props\\lamp.pkg"}}}}
	var buf bytes.Buffer
	if err := WritePropDefsCSV(&buf, tables); err != nil {
		t.Fatalf("WritePropDefsCSV failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\r\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	if lines[1] != "lamp,1.5,10,5,0,1,lamp" {
		t.Errorf("unexpected row %q", lines[1])
	}
}

func TestWritePropRulesCSV_Limits(t *testing.T) {
	tooMany := PropTables{Rules: make([][2][]string, MaxPropRules+1)}
	if err := WritePropRulesCSV(&bytes.Buffer{}, tooMany); !errors.Is(err, ErrTooManyRules) {
		t.Errorf("expected ErrTooManyRules, got %v", err)
	}

	wide := PropTables{Rules: [][2][]string{{make([]string, MaxPropsPerRule+1), nil}}}
	if err := WritePropRulesCSV(&bytes.Buffer{}, wide); !errors.Is(err, ErrTooManyRuleProps) {
		t.Errorf("expected ErrTooManyRuleProps, got %v", err)
	}

	meshes := PropTables{Defs: []PropDef{{Name: "x", Meshes: make([]string, MaxMeshesPerProp+1)}}}
	if err := WritePropDefsCSV(&bytes.Buffer{}, meshes); !errors.Is(err, ErrTooManyPropMeshes) {
		t.Errorf("expected ErrTooManyPropMeshes, got %v", err)
	}
}

func TestWritePropTables(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "city")
	tables := BuildPropTables([]PropRuleSides{{Left: []PropDef{{Name: "tree", Meshes: []string{"tree"}}}}})
	if err := WritePropTables(dir, tables); err != nil {
		t.Fatalf("WritePropTables failed: %v", err)
	}
	for _, name := range []string{"proprules.csv", "propdefs.csv"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("expected %s to exist: %v", name, err)
		}
	}
}
