package formats

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/Faultbox/cityexport/pkg/encoding"
)

// Side table limits imposed by the game's fixed-width CSV readers.
const (
	MaxPropRules     = 99
	MaxPropsPerRule  = 8
	MaxMeshesPerProp = 5
)

// Prop rule table errors.
var (
	ErrTooManyRules      = errors.New("too many prop rules")
	ErrTooManyRuleProps  = errors.New("too many props in rule")
	ErrTooManyPropMeshes = errors.New("too many meshes in prop definition")
)

// PropDef describes one decoration placed along a road side.
type PropDef struct {
	Name     string
	Start    float64
	Distance float64
	MaxUse   int
	MinLerp  float64
	MaxLerp  float64
	Meshes   []string
}

func (d PropDef) equal(o PropDef) bool {
	return d.Name == o.Name && d.Start == o.Start && d.Distance == o.Distance &&
		d.MaxUse == o.MaxUse && d.MinLerp == o.MinLerp && d.MaxLerp == o.MaxLerp &&
		slices.Equal(d.Meshes, o.Meshes)
}

// PropRuleSides is the pair of decoration lists of one prop rule.
type PropRuleSides struct {
	Left  []PropDef
	Right []PropDef
}

// PropTables is the normalized form of a prop rule list: every distinct
// definition once, with unique names, and rules referring to them by name.
type PropTables struct {
	Defs  []PropDef
	Rules [][2][]string // per rule: left names, right names
}

// BuildPropTables deduplicates the definitions used by rules and renames
// clashing definitions with a numeric suffix ("lamp", "lamp2", ...).
func BuildPropTables(rules []PropRuleSides) PropTables {
	var defs []PropDef
	indexOf := func(d PropDef) int {
		return slices.IndexFunc(defs, d.equal)
	}
	for _, r := range rules {
		for _, side := range [][]PropDef{r.Left, r.Right} {
			for _, d := range side {
				if indexOf(d) < 0 {
					defs = append(defs, d)
				}
			}
		}
	}

	refs := make([][2][]int, len(rules))
	for i, r := range rules {
		for s, side := range [][]PropDef{r.Left, r.Right} {
			for _, d := range side {
				refs[i][s] = append(refs[i][s], indexOf(d))
			}
		}
	}

	taken := make(map[string]bool, len(defs))
	for i := range defs {
		name := defs[i].Name
		if taken[name] {
			n := 2
			for taken[name+strconv.Itoa(n)] {
				n++
			}
			name += strconv.Itoa(n)
		}
		defs[i].Name = name
		taken[name] = true
	}

	t := PropTables{Defs: defs, Rules: make([][2][]string, len(rules))}
	for i, ref := range refs {
		for s := range ref {
			for _, di := range ref[s] {
				t.Rules[i][s] = append(t.Rules[i][s], defs[di].Name)
			}
		}
	}
	return t
}

// RuleName returns the table name of the given 1-based rule and side.
func RuleName(num int, side string) string {
	return fmt.Sprintf("n%02d%s", num, side)
}

// WritePropRulesCSV writes the proprules.csv table.
func WritePropRulesCSV(w io.Writer, t PropTables) error {
	if len(t.Rules) > MaxPropRules {
		return fmt.Errorf("%w: %d, max is %d", ErrTooManyRules, len(t.Rules), MaxPropRules)
	}
	cw := newCSVWriter(w)
	header := []string{"rulename", "prop1", "prop2", "prop3", "prop4", "prop5", "prop6", "prop7", "prop8"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, r := range t.Rules {
		for s, side := range []string{"left", "right"} {
			name := RuleName(i+1, side)
			if len(r[s]) > MaxPropsPerRule {
				return fmt.Errorf("%w %s: %d, max is %d", ErrTooManyRuleProps, name, len(r[s]), MaxPropsPerRule)
			}
			if err := cw.Write(append([]string{name}, r[s]...)); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePropDefsCSV writes the propdefs.csv table.
func WritePropDefsCSV(w io.Writer, t PropTables) error {
	cw := newCSVWriter(w)
	header := []string{"name", "start", "distance", "maxUse", "minLerp", "maxLerp", "file1", "file2", "file3", "file4", ""}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, d := range t.Defs {
		if len(d.Meshes) > MaxMeshesPerProp {
			return fmt.Errorf("%w %s: %d, max is %d", ErrTooManyPropMeshes, d.Name, len(d.Meshes), MaxMeshesPerProp)
		}
		row := []string{
			d.Name,
			formatFloat(d.Start),
			formatFloat(d.Distance),
			strconv.Itoa(d.MaxUse),
			formatFloat(d.MinLerp),
			formatFloat(d.MaxLerp),
		}
		for _, m := range d.Meshes {
			row = append(row, encoding.Stem(m))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WritePropTables writes proprules.csv and propdefs.csv into dir.
func WritePropTables(dir string, t PropTables) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	write := func(name string, fn func(io.Writer, PropTables) error) error {
		f, err := os.Create(filepath.Join(dir, name))
		if err != nil {
			return err
		}
		if err := fn(f, t); err != nil {
			f.Close()
			return fmt.Errorf("writing %s: %w", name, err)
		}
		return f.Close()
	}
	if err := write("proprules.csv", WritePropRulesCSV); err != nil {
		return err
	}
	return write("propdefs.csv", WritePropDefsCSV)
}

// newCSVWriter returns a writer terminating rows with CRLF, as the game's tables do.
func newCSVWriter(w io.Writer) *csv.Writer {
	cw := csv.NewWriter(w)
	cw.UseCRLF = true
	return cw
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
