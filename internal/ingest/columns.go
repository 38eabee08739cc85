package ingest

import (
	"fmt"
	"strings"
)

// FieldSpec declares one logical field and the header labels that may carry
// it. Candidates are matched after NormalizeLabel, first listed wins.
type FieldSpec struct {
	Name       string
	Candidates []string
	Required   bool
}

// ColumnMap binds logical field names to column indexes in the located
// header row.
type ColumnMap map[string]int

// Cell returns the raw cell for a logical field, or "" when the field was
// not resolved or the row is short.
func (m ColumnMap) Cell(row []string, field string) string {
	idx, ok := m[field]
	if !ok || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// Has reports whether the field resolved to a column.
func (m ColumnMap) Has(field string) bool {
	_, ok := m[field]
	return ok
}

// ResolveColumns maps each spec to a header column. Matching is exact on
// normalized labels; when containment is set, an unresolved field falls back
// to token-subset containment so "TriPhase 2 THD V3" still finds its column
// when the sheet writes "THD V3 [%]" variants. Missing required fields are a
// structural error listing every absent name.
func ResolveColumns(header []string, specs []FieldSpec, containment bool) (ColumnMap, error) {
	norm := NormalizeRow(header)
	out := make(ColumnMap, len(specs))
	var missing []string

	for _, spec := range specs {
		idx := -1
	scan:
		for _, cand := range spec.Candidates {
			want := NormalizeLabel(cand)
			for i, h := range norm {
				if h == want {
					idx = i
					break scan
				}
			}
		}
		if idx < 0 && containment {
		contain:
			for _, cand := range spec.Candidates {
				toks := strings.Fields(NormalizeLabel(cand))
				if len(toks) == 0 {
					continue
				}
				for i, h := range norm {
					if h == "" {
						continue
					}
					if containsAllTokens(h, toks) {
						idx = i
						break contain
					}
				}
			}
		}
		if idx >= 0 {
			out[spec.Name] = idx
		} else if spec.Required {
			missing = append(missing, spec.Name)
		}
	}
	if len(missing) > 0 {
		return nil, Structuralf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func containsAllTokens(h string, toks []string) bool {
	hs := " " + h + " "
	for _, t := range toks {
		if !strings.Contains(hs, " "+t+" ") {
			return false
		}
	}
	return true
}

// Required is shorthand for a required FieldSpec.
func Required(name string, candidates ...string) FieldSpec {
	return FieldSpec{Name: name, Candidates: candidates, Required: true}
}

// Optional is shorthand for an optional FieldSpec.
func Optional(name string, candidates ...string) FieldSpec {
	return FieldSpec{Name: name, Candidates: candidates}
}

// Specf builds an optional FieldSpec whose single candidate equals its name,
// convenient for the wide telemetry sheets where the field name is the
// header label.
func Specf(format string, args ...interface{}) FieldSpec {
	name := fmt.Sprintf(format, args...)
	return FieldSpec{Name: name, Candidates: []string{name}}
}
