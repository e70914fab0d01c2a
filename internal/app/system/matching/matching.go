// Package matching resolves bulk-import rows to employees. Rows carry a
// badge code when the export is clean, but hand-edited sheets often only
// have a name, so the resolver falls back to folded, then fuzzy, name
// matching.
package matching

import (
	"errors"
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/plantdesk/plantdesk/internal/domain/models"
)

var (
	// ErrNoMatch means neither code nor name identified an employee.
	ErrNoMatch = errors.New("no matching employee")
	// ErrAmbiguous means fuzzy name matching found several candidates.
	ErrAmbiguous = errors.New("name matches several employees")
)

// Resolver matches (code, name) pairs against a loaded employee set.
type Resolver struct {
	byCode   map[string]models.Employee
	byFolded map[string][]models.Employee
	all      []models.Employee
}

// NewResolver indexes the employees for resolution. The slice is not
// copied; callers load it once per batch.
func NewResolver(employees []models.Employee) *Resolver {
	r := &Resolver{
		byCode:   make(map[string]models.Employee, len(employees)),
		byFolded: make(map[string][]models.Employee, len(employees)),
		all:      employees,
	}
	for _, e := range employees {
		if code := strings.TrimSpace(e.Code); code != "" {
			r.byCode[strings.ToLower(code)] = e
		}
		folded := text.Fold(e.FullName)
		r.byFolded[folded] = append(r.byFolded[folded], e)
	}
	return r
}

// Resolve finds the employee for an import row: by badge code first, then
// by exact folded name, then by fuzzy name match (every token of the
// shorter name present in the longer one). Fuzzy matching must be unique
// or it fails with ErrAmbiguous.
func (r *Resolver) Resolve(code, name string) (models.Employee, error) {
	if c := strings.ToLower(strings.TrimSpace(code)); c != "" {
		if e, ok := r.byCode[c]; ok {
			return e, nil
		}
	}

	folded := text.Fold(name)
	if folded == "" {
		return models.Employee{}, ErrNoMatch
	}
	if exact := r.byFolded[folded]; len(exact) == 1 {
		return exact[0], nil
	} else if len(exact) > 1 {
		return models.Employee{}, ErrAmbiguous
	}

	var candidates []models.Employee
	for _, e := range r.all {
		if tokensContained(folded, text.Fold(e.FullName)) {
			candidates = append(candidates, e)
		}
	}
	switch len(candidates) {
	case 0:
		return models.Employee{}, ErrNoMatch
	case 1:
		return candidates[0], nil
	default:
		return models.Employee{}, ErrAmbiguous
	}
}

// tokensContained reports whether every token of the shorter of a and b
// appears as a token of the longer. "garcia lopez, maria" style rows still
// match "maria garcia lopez" this way.
func tokensContained(a, b string) bool {
	ta := tokenize(a)
	tb := tokenize(b)
	if len(ta) == 0 || len(tb) == 0 {
		return false
	}
	if len(ta) > len(tb) {
		ta, tb = tb, ta
	}
	set := make(map[string]bool, len(tb))
	for _, tok := range tb {
		set[tok] = true
	}
	for _, tok := range ta {
		if !set[tok] {
			return false
		}
	}
	return true
}

func tokenize(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '.' || r == '-'
	})
}
