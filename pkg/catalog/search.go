package catalog

import (
	"strings"

	"golang.org/x/text/cases"
)

// MatchesSearch reports whether name contains term, ignoring case.
// An empty term matches everything.
func MatchesSearch(name, term string) bool {
	if term == "" {
		return true
	}
	fold := cases.Fold()
	return strings.Contains(fold.String(name), fold.String(term))
}

// FilterByName narrows rows to those whose display name matches term.
func FilterByName[T Entity](rows []T, term string) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if MatchesSearch(r.DisplayName(), term) {
			out = append(out, r)
		}
	}
	return out
}
