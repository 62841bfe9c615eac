package linter

import (
	"sort"

	"github.com/lcalzada-xor/jslint/pkg/models"
)

// Collect orders diagnostics by unit name, then position, then rule id, and
// drops exact duplicates. The sort is stable, so equal keys keep their
// production order and repeated runs over the same inputs print the same
// report regardless of worker scheduling.
func Collect(diags []models.Diagnostic) []models.Diagnostic {
	sort.SliceStable(diags, func(i, j int) bool {
		a, b := diags[i], diags[j]
		if a.Unit != b.Unit {
			return a.Unit < b.Unit
		}
		if a.Span.Start.Line != b.Span.Start.Line {
			return a.Span.Start.Line < b.Span.Start.Line
		}
		if a.Span.Start.Column != b.Span.Start.Column {
			return a.Span.Start.Column < b.Span.Start.Column
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Message < b.Message
	})

	out := diags[:0]
	for i, d := range diags {
		if i > 0 && d == diags[i-1] {
			continue
		}
		out = append(out, d)
	}
	return out
}

// HasErrors reports whether any diagnostic is error severity.
func HasErrors(diags []models.Diagnostic) bool {
	for _, d := range diags {
		if d.Severity == models.SeverityError {
			return true
		}
	}
	return false
}
