package models

// Severity classifies a diagnostic.
type Severity string

const (
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Position is a location inside a source unit. Line and Column are 1-based,
// Offset is the 0-based byte offset.
type Position struct {
	Line   int `json:"line"`
	Column int `json:"column"`
	Offset int `json:"offset"`
}

// Before reports whether p comes strictly before q in the same unit.
func (p Position) Before(q Position) bool {
	return p.Offset < q.Offset
}

// Span is a half-open source range [Start, End).
type Span struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Diagnostic is a single finding emitted by the engine.
type Diagnostic struct {
	Unit     string   `json:"unit"`
	Rule     string   `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
	Span     Span     `json:"span"`
}

// SourceUnit is one lintable input: a JavaScript file, or the concatenated
// script content extracted from an HTML file. Imports holds the unit names
// this unit pulls declarations from, as resolved by the loader.
type SourceUnit struct {
	Name    string   `json:"name"`
	Source  string   `json:"-"`
	Imports []string `json:"imports,omitempty"`
}
