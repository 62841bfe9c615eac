// Package control interprets inline control comments: directives that
// enable or disable warnings for a region of source, declare identifiers,
// import other units, or annotate intentional switch fallthrough.
//
// Two equivalent syntaxes are accepted, the regular one and the legacy one:
//
//	/*jsl:ignore*/ ... /*jsl:end*/
//	/*jsl:rule-id*/  /*jsl:rule-id,rule-id*/  /*jsl:+rule-id*/
//	/*jsl:fallthru*/  /*jsl:import other.js*/  /*jsl:declare name*/
//	/*@ignore@*/ ... /*@end@*/  /*@rule-id@*/
package control

import (
	"strings"

	"github.com/lcalzada-xor/jslint/pkg/jstoken"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// DirectiveKind discriminates the directive forms.
type DirectiveKind int

const (
	KindToggle DirectiveKind = iota
	KindIgnoreBegin
	KindIgnoreEnd
	KindFallthru
	KindImport
	KindDeclare
	KindOption
)

// Directive is one parsed control comment entry. A single comment listing
// several rule ids yields one Directive per id, in textual order.
type Directive struct {
	Kind   DirectiveKind
	Rule   string // toggle target
	Enable bool   // toggle direction
	Value  string // import path, declared name, option text
	Legacy bool   // came from the /*@..@*/ syntax
	Span   models.Span
}

// Sheet is the ordered directive sequence of one unit plus the config
// diagnostics produced while parsing it.
type Sheet struct {
	Unit       string
	Directives []Directive
	Diags      []models.Diagnostic
}

// RuleControlComment is the diagnostic id used for malformed or conflicting
// control comments.
const RuleControlComment = "control-comment"

// Collect scans the token stream's comments for directives. knownRule
// reports whether a rule id is recognized by the configuration; unknown ids
// surface as ConfigError diagnostics scoped to the comment.
func Collect(unit string, toks []jstoken.Token, knownRule func(string) bool) *Sheet {
	s := &Sheet{Unit: unit}
	for _, t := range toks {
		if t.Kind != jstoken.Comment || t.LineComment {
			continue
		}
		body := strings.TrimSuffix(strings.TrimPrefix(t.Lexeme, "/*"), "*/")
		body = strings.TrimSpace(body)
		switch {
		case strings.HasPrefix(body, "jsl:"):
			s.parseBody(strings.TrimSpace(body[len("jsl:"):]), false, t.Span, knownRule)
		case len(body) >= 2 && body[0] == '@' && body[len(body)-1] == '@':
			s.parseBody(strings.TrimSpace(body[1:len(body)-1]), true, t.Span, knownRule)
		}
	}
	s.checkPairing()
	s.checkConflicts()
	return s
}

func (s *Sheet) parseBody(body string, legacy bool, span models.Span, knownRule func(string) bool) {
	if body == "" {
		s.malformed(legacy, span)
		return
	}

	keyword, value := body, ""
	if i := strings.IndexAny(body, ": \t"); i >= 0 {
		keyword, value = body[:i], strings.TrimSpace(body[i+1:])
	}

	switch keyword {
	case "ignore":
		s.add(Directive{Kind: KindIgnoreBegin, Legacy: legacy, Span: span})
	case "end":
		s.add(Directive{Kind: KindIgnoreEnd, Legacy: legacy, Span: span})
	case "fallthru", "pass":
		s.add(Directive{Kind: KindFallthru, Legacy: legacy, Span: span})
	case "import":
		if value == "" {
			s.malformed(legacy, span)
			return
		}
		s.add(Directive{Kind: KindImport, Value: value, Legacy: legacy, Span: span})
	case "declare":
		if value == "" {
			s.malformed(legacy, span)
			return
		}
		for _, name := range strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' }) {
			if name != "" {
				s.add(Directive{Kind: KindDeclare, Value: name, Legacy: legacy, Span: span})
			}
		}
	case "option":
		s.add(Directive{Kind: KindOption, Value: value, Legacy: legacy, Span: span})
	default:
		// A rule toggle list: rule-id, +rule-id, -rule-id, comma separated.
		for _, item := range strings.Split(body, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			enable := false
			switch item[0] {
			case '+':
				enable = true
				item = item[1:]
			case '-':
				item = item[1:]
			}
			if !knownRule(item) {
				s.unknownRule(item, legacy, span)
				continue
			}
			s.add(Directive{Kind: KindToggle, Rule: item, Enable: enable, Legacy: legacy, Span: span})
		}
	}
}

func (s *Sheet) add(d Directive) {
	s.Directives = append(s.Directives, d)
}

func (s *Sheet) malformed(legacy bool, span models.Span) {
	syntax := "/*jsl:keyword*/"
	if legacy {
		syntax = "/*@keyword@*/"
	}
	s.Diags = append(s.Diags, models.Diagnostic{
		Unit:     s.Unit,
		Rule:     RuleControlComment,
		Severity: models.SeverityError,
		Message:  "couldn't understand control comment using " + syntax + " syntax",
		Span:     span,
	})
}

func (s *Sheet) unknownRule(id string, legacy bool, span models.Span) {
	syntax := "/*jsl:keyword*/"
	if legacy {
		syntax = "/*@keyword@*/"
	}
	s.Diags = append(s.Diags, models.Diagnostic{
		Unit:     s.Unit,
		Rule:     RuleControlComment,
		Severity: models.SeverityError,
		Message:  "unknown rule id " + "\"" + id + "\" in control comment using " + syntax + " syntax",
		Span:     span,
	})
}

// checkPairing verifies the one-to-one correspondence of ignore/end pairs.
func (s *Sheet) checkPairing() {
	depth := 0
	for _, d := range s.Directives {
		switch d.Kind {
		case KindIgnoreBegin:
			depth++
		case KindIgnoreEnd:
			depth--
			if depth < 0 {
				depth = 0
				s.Diags = append(s.Diags, models.Diagnostic{
					Unit:     s.Unit,
					Rule:     RuleControlComment,
					Severity: models.SeverityError,
					Message:  "mismatched control comment; \"ignore\" and \"end\" control comments must have a one-to-one correspondence",
					Span:     d.Span,
				})
			}
		}
	}
	if depth > 0 {
		for _, d := range s.Directives {
			if d.Kind == KindIgnoreBegin {
				s.Diags = append(s.Diags, models.Diagnostic{
					Unit:     s.Unit,
					Rule:     RuleControlComment,
					Severity: models.SeverityError,
					Message:  "mismatched control comment; \"ignore\" and \"end\" control comments must have a one-to-one correspondence",
					Span:     d.Span,
				})
				break
			}
		}
	}
}

// checkConflicts flags simultaneous opposite toggles for the same rule on
// the same line, which typically happens when the two syntaxes disagree.
// The most textually recent directive still wins for suppression queries.
func (s *Sheet) checkConflicts() {
	for i, d := range s.Directives {
		if d.Kind != KindToggle {
			continue
		}
		for _, e := range s.Directives[i+1:] {
			if e.Kind != KindToggle || e.Rule != d.Rule {
				continue
			}
			if e.Span.Start.Line == d.Span.Start.Line && e.Enable != d.Enable {
				s.Diags = append(s.Diags, models.Diagnostic{
					Unit:     s.Unit,
					Rule:     RuleControlComment,
					Severity: models.SeverityError,
					Message:  "conflicting control comments for rule \"" + d.Rule + "\"",
					Span:     e.Span,
				})
			}
		}
	}
}

// Suppressed reports whether a diagnostic for rule at pos is turned off by
// the directive state active at that position. Directives are applied in
// textual order, so the most recent one covering the position wins.
func (s *Sheet) Suppressed(rule string, pos models.Position) bool {
	ignoring := false
	ruleOff := false
	for _, d := range s.Directives {
		if d.Span.Start.Offset > pos.Offset {
			break
		}
		switch d.Kind {
		case KindIgnoreBegin:
			ignoring = true
		case KindIgnoreEnd:
			ignoring = false
		case KindToggle:
			if d.Rule == rule {
				ruleOff = !d.Enable
			}
		}
	}
	return ignoring || ruleOff
}

// FallthruBetween reports whether a fallthru directive sits in the half-open
// offset range [from, to), which exempts the case boundary at `to` from the
// missing-break check.
func (s *Sheet) FallthruBetween(from, to models.Position) bool {
	for _, d := range s.Directives {
		if d.Kind != KindFallthru {
			continue
		}
		off := d.Span.Start.Offset
		if off >= from.Offset && off < to.Offset {
			return true
		}
	}
	return false
}

// Imports returns the unit paths named by import directives, in order.
func (s *Sheet) Imports() []string {
	var paths []string
	for _, d := range s.Directives {
		if d.Kind == KindImport {
			paths = append(paths, d.Value)
		}
	}
	return paths
}

// Declares returns identifiers declared via control comments.
func (s *Sheet) Declares() []string {
	var names []string
	for _, d := range s.Directives {
		if d.Kind == KindDeclare {
			names = append(names, d.Value)
		}
	}
	return names
}
