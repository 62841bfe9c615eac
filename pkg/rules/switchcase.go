package rules

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/config"
)

// missingBreakRule verifies that every case is terminated by break, return,
// throw or continue before the next case begins. Empty cases share their
// body with the following case and are exempt, as is any boundary covered
// by a fallthru control comment. The final case is exempt only when the
// disallow-missing-break-for-last-case exemption is enabled.
type missingBreakRule struct{}

func (*missingBreakRule) ID() string { return config.RuleMissingBreak }

func (*missingBreakRule) Nodes() []ast.Kind { return []ast.Kind{ast.KSwitch} }

func (*missingBreakRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	sw := n.(*ast.SwitchStmt)
	for i, c := range sw.Cases {
		if len(c.Body) == 0 {
			continue
		}
		if exitList(c.Body)&exitFall == 0 {
			continue
		}

		last := i == len(sw.Cases)-1
		if !last {
			next := sw.Cases[i+1]
			if rctx.Sheet != nil && rctx.Sheet.FallthruBetween(c.Span().Start, next.Span().Start) {
				continue
			}
			// Report on the case the control falls into, like the warning
			// reads.
			rctx.Report(config.RuleMissingBreak, next.Span(), "missing break statement")
			continue
		}

		if rctx.Config.Enabled(config.RuleMissingBreakLast) {
			continue
		}
		if rctx.Sheet != nil && rctx.Sheet.FallthruBetween(c.Span().Start, sw.Span().End) {
			continue
		}
		rctx.Report(config.RuleMissingBreak, c.Span(), "missing break statement for last case in switch")
	}
}

// defaultNotAtEndRule flags a default case with cases after it.
type defaultNotAtEndRule struct{}

func (*defaultNotAtEndRule) ID() string { return config.RuleDefaultNotAtEnd }

func (*defaultNotAtEndRule) Nodes() []ast.Kind { return []ast.Kind{ast.KSwitch} }

func (*defaultNotAtEndRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	sw := n.(*ast.SwitchStmt)
	for i, c := range sw.Cases {
		if c.Test == nil && i < len(sw.Cases)-1 {
			rctx.Report(config.RuleDefaultNotAtEnd, sw.Cases[i+1].Span(),
				"the default case is not at the end of the switch statement")
		}
	}
}

// duplicateCaseRule flags two cases whose test expressions are textually
// equivalent.
type duplicateCaseRule struct{}

func (*duplicateCaseRule) ID() string { return config.RuleDuplicateCase }

func (*duplicateCaseRule) Nodes() []ast.Kind { return []ast.Kind{ast.KSwitch} }

func (*duplicateCaseRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	sw := n.(*ast.SwitchStmt)
	seen := make(map[string]bool)
	for _, c := range sw.Cases {
		if c.Test == nil {
			continue
		}
		key := normalized(rctx.Snippet(c.Test.Span()))
		if key == "" {
			continue
		}
		if seen[key] {
			rctx.Report(config.RuleDuplicateCase, c.Test.Span(), "duplicate case in switch statement")
			continue
		}
		seen[key] = true
	}
}
