package rules

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/config"
)

// incDecMisuseRule flags ++ and -- buried inside a larger expression, where
// evaluation order is easy to misread. A bare `i++;` statement and the
// clauses of a for header are fine.
type incDecMisuseRule struct{}

func (*incDecMisuseRule) ID() string { return config.RuleIncDecMisuse }

func (*incDecMisuseRule) Nodes() []ast.Kind { return []ast.Kind{ast.KUpdate} }

func (*incDecMisuseRule) Check(n ast.Node, path []ast.Node, rctx *Context) {
	for i := len(path) - 1; i >= 0; i-- {
		switch path[i].Kind() {
		case ast.KExprStmt:
			return
		case ast.KSeq:
			// A comma list is still fine if it ends up directly in a for
			// header (`for (i = 0, j = n; ...; i++, j--)`).
			continue
		case ast.KFor, ast.KForIn:
			return
		default:
			rctx.Report(config.RuleIncDecMisuse, n.Span(),
				"increment (++) and decrement (--) operators used as part of greater statement")
			return
		}
	}
}

// voidRule flags the void operator.
type voidRule struct{}

func (*voidRule) ID() string { return config.RuleVoid }

func (*voidRule) Nodes() []ast.Kind { return []ast.Kind{ast.KUnary} }

func (*voidRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	u := n.(*ast.UnaryExpr)
	if u.Op == "void" {
		rctx.Report(config.RuleVoid, u.Span(),
			"use of the void type may be unnecessary (void is always undefined)")
	}
}

// successiveSignsRule flags adjacent same-direction signs around a binary
// plus or minus, such as x+++y or x---y, where the token split is not what
// the eye reads.
type successiveSignsRule struct{}

func (*successiveSignsRule) ID() string { return config.RuleSuccessiveSigns }

func (*successiveSignsRule) Nodes() []ast.Kind { return []ast.Kind{ast.KBinary} }

func (*successiveSignsRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	b := n.(*ast.BinaryExpr)
	if b.Op != "+" && b.Op != "-" {
		return
	}
	if sideHasSign(b.L, b.Op, false) || sideHasSign(b.R, b.Op, true) {
		rctx.Report(config.RuleSuccessiveSigns, b.Span(),
			"unknown order of operations for successive plus (e.g. x+++y) or minus (e.g. x---y) signs")
	}
}

// sideHasSign reports whether the operand adjacent to the binary operator
// starts (right side) or ends (left side) with the same sign character.
func sideHasSign(e ast.Expr, op string, rightSide bool) bool {
	switch x := e.(type) {
	case *ast.UpdateExpr:
		// ++ next to + (or -- next to -) in either position.
		if x.Op[:1] != op {
			return false
		}
		if rightSide {
			return x.Prefix
		}
		return !x.Prefix
	case *ast.UnaryExpr:
		return rightSide && x.Op == op
	}
	return false
}

// misplacedRegexRule flags a regex literal in a position where a reader (or
// a downgraded parser) could take the slash for a division sign. The
// accepted contexts mirror the classic rule: assignment, initialization,
// object value, call argument, return value, or a parenthesized/member
// position.
type misplacedRegexRule struct{}

func (*misplacedRegexRule) ID() string { return config.RuleMisplacedRegex }

func (*misplacedRegexRule) Nodes() []ast.Kind { return []ast.Kind{ast.KRegex} }

func (*misplacedRegexRule) Check(n ast.Node, path []ast.Node, rctx *Context) {
	if len(path) > 0 {
		switch path[len(path)-1].Kind() {
		case ast.KBinding, ast.KAssign, ast.KProperty, ast.KCall, ast.KNew,
			ast.KReturn, ast.KMember, ast.KIndex, ast.KArray:
			return
		}
	}
	rctx.Report(config.RuleMisplacedRegex, n.Span(),
		"regular expressions should be preceded by a left parenthesis, assignment, colon, or comma")
}
