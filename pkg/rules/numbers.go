package rules

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
)

// decimalPointRule flags numeric literals written with a leading or trailing
// decimal point (.5, 5.). The lexer records the shape on the token and the
// parser copies it onto the literal node.
type decimalPointRule struct{}

func (*decimalPointRule) ID() string { return config.RuleDecimalPoint }

func (*decimalPointRule) Nodes() []ast.Kind { return []ast.Kind{ast.KNumber} }

func (*decimalPointRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	lit := n.(*ast.NumberLit)
	if lit.Flags&jstoken.NumLeadingDecimal != 0 {
		rctx.Report(config.RuleDecimalPoint, lit.Span(),
			"leading decimal point may indicate a number or an object member")
	}
	if lit.Flags&jstoken.NumTrailingDecimal != 0 {
		rctx.Report(config.RuleDecimalPoint, lit.Span(),
			"trailing decimal point may indicate a number or an object member")
	}
}

// octalNumberRule flags decimal-looking literals with a leading zero, which
// ES3 engines read as octal.
type octalNumberRule struct{}

func (*octalNumberRule) ID() string { return config.RuleOctalNumber }

func (*octalNumberRule) Nodes() []ast.Kind { return []ast.Kind{ast.KNumber} }

func (*octalNumberRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	lit := n.(*ast.NumberLit)
	if lit.Flags&jstoken.NumOctal != 0 {
		rctx.Report(config.RuleOctalNumber, lit.Span(), "leading zeros make an octal number")
	}
}
