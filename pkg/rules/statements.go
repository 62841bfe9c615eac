package rules

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/config"
)

// noOpStatementRule flags empty statements and expression statements with no
// side effect (a bare identifier or literal).
type noOpStatementRule struct{}

func (*noOpStatementRule) ID() string { return config.RuleNoOpStatement }

func (*noOpStatementRule) Nodes() []ast.Kind {
	return []ast.Kind{ast.KEmpty, ast.KExprStmt}
}

func (*noOpStatementRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	if n.Kind() == ast.KEmpty {
		rctx.Report(config.RuleNoOpStatement, n.Span(), "empty statement or extra semicolon")
		return
	}
	es := n.(*ast.ExprStmt)
	switch es.X.Kind() {
	case ast.KIdent, ast.KNumber, ast.KString, ast.KBool, ast.KNull, ast.KThis:
		rctx.Report(config.RuleNoOpStatement, es.Span(), "statement has no side effects")
	}
}

// commaStatementsRule flags statements joined by the comma operator at the
// statement level; commas inside for-clauses and expressions are fine.
type commaStatementsRule struct{}

func (*commaStatementsRule) ID() string { return config.RuleCommaStatements }

func (*commaStatementsRule) Nodes() []ast.Kind { return []ast.Kind{ast.KExprStmt} }

func (*commaStatementsRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	es := n.(*ast.ExprStmt)
	if es.X.Kind() == ast.KSeq {
		rctx.Report(config.RuleCommaStatements, es.Span(),
			"multiple statements separated by commas (use semicolons?)")
	}
}

// meaninglessBracesRule flags a block statement nested directly inside
// another block or the program body: the braces are attached to no control
// construct and have no effect.
type meaninglessBracesRule struct{}

func (*meaninglessBracesRule) ID() string { return config.RuleMeaninglessBraces }

func (*meaninglessBracesRule) Nodes() []ast.Kind { return []ast.Kind{ast.KBlock} }

func (*meaninglessBracesRule) Check(n ast.Node, path []ast.Node, rctx *Context) {
	if len(path) == 0 {
		return
	}
	switch path[len(path)-1].Kind() {
	case ast.KBlock, ast.KProgram, ast.KCase:
		rctx.Report(config.RuleMeaninglessBraces, n.Span(),
			"meaningless block; curly braces have no impact")
	}
}

// requireCurlyRule (off by default) wants every control-construct body to be
// a braced block.
type requireCurlyRule struct{}

func (*requireCurlyRule) ID() string { return config.RuleRequireCurly }

func (*requireCurlyRule) Nodes() []ast.Kind {
	return []ast.Kind{ast.KIf, ast.KFor, ast.KForIn, ast.KWhile, ast.KDoWhile, ast.KWith}
}

func (*requireCurlyRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	report := func(body ast.Stmt) {
		if body == nil {
			return
		}
		if body.Kind() != ast.KBlock {
			rctx.Report(config.RuleRequireCurly, body.Span(), "block statement without curly braces")
		}
	}
	switch x := n.(type) {
	case *ast.IfStmt:
		report(x.Then)
		// An else-if chain is conventional and stays unflagged.
		if x.Else != nil && x.Else.Kind() != ast.KIf {
			report(x.Else)
		}
	case *ast.ForStmt:
		report(x.Body)
	case *ast.ForInStmt:
		report(x.Body)
	case *ast.WhileStmt:
		report(x.Body)
	case *ast.DoWhileStmt:
		report(x.Body)
	case *ast.WithStmt:
		report(x.Body)
	}
}

// labeledLoopRule flags labels on loops.
type labeledLoopRule struct{}

func (*labeledLoopRule) ID() string { return config.RuleLabeledLoops }

func (*labeledLoopRule) Nodes() []ast.Kind { return []ast.Kind{ast.KLabeled} }

func (*labeledLoopRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	ls := n.(*ast.LabeledStmt)
	switch ls.Stmt.Kind() {
	case ast.KFor, ast.KForIn, ast.KWhile, ast.KDoWhile:
		rctx.Report(config.RuleLabeledLoops, ls.Label.Span(), "use of label")
	}
}

// withStatementRule flags the with statement.
type withStatementRule struct{}

func (*withStatementRule) ID() string { return config.RuleWithStatement }

func (*withStatementRule) Nodes() []ast.Kind { return []ast.Kind{ast.KWith} }

func (*withStatementRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	rctx.Report(config.RuleWithStatement, n.Span(),
		"with statement hides undeclared variables; use temporary variable instead")
}

// noBreakLoopRule flags loops whose condition never varies (`while (true)`,
// `for (;;)`) and whose body contains nothing that exits the loop.
type noBreakLoopRule struct{}

func (*noBreakLoopRule) ID() string { return config.RuleNoBreakStatement }

func (*noBreakLoopRule) Nodes() []ast.Kind {
	return []ast.Kind{ast.KWhile, ast.KDoWhile, ast.KFor}
}

func (*noBreakLoopRule) Check(n ast.Node, _ []ast.Node, rctx *Context) {
	var cond ast.Expr
	var body ast.Stmt
	switch x := n.(type) {
	case *ast.WhileStmt:
		cond, body = x.Cond, x.Body
	case *ast.DoWhileStmt:
		cond, body = x.Cond, x.Body
	case *ast.ForStmt:
		cond, body = x.Cond, x.Body
		if cond == nil {
			if !loopCanExit(body) {
				rctx.Report(config.RuleNoBreakStatement, n.Span(),
					"unconditional loop contains no break statement")
			}
			return
		}
	}
	if b, ok := cond.(*ast.BoolLit); ok && b.Value {
		if !loopCanExit(body) {
			rctx.Report(config.RuleNoBreakStatement, n.Span(),
				"unconditional loop contains no break statement")
		}
	}
}

// loopCanExit reports whether the loop body contains a break bound to this
// loop, or a return/throw that leaves the whole function.
func loopCanExit(body ast.Stmt) bool {
	return containsBreak(body, true) || containsReturnThrow(body)
}

// containsBreak searches for a break statement binding to the current loop.
// topLevel tracks whether an unlabeled break would still bind here: nested
// loops and switches capture unlabeled breaks.
func containsBreak(s ast.Stmt, topLevel bool) bool {
	switch x := s.(type) {
	case nil:
		return false
	case *ast.BreakStmt:
		return topLevel || x.Label != nil
	case *ast.BlockStmt:
		for _, c := range x.List {
			if containsBreak(c, topLevel) {
				return true
			}
		}
	case *ast.IfStmt:
		return containsBreak(x.Then, topLevel) || containsBreak(x.Else, topLevel)
	case *ast.LabeledStmt:
		return containsBreak(x.Stmt, topLevel)
	case *ast.TryStmt:
		if containsBreak(x.Block, topLevel) {
			return true
		}
		if x.Catch != nil && containsBreak(x.Catch, topLevel) {
			return true
		}
		if x.Finally != nil && containsBreak(x.Finally, topLevel) {
			return true
		}
	case *ast.WithStmt:
		return containsBreak(x.Body, topLevel)
	case *ast.WhileStmt:
		return containsBreak(x.Body, false)
	case *ast.DoWhileStmt:
		return containsBreak(x.Body, false)
	case *ast.ForStmt:
		return containsBreak(x.Body, false)
	case *ast.ForInStmt:
		return containsBreak(x.Body, false)
	case *ast.SwitchStmt:
		for _, c := range x.Cases {
			for _, cs := range c.Body {
				if containsBreak(cs, false) {
					return true
				}
			}
		}
	}
	return false
}

// containsReturnThrow searches statements for return/throw, not descending
// into nested functions.
func containsReturnThrow(s ast.Stmt) bool {
	found := false
	ast.Walk(s, func(n ast.Node, _ []ast.Node) bool {
		switch n.Kind() {
		case ast.KFunctionDecl, ast.KFunctionExpr:
			return false
		case ast.KReturn, ast.KThrow:
			found = true
			return false
		}
		return !found
	})
	return found
}
