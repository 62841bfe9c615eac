package rules

import "github.com/lcalzada-xor/jslint/pkg/ast"

// exitMask is the set of ways control can leave a statement.
type exitMask uint8

const (
	// exitFall means control can run off the end into the next statement.
	exitFall exitMask = 1 << iota
	exitBreak
	exitContinue
	exitReturn
	exitThrow
)

// exitList folds a statement sequence: falling through is only possible if
// the last statement falls through, while the other exits accumulate.
func exitList(list []ast.Stmt) exitMask {
	m := exitFall
	for _, s := range list {
		m &^= exitFall
		m |= exitPoints(s)
	}
	return m
}

// exitPoints computes how control can leave s. It mirrors the statement
// semantics closely enough for the missing-break and unreachable-code
// checks: conservative where runtime values matter (loop conditions), exact
// for the unconditional statements.
func exitPoints(s ast.Stmt) exitMask {
	switch x := s.(type) {
	case *ast.BlockStmt:
		return exitList(x.List)

	case *ast.IfStmt:
		m := exitPoints(x.Then)
		if x.Else != nil {
			m |= exitPoints(x.Else)
		} else {
			m |= exitFall
		}
		return m

	case *ast.SwitchStmt:
		m := exitMask(0)
		hasDefault := false
		finalFallthru := true
		for _, c := range x.Cases {
			ce := exitList(c.Body)
			hasDefault = hasDefault || c.Test == nil
			finalFallthru = ce&exitFall != 0
			m |= ce
		}
		m &^= exitFall
		// A break inside the switch is consumed by the switch itself.
		if m&exitBreak != 0 {
			m &^= exitBreak
			m |= exitFall
		}
		if !hasDefault || finalFallthru {
			m |= exitFall
		}
		return m

	case *ast.BreakStmt:
		return exitBreak
	case *ast.ContinueStmt:
		return exitContinue
	case *ast.ReturnStmt:
		return exitReturn
	case *ast.ThrowStmt:
		return exitThrow

	case *ast.TryStmt:
		m := exitList(x.Block.List)
		if x.Catch != nil {
			m |= exitList(x.Catch.List)
		}
		if x.Finally != nil {
			f := exitList(x.Finally.List)
			if f&exitFall != 0 {
				// The finally block adds no exit of its own.
				f &^= exitFall
			} else {
				// A finally that always exits overrides the other paths.
				m &^= exitFall
			}
			m |= f
		}
		return m

	case *ast.WithStmt:
		return exitPoints(x.Body)

	case *ast.LabeledStmt:
		return exitPoints(x.Stmt)

	default:
		// Loops are conservatively assumed to terminate; expression and
		// declaration statements always fall through.
		return exitFall
	}
}
