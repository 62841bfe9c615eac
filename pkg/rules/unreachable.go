package rules

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// markUnreachable is the dedicated reachability pass. Within every statement
// list it finds the first statement that can no longer be reached because an
// earlier statement at the same nesting level always exits, flags the
// contiguous dead region once, and marks the statements so other passes can
// see the flag.
func markUnreachable(rctx *Context) {
	checkList(rctx, rctx.Parse.Program.Body)
	ast.Walk(rctx.Parse.Program, func(n ast.Node, _ []ast.Node) bool {
		switch x := n.(type) {
		case *ast.BlockStmt:
			checkList(rctx, x.List)
		case *ast.CaseClause:
			checkList(rctx, x.Body)
		}
		return true
	})
}

func checkList(rctx *Context, list []ast.Stmt) {
	reachable := true
	for i, s := range list {
		if !reachable {
			region := models.Span{Start: s.Span().Start, End: list[len(list)-1].Span().End}
			rctx.Report(config.RuleUnreachableCode, region, "unreachable code")
			for _, dead := range list[i:] {
				markDead(dead)
			}
			return
		}
		reachable = exitPoints(s)&exitFall != 0
	}
}

func markDead(s ast.Stmt) {
	type marker interface{ SetUnreachable() }
	if m, ok := s.(marker); ok {
		m.SetUnreachable()
	}
}
