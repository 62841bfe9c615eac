package ast

// Visitor is called for every node in source order. The ancestors slice runs
// from the root down to the node's parent and is only valid for the duration
// of the call. Returning false skips the node's children.
type Visitor func(n Node, ancestors []Node) bool

// Walk traverses the tree rooted at n depth-first, maintaining the ancestor
// path for the visitor.
func Walk(n Node, v Visitor) {
	w := &walker{visit: v}
	w.walk(n)
}

type walker struct {
	visit Visitor
	path  []Node
}

func (w *walker) walk(n Node) {
	if n == nil || isNilNode(n) {
		return
	}
	if !w.visit(n, w.path) {
		return
	}
	w.path = append(w.path, n)
	defer func() { w.path = w.path[:len(w.path)-1] }()

	switch x := n.(type) {
	case *Program:
		for _, s := range x.Body {
			w.walk(s)
		}
	case *FunctionDecl:
		w.walk(x.Name)
		for _, p := range x.Params {
			w.walk(p)
		}
		w.walk(x.Body)
	case *FunctionExpr:
		if x.Name != nil {
			w.walk(x.Name)
		}
		for _, p := range x.Params {
			w.walk(p)
		}
		w.walk(x.Body)
	case *VarDecl:
		for _, d := range x.Decls {
			w.walk(d)
		}
	case *Binding:
		w.walk(x.Name)
		w.walk(x.Init)
	case *IfStmt:
		w.walk(x.Cond)
		w.walk(x.Then)
		w.walk(x.Else)
	case *ForStmt:
		w.walk(x.Init)
		w.walk(x.Cond)
		w.walk(x.Post)
		w.walk(x.Body)
	case *ForInStmt:
		w.walk(x.Left)
		w.walk(x.Object)
		w.walk(x.Body)
	case *WhileStmt:
		w.walk(x.Cond)
		w.walk(x.Body)
	case *DoWhileStmt:
		w.walk(x.Body)
		w.walk(x.Cond)
	case *SwitchStmt:
		w.walk(x.Disc)
		for _, c := range x.Cases {
			w.walk(c)
		}
	case *CaseClause:
		w.walk(x.Test)
		for _, s := range x.Body {
			w.walk(s)
		}
	case *BreakStmt:
		w.walk(x.Label)
	case *ContinueStmt:
		w.walk(x.Label)
	case *ReturnStmt:
		w.walk(x.Arg)
	case *ThrowStmt:
		w.walk(x.Arg)
	case *TryStmt:
		w.walk(x.Block)
		w.walk(x.CatchParam)
		w.walk(x.Catch)
		w.walk(x.Finally)
	case *WithStmt:
		w.walk(x.Object)
		w.walk(x.Body)
	case *BlockStmt:
		for _, s := range x.List {
			w.walk(s)
		}
	case *ExprStmt:
		w.walk(x.X)
	case *LabeledStmt:
		w.walk(x.Label)
		w.walk(x.Stmt)
	case *ArrayLit:
		for _, e := range x.Elems {
			w.walk(e)
		}
	case *ObjectLit:
		for _, p := range x.Props {
			w.walk(p)
		}
	case *Property:
		w.walk(x.Key)
		w.walk(x.Value)
	case *BinaryExpr:
		w.walk(x.L)
		w.walk(x.R)
	case *UnaryExpr:
		w.walk(x.Operand)
	case *UpdateExpr:
		w.walk(x.Operand)
	case *AssignExpr:
		w.walk(x.L)
		w.walk(x.R)
	case *CondExpr:
		w.walk(x.Test)
		w.walk(x.Cons)
		w.walk(x.Alt)
	case *CallExpr:
		w.walk(x.Callee)
		for _, a := range x.Args {
			w.walk(a)
		}
	case *NewExpr:
		w.walk(x.Callee)
		for _, a := range x.Args {
			w.walk(a)
		}
	case *MemberExpr:
		w.walk(x.Obj)
		w.walk(x.Prop)
	case *IndexExpr:
		w.walk(x.Obj)
		w.walk(x.Index)
	case *SeqExpr:
		for _, e := range x.Exprs {
			w.walk(e)
		}
	}
}

// isNilNode catches typed nils hidden behind the Node interface, e.g. a nil
// *Ident stored in an interface-typed field.
func isNilNode(n Node) bool {
	switch x := n.(type) {
	case *Ident:
		return x == nil
	case *BlockStmt:
		return x == nil
	case *VarDecl:
		return x == nil
	default:
		return false
	}
}
