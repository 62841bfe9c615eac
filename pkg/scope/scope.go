// Package scope builds per-function symbol tables and resolves identifier
// references across units linked by import directives, including cycles.
package scope

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// DeclKind classifies a declaration.
type DeclKind int

const (
	DeclVar DeclKind = iota
	DeclFunction
	DeclParam
	DeclDirective // declared via a /*jsl:declare*/ control comment
)

func (k DeclKind) String() string {
	switch k {
	case DeclVar:
		return "var"
	case DeclFunction:
		return "function"
	case DeclParam:
		return "parameter"
	default:
		return "declared"
	}
}

// Declaration is one declared identifier.
type Declaration struct {
	Name string
	Kind DeclKind
	Span models.Span
}

// Scope maps names declared in one function (or the program) to their
// declarations. `var` declarations hoist: they land in the enclosing
// function scope no matter how deeply nested their statement is.
type Scope struct {
	Parent *Scope
	Decls  map[string]*Declaration
}

// NewScope creates a scope nested in parent (nil for the program scope).
func NewScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, Decls: make(map[string]*Declaration)}
}

// Declare records a declaration; the first declaration of a name wins, the
// rest are redundant rather than wrong.
func (s *Scope) Declare(name string, kind DeclKind, span models.Span) *Declaration {
	if d, ok := s.Decls[name]; ok {
		return d
	}
	d := &Declaration{Name: name, Kind: kind, Span: span}
	s.Decls[name] = d
	return d
}

// Lookup finds a declaration in this scope or any enclosing one. Position
// is irrelevant: declarations are visible throughout their function.
func (s *Scope) Lookup(name string) *Declaration {
	for sc := s; sc != nil; sc = sc.Parent {
		if d, ok := sc.Decls[name]; ok {
			return d
		}
	}
	return nil
}

// Ref is an identifier reference awaiting resolution.
type Ref struct {
	Name  string
	Span  models.Span
	Scope *Scope
}

// UnitScope is one unit's program scope plus its pending references.
type UnitScope struct {
	Unit   string
	Global *Scope
	Refs   []Ref
}

// Build computes the scope tables and reference list for one unit's AST.
// declares lists identifiers introduced by control comments; they land in
// the program scope.
func Build(unit string, prog *ast.Program, declares []string) *UnitScope {
	us := &UnitScope{Unit: unit, Global: NewScope(nil)}
	for _, name := range declares {
		us.Global.Declare(name, DeclDirective, models.Span{})
	}
	b := &builder{us: us}
	for _, s := range prog.Body {
		b.stmt(s, us.Global)
	}
	return us
}

type builder struct {
	us *UnitScope
}

func (b *builder) ref(id *ast.Ident, sc *Scope) {
	if id == nil {
		return
	}
	b.us.Refs = append(b.us.Refs, Ref{Name: id.Name, Span: id.Span(), Scope: sc})
}

// function enters a new scope for a declaration or expression function.
func (b *builder) function(name *ast.Ident, params []*ast.Ident, body *ast.BlockStmt, outer *Scope, decl bool) {
	if decl && name != nil {
		outer.Declare(name.Name, DeclFunction, name.Span())
	}
	inner := NewScope(outer)
	if !decl && name != nil {
		// A named function expression sees its own name inside the body.
		inner.Declare(name.Name, DeclFunction, name.Span())
	}
	for _, p := range params {
		inner.Declare(p.Name, DeclParam, p.Span())
	}
	inner.Declare("arguments", DeclParam, models.Span{})
	for _, s := range body.List {
		b.stmt(s, inner)
	}
}

func (b *builder) stmt(s ast.Stmt, sc *Scope) {
	switch x := s.(type) {
	case nil:
	case *ast.FunctionDecl:
		b.function(x.Name, x.Params, x.Body, sc, true)
	case *ast.VarDecl:
		b.varDecl(x, sc)
	case *ast.IfStmt:
		b.expr(x.Cond, sc)
		b.stmt(x.Then, sc)
		b.stmt(x.Else, sc)
	case *ast.ForStmt:
		switch init := x.Init.(type) {
		case *ast.VarDecl:
			b.varDecl(init, sc)
		case ast.Expr:
			b.expr(init, sc)
		}
		b.expr(x.Cond, sc)
		b.expr(x.Post, sc)
		b.stmt(x.Body, sc)
	case *ast.ForInStmt:
		switch left := x.Left.(type) {
		case *ast.VarDecl:
			b.varDecl(left, sc)
		case ast.Expr:
			b.expr(left, sc)
		}
		b.expr(x.Object, sc)
		b.stmt(x.Body, sc)
	case *ast.WhileStmt:
		b.expr(x.Cond, sc)
		b.stmt(x.Body, sc)
	case *ast.DoWhileStmt:
		b.stmt(x.Body, sc)
		b.expr(x.Cond, sc)
	case *ast.SwitchStmt:
		b.expr(x.Disc, sc)
		for _, c := range x.Cases {
			b.expr(c.Test, sc)
			for _, cs := range c.Body {
				b.stmt(cs, sc)
			}
		}
	case *ast.ReturnStmt:
		b.expr(x.Arg, sc)
	case *ast.ThrowStmt:
		b.expr(x.Arg, sc)
	case *ast.TryStmt:
		b.stmt(x.Block, sc)
		if x.Catch != nil {
			// The catch parameter is treated as function-scoped, which is
			// close enough for declaration checking.
			if x.CatchParam != nil {
				sc.Declare(x.CatchParam.Name, DeclParam, x.CatchParam.Span())
			}
			b.stmt(x.Catch, sc)
		}
		if x.Finally != nil {
			b.stmt(x.Finally, sc)
		}
	case *ast.WithStmt:
		b.expr(x.Object, sc)
		// Identifiers under `with` resolve dynamically; skipping the body
		// avoids false undeclared-identifier reports.
	case *ast.BlockStmt:
		for _, bs := range x.List {
			b.stmt(bs, sc)
		}
	case *ast.ExprStmt:
		b.expr(x.X, sc)
	case *ast.LabeledStmt:
		b.stmt(x.Stmt, sc)
	}
}

func (b *builder) varDecl(d *ast.VarDecl, sc *Scope) {
	for _, bind := range d.Decls {
		sc.Declare(bind.Name.Name, DeclVar, bind.Name.Span())
		b.expr(bind.Init, sc)
	}
}

func (b *builder) expr(e ast.Expr, sc *Scope) {
	switch x := e.(type) {
	case nil:
	case *ast.Ident:
		b.ref(x, sc)
	case *ast.FunctionExpr:
		b.function(x.Name, x.Params, x.Body, sc, false)
	case *ast.ArrayLit:
		for _, el := range x.Elems {
			b.expr(el, sc)
		}
	case *ast.ObjectLit:
		for _, p := range x.Props {
			b.expr(p.Value, sc) // keys are property names, not references
		}
	case *ast.BinaryExpr:
		b.expr(x.L, sc)
		b.expr(x.R, sc)
	case *ast.UnaryExpr:
		if x.Op == "typeof" {
			// `typeof x` is the standard existence test; it must not count
			// as a reference.
			if _, ok := x.Operand.(*ast.Ident); ok {
				return
			}
		}
		b.expr(x.Operand, sc)
	case *ast.UpdateExpr:
		b.expr(x.Operand, sc)
	case *ast.AssignExpr:
		b.expr(x.L, sc)
		b.expr(x.R, sc)
	case *ast.CondExpr:
		b.expr(x.Test, sc)
		b.expr(x.Cons, sc)
		b.expr(x.Alt, sc)
	case *ast.CallExpr:
		b.expr(x.Callee, sc)
		for _, a := range x.Args {
			b.expr(a, sc)
		}
	case *ast.NewExpr:
		b.expr(x.Callee, sc)
		for _, a := range x.Args {
			b.expr(a, sc)
		}
	case *ast.MemberExpr:
		b.expr(x.Obj, sc) // the property name is not a reference
	case *ast.IndexExpr:
		b.expr(x.Obj, sc)
		b.expr(x.Index, sc)
	case *ast.SeqExpr:
		for _, se := range x.Exprs {
			b.expr(se, sc)
		}
	}
}
