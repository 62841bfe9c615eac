package ast

import (
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// Kind identifies a node type. Rules subscribe to kinds rather than
// switching over concrete types themselves.
type Kind int

const (
	KProgram Kind = iota
	KFunctionDecl
	KFunctionExpr
	KVarDecl
	KBinding
	KIf
	KFor
	KForIn
	KWhile
	KDoWhile
	KSwitch
	KCase
	KBreak
	KContinue
	KReturn
	KThrow
	KTry
	KWith
	KBlock
	KExprStmt
	KEmpty
	KLabeled
	KIdent
	KNumber
	KString
	KRegex
	KBool
	KNull
	KThis
	KArray
	KObject
	KProperty
	KBinary
	KUnary
	KUpdate
	KAssign
	KCond
	KCall
	KNew
	KMember
	KIndex
	KSeq
)

// Node is implemented by every AST node.
type Node interface {
	Kind() Kind
	Span() models.Span
}

// Stmt is a statement node.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is an expression node.
type Expr interface {
	Node
	exprNode()
}

// base carries the source span every node owns.
type base struct {
	Loc models.Span
}

func (b *base) Span() models.Span     { return b.Loc }
func (b *base) SetSpan(s models.Span) { b.Loc = s }

// stmtBase additionally carries the reachability flag computed by the
// dedicated reachability pass before rules run.
type stmtBase struct {
	base
	Unreachable bool
}

func (s *stmtBase) stmtNode() {}

// SetUnreachable marks the statement dead. Only the reachability pass calls
// this; rules treat the AST as read-only.
func (s *stmtBase) SetUnreachable() { s.Unreachable = true }

type exprBase struct {
	base
}

func (e *exprBase) exprNode() {}

// Program is the root of a unit's AST.
type Program struct {
	base
	Body []Stmt
}

func (*Program) Kind() Kind { return KProgram }

// FunctionDecl is a function declaration statement.
type FunctionDecl struct {
	stmtBase
	Name   *Ident
	Params []*Ident
	Body   *BlockStmt
}

func (*FunctionDecl) Kind() Kind { return KFunctionDecl }

// FunctionExpr is a function used as a value; Name may be nil.
type FunctionExpr struct {
	exprBase
	Name   *Ident
	Params []*Ident
	Body   *BlockStmt
}

func (*FunctionExpr) Kind() Kind { return KFunctionExpr }

// VarDecl is a `var` statement with one or more bindings.
type VarDecl struct {
	stmtBase
	Decls []*Binding
}

func (*VarDecl) Kind() Kind { return KVarDecl }

// Binding is a single name with an optional initializer inside a VarDecl.
type Binding struct {
	base
	Name *Ident
	Init Expr
}

func (*Binding) Kind() Kind { return KBinding }

type IfStmt struct {
	stmtBase
	Cond Expr
	Then Stmt
	Else Stmt
}

func (*IfStmt) Kind() Kind { return KIf }

type ForStmt struct {
	stmtBase
	Init Node // *VarDecl or Expr, may be nil
	Cond Expr // may be nil
	Post Expr // may be nil
	Body Stmt
}

func (*ForStmt) Kind() Kind { return KFor }

type ForInStmt struct {
	stmtBase
	Left   Node // *VarDecl or Expr
	Object Expr
	Body   Stmt
}

func (*ForInStmt) Kind() Kind { return KForIn }

type WhileStmt struct {
	stmtBase
	Cond Expr
	Body Stmt
}

func (*WhileStmt) Kind() Kind { return KWhile }

type DoWhileStmt struct {
	stmtBase
	Body Stmt
	Cond Expr
}

func (*DoWhileStmt) Kind() Kind { return KDoWhile }

type SwitchStmt struct {
	stmtBase
	Disc  Expr
	Cases []*CaseClause
}

func (*SwitchStmt) Kind() Kind { return KSwitch }

// CaseClause is one `case expr:` or `default:` arm; Test is nil for default.
type CaseClause struct {
	base
	Test Expr
	Body []Stmt
}

func (*CaseClause) Kind() Kind { return KCase }

type BreakStmt struct {
	stmtBase
	Label *Ident // may be nil
}

func (*BreakStmt) Kind() Kind { return KBreak }

type ContinueStmt struct {
	stmtBase
	Label *Ident // may be nil
}

func (*ContinueStmt) Kind() Kind { return KContinue }

type ReturnStmt struct {
	stmtBase
	Arg Expr // may be nil
}

func (*ReturnStmt) Kind() Kind { return KReturn }

type ThrowStmt struct {
	stmtBase
	Arg Expr
}

func (*ThrowStmt) Kind() Kind { return KThrow }

type TryStmt struct {
	stmtBase
	Block      *BlockStmt
	CatchParam *Ident     // nil when no catch clause
	Catch      *BlockStmt // nil when no catch clause
	Finally    *BlockStmt // nil when no finally clause
}

func (*TryStmt) Kind() Kind { return KTry }

type WithStmt struct {
	stmtBase
	Object Expr
	Body   Stmt
}

func (*WithStmt) Kind() Kind { return KWith }

type BlockStmt struct {
	stmtBase
	List []Stmt
}

func (*BlockStmt) Kind() Kind { return KBlock }

type ExprStmt struct {
	stmtBase
	X Expr
}

func (*ExprStmt) Kind() Kind { return KExprStmt }

type EmptyStmt struct {
	stmtBase
}

func (*EmptyStmt) Kind() Kind { return KEmpty }

type LabeledStmt struct {
	stmtBase
	Label *Ident
	Stmt  Stmt
}

func (*LabeledStmt) Kind() Kind { return KLabeled }

type Ident struct {
	exprBase
	Name string
}

func (*Ident) Kind() Kind { return KIdent }

type NumberLit struct {
	exprBase
	Raw   string
	Flags jstoken.NumFlag
}

func (*NumberLit) Kind() Kind { return KNumber }

type StringLit struct {
	exprBase
	Raw string
}

func (*StringLit) Kind() Kind { return KString }

type RegexLit struct {
	exprBase
	Raw string
}

func (*RegexLit) Kind() Kind { return KRegex }

type BoolLit struct {
	exprBase
	Value bool
}

func (*BoolLit) Kind() Kind { return KBool }

type NullLit struct {
	exprBase
}

func (*NullLit) Kind() Kind { return KNull }

type ThisLit struct {
	exprBase
}

func (*ThisLit) Kind() Kind { return KThis }

type ArrayLit struct {
	exprBase
	Elems []Expr // nil entries for elisions
	// TrailingComma is set for `[1, 2,]`, which older engines read as an
	// extra element.
	TrailingComma bool
}

func (*ArrayLit) Kind() Kind { return KArray }

type ObjectLit struct {
	exprBase
	Props []*Property
}

func (*ObjectLit) Kind() Kind { return KObject }

type Property struct {
	base
	Key   Expr // Ident, StringLit or NumberLit
	Value Expr
}

func (*Property) Kind() Kind { return KProperty }

type BinaryExpr struct {
	exprBase
	Op string
	L  Expr
	R  Expr
}

func (*BinaryExpr) Kind() Kind { return KBinary }

type UnaryExpr struct {
	exprBase
	Op      string // "!", "~", "+", "-", "typeof", "void", "delete"
	Operand Expr
}

func (*UnaryExpr) Kind() Kind { return KUnary }

type UpdateExpr struct {
	exprBase
	Op      string // "++" or "--"
	Operand Expr
	Prefix  bool
}

func (*UpdateExpr) Kind() Kind { return KUpdate }

type AssignExpr struct {
	exprBase
	Op string // "=", "+=", ...
	L  Expr
	R  Expr
}

func (*AssignExpr) Kind() Kind { return KAssign }

type CondExpr struct {
	exprBase
	Test Expr
	Cons Expr
	Alt  Expr
}

func (*CondExpr) Kind() Kind { return KCond }

type CallExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (*CallExpr) Kind() Kind { return KCall }

type NewExpr struct {
	exprBase
	Callee Expr
	Args   []Expr
}

func (*NewExpr) Kind() Kind { return KNew }

// MemberExpr is dotted access, obj.name.
type MemberExpr struct {
	exprBase
	Obj  Expr
	Prop *Ident
}

func (*MemberExpr) Kind() Kind { return KMember }

// IndexExpr is bracketed access, obj[expr].
type IndexExpr struct {
	exprBase
	Obj   Expr
	Index Expr
}

func (*IndexExpr) Kind() Kind { return KIndex }

// SeqExpr is the comma operator.
type SeqExpr struct {
	exprBase
	Exprs []Expr
}

func (*SeqExpr) Kind() Kind { return KSeq }
