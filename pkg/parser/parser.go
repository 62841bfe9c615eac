package parser

import (
	"fmt"
	"strings"

	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// ParseError is a grammar violation the parser cannot locally recover from.
// Parsing of the unit stops; other units are unaffected.
type ParseError struct {
	Pos      models.Position
	Expected string
	Got      string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d, col %d: expected %s, found %q", e.Pos.Line, e.Pos.Column, e.Expected, e.Got)
}

// Result is the output of a successful parse. Besides the tree it carries
// the facts only the parser can observe: where automatic semicolon insertion
// fired, and where a line break left statement membership ambiguous.
type Result struct {
	Program *ast.Program

	// Inserted lists every statement boundary that was closed by automatic
	// semicolon insertion instead of a written semicolon.
	Inserted []models.Span

	// Ambiguous lists line breaks where the following line may or may not
	// belong to the same statement.
	Ambiguous []models.Span
}

// Parse consumes the token stream (comments included; the parser skips them)
// and returns the Program with its parse-time records, or a *ParseError.
func Parse(toks []jstoken.Token) (res *Result, err error) {
	p := &parser{toks: toks, res: &Result{}}
	p.next()

	defer func() {
		if r := recover(); r != nil {
			pe, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			res, err = nil, pe
		}
	}()

	prog := &ast.Program{}
	start := p.cur.Pos()
	for p.cur.Kind != jstoken.EOF {
		prog.Body = append(prog.Body, p.parseStatement())
	}
	prog.SetSpan(models.Span{Start: start, End: p.prevEnd})
	p.res.Program = prog
	return p.res, nil
}

type parser struct {
	toks []jstoken.Token
	i    int // index of the next unread token

	cur     jstoken.Token
	nl      bool // line terminator before cur, comments included
	prevEnd models.Position

	res *Result
}

// next advances to the next significant token, folding the newline flags of
// skipped comments into the current token's.
func (p *parser) next() {
	p.prevEnd = p.cur.Span.End
	nl := false
	for p.i < len(p.toks) {
		t := p.toks[p.i]
		p.i++
		nl = nl || t.NewlineBefore
		if t.Kind == jstoken.Comment {
			continue
		}
		if t.Kind == jstoken.Illegal {
			if strings.Contains(t.Err, "comment") || strings.Contains(t.Err, "character") {
				continue // already reported as a lex diagnostic
			}
		}
		p.cur, p.nl = t, nl
		return
	}
	p.cur = jstoken.Token{Kind: jstoken.EOF, Span: models.Span{Start: p.prevEnd, End: p.prevEnd}}
	p.nl = nl
}

// peek returns the next significant token without consuming anything.
func (p *parser) peek() jstoken.Token {
	for j := p.i; j < len(p.toks); j++ {
		t := p.toks[j]
		if t.Kind == jstoken.Comment {
			continue
		}
		if t.Kind == jstoken.Illegal && (strings.Contains(t.Err, "comment") || strings.Contains(t.Err, "character")) {
			continue
		}
		return t
	}
	return jstoken.Token{Kind: jstoken.EOF}
}

func (p *parser) fail(expected string) {
	panic(&ParseError{Pos: p.cur.Pos(), Expected: expected, Got: p.cur.Lexeme})
}

func (p *parser) expect(lexeme string) {
	if !p.cur.Is(lexeme) {
		p.fail("'" + lexeme + "'")
	}
	p.next()
}

func (p *parser) spanFrom(start models.Position) models.Span {
	return models.Span{Start: start, End: p.prevEnd}
}

func (p *parser) pointSpan(pos models.Position) models.Span {
	return models.Span{Start: pos, End: pos}
}

// semicolon closes a statement: an explicit `;` is consumed, anything else
// goes through automatic semicolon insertion per the standard rule and is
// recorded as an insertion.
func (p *parser) semicolon() {
	if p.cur.Is(";") {
		p.next()
		return
	}
	if p.cur.Kind == jstoken.EOF || p.cur.Is("}") || p.nl {
		p.res.Inserted = append(p.res.Inserted, p.pointSpan(p.prevEnd))
		return
	}
	p.fail("';'")
}

func (p *parser) recordAmbiguous(pos models.Position) {
	p.res.Ambiguous = append(p.res.Ambiguous, p.pointSpan(pos))
}

// startsExpression reports whether t could begin an expression, which is
// what makes a restricted-production line break ambiguous.
func startsExpression(t jstoken.Token) bool {
	switch t.Kind {
	case jstoken.Identifier, jstoken.Number, jstoken.String, jstoken.Regex:
		return true
	case jstoken.Keyword:
		switch t.Lexeme {
		case "this", "true", "false", "null", "function", "new", "typeof", "void", "delete":
			return true
		}
	case jstoken.Punct:
		switch t.Lexeme {
		case "(", "[", "{", "+", "-", "!", "~", "++", "--":
			return true
		}
	}
	return false
}

func (p *parser) parseStatement() ast.Stmt {
	start := p.cur.Pos()

	if p.cur.Kind == jstoken.Keyword {
		switch p.cur.Lexeme {
		case "var":
			return p.parseVarStatement()
		case "if":
			return p.parseIf()
		case "for":
			return p.parseFor()
		case "while":
			return p.parseWhile()
		case "do":
			return p.parseDoWhile()
		case "switch":
			return p.parseSwitch()
		case "try":
			return p.parseTry()
		case "with":
			return p.parseWith()
		case "function":
			return p.parseFunctionDecl()
		case "return":
			return p.parseReturn()
		case "throw":
			return p.parseThrow()
		case "break", "continue":
			return p.parseBreakContinue()
		}
	}

	if p.cur.Is("{") {
		return p.parseBlock()
	}
	if p.cur.Is(";") {
		p.next()
		s := &ast.EmptyStmt{}
		s.SetSpan(p.spanFrom(start))
		return s
	}
	if p.cur.Kind == jstoken.Identifier && p.peek().Is(":") {
		return p.parseLabeled()
	}

	x := p.parseExpression(false)
	p.semicolon()
	s := &ast.ExprStmt{X: x}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseBlock() *ast.BlockStmt {
	start := p.cur.Pos()
	p.expect("{")
	b := &ast.BlockStmt{}
	for !p.cur.Is("}") {
		if p.cur.Kind == jstoken.EOF {
			p.fail("'}'")
		}
		b.List = append(b.List, p.parseStatement())
	}
	p.next()
	b.SetSpan(p.spanFrom(start))
	return b
}

func (p *parser) parseVarStatement() ast.Stmt {
	start := p.cur.Pos()
	d := p.parseVarDecl(false)
	p.semicolon()
	d.SetSpan(p.spanFrom(start))
	return d
}

// parseVarDecl parses `var a = x, b` without the terminating semicolon, so
// the for-statement headers can share it.
func (p *parser) parseVarDecl(noIn bool) *ast.VarDecl {
	start := p.cur.Pos()
	p.expect("var")
	d := &ast.VarDecl{}
	for {
		bStart := p.cur.Pos()
		name := p.parseIdent()
		b := &ast.Binding{Name: name}
		if p.cur.Is("=") {
			p.next()
			b.Init = p.parseAssign(noIn)
		}
		b.SetSpan(p.spanFrom(bStart))
		d.Decls = append(d.Decls, b)
		if !p.cur.Is(",") {
			break
		}
		p.next()
	}
	d.SetSpan(p.spanFrom(start))
	return d
}

func (p *parser) parseIdent() *ast.Ident {
	if p.cur.Kind != jstoken.Identifier {
		p.fail("identifier")
	}
	id := &ast.Ident{Name: p.cur.Lexeme}
	id.SetSpan(p.cur.Span)
	p.next()
	return id
}

func (p *parser) parseIf() ast.Stmt {
	start := p.cur.Pos()
	p.expect("if")
	p.expect("(")
	cond := p.parseExpression(false)
	p.expect(")")
	s := &ast.IfStmt{Cond: cond, Then: p.parseStatement()}
	if p.cur.Is("else") {
		p.next()
		s.Else = p.parseStatement()
	}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseWhile() ast.Stmt {
	start := p.cur.Pos()
	p.expect("while")
	p.expect("(")
	cond := p.parseExpression(false)
	p.expect(")")
	s := &ast.WhileStmt{Cond: cond, Body: p.parseStatement()}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseDoWhile() ast.Stmt {
	start := p.cur.Pos()
	p.expect("do")
	body := p.parseStatement()
	p.expect("while")
	p.expect("(")
	cond := p.parseExpression(false)
	p.expect(")")
	p.semicolon()
	s := &ast.DoWhileStmt{Body: body, Cond: cond}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseFor() ast.Stmt {
	start := p.cur.Pos()
	p.expect("for")
	p.expect("(")

	var init ast.Node
	if p.cur.Is("var") {
		init = p.parseVarDecl(true)
	} else if !p.cur.Is(";") {
		init = p.parseExpression(true)
	}

	if p.cur.Is("in") {
		p.next()
		obj := p.parseExpression(false)
		p.expect(")")
		s := &ast.ForInStmt{Left: init, Object: obj, Body: p.parseStatement()}
		s.SetSpan(p.spanFrom(start))
		return s
	}

	s := &ast.ForStmt{Init: init}
	p.expect(";")
	if !p.cur.Is(";") {
		s.Cond = p.parseExpression(false)
	}
	p.expect(";")
	if !p.cur.Is(")") {
		s.Post = p.parseExpression(false)
	}
	p.expect(")")
	s.Body = p.parseStatement()
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseSwitch() ast.Stmt {
	start := p.cur.Pos()
	p.expect("switch")
	p.expect("(")
	disc := p.parseExpression(false)
	p.expect(")")
	p.expect("{")

	s := &ast.SwitchStmt{Disc: disc}
	for !p.cur.Is("}") {
		cStart := p.cur.Pos()
		c := &ast.CaseClause{}
		if p.cur.Is("case") {
			p.next()
			c.Test = p.parseExpression(false)
		} else if p.cur.Is("default") {
			p.next()
		} else {
			p.fail("'case' or 'default'")
		}
		p.expect(":")
		for !p.cur.Is("case") && !p.cur.Is("default") && !p.cur.Is("}") {
			if p.cur.Kind == jstoken.EOF {
				p.fail("'}'")
			}
			c.Body = append(c.Body, p.parseStatement())
		}
		c.SetSpan(p.spanFrom(cStart))
		s.Cases = append(s.Cases, c)
	}
	p.next()
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseTry() ast.Stmt {
	start := p.cur.Pos()
	p.expect("try")
	s := &ast.TryStmt{Block: p.parseBlock()}
	if p.cur.Is("catch") {
		p.next()
		p.expect("(")
		s.CatchParam = p.parseIdent()
		p.expect(")")
		s.Catch = p.parseBlock()
	}
	if p.cur.Is("finally") {
		p.next()
		s.Finally = p.parseBlock()
	}
	if s.Catch == nil && s.Finally == nil {
		p.fail("'catch' or 'finally'")
	}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseWith() ast.Stmt {
	start := p.cur.Pos()
	p.expect("with")
	p.expect("(")
	obj := p.parseExpression(false)
	p.expect(")")
	s := &ast.WithStmt{Object: obj, Body: p.parseStatement()}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseFunctionDecl() ast.Stmt {
	start := p.cur.Pos()
	name, params, body := p.parseFunctionRest(true)
	s := &ast.FunctionDecl{Name: name, Params: params, Body: body}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseFunctionRest(requireName bool) (*ast.Ident, []*ast.Ident, *ast.BlockStmt) {
	p.expect("function")
	var name *ast.Ident
	if p.cur.Kind == jstoken.Identifier {
		name = p.parseIdent()
	} else if requireName {
		p.fail("function name")
	}
	p.expect("(")
	var params []*ast.Ident
	for !p.cur.Is(")") {
		params = append(params, p.parseIdent())
		if !p.cur.Is(",") {
			break
		}
		p.next()
	}
	p.expect(")")
	return name, params, p.parseBlock()
}

func (p *parser) parseReturn() ast.Stmt {
	start := p.cur.Pos()
	p.expect("return")
	s := &ast.ReturnStmt{}
	if p.nl {
		// Restricted production: the line break terminates the statement.
		if startsExpression(p.cur) {
			p.recordAmbiguous(p.prevEnd)
		}
		p.semicolon()
	} else {
		if !p.cur.Is(";") && !p.cur.Is("}") && p.cur.Kind != jstoken.EOF {
			s.Arg = p.parseExpression(false)
		}
		p.semicolon()
	}
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseThrow() ast.Stmt {
	start := p.cur.Pos()
	p.expect("throw")
	if p.nl {
		// A line break after `throw` is illegal per the standard; tolerate
		// it, flag the ambiguity, and keep the next line as the operand.
		p.recordAmbiguous(p.prevEnd)
	}
	s := &ast.ThrowStmt{Arg: p.parseExpression(false)}
	p.semicolon()
	s.SetSpan(p.spanFrom(start))
	return s
}

func (p *parser) parseBreakContinue() ast.Stmt {
	start := p.cur.Pos()
	isBreak := p.cur.Lexeme == "break"
	p.next()

	var label *ast.Ident
	if p.cur.Kind == jstoken.Identifier {
		if p.nl {
			// Restricted production: the identifier on the next line is a
			// new statement, but the split reads either way.
			p.recordAmbiguous(p.prevEnd)
		} else {
			label = p.parseIdent()
		}
	}
	p.semicolon()

	var s ast.Stmt
	if isBreak {
		b := &ast.BreakStmt{Label: label}
		b.SetSpan(p.spanFrom(start))
		s = b
	} else {
		c := &ast.ContinueStmt{Label: label}
		c.SetSpan(p.spanFrom(start))
		s = c
	}
	return s
}

func (p *parser) parseLabeled() ast.Stmt {
	start := p.cur.Pos()
	label := p.parseIdent()
	p.expect(":")
	s := &ast.LabeledStmt{Label: label, Stmt: p.parseStatement()}
	s.SetSpan(p.spanFrom(start))
	return s
}
