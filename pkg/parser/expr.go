package parser

import (
	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
)

// binPrec maps binary operators to their precedence level. `in` and
// `instanceof` are keywords but bind like relational operators.
var binPrec = map[string]int{
	"||": 1,
	"&&": 2,
	"|":  3,
	"^":  4,
	"&":  5,
	"==": 6, "!=": 6, "===": 6, "!==": 6,
	"<": 7, ">": 7, "<=": 7, ">=": 7, "in": 7, "instanceof": 7,
	"<<": 8, ">>": 8, ">>>": 8,
	"+": 9, "-": 9,
	"*": 10, "/": 10, "%": 10,
}

var assignOps = map[string]bool{
	"=": true, "+=": true, "-=": true, "*=": true, "/=": true, "%=": true,
	"<<=": true, ">>=": true, ">>>=": true, "&=": true, "|=": true, "^=": true,
}

// parseExpression parses a full expression including the comma operator.
func (p *parser) parseExpression(noIn bool) ast.Expr {
	start := p.cur.Pos()
	x := p.parseAssign(noIn)
	if !p.cur.Is(",") {
		return x
	}
	seq := &ast.SeqExpr{Exprs: []ast.Expr{x}}
	for p.cur.Is(",") {
		p.next()
		seq.Exprs = append(seq.Exprs, p.parseAssign(noIn))
	}
	seq.SetSpan(p.spanFrom(start))
	return seq
}

func (p *parser) parseAssign(noIn bool) ast.Expr {
	start := p.cur.Pos()
	x := p.parseConditional(noIn)
	if p.cur.Kind == jstoken.Punct && assignOps[p.cur.Lexeme] {
		op := p.cur.Lexeme
		p.next()
		a := &ast.AssignExpr{Op: op, L: x, R: p.parseAssign(noIn)}
		a.SetSpan(p.spanFrom(start))
		return a
	}
	return x
}

func (p *parser) parseConditional(noIn bool) ast.Expr {
	start := p.cur.Pos()
	x := p.parseBinary(1, noIn)
	if !p.cur.Is("?") {
		return x
	}
	p.next()
	cons := p.parseAssign(false)
	p.expect(":")
	c := &ast.CondExpr{Test: x, Cons: cons, Alt: p.parseAssign(noIn)}
	c.SetSpan(p.spanFrom(start))
	return c
}

func (p *parser) parseBinary(minPrec int, noIn bool) ast.Expr {
	start := p.cur.Pos()
	x := p.parseUnary()
	for {
		op := p.cur.Lexeme
		prec, ok := binPrec[op]
		if !ok || prec < minPrec || (p.cur.Kind != jstoken.Punct && p.cur.Kind != jstoken.Keyword) {
			return x
		}
		if op == "in" && noIn {
			return x
		}
		// A line starting with + or - could equally be its own statement.
		if p.nl && (op == "+" || op == "-") {
			p.recordAmbiguous(p.cur.Pos())
		}
		p.next()
		r := p.parseBinary(prec+1, noIn)
		b := &ast.BinaryExpr{Op: op, L: x, R: r}
		b.SetSpan(p.spanFrom(start))
		x = b
	}
}

func (p *parser) parseUnary() ast.Expr {
	start := p.cur.Pos()
	switch {
	case p.cur.Is("++") || p.cur.Is("--"):
		op := p.cur.Lexeme
		p.next()
		u := &ast.UpdateExpr{Op: op, Operand: p.parseUnary(), Prefix: true}
		u.SetSpan(p.spanFrom(start))
		return u
	case p.cur.Is("+") || p.cur.Is("-") || p.cur.Is("!") || p.cur.Is("~") ||
		p.cur.Is("typeof") || p.cur.Is("void") || p.cur.Is("delete"):
		op := p.cur.Lexeme
		p.next()
		u := &ast.UnaryExpr{Op: op, Operand: p.parseUnary()}
		u.SetSpan(p.spanFrom(start))
		return u
	}
	return p.parsePostfix()
}

func (p *parser) parsePostfix() ast.Expr {
	start := p.cur.Pos()
	x := p.parseMember(true)
	// The postfix operators are restricted productions: a preceding line
	// break detaches them.
	if (p.cur.Is("++") || p.cur.Is("--")) && p.nl {
		p.recordAmbiguous(p.cur.Pos())
	}
	if (p.cur.Is("++") || p.cur.Is("--")) && !p.nl {
		u := &ast.UpdateExpr{Op: p.cur.Lexeme, Operand: x}
		p.next()
		u.SetSpan(p.spanFrom(start))
		return u
	}
	return x
}

// parseMember parses member, call and new expressions.
func (p *parser) parseMember(allowCall bool) ast.Expr {
	start := p.cur.Pos()
	var x ast.Expr

	if p.cur.Is("new") {
		p.next()
		callee := p.parseMember(false)
		n := &ast.NewExpr{Callee: callee}
		if p.cur.Is("(") {
			n.Args = p.parseArgs()
		}
		n.SetSpan(p.spanFrom(start))
		x = n
	} else {
		x = p.parsePrimary()
	}

	for {
		switch {
		case p.cur.Is("."):
			p.next()
			prop := p.parsePropertyName()
			m := &ast.MemberExpr{Obj: x, Prop: prop}
			m.SetSpan(p.spanFrom(start))
			x = m
		case p.cur.Is("["):
			if p.nl {
				p.recordAmbiguous(p.cur.Pos())
			}
			p.next()
			idx := p.parseExpression(false)
			p.expect("]")
			ix := &ast.IndexExpr{Obj: x, Index: idx}
			ix.SetSpan(p.spanFrom(start))
			x = ix
		case allowCall && p.cur.Is("("):
			if p.nl {
				p.recordAmbiguous(p.cur.Pos())
			}
			c := &ast.CallExpr{Callee: x, Args: p.parseArgs()}
			c.SetSpan(p.spanFrom(start))
			x = c
		default:
			return x
		}
	}
}

// parsePropertyName accepts identifiers and keywords after a dot; `a.default`
// is questionable but parseable.
func (p *parser) parsePropertyName() *ast.Ident {
	if p.cur.Kind != jstoken.Identifier && p.cur.Kind != jstoken.Keyword {
		p.fail("property name")
	}
	id := &ast.Ident{Name: p.cur.Lexeme}
	id.SetSpan(p.cur.Span)
	p.next()
	return id
}

func (p *parser) parseArgs() []ast.Expr {
	p.expect("(")
	var args []ast.Expr
	for !p.cur.Is(")") {
		args = append(args, p.parseAssign(false))
		if !p.cur.Is(",") {
			break
		}
		p.next()
	}
	p.expect(")")
	return args
}

func (p *parser) parsePrimary() ast.Expr {
	start := p.cur.Pos()

	switch p.cur.Kind {
	case jstoken.Identifier:
		return p.parseIdent()
	case jstoken.Number:
		n := &ast.NumberLit{Raw: p.cur.Lexeme, Flags: p.cur.NumFlags}
		n.SetSpan(p.cur.Span)
		p.next()
		return n
	case jstoken.String:
		s := &ast.StringLit{Raw: p.cur.Lexeme}
		s.SetSpan(p.cur.Span)
		p.next()
		return s
	case jstoken.Regex:
		r := &ast.RegexLit{Raw: p.cur.Lexeme}
		r.SetSpan(p.cur.Span)
		p.next()
		return r
	case jstoken.Illegal:
		// Unterminated string/regex: the lex diagnostic is already queued,
		// treat the partial lexeme as the literal and continue.
		var x ast.Expr
		if p.cur.Lexeme != "" && (p.cur.Lexeme[0] == '"' || p.cur.Lexeme[0] == '\'') {
			s := &ast.StringLit{Raw: p.cur.Lexeme}
			s.SetSpan(p.cur.Span)
			x = s
		} else {
			r := &ast.RegexLit{Raw: p.cur.Lexeme}
			r.SetSpan(p.cur.Span)
			x = r
		}
		p.next()
		return x
	case jstoken.Keyword:
		switch p.cur.Lexeme {
		case "true", "false":
			b := &ast.BoolLit{Value: p.cur.Lexeme == "true"}
			b.SetSpan(p.cur.Span)
			p.next()
			return b
		case "null":
			n := &ast.NullLit{}
			n.SetSpan(p.cur.Span)
			p.next()
			return n
		case "this":
			t := &ast.ThisLit{}
			t.SetSpan(p.cur.Span)
			p.next()
			return t
		case "function":
			name, params, body := p.parseFunctionRest(false)
			f := &ast.FunctionExpr{Name: name, Params: params, Body: body}
			f.SetSpan(p.spanFrom(start))
			return f
		}
	case jstoken.Punct:
		switch p.cur.Lexeme {
		case "(":
			p.next()
			x := p.parseExpression(false)
			p.expect(")")
			return x
		case "[":
			return p.parseArrayLit()
		case "{":
			return p.parseObjectLit()
		}
	}

	p.fail("expression")
	return nil
}

func (p *parser) parseArrayLit() ast.Expr {
	start := p.cur.Pos()
	p.expect("[")
	a := &ast.ArrayLit{}
	expectElem := true
	for !p.cur.Is("]") {
		if p.cur.Kind == jstoken.EOF {
			p.fail("']'")
		}
		if p.cur.Is(",") {
			if expectElem {
				a.Elems = append(a.Elems, nil) // elision
			}
			p.next()
			expectElem = true
			continue
		}
		a.Elems = append(a.Elems, p.parseAssign(false))
		expectElem = false
	}
	if expectElem && len(a.Elems) > 0 {
		a.TrailingComma = true
	}
	p.next()
	a.SetSpan(p.spanFrom(start))
	return a
}

func (p *parser) parseObjectLit() ast.Expr {
	start := p.cur.Pos()
	p.expect("{")
	o := &ast.ObjectLit{}
	for !p.cur.Is("}") {
		pStart := p.cur.Pos()
		var key ast.Expr
		switch p.cur.Kind {
		case jstoken.Identifier, jstoken.Keyword:
			k := &ast.Ident{Name: p.cur.Lexeme}
			k.SetSpan(p.cur.Span)
			p.next()
			key = k
		case jstoken.String:
			k := &ast.StringLit{Raw: p.cur.Lexeme}
			k.SetSpan(p.cur.Span)
			p.next()
			key = k
		case jstoken.Number:
			k := &ast.NumberLit{Raw: p.cur.Lexeme, Flags: p.cur.NumFlags}
			k.SetSpan(p.cur.Span)
			p.next()
			key = k
		default:
			p.fail("property name")
		}
		p.expect(":")
		prop := &ast.Property{Key: key, Value: p.parseAssign(false)}
		prop.SetSpan(p.spanFrom(pStart))
		o.Props = append(o.Props, prop)
		if !p.cur.Is(",") {
			break
		}
		p.next()
	}
	p.expect("}")
	o.SetSpan(p.spanFrom(start))
	return o
}
