package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/lcalzada-xor/jslint/pkg/jstoken"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// Lexer converts source text into a stream of tokens. It never fails hard:
// malformed constructs come out as Illegal tokens and scanning resumes at
// the next recognizable boundary.
type Lexer struct {
	src  string
	off  int
	line int
	col  int

	// prev is the last significant (non-comment) token, used to decide
	// whether a `/` starts a regex literal or a division.
	prev *jstoken.Token

	// pendingNewline is set when a line terminator was consumed since the
	// last emitted token, including newlines inside block comments.
	pendingNewline bool
}

// New creates a lexer over src.
func New(src string) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

// Reset restarts the lexer at the beginning of the source.
func (l *Lexer) Reset() {
	l.off, l.line, l.col = 0, 1, 1
	l.prev = nil
	l.pendingNewline = false
}

// Scan tokenizes the whole source, including the terminal EOF token.
func (l *Lexer) Scan() []jstoken.Token {
	var toks []jstoken.Token
	for {
		t := l.Next()
		toks = append(toks, t)
		if t.Kind == jstoken.EOF {
			return toks
		}
	}
}

func (l *Lexer) pos() models.Position {
	return models.Position{Line: l.line, Column: l.col, Offset: l.off}
}

func (l *Lexer) peek() byte {
	if l.off >= len(l.src) {
		return 0
	}
	return l.src[l.off]
}

func (l *Lexer) peekAt(n int) byte {
	if l.off+n >= len(l.src) {
		return 0
	}
	return l.src[l.off+n]
}

func (l *Lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func (l *Lexer) skipSpace() {
	for l.off < len(l.src) {
		switch l.src[l.off] {
		case ' ', '\t', '\v', '\f', '\r':
			l.advance()
		case '\n':
			l.pendingNewline = true
			l.advance()
		default:
			return
		}
	}
}

// Next returns the next token. Comments are part of the stream; callers that
// only care about syntax skip them.
func (l *Lexer) Next() jstoken.Token {
	l.skipSpace()

	start := l.pos()
	nl := l.pendingNewline
	l.pendingNewline = false

	finish := func(t jstoken.Token) jstoken.Token {
		t.Span = models.Span{Start: start, End: l.pos()}
		t.NewlineBefore = nl
		if t.Kind != jstoken.Comment {
			cp := t
			l.prev = &cp
		}
		return t
	}

	if l.off >= len(l.src) {
		return finish(jstoken.Token{Kind: jstoken.EOF})
	}

	c := l.peek()
	switch {
	case c == '/' && l.peekAt(1) == '/':
		return finish(l.scanLineComment())
	case c == '/' && l.peekAt(1) == '*':
		return finish(l.scanBlockComment())
	case c == '/' && jstoken.RegexAllowedAfter(l.prev):
		return finish(l.scanRegex())
	case c == '"' || c == '\'':
		return finish(l.scanString())
	case c >= '0' && c <= '9':
		return finish(l.scanNumber())
	case c == '.' && l.peekAt(1) >= '0' && l.peekAt(1) <= '9':
		return finish(l.scanNumber())
	case isIdentStart(c):
		return finish(l.scanIdentifier())
	default:
		return finish(l.scanPunct())
	}
}

func (l *Lexer) scanLineComment() jstoken.Token {
	from := l.off
	for l.off < len(l.src) && l.peek() != '\n' {
		l.advance()
	}
	return jstoken.Token{
		Kind:        jstoken.Comment,
		Lexeme:      l.src[from:l.off],
		LineComment: true,
	}
}

func (l *Lexer) scanBlockComment() jstoken.Token {
	from := l.off
	l.advance() // /
	l.advance() // *
	bodyFrom := l.off
	for l.off < len(l.src) {
		if l.peek() == '\n' {
			l.pendingNewline = true
		}
		if l.peek() == '*' && l.peekAt(1) == '/' {
			body := l.src[bodyFrom:l.off]
			l.advance()
			l.advance()
			return jstoken.Token{
				Kind:          jstoken.Comment,
				Lexeme:        l.src[from:l.off],
				NestedComment: strings.Contains(body, "/*"),
			}
		}
		l.advance()
	}
	return jstoken.Token{
		Kind:   jstoken.Illegal,
		Lexeme: l.src[from:l.off],
		Err:    "unterminated comment",
	}
}

func (l *Lexer) scanString() jstoken.Token {
	from := l.off
	quote := l.advance()
	for l.off < len(l.src) {
		c := l.peek()
		if c == '\\' {
			l.advance()
			if l.off < len(l.src) {
				l.advance() // escaped char, may be a line continuation
			}
			continue
		}
		if c == '\n' {
			// Resume at the line break so the next line lexes normally.
			break
		}
		l.advance()
		if c == quote {
			return jstoken.Token{Kind: jstoken.String, Lexeme: l.src[from:l.off]}
		}
	}
	return jstoken.Token{
		Kind:   jstoken.Illegal,
		Lexeme: l.src[from:l.off],
		Err:    "unterminated string literal",
	}
}

func (l *Lexer) scanNumber() jstoken.Token {
	from := l.off
	var flags jstoken.NumFlag

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		l.advance()
		l.advance()
		for isHexDigit(l.peek()) {
			l.advance()
		}
		return jstoken.Token{Kind: jstoken.Number, Lexeme: l.src[from:l.off]}
	}

	if l.peek() == '.' {
		flags |= jstoken.NumLeadingDecimal
	}
	if l.peek() == '0' && isDigit(l.peekAt(1)) {
		flags |= jstoken.NumOctal
	}

	for isDigit(l.peek()) {
		l.advance()
	}
	if l.peek() == '.' {
		l.advance()
		if !isDigit(l.peek()) {
			flags |= jstoken.NumTrailingDecimal
		}
		for isDigit(l.peek()) {
			l.advance()
		}
	}
	if l.peek() == 'e' || l.peek() == 'E' {
		if isDigit(l.peekAt(1)) || ((l.peekAt(1) == '+' || l.peekAt(1) == '-') && isDigit(l.peekAt(2))) {
			l.advance()
			if l.peek() == '+' || l.peek() == '-' {
				l.advance()
			}
			for isDigit(l.peek()) {
				l.advance()
			}
		}
	}
	return jstoken.Token{Kind: jstoken.Number, Lexeme: l.src[from:l.off], NumFlags: flags}
}

func (l *Lexer) scanRegex() jstoken.Token {
	from := l.off
	l.advance() // opening /
	inClass := false
	for l.off < len(l.src) {
		c := l.peek()
		if c == '\n' {
			break
		}
		if c == '\\' {
			l.advance()
			if l.off < len(l.src) && l.peek() != '\n' {
				l.advance()
			}
			continue
		}
		l.advance()
		switch c {
		case '[':
			inClass = true
		case ']':
			inClass = false
		case '/':
			if !inClass {
				for isIdentPart(l.peek()) {
					l.advance() // flags
				}
				return jstoken.Token{Kind: jstoken.Regex, Lexeme: l.src[from:l.off]}
			}
		}
	}
	return jstoken.Token{
		Kind:   jstoken.Illegal,
		Lexeme: l.src[from:l.off],
		Err:    "unterminated regular expression literal",
	}
}

func (l *Lexer) scanIdentifier() jstoken.Token {
	from := l.off
	for l.off < len(l.src) {
		c := l.peek()
		if isIdentPart(c) {
			l.advance()
			continue
		}
		if c >= utf8.RuneSelf {
			r, size := utf8.DecodeRuneInString(l.src[l.off:])
			if unicode.IsLetter(r) || unicode.IsDigit(r) {
				for i := 0; i < size; i++ {
					l.advance()
				}
				continue
			}
		}
		break
	}
	name := l.src[from:l.off]
	kind := jstoken.Identifier
	if jstoken.IsKeyword(name) {
		kind = jstoken.Keyword
	}
	return jstoken.Token{Kind: kind, Lexeme: name}
}

// puncts is ordered longest first so maximal munch falls out of the scan.
var puncts = []string{
	">>>=",
	"===", "!==", ">>>", "<<=", ">>=",
	"==", "!=", "<=", ">=", "&&", "||", "++", "--", "<<", ">>",
	"+=", "-=", "*=", "/=", "%=", "&=", "|=", "^=",
	"{", "}", "(", ")", "[", "]", ";", ",", "<", ">", "+", "-", "*", "%",
	"&", "|", "^", "!", "~", "?", ":", "=", ".", "/",
}

func (l *Lexer) scanPunct() jstoken.Token {
	rest := l.src[l.off:]
	for _, p := range puncts {
		if strings.HasPrefix(rest, p) {
			for range p {
				l.advance()
			}
			return jstoken.Token{Kind: jstoken.Punct, Lexeme: p}
		}
	}
	from := l.off
	l.advance()
	return jstoken.Token{
		Kind:   jstoken.Illegal,
		Lexeme: l.src[from:l.off],
		Err:    "unexpected character",
	}
}

func isDigit(c byte) bool    { return c >= '0' && c <= '9' }
func isHexDigit(c byte) bool { return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F') }

func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= utf8.RuneSelf
}

func isIdentPart(c byte) bool { return isIdentStart(c) || isDigit(c) }
