package jstoken

import "github.com/lcalzada-xor/jslint/pkg/models"

// Kind classifies a token.
type Kind int

const (
	EOF Kind = iota
	Identifier
	Keyword
	Number
	String
	Regex
	Punct
	Comment
	// Illegal marks a malformed construct (unterminated string, comment or
	// regex, bad escape). The lexer emits it instead of failing so the
	// parser can recover or abort the unit gracefully.
	Illegal
)

var kindNames = map[Kind]string{
	EOF:        "eof",
	Identifier: "identifier",
	Keyword:    "keyword",
	Number:     "number",
	String:     "string",
	Regex:      "regex",
	Punct:      "punctuator",
	Comment:    "comment",
	Illegal:    "illegal",
}

func (k Kind) String() string { return kindNames[k] }

// NumFlag records questionable shapes of a numeric literal. The lexer sets
// these; the number rules turn them into diagnostics.
type NumFlag uint8

const (
	// NumLeadingDecimal is set for literals like `.5`.
	NumLeadingDecimal NumFlag = 1 << iota
	// NumTrailingDecimal is set for literals like `5.`.
	NumTrailingDecimal
	// NumOctal is set for a leading zero followed by digits, e.g. `010`.
	NumOctal
)

// Token is one lexical element of a source unit.
type Token struct {
	Kind   Kind
	Lexeme string
	Span   models.Span

	// NewlineBefore is true when at least one line terminator (possibly
	// inside a block comment) separates this token from the previous one.
	// Automatic semicolon insertion keys off it.
	NewlineBefore bool

	// NestedComment is set on comment tokens whose body contains another
	// comment opener.
	NestedComment bool

	// LineComment distinguishes // comments from /* */ comments.
	LineComment bool

	NumFlags NumFlag

	// Err carries the problem description for Illegal tokens.
	Err string
}

// Pos returns the start position of the token.
func (t Token) Pos() models.Position { return t.Span.Start }

// Is reports whether the token is the given punctuator or keyword.
func (t Token) Is(lexeme string) bool {
	return (t.Kind == Punct || t.Kind == Keyword) && t.Lexeme == lexeme
}

var keywords = map[string]bool{
	"break": true, "case": true, "catch": true, "continue": true,
	"default": true, "delete": true, "do": true, "else": true,
	"false": true, "finally": true, "for": true, "function": true,
	"if": true, "in": true, "instanceof": true, "new": true, "null": true,
	"return": true, "switch": true, "this": true, "throw": true,
	"true": true, "try": true, "typeof": true, "var": true, "void": true,
	"while": true, "with": true,
}

// IsKeyword reports whether name is a reserved word.
func IsKeyword(name string) bool { return keywords[name] }

// RegexAllowedAfter reports whether a `/` following prev starts a regular
// expression literal rather than a division. A regex may start at the
// beginning of input, after an operator or opening punctuator, and after
// keywords such as `return` or `case`; it may not follow a value-producing
// token. The same classification backs the misplaced-regex rule.
func RegexAllowedAfter(prev *Token) bool {
	if prev == nil {
		return true
	}
	switch prev.Kind {
	case Identifier, Number, String, Regex:
		return false
	case Keyword:
		switch prev.Lexeme {
		case "this", "true", "false", "null":
			return false
		}
		return true
	case Punct:
		switch prev.Lexeme {
		case ")", "]", "}", "++", "--":
			return false
		}
		return true
	}
	return true
}
