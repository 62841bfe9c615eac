package lexer

import (
	"testing"

	"github.com/lcalzada-xor/jslint/pkg/jstoken"
)

// scan returns every token except the terminal EOF.
func scan(src string) []jstoken.Token {
	toks := New(src).Scan()
	return toks[:len(toks)-1]
}

func kinds(toks []jstoken.Token) []jstoken.Kind {
	out := make([]jstoken.Kind, len(toks))
	for i, t := range toks {
		out[i] = t.Kind
	}
	return out
}

func TestScanKinds(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want []jstoken.Kind
	}{
		{
			name: "assignment",
			src:  "var a = 1;",
			want: []jstoken.Kind{jstoken.Keyword, jstoken.Identifier, jstoken.Punct, jstoken.Number, jstoken.Punct},
		},
		{
			name: "string and comment",
			src:  "s = 'x'; // done",
			want: []jstoken.Kind{jstoken.Identifier, jstoken.Punct, jstoken.String, jstoken.Punct, jstoken.Comment},
		},
		{
			name: "block comment",
			src:  "/* note */ f()",
			want: []jstoken.Kind{jstoken.Comment, jstoken.Identifier, jstoken.Punct, jstoken.Punct},
		},
		{
			name: "unicode identifier",
			src:  "var señal = 1",
			want: []jstoken.Kind{jstoken.Keyword, jstoken.Identifier, jstoken.Punct, jstoken.Number},
		},
		{
			name: "compound punctuation",
			src:  "a >>>= b === c",
			want: []jstoken.Kind{jstoken.Identifier, jstoken.Punct, jstoken.Identifier, jstoken.Punct, jstoken.Identifier},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := kinds(scan(tt.src))
			if len(got) != len(tt.want) {
				t.Fatalf("got %d tokens %v, want %d", len(got), got, len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("token %d: got %s, want %s", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRegexVersusDivision(t *testing.T) {
	tests := []struct {
		name      string
		src       string
		wantRegex bool
	}{
		{"after assignment", "x = /ab/g", true},
		{"statement start", "/ab/.test(s)", true},
		{"after open paren", "f(/ab/)", true},
		{"after return", "return /ab/", true},
		{"after identifier", "a / b", false},
		{"after number", "10 / 2", false},
		{"after close paren", "(a) / 2", false},
		{"after close bracket", "a[0] / 2", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found := false
			for _, tok := range scan(tt.src) {
				if tok.Kind == jstoken.Regex {
					found = true
				}
			}
			if found != tt.wantRegex {
				t.Errorf("regex token present = %v, want %v", found, tt.wantRegex)
			}
		})
	}
}

func TestNumberFlags(t *testing.T) {
	tests := []struct {
		src  string
		want jstoken.NumFlag
	}{
		{".5", jstoken.NumLeadingDecimal},
		{"5.", jstoken.NumTrailingDecimal},
		{"010", jstoken.NumOctal},
		{"0", 0},
		{"0.5", 0},
		{"0x1F", 0},
		{"1.5e3", 0},
		{"12.", jstoken.NumTrailingDecimal},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			toks := scan(tt.src)
			if len(toks) != 1 || toks[0].Kind != jstoken.Number {
				t.Fatalf("scan(%q) = %v, want one number token", tt.src, toks)
			}
			if toks[0].NumFlags != tt.want {
				t.Errorf("flags = %b, want %b", toks[0].NumFlags, tt.want)
			}
		})
	}
}

func TestIllegalTokens(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr string
	}{
		{"unterminated string", "var s = 'abc", "unterminated string literal"},
		{"string broken by newline", "var s = 'abc\nnext()", "unterminated string literal"},
		{"unterminated comment", "/* never closed", "unterminated comment"},
		{"unterminated regex", "x = /ab", "unterminated regular expression literal"},
		{"stray character", "a = 1 # 2", "unexpected character"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			for _, tok := range scan(tt.src) {
				if tok.Kind == jstoken.Illegal {
					got = tok.Err
				}
			}
			if got != tt.wantErr {
				t.Errorf("illegal token error = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestLexingResumesAfterBrokenString(t *testing.T) {
	toks := scan("var s = 'abc\nnext()")
	var idents []string
	for _, tok := range toks {
		if tok.Kind == jstoken.Identifier {
			idents = append(idents, tok.Lexeme)
		}
	}
	if len(idents) != 2 || idents[1] != "next" {
		t.Fatalf("identifiers after broken string = %v, want [s next]", idents)
	}
}

func TestNewlineBefore(t *testing.T) {
	toks := scan("a\nb /* x\ny */ c d")
	byLexeme := make(map[string]bool)
	for _, tok := range toks {
		if tok.Kind == jstoken.Identifier {
			byLexeme[tok.Lexeme] = tok.NewlineBefore
		}
	}
	if byLexeme["a"] {
		t.Error("a should not have NewlineBefore")
	}
	if !byLexeme["b"] {
		t.Error("b should have NewlineBefore")
	}
	if !byLexeme["c"] {
		t.Error("c should have NewlineBefore (newline inside comment)")
	}
	if byLexeme["d"] {
		t.Error("d should not have NewlineBefore")
	}
}

func TestNestedCommentFlag(t *testing.T) {
	toks := scan("/* outer /* inner */ x()")
	if toks[0].Kind != jstoken.Comment || !toks[0].NestedComment {
		t.Fatalf("token = %+v, want comment with NestedComment", toks[0])
	}
	toks = scan("/* plain */ x()")
	if toks[0].NestedComment {
		t.Error("plain comment flagged as nested")
	}
}

func TestPositions(t *testing.T) {
	toks := scan("a = 1;\n  b = 2;")
	// b is the 5th token: a = 1 ; b ...
	b := toks[4]
	if b.Lexeme != "b" {
		t.Fatalf("unexpected token order: %v", toks)
	}
	if b.Span.Start.Line != 2 || b.Span.Start.Column != 3 {
		t.Errorf("b at line %d col %d, want 2:3", b.Span.Start.Line, b.Span.Start.Column)
	}
	if b.Span.Start.Offset != 9 {
		t.Errorf("b at offset %d, want 9", b.Span.Start.Offset)
	}
}
