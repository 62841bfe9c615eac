package rules

import (
	"strings"
	"testing"

	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/control"
	"github.com/lcalzada-xor/jslint/pkg/lexer"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
	"github.com/lcalzada-xor/jslint/pkg/parser"
)

// lint runs the full rule registry over one source string.
func lint(t *testing.T, src string, adjust func(*config.Config)) []models.Diagnostic {
	t.Helper()

	cfg := config.Default()
	if adjust != nil {
		adjust(cfg)
	}

	toks := lexer.New(src).Scan()
	sheet := control.Collect("test.js", toks, cfg.Known)
	res, err := parser.Parse(toks)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	log := logger.NewLoggerTo(0, &strings.Builder{})
	rctx := NewContext("test.js", src, cfg, sheet, toks, res, log)
	NewRegistry().Run(rctx)
	return rctx.Diagnostics()
}

func rulesOf(diags []models.Diagnostic) []string {
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Rule
	}
	return out
}

func countRule(diags []models.Diagnostic, rule string) int {
	n := 0
	for _, d := range diags {
		if d.Rule == rule {
			n++
		}
	}
	return n
}

func TestRuleFindings(t *testing.T) {
	tests := []struct {
		name string
		src  string
		rule string
		want int
	}{
		// disallow-missing-semicolon
		{"missing semicolon", "var a = 1\nvar b = 2;", config.RuleMissingSemicolon, 1},
		{"semicolons present", "var a = 1;\nvar b = 2;", config.RuleMissingSemicolon, 0},

		// disallow-missing-break
		{"fallthrough between cases", "switch (a) { case 1: f(); case 2: g(); break; }", config.RuleMissingBreak, 1},
		{"all cases terminated", "switch (a) { case 1: return; case 2: break; }", config.RuleMissingBreak, 0},
		{"empty case shares body", "switch (a) { case 1: case 2: f(); break; }", config.RuleMissingBreak, 0},
		{"last case without break", "switch (a) { case 1: f(); }", config.RuleMissingBreak, 1},
		{"throw terminates a case", "switch (a) { case 1: throw e; case 2: break; }", config.RuleMissingBreak, 0},

		// disallow-default-not-at-end
		{"default in the middle", "switch (a) { default: break; case 1: break; }", config.RuleDefaultNotAtEnd, 1},
		{"default at end", "switch (a) { case 1: break; default: break; }", config.RuleDefaultNotAtEnd, 0},

		// disallow-duplicate-case
		{"duplicate case", "switch (a) { case 1: break; case 1: break; }", config.RuleDuplicateCase, 1},
		{"duplicate expression case", "switch (a) { case x + 1: break; case x  +  1: break; }", config.RuleDuplicateCase, 1},
		{"distinct cases", "switch (a) { case 1: break; case 2: break; }", config.RuleDuplicateCase, 0},

		// disallow-unreachable-code
		{"code after return", "function f() { return; var y = 1; }", config.RuleUnreachableCode, 1},
		{"code after throw", "function f() { throw e; g(); }", config.RuleUnreachableCode, 1},
		{"contiguous region counts once", "function f() { return; g(); h(); }", config.RuleUnreachableCode, 1},
		{"reachable after if without else", "function f() { if (c) { return; } g(); }", config.RuleUnreachableCode, 0},
		{"unreachable after if else exits", "function f() { if (c) { return; } else { throw e; } g(); }", config.RuleUnreachableCode, 1},
		{"code after break in loop", "while (a) { break; f(); }", config.RuleUnreachableCode, 1},

		// disallow-no-break-statement
		{"while true without break", "while (true) { f(); }", config.RuleNoBreakStatement, 1},
		{"while true with break", "while (true) { if (done) { break; } }", config.RuleNoBreakStatement, 0},
		{"while true with return", "function f() { while (true) { if (done) { return; } } }", config.RuleNoBreakStatement, 0},
		{"bare for without break", "for (;;) { f(); }", config.RuleNoBreakStatement, 1},
		{"conditional loop", "while (a) { f(); }", config.RuleNoBreakStatement, 0},
		{"break in nested loop does not count", "while (true) { while (b) { break; } }", config.RuleNoBreakStatement, 1},

		// disallow-leading-trailing-decimal
		{"leading decimal", "var x = .5;", config.RuleDecimalPoint, 1},
		{"trailing decimal", "var x = 5.;", config.RuleDecimalPoint, 1},
		{"normal decimal", "var x = 0.5;", config.RuleDecimalPoint, 0},

		// disallow-octal-leading-zero
		{"octal literal", "var x = 010;", config.RuleOctalNumber, 1},
		{"zero alone", "var x = 0;", config.RuleOctalNumber, 0},
		{"hex literal", "var x = 0x10;", config.RuleOctalNumber, 0},

		// disallow-nested-comments
		{"nested comment", "/* outer /* inner */ f();", config.RuleNestedComment, 1},
		{"plain comment", "/* fine */ f();", config.RuleNestedComment, 0},

		// disallow-ambiguous-statement
		{"continuation plus", "var x = a\n+ b;", config.RuleAmbiguousStatement, 1},
		{"return split from value", "function f() { return\n1; }", config.RuleAmbiguousStatement, 1},

		// disallow-no-op-statement
		{"extra semicolon", "f();;", config.RuleNoOpStatement, 1},
		{"bare identifier", "f();\nx;", config.RuleNoOpStatement, 1},
		{"bare literal", "42;", config.RuleNoOpStatement, 1},
		{"real statement", "f();", config.RuleNoOpStatement, 0},

		// disallow-comma-statements
		{"comma statement", "a = 1, b = 2;", config.RuleCommaStatements, 1},
		{"comma in for header", "for (i = 0, j = 9; i < j; i++, j--) { f(); }", config.RuleCommaStatements, 0},

		// disallow-curly-braces-without-control
		{"free-standing block", "{ f(); }", config.RuleMeaninglessBraces, 1},
		{"block in block", "if (a) { { f(); } }", config.RuleMeaninglessBraces, 1},
		{"control block", "if (a) { f(); }", config.RuleMeaninglessBraces, 0},
		{"function body", "function f() { g(); }", config.RuleMeaninglessBraces, 0},

		// disallow-increment-decrement-misuse
		{"update inside expression", "y = ++x * 2;", config.RuleIncDecMisuse, 1},
		{"update as statement", "x++;", config.RuleIncDecMisuse, 0},
		{"update in for post", "for (i = 0; i < n; i++) { f(); }", config.RuleIncDecMisuse, 0},
		{"update in for comma post", "for (i = 0, j = 9; i < j; i++, j--) { f(); }", config.RuleIncDecMisuse, 0},

		// disallow-void
		{"void operator", "x = void 0;", config.RuleVoid, 1},
		{"no void", "x = undefined;", config.RuleVoid, 0},

		// disallow-successive-sign-operators
		{"plus plus plus", "y = x+++z;", config.RuleSuccessiveSigns, 1},
		{"minus minus minus", "y = x---z;", config.RuleSuccessiveSigns, 1},
		{"plus unary plus", "y = a + +b;", config.RuleSuccessiveSigns, 1},
		{"plain addition", "y = a + b;", config.RuleSuccessiveSigns, 0},
		{"plus then negate", "y = a + -b;", config.RuleSuccessiveSigns, 0},

		// disallow-labeled-loops
		{"labeled while", "out: while (a) { break out; }", config.RuleLabeledLoops, 1},
		{"labeled for", "out: for (;;) { break out; }", config.RuleLabeledLoops, 1},
		{"labeled block", "sec: { f(); }", config.RuleLabeledLoops, 0},

		// disallow-with-statement
		{"with statement", "with (o) { f(); }", config.RuleWithStatement, 1},

		// disallow-unreferenced-regex
		{"regex as statement", "/ab/;", config.RuleMisplacedRegex, 1},
		{"regex assigned", "x = /ab/;", config.RuleMisplacedRegex, 0},
		{"regex in var init", "var x = /ab/;", config.RuleMisplacedRegex, 0},
		{"regex as argument", "f(/ab/);", config.RuleMisplacedRegex, 0},
		{"regex method call", "x = /ab/.test(s);", config.RuleMisplacedRegex, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := lint(t, tt.src, nil)
			if got := countRule(diags, tt.rule); got != tt.want {
				t.Errorf("%s count = %d, want %d\nall: %v", tt.rule, got, tt.want, rulesOf(diags))
			}
		})
	}
}

func TestMissingBreakMessages(t *testing.T) {
	diags := lint(t, "switch (a) { case 1: f(); case 2: g(); }", nil)
	var msgs []string
	for _, d := range diags {
		if d.Rule == config.RuleMissingBreak {
			msgs = append(msgs, d.Message)
		}
	}
	if len(msgs) != 2 {
		t.Fatalf("got %d missing-break diagnostics %v, want 2", len(msgs), msgs)
	}
	if msgs[0] != "missing break statement" {
		t.Errorf("inner message = %q", msgs[0])
	}
	if msgs[1] != "missing break statement for last case in switch" {
		t.Errorf("last-case message = %q", msgs[1])
	}
}

func TestLastCaseExemption(t *testing.T) {
	src := "switch (a) { case 1: f(); }"
	if n := countRule(lint(t, src, nil), config.RuleMissingBreak); n != 1 {
		t.Fatalf("default config: got %d, want 1", n)
	}
	exempt := func(c *config.Config) { c.Set(config.RuleMissingBreakLast, true) }
	if n := countRule(lint(t, src, exempt), config.RuleMissingBreak); n != 0 {
		t.Fatalf("with exemption: got %d, want 0", n)
	}
}

func TestFallthruComment(t *testing.T) {
	src := "switch (a) { case 1: f(); /*jsl:fallthru*/ case 2: g(); break; }"
	if n := countRule(lint(t, src, nil), config.RuleMissingBreak); n != 0 {
		t.Fatalf("fallthru comment ignored: got %d diagnostics", n)
	}
}

func TestSuppressionToggles(t *testing.T) {
	src := "/*jsl:-disallow-void*/ x = void 0; /*jsl:+disallow-void*/ y = void 0;"
	diags := lint(t, src, nil)
	if n := countRule(diags, config.RuleVoid); n != 1 {
		t.Fatalf("got %d void diagnostics %v, want 1 (second statement only)", n, diags)
	}
}

func TestIgnoreRegion(t *testing.T) {
	src := "/*jsl:ignore*/ x = void 0; y = 010; /*jsl:end*/ z = void 0;"
	diags := lint(t, src, nil)
	if n := countRule(diags, config.RuleVoid); n != 1 {
		t.Errorf("void count = %d, want 1", n)
	}
	if n := countRule(diags, config.RuleOctalNumber); n != 0 {
		t.Errorf("octal count = %d, want 0", n)
	}
}

func TestDisabledRuleReportsNothing(t *testing.T) {
	off := func(c *config.Config) { c.Set(config.RuleWithStatement, false) }
	diags := lint(t, "with (o) { f(); }", off)
	if n := countRule(diags, config.RuleWithStatement); n != 0 {
		t.Fatalf("disabled rule still reported %d times", n)
	}
}

func TestRequireCurlyOptIn(t *testing.T) {
	src := "if (a) f();\nif (b) { g(); } else if (c) { h(); }\nwhile (d) k();"
	if n := countRule(lint(t, src, nil), config.RuleRequireCurly); n != 0 {
		t.Fatalf("rule ran while disabled: %d diagnostics", n)
	}
	on := func(c *config.Config) { c.Set(config.RuleRequireCurly, true) }
	diags := lint(t, src, on)
	// The bare if body and the bare while body; the else-if chain is fine.
	if n := countRule(diags, config.RuleRequireCurly); n != 2 {
		t.Fatalf("got %d require-curly diagnostics %v, want 2", n, diags)
	}
}

func TestUnreachableSpanCoversRegion(t *testing.T) {
	diags := lint(t, "function f() {\nreturn;\ng();\nh();\n}", nil)
	var region *models.Diagnostic
	for i, d := range diags {
		if d.Rule == config.RuleUnreachableCode {
			region = &diags[i]
		}
	}
	if region == nil {
		t.Fatal("no unreachable-code diagnostic")
	}
	if region.Span.Start.Line != 3 || region.Span.End.Line != 4 {
		t.Errorf("region spans lines %d-%d, want 3-4", region.Span.Start.Line, region.Span.End.Line)
	}
}
