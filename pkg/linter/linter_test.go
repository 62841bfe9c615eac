package linter

import (
	"context"
	"reflect"
	"testing"

	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

func runUnits(t *testing.T, cfg *config.Config, units ...models.SourceUnit) []models.Diagnostic {
	t.Helper()
	r := NewRunner(cfg, logger.NewLogger(int(logger.VerboseSilent)))
	diags, err := r.Run(context.Background(), units)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	return diags
}

func filterRule(diags []models.Diagnostic, rule string) []models.Diagnostic {
	var out []models.Diagnostic
	for _, d := range diags {
		if d.Rule == rule {
			out = append(out, d)
		}
	}
	return out
}

func TestCleanProgram(t *testing.T) {
	src := "var total = 0;\nfunction add(n) {\n  total += n;\n  return total;\n}\nadd(2);\n"
	if diags := LintSource("clean.js", src, config.Default()); len(diags) != 0 {
		t.Fatalf("clean program produced diagnostics: %v", diags)
	}
}

func TestOctalPinpointed(t *testing.T) {
	diags := LintSource("test.js", "var x = 010;", config.Default())
	oct := filterRule(diags, config.RuleOctalNumber)
	if len(oct) != 1 {
		t.Fatalf("got %d octal diagnostics %v, want 1", len(oct), diags)
	}
	d := oct[0]
	if d.Span.Start.Line != 1 || d.Span.Start.Column != 9 {
		t.Errorf("diagnostic at %d:%d, want 1:9", d.Span.Start.Line, d.Span.Start.Column)
	}
	if d.Severity != models.SeverityWarning {
		t.Errorf("severity = %s, want warning", d.Severity)
	}
}

func TestUnreachableAfterReturn(t *testing.T) {
	src := "function f() {\n  return;\n  var y = 1;\n}"
	diags := filterRule(LintSource("test.js", src, config.Default()), config.RuleUnreachableCode)
	if len(diags) != 1 {
		t.Fatalf("got %d unreachable diagnostics, want 1", len(diags))
	}
	if diags[0].Span.Start.Line != 3 {
		t.Errorf("diagnostic on line %d, want 3", diags[0].Span.Start.Line)
	}
}

func TestMissingBreakOnlyForFallingCase(t *testing.T) {
	src := "switch (a) {\ncase 1:\n  x = 1;\ncase 2:\n  x = 2;\n  break;\n}"
	diags := filterRule(LintSource("test.js", src, config.Default()), config.RuleMissingBreak)
	if len(diags) != 1 {
		t.Fatalf("got %d missing-break diagnostics %v, want 1", len(diags), diags)
	}
	if diags[0].Span.Start.Line != 4 {
		t.Errorf("diagnostic on line %d, want 4 (the case fallen into)", diags[0].Span.Start.Line)
	}
}

func TestSuppressionRoundTrip(t *testing.T) {
	bare := "var x = 010;"
	if n := len(filterRule(LintSource("t.js", bare, config.Default()), config.RuleOctalNumber)); n != 1 {
		t.Fatalf("baseline: got %d, want 1", n)
	}

	suppressed := "/*jsl:-disallow-octal-leading-zero*/ var x = 010;"
	if n := len(filterRule(LintSource("t.js", suppressed, config.Default()), config.RuleOctalNumber)); n != 0 {
		t.Fatalf("suppressed: got %d, want 0", n)
	}

	reEnabled := suppressed + " /*jsl:+disallow-octal-leading-zero*/ var y = 020;"
	if n := len(filterRule(LintSource("t.js", reEnabled, config.Default()), config.RuleOctalNumber)); n != 1 {
		t.Fatalf("re-enabled: got %d, want 1", n)
	}
}

func TestLexErrorIsDiagnosticNotFatal(t *testing.T) {
	diags := LintSource("t.js", "var s = 'open\nvar ok = 1", config.Default())
	lex := filterRule(diags, RuleLexError)
	if len(lex) != 1 || lex[0].Severity != models.SeverityError {
		t.Fatalf("lex diagnostics = %v, want one error", lex)
	}
}

func TestParseErrorConfinedToUnit(t *testing.T) {
	broken := models.SourceUnit{Name: "broken.js", Source: "if (a { b(); }"}
	fine := models.SourceUnit{Name: "fine.js", Source: "var x = 010;"}
	diags := runUnits(t, config.Default(), broken, fine)

	if n := len(filterRule(diags, RuleParseError)); n != 1 {
		t.Fatalf("got %d parse errors, want 1", n)
	}
	if n := len(filterRule(diags, config.RuleOctalNumber)); n != 1 {
		t.Fatal("healthy unit was not analyzed after sibling parse error")
	}
	for _, d := range filterRule(diags, RuleParseError) {
		if d.Unit != "broken.js" {
			t.Errorf("parse error attributed to %s", d.Unit)
		}
	}
}

func TestUndeclaredAcrossImports(t *testing.T) {
	cfg := config.Default()
	cfg.Set(config.RuleUndeclared, true)

	lib := models.SourceUnit{Name: "lib.js", Source: "var shared = 1;"}
	app := models.SourceUnit{Name: "app.js", Source: "var a = shared + mystery;", Imports: []string{"lib.js"}}
	diags := filterRule(runUnits(t, cfg, lib, app), config.RuleUndeclared)

	if len(diags) != 1 {
		t.Fatalf("got %d undeclared diagnostics %v, want 1", len(diags), diags)
	}
	if diags[0].Message != "undeclared identifier: mystery" {
		t.Errorf("message = %q", diags[0].Message)
	}
}

func TestCyclicImportsTerminate(t *testing.T) {
	cfg := config.Default()
	cfg.Set(config.RuleUndeclared, true)

	a := models.SourceUnit{Name: "a.js", Source: "var fromA = fromB;", Imports: []string{"b.js"}}
	b := models.SourceUnit{Name: "b.js", Source: "var fromB = fromA;", Imports: []string{"a.js"}}
	diags := filterRule(runUnits(t, cfg, a, b), config.RuleUndeclared)
	if len(diags) != 0 {
		t.Fatalf("cyclic units: undeclared = %v, want none", diags)
	}
}

func TestImportViaControlComment(t *testing.T) {
	cfg := config.Default()
	cfg.Set(config.RuleUndeclared, true)

	lib := models.SourceUnit{Name: "lib.js", Source: "var helper = 1;"}
	app := models.SourceUnit{Name: "app.js", Source: "/*jsl:import lib.js*/\nvar x = helper;"}
	diags := filterRule(runUnits(t, cfg, lib, app), config.RuleUndeclared)
	if len(diags) != 0 {
		t.Fatalf("undeclared = %v, want none", diags)
	}
}

func TestUnknownRuleInControlComment(t *testing.T) {
	diags := LintSource("t.js", "/*jsl:-no-such-rule*/ var x = 1;", config.Default())
	cc := filterRule(diags, "control-comment")
	if len(cc) != 1 || cc[0].Severity != models.SeverityError {
		t.Fatalf("control-comment diagnostics = %v, want one error", cc)
	}
}

func TestDeterministicOrder(t *testing.T) {
	units := []models.SourceUnit{
		{Name: "b.js", Source: "var a = 010\nvar b = 5.;"},
		{Name: "a.js", Source: "with (o) { f(); }\nvar x = .5;"},
	}
	cfg := config.Default()
	cfg.Concurrency = 4

	first := runUnits(t, cfg, units...)
	for i := 0; i < 5; i++ {
		again := runUnits(t, cfg, units...)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("run %d differs:\n%v\nvs\n%v", i, first, again)
		}
	}

	for i := 1; i < len(first); i++ {
		p, q := first[i-1], first[i]
		if p.Unit > q.Unit {
			t.Fatalf("units out of order: %s after %s", q.Unit, p.Unit)
		}
		if p.Unit == q.Unit && p.Span.Start.Line > q.Span.Start.Line {
			t.Fatalf("lines out of order in %s", p.Unit)
		}
	}
}

func TestCollectDeduplicates(t *testing.T) {
	d := models.Diagnostic{Unit: "a.js", Rule: "r", Severity: models.SeverityWarning, Message: "m"}
	out := Collect([]models.Diagnostic{d, d, d})
	if len(out) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(out))
	}
}

func TestHasErrors(t *testing.T) {
	warn := models.Diagnostic{Severity: models.SeverityWarning}
	errd := models.Diagnostic{Severity: models.SeverityError}
	if HasErrors([]models.Diagnostic{warn}) {
		t.Error("warning counted as error")
	}
	if !HasErrors([]models.Diagnostic{warn, errd}) {
		t.Error("error not detected")
	}
}
