package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	on := []string{
		RuleMissingSemicolon, RuleMissingBreak, RuleUnreachableCode,
		RuleOctalNumber, RuleWithStatement, RuleDuplicateCase,
	}
	for _, id := range on {
		if !cfg.Enabled(id) {
			t.Errorf("%s disabled by default, want enabled", id)
		}
	}

	off := []string{RuleMissingBreakLast, RuleRequireCurly, RuleUndeclared}
	for _, id := range off {
		if cfg.Enabled(id) {
			t.Errorf("%s enabled by default, want disabled", id)
		}
	}
}

func TestSetUnknownRule(t *testing.T) {
	cfg := Default()
	err := cfg.Set("no-such-rule", true)
	var ure *UnknownRuleError
	if !errors.As(err, &ure) {
		t.Fatalf("Set returned %v, want *UnknownRuleError", err)
	}
	if ure.ID != "no-such-rule" {
		t.Errorf("error id = %q, want no-such-rule", ure.ID)
	}
}

func TestApply(t *testing.T) {
	tests := []struct {
		spec string
		rule string
		want bool
	}{
		{"+check-undeclared-identifiers", RuleUndeclared, true},
		{"check-undeclared-identifiers", RuleUndeclared, true},
		{"-disallow-void", RuleVoid, false},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			cfg := Default()
			if err := cfg.Apply(tt.spec); err != nil {
				t.Fatalf("Apply(%q) failed: %v", tt.spec, err)
			}
			if cfg.Enabled(tt.rule) != tt.want {
				t.Errorf("%s enabled = %v, want %v", tt.rule, cfg.Enabled(tt.rule), tt.want)
			}
		})
	}
}

func TestRuleIDsSorted(t *testing.T) {
	ids := Default().RuleIDs()
	if len(ids) != len(ruleDefaults) {
		t.Fatalf("got %d ids, want %d", len(ids), len(ruleDefaults))
	}
	for i := 1; i < len(ids); i++ {
		if ids[i-1] >= ids[i] {
			t.Fatalf("ids not sorted: %q before %q", ids[i-1], ids[i])
		}
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jslint.yml")
	content := "rules:\n  disallow-void: false\n  check-undeclared-identifiers: true\nconcurrency: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Enabled(RuleVoid) {
		t.Error("disallow-void still enabled after config override")
	}
	if !cfg.Enabled(RuleUndeclared) {
		t.Error("check-undeclared-identifiers not enabled by config")
	}
	if !cfg.Enabled(RuleMissingBreak) {
		t.Error("untouched rule lost its default")
	}
	if cfg.Concurrency != 4 {
		t.Errorf("concurrency = %d, want 4", cfg.Concurrency)
	}
}

func TestLoadUnknownRule(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jslint.yml")
	if err := os.WriteFile(path, []byte("rules:\n  bogus: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(path)
	var ure *UnknownRuleError
	if !errors.As(err, &ure) {
		t.Fatalf("Load returned %v, want *UnknownRuleError", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yml")); err == nil {
		t.Fatal("Load of a missing file succeeded")
	}
}
