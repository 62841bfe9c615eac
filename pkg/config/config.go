// Package config holds the rule table and per-run options. Rules are
// identified by the ids used in config files and control comments.
package config

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rule ids.
const (
	RuleMissingSemicolon   = "disallow-missing-semicolon"
	RuleMissingBreak       = "disallow-missing-break"
	RuleMissingBreakLast   = "disallow-missing-break-for-last-case"
	RuleMeaninglessBraces  = "disallow-curly-braces-without-control"
	RuleDefaultNotAtEnd    = "disallow-default-not-at-end"
	RuleUnreachableCode    = "disallow-unreachable-code"
	RuleNoBreakStatement   = "disallow-no-break-statement"
	RuleDecimalPoint       = "disallow-leading-trailing-decimal"
	RuleOctalNumber        = "disallow-octal-leading-zero"
	RuleNestedComment      = "disallow-nested-comments"
	RuleAmbiguousStatement = "disallow-ambiguous-statement"
	RuleNoOpStatement      = "disallow-no-op-statement"
	RuleMisplacedRegex     = "disallow-unreferenced-regex"
	RuleCommaStatements    = "disallow-comma-statements"
	RuleIncDecMisuse       = "disallow-increment-decrement-misuse"
	RuleVoid               = "disallow-void"
	RuleSuccessiveSigns    = "disallow-successive-sign-operators"
	RuleLabeledLoops       = "disallow-labeled-loops"
	RuleWithStatement      = "disallow-with-statement"
	RuleDuplicateCase      = "disallow-duplicate-case"
	RuleRequireCurly       = "require-curly-braces"
	RuleUndeclared         = "check-undeclared-identifiers"
)

// ruleDefaults lists every recognized rule and whether it is on by default.
// RuleMissingBreakLast is an exemption: enabling it allows the final case of
// a switch to fall out without a break.
var ruleDefaults = map[string]bool{
	RuleMissingSemicolon:   true,
	RuleMissingBreak:       true,
	RuleMissingBreakLast:   false,
	RuleMeaninglessBraces:  true,
	RuleDefaultNotAtEnd:    true,
	RuleUnreachableCode:    true,
	RuleNoBreakStatement:   true,
	RuleDecimalPoint:       true,
	RuleOctalNumber:        true,
	RuleNestedComment:      true,
	RuleAmbiguousStatement: true,
	RuleNoOpStatement:      true,
	RuleMisplacedRegex:     true,
	RuleCommaStatements:    true,
	RuleIncDecMisuse:       true,
	RuleVoid:               true,
	RuleSuccessiveSigns:    true,
	RuleLabeledLoops:       true,
	RuleWithStatement:      true,
	RuleDuplicateCase:      true,
	RuleRequireCurly:       false,
	RuleUndeclared:         false,
}

// UnknownRuleError reports a rule id the configuration does not recognize.
type UnknownRuleError struct {
	ID string
}

func (e *UnknownRuleError) Error() string {
	return fmt.Sprintf("unknown rule id %q", e.ID)
}

// Config is the per-run rule state plus loader options.
type Config struct {
	rules map[string]bool

	// Concurrency bounds the parallel per-unit parse phase; 0 means one
	// worker per CPU.
	Concurrency int
}

// Default returns a Config with every rule at its default state.
func Default() *Config {
	c := &Config{rules: make(map[string]bool, len(ruleDefaults))}
	for id, on := range ruleDefaults {
		c.rules[id] = on
	}
	return c
}

// Known reports whether id names a recognized rule.
func (c *Config) Known(id string) bool {
	_, ok := c.rules[id]
	return ok
}

// Enabled reports whether the rule is active for this run.
func (c *Config) Enabled(id string) bool {
	return c.rules[id]
}

// Set switches one rule on or off.
func (c *Config) Set(id string, on bool) error {
	if !c.Known(id) {
		return &UnknownRuleError{ID: id}
	}
	c.rules[id] = on
	return nil
}

// Apply handles a +rule-id / -rule-id toggle from the command line. A bare
// id enables the rule.
func (c *Config) Apply(spec string) error {
	on := true
	switch {
	case strings.HasPrefix(spec, "+"):
		spec = spec[1:]
	case strings.HasPrefix(spec, "-"):
		on = false
		spec = spec[1:]
	}
	return c.Set(spec, on)
}

// RuleIDs returns every recognized rule id, sorted.
func (c *Config) RuleIDs() []string {
	ids := make([]string, 0, len(c.rules))
	for id := range c.rules {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// file is the YAML config file shape:
//
//	rules:
//	  disallow-missing-semicolon: true
//	  check-undeclared-identifiers: true
//	concurrency: 4
type file struct {
	Rules       map[string]bool `yaml:"rules"`
	Concurrency int             `yaml:"concurrency"`
}

// Load reads a YAML config file on top of the defaults. Unknown rule ids
// make Load fail with an UnknownRuleError so the caller can surface it as a
// config diagnostic rather than aborting the run.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	c := Default()
	c.Concurrency = f.Concurrency
	for id, on := range f.Rules {
		if err := c.Set(id, on); err != nil {
			return nil, err
		}
	}
	return c, nil
}
