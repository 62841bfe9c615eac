// Package linter drives the analysis pipeline: each unit is lexed, its
// control comments collected, and parsed concurrently; after all units are
// in, identifier references are resolved across the import graph and the
// rule registry runs per unit. Nothing a source file contains aborts the
// run: scanner and parser failures become error diagnostics and the other
// units proceed.
package linter

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/control"
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
	"github.com/lcalzada-xor/jslint/pkg/lexer"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
	"github.com/lcalzada-xor/jslint/pkg/parser"
	"github.com/lcalzada-xor/jslint/pkg/rules"
	"github.com/lcalzada-xor/jslint/pkg/scope"
)

// Diagnostic ids for the scanner and parser failure categories.
const (
	RuleLexError   = "lex-error"
	RuleParseError = "parse-error"
	RuleUndeclared = config.RuleUndeclared
)

// Runner owns the configuration and rule registry for one lint run.
type Runner struct {
	Config   *config.Config
	Log      *logger.Logger
	registry *rules.Registry
}

// NewRunner builds a Runner around cfg.
func NewRunner(cfg *config.Config, log *logger.Logger) *Runner {
	return &Runner{Config: cfg, Log: log, registry: rules.NewRegistry()}
}

// unitState carries one unit through the pipeline phases.
type unitState struct {
	unit  models.SourceUnit
	toks  []jstoken.Token
	sheet *control.Sheet
	res   *parser.Result // nil when the unit failed to parse
	diags []models.Diagnostic
}

// Run lints the units and returns the full, ordered diagnostic list. The
// per-unit phase (lex, control comments, parse) runs concurrently; the
// cross-unit resolution waits for every unit before it starts.
func (r *Runner) Run(ctx context.Context, units []models.SourceUnit) ([]models.Diagnostic, error) {
	states := make([]*unitState, len(units))
	for i, u := range units {
		states[i] = &unitState{unit: u}
	}

	workers := r.Config.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	r.Log.V("linting %d unit(s) with %d worker(s)", len(units), workers)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for _, st := range states {
		st := st
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r.parseUnit(st)
			return nil
		})
	}
	// The barrier: no cross-unit state is read until every unit is done.
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	resolver := scope.NewResolver()
	sheets := make(map[string]*control.Sheet, len(states))
	for _, st := range states {
		sheets[st.unit.Name] = st.sheet
		if st.res == nil {
			continue
		}
		us := scope.Build(st.unit.Name, st.res.Program, st.sheet.Declares())
		resolver.AddUnit(us, mergeImports(st.unit.Imports, st.sheet.Imports()))
	}

	var out []models.Diagnostic
	if r.Config.Enabled(config.RuleUndeclared) {
		for _, und := range resolver.Resolve() {
			if sheet := sheets[und.Unit]; sheet != nil && sheet.Suppressed(RuleUndeclared, und.Span.Start) {
				continue
			}
			out = append(out, models.Diagnostic{
				Unit:     und.Unit,
				Rule:     RuleUndeclared,
				Severity: models.SeverityWarning,
				Message:  "undeclared identifier: " + und.Name,
				Span:     und.Span,
			})
		}
	}

	for _, st := range states {
		out = append(out, st.diags...)
		out = append(out, st.sheet.Diags...)

		rctx := rules.NewContext(st.unit.Name, st.unit.Source, r.Config, st.sheet,
			st.toks, st.res, r.Log)
		r.registry.Run(rctx)
		out = append(out, rctx.Diagnostics()...)
	}

	return Collect(out), nil
}

// parseUnit runs the per-unit phase: scan, gather control comments, parse.
// Scanner errors become error diagnostics but leave the token stream usable;
// a parse error ends this unit's structural analysis only.
func (r *Runner) parseUnit(st *unitState) {
	name := st.unit.Name
	r.Log.VV("%s: scanning", name)

	st.toks = lexer.New(st.unit.Source).Scan()
	for _, t := range st.toks {
		if t.Kind == jstoken.Illegal {
			st.diags = append(st.diags, models.Diagnostic{
				Unit:     name,
				Rule:     RuleLexError,
				Severity: models.SeverityError,
				Message:  t.Err,
				Span:     t.Span,
			})
		}
	}

	st.sheet = control.Collect(name, st.toks, r.Config.Known)

	res, err := parser.Parse(st.toks)
	if err != nil {
		r.Log.V("%s: %v", name, err)
		span := models.Span{}
		if pe, ok := err.(*parser.ParseError); ok {
			span = models.Span{Start: pe.Pos, End: pe.Pos}
		}
		st.diags = append(st.diags, models.Diagnostic{
			Unit:     name,
			Rule:     RuleParseError,
			Severity: models.SeverityError,
			Message:  err.Error(),
			Span:     span,
		})
		return
	}
	st.res = res
}

func mergeImports(a, b []string) []string {
	if len(b) == 0 {
		return a
	}
	seen := make(map[string]bool, len(a)+len(b))
	var out []string
	for _, s := range append(append([]string{}, a...), b...) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}

// LintSource is the single-unit convenience entry used by tests and by
// embedding callers.
func LintSource(name, source string, cfg *config.Config) []models.Diagnostic {
	r := NewRunner(cfg, logger.NewLogger(int(logger.VerboseSilent)))
	diags, _ := r.Run(context.Background(), []models.SourceUnit{{Name: name, Source: source}})
	return diags
}
