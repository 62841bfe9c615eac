// Package rules hosts the registry of lint checks. Each rule is an
// independent unit keyed by its config id: it subscribes to AST node kinds
// (or to the token stream and parse records), reads the analysis state, and
// emits diagnostics. Rules never mutate the AST and never depend on each
// other's order.
package rules

import (
	"strings"

	"github.com/lcalzada-xor/jslint/pkg/ast"
	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/control"
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
	"github.com/lcalzada-xor/jslint/pkg/parser"
)

// Context gives rules read-only access to one unit's analysis artifacts and
// owns the diagnostics sink for that unit.
type Context struct {
	Unit   string
	Source string
	Config *config.Config
	Sheet  *control.Sheet
	Tokens []jstoken.Token
	Parse  *parser.Result
	Log    *logger.Logger

	diags []models.Diagnostic
}

// NewContext assembles a rule context for one unit.
func NewContext(unit, source string, cfg *config.Config, sheet *control.Sheet,
	toks []jstoken.Token, res *parser.Result, log *logger.Logger) *Context {
	return &Context{
		Unit:   unit,
		Source: source,
		Config: cfg,
		Sheet:  sheet,
		Tokens: toks,
		Parse:  res,
		Log:    log,
	}
}

// Report emits a warning for rule at span unless an active control
// directive suppresses it at that position.
func (c *Context) Report(rule string, span models.Span, msg string) {
	if c.Sheet != nil && c.Sheet.Suppressed(rule, span.Start) {
		c.Log.VV("%s: suppressed %s at line %d", c.Unit, rule, span.Start.Line)
		return
	}
	c.diags = append(c.diags, models.Diagnostic{
		Unit:     c.Unit,
		Rule:     rule,
		Severity: models.SeverityWarning,
		Message:  msg,
		Span:     span,
	})
}

// Diagnostics returns everything reported so far.
func (c *Context) Diagnostics() []models.Diagnostic {
	return c.diags
}

// Snippet returns the source text for a span, for checks that compare
// expressions textually.
func (c *Context) Snippet(span models.Span) string {
	from, to := span.Start.Offset, span.End.Offset
	if from < 0 {
		from = 0
	}
	if to > len(c.Source) {
		to = len(c.Source)
	}
	if from >= to {
		return ""
	}
	return c.Source[from:to]
}

// normalized collapses whitespace so textually equal expressions compare
// equal regardless of formatting.
func normalized(snippet string) string {
	return strings.Join(strings.Fields(snippet), " ")
}

// Rule is a check driven by AST node kinds.
type Rule interface {
	// ID is the config id the rule is toggled by.
	ID() string
	// Nodes lists the node kinds the rule wants to see.
	Nodes() []ast.Kind
	// Check examines one subscribed node. path runs from the root to the
	// node's parent.
	Check(n ast.Node, path []ast.Node, rctx *Context)
}

// StreamRule is a check driven by the token stream or the parse records
// rather than tree nodes; it runs once per unit.
type StreamRule interface {
	ID() string
	Run(rctx *Context)
}

// Registry holds every registered rule, indexed by subscription.
type Registry struct {
	byKind map[ast.Kind][]Rule
	stream []StreamRule
}

// NewRegistry returns a registry with all built-in rules registered.
func NewRegistry() *Registry {
	r := &Registry{byKind: make(map[ast.Kind][]Rule)}

	for _, rule := range []Rule{
		&missingBreakRule{},
		&defaultNotAtEndRule{},
		&duplicateCaseRule{},
		&decimalPointRule{},
		&octalNumberRule{},
		&noOpStatementRule{},
		&commaStatementsRule{},
		&meaninglessBracesRule{},
		&requireCurlyRule{},
		&labeledLoopRule{},
		&withStatementRule{},
		&noBreakLoopRule{},
		&incDecMisuseRule{},
		&voidRule{},
		&successiveSignsRule{},
		&misplacedRegexRule{},
	} {
		r.register(rule)
	}

	r.stream = []StreamRule{
		&missingSemicolonRule{},
		&ambiguousStatementRule{},
		&nestedCommentRule{},
	}
	return r
}

func (r *Registry) register(rule Rule) {
	for _, k := range rule.Nodes() {
		r.byKind[k] = append(r.byKind[k], rule)
	}
}

// Run evaluates every enabled rule against the unit in rctx. The dedicated
// reachability pass runs first so its flags are in place before the walk.
func (r *Registry) Run(rctx *Context) {
	if rctx.Parse == nil || rctx.Parse.Program == nil {
		// The unit failed to parse; stream rules over tokens still apply.
		for _, sr := range r.stream {
			if _, tokenDriven := sr.(*nestedCommentRule); tokenDriven && rctx.Config.Enabled(sr.ID()) {
				sr.Run(rctx)
			}
		}
		return
	}

	for _, sr := range r.stream {
		if rctx.Config.Enabled(sr.ID()) {
			sr.Run(rctx)
		}
	}

	if rctx.Config.Enabled(config.RuleUnreachableCode) {
		markUnreachable(rctx)
	}

	ast.Walk(rctx.Parse.Program, func(n ast.Node, path []ast.Node) bool {
		for _, rule := range r.byKind[n.Kind()] {
			if rctx.Config.Enabled(rule.ID()) {
				rule.Check(n, path, rctx)
			}
		}
		return true
	})
}
