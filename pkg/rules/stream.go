package rules

import (
	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/jstoken"
)

// missingSemicolonRule reports every point where the parser had to insert a
// semicolon to keep going.
type missingSemicolonRule struct{}

func (*missingSemicolonRule) ID() string { return config.RuleMissingSemicolon }

func (r *missingSemicolonRule) Run(rctx *Context) {
	for _, span := range rctx.Parse.Inserted {
		rctx.Report(config.RuleMissingSemicolon, span, "missing semicolon")
	}
}

// ambiguousStatementRule reports line breaks where automatic semicolon
// insertion makes the statement boundary genuinely unclear: a restricted
// production split across lines, or a line starting with a token that glues
// onto the previous line.
type ambiguousStatementRule struct{}

func (*ambiguousStatementRule) ID() string { return config.RuleAmbiguousStatement }

func (r *ambiguousStatementRule) Run(rctx *Context) {
	for _, span := range rctx.Parse.Ambiguous {
		rctx.Report(config.RuleAmbiguousStatement, span,
			"unexpected end of line; it is ambiguous whether these lines are part of the same statement")
	}
}

// nestedCommentRule reports block comments whose body contains another
// comment opener, the usual symptom of a truncated outer comment.
type nestedCommentRule struct{}

func (*nestedCommentRule) ID() string { return config.RuleNestedComment }

func (r *nestedCommentRule) Run(rctx *Context) {
	for _, t := range rctx.Tokens {
		if t.Kind == jstoken.Comment && t.NestedComment {
			rctx.Report(config.RuleNestedComment, t.Span, "nested comment")
		}
	}
}
