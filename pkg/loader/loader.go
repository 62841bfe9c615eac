// Package loader turns input paths into source units. JavaScript files map
// one-to-one; HTML files contribute the concatenated bodies of their inline
// <script> elements, padded so diagnostics keep the HTML file's line
// numbers. Units pulled in through import control comments are loaded
// recursively.
package loader

import (
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/lcalzada-xor/jslint/pkg/control"
	"github.com/lcalzada-xor/jslint/pkg/lexer"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

// RuleConfigError is the diagnostic id for input files that cannot be read
// or understood.
const RuleConfigError = "config-error"

// Loader reads and expands the input set.
type Loader struct {
	log   *logger.Logger
	known func(string) bool

	seen  map[string]bool
	units []models.SourceUnit
	diags []models.Diagnostic
}

// New builds a loader. known is the rule-id predicate handed to the control
// comment scanner while looking for imports.
func New(log *logger.Logger, known func(string) bool) *Loader {
	return &Loader{log: log, known: known, seen: make(map[string]bool)}
}

// Load reads every path, follows import directives, and returns the units
// plus any diagnostics raised while loading. An unreadable file yields a
// diagnostic, not a failed run.
func (l *Loader) Load(paths []string) ([]models.SourceUnit, []models.Diagnostic) {
	for _, p := range paths {
		l.loadPath(p)
	}
	return l.units, l.diags
}

func (l *Loader) loadPath(path string) {
	key := filepath.Clean(path)
	if l.seen[key] {
		return
	}
	l.seen[key] = true

	data, err := os.ReadFile(path)
	if err != nil {
		l.diags = append(l.diags, models.Diagnostic{
			Unit:     key,
			Rule:     RuleConfigError,
			Severity: models.SeverityError,
			Message:  "cannot read input: " + err.Error(),
		})
		return
	}

	source := string(data)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".htm", ".html":
		source = extractScripts(source)
	}

	unit := models.SourceUnit{Name: key, Source: source}

	// Imports are resolved relative to the importing file and loaded before
	// the unit is appended, keeping the unit list in dependency order where
	// the graph allows it.
	for _, imp := range scanImports(key, source, l.known) {
		resolved := imp
		if !filepath.IsAbs(imp) {
			resolved = filepath.Join(filepath.Dir(path), imp)
		}
		resolved = filepath.Clean(resolved)
		l.log.VV("%s: imports %s", key, resolved)
		unit.Imports = append(unit.Imports, resolved)
		l.loadPath(resolved)
	}

	l.units = append(l.units, unit)
}

// scanImports lexes the unit just enough to read its control comments.
func scanImports(name, source string, known func(string) bool) []string {
	toks := lexer.New(source).Scan()
	return control.Collect(name, toks, known).Imports()
}

// extractScripts rewrites an HTML document as the concatenation of its
// inline script bodies. Every script body is preceded by enough newlines to
// land on the same line it occupies in the HTML file, so spans reported
// against the unit point at the right place in the original document.
func extractScripts(doc string) string {
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		// Malformed markup: treat the document as containing no script.
		return ""
	}

	var sb strings.Builder
	emitted := 0 // newlines written so far
	cursor := 0  // search position in the raw document

	var visit func(*html.Node)
	visit = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "script" && !hasSrc(n) {
			text := scriptText(n)
			if strings.TrimSpace(text) != "" {
				line := lineOf(doc, &cursor, text)
				for emitted < line {
					sb.WriteByte('\n')
					emitted++
				}
				sb.WriteString(text)
				emitted += strings.Count(text, "\n")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			visit(c)
		}
	}
	visit(root)
	return sb.String()
}

func hasSrc(n *html.Node) bool {
	for _, a := range n.Attr {
		if strings.EqualFold(a.Key, "src") {
			return true
		}
	}
	return false
}

func scriptText(n *html.Node) string {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
	}
	return sb.String()
}

// lineOf locates text in the raw document at or after *cursor and returns
// the 0-based line it starts on, advancing the cursor past it. A script the
// parser normalized away from its raw form falls back to the cursor line.
func lineOf(doc string, cursor *int, text string) int {
	idx := strings.Index(doc[*cursor:], text)
	if idx < 0 {
		return strings.Count(doc[:*cursor], "\n")
	}
	abs := *cursor + idx
	*cursor = abs + len(text)
	return strings.Count(doc[:abs], "\n")
}
