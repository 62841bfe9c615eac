// Package output renders the diagnostic list in the supported report
// formats.
package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lcalzada-xor/jslint/pkg/models"
)

// Format renders diags in the selected format: "compact" (one line per
// diagnostic, editor-friendly), "human" (grouped, colored), or "json".
func Format(diags []models.Diagnostic, format string) string {
	switch format {
	case "human":
		return formatHuman(diags)

	case "json":
		out, err := json.MarshalIndent(diags, "", "  ")
		if err != nil {
			return fmt.Sprintf("{\"error\":\"failed to marshal diagnostics: %v\"}", err)
		}
		return string(out) + "\n"

	default:
		// Compact format for pipelines and editors.
		var sb strings.Builder
		for _, d := range diags {
			sb.WriteString(fmt.Sprintf("%s(%d,%d): %s: %s [%s]\n",
				d.Unit, d.Span.Start.Line, d.Span.Start.Column, d.Severity, d.Message, d.Rule))
		}
		return sb.String()
	}
}

// formatHuman renders a grouped report (Purple Gothic Theme).
func formatHuman(diags []models.Diagnostic) string {
	cPurple := "\x1b[38;5;129m"
	cLightPurple := "\x1b[38;5;141m"
	cDarkPurple := "\x1b[38;5;93m"
	cRed := "\x1b[38;5;196m"
	cOrange := "\x1b[38;5;214m"
	cReset := "\x1b[0m"

	var sb strings.Builder
	warnings, errors := 0, 0
	currentUnit := ""

	for _, d := range diags {
		if d.Unit != currentUnit {
			currentUnit = d.Unit
			sb.WriteString(fmt.Sprintf("\n%s[+] %s%s\n", cPurple, d.Unit, cReset))
		}

		sevColor := cOrange
		if d.Severity == models.SeverityError {
			sevColor = cRed
			errors++
		} else {
			warnings++
		}

		sb.WriteString(fmt.Sprintf("    %s%d:%d%s %s%s%s %s %s[%s]%s\n",
			cDarkPurple, d.Span.Start.Line, d.Span.Start.Column, cReset,
			sevColor, d.Severity, cReset,
			d.Message,
			cLightPurple, d.Rule, cReset))
	}

	if len(diags) == 0 {
		sb.WriteString(fmt.Sprintf("%s[+] No problems found%s\n", cPurple, cReset))
		return sb.String()
	}

	sb.WriteString(fmt.Sprintf("\n%s[+] %d error(s), %d warning(s)%s\n",
		cPurple, errors, warnings, cReset))
	return sb.String()
}
