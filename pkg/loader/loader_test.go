package loader

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
)

func newLoader() *Loader {
	return New(logger.NewLogger(int(logger.VerboseSilent)), config.Default().Known)
}

func write(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func unitByName(units []models.SourceUnit, name string) *models.SourceUnit {
	for i := range units {
		if units[i].Name == name {
			return &units[i]
		}
	}
	return nil
}

func TestLoadPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.js", "var x = 1;\n")

	units, diags := newLoader().Load([]string{path})
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(units) != 1 || units[0].Source != "var x = 1;\n" {
		t.Fatalf("units = %+v", units)
	}
}

func TestLoadMissingFile(t *testing.T) {
	units, diags := newLoader().Load([]string{filepath.Join(t.TempDir(), "nope.js")})
	if len(units) != 0 {
		t.Fatalf("units = %+v, want none", units)
	}
	if len(diags) != 1 || diags[0].Rule != RuleConfigError || diags[0].Severity != models.SeverityError {
		t.Fatalf("diagnostics = %v, want one config error", diags)
	}
}

func TestImportsAreFollowed(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "lib.js", "var helper = 1;\n")
	app := write(t, dir, "app.js", "/*jsl:import lib.js*/\nvar x = helper;\n")

	units, diags := newLoader().Load([]string{app})
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2 (app + imported lib)", len(units))
	}

	appUnit := unitByName(units, filepath.Clean(app))
	if appUnit == nil {
		t.Fatal("app unit missing")
	}
	libPath := filepath.Clean(filepath.Join(dir, "lib.js"))
	if len(appUnit.Imports) != 1 || appUnit.Imports[0] != libPath {
		t.Errorf("imports = %v, want [%s]", appUnit.Imports, libPath)
	}
	if unitByName(units, libPath) == nil {
		t.Error("imported unit not loaded")
	}
}

func TestImportCycleLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.js", "/*jsl:import b.js*/\nvar fromA = 1;\n")
	write(t, dir, "b.js", "/*jsl:import a.js*/\nvar fromB = 1;\n")

	units, diags := newLoader().Load([]string{filepath.Join(dir, "a.js")})
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(units) != 2 {
		t.Fatalf("got %d units, want 2", len(units))
	}
}

func TestHTMLScriptExtraction(t *testing.T) {
	doc := `<html>
<head><title>t</title></head>
<body>
<script>
var a = 010;
</script>
<p>text</p>
<script src="remote.js"></script>
<script>
var b = 2;
</script>
</body>
</html>
`
	dir := t.TempDir()
	path := write(t, dir, "page.html", doc)

	units, diags := newLoader().Load([]string{path})
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}

	src := units[0].Source
	if strings.Contains(src, "<p>") || strings.Contains(src, "remote.js") {
		t.Fatalf("markup leaked into the unit:\n%s", src)
	}

	// The script bodies keep their document line numbers.
	lines := strings.Split(src, "\n")
	if len(lines) < 10 || strings.TrimSpace(lines[4]) != "var a = 010;" {
		t.Errorf("line 5 = %q, want the first script statement", lines[4])
	}
	if strings.TrimSpace(lines[9]) != "var b = 2;" {
		t.Errorf("line 10 = %q, want the second script statement", lines[9])
	}
}

func TestHTMLWithoutScripts(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "page.html", "<html><body><p>nothing</p></body></html>")

	units, diags := newLoader().Load([]string{path})
	if len(diags) != 0 {
		t.Fatalf("diagnostics: %v", diags)
	}
	if len(units) != 1 || strings.TrimSpace(units[0].Source) != "" {
		t.Fatalf("units = %+v, want one empty unit", units)
	}
}

func TestDuplicateInputLoadsOnce(t *testing.T) {
	dir := t.TempDir()
	path := write(t, dir, "a.js", "var x = 1;\n")
	units, _ := newLoader().Load([]string{path, path})
	if len(units) != 1 {
		t.Fatalf("got %d units, want 1", len(units))
	}
}
