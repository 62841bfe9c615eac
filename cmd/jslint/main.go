package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/lcalzada-xor/jslint/pkg/config"
	"github.com/lcalzada-xor/jslint/pkg/linter"
	"github.com/lcalzada-xor/jslint/pkg/loader"
	"github.com/lcalzada-xor/jslint/pkg/logger"
	"github.com/lcalzada-xor/jslint/pkg/models"
	"github.com/lcalzada-xor/jslint/pkg/output"
)

func main() {
	os.Exit(run())
}

func run() int {
	var (
		confPath     string
		outputFormat string
		jobs         int
		verbose      bool
		veryVerbose  bool
		silent       bool
		listRules    bool
	)

	// Define flags with both short and long names
	flag.StringVar(&confPath, "c", "", "Configuration file (YAML)")
	flag.StringVar(&confPath, "conf", "", "Configuration file (YAML)")

	flag.StringVar(&outputFormat, "o", "compact", "Output format: compact, human, json")
	flag.StringVar(&outputFormat, "output", "compact", "Output format: compact, human, json")

	flag.IntVar(&jobs, "j", 0, "Number of parallel workers (default: one per CPU)")
	flag.IntVar(&jobs, "jobs", 0, "Number of parallel workers (default: one per CPU)")

	flag.BoolVar(&verbose, "v", false, "Verbose output")
	flag.BoolVar(&verbose, "verbose", false, "Verbose output")

	flag.BoolVar(&veryVerbose, "vv", false, "Very verbose output (debug)")

	flag.BoolVar(&silent, "s", false, "Silent mode (report only, no summary)")
	flag.BoolVar(&silent, "silent", false, "Silent mode (report only, no summary)")

	flag.BoolVar(&listRules, "rules", false, "List recognized rule ids and exit")

	var enable ruleFlags
	flag.Var(&enable, "e", "Enable a rule (repeatable, e.g. -e check-undeclared-identifiers)")
	flag.Var(&enable, "enable", "Enable a rule (repeatable)")

	var disable ruleFlags
	flag.Var(&disable, "d", "Disable a rule (repeatable, e.g. -d disallow-with-statement)")
	flag.Var(&disable, "disable", "Disable a rule (repeatable)")

	// Custom Usage function
	flag.Usage = func() {
		h := `jslint - JavaScript static analyzer

USAGE:
  jslint [flags] file.js [file2.js ...]
  cat filelist.txt | jslint [flags]

INPUTS:
  JavaScript files are linted as-is. HTML files (.htm, .html) contribute
  their inline <script> content. Units named in /*jsl:import file.js*/
  control comments are loaded automatically.

CONFIGURATION:
  -c,  --conf string     Configuration file (YAML)
  -e,  --enable string   Enable a rule (repeatable)
  -d,  --disable string  Disable a rule (repeatable)
  -j,  --jobs int        Number of parallel workers (default: one per CPU)
       --rules           List recognized rule ids and exit

OUTPUT:
  -o,  --output string   Output format: compact, human, json (default "compact")
  -v,  --verbose         Verbose output
       -vv               Very verbose output (debug)
  -s,  --silent          Silent mode (report only, no summary)

EXIT CODES:
  0  no problems found
  1  warnings or errors reported
  2  usage or configuration error

EXAMPLES:
  jslint script.js
  jslint -o human src/*.js
  jslint -c jslint.yml -e check-undeclared-identifiers page.html
  find . -name '*.js' | jslint -o json
`
		fmt.Fprint(os.Stderr, h)
	}

	flag.Parse()

	level := logger.VerboseSilent
	if verbose {
		level = logger.VerboseNormal
	}
	if veryVerbose {
		level = logger.VerboseVery
	}
	log := logger.NewLogger(int(level))

	cfg := config.Default()
	if confPath != "" {
		loaded, err := config.Load(confPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "jslint: %v\n", err)
			return 2
		}
		cfg = loaded
	}
	for _, id := range enable {
		if err := cfg.Set(id, true); err != nil {
			fmt.Fprintf(os.Stderr, "jslint: %v\n", err)
			return 2
		}
	}
	for _, id := range disable {
		if err := cfg.Set(id, false); err != nil {
			fmt.Fprintf(os.Stderr, "jslint: %v\n", err)
			return 2
		}
	}
	if jobs > 0 {
		cfg.Concurrency = jobs
	}

	if listRules {
		for _, id := range cfg.RuleIDs() {
			state := "off"
			if cfg.Enabled(id) {
				state = "on"
			}
			fmt.Printf("%-45s %s\n", id, state)
		}
		return 0
	}

	paths := flag.Args()
	if len(paths) == 0 {
		// Read a file list from stdin, one path per line.
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			if p := sc.Text(); p != "" {
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		flag.Usage()
		return 2
	}

	ld := loader.New(log, cfg.Known)
	units, loadDiags := ld.Load(paths)

	runner := linter.NewRunner(cfg, log)
	diags, err := runner.Run(context.Background(), units)
	if err != nil {
		fmt.Fprintf(os.Stderr, "jslint: %v\n", err)
		return 2
	}
	diags = linter.Collect(append(loadDiags, diags...))

	fmt.Print(output.Format(diags, outputFormat))

	if !silent && outputFormat != "json" && outputFormat != "human" {
		errors, warnings := 0, 0
		for _, d := range diags {
			if d.Severity == models.SeverityError {
				errors++
			} else {
				warnings++
			}
		}
		fmt.Fprintf(os.Stderr, "[*] %d unit(s) checked, %d error(s), %d warning(s)\n",
			len(units), errors, warnings)
	}

	if len(diags) > 0 {
		return 1
	}
	return 0
}

// ruleFlags collects repeatable rule-id flags.
type ruleFlags []string

func (r *ruleFlags) String() string {
	return fmt.Sprint(*r)
}

func (r *ruleFlags) Set(value string) error {
	*r = append(*r, value)
	return nil
}
