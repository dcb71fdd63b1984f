// Command contentcheck validates a content directory offline: file shapes,
// record fields, duplicate ids and whether every solution passes its own
// grading rule. It exits non-zero when it finds errors.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/p-n-ai/b1-trainer/internal/content"
	"github.com/p-n-ai/b1-trainer/internal/practice"
	"github.com/p-n-ai/b1-trainer/internal/platform/config"
)

type result struct {
	Issues   []content.Issue    `json:"issues"`
	Findings []practice.Finding `json:"findings"`
	Stats    content.Stats      `json:"stats"`
}

func (r result) failed(strict bool) bool {
	if len(r.Findings) > 0 {
		return true
	}
	for _, i := range r.Issues {
		if i.Severity == content.SeverityError || strict {
			return true
		}
	}
	return false
}

func main() {
	_ = config.LoadDotEnv(".env")
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "load config: %v\n", err)
		return 2
	}

	fs := flag.NewFlagSet("contentcheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	root := fs.String("root", cfg.Content.Path, "content root directory")
	asJSON := fs.Bool("json", false, "print the report as JSON")
	strict := fs.Bool("strict", false, "treat warnings as failures")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	info, err := os.Stat(*root)
	if err != nil || !info.IsDir() {
		fmt.Fprintf(stderr, "content root %q is not a directory\n", *root)
		return 2
	}

	layout := content.Layout{
		LevelsDir:      cfg.Content.LevelsDir,
		DictionaryDir:  cfg.Content.DictionaryDir,
		DictionaryFile: cfg.Content.DictionaryFile,
		EmailsFile:     cfg.Content.EmailsFile,
	}
	fsys := os.DirFS(*root)
	cat := content.Load(fsys, layout)
	res := result{
		Issues:   content.Validate(fsys, layout).Issues,
		Findings: practice.SelfCheck(cat),
		Stats:    cat.Stats(),
	}
	if res.Issues == nil {
		res.Issues = []content.Issue{}
	}
	if res.Findings == nil {
		res.Findings = []practice.Finding{}
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintf(stderr, "write report: %v\n", err)
			return 2
		}
	} else {
		for _, i := range res.Issues {
			fmt.Fprintln(stdout, i)
		}
		for _, f := range res.Findings {
			fmt.Fprintf(stdout, "error: solution: %s\n", f)
		}
		fmt.Fprintf(stdout, "%d modules, %d cards, %d dictionary entries, %d emails; %d issues, %d solution findings\n",
			res.Stats.Modules, res.Stats.Cards, res.Stats.DictionaryEntries, res.Stats.Emails,
			len(res.Issues), len(res.Findings))
	}

	if res.failed(*strict) {
		return 1
	}
	return 0
}
