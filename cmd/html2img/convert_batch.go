package main

import (
	"fmt"
	"time"

	"github.com/alnah/go-html2img"
)

// progressPrinter reports each finished item as the batch runs.
type progressPrinter struct {
	env     *Environment
	quiet   bool
	verbose bool
}

func newProgressPrinter(env *Environment, quiet, verbose bool) *progressPrinter {
	return &progressPrinter{env: env, quiet: quiet, verbose: verbose}
}

// progress implements html2img.ProgressFunc. Failures always go to stderr;
// successes are silent with --quiet.
func (p *progressPrinter) progress(done, total int, item html2img.ItemResult) {
	if item.Err != nil {
		fmt.Fprintf(p.env.Stderr, "[%d/%d] FAILED %s: %v\n", done, total, item.Input, item.Err)
		return
	}
	if p.quiet {
		return
	}
	fmt.Fprintf(p.env.Stdout, "[%d/%d] OK %s -> %s (%v)\n", done, total, item.Input, item.Output, item.Duration.Round(time.Millisecond))
}

// printSummary outputs the batch totals and run ID.
func printSummary(env *Environment, outcome html2img.BatchOutcome, elapsed time.Duration, quiet, verbose bool) {
	if quiet {
		return
	}
	fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed (run %s)\n", outcome.Succeeded, outcome.Failed(), outcome.RunID)
	if outcome.Canceled {
		fmt.Fprintln(env.Stdout, "Canceled before every input was converted")
	}
	if verbose {
		fmt.Fprintf(env.Stdout, "Finished in %v\n", elapsed.Round(time.Millisecond))
	}
}
