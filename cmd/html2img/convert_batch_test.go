package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/alnah/go-html2img"
)

func TestProgressPrinter(t *testing.T) {
	t.Parallel()

	ok := html2img.ItemResult{Input: "a.html", Output: "out/a.png", Duration: 1234567 * time.Microsecond}
	failed := html2img.ItemResult{Index: 1, Input: "b.html", Err: errors.New("navigate failed")}

	tests := []struct {
		name       string
		quiet      bool
		wantStdout string
		wantStderr string
	}{
		{
			name:       "normal",
			wantStdout: "[1/2] OK a.html -> out/a.png (1.235s)\n",
			wantStderr: "[2/2] FAILED b.html: navigate failed\n",
		},
		{
			name:       "quiet keeps failures",
			quiet:      true,
			wantStdout: "",
			wantStderr: "[2/2] FAILED b.html: navigate failed\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			env, stdout, stderr := testEnv()
			p := newProgressPrinter(env, tt.quiet, false)
			p.progress(1, 2, ok)
			p.progress(2, 2, failed)

			if stdout.String() != tt.wantStdout {
				t.Errorf("stdout = %q, want %q", stdout.String(), tt.wantStdout)
			}
			if stderr.String() != tt.wantStderr {
				t.Errorf("stderr = %q, want %q", stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestPrintSummary(t *testing.T) {
	t.Parallel()

	outcome := html2img.BatchOutcome{RunID: "01J0000000000000000000TEST", Total: 3, Succeeded: 2, Canceled: true}

	t.Run("verbose", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv()
		printSummary(env, outcome, 1500*time.Millisecond, false, true)
		output := stdout.String()

		for _, want := range []string{
			"2 succeeded, 1 failed (run 01J0000000000000000000TEST)",
			"Canceled",
			"Finished in 1.5s",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("summary should contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("quiet", func(t *testing.T) {
		t.Parallel()

		env, stdout, _ := testEnv()
		printSummary(env, outcome, time.Second, true, false)
		if stdout.Len() != 0 {
			t.Errorf("quiet summary printed %q", stdout.String())
		}
	})
}
