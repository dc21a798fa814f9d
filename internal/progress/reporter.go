package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// StageReporter prints one line per pipeline stage. While a stage runs on a
// terminal, a spinner animates next to its label.
type StageReporter struct {
	mu      sync.Mutex
	out     io.Writer
	spinner *Spinner
	quiet   bool
}

// NewStageReporter writes to out (os.Stderr when nil). A quiet reporter
// prints only failures.
func NewStageReporter(out io.Writer, quiet bool) *StageReporter {
	if out == nil {
		out = os.Stderr
	}
	return &StageReporter{out: out, spinner: NewSpinner(out), quiet: quiet}
}

func (r *StageReporter) Start(stage string) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Start(stage + "...")
}

func (r *StageReporter) Done(stage string, elapsed time.Duration) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.StopWithMessage(fmt.Sprintf("  ok  %s (%s)", stage, FormatElapsed(elapsed)))
}

func (r *StageReporter) Skip(stage string) {
	if r.quiet {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, "  --  %s (skipped)\n", stage)
}

func (r *StageReporter) Fail(stage string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.spinner.Stop()
	fmt.Fprintf(r.out, "  !!  %s failed\n", stage)
}
