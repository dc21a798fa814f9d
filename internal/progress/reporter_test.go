package progress

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestStageReporter(t *testing.T) {
	withTerminal(t, false)

	out := &syncBuffer{}
	r := NewStageReporter(out, false)

	r.Skip("Fetching page")
	r.Start("Generating layout")
	r.Done("Generating layout", 1500*time.Millisecond)
	r.Start("Parsing response")
	r.Fail("Parsing response", errors.New("no components"))

	got := out.String()
	for _, want := range []string{
		"Fetching page (skipped)",
		"Generating layout...",
		"ok  Generating layout (1.5s)",
		"Parsing response failed",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestStageReporter_Quiet(t *testing.T) {
	withTerminal(t, false)

	out := &syncBuffer{}
	r := NewStageReporter(out, true)

	r.Start("Fetching page")
	r.Done("Fetching page", time.Second)
	r.Skip("Analyzing structure")
	if out.String() != "" {
		t.Errorf("quiet reporter printed %q", out.String())
	}

	r.Fail("Writing files", errors.New("disk full"))
	if !strings.Contains(out.String(), "Writing files failed") {
		t.Error("quiet reporter should still report failures")
	}
}
