// Package progress reports pipeline stages to the user: an animated spinner
// on a terminal, plain lines otherwise.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"golang.org/x/term"
)

// IsTerminalFunc is the function used to check if a file descriptor is a terminal.
// It can be overridden for testing.
var IsTerminalFunc = term.IsTerminal

// IsTerminal reports whether w is a terminal. Writers that are not files
// never are.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return IsTerminalFunc(-1)
	}
	return IsTerminalFunc(int(f.Fd()))
}

// FormatBytes formats a byte count in human-readable form.
func FormatBytes(b int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case b >= GB:
		return fmt.Sprintf("%.1fGB", float64(b)/GB)
	case b >= MB:
		return fmt.Sprintf("%.1fMB", float64(b)/MB)
	case b >= KB:
		return fmt.Sprintf("%.1fKB", float64(b)/KB)
	default:
		return fmt.Sprintf("%dB", b)
	}
}

// FormatElapsed renders a stage duration: milliseconds below one second,
// tenths of a second below a minute, M:SS above.
func FormatElapsed(d time.Duration) string {
	switch {
	case d < 0:
		d = 0
		fallthrough
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		s := int(d.Seconds())
		return fmt.Sprintf("%d:%02d", s/60, s%60)
	}
}
