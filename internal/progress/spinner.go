package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// spinnerFrames defines the animation characters for the spinner.
var spinnerFrames = []string{"|", "/", "-", "\\"}

// spinnerInterval is the time between spinner frame updates.
const spinnerInterval = 100 * time.Millisecond

const lineWidth = 80

// Spinner displays an animated spinner with a message during long operations.
// In non-TTY environments, it prints the message once without animation.
// A stopped Spinner may be started again.
type Spinner struct {
	mu      sync.Mutex
	output  io.Writer
	message string
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
	isTTY   bool
}

// NewSpinner creates a new spinner that writes to the given output.
// If output is nil, os.Stderr is used.
func NewSpinner(output io.Writer) *Spinner {
	if output == nil {
		output = os.Stderr
	}
	return &Spinner{
		output: output,
		isTTY:  IsTerminal(output),
	}
}

// Start begins the spinner animation with the given message. A running
// spinner is stopped first.
func (s *Spinner) Start(message string) {
	s.Stop()

	s.mu.Lock()
	s.message = message
	s.running = true
	if !s.isTTY {
		fmt.Fprintf(s.output, "%s\n", message)
		s.mu.Unlock()
		return
	}
	s.done = make(chan struct{})
	done := s.done
	s.wg.Add(1)
	s.mu.Unlock()

	go s.animate(done)
}

// SetMessage updates the spinner message while it's running.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.message = message
}

// Stop halts the spinner animation and clears the line.
func (s *Spinner) Stop() {
	if s.halt() && s.isTTY {
		fmt.Fprintf(s.output, "\r%s\r", strings.Repeat(" ", lineWidth))
	}
}

// StopWithMessage halts the spinner and prints a final message. On a
// terminal it replaces the spinner line.
func (s *Spinner) StopWithMessage(message string) {
	if s.halt() && s.isTTY {
		fmt.Fprintf(s.output, "\r%s\r%s\n", strings.Repeat(" ", lineWidth), message)
		return
	}
	fmt.Fprintf(s.output, "%s\n", message)
}

// halt stops the animation goroutine and waits for it. It reports whether
// the spinner was running.
func (s *Spinner) halt() bool {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return false
	}
	s.running = false
	done := s.done
	s.done = nil
	s.mu.Unlock()

	if done != nil {
		close(done)
		s.wg.Wait()
	}
	return true
}

// animate runs the spinner animation loop.
func (s *Spinner) animate(done <-chan struct{}) {
	defer s.wg.Done()

	frame := 0
	ticker := time.NewTicker(spinnerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			msg := s.message
			s.mu.Unlock()

			char := spinnerFrames[frame%len(spinnerFrames)]
			line := fmt.Sprintf("\r%s %s", char, msg)
			if len(line) < lineWidth {
				line += strings.Repeat(" ", lineWidth-len(line))
			}
			fmt.Fprint(s.output, line)

			frame++
		}
	}
}
