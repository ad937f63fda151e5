package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []rune("⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏")

// spinner animates a one-line status on a terminal while a browser
// measurement runs. The zero value is not usable; see startSpinner.
type spinner struct {
	w       io.Writer
	label   string
	ctx     context.Context
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

// measuringSpinner starts a spinner on stderr.
func measuringSpinner(ctx context.Context) *spinner {
	return startSpinner(ctx, os.Stderr, "Measuring in browser...")
}

// startSpinner draws label on w until Stop is called or ctx ends.
func startSpinner(ctx context.Context, w io.Writer, label string) *spinner {
	ctx, cancel := context.WithCancel(ctx)
	s := &spinner{w: w, label: label, ctx: ctx, cancel: cancel, stopped: make(chan struct{})}
	go s.loop()
	return s
}

func (s *spinner) loop() {
	defer close(s.stopped)
	t := time.NewTicker(spinnerInterval)
	defer t.Stop()
	for n := 0; ; n++ {
		select {
		case <-s.ctx.Done():
			fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.label)+4))
			return
		case <-t.C:
			frame := string(spinnerFrames[n%len(spinnerFrames)])
			fmt.Fprintf(s.w, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.label))
		}
	}
}

// Stop clears the line and waits for the animation to exit. It is safe to
// call more than once.
func (s *spinner) Stop() {
	s.once.Do(s.cancel)
	<-s.stopped
}

// Canceled reports whether the spinner has stopped, either through Stop or
// through its parent context.
func (s *spinner) Canceled() bool {
	return s.ctx.Err() != nil
}
