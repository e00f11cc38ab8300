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

const (
	spinnerFrames   = "⠋⠙⠹⠸⠼⠴⠦⠧⠇⠏"
	spinnerInterval = 80 * time.Millisecond
)

// Spinner animates one status line on stderr while variations grow. It
// clears itself when stopped or when its context ends.
type Spinner struct {
	out    io.Writer
	ctx    context.Context
	cancel context.CancelFunc

	startOnce sync.Once
	stopOnce  sync.Once
	finished  chan struct{}

	mu      sync.Mutex
	message string
	width   int
}

func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	ctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		out:      os.Stderr,
		ctx:      ctx,
		cancel:   cancel,
		finished: make(chan struct{}),
		message:  message,
	}
}

func (s *Spinner) Start() {
	s.startOnce.Do(func() { go s.run() })
}

func (s *Spinner) run() {
	defer close(s.finished)
	frames := []rune(spinnerFrames)
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.ctx.Done():
			s.clearLine()
			return
		case <-tick.C:
			s.mu.Lock()
			fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(string(frames[i%len(frames)])), StyleDim.Render(s.message))
			s.width = max(s.width, len(s.message))
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and blanks the line. It is safe to call more
// than once, and before Start.
func (s *Spinner) Stop() {
	s.stopOnce.Do(func() {
		s.cancel()
		started := true
		s.startOnce.Do(func() { started = false })
		if started {
			<-s.finished
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", max(s.width, len(s.message))+4))
}

// StopWithError stops the spinner and prints message as a failure.
func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner's context has ended.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
