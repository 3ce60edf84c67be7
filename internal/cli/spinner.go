package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
)

// statusSpinner animates a one-line status on stderr while a command works.
// It borrows the frames of a bubbles spinner but draws them itself, so
// output printed before and after stays on screen.
type statusSpinner struct {
	out     io.Writer
	message string
	kind    spinner.Spinner

	mu      sync.Mutex
	cancel  context.CancelFunc
	stopped chan struct{}
	once    sync.Once
}

func newStatusSpinner(message string) *statusSpinner {
	return &statusSpinner{out: os.Stderr, message: message, kind: spinner.MiniDot}
}

// start animates until stop is called or ctx ends.
func (s *statusSpinner) start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.stopped = make(chan struct{})
	go s.run(ctx)
}

func (s *statusSpinner) run(ctx context.Context) {
	defer close(s.stopped)
	ticker := time.NewTicker(s.kind.FPS)
	defer ticker.Stop()

	for i := 0; ; i++ {
		s.draw(s.kind.Frames[i%len(s.kind.Frames)])
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *statusSpinner) draw(frame string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintf(s.out, "\r%s %s", styleIconSpinner.Render(frame), StyleDim.Render(s.message))
}

// stop ends the animation and clears the line. It is safe to call more
// than once and before start.
func (s *statusSpinner) stop() {
	s.once.Do(func() {
		if s.cancel == nil {
			return
		}
		s.cancel()
		<-s.stopped
		s.mu.Lock()
		fmt.Fprintf(s.out, "\r%s\r", strings.Repeat(" ", len(s.message)+4))
		s.mu.Unlock()
	})
}

func (s *statusSpinner) fail(format string, args ...any) {
	s.stop()
	printError(format, args...)
}
