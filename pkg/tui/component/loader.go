// ABOUTME: Spinner component that redraws itself on a ticker while active
// ABOUTME: Implements tui.Periodic so the engine can halt it before a terminal handoff

package component

import (
	"sync"
	"time"

	"github.com/mauromedda/pi-overlay-go/pkg/tui"
)

var defaultFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// DefaultLoaderInterval is the frame period used by the host's "Working..." indicator.
const DefaultLoaderInterval = 80 * time.Millisecond

// Loader displays a spinner animation with an optional label.
type Loader struct {
	mu     sync.Mutex
	frames []string
	frame  int
	label  string

	stopCh chan struct{}
	doneCh chan struct{}
}

var _ tui.Periodic = (*Loader)(nil)

// NewLoader creates a Loader with the given label.
func NewLoader(label string) *Loader {
	return &Loader{
		frames: defaultFrames,
		label:  label,
	}
}

// SetLabel updates the spinner label.
func (l *Loader) SetLabel(label string) {
	l.mu.Lock()
	l.label = label
	l.mu.Unlock()
}

// Tick advances the spinner to the next frame.
func (l *Loader) Tick() {
	l.mu.Lock()
	l.frame = (l.frame + 1) % len(l.frames)
	l.mu.Unlock()
}

// Start advances the spinner every interval and calls redraw after each
// frame. No-op if already started.
func (l *Loader) Start(interval time.Duration, redraw func()) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.stopCh != nil {
		return
	}
	l.stopCh = make(chan struct{})
	l.doneCh = make(chan struct{})
	go l.run(interval, redraw, l.stopCh, l.doneCh)
}

func (l *Loader) run(interval time.Duration, redraw func(), stopCh <-chan struct{}, doneCh chan<- struct{}) {
	defer close(doneCh)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stopCh:
			return
		case <-ticker.C:
			l.Tick()
			if redraw != nil {
				redraw()
			}
		}
	}
}

// Active reports whether the ticker is running.
func (l *Loader) Active() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopCh != nil
}

// Stop halts the ticker and waits for the last redraw call to return.
func (l *Loader) Stop() {
	l.mu.Lock()
	stopCh, doneCh := l.stopCh, l.doneCh
	l.stopCh, l.doneCh = nil, nil
	l.mu.Unlock()

	if stopCh == nil {
		return
	}
	close(stopCh)
	<-doneCh
}

// Render draws the current spinner frame and label.
func (l *Loader) Render(out *tui.RenderBuffer, _ int) {
	l.mu.Lock()
	frame := l.frames[l.frame]
	label := l.label
	l.mu.Unlock()

	if label != "" {
		out.WriteLine(frame + " " + label)
	} else {
		out.WriteLine(frame)
	}
}

// Invalidate is a no-op for Loader.
func (l *Loader) Invalidate() {}
