// ABOUTME: ProcessTerminal implements Terminal over the process's stdio files and golang.org/x/term.
// ABOUTME: Exposes the underlying files so child processes can inherit the same terminal.

package terminal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// ProcessTerminal is a real terminal backed by the process's stdin/stdout.
type ProcessTerminal struct {
	in  *os.File
	out *os.File

	mu       sync.Mutex
	oldState *term.State
	resizeFn func(width, height int)
	watching bool
}

// NewProcessTerminal returns a ProcessTerminal over os.Stdin and os.Stdout.
func NewProcessTerminal() *ProcessTerminal {
	return &ProcessTerminal{in: os.Stdin, out: os.Stdout}
}

// Files returns the input and output files, for handing to a child process.
func (t *ProcessTerminal) Files() (in, out *os.File) {
	return t.in, t.out
}

// IsTerminal reports whether both stdin and stdout are terminals.
func (t *ProcessTerminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd())) && term.IsTerminal(int(t.out.Fd()))
}

// EnterRawMode switches stdin to raw mode, saving the previous state.
// No-op when already raw.
func (t *ProcessTerminal) EnterRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.oldState != nil {
		return nil
	}
	state, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	t.oldState = state
	return nil
}

// ExitRawMode restores the terminal to its previous state.
func (t *ProcessTerminal) ExitRawMode() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.oldState == nil {
		return nil
	}
	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("exiting raw mode: %w", err)
	}
	t.oldState = nil
	return nil
}

// Size returns the current terminal dimensions.
func (t *ProcessTerminal) Size() (width, height int, err error) {
	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("getting terminal size: %w", err)
	}
	return w, h, nil
}

// Write sends bytes to the output file.
func (t *ProcessTerminal) Write(p []byte) (int, error) {
	n, err := t.out.Write(p)
	if err != nil {
		return n, fmt.Errorf("writing to terminal: %w", err)
	}
	return n, nil
}

// OnResize registers a callback invoked when the terminal is resized.
// The platform listener is installed on first registration.
func (t *ProcessTerminal) OnResize(fn func(width, height int)) {
	t.mu.Lock()
	t.resizeFn = fn
	start := !t.watching
	t.watching = true
	t.mu.Unlock()
	if start {
		t.startResizeListener()
	}
}
