// ABOUTME: Panic recovery that returns the terminal to a usable state before reporting.
// ABOUTME: Deferred in main and in goroutines that run while the TUI holds raw mode.

package terminal

import (
	"fmt"
	"os"
	"runtime/debug"
)

// RestoreOnPanic should be deferred at the top of main. On panic it shows
// the cursor, exits raw mode, prints the panic and stack trace, then exits
// with code 1.
func RestoreOnPanic(t Terminal) {
	r := recover()
	if r == nil {
		return
	}
	restore(t)
	fmt.Fprintf(os.Stderr, "\npanic: %v\n\n%s\n", r, debug.Stack())
	os.Exit(1)
}

// RecoverGoroutine is the goroutine variant of RestoreOnPanic: it restores
// the terminal and reports the panic but does not exit, leaving shutdown to
// the main goroutine.
func RecoverGoroutine(t Terminal) {
	r := recover()
	if r == nil {
		return
	}
	restore(t)
	fmt.Fprintf(os.Stderr, "\ngoroutine panic: %v\n\n%s\n", r, debug.Stack())
}

func restore(t Terminal) {
	_, _ = t.Write([]byte(ShowCursor))
	_ = t.ExitRawMode()
}
