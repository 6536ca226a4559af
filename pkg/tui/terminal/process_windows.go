// ABOUTME: Windows stub for ProcessTerminal resize handling.

//go:build windows

package terminal

// startResizeListener is a no-op on Windows, which has no SIGWINCH.
func (t *ProcessTerminal) startResizeListener() {}
