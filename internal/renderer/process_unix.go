// ABOUTME: Unix signal handling for renderer children
// ABOUTME: Children share the host's foreground process group so they can use the terminal freely

//go:build unix

package renderer

import (
	"errors"
	"os"
	"os/exec"
	"os/signal"
	"syscall"
)

// terminate sends SIGTERM to the renderer process. Commands that wrap the
// real renderer should exec it so the signal reaches it. A child that is
// already gone is not an error.
func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := syscall.Kill(cmd.Process.Pid, syscall.SIGTERM)
	if errors.Is(err, syscall.ESRCH) {
		return nil
	}
	return err
}

// ignoreInterrupt keeps SIGINT from killing this process while a foreground
// child owns the terminal. The returned func restores default handling.
func ignoreInterrupt() func() {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt)
	return func() { signal.Stop(ch) }
}
