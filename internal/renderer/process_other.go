// ABOUTME: Fallback process handling for platforms without Unix signals

//go:build !unix

package renderer

import (
	"errors"
	"os"
	"os/exec"
)

func terminate(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	err := cmd.Process.Kill()
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func ignoreInterrupt() func() { return func() {} }
