// ABOUTME: Tests for RecoverGoroutine panic recovery without os.Exit
// ABOUTME: Verifies goroutine panics are caught and terminal is restored

package terminal

import (
	"strings"
	"testing"
)

func TestRecoverGoroutine_CatchesPanic(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	_ = vt.EnterRawMode()
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverGoroutine(vt)
		panic("test goroutine panic")
	}()
	<-done

	if vt.IsRawMode() {
		t.Error("expected raw mode to be exited on goroutine panic")
	}
	if !strings.Contains(vt.Output(), ShowCursor) {
		t.Error("expected cursor to be shown on goroutine panic")
	}
}

func TestRecoverGoroutine_NoPanic(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer RecoverGoroutine(vt)
	}()
	<-done

	if vt.ExitCount() != 0 {
		t.Error("ExitRawMode should not be called when no panic occurs")
	}
}
