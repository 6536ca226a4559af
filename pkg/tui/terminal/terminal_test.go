// ABOUTME: Tests for VirtualTerminal verifying raw mode tracking, output capture, and resize.
// ABOUTME: Table-driven and parallel sub-tests, including detached-session simulation.

package terminal

import "testing"

var _ Terminal = (*VirtualTerminal)(nil)
var _ Terminal = (*ProcessTerminal)(nil)

func TestVirtualTerminal_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		width, height int
	}{
		{name: "standard 80x24", width: 80, height: 24},
		{name: "wide 200x50", width: 200, height: 50},
		{name: "zero dimensions"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			w, h, err := NewVirtualTerminal(tt.width, tt.height).Size()
			if err != nil {
				t.Fatalf("Size() unexpected error: %v", err)
			}
			if w != tt.width || h != tt.height {
				t.Errorf("Size() = (%d, %d), want (%d, %d)", w, h, tt.width, tt.height)
			}
		})
	}
}

func TestVirtualTerminal_RawModeCycles(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	if vt.IsRawMode() {
		t.Fatal("expected raw mode to be off initially")
	}
	for i := range 3 {
		_ = vt.EnterRawMode()
		if !vt.IsRawMode() {
			t.Fatalf("cycle %d: expected raw mode on", i)
		}
		_ = vt.ExitRawMode()
		if vt.IsRawMode() {
			t.Fatalf("cycle %d: expected raw mode off", i)
		}
	}
	if vt.EnterCount() != 3 || vt.ExitCount() != 3 {
		t.Errorf("counts = (%d, %d), want (3, 3)", vt.EnterCount(), vt.ExitCount())
	}
}

func TestVirtualTerminal_WriteAndReset(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	_, _ = vt.Write([]byte("one"))
	_, _ = vt.Write([]byte("two"))
	if got := vt.Output(); got != "onetwo" {
		t.Errorf("Output() = %q, want %q", got, "onetwo")
	}
	vt.Reset()
	if got := vt.Output(); got != "" {
		t.Errorf("Output() after Reset = %q, want empty", got)
	}
}

func TestVirtualTerminal_OnResize(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	vt.SetSize(100, 50) // no callback registered yet

	var gotW, gotH int
	vt.OnResize(func(w, h int) { gotW, gotH = w, h })
	vt.SetSize(120, 40)

	if gotW != 120 || gotH != 40 {
		t.Errorf("resize callback got (%d, %d), want (120, 40)", gotW, gotH)
	}
	if w, h, _ := vt.Size(); w != 120 || h != 40 {
		t.Errorf("Size() after SetSize = (%d, %d), want (120, 40)", w, h)
	}
}

func TestVirtualTerminal_Detached(t *testing.T) {
	t.Parallel()

	vt := NewVirtualTerminal(80, 24)
	if !vt.IsTerminal() {
		t.Fatal("virtual terminal should report interactive by default")
	}
	vt.SetDetached(true)
	if vt.IsTerminal() {
		t.Error("detached virtual terminal should not report interactive")
	}
}
