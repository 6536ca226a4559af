// ABOUTME: Tests for the one-shot overlay command
// ABOUTME: Covers precondition notifications, exclusivity with the coordinator and gate ordering

package handoff

import (
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"
)

type note struct {
	msg      string
	severity Severity
}

type fakeRunner struct {
	w           *world
	unavailable error
	err         error
	gotAsset    string
	gotDuration time.Duration
}

func (r *fakeRunner) Available() error { return r.unavailable }

func (r *fakeRunner) Run(_ context.Context, asset string, d time.Duration) error {
	r.w.mu.Lock()
	r.w.renderers++
	r.w.record("run " + asset)
	r.w.renderers--
	r.w.mu.Unlock()
	r.gotAsset, r.gotDuration = asset, d
	return r.err
}

func newOneShot(t *testing.T) (*OneShot, *world, *fakeRunner, *[]note) {
	w := newWorld(t)
	runner := &fakeRunner{w: w}
	var notes []note
	o := &OneShot{
		Gate:      &fakeGate{w: w},
		Assets:    fakeAssets{name: "dance.gif"},
		AssetsDir: "/tmp/gifs",
		Runner:    runner,
		Duration:  30 * time.Second,
		Notifier: NotifierFunc(func(msg string, s Severity) {
			notes = append(notes, note{msg, s})
		}),
	}
	return o, w, runner, &notes
}

func TestOneShot_Plays(t *testing.T) {
	t.Parallel()

	o, w, runner, notes := newOneShot(t)
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []string{"suspend", "run dance.gif", "stop-widgets", "resume"}
	if got := w.log(); !slices.Equal(got, want) {
		t.Errorf("events = %v, want %v", got, want)
	}
	if runner.gotDuration != 30*time.Second {
		t.Errorf("duration = %v, want 30s", runner.gotDuration)
	}
	if len(*notes) != 0 {
		t.Errorf("unexpected notifications: %v", *notes)
	}
}

func TestOneShot_Preconditions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		setup    func(o *OneShot, r *fakeRunner)
		contains string
		severity Severity
	}{
		{
			name:     "no tui",
			setup:    func(o *OneShot, _ *fakeRunner) { o.Gate.(*fakeGate).detached = true },
			contains: "requires TUI mode",
			severity: SeverityError,
		},
		{
			name:     "nil gate",
			setup:    func(o *OneShot, _ *fakeRunner) { o.Gate = nil },
			contains: "requires TUI mode",
			severity: SeverityError,
		},
		{
			name:     "no assets",
			setup:    func(o *OneShot, _ *fakeRunner) { o.Assets = fakeAssets{} },
			contains: "No GIF files found in /tmp/gifs",
			severity: SeverityError,
		},
		{
			name:     "renderer unavailable",
			setup:    func(_ *OneShot, r *fakeRunner) { r.unavailable = errors.New("no shell") },
			contains: "no shell",
			severity: SeverityError,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			o, w, runner, notes := newOneShot(t)
			tt.setup(o, runner)

			if err := o.Run(context.Background()); err != nil {
				t.Fatalf("Run: %v", err)
			}
			if got := w.log(); len(got) != 0 {
				t.Errorf("unexpected side effects: %v", got)
			}
			if len(*notes) != 1 {
				t.Fatalf("notifications = %v, want 1", *notes)
			}
			n := (*notes)[0]
			if !strings.Contains(n.msg, tt.contains) || n.severity != tt.severity {
				t.Errorf("notification = %+v, want %q (%s)", n, tt.contains, tt.severity)
			}
		})
	}
}

func TestOneShot_RefusedWhileOverlayActive(t *testing.T) {
	t.Parallel()

	o, w, _, notes := newOneShot(t)
	r := &fakeRenderer{w: w}
	c := New(context.Background(), o.Gate, r, fakeAssets{name: "a.gif"})
	o.Holder = c

	c.BeginOverlay()
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if n := w.count("suspend"); n != 1 {
		t.Errorf("suspend calls = %d, want 1", n)
	}
	if len(*notes) != 1 || (*notes)[0].severity != SeverityWarning {
		t.Errorf("notifications = %v, want one warning", *notes)
	}

	c.EndOverlay()
	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run after end: %v", err)
	}
	if c.State() != StateIdle {
		t.Errorf("state = %v after one-shot, want idle", c.State())
	}
}

func TestOneShot_BlocksAutomaticOverlay(t *testing.T) {
	t.Parallel()

	o, w, _, _ := newOneShot(t)
	r := &fakeRenderer{w: w}
	c := New(context.Background(), o.Gate, r, fakeAssets{name: "a.gif"})
	o.Holder = c
	o.Runner = runnerFunc(func() {
		c.BeginOverlay()
		if r.started() != 0 {
			t.Error("automatic overlay started during one-shot")
		}
	})

	if err := o.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestOneShot_RunErrorStillResumes(t *testing.T) {
	t.Parallel()

	o, w, runner, notes := newOneShot(t)
	runner.err = errors.New("boom")

	err := o.Run(context.Background())
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Fatalf("err = %v, want wrapped boom", err)
	}
	if n := w.count("resume"); n != 1 {
		t.Errorf("resume calls = %d, want 1", n)
	}
	if len(*notes) != 1 || (*notes)[0].severity != SeverityError {
		t.Errorf("notifications = %v", *notes)
	}
}

type runnerFunc func()

func (runnerFunc) Available() error { return nil }

func (f runnerFunc) Run(context.Context, string, time.Duration) error {
	f()
	return nil
}
