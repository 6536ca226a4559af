// ABOUTME: One-shot manual overlay: blocks on a foreground renderer for a fixed duration
// ABOUTME: Shares the gate with the coordinator but holds the Manual state instead of Rendering

package handoff

import (
	"context"
	"fmt"
	"time"

	"github.com/mauromedda/pi-overlay-go/internal/log"
)

// Severity classifies user notifications.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier shows a short message to the user.
type Notifier interface {
	Notify(msg string, severity Severity)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(msg string, severity Severity)

// Notify calls f.
func (f NotifierFunc) Notify(msg string, severity Severity) { f(msg, severity) }

// Runner runs a renderer in the foreground until it exits or d elapses.
type Runner interface {
	Available() error
	Run(ctx context.Context, asset string, d time.Duration) error
}

// Holder grants exclusive use of the terminal. *Coordinator implements it.
type Holder interface {
	TryHold() (release func(), ok bool)
}

// OneShot plays a single overlay on demand.
type OneShot struct {
	Gate      Gate
	Assets    AssetSource
	AssetsDir string
	Runner    Runner
	Duration  time.Duration
	Notifier  Notifier
	// Holder is optional; without it the run is not guarded against a
	// concurrent automatic overlay.
	Holder Holder
}

// Run plays the overlay and returns once the TUI is back. Precondition
// failures are reported through the Notifier and return nil.
func (o *OneShot) Run(ctx context.Context) error {
	if o.Gate == nil || !o.Gate.Attached() {
		o.notify("This command requires TUI mode", SeverityError)
		return nil
	}
	asset, ok := o.Assets.Resolve()
	if !ok {
		o.notify(fmt.Sprintf("No GIF files found in %s", o.AssetsDir), SeverityError)
		return nil
	}
	if err := o.Runner.Available(); err != nil {
		o.notify(fmt.Sprintf("Overlay renderer unavailable: %v", err), SeverityError)
		return nil
	}

	if o.Holder != nil {
		release, ok := o.Holder.TryHold()
		if !ok {
			o.notify("An overlay is already on screen", SeverityWarning)
			return nil
		}
		defer release()
	}

	log.Debug("oneshot: playing %s for %s", asset, o.Duration)
	token := o.Gate.Suspend()
	err := o.Runner.Run(ctx, asset, o.Duration)
	o.Gate.StopAllPeriodicWidgets()
	o.Gate.Resume(token)

	if err != nil {
		o.notify(fmt.Sprintf("Overlay failed: %v", err), SeverityError)
		return fmt.Errorf("one-shot overlay: %w", err)
	}
	return nil
}

func (o *OneShot) notify(msg string, severity Severity) {
	if o.Notifier == nil {
		log.Info("%s: %s", severity, msg)
		return
	}
	o.Notifier.Notify(msg, severity)
}
