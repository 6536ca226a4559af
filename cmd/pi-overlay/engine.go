// ABOUTME: Host UI built on the differential-rendering tui engine with a raw-mode key reader
// ABOUTME: Shows lifecycle events, a working spinner, toasts and a slash-command prompt

package main

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/mauromedda/pi-overlay-go/internal/gate"
	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/internal/lifecycle"
	pilog "github.com/mauromedda/pi-overlay-go/internal/log"
	"github.com/mauromedda/pi-overlay-go/pkg/tui"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/component"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/input"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/key"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/terminal"
)

const toastTTL = 3 * time.Second

type engineHost struct {
	ctx  context.Context
	app  *app
	term *terminal.ProcessTerminal
	ui   *tui.TUI
	gate *gate.Engine

	chat    *component.Text
	spinner spinnerLine
	prompt  *component.Prompt
	toasts  *toastNotifier
}

func newEngineHost(ctx context.Context, a *app, term *terminal.ProcessTerminal) *engineHost {
	w, h, err := term.Size()
	if err != nil {
		w, h = 80, 24
	}
	ui := tui.New(term, w, h)

	host := &engineHost{
		ctx:     ctx,
		app:     a,
		term:    term,
		ui:      ui,
		gate:    gate.NewEngine(ui, term),
		chat:    component.NewText("pi-overlay " + version),
		spinner: spinnerLine{component.NewLoader("")},
		prompt:  component.NewPrompt("> "),
		toasts:  newToastNotifier(ui, toastTTL),
	}
	host.prompt.SetPlaceholder("type /help for commands")
	host.prompt.SetCompleter(a.registry.Complete)

	ui.Container().Add(host.chat)
	ui.Container().Add(host.spinner)
	ui.Container().Add(host.prompt)

	a.wire(ctx, host.gate, host.toasts)
	return host
}

func (h *engineHost) run() error {
	ctx := h.ctx
	if err := h.term.EnterRawMode(); err != nil {
		return err
	}
	h.term.OnResize(h.ui.SetSize)

	unsubscribe := h.app.bus.Subscribe(h.onEvent)
	defer unsubscribe()

	h.ui.Start()
	h.ui.RequestRender()

	in, _ := h.term.Files()
	reader := input.NewReader(in, h.onKey)
	readErr := make(chan error, 1)
	go func() {
		defer terminal.RecoverGoroutine(h.term)
		readErr <- reader.Run(ctx)
	}()

	if h.app.once {
		h.app.inflight.Add(1)
		go func() {
			defer h.app.inflight.Done()
			h.app.playOnce(ctx)
		}()
	}

	select {
	case <-ctx.Done():
	case err := <-readErr:
		if err != nil {
			pilog.Warn("input: %v", err)
		}
		h.app.quit()
	}

	h.app.stop()
	h.spinner.Stop()
	h.ui.Stop()
	if err := h.term.ExitRawMode(); err != nil {
		pilog.Warn("engine: leaving raw mode: %v", err)
	}
	_, _ = h.term.Write([]byte(terminal.ShowCursor + "\r\n"))
	return nil
}

// onKey feeds the prompt. Keys arriving while a renderer owns the terminal
// are dropped.
func (h *engineHost) onKey(k key.Key) {
	if h.gate.Suspended() {
		return
	}
	switch k.Type {
	case key.KeyCtrlC, key.KeyCtrlD:
		h.app.quit()
		return
	case key.KeyCtrlL:
		h.ui.RequestFullRender()
		return
	}

	line, ok := h.prompt.HandleKey(k)
	h.ui.RequestRender()
	if ok {
		h.submit(line)
	}
}

func (h *engineHost) submit(line string) {
	h.say("> " + line)

	h.app.inflight.Add(1)
	go func() {
		defer h.app.inflight.Done()
		defer terminal.RecoverGoroutine(h.term)

		out, err := h.app.execute(h.ctx, line)
		switch {
		case err != nil:
			h.say("✗ " + err.Error())
		case out != "":
			h.say(strings.TrimRight(out, "\n"))
		}
	}()
}

// onEvent logs the event in the chat and mirrors it on the spinner.
func (h *engineHost) onEvent(ev lifecycle.Event) {
	h.say(eventLine(ev))

	if label, ok := workingLabel(ev); ok {
		h.spinner.SetLabel(label)
		h.spinner.Start(component.DefaultLoaderInterval, h.ui.RequestRender)
	} else if idleEvent(ev) {
		h.spinner.Stop()
	}
	h.ui.RequestRender()
}

func (h *engineHost) say(s string) {
	h.chat.Append("\n" + s)
	h.ui.RequestRender()
}

// spinnerLine draws the loader only while it runs.
type spinnerLine struct {
	*component.Loader
}

func (s spinnerLine) Render(out *tui.RenderBuffer, w int) {
	if s.Active() {
		s.Loader.Render(out, w)
	}
}

// toastNotifier shows one toast at a time at the bottom of the screen and
// removes it after ttl.
type toastNotifier struct {
	ui  *tui.TUI
	ttl time.Duration

	mu      sync.Mutex
	current *component.Toast
	timer   *time.Timer
}

var _ handoff.Notifier = (*toastNotifier)(nil)

func newToastNotifier(ui *tui.TUI, ttl time.Duration) *toastNotifier {
	return &toastNotifier{ui: ui, ttl: ttl}
}

func (n *toastNotifier) Notify(msg string, severity handoff.Severity) {
	pilog.Info("notify %s: %s", severity, msg)
	toast := component.NewToast(msg, component.Severity(severity))

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != nil {
		n.timer.Stop()
		n.ui.RemoveOverlay(n.current)
	}
	n.current = toast
	n.ui.PushOverlay(tui.Overlay{Component: toast, Position: tui.OverlayBottom})
	n.timer = time.AfterFunc(n.ttl, func() { n.dismiss(toast) })
}

func (n *toastNotifier) dismiss(toast *component.Toast) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current != toast {
		return
	}
	n.current = nil
	n.ui.RemoveOverlay(toast)
}

// Showing reports the message of the toast on screen, if any.
func (n *toastNotifier) Showing() (string, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.current == nil {
		return "", false
	}
	return n.current.Message, true
}
