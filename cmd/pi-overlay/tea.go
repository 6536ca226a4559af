// ABOUTME: Host UI built on Bubble Tea with a bubbles spinner as its working indicator
// ABOUTME: The overlay gate drives the program through ReleaseTerminal and RestoreTerminal

package main

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-overlay-go/internal/gate"
	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/internal/lifecycle"
	pilog "github.com/mauromedda/pi-overlay-go/internal/log"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/terminal"
)

// maxHistory caps the event and output lines kept by the model.
const maxHistory = 500

var (
	dimStyle     = lipgloss.NewStyle().Faint(true)
	promptStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("5")).Bold(true)
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("5"))
	noticeStyles = map[handoff.Severity]lipgloss.Style{
		handoff.SeverityInfo:    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		handoff.SeverityWarning: lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		handoff.SeverityError:   lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
	}
)

// Messages sent into the program.
type (
	eventMsg  struct{ ev lifecycle.Event }
	noticeMsg struct {
		text     string
		severity handoff.Severity
	}
	outputMsg struct {
		text string
		err  error
	}
	clearNoticeMsg struct{ seq int }
)

// indicator is the spinner's running flag, shared between the model and
// the gate. Ticks are dropped while it is inactive, which ends the chain.
type indicator struct {
	active atomic.Bool
}

func (i *indicator) Active() bool { return i.active.Load() }
func (i *indicator) Stop()        { i.active.Store(false) }

// start marks the indicator running and reports whether it was idle.
func (i *indicator) start() bool { return i.active.CompareAndSwap(false, true) }

type teaModel struct {
	ctx context.Context
	app *app
	ind *indicator

	spinner   spinner.Model
	label     string
	history   []string
	input     []rune
	notice    string
	severity  handoff.Severity
	noticeSeq int
	suspended bool
	width     int
	height    int
}

func newTeaModel(ctx context.Context, a *app, ind *indicator) teaModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	return teaModel{
		ctx:     ctx,
		app:     a,
		ind:     ind,
		spinner: s,
		history: []string{dimStyle.Render("pi-overlay " + version)},
	}
}

func (m teaModel) Init() tea.Cmd {
	if !m.app.once {
		return nil
	}
	return m.command(func() tea.Msg {
		m.app.playOnce(m.ctx)
		return nil
	})
}

func (m teaModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		m.push(dimStyle.Render(eventLine(msg.ev)))
		if label, ok := workingLabel(msg.ev); ok {
			m.label = label
			if m.ind.start() {
				return m, m.spinner.Tick
			}
		} else if idleEvent(msg.ev) {
			m.ind.Stop()
		}
		return m, nil

	case spinner.TickMsg:
		if !m.ind.Active() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case gate.SuspendedMsg:
		m.suspended = true
		return m, nil

	case gate.ResumedMsg:
		m.suspended = false
		return m, nil

	case gate.StopPeriodicMsg:
		m.ind.Stop()
		return m, nil

	case noticeMsg:
		m.notice, m.severity = msg.text, msg.severity
		m.noticeSeq++
		seq := m.noticeSeq
		return m, tea.Tick(toastTTL, func(time.Time) tea.Msg { return clearNoticeMsg{seq: seq} })

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case outputMsg:
		switch {
		case msg.err != nil:
			m.push("✗ " + msg.err.Error())
		case msg.text != "":
			for _, line := range strings.Split(strings.TrimRight(msg.text, "\n"), "\n") {
				m.push(line)
			}
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m teaModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.suspended {
		return m, nil
	}
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyCtrlD:
		m.app.quit()
		return m, nil
	case tea.KeyEnter:
		line := strings.TrimSpace(string(m.input))
		m.input = m.input[:0]
		if line == "" {
			return m, nil
		}
		m.push(promptStyle.Render("> ") + line)
		return m, m.command(func() tea.Msg {
			out, err := m.app.execute(m.ctx, line)
			return outputMsg{text: out, err: err}
		})
	case tea.KeyBackspace:
		if n := len(m.input); n > 0 {
			m.input = m.input[:n-1]
		}
	case tea.KeyCtrlU:
		m.input = m.input[:0]
	case tea.KeyTab:
		if c := m.app.registry.Complete(string(m.input)); len(c) > 0 {
			m.input = []rune(c[0] + " ")
		}
	case tea.KeySpace:
		m.input = append(m.input, ' ')
	case tea.KeyRunes:
		m.input = append(m.input, msg.Runes...)
	}
	return m, nil
}

// command wraps fn so shutdown waits for it.
func (m teaModel) command(fn func() tea.Msg) tea.Cmd {
	m.app.inflight.Add(1)
	return func() tea.Msg {
		defer m.app.inflight.Done()
		return fn()
	}
}

func (m *teaModel) push(line string) {
	m.history = append(m.history, line)
	if over := len(m.history) - maxHistory; over > 0 {
		m.history = append(m.history[:0], m.history[over:]...)
	}
}

func (m teaModel) View() string {
	var footer []string
	if m.ind.Active() {
		footer = append(footer, m.spinner.View()+" "+m.label)
	}
	if m.notice != "" {
		style, ok := noticeStyles[m.severity]
		if !ok {
			style = noticeStyles[handoff.SeverityInfo]
		}
		footer = append(footer, style.Render(m.notice))
	}
	footer = append(footer, promptStyle.Render("> ")+string(m.input))

	history := m.history
	if m.height > 0 {
		if room := m.height - len(footer); room >= 0 && len(history) > room {
			history = history[len(history)-room:]
		}
	}
	lines := append(append([]string(nil), history...), footer...)
	view := strings.Join(lines, "\n")
	if m.width > 0 {
		view = lipgloss.NewStyle().MaxWidth(m.width).Render(view)
	}
	return view
}

type teaHost struct {
	ctx     context.Context
	app     *app
	term    *terminal.ProcessTerminal
	program *tea.Program
}

func newTeaHost(ctx context.Context, a *app, term *terminal.ProcessTerminal) *teaHost {
	ind := &indicator{}
	in, out := term.Files()
	p := tea.NewProgram(
		newTeaModel(ctx, a, ind),
		tea.WithInput(in),
		tea.WithOutput(out),
		// Interrupts are routed by watchSignals; a one-shot renderer
		// must be able to take Ctrl+C without stopping the program.
		tea.WithoutSignalHandler(),
	)

	g := gate.NewProgram(p, term.IsTerminal())
	g.Register(ind)
	a.wire(ctx, g, handoff.NotifierFunc(func(msg string, severity handoff.Severity) {
		pilog.Info("notify %s: %s", severity, msg)
		p.Send(noticeMsg{text: msg, severity: severity})
	}))
	return &teaHost{ctx: ctx, app: a, term: term, program: p}
}

func (h *teaHost) run() error {
	unsubscribe := h.app.bus.Subscribe(func(ev lifecycle.Event) {
		h.program.Send(eventMsg{ev: ev})
	})
	defer unsubscribe()

	go func() {
		<-h.ctx.Done()
		h.app.stop()
		h.program.Quit()
	}()

	_, err := h.program.Run()
	h.app.quit()
	if err != nil {
		return fmt.Errorf("bubble tea: %w", err)
	}
	return nil
}
