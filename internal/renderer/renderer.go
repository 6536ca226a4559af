// ABOUTME: Spawns the external overlay renderer on the inherited terminal and tracks its lifetime
// ABOUTME: Asset path and geometry reach the shell command through environment variables only

package renderer

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/mauromedda/pi-overlay-go/internal/log"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/width"
)

// Environment variables exported to the renderer command.
const (
	EnvCols     = "PI_OVERLAY_COLS"
	EnvRows     = "PI_OVERLAY_ROWS"
	EnvAsset    = "PI_OVERLAY_ASSET"
	EnvDuration = "PI_OVERLAY_DURATION"
)

const (
	clearScreen = "\x1b[2J\x1b[H"

	defaultCols = 80
	defaultRows = 24

	// runGrace is how long Run waits past the renderer's own duration cap
	// before terminating it.
	runGrace = 5 * time.Second
)

// ErrNoShell is returned by Available when the configured shell cannot be found.
var ErrNoShell = errors.New("renderer shell not found")

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("5"))

// Spec describes the renderer invocation.
type Spec struct {
	// Shell runs Command with -c. Empty means $SHELL, then /bin/sh.
	Shell string
	// Command is the shell text. It must read its inputs from the
	// PI_OVERLAY_* environment variables.
	Command string
	// Header is written on the first row before the renderer starts.
	Header string
	// HeaderRows is how many rows are reserved above the renderer.
	HeaderRows int
	// Env holds extra KEY=VALUE entries for the child.
	Env []string
}

// Streams are the terminal files handed to the child unchanged.
type Streams struct {
	In  *os.File
	Out *os.File
	Err *os.File
}

// Geometry reports the terminal size in columns and rows.
type Geometry func() (cols, rows int, err error)

// Launcher starts renderer processes for one terminal.
type Launcher struct {
	spec    Spec
	streams Streams
	size    Geometry
}

// NewLauncher returns a Launcher. A nil size falls back to 80x24.
func NewLauncher(spec Spec, streams Streams, size Geometry) *Launcher {
	if spec.Shell == "" {
		spec.Shell = os.Getenv("SHELL")
	}
	if spec.Shell == "" {
		spec.Shell = "/bin/sh"
	}
	return &Launcher{spec: spec, streams: streams, size: size}
}

// Available reports whether a renderer could be spawned at all.
func (l *Launcher) Available() error {
	if _, err := exec.LookPath(l.spec.Shell); err != nil {
		return fmt.Errorf("%w: %s", ErrNoShell, l.spec.Shell)
	}
	if l.streams.Out == nil {
		return errors.New("renderer has no output stream")
	}
	return nil
}

// Start clears the terminal, writes the header and spawns the renderer. The
// child stays in the terminal's foreground process group, so it may read
// from and reconfigure the terminal without being stopped by job control.
// It returns as soon as the child is running.
func (l *Launcher) Start(ctx context.Context, asset string) (*Session, error) {
	cmd := l.command(ctx, asset, 0)

	l.writeHeader()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("starting renderer: %w", err)
	}
	log.Debug("renderer: started pid=%d asset=%s", cmd.Process.Pid, asset)
	return newSession(cmd), nil
}

// Run is the blocking variant used by the manual command. Ctrl+C reaches
// the child through the shared foreground process group; the parent
// ignores SIGINT until the child exits. The renderer is asked to stop
// after d and is terminated if it overruns by more than a grace period.
func (l *Launcher) Run(ctx context.Context, asset string, d time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, d+runGrace)
	defer cancel()

	cmd := l.command(ctx, asset, d)
	cmd.WaitDelay = runGrace

	stopIgnoring := ignoreInterrupt()
	defer stopIgnoring()

	l.writeHeader()
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting renderer: %w", err)
	}
	err := cmd.Wait()

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		// Interrupted or non-zero exit: the overlay simply ended.
		log.Debug("renderer: exited: %v", err)
		return nil
	}
	if err != nil {
		return fmt.Errorf("running renderer: %w", err)
	}
	return nil
}

func (l *Launcher) command(ctx context.Context, asset string, d time.Duration) *exec.Cmd {
	cols, rows := l.geometry()

	cmd := exec.CommandContext(ctx, l.spec.Shell, "-c", l.spec.Command)
	cmd.Cancel = func() error { return terminate(cmd) }
	cmd.Stdin = l.streams.In
	cmd.Stdout = l.streams.Out
	cmd.Stderr = l.streams.Err
	cmd.Env = append(os.Environ(), l.spec.Env...)
	cmd.Env = append(cmd.Env,
		EnvCols+"="+strconv.Itoa(cols),
		EnvRows+"="+strconv.Itoa(max(rows-l.spec.HeaderRows, 1)),
		EnvAsset+"="+asset,
		EnvDuration+"="+strconv.Itoa(durationSeconds(d)),
	)
	return cmd
}

// durationSeconds rounds d up to whole seconds so a sub-second cap never
// reaches the renderer as zero.
func durationSeconds(d time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int((d + time.Second - 1) / time.Second)
}

func (l *Launcher) geometry() (cols, rows int) {
	if l.size == nil {
		return defaultCols, defaultRows
	}
	cols, rows, err := l.size()
	if err != nil || cols <= 0 || rows <= 0 {
		return defaultCols, defaultRows
	}
	return cols, rows
}

// writeHeader clears the screen and writes the header followed by the
// reserved blank rows. The renderer is expected to draw below them without
// clearing the screen itself.
func (l *Launcher) writeHeader() {
	out := clearScreen
	if l.spec.Header != "" {
		cols, _ := l.geometry()
		out += width.TruncateToWidth(headerStyle.Render(l.spec.Header), cols)
		for range max(l.spec.HeaderRows, 1) {
			out += "\r\n"
		}
	}
	if _, err := l.streams.Out.WriteString(out); err != nil {
		log.Debug("renderer: writing header: %v", err)
	}
}
