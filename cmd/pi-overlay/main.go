// ABOUTME: CLI entry point for pi-overlay with terminal crash recovery
// ABOUTME: Loads config, wires the coordinator to an event source and runs the chosen host UI

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	// termfix must be imported before any package that imports bubbletea.
	_ "github.com/mauromedda/pi-overlay-go/internal/termfix"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/pi-overlay-go/internal/asset"
	"github.com/mauromedda/pi-overlay-go/internal/commands"
	"github.com/mauromedda/pi-overlay-go/internal/config"
	"github.com/mauromedda/pi-overlay-go/internal/eventbus"
	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/internal/lifecycle"
	pilog "github.com/mauromedda/pi-overlay-go/internal/log"
	"github.com/mauromedda/pi-overlay-go/internal/renderer"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/terminal"
)

var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	args, err := parseFlags(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(2)
	}

	if args.version {
		fmt.Printf("pi-overlay %s (%s) built %s\n", version, commit, date)
		os.Exit(0)
	}

	if err := run(args); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args cliArgs) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting working directory: %w", err)
	}

	settings, err := config.Load(cwd)
	if err != nil {
		return err
	}
	if args.assets != "" {
		settings.AssetsDir, err = filepath.Abs(args.assets)
		if err != nil {
			return fmt.Errorf("resolving --assets: %w", err)
		}
	}
	if args.logFile != "" {
		settings.LogFile = args.logFile
	}
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}

	if args.verbose {
		pilog.SetLevel(pilog.LevelDebug)
	}
	closeLog, err := openLog(settings.LogFile)
	if err != nil {
		return err
	}
	defer closeLog.Close()

	term := terminal.NewProcessTerminal()
	defer terminal.RestoreOnPanic(term)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a := newApp(settings, term, args.once, cancel)
	g, gctx := errgroup.WithContext(ctx)
	sourceDone := make(chan struct{})

	switch {
	case !term.IsTerminal() || args.events == "-":
		a.wire(gctx, nil, nil)
		g.Go(func() error {
			defer cancel()
			return a.runHeadless(gctx, sourceDone)
		})
	case args.ui == uiTea:
		host := newTeaHost(gctx, a, term)
		g.Go(func() error {
			defer cancel()
			return host.run()
		})
	default:
		host := newEngineHost(gctx, a, term)
		g.Go(func() error {
			defer cancel()
			return host.run()
		})
	}

	go a.watchSignals(ctx)

	g.Go(func() error {
		defer close(sourceDone)
		return a.playSource(gctx, args)
	})

	watcher := config.NewWatcher(cwd, config.ConfigFiles(cwd), func(s *config.Settings) {
		a.rebind(s.Events)
		pilog.Info("config: event bindings reloaded")
	})
	g.Go(func() error { return watcher.Run(gctx) })

	return g.Wait()
}

// openLog sends log output to path, creating its directory. An empty path
// keeps stderr.
func openLog(path string) (io.Closer, error) {
	if path == "" {
		return nopCloser{}, nil
	}
	if err := config.EnsureDir(filepath.Dir(path)); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	c, err := pilog.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	return c, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// app holds the pieces shared by every host UI.
type app struct {
	settings *config.Settings
	once     bool
	quit     context.CancelFunc

	assets   *asset.Resolver
	overlay  *renderer.Launcher
	manual   *renderer.Launcher
	bus      *eventbus.Bus[lifecycle.Event]
	registry *commands.Registry

	coord   *handoff.Coordinator
	oneshot *handoff.OneShot

	bindMu sync.Mutex
	detach func()

	// inflight counts running slash commands; shutdown waits for them so a
	// one-shot overlay hands the terminal back before the host lets go of it.
	inflight sync.WaitGroup
	stopOnce sync.Once
}

func newApp(settings *config.Settings, term *terminal.ProcessTerminal, once bool, quit context.CancelFunc) *app {
	in, out := term.Files()
	streams := renderer.Streams{In: in, Out: out, Err: os.Stderr}
	size := func() (int, int, error) { return term.Size() }

	return &app{
		settings: settings,
		once:     once,
		quit:     quit,
		assets:   asset.New(settings.AssetsDir, settings.Suffix),
		overlay: renderer.NewLauncher(renderer.Spec{
			Shell:      settings.Shell,
			Command:    settings.Command,
			Header:     settings.Header,
			HeaderRows: settings.HeaderRows,
		}, streams, size),
		manual: renderer.NewLauncher(renderer.Spec{
			Shell:      settings.Shell,
			Command:    settings.OneShotCommand,
			Header:     settings.OneShotHeader,
			HeaderRows: settings.HeaderRows,
		}, streams, size),
		bus:      eventbus.New[lifecycle.Event](),
		registry: commands.NewRegistry(),
	}
}

// wire builds the coordinator and the one-shot around g. A nil gate leaves
// both inert: every begin is a no-op and /thinking-gif reports it needs a TUI.
func (a *app) wire(ctx context.Context, g handoff.Gate, n handoff.Notifier) {
	a.coord = handoff.New(ctx, g, handoff.FromLauncher(a.overlay), a.assets)
	a.oneshot = &handoff.OneShot{
		Gate:      g,
		Assets:    a.assets,
		AssetsDir: a.settings.AssetsDir,
		Runner:    a.manual,
		Duration:  a.settings.OneShotDuration,
		Notifier:  n,
		Holder:    a.coord,
	}
	a.rebind(a.settings.Events)
}

// rebind replaces the lifecycle subscription with one compiled from ev.
func (a *app) rebind(ev config.Events) {
	a.bindMu.Lock()
	defer a.bindMu.Unlock()
	if a.detach != nil {
		a.detach()
	}
	a.detach = lifecycle.Attach(a.bus, a.coord, lifecycle.Compile(ev))
}

func (a *app) unbind() {
	a.bindMu.Lock()
	defer a.bindMu.Unlock()
	if a.detach != nil {
		a.detach()
		a.detach = nil
	}
}

// stop detaches the bindings, tears down any overlay and waits for running
// commands. Hosts call it before releasing the terminal for good.
func (a *app) stop() {
	a.stopOnce.Do(func() {
		a.unbind()
		if a.coord != nil {
			a.coord.EndOverlay()
		}
		a.inflight.Wait()
	})
}

// execute runs a slash command line.
func (a *app) execute(ctx context.Context, line string) (string, error) {
	cc := &commands.CommandContext{
		Context:   ctx,
		Version:   version,
		AssetsDir: a.settings.AssetsDir,
		Assets:    a.assets,
		Status:    a.coord,
		PlayOnce:  a.oneshot.Run,
		Quit:      a.quit,
	}
	return a.registry.Dispatch(cc, line)
}

// playOnce runs /thinking-gif and asks the host to exit.
func (a *app) playOnce(ctx context.Context) {
	defer a.quit()
	if _, err := a.execute(ctx, "/thinking-gif"); err != nil {
		pilog.Warn("once: %v", err)
	}
}

// playSource feeds the bus from --events, --script or the built-in demo.
// Source errors are logged; the host keeps running.
func (a *app) playSource(ctx context.Context, args cliArgs) error {
	err := a.source(ctx, args)
	if err != nil && !errors.Is(err, context.Canceled) {
		pilog.Warn("events: %v", err)
	}
	return nil
}

func (a *app) source(ctx context.Context, args cliArgs) error {
	switch {
	case args.events == "-":
		return lifecycle.ReadJSONLines(ctx, os.Stdin, a.bus)
	case args.events != "":
		f, err := os.Open(args.events)
		if err != nil {
			return fmt.Errorf("opening events: %w", err)
		}
		defer f.Close()
		return lifecycle.ReadJSONLines(ctx, f, a.bus)
	case args.script != "":
		s, err := lifecycle.LoadScript(args.script)
		if err != nil {
			return err
		}
		return s.Play(ctx, a.bus)
	case args.once:
		return nil
	default:
		s, err := lifecycle.ParseScript([]byte(lifecycle.DefaultScript))
		if err != nil {
			return err
		}
		return s.Play(ctx, a.bus)
	}
}

// watchSignals cancels on SIGINT or SIGTERM. SIGINT is ignored while a
// one-shot overlay runs: it belongs to the foreground renderer.
func (a *app) watchSignals(ctx context.Context) {
	ch := make(chan os.Signal, 1)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(ch)

	for {
		select {
		case <-ctx.Done():
			return
		case sig := <-ch:
			if sig == os.Interrupt && a.coord != nil && a.coord.State() == handoff.StateManual {
				pilog.Debug("signal: interrupt left to the one-shot renderer")
				continue
			}
			pilog.Info("signal: %v, shutting down", sig)
			a.quit()
			return
		}
	}
}

// runHeadless prints events without a UI. Overlays stay disabled because
// nothing owns a terminal to hand over.
func (a *app) runHeadless(ctx context.Context, sourceDone <-chan struct{}) error {
	pilog.Warn("stdin or stdout is not a terminal; overlays disabled")
	unsubscribe := a.bus.Subscribe(func(ev lifecycle.Event) {
		fmt.Println(eventLine(ev))
	})
	defer unsubscribe()
	defer a.stop()

	if a.once {
		a.playOnce(ctx)
		return nil
	}
	select {
	case <-ctx.Done():
	case <-sourceDone:
	}
	return nil
}
