// ABOUTME: CLI flag parsing using stdlib flag package
// ABOUTME: Supports --assets, --events, --script, --ui, --once, --log-file, --verbose, --version

package main

import (
	"flag"
	"fmt"
)

// Host UIs selectable with --ui.
const (
	uiEngine = "engine"
	uiTea    = "tea"
)

type cliArgs struct {
	assets  string
	events  string
	script  string
	ui      string
	once    bool
	logFile string
	verbose bool
	version bool
}

func parseFlags(fs *flag.FlagSet, argv []string) (cliArgs, error) {
	var args cliArgs

	fs.StringVar(&args.assets, "assets", "", "Directory holding overlay GIFs (overrides assets_dir)")
	fs.StringVar(&args.events, "events", "", "Read JSON lifecycle events from this file, or - for stdin")
	fs.StringVar(&args.script, "script", "", "Play lifecycle events from a YAML script")
	fs.StringVar(&args.ui, "ui", uiEngine, "Host UI: engine or tea")
	fs.BoolVar(&args.once, "once", false, "Play one overlay as /thinking-gif does, then exit")
	fs.StringVar(&args.logFile, "log-file", "", "Write logs here instead of the configured log_file")
	fs.BoolVar(&args.verbose, "verbose", false, "Enable debug logging")
	fs.BoolVar(&args.version, "version", false, "Show version and exit")

	if err := fs.Parse(argv); err != nil {
		return args, err
	}
	if args.ui != uiEngine && args.ui != uiTea {
		return args, fmt.Errorf("--ui must be %q or %q, got %q", uiEngine, uiTea, args.ui)
	}
	if args.events != "" && args.script != "" {
		return args, fmt.Errorf("--events and --script are mutually exclusive")
	}
	return args, nil
}
