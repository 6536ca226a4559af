// ABOUTME: Slash command registry and dispatch for the overlay host
// ABOUTME: Provides /thinking-gif, /overlay status|list|preview, /help and /quit with fuzzy suggestions

package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mauromedda/pi-overlay-go/internal/asset"
	"github.com/mauromedda/pi-overlay-go/internal/handoff"
	"github.com/mauromedda/pi-overlay-go/pkg/tui/fuzzy"
)

// Command represents a slash command.
type Command struct {
	Name        string
	Description string
	Execute     func(ctx *CommandContext, args string) (string, error)
}

// Status reports coordinator state. *handoff.Coordinator implements it.
type Status interface {
	State() handoff.State
	Stats() handoff.Stats
}

// Lister enumerates overlay assets. *asset.Resolver implements it.
type Lister interface {
	List() []string
}

// CommandContext provides access to host state for commands.
type CommandContext struct {
	Context   context.Context
	Version   string
	AssetsDir string
	Assets    Lister
	Status    Status

	// PlayOnce runs the manual overlay. Nilable; /thinking-gif returns
	// "not available" when nil.
	PlayOnce func(ctx context.Context) error
	// Probe reads asset dimensions. Nil means asset.Probe.
	Probe func(path string) (asset.Info, error)
	// Thumbnail renders an asset preview. Nil means asset.Thumbnail.
	Thumbnail func(path string, maxCols, maxRows int) ([]string, error)
	// Quit asks the host to exit. Nilable.
	Quit func()
}

// Registry holds all registered slash commands.
type Registry struct {
	commands map[string]*Command
}

// NewRegistry creates a registry with all core commands registered.
func NewRegistry() *Registry {
	r := &Registry{commands: make(map[string]*Command)}
	r.registerCoreCommands()
	return r
}

// Register adds or replaces a command.
func (r *Registry) Register(cmd *Command) {
	r.commands[cmd.Name] = cmd
}

// Get returns a command by name.
func (r *Registry) Get(name string) (*Command, bool) {
	cmd, ok := r.commands[name]
	return cmd, ok
}

// List returns all commands sorted by name for deterministic output.
func (r *Registry) List() []*Command {
	result := make([]*Command, 0, len(r.commands))
	for _, cmd := range r.commands {
		result = append(result, cmd)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})
	return result
}

func (r *Registry) names() []string {
	cmds := r.List()
	names := make([]string, len(cmds))
	for i, c := range cmds {
		names[i] = c.Name
	}
	return names
}

// Dispatch parses a "/command args" input, looks up the command, and executes it.
// Unknown commands yield an error carrying the closest known name, if any.
func (r *Registry) Dispatch(ctx *CommandContext, input string) (string, error) {
	input = strings.TrimSpace(input)
	if !IsCommand(input) {
		return "", fmt.Errorf("not a command: %q", input)
	}

	name, args, _ := strings.Cut(input[1:], " ")
	args = strings.TrimSpace(args)

	cmd, ok := r.commands[name]
	if !ok {
		if best, ok := fuzzy.Best(name, r.names()); ok {
			return "", fmt.Errorf("unknown command: /%s (did you mean /%s?)", name, best)
		}
		return "", fmt.Errorf("unknown command: /%s", name)
	}
	return cmd.Execute(ctx, args)
}

// Complete returns command names for a partially typed "/prefix", prefix
// matches first, then fuzzy matches.
func (r *Registry) Complete(input string) []string {
	if !IsCommand(input) || strings.ContainsRune(input, ' ') {
		return nil
	}
	prefix := input[1:]
	names := r.names()

	var out []string
	seen := make(map[string]bool)
	for _, n := range names {
		if strings.HasPrefix(n, prefix) {
			out = append(out, "/"+n)
			seen[n] = true
		}
	}
	if prefix == "" {
		return out
	}
	for _, m := range fuzzy.Find(prefix, names) {
		if !seen[m.Str] {
			out = append(out, "/"+m.Str)
		}
	}
	return out
}

// IsCommand returns true if input starts with '/'.
func IsCommand(input string) bool {
	return len(input) > 0 && input[0] == '/'
}

// registerCoreCommands adds all built-in slash commands to the registry.
func (r *Registry) registerCoreCommands() {
	core := []*Command{
		{
			Name:        "thinking-gif",
			Description: "Play a random thinking GIF (Ctrl+C to stop)",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.PlayOnce == nil {
					return "Overlay not available.", nil
				}
				c := ctx.Context
				if c == nil {
					c = context.Background()
				}
				if err := ctx.PlayOnce(c); err != nil {
					return "", err
				}
				return "", nil
			},
		},
		{
			Name:        "overlay",
			Description: "Overlay status and assets: /overlay status|list|preview [name]",
			Execute: func(ctx *CommandContext, args string) (string, error) {
				sub, rest, _ := strings.Cut(args, " ")
				switch sub {
				case "", "status":
					return overlayStatus(ctx), nil
				case "list":
					return overlayList(ctx)
				case "preview":
					return overlayPreview(ctx, strings.TrimSpace(rest))
				default:
					return "", fmt.Errorf("usage: /overlay status|list|preview [name]")
				}
			},
		},
		{
			Name:        "help",
			Description: "Show available commands",
			Execute: func(_ *CommandContext, _ string) (string, error) {
				var b strings.Builder
				b.WriteString("Available commands:\n")
				for _, cmd := range r.List() {
					fmt.Fprintf(&b, "  /%s: %s\n", cmd.Name, cmd.Description)
				}
				return b.String(), nil
			},
		},
		{
			Name:        "quit",
			Description: "Exit",
			Execute: func(ctx *CommandContext, _ string) (string, error) {
				if ctx.Quit == nil {
					return "Quit not available.", nil
				}
				ctx.Quit()
				return "Bye.", nil
			},
		},
	}

	for _, cmd := range core {
		r.commands[cmd.Name] = cmd
	}
}

func overlayStatus(ctx *CommandContext) string {
	var b strings.Builder
	if ctx.Status == nil {
		b.WriteString("State:    not attached\n")
	} else {
		s := ctx.Status.Stats()
		fmt.Fprintf(&b, "State:    %s\n", ctx.Status.State())
		fmt.Fprintf(&b, "Overlays: %d started, %d finished (%d ended on their own)\n",
			s.Started, s.Finished, s.SelfExits)
		fmt.Fprintf(&b, "Failures: %d\n", s.SpawnFailures)
	}
	n := 0
	if ctx.Assets != nil {
		n = len(ctx.Assets.List())
	}
	fmt.Fprintf(&b, "Assets:   %d in %s", n, ctx.AssetsDir)
	return b.String()
}

func overlayList(ctx *CommandContext) (string, error) {
	var paths []string
	if ctx.Assets != nil {
		paths = ctx.Assets.List()
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w in %s", asset.ErrNoAssets, ctx.AssetsDir)
	}
	probe := ctx.Probe
	if probe == nil {
		probe = asset.Probe
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d assets in %s:\n", len(paths), ctx.AssetsDir)
	for _, p := range paths {
		name := filepath.Base(p)
		info, err := probe(p)
		if err != nil {
			fmt.Fprintf(&b, "  %s  (unreadable: %v)\n", name, err)
			continue
		}
		fmt.Fprintf(&b, "  %s  %dx%d %s\n", name, info.Width, info.Height, info.Format)
	}
	return b.String(), nil
}

// Preview box in terminal cells.
const (
	previewCols = 32
	previewRows = 12
)

// overlayPreview renders the named asset, or the first one when name is empty.
func overlayPreview(ctx *CommandContext, name string) (string, error) {
	var paths []string
	if ctx.Assets != nil {
		paths = ctx.Assets.List()
	}
	if len(paths) == 0 {
		return "", fmt.Errorf("%w in %s", asset.ErrNoAssets, ctx.AssetsDir)
	}

	path := paths[0]
	if name != "" {
		path = ""
		for _, p := range paths {
			if filepath.Base(p) == name {
				path = p
				break
			}
		}
		if path == "" {
			return "", fmt.Errorf("no asset named %q in %s", name, ctx.AssetsDir)
		}
	}

	thumb := ctx.Thumbnail
	if thumb == nil {
		thumb = asset.Thumbnail
	}
	lines, err := thumb(path, previewCols, previewRows)
	if err != nil {
		return "", err
	}
	return filepath.Base(path) + "\n" + strings.Join(lines, "\n"), nil
}
