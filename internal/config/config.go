// ABOUTME: Overlay settings loading with defaults, global and project YAML layered on top
// ABOUTME: Project values override global values field by field; empty fields inherit

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"time"

	"gopkg.in/yaml.v3"
)

// Renderer commands read their inputs from PI_OVERLAY_* variables, never
// from text spliced into the command. They exec the renderer so Stop's
// SIGTERM reaches it rather than only the wrapping shell.
const (
	DefaultCommand = `exec chafa --animate=on --size="${PI_OVERLAY_COLS}x${PI_OVERLAY_ROWS}" ` +
		`--stretch --symbols block --colors 256 --color-space rgb --dither none "$PI_OVERLAY_ASSET"`
	DefaultOneShotCommand = `exec chafa --animate=on --duration="$PI_OVERLAY_DURATION" ` +
		`--stretch --color-space rgb "$PI_OVERLAY_ASSET"`

	DefaultHeader          = "🦄 Agent is thinking..."
	DefaultOneShotHeader   = "🦄 Thinking GIF - Press Ctrl+C to stop"
	DefaultHeaderRows      = 2
	DefaultOneShotDuration = 30 * time.Second
	DefaultAssetsDir       = "gifs"
	DefaultSuffix          = ".gif"
)

// EventMatch selects host events by type and, optionally, message role.
type EventMatch struct {
	Type string `yaml:"type"`
	Role string `yaml:"role,omitempty"`
}

// Events lists which host events begin and which end the overlay.
type Events struct {
	Begin []EventMatch `yaml:"begin,omitempty"`
	End   []EventMatch `yaml:"end,omitempty"`
}

// Settings holds the merged overlay configuration.
type Settings struct {
	AssetsDir       string        `yaml:"assets_dir,omitempty"`
	Suffix          string        `yaml:"suffix,omitempty"`
	Shell           string        `yaml:"shell,omitempty"`
	Command         string        `yaml:"command,omitempty"`
	OneShotCommand  string        `yaml:"oneshot_command,omitempty"`
	Header          string        `yaml:"header,omitempty"`
	OneShotHeader   string        `yaml:"oneshot_header,omitempty"`
	HeaderRows      int           `yaml:"header_rows,omitempty"`
	OneShotDuration time.Duration `yaml:"oneshot_duration,omitempty"`
	Events          Events        `yaml:"events,omitempty"`
	LogFile         string        `yaml:"log_file,omitempty"`
}

// DefaultEvents returns the pi agent lifecycle bindings.
func DefaultEvents() Events {
	return Events{
		Begin: []EventMatch{
			{Type: "before_agent_start"},
			{Type: "tool_execution_end"},
		},
		End: []EventMatch{
			{Type: "message_update", Role: "assistant"},
			{Type: "tool_execution_start"},
			{Type: "agent_end"},
			{Type: "session_shutdown"},
		},
	}
}

// Defaults returns the built-in settings for a project rooted at projectRoot.
func Defaults(projectRoot string) *Settings {
	return &Settings{
		AssetsDir:       filepath.Join(projectRoot, DefaultAssetsDir),
		Suffix:          DefaultSuffix,
		Command:         DefaultCommand,
		OneShotCommand:  DefaultOneShotCommand,
		Header:          DefaultHeader,
		OneShotHeader:   DefaultOneShotHeader,
		HeaderRows:      DefaultHeaderRows,
		OneShotDuration: DefaultOneShotDuration,
		Events:          DefaultEvents(),
		LogFile:         filepath.Join(GlobalDir(), "overlay.log"),
	}
}

// Load layers global then project overlay.yaml on top of Defaults.
// Missing files are skipped; malformed files are errors.
func Load(projectRoot string) (*Settings, error) {
	return LoadFiles(projectRoot, ConfigFiles(projectRoot)...)
}

// LoadFiles is Load with explicit file paths, lowest precedence first.
func LoadFiles(projectRoot string, paths ...string) (*Settings, error) {
	result := Defaults(projectRoot)
	for _, path := range paths {
		s, err := loadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		resolveRelative(s, filepath.Dir(filepath.Dir(path)))
		result = merge(result, s)
	}
	ResolveEnvVars(result)
	return result, nil
}

// loadFile reads Settings from a YAML file.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Settings
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// resolveRelative anchors a relative assets_dir at root, the directory
// containing the .pi-go folder the file came from.
func resolveRelative(s *Settings, root string) {
	if s.AssetsDir != "" && !filepath.IsAbs(s.AssetsDir) && !hasEnvRef(s.AssetsDir) {
		s.AssetsDir = filepath.Join(root, s.AssetsDir)
	}
}

// merge overlays non-zero override fields onto base.
func merge(base, override *Settings) *Settings {
	if base == nil {
		base = &Settings{}
	}
	if override == nil {
		return base
	}

	result := *base

	if override.AssetsDir != "" {
		result.AssetsDir = override.AssetsDir
	}
	if override.Suffix != "" {
		result.Suffix = override.Suffix
	}
	if override.Shell != "" {
		result.Shell = override.Shell
	}
	if override.Command != "" {
		result.Command = override.Command
	}
	if override.OneShotCommand != "" {
		result.OneShotCommand = override.OneShotCommand
	}
	if override.Header != "" {
		result.Header = override.Header
	}
	if override.OneShotHeader != "" {
		result.OneShotHeader = override.OneShotHeader
	}
	if override.HeaderRows != 0 {
		result.HeaderRows = override.HeaderRows
	}
	if override.OneShotDuration != 0 {
		result.OneShotDuration = override.OneShotDuration
	}
	// Event lists replace rather than append, so a project can drop a default.
	if len(override.Events.Begin) > 0 {
		result.Events.Begin = override.Events.Begin
	}
	if len(override.Events.End) > 0 {
		result.Events.End = override.Events.End
	}
	if override.LogFile != "" {
		result.LogFile = override.LogFile
	}

	return &result
}

// Validate reports settings the overlay cannot run with.
func (s *Settings) Validate() error {
	var errs []error
	if s.Command == "" {
		errs = append(errs, errors.New("command is empty"))
	}
	if s.OneShotCommand == "" {
		errs = append(errs, errors.New("oneshot_command is empty"))
	}
	if s.HeaderRows < 0 {
		errs = append(errs, fmt.Errorf("header_rows %d is negative", s.HeaderRows))
	}
	if s.OneShotDuration <= 0 {
		errs = append(errs, fmt.Errorf("oneshot_duration %s must be positive", s.OneShotDuration))
	}
	for _, m := range slices.Concat(s.Events.Begin, s.Events.End) {
		if m.Type == "" {
			errs = append(errs, errors.New("event binding without type"))
			break
		}
	}
	return errors.Join(errs...)
}
