// Package config holds runtime configuration: defaults, CLI flag parsing,
// config file and environment loading, and validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// --- Enum types for validated string fields ---

// Placement selects where a folder's playlist is written.
type Placement string

const (
	PlaceParent Placement = "parent" // <parent>/<folder>.xspf (default).
	PlaceFolder Placement = "folder" // <folder>/<folder>.xspf.
)

// LogFormat selects the console log encoding.
type LogFormat string

const (
	LogConsole LogFormat = "console" // Human-readable (default).
	LogJSON    LogFormat = "json"    // One JSON object per line.
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Config holds all runtime settings. It is populated by [DefaultConfig],
// then by an optional config file and REELORDER_* environment variables
// ([LoadFile]), and finally by [ParseFlags]. It is passed by pointer to the
// packages that need it; nothing reads ambient global state.
type Config struct {
	// Path (positional arg or "root" in the config file).
	RootDir string `mapstructure:"root" yaml:"root"`

	// Playlist production.
	Placement          Placement `mapstructure:"placement" yaml:"placement"`
	CombinedPlaylists  bool      `mapstructure:"combined" yaml:"combined"`   // Default: true.
	StorylinePlaylists bool      `mapstructure:"storyline" yaml:"storyline"` // Default: true.
	ScriptName         string    `mapstructure:"script_name" yaml:"script_name"`
	StorylineTitle     string    `mapstructure:"storyline_title" yaml:"storyline_title"`
	AppendUnmatched    bool      `mapstructure:"append_unmatched" yaml:"append_unmatched"`
	PurgeStale         bool      `mapstructure:"purge" yaml:"purge"` // Default: true. Cleared by --no-purge.

	// Behavior.
	DryRun   bool   `mapstructure:"dry_run" yaml:"dry_run"`
	Workers  int    `mapstructure:"workers" yaml:"workers"`   // Default: NumCPU, capped at 8.
	Schedule string `mapstructure:"schedule" yaml:"schedule"` // Cron expression for repeat mode.

	// Display and logging.
	Verbose     bool      `mapstructure:"verbose" yaml:"verbose"`
	LogFormat   LogFormat `mapstructure:"log_format" yaml:"log_format"`
	LogFile     string    `mapstructure:"log_file" yaml:"log_file"`
	ColorMode   ColorMode `mapstructure:"color" yaml:"color"`
	MetricsFile string    `mapstructure:"metrics_file" yaml:"metrics_file"`

	// Command-line only.
	ConfigFile  string `mapstructure:"-" yaml:"-"`
	EnvFile     string `mapstructure:"-" yaml:"-"`
	CheckOnly   bool   `mapstructure:"-" yaml:"-"`
	PrintConfig bool   `mapstructure:"-" yaml:"-"`
}

// DefaultConfig returns a Config with every default set: combined and
// storyline playlists on, playlists placed next to their folder, stale
// playlists purged.
func DefaultConfig() Config {
	return Config{
		Placement:          PlaceParent,
		CombinedPlaylists:  true,
		StorylinePlaylists: true,
		ScriptName:         "Storyline.txt",
		StorylineTitle:     "Storyline Playlist",
		AppendUnmatched:    false,
		PurgeStale:         true,
		DryRun:             false,
		Workers:            defaultWorkers(),
		LogFormat:          LogConsole,
		ColorMode:          ColorAuto,
	}
}

func defaultWorkers() int {
	n := runtime.NumCPU()
	if n > 8 {
		n = 8
	}
	if n < 1 {
		n = 1
	}
	return n
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks that enum fields hold valid values and that numeric
// settings are in range. When not in CheckOnly or PrintConfig mode, it also
// requires a root directory.
func (c *Config) Validate() error {
	switch c.Placement {
	case PlaceParent, PlaceFolder:
		// valid
	default:
		return fmt.Errorf("invalid placement %q (use 'parent' or 'folder')", c.Placement)
	}

	switch c.LogFormat {
	case LogConsole, LogJSON:
		// valid
	default:
		return fmt.Errorf("invalid log format %q (use 'console' or 'json')", c.LogFormat)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	if c.Workers < 1 {
		return errors.New("workers must be at least 1")
	}
	if strings.TrimSpace(c.ScriptName) == "" {
		return errors.New("script name must not be empty")
	}
	if strings.ContainsAny(c.ScriptName, `/\`) {
		return fmt.Errorf("script name %q must be a bare file name", c.ScriptName)
	}

	if c.CheckOnly || c.PrintConfig {
		return nil
	}
	if c.RootDir == "" {
		return errors.New("need exactly one root_dir")
	}
	return nil
}

// PlaylistDir returns the directory that receives a folder's playlist
// under the configured placement.
func (c *Config) PlaylistDir(folder string) string {
	if c.Placement == PlaceParent {
		return filepath.Dir(folder)
	}
	return folder
}
