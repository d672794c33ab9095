package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into playlists, behavior, display and utility.
// Negated flags (e.g. --no-combined) are applied after Parse so Config defaults hold unless set.

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
)

// Returned by ParseFlags when the user asked for help or the version. The
// caller prints and exits successfully.
var (
	ErrShowHelp    = errors.New("help requested")
	ErrShowVersion = errors.New("version requested")
)

// ParseFlags parses args (without the program name) into cfg. Values
// already in cfg act as defaults, so it can run on top of a loaded config
// file. Help text goes to out.
func ParseFlags(cfg *Config, args []string, version string, out io.Writer) error {
	fs := newFlagSet(version, out)
	var negated negatedFlags
	defineAll(fs, cfg, &negated)

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ErrShowHelp
		}
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage(out, version)
		return ErrShowHelp
	}
	if negated.showVersion {
		fmt.Fprintln(out, "reelorder v"+version)
		return ErrShowVersion
	}

	return parsePositionalArgs(fs, cfg)
}

func newFlagSet(version string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet("reelorder", flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printUsage(out, version) }
	return fs
}

func defineAll(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	definePlaylistFlags(fs, cfg, n)
	defineBehaviorFlags(fs, cfg, n)
	defineDisplayFlags(fs, cfg, n)
	defineUtilityFlags(fs, cfg, n)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noCombined -> CombinedPlaylists=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noCombined  bool
	noStoryline bool
	noPurge     bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// definePlaylistFlags registers --placement, --no-combined, --no-storyline, --script-name, --append-unmatched.
func definePlaylistFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.Var(&placementValue{&cfg.Placement}, "placement", "Playlist placement: parent | folder")
	fs.BoolVar(&n.noCombined, "no-combined", false, "Do not build combined parent playlists")
	fs.BoolVar(&n.noStoryline, "no-storyline", false, "Do not build storyline playlists")
	fs.StringVar(&cfg.ScriptName, "script-name", cfg.ScriptName, "Per-folder storyline script file name")
	fs.StringVar(&cfg.StorylineTitle, "storyline-title", cfg.StorylineTitle, "Title written into storyline playlists")
	fs.BoolVar(&cfg.AppendUnmatched, "append-unmatched", cfg.AppendUnmatched, "Append files missing from the storyline")
}

// defineBehaviorFlags registers dry-run, purge, workers and the repeat schedule.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", cfg.DryRun, "Preview only; do not write or delete playlists")
	fs.BoolVar(&cfg.DryRun, "d", cfg.DryRun, "Same as --dry-run")
	fs.BoolVar(&n.noPurge, "no-purge", false, "Keep existing .xspf/.m3u files")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "Folders processed in parallel")
	fs.IntVar(&cfg.Workers, "j", cfg.Workers, "Same as --workers")
	fs.StringVar(&cfg.Schedule, "every", cfg.Schedule, "Cron expression; rerun on this schedule until interrupted")
}

// defineDisplayFlags registers --color, --no-color, verbose, log and metrics outputs.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "Same as --verbose")
	fs.Var(&logFormatValue{&cfg.LogFormat}, "log-format", "Console log format: console | json")
	fs.StringVar(&cfg.LogFile, "log", cfg.LogFile, "Append logs to file (rotated)")
	fs.StringVar(&cfg.LogFile, "l", cfg.LogFile, "Same as --log")
	fs.StringVar(&cfg.MetricsFile, "metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this textfile")
}

// defineUtilityFlags registers config sources, --check, --print-config, --version and --help.
func defineUtilityFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "Load environment variables from file")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Run preflight diagnostics and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.BoolVar(&cfg.PrintConfig, "print-config", false, "Print the effective config as YAML and exit")
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noCombined {
		cfg.CombinedPlaylists = false
	}
	if n.noStoryline {
		cfg.StorylinePlaylists = false
	}
	if n.noPurge {
		cfg.PurgeStale = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets RootDir from the single positional arg. A root
// from the config file is kept when no positional arg is given.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	switch len(args) {
	case 0:
		if cfg.RootDir != "" || cfg.CheckOnly || cfg.PrintConfig {
			return nil
		}
		return fmt.Errorf("need exactly one root_dir")
	case 1:
		cfg.RootDir = NormalizeDirArg(args[0])
		return nil
	default:
		return fmt.Errorf("need exactly one root_dir (got %d arguments)", len(args))
	}
}

// printUsage writes the help text. Column-aligned for readability.
func printUsage(out io.Writer, version string) {
	const col1 = 30 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "reelorder v" + version + " - ordered XSPF playlists from filenames and storyline scripts"},
		{"", ""},
		{"  reelorder [OPTIONS] <root_dir>", ""},
		{"", ""},
		{"Playlists", ""},
		{"  --placement <parent|folder>", "Where folder playlists go (default: parent)"},
		{"  --no-combined", "Skip combined parent playlists"},
		{"  --no-storyline", "Skip storyline playlists"},
		{"  --script-name <file>", "Storyline script name (default: Storyline.txt)"},
		{"  --storyline-title <text>", "Storyline playlist title"},
		{"  --append-unmatched", "Append files the storyline did not match"},
		{"", ""},
		{"Behavior", ""},
		{"  -d, --dry-run", "Preview only; write and delete nothing"},
		{"  --no-purge", "Keep existing .xspf/.m3u files"},
		{"  -j, --workers <n>", "Folders processed in parallel"},
		{"  --every <cron>", "Rerun on a cron schedule until interrupted"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  --log-format <console|json>", "Console log format (default: console)"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file (rotated)"},
		{"  --metrics-file <path>", "Write Prometheus textfile metrics"},
		{"  --config <path>", "YAML config file (default: ./reelorder.yaml)"},
		{"  --env-file <path>", "Environment file (default: ./.env)"},
		{"  --print-config", "Print effective config and exit"},
		{"  -c, --check", "Preflight diagnostics"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(out)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(out, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(out, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(out, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapters so we can use enum types (Placement, LogFormat) with flag.Var.

type placementValue struct{ p *Placement }

func (v *placementValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *placementValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "parent":
		*v.p = PlaceParent
	case "folder", "same":
		*v.p = PlaceFolder
	default:
		return fmt.Errorf("invalid placement %q (use 'parent' or 'folder')", s)
	}
	return nil
}

type logFormatValue struct{ p *LogFormat }

func (v *logFormatValue) String() string {
	if v.p == nil {
		return ""
	}
	return string(*v.p)
}

func (v *logFormatValue) Set(s string) error {
	switch strings.ToLower(s) {
	case "console", "text":
		*v.p = LogConsole
	case "json":
		*v.p = LogJSON
	default:
		return fmt.Errorf("invalid log format %q (use 'console' or 'json')", s)
	}
	return nil
}
