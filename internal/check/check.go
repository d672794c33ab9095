// Package check provides system diagnostics (--check mode) and the
// pre-run validation (Preflight) of the media root.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/backmassage/reelorder/internal/config"
	"github.com/backmassage/reelorder/internal/schedule"
	"github.com/backmassage/reelorder/internal/term"
)

// Sentinel errors returned by Preflight.
var (
	ErrRootNotFound = errors.New("root directory not found")
	ErrRootNotDir   = errors.New("root is not a directory")
	ErrNotWritable  = errors.New("directory is not writable")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...any)
	Success(string, ...any)
	Warn(string, ...any)
	Error(string, ...any)
	Debug(string, ...any)
}

// Preflight validates the root before a run: it must exist, be a
// directory and, unless dry-running, accept new files.
func Preflight(cfg *config.Config) error {
	fi, err := os.Stat(cfg.RootDir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrRootNotFound, cfg.RootDir)
		}
		return fmt.Errorf("stat root: %w", err)
	}
	if !fi.IsDir() {
		return fmt.Errorf("%w: %s", ErrRootNotDir, cfg.RootDir)
	}
	if cfg.DryRun {
		return nil
	}
	return writable(cfg.RootDir)
}

// RunCheck runs the interactive --check flow: prints the effective
// settings and whether the root, log file and metrics file locations are
// usable. This is informational only; it does not stop on failure. It
// returns the number of problems found.
func RunCheck(cfg *config.Config, log Logger) int {
	problems := 0
	log.Info("=== System Check ===")
	log.Info("Go runtime: %s %s/%s, %d CPUs", runtime.Version(), runtime.GOOS, runtime.GOARCH, runtime.NumCPU())
	log.Info("Colors: %t, workers: %d", term.Enabled(), cfg.Workers)

	if cfg.ConfigFile != "" {
		log.Info("Config file: %s", cfg.ConfigFile)
	}

	if cfg.RootDir == "" {
		log.Warn("No root directory given")
	} else if err := Preflight(cfg); err != nil {
		log.Error("Root: %v", err)
		problems++
	} else {
		log.Success("Root: %s", cfg.RootDir)
		checkScripts(cfg, log)
	}

	for _, f := range []struct{ label, path string }{
		{"Log file", cfg.LogFile},
		{"Metrics file", cfg.MetricsFile},
	} {
		if f.path == "" {
			continue
		}
		if err := writable(filepath.Dir(f.path)); err != nil {
			log.Error("%s: %v", f.label, err)
			problems++
		} else {
			log.Success("%s: %s", f.label, f.path)
		}
	}

	if cfg.Schedule != "" {
		if err := schedule.Validate(cfg.Schedule); err != nil {
			log.Error("Schedule: %v", err)
			problems++
		} else {
			log.Success("Schedule: %s", cfg.Schedule)
		}
	}
	return problems
}

// checkScripts reports storyline scripts directly under the root and one
// level down.
func checkScripts(cfg *config.Config, log Logger) {
	if !cfg.StorylinePlaylists {
		log.Info("Storyline playlists disabled")
		return
	}
	matches, _ := filepath.Glob(filepath.Join(cfg.RootDir, cfg.ScriptName))
	deeper, _ := filepath.Glob(filepath.Join(cfg.RootDir, "*", cfg.ScriptName))
	matches = append(matches, deeper...)
	if len(matches) == 0 {
		log.Info("No %s found in the top two levels", cfg.ScriptName)
		return
	}
	for _, m := range matches {
		log.Debug("  script: %s", m)
	}
	log.Info("Storyline scripts in the top two levels: %d", len(matches))
}

// writable creates and removes a probe file in dir.
func writable(dir string) error {
	f, err := os.CreateTemp(dir, ".reelorder-check-*")
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNotWritable, dir, err)
	}
	name := f.Name()
	f.Close()
	return os.Remove(name)
}
