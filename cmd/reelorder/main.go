// Command reelorder is the CLI entrypoint for the reelorder playlist
// builder.
//
// It loads configuration (flags, environment, config file), validates the
// media root, and either runs diagnostics (--check), prints the effective
// config (--print-config), runs one playlist pass, or repeats passes on a
// cron schedule (--every).
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/reelorder/internal/check"
	"github.com/backmassage/reelorder/internal/config"
	"github.com/backmassage/reelorder/internal/display"
	"github.com/backmassage/reelorder/internal/logging"
	"github.com/backmassage/reelorder/internal/metrics"
	"github.com/backmassage/reelorder/internal/pipeline"
	"github.com/backmassage/reelorder/internal/schedule"
)

// version and commit are injected at build time via -ldflags.
var (
	version = "1.0.0"
	commit  = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg, err := config.Load(os.Args[1:], version, os.Stdout)
	if errors.Is(err, config.ErrShowHelp) || errors.Is(err, config.ErrShowVersion) {
		return 0
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "reelorder: %v\n", err)
		return 1
	}

	if cfg.PrintConfig {
		if err := config.WriteYAML(os.Stdout, cfg); err != nil {
			fmt.Fprintf(os.Stderr, "reelorder: %v\n", err)
			return 1
		}
		return 0
	}

	log, err := logging.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "reelorder: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available; all output goes through log from here on.
	if cfg.LogFormat == config.LogConsole {
		display.PrintBanner(os.Stdout, version)
	}

	if cfg.CheckOnly {
		if check.RunCheck(cfg, log) > 0 {
			return 1
		}
		return 0
	}

	if err := check.Preflight(cfg); err != nil {
		log.Error("%v", err)
		return 1
	}
	if cfg.Schedule != "" {
		if err := schedule.Validate(cfg.Schedule); err != nil {
			log.Error("%v", err)
			return 1
		}
	}

	log.Info("=== reelorder v%s (%s) ===", version, commit)
	log.Info("Root: %s", cfg.RootDir)

	// Phase 3: Signal handling. Cancel on SIGINT/SIGTERM so the pipeline
	// stops scheduling folders; playlists already written stay complete.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current folders…")
		cancel()
	}()

	var recorder *metrics.Recorder
	if cfg.MetricsFile != "" {
		recorder = metrics.New()
	}

	// Phase 4: Run once, or repeatedly on a schedule.
	once := func(ctx context.Context) (pipeline.RunStats, error) {
		runLog := log.WithRun(uuid.NewString())
		stats, err := pipeline.Run(ctx, cfg, runLog, runLog)
		if recorder != nil {
			recorder.Observe(stats, time.Now())
			if werr := recorder.WriteTextfile(cfg.MetricsFile); werr != nil {
				runLog.Warn("%v", werr)
			}
		}
		return stats, err
	}

	if cfg.Schedule == "" {
		stats, err := once(ctx)
		if err != nil {
			log.Error("%v", err)
			return 1
		}
		if stats.Failed > 0 {
			return 1
		}
		return 0
	}

	err = schedule.Repeat(ctx, cfg.Schedule, true, log, func(ctx context.Context) error {
		stats, err := once(ctx)
		if err != nil {
			return err
		}
		if stats.Failed > 0 {
			return fmt.Errorf("%s failed", display.Plural(stats.Failed, "folder"))
		}
		return nil
	})
	if err != nil {
		log.Error("%v", err)
		return 1
	}
	return 0
}
