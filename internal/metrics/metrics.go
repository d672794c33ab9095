// Package metrics records per-run counters in a private Prometheus registry
// and exports them to a node_exporter textfile.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/backmassage/reelorder/internal/pipeline"
)

// Recorder holds the run metrics. Counters accumulate across runs in
// repeat mode; gauges describe the latest run.
type Recorder struct {
	reg *prometheus.Registry

	RunsTotal         prometheus.Counter
	PlaylistsWritten  *prometheus.CounterVec
	TracksWritten     prometheus.Counter
	FolderErrors      prometheus.Counter
	PlaylistsPurged   prometheus.Counter
	StorylineFiles    *prometheus.CounterVec
	LastRunTimestamp  prometheus.Gauge
	LastRunDuration   prometheus.Gauge
	LastRunMediaFiles prometheus.Gauge
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Recorder{
		reg: reg,
		RunsTotal: f.NewCounter(prometheus.CounterOpts{
			Name: "reelorder_runs_total",
			Help: "Total number of playlist runs",
		}),
		PlaylistsWritten: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reelorder_playlists_written_total",
			Help: "Playlists written, by kind",
		}, []string{"kind"}), // "folder", "storyline", "combined"
		TracksWritten: f.NewCounter(prometheus.CounterOpts{
			Name: "reelorder_tracks_written_total",
			Help: "Track entries written across all playlists",
		}),
		FolderErrors: f.NewCounter(prometheus.CounterOpts{
			Name: "reelorder_folder_errors_total",
			Help: "Folder-scoped failures",
		}),
		PlaylistsPurged: f.NewCounter(prometheus.CounterOpts{
			Name: "reelorder_playlists_purged_total",
			Help: "Stale playlists removed before runs",
		}),
		StorylineFiles: f.NewCounterVec(prometheus.CounterOpts{
			Name: "reelorder_storyline_files_total",
			Help: "Media files considered by storyline matching, by result",
		}, []string{"result"}), // "matched", "unmatched"
		LastRunTimestamp: f.NewGauge(prometheus.GaugeOpts{
			Name: "reelorder_last_run_timestamp_seconds",
			Help: "Unix time the last run finished",
		}),
		LastRunDuration: f.NewGauge(prometheus.GaugeOpts{
			Name: "reelorder_last_run_duration_seconds",
			Help: "Duration of the last run",
		}),
		LastRunMediaFiles: f.NewGauge(prometheus.GaugeOpts{
			Name: "reelorder_last_run_media_files",
			Help: "Media files discovered by the last run",
		}),
	}
}

// Registry returns the registry the metrics live in.
func (r *Recorder) Registry() *prometheus.Registry { return r.reg }

// Observe adds one finished run.
func (r *Recorder) Observe(s pipeline.RunStats, finished time.Time) {
	r.RunsTotal.Inc()
	r.PlaylistsWritten.WithLabelValues("folder").Add(float64(s.Playlists))
	r.PlaylistsWritten.WithLabelValues("storyline").Add(float64(s.Storylines))
	r.PlaylistsWritten.WithLabelValues("combined").Add(float64(s.Combined))
	r.TracksWritten.Add(float64(s.Tracks))
	r.FolderErrors.Add(float64(s.Failed))
	r.PlaylistsPurged.Add(float64(s.Purged))
	r.StorylineFiles.WithLabelValues("matched").Add(float64(s.Matched))
	r.StorylineFiles.WithLabelValues("unmatched").Add(float64(s.Unmatched))
	r.LastRunTimestamp.Set(float64(finished.Unix()))
	r.LastRunDuration.Set(s.Elapsed.Seconds())
	r.LastRunMediaFiles.Set(float64(s.MediaFiles))
}

// WriteTextfile writes all metrics to path in the text exposition format.
// The file is replaced atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("write metrics: %w", err)
	}
	return nil
}
