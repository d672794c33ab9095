package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/reelorder/internal/compose"
	"github.com/backmassage/reelorder/internal/config"
	"github.com/backmassage/reelorder/internal/display"
	"github.com/backmassage/reelorder/internal/logging"
	"github.com/backmassage/reelorder/internal/naming"
	"github.com/backmassage/reelorder/internal/storyline"
	"github.com/backmassage/reelorder/internal/xspf"
)

// Progress receives (current, total) folder counters while a run works.
// *logging.Logger implements it.
type Progress interface {
	Update(message string, current, total int)
}

// unmatchedPreview is how many unmatched storyline files are listed.
const unmatchedPreview = 5

// runner carries the state of one run.
type runner struct {
	cfg      *config.Config
	log      *logging.Logger
	progress Progress
	store    *xspf.Store
	tree     *Tree
	arena    *arena
	stats    tally
}

// Run is the top-level entry point: purge, discover, plan, phase 1,
// phase 2, summary. The error is non-nil only when the run could not
// start (root unreadable); folder failures are reported in RunStats.Failed.
// progress may be nil.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, progress Progress) (RunStats, error) {
	start := time.Now()
	r := &runner{
		cfg:      cfg,
		log:      log,
		progress: progress,
		store:    xspf.NewStore(cfg.DryRun),
		arena:    newArena(),
	}

	if cfg.PurgeStale {
		r.purge(ctx)
	}

	tree, err := Discover(ctx, cfg.RootDir, cfg.ScriptName, log)
	if err != nil {
		return r.stats.snapshot(), err
	}
	r.tree = tree
	r.stats.update(func(s *RunStats) {
		s.Folders = len(tree.Folders)
		s.MediaFiles = tree.MediaCount()
		s.MediaBytes = tree.MediaBytes()
	})

	planTargets(cfg, tree, r.store)
	r.logBatchHeader()

	r.phaseFolders(ctx)
	if cfg.CombinedPlaylists && ctx.Err() == nil {
		r.phaseCombined(ctx)
	}

	stats := r.stats.snapshot()
	stats.Interrupted = ctx.Err() != nil
	stats.Elapsed = time.Since(start)
	r.logSummary(&stats)
	return stats, nil
}

func (r *runner) purge(ctx context.Context) {
	removed, err := r.store.Purge(ctx, r.cfg.RootDir)
	if err != nil {
		r.log.Warn("Purge incomplete: %v", err)
	}
	verb := "Removed"
	if r.store.DryRun() {
		verb = "[DRY] Would remove"
	}
	if len(removed) > 0 {
		r.log.Info("%s %s", verb, display.Plural(len(removed), "stale playlist"))
	}
	for _, p := range removed {
		r.log.Debug("  %s", p)
	}
	r.stats.update(func(s *RunStats) { s.Purged = len(removed) })
}

// phaseFolders writes folder and storyline playlists, folders running
// concurrently up to cfg.Workers.
func (r *runner) phaseFolders(ctx context.Context) {
	var work []*Folder
	for _, f := range r.tree.Folders {
		if len(f.Media) > 0 || r.wantsStoryline(f) {
			work = append(work, f)
		}
	}

	total := len(work)
	var done atomic.Int64
	g := new(errgroup.Group)
	g.SetLimit(r.cfg.Workers)

	for _, f := range work {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			break
		}
		f := f
		g.Go(func() error {
			r.processFolder(f)
			n := int(done.Add(1))
			r.report(fmt.Sprintf("Processed %s", f.Name), n, total)
			return nil
		})
	}
	_ = g.Wait()
}

func (r *runner) wantsStoryline(f *Folder) bool {
	return r.cfg.StorylinePlaylists && f.Script != ""
}

// processFolder handles one folder: key-ordered folder playlist, then the
// storyline playlist when a script is present.
func (r *runner) processFolder(f *Folder) {
	if len(f.Media) > 0 {
		tracks := locations(f.Media)
		naming.SortPaths(tracks)
		r.log.Debug("%s: %s ordering", f.Name, naming.Classify(tracks[0]))
		path, _ := r.store.PathFor(folderOwner + f.Path)
		if r.save(f, &xspf.Playlist{Title: f.Name, Path: path, Tracks: tracks}) {
			r.arena.set(f.Path, tracks)
			r.stats.update(func(s *RunStats) { s.Playlists++ })
		}
	}
	if r.wantsStoryline(f) {
		r.processStoryline(f)
	}
}

func (r *runner) processStoryline(f *Folder) {
	lines, err := storyline.ReadScript(f.Script)
	if err != nil {
		r.log.Warn("Cannot read storyline for %s: %v", f.Name, err)
		return
	}
	if len(lines) == 0 {
		return
	}

	media := locations(f.SubtreeMedia())
	if len(media) == 0 {
		r.log.Info("Storyline %s: no media files", f.Name)
		return
	}
	res := storyline.Match(lines, media)

	tracks := slices.Clone(res.Matched)
	if r.cfg.AppendUnmatched && len(res.Unmatched) > 0 {
		rest := slices.Clone(res.Unmatched)
		naming.SortPathsByLocation(rest)
		tracks = append(tracks, rest...)
	}

	r.stats.update(func(s *RunStats) {
		s.Matched += len(res.Matched)
		s.Unmatched += len(res.Unmatched)
	})

	if len(tracks) == 0 {
		r.log.Info("Storyline %s: no files matched", f.Name)
		return
	}

	path, _ := r.store.PathFor(storylineOwner + f.Path)
	if !r.save(f, &xspf.Playlist{Title: r.cfg.StorylineTitle, Path: path, Tracks: tracks}) {
		return
	}
	r.stats.update(func(s *RunStats) { s.Storylines++ })

	r.log.Success("Storyline %s: %d of %d files matched (%d unmatched)",
		f.Name, len(res.Matched), len(media), len(res.Unmatched))
	if r.log.Verbose() && len(res.Unmatched) > 0 {
		preview := res.Unmatched[:min(unmatchedPreview, len(res.Unmatched))]
		for _, u := range preview {
			r.log.Debug("  unmatched: %s", naming.BaseName(u))
		}
	}
}

// phaseCombined composes folders bottom-up. Each depth level finishes
// before its parent level starts; siblings run concurrently.
func (r *runner) phaseCombined(ctx context.Context) {
	levels := r.tree.Levels()
	total := 0
	for _, lvl := range levels {
		total += len(lvl)
	}
	var done atomic.Int64

	for _, lvl := range levels {
		if ctx.Err() != nil {
			r.log.Warn("Interrupted")
			return
		}
		g := new(errgroup.Group)
		g.SetLimit(r.cfg.Workers)
		for _, f := range lvl {
			f := f
			g.Go(func() error {
				r.combineFolder(f)
				n := int(done.Add(1))
				r.report(fmt.Sprintf("Combined %s", f.Name), n, total)
				return nil
			})
		}
		_ = g.Wait()
	}
}

// combineFolder writes f's combined playlist when at least one child has
// an ordering. The folder's own ordering comes from phase 1, or from an
// existing playlist at its claimed path.
func (r *runner) combineFolder(f *Folder) {
	var children []compose.Child
	for _, c := range f.Children {
		if tracks, ok := r.arena.get(c.Path); ok && len(tracks) > 0 {
			children = append(children, compose.Child{ID: c.Name, Tracks: tracks})
		}
	}
	if len(children) == 0 {
		return
	}

	path, ok := r.store.PathFor(folderOwner + f.Path)
	if !ok {
		return
	}

	own, ok := r.arena.get(f.Path)
	if !ok && r.store.Exists(path) {
		pl, err := r.store.Load(path)
		if err != nil {
			r.fail(f, fmt.Errorf("existing playlist: %w", err))
		} else {
			own = pl.Tracks
		}
	}

	tracks := compose.Compose(own, children)
	if len(tracks) == 0 {
		return
	}
	if r.save(f, &xspf.Playlist{Title: f.Name, Path: path, Tracks: tracks}) {
		r.arena.set(f.Path, tracks)
		r.stats.update(func(s *RunStats) { s.Combined++ })
	}
}

// save writes pl and records bytes and tracks. Failures are folder-scoped.
func (r *runner) save(f *Folder, pl *xspf.Playlist) bool {
	n, err := r.store.Save(pl)
	if err != nil {
		r.fail(f, err)
		return false
	}
	r.stats.update(func(s *RunStats) {
		s.Tracks += len(pl.Tracks)
		s.Bytes += n
	})
	if r.store.DryRun() {
		r.log.Info("[DRY] Would write %s (%d tracks)", filepath.Base(pl.Path), len(pl.Tracks))
	} else {
		r.log.Debug("Wrote %s (%d tracks)", pl.Path, len(pl.Tracks))
	}
	return true
}

func (r *runner) fail(f *Folder, err error) {
	r.log.FolderError(f.Path, err)
	r.stats.update(func(s *RunStats) { s.Failed++ })
}

func (r *runner) report(message string, current, total int) {
	if r.progress != nil {
		r.progress.Update(message, current, total)
	}
}

// locations converts filesystem paths to file:// track locations.
func locations(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = xspf.LocationFor(p)
	}
	return out
}

// --- Logging helpers ---

func (r *runner) logBatchHeader() {
	s := r.stats.snapshot()
	r.log.Info("Found %s with %s (%s)",
		display.Plural(s.Folders, "folder"),
		display.Plural(s.MediaFiles, "media file"),
		display.FormatBytes(s.MediaBytes))
	r.log.Info("Placement: %s, combined: %t, storyline: %t (%s)",
		r.cfg.Placement, r.cfg.CombinedPlaylists, r.cfg.StorylinePlaylists, r.cfg.ScriptName)
	if r.cfg.DryRun {
		r.log.Warn("Dry run: nothing will be written")
	}
}

func (r *runner) logSummary(s *RunStats) {
	verb := "Wrote"
	if r.cfg.DryRun {
		verb = "Would write"
	}
	r.log.Success("%s %s (%d folder, %d storyline, %d combined), %s, %s in %s",
		verb, display.Plural(s.Written(), "playlist"),
		s.Playlists, s.Storylines, s.Combined,
		display.Plural(s.Tracks, "track"),
		display.FormatBytes(s.Bytes),
		display.FormatElapsed(s.Elapsed))
	if s.Matched+s.Unmatched > 0 {
		r.log.Info("Storyline matches: %d matched, %d unmatched", s.Matched, s.Unmatched)
	}
	if s.Failed > 0 {
		r.log.Error("%s failed", display.Plural(s.Failed, "folder"))
	}
	if s.Interrupted {
		r.log.Warn("Run interrupted; results are partial")
	}
}
