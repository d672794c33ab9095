package pipeline

import (
	"sync"
	"time"
)

// RunStats tracks aggregate counters across one run.
type RunStats struct {
	Folders    int // Folders walked.
	MediaFiles int
	MediaBytes int64

	Playlists  int // Folder playlists written in phase 1.
	Storylines int
	Combined   int
	Tracks     int // Track entries across all written playlists.
	Bytes      int64

	Matched   int // Storyline matches, summed over all scripts.
	Unmatched int

	Purged      int
	Failed      int // Folder-scoped failures.
	Interrupted bool
	Elapsed     time.Duration
}

// Written returns the number of playlists written (or, in dry-run mode,
// that would have been).
func (s *RunStats) Written() int {
	return s.Playlists + s.Storylines + s.Combined
}

// tally guards RunStats for the concurrent phases.
type tally struct {
	mu sync.Mutex
	s  RunStats
}

func (t *tally) update(fn func(*RunStats)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	fn(&t.s)
}

func (t *tally) snapshot() RunStats {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s
}

// arena holds every folder's finished ordering for phase 2, keyed by
// folder path.
type arena struct {
	mu sync.Mutex
	m  map[string][]string
}

func newArena() *arena {
	return &arena{m: make(map[string][]string)}
}

func (a *arena) get(folder string) ([]string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	t, ok := a.m[folder]
	return t, ok
}

func (a *arena) set(folder string, tracks []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.m[folder] = tracks
}
