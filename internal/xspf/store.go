package xspf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// Store reads and writes playlists for one run. Target paths are claimed
// through its CollisionResolver. In dry-run mode nothing on disk changes:
// Save only encodes and Purge only records what it would delete.
type Store struct {
	dryRun   bool
	resolver *CollisionResolver

	mu      sync.Mutex
	removed map[string]struct{} // purged paths still on disk (dry-run)
}

// NewStore returns a Store with an empty claim table.
func NewStore(dryRun bool) *Store {
	return &Store{
		dryRun:   dryRun,
		resolver: NewCollisionResolver(),
		removed:  make(map[string]struct{}),
	}
}

// DryRun reports whether writes are suppressed.
func (s *Store) DryRun() bool { return s.dryRun }

// Claim reserves a target path for owner and returns the path to use.
func (s *Store) Claim(owner, path string) string {
	return s.resolver.Resolve(owner, path)
}

// PathFor returns the path owner claimed earlier.
func (s *Store) PathFor(owner string) (string, bool) {
	return s.resolver.Lookup(owner)
}

// Exists reports whether a playlist file is present at path. Files a
// dry-run purge would have removed count as absent.
func (s *Store) Exists(path string) bool {
	s.mu.Lock()
	_, gone := s.removed[path]
	s.mu.Unlock()
	if gone {
		return false
	}
	fi, err := os.Stat(path)
	return err == nil && fi.Mode().IsRegular()
}

// Load reads the playlist at path.
func (s *Store) Load(path string) (*Playlist, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()

	pl, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	pl.Path = path
	return pl, nil
}

// Save writes pl to pl.Path through a temp file and rename, so readers
// never see a partial playlist. It returns the encoded size.
func (s *Store) Save(pl *Playlist) (int64, error) {
	if pl.Path == "" {
		return 0, errors.New("save playlist: empty path")
	}
	var buf bytes.Buffer
	if err := Encode(&buf, pl); err != nil {
		return 0, err
	}
	size := int64(buf.Len())
	if s.dryRun {
		return size, nil
	}

	dir := filepath.Dir(pl.Path)
	tmp, err := os.CreateTemp(dir, ".reelorder-*.tmp")
	if err != nil {
		return 0, fmt.Errorf("save playlist: %w", err)
	}
	tmpPath := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpPath) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		cleanup()
		return 0, fmt.Errorf("write %s: %w", pl.Path, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return 0, fmt.Errorf("write %s: %w", pl.Path, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		cleanup()
		return 0, fmt.Errorf("write %s: %w", pl.Path, err)
	}
	if err := os.Rename(tmpPath, pl.Path); err != nil {
		cleanup()
		return 0, fmt.Errorf("rename %s: %w", pl.Path, err)
	}

	s.mu.Lock()
	delete(s.removed, pl.Path)
	s.mu.Unlock()
	return size, nil
}

// Purge deletes every .xspf and .m3u file under root and returns the paths
// removed (or, in dry-run mode, the paths that would be removed). Failures
// on single files are collected and do not stop the walk.
func (s *Store) Purge(ctx context.Context, root string) ([]string, error) {
	var removed []string
	var errs []error

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			errs = append(errs, err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !d.Type().IsRegular() || !IsPlaylistFile(d.Name()) {
			return nil
		}
		if s.dryRun {
			s.mu.Lock()
			s.removed[path] = struct{}{}
			s.mu.Unlock()
		} else if err := os.Remove(path); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", path, err))
			return nil
		}
		removed = append(removed, path)
		return nil
	})
	if walkErr != nil {
		return removed, fmt.Errorf("purge %s: %w", root, walkErr)
	}
	return removed, errors.Join(errs...)
}
