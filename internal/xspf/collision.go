package xspf

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// CollisionResolver hands out playlist target paths to owners (a folder
// playlist, a storyline playlist) and resolves duplicates by appending
// " - dupN" suffixes. The first owner to claim a path keeps it, so claiming
// in a fixed order gives the same paths on every run. All methods are
// goroutine-safe.
type CollisionResolver struct {
	mu       sync.Mutex
	owners   map[string]string // target path → owner that claimed it
	claims   map[string]string // owner → its resolved path
	counters map[string]int    // requested path → next dup counter
}

// NewCollisionResolver creates a ready-to-use resolver.
func NewCollisionResolver() *CollisionResolver {
	return &CollisionResolver{
		owners:   make(map[string]string),
		claims:   make(map[string]string),
		counters: make(map[string]int),
	}
}

// Resolve returns the final path for owner. If requested is unclaimed (or
// already owned by owner), it is returned as-is. Otherwise a " - dupN"
// variant is generated. An owner that claimed before gets its earlier path.
func (cr *CollisionResolver) Resolve(owner, requested string) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if prev, ok := cr.claims[owner]; ok {
		return prev
	}

	key := pathKey(requested)
	cur, exists := cr.owners[key]
	if !exists || cur == owner {
		cr.take(owner, requested)
		return requested
	}

	// Dup names follow the first claimant's spelling.
	taken := cr.claims[cur]
	dir := filepath.Dir(taken)
	base := filepath.Base(taken)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)

	counter := cr.counters[key]
	if counter == 0 {
		counter = 1
	}

	for {
		candidate := filepath.Join(dir, fmt.Sprintf("%s - dup%d%s", stem, counter, ext))
		cOwner, cExists := cr.owners[pathKey(candidate)]
		if !cExists || cOwner == owner {
			cr.counters[key] = counter + 1
			cr.take(owner, candidate)
			return candidate
		}
		counter++
	}
}

// Lookup returns the path owner claimed, if any.
func (cr *CollisionResolver) Lookup(owner string) (string, bool) {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	p, ok := cr.claims[owner]
	return p, ok
}

// Len returns the number of claimed paths.
func (cr *CollisionResolver) Len() int {
	cr.mu.Lock()
	defer cr.mu.Unlock()
	return len(cr.claims)
}

func (cr *CollisionResolver) take(owner, path string) {
	cr.owners[pathKey(path)] = owner
	cr.claims[owner] = path
}

// pathKey folds case so "Alien.xspf" and "alien.xspf" collide, as they do
// on case-insensitive filesystems.
func pathKey(path string) string {
	return strings.ToLower(filepath.Clean(path))
}
