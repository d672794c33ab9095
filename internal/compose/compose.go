// Package compose merges a folder's own ordering with the already ordered
// playlists of its subfolders. Nothing is re-sorted except the order in
// which children are visited; every child's internal order is kept.
package compose

import (
	"cmp"
	"slices"
	"strings"
)

// Child is one subfolder's finished ordering. ID is the identifier children
// are sorted by, normally the subfolder name.
type Child struct {
	ID     string
	Tracks []string
}

// Compose returns own, followed by each child's tracks in case-insensitive
// ID order, with repeated tracks dropped after their first occurrence. The
// inputs are not modified.
func Compose(own []string, children []Child) []string {
	sorted := slices.Clone(children)
	SortChildren(sorted)

	out := make([]string, 0, len(own)+trackCount(sorted))
	out = append(out, own...)
	for _, c := range sorted {
		out = append(out, c.Tracks...)
	}
	return Dedup(out)
}

// SortChildren orders children by lowercased ID; the exact ID breaks ties
// so "a" and "A" land in a fixed order.
func SortChildren(children []Child) {
	slices.SortStableFunc(children, func(a, b Child) int {
		if c := cmp.Compare(strings.ToLower(a.ID), strings.ToLower(b.ID)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// Dedup removes repeated tokens in place, keeping first occurrences.
func Dedup(tracks []string) []string {
	seen := make(map[string]struct{}, len(tracks))
	out := tracks[:0]
	for _, t := range tracks {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

func trackCount(children []Child) int {
	n := 0
	for _, c := range children {
		n += len(c.Tracks)
	}
	return n
}
