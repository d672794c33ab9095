// Package naming derives sort keys from media filenames.
//
// A filename is classified into one of three shapes, tried in order:
//
//   - Episode: "S01E02 Pilot" → (0, season, episode, title)
//   - Numbered: "03 - Title", "1. Pilot" → (1, number, title)
//   - Series: "Movie 2 (2001)", "Movie Part IV" → (2, base title, part, year)
//
// The series shape is the universal fallback, so every filename produces a
// key. Keys of different shapes compare by their leading discriminant, which
// places episodes before numbered files before series entries.
//
// Files:
//   - key.go: SortKey, Kind, Compare
//   - parser.go: DeriveKey and the ordered rule table
//   - rules.go: episode patterns, year and part-number extraction
//   - path.go: file URI handling, PathKey, SortPaths
package naming
