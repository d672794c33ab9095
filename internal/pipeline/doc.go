// Package pipeline runs one playlist pass over a media tree.
//
// A run purges stale playlists, discovers the tree once, claims every
// playlist target path in pre-order, then works in two phases:
//
//   - Phase 1 (folders run concurrently): order each folder's direct media
//     by filename key and write its playlist; when a storyline script is
//     present, match the subtree's media against it and write the
//     storyline playlist.
//   - Phase 2 (combined playlists, deepest level first): compose each
//     folder's own ordering with its children's and rewrite the folder
//     playlist.
//
// Folder-scoped failures are logged and counted; they never stop other
// folders. Files are split into discover.go, plan.go, runner.go, stats.go.
package pipeline
