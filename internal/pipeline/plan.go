package pipeline

import (
	"github.com/backmassage/reelorder/internal/config"
	"github.com/backmassage/reelorder/internal/xspf"
)

// Claim owners. A folder's combined playlist reuses its folder claim.
const (
	folderOwner    = "folder:"
	storylineOwner = "storyline:"
)

// StorylinePlaylistName is the base name of storyline playlists, always
// written inside the folder holding the script.
const StorylinePlaylistName = "Storyline"

// planTargets claims every playlist path the run may write, in tree
// pre-order, so collisions resolve the same way on every run regardless of
// worker scheduling.
func planTargets(cfg *config.Config, tree *Tree, store *xspf.Store) {
	for _, f := range tree.Folders {
		if needsFolderPlaylist(cfg, f) {
			store.Claim(folderOwner+f.Path, xspf.PlaylistPath(playlistDir(cfg, tree, f), f.Name))
		}
		if cfg.StorylinePlaylists && f.Script != "" {
			store.Claim(storylineOwner+f.Path, xspf.PlaylistPath(f.Path, StorylinePlaylistName))
		}
	}
}

// needsFolderPlaylist reports whether f may get a folder or combined
// playlist this run.
func needsFolderPlaylist(cfg *config.Config, f *Folder) bool {
	if len(f.Media) > 0 {
		return true
	}
	return cfg.CombinedPlaylists && f.totalMedia > 0
}

// playlistDir applies the placement policy. The root's playlist always
// stays inside the root so a run never writes outside the tree it was
// given.
func playlistDir(cfg *config.Config, tree *Tree, f *Folder) string {
	if f == tree.Root {
		return f.Path
	}
	return cfg.PlaylistDir(f.Path)
}
