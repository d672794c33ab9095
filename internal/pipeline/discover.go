package pipeline

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/backmassage/reelorder/internal/logging"
)

// Supported media file extensions (lowercase, with leading dot).
var mediaExtensions = map[string]bool{
	// Audio.
	".mp3":  true,
	".flac": true,
	".wav":  true,
	".m4a":  true,
	".aac":  true,
	".ogg":  true,
	".opus": true,
	".wma":  true,
	// Video.
	".mkv":  true,
	".mp4":  true,
	".avi":  true,
	".m4v":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".ts":   true,
	".m2ts": true,
	".mpg":  true,
	".mpeg": true,
	".vob":  true,
	".ogv":  true,
}

// Directory names (lowercase) that never hold main content.
var excludedDirs = map[string]bool{
	"extras":  true,
	"bonus":   true,
	"trailer": true,
	"sample":  true,
	"backup":  true,
}

// rootFallbackName names the root playlist when the root has no usable
// base name (e.g. "/").
const rootFallbackName = "Playlist"

// IsMedia reports whether name has a supported media extension.
func IsMedia(name string) bool {
	return mediaExtensions[strings.ToLower(filepath.Ext(name))]
}

// IsExcludedDir reports whether a directory is skipped during discovery.
func IsExcludedDir(name string) bool {
	return excludedDirs[strings.ToLower(name)]
}

// Folder is one walked directory.
type Folder struct {
	Path       string
	Name       string
	Depth      int       // 0 for the root.
	Media      []string  // Direct media files, lexical order.
	Children   []*Folder // Walked subdirectories, lexical order.
	Script     string    // Storyline script path; empty when absent.
	MediaBytes int64     // Size of the direct media files.

	totalMedia int
}

// TotalMedia returns the number of media files in the folder's subtree.
func (f *Folder) TotalMedia() int { return f.totalMedia }

// SubtreeMedia returns every media file in the folder's subtree in
// discovery order (pre-order, lexical). Aux folders (extras, samples) were
// pruned by Discover and are deliberately left out of storyline matching.
func (f *Folder) SubtreeMedia() []string {
	out := make([]string, 0, f.totalMedia)
	var walk func(*Folder)
	walk = func(n *Folder) {
		out = append(out, n.Media...)
		for _, c := range n.Children {
			walk(c)
		}
	}
	walk(f)
	return out
}

// Tree is the result of one discovery walk.
type Tree struct {
	Root    *Folder
	Folders []*Folder // Pre-order.
	byPath  map[string]*Folder
}

// MediaCount returns the number of media files in the tree.
func (t *Tree) MediaCount() int { return t.Root.totalMedia }

// MediaBytes returns the total size of the media files in the tree.
func (t *Tree) MediaBytes() int64 {
	var n int64
	for _, f := range t.Folders {
		n += f.MediaBytes
	}
	return n
}

// Levels groups folders by depth, deepest first. Order within a level is
// pre-order.
func (t *Tree) Levels() [][]*Folder {
	maxDepth := 0
	for _, f := range t.Folders {
		maxDepth = max(maxDepth, f.Depth)
	}
	levels := make([][]*Folder, maxDepth+1)
	for _, f := range t.Folders {
		i := maxDepth - f.Depth
		levels[i] = append(levels[i], f)
	}
	return levels
}

// Discover walks root once and returns its folder tree. Excluded
// directories are pruned. Unreadable subdirectories are logged and skipped;
// only an unreadable root fails. scriptName is matched case-insensitively.
func Discover(ctx context.Context, root, scriptName string, log *logging.Logger) (*Tree, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}
	root = abs

	t := &Tree{byPath: make(map[string]*Folder)}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == root {
				return err
			}
			log.Warn("Skipping unreadable %s: %v", path, err)
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && IsExcludedDir(d.Name()) {
				return filepath.SkipDir
			}
			t.add(path, root)
			return nil
		}

		parent := t.byPath[filepath.Dir(path)]
		if parent == nil {
			return nil
		}
		switch {
		case IsMedia(d.Name()):
			parent.Media = append(parent.Media, path)
			if info, err := d.Info(); err == nil {
				parent.MediaBytes += info.Size()
			}
		case scriptName != "" && strings.EqualFold(d.Name(), scriptName):
			if parent.Script == "" {
				parent.Script = path
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover %s: %w", root, err)
	}

	if t.Root == nil {
		return nil, fmt.Errorf("discover %s: not a directory", root)
	}
	countMedia(t.Root)
	return t, nil
}

func (t *Tree) add(path, root string) {
	f := &Folder{Path: path, Name: filepath.Base(path)}
	if path == root {
		if f.Name == "" || f.Name == "." || f.Name == string(filepath.Separator) || strings.HasSuffix(f.Name, ":"+string(filepath.Separator)) {
			f.Name = rootFallbackName
		}
		t.Root = f
	} else if p := t.byPath[filepath.Dir(path)]; p != nil {
		f.Depth = p.Depth + 1
		p.Children = append(p.Children, f)
	}
	t.byPath[path] = f
	t.Folders = append(t.Folders, f)
}

func countMedia(f *Folder) int {
	n := len(f.Media)
	for _, c := range f.Children {
		n += countMedia(c)
	}
	f.totalMedia = n
	return n
}
