package xspf

import (
	"net/url"
	"path/filepath"
	"strings"
)

// Ext is the playlist file extension.
const Ext = ".xspf"

// LocationFor returns the file:// URI for a filesystem path. Relative paths
// are made absolute first. Windows drive paths become file:///C:/...
func LocationFor(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	p := filepath.ToSlash(path)
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	u := url.URL{Scheme: "file", Path: p}
	return u.String()
}

// PlaylistPath returns dir/name.xspf.
func PlaylistPath(dir, name string) string {
	return filepath.Join(dir, name+Ext)
}

// IsPlaylistFile reports whether name has an extension the purge removes.
func IsPlaylistFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case Ext, ".m3u":
		return true
	}
	return false
}
