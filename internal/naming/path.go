package naming

import (
	"cmp"
	"net/url"
	"path"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const fileScheme = "file://"

// LocalPath returns the filesystem path behind a media token. file:// URIs
// are unescaped; anything else is returned unchanged. Windows drive paths
// ("file:///C:/x") lose the slash before the drive letter.
func LocalPath(token string) string {
	if !strings.HasPrefix(token, fileScheme) {
		return token
	}
	p := strings.TrimPrefix(token, fileScheme)
	if u, err := url.PathUnescape(p); err == nil {
		p = u
	}
	if len(p) >= 3 && p[0] == '/' && p[2] == ':' {
		p = p[1:]
	}
	return p
}

// BaseName returns the final element of a media token, accepting both
// slash styles so playlists written on Windows resolve the same way.
func BaseName(token string) string {
	p := LocalPath(token)
	if i := strings.LastIndexAny(p, `/\`); i >= 0 {
		p = p[i+1:]
	}
	return p
}

// Stem returns the NFC-normalized base name with its extension removed.
// Leading dots do not start an extension (".hidden" stays ".hidden").
func Stem(token string) string {
	base := norm.NFC.String(BaseName(token))
	if i := strings.LastIndexByte(base, '.'); i > 0 && strings.TrimLeft(base[:i], ".") != "" {
		return base[:i]
	}
	return base
}

// dirName returns the containing directory of a media token using forward
// slashes.
func dirName(token string) string {
	p := strings.ReplaceAll(LocalPath(token), `\`, "/")
	return path.Dir(p)
}

// PathKey extends a filename key with the lowercased containing directory,
// for comparing files gathered from several folders.
type PathKey struct {
	SortKey
	Dir string
}

// Compare orders by the filename key, then by directory.
func (k PathKey) Compare(o PathKey) int {
	if c := k.SortKey.Compare(o.SortKey); c != 0 {
		return c
	}
	return cmp.Compare(k.Dir, o.Dir)
}

// DeriveKeyFromPath is [DeriveKey] plus the directory tie-breaker.
func DeriveKeyFromPath(token string) PathKey {
	return PathKey{
		SortKey: DeriveKey(token),
		Dir:     strings.ToLower(dirName(token)),
	}
}

// SortPaths stably sorts media tokens in place by filename key. Tokens with
// equal keys keep their input order.
func SortPaths(tokens []string) {
	keys := make(map[string]SortKey, len(tokens))
	for _, t := range tokens {
		if _, ok := keys[t]; !ok {
			keys[t] = DeriveKey(t)
		}
	}
	slices.SortStableFunc(tokens, func(a, b string) int {
		return keys[a].Compare(keys[b])
	})
}

// SortPathsByLocation stably sorts tokens by [DeriveKeyFromPath].
func SortPathsByLocation(tokens []string) {
	keys := make(map[string]PathKey, len(tokens))
	for _, t := range tokens {
		if _, ok := keys[t]; !ok {
			keys[t] = DeriveKeyFromPath(t)
		}
	}
	slices.SortStableFunc(tokens, func(a, b string) int {
		return keys[a].Compare(keys[b])
	})
}
