package naming

import (
	"cmp"
	"fmt"
)

// Kind is the leading discriminant of a SortKey.
type Kind int

const (
	KindEpisode  Kind = iota // S01E02 Title
	KindNumbered             // 03 - Title
	KindSeries               // Title 2 (2001)
)

func (k Kind) String() string {
	switch k {
	case KindEpisode:
		return "episode"
	case KindNumbered:
		return "numbered"
	case KindSeries:
		return "series"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NoYear sorts after every real four-digit year.
const NoYear = 9999

// SortKey is the ordering position inferred from one filename. Which fields
// are meaningful depends on Kind:
//
//	KindEpisode:  Season, Episode, Title
//	KindNumbered: Number, Title
//	KindSeries:   Title (base title), Part, Year
//
// Title is always lowercased.
type SortKey struct {
	Kind    Kind
	Season  int
	Episode int
	Number  int
	Title   string
	Part    int
	Year    int
}

// Compare returns -1, 0 or +1. Keys are compared as tuples: the discriminant
// first, then the shape-specific fields in the order listed on [SortKey].
func (k SortKey) Compare(o SortKey) int {
	if c := cmp.Compare(k.Kind, o.Kind); c != 0 {
		return c
	}
	switch k.Kind {
	case KindEpisode:
		if c := cmp.Compare(k.Season, o.Season); c != 0 {
			return c
		}
		if c := cmp.Compare(k.Episode, o.Episode); c != 0 {
			return c
		}
		return cmp.Compare(k.Title, o.Title)
	case KindNumbered:
		if c := cmp.Compare(k.Number, o.Number); c != 0 {
			return c
		}
		return cmp.Compare(k.Title, o.Title)
	default:
		if c := cmp.Compare(k.Title, o.Title); c != 0 {
			return c
		}
		if c := cmp.Compare(k.Part, o.Part); c != 0 {
			return c
		}
		return cmp.Compare(k.Year, o.Year)
	}
}

// Less reports whether k sorts strictly before o.
func (k SortKey) Less(o SortKey) bool { return k.Compare(o) < 0 }

func (k SortKey) String() string {
	switch k.Kind {
	case KindEpisode:
		return fmt.Sprintf("(%d, %d, %d, %q)", k.Kind, k.Season, k.Episode, k.Title)
	case KindNumbered:
		return fmt.Sprintf("(%d, %d, %q)", k.Kind, k.Number, k.Title)
	default:
		return fmt.Sprintf("(%d, %q, %d, %d)", k.Kind, k.Title, k.Part, k.Year)
	}
}
