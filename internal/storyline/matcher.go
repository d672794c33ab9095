// Package storyline orders media files by a free-text script: each line of
// the script is one story beat, and files are assigned to the beat whose
// text they contain.
package storyline

import (
	"regexp"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"

	"github.com/backmassage/reelorder/internal/naming"
)

const (
	// MinScore rejects accidental one- and two-character overlaps.
	MinScore = 3
	// StartBonus is added when the entry text begins the filename.
	StartBonus = 5
)

// Entry is one script line. Its index in the script is its rank.
type Entry struct {
	Text       string
	Normalized string
}

// Result is the outcome of [Match]. Matched is ordered by script rank and
// Ranks[i] is the rank assigned to Matched[i]. Unmatched keeps input order.
type Result struct {
	Matched   []string
	Ranks     []int
	Unmatched []string
}

var (
	reLeadingOrdinal = regexp.MustCompile(`^\d+[.\-\s]*`)
	reYear           = regexp.MustCompile(`\s*\(\d{4}\)`)
)

// Normalize strips a leading ordinal ("1. ", "23 - "), every parenthesized
// year, surrounding whitespace and case. The result is only used for
// matching.
func Normalize(s string) string {
	s = norm.NFC.String(s)
	s = reLeadingOrdinal.ReplaceAllString(s, "")
	s = reYear.ReplaceAllString(s, "")
	return strings.ToLower(strings.TrimSpace(s))
}

// Entries normalizes script lines in order.
func Entries(lines []string) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		out = append(out, Entry{Text: l, Normalized: Normalize(l)})
	}
	return out
}

// Score rates how well entry matches a normalized filename. Zero means no
// match; otherwise the score is the entry length in characters. An empty
// entry is a prefix of every filename and scores [StartBonus].
func Score(entry, filename string) int {
	if !strings.Contains(filename, entry) {
		return 0
	}
	score := utf8.RuneCountInString(entry)
	if strings.HasPrefix(filename, entry) {
		score += StartBonus
	}
	return score
}

// BestEntry returns the rank of the best-scoring entry for one media token
// and its score, or -1 when no entry reaches [MinScore]. Ties keep the
// lowest rank.
func BestEntry(entries []Entry, token string) (rank, score int) {
	name := Normalize(naming.Stem(token))
	rank = -1
	for i, e := range entries {
		if s := Score(e.Normalized, name); s > score {
			rank, score = i, s
		}
	}
	if score < MinScore {
		return -1, score
	}
	return rank, score
}

// Match assigns each media token to at most one script line and orders the
// matched tokens by line. Tokens sharing a line keep their input order.
// An empty script matches nothing.
func Match(lines []string, media []string) Result {
	var res Result
	if len(media) == 0 {
		return res
	}
	if len(lines) == 0 {
		res.Unmatched = slices.Clone(media)
		return res
	}

	entries := Entries(lines)

	type hit struct {
		rank  int
		token string
	}
	hits := make([]hit, 0, len(media))
	for _, token := range media {
		rank, _ := BestEntry(entries, token)
		if rank < 0 {
			res.Unmatched = append(res.Unmatched, token)
			continue
		}
		hits = append(hits, hit{rank: rank, token: token})
	}

	slices.SortStableFunc(hits, func(a, b hit) int { return a.rank - b.rank })

	res.Matched = make([]string, len(hits))
	res.Ranks = make([]int, len(hits))
	for i, h := range hits {
		res.Matched[i] = h.token
		res.Ranks[i] = h.rank
	}
	return res
}
