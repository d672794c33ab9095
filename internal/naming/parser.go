package naming

import (
	"regexp"
	"strings"
)

// ParseRule pairs a compiled regex with an extraction function. Rules are
// evaluated in order by [DeriveKey]; first match wins. Names that no rule
// matches fall through to the series classification.
type ParseRule struct {
	Name    string
	Pattern *regexp.Regexp
	Extract func(matches []string) SortKey
}

// Rules is the ordered episode rule table. SxxExx is tried before the bare
// leading number so "S01E02" never reads as number 1.
var Rules = []ParseRule{
	{"SxxExx", reSxxExx, extractSxxExx},
	{"Leading-number", reLeadingNumber, extractLeadingNumber},
}

// DeriveKey converts one filename (or path, or file:// URI) into its sort
// key. It never fails: unrecognized shapes become series keys.
func DeriveKey(name string) SortKey {
	base := Stem(name)
	for _, rule := range Rules {
		m := rule.Pattern.FindStringSubmatch(base)
		if m == nil {
			continue
		}
		return rule.Extract(m)
	}
	return seriesKey(base)
}

// Classify returns the name of the rule that matched, or "Series" for the
// fallback. Used for debug output.
func Classify(name string) string {
	base := Stem(name)
	for _, rule := range Rules {
		if rule.Pattern.MatchString(base) {
			return rule.Name
		}
	}
	return "Series"
}

func extractSxxExx(m []string) SortKey {
	return SortKey{
		Kind:    KindEpisode,
		Season:  atoi(m[1]),
		Episode: atoi(m[2]),
		Title:   strings.ToLower(strings.TrimSpace(m[3])),
	}
}

func extractLeadingNumber(m []string) SortKey {
	return SortKey{
		Kind:   KindNumbered,
		Number: atoi(m[1]),
		Title:  strings.ToLower(strings.TrimSpace(m[2])),
	}
}

// seriesKey handles sequels and standalone titles: "Name 2 (2001)",
// "Name: Teil III", "Name (1999)". Missing part numbers count as 1 and a
// missing year as [NoYear].
func seriesKey(base string) SortKey {
	year := extractYear(base)
	rest := reYearStrip.ReplaceAllString(base, "")

	part, title := splitPart(rest)
	title = reLeadingSeps.ReplaceAllString(title, "")

	return SortKey{
		Kind:  KindSeries,
		Title: strings.ToLower(title),
		Part:  part,
		Year:  year,
	}
}
