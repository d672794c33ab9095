package naming

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// atoi parses a run of ASCII digits. Only digit strings reach it, so the
// sole failure is overflow, which saturates to keep the order total.
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return math.MaxInt
	}
	return n
}

// --- Episode rule patterns (order matters, see Rules) ---

var (
	reSxxExx = regexp.MustCompile(
		`^S(\d+)[Ee](\d+)(.*)`)

	reLeadingNumber = regexp.MustCompile(
		`^(\d+)[.\s-]+(.*)`)
)

// --- Series helpers ---

var (
	reYear      = regexp.MustCompile(`\((\d{4})\)`)
	reYearStrip = regexp.MustCompile(`\s*\(\d{4}\)`)

	reTrailingArabic      = regexp.MustCompile(`(\d+)$`)
	reTrailingArabicStrip = regexp.MustCompile(`\s*\d+$`)

	reLeadingSeps = regexp.MustCompile(`^[:\-\s]+`)
)

// extractYear returns the first parenthesized four-digit year, or NoYear.
func extractYear(s string) int {
	m := reYear.FindStringSubmatch(s)
	if m == nil {
		return NoYear
	}
	return atoi(m[1])
}

type romanNumeral struct {
	numeral string
	value   int
	pattern *regexp.Regexp
}

// romanNumerals is scanned in ascending value and the first pattern that
// matches wins. A trailing "I" therefore shadows II, III, VI and friends:
// "Rocky VI" yields part 1 with base "Rocky V". Keep the order; existing
// playlists were produced with it.
var romanNumerals = buildRomanTable(
	"I", "II", "III", "IV", "V",
	"VI", "VII", "VIII", "IX", "X",
	"XI", "XII", "XIII", "XIV", "XV",
)

func buildRomanTable(numerals ...string) []romanNumeral {
	table := make([]romanNumeral, len(numerals))
	for i, n := range numerals {
		table[i] = romanNumeral{
			numeral: n,
			value:   i + 1,
			pattern: regexp.MustCompile(`(?i)\s*(?:Teil|Part|Teil\s+)?` + n + `\s*$`),
		}
	}
	return table
}

// splitPart extracts the sequel number from the end of s: an arabic number
// first, then a roman numeral optionally preceded by "Part"/"Teil". It
// returns the part (1 when none is present) and the trimmed remainder.
func splitPart(s string) (int, string) {
	if m := reTrailingArabic.FindStringSubmatch(strings.TrimSpace(s)); m != nil {
		return atoi(m[1]), strings.TrimSpace(reTrailingArabicStrip.ReplaceAllString(s, ""))
	}
	for _, r := range romanNumerals {
		if r.pattern.MatchString(s) {
			return r.value, strings.TrimSpace(r.pattern.ReplaceAllString(s, ""))
		}
	}
	return 1, strings.TrimSpace(s)
}
