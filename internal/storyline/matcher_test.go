package storyline

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ordinal with dot", "1. The Phantom Menace (1999)", "the phantom menace"},
		{"ordinal with dash", "23 - Endgame", "endgame"},
		{"year in middle", "Alien (1979) Extended", "alien extended"},
		{"plain", "  Mixed Case  ", "mixed case"},
		{"only ordinal", "7.", ""},
		{"digits inside kept", "Ocean's 11", "ocean's 11"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		name     string
		entry    string
		filename string
		want     int
	}{
		{"absent", "hobbit", "star wars", 0},
		{"at start", "alien", "alien extended", 10},
		{"in middle", "alien", "the alien", 5},
		{"two characters", "ab", "xaby", 2},
		{"empty entry prefixes everything", "", "anything", StartBonus},
		{"counts characters not bytes", "für", "für elise", 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Score(tt.entry, tt.filename))
		})
	}
}

func TestMatch_OrdersByScript(t *testing.T) {
	lines := []string{
		"1. The Hobbit: An Unexpected Journey (2012)",
		"2. The Fellowship of the Ring (2001)",
		"3. The Two Towers (2002)",
	}
	media := []string{
		"/m/The Two Towers (2002).mkv",
		"/m/The Fellowship of the Ring (2001).mkv",
		"/m/Behind the Scenes.mkv",
		"/m/The Hobbit An Unexpected Journey.mkv",
		"/m/The Hobbit: An Unexpected Journey (2012).mkv",
	}

	res := Match(lines, media)

	assert.Equal(t, []string{
		"/m/The Hobbit: An Unexpected Journey (2012).mkv",
		"/m/The Fellowship of the Ring (2001).mkv",
		"/m/The Two Towers (2002).mkv",
	}, res.Matched)
	assert.Equal(t, []int{0, 1, 2}, res.Ranks)
	assert.Equal(t, []string{
		"/m/Behind the Scenes.mkv",
		"/m/The Hobbit An Unexpected Journey.mkv",
	}, res.Unmatched)
}

func TestMatch_Threshold(t *testing.T) {
	// Only a two-character overlap: never a match.
	res := Match([]string{"ab"}, []string{"/m/xab.mkv"})
	assert.Empty(t, res.Matched)
	assert.Equal(t, []string{"/m/xab.mkv"}, res.Unmatched)

	// Five-character line at the start of the filename: 5 + 5.
	rank, score := BestEntry(Entries([]string{"Alien"}), "/m/Alien Director's Cut.mkv")
	assert.Equal(t, 0, rank)
	assert.GreaterOrEqual(t, score, 10)
}

func TestMatch_BestScoreWins(t *testing.T) {
	lines := []string{"Star Wars", "Star Wars Empire Strikes Back"}
	res := Match(lines, []string{"/m/Star Wars Empire Strikes Back.mkv", "/m/Star Wars.mkv"})
	assert.Equal(t, []string{"/m/Star Wars.mkv", "/m/Star Wars Empire Strikes Back.mkv"}, res.Matched)
	assert.Equal(t, []int{0, 1}, res.Ranks)
}

func TestMatch_TiesKeepLowestRank(t *testing.T) {
	lines := []string{"dune", "dune"}
	res := Match(lines, []string{"/m/Dune.mkv"})
	assert.Equal(t, []int{0}, res.Ranks)
}

func TestMatch_SameRankKeepsInputOrder(t *testing.T) {
	lines := []string{"Intro", "Blade Runner"}
	media := []string{
		"/m/Blade Runner Final Cut.mkv",
		"/m/Intro.mkv",
		"/m/Blade Runner Theatrical.mkv",
		"/m/Blade Runner (1982).mkv",
	}
	res := Match(lines, media)
	assert.Equal(t, []string{
		"/m/Intro.mkv",
		"/m/Blade Runner Final Cut.mkv",
		"/m/Blade Runner Theatrical.mkv",
		"/m/Blade Runner (1982).mkv",
	}, res.Matched)
}

func TestMatch_LineNormalizingToEmpty(t *testing.T) {
	// "1917" loses everything to the ordinal strip and then matches any file
	// no other line beats.
	lines := []string{"1917", "Other Title"}
	media := []string{"/m/Some Movie.mkv", "/m/Other Title.mkv"}

	res := Match(lines, media)

	assert.Equal(t, []string{"/m/Some Movie.mkv", "/m/Other Title.mkv"}, res.Matched)
	assert.Equal(t, []int{0, 1}, res.Ranks)
	assert.Empty(t, res.Unmatched)
	assert.Equal(t, StartBonus, Score(Normalize("1917"), "some movie"))
}

func TestMatch_EmptyInputs(t *testing.T) {
	res := Match(nil, nil)
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Unmatched)

	res = Match([]string{"x"}, nil)
	assert.Empty(t, res.Matched)
	assert.Empty(t, res.Unmatched)

	media := []string{"/m/b.mkv", "/m/a.mkv"}
	res = Match(nil, media)
	assert.Empty(t, res.Matched)
	assert.Equal(t, media, res.Unmatched)
}

func TestMatch_FileURIs(t *testing.T) {
	res := Match([]string{"Episode Alpha"}, []string{"file:///m/01%20-%20Episode%20Alpha.mkv"})
	require.Len(t, res.Matched, 1)
	assert.Equal(t, "file:///m/01%20-%20Episode%20Alpha.mkv", res.Matched[0])
}

func TestReadScript(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultScriptName)
	content := "\ufeff1. First\r\n\r\n   \n2. Second  \n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	lines, err := ReadScript(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"1. First", "2. Second"}, lines)
}

func TestReadScript_Missing(t *testing.T) {
	lines, err := ReadScript(filepath.Join(t.TempDir(), "nope.txt"))
	assert.NoError(t, err)
	assert.Nil(t, lines)
}

func TestParseScript_UTF16(t *testing.T) {
	var buf bytes.Buffer
	buf.Write([]byte{0xFF, 0xFE}) // UTF-16LE BOM
	for _, r := range "Teil Eins\nTeil Zwei\n" {
		buf.Write([]byte{byte(r), 0})
	}
	lines, err := ParseScript(&buf)
	require.NoError(t, err)
	assert.Equal(t, []string{"Teil Eins", "Teil Zwei"}, lines)
}

func TestParseScript_Plain(t *testing.T) {
	lines, err := ParseScript(strings.NewReader("a\nb\n\nc"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, lines)
}
