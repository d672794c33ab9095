package naming

import (
	"math/rand"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveKey(t *testing.T) {
	cases := []struct {
		name     string
		filename string
		want     SortKey
	}{
		// Episode: SxxExx
		{
			name: "SxxExx with title", filename: "S01E02 Pilot.mkv",
			want: SortKey{Kind: KindEpisode, Season: 1, Episode: 2, Title: "pilot"},
		},
		{
			name: "SxxExx lowercase e", filename: "S03e10 - The End.mp4",
			want: SortKey{Kind: KindEpisode, Season: 3, Episode: 10, Title: "- the end"},
		},
		{
			name: "SxxExx without title", filename: "S02E07.mkv",
			want: SortKey{Kind: KindEpisode, Season: 2, Episode: 7, Title: ""},
		},

		// Numbered
		{
			name: "number dot title", filename: "1. Pilot.mp4",
			want: SortKey{Kind: KindNumbered, Number: 1, Title: "pilot"},
		},
		{
			name: "number dash title", filename: "03 - Title.mkv",
			want: SortKey{Kind: KindNumbered, Number: 3, Title: "title"},
		},
		{
			name: "number space title", filename: "12 Angry Men.avi",
			want: SortKey{Kind: KindNumbered, Number: 12, Title: "angry men"},
		},

		// Series
		{
			name: "movie with year", filename: "Movie Name (1999).mkv",
			want: SortKey{Kind: KindSeries, Title: "movie name", Part: 1, Year: 1999},
		},
		{
			name: "sequel with year", filename: "Movie Name 2 (2001).mkv",
			want: SortKey{Kind: KindSeries, Title: "movie name", Part: 2, Year: 2001},
		},
		{
			name: "no year sorts last", filename: "Movie Name 3.mkv",
			want: SortKey{Kind: KindSeries, Title: "movie name", Part: 3, Year: NoYear},
		},
		{
			name: "roman IV", filename: "Rocky IV (1985).mp4",
			want: SortKey{Kind: KindSeries, Title: "rocky", Part: 4, Year: 1985},
		},
		{
			name: "teil with roman X", filename: "Saga: Teil X.mkv",
			want: SortKey{Kind: KindSeries, Title: "saga:", Part: 10, Year: NoYear},
		},
		{
			name: "roman numeral shadowed by I", filename: "Movie Name Part II (2003).mkv",
			want: SortKey{Kind: KindSeries, Title: "movie name part i", Part: 1, Year: 2003},
		},
		{
			name: "VI reads as I", filename: "Rocky VI.mkv",
			want: SortKey{Kind: KindSeries, Title: "rocky v", Part: 1, Year: NoYear},
		},
		{
			name: "leading punctuation stripped", filename: ": Subtitle (2010).mkv",
			want: SortKey{Kind: KindSeries, Title: "subtitle", Part: 1, Year: 2010},
		},
		{
			name: "year removed from middle", filename: "Alien (1979) Directors Cut.mkv",
			want: SortKey{Kind: KindSeries, Title: "alien directors cut", Part: 1, Year: 1979},
		},
		{
			name: "plain title", filename: "Random Title.mkv",
			want: SortKey{Kind: KindSeries, Title: "random title", Part: 1, Year: NoYear},
		},
		{
			name: "empty name", filename: "",
			want: SortKey{Kind: KindSeries, Title: "", Part: 1, Year: NoYear},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DeriveKey(tc.filename))
		})
	}
}

func TestDeriveKey_FileURI(t *testing.T) {
	got := DeriveKey("file:///media/Show/S01E02%20Pilot.mkv")
	assert.Equal(t, SortKey{Kind: KindEpisode, Season: 1, Episode: 2, Title: "pilot"}, got)

	got = DeriveKey("file:///C:/Filme/Movie%20Name%202%20(2001).mkv")
	assert.Equal(t, SortKey{Kind: KindSeries, Title: "movie name", Part: 2, Year: 2001}, got)
}

func TestDeriveKey_HugeNumberSaturates(t *testing.T) {
	k := DeriveKey("99999999999999999999999 - Overflow.mkv")
	assert.Equal(t, KindNumbered, k.Kind)
	assert.Greater(t, k.Number, 1<<40)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, "SxxExx", Classify("S01E01 A.mkv"))
	assert.Equal(t, "Leading-number", Classify("01 - A.mkv"))
	assert.Equal(t, "Series", Classify("A 2 (2001).mkv"))
}

func TestSortKeyCompare_CrossShape(t *testing.T) {
	ep := DeriveKey("S09E09 Z.mkv")
	num := DeriveKey("1 - A.mkv")
	series := DeriveKey("A.mkv")

	assert.True(t, ep.Less(num), "episode keys sort before numbered keys")
	assert.True(t, num.Less(series), "numbered keys sort before series keys")
	assert.Equal(t, 0, series.Compare(series))
}

func TestSortKeyCompare_TotalOrder(t *testing.T) {
	names := []string{
		"S01E02 Pilot.mkv", "S01E01 Start.mkv", "S02E01 Return.mkv",
		"1. Pilot.mp4", "03 - Title.mkv", "10 - Ten.mkv",
		"Movie Name (1999).mkv", "Movie Name 2 (2001).mkv", "Movie Name Part II (2003).mkv",
		"Other.mkv", "Rocky IV.mkv", "Rocky.mkv",
	}
	keys := make([]SortKey, len(names))
	for i, n := range names {
		keys[i] = DeriveKey(n)
	}
	for _, a := range keys {
		assert.Equal(t, 0, a.Compare(a))
		for _, b := range keys {
			assert.Equal(t, -a.Compare(b), b.Compare(a), "antisymmetry %v %v", a, b)
			for _, c := range keys {
				if a.Compare(b) <= 0 && b.Compare(c) <= 0 {
					assert.LessOrEqual(t, a.Compare(c), 0, "transitivity %v %v %v", a, b, c)
				}
			}
		}
	}
}

func TestSortPaths_Order(t *testing.T) {
	files := []string{
		"/m/Movie Name 2 (2001).mkv",
		"/m/03 - Third.mkv",
		"/m/Movie Name (1999).mkv",
		"/m/S01E02 Second.mkv",
		"/m/1. First.mkv",
		"/m/S01E01 First.mkv",
	}
	SortPaths(files)

	assert.Equal(t, []string{
		"/m/S01E01 First.mkv",
		"/m/S01E02 Second.mkv",
		"/m/1. First.mkv",
		"/m/03 - Third.mkv",
		"/m/Movie Name (1999).mkv",
		"/m/Movie Name 2 (2001).mkv",
	}, files)
}

func TestSortPaths_StableAndIdempotent(t *testing.T) {
	// Equal keys: same stem with different extensions.
	files := []string{"/a/Film.mkv", "/a/Film.mp4", "/a/Film.avi", "/a/S01E01 X.mkv"}
	SortPaths(files)
	assert.Equal(t, []string{"/a/S01E01 X.mkv", "/a/Film.mkv", "/a/Film.mp4", "/a/Film.avi"}, files)

	again := slices.Clone(files)
	SortPaths(again)
	assert.Equal(t, files, again)
}

func TestSortPaths_Deterministic(t *testing.T) {
	base := []string{
		"E 3.mkv", "E 1.mkv", "E 2.mkv", "S01E03.mkv", "S01E01.mkv",
		"5 - five.mkv", "4 - four.mkv", "Zed (2000).mkv", "Zed (1990).mkv",
	}
	want := slices.Clone(base)
	SortPaths(want)

	r := rand.New(rand.NewSource(7))
	for i := 0; i < 10; i++ {
		shuffled := slices.Clone(base)
		r.Shuffle(len(shuffled), func(a, b int) { shuffled[a], shuffled[b] = shuffled[b], shuffled[a] })
		SortPaths(shuffled)
		require.Equal(t, want, shuffled)
	}
}

func TestDeriveKeyFromPath(t *testing.T) {
	k := DeriveKeyFromPath("/Media/Show/Season 1/S01E01 Pilot.mkv")
	assert.Equal(t, KindEpisode, k.Kind)
	assert.Equal(t, "/media/show/season 1", k.Dir)

	a := DeriveKeyFromPath("/b/Film.mkv")
	b := DeriveKeyFromPath("/a/Film.mkv")
	assert.Positive(t, a.Compare(b), "directory breaks ties")

	files := []string{"/b/Film.mkv", "/a/Film.mkv", "/c/S01E01.mkv"}
	SortPathsByLocation(files)
	assert.Equal(t, []string{"/c/S01E01.mkv", "/a/Film.mkv", "/b/Film.mkv"}, files)
}

func TestStem(t *testing.T) {
	cases := []struct{ in, want string }{
		{"movie.name.mkv", "movie.name"},
		{".hidden", ".hidden"},
		{"noext", "noext"},
		{`C:\Videos\Clip.mp4`, "Clip"},
		{"file:///x/a%20b.mp3", "a b"},
		{"/dir.with.dots/file", "file"},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			assert.Equal(t, tc.want, Stem(tc.in))
		})
	}
}

func TestLocalPath(t *testing.T) {
	assert.Equal(t, "/media/a b.mkv", LocalPath("file:///media/a%20b.mkv"))
	assert.Equal(t, "C:/Media/x.mkv", LocalPath("file:///C:/Media/x.mkv"))
	assert.Equal(t, "/plain/path.mkv", LocalPath("/plain/path.mkv"))
}
