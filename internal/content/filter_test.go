package content

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScootGarcia/renetium/internal/model"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func sampleItems() []*model.ContentItem {
	return []*model.ContentItem{
		{ID: "a", Kind: model.KindArticle, Title: "A", Date: day("2025-04-10"), Excerpt: "landscape basics"},
		{ID: "b", Kind: model.KindTip, Title: "B", Date: day("2025-03-01"), Excerpt: "White balance"},
		{ID: "c", Kind: model.KindForum, Title: "C", Date: day("2025-04-10"), Excerpt: "Low light help"},
	}
}

func ids(items []*model.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID)
	}
	return out
}

func TestParseFilter(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "all"},
		{"all", "all"},
		{"All", "all"},
		{"article", "article"},
		{"TIP", "tip"},
		{"forum", "forum"},
		{"forums", "all"},
		{"<script>", "all"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseFilter(tt.in).String(), tt.in)
	}
	k, ok := ParseFilter("forum").Kind()
	assert.True(t, ok)
	assert.Equal(t, model.KindForum, k)
	_, ok = FilterAll.Kind()
	assert.False(t, ok)
}

func TestVisibleAllEmptyQueryIsIdentity(t *testing.T) {
	items := sampleItems()
	assert.Equal(t, items, Visible(items, FilterAll, ""))
}

func TestVisibleKindAndQuery(t *testing.T) {
	items := sampleItems()

	assert.Equal(t, []string{"c"}, ids(Visible(items, ParseFilter("forum"), "")))
	assert.Equal(t, []string{"b"}, ids(Visible(items, FilterAll, "WHITE")))
	assert.Equal(t, []string{"a"}, ids(Visible(items, FilterAll, "Landscape")))
	assert.Empty(t, Visible(items, ParseFilter("tip"), "landscape"))

	// Substring, not token based.
	assert.Equal(t, []string{"c"}, ids(Visible(items, FilterAll, "w li")))
}

func TestVisibleIsSubset(t *testing.T) {
	items := sampleItems()
	for _, f := range []Filter{FilterAll, FilterKind(model.KindArticle), FilterKind(model.KindTip), FilterKind(model.KindForum)} {
		for _, q := range []string{"", "a", "light", "zzz"} {
			for _, got := range Visible(items, f, q) {
				assert.Contains(t, items, got)
				assert.True(t, f.Match(got))
			}
		}
	}
}

func TestSortByDateIsStable(t *testing.T) {
	items := Visible(sampleItems(), FilterAll, "")
	SortByDate(items)
	assert.Equal(t, []string{"a", "c", "b"}, ids(items))

	// Re-filtering and re-sorting never swaps equal dates.
	again := Visible(items, FilterAll, "")
	SortByDate(again)
	assert.Equal(t, []string{"a", "c", "b"}, ids(again))
}

func TestSortByDateZeroDatesLast(t *testing.T) {
	items := []*model.ContentItem{
		{ID: "undated"},
		{ID: "old", Date: day("2020-01-01")},
		{ID: "new", Date: day("2025-01-01")},
	}
	SortByDate(items)
	assert.Equal(t, []string{"new", "old", "undated"}, ids(items))
}

func TestLatestAndCounts(t *testing.T) {
	items := append(sampleItems(), &model.ContentItem{ID: "a2", Kind: model.KindArticle, Date: day("2025-05-01")})

	assert.Equal(t, []string{"a2"}, ids(Latest(items, model.KindArticle, 1)))
	assert.Equal(t, []string{"a2", "a"}, ids(Latest(items, model.KindArticle, 5)))

	counts := Counts(items)
	assert.Equal(t, 2, counts[model.KindArticle])
	assert.Equal(t, 1, counts[model.KindTip])
	assert.Equal(t, 1, counts[model.KindForum])
}

func TestNewListingFromParams(t *testing.T) {
	l := NewListing(url.Values{"filter": {"forum"}, "search": {"light"}, "expand": {"c"}})
	assert.Equal(t, "forum", l.Filter.String())
	assert.Equal(t, "light", l.Query)
	assert.True(t, l.IsExpanded("c"))

	l = NewListing(url.Values{"filter": {"bogus"}})
	assert.True(t, l.Filter.All())

	assert.True(t, NewListing(nil).Filter.All())
}

func TestListingToggleAndReset(t *testing.T) {
	l := NewListing(nil)
	l.Toggle("a")
	assert.True(t, l.IsExpanded("a"))
	l.Toggle("b")
	assert.False(t, l.IsExpanded("a"))
	assert.True(t, l.IsExpanded("b"))
	l.Toggle("b")
	assert.Equal(t, "", l.Expanded)

	l.SetFilter(ParseFilter("tip"))
	l.SetQuery("nothing matches this")
	assert.Empty(t, l.Results(sampleItems()))
	assert.True(t, l.Empty(sampleItems()))

	l.Reset()
	assert.False(t, l.Empty(sampleItems()))
	assert.Equal(t, []string{"a", "c", "b"}, ids(l.Results(sampleItems())))
}

func TestListingParams(t *testing.T) {
	l := NewListing(nil)
	assert.Empty(t, l.Params())

	l.SetFilter(ParseFilter("tip"))
	l.SetQuery("white")
	p := l.Params()
	require.Equal(t, "tip", p.Get("filter"))
	require.Equal(t, "white", p.Get("search"))
}
