package route

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		hash string
		want Page
	}{
		{"", Home},
		{"#", Home},
		{"#/", Home},
		{"#/articles", Articles},
		{"#/articles?filter=forum", Articles},
		{"/articles", Articles},
		{"#/gallery", Gallery},
		{"#/about", About},
		{"#/unknown-xyz", Home},
		{"#/about/articles", Articles},
		{"#%%%garbage", Home},
		{"#/forum", Home},
	}
	for _, tt := range tests {
		t.Run(tt.hash, func(t *testing.T) {
			assert.Equal(t, tt.want, Parse(tt.hash).Page)
		})
	}
}

func TestParseQueryParams(t *testing.T) {
	r := Parse("#/articles?filter=forum&search=low%20light")
	assert.Equal(t, Articles, r.Page)
	assert.Equal(t, "forum", r.Param("filter"))
	assert.Equal(t, "low light", r.Param("search"))

	r = Parse("#/articles?filter=%zz")
	assert.Equal(t, Articles, r.Page)
	assert.Empty(t, r.Params)

	r = Parse("#/articles?filter=forum&utm=%zz")
	assert.Equal(t, "forum", r.Param("filter"))
	assert.Empty(t, r.Param("utm"))
}

func TestHashRoundTrip(t *testing.T) {
	for _, h := range []string{"", "#/articles", "#/gallery", "#/about", "#/articles?filter=tip"} {
		assert.Equal(t, h, Parse(h).Hash())
	}
	assert.Equal(t, "", Route{Page: Home, Params: url.Values{"filter": {"tip"}}}.Hash())
}

func TestFromPath(t *testing.T) {
	r := FromPath("/articles", "filter=forum")
	assert.Equal(t, Articles, r.Page)
	assert.Equal(t, "forum", r.Param("filter"))
	assert.Equal(t, Home, FromPath("/", "").Page)
}

func TestNavigatorStartAndNavigate(t *testing.T) {
	loc := NewMemoryLocation("#/articles?filter=forum")
	nav := NewNavigator(loc)
	loc.OnChange(func() { nav.HashChanged() })

	var seen []Page
	nav.Subscribe(func(r Route) { seen = append(seen, r.Page) })

	r := nav.Start()
	assert.Equal(t, Articles, r.Page)
	assert.Equal(t, "forum", r.Param("filter"))

	nav.Navigate(Gallery, nil)
	assert.Equal(t, "#/gallery", loc.Hash())
	assert.Equal(t, Gallery, nav.Current().Page)

	nav.Navigate(Home, url.Values{"ignored": {"x"}})
	assert.Equal(t, "", loc.Hash())
	assert.Equal(t, []Page{Articles, Gallery, Home}, seen)
}

func TestNavigatorBackForwardRecomputes(t *testing.T) {
	loc := NewMemoryLocation("")
	nav := NewNavigator(loc)
	loc.OnChange(func() { nav.HashChanged() })
	nav.Start()

	nav.Navigate(Articles, url.Values{"filter": {"tip"}})
	nav.Navigate(About, nil)

	require.True(t, loc.Back())
	assert.Equal(t, Articles, nav.Current().Page)
	assert.Equal(t, "tip", nav.Current().Param("filter"))

	require.True(t, loc.Back())
	assert.Equal(t, Home, nav.Current().Page)
	assert.False(t, loc.Back())

	require.True(t, loc.Forward())
	assert.Equal(t, Articles, nav.Current().Page)
}

func TestNavigatorDirectHashAssignment(t *testing.T) {
	loc := NewMemoryLocation("")
	nav := NewNavigator(loc)
	loc.OnChange(func() { nav.HashChanged() })
	nav.Start()

	loc.SetHash("#/nonsense")
	assert.Equal(t, Home, nav.Current().Page)

	loc.SetHash("#/about")
	assert.Equal(t, About, nav.Current().Page)
}

func TestNavigatorUnsubscribe(t *testing.T) {
	loc := NewMemoryLocation("")
	nav := NewNavigator(loc)
	calls := 0
	unsubscribe := nav.Subscribe(func(Route) { calls++ })
	nav.Start()
	unsubscribe()
	nav.Navigate(About, nil)
	assert.Equal(t, 1, calls)
}

func TestNav(t *testing.T) {
	entries := Nav(Parse("#/gallery"))
	require.Len(t, entries, 4)
	for _, e := range entries {
		assert.Equal(t, e.Label == "Gallery", e.Active, e.Label)
	}
	assert.Equal(t, "", entries[0].Hash)
	assert.Equal(t, "/", entries[0].Href)
	assert.Equal(t, "#/articles", entries[1].Hash)
	assert.Equal(t, "/articles", entries[1].Href)
}
