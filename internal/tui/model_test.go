package tui

import (
	"testing"
	"testing/fstest"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ScootGarcia/renetium/internal/assets"
	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/route"
)

func testLibrary() *model.Library {
	day := func(d int) time.Time { return time.Date(2025, 4, d, 0, 0, 0, 0, time.UTC) }
	return &model.Library{
		Items: []*model.ContentItem{
			{ID: "article-1", Kind: model.KindArticle, Title: "Landscape Basics", Excerpt: "Golden hour", Date: day(10), Image: "/images/landscape.jpeg", Body: "Use a tripod for sharp landscapes."},
			{ID: "tip-1", Kind: model.KindTip, Title: "Sensor Cleaning", Excerpt: "Air blower first", Date: day(25)},
			{ID: "forum-1", Kind: model.KindForum, Title: "Budget lenses", Excerpt: "Nifty fifty", Date: day(28), Comments: 8},
		},
		Galleries: []*model.Gallery{
			{ID: "quays", Title: "West India Quays", Author: "René", Likes: 245, Images: []string{"/images/q1.jpeg", "/images/q2.jpeg", "/images/q3.jpeg", "/images/q4.jpeg", "/images/q5.jpeg"}},
			{ID: "single", Title: "Single", Images: []string{"/images/only.jpeg"}},
		},
		About: &model.Page{Title: "Why I started Renetium", Body: "Learning by doing."},
	}
}

func newTestModel(t *testing.T, opts Options) *Model {
	t.Helper()
	opts.Style = "notty"
	m, err := New(testLibrary(), opts)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 300})
	t.Cleanup(m.Close)
	return m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = m.Update(k)
	}
	return cmd
}

func ids(items []*model.ContentItem) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, item.ID)
	}
	return out
}

func TestStartsFromHash(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles?filter=forum"})

	assert.Equal(t, route.Articles, m.Route().Page)
	assert.Equal(t, content.FilterKind(model.KindForum), m.listing.Filter)
	assert.Equal(t, []string{"forum-1"}, ids(m.results))

	view := m.View()
	assert.Contains(t, view, "Budget lenses")
	assert.NotContains(t, view, "Sensor Cleaning")
}

func TestUnknownHashMountsHome(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/nowhere"})

	assert.Equal(t, route.Home, m.Route().Page)
	view := m.View()
	assert.Contains(t, view, "Featured Photography")
	assert.Contains(t, view, "West India Quays")
	assert.Contains(t, view, "Landscape Basics")
	assert.Contains(t, view, "8 replies")
}

func TestTabsNavigateAndWriteHash(t *testing.T) {
	m := newTestModel(t, Options{})

	press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, route.Articles, m.Route().Page)
	assert.Equal(t, "#/articles", m.Hash())

	press(m, runes("3"))
	assert.Equal(t, route.Gallery, m.Route().Page)
	assert.Equal(t, "#/gallery", m.Hash())

	press(m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, route.Articles, m.Route().Page)

	press(m, runes("1"))
	assert.Equal(t, route.Home, m.Route().Page)
	assert.Equal(t, "", m.Hash())
}

func TestHistoryRemountsFromHash(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles?filter=forum"})

	press(m, runes("3"))
	require.Equal(t, route.Gallery, m.Route().Page)
	assert.Nil(t, m.listing)

	press(m, runes("["))
	require.Equal(t, route.Articles, m.Route().Page)
	assert.Equal(t, content.FilterKind(model.KindForum), m.listing.Filter)

	press(m, runes("]"))
	assert.Equal(t, route.Gallery, m.Route().Page)
}

func TestFilterCycleAndReset(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles"})
	assert.Equal(t, []string{"forum-1", "tip-1", "article-1"}, ids(m.results))

	press(m, runes("f"))
	assert.Equal(t, []string{"article-1"}, ids(m.results))
	press(m, runes("f"))
	assert.Equal(t, []string{"tip-1"}, ids(m.results))
	press(m, runes("f"), runes("f"))
	assert.True(t, m.listing.Filter.All())

	press(m, runes("f"), runes("r"))
	assert.True(t, m.listing.Filter.All())
	assert.Len(t, m.results, 3)
	// filter state is local to the page
	assert.Equal(t, "#/articles", m.Hash())
}

func TestSearch(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles"})

	press(m, runes("/"))
	require.True(t, m.searching)
	press(m, runes("LENS"))
	assert.Equal(t, []string{"forum-1"}, ids(m.results))

	// keys go to the input while searching
	press(m, runes("q"))
	assert.Equal(t, "LENSq", m.listing.Query)
	press(m, tea.KeyMsg{Type: tea.KeyBackspace})

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.searching)
	assert.Equal(t, "LENS", m.listing.Query)
	assert.Contains(t, m.View(), "Search: LENS")
}

func TestEmptyStateAndReset(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles?search=zzz"})

	assert.Empty(t, m.results)
	assert.Contains(t, m.View(), "No content matches your current filters.")

	press(m, runes("r"))
	assert.Len(t, m.results, 3)
	assert.Empty(t, m.search.Value())
	assert.NotContains(t, m.View(), "No content matches")
}

func TestExpandTogglesOneItem(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles"})

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	require.Equal(t, "article-1", m.selected().ID)

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.listing.IsExpanded("article-1"))
	assert.Contains(t, m.View(), "Use a tripod")

	press(m, tea.KeyMsg{Type: tea.KeyUp}, tea.KeyMsg{Type: tea.KeyEnter})
	assert.True(t, m.listing.IsExpanded("tip-1"))
	assert.False(t, m.listing.IsExpanded("article-1"))

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Empty(t, m.listing.Expanded)
}

func TestGalleryViewer(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/gallery"})
	v := m.viewers[0]

	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 1, v.Index())
	assert.False(t, v.IsOpen())
	assert.Equal(t, 0, m.keys.Len())

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.IsOpen())
	assert.True(t, m.lock.Locked())
	assert.Equal(t, 1, m.keys.Len())
	assert.Contains(t, m.View(), "[2 / 5]")

	press(m, tea.KeyMsg{Type: tea.KeyRight}, tea.KeyMsg{Type: tea.KeyRight})
	assert.Equal(t, 3, v.Index())
	press(m, tea.KeyMsg{Type: tea.KeyLeft})
	assert.Equal(t, 2, v.Index())

	// digits pick thumbnails instead of switching pages
	press(m, runes("5"))
	assert.Equal(t, 4, v.Index())
	press(m, runes("1"))
	assert.Equal(t, 0, v.Index())
	assert.Equal(t, route.Gallery, m.Route().Page)

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, v.IsOpen())
	assert.Equal(t, 0, v.Index())
	assert.False(t, m.lock.Locked())
	assert.Equal(t, 0, m.keys.Len())
}

func TestSingleImageGallery(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/gallery"})

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	v := m.viewers[1]
	assert.Equal(t, 0, v.Index())
	assert.NotContains(t, m.View(), "1 / 1")
}

func TestLeavingPageReleasesViewer(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/gallery"})

	press(m, tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, m.lock.Locked())

	m.loc.SetHash("#/about")
	assert.Equal(t, route.About, m.Route().Page)
	assert.False(t, m.lock.Locked())
	assert.Equal(t, 0, m.keys.Len())
	assert.Contains(t, m.View(), "Learning by doing.")
}

func TestImageOverlay(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/articles?image=article-1"})

	require.NotNil(t, m.overlay)
	assert.True(t, m.lock.Locked())
	view := m.View()
	assert.Contains(t, view, "Landscape Basics")
	assert.Contains(t, view, "/images/landscape.jpeg")

	press(m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.lock.Locked())
	assert.Equal(t, route.Articles, m.Route().Page)

	press(m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, runes("i"))
	assert.True(t, m.overlay.IsOpen())
}

func TestUnavailableImageShowsPlaceholder(t *testing.T) {
	images := fstest.MapFS{"q1.jpeg": {Data: []byte("jpeg")}}
	m := newTestModel(t, Options{Hash: "#/gallery", Resolver: assets.NewResolver(images)})

	assert.Contains(t, m.View(), "/images/q1.jpeg")
	press(m, tea.KeyMsg{Type: tea.KeyRight})
	assert.Contains(t, m.View(), "[image unavailable]")
}

func TestQuit(t *testing.T) {
	m := newTestModel(t, Options{Hash: "#/gallery"})
	press(m, tea.KeyMsg{Type: tea.KeyEnter})

	cmd := press(m, tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.False(t, m.lock.Locked())
}
