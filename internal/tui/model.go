// Package tui is a terminal browser for the site. It mounts the same router,
// knowledge base listing and media viewers as the web pages, driven by
// bubbletea key events instead of clicks.
package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/ScootGarcia/renetium/internal/assets"
	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/route"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

const (
	defaultWidth  = 80
	defaultHeight = 24
	// header, blank line, footer
	chromeHeight = 3
)

// pages in tab order.
var pages = []route.Page{route.Home, route.Articles, route.Gallery, route.About}

// keyNames maps terminal keys onto the key names viewers listen for.
var keyNames = map[string]string{
	"left":  viewer.KeyLeft,
	"right": viewer.KeyRight,
	"esc":   viewer.KeyEscape,
}

// Options configures the browser.
type Options struct {
	// Hash is the starting location, e.g. "#/articles?filter=forum".
	Hash      string
	SiteTitle string
	// Style is a glamour standard style name. Defaults to "dark".
	Style    string
	Width    int
	Resolver *assets.Resolver
	Logger   *zap.Logger
}

// Model is the bubbletea model of the browser.
type Model struct {
	lib      *model.Library
	title    string
	loc      *route.MemoryLocation
	nav      *route.Navigator
	keys     *viewer.KeyBus
	lock     *viewer.Lock
	resolver *assets.Resolver
	styles   Styles
	md       *glamour.TermRenderer
	rendered map[string]string
	log      *zap.Logger

	route route.Route

	// knowledge base
	listing   *content.Listing
	results   []*model.ContentItem
	overlay   *viewer.Viewer
	overlayOf *model.ContentItem
	search    textinput.Model
	searching bool

	// carousels on home and gallery
	galleries []*model.Gallery
	viewers   []*viewer.Viewer

	cursor     int
	cursorLine int
	body       viewport.Model
}

// New mounts the browser at opts.Hash.
func New(lib *model.Library, opts Options) (*Model, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Style == "" {
		opts.Style = "dark"
	}
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.SiteTitle == "" {
		opts.SiteTitle = "Renetium"
	}
	md, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(opts.Style),
		glamour.WithWordWrap(opts.Width-4),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create markdown renderer: %w", err)
	}

	search := textinput.New()
	search.Prompt = "/ "
	search.Placeholder = "Search articles, tips and discussions"
	search.CharLimit = 120

	m := &Model{
		lib:      lib,
		title:    opts.SiteTitle,
		keys:     &viewer.KeyBus{},
		lock:     &viewer.Lock{},
		resolver: opts.Resolver,
		styles:   DefaultStyles(),
		md:       md,
		rendered: make(map[string]string),
		log:      opts.Logger.Named("tui"),
		search:   search,
		body:     viewport.New(opts.Width, defaultHeight-chromeHeight),
	}
	m.loc = route.NewMemoryLocation(opts.Hash)
	m.nav = route.NewNavigator(m.loc)
	m.loc.OnChange(func() { m.nav.HashChanged() })
	m.nav.Subscribe(m.mount)
	m.nav.Start()
	m.refresh()
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

// Route returns the mounted route.
func (m *Model) Route() route.Route {
	return m.route
}

// Hash returns the current location hash.
func (m *Model) Hash() string {
	return m.loc.Hash()
}

// Close unmounts the current page, releasing any open viewer.
func (m *Model) Close() {
	m.unmount()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.body.Width = msg.Width
		m.body.Height = max(msg.Height-chromeHeight, 1)
		m.refresh()
		return m, nil
	case tea.KeyMsg:
		cmd := m.handleKey(msg)
		m.refresh()
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	key := msg.String()
	if key == "ctrl+c" {
		m.unmount()
		return tea.Quit
	}
	if m.searching {
		return m.updateSearch(msg)
	}

	// A full-screen viewer owns the keyboard until it closes.
	if name, ok := keyNames[key]; ok && m.keys.Dispatch(name) {
		return nil
	}
	if m.lock.Locked() {
		if n, err := strconv.Atoi(key); err == nil {
			if v := m.openViewer(); v != nil {
				_ = v.Select(n - 1)
			}
		}
		return nil
	}

	switch key {
	case "q":
		m.unmount()
		return tea.Quit
	case "tab":
		m.cyclePage(1)
	case "shift+tab":
		m.cyclePage(-1)
	case "1", "2", "3", "4":
		n, _ := strconv.Atoi(key)
		m.nav.Navigate(pages[n-1], nil)
	case "[":
		m.loc.Back()
	case "]":
		m.loc.Forward()
	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.body, cmd = m.body.Update(msg)
		return cmd
	default:
		switch m.route.Page {
		case route.Articles:
			return m.articlesKey(key)
		case route.Home, route.Gallery:
			m.galleryKey(key)
		}
	}
	return nil
}

func (m *Model) cyclePage(step int) {
	at := 0
	for i, p := range pages {
		if p == m.route.Page {
			at = i
		}
	}
	next := (at + step + len(pages)) % len(pages)
	m.nav.Navigate(pages[next], nil)
}

func (m *Model) moveCursor(step, n int) {
	if n == 0 {
		m.cursor = 0
		return
	}
	m.cursor = min(max(m.cursor+step, 0), n-1)
}

// mount is the route subscriber. Everything the previous page held is
// released before the next one is built from the route.
func (m *Model) mount(r route.Route) {
	m.unmount()
	m.route = r
	m.body.GotoTop()
	switch r.Page {
	case route.Articles:
		m.listing = content.NewListing(r.Params)
		m.search.SetValue(m.listing.Query)
		m.recompute()
		if id := r.Param("image"); id != "" {
			m.openImage(id)
		}
	case route.Home, route.Gallery:
		m.mountCarousels()
	}
	m.log.Debug("mounted", zap.String("page", r.Page.String()), zap.String("hash", r.Hash()))
}

func (m *Model) unmount() {
	for _, v := range m.viewers {
		v.Teardown()
	}
	if m.overlay != nil {
		m.overlay.Teardown()
	}
	m.viewers, m.galleries = nil, nil
	m.overlay, m.overlayOf = nil, nil
	m.listing, m.results = nil, nil
	m.cursor = 0
	m.searching = false
	m.search.Blur()
	m.search.SetValue("")
}

// openViewer returns the full-screen viewer, if any.
func (m *Model) openViewer() *viewer.Viewer {
	if m.overlay != nil && m.overlay.IsOpen() {
		return m.overlay
	}
	for _, v := range m.viewers {
		if v.IsOpen() {
			return v
		}
	}
	return nil
}

func (m *Model) markUnavailable(v *viewer.Viewer, images []string) {
	for i, img := range images {
		if !m.resolver.Available(img) {
			v.MarkFailed(i)
		}
	}
}

func (m *Model) markdown(key, source string) string {
	if out, ok := m.rendered[key]; ok {
		return out
	}
	out, err := m.md.Render(source)
	if err != nil {
		m.log.Warn("could not render markdown", zap.String("key", key), zap.Error(err))
		out = source
	}
	m.rendered[key] = out
	return out
}

// refresh redraws the body and keeps the cursor row in view.
func (m *Model) refresh() {
	var b strings.Builder
	m.cursorLine = 0
	switch {
	case m.openViewer() != nil:
		m.renderOverlay(&b)
	case m.route.Page == route.Articles:
		m.renderArticles(&b)
	case m.route.Page == route.Gallery:
		m.renderCarousels(&b)
	case m.route.Page == route.About:
		m.renderAbout(&b)
	default:
		m.renderHome(&b)
	}
	m.body.SetContent(b.String())

	if m.cursorLine < m.body.YOffset {
		m.body.SetYOffset(m.cursorLine)
	} else if bottom := m.body.YOffset + m.body.Height - 1; m.cursorLine > bottom {
		m.body.SetYOffset(m.cursorLine - m.body.Height + 1)
	}
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.body.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(m.help()))
	return b.String()
}

func (m *Model) header() string {
	parts := []string{m.styles.Title.Render(m.title)}
	for i, e := range route.Nav(m.route) {
		label := fmt.Sprintf("%d %s", i+1, e.Label)
		if e.Active {
			parts = append(parts, m.styles.ActiveTab.Render(label))
			continue
		}
		parts = append(parts, m.styles.Tab.Render(label))
	}
	return strings.Join(parts, " ")
}

func (m *Model) help() string {
	switch {
	case m.searching:
		return "type to search • enter/esc done"
	case m.openViewer() != nil:
		return "←/→ navigate • 1-9 select • esc close"
	case m.route.Page == route.Articles:
		return "↑/↓ move • enter read more • i image • f filter • / search • r reset • [/] history • q quit"
	case m.route.Page == route.Home, m.route.Page == route.Gallery:
		return "↑/↓ gallery • ←/→ photo • enter full screen • tab pages • [/] history • q quit"
	}
	return "tab pages • [/] history • q quit"
}
