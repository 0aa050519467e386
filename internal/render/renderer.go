// Package render turns the library and a route into HTML. The same templates
// serve the static build, the full pages of the server and the fragments the
// hash router swaps in.
package render

import (
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/url"
	"time"

	"github.com/ScootGarcia/renetium/internal/assets"
	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/route"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

const (
	baseTemplate     = "base"
	mainTemplate     = "main"
	carouselTemplate = "carousel"
)

// Options configures a Renderer.
type Options struct {
	SiteTitle string
	BaseURL   string
	Links     Links
	Resolver  *assets.Resolver
	Now       func() time.Time
}

// Renderer executes the site layouts.
type Renderer struct {
	tpl  *template.Template
	opts Options
}

// New parses layouts/*.html and layouts/partials/*.html from fsys.
func New(fsys fs.FS, opts Options) (*Renderer, error) {
	if opts.Links == nil {
		opts.Links = ServerLinks{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	tpl, err := template.New("site").Funcs(funcs).ParseFS(fsys, "layouts/*.html", "layouts/partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse layouts: %w", err)
	}
	for _, name := range []string{baseTemplate, mainTemplate, carouselTemplate} {
		if tpl.Lookup(name) == nil {
			return nil, fmt.Errorf("layout %q not defined", name)
		}
	}
	return &Renderer{tpl: tpl, opts: opts}, nil
}

var funcs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("January 2, 2006")
	},
	"src": func(f viewer.Frame) string {
		if f.Placeholder {
			return assets.PlaceholderURL
		}
		return f.URL
	},
}

// Page renders a complete page for r. scripted pages load the hash router script.
func (rn *Renderer) Page(w io.Writer, lib *model.Library, r route.Route, scripted bool) error {
	view, done := rn.routeView(lib, r, scripted)
	defer done()
	return rn.exec(w, baseTemplate, view)
}

// Fragment renders only the <main> content for r, for the hash router.
func (rn *Renderer) Fragment(w io.Writer, lib *model.Library, r route.Route) error {
	view, done := rn.routeView(lib, r, true)
	defer done()
	return rn.exec(w, mainTemplate, view)
}

// ItemPage renders a single knowledge base item.
func (rn *Renderer) ItemPage(w io.Writer, lib *model.Library, item *model.ContentItem) error {
	view := rn.pageData(lib, route.Route{Page: route.Articles}, item.Title, false)
	view.Page = "item"
	view.Item = item
	return rn.exec(w, baseTemplate, view)
}

// ViewerPage renders one gallery with its viewer in the given state. partial
// renders just the carousel card, for in-place swaps.
func (rn *Renderer) ViewerPage(w io.Writer, lib *model.Library, g *model.Gallery, v *viewer.Viewer, partial bool) error {
	view := rn.pageData(lib, route.Route{Page: route.Gallery}, g.Title, false)
	view.Page = "viewer"
	view.Carousel = rn.carousel(g, v)
	view.ScrollLocked = v.IsOpen()
	if partial {
		return rn.exec(w, carouselTemplate, view.Carousel)
	}
	return rn.exec(w, baseTemplate, view)
}

func (rn *Renderer) exec(w io.Writer, name string, data any) error {
	if err := rn.tpl.ExecuteTemplate(w, name, data); err != nil {
		return fmt.Errorf("failed to execute template '%s': %w", name, err)
	}
	return nil
}

func (rn *Renderer) pageData(lib *model.Library, r route.Route, title string, scripted bool) *pageView {
	view := &pageView{
		PageData: model.PageData{
			SiteTitle: rn.opts.SiteTitle,
			PageTitle: title,
			BaseURL:   rn.opts.BaseURL,
			Page:      r.Page.String(),
			Nav:       route.Nav(r),
			Params:    lib.Params,
			Scripted:  scripted,
			Year:      rn.opts.Now().Year(),
		},
	}
	for _, k := range []model.Kind{model.KindArticle, model.KindForum, model.KindTip} {
		view.Shortcuts = append(view.Shortcuts, shortcut{
			link:  rn.listing(url.Values{"filter": {k.String()}}),
			Label: k.Plural(),
		})
	}
	return view
}

// listing addresses the knowledge base with params.
func (rn *Renderer) listing(params url.Values) link {
	return link{
		Href: rn.opts.Links.Listing(params),
		Hash: route.Route{Page: route.Articles, Params: params}.Hash(),
	}
}

// routeView mounts the view for r. The returned func unmounts it, releasing
// anything the view still holds.
func (rn *Renderer) routeView(lib *model.Library, r route.Route, scripted bool) (*pageView, func()) {
	lock := &viewer.Lock{}
	var mounted []*viewer.Viewer
	mount := func(images []string, index int, mode viewer.Mode) *viewer.Viewer {
		v, err := viewer.Restore(images, index, mode, viewer.WithScrollLock(lock))
		if err != nil {
			return nil
		}
		mounted = append(mounted, v)
		return v
	}
	done := func() {
		for _, v := range mounted {
			v.Teardown()
		}
	}

	view := rn.pageData(lib, r, titles[r.Page], scripted)
	switch r.Page {
	case route.Home:
		view.Home = rn.home(lib, mount)
	case route.Articles:
		view.Articles = rn.articles(lib, r.Params, scripted)
		if id := r.Param("image"); id != "" {
			view.Overlay = rn.overlay(lib, id, view.Articles.Listing, mount)
		}
	case route.Gallery:
		view.Gallery = rn.carousels(lib.Galleries, mount)
	case route.About:
		view.About = lib.About
	}
	view.ScrollLocked = lock.Locked()
	return view, done
}

var titles = map[route.Page]string{
	route.Home:     "Home",
	route.Articles: "Knowledge Base",
	route.Gallery:  "Gallery",
	route.About:    "About",
}

type mountFunc func(images []string, index int, mode viewer.Mode) *viewer.Viewer

func (rn *Renderer) home(lib *model.Library, mount mountFunc) *homeView {
	view := &homeView{
		Explore:   rn.listing(nil),
		Community: rn.listing(url.Values{"filter": {model.KindForum.String()}}),
		Challenge: rn.listing(url.Values{"filter": {model.KindTip.String()}}),
		About:     link{Href: "/about", Hash: route.Route{Page: route.About}.Hash()},
		Carousels: rn.carousels(lib.Galleries, mount),
	}
	for _, item := range content.Latest(lib.Items, model.KindArticle, 3) {
		view.Latest = append(view.Latest, rn.entry(&content.Listing{}, item))
	}
	forum := &content.Listing{Filter: content.FilterKind(model.KindForum)}
	for _, item := range content.Latest(lib.Items, model.KindForum, 3) {
		view.Highlights = append(view.Highlights, rn.entry(forum, item))
	}
	return view
}

// articles builds the knowledge base view. Unscripted pages get the search
// index URL when their links cannot carry the query to the server.
func (rn *Renderer) articles(lib *model.Library, params url.Values, scripted bool) *articlesView {
	listing := content.NewListing(params)
	counts := content.Counts(lib.Items)

	filterOnly := url.Values{}
	if k, ok := listing.Filter.Kind(); ok {
		filterOnly.Set("filter", k.String())
	}
	view := &articlesView{
		Listing: listing,
		Search:  rn.opts.Links.Listing(filterOnly),
		Reset:   rn.listing(nil),
	}
	if !scripted {
		view.Index = rn.opts.Links.SearchIndex()
	}
	for _, item := range listing.Results(lib.Items) {
		view.Entries = append(view.Entries, rn.entry(listing, item))
	}

	withFilter := func(f content.Filter) link {
		next := *listing
		next.SetFilter(f)
		next.Expanded = ""
		return rn.listing(next.Params())
	}

	view.Filters = append(view.Filters, filterButton{
		link:   withFilter(content.FilterAll),
		Label:  "All",
		Count:  len(lib.Items),
		Active: listing.Filter.All(),
	})
	for _, k := range model.Kinds() {
		f := content.FilterKind(k)
		view.Filters = append(view.Filters, filterButton{
			link:   withFilter(f),
			Label:  k.Plural(),
			Icon:   k.Icon(),
			Color:  k.Color(),
			Count:  counts[k],
			Active: listing.Filter == f,
		})
	}
	return view
}

// entry builds an item card as seen from listing: its toggle link flips the
// item's expansion and its image link opens the image over the same listing.
func (rn *Renderer) entry(listing *content.Listing, item *model.ContentItem) entryView {
	toggled := *listing
	toggled.Toggle(item.ID)

	ip := listing.Params()
	ip.Set("image", item.ID)

	return entryView{
		Item:     item,
		Expanded: listing.IsExpanded(item.ID),
		Toggle:   rn.listing(toggled.Params()),
		Image:    rn.listing(ip),
	}
}

func (rn *Renderer) overlay(lib *model.Library, id string, listing *content.Listing, mount mountFunc) *overlayView {
	item, ok := lib.Item(id)
	if !ok || item.Image == "" {
		return nil
	}
	v := mount([]string{item.Image}, 0, viewer.FullScreen)
	if v == nil {
		return nil
	}
	if !rn.opts.Resolver.Available(item.Image) {
		v.MarkFailed(0)
	}
	return &overlayView{
		Item:  item,
		Frame: v.Frame(),
		Close: rn.listing(listing.Params()),
	}
}

func (rn *Renderer) carousels(galleries []*model.Gallery, mount mountFunc) []*Carousel {
	out := make([]*Carousel, 0, len(galleries))
	for _, g := range galleries {
		v := mount(g.Images, 0, viewer.Inline)
		if v == nil {
			continue
		}
		out = append(out, rn.carousel(g, v))
	}
	return out
}

// carousel builds the card for g in v's state. Every link is the state the
// viewer reaches by applying one transition to a copy of itself.
func (rn *Renderer) carousel(g *model.Gallery, v *viewer.Viewer) *Carousel {
	for i, img := range g.Images {
		if !rn.opts.Resolver.Available(img) {
			v.MarkFailed(i)
		}
	}

	after := func(op func(*viewer.Viewer)) string {
		c, err := viewer.Restore(g.Images, v.Index(), v.Mode())
		if err != nil {
			return ""
		}
		defer c.Teardown()
		op(c)
		return rn.opts.Links.Viewer(g.ID, c.Index(), c.Mode())
	}

	c := &Carousel{
		Gallery: g,
		Frame:   v.Frame(),
		Prev:    after((*viewer.Viewer).Previous),
		Next:    after((*viewer.Viewer).Next),
		Open:    after((*viewer.Viewer).Open),
		Close:   after((*viewer.Viewer).Close),
	}
	for i := range g.Images {
		dot := Dot{Frame: v.FrameAt(i), Current: i == v.Index()}
		if v.IsOpen() {
			dot.Href = after(func(c *viewer.Viewer) { _ = c.Select(i) })
			c.Thumbs = append(c.Thumbs, dot)
		} else {
			dot.Href = after(func(c *viewer.Viewer) { _ = c.SetIndex(i) })
			c.Dots = append(c.Dots, dot)
		}
	}
	return c
}
