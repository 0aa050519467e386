package render

import (
	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

// pageView is the data handed to every template.
type pageView struct {
	model.PageData
	Shortcuts []shortcut
	Home      *homeView
	Articles  *articlesView
	Carousel  *Carousel
	Gallery   []*Carousel
	About     *model.Page
	Item      *model.ContentItem
	Overlay   *overlayView
}

// link is one target addressed both ways: Href for plain navigation, Hash for
// the hash router.
type link struct {
	Href string
	Hash string
}

// Target picks the address matching how the page is being driven.
func (l link) Target(scripted bool) string {
	if !scripted {
		return l.Href
	}
	if l.Hash == "" {
		return "#/"
	}
	return l.Hash
}

type shortcut struct {
	link
	Label string
}

// overlayView is a single image opened full-screen from a knowledge base card.
type overlayView struct {
	Item  *model.ContentItem
	Frame viewer.Frame
	Close link
}

type homeView struct {
	Explore    link
	Community  link
	Challenge  link
	About      link
	Carousels  []*Carousel
	Latest     []entryView
	Highlights []entryView
}

type filterButton struct {
	link
	Label  string
	Icon   string
	Color  string
	Count  int
	Active bool
}

type articlesView struct {
	Listing *content.Listing
	Filters []filterButton
	Entries []entryView
	Search  string
	Index   string
	Reset   link
}

type entryView struct {
	Item     *model.ContentItem
	Expanded bool
	Toggle   link
	Image    link
}

// Carousel is one gallery card with every link it needs to move its viewer.
type Carousel struct {
	Gallery *model.Gallery
	Frame   viewer.Frame
	Prev    string
	Next    string
	Open    string
	Close   string
	Dots    []Dot
	Thumbs  []Dot
}

// Full reports whether the card is showing its full-screen overlay.
func (c *Carousel) Full() bool {
	return c.Frame.Mode == viewer.FullScreen
}

// Dot links to one image, either as an inline indicator or a full-screen thumbnail.
type Dot struct {
	Frame   viewer.Frame
	Href    string
	Current bool
}
