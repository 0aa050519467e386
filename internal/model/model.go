package model

import (
	"html/template"
	"time"
)

// ContentItem represents a single piece of knowledge base content (article, tip or forum post).
type ContentItem struct {
	ID         string
	Kind       Kind
	Title      string
	Author     string
	Date       time.Time
	Excerpt    string
	Body       string
	BodyHTML   template.HTML
	Image      string
	Likes      int
	Comments   int
	SourcePath string
	Permalink  string
}

// Gallery is a named, ordered collection of photos shown as a carousel card.
type Gallery struct {
	ID     string
	Title  string
	Author string
	Likes  int
	Images []string
}

// Page is a standalone markdown page such as About.
type Page struct {
	Title    string
	Body     string
	BodyHTML template.HTML
}

// Library holds all site content. It is built once per load and never mutated afterwards.
type Library struct {
	Params    map[string]interface{}
	Items     []*ContentItem
	Galleries []*Gallery
	About     *Page
	ByKind    map[Kind][]*ContentItem
}

// Item looks up a content item by id.
func (l *Library) Item(id string) (*ContentItem, bool) {
	for _, item := range l.Items {
		if item.ID == id {
			return item, true
		}
	}
	return nil, false
}

// Gallery looks up a gallery by id.
func (l *Library) Gallery(id string) (*Gallery, bool) {
	for _, g := range l.Galleries {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}
