// Package route maps location hashes onto site pages.
//
// Parse is pure and has no notion of a browser; the Navigator owns the
// side-effecting part (reading the hash, reacting to change events) and is
// handed to views explicitly.
package route

import (
	"net/url"
	"strings"
)

// Page identifies a top-level view of the site.
type Page int

const (
	Home Page = iota
	Articles
	Gallery
	About
)

func (p Page) String() string {
	switch p {
	case Articles:
		return "articles"
	case Gallery:
		return "gallery"
	case About:
		return "about"
	}
	return "home"
}

// Route is the page derived from a hash plus the query parameters carried along with it.
type Route struct {
	Page   Page
	Params url.Values
}

// patterns are checked in order; the first substring match wins.
var patterns = []struct {
	fragment string
	page     Page
}{
	{"/articles", Articles},
	{"/gallery", Gallery},
	{"/about", About},
}

// Parse derives a Route from a location hash such as "#/articles?filter=forum".
// Anything unrecognized resolves to Home.
func Parse(hash string) Route {
	hash = strings.TrimPrefix(strings.TrimSpace(hash), "#")
	path, rawQuery, _ := strings.Cut(hash, "?")

	r := Route{Page: Home, Params: url.Values{}}
	for _, p := range patterns {
		if strings.Contains(path, p.fragment) {
			r.Page = p.page
			break
		}
	}
	if rawQuery != "" {
		// Malformed pairs are dropped; the well-formed ones still apply.
		r.Params, _ = url.ParseQuery(rawQuery)
	}
	return r
}

// Hash renders the canonical hash for the route. Home is the empty hash.
func (r Route) Hash() string {
	if r.Page == Home {
		return ""
	}
	h := "#/" + r.Page.String()
	if len(r.Params) > 0 {
		h += "?" + r.Params.Encode()
	}
	return h
}

// Param returns the first value of a query parameter.
func (r Route) Param(name string) string {
	if r.Params == nil {
		return ""
	}
	return r.Params.Get(name)
}

// FromPath builds the hash equivalent of a plain URL path and query, so
// script-less requests resolve through the same rules as hash navigation.
func FromPath(path, rawQuery string) Route {
	h := "#" + path
	if rawQuery != "" {
		h += "?" + rawQuery
	}
	return Parse(h)
}
