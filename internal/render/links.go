package render

import (
	"fmt"
	"net/url"

	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

// Links maps view states onto URLs. The server and the static build address
// the same states differently.
type Links interface {
	Viewer(galleryID string, index int, mode viewer.Mode) string
	Listing(params url.Values) string
	// SearchIndex is the URL of the JSON index listing pages search in the
	// browser, or "" when the listing is filtered before it is served.
	SearchIndex() string
}

// ServerLinks addresses states with query parameters handled by the HTTP server.
type ServerLinks struct{}

func (ServerLinks) Viewer(galleryID string, index int, mode viewer.Mode) string {
	return fmt.Sprintf("/gallery/%s?i=%d&mode=%s", url.PathEscape(galleryID), index, mode)
}

func (ServerLinks) Listing(params url.Values) string {
	if len(params) == 0 {
		return "/articles"
	}
	return "/articles?" + params.Encode()
}

func (ServerLinks) SearchIndex() string { return "" }

// StaticLinks addresses states as pre-rendered directories. The kind filter
// maps to a listing page, an expanded item to its own page and an opened image
// to its overlay page. Search stays in the query string and is applied in the
// browser against the search index.
type StaticLinks struct{}

func (StaticLinks) Viewer(galleryID string, index int, mode viewer.Mode) string {
	if mode == viewer.FullScreen {
		return fmt.Sprintf("/gallery/%s/%d/full/", url.PathEscape(galleryID), index)
	}
	return fmt.Sprintf("/gallery/%s/%d/", url.PathEscape(galleryID), index)
}

func (StaticLinks) Listing(params url.Values) string {
	if id := params.Get("image"); id != "" {
		return "/articles/" + url.PathEscape(id) + "/image/"
	}
	if id := params.Get("expand"); id != "" {
		return "/articles/" + url.PathEscape(id) + "/"
	}
	dir := "/articles/"
	if k, ok := content.ParseFilter(params.Get("filter")).Kind(); ok {
		dir += k.String() + "/"
	}
	if q := params.Get("search"); q != "" {
		dir += "?" + url.Values{"search": {q}}.Encode()
	}
	return dir
}

func (StaticLinks) SearchIndex() string { return "/search.json" }
