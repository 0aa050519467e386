package content

import (
	"net/url"

	"github.com/ScootGarcia/renetium/internal/model"
)

// Listing is the knowledge base view state: selected filter, search text and
// the one expanded item, if any. It lives only as long as the view does.
type Listing struct {
	Filter   Filter
	Query    string
	Expanded string
}

// NewListing seeds a listing from route parameters (filter, search, expand).
func NewListing(params url.Values) *Listing {
	l := &Listing{Filter: FilterAll}
	if params == nil {
		return l
	}
	l.Filter = ParseFilter(params.Get("filter"))
	l.Query = params.Get("search")
	l.Expanded = params.Get("expand")
	return l
}

// SetFilter selects a filter.
func (l *Listing) SetFilter(f Filter) {
	l.Filter = f
}

// SetQuery replaces the search text.
func (l *Listing) SetQuery(q string) {
	l.Query = q
}

// Toggle expands id, collapsing whatever was open. Toggling the open item closes it.
func (l *Listing) Toggle(id string) {
	if l.Expanded == id {
		l.Expanded = ""
		return
	}
	l.Expanded = id
}

// IsExpanded reports whether id is the expanded item.
func (l *Listing) IsExpanded(id string) bool {
	return id != "" && l.Expanded == id
}

// Reset clears the filter and the search text.
func (l *Listing) Reset() {
	l.Filter = FilterAll
	l.Query = ""
}

// Results computes the visible items, newest first.
func (l *Listing) Results(items []*model.ContentItem) []*model.ContentItem {
	out := Visible(items, l.Filter, l.Query)
	SortByDate(out)
	return out
}

// Empty reports whether nothing passes the current filter and search, the
// state that shows the reset prompt.
func (l *Listing) Empty(items []*model.ContentItem) bool {
	for _, item := range items {
		if l.Filter.Match(item) && matchesQuery(item, l.Query) {
			return false
		}
	}
	return true
}

// Params encodes the listing back into route parameters.
func (l *Listing) Params() url.Values {
	v := url.Values{}
	if !l.Filter.All() {
		v.Set("filter", l.Filter.String())
	}
	if l.Query != "" {
		v.Set("search", l.Query)
	}
	if l.Expanded != "" {
		v.Set("expand", l.Expanded)
	}
	return v
}
