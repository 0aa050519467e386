package content

import (
	"sort"
	"strings"

	"github.com/ScootGarcia/renetium/internal/model"
)

// Filter restricts a listing to one kind, or to nothing at all.
type Filter struct {
	kind model.Kind
}

// FilterAll matches every item.
var FilterAll = Filter{}

// FilterKind matches items of kind k only.
func FilterKind(k model.Kind) Filter {
	return Filter{kind: k}
}

// ParseFilter reads a filter value from a query string. "all" and anything
// unrecognized fall back to FilterAll.
func ParseFilter(s string) Filter {
	if k, ok := model.ParseKind(s); ok {
		return Filter{kind: k}
	}
	return FilterAll
}

// All reports whether the filter lets every kind through.
func (f Filter) All() bool {
	return !f.kind.Valid()
}

// Kind returns the selected kind and false for FilterAll.
func (f Filter) Kind() (model.Kind, bool) {
	return f.kind, f.kind.Valid()
}

func (f Filter) String() string {
	if f.All() {
		return "all"
	}
	return f.kind.String()
}

// Match reports whether item passes the kind constraint.
func (f Filter) Match(item *model.ContentItem) bool {
	return f.All() || item.Kind == f.kind
}

// Visible returns the items passing filter whose title or excerpt contains
// query, case-insensitively. Input order is preserved.
func Visible(items []*model.ContentItem, filter Filter, query string) []*model.ContentItem {
	out := make([]*model.ContentItem, 0, len(items))
	for _, item := range items {
		if filter.Match(item) && matchesQuery(item, query) {
			out = append(out, item)
		}
	}
	return out
}

func matchesQuery(item *model.ContentItem, query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(item.Title), q) ||
		strings.Contains(strings.ToLower(item.Excerpt), q)
}

// SortByDate orders items newest first. Items sharing a date keep their relative order.
func SortByDate(items []*model.ContentItem) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})
}

// Latest returns up to n of the newest items of kind k.
func Latest(items []*model.ContentItem, k model.Kind, n int) []*model.ContentItem {
	out := Visible(items, FilterKind(k), "")
	SortByDate(out)
	if n >= 0 && len(out) > n {
		out = out[:n]
	}
	return out
}

// Counts tallies items per kind.
func Counts(items []*model.ContentItem) map[model.Kind]int {
	counts := make(map[model.Kind]int, len(model.Kinds()))
	for _, item := range items {
		counts[item.Kind]++
	}
	return counts
}
