package route

import (
	"net/url"

	"github.com/ScootGarcia/renetium/internal/model"
)

// Location is the address-bar hash the navigator reads from and writes to.
type Location interface {
	Hash() string
	SetHash(hash string)
}

// Navigator holds the current route for one mounted application. The route is
// recomputed from the location on every change and never cached across events.
type Navigator struct {
	loc     Location
	current Route
	subs    map[int]func(Route)
	order   []int
	nextID  int
	started bool
}

// NewNavigator returns a navigator bound to loc. Call Start once the views are mounted.
func NewNavigator(loc Location) *Navigator {
	return &Navigator{
		loc:     loc,
		current: Route{Page: Home, Params: url.Values{}},
		subs:    make(map[int]func(Route)),
	}
}

// Start computes the initial route from the current hash.
func (n *Navigator) Start() Route {
	n.started = true
	n.set(Parse(n.loc.Hash()))
	return n.current
}

// HashChanged is the change-event handler: it re-parses the hash and notifies
// subscribers. The echo of a Navigate call, which already applied the same
// route, is not delivered twice.
func (n *Navigator) HashChanged() Route {
	r := Parse(n.loc.Hash())
	if n.started && r.Hash() == n.current.Hash() {
		return n.current
	}
	n.started = true
	n.set(r)
	return n.current
}

// Navigate writes the hash for page plus params and updates the route synchronously.
func (n *Navigator) Navigate(page Page, params url.Values) Route {
	r := Route{Page: page, Params: params}
	if r.Params == nil {
		r.Params = url.Values{}
	}
	if page == Home {
		r.Params = url.Values{}
	}
	n.started = true
	n.set(r)
	n.loc.SetHash(r.Hash())
	return n.current
}

// Current returns the active route.
func (n *Navigator) Current() Route {
	return n.current
}

// Subscribe registers fn for route changes and returns its removal func.
func (n *Navigator) Subscribe(fn func(Route)) (unsubscribe func()) {
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	n.order = append(n.order, id)
	return func() {
		delete(n.subs, id)
		for i, v := range n.order {
			if v == id {
				n.order = append(n.order[:i], n.order[i+1:]...)
				break
			}
		}
	}
}

func (n *Navigator) set(r Route) {
	n.current = r
	ids := append([]int(nil), n.order...)
	for _, id := range ids {
		if fn, ok := n.subs[id]; ok {
			fn(r)
		}
	}
}

// Nav builds the header entries with the active one resolved against r.
func Nav(r Route) []model.NavEntry {
	entries := []struct {
		label string
		page  Page
	}{
		{"Home", Home},
		{"Knowledge Base", Articles},
		{"Gallery", Gallery},
		{"About", About},
	}
	out := make([]model.NavEntry, 0, len(entries))
	for _, e := range entries {
		target := Route{Page: e.page}
		href := "/"
		if e.page != Home {
			href = "/" + e.page.String()
		}
		out = append(out, model.NavEntry{
			Label:  e.label,
			Hash:   target.Hash(),
			Href:   href,
			Active: r.Page == e.page,
		})
	}
	return out
}
