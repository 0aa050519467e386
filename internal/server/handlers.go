package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/route"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

// handleShell serves the scripted entry page. app.js takes over from here
// and renders whatever the hash names.
func (s *Server) handleShell(w http.ResponseWriter, r *http.Request) {
	lib := s.Library()
	s.html(w, r, http.StatusOK, func(out io.Writer) error {
		return s.render.Page(out, lib, route.Route{Page: route.Home, Params: url.Values{}}, true)
	})
}

// handleFragment renders the <main> content for the hash in ?hash=.
func (s *Server) handleFragment(w http.ResponseWriter, r *http.Request) {
	lib := s.Library()
	rt := route.Parse(r.URL.Query().Get("hash"))
	s.html(w, r, http.StatusOK, func(out io.Writer) error {
		return s.render.Fragment(out, lib, rt)
	})
}

// handlePage serves a full page without scripting; the path and query go
// through the hash router.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	lib := s.Library()
	rt := route.FromPath(r.URL.Path, r.URL.RawQuery)
	s.html(w, r, http.StatusOK, func(out io.Writer) error {
		return s.render.Page(out, lib, rt, false)
	})
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if k, ok := model.ParseKind(id); ok {
		http.Redirect(w, r, "/articles?filter="+k.String(), http.StatusFound)
		return
	}
	lib := s.Library()
	item, ok := lib.Item(id)
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.html(w, r, http.StatusOK, func(out io.Writer) error {
		return s.render.ItemPage(out, lib, item)
	})
}

// handleViewer is the script-less media viewer. The query carries the state
// (i, mode) and at most one operation (op or key); the response is the state
// after applying it.
func (s *Server) handleViewer(w http.ResponseWriter, r *http.Request) {
	lib := s.Library()
	g, ok := lib.Gallery(chi.URLParam(r, "id"))
	if !ok {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	index, _ := strconv.Atoi(q.Get("i"))
	keys := &viewer.KeyBus{}
	v, err := viewer.Restore(g.Images, index, viewer.ParseMode(q.Get("mode")),
		viewer.WithKeyboard(keys),
		viewer.WithScrollLock(&viewer.Lock{}))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	defer v.Teardown()

	applyOp(v, keys, q)

	partial := q.Get("partial") == "1"
	s.html(w, r, http.StatusOK, func(out io.Writer) error {
		return s.render.ViewerPage(out, lib, g, v, partial)
	})
}

// applyOp performs the single transition named in q. Keys go through the
// keyboard, so they only reach a viewer that is full-screen.
func applyOp(v *viewer.Viewer, keys *viewer.KeyBus, q url.Values) {
	to, _ := strconv.Atoi(q.Get("to"))
	switch q.Get("op") {
	case "next":
		v.Next()
	case "prev":
		v.Previous()
	case "open":
		v.Open()
	case "close":
		v.Close()
	case "select":
		_ = v.Select(to)
	case "set":
		_ = v.SetIndex(to)
	}
	if key := q.Get("key"); key != "" {
		keys.Dispatch(key)
	}
}

type itemsResponse struct {
	Filter string            `json:"filter"`
	Search string            `json:"search,omitempty"`
	Count  int               `json:"count"`
	Items  []content.Summary `json:"items"`
}

func (s *Server) handleItems(w http.ResponseWriter, r *http.Request) {
	listing := content.NewListing(r.URL.Query())
	results := listing.Results(s.Library().Items)
	s.json(w, r, itemsResponse{
		Filter: listing.Filter.String(),
		Search: listing.Query,
		Count:  len(results),
		Items:  content.Summarize(results),
	})
}

type galleryResponse struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Author string   `json:"author,omitempty"`
	Likes  int      `json:"likes"`
	Images []string `json:"images"`
}

func (s *Server) handleGalleries(w http.ResponseWriter, r *http.Request) {
	galleries := s.Library().Galleries
	out := make([]galleryResponse, 0, len(galleries))
	for _, g := range galleries {
		out = append(out, galleryResponse{ID: g.ID, Title: g.Title, Author: g.Author, Likes: g.Likes, Images: g.Images})
	}
	s.json(w, r, out)
}

// html renders into a buffer first so a template failure never leaves a
// half-written page behind.
func (s *Server) html(w http.ResponseWriter, r *http.Request, status int, fn func(io.Writer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

func (s *Server) json(w http.ResponseWriter, r *http.Request, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(body)
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	s.log.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err))
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
