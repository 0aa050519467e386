// Package server serves the site over HTTP. Pages are rendered per request
// from the current library, which can be swapped while the server runs.
package server

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/ScootGarcia/renetium/internal/assets"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/render"
)

// Options configures a Server.
type Options struct {
	// Static holds the files served under /static/.
	Static fs.FS
	// Images holds the files served under /images/. Optional.
	Images fs.FS
	// AllowedOrigins for cross-origin reads of /api. Defaults to any origin.
	AllowedOrigins []string
	Logger         *zap.Logger
}

// Server is the site's HTTP handler.
type Server struct {
	lib     atomic.Pointer[model.Library]
	render  *render.Renderer
	static  fs.FS
	images  fs.FS
	origins []string
	log     *zap.Logger
	router  chi.Router
}

// New returns a server publishing lib.
func New(lib *model.Library, rn *render.Renderer, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if len(opts.AllowedOrigins) == 0 {
		opts.AllowedOrigins = []string{"*"}
	}
	s := &Server{
		render:  rn,
		static:  opts.Static,
		images:  opts.Images,
		origins: opts.AllowedOrigins,
		log:     opts.Logger.Named("server"),
	}
	s.lib.Store(lib)
	s.router = s.buildRouter()
	return s
}

// Library returns the library currently being served.
func (s *Server) Library() *model.Library {
	return s.lib.Load()
}

// Swap publishes lib to every subsequent request.
func (s *Server) Swap(lib *model.Library) {
	s.lib.Store(lib)
	s.log.Info("library swapped", zap.Int("items", len(lib.Items)), zap.Int("galleries", len(lib.Galleries)))
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.StripSlashes)
	r.Use(accessLog(s.log))
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	if s.static != nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(s.static))))
	}
	if s.images != nil {
		r.Handle(assets.ImagePrefix+"*", http.StripPrefix(assets.ImagePrefix, http.FileServer(http.FS(s.images))))
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{http.MethodGet, http.MethodOptions},
			AllowedHeaders: []string{"Accept"},
			MaxAge:         300,
		}))
		r.Get("/items", s.handleItems)
		r.Get("/galleries", s.handleGalleries)
	})

	r.Group(func(r chi.Router) {
		r.Use(noStore)
		r.Get("/", s.handleShell)
		r.Get("/fragment", s.handleFragment)
		r.Get("/articles", s.handlePage)
		r.Get("/articles/{id}", s.handleItem)
		r.Get("/gallery", s.handlePage)
		r.Get("/gallery/{id}", s.handleViewer)
		r.Get("/about", s.handlePage)
	})
	return r
}

// ListenAndServe serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}
