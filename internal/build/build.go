// Package build writes the whole site as static files. Every state a page can
// reach without scripting (filtered listings, item pages, each viewer frame)
// gets its own directory, so the output can be served by any file server.
package build

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ScootGarcia/renetium/internal/content"
	"github.com/ScootGarcia/renetium/internal/model"
	"github.com/ScootGarcia/renetium/internal/render"
	"github.com/ScootGarcia/renetium/internal/route"
	"github.com/ScootGarcia/renetium/internal/viewer"
)

const (
	conventionalStaticDir = "static"
	conventionalImagesDir = "images"
)

var (
	// ErrPathConflict is returned when two pages would be written to the same file.
	ErrPathConflict = errors.New("build: two pages share an output path")
	// ErrOutsideOutput is returned for a page whose path leaves the output directory.
	ErrOutsideOutput = errors.New("build: page path escapes the output directory")
)

// Options configures a build.
type Options struct {
	OutputDir string
	// Static is copied to <OutputDir>/static.
	Static fs.FS
	// Images is copied to <OutputDir>/images. Optional.
	Images fs.FS
	// Workers bounds concurrent page writes. Defaults to the number of CPUs.
	Workers int
	Logger  *zap.Logger
}

// Report counts what a build wrote.
type Report struct {
	Pages  int
	Assets int
}

type page struct {
	file  string
	write func(io.Writer) error
}

// Site cleans opts.OutputDir and writes lib into it. rn must be configured
// with render.StaticLinks so the pages link to each other's directories.
func Site(ctx context.Context, lib *model.Library, rn *render.Renderer, opts Options) (Report, error) {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	log := opts.Logger.Named("build")
	out := opts.OutputDir
	if strings.TrimSpace(out) == "" {
		return Report{}, fmt.Errorf("output directory is required")
	}

	pages, err := plan(lib, rn)
	if err != nil {
		return Report{}, err
	}

	log.Info("cleaning output directory", zap.String("dir", out))
	if err := os.RemoveAll(out); err != nil {
		return Report{}, fmt.Errorf("failed to remove output directory '%s': %w", out, err)
	}
	if err := os.MkdirAll(out, os.ModePerm); err != nil {
		return Report{}, fmt.Errorf("failed to create output directory '%s': %w", out, err)
	}

	var report Report
	if opts.Static != nil {
		n, err := copyDirContents(opts.Static, filepath.Join(out, conventionalStaticDir))
		if err != nil {
			return Report{}, fmt.Errorf("failed to copy static assets: %w", err)
		}
		report.Assets += n
	}
	if opts.Images != nil {
		n, err := copyDirContents(opts.Images, filepath.Join(out, conventionalImagesDir))
		if err != nil {
			return Report{}, fmt.Errorf("failed to copy images: %w", err)
		}
		report.Assets += n
	}
	log.Debug("assets copied", zap.Int("files", report.Assets))

	var written atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for _, p := range pages {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := writePage(out, p); err != nil {
				return err
			}
			written.Add(1)
			log.Debug("generated", zap.String("file", p.file))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Report{}, err
	}
	report.Pages = int(written.Load())

	if err := writeSearchIndex(out, lib); err != nil {
		return Report{}, err
	}

	log.Info("build completed", zap.Int("pages", report.Pages), zap.Int("assets", report.Assets))
	return report, nil
}

// plan lists every page with the file it is written to. Paths come from the
// same StaticLinks the pages use to link to each other.
func plan(lib *model.Library, rn *render.Renderer) ([]page, error) {
	links := render.StaticLinks{}
	var pages []page
	seen := make(map[string]bool)
	add := func(href string, write func(io.Writer) error) error {
		file := path.Join(strings.TrimPrefix(href, "/"), "index.html")
		if !fs.ValidPath(file) {
			return fmt.Errorf("%w: %s", ErrOutsideOutput, href)
		}
		if seen[file] {
			return fmt.Errorf("%w: %s", ErrPathConflict, file)
		}
		seen[file] = true
		pages = append(pages, page{file: file, write: write})
		return nil
	}
	routePage := func(r route.Route) func(io.Writer) error {
		return func(w io.Writer) error { return rn.Page(w, lib, r, false) }
	}

	if err := add("/", routePage(route.Route{Page: route.Home})); err != nil {
		return nil, err
	}
	if err := add(links.Listing(nil), routePage(route.Route{Page: route.Articles})); err != nil {
		return nil, err
	}
	for _, k := range model.Kinds() {
		params := url.Values{"filter": {k.String()}}
		if err := add(links.Listing(params), routePage(route.Route{Page: route.Articles, Params: params})); err != nil {
			return nil, err
		}
	}
	for _, item := range lib.Items {
		if err := add(item.Permalink, func(w io.Writer) error { return rn.ItemPage(w, lib, item) }); err != nil {
			return nil, err
		}
		if item.Image == "" {
			continue
		}
		params := url.Values{"image": {item.ID}}
		if err := add(links.Listing(params), routePage(route.Route{Page: route.Articles, Params: params})); err != nil {
			return nil, err
		}
	}
	if err := add("/gallery/", routePage(route.Route{Page: route.Gallery})); err != nil {
		return nil, err
	}
	for _, g := range lib.Galleries {
		for i := range g.Images {
			for _, mode := range []viewer.Mode{viewer.Inline, viewer.FullScreen} {
				err := add(links.Viewer(g.ID, i, mode), func(w io.Writer) error {
					v, err := viewer.Restore(g.Images, i, mode)
					if err != nil {
						return err
					}
					defer v.Teardown()
					return rn.ViewerPage(w, lib, g, v, false)
				})
				if err != nil {
					return nil, err
				}
			}
		}
	}
	if err := add("/about/", routePage(route.Route{Page: route.About})); err != nil {
		return nil, err
	}
	return pages, nil
}

func writePage(out string, p page) error {
	var buf bytes.Buffer
	if err := p.write(&buf); err != nil {
		return fmt.Errorf("failed to render '%s': %w", p.file, err)
	}
	dst := filepath.Join(out, filepath.FromSlash(p.file))
	if rel, err := filepath.Rel(out, dst); err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideOutput, p.file)
	}
	if err := os.MkdirAll(filepath.Dir(dst), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create directory for '%s': %w", p.file, err)
	}
	if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write '%s': %w", dst, err)
	}
	return nil
}

// writeSearchIndex writes the items, newest first, where the static listing
// pages look them up while the visitor types.
func writeSearchIndex(out string, lib *model.Library) error {
	items := (&content.Listing{}).Results(lib.Items)
	data, err := json.MarshalIndent(content.Summarize(items), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode search index: %w", err)
	}
	dst := filepath.Join(out, filepath.FromSlash(strings.TrimPrefix(render.StaticLinks{}.SearchIndex(), "/")))
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return fmt.Errorf("failed to write search index: %w", err)
	}
	return nil
}

// copyDirContents recursively copies the contents of src into dst and
// reports the number of files copied.
func copyDirContents(src fs.FS, dst string) (int, error) {
	n := 0
	err := fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		dstPath := filepath.Join(dst, filepath.FromSlash(p))
		if d.IsDir() {
			if err := os.MkdirAll(dstPath, os.ModePerm); err != nil {
				return fmt.Errorf("failed to create directory %s: %w", dstPath, err)
			}
			return nil
		}
		if err := copyFile(src, p, dstPath); err != nil {
			return fmt.Errorf("failed to copy file from %s to %s: %w", p, dstPath, err)
		}
		n++
		return nil
	})
	return n, err
}

// copyFile copies a single file from src to dstFile.
func copyFile(src fs.FS, name, dstFile string) error {
	srcF, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("failed to open source file %s: %w", name, err)
	}
	defer srcF.Close()

	dstF, err := os.Create(dstFile)
	if err != nil {
		return fmt.Errorf("failed to create destination file %s: %w", dstFile, err)
	}
	defer dstF.Close()

	if _, err := io.Copy(dstF, srcF); err != nil {
		return fmt.Errorf("failed to copy data from %s to %s: %w", name, dstFile, err)
	}
	return dstF.Close()
}
