// Package assets decides whether an image reference can be served.
package assets

import (
	"io/fs"
	"strings"
)

// ImagePrefix is the URL path under which local images are served.
const ImagePrefix = "/images/"

// PlaceholderURL is shown in place of an image that cannot be loaded.
const PlaceholderURL = "/static/placeholder.svg"

// Resolver checks local image references against an images directory.
// Remote URLs are opaque and always pass. Without a directory nothing can be
// checked, so every reference passes.
type Resolver struct {
	images fs.FS
}

// NewResolver returns a resolver over images, which may be nil.
func NewResolver(images fs.FS) *Resolver {
	return &Resolver{images: images}
}

// Available reports whether ref can be loaded.
func (r *Resolver) Available(ref string) bool {
	if ref == "" {
		return false
	}
	if r == nil || r.images == nil || isRemote(ref) {
		return true
	}
	name := strings.TrimPrefix(ref, ImagePrefix)
	name = strings.TrimPrefix(name, "/")
	if !fs.ValidPath(name) {
		return false
	}
	info, err := fs.Stat(r.images, name)
	return err == nil && !info.IsDir()
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") ||
		strings.HasPrefix(ref, "https://") ||
		strings.HasPrefix(ref, "//")
}
