// Package site holds the default Renetium content, layouts and static assets.
package site

import "embed"

// FS is the embedded site tree: content/, galleries.yaml, layouts/ and static/.
//
//go:embed content galleries.yaml layouts static
var FS embed.FS
