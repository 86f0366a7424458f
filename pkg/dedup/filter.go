package dedup

import (
	"mime"
	"path/filepath"
	"strings"
)

// Filter decides which files are worth hashing. Only image-like assets are
// eligible.
type Filter struct {
	// TypeByExtension resolves a MIME type from an extension including the
	// leading dot, returning "" when the type is unknown. Defaults to
	// mime.TypeByExtension.
	TypeByExtension func(ext string) string
}

// allowedExtensions are accepted when no MIME type is registered for them.
var allowedExtensions = map[string]struct{}{
	"jpg":  {},
	"jpeg": {},
	"png":  {},
	"gif":  {},
	"pdf":  {},
	"tif":  {},
	"svg":  {},
	"bmp":  {},
	"heif": {},
}

func (f Filter) Eligible(path string) bool {
	ext := filepath.Ext(path)
	if ext == "" {
		return false
	}

	lookup := f.TypeByExtension
	if lookup == nil {
		lookup = mime.TypeByExtension
	}

	if mimeType := lookup(ext); mimeType != "" {
		category, _, _ := strings.Cut(mimeType, "/")
		return category == "image"
	}

	_, allowed := allowedExtensions[strings.ToLower(ext[1:])]
	return allowed
}
