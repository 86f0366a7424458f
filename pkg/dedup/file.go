package dedup

import (
	"path/filepath"
	"time"
)

// File is the metadata for a file, snapshotted when the file was scanned.
type File struct {
	// Path is the canonical path to the file, with symlinks resolved.
	Path string

	// Size is the size of the file.
	Size int64

	// ModTime is the time the file was last written.
	ModTime time.Time

	// PartialDigest is the digest of the file's first block.
	PartialDigest Digest

	// FullDigest is the digest of the file's entire content.
	FullDigest Digest
}

// Name returns the final element of the file's path.
func (f *File) Name() string { return filepath.Base(f.Path) }

func paths(files []File) []string {
	out := make([]string, len(files))
	for i := range files {
		out[i] = files[i].Path
	}
	return out
}
