package dedup

// Group is a collection of files with the same size and first block, pending
// a full comparison.
type Group struct {
	// Size is the size of the files in the group.
	Size int64

	// PartialDigest is the digest of the first block of the files.
	PartialDigest Digest

	// Files are the files in the group.
	Files []File
}
