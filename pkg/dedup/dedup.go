package dedup

import (
	"context"
	"errors"
	"slices"
	"sort"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/weberc2/mono/dedup/pkg/logger"
	xslices "github.com/weberc2/mono/dedup/pkg/slices"
)

// ErrNoRoots is returned when a scan is requested without any directories.
var ErrNoRoots = errors.New("no directories to scan")

// Options configures a single detection run.
type Options struct {
	// Roots are the directories to scan.
	Roots []string

	// Verbose reports every duplicate pair as it is found.
	Verbose bool
}

// Detector finds sets of byte-identical files. Candidates are narrowed by
// size, then by the digest of their first block, and only the survivors are
// hashed in full.
type Detector struct {
	FS       billy.Filesystem
	Resolve  Resolver
	Hasher   Hasher
	Filter   Filter
	Selector Selector
	Notify   Notifier
}

// NewDetector returns a Detector over the host filesystem.
func NewDetector(notify Notifier, algorithm Algorithm) *Detector {
	fs := osfs.New("/")
	return &Detector{
		FS:      fs,
		Resolve: ResolveOS,
		Hasher:  Hasher{FS: fs, Algorithm: algorithm},
		Notify:  notify,
	}
}

// Detect scans `opts.Roots` and reduces every set of identical files to a
// keeper and its duplicates. Files that can't be read at any stage are
// dropped from the scan.
func (d *Detector) Detect(ctx context.Context, opts Options) (*ResultSet, error) {
	if len(opts.Roots) < 1 {
		return nil, ErrNoRoots
	}
	log := logger.Get(ctx)

	files := d.collect(ctx, opts.Roots)
	d.Notify.CollectedFiles(len(files))

	total := len(files)
	files = slices.DeleteFunc(files, func(f File) bool {
		return !d.Filter.Eligible(f.Path)
	})
	d.Notify.IgnoringIneligible(total - len(files))

	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	sizeGroups := xslices.GroupBy(files, func(f *File) int64 { return f.Size })
	slices.SortFunc(sizeGroups, func(l, r []File) int {
		if l[0].Size < r[0].Size {
			return 1
		}
		if l[0].Size > r[0].Size {
			return -1
		}
		return 0
	})

	nonUniqueSizes, ignored := xslices.Shared(sizeGroups)
	d.Notify.IgnoringUniqueSizes(ignored)

	var rs ResultSet
	for i, sizeGroup := range nonUniqueSizes {
		d.Notify.ProcessingSizeGroup(nonUniqueSizes, i)
		d.processSizeGroup(ctx, opts, &rs, sizeGroup)
	}
	rs.sort()

	log.Info(
		"scan complete",
		"files", total,
		"candidates", len(files),
		"sets", rs.Len(),
		"duplicates", rs.DuplicateCount(),
		"reclaimable_bytes", rs.Reclaimable,
	)
	d.Notify.FoundDuplicates(&rs)
	return &rs, nil
}

// collect walks every root, returning each regular file once no matter how
// many paths (symlinks, overlapping roots) lead to it.
func (d *Detector) collect(ctx context.Context, roots []string) []File {
	log := logger.Get(ctx)
	seen := make(map[string]struct{})
	var files []File
	for _, root := range roots {
		directory, err := d.Resolve(root)
		if err != nil {
			log.Debug("skipping unresolvable root", "root", root, "error", err)
			continue
		}

		d.Notify.ScanningDirectory(directory)
		iter := NewFileIter(d.FS, d.Resolve, directory)
		for next := iter.Next(); next.Exists; next = iter.Next() {
			if next.Some.Err != nil {
				log.Debug("skipping unreadable entry", "error", next.Some.Err)
				continue
			}

			file := next.Some.OK
			if _, exists := seen[file.Path]; exists {
				continue
			}
			seen[file.Path] = struct{}{}
			files = append(files, file)
		}
	}
	return files
}

func (d *Detector) processSizeGroup(
	ctx context.Context,
	opts Options,
	rs *ResultSet,
	sizeGroup []File,
) {
	log := logger.Get(ctx)
	hashed := make([]File, 0, len(sizeGroup))
	for _, file := range sizeGroup {
		digest, err := d.Hasher.Hash(file.Path, false)
		if err != nil {
			log.Debug("skipping file", "path", file.Path, "error", err)
			continue
		}
		file.PartialDigest = digest
		hashed = append(hashed, file)
	}

	byPartialDigest, ignored := xslices.Shared(xslices.GroupBy(
		hashed,
		func(f *File) Digest { return f.PartialDigest },
	))
	d.Notify.IgnoringUniquePartialDigests(ignored, len(byPartialDigest))

	for _, files := range byPartialDigest {
		d.processGroup(ctx, opts, rs, &Group{
			Size:          files[0].Size,
			PartialDigest: files[0].PartialDigest,
			Files:         files,
		})
	}
}

func (d *Detector) processGroup(
	ctx context.Context,
	opts Options,
	rs *ResultSet,
	group *Group,
) {
	log := logger.Get(ctx)
	d.Notify.ProcessingGroup(group)

	hashed := make([]File, 0, len(group.Files))
	for _, file := range group.Files {
		digest, err := d.Hasher.Hash(file.Path, true)
		if err != nil {
			log.Debug("skipping file", "path", file.Path, "error", err)
			continue
		}
		file.FullDigest = digest
		hashed = append(hashed, file)
	}

	classes := xslices.GroupBy(
		hashed,
		func(f *File) Digest { return f.FullDigest },
	)
	for _, class := range classes {
		if len(class) < 2 {
			continue
		}

		if opts.Verbose {
			for i := range class[1:] {
				d.Notify.DuplicateFound(class[i+1].Path, class[0].Path)
			}
		}

		keeper, duplicates := d.Selector.Select(class)
		log.Debug(
			"selected keeper",
			"keeper", keeper.Path,
			"duplicates", len(duplicates),
			"digest", keeper.FullDigest.String(),
		)
		rs.add(keeper, duplicates)
	}
}
