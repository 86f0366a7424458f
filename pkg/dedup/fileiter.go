package dedup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
)

// Resolver maps a path onto its canonical form.
type Resolver func(path string) (string, error)

// ResolveOS makes `path` absolute and follows every symlink in it.
func ResolveOS(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}

// FileIter walks a directory tree breadth first, yielding the regular files
// it contains. Symlinks are reported under their target's path; symlinks to
// directories are not descended.
type FileIter struct {
	fs          billy.Filesystem
	resolve     Resolver
	directory   string
	directories []string
	entries     []os.FileInfo
	cursor      int
}

func NewFileIter(
	fs billy.Filesystem,
	resolve Resolver,
	directory string,
) (iter FileIter) {
	iter.fs = fs
	iter.resolve = resolve
	iter.directories = []string{directory}
	return
}

// Next returns the next file in the tree. An empty option means the walk is
// complete. A result carrying an error describes an entry or directory that
// couldn't be read; the walk can continue past it.
func (iter *FileIter) Next() (result Option[Result[File]]) {
	for {
		// loop over the remaining entries until we hit a file. if the
		// entries point to a directory, push it onto the queue
		for iter.cursor < len(iter.entries) {
			entry := iter.entries[iter.cursor]
			iter.cursor++
			path := filepath.Join(iter.directory, entry.Name())

			if entry.IsDir() {
				iter.directories = append(iter.directories, path)
				continue
			}

			result.Exists = true
			canonical, err := iter.resolve(path)
			if err != nil {
				result.Some.Err = fmt.Errorf("resolving `%s`: %w", path, err)
				return
			}

			info, err := iter.fs.Stat(canonical)
			if err != nil {
				result.Some.Err = fmt.Errorf(
					"fetching info for file `%s`: %w",
					canonical,
					err,
				)
				return
			}

			if !info.Mode().IsRegular() {
				result.Exists = false
				continue
			}

			result.Some.OK = File{
				Path:    canonical,
				Size:    info.Size(),
				ModTime: info.ModTime(),
			}
			return
		}

		// LOAD THE NEXT DIRECTORY, IF ANY
		iter.cursor = 0
		iter.entries = nil

		// check to see if there are more directories to read, otherwise EOF
		if len(iter.directories) < 1 {
			return
		}

		// pop off the next directory
		iter.directory = iter.directories[0]
		iter.directories = iter.directories[1:]

		entries, err := iter.fs.ReadDir(iter.directory)
		if err != nil {
			result.Exists = true
			result.Some.Err = fmt.Errorf(
				"reading dir `%s`: %w",
				iter.directory,
				err,
			)
			return
		}
		iter.entries = entries
	}
}
