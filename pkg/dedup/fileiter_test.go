package dedup

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"testing"

	"github.com/go-git/go-billy/v5/osfs"
)

func TestFileIter(t *testing.T) {
	fs := newMemFS(t, map[string]string{
		"/root/a.jpg":       "a",
		"/root/sub/b.jpg":   "bb",
		"/root/sub/deep/c":  "ccc",
		"/elsewhere/d.jpg":  "dddd",
		"/root/sub2/e.jpeg": "",
	})

	iter := NewFileIter(fs, cleanPath, "/root")
	var found []File
	for next := iter.Next(); next.Exists; next = iter.Next() {
		if next.Some.Err != nil {
			t.Fatalf("unexpected err: %v", next.Some.Err)
		}
		found = append(found, File{Path: next.Some.OK.Path, Size: next.Some.OK.Size})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].Path < found[j].Path })

	wanted := []File{
		{Path: "/root/a.jpg", Size: 1},
		{Path: "/root/sub/b.jpg", Size: 2},
		{Path: "/root/sub/deep/c", Size: 3},
		{Path: "/root/sub2/e.jpeg", Size: 0},
	}
	if !reflect.DeepEqual(wanted, found) {
		t.Fatalf("wanted `%+v`; found `%+v`", wanted, found)
	}
}

func TestFileIterMissingDirectory(t *testing.T) {
	iter := NewFileIter(
		osfs.New("/"),
		cleanPath,
		filepath.Join(t.TempDir(), "missing"),
	)

	next := iter.Next()
	if !next.Exists {
		t.Fatal("wanted an error result; found end of walk")
	}
	if !errors.Is(next.Some.Err, os.ErrNotExist) {
		t.Fatalf("wanted `os.ErrNotExist`; found `%v`", next.Some.Err)
	}

	if next := iter.Next(); next.Exists {
		t.Fatalf("wanted end of walk; found `%+v`", next.Some)
	}
}

func TestFileIterUnresolvableEntry(t *testing.T) {
	fs := newMemFS(t, map[string]string{
		"/root/bad.jpg":  "x",
		"/root/good.jpg": "y",
	})
	errBroken := errors.New("broken link")
	resolve := func(path string) (string, error) {
		if path == "/root/bad.jpg" {
			return "", errBroken
		}
		return path, nil
	}

	var files, failures int
	iter := NewFileIter(fs, resolve, "/root")
	for next := iter.Next(); next.Exists; next = iter.Next() {
		if next.Some.Err != nil {
			if !errors.Is(next.Some.Err, errBroken) {
				t.Fatalf("wanted `%v`; found `%v`", errBroken, next.Some.Err)
			}
			failures++
			continue
		}
		files++
	}
	if files != 1 || failures != 1 {
		t.Fatalf("wanted 1 file and 1 failure; found %d and %d", files, failures)
	}
}
