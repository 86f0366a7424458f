package dedup

import (
	"testing"
	"time"
)

var epoch = time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return epoch }

func file(path string, age time.Duration) File {
	return File{Path: path, Size: 10, ModTime: epoch.Add(-age)}
}

func TestSelectorPair(t *testing.T) {
	for _, tc := range []struct {
		name    string
		x       File
		y       File
		evicted string
	}{
		{
			name:    "numbered-x",
			x:       file("/p/photo(2).jpg", 2*time.Hour),
			y:       file("/p/photo.jpg", time.Hour),
			evicted: "/p/photo(2).jpg",
		},
		{
			name:    "numbered-y",
			x:       file("/p/photo.jpg", time.Hour),
			y:       file("/p/photo(12).jpg", 2*time.Hour),
			evicted: "/p/photo(12).jpg",
		},
		{
			name:    "copy-marker",
			x:       file("/p/a.jpg", time.Hour),
			y:       file("/p/a_copy.jpg", 2*time.Hour),
			evicted: "/p/a_copy.jpg",
		},
		{
			name:    "copy-marker-any-case",
			x:       file("/p/Copy of a.jpg", time.Hour),
			y:       file("/p/a.jpg", time.Minute),
			evicted: "/p/Copy of a.jpg",
		},
		{
			name:    "copy-beats-img",
			x:       file("/p/IMG_0001 copy.jpg", 2*time.Hour),
			y:       file("/p/vacation.jpg", time.Hour),
			evicted: "/p/IMG_0001 copy.jpg",
		},
		{
			name:    "img-marker-keeps-camera-name",
			x:       file("/p/IMG_0001.jpg", time.Minute),
			y:       file("/p/vacation.jpg", time.Hour),
			evicted: "/p/vacation.jpg",
		},
		{
			name:    "img-marker-lowercase",
			x:       file("/p/vacation.jpg", time.Hour),
			y:       file("/p/img_0001.jpg", time.Minute),
			evicted: "/p/vacation.jpg",
		},
		{
			name:    "date-stamped",
			x:       file("/p/party.jpg", time.Minute),
			y:       file("/p/20190101_party.jpg", time.Hour),
			evicted: "/p/20190101_party.jpg",
		},
		{
			name:    "rules-use-the-name-not-the-directory",
			x:       file("/backup copy/a.jpg", 2*time.Hour),
			y:       file("/photos/b.jpg", time.Hour),
			evicted: "/photos/b.jpg",
		},
		{
			name:    "younger-x",
			x:       file("/p/a.jpg", time.Hour),
			y:       file("/p/b.jpg", 2*time.Hour),
			evicted: "/p/a.jpg",
		},
		{
			name:    "younger-y",
			x:       file("/p/a.jpg", 2*time.Hour),
			y:       file("/p/b.jpg", time.Hour),
			evicted: "/p/b.jpg",
		},
		{
			name:    "same-age-evicts-y",
			x:       file("/p/a.jpg", time.Hour),
			y:       file("/p/b.jpg", time.Hour),
			evicted: "/p/b.jpg",
		},
		{
			name:    "ages-compare-in-whole-seconds",
			x:       file("/p/a.jpg", 1100*time.Millisecond),
			y:       file("/p/b.jpg", 1200*time.Millisecond),
			evicted: "/p/b.jpg",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			keeper, duplicates := Selector{Now: fixedNow}.Select(
				[]File{tc.x, tc.y},
			)
			if len(duplicates) != 1 {
				t.Fatalf("wanted 1 duplicate; found %d", len(duplicates))
			}
			if duplicates[0].Path != tc.evicted {
				t.Fatalf(
					"wanted `%s` evicted; found `%s`",
					tc.evicted,
					duplicates[0].Path,
				)
			}
			if keeper.Path == tc.evicted {
				t.Fatalf("wanted keeper other than `%s`", tc.evicted)
			}
		})
	}
}

func TestSelectorClass(t *testing.T) {
	class := []File{
		file("/p/IMG_0001(1).jpg", time.Hour),
		file("/p/IMG_0001.jpg", time.Hour),
		file("/p/IMG_0001 copy.jpg", 3*time.Hour),
		file("/p/holiday.jpg", 4*time.Hour),
	}

	keeper, duplicates := Selector{Now: fixedNow}.Select(class)
	if keeper.Path != "/p/IMG_0001.jpg" {
		t.Fatalf("wanted keeper `/p/IMG_0001.jpg`; found `%s`", keeper.Path)
	}
	if len(duplicates) != len(class)-1 {
		t.Fatalf(
			"wanted %d duplicates; found %d",
			len(class)-1,
			len(duplicates),
		)
	}

	seen := map[string]struct{}{keeper.Path: {}}
	for _, duplicate := range duplicates {
		if _, exists := seen[duplicate.Path]; exists {
			t.Fatalf("wanted `%s` to appear once", duplicate.Path)
		}
		seen[duplicate.Path] = struct{}{}
	}
	for _, f := range class {
		if _, exists := seen[f.Path]; !exists {
			t.Fatalf("wanted `%s` in the partition", f.Path)
		}
	}

	if class[0].Path != "/p/IMG_0001(1).jpg" {
		t.Fatal("wanted the input class to be left untouched")
	}
}

func TestSelectorCustomRules(t *testing.T) {
	keepLongest := Rule{
		Name: "shorter",
		Evict: func(x, y *File) Option[Side] {
			if len(x.Path) < len(y.Path) {
				return Some(X)
			}
			if len(y.Path) < len(x.Path) {
				return Some(Y)
			}
			return Option[Side]{}
		},
	}

	keeper, duplicates := Selector{Rules: []Rule{keepLongest}}.Select([]File{
		{Path: "/a"},
		{Path: "/abc"},
		{Path: "/ab"},
	})
	if keeper.Path != "/abc" {
		t.Fatalf("wanted keeper `/abc`; found `%s`", keeper.Path)
	}
	if len(duplicates) != 2 {
		t.Fatalf("wanted 2 duplicates; found %d", len(duplicates))
	}
}

func TestSelectorSingleton(t *testing.T) {
	keeper, duplicates := Selector{Now: fixedNow}.Select(
		[]File{file("/p/a.jpg", time.Hour)},
	)
	if keeper.Path != "/p/a.jpg" || len(duplicates) != 0 {
		t.Fatalf("wanted `/p/a.jpg` and no duplicates; found `%s`, %d", keeper.Path, len(duplicates))
	}
}
