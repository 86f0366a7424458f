package dedup

import (
	"regexp"
	"slices"
	"time"
)

// Side identifies one file of a compared pair.
type Side int

const (
	// X is the first file of the pair.
	X Side = iota

	// Y is the second file of the pair.
	Y
)

func (s Side) String() string {
	if s == X {
		return "x"
	}
	return "y"
}

// Rule decides which of two identical files is the less likely original. A
// rule that can't tell the files apart returns an empty option.
type Rule struct {
	Name  string
	Evict func(x, y *File) Option[Side]
}

var (
	copyMarker   = regexp.MustCompile(`(?i)copy`)
	numberMarker = regexp.MustCompile(`\(\d+\)`)
	imgMarker    = regexp.MustCompile(`[Ii](?:mg|MG)`)
	dateMarker   = regexp.MustCompile(`20\d{6}`)
)

// DefaultRules is the keeper policy, highest priority first. Copy markers,
// "(n)" suffixes and embedded dates mark a file as a copy; camera-style IMG
// names mark a file as the original. When nothing else applies the older
// file is kept.
func DefaultRules(now func() time.Time) []Rule {
	return []Rule{
		{Name: "copy-marker", Evict: evictMatching(copyMarker)},
		{Name: "numbered", Evict: evictMatching(numberMarker)},
		// inverted relative to the other name rules
		{Name: "img-marker", Evict: evictNonMatching(imgMarker)},
		{Name: "date-stamped", Evict: evictMatching(dateMarker)},
		{Name: "younger", Evict: evictYounger(now)},
	}
}

func evictMatching(re *regexp.Regexp) func(x, y *File) Option[Side] {
	return func(x, y *File) (evicted Option[Side]) {
		mx, my := re.MatchString(x.Name()), re.MatchString(y.Name())
		switch {
		case mx && !my:
			evicted = Some(X)
		case my && !mx:
			evicted = Some(Y)
		}
		return
	}
}

func evictNonMatching(re *regexp.Regexp) func(x, y *File) Option[Side] {
	match := evictMatching(re)
	return func(x, y *File) Option[Side] {
		evicted := match(x, y)
		if evicted.Exists {
			evicted.Some = 1 - evicted.Some
		}
		return evicted
	}
}

// evictYounger compares the time since each file was last written, in whole
// seconds. Ties evict y.
func evictYounger(now func() time.Time) func(x, y *File) Option[Side] {
	return func(x, y *File) Option[Side] {
		t := now()
		ageX := t.Sub(x.ModTime).Round(time.Second)
		ageY := t.Sub(y.ModTime).Round(time.Second)
		if ageX < ageY {
			return Some(X)
		}
		return Some(Y)
	}
}

// Selector picks the original ("keeper") from a set of identical files.
type Selector struct {
	// Rules overrides DefaultRules.
	Rules []Rule

	// Now defaults to time.Now.
	Now func() time.Time
}

// Select drains a copy of `class` two files at a time, moving the loser of
// each comparison to `duplicates`, until only the keeper is left.
func (s Selector) Select(class []File) (keeper File, duplicates []File) {
	if len(class) < 1 {
		return
	}

	rules := s.Rules
	if rules == nil {
		now := s.Now
		if now == nil {
			now = time.Now
		}
		rules = DefaultRules(now)
	}

	queue := slices.Clone(class)
	for len(queue) > 1 {
		switch evict(rules, &queue[0], &queue[1]) {
		case X:
			duplicates = append(duplicates, queue[0])
			queue = queue[1:]
		default:
			duplicates = append(duplicates, queue[1])
			queue = slices.Delete(queue, 1, 2)
		}
	}
	keeper = queue[0]
	return
}

func evict(rules []Rule, x, y *File) Side {
	for _, rule := range rules {
		if evicted := rule.Evict(x, y); evicted.Exists {
			return evicted.Some
		}
	}
	return Y
}
