package slices

import (
	"reflect"
	"testing"
)

func TestGroupBy(t *testing.T) {
	for _, tc := range []struct {
		name   string
		input  []string
		wanted [][]string
	}{
		{
			name:   "empty",
			input:  nil,
			wanted: nil,
		},
		{
			name:   "single",
			input:  []string{"a"},
			wanted: [][]string{{"a"}},
		},
		{
			name:  "interleaved-keys",
			input: []string{"aa", "b", "cc", "d", "eee"},
			wanted: [][]string{
				{"aa", "cc"},
				{"b", "d"},
				{"eee"},
			},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			found := GroupBy(tc.input, func(s *string) int { return len(*s) })
			if !reflect.DeepEqual(tc.wanted, found) {
				t.Fatalf("wanted `%v`; found `%v`", tc.wanted, found)
			}
		})
	}
}

func TestShared(t *testing.T) {
	shared, dropped := Shared([][]int{{1}, {2, 2}, {3}, {4, 4, 4}})
	wanted := [][]int{{2, 2}, {4, 4, 4}}
	if !reflect.DeepEqual(wanted, shared) {
		t.Fatalf("wanted `%v`; found `%v`", wanted, shared)
	}
	if dropped != 2 {
		t.Fatalf("wanted 2 dropped; found %d", dropped)
	}
}
