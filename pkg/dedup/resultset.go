package dedup

import "sort"

// Entry is one set of identical files reduced to its keeper.
type Entry struct {
	// Keeper is the path of the file presumed to be the original.
	Keeper string

	// Duplicates are the paths of the redundant copies, in eviction order.
	Duplicates []string

	// Size is the size of each file in the set.
	Size int64
}

// Pair is a single (keeper, duplicate) association.
type Pair struct {
	Keeper    string
	Duplicate string
}

// ResultSet is the outcome of a detection run.
type ResultSet struct {
	// Entries are ordered by keeper path.
	Entries []Entry

	// Reclaimable is the number of bytes the duplicates occupy.
	Reclaimable int64
}

func (rs *ResultSet) add(keeper File, duplicates []File) {
	rs.Entries = append(rs.Entries, Entry{
		Keeper:     keeper.Path,
		Duplicates: paths(duplicates),
		Size:       keeper.Size,
	})
	rs.Reclaimable += keeper.Size * int64(len(duplicates))
}

func (rs *ResultSet) sort() {
	sort.Slice(rs.Entries, func(i, j int) bool {
		return rs.Entries[i].Keeper < rs.Entries[j].Keeper
	})
}

// Len returns the number of duplicate sets.
func (rs *ResultSet) Len() int { return len(rs.Entries) }

// DuplicateCount returns the number of redundant files across all sets.
func (rs *ResultSet) DuplicateCount() (n int) {
	for i := range rs.Entries {
		n += len(rs.Entries[i].Duplicates)
	}
	return
}

// Lookup finds the entry whose keeper is `keeper`.
func (rs *ResultSet) Lookup(keeper string) Option[*Entry] {
	for i := range rs.Entries {
		if rs.Entries[i].Keeper == keeper {
			return Some(&rs.Entries[i])
		}
	}
	return Option[*Entry]{}
}

// Pairs flattens the result set into (keeper, duplicate) pairs.
func (rs *ResultSet) Pairs() []Pair {
	pairs := make([]Pair, 0, rs.DuplicateCount())
	for _, entry := range rs.Entries {
		for _, duplicate := range entry.Duplicates {
			pairs = append(pairs, Pair{
				Keeper:    entry.Keeper,
				Duplicate: duplicate,
			})
		}
	}
	return pairs
}
