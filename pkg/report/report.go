// Package report persists duplicate pairs as a semicolon delimited file
// with a `filename;duplicate` header. The same file feeds later delete runs.
package report

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-billy/v5"
	"github.com/weberc2/mono/dedup/pkg/dedup"
)

const (
	delimiter = ';'

	// FailedMarker replaces the keeper column of rows whose delete failed.
	FailedMarker = "failed"
)

var header = []string{"filename", "duplicate"}

// ErrCorrupt is returned for reports that can't be parsed.
var ErrCorrupt = errors.New("corrupt report")

// Failed builds the retry rows for `paths`.
func Failed(paths []string) []dedup.Pair {
	pairs := make([]dedup.Pair, len(paths))
	for i, path := range paths {
		pairs[i] = dedup.Pair{Keeper: FailedMarker, Duplicate: path}
	}
	return pairs
}

// FromResultSet lists every (keeper, duplicate) pair found by a scan.
func FromResultSet(rs *dedup.ResultSet) []dedup.Pair { return rs.Pairs() }

// Write encodes `pairs` with a header row.
func Write(w io.Writer, pairs []dedup.Pair) error {
	cw := csv.NewWriter(w)
	cw.Comma = delimiter
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing report header: %w", err)
	}
	for _, pair := range pairs {
		if err := cw.Write([]string{pair.Keeper, pair.Duplicate}); err != nil {
			return fmt.Errorf("writing report row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flushing report: %w", err)
	}
	return nil
}

// Read decodes a report. The header row is optional.
func Read(r io.Reader) ([]dedup.Pair, error) {
	cr := csv.NewReader(r)
	cr.Comma = delimiter
	cr.FieldsPerRecord = -1

	var pairs []dedup.Pair
	for line := 1; ; line++ {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return pairs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
		}

		if line == 1 && isHeader(record) {
			continue
		}
		if len(record) < 2 {
			return nil, fmt.Errorf(
				"%w: line %d: wanted 2 fields; found %d",
				ErrCorrupt,
				line,
				len(record),
			)
		}
		pairs = append(pairs, dedup.Pair{
			Keeper:    record[0],
			Duplicate: record[1],
		})
	}
}

func isHeader(record []string) bool {
	return len(record) == len(header) &&
		record[0] == header[0] &&
		record[1] == header[1]
}

// Store keeps a report at a fixed path.
type Store struct {
	FS   billy.Filesystem
	Path string
}

// Pending reports whether a report with at least one row exists.
func (s Store) Pending() (bool, error) {
	pairs, err := s.Load()
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return len(pairs) > 0, nil
}

func (s Store) Load() (pairs []dedup.Pair, err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("loading report `%s`: %w", s.Path, err)
		}
	}()

	var file billy.File
	if file, err = s.FS.Open(s.Path); err != nil {
		return
	}
	defer func() { err = errors.Join(err, file.Close()) }()

	pairs, err = Read(file)
	return
}

// Save replaces the report with `pairs`. The rows are written to a
// temporary file first so a failed write leaves the old report intact.
func (s Store) Save(pairs []dedup.Pair) (err error) {
	defer func() {
		if err != nil {
			err = fmt.Errorf("saving report `%s`: %w", s.Path, err)
		}
	}()

	var tmp billy.File
	if tmp, err = s.FS.TempFile(filepath.Dir(s.Path), ".report-"); err != nil {
		return
	}

	if err = Write(tmp, pairs); err != nil {
		err = errors.Join(err, tmp.Close(), s.FS.Remove(tmp.Name()))
		return
	}
	if err = tmp.Close(); err != nil {
		err = errors.Join(err, s.FS.Remove(tmp.Name()))
		return
	}
	return s.FS.Rename(tmp.Name(), s.Path)
}

// Remove deletes the report. A missing report is not an error.
func (s Store) Remove() error {
	if err := s.FS.Remove(s.Path); err != nil &&
		!errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("removing report `%s`: %w", s.Path, err)
	}
	return nil
}

// Settle updates the report after a delete run. Once anything has been
// deleted the old report is dropped; whatever still needs attention (rows
// skipped by soft mode, then failures as `failed;<path>` rows) is written
// back for a later run. Dry runs leave the report alone.
func (s Store) Settle(outcome *dedup.DeleteOutcome) error {
	if outcome.DryRun {
		return nil
	}
	if len(outcome.Removed) < 1 && len(outcome.Failed) < 1 {
		return nil
	}

	leftovers := append(
		append([]dedup.Pair(nil), outcome.Skipped...),
		Failed(outcome.Failed)...,
	)
	if len(leftovers) < 1 {
		return s.Remove()
	}
	return s.Save(leftovers)
}
