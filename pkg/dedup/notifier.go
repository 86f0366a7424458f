package dedup

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// Notifier reports progress to a human.
type Notifier struct {
	w io.Writer
}

func NewNotifier(w io.Writer) (n Notifier) {
	n.w = w
	return
}

// Discard is a Notifier that prints nothing.
var Discard = NewNotifier(io.Discard)

var (
	bold  = color.New(color.Bold)
	green = color.New(color.FgGreen)
	red   = color.New(color.FgRed)
)

func (n Notifier) ScanningDirectory(directory string) {
	fmt.Fprintf(
		n.w,
		"%s scanning directory: %s\n",
		nowStr(),
		directory,
	)
}

func (n Notifier) CollectedFiles(count int) {
	fmt.Fprintf(
		n.w,
		"%s collected %d distinct files\n",
		nowStr(),
		count,
	)
}

func (n Notifier) IgnoringIneligible(ignored int) {
	fmt.Fprintf(
		n.w,
		"%s ignoring %d files that aren't images\n",
		nowStr(),
		ignored,
	)
}

func (n Notifier) IgnoringUniqueSizes(ignored int) {
	fmt.Fprintf(
		n.w,
		"%s ignoring %d files with unique sizes\n",
		nowStr(),
		ignored,
	)
}

func (n Notifier) ProcessingSizeGroup(groups [][]File, index int) {
	bold.Fprintf(
		n.w,
		"%s processing size group %d/%d (%d files @ %s each)\n",
		nowStr(),
		index+1,
		len(groups),
		len(groups[index]),
		humanize.IBytes(uint64(groups[index][0].Size)),
	)
}

func (n Notifier) IgnoringUniquePartialDigests(ignored, remaining int) {
	if ignored < 1 {
		return
	}
	green.Fprintf(
		n.w,
		"%s  ignoring %d files with unique first blocks (%d groups remaining)\n",
		nowStr(),
		ignored,
		remaining,
	)
}

func (n Notifier) ProcessingGroup(group *Group) {
	bold.Fprintf(
		n.w,
		"%s  processing group (%d files @ %s each)\n",
		nowStr(),
		len(group.Files),
		humanize.IBytes(uint64(group.Size)),
	)
}

func (n Notifier) DuplicateFound(path, original string) {
	fmt.Fprintf(
		n.w,
		"%s    duplicate found: %s and %s\n",
		nowStr(),
		path,
		original,
	)
}

func (n Notifier) FoundDuplicates(rs *ResultSet) {
	if rs.Len() < 1 {
		fmt.Fprintf(n.w, "%s no duplicates were found\n", nowStr())
		return
	}
	green.Fprintf(
		n.w,
		"%s found %d duplicates of %d files for a total of %s\n",
		nowStr(),
		rs.DuplicateCount(),
		rs.Len(),
		humanize.IBytes(uint64(rs.Reclaimable)),
	)
}

func (n Notifier) RemovingDuplicateFile(path string) {
	fmt.Fprintf(n.w, "%s trying to delete [%s]\n", nowStr(), path)
}

func (n Notifier) KeepingDuplicateFile(path string) {
	fmt.Fprintf(
		n.w,
		"%s file found, but will not be deleted [%s]\n",
		nowStr(),
		path,
	)
}

func (n Notifier) RemovalFailed(path string, err error) {
	red.Fprintf(
		n.w,
		"%s could not delete [%s]: %v\n",
		nowStr(),
		path,
		err,
	)
}

func (n Notifier) RemovalSummary(outcome *DeleteOutcome) {
	green.Fprintf(
		n.w,
		"%s attempted to delete %d duplicates from list "+
			"(%d deleted, %d failed, %d skipped)\n",
		nowStr(),
		outcome.Attempted,
		len(outcome.Removed),
		len(outcome.Failed),
		len(outcome.Skipped),
	)
}

func nowStr() string {
	return time.Now().Format("2006-01-02 15:04:05")
}
