// Package render emits the cited-reference list in journal text style
// and the full registry as escaped XML.
package render

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/registry"
)

const (
	// WrapColumn is the default column budget for journal output.
	WrapColumn = 71

	// hardSplitWidth is where an unbreakable run is cut when word
	// wrapping alone cannot fit it on a line.
	hardSplitWidth = 68

	// DOIPrefix turns an external identifier into a resolvable link.
	DOIPrefix = "https://doi.org/"
)

// Journal writes one paragraph per cited reference, most recent first
// (ties by insertion order), wrapped at the given column budget and
// indented one space from the margin. A non-positive column selects
// WrapColumn.
func Journal(w io.Writer, reg *registry.Registry, column int) error {
	if column <= 0 {
		column = WrapColumn
	}

	first := true
	for _, handle := range rankOrder(reg) {
		ref, err := reg.Reference(handle)
		if err != nil {
			return err
		}
		if !ref.Cited() {
			continue
		}
		if !first {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		first = false
		if err := writeEntry(w, ref, column); err != nil {
			return err
		}
	}
	return nil
}

// rankOrder returns all handles sorted by descending epoch. The sort
// is stable so same-date references keep their insertion order.
func rankOrder(reg *registry.Registry) []int {
	n := reg.Count()
	handles := make([]int, n)
	epochs := make([]int, n)
	for i := 0; i < n; i++ {
		handles[i] = i + 1
		ref, err := reg.Reference(i + 1)
		if err == nil {
			epochs[i] = record.Epoch(ref.Record())
		}
	}
	sort.SliceStable(handles, func(a, b int) bool {
		return epochs[handles[a]-1] > epochs[handles[b]-1]
	})
	return handles
}

func writeEntry(w io.Writer, ref registry.Reference, column int) error {
	rec := ref.Record()
	lw := newLineWrapper(w, column)

	head := strings.Join(Authors(rec), "; ")
	if src := sourceLine(rec); src != "" {
		if head != "" {
			head += ". "
		}
		head += src
	}
	lw.writeText(head)
	lw.endLine()

	if title := Title(rec); title != "" {
		lw.writeText(title + ".")
		lw.endLine()
	}

	if err := lw.flush(); err != nil {
		return err
	}

	if ref.DOI() != "" {
		if _, err := fmt.Fprintln(w, " "+DOIPrefix+ref.DOI()); err != nil {
			return err
		}
	}
	return nil
}

// sourceLine builds "journal, volume (issue), pages (year)." omitting
// absent components along with their punctuation.
func sourceLine(rec record.Record) string {
	s := record.Source(rec)
	if v := record.Volume(rec); v != "" {
		if s != "" {
			s += ", "
		}
		s += v
	}
	if i := record.Issue(rec); i != "" {
		if s != "" {
			s += " "
		}
		s += "(" + i + ")"
	}
	if p := record.Pages(rec); p != "" {
		if s != "" {
			s += ", "
		}
		s += p
	}
	if y := record.Year(rec); y != "" {
		if s != "" {
			s += " "
		}
		s += "(" + y + ")"
	}
	if s != "" {
		s += "."
	}
	return s
}

// Authors collects every author line of the record in order.
func Authors(rec record.Record) []string {
	var authors []string
	cursor := 0
	for {
		a, next := record.NextAuthor(rec, cursor)
		if next == cursor {
			return authors
		}
		authors = append(authors, a)
		cursor = next
	}
}

// Title joins the record's title segments with single spaces.
func Title(rec record.Record) string {
	var parts []string
	cursor := 0
	for {
		t, next := record.NextTitle(rec, cursor)
		if next == cursor {
			return strings.TrimSpace(strings.Join(parts, " "))
		}
		parts = append(parts, t)
		cursor = next
	}
}

// lineWrapper accumulates words into lines of at most column
// characters, each indented one space from the margin. Words longer
// than a whole line are hard-split at hardSplitWidth.
type lineWrapper struct {
	w      io.Writer
	column int
	line   strings.Builder
	err    error
}

func newLineWrapper(w io.Writer, column int) *lineWrapper {
	return &lineWrapper{w: w, column: column}
}

// writeText word-wraps s into the current paragraph.
func (lw *lineWrapper) writeText(s string) {
	for _, word := range strings.Fields(s) {
		lw.writeWord(word)
	}
}

func (lw *lineWrapper) writeWord(word string) {
	for lw.err == nil {
		if lw.line.Len() == 0 {
			if 1+len(word) > lw.column {
				// No wrap point fits; cut the run near the limit.
				// The cut must consume at least one character so a
				// degenerate column budget cannot stall the split.
				cut := hardSplitWidth - 1
				if cut > lw.column-1 {
					cut = lw.column - 1
				}
				if cut < 1 {
					cut = 1
				}
				lw.line.WriteString(" " + word[:cut])
				lw.endLine()
				word = word[cut:]
				continue
			}
			lw.line.WriteString(" " + word)
			return
		}
		if lw.line.Len()+1+len(word) <= lw.column {
			lw.line.WriteString(" " + word)
			return
		}
		lw.endLine()
	}
}

// endLine terminates the current line if it holds anything.
func (lw *lineWrapper) endLine() {
	if lw.err != nil || lw.line.Len() == 0 {
		return
	}
	_, lw.err = fmt.Fprintln(lw.w, lw.line.String())
	lw.line.Reset()
}

// flush terminates any pending line and reports the first write error.
func (lw *lineWrapper) flush() error {
	lw.endLine()
	return lw.err
}
