// Package record implements the tagged fixed-prefix bibliographic
// record format: each line carries a 3-character field tag followed by
// content, and a line whose prefix is three spaces continues the
// previous tagged field.
package record

import "strings"

// Field tags. The first three bytes of a line identify the field;
// shorter lines are treated as right-padded with spaces.
const (
	TagAuthor    = "AU "
	TagTitle     = "TI "
	TagSource    = "SO "
	TagYear      = "PY "
	TagDate      = "PD "
	TagVolume    = "VL "
	TagIssue     = "IS "
	TagBeginPage = "BP "
	TagEndPage   = "EP "
	TagArticleNo = "AR "
	TagDOI       = "DI "

	// tagContinuation marks a line extending the previous tagged field.
	tagContinuation = "   "
)

// tagWidth is the fixed width of the tag prefix.
const tagWidth = 3

// Record is an ordered sequence of tagged lines. It is immutable after
// construction; all accessors are read-only.
type Record struct {
	lines []string
}

// New builds a record from the given lines. The lines are copied so
// later mutation of the argument cannot affect the record.
func New(lines []string) Record {
	cp := make([]string, len(lines))
	copy(cp, lines)
	return Record{lines: cp}
}

// Len returns the number of lines in the record.
func (r Record) Len() int {
	return len(r.lines)
}

// Lines returns a copy of the record's lines.
func (r Record) Lines() []string {
	cp := make([]string, len(r.lines))
	copy(cp, r.lines)
	return cp
}

// tagOf returns the 3-character tag of line i, padding short lines.
func (r Record) tagOf(i int) string {
	line := r.lines[i]
	if len(line) >= tagWidth {
		return line[:tagWidth]
	}
	return line + strings.Repeat(" ", tagWidth-len(line))
}

// contentOf returns the content of line i, with the tag prefix removed
// and surrounding whitespace trimmed.
func (r Record) contentOf(i int) string {
	line := r.lines[i]
	if len(line) <= tagWidth {
		return ""
	}
	return strings.TrimSpace(line[tagWidth:])
}

// fieldTagOf resolves the field a line belongs to: for a continuation
// line that is the tag of the nearest preceding tagged line.
func (r Record) fieldTagOf(i int) string {
	for j := i; j >= 0; j-- {
		if t := r.tagOf(j); t != tagContinuation {
			return t
		}
	}
	return tagContinuation
}
