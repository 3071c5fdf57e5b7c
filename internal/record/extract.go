package record

import (
	"strconv"
	"strings"
)

// Field extraction is deliberately tolerant: bibliographic exports are
// heterogeneous, so missing or malformed fields degrade to empty or
// zero values and never produce an error.

// NextAuthor returns the next single author line at or after cursor
// and the cursor advanced past it. Authors may appear on their own
// "AU " lines or on continuation lines of an author run. When no
// further author line exists it returns "" and the cursor unchanged.
func NextAuthor(r Record, cursor int) (string, int) {
	return nextInRun(r, TagAuthor, cursor)
}

// NextTitle returns the next single title line at or after cursor and
// the advanced cursor. Callers join successive segments with single
// spaces to reconstruct the full title.
func NextTitle(r Record, cursor int) (string, int) {
	return nextInRun(r, TagTitle, cursor)
}

func nextInRun(r Record, tag string, cursor int) (string, int) {
	if cursor < 0 {
		cursor = 0
	}
	for i := cursor; i < r.Len(); i++ {
		if r.fieldTagOf(i) == tag {
			return r.contentOf(i), i + 1
		}
	}
	return "", cursor
}

// Source returns the journal or source name: the last "SO " line plus
// any immediately following continuation lines, space-joined.
func Source(r Record) string {
	value, idx := lastTagged(r, TagSource)
	if idx < 0 {
		return ""
	}
	parts := []string{value}
	for j := idx + 1; j < r.Len() && r.tagOf(j) == tagContinuation; j++ {
		parts = append(parts, r.contentOf(j))
	}
	return strings.Join(parts, " ")
}

// Year returns the content of the last "PY " line, or "".
func Year(r Record) string {
	value, _ := lastTagged(r, TagYear)
	return value
}

// Volume returns the content of the last "VL " line, or "".
func Volume(r Record) string {
	value, _ := lastTagged(r, TagVolume)
	return value
}

// Issue returns the content of the last "IS " line, or "".
func Issue(r Record) string {
	value, _ := lastTagged(r, TagIssue)
	return value
}

// DOI returns the content of the last "DI " line, or "".
func DOI(r Record) string {
	value, _ := lastTagged(r, TagDOI)
	return value
}

// Pages returns the page range "begin-end" when both page fields are
// present, a single page when only one is, and otherwise falls back to
// the article number.
func Pages(r Record) string {
	begin, _ := lastTagged(r, TagBeginPage)
	end, _ := lastTagged(r, TagEndPage)
	switch {
	case begin != "" && end != "":
		return begin + "-" + end
	case begin != "":
		return begin
	case end != "":
		return end
	}
	article, _ := lastTagged(r, TagArticleNo)
	return article
}

// monthNumbers maps the fixed three-letter abbreviations used by the
// date field. Matching is case-sensitive.
var monthNumbers = map[string]int{
	"JAN": 1, "FEB": 2, "MAR": 3, "APR": 4,
	"MAY": 5, "JUN": 6, "JUL": 7, "AUG": 8,
	"SEP": 9, "OCT": 10, "NOV": 11, "DEC": 12,
}

// Month returns the month number (1-12) encoded in the first three
// characters of the date field, or 0 when absent or unrecognized.
func Month(r Record) int {
	date, _ := lastTagged(r, TagDate)
	if len(date) < 3 {
		return 0
	}
	return monthNumbers[date[:3]]
}

// Day returns the day of month following the month abbreviation in the
// date field. Date contents like "OCT" or "OCT-NOV" carry no day and
// yield 0; "OCT 27" yields 27. Values outside [0, 31] are treated as
// absent.
func Day(r Record) int {
	date, _ := lastTagged(r, TagDate)
	if len(date) <= 3 {
		return 0
	}
	day, err := strconv.Atoi(strings.TrimSpace(date[3:]))
	if err != nil || day < 0 || day > 31 {
		return 0
	}
	return day
}

// lastTagged returns the content and index of the last line carrying
// the given tag; later duplicate tags override earlier ones. Index is
// -1 when the tag is absent.
func lastTagged(r Record, tag string) (string, int) {
	value, idx := "", -1
	for i := 0; i < r.Len(); i++ {
		if r.tagOf(i) == tag {
			value, idx = r.contentOf(i), i
		}
	}
	return value, idx
}
