package record

import (
	"strconv"
	"strings"
)

// epochBase is the year that maps to epoch 0.
const epochBase = 1900

// Epoch encodes the record's (year, month, day) as a single integer
// usable as a chronological sort rank. Missing components default to
// year 1900, month 0 and day 0, so undated records order before any
// dated record of the same era.
func Epoch(r Record) int {
	year := epochBase
	if y, err := strconv.Atoi(strings.TrimSpace(Year(r))); err == nil {
		year = y
	}
	return Day(r) + 31*Month(r) + 372*(year-epochBase)
}
