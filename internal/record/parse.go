package record

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// File-level markers used by tagged-record export files. "ER"
// terminates a record, "EF" terminates the file; "FN" and "VR" header
// lines may precede the first record.
const (
	markerRecordEnd = "ER"
	markerFileEnd   = "EF"
	tagFileName     = "FN "
	tagFileVersion  = "VR "
)

// maxLineCapacity bounds the scanner buffer for a single input line.
const maxLineCapacity = 64 * 1024

// ParseFile reads a tagged-record export file and returns its records
// in file order. Header lines, blank separator lines and anything
// after the end-of-file marker are skipped. A trailing record without
// an explicit "ER" marker is kept.
func ParseFile(rd io.Reader) ([]Record, error) {
	scanner := bufio.NewScanner(rd)
	buf := make([]byte, maxLineCapacity)
	scanner.Buffer(buf, maxLineCapacity)

	var records []Record
	var current []string

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")

		switch {
		case line == markerFileEnd:
			if len(current) > 0 {
				records = append(records, New(current))
			}
			return records, nil
		case line == markerRecordEnd:
			if len(current) > 0 {
				records = append(records, New(current))
				current = nil
			}
		case line == "":
			// Separator between records.
		case len(current) == 0 && (strings.HasPrefix(line, tagFileName) || strings.HasPrefix(line, tagFileVersion)):
			// File header, not part of any record.
		default:
			current = append(current, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading records: %w", err)
	}

	if len(current) > 0 {
		records = append(records, New(current))
	}

	return records, nil
}
