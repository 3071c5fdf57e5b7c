// Package citekey derives short human-readable citation keys of the
// form surname+year with an optional disambiguation letter.
package citekey

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mlandis/reftrack/internal/record"
)

// Errors returned by key derivation. All of them mean the record is
// malformed for key purposes; the caller decides whether to skip it.
var (
	// ErrMissingAuthor indicates the record has no first author.
	ErrMissingAuthor = errors.New("record has no author")

	// ErrInvalidYear indicates the year field is not exactly four characters.
	ErrInvalidYear = errors.New("record year is not four characters")

	// ErrDegenerateKey indicates too few key characters survive filtering.
	ErrDegenerateKey = errors.New("citation key too short after filtering")
)

// minKeyLength is at least one surname character plus the 4-digit year.
const minKeyLength = 5

// New derives a citation key for rec, disambiguated against the keys
// already issued. The key is the first author's surname (text before
// the first comma) concatenated with the year, filtered to
// alphanumerics. When the candidate collides case-insensitively with n
// previously issued keys (each truncated to the candidate's length),
// the n-th disambiguation suffix is appended: "a" through "z", then
// "aa", "ab", and so on.
//
// A suffixed key is not re-checked against issued keys of a different
// base length; disambiguation is best-effort by construction.
func New(rec record.Record, issued []string) (string, error) {
	author, _ := record.NextAuthor(rec, 0)
	if author == "" {
		return "", ErrMissingAuthor
	}
	surname := author
	if i := strings.Index(author, ","); i >= 0 {
		surname = author[:i]
	}

	year := record.Year(rec)
	if len(year) != 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidYear, year)
	}

	key := filterAlphanumeric(surname + year)
	if len(key) < minKeyLength {
		return "", fmt.Errorf("%w: %q", ErrDegenerateKey, key)
	}

	collisions := 0
	for _, k := range issued {
		if len(k) > len(key) {
			k = k[:len(key)]
		}
		if strings.EqualFold(k, key) {
			collisions++
		}
	}
	if collisions > 0 {
		key += suffix(collisions - 1)
	}

	return key, nil
}

// suffix returns the n-th disambiguation suffix, counting from zero:
// "a".."z", then "aa", "ab", and so on.
func suffix(n int) string {
	var b []byte
	for n >= 0 {
		b = append([]byte{byte('a' + n%26)}, b...)
		n = n/26 - 1
	}
	return string(b)
}

// filterAlphanumeric drops every character outside [0-9a-zA-Z],
// preserving the order of the survivors. Spaces, hyphens, apostrophes
// and accented characters are removed rather than replaced.
func filterAlphanumeric(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			b.WriteByte(c)
		}
	}
	return b.String()
}
