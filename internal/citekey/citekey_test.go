package citekey

import (
	"errors"
	"regexp"
	"testing"

	"github.com/mlandis/reftrack/internal/record"
)

func rec(lines ...string) record.Record {
	return record.New(lines)
}

func TestNew_BasicKey(t *testing.T) {
	key, err := New(rec("AU Smith, J. A.", "PY 2001"), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if key != "Smith2001" {
		t.Errorf("New() = %q, want Smith2001", key)
	}
}

func TestNew_KeyShape(t *testing.T) {
	keyShape := regexp.MustCompile(`^[A-Za-z]+[0-9]{4}[a-z]*$`)

	tests := []struct {
		name   string
		author string
	}{
		{"plain", "AU Smith, J."},
		{"hyphenated", "AU Garcia-Lopez, M."},
		{"apostrophe", "AU O'Brien, K."},
		{"spaced surname", "AU van der Berg, P."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, err := New(rec(tt.author, "PY 2001"), nil)
			if err != nil {
				t.Fatalf("New() error: %v", err)
			}
			if !keyShape.MatchString(key) {
				t.Errorf("New() = %q, does not match %v", key, keyShape)
			}
			if len(key) < 5 {
				t.Errorf("New() = %q, shorter than 5", key)
			}
		})
	}
}

func TestNew_FiltersNonAlphanumerics(t *testing.T) {
	key, err := New(rec("AU Garcia-Lopez, M.", "PY 2001"), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if key != "GarciaLopez2001" {
		t.Errorf("New() = %q, want GarciaLopez2001", key)
	}
}

func TestNew_SurnameStopsAtComma(t *testing.T) {
	key, err := New(rec("AU Smith, Jones and Partners", "PY 2001"), nil)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if key != "Smith2001" {
		t.Errorf("New() = %q, want Smith2001", key)
	}
}

func TestNew_Collisions(t *testing.T) {
	issued := []string{}

	for i, want := range []string{"Smith2001", "Smith2001a", "Smith2001b"} {
		key, err := New(rec("AU Smith, J.", "PY 2001"), issued)
		if err != nil {
			t.Fatalf("New() #%d error: %v", i, err)
		}
		if key != want {
			t.Errorf("New() #%d = %q, want %q", i, key, want)
		}
		issued = append(issued, key)
	}
}

func TestNew_CollisionsPastZ(t *testing.T) {
	keyShape := regexp.MustCompile(`^[A-Za-z]+[0-9]{4}[a-z]*$`)

	issued := []string{"Smith2001"}
	for c := 'a'; c <= 'z'; c++ {
		issued = append(issued, "Smith2001"+string(c))
	}

	for i, want := range []string{"Smith2001aa", "Smith2001ab"} {
		key, err := New(rec("AU Smith, J.", "PY 2001"), issued)
		if err != nil {
			t.Fatalf("New() #%d error: %v", i, err)
		}
		if key != want {
			t.Errorf("New() #%d = %q, want %q", i, key, want)
		}
		if !keyShape.MatchString(key) {
			t.Errorf("New() #%d = %q, does not match %v", i, key, keyShape)
		}
		issued = append(issued, key)
	}
}

func TestNew_CollisionIsCaseInsensitive(t *testing.T) {
	key, err := New(rec("AU SMITH, J.", "PY 2001"), []string{"Smith2001"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if key != "SMITH2001a" {
		t.Errorf("New() = %q, want SMITH2001a", key)
	}
}

func TestNew_ComparesTruncatedPrefix(t *testing.T) {
	// "Smi2001x" truncated to len("Smi2001") collides with the candidate.
	key, err := New(rec("AU Smi, J.", "PY 2001"), []string{"Smi2001x"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if key != "Smi2001a" {
		t.Errorf("New() = %q, want Smi2001a", key)
	}

	// A shorter issued key can never match the longer candidate.
	key, err = New(rec("AU Smith, J.", "PY 2001"), []string{"Smi2001"})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if key != "Smith2001" {
		t.Errorf("New() = %q, want Smith2001", key)
	}
}

func TestNew_Errors(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  error
	}{
		{"no author", []string{"PY 2001"}, ErrMissingAuthor},
		{"short year", []string{"AU Smith, J.", "PY 01"}, ErrInvalidYear},
		{"long year", []string{"AU Smith, J.", "PY 20011"}, ErrInvalidYear},
		{"missing year", []string{"AU Smith, J."}, ErrInvalidYear},
		{"degenerate surname", []string{"AU ---, J.", "PY 2001"}, ErrDegenerateKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(rec(tt.lines...), nil)
			if !errors.Is(err, tt.want) {
				t.Errorf("New() error = %v, want %v", err, tt.want)
			}
		})
	}
}
