package store

import (
	"path/filepath"
	"testing"

	"github.com/mlandis/reftrack/internal/record"
	"github.com/mlandis/reftrack/internal/registry"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	s := testStore(t)

	reg := registry.New()
	h1, err := reg.Add(record.New([]string{
		"AU Smith, JA",
		"   Jones, B",
		"TI First paper",
		"PY 2001",
	}), "10.1234/first")
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if _, err := reg.Add(record.New([]string{
		"AU Smith, JA",
		"TI Second paper",
		"PY 2001",
	}), ""); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := reg.Cite(h1); err != nil {
		t.Fatalf("Cite() error: %v", err)
	}

	if err := s.Save(reg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	loaded, err := s.Load(reg.Capacity())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if loaded.Count() != 2 {
		t.Fatalf("Load() count = %d, want 2", loaded.Count())
	}
	for h := 1; h <= 2; h++ {
		wantKey, _ := reg.CitationKey(h)
		gotKey, err := loaded.CitationKey(h)
		if err != nil {
			t.Fatalf("CitationKey(%d) error: %v", h, err)
		}
		if gotKey != wantKey {
			t.Errorf("handle %d key = %q, want %q", h, gotKey, wantKey)
		}
	}

	ref, err := loaded.Reference(1)
	if err != nil {
		t.Fatalf("Reference() error: %v", err)
	}
	if ref.DOI() != "10.1234/first" {
		t.Errorf("DOI = %q", ref.DOI())
	}
	if !ref.Cited() {
		t.Errorf("cited flag lost in round trip")
	}
	if cited, _ := loaded.Cited(2); cited {
		t.Errorf("uncited reference became cited")
	}

	// Continuation lines survive the round trip.
	authors := 0
	cursor := 0
	for {
		_, next := record.NextAuthor(ref.Record(), cursor)
		if next == cursor {
			break
		}
		authors++
		cursor = next
	}
	if authors != 2 {
		t.Errorf("loaded record has %d authors, want 2", authors)
	}
}

func TestSave_ReplacesSnapshot(t *testing.T) {
	s := testStore(t)

	reg := registry.New()
	if _, err := reg.Add(record.New([]string{"AU Smith, JA", "TI Paper", "PY 2001"}), ""); err != nil {
		t.Fatalf("Add() error: %v", err)
	}
	if err := s.Save(reg); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reg.Clear()
	if err := s.Save(reg); err != nil {
		t.Fatalf("Save() after Clear error: %v", err)
	}

	loaded, err := s.Load(0)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Count() != 0 {
		t.Errorf("Load() count = %d after cleared save, want 0", loaded.Count())
	}
}

func TestLoad_EmptyStore(t *testing.T) {
	s := testStore(t)

	loaded, err := s.Load(0)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if loaded.Count() != 0 {
		t.Errorf("Load() count = %d, want 0", loaded.Count())
	}
}
