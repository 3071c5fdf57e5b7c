package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Capacity != 1024 {
		t.Errorf("Capacity = %d, want 1024", cfg.Capacity)
	}
	if cfg.WrapColumn != 71 {
		t.Errorf("WrapColumn = %d, want 71", cfg.WrapColumn)
	}
	if cfg.DOIBaseURL != "https://api.crossref.org" {
		t.Errorf("DOIBaseURL = %q", cfg.DOIBaseURL)
	}
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(ReftrackPath(root), 0755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}

	want := &Config{
		Capacity:       64,
		WrapColumn:     80,
		DOIBaseURL:     "http://localhost:9999",
		CrossrefMailto: "lab@example.org",
	}
	if err := Save(root, want); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	got, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if *got != *want {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestLoad_FillsUnsetFields(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(ReftrackPath(root), 0755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}
	if err := os.WriteFile(ConfigPath(root), []byte("capacity: 8\n"), 0644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Capacity != 8 {
		t.Errorf("Capacity = %d, want 8", cfg.Capacity)
	}
	if cfg.WrapColumn != 71 {
		t.Errorf("WrapColumn = %d, want default 71", cfg.WrapColumn)
	}
}

func TestInit(t *testing.T) {
	root := t.TempDir()

	if err := Init(root); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	if !IsRepository(root) {
		t.Errorf("IsRepository() = false after Init")
	}
	if _, err := os.Stat(ConfigPath(root)); err != nil {
		t.Errorf("config file missing: %v", err)
	}

	if err := Init(root); err == nil {
		t.Errorf("second Init() should fail")
	}
}

func TestFindRepository(t *testing.T) {
	root := t.TempDir()
	if err := Init(root); err != nil {
		t.Fatalf("Init() error: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll() error: %v", err)
	}

	got, err := FindRepository(nested)
	if err != nil {
		t.Fatalf("FindRepository() error: %v", err)
	}
	// On some systems TempDir contains symlinks; compare resolved paths.
	wantResolved, _ := filepath.EvalSymlinks(root)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("FindRepository() = %q, want %q", got, root)
	}
}

func TestFindRepository_NotFound(t *testing.T) {
	_, err := FindRepository(t.TempDir())
	if !errors.Is(err, ErrNotRepository) {
		t.Errorf("FindRepository() error = %v, want ErrNotRepository", err)
	}
}
