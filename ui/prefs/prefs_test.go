package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMissingFileGivesFallbacks(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "none.json"))
	if got := p.String(KeyLastBlank); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
	if got := p.FloatWithFallback(KeyBgTolerance, 20); got != 20 {
		t.Errorf("FloatWithFallback() = %v, want 20", got)
	}
	if got := p.IntWithFallback(KeyBgErode, 1); got != 1 {
		t.Errorf("IntWithFallback() = %v, want 1", got)
	}
	if !p.Bool(KeyShowSidebar, true) {
		t.Error("Bool() should return the fallback")
	}
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "preferences.json")
	p := LoadFrom(path)
	p.SetString(KeyLastBlank, "white_tee_front.png")
	p.SetString(KeyLastSide, "back")
	p.SetFloat(KeyBgTolerance, 35.5)
	p.SetInt(KeyBgFeather, 3)
	p.SetBool(KeyShowSidebar, false)
	if err := p.Save(); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	q := LoadFrom(path)
	if got := q.String(KeyLastBlank); got != "white_tee_front.png" {
		t.Errorf("last blank = %q", got)
	}
	if got := q.String(KeyLastSide); got != "back" {
		t.Errorf("last side = %q", got)
	}
	if got := q.FloatWithFallback(KeyBgTolerance, 0); got != 35.5 {
		t.Errorf("tolerance = %v", got)
	}
	if got := q.IntWithFallback(KeyBgFeather, 0); got != 3 {
		t.Errorf("feather = %v", got)
	}
	if q.Bool(KeyShowSidebar, true) {
		t.Error("show sidebar should be false")
	}
}

func TestCorruptFileIsIgnored(t *testing.T) {
	path := filepath.Join(t.TempDir(), "preferences.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := LoadFrom(path)
	if got := p.String(KeyLastSide); got != "" {
		t.Errorf("String() = %q, want empty", got)
	}
	if p.Path() != path {
		t.Errorf("Path() = %q", p.Path())
	}
}

func TestWrongTypeFallsBack(t *testing.T) {
	p := LoadFrom(filepath.Join(t.TempDir(), "p.json"))
	p.SetString(KeyBgErode, "two")
	if got := p.IntWithFallback(KeyBgErode, 1); got != 1 {
		t.Errorf("IntWithFallback() = %v, want 1", got)
	}
	if p.Bool(KeyBgErode, true) != true {
		t.Error("Bool() on a string should fall back")
	}
}

func TestSaveReportsUnwritablePath(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := LoadFrom(filepath.Join(blocker, "preferences.json"))
	p.SetString(KeyLastArtworkDir, "/tmp")
	if err := p.Save(); err == nil {
		t.Error("Save() under a regular file should fail")
	}
}
