// Package prefs provides JSON-based application preferences.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir    = "mockup-studio"
	prefsFile = "preferences.json"
)

// Preference keys.
const (
	KeyLastArtworkDir = "last_artwork_dir"
	KeyLastExportDir  = "last_export_dir"
	KeyLastBlank      = "last_blank"
	KeyLastSide       = "last_side"
	KeyBgMode         = "bg_mode"
	KeyBgTolerance    = "bg_tolerance"
	KeyBgFeather      = "bg_feather"
	KeyBgErode        = "bg_erode"
	KeyShowSidebar    = "show_sidebar"
)

// Prefs stores application preferences as a key-value map.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Load reads preferences from ~/.config/mockup-studio/preferences.json.
// Returns a Prefs with defaults if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, appDir, prefsFile))
}

// LoadFrom reads preferences from an explicit file path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{
		values: make(map[string]interface{}),
		path:   path,
	}
	data, err := os.ReadFile(p.path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	return p
}

// Path returns the backing file.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	dir := filepath.Dir(p.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

func (p *Prefs) lookup(key string) (interface{}, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

func (p *Prefs) set(key string, val interface{}) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// FloatWithFallback returns a float64 preference, or fallback if not set.
func (p *Prefs) FloatWithFallback(key string, fallback float64) float64 {
	v, _ := p.lookup(key)
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}

// SetFloat stores a float64 preference.
func (p *Prefs) SetFloat(key string, val float64) { p.set(key, val) }

// IntWithFallback returns an int preference, or fallback if not set.
// JSON numbers decode as float64 and are truncated.
func (p *Prefs) IntWithFallback(key string, fallback int) int {
	v, _ := p.lookup(key)
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	}
	return fallback
}

// SetInt stores an int preference.
func (p *Prefs) SetInt(key string, val int) { p.set(key, val) }

// String returns a string preference, or "" if not set.
func (p *Prefs) String(key string) string {
	v, _ := p.lookup(key)
	s, _ := v.(string)
	return s
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) { p.set(key, val) }

// Bool returns a bool preference, or fallback if not set.
func (p *Prefs) Bool(key string, fallback bool) bool {
	v, _ := p.lookup(key)
	if b, ok := v.(bool); ok {
		return b
	}
	return fallback
}

// SetBool stores a bool preference.
func (p *Prefs) SetBool(key string, val bool) { p.set(key, val) }
