package printarea

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"mockup-studio/internal/image"
)

// Reference is a known physical length on a blank.
type Reference struct {
	Px float64 `json:"px"`
	In float64 `json:"in"`
}

// Blank is one entry of the blank manifest.
type Blank struct {
	File  string     `json:"file"`
	Label string     `json:"label,omitempty"`
	SKU   string     `json:"sku,omitempty"`
	Ref   *Reference `json:"ref,omitempty"`
	BoxIn *BoxInches `json:"box_in,omitempty"`
}

// Calibration returns the blank's calibration, nil without a reference.
func (b Blank) Calibration() *Calibration {
	if b.Ref == nil {
		return nil
	}
	return &Calibration{
		ReferencePixels: b.Ref.Px,
		ReferenceInches: b.Ref.In,
		PrintBox:        b.BoxIn,
	}
}

// DisplayName returns the label, or one derived from the file name.
func (b Blank) DisplayName() string {
	if b.Label != "" {
		return b.Label
	}
	return LabelFromFilename(b.File)
}

// ID returns the SKU, or the file name for blanks without one.
func (b Blank) ID() string {
	if b.SKU != "" {
		return b.SKU
	}
	return b.File
}

// Manifest lists the available blanks.
type Manifest struct {
	Blanks []Blank
}

// LoadManifest reads a JSON manifest file.
func LoadManifest(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open manifest: %w", err)
	}
	defer f.Close()
	return ParseManifest(f)
}

// ParseManifest decodes a JSON array of blanks.
func ParseManifest(r io.Reader) (*Manifest, error) {
	var blanks []Blank
	if err := json.NewDecoder(r).Decode(&blanks); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return &Manifest{Blanks: blanks}, nil
}

// Lookup finds a blank by file name.
func (m *Manifest) Lookup(file string) (Blank, bool) {
	if m == nil {
		return Blank{}, false
	}
	for _, b := range m.Blanks {
		if b.File == file {
			return b, true
		}
	}
	return Blank{}, false
}

// Fronts returns the front-side blanks, in manifest order. These are the
// entries offered for selection.
func (m *Manifest) Fronts() []Blank {
	if m == nil {
		return nil
	}
	var out []Blank
	for _, b := range m.Blanks {
		if frontPNG.MatchString(b.File) {
			out = append(out, b)
		}
	}
	return out
}

var (
	frontPNG   = regexp.MustCompile(`(?i)_front\.png$`)
	sideSuffix = regexp.MustCompile(`(?i)_(front|back)(\.[^.]+)$`)
	frontOnly  = regexp.MustCompile(`(?i)_front(\.[^.]+)$`)
	separators = regexp.MustCompile(`[_-]+`)
)

// SideVariant returns the file to show for side given any variant of the
// blank's file name. A back that the manifest does not list falls back to
// the front file.
func (m *Manifest) SideVariant(baseFile string, side image.Side) string {
	if baseFile == "" {
		return ""
	}
	base := sideSuffix.ReplaceAllString(baseFile, "_front$2")
	suffix := "_front$1"
	if side == image.SideBack {
		suffix = "_back$1"
	}
	target := frontOnly.ReplaceAllString(base, suffix)
	if _, ok := m.Lookup(target); ok {
		return target
	}
	return base
}

// Path returns where the blank's image lives under dir.
func (b Blank) Path(dir string) string {
	return filepath.Join(dir, b.File)
}

// LabelFromFilename turns "tee_heather-grey_front.png" into
// "Tee Heather Grey Front".
func LabelFromFilename(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = separators.ReplaceAllString(base, " ")

	out := []byte(base)
	for i := range out {
		if isWordByte(out[i]) && (i == 0 || !isWordByte(out[i-1])) {
			if out[i] >= 'a' && out[i] <= 'z' {
				out[i] -= 'a' - 'A'
			}
		}
	}
	return string(out)
}

func isWordByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
