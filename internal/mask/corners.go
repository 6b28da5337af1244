// Package mask removes a flat background color from artwork.
//
// The pipeline samples the four image corners, builds an opacity mask either
// by global thresholding or by flood-filling from the corners, erodes and
// feathers the mask, then lowers the artwork's alpha to match. Everything
// operates on plain byte slices obtained through Buffer, so no graphics API
// is involved.
package mask

import (
	"strings"

	"mockup-studio/pkg/colorutil"
)

const (
	// DefaultCornerInset keeps corner samples away from anti-aliased edges.
	DefaultCornerInset = 2

	// DefaultDedupeThreshold is the RGB distance under which two corner
	// colors are treated as the same swatch.
	DefaultDedupeThreshold = 12.0
)

// Buffer is the minimal raster access the pipeline needs.
type Buffer interface {
	Width() int
	Height() int
	// Pixels returns RGBA bytes, 4 per pixel, row-major, non-premultiplied.
	Pixels() []byte
	PutPixels(pix []byte)
}

// Corner identifies an image corner.
type Corner uint8

const (
	CornerTL Corner = 1 << iota
	CornerTR
	CornerBL
	CornerBR
)

// AllCorners is the set of all four corners.
const AllCorners = CornerTL | CornerTR | CornerBL | CornerBR

var cornerNames = []struct {
	c    Corner
	name string
}{
	{CornerTL, "tl"}, {CornerTR, "tr"}, {CornerBL, "bl"}, {CornerBR, "br"},
}

// Has reports whether every corner in o is in the set.
func (c Corner) Has(o Corner) bool { return c&o == o }

// Count returns the number of corners in the set.
func (c Corner) Count() int {
	n := 0
	for _, cn := range cornerNames {
		if c.Has(cn.c) {
			n++
		}
	}
	return n
}

func (c Corner) String() string {
	var parts []string
	for _, cn := range cornerNames {
		if c.Has(cn.c) {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "|")
}

// ColorSample is a representative color seen at one or more corners.
type ColorSample struct {
	RGB     colorutil.RGB
	Corners Corner
}

// SampleCornerColors reads one pixel near each corner, inset from the edge,
// and returns them tagged tl, tr, bl, br in that order.
func SampleCornerColors(buf Buffer, inset int) [4]ColorSample {
	var out [4]ColorSample
	w, h := buf.Width(), buf.Height()
	if w <= 0 || h <= 0 {
		return out
	}
	pix := buf.Pixels()
	left, right := clampIndex(inset, w), clampIndex(w-1-inset, w)
	top, bottom := clampIndex(inset, h), clampIndex(h-1-inset, h)

	at := func(x, y int) colorutil.RGB {
		i := (y*w + x) * 4
		return colorutil.RGB{pix[i], pix[i+1], pix[i+2]}
	}
	out[0] = ColorSample{RGB: at(left, top), Corners: CornerTL}
	out[1] = ColorSample{RGB: at(right, top), Corners: CornerTR}
	out[2] = ColorSample{RGB: at(left, bottom), Corners: CornerBL}
	out[3] = ColorSample{RGB: at(right, bottom), Corners: CornerBR}
	return out
}

func clampIndex(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return n - 1
	}
	return v
}

// DedupeColors groups samples greedily: each sample joins the first group
// whose representative lies within threshold (squared distance compared
// against threshold squared), otherwise it starts a new group. Groups keep
// their first color; there is no re-centering. Output is in order of first
// appearance.
func DedupeColors(samples []ColorSample, threshold float64) []ColorSample {
	t2 := threshold * threshold
	groups := make([]ColorSample, 0, len(samples))
	for _, s := range samples {
		matched := false
		for i := range groups {
			if float64(colorutil.DistanceSquared(groups[i].RGB, s.RGB)) <= t2 {
				groups[i].Corners |= s.Corners
				matched = true
				break
			}
		}
		if !matched {
			groups = append(groups, s)
		}
	}
	return groups
}

// Swatches samples and dedupes the corner colors of buf with default settings.
func Swatches(buf Buffer) []ColorSample {
	if buf == nil || buf.Width() <= 0 || buf.Height() <= 0 {
		return nil
	}
	samples := SampleCornerColors(buf, DefaultCornerInset)
	return DedupeColors(samples[:], DefaultDedupeThreshold)
}

// PickAutoTarget guesses the background as the brightest corner swatch.
// It is a heuristic: a bright design element touching a corner will win.
func PickAutoTarget(buf Buffer) *ColorSample {
	return Brightest(Swatches(buf))
}

// Brightest returns the group with the highest channel sum, first on ties.
func Brightest(groups []ColorSample) *ColorSample {
	if len(groups) == 0 {
		return nil
	}
	best := groups[0]
	for _, g := range groups[1:] {
		if g.RGB.Sum() > best.RGB.Sum() {
			best = g
		}
	}
	return &best
}
