package mask

import (
	"fmt"
	"strings"

	"mockup-studio/pkg/colorutil"
)

// Mask values.
const (
	Transparent uint8 = 0
	Opaque      uint8 = 255
)

// Mode selects how background pixels are found.
type Mode int

const (
	// ModeEdge flood-fills from the corners: only background connected to a
	// tagged corner is removed, enclosed regions of the same color stay.
	ModeEdge Mode = iota
	// ModeGlobal removes every pixel near the target color wherever it is.
	ModeGlobal
)

func (m Mode) String() string {
	switch m {
	case ModeGlobal:
		return "global"
	default:
		return "edge"
	}
}

// ParseMode accepts "edge"/"wand" and "global"/"threshold".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "edge", "wand":
		return ModeEdge, nil
	case "global", "threshold":
		return ModeGlobal, nil
	}
	return ModeEdge, fmt.Errorf("unknown background removal mode %q", s)
}

// BuildMask returns a w*h mask with Transparent where background was found.
// pixels is RGBA, 4 bytes per pixel. tolerance is a 0-100 percentage, see
// colorutil.ToleranceSquared.
func BuildMask(pixels []byte, w, h int, mode Mode, tolerance float64, target ColorSample) []uint8 {
	out := make([]uint8, w*h)
	if w <= 0 || h <= 0 || len(pixels) < w*h*4 {
		for i := range out {
			out[i] = Opaque
		}
		return out
	}
	tol2 := colorutil.ToleranceSquared(tolerance)
	if mode == ModeGlobal {
		thresholdMask(pixels, tol2, target.RGB, out)
	} else {
		floodMask(pixels, w, h, tol2, target, out)
	}
	return out
}

func near(pixels []byte, idx int, tol2 float64, target colorutil.RGB) bool {
	i := idx * 4
	c := colorutil.RGB{pixels[i], pixels[i+1], pixels[i+2]}
	return float64(colorutil.DistanceSquared(c, target)) < tol2
}

func thresholdMask(pixels []byte, tol2 float64, target colorutil.RGB, out []uint8) {
	for j := range out {
		if near(pixels, j, tol2, target) {
			out[j] = Transparent
		} else {
			out[j] = Opaque
		}
	}
}

// floodMask runs a 4-connected fill with an explicit stack, seeded at the
// exact corner pixels tagged in target.Corners.
func floodMask(pixels []byte, w, h int, tol2 float64, target ColorSample, out []uint8) {
	for i := range out {
		out[i] = Opaque
	}
	visited := make([]bool, w*h)
	stack := make([]int, 0, 1024)

	seeds := []struct {
		c   Corner
		idx int
	}{
		{CornerTL, 0},
		{CornerTR, w - 1},
		{CornerBL, (h - 1) * w},
		{CornerBR, w*h - 1},
	}
	for _, s := range seeds {
		if target.Corners.Has(s.c) {
			stack = append(stack, s.idx)
		}
	}

	for len(stack) > 0 {
		idx := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[idx] {
			continue
		}
		visited[idx] = true
		if !near(pixels, idx, tol2, target.RGB) {
			continue
		}
		out[idx] = Transparent

		x, y := idx%w, idx/w
		if x > 0 {
			stack = append(stack, idx-1)
		}
		if x < w-1 {
			stack = append(stack, idx+1)
		}
		if y > 0 {
			stack = append(stack, idx-w)
		}
		if y < h-1 {
			stack = append(stack, idx+w)
		}
	}
}

// ErodeMask turns every non-transparent pixel with a transparent 8-neighbour
// transparent, once per iteration. Each iteration reads a snapshot taken at
// its start so erosion spreads evenly in all directions. Neighbours outside
// the image do not count.
func ErodeMask(mask []uint8, w, h, iterations int) {
	if w <= 0 || h <= 0 || iterations <= 0 {
		return
	}
	snap := make([]uint8, len(mask))
	for it := 0; it < iterations; it++ {
		copy(snap, mask)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				i := y*w + x
				if snap[i] == Transparent {
					continue
				}
				if touchesTransparent(snap, w, h, x, y) {
					mask[i] = Transparent
				}
			}
		}
	}
}

func touchesTransparent(snap []uint8, w, h, x, y int) bool {
	for dy := -1; dy <= 1; dy++ {
		ny := y + dy
		if ny < 0 || ny >= h {
			continue
		}
		for dx := -1; dx <= 1; dx++ {
			nx := x + dx
			if (dx == 0 && dy == 0) || nx < 0 || nx >= w {
				continue
			}
			if snap[ny*w+nx] == Transparent {
				return true
			}
		}
	}
	return false
}

// BlurMask feathers the mask with a separable box blur of the given radius.
// The horizontal pass writes a float scratch buffer using a running sum, the
// vertical pass writes back rounded values. Samples past the edges repeat the
// edge value. radius <= 0 leaves the mask untouched.
func BlurMask(mask []uint8, w, h, radius int) {
	if radius <= 0 || w <= 0 || h <= 0 {
		return
	}
	tmp := make([]float32, len(mask))
	div := float32(2*radius + 1)

	for y := 0; y < h; y++ {
		row := y * w
		var sum float32
		for x := -radius; x <= radius; x++ {
			sum += float32(mask[row+clampIndex(x, w)])
		}
		for x := 0; x < w; x++ {
			tmp[row+x] = sum / div
			sum += float32(mask[row+clampIndex(x+radius+1, w)])
			sum -= float32(mask[row+clampIndex(x-radius, w)])
		}
	}

	for x := 0; x < w; x++ {
		var sum float32
		for y := -radius; y <= radius; y++ {
			sum += tmp[clampIndex(y, h)*w+x]
		}
		for y := 0; y < h; y++ {
			mask[y*w+x] = roundByte(sum / div)
			sum += tmp[clampIndex(y+radius+1, h)*w+x]
			sum -= tmp[clampIndex(y-radius, h)*w+x]
		}
	}
}

func roundByte(v float32) uint8 {
	v += 0.5
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// ApplyMask lowers each pixel's alpha to the mask value. Opacity only ever
// goes down, so existing transparency in the artwork survives.
func ApplyMask(pixels []byte, mask []uint8) {
	for i, j := 3, 0; i < len(pixels) && j < len(mask); i, j = i+4, j+1 {
		if mask[j] < pixels[i] {
			pixels[i] = mask[j]
		}
	}
}

// Stats counts fully transparent, partial and fully opaque mask entries.
type Stats struct {
	Transparent int
	Partial     int
	Opaque      int
}

// Measure tallies a mask.
func Measure(mask []uint8) Stats {
	var s Stats
	for _, v := range mask {
		switch v {
		case Transparent:
			s.Transparent++
		case Opaque:
			s.Opaque++
		default:
			s.Partial++
		}
	}
	return s
}
