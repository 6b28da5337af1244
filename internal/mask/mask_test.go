package mask

import (
	"bytes"
	"math/rand"
	"testing"

	"mockup-studio/pkg/colorutil"
)

type testBuffer struct {
	w, h int
	pix  []byte
}

func newTestBuffer(w, h int, fill colorutil.RGB) *testBuffer {
	b := &testBuffer{w: w, h: h, pix: make([]byte, w*h*4)}
	b.fillRect(0, 0, w, h, fill)
	return b
}

func (b *testBuffer) fillRect(x0, y0, x1, y1 int, c colorutil.RGB) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			i := (y*b.w + x) * 4
			b.pix[i], b.pix[i+1], b.pix[i+2], b.pix[i+3] = c[0], c[1], c[2], 255
		}
	}
}

func (b *testBuffer) Width() int  { return b.w }
func (b *testBuffer) Height() int { return b.h }
func (b *testBuffer) Pixels() []byte {
	out := make([]byte, len(b.pix))
	copy(out, b.pix)
	return out
}
func (b *testBuffer) PutPixels(p []byte) { copy(b.pix, p) }

var (
	white = colorutil.RGB{255, 255, 255}
	red   = colorutil.RGB{255, 0, 0}
	black = colorutil.RGB{0, 0, 0}
)

func TestSolidImageDedupesToOneSwatch(t *testing.T) {
	buf := newTestBuffer(40, 30, colorutil.RGB{10, 200, 30})
	groups := Swatches(buf)
	if len(groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(groups))
	}
	if groups[0].Corners != AllCorners {
		t.Errorf("corners = %v, want tl|tr|bl|br", groups[0].Corners)
	}
	if groups[0].Corners.Count() != 4 {
		t.Errorf("Count() = %d, want 4", groups[0].Corners.Count())
	}
}

func TestSampleCornerColorsIsDeterministic(t *testing.T) {
	buf := newTestBuffer(20, 20, white)
	buf.fillRect(0, 0, 5, 5, red)
	buf.fillRect(15, 15, 20, 20, black)
	a := SampleCornerColors(buf, DefaultCornerInset)
	b := SampleCornerColors(buf, DefaultCornerInset)
	if a != b {
		t.Fatalf("samples differ between calls: %v vs %v", a, b)
	}
	if a[0].RGB != red || a[0].Corners != CornerTL {
		t.Errorf("tl sample = %+v", a[0])
	}
	if a[3].RGB != black || a[3].Corners != CornerBR {
		t.Errorf("br sample = %+v", a[3])
	}
}

func TestDedupeColorsKeepsFirstAndOrder(t *testing.T) {
	samples := []ColorSample{
		{RGB: colorutil.RGB{100, 100, 100}, Corners: CornerTL},
		{RGB: colorutil.RGB{0, 0, 0}, Corners: CornerTR},
		{RGB: colorutil.RGB{112, 100, 100}, Corners: CornerBL},
		{RGB: colorutil.RGB{113, 100, 100}, Corners: CornerBR},
	}
	groups := DedupeColors(samples, DefaultDedupeThreshold)
	if len(groups) != 3 {
		t.Fatalf("got %d groups, want 3: %+v", len(groups), groups)
	}
	if groups[0].RGB != (colorutil.RGB{100, 100, 100}) || groups[0].Corners != CornerTL|CornerBL {
		t.Errorf("first group = %+v", groups[0])
	}
	if groups[1].Corners != CornerTR || groups[2].Corners != CornerBR {
		t.Errorf("group order = %+v", groups)
	}
}

func TestPickAutoTargetPrefersBrightest(t *testing.T) {
	buf := newTestBuffer(20, 20, white)
	buf.fillRect(0, 0, 10, 20, black)
	got := PickAutoTarget(buf)
	if got == nil || got.RGB != white || got.Corners != CornerTR|CornerBR {
		t.Errorf("PickAutoTarget() = %+v, want white at tr|br", got)
	}
	if PickAutoTarget(&testBuffer{}) != nil {
		t.Error("PickAutoTarget() on empty buffer should be nil")
	}
}

// ring draws a white image with a black square outline enclosing a white
// interior.
func ring() *testBuffer {
	buf := newTestBuffer(30, 30, white)
	buf.fillRect(5, 5, 25, 25, black)
	buf.fillRect(8, 8, 22, 22, white)
	return buf
}

func TestWandKeepsEnclosedInterior(t *testing.T) {
	buf := ring()
	target := ColorSample{RGB: white, Corners: AllCorners}
	m := BuildMask(buf.Pixels(), buf.w, buf.h, ModeEdge, 20, target)

	if m[0] != Transparent {
		t.Error("outside corner should be cleared")
	}
	if m[15*buf.w+15] != Opaque {
		t.Error("enclosed interior should be kept by the wand")
	}
	if m[6*buf.w+6] != Opaque {
		t.Error("ring should be kept")
	}
}

func TestThresholdClearsEnclosedInterior(t *testing.T) {
	buf := ring()
	target := ColorSample{RGB: white, Corners: AllCorners}
	m := BuildMask(buf.Pixels(), buf.w, buf.h, ModeGlobal, 20, target)

	if m[15*buf.w+15] != Transparent {
		t.Error("threshold mode should clear the interior")
	}
	if m[6*buf.w+6] != Opaque {
		t.Error("ring should be kept")
	}
}

func TestWandSeedsOnlyTaggedCorners(t *testing.T) {
	buf := newTestBuffer(30, 30, white)
	buf.fillRect(14, 0, 16, 30, black)
	target := ColorSample{RGB: white, Corners: CornerTL}
	m := BuildMask(buf.Pixels(), buf.w, buf.h, ModeEdge, 20, target)
	if m[0] != Transparent {
		t.Error("left half should be cleared")
	}
	if m[29] != Opaque {
		t.Error("right half is not connected to tl and should be kept")
	}
}

func TestErodeIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	w, h := 37, 23
	m := make([]uint8, w*h)
	for i := range m {
		if rng.Intn(4) == 0 {
			m[i] = Transparent
		} else {
			m[i] = Opaque
		}
	}
	before := append([]uint8(nil), m...)
	ErodeMask(m, w, h, 1)
	for i := range m {
		if m[i] > before[i] {
			t.Fatalf("pixel %d grew from %d to %d", i, before[i], m[i])
		}
	}
	if Measure(m).Opaque > Measure(before).Opaque {
		t.Error("erosion increased the opaque count")
	}
}

func TestErodeIgnoresImageBorder(t *testing.T) {
	w, h := 5, 5
	m := bytes.Repeat([]byte{Opaque}, w*h)
	ErodeMask(m, w, h, 3)
	if s := Measure(m); s.Opaque != w*h {
		t.Errorf("fully opaque mask eroded: %+v", s)
	}
}

func TestErodeUsesSnapshotPerIteration(t *testing.T) {
	w, h := 9, 1
	m := bytes.Repeat([]byte{Opaque}, w*h)
	m[4] = Transparent
	ErodeMask(m, w, h, 1)
	want := []uint8{255, 255, 255, 0, 0, 0, 255, 255, 255}
	if !bytes.Equal(m, want) {
		t.Errorf("one iteration = %v, want %v", m, want)
	}
	ErodeMask(m, w, h, 1)
	want = []uint8{255, 255, 0, 0, 0, 0, 0, 255, 255}
	if !bytes.Equal(m, want) {
		t.Errorf("two iterations = %v, want %v", m, want)
	}
}

func TestBlurRadiusZeroIsNoOp(t *testing.T) {
	m := []uint8{0, 255, 0, 255, 128, 3}
	want := append([]uint8(nil), m...)
	BlurMask(m, 3, 2, 0)
	if !bytes.Equal(m, want) {
		t.Errorf("BlurMask(radius 0) changed mask to %v", m)
	}
}

func TestBlurUniformStaysUniform(t *testing.T) {
	w, h := 16, 9
	m := bytes.Repeat([]byte{200}, w*h)
	BlurMask(m, w, h, 3)
	for i, v := range m {
		if v != 200 {
			t.Fatalf("pixel %d = %d, want 200", i, v)
		}
	}
}

func TestBlurFeathersStep(t *testing.T) {
	w, h := 10, 1
	m := []uint8{0, 0, 0, 0, 0, 255, 255, 255, 255, 255}
	BlurMask(m, w, h, 1)
	want := []uint8{0, 0, 0, 0, 85, 170, 255, 255, 255, 255}
	if !bytes.Equal(m, want) {
		t.Errorf("BlurMask() = %v, want %v", m, want)
	}
}

func TestApplyMaskTakesMinimum(t *testing.T) {
	pix := []byte{1, 2, 3, 100, 4, 5, 6, 255}
	ApplyMask(pix, []uint8{200, 50})
	if pix[3] != 100 || pix[7] != 50 {
		t.Errorf("alphas = %d, %d; want 100, 50", pix[3], pix[7])
	}
}

func TestProcessRedSquareOnWhite(t *testing.T) {
	for _, mode := range []Mode{ModeGlobal, ModeEdge} {
		t.Run(mode.String(), func(t *testing.T) {
			buf := newTestBuffer(1000, 1000, white)
			buf.fillRect(400, 400, 600, 600, red)
			original := buf.Pixels()

			target := PickAutoTarget(buf)
			if target == nil || target.RGB != white || target.Corners != AllCorners {
				t.Fatalf("auto target = %+v, want white at all corners", target)
			}

			m := BuildMask(buf.Pixels(), 1000, 1000, mode, 20, *target)
			s := Measure(m)
			if s.Opaque != 200*200 || s.Transparent != 1000*1000-200*200 {
				t.Fatalf("mask stats = %+v", s)
			}

			cfg := DefaultConfig()
			cfg.Enabled = true
			cfg.Mode = mode
			res := ProcessWithStats(buf, cfg, target)
			if res == nil {
				t.Fatal("ProcessWithStats() = nil")
			}
			if res.Stats.Opaque != 198*198 {
				t.Errorf("opaque after erosion = %d, want %d", res.Stats.Opaque, 198*198)
			}
			alpha := func(x, y int) uint8 { return res.Image.Pix[(y*1000+x)*4+3] }
			if alpha(400, 400) != 0 || alpha(401, 401) != 255 || alpha(598, 598) != 255 || alpha(599, 599) != 0 {
				t.Error("eroded square edges are not where expected")
			}
			if alpha(0, 0) != 0 || alpha(999, 999) != 0 {
				t.Error("background should be transparent")
			}
			if !bytes.Equal(buf.pix, original) {
				t.Error("Process mutated the source buffer")
			}
		})
	}
}

func TestProcessReturnsNilWhenInactive(t *testing.T) {
	buf := newTestBuffer(4, 4, white)
	target := &ColorSample{RGB: white, Corners: AllCorners}
	cfg := DefaultConfig()
	if Process(buf, cfg, target) != nil {
		t.Error("disabled config should produce nil")
	}
	cfg.Enabled = true
	if Process(buf, cfg, nil) != nil {
		t.Error("missing target should produce nil")
	}
	if Process(nil, cfg, target) != nil {
		t.Error("missing buffer should produce nil")
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"edge": ModeEdge, "WAND": ModeEdge, "global": ModeGlobal, " threshold ": ModeGlobal} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("lasso"); err == nil {
		t.Error("ParseMode(lasso) should fail")
	}
}
