package panels

import (
	goimage "image"
	"image/color"
	"path/filepath"
	"strings"
	"testing"

	"fyne.io/fyne/v2/test"

	"mockup-studio/internal/app"
	"mockup-studio/internal/config"
	"mockup-studio/internal/image"
	"mockup-studio/internal/mask"
	"mockup-studio/internal/printarea"
	"mockup-studio/pkg/colorutil"
	"mockup-studio/ui/prefs"
)

func syncRunner(task func()) { task() }

func twoToneLayer() *image.Layer {
	img := goimage.NewNRGBA(goimage.Rect(0, 0, 40, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			c := color.NRGBA{255, 255, 255, 255}
			if x < 20 {
				c = color.NRGBA{20, 20, 20, 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return &image.Layer{Path: "art.png", Raster: image.FromImage(img)}
}

func TestNaturalLess(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"Tee 2", "Tee 10", true},
		{"Tee 10", "Tee 2", false},
		{"hoodie", "Tee", true},
		{"Tee", "Tee 1", true},
	}
	for _, tt := range tests {
		if got := naturalLess(tt.a, tt.b); got != tt.want {
			t.Errorf("naturalLess(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestBlankChoicesSortedAndDisambiguated(t *testing.T) {
	m, err := printarea.ParseManifest(strings.NewReader(`[
		{"file": "tee_10_front.png"},
		{"file": "tee_2_front.png"},
		{"file": "tee_2_back.png"},
		{"file": "a_front.png", "label": "Classic"},
		{"file": "b_front.png", "label": "Classic"}
	]`))
	if err != nil {
		t.Fatal(err)
	}
	got := choiceLabels(blankChoices(m))
	want := []string{"Classic [a_front.png]", "Classic [b_front.png]", "Tee 2 Front", "Tee 10 Front"}
	if len(got) != len(want) {
		t.Fatalf("labels = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("labels[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if blankChoices(nil) != nil {
		t.Error("nil manifest should give no choices")
	}
}

func TestLabelRoundTrips(t *testing.T) {
	for _, m := range []mask.Mode{mask.ModeEdge, mask.ModeGlobal} {
		if got := modeFromLabel(modeLabel(m)); got != m {
			t.Errorf("mode %v round trip = %v", m, got)
		}
	}
	for _, s := range []image.Side{image.SideFront, image.SideBack} {
		if got := sideFromLabel(sideLabel(s)); got != s {
			t.Errorf("side %v round trip = %v", s, got)
		}
	}
}

func TestFormatSize(t *testing.T) {
	if got := formatSize(10.04, 7.96, true); got != "Print size: 10.0 x 8.0 in" {
		t.Errorf("formatSize() = %q", got)
	}
	if got := formatSize(0, 0, false); got != "Print size: n/a" {
		t.Errorf("formatSize(!ok) = %q", got)
	}
	sw := mask.ColorSample{RGB: colorutil.RGB{255, 0, 16}, Corners: mask.CornerTL | mask.CornerBR}
	if got := swatchLabel(sw); got != "#FF0010 (tl|br)" {
		t.Errorf("swatchLabel() = %q", got)
	}
}

func TestSavedBackgroundReachesBothSides(t *testing.T) {
	test.NewApp()
	doc := app.NewDocument(config.Default(), app.WithRunner(syncRunner))
	doc.Active()
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	p.SetString(prefs.KeyBgMode, "global")
	p.SetFloat(prefs.KeyBgTolerance, 35)
	p.SetInt(prefs.KeyBgFeather, 4)

	NewBackgroundPanel(doc, p)
	for _, side := range []image.Side{image.SideFront, image.SideBack} {
		bg := doc.Session(side).Snapshot().Background
		if bg.Mode != mask.ModeGlobal || bg.Tolerance != 35 || bg.Feather != 4 {
			t.Errorf("%s background = %+v, want saved settings", side, bg)
		}
	}
}

func TestBackgroundPanelFollowsSession(t *testing.T) {
	test.NewApp()
	doc := app.NewDocument(config.Default(), app.WithRunner(syncRunner))
	p := prefs.LoadFrom(filepath.Join(t.TempDir(), "preferences.json"))
	p.SetFloat(prefs.KeyBgTolerance, 42)

	bp := NewBackgroundPanel(doc, p)
	if got := doc.Active().Snapshot().Background.Tolerance; got != 42 {
		t.Errorf("saved tolerance not applied: %v", got)
	}
	if len(bp.swatchBox.Objects) != 1 {
		t.Fatalf("empty swatch box should hold a placeholder, got %d", len(bp.swatchBox.Objects))
	}

	doc.Active().SetArtwork(twoToneLayer())
	if got := len(bp.swatchBox.Objects); got != 2 {
		t.Errorf("swatch rows = %d, want 2", got)
	}

	test.Tap(bp.enableCheck)
	snap := doc.Active().Snapshot()
	if !snap.Background.Enabled {
		t.Fatal("tapping the check should enable removal")
	}
	if snap.Processed == nil {
		t.Error("enabling removal should produce a cut-out")
	}
	if p.FloatWithFallback(prefs.KeyBgTolerance, 0) != 42 {
		t.Error("tolerance preference should be kept")
	}
	if p.String(prefs.KeyBgMode) != "edge" {
		t.Errorf("mode preference = %q", p.String(prefs.KeyBgMode))
	}
}

func TestArtworkPanelSizeReadout(t *testing.T) {
	test.NewApp()
	doc := app.NewDocument(config.Default(), app.WithRunner(syncRunner))
	ap := NewArtworkPanel(doc, nil, nil)
	if ap.sizeLabel.Text != "Print size: n/a" {
		t.Errorf("initial readout = %q", ap.sizeLabel.Text)
	}
	if !ap.actionBtns[0].Disabled() {
		t.Error("actions should be disabled without artwork")
	}

	doc.Active().SetArtwork(twoToneLayer())
	if ap.fileLabel.Text != "art.png" {
		t.Errorf("file label = %q", ap.fileLabel.Text)
	}
	if ap.actionBtns[0].Disabled() {
		t.Error("actions should be enabled with artwork")
	}
}
