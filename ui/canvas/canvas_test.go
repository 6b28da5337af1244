package canvas

import (
	goimage "image"
	"math"
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/test"

	"mockup-studio/internal/app"
	"mockup-studio/internal/config"
	"mockup-studio/internal/image"
	"mockup-studio/pkg/geometry"
)

func newTestCanvas(t *testing.T) (*StageCanvas, *app.Document) {
	t.Helper()
	test.NewApp()
	doc := app.NewDocument(config.Default(), app.WithRunner(func(task func()) { task() }))

	img := goimage.NewNRGBA(goimage.Rect(0, 0, 100, 100))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 255, 255
	}
	doc.Active().SetArtwork(&image.Layer{Raster: image.FromImage(img)})

	sc := NewStageCanvas(doc)
	size := fyne.NewSize(350, 400)
	sc.Resize(size)
	test.WidgetRenderer(sc).Layout(size)
	// Render once at pixel ratio 2 so the viewport is known.
	sc.draw(700, 800)
	return sc, doc
}

func logicalOf(sc *StageCanvas, p geometry.Point2D) fyne.Position {
	q := sc.viewport.ToLogical(p)
	return fyne.NewPos(float32(q.X), float32(q.Y))
}

func TestDrawUsesPixelRatio(t *testing.T) {
	sc, doc := newTestCanvas(t)
	out := sc.LastOutput()
	if out == nil || out.Bounds().Dx() != 700 || out.Bounds().Dy() != 800 {
		t.Fatalf("last output = %v, want 700x800", out)
	}
	if sc.viewport.Scale != 0.5 {
		t.Errorf("viewport scale = %v, want 0.5", sc.viewport.Scale)
	}
	center := sc.viewport.ToLogical(doc.Active().Snapshot().Transform.Center())
	px := out.RGBAAt(int(center.X*2), int(center.Y*2))
	if px.R < 200 || px.G > 60 {
		t.Errorf("artwork center pixel = %v, want red", px)
	}
}

func TestMouseDragMovesArtwork(t *testing.T) {
	sc, doc := newTestCanvas(t)
	before := doc.Active().Snapshot().Transform

	start := logicalOf(sc, before.Center())
	sc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: start},
		Button:     desktop.MouseButtonPrimary,
	})
	if !sc.Controller().Active() {
		t.Fatal("press on the artwork should start a drag")
	}

	ended := false
	sc.OnGestureEnd(func() { ended = true })
	sc.Dragged(&fyne.DragEvent{PointEvent: fyne.PointEvent{Position: start.AddXY(0, 10)}})
	sc.MouseUp(&desktop.MouseEvent{Button: desktop.MouseButtonPrimary})
	sc.DragEnd()

	after := doc.Active().Snapshot().Transform
	if math.Abs(after.TY-before.TY-40) > 1e-6 {
		t.Errorf("moved %v stage units, want 40", after.TY-before.TY)
	}
	if sc.Controller().Active() {
		t.Error("gesture should be idle after release")
	}
	if !ended {
		t.Error("gesture end callback not called")
	}
}

func TestSecondaryButtonIgnored(t *testing.T) {
	sc, doc := newTestCanvas(t)
	before := doc.Active().Snapshot().Transform
	sc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: logicalOf(sc, before.Center())},
		Button:     desktop.MouseButtonSecondary,
	})
	if sc.Controller().Active() {
		t.Error("secondary button should not start a gesture")
	}
}

func TestScrollShrinksArtwork(t *testing.T) {
	sc, doc := newTestCanvas(t)
	before := doc.Active().Snapshot().Transform.Scale
	sc.Scrolled(&fyne.ScrollEvent{Scrolled: fyne.Delta{DY: -1}})
	after := doc.Active().Snapshot().Transform.Scale
	if math.Abs(after-before/wheelStep) > 1e-9 {
		t.Errorf("scale = %v, want %v", after, before/wheelStep)
	}
}

func TestSideSwitchRetargetsGestures(t *testing.T) {
	sc, doc := newTestCanvas(t)
	if err := doc.SetActiveSide(image.SideBack); err != nil {
		t.Fatal(err)
	}
	front := doc.Session(image.SideFront).Snapshot().Transform
	sc.MouseDown(&desktop.MouseEvent{
		PointEvent: fyne.PointEvent{Position: logicalOf(sc, front.Center())},
		Button:     desktop.MouseButtonPrimary,
	})
	if sc.Controller().Active() {
		t.Error("back side has no artwork, press should be ignored")
	}
}
