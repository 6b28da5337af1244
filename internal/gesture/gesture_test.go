package gesture

import (
	"math"
	"testing"

	"mockup-studio/internal/placement"
	"mockup-studio/pkg/geometry"
)

type fakeTarget struct {
	t          placement.Transform
	crop       placement.CropRect
	imgW, imgH float64
	area       geometry.Rect
	cropMode   bool
	noArtwork  bool
	constrains int
}

func newFakeTarget() *fakeTarget {
	return &fakeTarget{
		t:    placement.Transform{TX: 700, TY: 800, Scale: 1},
		crop: placement.CropRect{X: 50, Y: 50, W: 200, H: 100},
		imgW: 400,
		imgH: 300,
		area: geometry.NewRect(0, 0, 1400, 1600),
	}
}

func (f *fakeTarget) View() View {
	return View{
		Transform:  f.t,
		Crop:       f.crop,
		ImageW:     f.imgW,
		ImageH:     f.imgH,
		HasArtwork: !f.noArtwork,
		CropMode:   f.cropMode,
	}
}

func (f *fakeTarget) SetTransform(t placement.Transform) { f.t = t }
func (f *fakeTarget) SetCrop(c placement.CropRect)       { f.crop = c }
func (f *fakeTarget) Constrain() {
	f.constrains++
	f.crop = placement.ClampCrop(f.crop, f.imgW, f.imgH, placement.CropMin)
	f.t = placement.Constrain(f.t, f.crop, f.area)
}

type countingInvalidator struct{ n int }

func (c *countingInvalidator) Invalidate() { c.n++ }

type recordingCapturer struct{ captured map[PointerID]bool }

func (r *recordingCapturer) Capture(id PointerID) { r.captured[id] = true }
func (r *recordingCapturer) Release(id PointerID) { delete(r.captured, id) }

func pt(x, y float64) geometry.Point2D { return geometry.NewPoint2D(x, y) }

func newTestController(f *fakeTarget) (*Controller, *countingInvalidator) {
	inv := &countingInvalidator{}
	return NewController(f, inv, Options{HandleRadius: DefaultHandleRadius, CropMin: placement.CropMin}), inv
}

func TestSEHandleDragKeepsAnchorOnScreen(t *testing.T) {
	f := newFakeTarget()
	f.cropMode = true
	c, _ := newTestController(f)

	before := placement.VisibleBounds(f.t, f.crop).TopLeft()
	se := placement.VisibleBounds(f.t, f.crop).BottomRight()

	c.Handle(PointerDown{ID: 1, Pos: se})
	if st, ok := c.State().(CropResizing); !ok || st.Handle != HandleSE {
		t.Fatalf("state = %#v, want CropResizing on se", c.State())
	}
	c.Handle(PointerMove{ID: 1, Pos: se.Add(pt(50, 50))})
	c.Handle(PointerUp{ID: 1})

	if want := (placement.CropRect{X: 50, Y: 50, W: 250, H: 150}); f.crop != want {
		t.Errorf("crop = %+v, want %+v", f.crop, want)
	}
	after := placement.VisibleBounds(f.t, f.crop).TopLeft()
	if after != before {
		t.Errorf("top-left moved from %+v to %+v", before, after)
	}
	if _, ok := c.State().(Idle); !ok {
		t.Errorf("state after release = %#v, want Idle", c.State())
	}
}

func TestSEHandleDragClampsToImage(t *testing.T) {
	f := newFakeTarget()
	f.cropMode = true
	c, _ := newTestController(f)

	se := placement.VisibleBounds(f.t, f.crop).BottomRight()
	c.Handle(PointerDown{ID: 1, Pos: se})
	c.Handle(PointerMove{ID: 1, Pos: se.Add(pt(5000, 5000))})

	if want := (placement.CropRect{X: 50, Y: 50, W: 350, H: 250}); f.crop != want {
		t.Errorf("crop = %+v, want %+v", f.crop, want)
	}
}

func TestNWHandleRespectsMinimumSize(t *testing.T) {
	f := newFakeTarget()
	f.cropMode = true
	c, _ := newTestController(f)

	box := placement.VisibleBounds(f.t, f.crop)
	before := box.BottomRight()
	c.Handle(PointerDown{ID: 1, Pos: box.TopLeft()})
	c.Handle(PointerMove{ID: 1, Pos: box.BottomRight().Add(pt(100, 100))})

	if f.crop.W != placement.CropMin || f.crop.H != placement.CropMin {
		t.Errorf("crop = %+v, want %vx%v", f.crop, placement.CropMin, placement.CropMin)
	}
	if f.crop.X+f.crop.W != 250 || f.crop.Y+f.crop.H != 150 {
		t.Errorf("se anchor moved in image space: %+v", f.crop)
	}
	after := placement.VisibleBounds(f.t, f.crop).BottomRight()
	if math.Abs(after.X-before.X) > 1e-9 || math.Abs(after.Y-before.Y) > 1e-9 {
		t.Errorf("anchor moved on screen from %+v to %+v", before, after)
	}
}

func TestMoveDragTranslatesByRawDelta(t *testing.T) {
	f := newFakeTarget()
	c, inv := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800)})
	c.Handle(PointerMove{ID: 1, Pos: pt(730, 790)})
	c.Handle(PointerMove{ID: 1, Pos: pt(740, 780)})

	if f.t.TX != 740 || f.t.TY != 780 || f.t.Scale != 1 {
		t.Errorf("transform = %+v, want (740,780) scale 1", f.t)
	}
	if inv.n == 0 {
		t.Error("expected redraw requests")
	}
	if !c.Active() {
		t.Error("controller should be active while dragging")
	}
}

func TestShiftDragScalesFromCenter(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(750, 800), Shift: true})
	if st, ok := c.State().(Dragging); !ok || st.Mode != ModeScale {
		t.Fatalf("state = %#v, want scale drag", c.State())
	}
	c.Handle(PointerMove{ID: 1, Pos: pt(800, 800)})

	if f.t.Scale != 2 || f.t.TX != 700 || f.t.TY != 800 {
		t.Errorf("transform = %+v, want scale 2 about (700,800)", f.t)
	}
}

func TestMissIsSilentNoOp(t *testing.T) {
	f := newFakeTarget()
	c, inv := newTestController(f)
	orig := f.t

	c.Handle(PointerDown{ID: 1, Pos: pt(10, 10)})
	c.Handle(PointerMove{ID: 1, Pos: pt(60, 60)})

	if _, ok := c.State().(Idle); !ok {
		t.Errorf("state = %#v, want Idle", c.State())
	}
	if f.t != orig || f.constrains != 0 || inv.n != 0 {
		t.Errorf("miss changed the target: %+v, constrains=%d, redraws=%d", f.t, f.constrains, inv.n)
	}
}

func TestNoArtworkShortCircuits(t *testing.T) {
	f := newFakeTarget()
	f.noArtwork = true
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800)})
	c.Handle(PointerDown{ID: 2, Pos: pt(710, 800)})
	c.Handle(PointerMove{ID: 2, Pos: pt(800, 800)})
	if _, ok := c.State().(Idle); !ok {
		t.Errorf("state = %#v, want Idle", c.State())
	}
}

func TestReleaseSettles(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800)})
	f.t.TX = -5000
	c.Handle(PointerUp{ID: 1})

	if f.constrains != 1 {
		t.Errorf("constrains = %d, want 1", f.constrains)
	}
	if !f.area.ContainsRect(placement.VisibleBounds(f.t, f.crop), 1e-9) {
		t.Errorf("transform %+v not settled into area", f.t)
	}
}

func TestPinchScalesAndResumesDrag(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800)})
	c.Handle(PointerDown{ID: 2, Pos: pt(740, 800)})
	p, ok := c.State().(Pinching)
	if !ok || !p.Resume || p.StartDist != 40 {
		t.Fatalf("state = %#v, want resumable pinch from 40", c.State())
	}

	c.Handle(PointerMove{ID: 2, Pos: pt(760, 800)})
	if f.t.Scale != 1.5 {
		t.Errorf("scale = %v, want 1.5", f.t.Scale)
	}

	c.Handle(PointerUp{ID: 2})
	d, ok := c.State().(Dragging)
	if !ok || d.Pointer != 1 || d.Mode != ModeMove {
		t.Fatalf("state = %#v, want move drag on pointer 1", c.State())
	}
	tx := f.t.TX
	c.Handle(PointerMove{ID: 1, Pos: pt(710, 800)})
	if f.t.TX != tx+10 {
		t.Errorf("tx = %v, want %v", f.t.TX, tx+10)
	}
}

func TestPinchWithoutDragEndsIdle(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(10, 10)})
	c.Handle(PointerDown{ID: 2, Pos: pt(50, 10)})
	if p, ok := c.State().(Pinching); !ok || p.Resume {
		t.Fatalf("state = %#v, want non-resumable pinch", c.State())
	}
	c.Handle(PointerCancel{ID: 1})
	if _, ok := c.State().(Idle); !ok {
		t.Errorf("state = %#v, want Idle", c.State())
	}
}

func TestPinchZeroStartDistanceKeepsScale(t *testing.T) {
	st := Pinching{A: 1, B: 2, StartDist: 0, StartScale: 0.5}
	env := Env{
		View:     newFakeTarget().View(),
		Pointers: map[PointerID]geometry.Point2D{1: pt(100, 100), 2: pt(100.5, 100)},
	}
	_, effects := Transition(st, PointerMove{ID: 2, Pos: pt(100.5, 100)}, env)
	if len(effects) == 0 {
		t.Fatal("expected effects")
	}
	set, ok := effects[0].(SetTransform)
	if !ok {
		t.Fatalf("first effect = %#v", effects[0])
	}
	if s := set.Transform.Scale; s != 0.5 {
		t.Errorf("scale = %v, want 0.5", s)
	}
}

func TestCoincidentPinchLeavesArtworkScalable(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800)})
	c.Handle(PointerDown{ID: 2, Pos: pt(700, 800)})
	c.Handle(PointerMove{ID: 2, Pos: pt(700.2, 800)})
	if f.t.Scale != 1 {
		t.Errorf("scale after move = %v, want 1", f.t.Scale)
	}
	c.Handle(PointerMove{ID: 2, Pos: pt(700, 800)})
	if f.t.Scale != 1 {
		t.Errorf("scale after fingers meet = %v, want 1", f.t.Scale)
	}
	c.Handle(PointerUp{ID: 2})
	c.Handle(PointerUp{ID: 1})

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800)})
	c.Handle(PointerDown{ID: 2, Pos: pt(740, 800)})
	c.Handle(PointerMove{ID: 2, Pos: pt(900, 800)})
	if math.Abs(f.t.Scale-5) > 1e-9 {
		t.Errorf("scale after pinch = %v, want 5", f.t.Scale)
	}
}

func TestShiftDragFromCenterKeepsScale(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)

	c.Handle(PointerDown{ID: 1, Pos: pt(700, 800), Shift: true})
	c.Handle(PointerMove{ID: 1, Pos: pt(700, 800.5)})
	c.Handle(PointerMove{ID: 1, Pos: pt(700, 800)})
	if f.t.Scale != 1 {
		t.Errorf("scale = %v, want 1", f.t.Scale)
	}
}

func TestUncapturedMovesAreIgnored(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)
	orig := f.t

	c.Handle(PointerMove{ID: 9, Pos: pt(700, 800)})
	c.Handle(PointerUp{ID: 9})
	if f.t != orig || f.constrains != 0 {
		t.Error("events from an unknown pointer changed the target")
	}
}

func TestCaptureAndRelease(t *testing.T) {
	f := newFakeTarget()
	c, _ := newTestController(f)
	rec := &recordingCapturer{captured: map[PointerID]bool{}}
	c.SetCapturer(rec)

	c.Handle(PointerDown{ID: 3, Pos: pt(700, 800)})
	if !rec.captured[3] {
		t.Error("pointer 3 not captured")
	}
	c.Handle(PointerUp{ID: 3})
	if len(rec.captured) != 0 {
		t.Errorf("captures left: %v", rec.captured)
	}
}

func TestHitHandle(t *testing.T) {
	tr := placement.Transform{TX: 100, TY: 100, Scale: 1}
	crop := placement.CropRect{W: 100, H: 100}
	tests := []struct {
		p    geometry.Point2D
		want Handle
	}{
		{pt(50, 50), HandleNW},
		{pt(160, 45), HandleNE},
		{pt(40, 150), HandleSW},
		{pt(150, 150), HandleSE},
		{pt(100, 100), HandleNone},
		{pt(50, 70), HandleNone},
	}
	for _, tt := range tests {
		if got := HitHandle(tr, crop, tt.p, DefaultHandleRadius); got != tt.want {
			t.Errorf("HitHandle(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
}
