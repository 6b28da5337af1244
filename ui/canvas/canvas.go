// Package canvas provides the stage widget: the composited mockup with
// pointer gestures for moving, scaling and cropping the artwork.
package canvas

import (
	"image"
	"math"
	"sync"

	"fyne.io/fyne/v2"
	fynecanvas "fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"

	"mockup-studio/internal/app"
	"mockup-studio/internal/gesture"
	"mockup-studio/internal/placement"
	"mockup-studio/internal/render"
	"mockup-studio/pkg/geometry"
)

const (
	mousePointer gesture.PointerID = 1
	wheelStep                      = 1.05
)

// activeTarget routes gestures to whichever side is being edited.
type activeTarget struct {
	doc *app.Document
}

func (t activeTarget) View() gesture.View { return t.doc.Active().View() }
func (t activeTarget) SetTransform(tr placement.Transform) { t.doc.Active().SetTransform(tr) }
func (t activeTarget) SetCrop(c placement.CropRect) { t.doc.Active().SetCrop(c) }
func (t activeTarget) Constrain() { t.doc.Active().Constrain() }

// StageCanvas displays the document and turns mouse input into gestures.
type StageCanvas struct {
	widget.BaseWidget

	doc        *app.Document
	controller *gesture.Controller
	compositor *render.Compositor
	scheduler  *render.Scheduler
	raster     *fynecanvas.Raster

	mu       sync.Mutex
	viewport render.Viewport
	pressed  bool

	// Last rendered output for export
	lastOutput *image.RGBA

	onGestureEnd func()
}

// NewStageCanvas creates a stage canvas for doc.
func NewStageCanvas(doc *app.Document) *StageCanvas {
	sc := &StageCanvas{
		doc:        doc,
		compositor: render.NewCompositor(),
	}
	cfg := doc.Config()

	sc.raster = fynecanvas.NewRaster(sc.draw)
	sc.raster.ScaleMode = fynecanvas.ImageScaleSmooth
	sc.raster.SetMinSize(fyne.NewSize(float32(cfg.Stage.Width/4), float32(cfg.Stage.Height/4)))

	sc.scheduler = render.NewScheduler(
		render.TimerRequester{Interval: cfg.Render.FrameInterval},
		sc.raster.Refresh,
	)
	sc.controller = gesture.NewController(activeTarget{doc: doc}, sc.scheduler, gesture.Options{
		HandleRadius: cfg.Crop.HandleRadius,
		CropMin:      cfg.Crop.MinSize,
	})

	sc.ExtendBaseWidget(sc)
	return sc
}

// Invalidate schedules a redraw. Any number of calls before the next frame
// produce one draw.
func (sc *StageCanvas) Invalidate() {
	sc.scheduler.Invalidate()
}

// Controller returns the gesture controller.
func (sc *StageCanvas) Controller() *gesture.Controller {
	return sc.controller
}

// OnGestureEnd sets a callback run after a gesture settles.
func (sc *StageCanvas) OnGestureEnd(fn func()) {
	sc.onGestureEnd = fn
}

// LastOutput returns the most recently drawn frame, or nil.
func (sc *StageCanvas) LastOutput() *image.RGBA {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.lastOutput
}

// Frames reports how many frames the canvas has drawn.
func (sc *StageCanvas) Frames() uint64 {
	return sc.scheduler.Frames()
}

// draw is the raster generator. w and h are device pixels.
func (sc *StageCanvas) draw(w, h int) image.Image {
	size := sc.raster.Size()
	if size.Width <= 0 || size.Height <= 0 || w <= 0 || h <= 0 {
		return image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	ratio := float64(w) / float64(size.Width)
	if limit := sc.doc.Config().Stage.MaxPixelRatio; limit > 0 {
		ratio = math.Min(ratio, limit)
	}
	vp := render.FitViewport(sc.doc.Stage(), float64(size.Width), float64(size.Height), ratio)

	var blank *image.NRGBA
	if layer := sc.doc.Blank(); layer != nil {
		blank = layer.Raster.Image()
	}
	frame := render.FrameFromSnapshot(sc.doc.Stage(), blank, sc.doc.Active().Snapshot(), sc.controller.Active())
	out := sc.compositor.DrawViewport(frame, vp)

	sc.mu.Lock()
	sc.viewport = vp
	sc.lastOutput = out
	sc.mu.Unlock()
	return out
}

func (sc *StageCanvas) toStage(pos fyne.Position) geometry.Point2D {
	sc.mu.Lock()
	vp := sc.viewport
	sc.mu.Unlock()
	if vp.Scale == 0 {
		size := sc.raster.Size()
		vp = render.FitViewport(sc.doc.Stage(), float64(size.Width), float64(size.Height), 1)
	}
	return vp.ToStage(geometry.Point2D{X: float64(pos.X), Y: float64(pos.Y)})
}

// MouseDown implements desktop.Mouseable.
func (sc *StageCanvas) MouseDown(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	sc.pressed = true
	sc.controller.Handle(gesture.PointerDown{
		ID:    mousePointer,
		Pos:   sc.toStage(ev.Position),
		Shift: ev.Modifier&fyne.KeyModifierShift != 0,
	})
}

// MouseUp implements desktop.Mouseable.
func (sc *StageCanvas) MouseUp(ev *desktop.MouseEvent) {
	if ev.Button != desktop.MouseButtonPrimary {
		return
	}
	sc.release()
}

// Dragged implements fyne.Draggable.
func (sc *StageCanvas) Dragged(ev *fyne.DragEvent) {
	if !sc.pressed {
		return
	}
	sc.controller.Handle(gesture.PointerMove{ID: mousePointer, Pos: sc.toStage(ev.Position)})
}

// DragEnd implements fyne.Draggable. Fyne may deliver it with or without a
// matching MouseUp; the controller ignores the second release.
func (sc *StageCanvas) DragEnd() {
	sc.release()
}

func (sc *StageCanvas) release() {
	if !sc.pressed {
		return
	}
	sc.pressed = false
	sc.controller.Handle(gesture.PointerUp{ID: mousePointer})
	if sc.onGestureEnd != nil {
		sc.onGestureEnd()
	}
}

// Scrolled nudges the artwork scale with the mouse wheel.
func (sc *StageCanvas) Scrolled(ev *fyne.ScrollEvent) {
	if sc.controller.Active() {
		return
	}
	if ev.Scrolled.DY > 0 {
		sc.doc.Active().Nudge(wheelStep)
	} else if ev.Scrolled.DY < 0 {
		sc.doc.Active().Nudge(1 / wheelStep)
	}
}

// CreateRenderer implements fyne.Widget.
func (sc *StageCanvas) CreateRenderer() fyne.WidgetRenderer {
	return &stageCanvasRenderer{canvas: sc}
}

type stageCanvasRenderer struct {
	canvas *StageCanvas
}

func (r *stageCanvasRenderer) Layout(size fyne.Size) {
	r.canvas.raster.Resize(size)
}

func (r *stageCanvasRenderer) MinSize() fyne.Size {
	return r.canvas.raster.MinSize()
}

func (r *stageCanvasRenderer) Refresh() {
	r.canvas.raster.Refresh()
}

func (r *stageCanvasRenderer) Objects() []fyne.CanvasObject {
	return []fyne.CanvasObject{r.canvas.raster}
}

func (r *stageCanvasRenderer) Destroy() {}
