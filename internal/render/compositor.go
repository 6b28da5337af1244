// Package render draws editor frames and paces redraws.
package render

import (
	"image"
	"image/draw"
	"math"
	"sync"

	"github.com/gogpu/gg"
	"go.uber.org/zap"

	"mockup-studio/internal/app"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/placement"
	"mockup-studio/pkg/colorutil"
	"mockup-studio/pkg/geometry"
)

const (
	guideDash    = 8.0
	guideGap     = 6.0
	guideWidth   = 2.0
	handleSize   = 12.0
	handleStroke = 1.5
)

// Frame is everything one draw needs. It is a value copy; drawing never
// touches editor state.
type Frame struct {
	Stage     geometry.Size
	Blank     *image.NRGBA
	Artwork   *image.NRGBA
	Transform placement.Transform
	Crop      placement.CropRect
	Area      geometry.Rect
	ShowGuide bool
	CropMode  bool
}

// FrameFromSnapshot builds a frame for a side. gestureActive shows the print
// guide.
func FrameFromSnapshot(stage geometry.Size, blank *image.NRGBA, snap app.SideSnapshot, gestureActive bool) Frame {
	f := Frame{
		Stage:     stage,
		Blank:     blank,
		Transform: snap.Transform,
		Crop:      snap.Crop,
		Area:      snap.Area.Rect,
		ShowGuide: gestureActive,
		CropMode:  snap.CropMode,
	}
	if snap.HasArtwork() {
		f.Artwork = snap.Display()
	}
	return f
}

// Compositor draws frames with gg. It caches converted images between
// frames; the cache is keyed by image identity, so callers must not mutate
// an image after passing it in.
type Compositor struct {
	mu    sync.Mutex
	cache map[*image.NRGBA]*gg.ImageBuf
}

// NewCompositor creates a compositor.
func NewCompositor() *Compositor {
	return &Compositor{cache: make(map[*image.NRGBA]*gg.ImageBuf)}
}

// Draw renders f into a w x h device image, fitting the stage uniformly.
// Order: background, blank, print guide, artwork, crop overlay.
func (c *Compositor) Draw(f Frame, w, h int) *image.RGBA {
	vp := FitViewport(f.Stage, float64(w), float64(h), 1)
	return c.DrawViewport(f, vp)
}

// DrawViewport renders f into the device surface described by vp.
func (c *Compositor) DrawViewport(f Frame, vp Viewport) *image.RGBA {
	dc := gg.NewContext(vp.Width, vp.Height)
	defer dc.Close()

	dc.ClearWithColor(gg.White)
	dc.Translate(vp.OffsetX, vp.OffsetY)
	dc.Scale(vp.Scale, vp.Scale)

	live := make(map[*image.NRGBA]bool, 2)
	c.mu.Lock()
	if f.Blank != nil {
		live[f.Blank] = true
		c.drawBlank(dc, f)
	}
	if f.ShowGuide && !f.Area.Empty() {
		c.drawGuide(dc, f.Area)
	}
	if f.Artwork != nil && f.Crop.W > 0 && f.Crop.H > 0 {
		live[f.Artwork] = true
		c.drawArtwork(dc, f)
		if f.CropMode {
			c.drawCropOverlay(dc, placement.VisibleBounds(f.Transform, f.Crop))
		}
	}
	c.evict(live)
	c.mu.Unlock()

	return toRGBA(dc.Image())
}

func (c *Compositor) buf(img *image.NRGBA) *gg.ImageBuf {
	if b, ok := c.cache[img]; ok {
		return b
	}
	b := gg.ImageBufFromImage(img)
	c.cache[img] = b
	return b
}

// evict drops cached buffers for images that are no longer shown.
func (c *Compositor) evict(live map[*image.NRGBA]bool) {
	for img := range c.cache {
		if !live[img] {
			delete(c.cache, img)
		}
	}
}

func (c *Compositor) drawBlank(dc *gg.Context, f Frame) {
	b := f.Blank.Bounds()
	rect, _ := placement.FitToStage(float64(b.Dx()), float64(b.Dy()), f.Stage)
	dc.DrawImageEx(c.buf(f.Blank), gg.DrawImageOptions{
		X:             rect.X,
		Y:             rect.Y,
		DstWidth:      rect.Width,
		DstHeight:     rect.Height,
		Interpolation: gg.InterpBilinear,
	})
}

func (c *Compositor) drawGuide(dc *gg.Context, area geometry.Rect) {
	dc.SetColor(colorutil.GuideGray)
	dc.SetLineWidth(guideWidth)
	dc.SetDash(guideDash, guideGap)
	dc.DrawRectangle(area.X, area.Y, area.Width, area.Height)
	if err := dc.Stroke(); err != nil {
		logging.Logger.Debug("guide stroke failed", zap.Error(err))
	}
	dc.ClearDash()
}

func (c *Compositor) drawArtwork(dc *gg.Context, f Frame) {
	box := placement.VisibleBounds(f.Transform, f.Crop)
	src := image.Rect(
		int(math.Floor(f.Crop.X)),
		int(math.Floor(f.Crop.Y)),
		int(math.Ceil(f.Crop.X+f.Crop.W)),
		int(math.Ceil(f.Crop.Y+f.Crop.H)),
	).Intersect(f.Artwork.Bounds())
	if src.Empty() {
		return
	}
	dc.DrawImageEx(c.buf(f.Artwork), gg.DrawImageOptions{
		X:             box.X,
		Y:             box.Y,
		DstWidth:      box.Width,
		DstHeight:     box.Height,
		SrcRect:       &src,
		Interpolation: gg.InterpBilinear,
	})
}

func (c *Compositor) drawCropOverlay(dc *gg.Context, box geometry.Rect) {
	dc.SetColor(colorutil.HandleInk)
	dc.SetLineWidth(handleStroke)
	dc.SetDash(guideDash, guideGap)
	dc.DrawRectangle(box.X, box.Y, box.Width, box.Height)
	if err := dc.Stroke(); err != nil {
		logging.Logger.Debug("crop outline stroke failed", zap.Error(err))
	}
	dc.ClearDash()

	for _, p := range []geometry.Point2D{box.TopLeft(), box.TopRight(), box.BottomLeft(), box.BottomRight()} {
		x, y := p.X-handleSize/2, p.Y-handleSize/2
		dc.SetColor(colorutil.White)
		dc.DrawRectangle(x, y, handleSize, handleSize)
		if err := dc.Fill(); err != nil {
			logging.Logger.Debug("handle fill failed", zap.Error(err))
		}
		dc.SetColor(colorutil.HandleInk)
		dc.DrawRectangle(x, y, handleSize, handleSize)
		if err := dc.Stroke(); err != nil {
			logging.Logger.Debug("handle stroke failed", zap.Error(err))
		}
	}
}

func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}
