// Package export renders finished mockups and cropped artwork to files.
package export

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"

	"mockup-studio/internal/app"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/render"
)

// Renderer draws clean frames, without guides or crop handles.
type Renderer struct {
	compositor *render.Compositor
}

// NewRenderer creates a renderer with its own image cache.
func NewRenderer() *Renderer {
	return &Renderer{compositor: render.NewCompositor()}
}

// Mockup renders the document's active side at w x h. Zero sizes use the
// stage size.
func (r *Renderer) Mockup(doc *app.Document, w, h int) *image.RGBA {
	stage := doc.Stage()
	if w <= 0 || h <= 0 {
		w, h = int(stage.Width), int(stage.Height)
	}
	var blank *image.NRGBA
	if layer := doc.Blank(); layer != nil {
		blank = layer.Raster.Image()
	}
	f := render.FrameFromSnapshot(stage, blank, doc.Active().Snapshot(), false)
	f.CropMode = false
	return r.compositor.Draw(f, w, h)
}

// CroppedArtwork returns the visible part of a side's artwork, after
// background removal. It returns nil without artwork.
func CroppedArtwork(snap app.SideSnapshot) *image.NRGBA {
	if !snap.HasArtwork() {
		return nil
	}
	c := snap.Crop
	rect := image.Rect(
		int(math.Round(c.X)), int(math.Round(c.Y)),
		int(math.Round(c.X+c.W)), int(math.Round(c.Y+c.H)),
	)
	return imaging.Crop(snap.Display(), rect)
}

// Thumbnail scales img down to fit within size x size.
func Thumbnail(img image.Image, size int) *image.NRGBA {
	return imaging.Fit(img, size, size, imaging.Lanczos)
}

// Save writes img, choosing the format from the file extension.
func Save(img image.Image, path string) error {
	if img == nil {
		return fmt.Errorf("nothing to export")
	}
	if err := imaging.Save(img, path); err != nil {
		logging.Logger.Error("export failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	b := img.Bounds()
	logging.Logger.Info("exported image",
		zap.String("path", path),
		zap.Int("width", b.Dx()),
		zap.Int("height", b.Dy()))
	return nil
}
