// Package printarea works out where on the stage artwork may be printed for
// a given shirt blank.
package printarea

import (
	"math"

	"go.uber.org/zap"

	"mockup-studio/internal/config"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/placement"
	"mockup-studio/pkg/geometry"
)

// Calibration ties a blank image to physical units: ReferencePixels in the
// blank's own pixels span ReferenceInches, and PrintBox is the printable
// region in inches measured from the blank's top-left corner.
type Calibration struct {
	ReferencePixels float64
	ReferenceInches float64
	PrintBox        *BoxInches
}

// BoxInches is a rectangle in inches.
type BoxInches struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

func (c *Calibration) hasReference() bool {
	return c != nil && positive(c.ReferencePixels) && positive(c.ReferenceInches)
}

func (c *Calibration) hasBox() bool {
	return c != nil && c.PrintBox != nil &&
		finite(c.PrintBox.X) && finite(c.PrintBox.Y) &&
		positive(c.PrintBox.W) && positive(c.PrintBox.H)
}

func positive(v float64) bool { return v > 0 && finite(v) }
func finite(v float64) bool   { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Resolver turns blank calibrations into print areas for one stage size.
type Resolver struct {
	stage    geometry.Size
	cfg      config.PrintConfig
	fallback geometry.Rect
}

// NewResolver creates a resolver for the given stage.
func NewResolver(stage geometry.Size, cfg *config.PrintConfig) *Resolver {
	r := &Resolver{stage: stage, cfg: *cfg}
	r.fallback = r.computeFallback()
	return r
}

// Fallback returns the static print rectangle used without a calibrated box.
func (r *Resolver) Fallback() geometry.Rect {
	return r.fallback
}

// computeFallback sizes the maximum printable inches at the hint resolution,
// caps it to the stage minus the safety margin, centers it horizontally and
// lifts it above vertical center.
func (r *Resolver) computeFallback() geometry.Rect {
	safety := r.cfg.Safety
	w := math.Min(math.Round(r.cfg.MaxWidthInches*r.cfg.PPIHint), r.stage.Width-safety*2)
	h := math.Min(math.Round(r.cfg.MaxHeightInches*r.cfg.PPIHint), r.stage.Height-safety*2)
	x := math.Round((r.stage.Width - w) / 2)
	y := math.Max(safety, math.Round((r.stage.Height-h)/2-r.stage.Height*r.cfg.Lift))
	return geometry.NewRect(x, y, w, h)
}

// Resolve computes the print area for a blank of blankW x blankH pixels.
// The blank is assumed drawn fit-to-stage and centered. A reference length
// yields pixels-per-inch; together with a print box it yields a calibrated
// rectangle. Anything missing falls back to the static rectangle.
func (r *Resolver) Resolve(cal *Calibration, blankW, blankH float64) placement.PrintArea {
	area := placement.PrintArea{Rect: r.fallback}

	drawn, s := placement.FitToStage(blankW, blankH, r.stage)
	if s <= 0 || !finite(s) {
		logging.Logger.Warn("blank has no usable size, using fallback print area",
			zap.Float64("width", blankW), zap.Float64("height", blankH))
		return area
	}
	if !cal.hasReference() {
		logging.Logger.Warn("blank is not calibrated, using fallback print area")
		return area
	}

	ppi := cal.ReferencePixels * s / cal.ReferenceInches
	area.PixelsPerInch = ppi
	if !cal.hasBox() {
		logging.Logger.Warn("blank has no print box, using fallback print area",
			zap.Float64("ppi", ppi))
		return area
	}

	b := cal.PrintBox
	area.Rect = geometry.NewRect(drawn.X+b.X*ppi, drawn.Y+b.Y*ppi, b.W*ppi, b.H*ppi)
	area.Calibrated = true
	return area
}
