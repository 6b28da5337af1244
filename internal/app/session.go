package app

import (
	goimage "image"
	"sync"

	"go.uber.org/zap"

	"mockup-studio/internal/gesture"
	"mockup-studio/internal/image"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/mask"
	"mockup-studio/internal/placement"
	"mockup-studio/pkg/colorutil"
	"mockup-studio/pkg/geometry"
)

// Runner executes a background task. The default starts a goroutine.
type Runner func(task func())

func goRunner(task func()) { go task() }

// SideSnapshot is an immutable copy of one side's editing state.
type SideSnapshot struct {
	Side       image.Side
	Artwork    *image.Layer
	Processed  *goimage.NRGBA
	Transform  placement.Transform
	Crop       placement.CropRect
	Background mask.Config
	Selected   *mask.ColorSample
	Swatches   []mask.ColorSample
	CropMode   bool
	Area       placement.PrintArea
}

// HasArtwork reports whether the snapshot carries artwork.
func (s SideSnapshot) HasArtwork() bool {
	return s.Artwork != nil && s.Artwork.Width() > 0 && s.Artwork.Height() > 0
}

// Display returns the image the compositor should draw: the processed
// cut-out when there is one, otherwise the raw artwork.
func (s SideSnapshot) Display() *goimage.NRGBA {
	if s.Processed != nil {
		return s.Processed
	}
	if s.Artwork != nil {
		return s.Artwork.Raster.Image()
	}
	return nil
}

// SizeInches is the printed size readout for the snapshot.
func (s SideSnapshot) SizeInches() (w, h float64, ok bool) {
	if !s.HasArtwork() {
		return 0, 0, false
	}
	return placement.SizeInches(s.Transform, s.Crop, s.Area)
}

// sessionSettings are the per-document knobs a session needs.
type sessionSettings struct {
	stage           geometry.Size
	cropMin         float64
	cornerInset     int
	dedupeThreshold float64
}

// Session owns the editing state of one garment side. It implements
// gesture.Target.
type Session struct {
	mu       sync.RWMutex
	side     image.Side
	settings sessionSettings
	runner   Runner
	events   *events

	artwork   *image.Layer
	processed *goimage.NRGBA
	transform placement.Transform
	crop      placement.CropRect
	bg        mask.Config
	selected  *mask.ColorSample
	swatches  []mask.ColorSample
	cropMode  bool
	area      placement.PrintArea

	generation uint64
}

var _ gesture.Target = (*Session)(nil)

func newSession(side image.Side, settings sessionSettings, bg mask.Config, area placement.PrintArea, runner Runner, ev *events) *Session {
	return &Session{
		side:      side,
		settings:  settings,
		runner:    runner,
		events:    ev,
		transform: placement.DefaultTransform(settings.stage),
		bg:        bg,
		area:      area,
	}
}

// Side returns which side this session edits.
func (s *Session) Side() image.Side { return s.side }

// Snapshot returns a copy of the session state.
func (s *Session) Snapshot() SideSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := SideSnapshot{
		Side:       s.side,
		Artwork:    s.artwork,
		Processed:  s.processed,
		Transform:  s.transform,
		Crop:       s.crop,
		Background: s.bg,
		CropMode:   s.cropMode,
		Area:       s.area,
		Swatches:   append([]mask.ColorSample(nil), s.swatches...),
	}
	if s.selected != nil {
		sel := *s.selected
		snap.Selected = &sel
	}
	return snap
}

// View implements gesture.Target.
func (s *Session) View() gesture.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return gesture.View{
		Transform:  s.transform,
		Crop:       s.crop,
		ImageW:     float64(s.artwork.Width()),
		ImageH:     float64(s.artwork.Height()),
		HasArtwork: s.artwork != nil,
		CropMode:   s.cropMode,
	}
}

// SetTransform implements gesture.Target. Callers follow up with Constrain.
func (s *Session) SetTransform(t placement.Transform) {
	s.mu.Lock()
	s.transform = t
	s.mu.Unlock()
}

// SetCrop implements gesture.Target. Callers follow up with Constrain.
func (s *Session) SetCrop(c placement.CropRect) {
	s.mu.Lock()
	s.crop = c
	s.mu.Unlock()
}

// Constrain clamps the crop to the image and the transform to the print area.
func (s *Session) Constrain() {
	s.mu.Lock()
	s.constrainLocked()
	t := s.transform
	s.mu.Unlock()
	s.events.Emit(EventTransformChanged, t)
}

func (s *Session) constrainLocked() {
	if s.artwork == nil {
		return
	}
	w, h := float64(s.artwork.Width()), float64(s.artwork.Height())
	s.crop = placement.ClampCrop(s.crop, w, h, s.settings.cropMin)
	s.transform = placement.Constrain(s.transform, s.crop, s.area.Rect)
}

// SetArea installs a new print area and re-constrains the artwork.
func (s *Session) SetArea(area placement.PrintArea) {
	s.mu.Lock()
	s.area = area
	s.mu.Unlock()
	s.Constrain()
}

// SetArtwork replaces the artwork: the crop resets to the full image, the
// artwork is placed at the top of the print area at maximum width, the
// corner swatches are resampled and the brightest one becomes the removal
// target.
func (s *Session) SetArtwork(layer *image.Layer) {
	if layer == nil || layer.Raster == nil {
		s.ClearArtwork()
		return
	}
	raster := layer.Raster
	samples := mask.SampleCornerColors(raster, s.settings.cornerInset)
	swatches := mask.DedupeColors(samples[:], s.settings.dedupeThreshold)
	target := mask.Brightest(swatches)

	s.mu.Lock()
	s.artwork = layer
	s.processed = nil
	s.crop = placement.FullCrop(float64(layer.Width()), float64(layer.Height()))
	s.transform = placement.PlaceTopMaxWidth(s.crop, s.area.Rect)
	s.swatches = swatches
	s.selected = target
	tol := s.bg.Tolerance
	s.mu.Unlock()

	logging.Logger.Info("artwork loaded",
		zap.String("side", s.side.String()),
		zap.String("file", layer.Name()),
		zap.Int("width", layer.Width()),
		zap.Int("height", layer.Height()),
		zap.Int("swatches", len(swatches)))
	warnIfTargetMatchesCenter(raster, target, tol)

	s.events.Emit(EventArtworkLoaded, s.side)
	s.events.Emit(EventSwatchesChanged, swatches)
	s.rebuild()
}

// warnIfTargetMatchesCenter logs when the auto-picked background color also
// matches the middle of the artwork, which usually means the guess is wrong.
func warnIfTargetMatchesCenter(raster *image.Raster, target *mask.ColorSample, tolerance float64) {
	if target == nil {
		return
	}
	w, h := raster.Width(), raster.Height()
	img := raster.Image()
	center := colorutil.FromColor(img.NRGBAAt(w/2, h/2))
	if float64(colorutil.DistanceSquared(center, target.RGB)) < colorutil.ToleranceSquared(tolerance) {
		logging.Logger.Warn("auto background color also matches the artwork center",
			zap.String("color", target.RGB.Hex()),
			zap.String("corners", target.Corners.String()))
	}
}

// ClearArtwork removes the artwork and returns to the resting pose.
func (s *Session) ClearArtwork() {
	s.mu.Lock()
	s.artwork = nil
	s.processed = nil
	s.crop = placement.CropRect{}
	s.transform = placement.DefaultTransform(s.settings.stage)
	s.swatches = nil
	s.selected = nil
	s.generation++
	s.mu.Unlock()
	s.events.Emit(EventArtworkCleared, s.side)
}

// SetBackground changes the removal settings and rebuilds the cut-out.
func (s *Session) SetBackground(cfg mask.Config) {
	s.mu.Lock()
	s.bg = cfg
	s.mu.Unlock()
	s.events.Emit(EventBackgroundChanged, cfg)
	s.rebuild()
}

// UpdateBackground applies fn to a copy of the removal settings.
func (s *Session) UpdateBackground(fn func(*mask.Config)) {
	s.mu.RLock()
	cfg := s.bg
	s.mu.RUnlock()
	fn(&cfg)
	s.SetBackground(cfg)
}

// SelectSwatch makes swatch i the removal target.
func (s *Session) SelectSwatch(i int) bool {
	s.mu.Lock()
	if i < 0 || i >= len(s.swatches) {
		s.mu.Unlock()
		return false
	}
	sel := s.swatches[i]
	s.selected = &sel
	s.mu.Unlock()
	s.rebuild()
	return true
}

// SetTarget sets an explicit removal target, nil to clear it.
func (s *Session) SetTarget(target *mask.ColorSample) {
	s.mu.Lock()
	if target != nil {
		t := *target
		target = &t
	}
	s.selected = target
	s.mu.Unlock()
	s.rebuild()
}

// rebuild recomputes the processed artwork in the background. Each call
// takes a new generation; a result is only published while its generation
// is still current, so the last settings always win.
func (s *Session) rebuild() {
	s.mu.Lock()
	s.generation++
	gen := s.generation
	layer, cfg := s.artwork, s.bg
	var target *mask.ColorSample
	if s.selected != nil {
		t := *s.selected
		target = &t
	}
	if layer == nil || !cfg.Enabled || target == nil {
		changed := s.processed != nil
		s.processed = nil
		s.mu.Unlock()
		if changed {
			s.events.Emit(EventProcessedChanged, s.side)
		}
		return
	}
	s.mu.Unlock()

	s.runner(func() {
		res := mask.ProcessWithStats(layer.Raster, cfg, target)

		s.mu.Lock()
		if gen != s.generation {
			s.mu.Unlock()
			logging.Logger.Debug("discarding stale mask", zap.Uint64("generation", gen))
			return
		}
		if res != nil {
			s.processed = res.Image
		} else {
			s.processed = nil
		}
		s.mu.Unlock()

		if res != nil {
			logging.Logger.Debug("mask rebuilt",
				zap.String("side", s.side.String()),
				zap.String("mode", cfg.Mode.String()),
				zap.Float64("tolerance", cfg.Tolerance),
				zap.Int("transparent", res.Stats.Transparent),
				zap.Int("partial", res.Stats.Partial),
				zap.Int("opaque", res.Stats.Opaque))
		}
		s.events.Emit(EventProcessedChanged, s.side)
	})
}

// Center moves the artwork to the middle of the print area.
func (s *Session) Center() {
	s.mutatePlacement(func() {
		s.transform = placement.Center(s.transform, s.crop, s.area.Rect)
	})
}

// Fit scales the artwork to the largest size the print area allows, top
// aligned.
func (s *Session) Fit() {
	s.mutatePlacement(func() {
		s.transform = placement.PlaceTopMaxWidth(s.crop, s.area.Rect)
	})
}

// ResetCrop shows the full image again.
func (s *Session) ResetCrop() {
	s.mutatePlacement(func() {
		s.crop = placement.FullCrop(float64(s.artwork.Width()), float64(s.artwork.Height()))
	})
}

// Nudge scales the artwork by factor about its center.
func (s *Session) Nudge(factor float64) {
	s.mutatePlacement(func() {
		s.transform.Scale *= factor
	})
}

func (s *Session) mutatePlacement(fn func()) {
	s.mu.Lock()
	if s.artwork == nil {
		s.mu.Unlock()
		return
	}
	fn()
	s.constrainLocked()
	t := s.transform
	s.mu.Unlock()
	s.events.Emit(EventTransformChanged, t)
}

// SetCropMode turns crop-handle editing on or off.
func (s *Session) SetCropMode(on bool) {
	s.mu.Lock()
	s.cropMode = on
	s.mu.Unlock()
}

// CropMode reports whether crop-handle editing is on.
func (s *Session) CropMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cropMode
}
