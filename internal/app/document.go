// Package app holds the editor document: one editing session per garment
// side, the selected blank and its print area, and editor events.
package app

import (
	"fmt"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"mockup-studio/internal/config"
	"mockup-studio/internal/image"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/mask"
	"mockup-studio/internal/placement"
	"mockup-studio/internal/printarea"
	"mockup-studio/pkg/geometry"
)

// Document is a single mockup being edited.
type Document struct {
	*events

	mu       sync.RWMutex
	cfg      *config.Config
	stage    geometry.Size
	resolver *printarea.Resolver
	settings sessionSettings
	runner   Runner
	bg       mask.Config

	manifest  *printarea.Manifest
	blankBase string
	blankFile string
	blank     *image.Layer

	sessions map[image.Side]*Session
	active   image.Side
}

// Option configures a Document.
type Option func(*Document)

// WithRunner replaces the goroutine runner used for mask rebuilds.
func WithRunner(r Runner) Option {
	return func(d *Document) { d.runner = r }
}

// NewDocument creates an empty document showing the front side.
func NewDocument(cfg *config.Config, opts ...Option) *Document {
	if cfg == nil {
		cfg = config.Default()
	}
	stage := geometry.NewSize(cfg.Stage.Width, cfg.Stage.Height)
	d := &Document{
		events:   newEvents(),
		cfg:      cfg,
		stage:    stage,
		resolver: printarea.NewResolver(stage, &cfg.Print),
		settings: sessionSettings{
			stage:           stage,
			cropMin:         cfg.Crop.MinSize,
			cornerInset:     cfg.Background.CornerInset,
			dedupeThreshold: cfg.Background.DedupeThreshold,
		},
		runner:   goRunner,
		bg:       BackgroundDefaults(cfg.Background),
		sessions: make(map[image.Side]*Session),
		active:   image.SideFront,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// BackgroundDefaults converts the configured removal settings.
func BackgroundDefaults(c config.BackgroundConfig) mask.Config {
	mode, err := mask.ParseMode(c.Mode)
	if err != nil {
		logging.Logger.Warn("invalid background mode, using edge", zap.Error(err))
	}
	return mask.Config{
		Enabled:         false,
		Mode:            mode,
		Tolerance:       c.Tolerance,
		Feather:         c.Feather,
		ErodeIterations: c.ErodeIterations,
	}
}

// DefaultBackground returns the removal settings new sessions start with.
func (d *Document) DefaultBackground() mask.Config {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.bg
}

// SetDefaultBackground changes the removal settings for both sides. Sessions
// that already exist take the new values but keep their enabled flag.
func (d *Document) SetDefaultBackground(cfg mask.Config) {
	d.mu.Lock()
	d.bg = cfg
	existing := make([]*Session, 0, len(d.sessions))
	for _, s := range d.sessions {
		existing = append(existing, s)
	}
	d.mu.Unlock()

	for _, s := range existing {
		c := cfg
		c.Enabled = s.Snapshot().Background.Enabled
		s.SetBackground(c)
	}
}

// Config returns the document configuration.
func (d *Document) Config() *config.Config { return d.cfg }

// Stage returns the logical stage size.
func (d *Document) Stage() geometry.Size { return d.stage }

// Active returns the session of the side being edited, creating it on
// first use.
func (d *Document) Active() *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessionLocked(d.active)
}

// Session returns the session for side, creating it on first use.
func (d *Document) Session(side image.Side) *Session {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sessionLocked(side)
}

func (d *Document) sessionLocked(side image.Side) *Session {
	if s, ok := d.sessions[side]; ok {
		return s
	}
	s := newSession(side, d.settings, d.bg, d.resolver.Resolve(nil, 0, 0), d.runner, d.events)
	d.sessions[side] = s
	return s
}

// ActiveSide returns the side being edited.
func (d *Document) ActiveSide() image.Side {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.active
}

// SetActiveSide switches editing to side. The other side's session is left
// untouched; the blank switches to the side's variant.
func (d *Document) SetActiveSide(side image.Side) error {
	d.mu.Lock()
	if d.active == side {
		d.mu.Unlock()
		return nil
	}
	prev := d.sessionLocked(d.active).Snapshot()
	d.active = side
	d.sessionLocked(side)
	base := d.blankBase
	d.mu.Unlock()

	logging.Logger.Info("switching side",
		zap.String("from", prev.Side.String()),
		zap.String("to", side.String()),
		zap.Bool("had_artwork", prev.HasArtwork()))

	var err error
	if base != "" {
		err = d.SelectBlank(base)
	}
	d.Emit(EventSideChanged, side)
	return err
}

// LoadManifest reads the blank manifest.
func (d *Document) LoadManifest(path string) error {
	m, err := printarea.LoadManifest(path)
	if err != nil {
		return err
	}
	d.SetManifest(m)
	return nil
}

// SetManifest installs an already parsed manifest.
func (d *Document) SetManifest(m *printarea.Manifest) {
	d.mu.Lock()
	d.manifest = m
	d.mu.Unlock()
	logging.Logger.Info("blank manifest loaded", zap.Int("blanks", len(m.Blanks)))
	d.Emit(EventManifestLoaded, m)
}

// Manifest returns the loaded manifest, or nil.
func (d *Document) Manifest() *printarea.Manifest {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.manifest
}

// SelectBlank chooses a blank by its front file name and loads the variant
// for the active side from the configured blanks directory.
func (d *Document) SelectBlank(baseFile string) error {
	d.mu.RLock()
	m, side, dir := d.manifest, d.active, d.cfg.App.BlanksDir
	d.mu.RUnlock()

	if baseFile == "" {
		d.SetBlank("", "", nil, nil)
		return nil
	}
	if m == nil {
		return fmt.Errorf("no blank manifest loaded")
	}

	file := m.SideVariant(baseFile, side)
	layer, err := image.Load(filepath.Join(dir, file))
	if err != nil {
		logging.Logger.Error("failed to load blank", zap.String("file", file), zap.Error(err))
		d.SetBlank(baseFile, file, nil, nil)
		return fmt.Errorf("blank %s: %w", file, err)
	}
	var cal *printarea.Calibration
	if b, ok := m.Lookup(file); ok {
		cal = b.Calibration()
	}
	d.SetBlank(baseFile, file, layer, cal)
	return nil
}

// SetBlank installs a decoded blank and resolves the active side's print
// area from its calibration. A nil layer clears the blank.
func (d *Document) SetBlank(baseFile, file string, layer *image.Layer, cal *printarea.Calibration) {
	var area placement.PrintArea
	if layer != nil {
		area = d.resolver.Resolve(cal, float64(layer.Width()), float64(layer.Height()))
	} else {
		area = d.resolver.Resolve(nil, 0, 0)
	}

	d.mu.Lock()
	d.blankBase = baseFile
	d.blankFile = file
	d.blank = layer
	s := d.sessionLocked(d.active)
	d.mu.Unlock()

	logging.Logger.Info("blank selected",
		zap.String("file", file),
		zap.Bool("calibrated", area.Calibrated),
		zap.Float64("ppi", area.PixelsPerInch))

	s.SetArea(area)
	d.Emit(EventBlankChanged, file)
}

// Blank returns the current blank image, or nil.
func (d *Document) Blank() *image.Layer {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.blank
}

// BlankFile returns the file name of the displayed blank variant.
func (d *Document) BlankFile() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.blankFile
}

// LoadArtwork decodes path and places it on the active side.
func (d *Document) LoadArtwork(path string) error {
	layer, err := image.Load(path)
	if err != nil {
		logging.Logger.Error("failed to load artwork", zap.String("path", path), zap.Error(err))
		return err
	}
	d.Active().SetArtwork(layer)
	return nil
}
