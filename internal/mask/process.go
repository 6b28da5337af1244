package mask

import (
	"image"
)

// Config controls background removal.
type Config struct {
	Enabled         bool    `mapstructure:"enabled" json:"enabled"`
	Mode            Mode    `mapstructure:"-" json:"mode"`
	Tolerance       float64 `mapstructure:"tolerance" json:"tolerance"`
	Feather         int     `mapstructure:"feather" json:"feather"`
	ErodeIterations int     `mapstructure:"erode_iterations" json:"erode_iterations"`
}

// DefaultConfig returns background removal switched off, edge mode,
// tolerance 20, no feathering and a single erosion pass.
func DefaultConfig() Config {
	return Config{
		Enabled:         false,
		Mode:            ModeEdge,
		Tolerance:       20,
		Feather:         0,
		ErodeIterations: 1,
	}
}

// Result is a processed artwork plus the mask statistics that produced it.
type Result struct {
	Image *image.NRGBA
	Stats Stats
}

// Process runs the full pipeline on a copy of buf's pixels and returns the
// cut-out artwork. It returns nil when removal is disabled, there is no
// target, or buf is empty. buf itself is never written.
func Process(buf Buffer, cfg Config, target *ColorSample) *image.NRGBA {
	res := ProcessWithStats(buf, cfg, target)
	if res == nil {
		return nil
	}
	return res.Image
}

// ProcessWithStats is Process that also reports how much of the mask was
// cleared.
func ProcessWithStats(buf Buffer, cfg Config, target *ColorSample) *Result {
	if !cfg.Enabled || target == nil || buf == nil {
		return nil
	}
	w, h := buf.Width(), buf.Height()
	if w <= 0 || h <= 0 {
		return nil
	}
	pix := buf.Pixels()
	if len(pix) < w*h*4 {
		return nil
	}

	m := BuildMask(pix, w, h, cfg.Mode, cfg.Tolerance, *target)
	ErodeMask(m, w, h, cfg.ErodeIterations)
	if cfg.Feather > 0 {
		BlurMask(m, w, h, cfg.Feather)
	}
	ApplyMask(pix, m)

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	copy(out.Pix, pix)
	return &Result{Image: out, Stats: Measure(m)}
}
