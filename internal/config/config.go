// Package config loads editor settings from a YAML file.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Stage      StageConfig      `mapstructure:"stage"`
	Print      PrintConfig      `mapstructure:"print"`
	Crop       CropConfig       `mapstructure:"crop"`
	Background BackgroundConfig `mapstructure:"background"`
	Render     RenderConfig     `mapstructure:"render"`
}

type AppConfig struct {
	LogMode   string `mapstructure:"log_mode"`
	Manifest  string `mapstructure:"manifest"`
	BlanksDir string `mapstructure:"blanks_dir"`
}

// StageConfig is the logical canvas all geometry is expressed in.
type StageConfig struct {
	Width         float64 `mapstructure:"width"`
	Height        float64 `mapstructure:"height"`
	MaxPixelRatio float64 `mapstructure:"max_pixel_ratio"`
}

// PrintConfig drives the fallback print area used for uncalibrated blanks.
type PrintConfig struct {
	MaxWidthInches  float64 `mapstructure:"max_width_inches"`
	MaxHeightInches float64 `mapstructure:"max_height_inches"`
	PPIHint         float64 `mapstructure:"ppi_hint"`
	Safety          float64 `mapstructure:"safety"`
	Lift            float64 `mapstructure:"lift"`
}

type CropConfig struct {
	MinSize      float64 `mapstructure:"min_size"`
	HandleRadius float64 `mapstructure:"handle_radius"`
}

type BackgroundConfig struct {
	Mode            string  `mapstructure:"mode"`
	Tolerance       float64 `mapstructure:"tolerance"`
	Feather         int     `mapstructure:"feather"`
	ErodeIterations int     `mapstructure:"erode_iterations"`
	DedupeThreshold float64 `mapstructure:"dedupe_threshold"`
	CornerInset     int     `mapstructure:"corner_inset"`
}

type RenderConfig struct {
	FrameInterval time.Duration `mapstructure:"frame_interval"`
}

// Load reads configuration from a YAML file, filling unset keys with defaults.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// New loads config.yaml from the working directory, or the defaults when it
// is missing or unreadable.
func New() *Config {
	cfg, err := Load("config.yaml")
	if err != nil {
		return Default()
	}
	return cfg
}

func setDefaults(v *viper.Viper) {
	d := Default()

	v.SetDefault("app.log_mode", d.App.LogMode)
	v.SetDefault("app.manifest", d.App.Manifest)
	v.SetDefault("app.blanks_dir", d.App.BlanksDir)

	v.SetDefault("stage.width", d.Stage.Width)
	v.SetDefault("stage.height", d.Stage.Height)
	v.SetDefault("stage.max_pixel_ratio", d.Stage.MaxPixelRatio)

	v.SetDefault("print.max_width_inches", d.Print.MaxWidthInches)
	v.SetDefault("print.max_height_inches", d.Print.MaxHeightInches)
	v.SetDefault("print.ppi_hint", d.Print.PPIHint)
	v.SetDefault("print.safety", d.Print.Safety)
	v.SetDefault("print.lift", d.Print.Lift)

	v.SetDefault("crop.min_size", d.Crop.MinSize)
	v.SetDefault("crop.handle_radius", d.Crop.HandleRadius)

	v.SetDefault("background.mode", d.Background.Mode)
	v.SetDefault("background.tolerance", d.Background.Tolerance)
	v.SetDefault("background.feather", d.Background.Feather)
	v.SetDefault("background.erode_iterations", d.Background.ErodeIterations)
	v.SetDefault("background.dedupe_threshold", d.Background.DedupeThreshold)
	v.SetDefault("background.corner_inset", d.Background.CornerInset)

	v.SetDefault("render.frame_interval", d.Render.FrameInterval)
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		App: AppConfig{
			LogMode:   "debug",
			Manifest:  "assets/shirt_blanks/manifest.json",
			BlanksDir: "assets/shirt_blanks",
		},
		Stage: StageConfig{
			Width:         1400,
			Height:        1600,
			MaxPixelRatio: 2,
		},
		Print: PrintConfig{
			MaxWidthInches:  11.7,
			MaxHeightInches: 16.5,
			PPIHint:         80,
			Safety:          40,
			Lift:            0.06,
		},
		Crop: CropConfig{
			MinSize:      20,
			HandleRadius: 16,
		},
		Background: BackgroundConfig{
			Mode:            "edge",
			Tolerance:       20,
			Feather:         0,
			ErodeIterations: 1,
			DedupeThreshold: 12,
			CornerInset:     2,
		},
		Render: RenderConfig{
			FrameInterval: 16 * time.Millisecond,
		},
	}
}
