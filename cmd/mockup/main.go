// Command mockup renders a shirt mockup without the editor: it places the
// artwork at the top of the print area, optionally removes its background,
// and writes the composited stage to an image file.
package main

import (
	"flag"
	"fmt"
	"os"

	"mockup-studio/internal/app"
	"mockup-studio/internal/config"
	"mockup-studio/internal/export"
	"mockup-studio/internal/image"
	"mockup-studio/internal/logging"
	"mockup-studio/internal/mask"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	manifestPath := flag.String("manifest", "", "Blank manifest (defaults to the configured one)")
	blank := flag.String("blank", "", "Front file name of the blank to use")
	side := flag.String("side", "front", "Garment side: front or back")
	artwork := flag.String("artwork", "", "Path to artwork image")
	removeBg := flag.Bool("bg", false, "Remove the artwork background")
	mode := flag.String("mode", "", "Removal mode: edge or global")
	tolerance := flag.Float64("tol", -1, "Color tolerance, 0-100")
	feather := flag.Int("feather", -1, "Feather radius in pixels")
	erode := flag.Int("erode", -1, "Erosion iterations")
	swatch := flag.Int("swatch", -1, "Corner swatch to remove, -1 for the brightest")
	center := flag.Bool("center", false, "Center the artwork instead of top-aligning it")
	scale := flag.Float64("scale", 1, "Extra scale factor applied after placement")
	width := flag.Int("w", 0, "Output width (default: stage width)")
	height := flag.Int("h", 0, "Output height (default: stage height)")
	out := flag.String("out", "mockup.png", "Output file")
	artworkOut := flag.String("artwork-out", "", "Also write the cropped, cut-out artwork here")
	thumb := flag.Int("thumb", 0, "Also write a thumbnail of this size next to -out")
	flag.Parse()

	if *artwork == "" {
		fmt.Println("Usage: mockup -artwork <path> [-blank tee_front.png] [-side front|back] [-bg] [-out mockup.png]")
		os.Exit(1)
	}

	cfg := config.New()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if err := logging.InitLogger(cfg.App.LogMode); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	doc := app.NewDocument(cfg, app.WithRunner(func(task func()) { task() }))

	manifest := cfg.App.Manifest
	if *manifestPath != "" {
		manifest = *manifestPath
	}
	if *blank != "" {
		if err := doc.LoadManifest(manifest); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load manifest: %v\n", err)
			os.Exit(1)
		}
	}
	if err := doc.SetActiveSide(image.ParseSide(*side)); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to switch side: %v\n", err)
		os.Exit(1)
	}
	if *blank != "" {
		if err := doc.SelectBlank(*blank); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to load blank: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Blank: %s\n", doc.BlankFile())
	}

	if err := doc.LoadArtwork(*artwork); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load artwork: %v\n", err)
		os.Exit(1)
	}
	s := doc.Active()

	snap := s.Snapshot()
	for i, sw := range snap.Swatches {
		fmt.Printf("  swatch %d: %s at %s\n", i, sw.RGB.Hex(), sw.Corners)
	}
	if *swatch >= 0 && !s.SelectSwatch(*swatch) {
		fmt.Fprintf(os.Stderr, "Swatch %d out of range (have %d)\n", *swatch, len(snap.Swatches))
		os.Exit(1)
	}

	var modeErr error
	s.UpdateBackground(func(c *mask.Config) {
		c.Enabled = *removeBg
		if *mode != "" {
			c.Mode, modeErr = mask.ParseMode(*mode)
		}
		if *tolerance >= 0 {
			c.Tolerance = *tolerance
		}
		if *feather >= 0 {
			c.Feather = *feather
		}
		if *erode >= 0 {
			c.ErodeIterations = *erode
		}
	})
	if modeErr != nil {
		fmt.Fprintf(os.Stderr, "%v\n", modeErr)
		os.Exit(1)
	}

	if *scale > 0 && *scale != 1 {
		s.Nudge(*scale)
	}
	if *center {
		s.Center()
	}

	snap = s.Snapshot()
	fmt.Printf("Artwork: %dx%d at (%.1f, %.1f) scale %.3f\n",
		snap.Artwork.Width(), snap.Artwork.Height(),
		snap.Transform.TX, snap.Transform.TY, snap.Transform.Scale)
	if w, h, ok := snap.SizeInches(); ok {
		fmt.Printf("Print size: %.2f x %.2f in\n", w, h)
	} else {
		fmt.Println("Print size: unavailable (blank not calibrated)")
	}

	img := export.NewRenderer().Mockup(doc, *width, *height)
	if err := export.Save(img, *out); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", *out)

	if *thumb > 0 {
		path := thumbPath(*out, *thumb)
		if err := export.Save(export.Thumbnail(img, *thumb), path); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", path)
	}

	if *artworkOut != "" {
		if err := export.Save(export.CroppedArtwork(snap), *artworkOut); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *artworkOut)
	}
}
