// Command maskcheck cross-checks the background removal mask against OpenCV
// morphology on a real image and prints the differences.
package main

import (
	"flag"
	"fmt"
	"image"
	"os"

	"gocv.io/x/gocv"

	studioimage "mockup-studio/internal/image"
	"mockup-studio/internal/export"
	"mockup-studio/internal/mask"
)

func main() {
	imagePath := flag.String("image", "", "Path to artwork image")
	modeName := flag.String("mode", "edge", "Removal mode: edge or global")
	tolerance := flag.Float64("tol", 20, "Color tolerance, 0-100")
	erode := flag.Int("erode", 1, "Erosion iterations")
	feather := flag.Int("feather", 2, "Feather radius in pixels")
	swatch := flag.Int("swatch", -1, "Corner swatch index to remove, -1 for the brightest")
	outPath := flag.String("out", "", "Optional path to write the cut-out artwork")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: maskcheck -image <path> [-mode edge|global] [-tol 20] [-erode 1] [-feather 2] [-swatch N] [-out cutout.png]")
		os.Exit(1)
	}

	layer, err := studioimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	mode, err := mask.ParseMode(*modeName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}

	raster := layer.Raster
	w, h := raster.Width(), raster.Height()
	fmt.Printf("Loaded %s: %dx%d pixels\n", layer.Name(), w, h)

	swatches := mask.Swatches(raster)
	for i, s := range swatches {
		fmt.Printf("  swatch %d: %s at %s\n", i, s.RGB.Hex(), s.Corners)
	}
	target := mask.Brightest(swatches)
	if *swatch >= 0 {
		if *swatch >= len(swatches) {
			fmt.Fprintf(os.Stderr, "swatch %d out of range (have %d)\n", *swatch, len(swatches))
			os.Exit(1)
		}
		target = &swatches[*swatch]
	}
	if target == nil {
		fmt.Fprintln(os.Stderr, "No corner colors found")
		os.Exit(1)
	}
	fmt.Printf("Target: %s (%s), mode %s, tolerance %.0f\n", target.RGB.Hex(), target.Corners, mode, *tolerance)

	base := mask.BuildMask(raster.Pixels(), w, h, mode, *tolerance, *target)
	printStats("Raw mask", mask.Measure(base))

	ours := append([]uint8(nil), base...)
	mask.ErodeMask(ours, w, h, *erode)
	cv, err := cvErode(base, w, h, *erode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenCV erode failed: %v\n", err)
		os.Exit(1)
	}
	printStats("Eroded", mask.Measure(ours))
	erodeDiff := compareMasks(ours, cv, w, h, 0)
	fmt.Printf("Erode vs OpenCV:  %s\n", erodeDiff)

	blurred := append([]uint8(nil), ours...)
	mask.BlurMask(blurred, w, h, *feather)
	cvBlurred, err := cvBlur(ours, w, h, *feather)
	if err != nil {
		fmt.Fprintf(os.Stderr, "OpenCV blur failed: %v\n", err)
		os.Exit(1)
	}
	printStats("Feathered", mask.Measure(blurred))
	// Border handling differs, so only the interior is compared.
	fmt.Printf("Blur vs OpenCV:   %s\n", compareMasks(blurred, cvBlurred, w, h, *feather))

	if *outPath != "" {
		out := cutout(raster, blurred)
		if err := export.Save(out.Image(), *outPath); err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s\n", *outPath)
	}

	if erodeDiff.Mismatched > 0 {
		os.Exit(2)
	}
}

func printStats(label string, s mask.Stats) {
	total := s.Transparent + s.Partial + s.Opaque
	if total == 0 {
		total = 1
	}
	fmt.Printf("%-10s transparent %6.2f%%  partial %6.2f%%  opaque %6.2f%%\n", label,
		100*float64(s.Transparent)/float64(total),
		100*float64(s.Partial)/float64(total),
		100*float64(s.Opaque)/float64(total))
}

func cvErode(m []uint8, w, h, iterations int) ([]uint8, error) {
	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, append([]byte(nil), m...))
	if err != nil {
		return nil, err
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Point{3, 3})
	defer kernel.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	src.CopyTo(&dst)
	for i := 0; i < iterations; i++ {
		gocv.Erode(dst, &dst, kernel)
	}
	return dst.ToBytes(), nil
}

func cvBlur(m []uint8, w, h, radius int) ([]uint8, error) {
	if radius <= 0 {
		return append([]uint8(nil), m...), nil
	}
	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, append([]byte(nil), m...))
	if err != nil {
		return nil, err
	}
	defer src.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	k := 2*radius + 1
	gocv.Blur(src, &dst, image.Point{k, k})
	return dst.ToBytes(), nil
}
