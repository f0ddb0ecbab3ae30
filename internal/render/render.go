// Package render turns encoded field maps into images for inspection.
package render

import (
	"fmt"
	"image"
	"math"
	"os"

	"pose-fields/internal/field"

	"gocv.io/x/gocv"
	"golang.org/x/image/tiff"
)

// PlaneGray maps one plane of f linearly from [lo, hi] to [0, 255].
// NaN and infinite values render black.
func PlaneGray(f *field.Field, plane int, lo, hi float64) *image.Gray {
	w, h := f.Width(), f.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	span := hi - lo
	if span <= 0 {
		span = 1
	}

	for i, v := range f.Plane(plane) {
		fv := float64(v)
		if math.IsNaN(fv) || math.IsInf(fv, 0) {
			continue
		}
		t := (fv - lo) / span
		img.Pix[i] = uint8(math.Round(255 * math.Max(0, math.Min(1, t))))
	}
	return img
}

// IntensityGray returns the per-pixel maximum over all edge intensity
// channels, excluding background, as an 8-bit image.
func IntensityGray(m *field.Maps) *image.Gray {
	w, h := m.Intensity.Width(), m.Intensity.Height()
	img := image.NewGray(image.Rect(0, 0, w, h))
	for e := 0; e < m.Edges(); e++ {
		for i, v := range m.Intensity.Plane(e) {
			if px := uint8(math.Round(255 * math.Max(0, math.Min(1, float64(v))))); px > img.Pix[i] {
				img.Pix[i] = px
			}
		}
	}
	return img
}

// WriteHeatmap colorizes gray with the jet colormap, scales it up by
// upscale with nearest-neighbour sampling and writes it to path. The format
// follows the file extension.
func WriteHeatmap(path string, gray *image.Gray, upscale int) error {
	b := gray.Bounds()
	src, err := gocv.NewMatFromBytes(b.Dy(), b.Dx(), gocv.MatTypeCV8UC1, gray.Pix)
	if err != nil {
		return fmt.Errorf("failed to wrap heatmap: %w", err)
	}
	defer src.Close()

	colored := gocv.NewMat()
	defer colored.Close()
	gocv.ApplyColorMap(src, &colored, gocv.ColormapJet)

	out := colored
	if upscale > 1 {
		scaled := gocv.NewMat()
		defer scaled.Close()
		gocv.Resize(colored, &scaled, image.Point{X: b.Dx() * upscale, Y: b.Dy() * upscale}, 0, 0, gocv.InterpolationNearestNeighbor)
		out = scaled
	}

	if !gocv.IMWrite(path, out) {
		return fmt.Errorf("failed to write heatmap %s", path)
	}
	return nil
}

// WriteTIFF writes img as a deflate-compressed TIFF.
func WriteTIFF(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	if err := tiff.Encode(f, img, &tiff.Options{Compression: tiff.Deflate}); err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	return f.Close()
}
