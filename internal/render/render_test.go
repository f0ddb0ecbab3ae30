package render

import (
	"image"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"testing"

	"pose-fields/internal/field"

	"golang.org/x/image/tiff"
)

func TestPlaneGray(t *testing.T) {
	f := field.NewField(0, 2, 1, 4)
	copy(f.Plane(1), []float32{-1, 0.5, float32(math.NaN()), float32(math.Inf(1))})

	img := PlaneGray(f, 1, -1, 1)
	want := []uint8{0, 191, 0, 0}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("pixel %d = %d, want %d", i, img.Pix[i], v)
		}
	}
}

func TestIntensityGray(t *testing.T) {
	m := &field.Maps{Intensity: field.NewField(0, 3, 2, 2)}
	m.Intensity.Plane(0)[0] = 1
	m.Intensity.Plane(1)[3] = 1
	// background channel must be ignored
	m.Intensity.Plane(2)[1] = 1

	img := IntensityGray(m)
	want := []uint8{255, 0, 0, 255}
	for i, v := range want {
		if img.Pix[i] != v {
			t.Errorf("pixel %d = %d, want %d", i, img.Pix[i], v)
		}
	}
}

func TestWriteTIFF(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 3, 2))
	img.Pix[4] = 200
	path := filepath.Join(t.TempDir(), "plane.tiff")
	if err := WriteTIFF(path, img); err != nil {
		t.Fatalf("WriteTIFF failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	got, err := tiff.Decode(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Bounds() != img.Bounds() {
		t.Errorf("bounds %v, want %v", got.Bounds(), img.Bounds())
	}
	if g, ok := got.(*image.Gray); !ok || g.Pix[4] != 200 {
		t.Errorf("unexpected decoded image %T", got)
	}
}

func TestWriteHeatmap(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 4, 3))
	gray.Pix[5] = 255
	path := filepath.Join(t.TempDir(), "heat.png")
	if err := WriteHeatmap(path, gray, 2); err != nil {
		t.Fatalf("WriteHeatmap failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Width != 8 || cfg.Height != 6 {
		t.Errorf("heatmap size %dx%d, want 8x6", cfg.Width, cfg.Height)
	}
}
