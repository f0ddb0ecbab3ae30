package main

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"pose-fields/internal/annotation"
)

func TestImageSize_FromAnnotations(t *testing.T) {
	size, err := imageSize(annotation.Image{ID: 1, Width: 640, Height: 480}, "")
	if err != nil {
		t.Fatalf("imageSize failed: %v", err)
	}
	if size != image.Pt(640, 480) {
		t.Errorf("size = %v, want (640,480)", size)
	}
}

func TestImageSize_FromFile(t *testing.T) {
	dir := t.TempDir()
	f, err := os.Create(filepath.Join(dir, "a.png"))
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 33, 17))); err != nil {
		t.Fatal(err)
	}
	f.Close()

	size, err := imageSize(annotation.Image{ID: 2, FileName: "a.png"}, dir)
	if err != nil {
		t.Fatalf("imageSize failed: %v", err)
	}
	if size != image.Pt(33, 17) {
		t.Errorf("size = %v, want (33,17)", size)
	}

	if _, err := imageSize(annotation.Image{ID: 3}, ""); err == nil {
		t.Error("expected error without size or image directory")
	}
}

func TestLoadConfig(t *testing.T) {
	cfg, err := loadConfig("", "cocokp")
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if cfg.NKeypoints != 17 {
		t.Errorf("unexpected keypoint count %d", cfg.NKeypoints)
	}
	if _, err := loadConfig("", "nope"); err == nil {
		t.Error("expected error for unknown topology")
	}

	files := []struct {
		file      string
		keypoints int
		edges     int
	}{
		{"cocokp.yaml", 17, 19},
		{"animal.yaml", 20, 21},
		{"apollocar.yaml", 66, 49},
	}
	for _, tt := range files {
		t.Run(tt.file, func(t *testing.T) {
			cfg, err := loadConfig(filepath.Join("..", "..", "configs", tt.file), "")
			if err != nil {
				t.Fatalf("loadConfig from file failed: %v", err)
			}
			if cfg.Stride != 8 || cfg.NKeypoints != tt.keypoints || len(cfg.Skeleton) != tt.edges {
				t.Errorf("unexpected config %+v", cfg)
			}
		})
	}
}

func TestOutputName(t *testing.T) {
	a := outputName(annotation.Image{ID: 7, FileName: "train/000001.jpg"})
	b := outputName(annotation.Image{ID: 8, FileName: "val/000001.jpg"})
	if a == b {
		t.Fatalf("images with the same base name share output %q", a)
	}
	if a != "000000000007_000001" {
		t.Errorf("outputName = %q", a)
	}
	if got := outputName(annotation.Image{ID: 9}); got != "000000000009" {
		t.Errorf("outputName without file = %q", got)
	}
}
