// Command cafencode encodes CAF training targets for a COCO keypoint file.
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	"pose-fields/internal/annotation"
	"pose-fields/internal/batch"
	"pose-fields/internal/caf"
	"pose-fields/internal/field"
	"pose-fields/internal/logging"
	"pose-fields/internal/render"
	"pose-fields/internal/topology"
	"pose-fields/internal/version"

	"go.uber.org/zap"
	_ "golang.org/x/image/tiff"
)

type result struct {
	name      string
	instances int
	painted   int
}

func main() {
	annPath := flag.String("annotations", "", "Path to COCO keypoint annotations (JSON)")
	imageDir := flag.String("images", "", "Image directory, used when annotations lack image sizes")
	configPath := flag.String("config", "", "Encoder config (YAML)")
	topoName := flag.String("topology", "cocokp", "Built-in topology when no config is given ("+strings.Join(topology.Builtins, ", ")+")")
	stride := flag.Int("stride", 0, "Override output stride")
	outDir := flag.String("out", "fields", "Output directory")
	workers := flag.Int("workers", 0, "Parallel workers (0 = number of CPUs)")
	limit := flag.Int("limit", 0, "Encode at most this many images (0 = all)")
	viz := flag.Bool("viz", false, "Also write heatmap PNG and background TIFF per image")
	debug := flag.Bool("debug", false, "Debug logging")
	logFile := flag.String("log-file", "", "Also log JSON lines to this rotated file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}
	if *annPath == "" {
		fmt.Println("Usage: cafencode -annotations <coco.json> [-config encoder.yaml] [-out dir] [-viz]")
		os.Exit(1)
	}

	log := logging.New(*debug, *logFile)
	defer log.Sync()

	cfg, err := loadConfig(*configPath, *topoName)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *stride > 0 {
		cfg = cfg.WithStride(*stride)
	}

	gen, err := caf.New(cfg, caf.WithLogger(log.Named("caf")))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	ds, err := annotation.LoadCOCO(*annPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load annotations: %v\n", err)
		os.Exit(1)
	}
	images := ds.Images
	if *limit > 0 && *limit < len(images) {
		images = images[:*limit]
	}

	fmt.Printf("Encoding %d images: stride %d, %d keypoints, %d edges, min size %d\n",
		len(images), cfg.Stride, cfg.NKeypoints, len(cfg.Skeleton), cfg.MinSize)

	start := time.Now()
	results, err := batch.Run(context.Background(), *workers, images, func(_ context.Context, img annotation.Image) (result, error) {
		return encodeImage(gen, ds, img, *imageDir, *outDir, *viz, log)
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Encoding failed: %v\n", err)
		os.Exit(1)
	}

	var instances, painted int
	for _, r := range results {
		instances += r.instances
		painted += r.painted
	}
	fmt.Printf("\nEncoded %d images (%d instances, %d painted pixels) in %v\n",
		len(results), instances, painted, time.Since(start).Round(time.Millisecond))
	fmt.Printf("Output: %s\n", *outDir)
}

func loadConfig(path, topoName string) (caf.Config, error) {
	if path != "" {
		cfg, _, err := caf.LoadConfig(path)
		return cfg, err
	}
	t, ok := topology.Builtin(topoName)
	if !ok {
		return caf.Config{}, fmt.Errorf("unknown topology %q", topoName)
	}
	return caf.DefaultConfig(t), nil
}

func encodeImage(gen *caf.Generator, ds *annotation.Dataset, img annotation.Image, imageDir, outDir string, viz bool, log *zap.Logger) (result, error) {
	size, err := imageSize(img, imageDir)
	if err != nil {
		return result{}, err
	}

	anns := ds.Annotations[img.ID]
	maps, err := gen.Encode(size, anns, annotation.Meta{})
	if err != nil {
		return result{}, fmt.Errorf("image %d: %w", img.ID, err)
	}

	name := outputName(img)
	if err := field.WriteFile(outDir, name, maps); err != nil {
		return result{}, fmt.Errorf("image %d: %w", img.ID, err)
	}

	if viz {
		stride := gen.Config().Stride
		if err := render.WriteHeatmap(filepath.Join(outDir, name+"_caf.png"), render.IntensityGray(maps), stride); err != nil {
			return result{}, err
		}
		bg := render.PlaneGray(maps.Intensity, maps.Edges(), 0, 1)
		if err := render.WriteTIFF(filepath.Join(outDir, name+"_bg.tiff"), bg); err != nil {
			return result{}, err
		}
	}

	r := result{name: name, instances: len(anns)}
	for _, v := range maps.Intensity.Data[:maps.Edges()*maps.Intensity.PlaneSize()] {
		if v == 1 {
			r.painted++
		}
	}
	log.Debug("encoded image",
		zap.String("name", name),
		zap.Int("width", size.X), zap.Int("height", size.Y),
		zap.Int("annotations", len(anns)),
		zap.Int("painted", r.painted))
	return r, nil
}

// outputName is unique per image ID, so files sharing a base name in
// different directories do not overwrite each other.
func outputName(img annotation.Image) string {
	name := fmt.Sprintf("%012d", img.ID)
	base := strings.TrimSuffix(filepath.Base(img.FileName), filepath.Ext(img.FileName))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return name
	}
	return name + "_" + base
}

// imageSize prefers the size recorded in the annotations and falls back to
// the image header on disk.
func imageSize(img annotation.Image, imageDir string) (image.Point, error) {
	if img.Width > 0 && img.Height > 0 {
		return image.Pt(img.Width, img.Height), nil
	}
	if imageDir == "" {
		return image.Point{}, fmt.Errorf("image %d has no size and no -images directory was given", img.ID)
	}

	f, err := os.Open(filepath.Join(imageDir, img.FileName))
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return image.Point{}, fmt.Errorf("failed to decode %s: %w", img.FileName, err)
	}
	return image.Pt(cfg.Width, cfg.Height), nil
}
