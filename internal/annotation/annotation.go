// Package annotation converts raw image annotations into the inputs of the
// field generators: keypoint sets at output stride, the background mask and
// the valid image area.
package annotation

import (
	"math"

	"pose-fields/internal/keypoint"
	"pose-fields/pkg/geometry"
)

// Annotation is one annotated object in original image pixels.
type Annotation struct {
	ID        int64
	ImageID   int64
	Keypoints keypoint.Set         // x, y in original pixels
	BBox      geometry.Rect        // x, y, width, height in original pixels
	Polygons  [][]geometry.Point2D // optional segmentation, original pixels
	IsCrowd   bool
}

// HasVisibleKeypoints reports whether any keypoint has positive confidence.
func (a Annotation) HasVisibleKeypoints() bool {
	for _, kp := range a.Keypoints {
		if kp.Confidence > 0 {
			return true
		}
	}
	return false
}

// Meta carries per-image information produced by preprocessing.
type Meta struct {
	// ValidArea is the region of the image, in original pixels, that holds
	// real content. Nil means the whole image is valid.
	ValidArea *geometry.Rect
}

// Rescaler maps annotations to output-stride coordinates.
type Rescaler struct {
	Stride     int
	NKeypoints int
}

// NewRescaler creates a Rescaler.
func NewRescaler(stride, nKeypoints int) Rescaler {
	return Rescaler{Stride: stride, NKeypoints: nKeypoints}
}

// KeypointSets returns one keypoint set per non-crowd annotation with x and y
// divided by the stride. Sets are padded or truncated to NKeypoints.
func (r Rescaler) KeypointSets(anns []Annotation) []keypoint.Set {
	stride := float64(r.Stride)
	sets := make([]keypoint.Set, 0, len(anns))
	for _, ann := range anns {
		if ann.IsCrowd {
			continue
		}
		set := make(keypoint.Set, r.NKeypoints)
		for i := 0; i < r.NKeypoints && i < len(ann.Keypoints); i++ {
			kp := ann.Keypoints[i]
			set[i] = keypoint.Keypoint{X: kp.X / stride, Y: kp.Y / stride, Confidence: kp.Confidence}
		}
		sets = append(sets, set)
	}
	return sets
}

// OutputSize returns the output-stride size of an image of the given size.
func (r Rescaler) OutputSize(width, height int) (int, int) {
	return (width-1)/r.Stride + 1, (height-1)/r.Stride + 1
}

// BackgroundMask returns the output-stride mask of pixels that must not be
// used as background: crowd regions and annotations without any visible
// keypoint. Their segmentation is used when present, their bounding box
// otherwise.
func (r Rescaler) BackgroundMask(anns []Annotation, width, height int) *geometry.Mask {
	w, h := r.OutputSize(width, height)
	mask := geometry.NewMask(w, h)
	stride := float64(r.Stride)

	for _, ann := range anns {
		if !ann.IsCrowd && ann.HasVisibleKeypoints() {
			continue
		}

		if len(ann.Polygons) > 0 {
			r.fillPolygons(mask, ann.Polygons)
			continue
		}

		bb := ann.BBox.Div(stride)
		br := bb.BottomRight()
		mask.FillRect(int(bb.X), int(bb.Y), int(br.X+1), int(br.Y+1), true)
	}

	return mask
}

// fillPolygons marks output pixels whose original-resolution sample point
// (x*stride, y*stride) falls inside any polygon.
func (r Rescaler) fillPolygons(mask *geometry.Mask, polygons [][]geometry.Point2D) {
	stride := float64(r.Stride)
	for _, poly := range polygons {
		bounds := geometry.BoundingBox(poly).Div(stride)
		br := bounds.BottomRight()
		x0, y0 := max(int(math.Floor(bounds.X)), 0), max(int(math.Floor(bounds.Y)), 0)
		x1, y1 := min(int(math.Ceil(br.X)), mask.Width-1), min(int(math.Ceil(br.Y)), mask.Height-1)
		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				p := geometry.Point2D{X: float64(x) * stride, Y: float64(y) * stride}
				if geometry.PointInPolygon(p, poly) {
					mask.Set(x, y, true)
				}
			}
		}
	}
}

// ValidArea returns the meta valid area in output-stride pixels, or nil.
func (r Rescaler) ValidArea(meta Meta) *geometry.Rect {
	if meta.ValidArea == nil {
		return nil
	}
	va := meta.ValidArea.Div(float64(r.Stride))
	return &va
}
