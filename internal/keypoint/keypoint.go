// Package keypoint holds the per-instance keypoint types and the two
// instance heuristics used by field generators: the base scale of an
// instance and the suppression radius towards other instances.
package keypoint

import (
	"math"

	"pose-fields/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// Keypoint is a joint location in output-stride pixels with its confidence.
// Confidence at or below a visibility threshold means "not a target".
type Keypoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Confidence float64 `json:"c"`
}

// Point returns the keypoint location.
func (k Keypoint) Point() geometry.Point2D {
	return geometry.Point2D{X: k.X, Y: k.Y}
}

// Visible reports whether the confidence exceeds threshold.
func (k Keypoint) Visible(threshold float64) bool {
	return k.Confidence > threshold
}

// Set is one annotated instance: one keypoint per joint index.
type Set []Keypoint

// Clone returns a deep copy of the set.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	copy(out, s)
	return out
}

// Quadrants is the number of max_r components returned by MaxR.
const Quadrants = 4

// Radius holds one suppression radius per quadrant around a keypoint.
// Index bit 0 is set for competitors with dx >= 0, bit 1 for dy >= 0.
type Radius [Quadrants]float64

// Min returns the smallest quadrant radius.
func (r Radius) Min() float64 {
	return floats.Min(r[:])
}

// BaseScale derives an instance scale from the spread of its visible
// keypoints: the square root of their bounding-box area. Instances with fewer
// than three visible keypoints have no meaningful spread and yield NaN.
func BaseScale(set Set) float64 {
	xs := make([]float64, 0, len(set))
	ys := make([]float64, 0, len(set))
	for _, kp := range set {
		if kp.Confidence > 0 {
			xs = append(xs, kp.X)
			ys = append(ys, kp.Y)
		}
	}
	if len(xs) < 3 {
		return math.NaN()
	}

	area := (floats.Max(xs) - floats.Min(xs)) * (floats.Max(ys) - floats.Min(ys))
	return math.Sqrt(area)
}

// MaxR returns, for each quadrant around kp, the distance to the closest
// competing keypoint in that quadrant. Empty quadrants are +Inf.
func MaxR(kp Keypoint, others []Keypoint) Radius {
	r := Radius{math.Inf(1), math.Inf(1), math.Inf(1), math.Inf(1)}
	for _, o := range others {
		dx, dy := o.X-kp.X, o.Y-kp.Y
		q := 0
		if dx >= 0 {
			q |= 1
		}
		if dy >= 0 {
			q |= 2
		}
		r[q] = math.Min(r[q], math.Hypot(dx, dy))
	}
	return r
}
