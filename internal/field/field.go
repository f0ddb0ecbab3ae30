// Package field owns the dense per-pixel training targets: the padded
// working canvas that generators paint into and the cropped output maps.
package field

import (
	"math"

	"pose-fields/pkg/geometry"
)

// Field is a dense float32 tensor in row-major order. The last two
// dimensions are always height and width; everything before them indexes
// planes.
type Field struct {
	Shape []int
	Data  []float32
}

// NewField allocates a field of the given shape filled with v.
func NewField(v float32, shape ...int) *Field {
	n := 1
	for _, d := range shape {
		n *= d
	}
	f := &Field{Shape: append([]int(nil), shape...), Data: make([]float32, n)}
	if v != 0 {
		for i := range f.Data {
			f.Data[i] = v
		}
	}
	return f
}

// Height returns the spatial height.
func (f *Field) Height() int { return f.Shape[len(f.Shape)-2] }

// Width returns the spatial width.
func (f *Field) Width() int { return f.Shape[len(f.Shape)-1] }

// PlaneSize returns height*width.
func (f *Field) PlaneSize() int { return f.Height() * f.Width() }

// NumPlanes returns the product of all leading dimensions. It is defined
// from the shape so that zero-area fields still report their planes.
func (f *Field) NumPlanes() int {
	n := 1
	for _, d := range f.Shape[:len(f.Shape)-2] {
		n *= d
	}
	return n
}

// Plane returns the i-th height*width plane as a slice into Data.
func (f *Field) Plane(i int) []float32 {
	n := f.PlaneSize()
	return f.Data[i*n : (i+1)*n]
}

// At returns the element at the given full index.
func (f *Field) At(idx ...int) float32 {
	off := 0
	for i, d := range f.Shape {
		off = off*d + idx[i]
	}
	return f.Data[off]
}

// Maps are the five encoded targets of one image, unpadded, at output stride.
//
//	Intensity  [edges+1][H][W]  last channel is background
//	Reg1, Reg2 [edges][6][H][W] offset x, offset y, 4 quadrant radii
//	Scale1/2   [edges][H][W]
type Maps struct {
	Intensity *Field
	Reg1      *Field
	Reg2      *Field
	Scale1    *Field
	Scale2    *Field
}

// Edges returns the number of edge channels.
func (m *Maps) Edges() int {
	return m.Intensity.Shape[0] - 1
}

// maskValidArea fills every pixel of the selected planes that lies outside
// the valid area. The area's far edge is extended by one pixel beyond its
// ceiling to tolerate rounding from the stride division.
func maskValidArea(f *Field, planes []int, va *geometry.Rect, fill float32) {
	if va == nil {
		return
	}

	h, w := f.Height(), f.Width()
	top, left := 0, 0
	if va.Y >= 1 {
		top = min(int(va.Y), h)
	}
	if va.X >= 1 {
		left = min(int(va.X), w)
	}
	bottom := int(math.Ceil(va.Y+va.Height)) + 1
	right := int(math.Ceil(va.X+va.Width)) + 1
	if bottom <= 0 || bottom >= h {
		bottom = h
	}
	if right <= 0 || right >= w {
		right = w
	}

	for _, p := range planes {
		plane := f.Plane(p)
		for y := 0; y < h; y++ {
			row := plane[y*w : (y+1)*w]
			if y < top || y >= bottom {
				for x := range row {
					row[x] = fill
				}
				continue
			}
			for x := 0; x < left; x++ {
				row[x] = fill
			}
			for x := right; x < w; x++ {
				row[x] = fill
			}
		}
	}
}

func planeRange(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
