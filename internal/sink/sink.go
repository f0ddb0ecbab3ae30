// Package sink generates the square grids of offset vectors that field
// generators shift onto a keypoint to get per-pixel regression targets.
package sink

import (
	"gonum.org/v1/gonum/floats"
)

// Kernel is a size x size grid of 2D offsets, stored as two row-major planes.
// DX[y*Size+x] points from pixel (x, y) to the kernel center horizontally,
// DY likewise vertically.
type Kernel struct {
	Size int
	DX   []float64
	DY   []float64
}

// New builds the kernel of the given side. A side of 1 is the single zero
// vector; sizes below 1 are treated as 1.
func New(size int) Kernel {
	size = max(size, 1)
	k := Kernel{
		Size: size,
		DX:   make([]float64, size*size),
		DY:   make([]float64, size*size),
	}
	if size == 1 {
		return k
	}

	half := float64(size-1) / 2
	line := floats.Span(make([]float64, size), half, -half)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			k.DX[y*size+x] = line[x]
			k.DY[y*size+x] = line[y]
		}
	}
	return k
}

// At returns the offset at (x, y).
func (k Kernel) At(x, y int) (dx, dy float64) {
	i := y*k.Size + x
	return k.DX[i], k.DY[i]
}
