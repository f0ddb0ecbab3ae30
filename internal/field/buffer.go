package field

import (
	"fmt"
	"image"
	"math"

	"pose-fields/pkg/geometry"

	"gocv.io/x/gocv"
)

// RegChannels is the number of regression sub-channels per edge endpoint:
// the 2D offset followed by the four quadrant radii.
const RegChannels = 6

// RadiusChannels is the number of radius sub-channels in a regression field.
const RadiusChannels = RegChannels - 2

// Buffer is the padded working canvas of one image. It is created per
// image, filled by one generator pass and then converted with Fields.
type Buffer struct {
	edges   int
	width   int // padded
	height  int // padded
	padding int

	intensity []float32 // [edges+1][h][w]
	reg1      []float32 // [edges][6][h][w]
	reg2      []float32
	scale1    []float32 // [edges][h][w]
	scale2    []float32
	regL      []float32 // closest endpoint distance written so far
}

// Patch is a square of targets for one edge placed at (X, Y) in padded
// canvas coordinates. All per-pixel slices are Size*Size, row-major.
type Patch struct {
	X, Y, Size int

	Reg1X, Reg1Y []float64 // offset from pixel to endpoint 1
	Reg2X, Reg2Y []float64 // offset from pixel to endpoint 2
	Dist         []float64 // min of both offset lengths

	Radius1, Radius2 [RadiusChannels]float64
	Scale1, Scale2   float64
}

// Allocate creates the canvas for an output-stride image described by bg,
// where set mask pixels are excluded from the background, and pads it by
// padding pixels on every side. The background channel is eroded by
// erosion iterations of a 3x3 cross.
func Allocate(edges int, bg *geometry.Mask, padding, erosion int) (*Buffer, error) {
	w := bg.Width + 2*padding
	h := bg.Height + 2*padding
	n := w * h

	b := &Buffer{
		edges:     edges,
		width:     w,
		height:    h,
		padding:   padding,
		intensity: make([]float32, (edges+1)*n),
		reg1:      make([]float32, edges*RegChannels*n),
		reg2:      make([]float32, edges*RegChannels*n),
		scale1:    make([]float32, edges*n),
		scale2:    make([]float32, edges*n),
		regL:      make([]float32, edges*n),
	}

	inf := float32(math.Inf(1))
	nan := float32(math.NaN())
	for e := 0; e < edges; e++ {
		for c := 2; c < RegChannels; c++ {
			fill(b.regPlane(b.reg1, e, c), inf)
			fill(b.regPlane(b.reg2, e, c), inf)
		}
	}
	fill(b.scale1, nan)
	fill(b.scale2, nan)
	fill(b.regL, inf)

	b.paintBackground(bg)
	if err := erode(b.background(), w, h, erosion); err != nil {
		return nil, err
	}
	return b, nil
}

// Width returns the padded canvas width.
func (b *Buffer) Width() int { return b.width }

// Height returns the padded canvas height.
func (b *Buffer) Height() int { return b.height }

// Padding returns the padding on each side.
func (b *Buffer) Padding() int { return b.padding }

// Fits reports whether a size x size patch at (x, y) lies on the canvas.
func (b *Buffer) Fits(x, y, size int) bool {
	return x >= 0 && y >= 0 && x+size <= b.width && y+size <= b.height
}

// WritePatch paints p into edge. Intensity becomes 1 over the whole patch;
// regression and scale targets are only written at pixels where p.Dist is
// strictly smaller than the closest distance stored so far. It reports
// false, writing nothing, when the patch does not fit the canvas.
func (b *Buffer) WritePatch(edge int, p *Patch) bool {
	if !b.Fits(p.X, p.Y, p.Size) {
		return false
	}

	n := b.width * b.height
	intensity := b.intensity[edge*n : (edge+1)*n]
	regL := b.regL[edge*n : (edge+1)*n]
	scale1 := b.scale1[edge*n : (edge+1)*n]
	scale2 := b.scale2[edge*n : (edge+1)*n]

	for py := 0; py < p.Size; py++ {
		row := (p.Y + py) * b.width
		for px := 0; px < p.Size; px++ {
			i := row + p.X + px
			k := py*p.Size + px

			intensity[i] = 1

			if !(p.Dist[k] < float64(regL[i])) {
				continue
			}
			b.setReg(b.reg1, edge, i, p.Reg1X[k], p.Reg1Y[k], &p.Radius1)
			b.setReg(b.reg2, edge, i, p.Reg2X[k], p.Reg2Y[k], &p.Radius2)
			regL[i] = float32(p.Dist[k])
			scale1[i] = float32(p.Scale1)
			scale2[i] = float32(p.Scale2)
		}
	}
	return true
}

func (b *Buffer) setReg(reg []float32, edge, i int, dx, dy float64, radius *[RadiusChannels]float64) {
	n := b.width * b.height
	base := edge * RegChannels * n
	reg[base+i] = float32(dx)
	reg[base+n+i] = float32(dy)
	for c, r := range radius {
		reg[base+(c+2)*n+i] = float32(r)
	}
}

// Fields masks everything outside va (nil for no masking), crops away the
// padding and returns the output maps. The buffer must not be used after.
func (b *Buffer) Fields(va *geometry.Rect) *Maps {
	m := &Maps{
		Intensity: b.crop(b.intensity, b.edges+1),
		Reg1:      b.crop(b.reg1, b.edges, RegChannels),
		Reg2:      b.crop(b.reg2, b.edges, RegChannels),
		Scale1:    b.crop(b.scale1, b.edges),
		Scale2:    b.crop(b.scale2, b.edges),
	}

	maskValidArea(m.Intensity, planeRange(0, b.edges), va, 0)
	offsets := make([]int, 0, 2*b.edges)
	for e := 0; e < b.edges; e++ {
		offsets = append(offsets, e*RegChannels, e*RegChannels+1)
	}
	maskValidArea(m.Reg1, offsets, va, 0)
	maskValidArea(m.Reg2, offsets, va, 0)
	nan := float32(math.NaN())
	maskValidArea(m.Scale1, planeRange(0, b.edges), va, nan)
	maskValidArea(m.Scale2, planeRange(0, b.edges), va, nan)

	return m
}

// crop copies data, shaped [lead...][h][w], without the padding.
func (b *Buffer) crop(data []float32, lead ...int) *Field {
	p := b.padding
	ow, oh := b.width-2*p, b.height-2*p
	shape := append(append([]int(nil), lead...), oh, ow)
	out := NewField(0, shape...)

	n := b.width * b.height
	for plane := 0; plane < out.NumPlanes(); plane++ {
		src := data[plane*n : (plane+1)*n]
		dst := out.Plane(plane)
		for y := 0; y < oh; y++ {
			copy(dst[y*ow:(y+1)*ow], src[(y+p)*b.width+p:(y+p)*b.width+p+ow])
		}
	}
	return out
}

func (b *Buffer) regPlane(reg []float32, edge, c int) []float32 {
	n := b.width * b.height
	off := (edge*RegChannels + c) * n
	return reg[off : off+n]
}

func (b *Buffer) background() []float32 {
	n := b.width * b.height
	return b.intensity[b.edges*n:]
}

// paintBackground sets the background channel to 1 on the padding and to
// the complement of bg inside.
func (b *Buffer) paintBackground(bg *geometry.Mask) {
	plane := b.background()
	fill(plane, 1)
	p := b.padding
	for y := 0; y < bg.Height; y++ {
		for x := 0; x < bg.Width; x++ {
			if bg.At(x, y) {
				plane[(y+p)*b.width+x+p] = 0
			}
		}
	}
}

// erode applies a binary erosion with a 3x3 cross, iterations times, to a
// 0/1 plane. Pixels outside the plane count as 1.
func erode(plane []float32, w, h, iterations int) error {
	if iterations <= 0 || w == 0 || h == 0 {
		return nil
	}

	buf := make([]byte, w*h)
	for i, v := range plane {
		if v != 0 {
			buf[i] = 1
		}
	}

	src, err := gocv.NewMatFromBytes(h, w, gocv.MatTypeCV8UC1, buf)
	if err != nil {
		return fmt.Errorf("failed to wrap background: %w", err)
	}
	defer src.Close()

	cur := src.Clone()
	next := gocv.NewMat()
	defer func() {
		cur.Close()
		next.Close()
	}()

	element := gocv.GetStructuringElement(gocv.MorphCross, image.Point{3, 3})
	defer element.Close()

	// Default constant border is the maximum value, so the canvas edge
	// never erodes inward.
	for i := 0; i < iterations; i++ {
		gocv.Erode(cur, &next, element)
		cur, next = next, cur
	}

	out := cur.ToBytes()
	for i := range plane {
		plane[i] = float32(out[i])
	}
	return nil
}

func fill(s []float32, v float32) {
	for i := range s {
		s[i] = v
	}
}
