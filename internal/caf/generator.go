package caf

import (
	"errors"
	"fmt"
	"image"
	"math"

	"pose-fields/internal/annotation"
	"pose-fields/internal/field"
	"pose-fields/internal/keypoint"
	"pose-fields/internal/sink"
	"pose-fields/pkg/geometry"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// eps guards the fractional margin of degenerate, zero-length edges.
const eps = 0x1p-52

// ScaleFunc derives the base scale of one instance.
type ScaleFunc func(keypoint.Set) float64

// MaxRFunc returns the suppression radii of a keypoint against the same
// joint of competing instances.
type MaxRFunc func(kp keypoint.Keypoint, others []keypoint.Keypoint) keypoint.Radius

// SinkFunc returns the sink kernel of a given side.
type SinkFunc func(size int) sink.Kernel

// Option customizes a Generator.
type Option func(*Generator)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(g *Generator) { g.log = l }
}

// WithScaleFunc replaces the instance scale heuristic.
func WithScaleFunc(f ScaleFunc) Option {
	return func(g *Generator) { g.scale = f }
}

// WithMaxRFunc replaces the suppression radius computation.
func WithMaxRFunc(f MaxRFunc) Option {
	return func(g *Generator) { g.maxR = f }
}

// WithSinkFunc replaces the sink kernel generator.
func WithSinkFunc(f SinkFunc) Option {
	return func(g *Generator) { g.sink = f }
}

// Generator encodes CAF targets. It holds only immutable configuration, so
// one Generator may encode many images concurrently.
type Generator struct {
	config   Config
	rescaler annotation.Rescaler
	skeleton [][2]int // 0-based
	sparse   [][2]int // 0-based, nil when disabled

	scale ScaleFunc
	maxR  MaxRFunc
	sink  SinkFunc
	log   *zap.Logger
}

// New validates cfg and creates a Generator.
func New(cfg Config, opts ...Option) (*Generator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		config:   cfg,
		rescaler: annotation.NewRescaler(cfg.Stride, cfg.NKeypoints),
		scale:    keypoint.BaseScale,
		maxR:     keypoint.MaxR,
		sink:     sink.New,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}

	for _, e := range cfg.Skeleton {
		g.skeleton = append(g.skeleton, [2]int{e[0] - 1, e[1] - 1})
	}
	if cfg.SparseSkeleton != nil {
		g.sparse = make([][2]int, 0, len(cfg.SparseSkeleton))
		for _, e := range cfg.SparseSkeleton {
			g.sparse = append(g.sparse, [2]int{e[0] - 1, e[1] - 1})
		}
	}

	g.log.Debug("caf generator",
		zap.Int("stride", cfg.Stride),
		zap.Int("keypoints", cfg.NKeypoints),
		zap.Int("edges", len(cfg.Skeleton)),
		zap.Bool("only_in_field_of_view", cfg.OnlyInFieldOfView),
		zap.Int("min_size", cfg.MinSize),
		zap.Bool("fixed_size", cfg.FixedSize),
		zap.Float64("aspect_ratio", cfg.AspectRatio))
	return g, nil
}

// Config returns the generator configuration.
func (g *Generator) Config() Config {
	return g.config
}

// Encode rescales the annotations of an image of the given original size
// and encodes its fields.
func (g *Generator) Encode(size image.Point, anns []annotation.Annotation, meta annotation.Meta) (*field.Maps, error) {
	sets := g.rescaler.KeypointSets(anns)
	bg := g.rescaler.BackgroundMask(anns, size.X, size.Y)
	va := g.rescaler.ValidArea(meta)
	if va != nil {
		g.log.Debug("valid area",
			zap.Float64("x", va.X), zap.Float64("y", va.Y),
			zap.Float64("width", va.Width), zap.Float64("height", va.Height))
	}
	return g.EncodeSets(sets, bg, va)
}

// EncodeSets encodes already rescaled keypoint sets. bg is the output-stride
// mask of pixels excluded from the background and defines the output size;
// va is the valid area in output-stride pixels, or nil.
func (g *Generator) EncodeSets(sets []keypoint.Set, bg *geometry.Mask, va *geometry.Rect) (*field.Maps, error) {
	if bg == nil {
		return nil, errors.New("background mask is required")
	}

	buf, err := field.Allocate(len(g.skeleton), bg, g.config.Padding, g.config.MinSize/2+1)
	if err != nil {
		return nil, fmt.Errorf("failed to allocate fields: %w", err)
	}

	p := &painter{Generator: g, buf: buf, width: bg.Width, height: bg.Height}
	for i, set := range sets {
		others := make([]keypoint.Set, 0, len(sets)-1)
		others = append(others, sets[:i]...)
		others = append(others, sets[i+1:]...)
		p.fillKeypoints(set, others)
	}

	g.log.Debug("encoded caf",
		zap.Int("instances", len(sets)),
		zap.Int("painted", p.painted),
		zap.Int("skipped", p.skipped))
	return buf.Fields(va), nil
}

// painter carries the per-image state of one EncodeSets call.
type painter struct {
	*Generator
	buf           *field.Buffer
	width, height int // unpadded

	painted, skipped int
}

func (g *Generator) joint(set keypoint.Set, i int) keypoint.Keypoint {
	if i < 0 || i >= len(set) {
		return keypoint.Keypoint{}
	}
	return set[i]
}

func (g *Generator) visible(kp keypoint.Keypoint) bool {
	return kp.Visible(g.config.VThreshold)
}

// shortestSparse returns the length of the shortest sparse edge touching
// joint whose endpoints are both visible, or +Inf.
func (g *Generator) shortestSparse(joint int, set keypoint.Set) float64 {
	shortest := math.Inf(1)
	for _, e := range g.sparse {
		if joint != e[0] && joint != e[1] {
			continue
		}
		a, b := g.joint(set, e[0]), g.joint(set, e[1])
		if !g.visible(a) || !g.visible(b) {
			continue
		}
		shortest = math.Min(shortest, a.Point().Distance(b.Point()))
	}
	return shortest
}

// inView reports whether kp lies on the unpadded canvas.
func (p *painter) inView(kp keypoint.Keypoint) bool {
	view := geometry.NewRect(0, 0, float64(p.width-1), float64(p.height-1))
	return view.Contains(kp.Point())
}

// competitors returns the visible joint i of all other instances.
func (p *painter) competitors(i int, others []keypoint.Set) []keypoint.Keypoint {
	var out []keypoint.Keypoint
	for _, o := range others {
		if kp := p.joint(o, i); p.visible(kp) {
			out = append(out, kp)
		}
	}
	return out
}

func (p *painter) fillKeypoints(set keypoint.Set, others []keypoint.Set) {
	scale := p.scale(set)

	for edge, e := range p.skeleton {
		j1i, j2i := e[0], e[1]
		j1, j2 := p.joint(set, j1i), p.joint(set, j2i)
		if !p.visible(j1) || !p.visible(j2) {
			continue
		}

		// dense edges are redundant when both ends have a shorter sparse link
		if p.sparse != nil {
			d := j1.Point().Distance(j2.Point()) / p.config.DenseToSparseRadius
			if p.shortestSparse(j1i, set) < d && p.shortestSparse(j2i, set) < d {
				p.skipped++
				continue
			}
		}

		// without a continuous visual connection, endpoints outside the
		// field of view cannot be inferred
		if p.config.OnlyInFieldOfView && (!p.inView(j1) || !p.inView(j2)) {
			p.skipped++
			continue
		}

		maxR1 := p.maxR(j1, p.competitors(j1i, others))
		maxR2 := p.maxR(j2, p.competitors(j2i, others))

		scale1, scale2 := scale, scale
		if p.config.Sigmas != nil {
			scale1 = scale * p.config.Sigmas[j1i]
			scale2 = scale * p.config.Sigmas[j2i]
		}
		scale1 = math.Min(scale1, maxR1.Min()*0.25)
		scale2 = math.Min(scale2, maxR2.Min()*0.25)

		p.fillAssociation(edge, j1, j2, scale1, scale2, maxR1, maxR2)
		p.painted++
	}
}

func (p *painter) fillAssociation(edge int, j1, j2 keypoint.Keypoint, scale1, scale2 float64, maxR1, maxR2 keypoint.Radius) {
	p1, p2 := j1.Point(), j2.Point()
	offsetD := p2.Sub(p1).Norm()

	s := max(p.config.MinSize, int(offsetD*p.config.AspectRatio))
	kernel := p.sink(s)
	sOffset := float64(s-1) / 2
	shift := geometry.NewPoint2D(sOffset, sOffset)

	// top-left pixel of a patch centered on each joint
	anchor1 := p1.Sub(shift).Round()
	anchor2 := p2.Sub(shift).Round()
	offsetij := anchor2.Sub(anchor1)

	var frange []float64
	if p.config.FixedSize {
		frange = []float64{0.5}
	} else {
		num := max(2, int(math.Ceil(offsetD)))
		fmargin := math.Min(0.4, (sOffset+1)/(offsetD+eps))
		frange = floats.Span(make([]float64, num), fmargin, 1.0-fmargin)
	}

	n := s * s
	patch := &field.Patch{
		Size:   s,
		Reg1X:  make([]float64, n),
		Reg1Y:  make([]float64, n),
		Reg2X:  make([]float64, n),
		Reg2Y:  make([]float64, n),
		Dist:   make([]float64, n),
		Scale1: scale1,
		Scale2: scale2,
	}
	for q := range maxR1 {
		patch.Radius1[q] = maxR1[q] * 0.5
		patch.Radius2[q] = maxR2[q] * 0.5
	}

	pad := p.config.Padding
	for _, f := range frange {
		fij := anchor1.Add(offsetij.Scale(f)).Round()
		patch.X, patch.Y = int(fij.X)+pad, int(fij.Y)+pad
		if !p.buf.Fits(patch.X, patch.Y, s) {
			continue
		}

		// precise floating point offset of the sinks
		center := fij.Add(shift)
		d1, d2 := p1.Sub(center), p2.Sub(center)
		for k := 0; k < n; k++ {
			patch.Reg1X[k] = kernel.DX[k] + d1.X
			patch.Reg1Y[k] = kernel.DY[k] + d1.Y
			patch.Reg2X[k] = kernel.DX[k] + d2.X
			patch.Reg2Y[k] = kernel.DY[k] + d2.Y
			patch.Dist[k] = math.Min(
				math.Hypot(patch.Reg1X[k], patch.Reg1Y[k]),
				math.Hypot(patch.Reg2X[k], patch.Reg2Y[k]))
		}

		p.buf.WritePatch(edge, patch)
	}
}
