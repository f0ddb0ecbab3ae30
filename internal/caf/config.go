// Package caf encodes composite association fields: for every skeleton edge
// of every annotated instance it paints an intensity channel, regression
// offsets to both endpoints and endpoint scales into dense training targets.
package caf

import (
	"errors"
	"fmt"

	"pose-fields/internal/topology"
)

// ErrInvalidConfig is returned when a Config cannot be used.
var ErrInvalidConfig = errors.New("invalid caf config")

// Config is the immutable encoder configuration. Build it with
// DefaultConfig and the With* modifiers, which return modified copies.
type Config struct {
	Stride     int
	NKeypoints int
	Skeleton   []topology.Edge // 1-based
	Sigmas     []float64       // per joint; nil uses the plain instance scale

	// SparseSkeleton lets dense edges be skipped when both endpoints already
	// have a sparse connection shorter than edge length / DenseToSparseRadius.
	SparseSkeleton      []topology.Edge
	DenseToSparseRadius float64

	// OnlyInFieldOfView drops edges with an endpoint outside the image.
	OnlyInFieldOfView bool
	VThreshold        float64

	MinSize     int
	FixedSize   bool
	AspectRatio float64
	Padding     int
}

// DefaultConfig returns the default configuration for a topology.
func DefaultConfig(t topology.Topology) Config {
	return Config{
		Stride:              8,
		NKeypoints:          t.NKeypoints(),
		Skeleton:            cloneEdges(t.Skeleton),
		Sigmas:              cloneFloats(t.Sigmas),
		SparseSkeleton:      cloneEdges(t.SparseSkeleton),
		DenseToSparseRadius: 2.0,
		OnlyInFieldOfView:   false,
		VThreshold:          0,
		MinSize:             3,
		FixedSize:           false,
		AspectRatio:         0.0,
		Padding:             10,
	}
}

// WithStride returns a copy with the output stride set.
func (c Config) WithStride(stride int) Config {
	c.Stride = stride
	return c
}

// WithPatch returns a copy with the patch sizing policy set. Fixed size and
// a non-zero aspect ratio are mutually exclusive.
func (c Config) WithPatch(minSize int, fixedSize bool, aspectRatio float64) Config {
	c.MinSize = minSize
	c.FixedSize = fixedSize
	c.AspectRatio = aspectRatio
	return c
}

// WithPadding returns a copy with the canvas padding set.
func (c Config) WithPadding(padding int) Config {
	c.Padding = padding
	return c
}

// WithVThreshold returns a copy with the visibility threshold set.
func (c Config) WithVThreshold(v float64) Config {
	c.VThreshold = v
	return c
}

// WithFieldOfView returns a copy with field-of-view filtering toggled.
func (c Config) WithFieldOfView(only bool) Config {
	c.OnlyInFieldOfView = only
	return c
}

// WithSparseSkeleton returns a copy using edges as the sparse skeleton.
// Passing nil disables shortcut filtering.
func (c Config) WithSparseSkeleton(edges []topology.Edge, denseToSparseRadius float64) Config {
	c.SparseSkeleton = cloneEdges(edges)
	c.DenseToSparseRadius = denseToSparseRadius
	return c
}

// WithSigmas returns a copy with per-joint sigmas. Nil disables them.
func (c Config) WithSigmas(sigmas []float64) Config {
	c.Sigmas = cloneFloats(sigmas)
	return c
}

// Validate reports configuration errors, all wrapping ErrInvalidConfig.
func (c Config) Validate() error {
	if c.Stride <= 0 {
		return fmt.Errorf("%w: stride must be positive, got %d", ErrInvalidConfig, c.Stride)
	}
	if c.NKeypoints <= 0 {
		return fmt.Errorf("%w: keypoint count must be positive, got %d", ErrInvalidConfig, c.NKeypoints)
	}
	if len(c.Skeleton) == 0 {
		return fmt.Errorf("%w: empty skeleton", ErrInvalidConfig)
	}
	if err := topology.CheckEdges(c.Skeleton, c.NKeypoints); err != nil {
		return fmt.Errorf("%w: skeleton: %v", ErrInvalidConfig, err)
	}
	if err := topology.CheckEdges(c.SparseSkeleton, c.NKeypoints); err != nil {
		return fmt.Errorf("%w: sparse skeleton: %v", ErrInvalidConfig, err)
	}
	if c.SparseSkeleton != nil && c.DenseToSparseRadius <= 0 {
		return fmt.Errorf("%w: dense to sparse radius must be positive, got %v", ErrInvalidConfig, c.DenseToSparseRadius)
	}
	if c.Sigmas != nil && len(c.Sigmas) != c.NKeypoints {
		return fmt.Errorf("%w: %d sigmas for %d keypoints", ErrInvalidConfig, len(c.Sigmas), c.NKeypoints)
	}
	if c.VThreshold < 0 {
		return fmt.Errorf("%w: negative visibility threshold %v", ErrInvalidConfig, c.VThreshold)
	}
	if c.MinSize < 1 {
		return fmt.Errorf("%w: min size must be at least 1, got %d", ErrInvalidConfig, c.MinSize)
	}
	if c.FixedSize && c.AspectRatio != 0 {
		return fmt.Errorf("%w: fixed size patches cannot use aspect ratio %v", ErrInvalidConfig, c.AspectRatio)
	}
	if c.AspectRatio < 0 {
		return fmt.Errorf("%w: negative aspect ratio %v", ErrInvalidConfig, c.AspectRatio)
	}
	if c.Padding < 0 {
		return fmt.Errorf("%w: negative padding %d", ErrInvalidConfig, c.Padding)
	}
	return nil
}

func cloneEdges(e []topology.Edge) []topology.Edge {
	if e == nil {
		return nil
	}
	return append([]topology.Edge(nil), e...)
}

func cloneFloats(f []float64) []float64 {
	if f == nil {
		return nil
	}
	return append([]float64(nil), f...)
}
