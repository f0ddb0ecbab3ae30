package caf

import (
	"fmt"
	"os"
	"path/filepath"

	"pose-fields/internal/topology"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML layout of an encoder config file. Keys that are
// absent keep their DefaultConfig value.
type fileConfig struct {
	Topology            string    `yaml:"topology"`
	TopologyFile        string    `yaml:"topology_file"`
	Stride              int       `yaml:"stride"`
	MinSize             int       `yaml:"min_size"`
	FixedSize           bool      `yaml:"fixed_size"`
	AspectRatio         float64   `yaml:"aspect_ratio"`
	Padding             int       `yaml:"padding"`
	VThreshold          float64   `yaml:"v_threshold"`
	OnlyInFieldOfView   bool      `yaml:"only_in_field_of_view"`
	DenseToSparseRadius float64   `yaml:"dense_to_sparse_radius"`
	UseSparseSkeleton   *bool     `yaml:"use_sparse_skeleton"`
	UseSigmas           *bool     `yaml:"use_sigmas"`
	Sigmas              []float64 `yaml:"sigmas"`
}

// LoadConfig reads an encoder YAML file. The topology comes from
// topology_file (relative to the config file) or a built-in name.
func LoadConfig(path string) (Config, topology.Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, topology.Topology{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data, filepath.Dir(path))
}

// ParseConfig decodes an encoder YAML document; dir resolves relative
// topology files.
func ParseConfig(data []byte, dir string) (Config, topology.Topology, error) {
	// Resolve the topology first so defaults can be derived from it.
	var head fileConfig
	if err := yaml.Unmarshal(data, &head); err != nil {
		return Config{}, topology.Topology{}, fmt.Errorf("failed to parse config: %w", err)
	}

	topo, err := resolveTopology(head.Topology, head.TopologyFile, dir)
	if err != nil {
		return Config{}, topology.Topology{}, err
	}

	def := DefaultConfig(topo)
	fc := fileConfig{
		Stride:              def.Stride,
		MinSize:             def.MinSize,
		FixedSize:           def.FixedSize,
		AspectRatio:         def.AspectRatio,
		Padding:             def.Padding,
		VThreshold:          def.VThreshold,
		OnlyInFieldOfView:   def.OnlyInFieldOfView,
		DenseToSparseRadius: def.DenseToSparseRadius,
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, topology.Topology{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg := def.
		WithStride(fc.Stride).
		WithPatch(fc.MinSize, fc.FixedSize, fc.AspectRatio).
		WithPadding(fc.Padding).
		WithVThreshold(fc.VThreshold).
		WithFieldOfView(fc.OnlyInFieldOfView).
		WithSparseSkeleton(def.SparseSkeleton, fc.DenseToSparseRadius)
	if fc.UseSparseSkeleton != nil && !*fc.UseSparseSkeleton {
		cfg = cfg.WithSparseSkeleton(nil, fc.DenseToSparseRadius)
	}
	if fc.Sigmas != nil {
		cfg = cfg.WithSigmas(fc.Sigmas)
	}
	if fc.UseSigmas != nil && !*fc.UseSigmas {
		cfg = cfg.WithSigmas(nil)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, topology.Topology{}, err
	}
	return cfg, topo, nil
}

func resolveTopology(name, file, dir string) (topology.Topology, error) {
	if file != "" {
		if !filepath.IsAbs(file) {
			file = filepath.Join(dir, file)
		}
		return topology.Load(file)
	}
	if name == "" {
		name = "cocokp"
	}
	t, ok := topology.Builtin(name)
	if !ok {
		return topology.Topology{}, fmt.Errorf("%w: unknown topology %q", ErrInvalidConfig, name)
	}
	return t, nil
}
