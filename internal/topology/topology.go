// Package topology describes keypoint layouts: joint names, the skeleton of
// limb edges between them and the per-joint sigmas used for target scales.
package topology

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Edge is a 1-based (j1, j2) joint pair.
type Edge [2]int

// Topology is one keypoint layout. Several topologies can be used side by
// side, one per dataset in a multi-task setup.
type Topology struct {
	Name           string    `yaml:"name"`
	Keypoints      []string  `yaml:"keypoints"`
	Skeleton       []Edge    `yaml:"skeleton"`
	SparseSkeleton []Edge    `yaml:"sparse_skeleton,omitempty"`
	Sigmas         []float64 `yaml:"sigmas,omitempty"`
}

// ErrInvalid is returned for malformed topologies.
var ErrInvalid = errors.New("invalid topology")

// NKeypoints returns the number of joints.
func (t Topology) NKeypoints() int {
	return len(t.Keypoints)
}

// Validate checks that every edge references an existing joint and that
// sigmas, when present, cover every joint.
func (t Topology) Validate() error {
	n := t.NKeypoints()
	if n == 0 {
		return fmt.Errorf("%w %q: no keypoints", ErrInvalid, t.Name)
	}
	if len(t.Skeleton) == 0 {
		return fmt.Errorf("%w %q: empty skeleton", ErrInvalid, t.Name)
	}
	if err := CheckEdges(t.Skeleton, n); err != nil {
		return fmt.Errorf("%w %q: skeleton: %v", ErrInvalid, t.Name, err)
	}
	if err := CheckEdges(t.SparseSkeleton, n); err != nil {
		return fmt.Errorf("%w %q: sparse skeleton: %v", ErrInvalid, t.Name, err)
	}
	if t.Sigmas != nil && len(t.Sigmas) != n {
		return fmt.Errorf("%w %q: %d sigmas for %d keypoints", ErrInvalid, t.Name, len(t.Sigmas), n)
	}
	return nil
}

// CheckEdges verifies that all joint indices are within [1, n].
func CheckEdges(edges []Edge, n int) error {
	for i, e := range edges {
		for _, j := range e {
			if j < 1 || j > n {
				return fmt.Errorf("edge %d (%d, %d) references joint outside [1, %d]", i, e[0], e[1], n)
			}
		}
	}
	return nil
}

// Load reads a topology from a YAML file and validates it.
func Load(path string) (Topology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Topology{}, fmt.Errorf("failed to read topology: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML topology.
func Parse(data []byte) (Topology, error) {
	var t Topology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return Topology{}, fmt.Errorf("failed to parse topology: %w", err)
	}
	if err := t.Validate(); err != nil {
		return Topology{}, err
	}
	return t, nil
}

// Builtins lists the canonical names accepted by Builtin.
var Builtins = []string{"cocokp", "animal", "apollocar"}

// Builtin returns a built-in topology by name.
func Builtin(name string) (Topology, bool) {
	switch name {
	case "cocokp", "coco", "person":
		return CocoPerson(), true
	case "animal", "animalpose":
		return AnimalPose(), true
	case "apollocar", "apollo", "car":
		return ApolloCar(), true
	default:
		return Topology{}, false
	}
}
