package topology

import (
	"errors"
	"testing"
)

func TestCocoPersonValid(t *testing.T) {
	coco := CocoPerson()
	if err := coco.Validate(); err != nil {
		t.Fatalf("built-in topology invalid: %v", err)
	}
	if coco.NKeypoints() != 17 || len(coco.Skeleton) != 19 {
		t.Errorf("unexpected sizes: %d keypoints, %d edges", coco.NKeypoints(), len(coco.Skeleton))
	}
}

func TestBuiltin(t *testing.T) {
	tests := []struct {
		name      string
		keypoints int
		edges     int
	}{
		{"cocokp", 17, 19},
		{"animal", 20, 21},
		{"apollocar", 66, 49},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			topo, ok := Builtin(tt.name)
			if !ok {
				t.Fatalf("expected %s to be built in", tt.name)
			}
			if err := topo.Validate(); err != nil {
				t.Fatalf("built-in topology invalid: %v", err)
			}
			if topo.Name != tt.name {
				t.Errorf("name = %q, want %q", topo.Name, tt.name)
			}
			if topo.NKeypoints() != tt.keypoints || len(topo.Skeleton) != tt.edges {
				t.Errorf("got %d keypoints, %d edges; want %d, %d",
					topo.NKeypoints(), len(topo.Skeleton), tt.keypoints, tt.edges)
			}
			if len(topo.Sigmas) != tt.keypoints {
				t.Errorf("got %d sigmas", len(topo.Sigmas))
			}
		})
	}

	if len(Builtins) != len(tests) {
		t.Errorf("Builtins lists %d names, want %d", len(Builtins), len(tests))
	}
	if _, ok := Builtin("hand"); ok {
		t.Error("hand should not be built in")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		topo Topology
		ok   bool
	}{
		{"valid", Topology{Keypoints: []string{"a", "b"}, Skeleton: []Edge{{1, 2}}}, true},
		{"no keypoints", Topology{Skeleton: []Edge{{1, 2}}}, false},
		{"empty skeleton", Topology{Keypoints: []string{"a"}}, false},
		{"index too large", Topology{Keypoints: []string{"a", "b"}, Skeleton: []Edge{{1, 3}}}, false},
		{"zero index", Topology{Keypoints: []string{"a", "b"}, Skeleton: []Edge{{0, 1}}}, false},
		{"bad sparse", Topology{Keypoints: []string{"a", "b"}, Skeleton: []Edge{{1, 2}}, SparseSkeleton: []Edge{{2, 5}}}, false},
		{"sigma count", Topology{Keypoints: []string{"a", "b"}, Skeleton: []Edge{{1, 2}}, Sigmas: []float64{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.topo.Validate()
			if tt.ok && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParse(t *testing.T) {
	data := []byte(`
name: wheel
keypoints: [hub, rim_top, rim_bottom]
skeleton:
  - [1, 2]
  - [1, 3]
sparse_skeleton:
  - [1, 2]
sigmas: [0.05, 0.1, 0.1]
`)
	topo, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if topo.Name != "wheel" || topo.NKeypoints() != 3 {
		t.Errorf("unexpected topology %+v", topo)
	}
	if len(topo.Skeleton) != 2 || topo.Skeleton[1] != (Edge{1, 3}) {
		t.Errorf("unexpected skeleton %v", topo.Skeleton)
	}
	if len(topo.SparseSkeleton) != 1 || len(topo.Sigmas) != 3 {
		t.Errorf("unexpected sparse skeleton/sigmas %v %v", topo.SparseSkeleton, topo.Sigmas)
	}
}

func TestParse_Invalid(t *testing.T) {
	_, err := Parse([]byte("name: x\nkeypoints: [a]\nskeleton: [[1, 2]]\n"))
	if !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid, got %v", err)
	}
}
