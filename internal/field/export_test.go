package field

import (
	"math"
	"testing"

	"pose-fields/pkg/geometry"
)

func TestWriteReadFile(t *testing.T) {
	b, err := Allocate(2, geometry.NewMask(7, 5), 2, 0)
	if err != nil {
		t.Fatalf("Allocate failed: %v", err)
	}
	b.WritePatch(1, uniformPatch(3, 2, 3, 0.5, 1))
	want := b.Fields(nil)

	dir := t.TempDir()
	if err := WriteFile(dir, "img-0001", want); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	got, err := ReadFile(dir, "img-0001")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}

	pairs := []struct {
		name string
		a, b *Field
	}{
		{"intensity", want.Intensity, got.Intensity},
		{"reg1", want.Reg1, got.Reg1},
		{"reg2", want.Reg2, got.Reg2},
		{"scale1", want.Scale1, got.Scale1},
		{"scale2", want.Scale2, got.Scale2},
	}
	for _, p := range pairs {
		if len(p.a.Data) != len(p.b.Data) {
			t.Fatalf("%s: length %d != %d", p.name, len(p.a.Data), len(p.b.Data))
		}
		for i := range p.a.Data {
			if math.Float32bits(p.a.Data[i]) != math.Float32bits(p.b.Data[i]) {
				t.Fatalf("%s: element %d differs", p.name, i)
			}
		}
	}
}

func TestReadFile_Missing(t *testing.T) {
	if _, err := ReadFile(t.TempDir(), "nope"); err == nil {
		t.Error("expected error for missing payload")
	}
}
