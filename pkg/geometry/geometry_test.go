package geometry

import "testing"

func TestPointRoundHalfEven(t *testing.T) {
	p := NewPoint2D(2.5, -1.5).Round()
	if p.X != 2 || p.Y != -2 {
		t.Errorf("Round = %+v, want (2,-2)", p)
	}
}

func TestBoundingBox(t *testing.T) {
	bb := BoundingBox([]Point2D{{X: 3, Y: 1}, {X: -1, Y: 4}, {X: 2, Y: 2}})
	if bb != NewRect(-1, 1, 4, 3) {
		t.Errorf("BoundingBox = %+v", bb)
	}
	if BoundingBox(nil) != (Rect{}) {
		t.Error("empty input should give a zero rect")
	}
}

func TestPointInPolygon(t *testing.T) {
	tri := PolygonFromFlat([]float64{0, 0, 10, 0, 0, 10, 99})
	if len(tri) != 3 {
		t.Fatalf("expected 3 points, got %d", len(tri))
	}
	if !PointInPolygon(NewPoint2D(2, 2), tri) {
		t.Error("(2,2) should be inside")
	}
	if PointInPolygon(NewPoint2D(8, 8), tri) {
		t.Error("(8,8) should be outside")
	}
}

func TestMaskFillRectClips(t *testing.T) {
	m := NewMask(4, 3)
	m.FillRect(-2, 1, 10, 2, true)
	if m.Count() != 4 {
		t.Errorf("Count = %d, want 4", m.Count())
	}
	if !m.At(0, 1) || m.At(0, 0) || m.At(9, 1) {
		t.Error("unexpected mask contents")
	}
	m.Set(-1, 0, true)
	if m.Count() != 4 {
		t.Error("out of range Set must be ignored")
	}
}
