package keypoint

import (
	"math"
	"testing"
)

func TestBaseScale(t *testing.T) {
	set := Set{
		{X: 0, Y: 0, Confidence: 2},
		{X: 4, Y: 0, Confidence: 2},
		{X: 4, Y: 9, Confidence: 1},
		{X: 100, Y: 100, Confidence: 0},
	}
	if got := BaseScale(set); got != 6 {
		t.Errorf("BaseScale = %v, want 6", got)
	}
}

func TestBaseScale_TooFewVisible(t *testing.T) {
	set := Set{
		{X: 0, Y: 0, Confidence: 2},
		{X: 4, Y: 4, Confidence: 2},
		{X: 8, Y: 8, Confidence: 0},
	}
	if got := BaseScale(set); !math.IsNaN(got) {
		t.Errorf("BaseScale = %v, want NaN", got)
	}
}

func TestMaxR_NoCompetitors(t *testing.T) {
	r := MaxR(Keypoint{X: 5, Y: 5, Confidence: 2}, nil)
	for q, v := range r {
		if !math.IsInf(v, 1) {
			t.Errorf("quadrant %d = %v, want +Inf", q, v)
		}
	}
	if !math.IsInf(r.Min(), 1) {
		t.Errorf("Min = %v, want +Inf", r.Min())
	}
}

func TestMaxR_Quadrants(t *testing.T) {
	kp := Keypoint{X: 10, Y: 10, Confidence: 2}
	others := []Keypoint{
		{X: 7, Y: 6},   // dx<0, dy<0 -> 0, dist 5
		{X: 13, Y: 6},  // dx>=0, dy<0 -> 1, dist 5
		{X: 20, Y: 10}, // dx>=0, dy>=0 -> 3, dist 10
		{X: 11, Y: 10}, // quadrant 3, dist 1
		{X: 6, Y: 13},  // dx<0, dy>=0 -> 2, dist 5
	}

	r := MaxR(kp, others)
	want := Radius{5, 5, 5, 1}
	if r != want {
		t.Errorf("MaxR = %v, want %v", r, want)
	}
	if r.Min() != 1 {
		t.Errorf("Min = %v, want 1", r.Min())
	}
}

func TestKeypointVisible(t *testing.T) {
	tests := []struct {
		conf      float64
		threshold float64
		want      bool
	}{
		{0, 0, false},
		{1, 0, true},
		{1, 1, false},
		{2, 1, true},
	}
	for _, tt := range tests {
		if got := (Keypoint{Confidence: tt.conf}).Visible(tt.threshold); got != tt.want {
			t.Errorf("Visible(%v > %v) = %v, want %v", tt.conf, tt.threshold, got, tt.want)
		}
	}
}
