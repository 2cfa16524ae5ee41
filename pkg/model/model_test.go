package model

import "testing"

func TestMotionTemplateValid(t *testing.T) {
	tests := []struct {
		motion MotionTemplate
		want   bool
	}{
		{MotionStatic, true},
		{MotionZoomIn, true},
		{MotionOrbit, true},
		{MotionTemplate("dolly_zoom"), false},
		{MotionTemplate(""), false},
	}

	for _, tt := range tests {
		if got := tt.motion.Valid(); got != tt.want {
			t.Errorf("Valid(%q) = %v, want %v", tt.motion, got, tt.want)
		}
	}
}

func TestCutLengthRangeContains(t *testing.T) {
	r := CutLengthRange{Min: 10, Max: 14}

	tests := []struct {
		n    int
		want bool
	}{
		{9, false},
		{10, true},
		{12, true},
		{14, true},
		{15, false},
	}

	for _, tt := range tests {
		if got := r.Contains(tt.n); got != tt.want {
			t.Errorf("Contains(%d) = %v, want %v", tt.n, got, tt.want)
		}
	}
}
