package domain

import "testing"

func TestClampInfluenceBounds(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		floor float64
		want  float64
	}{
		{name: "within bounds", value: 42, floor: 5, want: 42},
		{name: "below floor", value: 2, floor: 5, want: 5},
		{name: "above max", value: 130, floor: 5, want: 100},
		{name: "zero floor allows zero", value: 0, floor: 0, want: 0},
		{name: "negative clamps to floor", value: -10, floor: 0, want: 0},
		{name: "exactly max", value: 100, floor: 5, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampInfluence(tt.value, tt.floor); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestApplyDeltaSaturates(t *testing.T) {
	if got := ApplyDelta(95, 20, 5); got != 100 {
		t.Fatalf("expected saturation at 100, got %v", got)
	}
	if got := ApplyDelta(8, -20, 5); got != 5 {
		t.Fatalf("expected floor at 5, got %v", got)
	}
	if got := ApplyDelta(40, 15, 5); got != 55 {
		t.Fatalf("expected 55, got %v", got)
	}
}

func TestApplyDeltaBoundedForAnySequence(t *testing.T) {
	value := 20.0
	deltas := []float64{45, 45, 45, -300, 12.5, 1000, -0.01}
	for _, d := range deltas {
		value = ApplyDelta(value, d, DefaultFloor)
		if value < DefaultFloor || value > InfluenceMax {
			t.Fatalf("value %v escaped bounds after delta %v", value, d)
		}
	}
}
