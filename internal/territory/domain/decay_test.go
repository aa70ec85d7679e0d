package domain

import (
	"math"
	"testing"
)

func TestEquilibrium(t *testing.T) {
	if got := Equilibrium(6); math.Abs(got-16.666666) > 0.001 {
		t.Fatalf("expected ~16.67 for six factions, got %v", got)
	}
	if got := Equilibrium(4); got != 25 {
		t.Fatalf("expected 25 for four factions, got %v", got)
	}
	if got := Equilibrium(0); got != 0 {
		t.Fatalf("expected 0 for no factions, got %v", got)
	}
}

func TestDecayDeltaClosesGapFraction(t *testing.T) {
	eq := Equilibrium(6)
	delta := DecayDelta(75, eq, 0.01, 2, 5)
	want := (eq - 75) * 0.01
	if math.Abs(delta-want) > 0.0001 {
		t.Fatalf("expected delta %v, got %v", want, delta)
	}
	if delta >= 0 {
		t.Fatalf("expected downward decay above equilibrium, got %v", delta)
	}
}

func TestDecayDeltaBoundedByMaxStep(t *testing.T) {
	delta := DecayDelta(100, 16.67, 0.5, 2, 5)
	if delta != -2 {
		t.Fatalf("expected max downward step -2, got %v", delta)
	}
	delta = DecayDelta(0, 16.67, 0.5, 2, 0)
	if delta != 2 {
		t.Fatalf("expected max upward step 2, got %v", delta)
	}
}

func TestDecayDeltaZeroMaxStepIsUnbounded(t *testing.T) {
	eq := Equilibrium(4)
	// With the step bound disabled, one run closes the full configured
	// fraction of the gap; the equilibrium guard still applies.
	delta := DecayDelta(100, eq, 0.5, 0, 5)
	if want := (eq - 100) * 0.5; delta != want {
		t.Fatalf("expected unbounded delta %v, got %v", want, delta)
	}
	delta = DecayDelta(24, eq, 1.0, 0, 5)
	if 24+delta != eq {
		t.Fatalf("expected landing on equilibrium %v, got %v", eq, 24+delta)
	}
}

func TestDecayDeltaSkipsFloorFactions(t *testing.T) {
	if delta := DecayDelta(5, 16.67, 0.01, 2, 5); delta <= 0 {
		t.Fatalf("faction at floor below equilibrium should still rise, got %v", delta)
	}
	// A faction at the floor above equilibrium would decay downward; it is
	// excluded instead.
	if delta := DecayDelta(5, 4, 0.01, 2, 5); delta != 0 {
		t.Fatalf("expected no downward decay at floor, got %v", delta)
	}
	if delta := DecayDelta(3, 4, 0.5, 2, 5); delta != 0 {
		t.Fatalf("expected no downward decay below floor, got %v", delta)
	}
}

func TestDecayConvergesWithoutOvershoot(t *testing.T) {
	eq := Equilibrium(6)
	value := 75.0
	prevGap := math.Abs(value - eq)
	for i := 0; i < 500; i++ {
		delta := DecayDelta(value, eq, 0.01, 2, 5)
		value = ApplyDelta(value, delta, 5)
		gap := math.Abs(value - eq)
		if gap > prevGap {
			t.Fatalf("iteration %d moved away from equilibrium: gap %v -> %v", i, prevGap, gap)
		}
		prevGap = gap
	}
	if math.Abs(value-eq) > 1 {
		t.Fatalf("expected convergence near %v after 500 runs, got %v", eq, value)
	}
}

func TestDecayNeverStepsPastEquilibrium(t *testing.T) {
	eq := 16.67
	// Large rate and step would overshoot without the equilibrium guard.
	delta := DecayDelta(16, eq, 1.0, 10, 0)
	if 16+delta > eq+0.0001 {
		t.Fatalf("stepped past equilibrium: %v", 16+delta)
	}
	delta = DecayDelta(17, eq, 1.0, 10, 0)
	if 17+delta < eq-0.0001 {
		t.Fatalf("stepped below equilibrium: %v", 17+delta)
	}
}
