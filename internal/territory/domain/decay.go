package domain

// Equilibrium is the influence value every faction converges toward under
// decay: 100 divided by the total number of defined factions, not just
// those present in a territory.
func Equilibrium(factionCount int) float64 {
	if factionCount <= 0 {
		return 0
	}
	return InfluenceMax / float64(factionCount)
}

// DecayDelta computes one day's decay movement for a single faction value.
// The raw delta closes decayRate of the gap to equilibrium and is bounded
// to [-maxStep, +maxStep] so a single run never overshoots into
// oscillation. A faction at or below the floor receives no downward decay.
func DecayDelta(value, equilibrium, decayRate, maxStep, floor float64) float64 {
	delta := (equilibrium - value) * decayRate
	if delta < 0 && value <= floor {
		return 0
	}
	if maxStep > 0 {
		if delta > maxStep {
			delta = maxStep
		}
		if delta < -maxStep {
			delta = -maxStep
		}
	}
	// Never step past equilibrium in a single run.
	if delta > 0 && value+delta > equilibrium {
		delta = equilibrium - value
	}
	if delta < 0 && value+delta < equilibrium {
		delta = equilibrium - value
	}
	return delta
}
