package domain

// BenefitSet is the fixed-shape record of player-facing multipliers granted
// to a controlling faction's aligned players in a territory.
type BenefitSet struct {
	// ShopDiscount is the fraction taken off shop prices (0.25 = 25% off).
	ShopDiscount float64
	// ReputationMultiplier scales reputation gains earned in the territory.
	ReputationMultiplier float64
	// HeatReduction is the fraction shaved off crime heat accrual.
	HeatReduction float64
}

// Zero reports whether the set grants nothing.
func (b BenefitSet) Zero() bool {
	return b.ShopDiscount == 0 && b.ReputationMultiplier == 0 && b.HeatReduction == 0
}

// BenefitTable maps control levels to benefit tiers. The numeric table is
// configuration, loaded from the tuning file, not code.
type BenefitTable map[Level]BenefitSet

// ComputeBenefits looks up the benefits a faction enjoys in a territory
// with the given control state. Any faction other than the controller gets
// an all-zero set, as does everyone in a contested territory.
func ComputeBenefits(table BenefitTable, factionID string, state ControlState) BenefitSet {
	if factionID == "" || state.ControllingFactionID != factionID {
		return BenefitSet{}
	}
	return table[state.Level]
}
