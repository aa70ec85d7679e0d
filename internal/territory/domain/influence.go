package domain

// InfluenceMax is the upper bound for any faction's influence in a territory.
const InfluenceMax = 100.0

// DefaultFloor is the minimum influence a faction keeps in a territory once
// any mutation has touched the pair. Worlds without the historical-presence
// rule configure a floor of zero.
const DefaultFloor = 5.0

// FactionInfluence is one faction's influence claim over one territory.
// Values across factions are independent claims; they are not a partition
// of 100.
type FactionInfluence struct {
	TerritoryID string
	FactionID   string
	Value       float64
}

// ClampInfluence bounds a value to [floor, InfluenceMax]. The clamp is the
// only place bounds are enforced; callers never pre-clamp.
func ClampInfluence(value, floor float64) float64 {
	if value < floor {
		return floor
	}
	if value > InfluenceMax {
		return InfluenceMax
	}
	return value
}

// ApplyDelta returns the clamped result of adding delta to value.
func ApplyDelta(value, delta, floor float64) float64 {
	return ClampInfluence(value+delta, floor)
}
