package extract

import "math"

// Composite index weights and scaling constant published for the headline
// dry index: 40% capesize, 30% panamax, 30% supramax, scaled by 0.1098.
const (
	weightCapesize = 0.40
	weightPanamax  = 0.30
	weightSupramax = 0.30
	indexScale     = 0.1098
)

// ComputeCompositeIndex derives the headline index value from the three
// weighted component rates, rounded to two decimals.
func ComputeCompositeIndex(capesizeRate, panamaxRate, supramaxRate int) float64 {
	v := (weightCapesize*float64(capesizeRate) +
		weightPanamax*float64(panamaxRate) +
		weightSupramax*float64(supramaxRate)) * indexScale
	return math.Round(v*100) / 100
}
