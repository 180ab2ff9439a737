package ranking

import (
	"fmt"
	"math"
)

// Component names, also used as keys of RankedEvent.MatchFactors.
const (
	FactorSemantic    = "semantic_similarity"
	FactorRecency     = "recency"
	FactorLogistics   = "logistics"
	FactorPitchSlots  = "pitch_slot_availability"
	FactorCredibility = "credibility"
)

// Factors lists the component names in scoring order.
var Factors = []string{
	FactorSemantic,
	FactorRecency,
	FactorLogistics,
	FactorPitchSlots,
	FactorCredibility,
}

const weightTolerance = 1e-9

// Weights defines the contribution of each component to the total score.
type Weights struct {
	Semantic    float64 `json:"semantic_similarity" koanf:"semantic_similarity"`         // default: 0.50
	Recency     float64 `json:"recency" koanf:"recency"`                                 // default: 0.15
	Logistics   float64 `json:"logistics" koanf:"logistics"`                             // default: 0.15
	PitchSlots  float64 `json:"pitch_slot_availability" koanf:"pitch_slot_availability"` // default: 0.15
	Credibility float64 `json:"credibility" koanf:"credibility"`                         // default: 0.05
}

// DefaultWeights returns the standard weighting.
//
// total = semantic*0.50 + recency*0.15 + logistics*0.15 + pitch*0.15 + credibility*0.05
func DefaultWeights() Weights {
	return Weights{
		Semantic:    0.50,
		Recency:     0.15,
		Logistics:   0.15,
		PitchSlots:  0.15,
		Credibility: 0.05,
	}
}

// Map returns the weights keyed by component name.
func (w Weights) Map() map[string]float64 {
	return map[string]float64{
		FactorSemantic:    w.Semantic,
		FactorRecency:     w.Recency,
		FactorLogistics:   w.Logistics,
		FactorPitchSlots:  w.PitchSlots,
		FactorCredibility: w.Credibility,
	}
}

// Sum returns the total of all weights.
func (w Weights) Sum() float64 {
	return w.Semantic + w.Recency + w.Logistics + w.PitchSlots + w.Credibility
}

// Validate checks that every weight is non-negative and that they sum to 1.0.
func (w Weights) Validate() error {
	for name, v := range w.Map() {
		if v < 0 || math.IsNaN(v) {
			return fmt.Errorf("%w: %s is %v", ErrInvalidWeights, name, v)
		}
	}
	if math.Abs(w.Sum()-1.0) > weightTolerance {
		return fmt.Errorf("%w: sum is %v", ErrInvalidWeights, w.Sum())
	}
	return nil
}

// Total combines component scores into the weighted total, clamped to [0, 1].
func (w Weights) Total(components map[string]float64) float64 {
	weights := w.Map()
	var total float64
	for _, name := range Factors {
		total += weights[name] * components[name]
	}
	return math.Max(0, math.Min(1, total))
}
