package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()

	assert.Equal(t, 0.50, w.Semantic)
	assert.Equal(t, 0.15, w.Recency)
	assert.Equal(t, 0.15, w.Logistics)
	assert.Equal(t, 0.15, w.PitchSlots)
	assert.Equal(t, 0.05, w.Credibility)
	assert.InDelta(t, 1.0, w.Sum(), 1e-12)
	assert.NoError(t, w.Validate())
}

func TestWeights_Validate(t *testing.T) {
	tests := []struct {
		name string
		w    Weights
	}{
		{name: "sum below one", w: Weights{Semantic: 0.5}},
		{name: "sum above one", w: Weights{Semantic: 0.9, Recency: 0.9}},
		{name: "negative weight", w: Weights{Semantic: 1.2, Recency: -0.2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.w.Validate(), ErrInvalidWeights)
		})
	}

	assert.NoError(t, Weights{Semantic: 1}.Validate())
}

func TestWeights_Total(t *testing.T) {
	w := DefaultWeights()

	all := map[string]float64{}
	none := map[string]float64{}
	for _, f := range Factors {
		all[f] = 1
		none[f] = 0
	}
	assert.InDelta(t, 1.0, w.Total(all), 1e-12)
	assert.Equal(t, 0.0, w.Total(none))

	only := map[string]float64{FactorSemantic: 0.8}
	assert.InDelta(t, 0.4, w.Total(only), 1e-12)
}
