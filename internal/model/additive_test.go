package model

import (
	"context"
	"math"
	"testing"

	"carbonCare/business/normalizer"
	"carbonCare/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallVector() domain.FeatureVector {
	return normalizer.Normalize(domain.RawPayload{
		"Vehicle Monthly Distance Km": 300.0,
		"Diet":                        "vegan",
		"Recycling":                   []any{"Paper", "Glass"},
	})
}

func TestLoadAdditiveJSON(t *testing.T) {
	m, err := LoadAdditive("testdata/small_model.json")
	require.NoError(t, err)

	assert.Equal(t, "test-json", m.Version())
	assert.Equal(t, 222.0, m.Baseline())

	score, err := m.Predict(context.Background(), smallVector(), domain.CategoricalFeatures())
	require.NoError(t, err)
	assert.Equal(t, 208.0, score)
}

func TestAdditiveAttributionIsExact(t *testing.T) {
	m, err := LoadAdditive("testdata/small_model.json")
	require.NoError(t, err)

	scores, err := m.Attribute(context.Background(), smallVector())
	require.NoError(t, err)
	require.Len(t, scores, domain.FeatureCount)

	idx := func(k domain.FeatureKey) int {
		i, ok := k.Index()
		require.True(t, ok)
		return i
	}
	assert.Equal(t, 50.0, scores[idx(domain.FeatureVehicleMonthlyDistanceKm)])
	assert.Equal(t, -60.0, scores[idx(domain.FeatureDiet)])
	assert.Equal(t, -4.0, scores[idx(domain.FeatureRecycling)])
	assert.Equal(t, 0.0, scores[idx(domain.FeatureSex)])

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	assert.Equal(t, 208.0-222.0, sum)
}

func TestShippedModelAttributionSumsToPrediction(t *testing.T) {
	m, err := LoadAdditive("../../model/carbon_model.yaml")
	require.NoError(t, err)

	payloads := []domain.RawPayload{
		{},
		{
			"Body Type":                     "obese",
			"Diet":                          "omnivore",
			"Transport":                     "private",
			"Vehicle Type":                  "diesel",
			"Vehicle Monthly Distance Km":   4200,
			"Frequency of Traveling by Air": "very frequently",
			"Energy efficiency":             "No",
			"Recycling":                     []any{},
			"Cooking_With":                  []any{"Grill", "Oven"},
		},
		{
			"Diet":              "vegan",
			"Transport":         "walk/bicycle",
			"Energy efficiency": "Yes",
			"Recycling":         []any{"Paper", "Plastic", "Glass", "Metal"},
		},
	}

	for _, raw := range payloads {
		vec := normalizer.Normalize(raw)
		score, err := m.Predict(context.Background(), vec, domain.CategoricalFeatures())
		require.NoError(t, err)
		scores, err := m.Attribute(context.Background(), vec)
		require.NoError(t, err)

		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		assert.InDelta(t, score-m.Baseline(), sum, 1e-6)
		assert.False(t, math.IsNaN(score))
	}
}

func TestListLabelWeights(t *testing.T) {
	m, err := NewAdditiveModel(AdditiveSpec{
		Categorical: map[string]CategoricalTerm{
			"Recycling": {
				Levels:  map[string]float64{"[]": 85},
				Items:   map[string]float64{"Paper": -18, "Metal": -21},
				Default: 85,
			},
		},
	})
	require.NoError(t, err)

	cases := []struct {
		name string
		raw  any
		want float64
	}{
		{"missing answer", nil, 85},
		{"empty list", []any{}, 85},
		{"two items", []any{"Paper", "Metal"}, 46},
		{"unknown item", []any{"Cardboard"}, 85},
		{"string literal", "['Paper']", 67},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw := domain.RawPayload{}
			if tc.raw != nil {
				raw["Recycling"] = tc.raw
			}
			score, err := m.Predict(context.Background(), normalizer.Normalize(raw), nil)
			require.NoError(t, err)
			assert.Equal(t, tc.want, score)
		})
	}
}

func TestLoadAdditiveRejectsBadFiles(t *testing.T) {
	_, err := LoadAdditive("testdata/unknown_feature.yaml")
	assert.ErrorContains(t, err, "Pets Owned")

	_, err = LoadAdditive("testdata/wrong_kind.yaml")
	assert.ErrorContains(t, err, "is categorical")

	_, err = LoadAdditive("testdata/small_model.toml")
	assert.Error(t, err)

	_, err = LoadAdditive("testdata/does_not_exist.yaml")
	assert.ErrorContains(t, err, "failed to read model file")
}

func TestPredictRejectsNumericAsCategorical(t *testing.T) {
	m, err := LoadAdditive("testdata/small_model.json")
	require.NoError(t, err)

	_, err = m.Predict(context.Background(), smallVector(), []domain.FeatureKey{domain.FeatureVehicleMonthlyDistanceKm})
	assert.ErrorContains(t, err, "modelled as numeric")
}

func TestParseListLabel(t *testing.T) {
	items, ok := parseListLabel("['Stove', 'Oven']")
	require.True(t, ok)
	assert.Equal(t, []string{"Stove", "Oven"}, items)

	items, ok = parseListLabel("[]")
	require.True(t, ok)
	assert.Empty(t, items)

	_, ok = parseListLabel("Stove")
	assert.False(t, ok)
}
