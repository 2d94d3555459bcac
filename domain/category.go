package domain

import "fmt"

// Category groups related model inputs for reporting.
type Category string

const (
	CategoryPersonal         Category = "Personal Information"
	CategoryTransportation   Category = "Transportation"
	CategoryLifestyle        Category = "Lifestyle"
	CategoryWasteConsumption Category = "Waste & Consumption"
	CategoryHomeEnergy       Category = "Home Energy"

	// CategoryOther labels a feature missing from the taxonomy.
	CategoryOther Category = "Other"
)

type CategoryGroup struct {
	Category Category
	Features []FeatureKey
}

// Taxonomy is declared in tie-break order: when two categories carry the
// same importance the earlier one ranks first.
var Taxonomy = []CategoryGroup{
	{
		Category: CategoryPersonal,
		Features: []FeatureKey{FeatureBodyType, FeatureSex, FeatureDiet, FeatureHowOftenShower},
	},
	{
		Category: CategoryTransportation,
		Features: []FeatureKey{FeatureTransport, FeatureVehicleType, FeatureVehicleMonthlyDistanceKm, FeatureAirTravelFrequency},
	},
	{
		Category: CategoryLifestyle,
		Features: []FeatureKey{
			FeatureSocialActivity,
			FeatureMonthlyGroceryBill,
			FeatureTVPCDailyHour,
			FeatureInternetDailyHour,
			FeatureNewClothesMonthly,
		},
	},
	{
		Category: CategoryWasteConsumption,
		Features: []FeatureKey{FeatureWasteBagSize, FeatureWasteBagWeeklyCount, FeatureRecycling, FeatureCookingWith},
	},
	{
		Category: CategoryHomeEnergy,
		Features: []FeatureKey{FeatureHeatingEnergySource, FeatureEnergyEfficiency},
	},
}

var featureCategory map[FeatureKey]Category

func init() {
	m, err := indexTaxonomy(Taxonomy)
	if err != nil {
		panic(err)
	}
	featureCategory = m
}

// indexTaxonomy checks that groups partition the canonical key set and
// returns the feature → category lookup.
func indexTaxonomy(groups []CategoryGroup) (map[FeatureKey]Category, error) {
	m := make(map[FeatureKey]Category, FeatureCount)
	for _, g := range groups {
		for _, f := range g.Features {
			if !f.Known() {
				return nil, fmt.Errorf("taxonomy: %q lists unknown feature %q", g.Category, f)
			}
			if prev, dup := m[f]; dup {
				return nil, fmt.Errorf("taxonomy: feature %q in both %q and %q", f, prev, g.Category)
			}
			m[f] = g.Category
		}
	}
	for _, f := range CanonicalFeatureOrder {
		if _, ok := m[f]; !ok {
			return nil, fmt.Errorf("taxonomy: feature %q has no category", f)
		}
	}
	return m, nil
}

// CategoryOf returns the taxonomy category owning the feature.
func CategoryOf(k FeatureKey) (Category, bool) {
	c, ok := featureCategory[k]
	return c, ok
}

// Categories lists taxonomy categories in declaration order.
func Categories() []Category {
	out := make([]Category, 0, len(Taxonomy))
	for _, g := range Taxonomy {
		out = append(out, g.Category)
	}
	return out
}
