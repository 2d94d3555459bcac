package recommendation

import (
	"strings"

	"carbonCare/domain"
)

// Template is the fixed text of one recommendation.
type Template struct {
	Title       string
	Description string
	Impact      domain.ImpactTier
}

// CategoryRule picks the template for a category given its breakdown
// entry and the raw request.
type CategoryRule interface {
	Select(entry domain.CategoryBreakdown, raw domain.RawPayload) (Template, bool)
}

// DietRule keys the template on the raw Diet answer, case-insensitively.
type DietRule struct {
	ByDiet   map[string]Template
	Fallback Template
}

func (r DietRule) Select(_ domain.CategoryBreakdown, raw domain.RawPayload) (Template, bool) {
	diet := ""
	if v, ok := raw[string(domain.FeatureDiet)]; ok && v != nil {
		diet = strings.ToLower(domain.FormatLabel(v))
	}
	if tpl, ok := r.ByDiet[diet]; ok {
		return tpl, true
	}
	return r.Fallback, true
}

// TierRule picks the high template when the category share is above
// Threshold percent, the medium template otherwise.
type TierRule struct {
	Threshold float64
	High      Template
	Medium    Template
}

func (r TierRule) Select(entry domain.CategoryBreakdown, _ domain.RawPayload) (Template, bool) {
	if entry.Percentage > r.Threshold {
		return r.High, true
	}
	return r.Medium, true
}

// RuleTable holds every rule the synthesizer can fire.
type RuleTable struct {
	Categories map[domain.Category]CategoryRule
	Features   map[domain.FeatureKey]Template
}

const highImpactThreshold = 25.0

// DefaultRules returns the production rule table.
func DefaultRules() RuleTable {
	return RuleTable{
		Categories: map[domain.Category]CategoryRule{
			domain.CategoryPersonal: DietRule{
				ByDiet: map[string]Template{
					"omnivore": {
						Title:       "Adopt a more plant-based diet",
						Description: "Your diet significantly impacts your carbon footprint. Try reducing meat consumption and incorporating more plant-based meals.",
						Impact:      domain.ImpactHigh,
					},
					"vegetarian": {
						Title:       "Optimize your vegetarian diet",
						Description: "Great dietary choice! Focus on local, organic produce and consider reducing dairy consumption.",
						Impact:      domain.ImpactMedium,
					},
					"vegan": {
						Title:       "Maintain your sustainable diet",
						Description: "Excellent choice! Continue focusing on local, seasonal produce to minimize transportation emissions.",
						Impact:      domain.ImpactLow,
					},
				},
				Fallback: Template{
					Title:       "Maintain healthy lifestyle choices",
					Description: "Your personal characteristics influence your baseline footprint. Focus on sustainable lifestyle choices.",
					Impact:      domain.ImpactLow,
				},
			},
			domain.CategoryTransportation: TierRule{
				Threshold: highImpactThreshold,
				High: Template{
					Title:       "Revolutionize your transportation",
					Description: "Transportation is your biggest carbon contributor. Consider electric vehicles, public transport, or remote work options.",
					Impact:      domain.ImpactHigh,
				},
				Medium: Template{
					Title:       "Optimize your transportation choices",
					Description: "Transportation significantly impacts your footprint. Try carpooling, combining trips, or using more efficient vehicles.",
					Impact:      domain.ImpactMedium,
				},
			},
			domain.CategoryLifestyle: TierRule{
				Threshold: highImpactThreshold,
				High: Template{
					Title:       "Adopt sustainable lifestyle habits",
					Description: "Your lifestyle choices significantly impact your footprint. Focus on reducing consumption and energy use.",
					Impact:      domain.ImpactHigh,
				},
				Medium: Template{
					Title:       "Fine-tune your lifestyle choices",
					Description: "Your lifestyle contributes notably to your footprint. Consider reducing screen time and consumption.",
					Impact:      domain.ImpactMedium,
				},
			},
			domain.CategoryWasteConsumption: TierRule{
				Threshold: highImpactThreshold,
				High: Template{
					Title:       "Minimize waste and consumption",
					Description: "Your consumption patterns significantly impact your footprint. Focus on reducing, reusing, and recycling.",
					Impact:      domain.ImpactHigh,
				},
				Medium: Template{
					Title:       "Improve waste management",
					Description: "Your waste habits contribute to your footprint. Enhance recycling and reduce unnecessary purchases.",
					Impact:      domain.ImpactMedium,
				},
			},
			domain.CategoryHomeEnergy: TierRule{
				Threshold: highImpactThreshold,
				High: Template{
					Title:       "Upgrade your home energy systems",
					Description: "Your home energy use significantly impacts your footprint. Consider renewable energy and efficient appliances.",
					Impact:      domain.ImpactHigh,
				},
				Medium: Template{
					Title:       "Improve home energy efficiency",
					Description: "Your home energy contributes to your footprint. Focus on insulation and energy-efficient appliances.",
					Impact:      domain.ImpactMedium,
				},
			},
		},
		Features: map[domain.FeatureKey]Template{
			domain.FeatureVehicleMonthlyDistanceKm: {
				Title:       "Reduce driving distance",
				Description: "Your monthly driving distance is a major factor. Consider working from home, carpooling, or using public transport.",
				Impact:      domain.ImpactHigh,
			},
			domain.FeatureMonthlyGroceryBill: {
				Title:       "Optimize food spending and choices",
				Description: "Your grocery spending indicates consumption patterns. Focus on local, seasonal, and less processed foods.",
				Impact:      domain.ImpactMedium,
			},
			domain.FeatureNewClothesMonthly: {
				Title:       "Reduce clothing consumption",
				Description: "Your clothing purchases significantly impact your footprint. Try second-hand shopping and extending garment life.",
				Impact:      domain.ImpactMedium,
			},
			domain.FeatureWasteBagWeeklyCount: {
				Title:       "Minimize waste generation",
				Description: "Your waste production is significant. Focus on reducing packaging, composting, and reusing items.",
				Impact:      domain.ImpactHigh,
			},
		},
	}
}

var energyEfficiencyRecommendation = domain.Recommendation{
	Category:    domain.CategoryHomeEnergy,
	Title:       "Improve energy efficiency",
	Description: "You indicated low energy efficiency awareness. Upgrade to LED lighting and energy-efficient appliances.",
	Impact:      domain.ImpactMedium,
}

var recyclingRecommendation = domain.Recommendation{
	Category:    domain.CategoryWasteConsumption,
	Title:       "Start comprehensive recycling",
	Description: "You're not recycling effectively. Implement proper sorting for paper, plastic, glass, and metal.",
	Impact:      domain.ImpactMedium,
}
