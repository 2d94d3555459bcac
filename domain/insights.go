package domain

type ImpactTier string

const (
	ImpactLow    ImpactTier = "low"
	ImpactMedium ImpactTier = "medium"
	ImpactHigh   ImpactTier = "high"
)

// CategoryFeature is one member feature of a category breakdown entry.
type CategoryFeature struct {
	Feature      FeatureKey `json:"feature"`
	Importance   float64    `json:"importance"`
	Contribution float64    `json:"contribution"` // signed
	Rank         int        `json:"rank"`         // 1-based, across all features
}

type CategoryBreakdown struct {
	Name        Category          `json:"name"`
	Value       float64           `json:"value"`      // summed absolute importance
	Percentage  float64           `json:"percentage"` // of the grand total
	TopFeatures []FeatureKey      `json:"top_features"`
	Features    []CategoryFeature `json:"features"`
}

type TopFeature struct {
	Feature      FeatureKey `json:"feature"`
	Category     Category   `json:"category"`
	Contribution float64    `json:"contribution"`
	Importance   float64    `json:"importance"`
	Percentage   float64    `json:"percentage"`
}

type Recommendation struct {
	Category    Category   `json:"category"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Impact      ImpactTier `json:"impact"`
}

type Insights struct {
	CategoryBreakdown     []CategoryBreakdown `json:"category_breakdown"`
	TopIndividualFeatures []TopFeature        `json:"top_individual_features"`
	Recommendations       []Recommendation    `json:"recommendations"`
}

// PredictionResult is the full response of one scoring request.
type PredictionResult struct {
	Prediction float64 `json:"prediction"`
	Insights
}

type HealthStatus struct {
	Status        string `json:"status"`
	ModelLoaded   bool   `json:"model_loaded"`
	ShapAvailable bool   `json:"shap_available"`
}
