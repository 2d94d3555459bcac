package recommendation

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"carbonCare/domain"
)

const (
	maxCategoryRules = 3
	maxFeatureRules  = 2
	maxResults       = 5
)

type Synthesizer struct {
	rules RuleTable
}

// NewSynthesizer validates the table: every taxonomy category needs a rule
// and every feature rule must name a known model input.
func NewSynthesizer(rules RuleTable) (*Synthesizer, error) {
	for _, c := range domain.Categories() {
		if rule, ok := rules.Categories[c]; !ok || rule == nil {
			return nil, fmt.Errorf("recommendation rules: no rule for category %q", c)
		}
	}
	for c := range rules.Categories {
		if !slices.Contains(domain.Categories(), c) {
			return nil, fmt.Errorf("recommendation rules: unknown category %q", c)
		}
	}
	for k, tpl := range rules.Features {
		if !k.Known() {
			return nil, fmt.Errorf("recommendation rules: unknown feature %q", k)
		}
		if tpl.Title == "" {
			return nil, fmt.Errorf("recommendation rules: empty title for feature %q", k)
		}
	}

	return &Synthesizer{rules: rules}, nil
}

// Synthesize turns an attribution breakdown and the raw answers into at
// most five recommendations with unique titles. Candidates are generated
// from the top categories, then the top individual features, then
// answer-based checks; earlier candidates win on duplicate titles.
func (s *Synthesizer) Synthesize(
	raw domain.RawPayload,
	breakdown []domain.CategoryBreakdown,
	topFeatures []domain.TopFeature,
) []domain.Recommendation {
	candidates := make([]domain.Recommendation, 0, maxCategoryRules+maxFeatureRules+2)

	for i := 0; i < len(breakdown) && i < maxCategoryRules; i++ {
		entry := breakdown[i]
		rule, ok := s.rules.Categories[entry.Name]
		if !ok {
			continue
		}
		tpl, ok := rule.Select(entry, raw)
		if !ok {
			continue
		}
		candidates = append(candidates, domain.Recommendation{
			Category:    entry.Name,
			Title:       tpl.Title,
			Description: "This category contributes " + formatPercent(entry.Percentage) + "% to your footprint. " + tpl.Description,
			Impact:      tpl.Impact,
		})
	}

	for i := 0; i < len(topFeatures) && i < maxFeatureRules; i++ {
		f := topFeatures[i]
		tpl, ok := s.rules.Features[f.Feature]
		if !ok {
			continue
		}
		candidates = append(candidates, domain.Recommendation{
			Category:    f.Category,
			Title:       tpl.Title,
			Description: "This factor contributes " + formatPercent(f.Percentage) + "% individually. " + tpl.Description,
			Impact:      tpl.Impact,
		})
	}

	if v, ok := raw[string(domain.FeatureEnergyEfficiency)].(string); ok && v == "No" {
		candidates = append(candidates, energyEfficiencyRecommendation)
	}

	recycling := raw[string(domain.FeatureRecycling)]
	if domain.IsBlank(recycling) || strings.Contains(domain.FormatLabel(recycling), domain.MissingLabel) {
		candidates = append(candidates, recyclingRecommendation)
	}

	return dedupe(candidates, maxResults)
}

// dedupe keeps the first occurrence of each title, up to limit entries.
func dedupe(recs []domain.Recommendation, limit int) []domain.Recommendation {
	out := make([]domain.Recommendation, 0, limit)
	seen := make(map[string]struct{}, len(recs))
	for _, r := range recs {
		if len(out) == limit {
			break
		}
		if _, dup := seen[r.Title]; dup {
			continue
		}
		seen[r.Title] = struct{}{}
		out = append(out, r)
	}
	return out
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
