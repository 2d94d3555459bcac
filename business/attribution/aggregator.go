package attribution

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"carbonCare/domain"
	"carbonCare/pkg/logger"
)

const (
	defaultTopK = 3

	// features at or below this share of total importance are noise
	minFeaturePercentage = 1.0

	categoryDisplayFeatures = 2
)

// ErrAttributionUnavailable means no explainer could score the request.
var ErrAttributionUnavailable = errors.New("attribution unavailable")

// ContractViolationError reports an attribution vector that does not line
// up with the feature vector it explains.
type ContractViolationError struct {
	Features int
	Scores   int
}

func (e *ContractViolationError) Error() string {
	return fmt.Sprintf("attribution contract violation: %d scores for %d features", e.Scores, e.Features)
}

// Result is the aggregated view of one attribution vector.
type Result struct {
	Categories  []domain.CategoryBreakdown
	TopFeatures []domain.TopFeature
}

// Empty reports whether the result carries no attribution signal.
func (r Result) Empty() bool {
	return len(r.Categories) == 0 && len(r.TopFeatures) == 0
}

func emptyResult() Result {
	return Result{
		Categories:  []domain.CategoryBreakdown{},
		TopFeatures: []domain.TopFeature{},
	}
}

type Aggregator struct {
	topK int
}

func NewAggregator(topK int) *Aggregator {
	if topK <= 0 {
		topK = defaultTopK
	}
	return &Aggregator{topK: topK}
}

type featureScore struct {
	key          domain.FeatureKey
	contribution float64
	importance   float64
	rank         int
}

// Aggregate groups signed per-feature contributions into category and
// individual rankings. scores must be aligned with vec's canonical order;
// a length mismatch yields an empty result and a *ContractViolationError.
// A vector with zero total importance yields an empty result and no error.
func (a *Aggregator) Aggregate(vec domain.FeatureVector, scores []float64) (Result, error) {
	if len(scores) != vec.Len() {
		return emptyResult(), &ContractViolationError{Features: vec.Len(), Scores: len(scores)}
	}

	features := make([]featureScore, vec.Len())
	byKey := make(map[domain.FeatureKey]*featureScore, vec.Len())
	total := 0.0
	for i, fv := range vec {
		c := scores[i]
		if math.IsNaN(c) || math.IsInf(c, 0) {
			c = 0
		}
		features[i] = featureScore{key: fv.Key, contribution: c, importance: math.Abs(c)}
		total += features[i].importance
	}
	if total == 0 {
		return emptyResult(), nil
	}

	// overall ranking, ties keep canonical column order
	ranked := make([]*featureScore, len(features))
	for i := range features {
		ranked[i] = &features[i]
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].importance > ranked[j].importance
	})
	for i, f := range ranked {
		f.rank = i + 1
		byKey[f.key] = f
	}

	return Result{
		Categories:  a.categoryBreakdown(byKey, total),
		TopFeatures: a.topFeatures(ranked, total),
	}, nil
}

func (a *Aggregator) categoryBreakdown(byKey map[domain.FeatureKey]*featureScore, total float64) []domain.CategoryBreakdown {
	out := make([]domain.CategoryBreakdown, 0, len(domain.Taxonomy))

	for _, group := range domain.Taxonomy {
		sum := 0.0
		members := make([]domain.CategoryFeature, 0, len(group.Features))
		for _, key := range group.Features {
			f, ok := byKey[key]
			if !ok || f.importance <= 0 {
				continue
			}
			sum += f.importance
			members = append(members, domain.CategoryFeature{
				Feature:      f.key,
				Importance:   f.importance,
				Contribution: f.contribution,
				Rank:         f.rank,
			})
		}
		if sum == 0 {
			continue
		}

		sort.SliceStable(members, func(i, j int) bool {
			return members[i].Importance > members[j].Importance
		})

		top := make([]domain.FeatureKey, 0, categoryDisplayFeatures)
		for i := 0; i < len(members) && i < categoryDisplayFeatures; i++ {
			top = append(top, members[i].Feature)
		}

		out = append(out, domain.CategoryBreakdown{
			Name:        group.Category,
			Value:       sum,
			Percentage:  round2(100 * sum / total),
			TopFeatures: top,
			Features:    members,
		})
	}

	// taxonomy order already holds, stable sort keeps it for ties
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Value > out[j].Value
	})

	return out
}

func (a *Aggregator) topFeatures(ranked []*featureScore, total float64) []domain.TopFeature {
	limit := a.topK
	if limit > len(ranked) {
		limit = len(ranked)
	}

	out := make([]domain.TopFeature, 0, limit)
	for _, f := range ranked[:limit] {
		pct := 100 * f.importance / total
		if pct <= minFeaturePercentage {
			continue
		}

		category, ok := domain.CategoryOf(f.key)
		if !ok {
			logger.Warn("feature_outside_taxonomy", "feature", f.key)
			category = domain.CategoryOther
		}

		out = append(out, domain.TopFeature{
			Feature:      f.key,
			Category:     category,
			Contribution: f.contribution,
			Importance:   f.importance,
			Percentage:   round2(pct),
		})
	}

	return out
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
