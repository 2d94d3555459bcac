package model

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"carbonCare/domain"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

var ErrUnsupportedFormat = errors.New("unsupported model file format")

// AdditiveSpec is the on-disk form of an additive footprint model.
type AdditiveSpec struct {
	Version     string                     `yaml:"version" json:"version"`
	Intercept   float64                    `yaml:"intercept" json:"intercept"`
	Numeric     map[string]NumericTerm     `yaml:"numeric" json:"numeric"`
	Categorical map[string]CategoricalTerm `yaml:"categorical" json:"categorical"`
}

// NumericTerm contributes Coefficient*x. Mean is the training mean of x.
type NumericTerm struct {
	Coefficient float64 `yaml:"coefficient" json:"coefficient"`
	Mean        float64 `yaml:"mean" json:"mean"`
}

// CategoricalTerm contributes the weight of the observed level. Multi-select
// answers (list labels) add Items weights on top of Default. Expected is the
// training expectation of the term.
type CategoricalTerm struct {
	Levels   map[string]float64 `yaml:"levels" json:"levels"`
	Items    map[string]float64 `yaml:"items" json:"items"`
	Default  float64            `yaml:"default" json:"default"`
	Expected float64            `yaml:"expected" json:"expected"`
}

// AdditiveModel scores a feature vector as intercept plus one term per
// feature. Attribution is exact: each feature's contribution is its term
// minus the term's expectation, so contributions sum to prediction minus
// Baseline.
type AdditiveModel struct {
	version   string
	intercept float64
	numeric   [domain.FeatureCount]*NumericTerm
	category  [domain.FeatureCount]*CategoricalTerm
	baseline  float64
}

func LoadAdditive(path string) (*AdditiveModel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read model file: %w", err)
	}

	var spec AdditiveSpec
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &spec)
	case ".json":
		err = json.Unmarshal(data, &spec)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode model file: %w", err)
	}

	return NewAdditiveModel(spec)
}

// NewAdditiveModel checks every term against the feature set. Unknown keys and
// terms of the wrong kind are rejected.
func NewAdditiveModel(spec AdditiveSpec) (*AdditiveModel, error) {
	m := &AdditiveModel{version: spec.Version, intercept: spec.Intercept, baseline: spec.Intercept}

	for name, term := range spec.Numeric {
		k := domain.FeatureKey(name)
		idx, ok := k.Index()
		if !ok {
			return nil, fmt.Errorf("numeric term: unknown feature %q", name)
		}
		if !k.IsNumeric() {
			return nil, fmt.Errorf("numeric term: feature %q is categorical", name)
		}
		t := term
		m.numeric[idx] = &t
		m.baseline += t.Coefficient * t.Mean
	}

	for name, term := range spec.Categorical {
		k := domain.FeatureKey(name)
		idx, ok := k.Index()
		if !ok {
			return nil, fmt.Errorf("categorical term: unknown feature %q", name)
		}
		if k.IsNumeric() {
			return nil, fmt.Errorf("categorical term: feature %q is numeric", name)
		}
		t := term
		m.category[idx] = &t
		m.baseline += t.Expected
	}

	return m, nil
}

func (m *AdditiveModel) Version() string { return m.version }

// Baseline is the expected prediction over the training distribution.
func (m *AdditiveModel) Baseline() float64 { return m.baseline }

func (m *AdditiveModel) ConcurrencySafe() bool { return true }

func (m *AdditiveModel) Predict(ctx context.Context, vec domain.FeatureVector, categorical []domain.FeatureKey) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}
	for _, k := range categorical {
		idx, ok := k.Index()
		if !ok {
			return 0, fmt.Errorf("unknown categorical feature %q", k)
		}
		if m.numeric[idx] != nil {
			return 0, fmt.Errorf("feature %q is modelled as numeric", k)
		}
	}

	score := m.intercept
	for i := range vec {
		score += m.term(i, vec[i])
	}
	return score, nil
}

func (m *AdditiveModel) Attribute(ctx context.Context, vec domain.FeatureVector) ([]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	out := make([]float64, vec.Len())
	for i := range vec {
		switch {
		case m.numeric[i] != nil:
			out[i] = m.term(i, vec[i]) - m.numeric[i].Coefficient*m.numeric[i].Mean
		case m.category[i] != nil:
			out[i] = m.term(i, vec[i]) - m.category[i].Expected
		}
	}
	return out, nil
}

func (m *AdditiveModel) term(i int, v domain.FeatureValue) float64 {
	if t := m.numeric[i]; t != nil {
		return t.Coefficient * v.Number
	}
	t := m.category[i]
	if t == nil {
		return 0
	}
	if w, ok := t.Levels[v.Label]; ok {
		return w
	}
	if items, ok := parseListLabel(v.Label); ok && len(t.Items) > 0 {
		w := t.Default
		for _, item := range items {
			w += t.Items[item]
		}
		return w
	}
	return t.Default
}

// parseListLabel splits a label of the form ['a', 'b'] into its items.
func parseListLabel(label string) ([]string, bool) {
	if !strings.HasPrefix(label, "[") || !strings.HasSuffix(label, "]") {
		return nil, false
	}
	body := strings.TrimSpace(label[1 : len(label)-1])
	if body == "" {
		return []string{}, true
	}

	parts := strings.Split(body, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `'"`)
		if p != "" {
			items = append(items, p)
		}
	}
	return items, true
}
