package normalizer

import (
	"math"
	"strconv"
	"strings"

	"carbonCare/domain"
)

// Normalize maps any request payload onto the canonical feature vector.
// Unknown keys are dropped, missing keys are defaulted, and values that
// cannot be coerced fall back to 0 (numeric) or their string form
// (categorical). It never fails.
func Normalize(raw domain.RawPayload) domain.FeatureVector {
	var vec domain.FeatureVector

	for i, key := range domain.CanonicalFeatureOrder {
		v, present := raw[string(key)]

		fv := domain.FeatureValue{Key: key}
		if key.IsNumeric() {
			if present {
				fv.Number = ToNumber(v)
			}
		} else {
			fv.Label = domain.MissingLabel
			if present {
				fv.Label = domain.FormatLabel(v)
			}
		}
		vec[i] = fv
	}

	return vec
}

type numberLike interface {
	Float64() (float64, error)
}

// ToNumber coerces a raw value to a non-negative finite float, or 0.
func ToNumber(v any) float64 {
	var f float64

	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case bool:
		if t {
			f = 1
		}
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0
		}
		f = parsed
	case numberLike:
		parsed, err := t.Float64()
		if err != nil {
			return 0
		}
		f = parsed
	default:
		return 0
	}

	if math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0
	}
	return f
}
