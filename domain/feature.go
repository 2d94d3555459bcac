package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// FeatureKey names one input column of the footprint model.
type FeatureKey string

const (
	FeatureBodyType                 FeatureKey = "Body Type"
	FeatureSex                      FeatureKey = "Sex"
	FeatureDiet                     FeatureKey = "Diet"
	FeatureHowOftenShower           FeatureKey = "How Often Shower"
	FeatureHeatingEnergySource      FeatureKey = "Heating Energy Source"
	FeatureTransport                FeatureKey = "Transport"
	FeatureVehicleType              FeatureKey = "Vehicle Type"
	FeatureSocialActivity           FeatureKey = "Social Activity"
	FeatureMonthlyGroceryBill       FeatureKey = "Monthly Grocery Bill"
	FeatureAirTravelFrequency       FeatureKey = "Frequency of Traveling by Air"
	FeatureVehicleMonthlyDistanceKm FeatureKey = "Vehicle Monthly Distance Km"
	FeatureWasteBagSize             FeatureKey = "Waste Bag Size"
	FeatureWasteBagWeeklyCount      FeatureKey = "Waste Bag Weekly Count"
	FeatureTVPCDailyHour            FeatureKey = "How Long TV PC Daily Hour"
	FeatureNewClothesMonthly        FeatureKey = "How Many New Clothes Monthly"
	FeatureInternetDailyHour        FeatureKey = "How Long Internet Daily Hour"
	FeatureEnergyEfficiency         FeatureKey = "Energy efficiency"
	FeatureRecycling                FeatureKey = "Recycling"
	FeatureCookingWith              FeatureKey = "Cooking_With"
)

const FeatureCount = 19

// MissingLabel fills categorical columns absent from a request.
const MissingLabel = "None"

// CanonicalFeatureOrder is the column order the model was trained on.
var CanonicalFeatureOrder = [FeatureCount]FeatureKey{
	FeatureBodyType,
	FeatureSex,
	FeatureDiet,
	FeatureHowOftenShower,
	FeatureHeatingEnergySource,
	FeatureTransport,
	FeatureVehicleType,
	FeatureSocialActivity,
	FeatureMonthlyGroceryBill,
	FeatureAirTravelFrequency,
	FeatureVehicleMonthlyDistanceKm,
	FeatureWasteBagSize,
	FeatureWasteBagWeeklyCount,
	FeatureTVPCDailyHour,
	FeatureNewClothesMonthly,
	FeatureInternetDailyHour,
	FeatureEnergyEfficiency,
	FeatureRecycling,
	FeatureCookingWith,
}

var numericFeatures = map[FeatureKey]struct{}{
	FeatureMonthlyGroceryBill:       {},
	FeatureVehicleMonthlyDistanceKm: {},
	FeatureWasteBagWeeklyCount:      {},
	FeatureTVPCDailyHour:            {},
	FeatureNewClothesMonthly:        {},
	FeatureInternetDailyHour:        {},
}

var featureIndex = func() map[FeatureKey]int {
	idx := make(map[FeatureKey]int, FeatureCount)
	for i, k := range CanonicalFeatureOrder {
		idx[k] = i
	}
	return idx
}()

// IsNumeric reports whether the key holds a quantity rather than a label.
func (k FeatureKey) IsNumeric() bool {
	_, ok := numericFeatures[k]
	return ok
}

// Known reports whether the key is one of the model's input columns.
func (k FeatureKey) Known() bool {
	_, ok := featureIndex[k]
	return ok
}

// Index returns the canonical column position of the key.
func (k FeatureKey) Index() (int, bool) {
	i, ok := featureIndex[k]
	return i, ok
}

// CategoricalFeatures lists the label columns in canonical order.
func CategoricalFeatures() []FeatureKey {
	out := make([]FeatureKey, 0, FeatureCount-len(numericFeatures))
	for _, k := range CanonicalFeatureOrder {
		if !k.IsNumeric() {
			out = append(out, k)
		}
	}
	return out
}

// NumericFeatures lists the quantity columns in canonical order.
func NumericFeatures() []FeatureKey {
	out := make([]FeatureKey, 0, len(numericFeatures))
	for _, k := range CanonicalFeatureOrder {
		if k.IsNumeric() {
			out = append(out, k)
		}
	}
	return out
}

// FeatureValue is one populated column. Label is set for categorical
// keys and Number for numeric keys.
type FeatureValue struct {
	Key    FeatureKey
	Label  string
	Number float64
}

// FeatureVector is the canonical, fully populated model input.
type FeatureVector [FeatureCount]FeatureValue

func (v FeatureVector) Len() int { return len(v) }

func (v FeatureVector) Value(k FeatureKey) (FeatureValue, bool) {
	i, ok := featureIndex[k]
	if !ok {
		return FeatureValue{}, false
	}
	return v[i], true
}

func (v FeatureVector) Label(k FeatureKey) string {
	fv, _ := v.Value(k)
	return fv.Label
}

func (v FeatureVector) Number(k FeatureKey) float64 {
	fv, _ := v.Value(k)
	return fv.Number
}

// Map renders the vector as a column name → value mapping.
func (v FeatureVector) Map() map[string]any {
	out := make(map[string]any, len(v))
	for _, fv := range v {
		if fv.Key.IsNumeric() {
			out[string(fv.Key)] = fv.Number
		} else {
			out[string(fv.Key)] = fv.Label
		}
	}
	return out
}

// RawPayload is a request body before normalization.
type RawPayload map[string]any

// FormatLabel stringifies a raw JSON value the same way the training
// pipeline stringified categorical columns: null becomes "None" and lists
// render as ['a', 'b'].
func FormatLabel(v any) string {
	switch t := v.(type) {
	case nil:
		return MissingLabel
	case string:
		return t
	case bool:
		if t {
			return "True"
		}
		return "False"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	case []any:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				parts = append(parts, "'"+s+"'")
				continue
			}
			parts = append(parts, FormatLabel(item))
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case []string:
		parts := make([]string, 0, len(t))
		for _, s := range t {
			parts = append(parts, "'"+s+"'")
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return fmt.Sprint(t)
	}
}

// IsBlank reports whether a raw value carries no answer at all.
func IsBlank(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case bool:
		return !t
	case float64:
		return t == 0
	case []any:
		return len(t) == 0
	case []string:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	default:
		return false
	}
}
