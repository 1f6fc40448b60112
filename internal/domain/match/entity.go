package match

import (
	"math"
	"time"
)

// Category names every weighted scoring dimension. CategoryScores keys
// and WeightVector keys are always drawn from this set.
const (
	CategorySkills      = "skills"
	CategoryLocation    = "location"
	CategoryExperience  = "experience"
	CategoryEducation   = "education"
	CategoryPreferences = "preferences"
)

// Categories returns the closed category set in stable order.
func Categories() []string {
	return []string{CategorySkills, CategoryLocation, CategoryExperience, CategoryEducation, CategoryPreferences}
}

// Confidence reports which fallback tier produced a result.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Polarity classifies an insight.
type Polarity string

const (
	PolarityStrength    Polarity = "strength"
	PolarityImprovement Polarity = "improvement"
	PolarityDealbreaker Polarity = "dealbreaker"
)

// Insight is a human-readable observation attached to a match result.
type Insight struct {
	Category string   `json:"category"`
	Message  string   `json:"message"`
	Polarity Polarity `json:"polarity"`
}

// WeightVector holds per-category importance weights. Values sum to 1
// after Normalize. Version identifies the weight generation so cached
// results keyed on it invalidate when weights change.
type WeightVector struct {
	Values  map[string]float64 `json:"values"`
	Version string             `json:"version"`
}

// Sum returns the total of all weight values.
func (w WeightVector) Sum() float64 {
	total := 0.0
	for _, v := range w.Values {
		total += v
	}
	return total
}

// Normalize returns a copy scaled so the weights sum to 1. A zero or
// negative sum yields an even split across the closed category set.
func (w WeightVector) Normalize() WeightVector {
	out := WeightVector{Values: make(map[string]float64, len(w.Values)), Version: w.Version}
	sum := w.Sum()
	if sum <= 0 {
		cats := Categories()
		for _, c := range cats {
			out.Values[c] = 1.0 / float64(len(cats))
		}
		return out
	}
	for k, v := range w.Values {
		if v < 0 {
			v = 0
		}
		out.Values[k] = v / sum
	}
	return out
}

// IsNormalized reports whether the weights sum to 1 within tolerance.
func (w WeightVector) IsNormalized() bool {
	return math.Abs(w.Sum()-1.0) <= 1e-6
}

// Result is the immutable outcome of one match computation.
type Result struct {
	OverallScore   int                `json:"overall_score"`
	CategoryScores map[string]float64 `json:"category_scores"`
	Confidence     Confidence         `json:"confidence"`
	AlgorithmUsed  string             `json:"algorithm_used"`
	Insights       []Insight          `json:"insights"`
	ComputedAt     time.Time          `json:"computed_at"`
}

// HasDealbreaker reports whether any insight carries dealbreaker polarity.
func (r Result) HasDealbreaker() bool {
	for _, in := range r.Insights {
		if in.Polarity == PolarityDealbreaker {
			return true
		}
	}
	return false
}
