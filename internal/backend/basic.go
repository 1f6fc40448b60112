package backend

import (
	"context"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/match/aggregate"
	"talent-match/internal/match/weights"
)

// BasicName is the algorithm name reported by the terminal local
// backend.
const BasicName = "basic_fallback"

// Basic scores with the local criteria aggregator and cold-start
// weights. It performs no network calls and must never fail because of
// external unavailability, which makes it the terminal fallback.
type Basic struct {
	aggregator *aggregate.Aggregator
	weights    *weights.Provider
}

func NewBasic(aggregator *aggregate.Aggregator, weightProvider *weights.Provider) *Basic {
	return &Basic{aggregator: aggregator, weights: weightProvider}
}

func (b *Basic) Name() string { return BasicName }

func (b *Basic) Capabilities() []Capability {
	return []Capability{CapabilityLocalScoring}
}

func (b *Basic) Score(ctx context.Context, req Request) (match.Result, error) {
	if err := req.Validate(); err != nil {
		return match.Result{}, err
	}

	w := req.Weights
	if len(w.Values) == 0 {
		w = b.weights.GetWeights(ctx, req.UserID, weights.JobContext{TechnicalFocus: req.Job.TechnicalFocus})
	}

	overall, scores, insights := b.aggregator.Aggregate(ctx, req.Candidate, req.Job, w, req.WithCommute)

	return match.Result{
		OverallScore:   overall,
		CategoryScores: scores,
		Confidence:     match.ConfidenceLow,
		AlgorithmUsed:  BasicName,
		Insights:       insights,
		ComputedAt:     time.Now().UTC(),
	}, nil
}

// Ping always succeeds: the basic backend has no external dependency.
func (b *Basic) Ping(context.Context) error { return nil }

var _ MatchBackend = (*Basic)(nil)
