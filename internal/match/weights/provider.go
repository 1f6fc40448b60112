package weights

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"

	"talent-match/internal/domain/match"
	"talent-match/internal/prefstore"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultMinFeedbackForWarm = 5

	perturbationSpread = 0.10
	technicalNudge     = 1.25
)

// defaultWeights is the fixed base vector perturbed during cold start.
var defaultWeights = map[string]float64{
	match.CategorySkills:      0.40,
	match.CategoryLocation:    0.15,
	match.CategoryExperience:  0.20,
	match.CategoryEducation:   0.10,
	match.CategoryPreferences: 0.15,
}

// JobContext carries the job metadata that can bias cold-start weights.
type JobContext struct {
	TechnicalFocus bool
}

// Provider supplies per-user weight vectors. A user is cold until the
// store has recorded enough feedback, then warm for good; warm users
// read their learned vector from the preference store, falling back to
// cold-start weights whenever the store cannot serve.
type Provider struct {
	store       prefstore.Store
	minFeedback int
	logger      *zap.Logger
}

func NewProvider(store prefstore.Store, minFeedback int, logger *zap.Logger) *Provider {
	if minFeedback <= 0 {
		minFeedback = defaultMinFeedbackForWarm
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provider{store: store, minFeedback: minFeedback, logger: logger}
}

// GetWeights never fails: any store problem degrades to cold-start.
func (p *Provider) GetWeights(ctx context.Context, userID uuid.UUID, jobCtx JobContext) match.WeightVector {
	if p.store != nil && userID != uuid.Nil {
		count, err := p.store.FeedbackCount(ctx, userID)
		if err != nil {
			p.logger.Warn("preference store unreachable, using cold-start weights",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
			return p.coldStart(userID, jobCtx)
		}
		if count >= p.minFeedback {
			wv, err := p.store.GetWeights(ctx, userID)
			if err == nil {
				return wv.Normalize()
			}
			p.logger.Warn("learned weights unavailable for warm user, using cold-start weights",
				zap.String("user_id", userID.String()),
				zap.Error(err),
			)
		}
	}
	return p.coldStart(userID, jobCtx)
}

// coldStart perturbs the default vector by up to ±10% per category,
// seeded by the user id so a given user always sees the same weights
// while different users explore slightly different rankings.
func (p *Provider) coldStart(userID uuid.UUID, jobCtx JobContext) match.WeightVector {
	seed := userSeed(userID)
	rng := rand.New(rand.NewSource(seed))

	values := make(map[string]float64, len(defaultWeights))
	for _, category := range match.Categories() {
		base := defaultWeights[category]
		jitter := 1.0 + (rng.Float64()*2.0-1.0)*perturbationSpread
		values[category] = base * jitter
	}

	if jobCtx.TechnicalFocus {
		values[match.CategorySkills] *= technicalNudge
	}

	wv := match.WeightVector{
		Values:  values,
		Version: fmt.Sprintf("cold-%016x", uint64(seed)),
	}
	return wv.Normalize()
}

func userSeed(userID uuid.UUID) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(userID.String()))
	return int64(h.Sum64())
}
