package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"talent-match/internal/backend"
	"talent-match/internal/cache"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/match/weights"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// AlgorithmAuto lets the router pick the best eligible backend.
const AlgorithmAuto = "auto"

// ErrBackendUnavailable is returned when an explicitly named backend
// exists but is currently unavailable.
var ErrBackendUnavailable = errors.New("requested backend unavailable")

// Options are the per-request knobs recognized by the orchestrator.
type Options struct {
	Algorithm    string
	MinScore     float64
	WithCommute  bool
	ForceRefresh bool
}

// Request pairs one candidate with one job.
type Request struct {
	Candidate profile.Candidate
	Job       profile.Job
	UserID    uuid.UUID
	Options   Options
}

// Orchestrator routes match requests across backends with health-aware
// fallback, caching, and confidence reporting. It holds no per-request
// state, so independent requests run concurrently without coordination.
type Orchestrator struct {
	registry         *backend.Registry
	weights          *weights.Provider
	cache            cache.Cache
	ttl              time.Duration
	callTimeout      time.Duration
	batchConcurrency int
	logger           *zap.Logger
}

func New(registry *backend.Registry, weightProvider *weights.Provider, resultCache cache.Cache, ttl, callTimeout time.Duration, batchConcurrency int, logger *zap.Logger) *Orchestrator {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if callTimeout <= 0 {
		callTimeout = 5 * time.Second
	}
	if batchConcurrency <= 0 {
		batchConcurrency = 8
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Orchestrator{
		registry:         registry,
		weights:          weightProvider,
		cache:            resultCache,
		ttl:              ttl,
		callTimeout:      callTimeout,
		batchConcurrency: batchConcurrency,
		logger:           logger,
	}
}

// Match scores one candidate/job pair. Provider failures degrade down
// the backend chain; only invalid input or an unknown explicit
// algorithm surface as errors.
func (o *Orchestrator) Match(ctx context.Context, req Request) (match.Result, error) {
	if err := ctx.Err(); err != nil {
		return match.Result{}, err
	}
	if req.Candidate.ID == uuid.Nil || req.Job.ID == uuid.Nil {
		return match.Result{}, backend.ErrInvalidInput
	}

	algorithm := req.Options.Algorithm
	if algorithm == "" {
		algorithm = AlgorithmAuto
	}

	w := o.weights.GetWeights(ctx, req.UserID, weights.JobContext{TechnicalFocus: req.Job.TechnicalFocus})

	key := cache.MatchKey(req.Candidate.ID, req.Job.ID, w.Version, algorithm)
	if o.cache != nil && !req.Options.ForceRefresh {
		var cached match.Result
		if hit, err := o.cache.GetJSON(ctx, key, &cached); err == nil && hit {
			o.logger.Debug("match served from cache",
				zap.String("candidate_id", req.Candidate.ID.String()),
				zap.String("job_id", req.Job.ID.String()),
				zap.String("algorithm", cached.AlgorithmUsed),
			)
			return cached, nil
		}
	}

	breq := backend.Request{
		Candidate:   req.Candidate,
		Job:         req.Job,
		UserID:      req.UserID,
		Weights:     w,
		WithCommute: req.Options.WithCommute,
	}

	chain, err := o.buildChain(algorithm, breq)
	if err != nil {
		return match.Result{}, err
	}

	result, served, err := o.invokeChain(ctx, chain, breq)
	if err != nil {
		return match.Result{}, err
	}

	// The first choice of the chain carries the backend's own
	// confidence; any later tier can claim at most medium. The
	// terminal local backend always reports low.
	if served > 0 && result.Confidence == match.ConfidenceHigh {
		result.Confidence = match.ConfidenceMedium
	}

	if o.cache != nil {
		if err := o.cache.SetJSON(ctx, key, result, o.ttl); err != nil {
			o.logger.Warn("failed to cache match result", zap.Error(err))
		}
	}

	return result, nil
}

// Backends snapshots the registry for the health surface.
func (o *Orchestrator) Backends() []backend.Descriptor {
	return o.registry.Describe()
}

func (o *Orchestrator) buildChain(algorithm string, breq backend.Request) ([]backend.MatchBackend, error) {
	if algorithm == AlgorithmAuto {
		return o.registry.Eligible(breq), nil
	}

	named, ok := o.registry.Get(algorithm)
	if !ok {
		return nil, fmt.Errorf("%w: %q", backend.ErrUnknownAlgorithm, algorithm)
	}
	if o.registry.Health(algorithm) == backend.HealthUnavailable {
		return nil, fmt.Errorf("%w: %q", ErrBackendUnavailable, algorithm)
	}

	chain := []backend.MatchBackend{named}
	if algorithm != backend.BasicName {
		if basic, ok := o.registry.Get(backend.BasicName); ok {
			chain = append(chain, basic)
		}
	}
	return chain, nil
}

// invokeChain tries each backend exactly once in order, bounding the
// worst case at len(chain) call timeouts. The served index reports
// which tier produced the result.
func (o *Orchestrator) invokeChain(ctx context.Context, chain []backend.MatchBackend, breq backend.Request) (match.Result, int, error) {
	var lastErr error
	for i, b := range chain {
		callCtx, cancel := context.WithTimeout(ctx, o.callTimeout)
		result, err := b.Score(callCtx, breq)
		cancel()

		if err == nil {
			if i > 0 {
				o.logger.Info("match served by fallback tier",
					zap.String("backend", b.Name()),
					zap.Int("tier", i),
				)
			}
			return result, i, nil
		}

		if errors.Is(err, backend.ErrInvalidInput) {
			return match.Result{}, i, err
		}

		o.registry.ReportFailure(b.Name())
		if errors.Is(err, backend.ErrTimeout) || errors.Is(err, context.DeadlineExceeded) {
			o.logger.Warn("backend timed out",
				zap.String("backend", b.Name()),
				zap.Duration("timeout", o.callTimeout),
			)
		} else {
			o.logger.Warn("backend unavailable",
				zap.String("backend", b.Name()),
				zap.Error(err),
			)
		}
		lastErr = err
	}

	if lastErr == nil {
		lastErr = backend.ErrProviderUnavailable
	}
	return match.Result{}, -1, lastErr
}
