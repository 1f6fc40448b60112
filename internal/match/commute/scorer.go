package commute

import (
	"context"
	"errors"
	"time"

	"talent-match/internal/domain/profile"

	"go.uber.org/zap"
)

// Scorer turns a travel-time estimate into a commute score. The network
// provider is optional; the local estimator covers its absence so the
// scorer never fails.
type Scorer struct {
	provider TravelTimeProvider
	timeout  time.Duration
	logger   *zap.Logger
}

func NewScorer(provider TravelTimeProvider, timeout time.Duration, logger *zap.Logger) *Scorer {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scorer{provider: provider, timeout: timeout, logger: logger}
}

// EstimateMinutes returns the estimated trip length in minutes, or
// Infeasible (-1) when the mode cannot cover the distance.
func (s *Scorer) EstimateMinutes(ctx context.Context, origin, destination profile.Location, mode profile.CommuteMode) float64 {
	if s.provider != nil {
		callCtx, cancel := context.WithTimeout(ctx, s.timeout)
		minutes, err := s.provider.EstimateMinutes(callCtx, origin, destination, mode)
		cancel()
		if err == nil {
			return minutes
		}
		// Timeouts are logged apart from plain failures so probe
		// statistics can distinguish slow providers from dead ones.
		if errors.Is(err, context.DeadlineExceeded) {
			s.logger.Warn("travel time provider timeout",
				zap.String("mode", string(mode)),
				zap.Duration("timeout", s.timeout),
			)
		} else {
			s.logger.Warn("travel time provider unavailable, using local estimate",
				zap.String("mode", string(mode)),
				zap.Error(err),
			)
		}
	}
	return localEstimate(origin, destination, mode)
}

// Score maps minutes to a score in [0,1], non-increasing in minutes.
// Band edges are configurable defaults in spirit; past the last band the
// score decays linearly toward zero and is floored at zero.
func (s *Scorer) Score(ctx context.Context, origin, destination profile.Location, maxMinutes int, mode profile.CommuteMode) float64 {
	minutes := s.EstimateMinutes(ctx, origin, destination, mode)
	return ScoreMinutes(minutes, maxMinutes)
}

// ScoreMinutes is the pure banding function behind Score.
func ScoreMinutes(minutes float64, maxMinutes int) float64 {
	if minutes < 0 {
		return 0.0
	}
	switch {
	case minutes <= 15:
		return 1.0
	case minutes <= 30:
		return 0.8
	case minutes <= 45:
		return 0.6
	case minutes <= 60:
		return 0.4
	case minutes <= 90:
		return 0.2
	}

	decayWindow := float64(maxMinutes)
	if decayWindow < 90 {
		decayWindow = 90
	}
	score := 0.2 * (1.0 - (minutes-90)/(decayWindow*2))
	if score < 0 {
		return 0.0
	}
	return score
}
