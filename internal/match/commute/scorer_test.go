package commute

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/profile"
)

type stubProvider struct {
	minutes float64
	err     error
}

func (p stubProvider) EstimateMinutes(context.Context, profile.Location, profile.Location, profile.CommuteMode) (float64, error) {
	return p.minutes, p.err
}

func (p stubProvider) Ping(context.Context) error { return p.err }

func TestScoreMinutes_Bands(t *testing.T) {
	cases := []struct {
		minutes float64
		max     int
		want    float64
	}{
		{10, 60, 1.0},
		{15, 60, 1.0},
		{20, 60, 0.8},
		{40, 60, 0.6},
		{50, 60, 0.4},
		{75, 60, 0.2},
		{Infeasible, 60, 0.0},
	}
	for _, c := range cases {
		if got := ScoreMinutes(c.minutes, c.max); got != c.want {
			t.Fatalf("ScoreMinutes(%f, %d) = %f, want %f", c.minutes, c.max, got, c.want)
		}
	}
}

func TestScoreMinutes_BeyondMaxDecaysButNeverNegative(t *testing.T) {
	got := ScoreMinutes(100, 60)
	if got <= 0 || got >= 0.2 {
		t.Fatalf("expected decayed score in (0, 0.2), got %f", got)
	}
	if far := ScoreMinutes(100000, 60); far != 0.0 {
		t.Fatalf("expected far travel to score 0, got %f", far)
	}
}

func TestScoreMinutes_MonotonicNonIncreasing(t *testing.T) {
	prev := 1.1
	for m := 0.0; m <= 600; m += 5 {
		got := ScoreMinutes(m, 60)
		if got > prev {
			t.Fatalf("score increased at %f minutes: %f > %f", m, got, prev)
		}
		if got < 0 {
			t.Fatalf("negative score at %f minutes: %f", m, got)
		}
		prev = got
	}
}

func TestEstimateMinutes_SameLocalityConstants(t *testing.T) {
	s := NewScorer(nil, time.Second, nil)
	loc := profile.Location{Locality: "Berlin"}

	cases := map[profile.CommuteMode]float64{
		profile.CommuteDriving:   20,
		profile.CommuteTransit:   30,
		profile.CommuteBicycling: 40,
		profile.CommuteWalking:   90,
	}
	for mode, want := range cases {
		got := s.EstimateMinutes(context.Background(), loc, profile.Location{Locality: "berlin"}, mode)
		if got != want {
			t.Fatalf("same locality %s: got %f, want %f", mode, got, want)
		}
	}
}

func TestEstimateMinutes_HaversineDriving(t *testing.T) {
	s := NewScorer(nil, time.Second, nil)
	// Berlin -> Potsdam is roughly 27 km, so driving at 70 km/h should
	// land around 23 minutes.
	origin := profile.Location{Locality: "Berlin", Lat: 52.52, Lon: 13.405, HasCoords: true}
	dest := profile.Location{Locality: "Potsdam", Lat: 52.4, Lon: 13.06, HasCoords: true}
	got := s.EstimateMinutes(context.Background(), origin, dest, profile.CommuteDriving)
	if got < 15 || got > 35 {
		t.Fatalf("expected roughly 23 minutes, got %f", got)
	}
}

func TestEstimateMinutes_ModeCapsInfeasible(t *testing.T) {
	s := NewScorer(nil, time.Second, nil)
	origin := profile.Location{Locality: "Berlin", Lat: 52.52, Lon: 13.405, HasCoords: true}
	dest := profile.Location{Locality: "Hamburg", Lat: 53.55, Lon: 9.99, HasCoords: true}

	if got := s.EstimateMinutes(context.Background(), origin, dest, profile.CommuteBicycling); got != Infeasible {
		t.Fatalf("bicycling 250km: got %f, want infeasible", got)
	}
	if got := s.EstimateMinutes(context.Background(), origin, dest, profile.CommuteWalking); got != Infeasible {
		t.Fatalf("walking 250km: got %f, want infeasible", got)
	}
}

func TestEstimateMinutes_UnknownLocalities(t *testing.T) {
	s := NewScorer(nil, time.Second, nil)
	got := s.EstimateMinutes(context.Background(),
		profile.Location{Locality: "Somewhere"},
		profile.Location{Locality: "Elsewhere"},
		profile.CommuteDriving,
	)
	// 400 km at 70 km/h.
	want := 400.0 / 70.0 * 60.0
	if diff := got - want; diff > 1e-9 || diff < -1e-9 {
		t.Fatalf("unknown localities: got %f, want %f", got, want)
	}
}

func TestEstimateMinutes_ProviderPreferred(t *testing.T) {
	s := NewScorer(stubProvider{minutes: 12}, time.Second, nil)
	got := s.EstimateMinutes(context.Background(),
		profile.Location{Locality: "Berlin"},
		profile.Location{Locality: "Berlin"},
		profile.CommuteDriving,
	)
	if got != 12 {
		t.Fatalf("expected provider estimate 12, got %f", got)
	}
}

func TestEstimateMinutes_ProviderFailureFallsBack(t *testing.T) {
	s := NewScorer(stubProvider{err: errors.New("connection refused")}, time.Second, nil)
	got := s.EstimateMinutes(context.Background(),
		profile.Location{Locality: "Berlin"},
		profile.Location{Locality: "Berlin"},
		profile.CommuteDriving,
	)
	if got != 20 {
		t.Fatalf("expected local fallback 20, got %f", got)
	}
}

func TestScore_ShortCommute(t *testing.T) {
	s := NewScorer(stubProvider{minutes: 10}, time.Second, nil)
	got := s.Score(context.Background(),
		profile.Location{Locality: "a"}, profile.Location{Locality: "b"},
		60, profile.CommuteDriving,
	)
	if got != 1.0 {
		t.Fatalf("10 minute commute: got %f, want 1.0", got)
	}
}
