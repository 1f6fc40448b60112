package backend

import (
	"context"
	"errors"
	"testing"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/match/aggregate"
	"talent-match/internal/match/commute"
	"talent-match/internal/match/skills"
	"talent-match/internal/match/weights"

	"github.com/google/uuid"
)

type stubBackend struct {
	name    string
	caps    []Capability
	pingErr error
}

func (s *stubBackend) Name() string                { return s.name }
func (s *stubBackend) Capabilities() []Capability  { return s.caps }
func (s *stubBackend) Ping(context.Context) error  { return s.pingErr }
func (s *stubBackend) Score(context.Context, Request) (match.Result, error) {
	return match.Result{}, nil
}

func validRequest() Request {
	return Request{
		Candidate: profile.Candidate{ID: uuid.New(), Skills: []string{"go"}},
		Job:       profile.Job{ID: uuid.New(), RequiredSkills: []string{"go"}},
		UserID:    uuid.New(),
		Weights: match.WeightVector{
			Values:  map[string]float64{match.CategorySkills: 1.0},
			Version: "v1",
		},
	}
}

func TestRegistry_EligiblePriorityOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubBackend{name: "low", caps: []Capability{CapabilitySemanticSkills, CapabilityCommute}}, 10)
	r.Register(&stubBackend{name: "high", caps: []Capability{CapabilitySemanticSkills, CapabilityCommute}}, 30)
	r.Register(&stubBackend{name: "mid", caps: []Capability{CapabilitySemanticSkills, CapabilityCommute}}, 20)

	eligible := r.Eligible(validRequest())
	if len(eligible) != 3 {
		t.Fatalf("expected 3 eligible backends, got %d", len(eligible))
	}
	if eligible[0].Name() != "high" || eligible[1].Name() != "mid" || eligible[2].Name() != "low" {
		t.Fatalf("wrong priority order: %s %s %s",
			eligible[0].Name(), eligible[1].Name(), eligible[2].Name())
	}
}

func TestRegistry_EligibleSkipsUnavailable(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubBackend{name: "remote", caps: []Capability{CapabilitySemanticSkills}}, 20)
	r.Register(&stubBackend{name: "local", caps: []Capability{CapabilityLocalScoring}}, 10)

	r.SetHealth("remote", HealthUnavailable)

	eligible := r.Eligible(validRequest())
	if len(eligible) != 1 || eligible[0].Name() != "local" {
		t.Fatalf("expected only the local backend, got %d entries", len(eligible))
	}
}

func TestRegistry_EligibleFiltersByCapability(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubBackend{name: "no_commute", caps: []Capability{CapabilitySemanticSkills}}, 20)
	r.Register(&stubBackend{name: "commuter", caps: []Capability{CapabilitySemanticSkills, CapabilityCommute}}, 15)

	req := validRequest()
	req.WithCommute = true

	eligible := r.Eligible(req)
	if len(eligible) != 1 || eligible[0].Name() != "commuter" {
		t.Fatalf("expected only the commute-capable backend, got %+v", names(eligible))
	}
}

func TestRegistry_LocalBackendAlwaysEligible(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubBackend{name: "local", caps: []Capability{CapabilityLocalScoring}}, 10)
	r.SetHealth("local", HealthUnavailable)

	req := validRequest()
	req.WithCommute = true
	if got := r.Eligible(req); len(got) != 1 {
		t.Fatalf("local backend must stay eligible, got %d", len(got))
	}
}

func TestRegistry_ReportFailureOnlyDegradesHealthy(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubBackend{name: "remote"}, 20)

	r.ReportFailure("remote")
	if got := r.Health("remote"); got != HealthDegraded {
		t.Fatalf("expected degraded, got %s", got)
	}

	r.SetHealth("remote", HealthUnavailable)
	r.ReportFailure("remote")
	if got := r.Health("remote"); got != HealthUnavailable {
		t.Fatalf("request path must not move unavailable, got %s", got)
	}
}

func TestRequest_Validate(t *testing.T) {
	if err := validRequest().Validate(); err != nil {
		t.Fatalf("valid request rejected: %v", err)
	}

	missing := validRequest()
	missing.Candidate.ID = uuid.Nil
	if err := missing.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}

	noWeights := validRequest()
	noWeights.Weights = match.WeightVector{}
	if err := noWeights.Validate(); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for empty weights, got %v", err)
	}
}

func TestBasic_ScoreNeverFailsExternally(t *testing.T) {
	b := newTestBasic()
	res, err := b.Score(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("basic backend failed: %v", err)
	}
	if res.AlgorithmUsed != BasicName {
		t.Fatalf("algorithm: got %q", res.AlgorithmUsed)
	}
	if res.OverallScore < 0 || res.OverallScore > 100 {
		t.Fatalf("score out of range: %d", res.OverallScore)
	}
	if res.ComputedAt.IsZero() {
		t.Fatalf("ComputedAt not set")
	}
}

func TestBasic_InvalidInputSurfaces(t *testing.T) {
	b := newTestBasic()
	req := validRequest()
	req.Job.ID = uuid.Nil
	if _, err := b.Score(context.Background(), req); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestProber_TransitionsAndRecovery(t *testing.T) {
	r := NewRegistry()
	flaky := &stubBackend{name: "remote", pingErr: errors.New("refused")}
	r.Register(flaky, 20)

	p := NewHealthProber(r, time.Minute, time.Second, nil)

	p.ProbeOnce(context.Background())
	if got := r.Health("remote"); got != HealthDegraded {
		t.Fatalf("first failure: expected degraded, got %s", got)
	}

	p.ProbeOnce(context.Background())
	if got := r.Health("remote"); got != HealthUnavailable {
		t.Fatalf("second failure: expected unavailable, got %s", got)
	}

	flaky.pingErr = nil
	p.ProbeOnce(context.Background())
	if got := r.Health("remote"); got != HealthHealthy {
		t.Fatalf("recovery: expected healthy, got %s", got)
	}
}

func TestProber_RapidStartStop(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubBackend{name: "remote"}, 20)

	p := NewHealthProber(r, time.Hour, time.Second, nil)

	// Stop can run before the loop goroutine is scheduled; every
	// cycle must still terminate cleanly.
	for i := 0; i < 500; i++ {
		p.Start(context.Background())
		p.Stop()
	}
}

func TestParseRichResponse_Fenced(t *testing.T) {
	raw := "```json\n{\"category_scores\": {\"skills\": 0.9}, \"insights\": [{\"category\": \"skills\", \"message\": \"strong overlap\", \"polarity\": \"strength\"}]}\n```"
	w := match.WeightVector{Values: map[string]float64{match.CategorySkills: 1.0}}

	scores, insights, err := parseRichResponse(raw, w)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if scores[match.CategorySkills] != 0.9 {
		t.Fatalf("skills score: got %f", scores[match.CategorySkills])
	}
	if len(insights) != 1 || insights[0].Polarity != match.PolarityStrength {
		t.Fatalf("insights: %+v", insights)
	}
}

func TestParseRichResponse_ClampsAndFillsMissing(t *testing.T) {
	raw := `{"category_scores": {"skills": 3.5}}`
	w := match.WeightVector{Values: map[string]float64{
		match.CategorySkills:   0.5,
		match.CategoryLocation: 0.5,
	}}

	scores, _, err := parseRichResponse(raw, w)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if scores[match.CategorySkills] != 1.0 {
		t.Fatalf("expected clamp to 1.0, got %f", scores[match.CategorySkills])
	}
	if scores[match.CategoryLocation] != 0.5 {
		t.Fatalf("expected missing category to default to 0.5, got %f", scores[match.CategoryLocation])
	}
}

func TestParseRichResponse_GarbageFails(t *testing.T) {
	w := match.WeightVector{Values: map[string]float64{match.CategorySkills: 1.0}}
	if _, _, err := parseRichResponse("the candidate looks great!", w); err == nil {
		t.Fatalf("expected parse error for prose response")
	}
}

func newTestBasic() *Basic {
	agg := aggregate.New(
		skills.NewScorer(0.7, 0.3),
		commute.NewScorer(nil, time.Second, nil),
		20,
		60,
	)
	return NewBasic(agg, weights.NewProvider(nil, 5, nil))
}

func names(backends []MatchBackend) []string {
	out := make([]string, 0, len(backends))
	for _, b := range backends {
		out = append(out, b.Name())
	}
	return out
}
