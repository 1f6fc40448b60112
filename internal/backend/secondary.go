package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"talent-match/internal/domain/match"
)

// SecondaryName is the algorithm name of the remote scoring service
// backend.
const SecondaryName = "remote_scoring"

// Secondary delegates scoring to an external scoring service over
// HTTP. Connection errors and timeouts map onto the error taxonomy so
// the router can degrade instead of failing.
type Secondary struct {
	baseURL string
	client  *http.Client
	ceiling int
}

type scoreRequestDTO struct {
	Candidate   candidateDTO       `json:"candidate"`
	Job         jobDTO             `json:"job"`
	Weights     map[string]float64 `json:"weights"`
	WithCommute bool               `json:"with_commute"`
}

type candidateDTO struct {
	ID              string   `json:"id"`
	Skills          []string `json:"skills"`
	Locality        string   `json:"locality"`
	YearsExperience int      `json:"years_experience"`
	EducationLevel  string   `json:"education_level"`
	SalaryExpected  int      `json:"salary_expectation"`
	AvoidIndustries []string `json:"avoid_industries"`
	WorkMode        string   `json:"work_mode"`
}

type jobDTO struct {
	ID                 string   `json:"id"`
	Title              string   `json:"title"`
	Industry           string   `json:"industry"`
	RequiredSkills     []string `json:"required_skills"`
	PreferredSkills    []string `json:"preferred_skills"`
	Locality           string   `json:"locality"`
	MinYearsExperience int      `json:"min_years_experience"`
	MaxYearsExperience int      `json:"max_years_experience"`
	Education          string   `json:"education_requirement"`
	SalaryMin          int      `json:"salary_min"`
	SalaryMax          int      `json:"salary_max"`
	WorkMode           string   `json:"work_mode"`
}

type scoreResponseDTO struct {
	OverallScore   int                `json:"overall_score"`
	CategoryScores map[string]float64 `json:"category_scores"`
	Insights       []insightDTO       `json:"insights"`
}

type insightDTO struct {
	Category string `json:"category"`
	Message  string `json:"message"`
	Polarity string `json:"polarity"`
}

// NewSecondary builds the remote backend. An empty base URL yields nil
// so the container skips registration.
func NewSecondary(baseURL string, timeout time.Duration, dealbreakerCeiling int) *Secondary {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if dealbreakerCeiling <= 0 {
		dealbreakerCeiling = 20
	}
	return &Secondary{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
		ceiling: dealbreakerCeiling,
	}
}

func (s *Secondary) Name() string { return SecondaryName }

func (s *Secondary) Capabilities() []Capability {
	return []Capability{CapabilitySemanticSkills, CapabilityCommute}
}

func (s *Secondary) Score(ctx context.Context, req Request) (match.Result, error) {
	if err := req.Validate(); err != nil {
		return match.Result{}, err
	}

	body := scoreRequestDTO{
		Candidate: candidateDTO{
			ID:              req.Candidate.ID.String(),
			Skills:          req.Candidate.Skills,
			Locality:        req.Candidate.Location.Locality,
			YearsExperience: req.Candidate.YearsExperience,
			EducationLevel:  req.Candidate.EducationLevel,
			SalaryExpected:  req.Candidate.SalaryExpectation,
			AvoidIndustries: req.Candidate.Preferences.AvoidIndustries,
			WorkMode:        string(req.Candidate.Preferences.WorkMode),
		},
		Job: jobDTO{
			ID:                 req.Job.ID.String(),
			Title:              req.Job.Title,
			Industry:           req.Job.Industry,
			RequiredSkills:     req.Job.RequiredSkills,
			PreferredSkills:    req.Job.PreferredSkills,
			Locality:           req.Job.Location.Locality,
			MinYearsExperience: req.Job.MinYearsExperience,
			MaxYearsExperience: req.Job.MaxYearsExperience,
			Education:          req.Job.EducationRequirement,
			SalaryMin:          req.Job.SalaryMin,
			SalaryMax:          req.Job.SalaryMax,
			WorkMode:           string(req.Job.WorkMode),
		},
		Weights:     req.Weights.Values,
		WithCommute: req.WithCommute,
	}

	b, err := json.Marshal(body)
	if err != nil {
		return match.Result{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/score", bytes.NewReader(b))
	if err != nil {
		return match.Result{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return match.Result{}, fmt.Errorf("%w: %s", ErrTimeout, SecondaryName)
		}
		return match.Result{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		rb, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return match.Result{}, fmt.Errorf("%w: status=%d body=%s",
			ErrProviderUnavailable, resp.StatusCode, strings.TrimSpace(string(rb)))
	}

	var out scoreResponseDTO
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return match.Result{}, fmt.Errorf("%w: decode response: %v", ErrProviderUnavailable, err)
	}

	return s.toResult(out, req), nil
}

// toResult normalizes the remote payload so the scoring invariants
// hold regardless of what the service returned.
func (s *Secondary) toResult(out scoreResponseDTO, req Request) match.Result {
	insights := make([]match.Insight, 0, len(out.Insights))
	dealbreaker := false
	for _, in := range out.Insights {
		polarity := match.Polarity(strings.ToLower(strings.TrimSpace(in.Polarity)))
		switch polarity {
		case match.PolarityStrength, match.PolarityImprovement, match.PolarityDealbreaker:
		default:
			continue
		}
		if polarity == match.PolarityDealbreaker {
			dealbreaker = true
		}
		insights = append(insights, match.Insight{
			Category: in.Category,
			Message:  in.Message,
			Polarity: polarity,
		})
	}

	scores := make(map[string]float64, len(req.Weights.Values))
	for k := range req.Weights.Values {
		v := out.CategoryScores[k]
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		scores[k] = v
	}

	overall := out.OverallScore
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}
	if dealbreaker && overall > s.ceiling {
		overall = s.ceiling
	}

	return match.Result{
		OverallScore:   overall,
		CategoryScores: scores,
		Confidence:     match.ConfidenceMedium,
		AlgorithmUsed:  SecondaryName,
		Insights:       insights,
		ComputedAt:     time.Now().UTC(),
	}
}

func (s *Secondary) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/health", nil)
	if err != nil {
		return err
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("scoring service unhealthy: status=%d", resp.StatusCode)
	}
	return nil
}

var _ MatchBackend = (*Secondary)(nil)
