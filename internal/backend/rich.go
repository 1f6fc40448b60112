package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/match/commute"

	"go.uber.org/zap"
)

// RichName is the algorithm name of the LLM-assisted backend.
const RichName = "gemini_rich"

const richPromptTemplate = `You are a recruiting assistant scoring how well a candidate fits a job.
Score each category between 0.0 and 1.0. Use the commute estimate when present.
Respond with JSON only, no prose, in this shape:
{"category_scores": {%s}, "insights": [{"category": "...", "message": "...", "polarity": "strength|improvement|dealbreaker"}]}

Candidate:
%s

Job:
%s

Commute estimate minutes (negative means infeasible): %s
`

// Rich scores via the Gemini API. A commute scorer supplies live
// travel-time context for the prompt; the weighted overall score is
// computed locally so the aggregation invariants hold no matter what
// the model replies.
type Rich struct {
	generator ContentGenerator
	commute   *commute.Scorer
	ceiling   int
	logger    *zap.Logger
}

func NewRich(generator ContentGenerator, commuteScorer *commute.Scorer, dealbreakerCeiling int, logger *zap.Logger) *Rich {
	if generator == nil {
		return nil
	}
	if dealbreakerCeiling <= 0 {
		dealbreakerCeiling = 20
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Rich{generator: generator, commute: commuteScorer, ceiling: dealbreakerCeiling, logger: logger}
}

func (r *Rich) Name() string { return RichName }

func (r *Rich) Capabilities() []Capability {
	return []Capability{CapabilitySemanticSkills, CapabilityCommute, CapabilityLLMInsights}
}

func (r *Rich) Score(ctx context.Context, req Request) (match.Result, error) {
	if err := req.Validate(); err != nil {
		return match.Result{}, err
	}

	prompt, err := r.buildPrompt(ctx, req)
	if err != nil {
		return match.Result{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	raw, err := r.generator.GenerateContent(ctx, prompt)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return match.Result{}, fmt.Errorf("%w: %s", ErrTimeout, RichName)
		}
		return match.Result{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	scores, insights, err := parseRichResponse(raw, req.Weights)
	if err != nil {
		r.logger.Warn("unparseable gemini response",
			zap.String("job_id", req.Job.ID.String()),
			zap.Error(err),
		)
		return match.Result{}, fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	overall := weightedOverall(scores, req.Weights)
	if containsDealbreaker(insights) && overall > r.ceiling {
		overall = r.ceiling
	}

	return match.Result{
		OverallScore:   overall,
		CategoryScores: scores,
		Confidence:     match.ConfidenceHigh,
		AlgorithmUsed:  RichName,
		Insights:       insights,
		ComputedAt:     time.Now().UTC(),
	}, nil
}

// Ping only verifies configuration. A full generation probe would cost
// tokens per probe cycle; request-path failures feed health instead.
func (r *Rich) Ping(context.Context) error {
	if r == nil || r.generator == nil {
		return fmt.Errorf("gemini generator not configured")
	}
	return nil
}

func (r *Rich) buildPrompt(ctx context.Context, req Request) (string, error) {
	candidateJSON, err := json.MarshalIndent(map[string]any{
		"skills":              req.Candidate.Skills,
		"locality":            req.Candidate.Location.Locality,
		"years_experience":    req.Candidate.YearsExperience,
		"education_level":     req.Candidate.EducationLevel,
		"salary_expectation":  req.Candidate.SalaryExpectation,
		"preferred_work_mode": string(req.Candidate.Preferences.WorkMode),
		"avoid_industries":    req.Candidate.Preferences.AvoidIndustries,
	}, "", "  ")
	if err != nil {
		return "", err
	}

	jobJSON, err := json.MarshalIndent(map[string]any{
		"title":                 req.Job.Title,
		"industry":              req.Job.Industry,
		"required_skills":       req.Job.RequiredSkills,
		"preferred_skills":      req.Job.PreferredSkills,
		"locality":              req.Job.Location.Locality,
		"min_years_experience":  req.Job.MinYearsExperience,
		"max_years_experience":  req.Job.MaxYearsExperience,
		"education_requirement": req.Job.EducationRequirement,
		"salary_range":          []int{req.Job.SalaryMin, req.Job.SalaryMax},
		"work_mode":             string(req.Job.WorkMode),
	}, "", "  ")
	if err != nil {
		return "", err
	}

	commuteNote := "unknown"
	if req.WithCommute && r.commute != nil && req.Job.WorkMode != profile.WorkModeRemote {
		mode := req.Candidate.Preferences.CommuteMode
		if mode == "" {
			mode = profile.CommuteDriving
		}
		minutes := r.commute.EstimateMinutes(ctx, req.Candidate.Location, req.Job.Location, mode)
		commuteNote = fmt.Sprintf("%.0f", minutes)
	}

	categories := make([]string, 0, len(req.Weights.Values))
	for k := range req.Weights.Values {
		categories = append(categories, fmt.Sprintf("%q: 0.0", k))
	}

	return fmt.Sprintf(richPromptTemplate,
		strings.Join(categories, ", "),
		string(candidateJSON),
		string(jobJSON),
		commuteNote,
	), nil
}

type richResponseDTO struct {
	CategoryScores map[string]float64 `json:"category_scores"`
	Insights       []insightDTO       `json:"insights"`
}

// parseRichResponse decodes the model output, tolerating markdown
// fences, and clamps everything into the contract's ranges. Category
// keys always end up equal to the weight keys.
func parseRichResponse(raw string, weights match.WeightVector) (map[string]float64, []match.Insight, error) {
	cleaned := extractJSON(raw)

	var dto richResponseDTO
	if err := json.Unmarshal([]byte(cleaned), &dto); err != nil {
		return nil, nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if len(dto.CategoryScores) == 0 {
		return nil, nil, fmt.Errorf("gemini response has no category scores")
	}

	scores := make(map[string]float64, len(weights.Values))
	for k := range weights.Values {
		v, ok := dto.CategoryScores[k]
		if !ok {
			v = 0.5
		}
		if math.IsNaN(v) || v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		scores[k] = v
	}

	insights := make([]match.Insight, 0, len(dto.Insights))
	for _, in := range dto.Insights {
		polarity := match.Polarity(strings.ToLower(strings.TrimSpace(in.Polarity)))
		switch polarity {
		case match.PolarityStrength, match.PolarityImprovement, match.PolarityDealbreaker:
		default:
			continue
		}
		message := strings.TrimSpace(in.Message)
		if message == "" {
			continue
		}
		insights = append(insights, match.Insight{
			Category: strings.ToLower(strings.TrimSpace(in.Category)),
			Message:  message,
			Polarity: polarity,
		})
	}

	return scores, insights, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func weightedOverall(scores map[string]float64, weights match.WeightVector) int {
	w := weights
	if !w.IsNormalized() {
		w = w.Normalize()
	}
	total := 0.0
	for k, weight := range w.Values {
		total += weight * scores[k]
	}
	overall := int(math.Round(total * 100))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}
	return overall
}

func containsDealbreaker(insights []match.Insight) bool {
	for _, in := range insights {
		if in.Polarity == match.PolarityDealbreaker {
			return true
		}
	}
	return false
}

var _ MatchBackend = (*Rich)(nil)
