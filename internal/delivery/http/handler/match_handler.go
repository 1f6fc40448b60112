package handler

import (
	"errors"
	"hash/fnv"
	"sort"

	"talent-match/internal/backend"
	"talent-match/internal/delivery/http/dto"
	"talent-match/internal/delivery/http/middleware"
	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/match/weights"
	"talent-match/internal/orchestrator"
	"talent-match/internal/pkg/response"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type MatchHandler struct {
	orch *orchestrator.Orchestrator
}

func NewMatchHandler(orch *orchestrator.Orchestrator) *MatchHandler {
	return &MatchHandler{orch: orch}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Post("/match", h.PostMatch)
	r.Post("/match/batch", h.PostBatchMatch)
}

func (h *MatchHandler) PostMatch(c fiber.Ctx) error {
	var req dto.MatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "malformed request body", nil, err)
	}

	userID, err := parseOptionalID(req.UserID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid user_id", nil, err)
	}
	candidate, err := toCandidate(req.Candidate)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid candidate", nil, err)
	}
	job, err := toJob(req.Job)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid job", nil, err)
	}

	result, err := h.orch.Match(c.Context(), orchestrator.Request{
		Candidate: candidate,
		Job:       job,
		UserID:    userID,
		Options:   toOptions(req.Options),
	})
	if err != nil {
		return mapMatchError(err)
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, toMatchResponse(result))
}

func (h *MatchHandler) PostBatchMatch(c fiber.Ctx) error {
	var req dto.BatchMatchRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "malformed request body", nil, err)
	}
	if len(req.Jobs) == 0 {
		return middleware.NewAppError(fiber.StatusBadRequest, "jobs must not be empty", nil, nil)
	}

	userID, err := parseOptionalID(req.UserID)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid user_id", nil, err)
	}
	candidate, err := toCandidate(req.Candidate)
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid candidate", nil, err)
	}

	options := toOptions(req.Options)
	reqs := make([]orchestrator.Request, 0, len(req.Jobs))
	for _, jr := range req.Jobs {
		job, err := toJob(jr)
		if err != nil {
			return middleware.NewAppError(fiber.StatusBadRequest, "invalid job", nil, err)
		}
		reqs = append(reqs, orchestrator.Request{
			Candidate: candidate,
			Job:       job,
			UserID:    userID,
			Options:   options,
		})
	}

	results, err := h.orch.BatchMatch(c.Context(), reqs)
	if err != nil {
		return mapMatchError(err)
	}

	kept := make([]int, 0, len(results))
	filtered := 0
	for i, result := range results {
		if float64(result.OverallScore) < options.MinScore {
			filtered++
			continue
		}
		kept = append(kept, i)
	}

	if req.Options.Diversify {
		kept = diversifyOrder(kept, reqs, results, userID)
	}

	out := dto.BatchMatchResponse{
		Results:  make([]dto.BatchMatchEntryResponse, 0, len(kept)),
		Filtered: filtered,
	}
	for _, i := range kept {
		out.Results = append(out.Results, dto.BatchMatchEntryResponse{
			JobID: reqs[i].Job.ID.String(),
			Match: toMatchResponse(results[i]),
		})
	}

	return response.Success(c, fiber.StatusOK, response.MessageOK, out)
}

const diversifyMaxRun = 2

// diversifyOrder ranks the kept entries by score and spaces out
// same-industry runs. The seed is derived from the user so a given
// user's batch ordering is reproducible.
func diversifyOrder(kept []int, reqs []orchestrator.Request, results []match.Result, userID uuid.UUID) []int {
	items := make([]weights.RankedItem, 0, len(kept))
	for _, i := range kept {
		items = append(items, weights.RankedItem{
			ID:     reqs[i].Job.ID,
			Bucket: reqs[i].Job.Industry,
			Score:  results[i].OverallScore,
		})
	}
	sort.SliceStable(items, func(a, b int) bool { return items[a].Score > items[b].Score })

	h := fnv.New64a()
	h.Write([]byte(userID.String()))
	items = weights.Diversify(items, len(items), diversifyMaxRun, int64(h.Sum64()))

	// A batch may list the same job more than once; queue the kept
	// positions per job so every entry maps back to its own index.
	positions := make(map[uuid.UUID][]int, len(kept))
	for _, i := range kept {
		positions[reqs[i].Job.ID] = append(positions[reqs[i].Job.ID], i)
	}
	ordered := make([]int, 0, len(items))
	for _, item := range items {
		queue := positions[item.ID]
		ordered = append(ordered, queue[0])
		positions[item.ID] = queue[1:]
	}
	return ordered
}

func mapMatchError(err error) error {
	switch {
	case errors.Is(err, backend.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "invalid match input", nil, err)
	case errors.Is(err, backend.ErrUnknownAlgorithm):
		return middleware.NewAppError(fiber.StatusBadRequest, "unknown algorithm", nil, err)
	case errors.Is(err, orchestrator.ErrBackendUnavailable):
		return middleware.NewAppError(fiber.StatusServiceUnavailable, "requested backend unavailable", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}

func parseOptionalID(raw string) (uuid.UUID, error) {
	if raw == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(raw)
}

func toOptions(in dto.MatchOptionsRequest) orchestrator.Options {
	return orchestrator.Options{
		Algorithm:    in.Algorithm,
		MinScore:     in.MinScore,
		WithCommute:  in.WithCommute,
		ForceRefresh: in.ForceRefresh,
	}
}

func toLocation(in dto.LocationRequest) profile.Location {
	loc := profile.Location{Locality: in.Locality}
	if in.Lat != nil && in.Lon != nil {
		loc.Lat = *in.Lat
		loc.Lon = *in.Lon
		loc.HasCoords = true
	}
	return loc
}

func toCandidate(in dto.CandidateRequest) (profile.Candidate, error) {
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return profile.Candidate{}, err
	}
	return profile.Candidate{
		ID:                id,
		Skills:            in.Skills,
		Location:          toLocation(in.Location),
		YearsExperience:   in.YearsExperience,
		EducationLevel:    in.EducationLevel,
		SalaryExpectation: in.SalaryExpectation,
		Preferences: profile.Preferences{
			WorkMode:          profile.WorkMode(in.Preferences.WorkMode),
			MaxCommuteMinutes: in.Preferences.MaxCommuteMinutes,
			CommuteMode:       profile.CommuteMode(in.Preferences.CommuteMode),
			AvoidIndustries:   in.Preferences.AvoidIndustries,
		},
	}, nil
}

func toJob(in dto.JobRequest) (profile.Job, error) {
	id, err := uuid.Parse(in.ID)
	if err != nil {
		return profile.Job{}, err
	}
	return profile.Job{
		ID:                   id,
		Title:                in.Title,
		Industry:             in.Industry,
		RequiredSkills:       in.RequiredSkills,
		PreferredSkills:      in.PreferredSkills,
		Location:             toLocation(in.Location),
		MinYearsExperience:   in.MinYearsExperience,
		MaxYearsExperience:   in.MaxYearsExperience,
		EducationRequirement: in.EducationRequirement,
		SalaryMin:            in.SalaryMin,
		SalaryMax:            in.SalaryMax,
		WorkMode:             profile.WorkMode(in.WorkMode),
		TechnicalFocus:       in.TechnicalFocus,
	}, nil
}

func toMatchResponse(result match.Result) dto.MatchResponse {
	insights := make([]dto.InsightResponse, 0, len(result.Insights))
	for _, in := range result.Insights {
		insights = append(insights, dto.InsightResponse{
			Category: in.Category,
			Message:  in.Message,
			Polarity: string(in.Polarity),
		})
	}
	return dto.MatchResponse{
		OverallScore:   result.OverallScore,
		CategoryScores: result.CategoryScores,
		Confidence:     string(result.Confidence),
		AlgorithmUsed:  result.AlgorithmUsed,
		Insights:       insights,
		ComputedAt:     result.ComputedAt,
	}
}
