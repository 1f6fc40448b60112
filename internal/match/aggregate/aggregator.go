package aggregate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/match/commute"
	"talent-match/internal/match/skills"
)

const (
	strengthThreshold    = 0.8
	improvementThreshold = 0.4

	defaultDealbreakerCeiling = 20
)

// educationRank orders recognized education levels. Unknown levels rank
// zero and never penalize when the job states no requirement.
var educationRank = map[string]int{
	"none":        0,
	"highschool":  1,
	"high school": 1,
	"associate":   2,
	"vocational":  2,
	"bachelor":    3,
	"master":      4,
	"doctorate":   5,
	"phd":         5,
}

// Aggregator combines per-category sub-scores into one overall score
// plus insights. All scoring is local and CPU-bound except the commute
// scorer, which owns its own network fallback.
type Aggregator struct {
	skills            *skills.Scorer
	commute           *commute.Scorer
	ceiling           int
	maxCommuteMinutes int
}

func New(skillScorer *skills.Scorer, commuteScorer *commute.Scorer, dealbreakerCeiling, maxCommuteMinutes int) *Aggregator {
	if dealbreakerCeiling <= 0 {
		dealbreakerCeiling = defaultDealbreakerCeiling
	}
	if maxCommuteMinutes <= 0 {
		maxCommuteMinutes = 60
	}
	return &Aggregator{
		skills:            skillScorer,
		commute:           commuteScorer,
		ceiling:           dealbreakerCeiling,
		maxCommuteMinutes: maxCommuteMinutes,
	}
}

// Ceiling returns the configured dealbreaker score cap.
func (a *Aggregator) Ceiling() int {
	return a.ceiling
}

// Aggregate scores candidate against job under the given weights.
// Category score keys always equal the weight keys. A dealbreaker caps
// the overall score at the configured ceiling regardless of the rest.
func (a *Aggregator) Aggregate(ctx context.Context, cand profile.Candidate, job profile.Job, weights match.WeightVector, withCommute bool) (int, map[string]float64, []match.Insight) {
	w := weights
	if !w.IsNormalized() {
		w = w.Normalize()
	}

	scores := make(map[string]float64, len(w.Values))
	insights := make([]match.Insight, 0, 4)
	dealbreakerCategories := make(map[string]bool)

	keys := make([]string, 0, len(w.Values))
	for k := range w.Values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, category := range keys {
		var score float64
		switch category {
		case match.CategorySkills:
			score = a.scoreSkills(cand, job)
		case match.CategoryLocation:
			score = a.scoreLocation(ctx, cand, job, withCommute)
		case match.CategoryExperience:
			score = experienceScore(cand.YearsExperience, job.MinYearsExperience, job.MaxYearsExperience)
		case match.CategoryEducation:
			score = educationScore(cand.EducationLevel, job.EducationRequirement)
		case match.CategoryPreferences:
			var dealbreaker *match.Insight
			score, dealbreaker = preferenceScore(cand, job)
			if dealbreaker != nil {
				insights = append(insights, *dealbreaker)
				dealbreakerCategories[category] = true
			}
		default:
			score = 0
		}
		scores[category] = score
	}

	for _, category := range keys {
		if dealbreakerCategories[category] {
			continue
		}
		score := scores[category]
		if score >= strengthThreshold {
			insights = append(insights, match.Insight{
				Category: category,
				Message:  strengthMessage(category),
				Polarity: match.PolarityStrength,
			})
		} else if score < improvementThreshold {
			insights = append(insights, match.Insight{
				Category: category,
				Message:  improvementMessage(category, cand, job),
				Polarity: match.PolarityImprovement,
			})
		}
	}

	total := 0.0
	for _, category := range keys {
		total += w.Values[category] * scores[category]
	}
	overall := int(math.Round(total * 100))
	if overall < 0 {
		overall = 0
	}
	if overall > 100 {
		overall = 100
	}

	if len(dealbreakerCategories) > 0 && overall > a.ceiling {
		overall = a.ceiling
	}

	return overall, scores, insights
}

func (a *Aggregator) scoreSkills(cand profile.Candidate, job profile.Job) float64 {
	required := job.RequiredSkills
	if len(required) == 0 {
		required = job.PreferredSkills
	}
	// A job that asks for nothing cannot be missing anything.
	if len(required) == 0 {
		return 1.0
	}
	return a.skills.Score(cand.Skills, required)
}

func (a *Aggregator) scoreLocation(ctx context.Context, cand profile.Candidate, job profile.Job, withCommute bool) float64 {
	if job.WorkMode == profile.WorkModeRemote {
		return 1.0
	}
	if !withCommute {
		return 1.0
	}

	maxMinutes := cand.Preferences.MaxCommuteMinutes
	if maxMinutes <= 0 {
		maxMinutes = a.maxCommuteMinutes
	}
	mode := cand.Preferences.CommuteMode
	if mode == "" {
		mode = profile.CommuteDriving
	}
	return a.commute.Score(ctx, cand.Location, job.Location, maxMinutes, mode)
}

// experienceScore gives full credit inside the required range and
// decays linearly outside it, floored so a single category never zeroes
// a profile on its own.
func experienceScore(years, minYears, maxYears int) float64 {
	if minYears <= 0 && maxYears <= 0 {
		return 1.0
	}
	if maxYears > 0 && maxYears < minYears {
		maxYears = minYears
	}

	if years >= minYears && (maxYears <= 0 || years <= maxYears) {
		return 1.0
	}

	if years < minYears {
		score := float64(years) / float64(minYears)
		if score < 0.1 {
			score = 0.1
		}
		return score
	}

	// Overqualification decays gently.
	excess := years - maxYears
	score := 1.0 - 0.05*float64(excess)
	if score < 0.5 {
		score = 0.5
	}
	return score
}

func educationScore(candidateLevel, requiredLevel string) float64 {
	required, ok := educationRank[normalizeLevel(requiredLevel)]
	if !ok || required == 0 {
		return 1.0
	}
	candidate := educationRank[normalizeLevel(candidateLevel)]
	if candidate >= required {
		return 1.0
	}
	score := 1.0 - 0.25*float64(required-candidate)
	if score < 0 {
		score = 0
	}
	return score
}

// preferenceScore compares candidate preferences against the posting.
// An avoid-list hit is an absolute disqualifier and returns a
// dealbreaker insight alongside a zero component.
func preferenceScore(cand profile.Candidate, job profile.Job) (float64, *match.Insight) {
	industry := strings.ToLower(strings.TrimSpace(job.Industry))
	for _, avoided := range cand.Preferences.AvoidIndustries {
		if industry != "" && industry == strings.ToLower(strings.TrimSpace(avoided)) {
			return 0.0, &match.Insight{
				Category: match.CategoryPreferences,
				Message:  fmt.Sprintf("job industry %q is on the candidate avoid list", job.Industry),
				Polarity: match.PolarityDealbreaker,
			}
		}
	}

	components := make([]float64, 0, 2)
	components = append(components, workModeFit(cand.Preferences.WorkMode, job.WorkMode))
	components = append(components, salaryFit(cand.SalaryExpectation, job.SalaryMin, job.SalaryMax))

	total := 0.0
	for _, c := range components {
		total += c
	}
	return total / float64(len(components)), nil
}

func workModeFit(preferred, offered profile.WorkMode) float64 {
	if preferred == "" || offered == "" || preferred == offered {
		return 1.0
	}
	// Hybrid sits between the extremes.
	if preferred == profile.WorkModeHybrid || offered == profile.WorkModeHybrid {
		return 0.7
	}
	return 0.3
}

func salaryFit(expectation, salaryMin, salaryMax int) float64 {
	if expectation <= 0 || salaryMax <= 0 {
		return 1.0
	}
	if expectation <= salaryMax {
		return 1.0
	}
	score := float64(salaryMax) / float64(expectation)
	if score < 0 {
		score = 0
	}
	return score
}

func normalizeLevel(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func strengthMessage(category string) string {
	switch category {
	case match.CategorySkills:
		return "candidate skills closely cover the required set"
	case match.CategoryLocation:
		return "commute is well within the preferred limit"
	case match.CategoryExperience:
		return "experience fits the required range"
	case match.CategoryEducation:
		return "education meets or exceeds the requirement"
	case match.CategoryPreferences:
		return "role aligns with the candidate preferences"
	default:
		return "strong " + category + " alignment"
	}
}

func improvementMessage(category string, cand profile.Candidate, job profile.Job) string {
	switch category {
	case match.CategorySkills:
		return fmt.Sprintf("candidate covers few of the %d required skills", len(job.RequiredSkills))
	case match.CategoryLocation:
		return "commute is far beyond the preferred limit"
	case match.CategoryExperience:
		return fmt.Sprintf("candidate has %d years against a %d year minimum", cand.YearsExperience, job.MinYearsExperience)
	case match.CategoryEducation:
		return fmt.Sprintf("education %q falls short of required %q", cand.EducationLevel, job.EducationRequirement)
	case match.CategoryPreferences:
		return "role conflicts with the candidate preferences"
	default:
		return category + " needs improvement"
	}
}
