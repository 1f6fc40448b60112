package aggregate

import (
	"context"
	"testing"
	"time"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/match/commute"
	"talent-match/internal/match/skills"

	"github.com/google/uuid"
)

func newTestAggregator() *Aggregator {
	return New(
		skills.NewScorer(0.7, 0.3),
		commute.NewScorer(nil, time.Second, nil),
		20,
		60,
	)
}

func evenWeights() match.WeightVector {
	values := make(map[string]float64)
	cats := match.Categories()
	for _, c := range cats {
		values[c] = 1.0 / float64(len(cats))
	}
	return match.WeightVector{Values: values, Version: "test"}
}

func TestAggregate_SkillsOnlyPerfectMatch(t *testing.T) {
	a := newTestAggregator()
	cand := profile.Candidate{ID: uuid.New(), Skills: []string{"python", "react"}}
	job := profile.Job{ID: uuid.New(), RequiredSkills: []string{"python", "react"}}
	weights := match.WeightVector{Values: map[string]float64{match.CategorySkills: 1.0}, Version: "v"}

	overall, scores, insights := a.Aggregate(context.Background(), cand, job, weights, false)
	if overall != 100 {
		t.Fatalf("expected overall 100, got %d", overall)
	}
	if scores[match.CategorySkills] != 1.0 {
		t.Fatalf("expected skills score 1.0, got %f", scores[match.CategorySkills])
	}
	for _, in := range insights {
		if in.Polarity == match.PolarityDealbreaker {
			t.Fatalf("unexpected dealbreaker insight: %+v", in)
		}
	}
}

func TestAggregate_JobWithoutSkillRequirements(t *testing.T) {
	a := newTestAggregator()
	cand := profile.Candidate{ID: uuid.New(), Skills: []string{"python"}}
	job := profile.Job{ID: uuid.New()}
	weights := match.WeightVector{Values: map[string]float64{match.CategorySkills: 1.0}, Version: "v"}

	overall, scores, insights := a.Aggregate(context.Background(), cand, job, weights, false)
	if overall != 100 {
		t.Fatalf("job asking for no skills should score 100, got %d", overall)
	}
	if scores[match.CategorySkills] != 1.0 {
		t.Fatalf("expected skills score 1.0, got %f", scores[match.CategorySkills])
	}
	for _, in := range insights {
		if in.Polarity == match.PolarityImprovement && in.Category == match.CategorySkills {
			t.Fatalf("unexpected improvement insight for empty requirements: %+v", in)
		}
	}
}

func TestAggregate_ScoreAlwaysInRange(t *testing.T) {
	a := newTestAggregator()
	candidates := []profile.Candidate{
		{},
		{Skills: []string{"go"}, YearsExperience: 50, EducationLevel: "phd", SalaryExpectation: 1000000},
		{Skills: []string{"cooking"}, Location: profile.Location{Locality: "Nowhere"}},
	}
	job := profile.Job{
		RequiredSkills:       []string{"go", "kubernetes"},
		MinYearsExperience:   3,
		MaxYearsExperience:   8,
		EducationRequirement: "master",
		SalaryMax:            50000,
		Location:             profile.Location{Locality: "Berlin"},
	}
	for _, cand := range candidates {
		overall, _, _ := a.Aggregate(context.Background(), cand, job, evenWeights(), true)
		if overall < 0 || overall > 100 {
			t.Fatalf("overall score out of range: %d", overall)
		}
	}
}

func TestAggregate_CategoryKeysMatchWeightKeys(t *testing.T) {
	a := newTestAggregator()
	weights := evenWeights()
	_, scores, _ := a.Aggregate(context.Background(), profile.Candidate{}, profile.Job{}, weights, true)
	if len(scores) != len(weights.Values) {
		t.Fatalf("category count %d != weight count %d", len(scores), len(weights.Values))
	}
	for k := range weights.Values {
		if _, ok := scores[k]; !ok {
			t.Fatalf("missing category score for weight key %q", k)
		}
	}
}

func TestAggregate_DealbreakerCapsScore(t *testing.T) {
	a := newTestAggregator()
	cand := profile.Candidate{
		Skills:          []string{"python", "react"},
		YearsExperience: 5,
		EducationLevel:  "master",
		Preferences:     profile.Preferences{AvoidIndustries: []string{"finance"}},
	}
	job := profile.Job{
		Industry:           "finance",
		RequiredSkills:     []string{"python", "react"},
		MinYearsExperience: 2,
		WorkMode:           profile.WorkModeRemote,
	}

	overall, _, insights := a.Aggregate(context.Background(), cand, job, evenWeights(), false)
	if overall > 20 {
		t.Fatalf("dealbreaker must cap overall at 20, got %d", overall)
	}

	dealbreakers := 0
	for _, in := range insights {
		if in.Polarity == match.PolarityDealbreaker {
			dealbreakers++
		}
	}
	if dealbreakers != 1 {
		t.Fatalf("expected exactly one dealbreaker insight, got %d", dealbreakers)
	}
}

func TestAggregate_StrengthAndImprovementInsights(t *testing.T) {
	a := newTestAggregator()
	cand := profile.Candidate{
		Skills:          []string{"go", "postgresql"},
		YearsExperience: 0,
	}
	job := profile.Job{
		RequiredSkills:     []string{"go", "postgresql"},
		MinYearsExperience: 10,
		WorkMode:           profile.WorkModeRemote,
	}
	weights := match.WeightVector{Values: map[string]float64{
		match.CategorySkills:     0.5,
		match.CategoryExperience: 0.5,
	}}

	_, _, insights := a.Aggregate(context.Background(), cand, job, weights, false)

	var sawStrength, sawImprovement bool
	for _, in := range insights {
		if in.Category == match.CategorySkills && in.Polarity == match.PolarityStrength {
			sawStrength = true
		}
		if in.Category == match.CategoryExperience && in.Polarity == match.PolarityImprovement {
			sawImprovement = true
		}
	}
	if !sawStrength {
		t.Fatalf("expected skills strength insight, got %+v", insights)
	}
	if !sawImprovement {
		t.Fatalf("expected experience improvement insight, got %+v", insights)
	}
}

func TestAggregate_RemoteJobSkipsCommute(t *testing.T) {
	a := newTestAggregator()
	cand := profile.Candidate{Location: profile.Location{Locality: "Far Away"}}
	job := profile.Job{WorkMode: profile.WorkModeRemote, Location: profile.Location{Locality: "HQ"}}
	weights := match.WeightVector{Values: map[string]float64{match.CategoryLocation: 1.0}}

	overall, _, _ := a.Aggregate(context.Background(), cand, job, weights, true)
	if overall != 100 {
		t.Fatalf("remote job should score full location, got %d", overall)
	}
}

func TestExperienceScore_Banding(t *testing.T) {
	if got := experienceScore(5, 3, 8); got != 1.0 {
		t.Fatalf("inside range: got %f", got)
	}
	if got := experienceScore(0, 5, 10); got != 0.1 {
		t.Fatalf("zero years should hit the floor, got %f", got)
	}
	below := experienceScore(2, 5, 10)
	if below <= 0.1 || below >= 1.0 {
		t.Fatalf("below range should decay linearly, got %f", below)
	}
	over := experienceScore(20, 3, 8)
	if over < 0.5 || over >= 1.0 {
		t.Fatalf("overqualified should decay gently, got %f", over)
	}
	if got := experienceScore(1, 0, 0); got != 1.0 {
		t.Fatalf("no requirement should score full, got %f", got)
	}
}

func TestEducationScore_OrderedLevels(t *testing.T) {
	if got := educationScore("master", "bachelor"); got != 1.0 {
		t.Fatalf("above requirement: got %f", got)
	}
	if got := educationScore("bachelor", "bachelor"); got != 1.0 {
		t.Fatalf("exact requirement: got %f", got)
	}
	if got := educationScore("highschool", "master"); got != 0.25 {
		t.Fatalf("three levels short: got %f", got)
	}
	if got := educationScore("", ""); got != 1.0 {
		t.Fatalf("no requirement: got %f", got)
	}
}
