package handler

import (
	"testing"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"
	"talent-match/internal/orchestrator"

	"github.com/google/uuid"
)

func TestDiversifyOrder_RanksByScoreAndBreaksRuns(t *testing.T) {
	industries := []string{"fintech", "fintech", "fintech", "gaming", "health"}
	scores := []int{90, 85, 80, 75, 70}

	reqs := make([]orchestrator.Request, len(industries))
	results := make([]match.Result, len(industries))
	kept := make([]int, len(industries))
	for i := range industries {
		reqs[i] = orchestrator.Request{Job: profile.Job{ID: uuid.New(), Industry: industries[i]}}
		results[i] = match.Result{OverallScore: scores[i]}
		kept[i] = i
	}

	userID := uuid.New()
	ordered := diversifyOrder(kept, reqs, results, userID)

	if len(ordered) != len(kept) {
		t.Fatalf("expected %d entries, got %d", len(kept), len(ordered))
	}

	seen := make(map[int]bool)
	run := 0
	for pos, idx := range ordered {
		if seen[idx] {
			t.Fatalf("entry %d appears twice", idx)
		}
		seen[idx] = true
		if pos > 0 && reqs[idx].Job.Industry == reqs[ordered[pos-1]].Job.Industry {
			run++
		} else {
			run = 1
		}
		if run > diversifyMaxRun {
			t.Fatalf("more than %d consecutive %s entries", diversifyMaxRun, reqs[idx].Job.Industry)
		}
	}

	again := diversifyOrder(kept, reqs, results, userID)
	for i := range ordered {
		if ordered[i] != again[i] {
			t.Fatalf("ordering not reproducible for the same user")
		}
	}
}

func TestDiversifyOrder_DuplicateJobsKeepAllEntries(t *testing.T) {
	jobID := uuid.New()
	reqs := []orchestrator.Request{
		{Job: profile.Job{ID: jobID, Industry: "fintech"}},
		{Job: profile.Job{ID: jobID, Industry: "fintech"}},
		{Job: profile.Job{ID: uuid.New(), Industry: "gaming"}},
	}
	results := []match.Result{
		{OverallScore: 90},
		{OverallScore: 90},
		{OverallScore: 80},
	}
	kept := []int{0, 1, 2}

	ordered := diversifyOrder(kept, reqs, results, uuid.New())

	if len(ordered) != len(kept) {
		t.Fatalf("expected %d entries, got %d", len(kept), len(ordered))
	}
	seen := make(map[int]bool)
	for _, idx := range ordered {
		if seen[idx] {
			t.Fatalf("entry %d appears twice", idx)
		}
		seen[idx] = true
	}
}
