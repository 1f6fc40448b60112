package prefstore

import (
	"context"
	"errors"
	"testing"

	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

func TestMemory_GetWeightsNotFound(t *testing.T) {
	store := NewMemory()

	_, err := store.GetWeights(context.Background(), uuid.New())
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_SetThenGetWeights(t *testing.T) {
	store := NewMemory()
	userID := uuid.New()
	want := match.WeightVector{
		Values:  map[string]float64{match.CategorySkills: 0.6, match.CategoryLocation: 0.4},
		Version: "learned-v1",
	}

	store.SetWeights(userID, want)

	got, err := store.GetWeights(context.Background(), userID)
	if err != nil {
		t.Fatalf("GetWeights returned error: %v", err)
	}
	if got.Version != want.Version {
		t.Fatalf("expected version %q, got %q", want.Version, got.Version)
	}
	if got.Values[match.CategorySkills] != 0.6 {
		t.Fatalf("unexpected skills weight: %v", got.Values[match.CategorySkills])
	}
}

func TestMemory_FeedbackCount(t *testing.T) {
	store := NewMemory()
	userID := uuid.New()

	for i := 0; i < 3; i++ {
		if err := store.RecordFeedback(context.Background(), userID, uuid.New(), "accepted"); err != nil {
			t.Fatalf("RecordFeedback returned error: %v", err)
		}
	}

	count, err := store.FeedbackCount(context.Background(), userID)
	if err != nil {
		t.Fatalf("FeedbackCount returned error: %v", err)
	}
	if count != 3 {
		t.Fatalf("expected 3 feedback entries, got %d", count)
	}

	other, err := store.FeedbackCount(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("FeedbackCount returned error: %v", err)
	}
	if other != 0 {
		t.Fatalf("expected 0 for unknown user, got %d", other)
	}
}
