package prefstore

import (
	"context"
	"errors"
	"sync"

	"talent-match/internal/domain/match"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no learned weights exist for a user.
var ErrNotFound = errors.New("preference weights not found")

// Store is the external preference collaborator. Learning happens
// behind it; the match core only reads weights and records feedback.
type Store interface {
	GetWeights(ctx context.Context, userID uuid.UUID) (match.WeightVector, error)
	RecordFeedback(ctx context.Context, userID, jobID uuid.UUID, outcome string) error
	FeedbackCount(ctx context.Context, userID uuid.UUID) (int, error)
}

type feedbackEntry struct {
	jobID   uuid.UUID
	outcome string
}

// Memory is an in-process Store used in tests and single-node runs.
type Memory struct {
	mu       sync.RWMutex
	weights  map[uuid.UUID]match.WeightVector
	feedback map[uuid.UUID][]feedbackEntry
}

func NewMemory() *Memory {
	return &Memory{
		weights:  make(map[uuid.UUID]match.WeightVector),
		feedback: make(map[uuid.UUID][]feedbackEntry),
	}
}

func (m *Memory) GetWeights(_ context.Context, userID uuid.UUID) (match.WeightVector, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	wv, ok := m.weights[userID]
	if !ok {
		return match.WeightVector{}, ErrNotFound
	}
	return wv, nil
}

// SetWeights stores a learned vector, standing in for the external
// learning pipeline.
func (m *Memory) SetWeights(userID uuid.UUID, wv match.WeightVector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weights[userID] = wv
}

func (m *Memory) RecordFeedback(_ context.Context, userID, jobID uuid.UUID, outcome string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.feedback[userID] = append(m.feedback[userID], feedbackEntry{jobID: jobID, outcome: outcome})
	return nil
}

func (m *Memory) FeedbackCount(_ context.Context, userID uuid.UUID) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.feedback[userID]), nil
}

var _ Store = (*Memory)(nil)
