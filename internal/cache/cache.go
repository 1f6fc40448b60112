package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Cache stores computed match results. Entries are immutable once
// written and replaced only on expiry plus recompute; concurrent writes
// of the same key are last-writer-wins, which is safe because results
// are idempotent for unchanged inputs.
type Cache interface {
	GetJSON(ctx context.Context, key string, out any) (bool, error)
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type matchKeyInput struct {
	CandidateID    string `json:"candidate_id"`
	JobID          string `json:"job_id"`
	WeightsVersion string `json:"weights_version"`
	Algorithm      string `json:"algorithm"`
}

// MatchKey derives the cache key for one match computation. Any change
// to the weight generation or the algorithm produces a distinct key.
func MatchKey(candidateID, jobID uuid.UUID, weightsVersion, algorithm string) string {
	in := matchKeyInput{
		CandidateID:    candidateID.String(),
		JobID:          jobID.String(),
		WeightsVersion: strings.TrimSpace(weightsVersion),
		Algorithm:      strings.ToLower(strings.TrimSpace(algorithm)),
	}
	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return "match:result:" + hex.EncodeToString(sum[:])
}
