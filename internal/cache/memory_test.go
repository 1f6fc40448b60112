package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
)

type payload struct {
	Score int    `json:"score"`
	Name  string `json:"name"`
}

func TestMemory_SetGetRoundTrip(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	in := payload{Score: 87, Name: "match"}
	if err := m.SetJSON(ctx, "k", in, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}

	var out payload
	hit, err := m.GetJSON(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !hit {
		t.Fatalf("expected hit")
	}
	if out != in {
		t.Fatalf("round trip mismatch: %+v != %+v", out, in)
	}
}

func TestMemory_MissOnUnknownKey(t *testing.T) {
	m := NewMemory()
	var out payload
	hit, err := m.GetJSON(context.Background(), "missing", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatalf("expected miss")
	}
}

func TestMemory_ExpiredEntryMisses(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	current := time.Now()
	m.now = func() time.Time { return current }

	if err := m.SetJSON(ctx, "k", payload{Score: 1}, time.Second); err != nil {
		t.Fatalf("set: %v", err)
	}

	current = current.Add(2 * time.Second)

	var out payload
	hit, err := m.GetJSON(ctx, "k", &out)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if hit {
		t.Fatalf("expected expired entry to miss")
	}
}

func TestMemory_Delete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_ = m.SetJSON(ctx, "k", payload{Score: 1}, time.Minute)
	if err := m.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}

	var out payload
	hit, _ := m.GetJSON(ctx, "k", &out)
	if hit {
		t.Fatalf("expected miss after delete")
	}
}

func TestMatchKey_Deterministic(t *testing.T) {
	cand, job := uuid.New(), uuid.New()
	a := MatchKey(cand, job, "v1", "auto")
	b := MatchKey(cand, job, "v1", "AUTO ")
	if a != b {
		t.Fatalf("algorithm normalization failed: %q != %q", a, b)
	}
	if MatchKey(cand, job, "v1", "auto") == MatchKey(cand, job, "v2", "auto") {
		t.Fatalf("weights version must change the key")
	}
	if MatchKey(cand, job, "v1", "auto") == MatchKey(job, cand, "v1", "auto") {
		t.Fatalf("swapping ids must change the key")
	}
}
