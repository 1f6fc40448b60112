package backend

import (
	"context"
	"errors"
	"sort"
	"sync"

	"talent-match/internal/domain/match"
	"talent-match/internal/domain/profile"

	"github.com/google/uuid"
)

var (
	// ErrInvalidInput marks requests missing required fields. It is the
	// only error surfaced to callers as a hard failure.
	ErrInvalidInput = errors.New("invalid input")

	// ErrProviderUnavailable marks a network failure reaching an
	// external scorer; the router recovers via the fallback chain.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrTimeout marks a deadline hit on an external call. Logged
	// distinctly from connection failures for probe statistics.
	ErrTimeout = errors.New("backend call timed out")

	// ErrUnknownAlgorithm marks an explicit algorithm selection that
	// no registered backend answers to.
	ErrUnknownAlgorithm = errors.New("unknown algorithm")
)

// Capability tags what a backend can make use of from a request.
type Capability string

const (
	CapabilityLocalScoring   Capability = "local_scoring"
	CapabilitySemanticSkills Capability = "semantic_skills"
	CapabilityCommute        Capability = "commute"
	CapabilityLLMInsights    Capability = "llm_insights"
)

// HealthStatus is the probe-maintained availability of a backend.
type HealthStatus string

const (
	HealthHealthy     HealthStatus = "healthy"
	HealthDegraded    HealthStatus = "degraded"
	HealthUnavailable HealthStatus = "unavailable"
)

// Request is one scoring request handed to a backend. Inputs are
// immutable; backends never mutate candidate or job.
type Request struct {
	Candidate   profile.Candidate
	Job         profile.Job
	UserID      uuid.UUID
	Weights     match.WeightVector
	WithCommute bool
}

// RequiredCapabilities lists the capabilities a backend needs to serve
// every field of this request.
func (r Request) RequiredCapabilities() []Capability {
	caps := make([]Capability, 0, 1)
	if r.WithCommute {
		caps = append(caps, CapabilityCommute)
	}
	return caps
}

// MatchBackend is one interchangeable scoring strategy.
type MatchBackend interface {
	Name() string
	Capabilities() []Capability
	Score(ctx context.Context, req Request) (match.Result, error)
	Ping(ctx context.Context) error
}

// Descriptor is the registry's view of a backend.
type Descriptor struct {
	Name         string
	Capabilities []Capability
	Health       HealthStatus
	Priority     int
}

type registryEntry struct {
	backend  MatchBackend
	priority int
}

// Registry holds the capability-tagged ordered backend list plus the
// health table. Health is written by the prober and by the router's
// degrade-on-failure signal; the request path only reads it.
type Registry struct {
	mu      sync.RWMutex
	entries []registryEntry
	health  map[string]HealthStatus
}

func NewRegistry() *Registry {
	return &Registry{health: make(map[string]HealthStatus)}
}

// Register adds a backend. Higher priority backends are preferred by
// auto selection. New backends start healthy.
func (r *Registry) Register(b MatchBackend, priority int) {
	if b == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, registryEntry{backend: b, priority: priority})
	sort.SliceStable(r.entries, func(i, j int) bool {
		return r.entries[i].priority > r.entries[j].priority
	})
	r.health[b.Name()] = HealthHealthy
}

// Get returns a backend by name.
func (r *Registry) Get(name string) (MatchBackend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.backend.Name() == name {
			return e.backend, true
		}
	}
	return nil, false
}

// Health returns the probed status of a backend; unknown names report
// unavailable.
func (r *Registry) Health(name string) HealthStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if h, ok := r.health[name]; ok {
		return h
	}
	return HealthUnavailable
}

// SetHealth replaces a backend's status. Called by the prober.
func (r *Registry) SetHealth(name string, status HealthStatus) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.health[name]; ok {
		r.health[name] = status
	}
}

// ReportFailure is the router's fast negative signal after a timeout or
// connection error. It only moves a healthy backend to degraded; the
// unavailable transition and all recovery belong to the prober.
func (r *Registry) ReportFailure(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.health[name] == HealthHealthy {
		r.health[name] = HealthDegraded
	}
}

// Ordered returns all backends in priority order.
func (r *Registry) Ordered() []MatchBackend {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MatchBackend, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.backend)
	}
	return out
}

// Eligible returns backends able to serve the request, in priority
// order: not unavailable, capabilities covering the request. The
// terminal local backend is always eligible.
func (r *Registry) Eligible(req Request) []MatchBackend {
	required := req.RequiredCapabilities()

	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]MatchBackend, 0, len(r.entries))
	for _, e := range r.entries {
		name := e.backend.Name()
		if hasCapability(e.backend.Capabilities(), CapabilityLocalScoring) {
			out = append(out, e.backend)
			continue
		}
		if r.health[name] == HealthUnavailable {
			continue
		}
		if !coversAll(e.backend.Capabilities(), required) {
			continue
		}
		out = append(out, e.backend)
	}
	return out
}

// Describe snapshots the registry for operators.
func (r *Registry) Describe() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		name := e.backend.Name()
		out = append(out, Descriptor{
			Name:         name,
			Capabilities: e.backend.Capabilities(),
			Health:       r.health[name],
			Priority:     e.priority,
		})
	}
	return out
}

func hasCapability(caps []Capability, c Capability) bool {
	for _, have := range caps {
		if have == c {
			return true
		}
	}
	return false
}

func coversAll(caps []Capability, required []Capability) bool {
	for _, need := range required {
		if !hasCapability(caps, need) {
			return false
		}
	}
	return true
}

// Validate checks the request fields every backend needs.
func (r Request) Validate() error {
	if r.Candidate.ID == uuid.Nil {
		return ErrInvalidInput
	}
	if r.Job.ID == uuid.Nil {
		return ErrInvalidInput
	}
	if len(r.Weights.Values) == 0 {
		return ErrInvalidInput
	}
	return nil
}
