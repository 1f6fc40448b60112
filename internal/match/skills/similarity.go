package skills

import (
	"sort"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

const (
	aliasMatchWeight   = 0.9
	approxMatchWeight  = 0.7
	lexiconMatchWeight = 0.6

	defaultApproxThreshold = 0.8
)

// Scorer compares a candidate skill set against a job's required set.
// Scoring is deterministic and order-independent: inputs are treated as
// sets and tie-breaks use sorted order.
type Scorer struct {
	directWeight    float64
	semanticWeight  float64
	approxThreshold float64
	jw              *metrics.JaroWinkler
}

// NewScorer builds a Scorer with the given direct/semantic blend. Zero
// or negative weights fall back to the 0.7/0.3 defaults.
func NewScorer(directWeight, semanticWeight float64) *Scorer {
	if directWeight <= 0 || semanticWeight <= 0 {
		directWeight = 0.7
		semanticWeight = 0.3
	}
	return &Scorer{
		directWeight:    directWeight,
		semanticWeight:  semanticWeight,
		approxThreshold: defaultApproxThreshold,
		jw:              metrics.NewJaroWinkler(),
	}
}

// Score returns a similarity in [0,1]. An empty required or candidate
// set scores 0. A full exact intersection short-circuits to 1.
func (s *Scorer) Score(candidateSkills, requiredSkills []string) float64 {
	required := normalizeSet(requiredSkills)
	candidate := normalizeSet(candidateSkills)
	if len(required) == 0 || len(candidate) == 0 {
		return 0.0
	}

	unmatched := make([]string, 0, len(required))
	exact := 0
	for _, r := range required {
		if containsString(candidate, r) {
			exact++
		} else {
			unmatched = append(unmatched, r)
		}
	}

	direct := float64(exact) / float64(len(required))
	if direct == 1.0 {
		return 1.0
	}

	semanticSum := 0.0

	remaining := unmatched[:0:0]
	for _, r := range unmatched {
		if anyRelated(r, candidate, aliasRelated) {
			semanticSum += aliasMatchWeight
		} else {
			remaining = append(remaining, r)
		}
	}

	// Approximate string matching only runs when the alias table gave
	// nothing, keeping it a degradation path rather than a booster.
	if semanticSum == 0 {
		next := remaining[:0:0]
		for _, r := range remaining {
			if sim := s.bestApproximation(r, candidate); sim >= s.approxThreshold {
				semanticSum += sim * approxMatchWeight
			} else {
				next = append(next, r)
			}
		}
		remaining = next
	}

	for _, r := range remaining {
		if anyRelated(r, candidate, lexiconRelated) {
			semanticSum += lexiconMatchWeight
		}
	}

	semantic := semanticSum / float64(len(required))
	if semantic > 1.0 {
		semantic = 1.0
	}

	final := s.directWeight*direct + s.semanticWeight*semantic
	if final > 1.0 {
		final = 1.0
	}
	if final < 0 {
		final = 0
	}
	return final
}

func (s *Scorer) bestApproximation(required string, candidate []string) float64 {
	best := 0.0
	for _, c := range candidate {
		if sim := strutil.Similarity(required, c, s.jw); sim > best {
			best = sim
		}
	}
	return best
}

func anyRelated(required string, candidate []string, related func(a, b string) bool) bool {
	for _, c := range candidate {
		if related(required, c) {
			return true
		}
	}
	return false
}

func normalizeSet(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

func containsString(sorted []string, target string) bool {
	i := sort.SearchStrings(sorted, target)
	return i < len(sorted) && sorted[i] == target
}
