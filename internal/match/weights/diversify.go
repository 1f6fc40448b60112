package weights

import (
	"math/rand"

	"github.com/google/uuid"
)

// RankedItem is one entry of a ranked result list. Bucket is the
// grouping used for diversification (typically industry or category).
type RankedItem struct {
	ID     uuid.UUID
	Bucket string
	Score  int
}

// Diversify reorders items so the top topK entries avoid more than
// maxRun consecutive entries from the same bucket. Scores are never
// changed; entries are only moved. The seed fixes tie-breaking so a
// given call is reproducible.
func Diversify(items []RankedItem, topK, maxRun int, seed int64) []RankedItem {
	if len(items) == 0 || maxRun <= 0 {
		return items
	}
	if topK <= 0 || topK > len(items) {
		topK = len(items)
	}

	out := make([]RankedItem, len(items))
	copy(out, items)
	rng := rand.New(rand.NewSource(seed))

	run := 0
	for i := 0; i < topK; i++ {
		if i > 0 && out[i].Bucket == out[i-1].Bucket {
			run++
		} else {
			run = 1
		}
		if run <= maxRun {
			continue
		}

		j := pickSwap(out, i, rng)
		if j < 0 {
			// Nothing left from another bucket; the tail stays as-is.
			break
		}
		moved := out[j]
		copy(out[i+1:j+1], out[i:j])
		out[i] = moved
		run = 1
	}

	return out
}

// pickSwap finds the next entry after i from a different bucket,
// preferring the highest-scored one and using the rng to break score
// ties.
func pickSwap(items []RankedItem, i int, rng *rand.Rand) int {
	best := -1
	ties := 0
	for j := i + 1; j < len(items); j++ {
		if items[j].Bucket == items[i].Bucket {
			continue
		}
		if best < 0 || items[j].Score > items[best].Score {
			best = j
			ties = 1
			continue
		}
		if items[j].Score == items[best].Score {
			ties++
			if rng.Intn(ties) == 0 {
				best = j
			}
		}
	}
	return best
}
