package recommend

import (
	"math"
	"sort"

	"github.com/nidhogg/agentmatch/internal/scoring"
)

// Rank sorts candidates best first: reported score descending, then more
// overlapping skills, then catalog order. Ordering on the rounded score keeps
// agents that display the same score subject to the tie-breaks.
func Rank(candidates []scoring.ScoredCandidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		return ranksBefore(candidates[i], candidates[j])
	})
}

func ranksBefore(a, b scoring.ScoredCandidate) bool {
	if sa, sb := ExternalScore(a.RawScore), ExternalScore(b.RawScore); sa != sb {
		return sa > sb
	}
	if len(a.SkillOverlap) != len(b.SkillOverlap) {
		return len(a.SkillOverlap) > len(b.SkillOverlap)
	}
	return a.Index < b.Index
}

// ExternalScore maps a raw [0,1] score onto the reported [0,10] scale,
// rounded to two decimals.
func ExternalScore(raw float64) float64 {
	s := math.Round(raw*1000) / 100
	return math.Max(0, math.Min(10, s))
}
