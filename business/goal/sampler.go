package goal

import (
	"math/rand"
	"sort"

	"shopsim/domain"
)

// Sampler draws goal indices in proportion to goal weight. The cumulative
// array is prefixed with zero and the drawn insertion point is clamped to the
// second-to-last slot, matching the long-standing sampling behavior sessions
// were collected under.
type Sampler struct {
	goals []domain.Goal
	cum   []float64
}

func NewSampler(goals []domain.Goal) *Sampler {
	cum := make([]float64, len(goals)+1)
	for i, g := range goals {
		cum[i+1] = cum[i] + g.Weight
	}
	return &Sampler{goals: goals, cum: cum}
}

// Draw returns a goal index weighted by the cumulative array.
func (s *Sampler) Draw(rng *rand.Rand) int {
	if len(s.goals) == 0 {
		return -1
	}
	pos := rng.Float64() * s.cum[len(s.cum)-1]
	idx := sort.Search(len(s.cum), func(i int) bool { return s.cum[i] > pos })
	if idx > len(s.cum)-2 {
		idx = len(s.cum) - 2
	}
	return idx
}

// LimitGoals draws a weighted subset of the goal set without replacement,
// preserving draw order.
func (s *Sampler) LimitGoals(rng *rand.Rand, limit int) []domain.Goal {
	if limit < 0 || limit >= len(s.goals) {
		return s.goals
	}
	chosen := make(map[int]bool, limit)
	idxs := make([]int, 0, limit)
	// Bounded attempts: a degenerate weight distribution could otherwise
	// starve the remaining slots.
	for attempts := 0; len(idxs) < limit && attempts < 50*(limit+1); attempts++ {
		idx := s.Draw(rng)
		if idx < 0 {
			break
		}
		if !chosen[idx] {
			chosen[idx] = true
			idxs = append(idxs, idx)
		}
	}
	for i := 0; len(idxs) < limit && i < len(s.goals); i++ {
		if !chosen[i] {
			chosen[i] = true
			idxs = append(idxs, i)
		}
	}
	out := make([]domain.Goal, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.goals[i])
	}
	return out
}
