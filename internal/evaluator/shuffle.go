package evaluator

import (
	"math/rand/v2"

	"github.com/eduquest/eduquest/internal/course"
)

// Shuffler produces uniform permutations with a Fisher-Yates walk over a
// seedable source. The zero value and a nil *Shuffler draw from the
// runtime's random source.
type Shuffler struct {
	rng *rand.Rand
}

// NewShuffler returns a deterministic shuffler for seed.
func NewShuffler(seed uint64) *Shuffler {
	return &Shuffler{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

func (s *Shuffler) intN(n int) int {
	if s == nil || s.rng == nil {
		return rand.IntN(n)
	}
	return s.rng.IntN(n)
}

// Shuffle permutes n elements through swap.
func (s *Shuffler) Shuffle(n int, swap func(i, j int)) {
	for i := n - 1; i > 0; i-- {
		j := s.intN(i + 1)
		swap(i, j)
	}
}

// Strings returns a shuffled copy of items.
func (s *Shuffler) Strings(items []string) []string {
	out := append([]string(nil), items...)
	s.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// Pairs returns a shuffled copy of pairs, for presenting matching answers.
func (s *Shuffler) Pairs(pairs []course.Pair) []course.Pair {
	out := append([]course.Pair(nil), pairs...)
	s.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}
