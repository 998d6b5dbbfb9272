package app

import (
	"math"
	"math/rand"

	"noonpick/internal/domain"
)

const (
	defaultSampleCount = 3
	defaultTemperature = 0.08
)

// Sampler draws a fixed-size diverse set from a scored pool. Scores become
// a softmax distribution; draws are without replacement with the remaining
// probabilities renormalized after each pick, so the result order is the
// draw order (first draw = primary).
type Sampler struct {
	count       int
	temperature float64
	randFn      func() float64 // uniform [0,1); swappable in tests
}

func NewSampler(count int, temperature float64) *Sampler {
	if count <= 0 {
		count = defaultSampleCount
	}
	if temperature <= 0 {
		temperature = defaultTemperature
	}
	return &Sampler{count: count, temperature: temperature, randFn: rand.Float64}
}

// WithRand swaps the random source; tests use deterministic sequences.
func (s *Sampler) WithRand(fn func() float64) *Sampler {
	s.randFn = fn
	return s
}

func (s *Sampler) Sample(pool []domain.ScoredCandidate) []domain.ScoredCandidate {
	if len(pool) == 0 {
		return nil
	}

	// Temperature-scaled softmax with the max subtracted for stability.
	maxScore := pool[0].Score
	for _, c := range pool[1:] {
		if c.Score > maxScore {
			maxScore = c.Score
		}
	}
	probs := make([]float64, len(pool))
	var total float64
	for i, c := range pool {
		probs[i] = math.Exp((c.Score - maxScore) / s.temperature)
		total += probs[i]
	}
	for i := range probs {
		probs[i] /= total
	}

	remaining := make([]domain.ScoredCandidate, len(pool))
	copy(remaining, pool)

	n := s.count
	if n > len(remaining) {
		n = len(remaining)
	}
	sampled := make([]domain.ScoredCandidate, 0, n)

	for len(sampled) < n && len(remaining) > 0 {
		r := s.randFn()
		idx := -1
		var cum float64
		for i, p := range probs {
			cum += p
			if r <= cum {
				idx = i
				break
			}
		}
		if idx < 0 {
			// floating-point residue left r above the cumulative sum
			idx = 0
		}

		sampled = append(sampled, remaining[idx])
		remaining = append(remaining[:idx], remaining[idx+1:]...)
		probs = append(probs[:idx], probs[idx+1:]...)

		var rest float64
		for _, p := range probs {
			rest += p
		}
		if rest > 0 {
			for i := range probs {
				probs[i] /= rest
			}
		}
	}

	return sampled
}
