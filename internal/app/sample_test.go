package app_test

import (
	"fmt"
	"math/rand"
	"testing"

	"noonpick/internal/app"
	"noonpick/internal/domain"
)

func scoredPool(scores ...float64) []domain.ScoredCandidate {
	pool := make([]domain.ScoredCandidate, len(scores))
	for i, s := range scores {
		pool[i] = domain.ScoredCandidate{
			Candidate: domain.Candidate{Key: fmt.Sprintf("p%d", i), Name: fmt.Sprintf("place %d", i)},
			Score:     s,
		}
	}
	return pool
}

func TestSample_EmptyPool(t *testing.T) {
	s := app.NewSampler(3, 0.08)
	if got := s.Sample(nil); len(got) != 0 {
		t.Fatalf("expected empty sample, got %d", len(got))
	}
}

func TestSample_CountExceedsPool(t *testing.T) {
	s := app.NewSampler(10, 0.08)
	pool := scoredPool(0.9, 0.5, 0.3)
	got := s.Sample(pool)
	if len(got) != 3 {
		t.Fatalf("expected all 3 candidates, got %d", len(got))
	}
	seen := map[string]bool{}
	for _, c := range got {
		if seen[c.Key] {
			t.Fatalf("duplicate %s", c.Key)
		}
		seen[c.Key] = true
	}
}

func TestSample_WithoutReplacement(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := app.NewSampler(3, 0.08).WithRand(rng.Float64)
	pool := scoredPool(0.95, 0.9, 0.85, 0.8, 0.75, 0.7)

	for trial := 0; trial < 2000; trial++ {
		got := s.Sample(pool)
		if len(got) != 3 {
			t.Fatalf("trial %d: expected 3 picks, got %d", trial, len(got))
		}
		seen := map[string]bool{}
		for _, c := range got {
			if seen[c.Key] {
				t.Fatalf("trial %d: identity %s drawn twice", trial, c.Key)
			}
			seen[c.Key] = true
		}
	}
}

func TestSample_ResidueFallbackPicksFirst(t *testing.T) {
	// A draw of exactly 1-epsilon can exceed the cumulative sum after
	// floating-point loss; the sampler must fall back to the first
	// remaining candidate instead of picking nothing.
	s := app.NewSampler(1, 0.08).WithRand(func() float64 { return 0.9999999999999999 })
	pool := scoredPool(0.9, 0.5)
	got := s.Sample(pool)
	if len(got) != 1 {
		t.Fatalf("expected 1 pick, got %d", len(got))
	}
}

func TestSample_LowTemperatureSharpens(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := app.NewSampler(1, 0.001).WithRand(rng.Float64)
	pool := scoredPool(0.9, 0.6, 0.3)

	const trials = 3000
	topFirst := 0
	for i := 0; i < trials; i++ {
		got := s.Sample(pool)
		if got[0].Key == "p0" {
			topFirst++
		}
	}
	if topFirst < trials*99/100 {
		t.Fatalf("temperature→0 should almost always pick the top candidate first: %d/%d", topFirst, trials)
	}
}

func TestSample_HighTemperatureFlattens(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	s := app.NewSampler(1, 1000).WithRand(rng.Float64)
	pool := scoredPool(0.9, 0.6, 0.3)

	const trials = 9000
	counts := map[string]int{}
	for i := 0; i < trials; i++ {
		counts[s.Sample(pool)[0].Key]++
	}
	// near-uniform: each of the 3 should land within a loose band of 1/3
	for key, n := range counts {
		if n < trials/3-trials/10 || n > trials/3+trials/10 {
			t.Fatalf("high temperature should approach uniform, %s drawn %d/%d", key, n, trials)
		}
	}
}

func TestSample_DrawOrderIsResultOrder(t *testing.T) {
	// With a constant 0.5 draw and this pool, the walk lands on the
	// dominant candidate each round: p1 (prob ~0.92), then p2 after
	// renormalization, then p0.
	s := app.NewSampler(3, 0.08).WithRand(func() float64 { return 0.5 })
	pool := scoredPool(0.5, 0.9, 0.7)
	got := s.Sample(pool)
	want := []string{"p1", "p2", "p0"}
	for i, k := range want {
		if got[i].Key != k {
			t.Fatalf("draw %d: got %s want %s", i, got[i].Key, k)
		}
	}
}
