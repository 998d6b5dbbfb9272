package app

import (
	"sort"

	"noonpick/internal/domain"
)

const (
	categoryWeight = 0.6
	distanceWeight = 0.4

	// minScore is the near-zero relevance floor applied before sampling.
	minScore = 0.1

	// topPool caps how many ranked candidates the sampler ever sees.
	topPool = 10
)

// distanceScore rewards proximity but bottoms out at 0.4, so over-radius
// candidates stay sampling-eligible instead of being zeroed out.
func distanceScore(distM, radiusM int) float64 {
	if distM >= radiusM {
		return 0.4
	}
	r := radiusM
	if r < 1 {
		r = 1
	}
	return 0.4 + 0.6*(1.0-float64(distM)/float64(r))
}

// categoryMatch is 1 on any tag overlap, 0 on none, and a neutral 0.5 when
// the caller expressed no preference.
func categoryMatch(tags, selected []domain.Tag) float64 {
	if len(selected) == 0 {
		return 0.5
	}
	sel := make(map[domain.Tag]struct{}, len(selected))
	for _, t := range selected {
		sel[t] = struct{}{}
	}
	for _, t := range tags {
		if _, ok := sel[t]; ok {
			return 1.0
		}
	}
	return 0.0
}

// Score blends the category and distance terms for one candidate.
func Score(c domain.Candidate, radiusM int, selected []domain.Tag) float64 {
	return categoryWeight*categoryMatch(c.Tags, selected) + distanceWeight*distanceScore(c.DistanceM, radiusM)
}

// RankAndTrim scores the pool, drops near-zero candidates, and returns the
// top entries sorted descending by score.
func RankAndTrim(pool []domain.Candidate, radiusM int, selected []domain.Tag) []domain.ScoredCandidate {
	scored := make([]domain.ScoredCandidate, 0, len(pool))
	for _, c := range pool {
		s := Score(c, radiusM, selected)
		if s <= minScore {
			continue
		}
		scored = append(scored, domain.ScoredCandidate{Candidate: c, Score: s})
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topPool {
		scored = scored[:topPool]
	}
	return scored
}
