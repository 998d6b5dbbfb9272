package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"noonpick/internal/adapters/observability"
	"noonpick/internal/domain"
)

const (
	serviceName = "noonpick"

	// maxKeywordQueries bounds the free-text searches per request.
	maxKeywordQueries = 3
)

// RecommendRequest carries all pipeline inputs explicitly; there is no
// ambient user context.
type RecommendRequest struct {
	Office   string
	RadiusM  int
	Tags     []domain.Tag
	Excluded map[string]struct{}
	UserID   string // monitoring only
}

// RecommendService runs the Search, Consolidate, Score, Sample, Enrich
// pipeline for one request. Only the office lookup and an empty pool are
// caller-visible failures; upstream search errors degrade the pool instead.
type RecommendService struct {
	offices   domain.OfficeRepository
	searcher  domain.PlaceSearcher
	enricher  *Enricher
	sampler   *Sampler
	events    domain.EventRepository // optional
	minRating float64
}

func NewRecommendService(offices domain.OfficeRepository, searcher domain.PlaceSearcher, enricher *Enricher, sampler *Sampler, events domain.EventRepository, minRating float64) *RecommendService {
	if minRating <= 0 {
		minRating = 3.0
	}
	return &RecommendService{
		offices:   offices,
		searcher:  searcher,
		enricher:  enricher,
		sampler:   sampler,
		events:    events,
		minRating: minRating,
	}
}

func (s *RecommendService) Recommend(ctx context.Context, req RecommendRequest) (domain.Recommendation, error) {
	office, err := s.offices.GetOffice(ctx, req.Office)
	if err != nil {
		if errors.Is(err, domain.ErrOfficeNotFound) {
			observability.ObserveRecommendation("office_not_found")
		}
		return domain.Recommendation{}, fmt.Errorf("office %q: %w", req.Office, err)
	}

	batches := s.searchAll(ctx, office, req.RadiusM, req.Tags)

	pool := Consolidate(batches, req.Excluded, s.minRating)
	observability.CandidatePool.Observe(float64(len(pool)))

	ranked := RankAndTrim(pool, req.RadiusM, req.Tags)
	picks := s.sampler.Sample(ranked)
	if len(picks) == 0 {
		observability.ObserveRecommendation("no_candidates")
		return domain.Recommendation{}, domain.ErrNoCandidates
	}

	picks = s.enricher.Enrich(ctx, picks)

	rec := domain.Recommendation{
		Primary:            picks[0],
		Alternatives:       picks[1:],
		ExcludedSuggestion: appendExclusions(req.Excluded, picks),
	}

	s.logRecommended(ctx, req, picks)
	observability.ObserveRecommendation("ok")
	return rec, nil
}

// searchAll runs the category search plus up to three keyword searches
// derived from the selected tags. Any failed call contributes an empty
// batch; search never aborts the recommendation.
func (s *RecommendService) searchAll(ctx context.Context, office domain.Office, radiusM int, tags []domain.Tag) [][]domain.RawPlace {
	var batches [][]domain.RawPlace

	if batch, err := s.searcher.SearchCategory(ctx, office.Lat, office.Lng, radiusM); err != nil {
		log.Warn().Err(err).Str("office", office.Code).Msg("category search failed")
	} else {
		batches = append(batches, batch)
	}

	for _, query := range searchQueries(tags) {
		batch, err := s.searcher.SearchKeyword(ctx, office.Lat, office.Lng, radiusM, query)
		if err != nil {
			log.Warn().Err(err).Str("office", office.Code).Str("query", query).Msg("keyword search failed")
			continue
		}
		batches = append(batches, batch)
	}
	return batches
}

// searchQueries maps selected tags onto provider keywords, deduplicated and
// capped to bound latency.
func searchQueries(tags []domain.Tag) []string {
	seen := make(map[string]struct{}, len(tags))
	var queries []string
	for _, t := range tags {
		kw := domain.SearchKeyword(t)
		if kw == "" {
			continue
		}
		if _, dup := seen[kw]; dup {
			continue
		}
		seen[kw] = struct{}{}
		queries = append(queries, kw)
		if len(queries) == maxKeywordQueries {
			break
		}
	}
	return queries
}

// appendExclusions unions the caller-supplied exclusions with the
// identities just returned, caller's entries first.
func appendExclusions(excluded map[string]struct{}, picks []domain.ScoredCandidate) []string {
	out := make([]string, 0, len(excluded)+len(picks))
	for key := range excluded {
		out = append(out, key)
	}
	for _, p := range picks {
		if _, dup := excluded[p.Key]; !dup {
			out = append(out, p.Key)
		}
	}
	return out
}

// logRecommended writes the monitoring event; best effort, never fails the
// request.
func (s *RecommendService) logRecommended(ctx context.Context, req RecommendRequest, picks []domain.ScoredCandidate) {
	if s.events == nil {
		return
	}
	names := make([]string, len(picks))
	for i, p := range picks {
		names[i] = p.Name
	}
	target := "NOON-" + time.Now().Format("2006-01-02 15:04:05")
	meta := map[string]any{
		"candidates": names,
		"office":     req.Office,
		"radius":     req.RadiusM,
		"categories": req.Tags,
		"source":     "user",
	}
	if err := s.events.LogEvent(ctx, req.UserID, serviceName, "menu_recommended", target, meta); err != nil {
		log.Warn().Err(err).Msg("failed to log recommendation event")
	}
}
