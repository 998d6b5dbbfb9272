package app

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"noonpick/internal/adapters/observability"
	"noonpick/internal/domain"
)

// Stock images per category, used when neither provider yields a photo.
var stockImages = map[domain.Tag]string{
	domain.TagKorean:   "https://images.unsplash.com/photo-1551218808-94e220e084d2?w=300&h=200&fit=crop",
	domain.TagJapanese: "https://images.unsplash.com/photo-1579952363873-27d3bfad9c0d?w=300&h=200&fit=crop",
	domain.TagChinese:  "https://images.unsplash.com/photo-1563379091339-03246963d4d4?w=300&h=200&fit=crop",
	domain.TagWestern:  "https://images.unsplash.com/photo-1551782450-17144efb9c50?w=300&h=200&fit=crop",
	domain.TagMeat:     "https://images.unsplash.com/photo-1529692236671-f1f6cf9683ba?w=300&h=200&fit=crop",
	domain.TagSoup:     "https://images.unsplash.com/photo-1547592180-85f173990554?w=300&h=200&fit=crop",
	domain.TagNoodle:   "https://images.unsplash.com/photo-1569718212165-3a8278d5f624?w=300&h=200&fit=crop",
	domain.TagRice:     "https://images.unsplash.com/photo-1512058564366-18510be2db19?w=300&h=200&fit=crop",
	domain.TagCafe:     "https://images.unsplash.com/photo-1501339847302-ac426a4a7cbb?w=300&h=200&fit=crop",
}

const defaultImage = "https://images.unsplash.com/photo-1551218808-94e220e084d2?w=300&h=200&fit=crop"

// Enricher attaches photo and description metadata to the sampled winners
// only, through a bounded worker pool. A slow or failing item degrades down
// the fallback chain instead of blocking or failing the batch.
type Enricher struct {
	meta        *MetaService
	photos      domain.PhotoSource          // provider photo detail, may be nil
	secondary   domain.SecondaryPhotoSource // fuzzy cross-provider match, may be nil
	workers     int64
	itemTimeout time.Duration
}

func NewEnricher(meta *MetaService, photos domain.PhotoSource, secondary domain.SecondaryPhotoSource, workers int, itemTimeout time.Duration) *Enricher {
	if workers <= 0 {
		workers = 3
	}
	if itemTimeout <= 0 {
		itemTimeout = 4 * time.Second
	}
	return &Enricher{meta: meta, photos: photos, secondary: secondary, workers: int64(workers), itemTimeout: itemTimeout}
}

// Enrich fans out over the sampled candidates and returns them in the same
// order: results are written back by index, so completion order never
// reshuffles the draw order. If the request deadline expires mid-batch the
// remaining items take the offline fallbacks.
func (e *Enricher) Enrich(ctx context.Context, picks []domain.ScoredCandidate) []domain.ScoredCandidate {
	if len(picks) == 0 {
		return picks
	}

	sem := semaphore.NewWeighted(e.workers)
	var wg sync.WaitGroup

	for i := range picks {
		if err := sem.Acquire(ctx, 1); err != nil {
			// deadline hit: finish the rest without network calls
			e.enrichOffline(&picks[i])
			continue
		}
		wg.Add(1)
		go func(sc *domain.ScoredCandidate) {
			defer wg.Done()
			defer sem.Release(1)

			itemCtx, cancel := context.WithTimeout(ctx, e.itemTimeout)
			defer cancel()
			e.enrichOne(itemCtx, sc)
		}(&picks[i])
	}

	wg.Wait()
	return picks
}

func (e *Enricher) enrichOne(ctx context.Context, sc *domain.ScoredCandidate) {
	if sc.PhotoURL == "" {
		sc.PhotoURL = e.resolvePhoto(ctx, sc.Candidate)
	}

	if e.meta != nil {
		sc.Meta = e.meta.GetOrFetch(ctx, sc.DetailURL)
	}
	synthesizeMeta(sc)
}

// enrichOffline fills from the static fallbacks only.
func (e *Enricher) enrichOffline(sc *domain.ScoredCandidate) {
	if sc.PhotoURL == "" {
		sc.PhotoURL = stockOrDefault(sc.Tags)
	}
	synthesizeMeta(sc)
}

// resolvePhoto walks the source-priority chain: provider photo detail,
// secondary provider fuzzy match, category stock image, default image.
func (e *Enricher) resolvePhoto(ctx context.Context, c domain.Candidate) string {
	if e.photos != nil && c.ProviderID != "" {
		url, err := e.photos.PlacePhoto(ctx, c.ProviderID)
		if err != nil {
			log.Debug().Err(err).Str("place", c.Name).Msg("provider photo lookup failed")
		} else if url != "" {
			observability.ObservePhotoFallback("provider")
			return url
		}
	}
	if e.secondary != nil {
		url, err := e.secondary.FindPhoto(ctx, c.Name, c.Lat, c.Lng)
		if err != nil {
			log.Debug().Err(err).Str("place", c.Name).Msg("secondary photo lookup failed")
		} else if url != "" {
			observability.ObservePhotoFallback("secondary")
			return url
		}
	}
	return stockOrDefault(c.Tags)
}

func stockOrDefault(tags []domain.Tag) string {
	for _, t := range tags {
		if url, ok := stockImages[t]; ok {
			observability.ObservePhotoFallback("stock")
			return url
		}
	}
	observability.ObservePhotoFallback("default")
	return defaultImage
}

// synthesizeMeta backfills empty title/description from the candidate's own
// name, address, and raw category, so the response never ships blank fields.
func synthesizeMeta(sc *domain.ScoredCandidate) {
	if sc.Meta.Title == "" {
		sc.Meta.Title = sc.Name
	}
	if sc.Meta.Description == "" {
		parts := make([]string, 0, 2)
		if addr := firstNonEmpty(sc.RoadAddress, sc.Address); addr != "" {
			parts = append(parts, addr)
		}
		if sc.RawCategory != "" {
			parts = append(parts, sc.RawCategory)
		}
		sc.Meta.Description = strings.Join(parts, " | ")
	}
	if sc.Meta.Image == "" {
		sc.Meta.Image = sc.PhotoURL
	}
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}
