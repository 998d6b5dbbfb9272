package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"noonpick/internal/domain"
)

const metaKeyPrefix = "og:"

// MetaService is the cache-aside layer over the metadata fetcher. Entries
// are keyed by detail URL; freshness is decided at read time against the
// stored timestamp, with the backing store's TTL only as eviction backstop.
// Failed fetches are cached as empty triples under a shorter window so a
// transient upstream failure neither hot-loops nor suppresses retries for
// the full week.
type MetaService struct {
	cache   domain.Cache
	fetcher domain.MetaFetcher
	ttl     time.Duration
	failTTL time.Duration
	now     func() time.Time
}

func NewMetaService(cache domain.Cache, fetcher domain.MetaFetcher, ttl, failTTL time.Duration) *MetaService {
	if ttl <= 0 {
		ttl = 7 * 24 * time.Hour
	}
	if failTTL <= 0 || failTTL > ttl {
		failTTL = time.Hour
	}
	return &MetaService{cache: cache, fetcher: fetcher, ttl: ttl, failTTL: failTTL, now: time.Now}
}

// WithClock swaps the time source; tests use a controllable clock.
func (s *MetaService) WithClock(now func() time.Time) *MetaService {
	s.now = now
	return s
}

// GetOrFetch returns the metadata triple for url. It never errors: a fetch
// failure degrades to an empty triple the caller can synthesize around.
func (s *MetaService) GetOrFetch(ctx context.Context, url string) domain.Meta {
	if url == "" {
		return domain.Meta{}
	}
	key := metaKeyPrefix + url

	var entry domain.MetaCacheEntry
	if ok, err := s.cache.Get(ctx, key, &entry); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("meta cache read failed")
	} else if ok && s.fresh(entry) {
		return entry.Meta
	}

	meta, err := s.fetcher.Fetch(ctx, url)
	if err != nil {
		log.Warn().Err(err).Str("url", url).Msg("meta fetch failed")
		meta = domain.Meta{}
	}

	entry = domain.MetaCacheEntry{Meta: meta, CachedAt: s.now()}
	ttl := s.ttl
	if meta.Empty() {
		ttl = s.failTTL
	}
	if err := s.cache.Set(ctx, key, entry, int(ttl.Seconds())); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("meta cache write failed")
	}
	return meta
}

func (s *MetaService) fresh(entry domain.MetaCacheEntry) bool {
	window := s.ttl
	if entry.Empty() {
		window = s.failTTL
	}
	return s.now().Sub(entry.CachedAt) < window
}
