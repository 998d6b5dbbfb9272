package domain

import "context"

// PlaceSearcher issues radius queries against a place-search provider.
// Implementations return a typed slice; callers decide how to degrade on
// error (the pipeline treats a failed call as an empty batch).
type PlaceSearcher interface {
	// SearchCategory runs the fixed "nearby restaurants" category search.
	SearchCategory(ctx context.Context, lat, lng float64, radiusM int) ([]RawPlace, error)
	// SearchKeyword runs a free-text keyword search around the center.
	SearchKeyword(ctx context.Context, lat, lng float64, radiusM int, query string) ([]RawPlace, error)
}

// PhotoSource resolves a photo URL from the provider's own place detail.
type PhotoSource interface {
	PlacePhoto(ctx context.Context, providerID string) (string, error)
}

// SecondaryPhotoSource resolves a photo by fuzzy name+coordinate match on
// an independent provider.
type SecondaryPhotoSource interface {
	FindPhoto(ctx context.Context, name string, lat, lng float64) (string, error)
}

// MetaFetcher scrapes the title/description/image triple for a detail URL.
type MetaFetcher interface {
	Fetch(ctx context.Context, url string) (Meta, error)
}

// Cache is a process-wide keyed JSON store with per-key TTL.
type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// OfficeRepository resolves office codes to search centers.
type OfficeRepository interface {
	GetOffice(ctx context.Context, code string) (Office, error)
	ListOffices(ctx context.Context) ([]Office, error)
	SeedOffices(ctx context.Context, offices []Office) error
}

// VisitRepository records which candidate a user ultimately chose.
type VisitRepository interface {
	RecordVisit(ctx context.Context, userID int64, placeKey, placeName string) error
}

// EventRepository is the monitoring-event sink.
type EventRepository interface {
	LogEvent(ctx context.Context, userID, service, action, targetID string, meta map[string]any) error
}
