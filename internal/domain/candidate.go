package domain

import "time"

// Tag is one entry of the fixed food-category taxonomy.
type Tag string

const (
	TagKorean   Tag = "KOREAN"
	TagJapanese Tag = "JAPANESE"
	TagChinese  Tag = "CHINESE"
	TagWestern  Tag = "WESTERN"
	TagMeat     Tag = "MEAT"
	TagNoodle   Tag = "NOODLE"
	TagRice     Tag = "RICE"
	TagSoup     Tag = "SOUP"
	TagCafe     Tag = "CAFE"
)

// RawPlace is a single provider hit before consolidation. Field names are
// provider-neutral; each adapter maps its own payload into this shape.
type RawPlace struct {
	Provider    string // originating provider name, e.g. "kakao"
	ProviderID  string // provider place id, may be empty
	Name        string
	Lat, Lng    float64
	Address     string
	RoadAddress string
	Phone       string
	DistanceM   int
	RawCategory string
	Tags        []Tag
	DetailURL   string
	Rating      float64 // 0 when the provider reports none
	PhotoURL    string
}

// Candidate is a consolidated place, alive only for the current request.
type Candidate struct {
	Key         string  `json:"key"` // stable identity, see DeriveKey
	Provider    string  `json:"-"`
	ProviderID  string  `json:"-"`
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Address     string  `json:"address"`
	RoadAddress string  `json:"road_address,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	DistanceM   int     `json:"distance_m"`
	RawCategory string  `json:"raw_category,omitempty"`
	Tags        []Tag   `json:"tags"`
	DetailURL   string  `json:"detail_url"`
	Rating      float64 `json:"rating,omitempty"`
	PhotoURL    string  `json:"photo_url,omitempty"`
}

// Meta is the cached title/description/image triple for a detail URL.
type Meta struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// Empty reports whether no field of the triple was resolved.
func (m Meta) Empty() bool { return m.Title == "" && m.Description == "" && m.Image == "" }

// MetaCacheEntry is what the cache stores per detail URL. Staleness is
// decided at read time against CachedAt, not by background eviction.
type MetaCacheEntry struct {
	Meta
	CachedAt time.Time `json:"cached_at"`
}

// ScoredCandidate pairs a candidate with its blended score and, after
// enrichment, its metadata.
type ScoredCandidate struct {
	Candidate
	Score float64 `json:"score"`
	Meta  Meta    `json:"og"`
}

// Recommendation is one pipeline pass: the primary pick, the remaining
// sampled alternates in draw order, and the exclusion list the caller
// should echo back next time.
type Recommendation struct {
	Primary            ScoredCandidate   `json:"primary"`
	Alternatives       []ScoredCandidate `json:"alternatives"`
	ExcludedSuggestion []string          `json:"excluded_suggestion"`
}

// Office is a resolvable search center.
type Office struct {
	Code      string  `json:"code"`
	Name      string  `json:"name"`
	Address   string  `json:"address,omitempty"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	IsDefault bool    `json:"is_default"`
}
