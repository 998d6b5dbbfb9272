package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string
	HTTPAddr    string
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int
	RedisPass   string

	KakaoBase  string
	KakaoKey   string
	GoogleBase string
	GoogleKey  string

	SearchTimeout time.Duration
	EnrichWorkers int
	EnrichTimeout time.Duration

	MetaTTL     time.Duration // freshness window for cached metadata
	MetaFailTTL time.Duration // shorter window for failed (empty) fetches

	DefaultRadius int
	SampleCount   int
	Temperature   float64
	MinRating     float64
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/noonpick?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisDB:     atoi("REDIS_DB", 0),
		RedisPass:   env("REDIS_PASSWORD", ""),

		KakaoBase:  env("KAKAO_BASE_URL", "https://dapi.kakao.com"),
		KakaoKey:   env("KAKAO_REST_API_KEY", ""),
		GoogleBase: env("GOOGLE_PLACES_BASE_URL", "https://maps.googleapis.com"),
		GoogleKey:  env("GOOGLE_PLACES_API_KEY", ""),

		SearchTimeout: time.Duration(atoi("SEARCH_TIMEOUT_SECONDS", 8)) * time.Second,
		EnrichWorkers: atoi("ENRICH_WORKERS", 3),
		EnrichTimeout: time.Duration(atoi("ENRICH_TIMEOUT_SECONDS", 4)) * time.Second,

		MetaTTL:     time.Duration(atoi("META_TTL_SECONDS", 7*24*3600)) * time.Second,
		MetaFailTTL: time.Duration(atoi("META_FAIL_TTL_SECONDS", 3600)) * time.Second,

		DefaultRadius: atoi("DEFAULT_RADIUS_M", 300),
		SampleCount:   atoi("SAMPLE_COUNT", 3),
		Temperature:   atof("SAMPLE_TEMPERATURE", 0.08),
		MinRating:     atof("MIN_RATING", 3.0),
	}
	if c.KakaoKey == "" {
		log.Warn().Msg("KAKAO_REST_API_KEY is empty")
	}
	if c.GoogleKey == "" {
		log.Warn().Msg("GOOGLE_PLACES_API_KEY is empty; photo fallback will skip Google Places")
	}
	return c
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
