// The warmer pre-fetches Open Graph metadata for places around each office
// so lunchtime requests hit a warm cache instead of scraping detail pages
// inline.
package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"noonpick/internal/adapters/kakao"
	"noonpick/internal/adapters/observability"
	"noonpick/internal/adapters/ogmeta"
	redisad "noonpick/internal/adapters/redis"
	"noonpick/internal/app"
	"noonpick/internal/domain"
	"noonpick/internal/shared"
	mysqlrepo "noonpick/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.KakaoBase).
		Int("workers", cfg.EnrichWorkers).
		Int("radius", cfg.DefaultRadius).
		Msg("cache warmer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := kakao.New(cfg.KakaoBase, cfg.KakaoKey, 5, cfg.SearchTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Kakao client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	meta := app.NewMetaService(cache, ogmeta.New(nil), cfg.MetaTTL, cfg.MetaFailTTL)

	offices, err := repo.ListOffices(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list offices failed")
	}
	if len(offices) == 0 {
		offices = shared.DefaultOffices
	}

	sem := semaphore.NewWeighted(int64(cfg.EnrichWorkers))
	var wg sync.WaitGroup

	for _, office := range offices {
		places, err := client.SearchCategory(ctx, office.Lat, office.Lng, cfg.DefaultRadius)
		if err != nil {
			log.Warn().Err(err).Str("office", office.Code).Msg("search failed, skipping office")
			continue
		}
		log.Info().Str("office", office.Code).Int("places", len(places)).Msg("warming metadata")

		for _, place := range places {
			if place.DetailURL == "" {
				continue
			}

			// acquire before launching the goroutine; release inside it
			if err := sem.Acquire(ctx, 1); err != nil {
				log.Fatal().Err(err).Msg("semaphore acquire failed")
			}

			wg.Add(1)
			go func(p domain.RawPlace) {
				defer wg.Done()
				defer sem.Release(1)

				m := meta.GetOrFetch(ctx, p.DetailURL)
				if m.Empty() {
					log.Warn().Str("place", p.Name).Msg("no metadata resolved")
					return
				}
				log.Debug().Str("place", p.Name).Msg("metadata warmed")
			}(place)
		}
	}

	wg.Wait()
	log.Info().Msg("warmup completed")
}
