package main

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"

	"noonpick/internal/adapters/googleplaces"
	server "noonpick/internal/adapters/http_server"
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
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve(cfg.MetricsAddr)

	// db
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("database connection ok")

	repo := mysqlrepo.New(db)

	// providers
	kakaoClient, err := kakao.New(cfg.KakaoBase, cfg.KakaoKey, 5, cfg.SearchTimeout)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize Kakao client")
	}
	seedOffices(repo, kakaoClient)
	googleClient := googleplaces.New(cfg.GoogleBase, cfg.GoogleKey, 5, cfg.SearchTimeout)
	fetcher := ogmeta.New(nil)
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)

	// pipeline
	meta := app.NewMetaService(cache, fetcher, cfg.MetaTTL, cfg.MetaFailTTL)
	enricher := app.NewEnricher(meta, kakaoClient, googleClient, cfg.EnrichWorkers, cfg.EnrichTimeout)
	sampler := app.NewSampler(cfg.SampleCount, cfg.Temperature)
	reco := app.NewRecommendService(repo, kakaoClient, enricher, sampler, repo, cfg.MinRating)
	visits := app.NewVisitService(repo, repo)

	// http
	srv := server.New(15 * time.Second)
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Reco:          reco,
		Visits:        visits,
		Offices:       repo,
		DefaultRadius: cfg.DefaultRadius,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}

// seedOffices inserts the default directory on first boot only. Seed rows
// missing coordinates are geocoded from their address.
func seedOffices(repo *mysqlrepo.Repo, geocoder *kakao.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	offices, err := repo.ListOffices(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("list offices failed")
	}
	if len(offices) > 0 {
		return
	}

	toSeed := make([]domain.Office, len(shared.DefaultOffices))
	copy(toSeed, shared.DefaultOffices)
	for i := range toSeed {
		if toSeed[i].Lat != 0 || toSeed[i].Lng != 0 || toSeed[i].Address == "" {
			continue
		}
		lat, lng, err := geocoder.Geocode(ctx, toSeed[i].Address)
		if err != nil {
			log.Warn().Err(err).Str("office", toSeed[i].Code).Msg("geocode failed, seeding without coordinates")
			continue
		}
		toSeed[i].Lat, toSeed[i].Lng = lat, lng
	}

	if err := repo.SeedOffices(ctx, toSeed); err != nil {
		log.Fatal().Err(err).Msg("seed offices failed")
	}
	log.Info().Int("offices", len(toSeed)).Msg("seeded default offices")
}
