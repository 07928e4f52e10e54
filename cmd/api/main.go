package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/rs/zerolog/log"

	"squash-courts/backend/internal/cache"
	"squash-courts/backend/internal/config"
	"squash-courts/backend/internal/domain/booking"
	"squash-courts/backend/internal/domain/catalog"
	"squash-courts/backend/internal/firebase"
	"squash-courts/backend/internal/handlers"
	apihttp "squash-courts/backend/internal/http"
	"squash-courts/backend/internal/logger"
	"squash-courts/backend/internal/otel"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		logger.ErrorWithStack(err)
		log.Fatal().Msg("failed to load config")
	}
	logger.SetLevel(cfg)

	ctx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()

	clients, err := firebase.NewClients(ctx, cfg)
	if err != nil {
		logger.ErrorWithStack(err)
		log.Fatal().Msg("failed to init firebase clients")
	}
	defer clients.Close()

	tracer := otel.New(cfg)

	redisClient, err := cache.NewClient(ctx, cfg)
	if err != nil {
		// Redis only backs caching and rate limiting; run without it.
		log.Warn().Err(err).Msg("redis unavailable, continuing without cache")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}
	c := cache.New(redisClient, tracer)

	// Bookings: the feed is kept current by the Firestore listeners and every
	// conflict check reads from it.
	feed := booking.NewFeed()
	bookingRepo := booking.NewRepo(clients.Firestore)
	bookingRepo.Watch(ctx, feed)

	loc, err := time.LoadLocation(cfg.App.Timezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", cfg.App.Timezone).Msg("unknown timezone, using UTC")
		loc = time.UTC
	}

	bookingSvc := booking.NewService(feed, bookingRepo,
		booking.WithOtel(tracer),
		booking.WithLocation(loc),
		booking.WithSuggestionCount(cfg.App.SuggestionCount),
	)
	catalogSvc := catalog.NewService(catalog.NewRepo(clients.Firestore), c)

	uploads := handlers.NewUploads(cfg,
		clients.Storage.Bucket(cfg.Firebase.StorageBucket),
		handlers.IAMSigner(clients.IAM, cfg.Firebase.SignedURLServiceAccountEmail),
	)

	router := apihttp.NewRouter(apihttp.RouterDeps{
		Cfg:        cfg,
		Verifier:   clients.Auth,
		Cache:      c,
		BookingSvc: bookingSvc,
		CatalogSvc: catalogSvc,
		Uploads:    uploads,
		Claims:     handlers.NewClaims(clients.Auth),
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 20 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Str("project", cfg.Firebase.ProjectID).Msg("API listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.ErrorWithStack(err)
			log.Fatal().Msg("listen failed")
		}
	}()

	stop := make(chan os.Signal, 2)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Info().Msg("shutting down...")
	stopWatch()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server shutdown failed")
	}
	if err := tracer.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("tracer shutdown failed")
	}
}
