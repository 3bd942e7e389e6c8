package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"offer-match/internal/config"
	"offer-match/internal/offer/catalog"
	offerHnd "offer-match/internal/offer/handler"
	"offer-match/internal/offer/service"
	serverhttp "offer-match/server/http"
)

func main() {
	cfg := config.Load()
	logger := config.SetupLogger(cfg)

	rules, err := service.LoadRules(cfg.RulesFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.RulesFile).Msg("rules")
	}

	store := catalog.NewStore(
		catalog.NewSource(cfg.CatalogSource, &http.Client{Timeout: cfg.CatalogTimeout}),
		cfg.CatalogTimeout,
		logger,
	)
	deps := offerHnd.Deps{
		Store:   store,
		Matcher: service.NewMatcher(rules, logger),
		Logger:  logger,
	}

	// прогреваем каталог до приёма запросов
	snap := store.Snapshot(context.Background())
	logger.Info().Str("source", snap.Source).Int("records", snap.Count).Bool("degraded", snap.Degraded).Msg("catalog ready")

	r := serverhttp.NewRouter(cfg, deps, logger)
	srv := &http.Server{Addr: cfg.Addr(), Handler: r, ReadHeaderTimeout: 10 * time.Second}
	logger.Info().Str("addr", cfg.Addr()).Msg("server starting")

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("listen")
		}
	}()

	// graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("server shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	logger.Info().Msg("bye")
}
