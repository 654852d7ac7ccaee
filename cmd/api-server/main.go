package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pokedex/internal/auth"
	"pokedex/internal/events"
	"pokedex/internal/fetcher"
	"pokedex/internal/pokemon"
	"pokedex/internal/sprite"
	"pokedex/pkg/database"
	"pokedex/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	dbCfg := database.DefaultConfig()
	db := database.MustOpen(dbCfg)
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	hub := events.NewHub(logger)
	tcpSrv := events.NewServer(cfg.TCPAddr, hub, logger)

	resolver := sprite.Default()
	if cfg.SpriteBase != "" {
		resolver = resolver.WithBase(cfg.SpriteBase)
	}

	pokemonRepo := pokemon.NewRepo(db)
	prefetcher := &fetcher.Prefetcher{
		Source: newSource(cfg, logger),
		Cache:  pokemonRepo,
		Logger: logger,
		OnCached: func(gen, count int) {
			hub.Publish(events.GenerationCached(gen, count))
		},
	}

	router := newRouter(deps{
		DB:      db,
		DBPath:  dbCfg.Path,
		Hub:     hub,
		Pokemon: pokemonRepo,
		Sprites: sprite.NewHandler(resolver),
		Loader:  prefetcher,
		Tokens:  auth.NewTokenService(cfg.Auth()),
		Logger:  logger,
	})

	httpSrv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	bgCtx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	errCh := make(chan error, 2)
	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := tcpSrv.Run(); err != nil {
			errCh <- err
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		logger.Info("HTTP API server listening", zap.String("addr", cfg.HTTPAddr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	if len(cfg.Prefetch) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			n, err := prefetcher.Warm(bgCtx, cfg.Prefetch)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.Warn("prefetch stopped", zap.Error(err))
				return
			}
			logger.Info("prefetch done", zap.Int("generations", n))
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	case err := <-errCh:
		logger.Error("server error", zap.Error(err))
	}

	logger.Info("shutting down servers")
	stopBackground()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Warn("http shutdown error", zap.Error(err))
	}
	if err := tcpSrv.Close(); err != nil {
		logger.Warn("tcp shutdown error", zap.Error(err))
	}

	wg.Wait()
	logger.Info("servers stopped")
}

// newSource is the live API, with the static mirror as fallback when set.
func newSource(cfg utils.Config, logger *zap.Logger) fetcher.Source {
	api := fetcher.NewPokeAPISource(cfg.PokeAPIURL, logger)
	api.Concurrency = cfg.FetchConcurrency

	sources := []fetcher.Source{api}
	if cfg.MirrorURL != "" {
		sources = append(sources, fetcher.NewMirrorSource(cfg.MirrorURL))
	}
	return fetcher.NewAggregator(logger, sources...)
}
