package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"pokedex/internal/fetcher"
	"pokedex/internal/pokemon"
	"pokedex/pkg/database"
	"pokedex/pkg/utils"
)

func main() {
	var (
		gens    = flag.String("gens", "all", `generations to fetch: "1,3", "all"`)
		refresh = flag.Bool("refresh", false, "re-fetch generations that are already cached")
		mirror  = flag.String("mirror", "", "mirror base URL used when the API fails")
		timeout = flag.Duration("timeout", 30*time.Minute, "overall deadline")
	)
	flag.Parse()

	cfg, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	list, err := utils.ParseGenerations(*gens)
	if err != nil {
		logger.Fatal("bad -gens", zap.Error(err))
	}
	if *mirror != "" {
		cfg.MirrorURL = *mirror
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	p := &fetcher.Prefetcher{
		Source: newSource(cfg, logger),
		Cache:  pokemon.NewRepo(db),
		Logger: logger,
		OnCached: func(gen, count int) {
			logger.Info("generation cached", zap.Int("generation", gen), zap.Int("entries", count))
		},
	}

	if err := run(ctx, p, list, *refresh); err != nil {
		logger.Fatal("fetch failed", zap.Error(err))
	}
	logger.Info("done", zap.Ints("generations", list))
}

// newSource is the API, backed by the mirror when one is configured.
func newSource(cfg utils.Config, logger *zap.Logger) fetcher.Source {
	api := fetcher.NewPokeAPISource(cfg.PokeAPIURL, logger)
	api.Concurrency = cfg.FetchConcurrency
	sources := []fetcher.Source{api}
	if cfg.MirrorURL != "" {
		sources = append(sources, fetcher.NewMirrorSource(cfg.MirrorURL))
	}
	return fetcher.NewAggregator(logger, sources...)
}

// run warms the missing generations, or re-fetches all of them with
// refresh. Refresh keeps going past a failed generation.
func run(ctx context.Context, p *fetcher.Prefetcher, gens []int, refresh bool) error {
	if !refresh {
		_, err := p.Warm(ctx, gens)
		return err
	}

	var errs []error
	for _, gen := range gens {
		if _, err := p.Refresh(ctx, gen); err != nil {
			errs = append(errs, fmt.Errorf("generation %d: %w", gen, err))
		}
	}
	return errors.Join(errs...)
}
