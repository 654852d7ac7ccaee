package fetcher

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pokedex/internal/dex"
	"pokedex/pkg/models"
	"pokedex/pkg/utils"
)

// Cache is the entry store the prefetcher fills.
type Cache interface {
	CountByGeneration(ctx context.Context, gen int) (int, error)
	Save(ctx context.Context, entries []models.Entry) error
}

// Prefetcher warms the cache in the background.
type Prefetcher struct {
	Source Source
	Cache  Cache
	Logger *zap.Logger
	// Parallel is how many generations are fetched at once.
	Parallel int
	// OnCached, if set, is called after a generation was stored. Warm may
	// call it from several goroutines at once.
	OnCached func(gen, count int)
}

// Refresh fetches gen and stores it, whether or not it was cached.
func (p *Prefetcher) Refresh(ctx context.Context, gen int) (int, error) {
	if !dex.ValidGeneration(gen) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidGeneration, gen)
	}

	entries, err := p.Source.FetchGeneration(ctx, gen)
	if err != nil {
		return 0, err
	}
	if err := p.Cache.Save(ctx, entries); err != nil {
		return 0, fmt.Errorf("save generation %d: %w", gen, err)
	}
	if p.OnCached != nil {
		p.OnCached(gen, len(entries))
	}
	return len(entries), nil
}

// Warm fetches each generation in gens whose cache is empty. Failures of a
// single generation are logged and do not stop the others. It returns the
// number of generations that were fetched.
func (p *Prefetcher) Warm(ctx context.Context, gens []int) (int, error) {
	for _, gen := range gens {
		if !dex.ValidGeneration(gen) {
			return 0, fmt.Errorf("%w: %d", ErrInvalidGeneration, gen)
		}
	}
	logger := utils.OrNop(p.Logger)

	parallel := p.Parallel
	if parallel <= 0 {
		parallel = 1
	}

	fetched := make([]bool, len(gens))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i, gen := range gens {
		g.Go(func() error {
			n, err := p.Cache.CountByGeneration(gctx, gen)
			if err != nil {
				logger.Warn("prefetch: count failed", zap.Int("generation", gen), zap.Error(err))
				return nil
			}
			if n > 0 {
				logger.Debug("prefetch: already cached", zap.Int("generation", gen), zap.Int("entries", n))
				return nil
			}

			count, err := p.Refresh(gctx, gen)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("prefetch: generation failed", zap.Int("generation", gen), zap.Error(err))
				return nil
			}
			logger.Info("prefetch: generation cached", zap.Int("generation", gen), zap.Int("entries", count))
			fetched[i] = true
			return nil
		})
	}
	err := g.Wait()

	total := 0
	for _, ok := range fetched {
		if ok {
			total++
		}
	}
	return total, err
}
