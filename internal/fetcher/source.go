// Package fetcher pulls generation data from upstream sources into the
// local entry cache.
package fetcher

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"pokedex/internal/dex"
	"pokedex/pkg/models"
	"pokedex/pkg/utils"
)

// ErrInvalidGeneration is returned for generations outside 1..9.
var ErrInvalidGeneration = errors.New("invalid generation")

// Source is implemented by each upstream (the live API, a static mirror).
// A source maps its own payload format into models.Entry.
type Source interface {
	Name() string
	FetchGeneration(ctx context.Context, gen int) ([]models.Entry, error)
}

// Aggregator tries its sources in order. The first one that returns a
// non-empty generation wins.
type Aggregator struct {
	Sources []Source
	Logger  *zap.Logger
}

// NewAggregator creates a new Aggregator with the given sources.
func NewAggregator(logger *zap.Logger, sources ...Source) *Aggregator {
	return &Aggregator{Sources: sources, Logger: utils.OrNop(logger)}
}

func (a *Aggregator) Name() string { return "aggregate" }

// FetchGeneration returns the entries of gen sorted by id, each id once.
func (a *Aggregator) FetchGeneration(ctx context.Context, gen int) ([]models.Entry, error) {
	if !dex.ValidGeneration(gen) {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGeneration, gen)
	}
	logger := utils.OrNop(a.Logger)

	var errs []error
	for _, src := range a.Sources {
		logger.Info("fetching generation", zap.String("source", src.Name()), zap.Int("generation", gen))

		entries, err := src.FetchGeneration(ctx, gen)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			// one broken source should not stop the others
			logger.Warn("source failed", zap.String("source", src.Name()), zap.Int("generation", gen), zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", src.Name(), err))
			continue
		}
		if len(entries) == 0 {
			logger.Warn("source returned nothing", zap.String("source", src.Name()), zap.Int("generation", gen))
			continue
		}

		logger.Info("generation fetched",
			zap.String("source", src.Name()),
			zap.Int("generation", gen),
			zap.Int("entries", len(entries)))
		return normalize(entries), nil
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("generation %d: all sources failed: %w", gen, errors.Join(errs...))
	}
	return nil, fmt.Errorf("generation %d: no source returned entries", gen)
}

// normalize sorts by id and drops repeated ids, keeping the first.
func normalize(entries []models.Entry) []models.Entry {
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })

	out := entries[:0]
	for i, e := range entries {
		if i > 0 && e.ID == out[len(out)-1].ID {
			continue
		}
		out = append(out, e)
	}
	return out
}
