package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"pokedex/internal/dex"
	"pokedex/pkg/models"
	"pokedex/pkg/utils"
)

// DefaultPokeAPIURL is the public API root.
const DefaultPokeAPIURL = "https://pokeapi.co/api/v2"

// PokeAPISource reads /pokemon/{id} and /pokemon-species/{id} for every id
// of a generation.
type PokeAPISource struct {
	BaseURL     string
	Client      *http.Client
	Concurrency int           // ids fetched in parallel
	Delay       time.Duration // pause before each id, to stay under rate limits
	Logger      *zap.Logger
}

func NewPokeAPISource(baseURL string, logger *zap.Logger) *PokeAPISource {
	if baseURL == "" {
		baseURL = DefaultPokeAPIURL
	}
	return &PokeAPISource{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		Client:      &http.Client{Timeout: 15 * time.Second},
		Concurrency: 8,
		Logger:      utils.OrNop(logger),
	}
}

func (s *PokeAPISource) Name() string { return "pokeapi" }

// FetchGeneration fetches every id of gen. Ids that fail are logged and
// left out; the call only fails when nothing could be fetched.
func (s *PokeAPISource) FetchGeneration(ctx context.Context, gen int) ([]models.Entry, error) {
	r, ok := dex.RangeOf(gen)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGeneration, gen)
	}
	logger := utils.OrNop(s.Logger)

	limit := s.Concurrency
	if limit <= 0 {
		limit = 1
	}

	results := make([]*models.Entry, r.Len())
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, id := range r.IDs() {
		g.Go(func() error {
			if s.Delay > 0 {
				select {
				case <-time.After(s.Delay):
				case <-gctx.Done():
					return gctx.Err()
				}
			}

			e, err := s.FetchEntry(gctx, id)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("skipping entry", zap.Int("id", id), zap.Error(err))
				return nil
			}
			results[i] = &e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("pokeapi: generation %d: %w", gen, err)
	}

	out := make([]models.Entry, 0, len(results))
	for _, e := range results {
		if e != nil {
			out = append(out, *e)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("pokeapi: generation %d: no entries fetched", gen)
	}
	return out, nil
}

// FetchEntry fetches one id.
func (s *PokeAPISource) FetchEntry(ctx context.Context, id int) (models.Entry, error) {
	var pokemon, species []byte

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		pokemon, err = s.get(gctx, fmt.Sprintf("%s/pokemon/%d", s.BaseURL, id))
		return err
	})
	g.Go(func() (err error) {
		species, err = s.get(gctx, fmt.Sprintf("%s/pokemon-species/%d", s.BaseURL, id))
		return err
	})
	if err := g.Wait(); err != nil {
		return models.Entry{}, err
	}

	return parseEntry(pokemon, species)
}

func (s *PokeAPISource) get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("pokeapi: build request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("pokeapi: request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("pokeapi: read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pokeapi: %s: status %d", url, resp.StatusCode)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("pokeapi: %s: invalid json", url)
	}
	return body, nil
}

// parseEntry maps the pokemon and species payloads into an entry.
func parseEntry(pokemon, species []byte) (models.Entry, error) {
	p := gjson.ParseBytes(pokemon)
	sp := gjson.ParseBytes(species)

	e := models.Entry{
		ID:           int(p.Get("id").Int()),
		Name:         p.Get("name").String(),
		Descriptions: make(map[int]models.Description),
		FetchedAt:    time.Now().UTC(),
	}
	if e.ID <= 0 || e.Name == "" {
		return models.Entry{}, fmt.Errorf("pokeapi: payload without id or name")
	}

	e.JapaneseName = e.Name
	sp.Get("names").ForEach(func(_, n gjson.Result) bool {
		if n.Get("language.name").String() == "ja" {
			if v := n.Get("name").String(); v != "" {
				e.JapaneseName = v
			}
			return false
		}
		return true
	})

	type slot struct {
		n    int64
		name string
	}
	var slots []slot
	p.Get("types").ForEach(func(_, t gjson.Result) bool {
		slots = append(slots, slot{t.Get("slot").Int(), t.Get("type.name").String()})
		return true
	})
	sort.SliceStable(slots, func(i, j int) bool { return slots[i].n < slots[j].n })
	for _, s := range slots {
		e.Types = append(e.Types, s.name)
	}

	texts := sp.Get("flavor_text_entries")
	for _, gen := range dex.Generations() {
		d := models.Description{
			En: flavorText(texts, "en", gen),
			Ja: flavorText(texts, "ja", gen),
		}
		if d.En != "" || d.Ja != "" {
			e.Descriptions[gen] = d
		}
	}
	return e, nil
}

var flavorCleaner = strings.NewReplacer("\n", " ", "\f", " ")

// flavorText returns the first entry in lang written for one of gen's
// versions.
func flavorText(entries gjson.Result, lang string, gen int) string {
	versions := make(map[string]bool)
	for _, v := range dex.VersionsOf(gen) {
		versions[v] = true
	}

	var text string
	entries.ForEach(func(_, f gjson.Result) bool {
		if f.Get("language.name").String() != lang || !versions[f.Get("version.name").String()] {
			return true
		}
		text = flavorCleaner.Replace(f.Get("flavor_text").String())
		return false
	})
	return text
}
