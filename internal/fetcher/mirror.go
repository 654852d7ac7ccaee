package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"pokedex/internal/dex"
	"pokedex/pkg/models"
)

// MirrorSource reads the static generation-N.json snapshots served by
// cmd/mirror-server (or any static host laid out the same way).
type MirrorSource struct {
	BaseURL string
	Client  *http.Client
}

func NewMirrorSource(baseURL string) *MirrorSource {
	return &MirrorSource{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (s *MirrorSource) Name() string { return "mirror" }

// FetchGeneration fetches GET {BaseURL}/data/generation-{gen}.json. Entries
// whose id is outside the generation are dropped.
func (s *MirrorSource) FetchGeneration(ctx context.Context, gen int) ([]models.Entry, error) {
	r, ok := dex.RangeOf(gen)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrInvalidGeneration, gen)
	}

	url := fmt.Sprintf("%s/data/%s", s.BaseURL, SnapshotName(gen))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("mirror: build request: %w", err)
	}

	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mirror: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("mirror: status %d: %s", resp.StatusCode, string(body))
	}

	entries, err := ReadSnapshot(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("mirror: %w", err)
	}

	out := entries[:0]
	for _, e := range entries {
		if r.Contains(e.ID) {
			out = append(out, e)
		}
	}
	return out, nil
}
