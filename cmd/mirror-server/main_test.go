package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex/internal/fetcher"
	"pokedex/pkg/models"
)

func TestMirrorServesSnapshotsForMirrorSource(t *testing.T) {
	gin.SetMode(gin.TestMode)
	dir := t.TempDir()

	f, err := os.Create(filepath.Join(dir, fetcher.SnapshotName(2)))
	require.NoError(t, err)
	require.NoError(t, fetcher.WriteSnapshot(f, []models.Entry{
		{ID: 152, Name: "chikorita", JapaneseName: "チコリータ", Types: []string{"grass"}},
	}))
	require.NoError(t, f.Close())
	require.NoError(t, os.WriteFile(filepath.Join(dir, fetcher.SnapshotName(3)), []byte("{oops"), 0o644))

	router := gin.New()
	registerRoutes(router, dir)
	srv := httptest.NewServer(router)
	defer srv.Close()

	src := fetcher.NewMirrorSource(srv.URL)
	entries, err := src.FetchGeneration(context.Background(), 2)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "chikorita", entries[0].Name)

	_, err = src.FetchGeneration(context.Background(), 1)
	assert.Error(t, err)

	for path, code := range map[string]int{
		"/data/" + fetcher.SnapshotName(3): http.StatusInternalServerError,
		"/data/" + fetcher.SnapshotName(4): http.StatusNotFound,
		"/data/passwd":                     http.StatusNotFound,
	} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, code, resp.StatusCode, path)
	}
}
