package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pokedex/internal/fetcher"
	"pokedex/internal/pokemon"
	"pokedex/pkg/database"
	"pokedex/pkg/models"
)

func writeSnapshot(t *testing.T, dir string, gen int, entries []models.Entry) {
	t.Helper()
	f, err := os.Create(filepath.Join(dir, fetcher.SnapshotName(gen)))
	require.NoError(t, err)
	require.NoError(t, fetcher.WriteSnapshot(f, entries))
	require.NoError(t, f.Close())
}

func newRepo(t *testing.T) *pokemon.Repo {
	t.Helper()
	db, err := database.OpenMigrated(database.Config{Path: filepath.Join(t.TempDir(), "import.db")})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return pokemon.NewRepo(db)
}

func TestImportDir(t *testing.T) {
	dir := t.TempDir()
	writeSnapshot(t, dir, 1, []models.Entry{
		{ID: 1, Name: "bulbasaur", JapaneseName: "フシギダネ", Types: []string{"grass", "poison"},
			Descriptions: map[int]models.Description{1: {En: "A strange seed", Ja: "たね"}}},
	})
	writeSnapshot(t, dir, 9, []models.Entry{
		{ID: 906, Name: "sprigatito", JapaneseName: "ニャオハ", Types: []string{"grass"}},
		{ID: 909, Name: "fuecoco", JapaneseName: "ホゲータ", Types: []string{"fire"}},
	})

	ctx := context.Background()
	repo := newRepo(t)
	n, err := importDir(ctx, repo, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	counts, err := repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 1, 9: 2}, counts)

	e, err := repo.GetByID(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, e)
	assert.Equal(t, "A strange seed", e.Description(1).En)

	// importing again replaces rather than duplicates
	n, err = importDir(ctx, repo, dir)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	counts, err = repo.Counts(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, counts[1]+counts[9])
}

func TestImportDirRejectsBrokenSnapshot(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, fetcher.SnapshotName(4)), []byte("[{"), 0o644))

	_, err := importDir(context.Background(), newRepo(t), dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), fetcher.SnapshotName(4))
}
