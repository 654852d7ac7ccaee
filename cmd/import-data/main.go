package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pokedex/internal/dex"
	"pokedex/internal/fetcher"
	"pokedex/internal/pokemon"
	"pokedex/pkg/database"
	"pokedex/pkg/models"
)

// Loads generation-N.json snapshots into the local cache, so a machine
// without network access can be seeded from an export.
func main() {
	dir := flag.String("dir", "data", "snapshot directory")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	total, err := importDir(ctx, pokemon.NewRepo(db), *dir)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("✅ imported %d entries from %s", total, *dir)
}

// importDir saves every generation snapshot found in dir. Missing
// generations are skipped.
func importDir(ctx context.Context, repo *pokemon.Repo, dir string) (int, error) {
	total := 0
	for _, gen := range dex.Generations() {
		path := filepath.Join(dir, fetcher.SnapshotName(gen))
		entries, err := readSnapshot(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return total, err
		}
		if err := repo.Save(ctx, entries); err != nil {
			return total, fmt.Errorf("import generation %d: %w", gen, err)
		}
		total += len(entries)
		log.Printf("imported %d entries from %s", len(entries), path)
	}
	return total, nil
}

func readSnapshot(path string) ([]models.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := fetcher.ReadSnapshot(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return entries, nil
}
