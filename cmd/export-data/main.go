package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"pokedex/internal/fetcher"
	"pokedex/internal/pokemon"
	"pokedex/pkg/database"
	"pokedex/pkg/models"
	"pokedex/pkg/utils"
)

// Writes one generation-N.json per cached generation (the mirror-server
// layout) plus an optional CSV of everything.
func main() {
	var (
		outDir = flag.String("out", "data", "output directory")
		gens   = flag.String("gens", "all", `generations to export: "1,3", "all"`)
		csvOut = flag.String("csv", "", "also write a CSV file (empty to skip)")
	)
	flag.Parse()

	list, err := utils.ParseGenerations(*gens)
	if err != nil {
		log.Fatalf("bad -gens: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	n, err := export(ctx, pokemon.NewRepo(db), list, *outDir, *csvOut)
	if err != nil {
		log.Fatalf("export failed: %v", err)
	}
	log.Printf("✅ exported %d entries to %s", n, *outDir)
}

// export writes the snapshots of gens into outDir and, when csvOut is set,
// one CSV of every exported entry. Generations with no cached entries are
// skipped.
func export(ctx context.Context, repo *pokemon.Repo, gens []int, outDir, csvOut string) (int, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return 0, fmt.Errorf("mkdir: %w", err)
	}

	var all []models.Entry
	for _, gen := range gens {
		entries, err := repo.ListByGeneration(ctx, gen, 0, 0)
		if err != nil {
			return 0, fmt.Errorf("generation %d: %w", gen, err)
		}
		if len(entries) == 0 {
			log.Printf("generation %d not cached, skipped", gen)
			continue
		}
		path := filepath.Join(outDir, fetcher.SnapshotName(gen))
		if err := writeFile(path, func(f *os.File) error { return fetcher.WriteSnapshot(f, entries) }); err != nil {
			return 0, fmt.Errorf("write %s: %w", path, err)
		}
		log.Printf("exported %d entries to %s", len(entries), path)
		all = append(all, entries...)
	}

	if csvOut != "" {
		if err := writeFile(csvOut, func(f *os.File) error { return fetcher.WriteCSV(f, all) }); err != nil {
			return 0, fmt.Errorf("write %s: %w", csvOut, err)
		}
	}
	return len(all), nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close: %w", err)
	}
	return nil
}
