package fetcher

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"pokedex/pkg/models"
)

// SaveToDatabase upserts entries into the pokemon table in one
// transaction. Rows are replaced as a whole.
func SaveToDatabase(ctx context.Context, db *sql.DB, entries []models.Entry) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pokemon (id, generation, name, japanese_name, types, descriptions, fetched_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  generation = excluded.generation,
		  name = excluded.name,
		  japanese_name = excluded.japanese_name,
		  types = excluded.types,
		  descriptions = excluded.descriptions,
		  fetched_at = excluded.fetched_at
	`)
	if err != nil {
		return fmt.Errorf("prepare stmt: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, e := range entries {
		types := e.Types
		if types == nil {
			types = []string{}
		}
		typesJSON, err := json.Marshal(types)
		if err != nil {
			return fmt.Errorf("marshal types for %d: %w", e.ID, err)
		}

		descs := e.Descriptions
		if descs == nil {
			descs = map[int]models.Description{}
		}
		descJSON, err := json.Marshal(descs)
		if err != nil {
			return fmt.Errorf("marshal descriptions for %d: %w", e.ID, err)
		}

		fetched := e.FetchedAt
		if fetched.IsZero() {
			fetched = now
		}

		if _, err := stmt.ExecContext(
			ctx,
			e.ID,
			e.Generation(),
			e.Name,
			e.JapaneseName,
			string(typesJSON),
			string(descJSON),
			fetched,
		); err != nil {
			return fmt.Errorf("exec upsert for %d: %w", e.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
