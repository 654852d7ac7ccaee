package pokemon

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"pokedex/internal/fetcher"
	"pokedex/internal/search"
	"pokedex/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

const entryColumns = `id, name, japanese_name, types, descriptions, fetched_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(s scanner) (models.Entry, error) {
	var (
		e         models.Entry
		typesJSON string
		descJSON  string
	)
	if err := s.Scan(&e.ID, &e.Name, &e.JapaneseName, &typesJSON, &descJSON, &e.FetchedAt); err != nil {
		return models.Entry{}, err
	}
	if err := json.Unmarshal([]byte(typesJSON), &e.Types); err != nil {
		return models.Entry{}, fmt.Errorf("decode types of %d: %w", e.ID, err)
	}
	if err := json.Unmarshal([]byte(descJSON), &e.Descriptions); err != nil {
		return models.Entry{}, fmt.Errorf("decode descriptions of %d: %w", e.ID, err)
	}
	return e, nil
}

func (r *Repo) GetByID(ctx context.Context, id int) (*models.Entry, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM pokemon WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan getByID: %w", err)
	}
	return &e, nil
}

func (r *Repo) query(ctx context.Context, sqlStr string, args ...any) ([]models.Entry, error) {
	rows, err := r.DB.QueryContext(ctx, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list query: %w", err)
	}
	defer rows.Close()

	out := []models.Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("list scan: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// ListByGeneration pages through one generation in id order. A
// non-positive limit returns the rest of the generation.
func (r *Repo) ListByGeneration(ctx context.Context, gen, limit, offset int) ([]models.Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	if offset < 0 {
		offset = 0
	}
	return r.query(ctx, `
		SELECT `+entryColumns+`
		FROM pokemon
		WHERE generation = ?
		ORDER BY id ASC
		LIMIT ? OFFSET ?
	`, gen, limit, offset)
}

func (r *Repo) CountByGeneration(ctx context.Context, gen int) (int, error) {
	var n int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM pokemon WHERE generation = ?`, gen).Scan(&n); err != nil {
		return 0, fmt.Errorf("count scan: %w", err)
	}
	return n, nil
}

// Counts returns the number of cached entries per generation.
func (r *Repo) Counts(ctx context.Context) (map[int]int, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT generation, COUNT(*) FROM pokemon GROUP BY generation`)
	if err != nil {
		return nil, fmt.Errorf("counts query: %w", err)
	}
	defer rows.Close()

	out := make(map[int]int)
	for rows.Next() {
		var gen, n int
		if err := rows.Scan(&gen, &n); err != nil {
			return nil, fmt.Errorf("counts scan: %w", err)
		}
		out[gen] = n
	}
	return out, rows.Err()
}

func (r *Repo) All(ctx context.Context) ([]models.Entry, error) {
	return r.query(ctx, `SELECT `+entryColumns+` FROM pokemon ORDER BY id ASC`)
}

// Save upserts entries.
func (r *Repo) Save(ctx context.Context, entries []models.Entry) error {
	return fetcher.SaveToDatabase(ctx, r.DB, entries)
}

// Search returns the page of entries whose English name, Japanese name or
// four-digit number partially matches q, and the total number of matches.
// gen 0 searches every cached generation. Matching is done in Go because
// kana folding cannot be expressed with LIKE.
func (r *Repo) Search(ctx context.Context, q string, gen, limit, offset int) ([]models.Entry, int, error) {
	var (
		candidates []models.Entry
		err        error
	)
	if gen == 0 {
		candidates, err = r.All(ctx)
	} else {
		candidates, err = r.ListByGeneration(ctx, gen, 0, 0)
	}
	if err != nil {
		return nil, 0, err
	}

	matches := candidates[:0]
	for _, e := range candidates {
		if search.MatchAny(q, e.Name, e.JapaneseName, e.Number()) {
			matches = append(matches, e)
		}
	}

	total := len(matches)
	if offset < 0 {
		offset = 0
	}
	if offset >= total {
		return []models.Entry{}, total, nil
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return matches[offset:end], total, nil
}
