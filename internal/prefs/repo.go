package prefs

import (
	"context"
	"database/sql"
	"fmt"

	"pokedex/pkg/models"
)

// Repo keeps per-user preferences in the user_prefs table.
type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Get(ctx context.Context, userID, key string) (string, bool, error) {
	var v string
	err := r.DB.QueryRowContext(ctx, `
		SELECT value FROM user_prefs WHERE user_id = ? AND key = ?
	`, userID, key).Scan(&v)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("get pref: %w", err)
	}
	return v, true, nil
}

func (r *Repo) Set(ctx context.Context, userID, key, value string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO user_prefs (user_id, key, value, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(user_id, key) DO UPDATE SET
		  value = excluded.value,
		  updated_at = excluded.updated_at
	`, userID, key, value)
	if err != nil {
		return fmt.Errorf("set pref: %w", err)
	}
	return nil
}

// List returns the rows stored for userID.
func (r *Repo) List(ctx context.Context, userID string) ([]models.Pref, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, key, value, updated_at
		FROM user_prefs
		WHERE user_id = ?
		ORDER BY key ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list prefs: %w", err)
	}
	defer rows.Close()

	var out []models.Pref
	for rows.Next() {
		var p models.Pref
		if err := rows.Scan(&p.UserID, &p.Key, &p.Value, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("list prefs scan: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// All returns every known key for userID, defaults filled in.
func (r *Repo) All(ctx context.Context, userID string) (map[string]string, error) {
	return Load(ctx, r.ForUser(userID))
}

// ForUser scopes the repo to one user.
func (r *Repo) ForUser(userID string) Store {
	return userStore{repo: r, userID: userID}
}

type userStore struct {
	repo   *Repo
	userID string
}

func (s userStore) Get(ctx context.Context, key, def string) (string, error) {
	v, ok, err := s.repo.Get(ctx, s.userID, key)
	if err != nil || !ok {
		return def, err
	}
	return v, nil
}

func (s userStore) Set(ctx context.Context, key, value string) error {
	return s.repo.Set(ctx, s.userID, key, value)
}
