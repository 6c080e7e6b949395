package repositories

import (
	"OrtPrepBot/internal/models/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// EnsureUser inserts the user if it does not exist yet. Existing users keep
// their current language.
func (r *Repository) EnsureUser(ctx context.Context, userID int64) error {
	op := "Repository.EnsureUser"
	query := `INSERT INTO users (id) VALUES ($1) ON CONFLICT DO NOTHING`
	if _, err := r.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetUser returns a user by Telegram ID, or ErrNotFound.
func (r *Repository) GetUser(ctx context.Context, userID int64) (*domain.User, error) {
	op := "Repository.GetUser"
	var user domain.User
	query := `SELECT id, lang, created_at, updated_at FROM users WHERE id = $1`
	err := r.DB.QueryRowContext(ctx, query, userID).
		Scan(&user.ID, &user.Lang, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &user, nil
}

// SetUserLang upserts the user with the given preferred language.
func (r *Repository) SetUserLang(ctx context.Context, userID int64, lang string) error {
	op := "Repository.SetUserLang"
	query := `INSERT INTO users (id, lang) VALUES ($1, $2)
		ON CONFLICT (id) DO UPDATE
		SET lang = EXCLUDED.lang, updated_at = CURRENT_TIMESTAMP`
	if _, err := r.DB.ExecContext(ctx, query, userID, lang); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListUserIDs returns the IDs of all registered users.
func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	op := "Repository.ListUserIDs"
	var ids []int64
	query := `SELECT id FROM users ORDER BY created_at, id`
	if err := r.DB.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// CountUsers returns the number of registered users.
func (r *Repository) CountUsers(ctx context.Context) (int, error) {
	op := "Repository.CountUsers"
	var count int
	query := `SELECT COUNT(*) FROM users`
	if err := r.DB.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}
