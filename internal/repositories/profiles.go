package repositories

import (
	"OrtPrepBot/internal/models/domain"
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// UpsertProfile creates or replaces the approved profile of a user.
// The original creation time survives updates.
func (r *Repository) UpsertProfile(ctx context.Context, userID int64, fullName string, score int) error {
	op := "Repository.UpsertProfile"
	query := `INSERT INTO profiles (user_id, full_name, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			score = EXCLUDED.score,
			updated_at = CURRENT_TIMESTAMP`
	if _, err := r.DB.ExecContext(ctx, query, userID, fullName, score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfile returns the approved profile of a user, or ErrNotFound.
func (r *Repository) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	op := "Repository.GetProfile"
	var p domain.Profile
	query := `SELECT user_id, full_name, score, created_at, updated_at
		FROM profiles WHERE user_id = $1`
	err := r.DB.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.FullName, &p.Score, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ListProfiles returns all approved profiles in insertion order.
func (r *Repository) ListProfiles(ctx context.Context) ([]domain.Profile, error) {
	op := "Repository.ListProfiles"
	var profiles []domain.Profile
	query := `SELECT user_id, full_name, score, created_at, updated_at
		FROM profiles ORDER BY created_at, user_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Profile
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Score,
			&p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}

// PutPending stores a submission awaiting moderation, replacing any earlier
// submission from the same user.
func (r *Repository) PutPending(ctx context.Context, userID int64, fullName string, score int) error {
	op := "Repository.PutPending"
	query := `INSERT INTO pending_profiles (user_id, full_name, score)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET full_name = EXCLUDED.full_name,
			score = EXCLUDED.score,
			created_at = CURRENT_TIMESTAMP`
	if _, err := r.DB.ExecContext(ctx, query, userID, fullName, score); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetPending returns a pending submission, or ErrNotFound.
func (r *Repository) GetPending(ctx context.Context, userID int64) (*domain.PendingProfile, error) {
	op := "Repository.GetPending"
	var p domain.PendingProfile
	query := `SELECT user_id, full_name, score, created_at
		FROM pending_profiles WHERE user_id = $1`
	err := r.DB.QueryRowContext(ctx, query, userID).
		Scan(&p.UserID, &p.FullName, &p.Score, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &p, nil
}

// ListPending returns all submissions awaiting moderation, oldest first.
func (r *Repository) ListPending(ctx context.Context) ([]domain.PendingProfile, error) {
	op := "Repository.ListPending"
	var pending []domain.PendingProfile
	query := `SELECT user_id, full_name, score, created_at
		FROM pending_profiles ORDER BY created_at, user_id`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.PendingProfile
		if err := rows.Scan(&p.UserID, &p.FullName, &p.Score, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		pending = append(pending, p)
	}
	return pending, nil
}

// DeletePending removes a pending submission and reports whether it existed.
func (r *Repository) DeletePending(ctx context.Context, userID int64) (bool, error) {
	op := "Repository.DeletePending"
	res, err := r.DB.ExecContext(ctx, `DELETE FROM pending_profiles WHERE user_id = $1`, userID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}
