package repositories

import (
	"context"
	"fmt"
)

// AddGroup registers a group chat as a broadcast target. Reports whether the
// group was newly added.
func (r *Repository) AddGroup(ctx context.Context, chatID int64) (bool, error) {
	op := "Repository.AddGroup"
	query := `INSERT INTO broadcast_groups (chat_id)
		VALUES ($1) ON CONFLICT DO NOTHING`
	res, err := r.DB.ExecContext(ctx, query, chatID)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return affected > 0, nil
}

// ListGroups returns the chat IDs of all registered broadcast groups.
func (r *Repository) ListGroups(ctx context.Context) ([]int64, error) {
	op := "Repository.ListGroups"
	var ids []int64
	query := `SELECT chat_id FROM broadcast_groups ORDER BY added_at, chat_id`
	if err := r.DB.SelectContext(ctx, &ids, query); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}
