package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

// DeleteAccount removes a user and every row in every registered
// user-scoped table as one atomic unit. The fan-out iterates
// userOwnedTables, so new user-scoped entity families join by
// registering there. The user row goes last: a crash mid-operation
// rolls back to a findable user rather than orphaned rows.
func (r *Repository) DeleteAccount(ctx context.Context, userID string) error {
	unlock := r.locks.lock("account/" + userID)
	defer unlock()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		// The user's reactions on surviving reviews vanish with the
		// fan-out below, so settle those counters first. One reaction
		// per (review, user) means a flat decrement per matching row.
		for typ, column := range map[domain.ReactionType]string{
			domain.ReactionLike:    "likes",
			domain.ReactionDislike: "dislikes",
		} {
			stmt := fmt.Sprintf(`
				UPDATE reviews SET %[1]s = MAX(%[1]s - 1, 0)
				WHERE review_id IN (
					SELECT review_id FROM review_reactions WHERE user_id = ? AND type = ?
				)`, column)
			if _, err := tx.ExecContext(ctx, stmt, userID, string(typ)); err != nil {
				return fmt.Errorf("settle %s counters: %w", column, err)
			}
		}
		for _, t := range userOwnedTables {
			stmt := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", t.name, t.userColumn)
			if _, err := tx.ExecContext(ctx, stmt, userID); err != nil {
				return fmt.Errorf("delete from %s: %w", t.name, err)
			}
		}
		res, err := tx.ExecContext(ctx, "DELETE FROM users WHERE id = ?", userID)
		if err != nil {
			return fmt.Errorf("delete user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %s not found", userID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	topics := make([]string, 0, len(userOwnedTables)+1)
	topics = append(topics, service.TopicUsers)
	for _, t := range userOwnedTables {
		topics = append(topics, t.name)
	}
	r.notify.TableChanged(topics...)
	return nil
}
