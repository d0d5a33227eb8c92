package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

const reviewColumns = "review_id, product_id, user_id, user_name, comment, rating, likes, dislikes, parent_review_id, created_at"

// InsertReview stores a new review and returns its assigned ID
func (r *Repository) InsertReview(ctx context.Context, rev *domain.Review) (int64, error) {
	if rev.CreatedAt.IsZero() {
		rev.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO reviews (product_id, user_id, user_name, comment, rating, likes, dislikes, parent_review_id, created_at)
		VALUES (?, ?, ?, ?, ?, 0, 0, ?, ?)
	`, rev.ProductID, rev.UserID, rev.UserName, rev.Comment, rev.Rating, rev.ParentReviewID, rev.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert review: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("review id: %w", err)
	}
	rev.ReviewID = id
	r.notify.TableChanged(service.TopicReviews)
	return id, nil
}

func scanReview(row interface{ Scan(...any) error }) (*domain.Review, error) {
	var rev domain.Review
	if err := row.Scan(&rev.ReviewID, &rev.ProductID, &rev.UserID, &rev.UserName, &rev.Comment, &rev.Rating, &rev.Likes, &rev.Dislikes, &rev.ParentReviewID, &rev.CreatedAt); err != nil {
		return nil, err
	}
	return &rev, nil
}

// GetReview returns a review by ID, or nil when absent
func (r *Repository) GetReview(ctx context.Context, reviewID int64) (*domain.Review, error) {
	rev, err := scanReview(r.db.QueryRowContext(ctx, "SELECT "+reviewColumns+" FROM reviews WHERE review_id = ?", reviewID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query review: %w", err)
	}
	return rev, nil
}

// ListReviews returns a product's reviews, newest first
func (r *Repository) ListReviews(ctx context.Context, productID string) ([]domain.Review, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+reviewColumns+` FROM reviews
		WHERE product_id = ? ORDER BY created_at DESC, review_id DESC
	`, productID)
	if err != nil {
		return nil, fmt.Errorf("query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		rev, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		reviews = append(reviews, *rev)
	}
	return reviews, rows.Err()
}

// GetReaction returns the user's reaction to a review, or nil when the
// user has not reacted
func (r *Repository) GetReaction(ctx context.Context, reviewID int64, userID string) (*domain.ReviewReaction, error) {
	var ra domain.ReviewReaction
	var typ string
	err := r.db.QueryRowContext(ctx, `
		SELECT review_id, user_id, user_name, type, reacted_at
		FROM review_reactions WHERE review_id = ? AND user_id = ?
	`, reviewID, userID).Scan(&ra.ReviewID, &ra.UserID, &ra.UserName, &typ, &ra.ReactedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query reaction: %w", err)
	}
	ra.Type = domain.ReactionType(typ)
	return &ra, nil
}

// ToggleReaction applies a like/dislike toggle as one atomic unit.
// An existing reaction is first undone (its counter decremented, floored
// at zero, and its row removed). If it matched the requested type the
// toggle ends there; otherwise the requested counter is incremented and
// a fresh reaction row inserted. The reaction row and the counters are
// never observable in disagreement.
func (r *Repository) ToggleReaction(ctx context.Context, reviewID int64, userID, userName string, typ domain.ReactionType) error {
	if typ != domain.ReactionLike && typ != domain.ReactionDislike {
		return fmt.Errorf("unknown reaction type %q", typ)
	}

	unlock := r.locks.lock(fmt.Sprintf("reaction/%d/%s", reviewID, userID))
	defer unlock()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var existing string
		err := tx.QueryRowContext(ctx, `
			SELECT type FROM review_reactions WHERE review_id = ? AND user_id = ?
		`, reviewID, userID).Scan(&existing)
		if err != nil && err != sql.ErrNoRows {
			return fmt.Errorf("query existing reaction: %w", err)
		}

		if existing != "" {
			if err := adjustCounter(ctx, tx, reviewID, domain.ReactionType(existing), -1); err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `
				DELETE FROM review_reactions WHERE review_id = ? AND user_id = ?
			`, reviewID, userID); err != nil {
				return fmt.Errorf("delete reaction: %w", err)
			}
			if domain.ReactionType(existing) == typ {
				// Same reaction toggled off
				return nil
			}
		}

		if err := adjustCounter(ctx, tx, reviewID, typ, +1); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO review_reactions (review_id, user_id, user_name, type, reacted_at)
			VALUES (?, ?, ?, ?, ?)
		`, reviewID, userID, userName, string(typ), time.Now().UTC()); err != nil {
			return fmt.Errorf("insert reaction: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.notify.TableChanged(service.TopicReviews, service.TopicReactions)
	return nil
}

// adjustCounter moves one review counter by delta, flooring at zero
func adjustCounter(ctx context.Context, tx *sql.Tx, reviewID int64, typ domain.ReactionType, delta int) error {
	column := "likes"
	if typ == domain.ReactionDislike {
		column = "dislikes"
	}
	_, err := tx.ExecContext(ctx, fmt.Sprintf(`
		UPDATE reviews SET %s = MAX(%s + ?, 0) WHERE review_id = ?
	`, column, column), delta, reviewID)
	if err != nil {
		return fmt.Errorf("adjust %s: %w", column, err)
	}
	return nil
}
