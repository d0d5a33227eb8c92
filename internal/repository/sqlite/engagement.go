package sqlite

import (
	"context"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

// UpsertWishlistItem adds a product to a user's wishlist. Re-adding an
// existing pair refreshes the timestamp instead of duplicating.
func (r *Repository) UpsertWishlistItem(ctx context.Context, w *domain.WishlistItem) error {
	if w.AddedAt.IsZero() {
		w.AddedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO wishlist_items (user_id, product_id, added_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET added_at = excluded.added_at
	`, w.UserID, w.ProductID, w.AddedAt)
	if err != nil {
		return fmt.Errorf("upsert wishlist item: %w", err)
	}
	r.notify.TableChanged(service.TopicWishlist)
	return nil
}

// RemoveWishlistItem deletes one wishlist row
func (r *Repository) RemoveWishlistItem(ctx context.Context, userID, productID string) error {
	_, err := r.db.ExecContext(ctx, `
		DELETE FROM wishlist_items WHERE user_id = ? AND product_id = ?
	`, userID, productID)
	if err != nil {
		return fmt.Errorf("remove wishlist item: %w", err)
	}
	r.notify.TableChanged(service.TopicWishlist)
	return nil
}

// ListWishlist returns a user's wishlist, newest first
func (r *Repository) ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, product_id, added_at FROM wishlist_items
		WHERE user_id = ? ORDER BY added_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wishlist: %w", err)
	}
	defer rows.Close()

	var items []domain.WishlistItem
	for rows.Next() {
		var w domain.WishlistItem
		if err := rows.Scan(&w.UserID, &w.ProductID, &w.AddedAt); err != nil {
			return nil, fmt.Errorf("scan wishlist item: %w", err)
		}
		items = append(items, w)
	}
	return items, rows.Err()
}

// UpsertHistoryItem records that a user saw a product, refreshing the
// timestamp on repeat views
func (r *Repository) UpsertHistoryItem(ctx context.Context, h *domain.HistoryItem) error {
	if h.SeenAt.IsZero() {
		h.SeenAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO history_items (user_id, product_id, seen_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET seen_at = excluded.seen_at
	`, h.UserID, h.ProductID, h.SeenAt)
	if err != nil {
		return fmt.Errorf("upsert history item: %w", err)
	}
	r.notify.TableChanged(service.TopicHistory)
	return nil
}

// ListHistory returns a user's product history, newest first
func (r *Repository) ListHistory(ctx context.Context, userID string) ([]domain.HistoryItem, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, product_id, seen_at FROM history_items
		WHERE user_id = ? ORDER BY seen_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var items []domain.HistoryItem
	for rows.Next() {
		var h domain.HistoryItem
		if err := rows.Scan(&h.UserID, &h.ProductID, &h.SeenAt); err != nil {
			return nil, fmt.Errorf("scan history item: %w", err)
		}
		items = append(items, h)
	}
	return items, rows.Err()
}

// UpsertSearchEntry remembers a search query per user
func (r *Repository) UpsertSearchEntry(ctx context.Context, s *domain.SearchEntry) error {
	if s.SearchedAt.IsZero() {
		s.SearchedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO search_entries (user_id, query, searched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, query) DO UPDATE SET searched_at = excluded.searched_at
	`, s.UserID, s.Query, s.SearchedAt)
	if err != nil {
		return fmt.Errorf("upsert search entry: %w", err)
	}
	r.notify.TableChanged(service.TopicSearch)
	return nil
}

// ListSearchEntries returns a user's remembered searches, newest first
func (r *Repository) ListSearchEntries(ctx context.Context, userID string) ([]domain.SearchEntry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT user_id, query, searched_at FROM search_entries
		WHERE user_id = ? ORDER BY searched_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query search entries: %w", err)
	}
	defer rows.Close()

	var entries []domain.SearchEntry
	for rows.Next() {
		var s domain.SearchEntry
		if err := rows.Scan(&s.UserID, &s.Query, &s.SearchedAt); err != nil {
			return nil, fmt.Errorf("scan search entry: %w", err)
		}
		entries = append(entries, s)
	}
	return entries, rows.Err()
}

// InsertNotification delivers a message to a user's inbox and returns
// the assigned ID
func (r *Repository) InsertNotification(ctx context.Context, n *domain.Notification) (int64, error) {
	if n.CreatedAt.IsZero() {
		n.CreatedAt = time.Now().UTC()
	}
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO notifications (user_id, title, body, read, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, n.UserID, n.Title, n.Body, n.Read, n.CreatedAt)
	if err != nil {
		return 0, fmt.Errorf("insert notification: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("notification id: %w", err)
	}
	n.ID = id
	r.notify.TableChanged(service.TopicNotifications)
	return id, nil
}

// MarkNotificationRead flags one notification as read
func (r *Repository) MarkNotificationRead(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, "UPDATE notifications SET read = 1 WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("mark notification read: %w", err)
	}
	r.notify.TableChanged(service.TopicNotifications)
	return nil
}

// ListNotifications returns a user's notifications, newest first
func (r *Repository) ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, title, body, read, created_at FROM notifications
		WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query notifications: %w", err)
	}
	defer rows.Close()

	var items []domain.Notification
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Body, &n.Read, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		items = append(items, n)
	}
	return items, rows.Err()
}

// UpsertInstallmentPlan inserts or replaces a payment plan for a
// (user, product) pair
func (r *Repository) UpsertInstallmentPlan(ctx context.Context, p *domain.InstallmentPlan) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO installment_plans (user_id, product_id, monthly_amount, months_total, months_paid, next_instalment)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, product_id) DO UPDATE SET
			monthly_amount = excluded.monthly_amount,
			months_total = excluded.months_total,
			months_paid = excluded.months_paid,
			next_instalment = excluded.next_instalment
	`, p.UserID, p.ProductID, p.MonthlyAmount, p.MonthsTotal, p.MonthsPaid, p.NextInstalment)
	if err != nil {
		return fmt.Errorf("upsert installment plan: %w", err)
	}
	r.notify.TableChanged(service.TopicInstallments)
	return nil
}

// ListInstallmentPlans returns a user's payment plans
func (r *Repository) ListInstallmentPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, product_id, monthly_amount, months_total, months_paid, next_instalment
		FROM installment_plans WHERE user_id = ? ORDER BY next_instalment ASC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query installment plans: %w", err)
	}
	defer rows.Close()

	var plans []domain.InstallmentPlan
	for rows.Next() {
		var p domain.InstallmentPlan
		if err := rows.Scan(&p.ID, &p.UserID, &p.ProductID, &p.MonthlyAmount, &p.MonthsTotal, &p.MonthsPaid, &p.NextInstalment); err != nil {
			return nil, fmt.Errorf("scan installment plan: %w", err)
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}
