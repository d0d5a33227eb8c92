package domain

import "time"

// WishlistItem marks a product saved by a user. Re-adding an existing
// item refreshes AddedAt rather than duplicating the row.
type WishlistItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	AddedAt   time.Time `json:"added_at"`
}

// HistoryItem marks a product a user has viewed or bought. Same
// idempotent upsert semantics as WishlistItem.
type HistoryItem struct {
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	SeenAt    time.Time `json:"seen_at"`
}

// SearchEntry is one remembered search query per user
type SearchEntry struct {
	UserID     string    `json:"user_id"`
	Query      string    `json:"query"`
	SearchedAt time.Time `json:"searched_at"`
}

// Notification is a message delivered to a user's inbox
type Notification struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

// InstallmentPlan tracks a payment plan attached to a purchase
type InstallmentPlan struct {
	ID             int64     `json:"id"`
	UserID         string    `json:"user_id"`
	ProductID      string    `json:"product_id"`
	MonthlyAmount  float64   `json:"monthly_amount"`
	MonthsTotal    int       `json:"months_total"`
	MonthsPaid     int       `json:"months_paid"`
	NextInstalment time.Time `json:"next_instalment"`
}

// Remaining returns the number of unpaid months
func (p InstallmentPlan) Remaining() int {
	if p.MonthsPaid >= p.MonthsTotal {
		return 0
	}
	return p.MonthsTotal - p.MonthsPaid
}
