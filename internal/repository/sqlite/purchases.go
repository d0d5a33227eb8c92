package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

const purchaseColumns = "purchase_id, user_id, product_id, wallet_amount, external_amount, quantity, order_confirmation, purchased_at"

// InsertPurchase records a completed purchase. Re-inserting an existing
// purchase_id overwrites the row in place.
func (r *Repository) InsertPurchase(ctx context.Context, p *domain.PurchaseRecord) error {
	if p.PurchasedAt.IsZero() {
		p.PurchasedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO purchases (`+purchaseColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(purchase_id) DO UPDATE SET
			user_id = excluded.user_id,
			product_id = excluded.product_id,
			wallet_amount = excluded.wallet_amount,
			external_amount = excluded.external_amount,
			quantity = excluded.quantity,
			order_confirmation = excluded.order_confirmation,
			purchased_at = excluded.purchased_at
	`, p.PurchaseID, p.UserID, p.ProductID, p.WalletAmount, p.ExternalAmount, p.Quantity, p.OrderConfirmation, p.PurchasedAt)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	r.notify.TableChanged(service.TopicPurchases)
	return nil
}

func scanPurchase(row interface{ Scan(...any) error }) (*domain.PurchaseRecord, error) {
	var p domain.PurchaseRecord
	if err := row.Scan(&p.PurchaseID, &p.UserID, &p.ProductID, &p.WalletAmount, &p.ExternalAmount, &p.Quantity, &p.OrderConfirmation, &p.PurchasedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetPurchase returns the most recent purchase of a product by a user,
// or nil when the user never bought it. Uniqueness per (user, product)
// is not enforced by the schema; newest-first makes lookups
// deterministic anyway.
func (r *Repository) GetPurchase(ctx context.Context, userID, productID string) (*domain.PurchaseRecord, error) {
	p, err := scanPurchase(r.db.QueryRowContext(ctx, `
		SELECT `+purchaseColumns+` FROM purchases
		WHERE user_id = ? AND product_id = ?
		ORDER BY purchased_at DESC, purchase_id DESC LIMIT 1
	`, userID, productID))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query purchase: %w", err)
	}
	return p, nil
}

// ListPurchases returns a user's purchases, newest first
func (r *Repository) ListPurchases(ctx context.Context, userID string) ([]domain.PurchaseRecord, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+purchaseColumns+` FROM purchases
		WHERE user_id = ? ORDER BY purchased_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query purchases: %w", err)
	}
	defer rows.Close()

	var purchases []domain.PurchaseRecord
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, fmt.Errorf("scan purchase: %w", err)
		}
		purchases = append(purchases, *p)
	}
	return purchases, rows.Err()
}

// InsertInvoice records an immutable billing row. Invoice numbers are
// append-only; a collision is a rejected write, never an overwrite.
func (r *Repository) InsertInvoice(ctx context.Context, inv *domain.Invoice) error {
	if inv.IssuedAt.IsZero() {
		inv.IssuedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO invoices (invoice_number, user_id, product_id, order_reference, amount, issued_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, inv.InvoiceNumber, inv.UserID, inv.ProductID, inv.OrderReference, inv.Amount, inv.IssuedAt)
	if err != nil {
		return fmt.Errorf("insert invoice: %w", mapWriteErr(err))
	}
	r.notify.TableChanged(service.TopicInvoices)
	return nil
}

// FindInvoice looks up the billing record for a purchase. A matching
// order reference wins; otherwise the most recent invoice for the
// (user, product) pair is returned. Nil when none exists.
func (r *Repository) FindInvoice(ctx context.Context, userID, productID, orderRef string) (*domain.Invoice, error) {
	scan := func(row *sql.Row) (*domain.Invoice, error) {
		var inv domain.Invoice
		err := row.Scan(&inv.InvoiceNumber, &inv.UserID, &inv.ProductID, &inv.OrderReference, &inv.Amount, &inv.IssuedAt)
		if err == sql.ErrNoRows {
			return nil, nil
		}
		if err != nil {
			return nil, fmt.Errorf("query invoice: %w", err)
		}
		return &inv, nil
	}

	if orderRef != "" {
		inv, err := scan(r.db.QueryRowContext(ctx, `
			SELECT invoice_number, user_id, product_id, order_reference, amount, issued_at
			FROM invoices
			WHERE user_id = ? AND product_id = ? AND order_reference = ?
			ORDER BY issued_at DESC LIMIT 1
		`, userID, productID, orderRef))
		if err != nil || inv != nil {
			return inv, err
		}
	}
	return scan(r.db.QueryRowContext(ctx, `
		SELECT invoice_number, user_id, product_id, order_reference, amount, issued_at
		FROM invoices
		WHERE user_id = ? AND product_id = ?
		ORDER BY issued_at DESC LIMIT 1
	`, userID, productID))
}
