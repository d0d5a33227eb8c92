package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

// ListWalletTransactions returns a user's ledger entries, newest first
func (r *Repository) ListWalletTransactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, user_id, type, amount, order_reference, created_at
		FROM wallet_transactions WHERE user_id = ? ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query wallet transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.WalletTransaction
	for rows.Next() {
		var t domain.WalletTransaction
		var typ string
		if err := rows.Scan(&t.ID, &t.UserID, &typ, &t.Amount, &t.OrderReference, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan wallet transaction: %w", err)
		}
		t.Type = domain.TransactionType(typ)
		txs = append(txs, t)
	}
	return txs, rows.Err()
}

// TopUpWallet credits a user's balance and appends the TOP_UP ledger
// entry in the same transaction
func (r *Repository) TopUpWallet(ctx context.Context, userID string, amount float64) error {
	if amount <= 0 {
		return fmt.Errorf("top-up amount must be positive")
	}

	unlock := r.locks.lock("wallet/" + userID)
	defer unlock()

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, "UPDATE users SET balance = balance + ?, updated_at = ? WHERE id = ?",
			amount, time.Now().UTC(), userID)
		if err != nil {
			return fmt.Errorf("credit balance: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return fmt.Errorf("user %s not found", userID)
		}

		entry := domain.NewWalletTransaction(userID, domain.TransactionTopUp, amount)
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO wallet_transactions (id, user_id, type, amount, order_reference, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, entry.ID, entry.UserID, string(entry.Type), entry.Amount, entry.OrderReference, entry.CreatedAt); err != nil {
			return fmt.Errorf("append ledger entry: %w", mapWriteErr(err))
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.notify.TableChanged(service.TopicUsers, service.TopicWalletLedger)
	return nil
}

// Checkout completes a purchase as one atomic unit: the wallet share is
// debited (never below zero), the PURCHASE ledger entry appended, the
// purchase record and invoice inserted, and purchase history stamped.
// The returned record carries the generated order confirmation.
func (r *Repository) Checkout(ctx context.Context, userID, productID string, quantity int, walletAmount, externalAmount float64) (*domain.PurchaseRecord, error) {
	if quantity < 1 {
		return nil, fmt.Errorf("quantity must be at least 1")
	}
	if walletAmount < 0 || externalAmount < 0 {
		return nil, fmt.Errorf("payment amounts must be non-negative")
	}

	unlock := r.locks.lock("wallet/" + userID)
	defer unlock()

	now := time.Now().UTC()
	purchase := &domain.PurchaseRecord{
		PurchaseID:        uuid.NewString(),
		UserID:            userID,
		ProductID:         productID,
		WalletAmount:      walletAmount,
		ExternalAmount:    externalAmount,
		Quantity:          quantity,
		OrderConfirmation: newOrderConfirmation(),
		PurchasedAt:       now,
	}

	err := r.inTx(ctx, func(tx *sql.Tx) error {
		var balance float64
		err := tx.QueryRowContext(ctx, "SELECT balance FROM users WHERE id = ?", userID).Scan(&balance)
		if err == sql.ErrNoRows {
			return fmt.Errorf("user %s not found", userID)
		}
		if err != nil {
			return fmt.Errorf("query balance: %w", err)
		}
		if walletAmount > balance {
			return fmt.Errorf("insufficient wallet balance: have %.2f, need %.2f", balance, walletAmount)
		}

		if walletAmount > 0 {
			if _, err := tx.ExecContext(ctx, "UPDATE users SET balance = balance - ?, updated_at = ? WHERE id = ?",
				walletAmount, now, userID); err != nil {
				return fmt.Errorf("debit balance: %w", err)
			}
			ledger := domain.NewWalletTransaction(userID, domain.TransactionPurchase, walletAmount)
			ledger.OrderReference = purchase.OrderConfirmation
			if _, err := tx.ExecContext(ctx, `
				INSERT INTO wallet_transactions (id, user_id, type, amount, order_reference, created_at)
				VALUES (?, ?, ?, ?, ?, ?)
			`, ledger.ID, ledger.UserID, string(ledger.Type), ledger.Amount, ledger.OrderReference, ledger.CreatedAt); err != nil {
				return fmt.Errorf("append ledger entry: %w", mapWriteErr(err))
			}
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO purchases (`+purchaseColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, purchase.PurchaseID, purchase.UserID, purchase.ProductID, purchase.WalletAmount,
			purchase.ExternalAmount, purchase.Quantity, purchase.OrderConfirmation, purchase.PurchasedAt); err != nil {
			return fmt.Errorf("insert purchase: %w", mapWriteErr(err))
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO invoices (invoice_number, user_id, product_id, order_reference, amount, issued_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`, "INV-"+strings.ToUpper(uuid.NewString()[:8]), userID, productID,
			purchase.OrderConfirmation, purchase.Total(), now); err != nil {
			return fmt.Errorf("insert invoice: %w", mapWriteErr(err))
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO history_items (user_id, product_id, seen_at)
			VALUES (?, ?, ?)
			ON CONFLICT(user_id, product_id) DO UPDATE SET seen_at = excluded.seen_at
		`, userID, productID, now); err != nil {
			return fmt.Errorf("stamp history: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	r.notify.TableChanged(service.TopicUsers, service.TopicWalletLedger,
		service.TopicPurchases, service.TopicInvoices, service.TopicHistory)
	return purchase, nil
}

func newOrderConfirmation() string {
	return "OC-" + strings.ToUpper(uuid.NewString()[:8])
}
