package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransactionType classifies a wallet ledger entry
type TransactionType string

const (
	TransactionTopUp    TransactionType = "TOP_UP"
	TransactionPurchase TransactionType = "PURCHASE"
)

// WalletTransaction is one entry in the append-only wallet ledger.
// Never mutated after insert; ID collisions are rejected writes.
type WalletTransaction struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"`
	Type           TransactionType `json:"type"`
	Amount         float64         `json:"amount"`
	OrderReference string          `json:"order_reference,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// NewWalletTransaction creates a ledger entry with a generated ID
func NewWalletTransaction(userID string, typ TransactionType, amount float64) *WalletTransaction {
	return &WalletTransaction{
		ID:        uuid.NewString(),
		UserID:    userID,
		Type:      typ,
		Amount:    amount,
		CreatedAt: time.Now().UTC(),
	}
}
