package domain

import (
	"time"

	"github.com/google/uuid"
)

// PurchaseRecord is one completed purchase. WalletAmount plus
// ExternalAmount is the total paid. More than one record may exist for
// the same (UserID, ProductID); lookups return the most recent.
type PurchaseRecord struct {
	PurchaseID        string    `json:"purchase_id"`
	UserID            string    `json:"user_id"`
	ProductID         string    `json:"product_id"`
	WalletAmount      float64   `json:"wallet_amount"`
	ExternalAmount    float64   `json:"external_amount"`
	Quantity          int       `json:"quantity"`
	OrderConfirmation string    `json:"order_confirmation,omitempty"`
	PurchasedAt       time.Time `json:"purchased_at"`
}

// Total returns the full amount paid across both sources
func (p PurchaseRecord) Total() float64 {
	return p.WalletAmount + p.ExternalAmount
}

// NewPurchaseRecord creates a purchase with a generated ID
func NewPurchaseRecord(userID, productID string, quantity int) *PurchaseRecord {
	return &PurchaseRecord{
		PurchaseID:  uuid.NewString(),
		UserID:      userID,
		ProductID:   productID,
		Quantity:    quantity,
		PurchasedAt: time.Now().UTC(),
	}
}

// Invoice is the immutable billing record for a purchase. Created once,
// never updated; key collisions on InvoiceNumber are rejected.
type Invoice struct {
	InvoiceNumber  string    `json:"invoice_number"`
	UserID         string    `json:"user_id"`
	ProductID      string    `json:"product_id"`
	OrderReference string    `json:"order_reference,omitempty"`
	Amount         float64   `json:"amount"`
	IssuedAt       time.Time `json:"issued_at"`
}
