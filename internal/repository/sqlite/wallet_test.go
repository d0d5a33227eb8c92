package sqlite

import (
	"context"
	"strings"
	"testing"

	"campusmart/internal/domain"
)

func newFundedUser(t *testing.T, repo *Repository, id string, balance float64) {
	t.Helper()
	user := domain.NewUser("Wallet Holder", id+"@campus.edu", domain.RoleStudent)
	user.ID = id
	assertNoError(t, repo.UpsertUser(context.Background(), user))
	if balance > 0 {
		assertNoError(t, repo.TopUpWallet(context.Background(), id, balance))
	}
}

func balanceOf(t *testing.T, repo *Repository, id string) float64 {
	t.Helper()
	user, err := repo.GetUser(context.Background(), id)
	assertNoError(t, err)
	assertNotNil(t, user)
	return user.Balance
}

func TestTopUpWalletCreditsAndLedgers(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	newFundedUser(t, repo, "u1", 0)

	assertNoError(t, repo.TopUpWallet(ctx, "u1", 50))
	assertNoError(t, repo.TopUpWallet(ctx, "u1", 25))
	assertEqual(t, 75.0, balanceOf(t, repo, "u1"))

	txs, err := repo.ListWalletTransactions(ctx, "u1")
	assertNoError(t, err)
	assertEqual(t, 2, len(txs))
	for _, tx := range txs {
		assertEqual(t, domain.TransactionTopUp, tx.Type)
	}
}

func TestTopUpWalletRejectsNonPositiveAmount(t *testing.T) {
	repo := newTestRepo(t)
	newFundedUser(t, repo, "u1", 0)

	if err := repo.TopUpWallet(context.Background(), "u1", 0); err == nil {
		t.Fatal("expected error for zero top-up")
	}
	if err := repo.TopUpWallet(context.Background(), "u1", -5); err == nil {
		t.Fatal("expected error for negative top-up")
	}
}

func TestTopUpWalletUnknownUserFails(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.TopUpWallet(context.Background(), "ghost", 10)
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestCheckoutDebitsWalletAndRecordsEverything(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	newFundedUser(t, repo, "u1", 100)

	purchase, err := repo.Checkout(ctx, "u1", "b1", 2, 30, 15)
	assertNoError(t, err)
	assertNotNil(t, purchase)
	if purchase.OrderConfirmation == "" {
		t.Fatal("expected generated order confirmation")
	}
	assertEqual(t, 45.0, purchase.Total())

	assertEqual(t, 70.0, balanceOf(t, repo, "u1"))

	// Purchase record is readable back
	got, err := repo.GetPurchase(ctx, "u1", "b1")
	assertNoError(t, err)
	assertNotNil(t, got)
	assertEqual(t, purchase.PurchaseID, got.PurchaseID)
	assertEqual(t, 2, got.Quantity)

	// Ledger carries the PURCHASE entry referencing the confirmation
	txs, err := repo.ListWalletTransactions(ctx, "u1")
	assertNoError(t, err)
	assertEqual(t, 2, len(txs)) // top-up plus purchase
	assertEqual(t, domain.TransactionPurchase, txs[0].Type)
	assertEqual(t, purchase.OrderConfirmation, txs[0].OrderReference)

	// Invoice references the same confirmation
	invoice, err := repo.FindInvoice(ctx, "u1", "b1", purchase.OrderConfirmation)
	assertNoError(t, err)
	assertNotNil(t, invoice)
	assertEqual(t, 45.0, invoice.Amount)

	// Checkout stamps purchase history
	history, err := repo.ListHistory(ctx, "u1")
	assertNoError(t, err)
	assertEqual(t, 1, len(history))
	assertEqual(t, "b1", history[0].ProductID)
}

func TestCheckoutInsufficientBalanceLeavesNoTrace(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	newFundedUser(t, repo, "u1", 10)

	_, err := repo.Checkout(ctx, "u1", "b1", 1, 50, 0)
	if err == nil || !strings.Contains(err.Error(), "insufficient") {
		t.Fatalf("expected insufficient balance error, got %v", err)
	}

	// Nothing from the failed checkout is visible
	assertEqual(t, 10.0, balanceOf(t, repo, "u1"))
	purchase, err := repo.GetPurchase(ctx, "u1", "b1")
	assertNoError(t, err)
	assertNil(t, purchase)
	txs, err := repo.ListWalletTransactions(ctx, "u1")
	assertNoError(t, err)
	assertEqual(t, 1, len(txs)) // only the funding top-up
}

func TestCheckoutExternalOnlySkipsWallet(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	newFundedUser(t, repo, "u1", 10)

	purchase, err := repo.Checkout(ctx, "u1", "g1", 1, 0, 45)
	assertNoError(t, err)
	assertNotNil(t, purchase)

	assertEqual(t, 10.0, balanceOf(t, repo, "u1"))
	txs, err := repo.ListWalletTransactions(ctx, "u1")
	assertNoError(t, err)
	assertEqual(t, 1, len(txs)) // no PURCHASE ledger entry without a wallet share
}

func TestCheckoutValidatesArguments(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	newFundedUser(t, repo, "u1", 10)

	if _, err := repo.Checkout(ctx, "u1", "b1", 0, 5, 0); err == nil {
		t.Fatal("expected error for zero quantity")
	}
	if _, err := repo.Checkout(ctx, "u1", "b1", 1, -5, 0); err == nil {
		t.Fatal("expected error for negative wallet amount")
	}
	if _, err := repo.Checkout(ctx, "ghost", "b1", 1, 0, 5); err == nil {
		t.Fatal("expected error for unknown user")
	}
}
