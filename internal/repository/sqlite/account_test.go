package sqlite

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"campusmart/internal/domain"
)

// seedAccount populates the user plus at least one row in every
// registered user-scoped table.
func seedAccount(t *testing.T, repo *Repository, userID string) {
	t.Helper()
	ctx := context.Background()

	user := domain.NewUser("Holder "+userID, userID+"@campus.edu", domain.RoleStudent)
	user.ID = userID
	assertNoError(t, repo.UpsertUser(ctx, user))
	assertNoError(t, repo.TopUpWallet(ctx, userID, 100))

	now := time.Now().UTC()
	assertNoError(t, repo.UpsertWishlistItem(ctx, &domain.WishlistItem{UserID: userID, ProductID: "b1", AddedAt: now}))
	assertNoError(t, repo.UpsertHistoryItem(ctx, &domain.HistoryItem{UserID: userID, ProductID: "b1", SeenAt: now}))
	assertNoError(t, repo.UpsertSearchEntry(ctx, &domain.SearchEntry{UserID: userID, Query: "algebra", SearchedAt: now}))
	_, err := repo.InsertNotification(ctx, &domain.Notification{UserID: userID, Title: "hi", CreatedAt: now})
	assertNoError(t, err)

	_, err = repo.Checkout(ctx, userID, "b1", 1, 20, 0)
	assertNoError(t, err)

	assertNoError(t, repo.UpsertInstallmentPlan(ctx, &domain.InstallmentPlan{
		UserID: userID, ProductID: "b1", MonthlyAmount: 10, MonthsTotal: 3, NextInstalment: now,
	}))

	reviewID, err := repo.InsertReview(ctx, &domain.Review{ProductID: "b1", UserID: userID, Comment: "fine"})
	assertNoError(t, err)
	assertNoError(t, repo.ToggleReaction(ctx, reviewID, userID, "", domain.ReactionLike))

	assertNoError(t, repo.UpsertEnrollment(ctx, domain.NewEnrollmentApplication(userID, "c1", "why not", "Holder", "555")))
}

func countRows(t *testing.T, repo *Repository, table, userColumn, userID string) int {
	t.Helper()
	var n int
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?", table, userColumn)
	if err := repo.db.QueryRow(query, userID).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestDeleteAccountRemovesEveryOwnedRow(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "victim")

	// Every registered table actually has something to delete
	for _, owned := range userOwnedTables {
		if countRows(t, repo, owned.name, owned.userColumn, "victim") == 0 {
			t.Fatalf("test fixture left %s empty for victim", owned.name)
		}
	}

	assertNoError(t, repo.DeleteAccount(ctx, "victim"))

	for _, owned := range userOwnedTables {
		if n := countRows(t, repo, owned.name, owned.userColumn, "victim"); n != 0 {
			t.Fatalf("%d rows left in %s after account deletion", n, owned.name)
		}
	}

	user, err := repo.GetUser(ctx, "victim")
	assertNoError(t, err)
	assertNil(t, user)
}

func TestDeleteAccountLeavesOtherUsersAlone(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "victim")
	seedAccount(t, repo, "bystander")

	assertNoError(t, repo.DeleteAccount(ctx, "victim"))

	for _, owned := range userOwnedTables {
		if countRows(t, repo, owned.name, owned.userColumn, "bystander") == 0 {
			t.Fatalf("account deletion emptied %s for an unrelated user", owned.name)
		}
	}

	user, err := repo.GetUser(ctx, "bystander")
	assertNoError(t, err)
	assertNotNil(t, user)
}

func TestDeleteAccountSettlesReactionCountersOnSurvivingReviews(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "victim")
	seedAccount(t, repo, "bystander")

	likedID, err := repo.InsertReview(ctx, &domain.Review{ProductID: "b2", UserID: "bystander", Comment: "great"})
	assertNoError(t, err)
	dislikedID, err := repo.InsertReview(ctx, &domain.Review{ProductID: "b3", UserID: "bystander", Comment: "meh"})
	assertNoError(t, err)
	assertNoError(t, repo.ToggleReaction(ctx, likedID, "victim", "Victim", domain.ReactionLike))
	assertNoError(t, repo.ToggleReaction(ctx, likedID, "bystander", "Bystander", domain.ReactionLike))
	assertNoError(t, repo.ToggleReaction(ctx, dislikedID, "victim", "Victim", domain.ReactionDislike))

	assertNoError(t, repo.DeleteAccount(ctx, "victim"))

	// Counters track the surviving reaction rows, not the deleted ones
	liked, err := repo.GetReview(ctx, likedID)
	assertNoError(t, err)
	assertNotNil(t, liked)
	assertEqual(t, 1, liked.Likes)

	disliked, err := repo.GetReview(ctx, dislikedID)
	assertNoError(t, err)
	assertNotNil(t, disliked)
	assertEqual(t, 0, disliked.Dislikes)

	if n := countRows(t, repo, "review_reactions", "user_id", "victim"); n != 0 {
		t.Fatalf("%d reaction rows left after account deletion", n)
	}
}

func TestDeleteAccountRetainsInvoices(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()
	seedAccount(t, repo, "victim")

	assertNoError(t, repo.DeleteAccount(ctx, "victim"))

	// Billing records outlive the account
	if countRows(t, repo, "invoices", "user_id", "victim") == 0 {
		t.Fatal("invoices must be retained after account deletion")
	}
}

func TestDeleteAccountUnknownUserFails(t *testing.T) {
	repo := newTestRepo(t)

	err := repo.DeleteAccount(context.Background(), "ghost")
	if err == nil || !strings.Contains(err.Error(), "not found") {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestDeleteAccountNotifiesAffectedTables(t *testing.T) {
	notifier := &recordingNotifier{}
	repo, err := New(":memory:", WithNotifier(notifier))
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	seedAccount(t, repo, "victim")
	notifier.changed = nil

	assertNoError(t, repo.DeleteAccount(context.Background(), "victim"))

	if !notifier.has("users") {
		t.Fatalf("expected users notification, got %v", notifier.changed)
	}
	for _, owned := range userOwnedTables {
		if !notifier.has(owned.name) {
			t.Fatalf("expected %s notification, got %v", owned.name, notifier.changed)
		}
	}
}
