package repository

import (
	"context"
	"errors"

	"campusmart/internal/domain"
)

// ErrDuplicate is returned when an insert into an append-only table
// collides with an existing key. It is never silently absorbed.
var ErrDuplicate = errors.New("duplicate key")

// Repository defines data access for the campusmart store.
// Point reads return (nil, nil) when no row matches.
type Repository interface {
	// Users
	UpsertUser(ctx context.Context, u *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)

	// Catalog item families
	UpsertBook(ctx context.Context, b *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	ListBooks(ctx context.Context) ([]domain.Book, error)
	UpsertAudioBook(ctx context.Context, a *domain.AudioBook) error
	GetAudioBook(ctx context.Context, id string) (*domain.AudioBook, error)
	ListAudioBooks(ctx context.Context) ([]domain.AudioBook, error)
	UpsertCourse(ctx context.Context, c *domain.Course) error
	GetCourse(ctx context.Context, id string) (*domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
	UpsertGearItem(ctx context.Context, g *domain.GearItem) error
	GetGearItem(ctx context.Context, id string) (*domain.GearItem, error)
	ListGearItems(ctx context.Context) ([]domain.GearItem, error)
	DeleteCatalogItem(ctx context.Context, kind domain.ItemKind, id string) error

	// Purchases and invoices
	InsertPurchase(ctx context.Context, p *domain.PurchaseRecord) error
	GetPurchase(ctx context.Context, userID, productID string) (*domain.PurchaseRecord, error)
	ListPurchases(ctx context.Context, userID string) ([]domain.PurchaseRecord, error)
	InsertInvoice(ctx context.Context, inv *domain.Invoice) error
	FindInvoice(ctx context.Context, userID, productID, orderRef string) (*domain.Invoice, error)

	// Reviews and reactions
	InsertReview(ctx context.Context, r *domain.Review) (int64, error)
	GetReview(ctx context.Context, reviewID int64) (*domain.Review, error)
	ListReviews(ctx context.Context, productID string) ([]domain.Review, error)
	GetReaction(ctx context.Context, reviewID int64, userID string) (*domain.ReviewReaction, error)
	ToggleReaction(ctx context.Context, reviewID int64, userID, userName string, typ domain.ReactionType) error

	// Wishlist, history, search, notifications
	UpsertWishlistItem(ctx context.Context, w *domain.WishlistItem) error
	RemoveWishlistItem(ctx context.Context, userID, productID string) error
	ListWishlist(ctx context.Context, userID string) ([]domain.WishlistItem, error)
	UpsertHistoryItem(ctx context.Context, h *domain.HistoryItem) error
	ListHistory(ctx context.Context, userID string) ([]domain.HistoryItem, error)
	UpsertSearchEntry(ctx context.Context, s *domain.SearchEntry) error
	ListSearchEntries(ctx context.Context, userID string) ([]domain.SearchEntry, error)
	InsertNotification(ctx context.Context, n *domain.Notification) (int64, error)
	MarkNotificationRead(ctx context.Context, id int64) error
	ListNotifications(ctx context.Context, userID string) ([]domain.Notification, error)

	// Enrollment applications
	UpsertEnrollment(ctx context.Context, e *domain.EnrollmentApplication) error
	GetEnrollment(ctx context.Context, id string) (*domain.EnrollmentApplication, error)
	SetEnrollmentStatus(ctx context.Context, id string, status domain.EnrollmentStatus) error
	ListEnrollments(ctx context.Context, courseID string) ([]domain.EnrollmentApplication, error)

	// Installment plans
	UpsertInstallmentPlan(ctx context.Context, p *domain.InstallmentPlan) error
	ListInstallmentPlans(ctx context.Context, userID string) ([]domain.InstallmentPlan, error)

	// Wallet
	ListWalletTransactions(ctx context.Context, userID string) ([]domain.WalletTransaction, error)
	TopUpWallet(ctx context.Context, userID string, amount float64) error
	Checkout(ctx context.Context, userID, productID string, quantity int, walletAmount, externalAmount float64) (*domain.PurchaseRecord, error)

	// Audit log with bounded retention
	AppendLog(ctx context.Context, e *domain.SystemLogEntry) error
	ListLogs(ctx context.Context, typ domain.LogType) ([]domain.SystemLogEntry, error)

	// Cascading account deletion
	DeleteAccount(ctx context.Context, userID string) error

	// Close releases resources
	Close() error
}
