package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"campusmart/internal/domain"
)

// baselineDDL is the oldest shipped schema (version 1). users still
// carries campus_card and purchases still carries payment_note; the
// upgrade chain rebuilds both tables without those columns.
const baselineDDL = `
CREATE TABLE users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	email TEXT NOT NULL UNIQUE,
	role TEXT NOT NULL,
	password_hash TEXT NOT NULL DEFAULT '',
	balance REAL NOT NULL DEFAULT 0,
	campus_card TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE books (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE purchases (
	purchase_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	wallet_amount REAL NOT NULL DEFAULT 0,
	external_amount REAL NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 1,
	payment_note TEXT NOT NULL DEFAULT '',
	purchased_at DATETIME NOT NULL
);

CREATE TABLE reviews (
	review_id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL DEFAULT '',
	comment TEXT NOT NULL DEFAULT '',
	rating INTEGER NOT NULL DEFAULT 0,
	likes INTEGER NOT NULL DEFAULT 0,
	dislikes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX idx_reviews_product ON reviews(product_id);

CREATE TABLE system_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	log_type TEXT NOT NULL,
	action TEXT NOT NULL,
	actor TEXT NOT NULL DEFAULT '',
	target TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	timestamp DATETIME NOT NULL
);
CREATE INDEX idx_system_logs_type_time ON system_logs(log_type, timestamp);

PRAGMA user_version = 1;
`

// newBaselineStore writes a version-1 database file with a few legacy
// rows and returns its path.
func newBaselineStore(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "store.db")

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open baseline store: %v", err)
	}
	defer db.Close()

	if _, err := db.Exec(baselineDDL); err != nil {
		t.Fatalf("create baseline schema: %v", err)
	}

	now := time.Now().UTC()
	if _, err := db.Exec(`
		INSERT INTO users (id, name, email, role, campus_card, created_at, updated_at)
		VALUES ('u1', 'Legacy User', 'legacy@campus.edu', 'student', 'CARD-123', ?, ?)
	`, now, now); err != nil {
		t.Fatalf("insert baseline user: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO books (id, title, author, price, created_at, updated_at)
		VALUES ('b1', 'Old Book', 'A. Author', 10.0, ?, ?)
	`, now, now); err != nil {
		t.Fatalf("insert baseline book: %v", err)
	}
	if _, err := db.Exec(`
		INSERT INTO purchases (purchase_id, user_id, product_id, wallet_amount, quantity, payment_note, purchased_at)
		VALUES ('p1', 'u1', 'b1', 10.0, 1, 'visa ending 4242', ?)
	`, now); err != nil {
		t.Fatalf("insert baseline purchase: %v", err)
	}
	return path
}

func tableColumns(t *testing.T, repo *Repository, table string) map[string]bool {
	t.Helper()
	rows, err := repo.db.Query(fmt.Sprintf("PRAGMA table_info(%s)", table))
	if err != nil {
		t.Fatalf("table_info %s: %v", table, err)
	}
	defer rows.Close()

	columns := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, typ string
		var notNull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			t.Fatalf("scan table_info: %v", err)
		}
		columns[name] = true
	}
	return columns
}

func TestMigrationChainIsContiguous(t *testing.T) {
	assertNoError(t, checkChain())
	assertEqual(t, schemaVersion-baselineVersion, len(migrations))
}

func TestMigrateFromBaselinePreservesData(t *testing.T) {
	path := newBaselineStore(t)

	repo, err := New(path)
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	version, err := repo.SchemaVersion(ctx)
	assertNoError(t, err)
	assertEqual(t, schemaVersion, version)

	// Legacy rows survive the upgrade with defaults for new columns
	user, err := repo.GetUser(ctx, "u1")
	assertNoError(t, err)
	assertNotNil(t, user)
	assertEqual(t, "Legacy User", user.Name)
	assertEqual(t, 0.0, user.DiscountPct)
	assertEqual(t, "", user.AvatarPath)

	book, err := repo.GetBook(ctx, "b1")
	assertNoError(t, err)
	assertNotNil(t, book)
	assertEqual(t, "Old Book", book.Title)
	assertEqual(t, 0, book.InstallmentMonths)

	purchase, err := repo.GetPurchase(ctx, "u1", "b1")
	assertNoError(t, err)
	assertNotNil(t, purchase)
	assertEqual(t, 10.0, purchase.WalletAmount)
	assertEqual(t, "", purchase.OrderConfirmation)
}

func TestMigrateRebuildsDropLegacyColumns(t *testing.T) {
	path := newBaselineStore(t)

	repo, err := New(path)
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	users := tableColumns(t, repo, "users")
	if users["campus_card"] {
		t.Fatal("users.campus_card must be dropped by the rebuild")
	}
	if !users["discount_pct"] || !users["avatar_path"] {
		t.Fatalf("users is missing added columns: %v", users)
	}

	purchases := tableColumns(t, repo, "purchases")
	if purchases["payment_note"] {
		t.Fatal("purchases.payment_note must be dropped by the rebuild")
	}
	if !purchases["order_confirmation"] {
		t.Fatalf("purchases is missing order_confirmation: %v", purchases)
	}
}

func TestMigrateCreatesAllTables(t *testing.T) {
	path := newBaselineStore(t)

	repo, err := New(path)
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	for _, table := range allTables {
		var count int
		if err := repo.db.QueryRow(fmt.Sprintf("SELECT COUNT(*) FROM %s", table)).Scan(&count); err != nil {
			t.Fatalf("table %s missing after migration: %v", table, err)
		}
	}
}

func TestMigrateIsIdempotentOnReopen(t *testing.T) {
	path := newBaselineStore(t)

	repo, err := New(path)
	assertNoError(t, err)
	assertNoError(t, repo.Close())

	// A second open sees schemaVersion and must not touch anything
	repo, err = New(path)
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	user, err := repo.GetUser(context.Background(), "u1")
	assertNoError(t, err)
	assertNotNil(t, user)
}

func TestMigrateFreshStoreCreatesLatestSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fresh.db")

	repo, err := New(path)
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	version, err := repo.SchemaVersion(context.Background())
	assertNoError(t, err)
	assertEqual(t, schemaVersion, version)
}

func TestMigrateUnknownVersionReinitializes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "future.db")

	db, err := sql.Open("sqlite", path)
	assertNoError(t, err)
	_, err = db.Exec(baselineDDL)
	assertNoError(t, err)
	now := time.Now().UTC()
	_, err = db.Exec(`
		INSERT INTO users (id, name, email, role, created_at, updated_at)
		VALUES ('doomed', 'From The Future', 'future@campus.edu', 'student', ?, ?)
	`, now, now)
	assertNoError(t, err)
	// A version the chain cannot reach, as left behind by a newer build
	_, err = db.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion+10))
	assertNoError(t, err)
	assertNoError(t, db.Close())

	repo, err := New(path)
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()
	version, err := repo.SchemaVersion(ctx)
	assertNoError(t, err)
	assertEqual(t, schemaVersion, version)

	// Reinitialization is destructive
	user, err := repo.GetUser(ctx, "doomed")
	assertNoError(t, err)
	assertNil(t, user)
}

func TestMigratedStoreMatchesFreshStore(t *testing.T) {
	migrated, err := New(newBaselineStore(t))
	assertNoError(t, err)
	t.Cleanup(func() { migrated.Close() })

	fresh := newTestRepo(t)

	for _, table := range allTables {
		assertEqual(t, tableColumns(t, fresh, table), tableColumns(t, migrated, table))
	}
}

func TestMigratedStoreSupportsCurrentOperations(t *testing.T) {
	repo, err := New(newBaselineStore(t))
	assertNoError(t, err)
	t.Cleanup(func() { repo.Close() })

	ctx := context.Background()

	// Tables created by the chain accept writes through the repository
	assertNoError(t, repo.UpsertWishlistItem(ctx, &domain.WishlistItem{
		UserID: "u1", ProductID: "b1", AddedAt: time.Now().UTC(),
	}))
	assertNoError(t, repo.AppendLog(ctx, domain.NewLogEntry(domain.LogUser, "login", "u1", "", "")))

	course := &domain.Course{ID: "c1", Title: "Calculus", Seats: 30, DurationWks: 12}
	assertNoError(t, repo.UpsertCourse(ctx, course))
	app := domain.NewEnrollmentApplication("u1", "c1", "keen", "Legacy User", "555-0100")
	assertNoError(t, repo.UpsertEnrollment(ctx, app))
}
