package sqlite

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
)

// baselineVersion is the oldest schema the chain can upgrade from
const baselineVersion = 1

// migration is one version step. apply is nil for registered no-ops,
// kept so version numbers stay contiguous.
type migration struct {
	version int
	apply   func(tx *sql.Tx) error
}

// migrations is the full upgrade chain from baselineVersion to
// schemaVersion. Steps run strictly in ascending order; checkChain
// rejects gaps at open time so a packaging mistake surfaces as an
// error instead of a silent destructive fallback.
var migrations = []migration{
	{2, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS audiobooks (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			author TEXT NOT NULL DEFAULT '',
			narrator TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			cover_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)
	}},
	{3, func(tx *sql.Tx) error {
		return addColumn(tx, "books", "cover_path", "TEXT NOT NULL DEFAULT ''")
	}},
	{4, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS wishlist_items (
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			added_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, product_id)
		)`)
	}},
	{5, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS history_items (
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			seen_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, product_id)
		)`)
	}},
	{6, func(tx *sql.Tx) error {
		return addColumn(tx, "users", "discount_pct", "REAL NOT NULL DEFAULT 0")
	}},
	{7, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS courses (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			teacher_name TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			cover_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)
	}},
	{8, func(tx *sql.Tx) error {
		return addColumn(tx, "users", "avatar_path", "TEXT NOT NULL DEFAULT ''")
	}},
	// campus_card was dropped when physical card numbers moved out of
	// the local store; SQLite cannot drop columns, so rebuild.
	{9, func(tx *sql.Tx) error {
		return rebuildTable(tx, "users", `CREATE TABLE users_new (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL,
			email TEXT NOT NULL UNIQUE,
			role TEXT NOT NULL,
			password_hash TEXT NOT NULL DEFAULT '',
			balance REAL NOT NULL DEFAULT 0,
			discount_pct REAL NOT NULL DEFAULT 0,
			avatar_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`, []string{"id", "name", "email", "role", "password_hash", "balance", "discount_pct", "avatar_path", "created_at", "updated_at"})
	}},
	{10, nil},
	{11, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS gear_items (
			id TEXT PRIMARY KEY,
			title TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			price REAL NOT NULL DEFAULT 0,
			image_path TEXT NOT NULL DEFAULT '',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		)`)
	}},
	{12, func(tx *sql.Tx) error {
		return addColumn(tx, "gear_items", "stock", "INTEGER NOT NULL DEFAULT 0")
	}},
	{13, func(tx *sql.Tx) error {
		if err := createTable(tx, `CREATE TABLE IF NOT EXISTS wallet_transactions (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			type TEXT NOT NULL,
			amount REAL NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`); err != nil {
			return err
		}
		return createTable(tx, `CREATE INDEX IF NOT EXISTS idx_wallet_user ON wallet_transactions(user_id)`)
	}},
	{14, func(tx *sql.Tx) error {
		return addColumn(tx, "purchases", "order_confirmation", "TEXT NOT NULL DEFAULT ''")
	}},
	{15, func(tx *sql.Tx) error {
		if err := createTable(tx, `CREATE TABLE IF NOT EXISTS invoices (
			invoice_number TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			order_reference TEXT NOT NULL DEFAULT '',
			amount REAL NOT NULL DEFAULT 0,
			issued_at DATETIME NOT NULL
		)`); err != nil {
			return err
		}
		return createTable(tx, `CREATE INDEX IF NOT EXISTS idx_invoices_user_product ON invoices(user_id, product_id)`)
	}},
	{16, nil},
	{17, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS review_reactions (
			review_id INTEGER NOT NULL,
			user_id TEXT NOT NULL,
			user_name TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL,
			reacted_at DATETIME NOT NULL,
			PRIMARY KEY (review_id, user_id)
		)`)
	}},
	{18, func(tx *sql.Tx) error {
		return addColumn(tx, "reviews", "parent_review_id", "INTEGER NOT NULL DEFAULT 0")
	}},
	{19, func(tx *sql.Tx) error {
		if err := createTable(tx, `CREATE TABLE IF NOT EXISTS notifications (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			body TEXT NOT NULL DEFAULT '',
			read INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL
		)`); err != nil {
			return err
		}
		return createTable(tx, `CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id)`)
	}},
	{20, func(tx *sql.Tx) error {
		return addColumn(tx, "books", "installment_months", "INTEGER NOT NULL DEFAULT 0")
	}},
	{21, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS search_entries (
			user_id TEXT NOT NULL,
			query TEXT NOT NULL,
			searched_at DATETIME NOT NULL,
			PRIMARY KEY (user_id, query)
		)`)
	}},
	{22, func(tx *sql.Tx) error {
		return addColumn(tx, "courses", "seats", "INTEGER NOT NULL DEFAULT 0")
	}},
	// payment_note carried free-text card details in early builds and
	// had to be purged from the schema, not just the rows.
	{23, func(tx *sql.Tx) error {
		if err := rebuildTable(tx, "purchases", `CREATE TABLE purchases_new (
			purchase_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			wallet_amount REAL NOT NULL DEFAULT 0,
			external_amount REAL NOT NULL DEFAULT 0,
			quantity INTEGER NOT NULL DEFAULT 1,
			order_confirmation TEXT NOT NULL DEFAULT '',
			purchased_at DATETIME NOT NULL
		)`, []string{"purchase_id", "user_id", "product_id", "wallet_amount", "external_amount", "quantity", "order_confirmation", "purchased_at"}); err != nil {
			return err
		}
		return createTable(tx, `CREATE INDEX IF NOT EXISTS idx_purchases_user_product ON purchases(user_id, product_id)`)
	}},
	{24, func(tx *sql.Tx) error {
		if err := createTable(tx, `CREATE TABLE IF NOT EXISTS enrollment_applications (
			id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			course_id TEXT NOT NULL,
			status TEXT NOT NULL,
			motivation TEXT NOT NULL DEFAULT '',
			full_name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			submitted_at DATETIME NOT NULL
		)`); err != nil {
			return err
		}
		return createTable(tx, `CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollment_applications(course_id)`)
	}},
	{25, func(tx *sql.Tx) error {
		return addColumn(tx, "courses", "duration_weeks", "INTEGER NOT NULL DEFAULT 0")
	}},
	{26, nil},
	{27, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE TABLE IF NOT EXISTS installment_plans (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			product_id TEXT NOT NULL,
			monthly_amount REAL NOT NULL DEFAULT 0,
			months_total INTEGER NOT NULL DEFAULT 0,
			months_paid INTEGER NOT NULL DEFAULT 0,
			next_instalment DATETIME NOT NULL,
			UNIQUE (user_id, product_id)
		)`)
	}},
	{28, func(tx *sql.Tx) error {
		return addColumn(tx, "audiobooks", "duration_minutes", "INTEGER NOT NULL DEFAULT 0")
	}},
	{29, func(tx *sql.Tx) error {
		return addColumn(tx, "wallet_transactions", "order_reference", "TEXT NOT NULL DEFAULT ''")
	}},
	{30, nil},
	{31, func(tx *sql.Tx) error {
		return createTable(tx, `CREATE INDEX IF NOT EXISTS idx_reviews_parent ON reviews(parent_review_id)`)
	}},
}

// checkChain verifies the chain is contiguous from baselineVersion+1
// to schemaVersion
func checkChain() error {
	want := baselineVersion + 1
	for _, m := range migrations {
		if m.version != want {
			return fmt.Errorf("migration chain gap: have step %d, want %d", m.version, want)
		}
		want++
	}
	if want != schemaVersion+1 {
		return fmt.Errorf("migration chain ends at %d, want %d", want-1, schemaVersion)
	}
	return nil
}

// migrate brings the store to schemaVersion. Fresh stores are created
// at the latest schema directly. Stores with a version the chain cannot
// reach are destructively reinitialized, which loses data and is logged
// as such.
func migrate(db *sql.DB) error {
	if err := checkChain(); err != nil {
		return err
	}

	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	switch {
	case version == schemaVersion:
		return nil
	case version == 0:
		return inMigrationTx(db, func(tx *sql.Tx) error {
			return createLatestSchema(tx)
		})
	case version < baselineVersion || version > schemaVersion:
		log.Printf("DATA LOSS: no migration path from schema version %d to %d, reinitializing store", version, schemaVersion)
		return inMigrationTx(db, func(tx *sql.Tx) error {
			for _, table := range allTables {
				if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
					return fmt.Errorf("drop %s: %w", table, err)
				}
			}
			return createLatestSchema(tx)
		})
	default:
		log.Printf("migrating store from schema version %d to %d", version, schemaVersion)
		return inMigrationTx(db, func(tx *sql.Tx) error {
			for _, m := range migrations {
				if m.version <= version {
					continue
				}
				if m.apply == nil {
					continue
				}
				if err := m.apply(tx); err != nil {
					return fmt.Errorf("migration to version %d: %w", m.version, err)
				}
			}
			return nil
		})
	}
}

// inMigrationTx runs fn in a transaction and stamps user_version on
// success. The stamp is part of the same transaction, so a failed
// upgrade leaves the recorded version untouched.
func inMigrationTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if _, err := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", schemaVersion)); err != nil {
		return fmt.Errorf("stamp user_version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}
	return nil
}

// addColumn adds a column with its default; existing rows receive the
// default value.
func addColumn(tx *sql.Tx, table, column, definition string) error {
	_, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", table, column, definition))
	if err != nil {
		// Rerunning an applied chain must stay idempotent for
		// additive steps, matching table creation.
		if strings.Contains(err.Error(), "duplicate column name") {
			return nil
		}
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

// createTable executes idempotent DDL (CREATE ... IF NOT EXISTS)
func createTable(tx *sql.Tx, ddl string) error {
	if _, err := tx.Exec(ddl); err != nil {
		return fmt.Errorf("create table: %w", err)
	}
	return nil
}

// rebuildTable replaces table with the shape declared by shadowDDL
// (which must create <table>_new), copying only the surviving columns.
// Runs inside the migration transaction, so a reader can never observe
// the intermediate shadow state.
func rebuildTable(tx *sql.Tx, table, shadowDDL string, columns []string) error {
	if _, err := tx.Exec(shadowDDL); err != nil {
		return fmt.Errorf("create shadow table for %s: %w", table, err)
	}
	cols := strings.Join(columns, ", ")
	copyStmt := fmt.Sprintf("INSERT INTO %s_new (%s) SELECT %s FROM %s", table, cols, cols, table)
	if _, err := tx.Exec(copyStmt); err != nil {
		return fmt.Errorf("copy rows into shadow table for %s: %w", table, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("DROP TABLE %s", table)); err != nil {
		return fmt.Errorf("drop old table %s: %w", table, err)
	}
	if _, err := tx.Exec(fmt.Sprintf("ALTER TABLE %s_new RENAME TO %s", table, table)); err != nil {
		return fmt.Errorf("rename shadow table for %s: %w", table, err)
	}
	return nil
}
