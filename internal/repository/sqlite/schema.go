package sqlite

import "database/sql"

// schemaVersion is the version a fully migrated store reports. The
// migration chain in migrations.go must end exactly here.
const schemaVersion = 31

// latestSchema is the full DDL of the current schema version. Fresh
// stores are created from it directly; migrated stores must converge
// to the same shape.
const latestSchema = `
CREATE TABLE IF NOT EXISTS users (
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
);

CREATE TABLE IF NOT EXISTS books (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	cover_path TEXT NOT NULL DEFAULT '',
	installment_months INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS audiobooks (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	author TEXT NOT NULL DEFAULT '',
	narrator TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	cover_path TEXT NOT NULL DEFAULT '',
	duration_minutes INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS courses (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	teacher_name TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	cover_path TEXT NOT NULL DEFAULT '',
	seats INTEGER NOT NULL DEFAULT 0,
	duration_weeks INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS gear_items (
	id TEXT PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	price REAL NOT NULL DEFAULT 0,
	image_path TEXT NOT NULL DEFAULT '',
	stock INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL,
	updated_at DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS purchases (
	purchase_id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	wallet_amount REAL NOT NULL DEFAULT 0,
	external_amount REAL NOT NULL DEFAULT 0,
	quantity INTEGER NOT NULL DEFAULT 1,
	order_confirmation TEXT NOT NULL DEFAULT '',
	purchased_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_purchases_user_product ON purchases(user_id, product_id);

CREATE TABLE IF NOT EXISTS invoices (
	invoice_number TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	order_reference TEXT NOT NULL DEFAULT '',
	amount REAL NOT NULL DEFAULT 0,
	issued_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_invoices_user_product ON invoices(user_id, product_id);

CREATE TABLE IF NOT EXISTS reviews (
	review_id INTEGER PRIMARY KEY AUTOINCREMENT,
	product_id TEXT NOT NULL,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL DEFAULT '',
	comment TEXT NOT NULL DEFAULT '',
	rating INTEGER NOT NULL DEFAULT 0,
	likes INTEGER NOT NULL DEFAULT 0,
	dislikes INTEGER NOT NULL DEFAULT 0,
	parent_review_id INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reviews_product ON reviews(product_id);
CREATE INDEX IF NOT EXISTS idx_reviews_parent ON reviews(parent_review_id);

CREATE TABLE IF NOT EXISTS review_reactions (
	review_id INTEGER NOT NULL,
	user_id TEXT NOT NULL,
	user_name TEXT NOT NULL DEFAULT '',
	type TEXT NOT NULL,
	reacted_at DATETIME NOT NULL,
	PRIMARY KEY (review_id, user_id)
);

CREATE TABLE IF NOT EXISTS wishlist_items (
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	added_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS history_items (
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	seen_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS search_entries (
	user_id TEXT NOT NULL,
	query TEXT NOT NULL,
	searched_at DATETIME NOT NULL,
	PRIMARY KEY (user_id, query)
);

CREATE TABLE IF NOT EXISTS notifications (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	title TEXT NOT NULL DEFAULT '',
	body TEXT NOT NULL DEFAULT '',
	read INTEGER NOT NULL DEFAULT 0,
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_notifications_user ON notifications(user_id);

CREATE TABLE IF NOT EXISTS enrollment_applications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	course_id TEXT NOT NULL,
	status TEXT NOT NULL,
	motivation TEXT NOT NULL DEFAULT '',
	full_name TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	submitted_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_enrollments_course ON enrollment_applications(course_id);

CREATE TABLE IF NOT EXISTS installment_plans (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id TEXT NOT NULL,
	product_id TEXT NOT NULL,
	monthly_amount REAL NOT NULL DEFAULT 0,
	months_total INTEGER NOT NULL DEFAULT 0,
	months_paid INTEGER NOT NULL DEFAULT 0,
	next_instalment DATETIME NOT NULL,
	UNIQUE (user_id, product_id)
);

CREATE TABLE IF NOT EXISTS wallet_transactions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	type TEXT NOT NULL,
	amount REAL NOT NULL DEFAULT 0,
	order_reference TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_wallet_user ON wallet_transactions(user_id);

CREATE TABLE IF NOT EXISTS system_logs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	log_type TEXT NOT NULL,
	action TEXT NOT NULL,
	actor TEXT NOT NULL DEFAULT '',
	target TEXT NOT NULL DEFAULT '',
	detail TEXT NOT NULL DEFAULT '',
	timestamp DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_system_logs_type_time ON system_logs(log_type, timestamp);
`

// ownedTable names a table whose rows belong to a single user. The
// cascading account delete iterates this registry, so a new user-scoped
// entity family only needs a row here to join the fan-out.
type ownedTable struct {
	name       string
	userColumn string
}

// userOwnedTables is the deletion fan-out for DeleteAccount. Invoices
// are deliberately absent: billing records are immutable and retained.
var userOwnedTables = []ownedTable{
	{"wishlist_items", "user_id"},
	{"history_items", "user_id"},
	{"search_entries", "user_id"},
	{"notifications", "user_id"},
	{"purchases", "user_id"},
	{"installment_plans", "user_id"},
	{"reviews", "user_id"},
	{"review_reactions", "user_id"},
	{"wallet_transactions", "user_id"},
	{"enrollment_applications", "user_id"},
}

// allTables lists every table of the current schema, used by the
// destructive reinitialization fallback.
var allTables = []string{
	"users", "books", "audiobooks", "courses", "gear_items",
	"purchases", "invoices", "reviews", "review_reactions",
	"wishlist_items", "history_items", "search_entries",
	"notifications", "enrollment_applications", "installment_plans",
	"wallet_transactions", "system_logs",
}

func createLatestSchema(tx *sql.Tx) error {
	_, err := tx.Exec(latestSchema)
	return err
}
