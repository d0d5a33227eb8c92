package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"campusmart/internal/domain"
	"campusmart/internal/repository"
)

var _ repository.Repository = (*Repository)(nil)

// Notifier receives table-change notifications after commits. The
// service layer's event bus satisfies this.
type Notifier interface {
	TableChanged(tables ...string)
}

type noopNotifier struct{}

func (noopNotifier) TableChanged(...string) {}

// Repository implements repository.Repository using SQLite
type Repository struct {
	db           *sql.DB
	notify       Notifier
	locks        *keyLocks
	logRetention int
}

// Option configures a Repository
type Option func(*Repository)

// WithNotifier wires change notifications into the given bus
func WithNotifier(n Notifier) Option {
	return func(r *Repository) {
		if n != nil {
			r.notify = n
		}
	}
}

// WithLogRetention overrides the number of audit rows kept per log
// type. Values below 1 are ignored and the default cap stays.
func WithLogRetention(n int) Option {
	return func(r *Repository) {
		if n > 0 {
			r.logRetention = n
		}
	}
}

// New opens the database at dbPath and brings its schema up to date,
// running the full migration chain if the stored version is behind.
func New(dbPath string, opts ...Option) (*Repository, error) {
	dsn := dbPath
	if dbPath != ":memory:" {
		dsn += "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// The transactional operations rely on single-connection semantics
	// for their key-level serialization.
	db.SetMaxOpenConns(1)

	repo := &Repository{
		db:           db,
		notify:       noopNotifier{},
		locks:        newKeyLocks(),
		logRetention: domain.LogRetentionCap,
	}
	for _, opt := range opts {
		opt(repo)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return repo, nil
}

// SchemaVersion returns the store's recorded schema version
func (r *Repository) SchemaVersion(ctx context.Context) (int, error) {
	var v int
	if err := r.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&v); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return v, nil
}

// inTx runs fn inside a transaction, rolling back on error
func (r *Repository) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}
