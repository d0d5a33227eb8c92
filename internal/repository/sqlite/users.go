package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"campusmart/internal/domain"
	"campusmart/internal/service"
)

const userColumns = "id, name, email, role, password_hash, balance, discount_pct, avatar_path, created_at, updated_at"

// UpsertUser inserts or replaces a user by ID
func (r *Repository) UpsertUser(ctx context.Context, u *domain.User) error {
	if err := u.Validate(); err != nil {
		return err
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			email = excluded.email,
			role = excluded.role,
			password_hash = excluded.password_hash,
			balance = excluded.balance,
			discount_pct = excluded.discount_pct,
			avatar_path = excluded.avatar_path,
			updated_at = excluded.updated_at
	`, u.ID, u.Name, u.Email, string(u.Role), u.PasswordHash, u.Balance, u.DiscountPct, u.AvatarPath, u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert user: %w", err)
	}
	r.notify.TableChanged(service.TopicUsers)
	return nil
}

func scanUser(row interface{ Scan(...any) error }) (*domain.User, error) {
	var u domain.User
	var role string
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &role, &u.PasswordHash, &u.Balance, &u.DiscountPct, &u.AvatarPath, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	return &u, nil
}

// GetUser returns a user by ID, or nil when absent
func (r *Repository) GetUser(ctx context.Context, id string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	return u, nil
}

// GetUserByEmail returns a user by email, or nil when absent
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, "SELECT "+userColumns+" FROM users WHERE email = ?", email))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query user by email: %w", err)
	}
	return u, nil
}

// ListUsers returns all users ordered by creation time
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}
