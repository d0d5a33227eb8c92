package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role classifies a user account
type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleTutor   Role = "tutor"
)

// Valid reports whether the role is one of the known values
func (r Role) Valid() bool {
	switch r {
	case RoleStudent, RoleTeacher, RoleAdmin, RoleUser, RoleTutor:
		return true
	}
	return false
}

// User is the root of every user-scoped entity. Deleting a user fans out
// to all tables that reference its ID.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         Role      `json:"role"`
	PasswordHash string    `json:"-"`
	Balance      float64   `json:"balance"`
	DiscountPct  float64   `json:"discount_pct"`
	AvatarPath   string    `json:"avatar_path,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// NewUser creates a user with a client-side generated ID
func NewUser(name, email string, role Role) *User {
	now := time.Now().UTC()
	return &User{
		ID:        uuid.NewString(),
		Name:      name,
		Email:     email,
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetPassword stores a bcrypt hash of the given password
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword verifies a password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// ErrInvalidUser is returned when a user record violates its field contracts
var ErrInvalidUser = errors.New("invalid user")

// Validate checks the user's field contracts
func (u *User) Validate() error {
	if u.ID == "" || u.Email == "" {
		return ErrInvalidUser
	}
	if !u.Role.Valid() {
		return ErrInvalidUser
	}
	if u.Balance < 0 {
		return ErrInvalidUser
	}
	if u.DiscountPct < 0 || u.DiscountPct > 100 {
		return ErrInvalidUser
	}
	return nil
}
