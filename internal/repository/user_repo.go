package repository

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"

	"optivolt/internal/db"
	apperrors "optivolt/internal/errors"
)

type UserRepository interface {
	Create(u *db.User, password string) error
	GetByID(id int) (*db.User, error)
	// GetByEmail returns (nil, nil) when no user exists for the email.
	GetByEmail(email string) (*db.User, error)
	SetBanned(id int, banned bool) (bool, error)
}

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(database *sql.DB) UserRepository {
	return &userRepository{db: database}
}

func (r *userRepository) Create(u *db.User, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	query := `
		INSERT INTO users (name, email, password_hash, phone, city, address, role, is_banned)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE)
		RETURNING id, created_at`
	err = r.db.QueryRow(query,
		u.Name, u.Email, string(hashed), u.Phone, u.City, u.Address, u.Role,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return fmt.Errorf("email %s already registered: %w", u.Email, apperrors.ErrConflict)
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

const userSelect = `
	SELECT id, name, email, password_hash, COALESCE(phone, ''), COALESCE(city, ''),
	       COALESCE(address, ''), role, is_banned, created_at
	FROM users`

func (r *userRepository) GetByID(id int) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(userSelect+` WHERE id = $1`, id).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.City,
		&u.Address, &u.Role, &u.IsBanned, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("user %d: %w", id, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

func (r *userRepository) GetByEmail(email string) (*db.User, error) {
	var u db.User
	err := r.db.QueryRow(userSelect+` WHERE email = $1`, email).Scan(
		&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Phone, &u.City,
		&u.Address, &u.Role, &u.IsBanned, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by email: %w", err)
	}
	return &u, nil
}

func (r *userRepository) SetBanned(id int, banned bool) (bool, error) {
	res, err := r.db.Exec(`UPDATE users SET is_banned = $1 WHERE id = $2`, banned, id)
	return changedRows(res, err, "set user banned")
}
