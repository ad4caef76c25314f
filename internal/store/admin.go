// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"growthhub/internal/models"
)

// AdminStore manages back-office accounts.
type AdminStore struct {
	db *sql.DB
}

// NewAdminStore returns a new AdminStore.
func NewAdminStore(db *sql.DB) *AdminStore {
	return &AdminStore{db: db}
}

const adminColumns = `id, email, password_hash, name, role, is_active,
	totp_secret, totp_enabled, last_login, created_at, updated_at`

// scanAdmin scans a row into an AdminUser struct.
func scanAdmin(scanner interface{ Scan(...any) error }) (*models.AdminUser, error) {
	var u models.AdminUser
	err := scanner.Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.Role, &u.IsActive,
		&u.TOTPSecret, &u.TOTPEnabled, &u.LastLogin, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// FindByEmail retrieves an admin account by email regardless of the
// is_active flag. Returns nil if not found.
func (s *AdminStore) FindByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+adminColumns+` FROM admin_users WHERE email = $1`, email)
	u, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find admin by email: %w", err)
	}
	return u, nil
}

// FindActiveByEmail retrieves an admin account that is allowed to use the
// back office. A disabled account and a missing one are indistinguishable
// to the caller: both return nil.
func (s *AdminStore) FindActiveByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+adminColumns+`
		FROM admin_users WHERE email = $1 AND is_active = TRUE`, email)
	u, err := scanAdmin(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find active admin: %w", err)
	}
	return u, nil
}

// Create inserts an admin account with a bcrypt-hashed password. Accounts
// created inactive cannot sign in until an administrator activates them.
func (s *AdminStore) Create(ctx context.Context, email, password, name string, role models.Role, active bool) (*models.AdminUser, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+adminColumns,
		email, string(hash), name, role, active)
	u, err := scanAdmin(row)
	if err != nil {
		return nil, fmt.Errorf("create admin: %w", err)
	}
	return u, nil
}

// CheckPassword reports whether the plaintext password matches the
// account's stored hash.
func (s *AdminStore) CheckPassword(u *models.AdminUser, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// StampLastLogin records a successful sign-in.
func (s *AdminStore) StampLastLogin(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET last_login = NOW(), updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("stamp last login: %w", err)
	}
	return nil
}

// SetTOTPSecret stores a freshly generated TOTP secret. The secret stays
// unverified until EnableTOTP confirms the first code.
func (s *AdminStore) SetTOTPSecret(ctx context.Context, id int64, secret string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admin_users
		SET totp_secret = $1, totp_enabled = FALSE, updated_at = NOW()
		WHERE id = $2`, secret, id)
	if err != nil {
		return fmt.Errorf("set totp secret: %w", err)
	}
	return nil
}

// EnableTOTP marks the account's TOTP enrollment as verified.
func (s *AdminStore) EnableTOTP(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE admin_users SET totp_enabled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("enable totp: %w", err)
	}
	return nil
}

// CountAll returns the number of admin accounts, active or not.
func (s *AdminStore) CountAll(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_users`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count admins: %w", err)
	}
	return count, nil
}
