// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Role determines what an admin account may do. The back office currently
// only distinguishes active admins from everyone else.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// AdminUser is a back-office account. Public flows never touch this table;
// the only mutation outside account management is the last_login stamp on
// successful sign-in.
type AdminUser struct {
	ID           int64      `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Name         string     `json:"name"`
	Role         Role       `json:"role"`
	IsActive     bool       `json:"is_active"`
	TOTPSecret   *string    `json:"-"`
	TOTPEnabled  bool       `json:"totp_enabled"`
	LastLogin    *time.Time `json:"last_login,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Needs2FASetup reports whether the account must enroll a TOTP secret
// before the sign-in flow can complete.
func (u *AdminUser) Needs2FASetup() bool {
	return u.TOTPSecret == nil || !u.TOTPEnabled
}
