package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"golang.org/x/crypto/bcrypt"
)

// Seed populates the database with initial development data: a default
// admin account, a couple of categories, and a published welcome post.
// It is a no-op when data already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM admin_users").Scan(&count); err != nil {
		return fmt.Errorf("seed check admin_users: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte("admin"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("seed bcrypt: %w", err)
	}

	// Default admin. 2FA is not enabled — they may set it up on first login.
	_, err = db.Exec(`
		INSERT INTO admin_users (email, password_hash, name, role, is_active)
		VALUES ($1, $2, $3, $4, TRUE)
	`, "admin@growthhub.local", string(hash), "Admin", "admin")
	if err != nil {
		return fmt.Errorf("seed insert admin: %w", err)
	}

	var growthID int64
	err = db.QueryRow(`
		INSERT INTO categories (name, slug, description, color)
		VALUES ('Growth', 'growth', 'Strategies and experiments for growing your audience.', '#10b981')
		RETURNING id
	`).Scan(&growthID)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO categories (name, slug, description, color)
		VALUES ('Engineering', 'engineering', 'Technical deep dives from the team.', '#6366f1')
	`)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	_, err = db.Exec(`
		INSERT INTO posts (title, slug, excerpt, content, category_id, author_name,
		                   is_published, is_featured, reading_time, published_at)
		VALUES ('Welcome to Growth Hub', 'welcome-to-growth-hub',
		        'Your new home for growth content.',
		        '# Welcome

This is your first post. Head to the admin panel to write your own.',
		        $1, 'Growth Hub Team', TRUE, TRUE, 1, NOW())
	`, growthID)
	if err != nil {
		return fmt.Errorf("seed insert post: %w", err)
	}

	slog.Info("database seeded with default admin user",
		"email", "admin@growthhub.local",
		"password", "admin",
	)

	return nil
}
