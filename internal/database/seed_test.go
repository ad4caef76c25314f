package database

import (
	"testing"
)

func TestSeedIdempotent(t *testing.T) {
	db, err := Connect(testDSN())
	if err != nil {
		t.Skipf("skipping: DB not available: %v", err)
	}
	defer db.Close()

	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate: %v", err)
	}

	// Seed creates data only when admin_users is empty, so calling it
	// twice must not error or duplicate anything.
	if err := Seed(db); err != nil {
		t.Fatalf("first Seed: %v", err)
	}
	if err := Seed(db); err != nil {
		t.Fatalf("second Seed: %v", err)
	}

	var adminCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM admin_users").Scan(&adminCount); err != nil {
		t.Fatalf("count admin users: %v", err)
	}
	if adminCount < 1 {
		t.Errorf("expected at least 1 admin user, got %d", adminCount)
	}
}
