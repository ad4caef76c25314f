package store

import (
	"context"
	"testing"

	"growthhub/internal/models"
)

func TestAdminCreateAndPassword(t *testing.T) {
	db := testDB(t)
	store := NewAdminStore(db)
	ctx := context.Background()

	email := "admin-create@example.com"
	cleanAdmins(t, db, email)
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	created, err := store.Create(ctx, email, "s3cret-pass", "Admin Create", models.RoleAdmin, true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.PasswordHash == "s3cret-pass" {
		t.Error("password must not be stored in plaintext")
	}
	if !created.IsActive {
		t.Error("expected an active account")
	}
	if !created.Needs2FASetup() {
		t.Error("new accounts have no TOTP enrollment yet")
	}

	if !store.CheckPassword(created, "s3cret-pass") {
		t.Error("correct password rejected")
	}
	if store.CheckPassword(created, "wrong-pass") {
		t.Error("wrong password accepted")
	}
}

func TestAdminActiveGate(t *testing.T) {
	db := testDB(t)
	store := NewAdminStore(db)
	ctx := context.Background()

	email := "admin-gate@example.com"
	cleanAdmins(t, db, email)
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	created, err := store.Create(ctx, email, "pass-word", "Gate", models.RoleEditor, true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	active, err := store.FindActiveByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindActiveByEmail failed: %v", err)
	}
	if active == nil {
		t.Fatal("expected the active account")
	}

	if _, err := db.Exec(`UPDATE admin_users SET is_active = FALSE WHERE id = $1`, created.ID); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	// Deactivated looks exactly like missing.
	active, err = store.FindActiveByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindActiveByEmail failed: %v", err)
	}
	if active != nil {
		t.Error("deactivated account should not pass the active gate")
	}

	// But still findable without the gate.
	any, err := store.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if any == nil {
		t.Error("deactivated account should still exist")
	}
}

func TestAdminTOTPEnrollment(t *testing.T) {
	db := testDB(t)
	store := NewAdminStore(db)
	ctx := context.Background()

	email := "admin-totp@example.com"
	cleanAdmins(t, db, email)
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	created, err := store.Create(ctx, email, "pass-word", "Totp", models.RoleAdmin, true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.SetTOTPSecret(ctx, created.ID, "JBSWY3DPEHPK3PXP"); err != nil {
		t.Fatalf("SetTOTPSecret failed: %v", err)
	}
	u, err := store.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if u.TOTPSecret == nil || *u.TOTPSecret != "JBSWY3DPEHPK3PXP" {
		t.Error("expected the stored secret")
	}
	if !u.Needs2FASetup() {
		t.Error("enrollment is incomplete until the first code verifies")
	}

	if err := store.EnableTOTP(ctx, created.ID); err != nil {
		t.Fatalf("EnableTOTP failed: %v", err)
	}
	u, err = store.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if u.Needs2FASetup() {
		t.Error("enrollment should be complete after EnableTOTP")
	}
}

func TestAdminStampLastLogin(t *testing.T) {
	db := testDB(t)
	store := NewAdminStore(db)
	ctx := context.Background()

	email := "admin-login@example.com"
	cleanAdmins(t, db, email)
	t.Cleanup(func() { cleanAdmins(t, db, email) })

	created, err := store.Create(ctx, email, "pass-word", "Login", models.RoleAdmin, true)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.LastLogin != nil {
		t.Error("fresh accounts have no last login")
	}

	if err := store.StampLastLogin(ctx, created.ID); err != nil {
		t.Fatalf("StampLastLogin failed: %v", err)
	}
	u, err := store.FindByEmail(ctx, email)
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if u.LastLogin == nil {
		t.Error("expected last_login to be stamped")
	}
}
