package handlers

import (
	"encoding/base64"
	"log/slog"
	"net/http"
	"strings"

	"github.com/pquerna/otp/totp"
	qrcode "github.com/skip2/go-qrcode"

	"growthhub/internal/middleware"
	"growthhub/internal/models"
	"growthhub/internal/render"
	"growthhub/internal/session"
	"growthhub/internal/store"
)

// totpIssuer labels enrollments in authenticator apps.
const totpIssuer = "Growth Hub"

// Auth groups all authentication-related HTTP handlers.
type Auth struct {
	renderer *render.Renderer
	sessions *session.Store
	admins   *store.AdminStore
}

// NewAuth creates a new Auth handler group.
func NewAuth(renderer *render.Renderer, sessions *session.Store, admins *store.AdminStore) *Auth {
	return &Auth{
		renderer: renderer,
		sessions: sessions,
		admins:   admins,
	}
}

// LoginPage renders the login form.
func (a *Auth) LoginPage(w http.ResponseWriter, r *http.Request) {
	// If already logged in with 2FA complete, redirect to dashboard.
	sess := middleware.SessionFromCtx(r.Context())
	if sess != nil && sess.TwoFADone {
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "admin/login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{},
	})
}

// LoginSubmit processes the login form. A missing account, a deactivated
// account, and a wrong password all produce the same error message.
func (a *Auth) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	form := LoginForm{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		a.loginError(w, r, "Invalid email or password.")
		return
	}

	user, err := a.admins.FindActiveByEmail(r.Context(), form.Email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		a.loginError(w, r, "An unexpected error occurred.")
		return
	}

	if user == nil || !a.admins.CheckPassword(user, form.Password) {
		a.loginError(w, r, "Invalid email or password.")
		return
	}

	if err := a.admins.StampLastLogin(r.Context(), user.ID); err != nil {
		slog.Warn("last login stamp failed", "user_id", user.ID, "error", err)
	}

	// Create a session. TwoFADone starts as false — user must complete 2FA.
	_, err = a.sessions.Create(r.Context(), w, &session.Data{
		UserID:      user.ID,
		Email:       user.Email,
		DisplayName: user.Name,
		Role:        string(user.Role),
		TwoFADone:   false,
	})
	if err != nil {
		slog.Error("session create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Route based on 2FA status:
	// - Not set up yet → go to setup page
	// - Already set up → go to verification page
	if user.Needs2FASetup() {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
	} else {
		http.Redirect(w, r, "/admin/2fa/verify", http.StatusSeeOther)
	}
}

func (a *Auth) loginError(w http.ResponseWriter, r *http.Request, msg string) {
	a.renderer.Page(w, r, "admin/login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Error": msg},
	})
}

// SignupPage renders the account request form.
func (a *Auth) SignupPage(w http.ResponseWriter, r *http.Request) {
	a.renderer.Page(w, r, "admin/signup", &render.PageData{
		Title: "Create Account",
		Data:  map[string]any{},
	})
}

// SignupSubmit creates a new editor account. The account cannot sign in
// until an existing administrator activates it, so self-registration
// grants nothing by itself.
func (a *Auth) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	form := SignupForm{
		Name:     strings.TrimSpace(r.FormValue("name")),
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	if err := validate.Struct(form); err != nil {
		a.renderer.Page(w, r, "admin/signup", &render.PageData{
			Title: "Create Account",
			Data:  map[string]any{"Error": formError(err)},
		})
		return
	}

	existing, err := a.admins.FindByEmail(r.Context(), form.Email)
	if err != nil {
		slog.Error("signup lookup failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if existing != nil {
		a.renderer.Page(w, r, "admin/signup", &render.PageData{
			Title: "Create Account",
			Data:  map[string]any{"Error": "An account with that email already exists."},
		})
		return
	}

	// New accounts start inactive until an admin flips is_active.
	if _, err := a.admins.Create(r.Context(), form.Email, form.Password, form.Name, models.RoleEditor, false); err != nil {
		slog.Error("signup create failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/login", &render.PageData{
		Title: "Sign In",
		Data:  map[string]any{"Error": "Account created. An administrator must activate it before you can sign in."},
	})
}

// TwoFASetupPage generates a TOTP secret and displays the QR code.
func (a *Auth) TwoFASetupPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	// Generate a new TOTP key.
	key, err := totp.Generate(totp.GenerateOpts{
		Issuer:      totpIssuer,
		AccountName: sess.Email,
	})
	if err != nil {
		slog.Error("totp generate failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	// Save the secret to the database.
	if err := a.admins.SetTOTPSecret(r.Context(), sess.UserID, key.Secret()); err != nil {
		slog.Error("save totp secret failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.render2FASetup(w, r, key.URL(), key.Secret(), "")
}

// TwoFASetupSubmit validates the first code against the stored secret and
// enables TOTP for the account.
func (a *Auth) TwoFASetupSubmit(w http.ResponseWriter, r *http.Request) {
	a.verifyCode(w, r, true)
}

// TwoFAVerifyPage renders the 2FA code entry form (for users who already
// have 2FA set up).
func (a *Auth) TwoFAVerifyPage(w http.ResponseWriter, r *http.Request) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	a.renderer.Page(w, r, "admin/2fa_verify", &render.PageData{
		Title: "Two-Factor Authentication",
		Data:  map[string]any{},
	})
}

// TwoFAVerifySubmit validates the TOTP code and completes authentication.
func (a *Auth) TwoFAVerifySubmit(w http.ResponseWriter, r *http.Request) {
	a.verifyCode(w, r, false)
}

// verifyCode is the shared body of the setup and verify submits. During
// setup a valid code additionally flips totp_enabled.
func (a *Auth) verifyCode(w http.ResponseWriter, r *http.Request, setup bool) {
	sess := middleware.SessionFromCtx(r.Context())
	if sess == nil {
		http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
		return
	}

	code := strings.TrimSpace(r.FormValue("code"))

	user, err := a.admins.FindByEmail(r.Context(), sess.Email)
	if err != nil || user == nil {
		slog.Error("user lookup for 2fa failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if user.TOTPSecret == nil {
		http.Redirect(w, r, "/admin/2fa/setup", http.StatusSeeOther)
		return
	}

	if !totp.Validate(code, *user.TOTPSecret) {
		if setup || !user.TOTPEnabled {
			url := totpURL(user.Email, *user.TOTPSecret)
			a.render2FASetup(w, r, url, *user.TOTPSecret, "Invalid code. Please try again.")
			return
		}

		a.renderer.Page(w, r, "admin/2fa_verify", &render.PageData{
			Title: "Two-Factor Authentication",
			Data:  map[string]any{"Error": "Invalid code. Please try again."},
		})
		return
	}

	// If this is the first-time setup, enable TOTP in the database.
	if !user.TOTPEnabled {
		if err := a.admins.EnableTOTP(r.Context(), user.ID); err != nil {
			slog.Error("enable totp failed", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	// Mark 2FA as complete in the session.
	sess.TwoFADone = true
	if err := a.sessions.Update(r.Context(), r, sess); err != nil {
		slog.Error("session update failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// render2FASetup renders the setup page with a QR code for the given
// otpauth URL.
func (a *Auth) render2FASetup(w http.ResponseWriter, r *http.Request, url, secret, errMsg string) {
	qrPNG, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		slog.Error("qr code generation failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	data := map[string]any{
		"QRCode": "data:image/png;base64," + base64.StdEncoding.EncodeToString(qrPNG),
		"Secret": secret,
	}
	if errMsg != "" {
		data["Error"] = errMsg
	}

	a.renderer.Page(w, r, "admin/2fa_setup", &render.PageData{
		Title: "Set Up Two-Factor Authentication",
		Data:  data,
	})
}

// totpURL rebuilds the otpauth enrollment URL for an existing secret.
func totpURL(email, secret string) string {
	return "otpauth://totp/" + totpIssuer + ":" + email +
		"?secret=" + secret + "&issuer=" + totpIssuer
}

// Logout destroys the session and redirects to the login page.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	a.sessions.Destroy(r.Context(), w, r)
	http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
}
