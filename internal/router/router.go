// Package router sets up all HTTP routes and middleware chains for the
// Growth Hub site. It organizes routes into public and admin groups with
// appropriate middleware stacks.
package router

import (
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"

	"growthhub/internal/handlers"
	"growthhub/internal/middleware"
	"growthhub/internal/session"
	"growthhub/web"
)

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter throttles the public write endpoints;
// secure controls the CSRF cookie flag.
func New(
	sessionStore *session.Store,
	admins middleware.AdminLookup,
	admin *handlers.Admin,
	auth *handlers.Auth,
	public *handlers.Public,
	limiter *middleware.RateLimiter,
	secure bool,
) chi.Router {
	r := chi.NewRouter()

	// Global middleware — applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	// Health check — no auth, no CSRF.
	r.Get("/health", healthHandler)

	// Compiled CSS and vendored JS.
	staticFS, err := fs.Sub(web.StaticFS, "static")
	if err == nil {
		r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))
	}

	// Admin routes — session-backed, CSRF-protected.
	r.Route("/admin", func(r chi.Router) {
		r.Use(middleware.LoadSession(sessionStore))
		r.Use(middleware.NewCSRF(secure))

		// Auth pages — accessible without a session.
		r.Get("/login", auth.LoginPage)
		r.Post("/login", auth.LoginSubmit)
		r.Get("/signup", auth.SignupPage)
		r.Post("/signup", auth.SignupSubmit)
		r.Post("/logout", auth.Logout)

		// 2FA — requires auth but NOT completed 2FA.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Get("/2fa/setup", auth.TwoFASetupPage)
			r.Post("/2fa/setup", auth.TwoFASetupSubmit)
			r.Get("/2fa/verify", auth.TwoFAVerifyPage)
			r.Post("/2fa/verify", auth.TwoFAVerifySubmit)
		})

		// Authenticated, 2FA-verified back office. RequireAdmin re-checks
		// the account against the database on every request.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAuth)
			r.Use(middleware.Require2FA)
			r.Use(middleware.RequireAdmin(admins))

			r.Get("/", admin.Dashboard)

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", admin.PostsList)
				r.Get("/new", admin.PostNew)
				r.Post("/", admin.PostCreate)
				r.Get("/{id}", admin.PostEdit)
				r.Post("/{id}", admin.PostUpdate)
				r.Delete("/{id}", admin.PostDelete)
			})

			r.Route("/comments", func(r chi.Router) {
				r.Get("/", admin.CommentsList)
				r.Post("/{id}/approve", admin.CommentApprove)
				r.Post("/{id}/reject", admin.CommentReject)
				r.Delete("/{id}", admin.CommentDelete)
			})

			r.Get("/newsletter", admin.Subscribers)
		})
	})

	// Anonymous write endpoints and search — rate limited per client IP.
	// Search joins the group because it is uncached and hits the database
	// on every request.
	r.Group(func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Post("/api/posts/{id}/comments", public.CreateComment)
		r.Post("/api/posts/{id}/like", public.ToggleLike)
		r.Post("/api/newsletter", public.Subscribe)
		r.Get("/search", public.Search)
	})

	// Public pages.
	r.Get("/", public.Home)
	r.Get("/posts", public.Posts)
	r.Get("/posts/{slug}", public.Post)
	r.Get("/category/{slug}", public.Category)

	r.NotFound(public.NotFound)

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
