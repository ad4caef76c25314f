// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the HTTP handlers for the Growth Hub site.
// Handlers are grouped by concern (admin, public, auth) and receive
// their dependencies through the handler struct.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"growthhub/internal/cache"
	"growthhub/internal/middleware"
	"growthhub/internal/models"
	"growthhub/internal/render"
	"growthhub/internal/slug"
	"growthhub/internal/store"
)

// Admin groups the back-office HTTP handlers: dashboard, post CRUD,
// comment moderation, and the newsletter subscriber list.
type Admin struct {
	renderer      *render.Renderer
	posts         *store.PostStore
	categories    *store.CategoryStore
	comments      *store.CommentStore
	subscriptions *store.SubscriptionStore
	stats         *store.StatsStore
	pages         *cache.PageCache
}

// NewAdmin creates a new Admin handler group. pages may be nil when
// Valkey is not configured.
func NewAdmin(
	renderer *render.Renderer,
	posts *store.PostStore,
	categories *store.CategoryStore,
	comments *store.CommentStore,
	subscriptions *store.SubscriptionStore,
	stats *store.StatsStore,
	pages *cache.PageCache,
) *Admin {
	return &Admin{
		renderer:      renderer,
		posts:         posts,
		categories:    categories,
		comments:      comments,
		subscriptions: subscriptions,
		stats:         stats,
		pages:         pages,
	}
}

// Dashboard renders the admin dashboard with content and engagement
// counters.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	stats := a.stats.Stats(r.Context())

	a.renderer.Page(w, r, "admin/dashboard", &render.PageData{
		Title:   "Dashboard",
		Section: "dashboard",
		Data:    map[string]any{"Stats": stats},
	})
}

// --- Posts ---

// PostsList renders the post management table, drafts included.
func (a *Admin) PostsList(w http.ResponseWriter, r *http.Request) {
	posts, err := a.posts.ListAll(r.Context())
	if err != nil {
		slog.Error("admin posts listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/posts", &render.PageData{
		Title:   "Posts",
		Section: "posts",
		Data:    map[string]any{"Posts": posts},
	})
}

// PostNew renders the empty post editor.
func (a *Admin) PostNew(w http.ResponseWriter, r *http.Request) {
	categories, err := a.categories.List(r.Context())
	if err != nil {
		slog.Error("categories for editor failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/post_form", &render.PageData{
		Title:   "New Post",
		Section: "posts",
		Data:    map[string]any{"Categories": categories},
	})
}

// PostCreate handles the new-post form. The signed-in account becomes
// the author, and a blank slug is generated from the title.
func (a *Admin) PostCreate(w http.ResponseWriter, r *http.Request) {
	form, errMsg := a.parsePostForm(r)
	if errMsg != "" {
		a.editorError(w, r, nil, errMsg)
		return
	}

	account := middleware.AdminFromCtx(r.Context())
	if account == nil {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	postSlug := form.Slug
	if postSlug == "" {
		postSlug = slug.Generate(form.Title)
	}

	post := &models.Post{
		Title:       form.Title,
		Slug:        postSlug,
		Content:     form.Content,
		AuthorName:  account.Name,
		AuthorEmail: &account.Email,
		IsPublished: r.FormValue("is_published") == "true",
		IsFeatured:  r.FormValue("is_featured") == "true",
	}
	post.Excerpt = optional(form.Excerpt)
	post.FeaturedImageURL = optional(form.FeaturedImage)
	post.MetaTitle = optional(form.MetaTitle)
	post.MetaDescription = optional(form.MetaDescription)
	post.CategoryID = parseCategoryID(r.FormValue("category_id"))

	if _, err := a.posts.Create(r.Context(), post); err != nil {
		slog.Error("post create failed", "error", err)
		a.editorError(w, r, post, "Failed to create the post. The slug may already exist.")
		return
	}

	a.invalidateListings(r)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostEdit renders the editor prefilled with an existing post.
func (a *Admin) PostEdit(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	post, err := a.posts.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("post lookup failed", "post_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	categories, err := a.categories.List(r.Context())
	if err != nil {
		slog.Error("categories for editor failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/post_form", &render.PageData{
		Title:   "Edit Post",
		Section: "posts",
		Data: map[string]any{
			"Post":       post,
			"Categories": categories,
		},
	})
}

// PostUpdate handles the edit form. Every editable column is written;
// publishing for the first time stamps published_at, and re-publishing
// keeps the original date.
func (a *Admin) PostUpdate(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	existing, err := a.posts.FindByID(r.Context(), id)
	if err != nil {
		slog.Error("post lookup failed", "post_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if existing == nil {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	form, errMsg := a.parsePostForm(r)
	if errMsg != "" {
		a.editorError(w, r, existing, errMsg)
		return
	}

	postSlug := form.Slug
	if postSlug == "" {
		postSlug = slug.Generate(form.Title)
	}
	published := r.FormValue("is_published") == "true"
	featured := r.FormValue("is_featured") == "true"

	// Blank values clear their columns on a full-form save.
	var catID int64
	if id := parseCategoryID(r.FormValue("category_id")); id != nil {
		catID = *id
	}

	patch := &models.PostPatch{
		Title:            &form.Title,
		Slug:             &postSlug,
		Excerpt:          &form.Excerpt,
		Content:          &form.Content,
		FeaturedImageURL: &form.FeaturedImage,
		CategoryID:       &catID,
		IsPublished:      &published,
		IsFeatured:       &featured,
		MetaTitle:        &form.MetaTitle,
		MetaDescription:  &form.MetaDescription,
	}

	if _, err := a.posts.Update(r.Context(), id, patch); err != nil {
		slog.Error("post update failed", "post_id", id, "error", err)
		a.editorError(w, r, existing, "Failed to update the post. The slug may already exist.")
		return
	}

	a.invalidateListings(r)
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// PostDelete removes a post along with its comments and likes.
func (a *Admin) PostDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := a.posts.Delete(r.Context(), id); err != nil {
		slog.Error("post delete failed", "post_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.invalidateListings(r)

	if r.Header.Get("HX-Request") == "true" {
		// The row swaps out with an empty fragment.
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/posts", http.StatusSeeOther)
}

// parsePostForm reads and validates the shared post editor fields.
func (a *Admin) parsePostForm(r *http.Request) (*PostForm, string) {
	form := &PostForm{
		Title:           strings.TrimSpace(r.FormValue("title")),
		Slug:            strings.TrimSpace(r.FormValue("slug")),
		Excerpt:         strings.TrimSpace(r.FormValue("excerpt")),
		Content:         r.FormValue("content"),
		FeaturedImage:   strings.TrimSpace(r.FormValue("featured_image_url")),
		MetaTitle:       strings.TrimSpace(r.FormValue("meta_title")),
		MetaDescription: strings.TrimSpace(r.FormValue("meta_description")),
	}
	if err := validate.Struct(form); err != nil {
		return nil, formError(err)
	}
	return form, ""
}

// editorError re-renders the editor with an error message, keeping the
// post under edit (nil for the new-post form).
func (a *Admin) editorError(w http.ResponseWriter, r *http.Request, post *models.Post, msg string) {
	categories, err := a.categories.List(r.Context())
	if err != nil {
		slog.Error("categories for editor failed", "error", err)
	}

	data := map[string]any{
		"Categories": categories,
		"Error":      msg,
	}
	if post != nil {
		data["Post"] = post
	}

	a.renderer.Page(w, r, "admin/post_form", &render.PageData{
		Title:   "Post",
		Section: "posts",
		Data:    data,
	})
}

// invalidateListings clears every cached public page. Post writes can
// affect the homepage, the posts listing, and any category page.
func (a *Admin) invalidateListings(r *http.Request) {
	if a.pages == nil {
		return
	}
	a.pages.InvalidateAll(r.Context())
}

// --- Comment moderation ---

// CommentsList renders all comments, newest first, pending and approved
// alike.
func (a *Admin) CommentsList(w http.ResponseWriter, r *http.Request) {
	comments, err := a.comments.ListForAdmin(r.Context())
	if err != nil {
		slog.Error("admin comments listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/comments", &render.PageData{
		Title:   "Comments",
		Section: "comments",
		Data:    map[string]any{"Comments": comments},
	})
}

// CommentApprove makes a comment publicly visible.
func (a *Admin) CommentApprove(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, true)
}

// CommentReject hides a comment from the public site again.
func (a *Admin) CommentReject(w http.ResponseWriter, r *http.Request) {
	a.moderateComment(w, r, false)
}

func (a *Admin) moderateComment(w http.ResponseWriter, r *http.Request, approved bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := a.comments.SetApproval(r.Context(), id, approved); err != nil {
		slog.Error("comment moderation failed", "comment_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", "/admin/comments")
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/comments", http.StatusSeeOther)
}

// CommentDelete removes a comment permanently.
func (a *Admin) CommentDelete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	if err := a.comments.Delete(r.Context(), id); err != nil {
		slog.Error("comment delete failed", "comment_id", id, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if r.Header.Get("HX-Request") == "true" {
		// The card swaps out with an empty fragment.
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, "/admin/comments", http.StatusSeeOther)
}

// --- Newsletter ---

// Subscribers renders the newsletter subscriber list.
func (a *Admin) Subscribers(w http.ResponseWriter, r *http.Request) {
	subscriptions, err := a.subscriptions.ListAll(r.Context())
	if err != nil {
		slog.Error("subscriber listing failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	a.renderer.Page(w, r, "admin/newsletter", &render.PageData{
		Title:   "Newsletter",
		Section: "newsletter",
		Data:    map[string]any{"Subscriptions": subscriptions},
	})
}

// optional returns nil for blank form values so they store as NULL.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseCategoryID converts the category select value, where blank means
// uncategorized.
func parseCategoryID(v string) *int64 {
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return nil
	}
	return &id
}
