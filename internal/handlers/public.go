// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"

	"growthhub/internal/cache"
	"growthhub/internal/clientip"
	"growthhub/internal/markdown"
	"growthhub/internal/models"
	"growthhub/internal/render"
	"growthhub/internal/store"
)

// recentLimit caps the homepage's latest-posts section.
const recentLimit = 9

// Public groups the visitor-facing HTTP handlers: listings, post pages,
// comments, likes, search, and newsletter signup. It checks the L2 Valkey
// page cache before querying, and stores rendered listings on miss.
type Public struct {
	renderer      *render.Renderer
	posts         *store.PostStore
	categories    *store.CategoryStore
	comments      *store.CommentStore
	likes         *store.LikeStore
	subscriptions *store.SubscriptionStore
	pages         *cache.PageCache
	queryTimeout  time.Duration
}

// NewPublic creates a new Public handler group. pages may be nil when
// Valkey is not configured; caching is then skipped.
func NewPublic(
	renderer *render.Renderer,
	posts *store.PostStore,
	categories *store.CategoryStore,
	comments *store.CommentStore,
	likes *store.LikeStore,
	subscriptions *store.SubscriptionStore,
	pages *cache.PageCache,
	queryTimeout time.Duration,
) *Public {
	return &Public{
		renderer:      renderer,
		posts:         posts,
		categories:    categories,
		comments:      comments,
		likes:         likes,
		subscriptions: subscriptions,
		pages:         pages,
		queryTimeout:  queryTimeout,
	}
}

// Home renders the homepage: up to six featured posts, the latest nine
// published posts, and the category list.
func (p *Public) Home(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r, cache.HomepageKey()) {
		return
	}

	ctx := r.Context()

	featured, err := p.posts.ListFeatured(ctx)
	if err != nil {
		slog.Error("homepage featured query failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	recent, err := p.posts.ListPublished(ctx, recentLimit)
	if err != nil {
		slog.Error("homepage recent query failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	categories, err := p.categories.List(ctx)
	if err != nil {
		slog.Error("homepage categories query failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderAndCache(w, r, cache.HomepageKey(), "public/home", &render.PageData{
		Data: map[string]any{
			"Featured":   featured,
			"Recent":     recent,
			"Categories": categories,
		},
	})
}

// Posts renders the full listing of published posts.
func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	if p.serveCached(w, r, cache.PostsKey()) {
		return
	}

	ctx := r.Context()

	posts, err := p.posts.ListPublished(ctx, 0)
	if err != nil {
		slog.Error("posts listing query failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	categories, err := p.categories.List(ctx)
	if err != nil {
		slog.Error("posts categories query failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderAndCache(w, r, cache.PostsKey(), "public/posts", &render.PageData{
		Title: "All Posts",
		Data: map[string]any{
			"Posts":      posts,
			"Categories": categories,
		},
	})
}

// Post renders a single published post with its approved comments and
// like status. The view counter bumps in the background; its failure
// never affects the page. Post pages are not cached: the like state is
// per-visitor.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	post, err := p.posts.FindBySlug(ctx, slug)
	if err != nil {
		slog.Error("post lookup failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil {
		p.notFound(w, r)
		return
	}

	// Fire-and-forget view tracking, detached from the request context
	// so a canceled request doesn't lose the count.
	go func(id int64) {
		ctx, cancel := context.WithTimeout(context.Background(), p.queryTimeout)
		defer cancel()
		if err := p.posts.IncrementView(ctx, id); err != nil {
			slog.Warn("view increment failed", "post_id", id, "error", err)
		}
	}(post.ID)

	contentHTML, err := markdown.ToHTML(post.Content)
	if err != nil {
		slog.Error("markdown render failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	comments, err := p.comments.ListApproved(ctx, post.ID)
	if err != nil {
		slog.Error("comments query failed", "post_id", post.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	ip := clientip.FromRequest(r)
	likeStatus := p.likes.Status(ctx, post.ID, ip, r.UserAgent())

	meta := ""
	if post.MetaDescription != nil {
		meta = *post.MetaDescription
	} else if post.Excerpt != nil {
		meta = *post.Excerpt
	}

	title := post.Title
	if post.MetaTitle != nil {
		title = *post.MetaTitle
	}

	p.renderer.Page(w, r, "public/post", &render.PageData{
		Title: title,
		Data: map[string]any{
			"Post":            post,
			"ContentHTML":     contentHTML,
			"Comments":        comments,
			"LikeStatus":      likeStatus,
			"MetaDescription": meta,
		},
	})
}

// Category renders the published posts of one category.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slug := chi.URLParam(r, "slug")

	if p.serveCached(w, r, cache.CategoryKey(slug)) {
		return
	}

	category, err := p.categories.FindBySlug(ctx, slug)
	if err != nil {
		slog.Error("category lookup failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if category == nil {
		p.notFound(w, r)
		return
	}

	posts, err := p.posts.ListByCategory(ctx, slug, 0)
	if err != nil {
		slog.Error("category posts query failed", "slug", slug, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	p.renderAndCache(w, r, cache.CategoryKey(slug), "public/category", &render.PageData{
		Title: category.Name,
		Data: map[string]any{
			"Category": category,
			"Posts":    posts,
		},
	})
}

// Search renders full-text results for the q parameter. Queries shorter
// than two characters render the empty search page without querying.
func (p *Public) Search(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))

	results, err := p.posts.Search(r.Context(), query)
	if err != nil {
		slog.Error("search query failed", "query", query, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	if utf8.RuneCountInString(query) < 2 {
		query = ""
	}

	p.renderer.Page(w, r, "public/search", &render.PageData{
		Title: "Search",
		Data: map[string]any{
			"Query":   query,
			"Results": results,
		},
	})
}

// CreateComment accepts a visitor comment. The comment lands unapproved;
// only a moderator can surface it.
func (p *Public) CreateComment(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	form := CommentForm{
		AuthorName:  strings.TrimSpace(r.FormValue("author_name")),
		AuthorEmail: strings.TrimSpace(r.FormValue("author_email")),
		Content:     strings.TrimSpace(r.FormValue("content")),
	}
	if err := validate.Struct(form); err != nil {
		http.Error(w, formError(err), http.StatusBadRequest)
		return
	}

	post, err := p.posts.FindByID(r.Context(), postID)
	if err != nil {
		slog.Error("comment post lookup failed", "post_id", postID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil || !post.IsPublished {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	_, err = p.comments.Create(r.Context(), &models.Comment{
		PostID:      postID,
		AuthorName:  form.AuthorName,
		AuthorEmail: form.AuthorEmail,
		Content:     form.Content,
	})
	if err != nil {
		slog.Error("comment create failed", "post_id", postID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/posts/"+post.Slug, http.StatusSeeOther)
}

// ToggleLike flips the visitor's like on a post, keyed by the
// (IP, user agent) fingerprint.
func (p *Public) ToggleLike(w http.ResponseWriter, r *http.Request) {
	postID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	post, err := p.posts.FindByID(r.Context(), postID)
	if err != nil {
		slog.Error("like post lookup failed", "post_id", postID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if post == nil || !post.IsPublished {
		http.Error(w, "Not Found", http.StatusNotFound)
		return
	}

	ip := clientip.FromRequest(r)
	if _, err := p.likes.Toggle(r.Context(), postID, ip, r.UserAgent()); err != nil {
		slog.Error("like toggle failed", "post_id", postID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/posts/"+post.Slug, http.StatusSeeOther)
}

// Subscribe signs an email up for the newsletter.
func (p *Public) Subscribe(w http.ResponseWriter, r *http.Request) {
	form := SubscribeForm{
		Email: strings.TrimSpace(strings.ToLower(r.FormValue("email"))),
		Name:  strings.TrimSpace(r.FormValue("name")),
	}
	if err := validate.Struct(form); err != nil {
		http.Error(w, formError(err), http.StatusBadRequest)
		return
	}

	var name *string
	if form.Name != "" {
		name = &form.Name
	}

	_, err := p.subscriptions.Subscribe(r.Context(), form.Email, name)
	if errors.Is(err, store.ErrAlreadySubscribed) {
		http.Error(w, "This email is already subscribed.", http.StatusConflict)
		return
	}
	if err != nil {
		slog.Error("newsletter subscribe failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// notFound renders the public 404 page.
func (p *Public) notFound(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusNotFound)
	p.renderer.Page(w, r, "public/not_found", &render.PageData{
		Title: "Not Found",
		Data:  map[string]any{},
	})
}

// NotFound is the router's fallback handler for unknown public paths.
func (p *Public) NotFound(w http.ResponseWriter, r *http.Request) {
	p.notFound(w, r)
}

// serveCached writes a cached page if one exists. Only full-page GET
// requests are served from cache.
func (p *Public) serveCached(w http.ResponseWriter, r *http.Request, key string) bool {
	if p.pages == nil || r.Method != http.MethodGet {
		return false
	}
	html, ok := p.pages.Get(r.Context(), key)
	if !ok {
		return false
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(html)
	return true
}

// renderAndCache renders a page while teeing the output, then stores the
// bytes in the page cache when rendering succeeded.
func (p *Public) renderAndCache(w http.ResponseWriter, r *http.Request, key, tmpl string, data *render.PageData) {
	if p.pages == nil {
		p.renderer.Page(w, r, tmpl, data)
		return
	}

	rec := &captureWriter{ResponseWriter: w, status: http.StatusOK}
	p.renderer.Page(rec, r, tmpl, data)
	if rec.status == http.StatusOK && rec.buf.Len() > 0 {
		p.pages.Set(r.Context(), key, rec.buf.Bytes())
	}
}

// captureWriter tees the response body so it can be cached after writing.
type captureWriter struct {
	http.ResponseWriter
	buf    bytes.Buffer
	status int
}

func (c *captureWriter) WriteHeader(code int) {
	c.status = code
	c.ResponseWriter.WriteHeader(code)
}

func (c *captureWriter) Write(b []byte) (int, error) {
	c.buf.Write(b)
	return c.ResponseWriter.Write(b)
}
