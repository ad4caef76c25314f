// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"growthhub/internal/models"
	"growthhub/internal/readtime"
)

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// featuredLimit caps the homepage featured section, which has a fixed
// display budget of six cards.
const featuredLimit = 6

// searchLimit caps search results for the search dialog.
const searchLimit = 10

// postColumns selects a post row joined with its optional category summary.
const postColumns = `
	p.id, p.title, p.slug, p.excerpt, p.content, p.featured_image_url,
	p.category_id, p.author_name, p.author_email, p.is_published, p.is_featured,
	p.meta_title, p.meta_description, p.reading_time, p.view_count,
	p.published_at, p.created_at, p.updated_at,
	c.id, c.name, c.slug, c.description, c.color, c.created_at, c.updated_at`

// scanPost scans a joined post+category row. The category columns are all
// NULL for uncategorized posts, in which case Category stays nil.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var (
		catID          sql.NullInt64
		catName        sql.NullString
		catSlug        sql.NullString
		catDescription sql.NullString
		catColor       sql.NullString
		catCreatedAt   sql.NullTime
		catUpdatedAt   sql.NullTime
	)

	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImageURL,
		&p.CategoryID, &p.AuthorName, &p.AuthorEmail, &p.IsPublished, &p.IsFeatured,
		&p.MetaTitle, &p.MetaDescription, &p.ReadingTime, &p.ViewCount,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
		&catID, &catName, &catSlug, &catDescription, &catColor, &catCreatedAt, &catUpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if catID.Valid {
		cat := &models.Category{
			ID:        catID.Int64,
			Name:      catName.String,
			Slug:      catSlug.String,
			Color:     catColor.String,
			CreatedAt: catCreatedAt.Time,
			UpdatedAt: catUpdatedAt.Time,
		}
		if catDescription.Valid {
			cat.Description = &catDescription.String
		}
		p.Category = cat
	}

	return &p, nil
}

// collectPosts drains rows into a slice using scanPost.
func collectPosts(rows *sql.Rows) ([]models.Post, error) {
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, rows.Err()
}

// ListPublished returns published posts, newest published first, joined
// with their category. limit <= 0 means no cap. Returns an empty slice
// when the schema is absent.
func (s *PostStore) ListPublished(ctx context.Context, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_published = TRUE
		ORDER BY p.published_at DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT $1`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if schemaMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	return collectPosts(rows)
}

// ListFeatured returns up to six published posts flagged as featured,
// newest published first.
func (s *PostStore) ListFeatured(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_published = TRUE AND p.is_featured = TRUE
		ORDER BY p.published_at DESC
		LIMIT $1`, featuredLimit)
	if err != nil {
		if schemaMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list featured posts: %w", err)
	}
	return collectPosts(rows)
}

// FindBySlug retrieves a single published post by slug with its category.
// Returns nil when absent, unpublished, or the schema is missing.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.slug = $1 AND p.is_published = TRUE`, slug)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		if schemaMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// FindByID retrieves any post by ID regardless of publish state. Admin use.
func (s *PostStore) FindByID(ctx context.Context, id int64) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.id = $1`, id)

	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// ListByCategory returns published posts whose category slug matches
// exactly. The join is inner: uncategorized posts never match.
// limit <= 0 means no cap.
func (s *PostStore) ListByCategory(ctx context.Context, categorySlug string, limit int) ([]models.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts p
		JOIN categories c ON c.id = p.category_id
		WHERE p.is_published = TRUE AND c.slug = $1
		ORDER BY p.published_at DESC`
	args := []any{categorySlug}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		if schemaMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list posts by category: %w", err)
	}
	return collectPosts(rows)
}

// Search returns up to ten published posts whose title, excerpt, or
// content contains the query, case-insensitively, newest published
// first. Queries shorter than two characters yield an empty result
// without touching the database.
func (s *PostStore) Search(ctx context.Context, query string) ([]models.Post, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < 2 {
		return nil, nil
	}

	pattern := "%" + escapeLike(query) + "%"
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		WHERE p.is_published = TRUE
		  AND (p.title ILIKE $1 OR p.excerpt ILIKE $1 OR p.content ILIKE $1)
		ORDER BY p.published_at DESC
		LIMIT $2`, pattern, searchLimit)
	if err != nil {
		if schemaMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("search posts: %w", err)
	}
	return collectPosts(rows)
}

// escapeLike neutralizes LIKE metacharacters so user input matches literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

// ListAll returns every post regardless of publish state, newest created
// first. Admin use only.
func (s *PostStore) ListAll(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+`
		FROM posts p
		LEFT JOIN categories c ON c.id = p.category_id
		ORDER BY p.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list all posts: %w", err)
	}
	return collectPosts(rows)
}

// Create inserts a new post. Reading time is computed from the content;
// published_at is stamped now only when the post is created already
// published.
func (s *PostStore) Create(ctx context.Context, p *models.Post) (*models.Post, error) {
	var publishedAt *time.Time
	if p.IsPublished {
		now := time.Now()
		publishedAt = &now
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (title, slug, excerpt, content, featured_image_url,
		                   category_id, author_name, author_email, is_published,
		                   is_featured, meta_title, meta_description,
		                   reading_time, published_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+insertReturning,
		p.Title, p.Slug, p.Excerpt, p.Content, p.FeaturedImageURL,
		p.CategoryID, p.AuthorName, p.AuthorEmail, p.IsPublished,
		p.IsFeatured, p.MetaTitle, p.MetaDescription,
		readtime.Estimate(p.Content), publishedAt,
	)

	created, err := scanBarePost(row)
	if err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	return created, nil
}

// insertReturning returns the post's own columns (no join available on
// INSERT/UPDATE ... RETURNING).
const insertReturning = `
	id, title, slug, excerpt, content, featured_image_url,
	category_id, author_name, author_email, is_published, is_featured,
	meta_title, meta_description, reading_time, view_count,
	published_at, created_at, updated_at`

// scanBarePost scans a post row without joined category columns.
func scanBarePost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Excerpt, &p.Content, &p.FeaturedImageURL,
		&p.CategoryID, &p.AuthorName, &p.AuthorEmail, &p.IsPublished, &p.IsFeatured,
		&p.MetaTitle, &p.MetaDescription, &p.ReadingTime, &p.ViewCount,
		&p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Update applies a partial update. Only non-nil patch fields change; a
// blank string (or zero CategoryID) clears the nullable column.
// Setting Content recomputes reading_time; transitioning to published
// stamps published_at only when it was never set (a republish keeps the
// original date). updated_at always refreshes.
func (s *PostStore) Update(ctx context.Context, id int64, patch *models.PostPatch) (*models.Post, error) {
	sets := []string{"updated_at = NOW()"}
	args := []any{}
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if patch.Title != nil {
		sets = append(sets, "title = "+arg(*patch.Title))
	}
	if patch.Slug != nil {
		sets = append(sets, "slug = "+arg(*patch.Slug))
	}
	if patch.Excerpt != nil {
		sets = append(sets, "excerpt = NULLIF("+arg(*patch.Excerpt)+", '')")
	}
	if patch.Content != nil {
		sets = append(sets, "content = "+arg(*patch.Content))
		sets = append(sets, "reading_time = "+arg(readtime.Estimate(*patch.Content)))
	}
	if patch.FeaturedImageURL != nil {
		sets = append(sets, "featured_image_url = NULLIF("+arg(*patch.FeaturedImageURL)+", '')")
	}
	if patch.CategoryID != nil {
		sets = append(sets, "category_id = NULLIF("+arg(*patch.CategoryID)+", 0)")
	}
	if patch.AuthorName != nil {
		sets = append(sets, "author_name = "+arg(*patch.AuthorName))
	}
	if patch.AuthorEmail != nil {
		sets = append(sets, "author_email = NULLIF("+arg(*patch.AuthorEmail)+", '')")
	}
	if patch.IsPublished != nil {
		sets = append(sets, "is_published = "+arg(*patch.IsPublished))
		if *patch.IsPublished {
			// First publish only: COALESCE keeps an existing date.
			sets = append(sets, "published_at = COALESCE(published_at, NOW())")
		}
	}
	if patch.IsFeatured != nil {
		sets = append(sets, "is_featured = "+arg(*patch.IsFeatured))
	}
	if patch.MetaTitle != nil {
		sets = append(sets, "meta_title = NULLIF("+arg(*patch.MetaTitle)+", '')")
	}
	if patch.MetaDescription != nil {
		sets = append(sets, "meta_description = NULLIF("+arg(*patch.MetaDescription)+", '')")
	}

	query := `UPDATE posts SET ` + strings.Join(sets, ", ") +
		` WHERE id = ` + arg(id) + ` RETURNING ` + insertReturning

	updated, err := scanBarePost(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("update post: %w", err)
	}
	return updated, nil
}

// Delete removes a post by ID. Comments and likes cascade at the schema level.
func (s *PostStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	return nil
}

// IncrementView bumps view_count by one as a single server-side UPDATE,
// never read-then-write, so concurrent viewers cannot lose updates.
func (s *PostStore) IncrementView(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE posts SET view_count = view_count + 1 WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("increment view count: %w", err)
	}
	return nil
}
