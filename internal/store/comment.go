// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"growthhub/internal/models"
)

// CommentStore manages visitor comments and their moderation state.
type CommentStore struct {
	db *sql.DB
}

// NewCommentStore returns a new CommentStore.
func NewCommentStore(db *sql.DB) *CommentStore {
	return &CommentStore{db: db}
}

const commentColumns = `id, post_id, author_name, author_email, content,
	is_approved, parent_id, created_at, updated_at`

// ListApproved returns only approved comments for one post, oldest first,
// which is the natural reading order for a thread. Returns an empty slice
// when the schema is absent.
func (s *CommentStore) ListApproved(ctx context.Context, postID int64) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+commentColumns+`
		FROM comments
		WHERE post_id = $1 AND is_approved = TRUE
		ORDER BY created_at ASC`, postID)
	if err != nil {
		if schemaMissing(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("list approved comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail, &c.Content,
			&c.IsApproved, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// ListForAdmin returns every comment regardless of approval, newest first,
// joined with the parent post's id, title, and slug.
func (s *CommentStore) ListForAdmin(ctx context.Context) ([]models.Comment, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT cm.id, cm.post_id, cm.author_name, cm.author_email, cm.content,
		       cm.is_approved, cm.parent_id, cm.created_at, cm.updated_at,
		       p.id, p.title, p.slug
		FROM comments cm
		JOIN posts p ON p.id = cm.post_id
		ORDER BY cm.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list comments for admin: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var c models.Comment
		var ref models.PostRef
		if err := rows.Scan(
			&c.ID, &c.PostID, &c.AuthorName, &c.AuthorEmail, &c.Content,
			&c.IsApproved, &c.ParentID, &c.CreatedAt, &c.UpdatedAt,
			&ref.ID, &ref.Title, &ref.Slug,
		); err != nil {
			return nil, fmt.Errorf("scan admin comment: %w", err)
		}
		c.Post = &ref
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

// Create inserts a visitor comment. is_approved is always false on
// creation; only an administrator can approve.
func (s *CommentStore) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	result := &models.Comment{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO comments (post_id, author_name, author_email, content, parent_id, is_approved)
		VALUES ($1, $2, $3, $4, $5, FALSE)
		RETURNING `+commentColumns,
		c.PostID, c.AuthorName, c.AuthorEmail, c.Content, c.ParentID,
	).Scan(
		&result.ID, &result.PostID, &result.AuthorName, &result.AuthorEmail,
		&result.Content, &result.IsApproved, &result.ParentID,
		&result.CreatedAt, &result.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}
	return result, nil
}

// SetApproval toggles a comment's moderation state. Admin use only.
func (s *CommentStore) SetApproval(ctx context.Context, id int64, approved bool) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE comments SET is_approved = $1, updated_at = NOW() WHERE id = $2`,
		approved, id)
	if err != nil {
		return fmt.Errorf("set comment approval: %w", err)
	}
	return nil
}

// Delete removes a comment by ID. Admin use only.
func (s *CommentStore) Delete(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	return nil
}

// CountPending returns the number of comments awaiting moderation.
func (s *CommentStore) CountPending(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM comments WHERE is_approved = FALSE`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count pending comments: %w", err)
	}
	return count, nil
}
