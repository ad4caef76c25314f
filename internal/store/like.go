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

// LikeStore manages anonymous post likes keyed by the (IP, user agent)
// fingerprint. The likes table carries a uniqueness constraint on
// (post_id, user_ip, user_agent), so concurrent toggles from the same
// fingerprint can never produce duplicate rows.
type LikeStore struct {
	db *sql.DB
}

// NewLikeStore returns a new LikeStore.
func NewLikeStore(db *sql.DB) *LikeStore {
	return &LikeStore{db: db}
}

// Toggle flips the like state for the given fingerprint: an existing like
// is removed (returns false), an absent one is inserted (returns true).
// Strict XOR — calling twice restores the original state.
func (s *LikeStore) Toggle(ctx context.Context, postID int64, ip, userAgent string) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM likes
		WHERE post_id = $1 AND user_ip = $2 AND user_agent = $3`,
		postID, ip, userAgent)
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}

	deleted, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("unlike post: %w", err)
	}
	if deleted > 0 {
		return false, nil
	}

	// Nothing to remove — insert. ON CONFLICT absorbs the case where a
	// concurrent request from the same fingerprint inserted first; the
	// post ends up liked either way.
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO likes (post_id, user_ip, user_agent)
		VALUES ($1, $2, $3)
		ON CONFLICT (post_id, user_ip, user_agent) DO NOTHING`,
		postID, ip, userAgent)
	if err != nil {
		return false, fmt.Errorf("like post: %w", err)
	}
	return true, nil
}

// Status returns the total like count for a post and, when a fingerprint
// is supplied, whether that fingerprint currently has a like. Read
// failures degrade to zero/false so a broken counter never blocks the
// post page.
func (s *LikeStore) Status(ctx context.Context, postID int64, ip, userAgent string) models.LikeStatus {
	var status models.LikeStatus

	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM likes WHERE post_id = $1`, postID).Scan(&status.Count)
	if err != nil {
		return models.LikeStatus{}
	}

	if ip != "" && userAgent != "" {
		err = s.db.QueryRowContext(ctx, `
			SELECT EXISTS (
				SELECT 1 FROM likes
				WHERE post_id = $1 AND user_ip = $2 AND user_agent = $3
			)`, postID, ip, userAgent).Scan(&status.Liked)
		if err != nil {
			status.Liked = false
		}
	}

	return status
}
