// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"log/slog"
	"sync"

	"growthhub/internal/models"
)

// StatsStore assembles the admin dashboard counters.
type StatsStore struct {
	db *sql.DB
}

// NewStatsStore returns a new StatsStore.
func NewStatsStore(db *sql.DB) *StatsStore {
	return &StatsStore{db: db}
}

// Stats gathers the five dashboard figures with independent concurrent
// queries. A failed query logs and leaves its figure at zero; the
// dashboard renders whatever could be counted. The figures are not a
// consistent snapshot.
func (s *StatsStore) Stats(ctx context.Context) models.DashboardStats {
	var (
		stats models.DashboardStats
		wg    sync.WaitGroup
	)

	count := func(dst *int, query string) {
		defer wg.Done()
		if err := s.db.QueryRowContext(ctx, query).Scan(dst); err != nil {
			slog.Warn("dashboard counter failed", "query", query, "error", err)
		}
	}

	wg.Add(5)
	go count(&stats.PublishedPosts, `SELECT COUNT(*) FROM posts WHERE is_published = TRUE`)
	go count(&stats.DraftPosts, `SELECT COUNT(*) FROM posts WHERE is_published = FALSE`)
	go count(&stats.PendingComments, `SELECT COUNT(*) FROM comments WHERE is_approved = FALSE`)
	go count(&stats.ActiveSubscribers, `SELECT COUNT(*) FROM newsletter_subscriptions WHERE is_active = TRUE`)
	go func() {
		defer wg.Done()
		err := s.db.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(view_count), 0) FROM posts WHERE is_published = TRUE`).Scan(&stats.TotalViews)
		if err != nil {
			slog.Warn("dashboard counter failed", "query", "total views", "error", err)
		}
	}()
	wg.Wait()

	return stats
}
