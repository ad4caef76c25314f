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

// SubscriptionStore manages the newsletter subscription lifecycle.
type SubscriptionStore struct {
	db *sql.DB
}

// NewSubscriptionStore returns a new SubscriptionStore.
func NewSubscriptionStore(db *sql.DB) *SubscriptionStore {
	return &SubscriptionStore{db: db}
}

const subscriptionColumns = `id, email, name, is_active, is_confirmed,
	subscribed_at, unsubscribed_at`

// scanSubscription scans a row into a Subscription struct.
func scanSubscription(scanner interface{ Scan(...any) error }) (*models.Subscription, error) {
	var sub models.Subscription
	err := scanner.Scan(
		&sub.ID, &sub.Email, &sub.Name, &sub.IsActive, &sub.IsConfirmed,
		&sub.SubscribedAt, &sub.UnsubscribedAt,
	)
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// FindByEmail retrieves a subscription by email. Returns nil if not found.
func (s *SubscriptionStore) FindByEmail(ctx context.Context, email string) (*models.Subscription, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM newsletter_subscriptions WHERE email = $1`, email)
	sub, err := scanSubscription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find subscription by email: %w", err)
	}
	return sub, nil
}

// Subscribe signs an email up for the newsletter. An active existing
// subscription yields ErrAlreadySubscribed; an inactive one is
// reactivated in place (same row, same id); otherwise a new
// active+confirmed row is created. Confirmation is automatic — there is
// no verification email step.
func (s *SubscriptionStore) Subscribe(ctx context.Context, email string, name *string) (*models.Subscription, error) {
	existing, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		if existing.IsActive {
			return nil, ErrAlreadySubscribed
		}

		row := s.db.QueryRowContext(ctx, `
			UPDATE newsletter_subscriptions
			SET is_active = TRUE, is_confirmed = TRUE, unsubscribed_at = NULL
			WHERE email = $1
			RETURNING `+subscriptionColumns, email)
		sub, err := scanSubscription(row)
		if err != nil {
			return nil, fmt.Errorf("reactivate subscription: %w", err)
		}
		return sub, nil
	}

	row := s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_subscriptions (email, name, is_active, is_confirmed)
		VALUES ($1, $2, TRUE, TRUE)
		RETURNING `+subscriptionColumns, email, name)
	sub, err := scanSubscription(row)
	if err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	return sub, nil
}

// ListAll returns every subscription, newest signup first. Admin use.
func (s *SubscriptionStore) ListAll(ctx context.Context) ([]models.Subscription, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+subscriptionColumns+`
		FROM newsletter_subscriptions
		ORDER BY subscribed_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	defer rows.Close()

	var subs []models.Subscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, *sub)
	}
	return subs, rows.Err()
}
