// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Subscription is a newsletter signup. Subscriptions are auto-confirmed
// on creation; unsubscribing deactivates the row instead of deleting it
// so a later re-subscribe reactivates the same row.
type Subscription struct {
	ID             int64      `json:"id"`
	Email          string     `json:"email"`
	Name           *string    `json:"name,omitempty"`
	IsActive       bool       `json:"is_active"`
	IsConfirmed    bool       `json:"is_confirmed"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at,omitempty"`
}
