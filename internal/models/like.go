// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Like records an anonymous reaction on a post. Visitor identity is the
// (IP address, user agent) pair — a coarse fingerprint, not an account.
// At most one row exists per (post, IP, user agent) tuple.
type Like struct {
	ID        int64     `json:"id"`
	PostID    int64     `json:"post_id"`
	UserIP    string    `json:"user_ip"`
	UserAgent string    `json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
}

// LikeStatus is what a post page needs to render the like button.
type LikeStatus struct {
	Count int  `json:"count"`
	Liked bool `json:"liked"`
}
