// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Post is a blog article. Content is Markdown source; ReadingTime is
// computed from the content word count at write time and ViewCount is
// incremented server-side, never from application reads.
type Post struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Slug             string     `json:"slug"`
	Excerpt          *string    `json:"excerpt,omitempty"`
	Content          string     `json:"content"`
	FeaturedImageURL *string    `json:"featured_image_url,omitempty"`
	CategoryID       *int64     `json:"category_id,omitempty"`
	AuthorName       string     `json:"author_name"`
	AuthorEmail      *string    `json:"author_email,omitempty"`
	IsPublished      bool       `json:"is_published"`
	IsFeatured       bool       `json:"is_featured"`
	MetaTitle        *string    `json:"meta_title,omitempty"`
	MetaDescription  *string    `json:"meta_description,omitempty"`
	ReadingTime      int        `json:"reading_time"`
	ViewCount        int64      `json:"view_count"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Category is the joined category summary, nil for uncategorized posts.
	Category *Category `json:"category,omitempty"`
}

// PostPatch describes a partial post update. Nil fields are left untouched;
// a blank string (or zero CategoryID) clears the nullable column.
// Setting Content recomputes the stored reading time; setting IsPublished to
// true stamps published_at only if the post has never been published before.
type PostPatch struct {
	Title            *string
	Slug             *string
	Excerpt          *string
	Content          *string
	FeaturedImageURL *string
	CategoryID       *int64
	AuthorName       *string
	AuthorEmail      *string
	IsPublished      *bool
	IsFeatured       *bool
	MetaTitle        *string
	MetaDescription  *string
}
