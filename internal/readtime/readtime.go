// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package readtime estimates how many minutes a post takes to read.
package readtime

import "strings"

// wordsPerMinute is the assumed reading speed.
const wordsPerMinute = 200

// Estimate returns the reading time in minutes for the given content,
// rounded up, never less than 1. Words are whitespace-separated tokens.
func Estimate(content string) int {
	words := len(strings.Fields(content))
	minutes := (words + wordsPerMinute - 1) / wordsPerMinute
	if minutes < 1 {
		return 1
	}
	return minutes
}
