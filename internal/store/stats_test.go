package store

import (
	"context"
	"testing"

	"growthhub/internal/models"
)

func TestStatsReflectsWrites(t *testing.T) {
	db := testDB(t)
	stats := NewStatsStore(db)
	posts := NewPostStore(db)
	ctx := context.Background()

	cleanPosts(t, db, "test-stats-pub", "test-stats-draft")
	t.Cleanup(func() { cleanPosts(t, db, "test-stats-pub", "test-stats-draft") })

	before := stats.Stats(ctx)

	pub, err := posts.Create(ctx, &models.Post{
		Title: "Stat pub", Slug: "test-stats-pub",
		Content: "body", AuthorName: "Tester", IsPublished: true,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	draft, err := posts.Create(ctx, &models.Post{
		Title: "Stat draft", Slug: "test-stats-draft",
		Content: "body", AuthorName: "Tester",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := posts.IncrementView(ctx, pub.ID); err != nil {
		t.Fatalf("IncrementView failed: %v", err)
	}
	// Draft views must not count toward the dashboard total.
	if err := posts.IncrementView(ctx, draft.ID); err != nil {
		t.Fatalf("IncrementView failed: %v", err)
	}

	after := stats.Stats(ctx)
	if after.PublishedPosts != before.PublishedPosts+1 {
		t.Errorf("published count: got %d, want %d", after.PublishedPosts, before.PublishedPosts+1)
	}
	if after.DraftPosts != before.DraftPosts+1 {
		t.Errorf("draft count: got %d, want %d", after.DraftPosts, before.DraftPosts+1)
	}
	if after.TotalViews != before.TotalViews+1 {
		t.Errorf("total views: got %d, want %d (published views only)", after.TotalViews, before.TotalViews+1)
	}
}
