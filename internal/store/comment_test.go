package store

import (
	"context"
	"testing"

	"growthhub/internal/models"
)

func TestCommentModerationLifecycle(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)
	ctx := context.Background()

	cleanPosts(t, db, "test-comment-post")
	t.Cleanup(func() { cleanPosts(t, db, "test-comment-post") })

	post, err := posts.Create(ctx, &models.Post{
		Title: "Commented", Slug: "test-comment-post",
		Content: "body", AuthorName: "Tester", IsPublished: true,
	})
	if err != nil {
		t.Fatalf("Create post failed: %v", err)
	}

	created, err := comments.Create(ctx, &models.Comment{
		PostID:      post.ID,
		AuthorName:  "Visitor",
		AuthorEmail: "visitor@example.com",
		Content:     "Nice article",
	})
	if err != nil {
		t.Fatalf("Create comment failed: %v", err)
	}
	if created.IsApproved {
		t.Error("new comments must start unapproved")
	}

	// Unapproved comments never reach the public listing.
	visible, err := comments.ListApproved(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if len(visible) != 0 {
		t.Fatalf("expected no approved comments, got %d", len(visible))
	}

	if err := comments.SetApproval(ctx, created.ID, true); err != nil {
		t.Fatalf("SetApproval failed: %v", err)
	}

	visible, err = comments.ListApproved(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if len(visible) != 1 {
		t.Fatalf("expected 1 approved comment, got %d", len(visible))
	}
	if visible[0].Content != "Nice article" {
		t.Errorf("unexpected content %q", visible[0].Content)
	}

	if err := comments.Delete(ctx, created.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	visible, err = comments.ListApproved(ctx, post.ID)
	if err != nil {
		t.Fatalf("ListApproved failed: %v", err)
	}
	if len(visible) != 0 {
		t.Error("comment should be gone after delete")
	}
}

func TestCommentListForAdminJoinsPost(t *testing.T) {
	db := testDB(t)
	posts := NewPostStore(db)
	comments := NewCommentStore(db)
	ctx := context.Background()

	cleanPosts(t, db, "test-admin-comments")
	t.Cleanup(func() { cleanPosts(t, db, "test-admin-comments") })

	post, err := posts.Create(ctx, &models.Post{
		Title: "Moderated", Slug: "test-admin-comments",
		Content: "body", AuthorName: "Tester", IsPublished: true,
	})
	if err != nil {
		t.Fatalf("Create post failed: %v", err)
	}

	if _, err := comments.Create(ctx, &models.Comment{
		PostID: post.ID, AuthorName: "A", AuthorEmail: "a@example.com", Content: "first",
	}); err != nil {
		t.Fatalf("Create comment failed: %v", err)
	}

	pendingBefore, err := comments.CountPending(ctx)
	if err != nil {
		t.Fatalf("CountPending failed: %v", err)
	}
	if pendingBefore < 1 {
		t.Errorf("expected at least 1 pending comment, got %d", pendingBefore)
	}

	all, err := comments.ListForAdmin(ctx)
	if err != nil {
		t.Fatalf("ListForAdmin failed: %v", err)
	}
	var found bool
	for _, c := range all {
		if c.PostID == post.ID {
			found = true
			if c.Post == nil {
				t.Fatal("expected the joined post summary")
			}
			if c.Post.Slug != "test-admin-comments" || c.Post.Title != "Moderated" {
				t.Errorf("unexpected post summary %+v", c.Post)
			}
		}
	}
	if !found {
		t.Error("expected the new comment in the moderation listing")
	}
}
