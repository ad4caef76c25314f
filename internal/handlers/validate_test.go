package handlers

import (
	"strings"
	"testing"
)

func TestCommentFormValidation(t *testing.T) {
	tests := []struct {
		name      string
		form      CommentForm
		wantError bool
	}{
		{"valid", CommentForm{AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: "Nice"}, false},
		{"missing name", CommentForm{AuthorEmail: "jane@example.com", Content: "Nice"}, true},
		{"bad email", CommentForm{AuthorName: "Jane", AuthorEmail: "not-an-email", Content: "Nice"}, true},
		{"missing content", CommentForm{AuthorName: "Jane", AuthorEmail: "jane@example.com"}, true},
		{"content too long", CommentForm{AuthorName: "Jane", AuthorEmail: "jane@example.com", Content: strings.Repeat("a", 5001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantError && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSubscribeFormValidation(t *testing.T) {
	tests := []struct {
		name      string
		form      SubscribeForm
		wantError bool
	}{
		{"valid with name", SubscribeForm{Email: "reader@example.com", Name: "Reader"}, false},
		{"valid without name", SubscribeForm{Email: "reader@example.com"}, false},
		{"missing email", SubscribeForm{Name: "Reader"}, true},
		{"bad email", SubscribeForm{Email: "nope"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantError && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestPostFormValidation(t *testing.T) {
	tests := []struct {
		name      string
		form      PostForm
		wantError bool
	}{
		{"valid", PostForm{Title: "A Post", Content: "Body"}, false},
		{"missing title", PostForm{Content: "Body"}, true},
		{"missing content", PostForm{Title: "A Post"}, true},
		{"title too long", PostForm{Title: strings.Repeat("a", 301), Content: "Body"}, true},
		{"bad image url", PostForm{Title: "A Post", Content: "Body", FeaturedImage: "not a url"}, true},
		{"good image url", PostForm{Title: "A Post", Content: "Body", FeaturedImage: "https://cdn.example.com/img.png"}, false},
		{"content too long", PostForm{Title: "A Post", Content: strings.Repeat("a", 100_001)}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantError && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestSignupFormValidation(t *testing.T) {
	tests := []struct {
		name      string
		form      SignupForm
		wantError bool
	}{
		{"valid", SignupForm{Name: "Jane", Email: "jane@example.com", Password: "long-enough"}, false},
		{"short password", SignupForm{Name: "Jane", Email: "jane@example.com", Password: "short"}, true},
		{"missing name", SignupForm{Email: "jane@example.com", Password: "long-enough"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validate.Struct(tt.form)
			if tt.wantError && err == nil {
				t.Error("expected an error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestFormError(t *testing.T) {
	err := validate.Struct(CommentForm{AuthorName: "Jane", AuthorEmail: "bad", Content: "x"})
	if err == nil {
		t.Fatal("expected a validation error")
	}
	msg := formError(err)
	if msg == "" || msg == "Invalid input." {
		t.Errorf("expected a specific message, got %q", msg)
	}
}
