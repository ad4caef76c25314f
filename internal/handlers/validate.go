package handlers

import (
	"github.com/go-playground/validator/v10"
)

// validate is the shared validator instance. Validator instances cache
// struct metadata, so one per process is the intended usage.
var validate = validator.New()

// CommentForm is a visitor comment submission.
type CommentForm struct {
	AuthorName  string `validate:"required,max=100"`
	AuthorEmail string `validate:"required,email,max=255"`
	Content     string `validate:"required,max=5000"`
}

// SubscribeForm is a newsletter signup submission.
type SubscribeForm struct {
	Email string `validate:"required,email,max=255"`
	Name  string `validate:"omitempty,max=100"`
}

// LoginForm is an admin sign-in submission.
type LoginForm struct {
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required"`
}

// SignupForm is an admin account request submission.
type SignupForm struct {
	Name     string `validate:"required,max=100"`
	Email    string `validate:"required,email,max=255"`
	Password string `validate:"required,min=8,max=72"`
}

// PostForm is the admin post editor submission.
type PostForm struct {
	Title           string `validate:"required,max=300"`
	Slug            string `validate:"omitempty,max=300"`
	Excerpt         string `validate:"omitempty,max=1000"`
	Content         string `validate:"required,max=100000"`
	FeaturedImage   string `validate:"omitempty,url,max=1000"`
	MetaTitle       string `validate:"omitempty,max=300"`
	MetaDescription string `validate:"omitempty,max=500"`
}

// formError turns the first validation failure into a message suitable
// for display next to the form.
func formError(err error) string {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return "Invalid input."
	}

	fe := errs[0]
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required."
	case "email":
		return "That doesn't look like a valid email address."
	case "url":
		return fe.Field() + " must be a valid URL."
	case "min":
		return fe.Field() + " must be at least " + fe.Param() + " characters."
	case "max":
		return fe.Field() + " is too long (max " + fe.Param() + " characters)."
	default:
		return fe.Field() + " is invalid."
	}
}
