package board

import (
	"regexp"
	"strings"

	"github.com/featurekit/board-widget/pkg/api"
)

var emailPattern = regexp.MustCompile(`^\S+@\S+\.\S+$`)

// CommentForm is the user input for submitting a comment from the open modal.
type CommentForm struct {
	Name    string
	Email   string
	Message string
}

// UpvoteForm is the user input for upvoting from the open modal.
type UpvoteForm struct {
	Name  string
	Email string
}

// FeatureForm is the user input for submitting a new feature request.
type FeatureForm struct {
	Title       string
	Description string
	Name        string
	Email       string
}

// FormErrors carries per-field validation messages for form submissions,
// produced either locally before any network call or mapped one-to-one from
// a structured server rejection.
type FormErrors struct {
	Title   string
	Name    string
	Email   string
	Message string
}

// Empty reports whether no field carries a message.
func (f FormErrors) Empty() bool {
	return f == FormErrors{}
}

// validate checks the comment form locally. Local validation precedes the
// network call.
func (f CommentForm) validate() *FormErrors {
	var errs FormErrors
	if strings.TrimSpace(f.Name) == "" {
		errs.Name = "Name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		errs.Email = "Email is required"
	}
	if strings.TrimSpace(f.Message) == "" {
		errs.Message = "Message is required"
	}
	if errs.Empty() {
		return nil
	}
	return &errs
}

// validate checks the upvote form locally.
func (f UpvoteForm) validate() *FormErrors {
	var errs FormErrors
	if strings.TrimSpace(f.Name) == "" {
		errs.Name = "Name is required"
	}
	if strings.TrimSpace(f.Email) == "" {
		errs.Email = "Email is required"
	}
	if errs.Empty() {
		return nil
	}
	return &errs
}

// validate checks the feature-request form locally. Unlike the modal forms
// the email shape is checked here, not just presence.
func (f FeatureForm) validate() *FormErrors {
	var errs FormErrors
	if strings.TrimSpace(f.Title) == "" {
		errs.Title = "Title is required"
	}
	if strings.TrimSpace(f.Name) == "" {
		errs.Name = "Name is required"
	}
	if email := strings.TrimSpace(f.Email); email == "" {
		errs.Email = "Email is required"
	} else if !emailPattern.MatchString(email) {
		errs.Email = "Email is invalid"
	}
	if errs.Empty() {
		return nil
	}
	return &errs
}

// serverFormErrors maps API field errors onto form fields.
func serverFormErrors(fields *api.FieldErrors) *FormErrors {
	errs := FormErrors{
		Title:   fields.Title,
		Name:    fields.Name,
		Email:   fields.Email,
		Message: fields.Message,
	}
	if errs.Empty() {
		return nil
	}
	return &errs
}
