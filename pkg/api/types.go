package api

import "strings"

// Contributor identifies the person attached to a feature, comment, or vote.
type Contributor struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Status is a named stage in the feature lifecycle (a kanban column).
type Status struct {
	Name      string `json:"name"`
	Order     int    `json:"order"`
	IsInitial bool   `json:"is_initial"`
	IsFinal   bool   `json:"is_final"`
}

// Key returns the lowercased status name used as the column key everywhere.
// Two statuses must never collide after lowercasing.
func (s Status) Key() string {
	return strings.ToLower(s.Name)
}

// StatusList is the response envelope of the statuses endpoint.
type StatusList struct {
	Records []Status `json:"records"`
}

// IndexFeature is the board-list representation of a feature. It is an
// immutable snapshot at fetch time; counts may go stale until re-fetched.
type IndexFeature struct {
	ID                  string       `json:"id"`
	Title               string       `json:"title"`
	Status              string       `json:"status"`
	Image               string       `json:"image,omitempty"`
	InsertedAt          string       `json:"inserted_at"`
	PublicUpvotesCount  int          `json:"public_upvotes_count"`
	PrivateUpvotesCount int          `json:"private_upvotes_count"`
	CommentsCount       int          `json:"comments_count"`
	Contributor         *Contributor `json:"contributor,omitempty"`
	URL                 string       `json:"url"`
}

// FeatureList is one page of features for a status. TotalCount is the
// server-side ground truth for remaining-count computation.
type FeatureList struct {
	Page       int            `json:"page"`
	PerPage    int            `json:"per_page"`
	TotalCount int            `json:"total_count"`
	TotalPages int            `json:"total_pages"`
	Records    []IndexFeature `json:"records"`
}

// Comment on a feature. Message is untrusted HTML.
type Comment struct {
	ID          string       `json:"id"`
	Message     string       `json:"message"`
	InsertedAt  string       `json:"inserted_at"`
	Contributor *Contributor `json:"contributor,omitempty"`
}

// Vote on a feature.
type Vote struct {
	ID          string       `json:"id,omitempty"`
	InsertedAt  string       `json:"inserted_at,omitempty"`
	Contributor *Contributor `json:"contributor,omitempty"`
}

// ShowFeature is the detail representation of a feature: the index fields
// plus description, comments, and votes. Description is untrusted HTML.
type ShowFeature struct {
	IndexFeature
	Description  string         `json:"description"`
	Comments     []Comment      `json:"comments,omitempty"`
	Votes        []Vote         `json:"votes,omitempty"`
	CustomFields map[string]any `json:"custom_fields,omitempty"`
	PublicURL    string         `json:"public_url,omitempty"`
	Board        string         `json:"board,omitempty"`
}

// CommentInput is the request body for creating a comment.
type CommentInput struct {
	Message     string      `json:"message"`
	Contributor Contributor `json:"contributor"`
}

// UpvoteInput is the request body for creating an upvote.
type UpvoteInput struct {
	Contributor Contributor `json:"contributor"`
}

// FeatureInput is the request body for submitting a new feature request.
type FeatureInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Contributor Contributor `json:"contributor"`
}
