package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of request errors.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassNetwork represents network/timeout errors.
	ErrorClassNetwork ErrorClass = "network"
)

// FieldErrors holds server-side validation messages scoped to input fields,
// mapped from a 422 response body.
type FieldErrors struct {
	Title       string
	Description string
	Message     string
	Name        string
	Email       string
}

// Empty reports whether no field carries a message.
func (f FieldErrors) Empty() bool {
	return f == FieldErrors{}
}

// Error represents a failed board API call.
type Error struct {
	StatusCode int
	Class      ErrorClass
	Message    string
	Fields     *FieldErrors
	Err        error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("board API %s error (status %d): %s: %v",
			e.Class, e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("board API %s error (status %d): %s",
		e.Class, e.StatusCode, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is a 404 from the board API.
func IsNotFound(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}

// AsFieldErrors extracts validation field errors from err, if any.
func AsFieldErrors(err error) (*FieldErrors, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Fields != nil && !apiErr.Fields.Empty() {
		return apiErr.Fields, true
	}
	return nil, false
}

// classify categorizes an HTTP status code.
func classify(statusCode int) ErrorClass {
	switch {
	case statusCode >= 400 && statusCode < 500:
		return ErrorClassClient
	case statusCode >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// errorBody is the wire shape of a validation rejection:
//
//	{"errors": {"title": ["..."], "contributor": {"name": ["..."], "email": ["..."]}}}
type errorBody struct {
	Errors struct {
		Title       []string `json:"title"`
		Description []string `json:"description"`
		Message     []string `json:"message"`
		Contributor struct {
			Name  []string `json:"name"`
			Email []string `json:"email"`
		} `json:"contributor"`
	} `json:"errors"`
}

// parseFieldErrors maps a 422 body onto FieldErrors, taking the first
// message per field. Returns nil if the body carries no recognizable errors.
func parseFieldErrors(body []byte) *FieldErrors {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil
	}

	fields := FieldErrors{
		Title:       first(parsed.Errors.Title),
		Description: first(parsed.Errors.Description),
		Message:     first(parsed.Errors.Message),
		Name:        first(parsed.Errors.Contributor.Name),
		Email:       first(parsed.Errors.Contributor.Email),
	}
	if fields.Empty() {
		return nil
	}
	return &fields
}

func first(msgs []string) string {
	if len(msgs) == 0 {
		return ""
	}
	return msgs[0]
}
