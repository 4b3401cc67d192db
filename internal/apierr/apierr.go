// Package apierr defines the API error taxonomy. Errors are carried as
// values up the call chain and mapped to a status code plus a
// {"detail": "..."} body at the HTTP boundary.
package apierr

import (
	"encoding/json"
	"log"
	"net/http"
)

type Error struct {
	Status int
	Detail string
}

func (e *Error) Error() string {
	return e.Detail
}

func New(status int, detail string) *Error {
	return &Error{Status: status, Detail: detail}
}

var (
	// NotFoundOne signals absence of a single requested object.
	NotFoundOne = New(http.StatusNotFound, "This object does not exist.")
	// NotFoundMany signals an empty result for a multi-object lookup.
	NotFoundMany = New(http.StatusNotFound, "These objects do not exist.")
	// Unauthorized signals an authenticated caller without entitlement.
	Unauthorized = New(http.StatusUnauthorized, "Unauthorized to use this method on this endpoint or object.")
	// DuplicateEmail signals a unique-email constraint violation on signup.
	DuplicateEmail = New(http.StatusBadRequest, "user with this email address already exists.")
)

// FieldRequired builds the validation error for a missing required field.
func FieldRequired(field string) *Error {
	return New(http.StatusBadRequest, field+": This field is required.")
}

// BadRequest builds a 400 with a domain-specific detail.
func BadRequest(detail string) *Error {
	return New(http.StatusBadRequest, detail)
}

// Write maps err to a response. Unrecognized errors are logged and become
// an opaque 500; they are never retried.
func Write(w http.ResponseWriter, err error) {
	apiErr, ok := err.(*Error)
	if !ok {
		log.Printf("internal error: %v", err)
		apiErr = New(http.StatusInternalServerError, "Internal server error.")
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(apiErr.Status)
	json.NewEncoder(w).Encode(map[string]string{"detail": apiErr.Detail})
}
