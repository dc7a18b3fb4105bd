package domain

import (
	"github.com/allisson/blog/internal/errors"
)

// Post error definitions.
var (
	// ErrPostNotFound indicates no post exists with the requested identifier.
	ErrPostNotFound = errors.Wrap(errors.ErrNotFound, "post not found")

	// ErrInvalidPostID indicates the identifier is not a valid document id.
	// Such an identifier can never match a post, so it is reported as not found.
	ErrInvalidPostID = errors.Wrap(errors.ErrNotFound, "invalid post id")

	// ErrTitleRequired indicates a post was submitted without a title.
	ErrTitleRequired = errors.Wrap(errors.ErrInvalidInput, "Title is required!")
)
