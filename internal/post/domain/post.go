// Package domain defines the blog post model and its errors.
package domain

import (
	"time"

	validation "github.com/jellydator/validation"

	customValidation "github.com/allisson/blog/internal/validation"
)

// Post is a blog entry. ID is the 24 character hex form of the document identifier
// and is empty until the post is stored.
type Post struct {
	ID      string
	Created time.Time
	Title   string
	Content string
}

// Validate checks the fields a user can edit. A missing title yields ErrTitleRequired.
func (p *Post) Validate() error {
	err := validation.ValidateStruct(p,
		validation.Field(&p.Title, validation.Required, customValidation.NotBlank),
	)
	if err != nil {
		return ErrTitleRequired
	}
	return nil
}
