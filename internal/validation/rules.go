// Package validation provides custom validation rules for the application.
package validation

import (
	"strings"

	validation "github.com/jellydator/validation"
	"go.mongodb.org/mongo-driver/v2/bson"
)

// NotBlank validates that a string is not empty after trimming whitespace
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// ObjectIDHex validates that a string is a 24 character hex document identifier.
var ObjectIDHex = validation.NewStringRuleWithError(
	func(s string) bool {
		_, err := bson.ObjectIDFromHex(s)
		return err == nil
	},
	validation.NewError("validation_object_id", "must be a valid document identifier"),
)
