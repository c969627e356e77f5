// Package validate holds input validators for the HTTP surface. Violations
// are model.ValidationError values and map to HTTP 400.
package validate

import (
	"regexp"

	"github.com/tgshelf/tgshelf/internal/model"
)

// phoneRx accepts international format: optional leading +, digits only.
var phoneRx = regexp.MustCompile(`^\+?[0-9]+$`)

var codeRx = regexp.MustCompile(`^[0-9]+$`)

// Phone validates a phone number for a code request.
func Phone(v string) error {
	if v == "" {
		return model.NewValidationError("phone_number", "phone number is required")
	}
	if len(v) > 32 || !phoneRx.MatchString(v) {
		return model.NewValidationError("phone_number", "invalid phone number format")
	}
	return nil
}

// Code validates a one-time verification code. Provider codes vary in
// length, so only the charset is checked.
func Code(v string) error {
	if v == "" {
		return model.NewValidationError("code", "verification code is required")
	}
	if !codeRx.MatchString(v) {
		return model.NewValidationError("code", "verification code must be numeric")
	}
	return nil
}

// UploadName rejects path separators and oversized display names for
// caller-supplied filename overrides.
func UploadName(v string) error {
	if v == "" {
		return nil
	}
	if len(v) > 255 {
		return model.NewValidationError("fileName", "file name exceeds 255 characters")
	}
	for _, r := range v {
		if r == '/' || r == '\\' || r == 0 {
			return model.NewValidationError("fileName", "file name contains invalid characters")
		}
	}
	return nil
}
