// Package validator turns binding failures into field-level detail maps for
// error responses.
package validator

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

// Details extracts a field -> failed-rule map from a binding error. Returns
// nil when the error carries no field information (malformed JSON and such).
func Details(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}

	details := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		details[fe.Field()] = fe.Tag()
	}
	return details
}
