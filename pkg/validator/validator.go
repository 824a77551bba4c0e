package validator

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct validates a struct using its validate tags and flattens the
// field errors into one operator-readable message.
func ValidateStruct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrors validator.ValidationErrors
	if !errors.As(err, &fieldErrors) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		msgs = append(msgs, fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("validation failed: %s", strings.Join(msgs, "; "))
}
