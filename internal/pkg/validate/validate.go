package validate

import (
	"fmt"
	"strings"

	"github.com/bomberman-api/internal/domain"
	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

// Struct validates the given struct using its validate tags.
// A missing required field wraps domain.ErrMissingInput; any other tag
// failure wraps domain.ErrInvalidInput.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		sentinel := domain.ErrMissingInput
		var msgs []string
		for _, fe := range ve {
			if fe.Tag() != "required" {
				sentinel = domain.ErrInvalidInput
			}
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), sentinel)
	}
	return nil
}
