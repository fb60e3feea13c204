package template

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks the decoded document: a template name, and for every
// variable a name, an IO tag of in or out and at least one axis.
func Validate(doc *Document) error {
	if doc == nil {
		return errors.New("document is nil")
	}
	if err := validate.Struct(doc); err != nil {
		return formatValidationError(err)
	}
	return nil
}

func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return err
	}
	// Only the first failure is reported.
	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required":
		return fmt.Errorf("%s: field is required", field)
	case "oneof":
		return fmt.Errorf("%s: %q is not one of [%s]", field, e.Value(), e.Param())
	case "min":
		return fmt.Errorf("%s: must have at least %s entries", field, e.Param())
	default:
		return fmt.Errorf("%s: validation failed (%s)", field, e.Tag())
	}
}
