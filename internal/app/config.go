package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	BlueprintPath string `validate:"required"`
	TemplatesPath string `validate:"required"`

	OutputFormat string `validate:"oneof=text json"`
	LogFormat    string `validate:"oneof=text json"`
	LogLevel     string `validate:"oneof=debug info warn error"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// NewConfig validates cfg and returns a copy of it.
func NewConfig(cfg Config) (*Config, error) {
	if err := validate.Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return nil, err
		}
		msgs := make([]string, 0, len(verrs))
		for _, e := range verrs {
			switch e.Tag() {
			case "required":
				msgs = append(msgs, fmt.Sprintf("%s is a required configuration field and cannot be empty", e.Field()))
			case "oneof":
				msgs = append(msgs, fmt.Sprintf("invalid %s %q: must be one of %s", e.Field(), e.Value(), e.Param()))
			default:
				msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", e.Field(), e.Tag()))
			}
		}
		return nil, fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
	}
	return &cfg, nil
}
