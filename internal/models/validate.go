package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/rerange/internal/common"
	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate checks v against its struct tags. Failures wrap
// common.ErrValidation and name the offending fields.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
		}
		return fmt.Errorf("%w: %s", common.ErrValidation, strings.Join(fields, ", "))
	}
	return fmt.Errorf("%w: %v", common.ErrValidation, err)
}
