package handler

import (
	"errors"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"

	"github.com/dtroode/authgate/internal/apierrors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// validateRequest turns struct tag violations into a single BadRequest
// naming the offending fields. Absent and blank fields are reported as
// missing, anything else as invalid.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return apierrors.NewErrBadRequest("invalid request")
	}

	var missing, invalid []string
	for _, e := range validationErrors {
		switch e.Tag() {
		case "required", "notblank":
			missing = append(missing, e.Field())
		default:
			invalid = append(invalid, e.Field())
		}
	}

	if len(missing) > 0 {
		sort.Strings(missing)
		return apierrors.NewErrBadRequest("missing required fields: " + strings.Join(missing, ", "))
	}
	sort.Strings(invalid)
	return apierrors.NewErrBadRequest("invalid fields: " + strings.Join(invalid, ", "))
}
