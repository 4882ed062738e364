package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/catregistry/cat-api/internal/core/domain"
)

// Validator wraps go-playground/validator so Echo can call c.Validate(req).
// Failures come back as a domain validation error listing every failing
// field as "<msg>: <param>", joined by ", ".
type Validator struct {
	v *validator.Validate
}

// NewValidator returns a Validator ready to be assigned to echo.Echo.Validator.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(paramName)
	_ = v.RegisterValidation("positive", isPositiveNumber)
	return &Validator{v: v}
}

// isPositiveNumber checks a numeric string field for a finite value above zero.
func isPositiveNumber(fl validator.FieldLevel) bool {
	f, err := strconv.ParseFloat(fl.Field().String(), 64)
	return err == nil && f > 0 && !math.IsInf(f, 0)
}

// Validate satisfies the echo.Validator interface.
func (ev *Validator) Validate(i any) error {
	return ev.validate(i, nil)
}

// validate checks i and reports every failing field. Fields listed in typed
// already failed to decode; they are reported first as "Invalid value" and
// their zero values are not validated again.
func (ev *Validator) validate(i any, typed []string) error {
	msgs := make([]string, 0, len(typed))
	for _, f := range typed {
		msgs = append(msgs, "Invalid value: "+f)
	}

	if err := ev.v.Struct(i); err != nil {
		var ve validator.ValidationErrors
		if !errors.As(err, &ve) {
			return err
		}
		for _, fe := range ve {
			if slices.Contains(typed, fieldPath(fe)) {
				continue
			}
			msgs = append(msgs, fieldError(fe))
		}
	}
	if len(msgs) == 0 {
		return nil
	}
	return domain.ValidationError(strings.Join(msgs, ", "))
}

// paramName reports a field by the name the client used for it.
func paramName(f reflect.StructField) string {
	for _, tag := range []string{"json", "form", "param", "query"} {
		name := strings.SplitN(f.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return f.Name
}

func fieldError(fe validator.FieldError) string {
	return fieldMessage(fe) + ": " + fieldPath(fe)
}

// fieldPath is the client-facing path of the field, e.g. location.coordinates.
// The namespace starts with the request type name, which is dropped.
func fieldPath(fe validator.FieldError) string {
	if _, rest, ok := strings.Cut(fe.Namespace(), "."); ok && rest != "" {
		return rest
	}
	return fe.Field()
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "Required field"
	case "email":
		return "Invalid email"
	case "gt":
		return "Must be greater than " + fe.Param()
	case "positive":
		return "Must be greater than 0"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("Must be at least %s characters", fe.Param())
		}
		return "Must be at least " + fe.Param()
	case "len":
		return fmt.Sprintf("Must have %s elements", fe.Param())
	case "datetime":
		return "Invalid date, expected YYYY-MM-DD"
	case "mongodb":
		return "Invalid id"
	case "eq":
		return "Must be " + fe.Param()
	default:
		return "Invalid value"
	}
}

// bind decodes the request into req and runs the validator. It is the first
// call in every handler that takes input. A JSON value of the wrong type is
// reported against its field alongside any validation failures of the rest.
func bind(c echo.Context, req any) error {
	var typeErr *json.UnmarshalTypeError
	if err := c.Bind(req); err != nil {
		if !errors.As(err, &typeErr) || typeErr.Field == "" {
			return domain.ValidationError("Invalid value: body")
		}
	}
	if typeErr == nil {
		return c.Validate(req)
	}

	ev, ok := c.Echo().Validator.(*Validator)
	if !ok {
		return domain.ValidationError("Invalid value: " + typeErr.Field)
	}
	return ev.validate(req, []string{typeErr.Field})
}
