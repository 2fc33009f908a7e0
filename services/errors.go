package services

import (
	"errors"
	"fmt"

	"github.com/moh-ammad/exceltovisual/repositories"

	"github.com/go-playground/validator/v10"
)

var (
	ErrForbidden          = errors.New("access denied")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidAdminKey    = errors.New("invalid admin key")
	ErrUserExists         = errors.New("user already exists")
)

// InputError is a client mistake; handlers answer it with 400 and Msg.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string {
	return e.Msg
}

// NotFoundError names the missing record; it matches repositories.ErrNotFound.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string {
	return e.Msg
}

func (e *NotFoundError) Unwrap() error {
	return repositories.ErrNotFound
}

func invalidf(format string, args ...any) error {
	return &InputError{Msg: fmt.Sprintf(format, args...)}
}

// checkInput runs struct validation and reports the first failing field.
func checkInput(v *validator.Validate, in any) error {
	err := v.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return invalidf("%v", err)
	}
	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return invalidf("%s is required", fe.Field())
	case "min":
		if fe.Kind().String() == "string" {
			return invalidf("%s must be at least %s characters", fe.Field(), fe.Param())
		}
		return invalidf("%s needs at least %s entries", fe.Field(), fe.Param())
	case "email":
		return invalidf("please enter a valid email")
	case "oneof":
		return invalidf("%s must be one of: %s", fe.Field(), fe.Param())
	case "mongodb":
		return invalidf("invalid user ID: %v", fe.Value())
	default:
		return invalidf("invalid %s", fe.Field())
	}
}
