package auth

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRegistration reports the first rule req breaks as one of the
// package's sentinel errors
func validateRegistration(req RegisterRequest) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		return fmt.Errorf("failed to validate registration: %w", err)
	}

	fe := ves[0]
	switch fe.Field() {
	case "Name":
		if fe.Tag() == "required" {
			return ErrNameRequired
		}
		return ErrNameTooLong
	case "Email":
		if fe.Tag() == "required" {
			return ErrEmailRequired
		}
		return ErrInvalidEmailFormat
	case "Password":
		switch fe.Tag() {
		case "required":
			return ErrPasswordRequired
		case "min":
			return ErrPasswordTooShort
		default:
			return ErrPasswordTooLong
		}
	}
	return fmt.Errorf("invalid %s: failed %s validation", fe.Field(), fe.Tag())
}

// validLogin only tells whether a lookup is worth doing; callers answer
// every failure with ErrInvalidCredentials
func validLogin(req LoginRequest) bool {
	return validate.Struct(req) == nil
}
