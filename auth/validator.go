package auth

import (
	"fmt"
	"rentchat/domain"
	"rentchat/errors"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks the struct tags of a form before it is sent.
// Errors wrap ErrInvalidInput and keep the field details.
func Validate(form any) error {
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidInput, err)
	}
	return nil
}

func ValidateCredentials(c domain.Credentials) error {
	return Validate(c)
}

func ValidateRegistration(r domain.Registration) error {
	if err := Validate(r); err != nil {
		return err
	}
	if !isPasswordComplex(r.Password) {
		return errors.ErrInvalidPassword
	}
	return nil
}

func isPasswordComplex(s string) bool {
	var (
		hasUpper   = false
		hasLower   = false
		hasNumber  = false
		hasSpecial = false
	)
	for _, char := range s {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}
	return hasUpper && hasLower && hasNumber && hasSpecial
}
