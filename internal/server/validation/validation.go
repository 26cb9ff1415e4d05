// Package validation checks request input at the transport boundary before it
// reaches the identity service.
package validation

import (
	"fmt"
	"net/mail"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/gophid/internal/common"
)

const (
	MinPasswordLength = 8
	// bcrypt ignores everything past 72 bytes.
	MaxPasswordLength = 72
)

// NormalizeEmail trims surrounding space and checks the address syntax.
// Case is preserved.
func NormalizeEmail(email string) (string, error) {
	trimmed := strings.TrimSpace(email)
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", common.ErrValidation)
	}
	addr, err := mail.ParseAddress(trimmed)
	if err != nil || addr.Address != trimmed {
		return "", fmt.Errorf("%w: email must be an email", common.ErrValidation)
	}
	return trimmed, nil
}

// Name requires a non-blank value and returns it trimmed.
func Name(field, value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", fmt.Errorf("%w: %s should not be empty", common.ErrValidation, field)
	}
	return trimmed, nil
}

// Password enforces length and composition: at least one upper case letter,
// one lower case letter and one digit or symbol.
func Password(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password must be longer than or equal to %d characters", common.ErrValidation, MinPasswordLength)
	}
	if len(password) > MaxPasswordLength {
		return fmt.Errorf("%w: password must be shorter than or equal to %d bytes", common.ErrValidation, MaxPasswordLength)
	}

	var upper, lower, other bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r), unicode.IsPunct(r), unicode.IsSymbol(r):
			other = true
		}
	}
	if !upper || !lower || !other {
		return fmt.Errorf("%w: password too weak", common.ErrValidation)
	}
	return nil
}

// Required rejects an empty value without further checks. Used for login,
// where password rules are not re-applied.
func Required(field, value string) error {
	if value == "" {
		return fmt.Errorf("%w: %s should not be empty", common.ErrValidation, field)
	}
	return nil
}

// RegisterInput is the validated form of a registration request.
type RegisterInput struct {
	Email     string
	FirstName string
	LastName  string
	Password  string
}

// Register validates all registration fields and returns the normalized input.
func Register(email, firstName, lastName, password string) (RegisterInput, error) {
	var (
		in  RegisterInput
		err error
	)
	if in.Email, err = NormalizeEmail(email); err != nil {
		return RegisterInput{}, err
	}
	if in.FirstName, err = Name("firstName", firstName); err != nil {
		return RegisterInput{}, err
	}
	if in.LastName, err = Name("lastName", lastName); err != nil {
		return RegisterInput{}, err
	}
	if err = Password(password); err != nil {
		return RegisterInput{}, err
	}
	in.Password = password
	return in, nil
}

// Login validates login fields and returns the normalized email.
func Login(email, password string) (string, error) {
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return "", err
	}
	if err := Required("password", password); err != nil {
		return "", err
	}
	return normalized, nil
}
