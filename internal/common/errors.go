// Package common defines shared constants and sentinel errors used across
// client and server layers of gophid. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")
	ErrConflict   = errors.New("conflict")

	// Service-level errors.
	ErrorInternal = errors.New("internal error")

	// ErrValidation marks malformed input. Wrap it with the reason:
	//
	//	fmt.Errorf("%w: email is required", common.ErrValidation)
	ErrValidation = errors.New("validation error")

	// ErrInvalidCredentials hides whether the email, the stored credential or
	// the password failed.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated hides why a token or its subject was rejected.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrExternalProfileIncomplete is returned when the identity provider did
	// not assert a usable email address.
	ErrExternalProfileIncomplete = errors.New("external profile incomplete")

	// Token verification errors. They stay inside the server; the guard
	// collapses them into ErrUnauthenticated.
	ErrMalformedToken = errors.New("malformed token")
	ErrInvalidToken   = errors.New("invalid token")
	ErrTokenExpired   = errors.New("token expired")

	// ErrInvalidState is returned for unknown, expired or replayed OAuth state.
	ErrInvalidState = errors.New("invalid oauth state")
)
