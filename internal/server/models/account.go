// Package models holds the server-side domain types shared by the
// repositories, services and transports.
package models

import "time"

// Account is a stored identity record.
// PasswordHash is empty when the account has no local credential,
// ExternalID is empty until a Google identity is linked.
type Account struct {
	ID              string
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    string
	IsEmailVerified bool
	ExternalID      string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AccountDraft is the input for creating or linking an account.
type AccountDraft struct {
	Email           string
	FirstName       string
	LastName        string
	PasswordHash    string
	IsEmailVerified bool
	ExternalID      string
}

// AccountView is the public projection of an Account. It never carries the
// password hash.
type AccountView struct {
	ID              string    `json:"id"`
	Email           string    `json:"email"`
	FirstName       string    `json:"firstName"`
	LastName        string    `json:"lastName"`
	IsEmailVerified bool      `json:"isEmailVerified"`
	ExternalID      string    `json:"googleId,omitempty"`
	HasPassword     bool      `json:"hasPassword"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// HasPassword reports whether the account can use local login.
func (a *Account) HasPassword() bool {
	return a.PasswordHash != ""
}

// View returns the public projection of the account.
func (a *Account) View() AccountView {
	return AccountView{
		ID:              a.ID,
		Email:           a.Email,
		FirstName:       a.FirstName,
		LastName:        a.LastName,
		IsEmailVerified: a.IsEmailVerified,
		ExternalID:      a.ExternalID,
		HasPassword:     a.HasPassword(),
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}
