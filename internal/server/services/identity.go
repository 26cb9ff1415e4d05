// Package services contains server-side business logic. This file implements
// IdentityService, which registers accounts, verifies local and Google
// credentials and issues session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/accounts"
)

type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

type TokenIssuer interface {
	Issue(subject, email string) (string, error)
}

// AuthResult is returned by every successful authentication.
type AuthResult struct {
	AccessToken string
	Account     models.AccountView
}

// IdentityService owns the identity rules: one account per email, write-once
// external id, and indistinguishable local login failures.
type IdentityService struct {
	accounts accounts.Repository
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logging.Logger

	// compared against on unknown email so the miss costs one bcrypt round
	dummyHash string
}

// NewIdentityService constructs an IdentityService. It hashes a throwaway
// password once so failed lookups can be timed like real comparisons.
func NewIdentityService(repo accounts.Repository, hasher PasswordHasher, tokens TokenIssuer, logger logging.Logger) (*IdentityService, error) {
	dummy, err := hasher.Hash("gophid-dummy-password")
	if err != nil {
		return nil, fmt.Errorf("init dummy hash: %w", err)
	}
	return &IdentityService{
		accounts:  repo,
		hasher:    hasher,
		tokens:    tokens,
		logger:    logger.With("component", "identity"),
		dummyHash: dummy,
	}, nil
}

// Register creates an unverified account with a local credential.
// Inputs are expected to be validated by the caller.
func (s *IdentityService) Register(ctx context.Context, email, firstName, lastName, password string) (*AuthResult, error) {
	_, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, common.ErrConflict
	case !errors.Is(err, common.ErrorNotFound):
		s.logger.Error(ctx, "register: lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		s.logger.Error(ctx, "register: hashing failed", "error", err)
		return nil, common.ErrorInternal
	}

	account, err := s.accounts.Create(ctx, models.AccountDraft{
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		s.logger.Error(ctx, "register: create failed", "error", err)
		return nil, common.ErrorInternal
	}

	s.logger.Info(ctx, "account registered", "account_id", account.ID)
	return s.issue(ctx, account)
}

// Login checks an email and password. Unknown email, an account without a
// local credential and a wrong password all yield ErrInvalidCredentials.
func (s *IdentityService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.Verify(password, s.dummyHash)
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "login: lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if !account.HasPassword() {
		s.hasher.Verify(password, s.dummyHash)
		return nil, common.ErrInvalidCredentials
	}

	if !s.hasher.Verify(password, account.PasswordHash) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issue(ctx, account)
}

// LoginWithExternalIdentity resolves a Google assertion to an account,
// creating one or linking the external id to an existing account by email.
// A stored external id is never replaced.
func (s *IdentityService) LoginWithExternalIdentity(ctx context.Context, a ExternalAssertion) (*AuthResult, error) {
	email := strings.TrimSpace(a.Email)
	if email == "" || a.ExternalID == "" {
		return nil, common.ErrExternalProfileIncomplete
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	switch {
	case err == nil && account.ExternalID != "":
		// already linked, nothing to write
	case err == nil || errors.Is(err, common.ErrorNotFound):
		var created bool
		account, created, err = s.accounts.LinkExternal(ctx, models.AccountDraft{
			Email:      email,
			FirstName:  a.FirstName,
			LastName:   a.LastName,
			ExternalID: a.ExternalID,
		})
		if err != nil {
			s.logger.Error(ctx, "external login: link failed", "error", err)
			return nil, common.ErrorInternal
		}
		if created {
			s.logger.Info(ctx, "account created from external identity", "account_id", account.ID)
		}
	default:
		s.logger.Error(ctx, "external login: lookup failed", "error", err)
		return nil, common.ErrorInternal
	}

	if account.ExternalID != a.ExternalID {
		s.logger.Warn(ctx, "external id mismatch, keeping stored id", "account_id", account.ID)
	}

	return s.issue(ctx, account)
}

// Authenticate dispatches on the credential kind.
func (s *IdentityService) Authenticate(ctx context.Context, c Credentials) (*AuthResult, error) {
	switch c := c.(type) {
	case LocalCredentials:
		return s.Login(ctx, c.Email, c.Password)
	case ExternalAssertion:
		return s.LoginWithExternalIdentity(ctx, c)
	default:
		return nil, fmt.Errorf("%w: unsupported credentials %T", common.ErrValidation, c)
	}
}

func (s *IdentityService) issue(ctx context.Context, account *models.Account) (*AuthResult, error) {
	token, err := s.tokens.Issue(account.ID, account.Email)
	if err != nil {
		s.logger.Error(ctx, "token signing failed", "error", err)
		return nil, common.ErrorInternal
	}
	return &AuthResult{AccessToken: token, Account: account.View()}, nil
}
