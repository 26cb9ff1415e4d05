// Package guard resolves a bearer token to the account it was issued for.
// Transports call it before running protected handlers.
package guard

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/logging"
	"github.com/dmitrijs2005/gophid/internal/server/auth"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/accounts"
)

type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

type Guard struct {
	tokens   TokenVerifier
	accounts accounts.Repository
	logger   logging.Logger
}

func New(tokens TokenVerifier, repo accounts.Repository, logger logging.Logger) *Guard {
	return &Guard{
		tokens:   tokens,
		accounts: repo,
		logger:   logger.With("component", "guard"),
	}
}

// BearerToken extracts the token from an Authorization header value.
// The scheme is matched case-insensitively.
func BearerToken(authorization string) (string, bool) {
	prefix := common.BearerPrefix
	if len(authorization) < len(prefix) || !strings.EqualFold(authorization[:len(prefix)], prefix) {
		return "", false
	}
	token := strings.TrimSpace(authorization[len(prefix):])
	if token == "" {
		return "", false
	}
	return token, true
}

// Authenticate resolves an Authorization header value to an account view.
// Every failure is reported as common.ErrUnauthenticated.
func (g *Guard) Authenticate(ctx context.Context, authorization string) (models.AccountView, error) {
	token, ok := BearerToken(authorization)
	if !ok {
		return models.AccountView{}, common.ErrUnauthenticated
	}
	return g.CurrentAccount(ctx, token)
}

// CurrentAccount verifies a raw token and loads the account it names.
func (g *Guard) CurrentAccount(ctx context.Context, token string) (view models.AccountView, err error) {
	defer func() {
		if r := recover(); r != nil {
			g.logger.Warn(ctx, "access denied after panic", "panic", r)
			view, err = models.AccountView{}, common.ErrUnauthenticated
		}
	}()

	claims, err := g.tokens.Verify(token)
	if err != nil {
		g.logger.Debug(ctx, "token rejected", "reason", err)
		return models.AccountView{}, common.ErrUnauthenticated
	}

	account, err := g.accounts.FindByID(ctx, claims.Subject)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			g.logger.Warn(ctx, "access denied, account lookup failed", "error", err)
		}
		return models.AccountView{}, common.ErrUnauthenticated
	}

	return account.View(), nil
}

type accountKey struct{}

// WithAccount returns a context carrying the authenticated account.
func WithAccount(ctx context.Context, view models.AccountView) context.Context {
	return context.WithValue(ctx, accountKey{}, view)
}

// AccountFromContext returns the account stored by WithAccount.
func AccountFromContext(ctx context.Context) (models.AccountView, bool) {
	view, ok := ctx.Value(accountKey{}).(models.AccountView)
	return view, ok
}
