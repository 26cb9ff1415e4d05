// Package accounts is the credential store: persistence of accounts keyed by
// unique email.
package accounts

import (
	"context"

	"github.com/dmitrijs2005/gophid/internal/server/models"
)

// Repository persists accounts.
//
// FindByEmail and FindByID return common.ErrorNotFound when nothing matches.
// Create returns common.ErrConflict when the email is taken; uniqueness is
// enforced by the store itself. Save never overwrites a non-empty ExternalID.
// LinkExternal atomically creates a verified account for draft.Email or, when
// one exists without an external id, sets it; created reports which happened.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.Account, error)
	FindByID(ctx context.Context, id string) (*models.Account, error)
	Create(ctx context.Context, draft models.AccountDraft) (*models.Account, error)
	Save(ctx context.Context, account *models.Account) (*models.Account, error)
	LinkExternal(ctx context.Context, draft models.AccountDraft) (account *models.Account, created bool, err error)
}
