package accounts

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/google/uuid"
)

// InMemoryRepository keeps accounts in process memory. Every operation runs
// under one mutex, so check-and-insert is atomic.
type InMemoryRepository struct {
	mu      sync.Mutex
	byID    map[string]*models.Account
	byEmail map[string]string
	now     func() time.Time
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*models.Account),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (r *InMemoryRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(r.byID[id]), nil
}

func (r *InMemoryRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return clone(a), nil
}

func (r *InMemoryRepository) Create(ctx context.Context, draft models.AccountDraft) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[draft.Email]; ok {
		return nil, common.ErrConflict
	}
	return clone(r.insert(draft)), nil
}

func (r *InMemoryRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[account.ID]
	if !ok {
		return nil, common.ErrorNotFound
	}

	stored.FirstName = account.FirstName
	stored.LastName = account.LastName
	stored.PasswordHash = account.PasswordHash
	stored.IsEmailVerified = account.IsEmailVerified
	if stored.ExternalID == "" {
		stored.ExternalID = account.ExternalID
	}
	stored.UpdatedAt = r.now()

	return clone(stored), nil
}

func (r *InMemoryRepository) LinkExternal(ctx context.Context, draft models.AccountDraft) (*models.Account, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if id, ok := r.byEmail[draft.Email]; ok {
		stored := r.byID[id]
		if stored.ExternalID == "" {
			stored.ExternalID = draft.ExternalID
			stored.IsEmailVerified = true
			stored.UpdatedAt = r.now()
		}
		return clone(stored), false, nil
	}

	draft.PasswordHash = ""
	draft.IsEmailVerified = true
	return clone(r.insert(draft)), true, nil
}

// insert must be called with mu held.
func (r *InMemoryRepository) insert(draft models.AccountDraft) *models.Account {
	now := r.now()
	a := &models.Account{
		ID:              uuid.NewString(),
		Email:           draft.Email,
		FirstName:       draft.FirstName,
		LastName:        draft.LastName,
		PasswordHash:    draft.PasswordHash,
		IsEmailVerified: draft.IsEmailVerified,
		ExternalID:      draft.ExternalID,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	r.byID[a.ID] = a
	r.byEmail[a.Email] = a.ID
	return a
}

func clone(a *models.Account) *models.Account {
	c := *a
	return &c
}
