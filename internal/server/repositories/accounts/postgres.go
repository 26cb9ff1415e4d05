package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophid/internal/common"
	"github.com/dmitrijs2005/gophid/internal/dbx"
	"github.com/dmitrijs2005/gophid/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

const accountColumns = `id, email, first_name, last_name, password_hash, is_email_verified, external_id, created_at, updated_at`

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAccount(row rowScanner, extra ...any) (*models.Account, error) {
	var (
		a          models.Account
		hash       sql.NullString
		externalID sql.NullString
	)

	dest := []any{&a.ID, &a.Email, &a.FirstName, &a.LastName, &hash, &a.IsEmailVerified, &externalID, &a.CreatedAt, &a.UpdatedAt}
	dest = append(dest, extra...)

	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	a.PasswordHash = hash.String
	a.ExternalID = externalID.String
	return &a, nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return common.ErrConflict
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE email = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, id string) (*models.Account, error) {
	// token subjects come from outside, a non-uuid would fail the cast in the query
	if _, err := uuid.Parse(id); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT ` + accountColumns + ` FROM users
		 WHERE id = $1`

	a, err := scanAccount(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Create(ctx context.Context, draft models.AccountDraft) (*models.Account, error) {
	query :=
		`INSERT INTO users (email, first_name, last_name, password_hash, is_email_verified, external_id)
		 VALUES ($1, $2, $3, NULLIF($4, ''), $5, NULLIF($6, ''))
		 RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query,
		draft.Email, draft.FirstName, draft.LastName, draft.PasswordHash, draft.IsEmailVerified, draft.ExternalID))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) Save(ctx context.Context, account *models.Account) (*models.Account, error) {
	if _, err := uuid.Parse(account.ID); err != nil {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE users SET
		   first_name = $2,
		   last_name = $3,
		   password_hash = NULLIF($4, ''),
		   is_email_verified = $5,
		   external_id = COALESCE(external_id, NULLIF($6, '')),
		   updated_at = now()
		 WHERE id = $1
		 RETURNING ` + accountColumns

	a, err := scanAccount(r.db.QueryRowContext(ctx, query,
		account.ID, account.FirstName, account.LastName, account.PasswordHash, account.IsEmailVerified, account.ExternalID))
	if err != nil {
		return nil, mapError(err)
	}
	return a, nil
}

func (r *PostgresRepository) LinkExternal(ctx context.Context, draft models.AccountDraft) (*models.Account, bool, error) {
	query :=
		`INSERT INTO users (email, first_name, last_name, is_email_verified, external_id)
		 VALUES ($1, $2, $3, TRUE, $4)
		 ON CONFLICT (email) DO UPDATE SET
		   external_id = COALESCE(users.external_id, EXCLUDED.external_id),
		   is_email_verified = CASE WHEN users.external_id IS NULL THEN TRUE ELSE users.is_email_verified END,
		   updated_at = CASE WHEN users.external_id IS NULL THEN now() ELSE users.updated_at END
		 RETURNING ` + accountColumns + `, (xmax = 0) AS inserted`

	var created bool
	a, err := scanAccount(r.db.QueryRowContext(ctx, query,
		draft.Email, draft.FirstName, draft.LastName, draft.ExternalID), &created)
	if err != nil {
		return nil, false, mapError(err)
	}
	return a, created, nil
}
