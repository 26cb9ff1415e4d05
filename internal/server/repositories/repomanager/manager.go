// Package repomanager opens the account database, keeps its schema current
// with goose and hands out repositories bound to it.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/gophid/internal/dbx"
	"github.com/dmitrijs2005/gophid/internal/server/repositories/accounts"
)

type RepositoryManager interface {
	Open(ctx context.Context, dsn string) (*sql.DB, error)
	RunMigrations(ctx context.Context, db *sql.DB) error
	Accounts(db dbx.DBTX) accounts.Repository
}
