package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/ringkeeper/internal/dbx"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/rings"
	"github.com/dmitrijs2005/ringkeeper/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Rings(db dbx.DBTX) rings.Repository
}
