package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/matrimo/internal/dbx"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/users"
)

// RepositoryManager hands out repositories bound to a DBTX, so services can
// build them over *sql.DB or over a *sql.Tx inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	PasswordResets(db dbx.DBTX) passwordresets.Repository
}
