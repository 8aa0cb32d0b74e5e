package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/matrimo/internal/dbx"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/passwordresets"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/matrimo/internal/server/repositories/users"
)

// InMemoryRepositoryManager ignores the DBTX argument: every call returns
// the same process-wide repositories, and nothing is transactional.
type InMemoryRepositoryManager struct {
	users          *users.MemoryRepository
	refreshTokens  *refreshtokens.MemoryRepository
	passwordResets *passwordresets.MemoryRepository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		users:          users.NewMemoryRepository(),
		refreshTokens:  refreshtokens.NewMemoryRepository(),
		passwordResets: passwordresets.NewMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) RunMigrations(context.Context, *sql.DB) error {
	return nil
}

func (m *InMemoryRepositoryManager) Users(dbx.DBTX) users.Repository {
	return m.users
}

func (m *InMemoryRepositoryManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository {
	return m.refreshTokens
}

func (m *InMemoryRepositoryManager) PasswordResets(dbx.DBTX) passwordresets.Repository {
	return m.passwordResets
}
