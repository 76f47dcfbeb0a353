// Package repomanager picks a storage backend and vends the repositories
// bound to it.
package repomanager

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/propman/internal/server/repositories/properties"
	"github.com/dmitrijs2005/propman/internal/server/repositories/users"
)

// TxFunc receives repositories that share one unit of work.
type TxFunc func(ctx context.Context, u users.Repository, p properties.Repository) error

type RepositoryManager interface {
	Users() users.Repository
	Properties() properties.Repository
	RunMigrations(ctx context.Context) error
	// WithTx runs fn atomically where the backend supports it.
	WithTx(ctx context.Context, fn TxFunc) error
	Close(ctx context.Context) error
}

// Open connects to the backend named by dsn. mongodb:// and mongodb+srv://
// select MongoDB; anything else is handed to the pgx driver.
func Open(ctx context.Context, dsn string) (RepositoryManager, error) {
	if isMongoDSN(dsn) {
		m, err := OpenMongo(ctx, dsn)
		if err != nil {
			return nil, err
		}
		return m, nil
	}

	m, err := OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return m, nil
}

func isMongoDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "mongodb://") || strings.HasPrefix(dsn, "mongodb+srv://")
}
