package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskbox/repository"
)

// NewStore bundles the Postgres repositories around a shared pool.
func NewStore(pool *pgxpool.Pool) repository.Store {
	return repository.Store{
		Name:     "postgres",
		Accounts: NewAccountRepository(pool),
		Tasks:    NewTaskRepository(pool),
		Ping:     pool.Ping,
		Close: func(ctx context.Context) error {
			pool.Close()
			return nil
		},
	}
}
