package repository

import "context"

// Store bundles the repositories of one storage driver.
type Store struct {
	Name     string
	Accounts AccountRepository
	Tasks    TaskRepository
	Ping     func(ctx context.Context) error
	Close    func(ctx context.Context) error
}
