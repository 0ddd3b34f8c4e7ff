package repository

import (
	"context"

	"github.com/fastygo/taskbox/domain"
)

// AccountRepository persists credential records. Implementations must enforce email
// uniqueness themselves and report a violation as domain.ErrDuplicateEmail.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByEmail(ctx context.Context, email string) (*domain.Account, error)
	Create(ctx context.Context, account *domain.Account) error
	Count(ctx context.Context) (int64, error)
}
