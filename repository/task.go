package repository

import (
	"context"

	"github.com/fastygo/taskbox/domain"
)

// TaskFilter narrows List results. Empty fields are ignored.
type TaskFilter struct {
	OwnerID string
	ID      string
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error)
	Delete(ctx context.Context, id string) error
}
