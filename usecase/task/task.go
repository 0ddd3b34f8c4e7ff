package task

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/repository"
)

// CreateInput carries the caller-supplied fields of a new task. The owner is never
// taken from input.
type CreateInput struct {
	Title       string
	Description string
	Tags        []string
	ExpiryDate  domain.Date
}

type UseCase struct {
	tasks  repository.TaskRepository
	logger *zap.Logger
}

func New(tasks repository.TaskRepository, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		tasks:  tasks,
		logger: logger,
	}
}

func (uc *UseCase) Create(ctx context.Context, caller string, in CreateInput) (*domain.Task, error) {
	var fields []domain.FieldError
	if strings.TrimSpace(in.Title) == "" {
		fields = append(fields, domain.FieldError{Field: "title", Msg: "Title is required"})
	}
	if strings.TrimSpace(in.Description) == "" {
		fields = append(fields, domain.FieldError{Field: "description", Msg: "Description is required"})
	}
	if in.ExpiryDate.IsZero() {
		fields = append(fields, domain.FieldError{Field: "expiryDate", Msg: "Expiry Date is required"})
	}
	if len(fields) > 0 {
		return nil, domain.NewValidationError(fields...)
	}

	tags := in.Tags
	if tags == nil {
		tags = []string{}
	}

	return uc.tasks.Create(ctx, &domain.Task{
		OwnerID:     caller,
		Title:       in.Title,
		Description: in.Description,
		Tags:        tags,
		Completed:   false,
		ExpiryDate:  in.ExpiryDate,
	})
}

// ListAll returns the caller's tasks in store order.
func (uc *UseCase) ListAll(ctx context.Context, caller string) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{OwnerID: caller})
}

// ListOne returns zero or one task. A task that does not exist and a task owned by
// someone else are indistinguishable here.
func (uc *UseCase) ListOne(ctx context.Context, caller, id string) ([]domain.Task, error) {
	return uc.tasks.List(ctx, repository.TaskFilter{OwnerID: caller, ID: id})
}

// Update applies patch verbatim. Unlike Create, fields are not validated.
func (uc *UseCase) Update(ctx context.Context, caller, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if _, err := uc.authorize(ctx, caller, id); err != nil {
		return nil, err
	}
	return uc.tasks.Update(ctx, id, patch)
}

func (uc *UseCase) Delete(ctx context.Context, caller, id string) error {
	if _, err := uc.authorize(ctx, caller, id); err != nil {
		return err
	}
	if err := uc.tasks.Delete(ctx, id); err != nil {
		return err
	}
	uc.logger.Debug("task deleted", zap.String("task_id", id), zap.String("account_id", caller))
	return nil
}

// authorize distinguishes a missing task (NotFound) from someone else's task (Forbidden).
func (uc *UseCase) authorize(ctx context.Context, caller, id string) (*domain.Task, error) {
	task, err := uc.tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !task.IsOwnedBy(caller) {
		uc.logger.Warn("task ownership mismatch", zap.String("task_id", id), zap.String("account_id", caller))
		return nil, domain.ErrForbidden
	}
	return task, nil
}
