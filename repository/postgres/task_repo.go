package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/repository"
)

const taskColumns = `id, owner_id, title, description, tags, completed, expiry_date, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTaskNotFound
	}
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	return scanTask(r.pool.QueryRow(ctx, query, id))
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	if filter.ID != "" {
		if _, err := uuid.Parse(filter.ID); err != nil {
			return []domain.Task{}, nil
		}
	}

	query := `
	SELECT ` + taskColumns + `
	FROM tasks
	WHERE ($1 = '' OR owner_id::text = $1)
	  AND ($2 = '' OR id::text = $2)
	ORDER BY created_at, id
	`
	rows, err := r.pool.Query(ctx, query, filter.OwnerID, filter.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	task.Tags = nonNilTags(task.Tags)

	const query = `
	INSERT INTO tasks (id, owner_id, title, description, tags, completed, expiry_date)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.OwnerID,
		task.Title,
		task.Description,
		task.Tags,
		task.Completed,
		nullDate(&task.ExpiryDate),
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, err
	}

	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrTaskNotFound
	}

	query := `
	UPDATE tasks
	SET title = COALESCE($2, title),
		description = COALESCE($3, description),
		tags = COALESCE($4::text[], tags),
		completed = COALESCE($5, completed),
		expiry_date = COALESCE($6::date, expiry_date),
		updated_at = NOW()
	WHERE id = $1
	RETURNING ` + taskColumns

	var tags interface{}
	if patch.Tags != nil {
		tags = nonNilTags(*patch.Tags)
	}

	return scanTask(r.pool.QueryRow(ctx, query,
		id,
		patch.Title,
		patch.Description,
		tags,
		patch.Completed,
		nullDate(patch.ExpiryDate),
	))
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrTaskNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var task domain.Task
	var expiry *time.Time

	if err := row.Scan(
		&task.ID,
		&task.OwnerID,
		&task.Title,
		&task.Description,
		&task.Tags,
		&task.Completed,
		&expiry,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	if expiry != nil {
		task.ExpiryDate = domain.NewDate(*expiry)
	}
	task.Tags = nonNilTags(task.Tags)
	return &task, nil
}
