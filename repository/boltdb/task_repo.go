package boltdb

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/repository"
)

type taskRepository struct {
	db *bolt.DB
}

// NewTaskRepository creates a BoltDB-backed task repository storing tasks as JSON documents.
func NewTaskRepository(db *bolt.DB) repository.TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	var task *domain.Task
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		task, err = getTask(tx, id)
		return err
	})
	return task, err
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	tasks := []domain.Task{}
	err := r.db.View(func(tx *bolt.Tx) error {
		if filter.ID != "" {
			task, err := getTask(tx, filter.ID)
			if err == domain.ErrTaskNotFound {
				return nil
			}
			if err != nil {
				return err
			}
			if filter.OwnerID == "" || task.OwnerID == filter.OwnerID {
				tasks = append(tasks, *task)
			}
			return nil
		}

		return tx.Bucket(bucketTasks).ForEach(func(k, v []byte) error {
			var task domain.Task
			if err := json.Unmarshal(v, &task); err != nil {
				return err
			}
			if filter.OwnerID != "" && task.OwnerID != filter.OwnerID {
				return nil
			}
			tasks = append(tasks, normalize(task))
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = newID()
	}
	now := time.Now().UTC()
	task.CreatedAt = now
	task.UpdatedAt = now
	*task = normalize(*task)

	err := r.db.Update(func(tx *bolt.Tx) error {
		return put(tx.Bucket(bucketTasks), task.ID, task)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

func (r *taskRepository) Update(ctx context.Context, id string, patch domain.TaskPatch) (*domain.Task, error) {
	var updated *domain.Task
	err := r.db.Update(func(tx *bolt.Tx) error {
		task, err := getTask(tx, id)
		if err != nil {
			return err
		}
		patch.Apply(task)
		task.UpdatedAt = time.Now().UTC()
		updated = task
		return put(tx.Bucket(bucketTasks), task.ID, task)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *taskRepository) Delete(ctx context.Context, id string) error {
	return r.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketTasks)
		if b.Get([]byte(id)) == nil {
			return domain.ErrTaskNotFound
		}
		return b.Delete([]byte(id))
	})
}

func getTask(tx *bolt.Tx, id string) (*domain.Task, error) {
	if id == "" {
		return nil, domain.ErrTaskNotFound
	}
	raw := tx.Bucket(bucketTasks).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrTaskNotFound
	}
	var task domain.Task
	if err := json.Unmarshal(raw, &task); err != nil {
		return nil, err
	}
	task = normalize(task)
	return &task, nil
}

func normalize(task domain.Task) domain.Task {
	if task.Tags == nil {
		task.Tags = []string{}
	}
	return task
}
