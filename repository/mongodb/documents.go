package mongodb

import (
	"time"

	"github.com/fastygo/taskbox/domain"
)

type accountDocument struct {
	ID           string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	CreatedAt    time.Time `bson:"created_at"`
}

func (d accountDocument) toDomain() *domain.Account {
	return &domain.Account{
		ID:           d.ID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		CreatedAt:    d.CreatedAt,
	}
}

type taskDocument struct {
	ID          string     `bson:"_id"`
	Owner       string     `bson:"user"`
	Title       string     `bson:"title"`
	Description string     `bson:"description"`
	Tags        []string   `bson:"tags"`
	Completed   bool       `bson:"completed"`
	ExpiryDate  *time.Time `bson:"expiryDate,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func newTaskDocument(task *domain.Task) taskDocument {
	doc := taskDocument{
		ID:          task.ID,
		Owner:       task.OwnerID,
		Title:       task.Title,
		Description: task.Description,
		Tags:        task.Tags,
		Completed:   task.Completed,
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
	}
	if doc.Tags == nil {
		doc.Tags = []string{}
	}
	if !task.ExpiryDate.IsZero() {
		expiry := task.ExpiryDate.Time
		doc.ExpiryDate = &expiry
	}
	return doc
}

func (d taskDocument) toDomain() domain.Task {
	task := domain.Task{
		ID:          d.ID,
		OwnerID:     d.Owner,
		Title:       d.Title,
		Description: d.Description,
		Tags:        d.Tags,
		Completed:   d.Completed,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
	if task.Tags == nil {
		task.Tags = []string{}
	}
	if d.ExpiryDate != nil {
		task.ExpiryDate = domain.NewDate(*d.ExpiryDate)
	}
	return task
}
