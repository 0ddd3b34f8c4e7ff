package domain

import "time"

// Task represents an account-owned to-do item.
type Task struct {
	ID          string    `json:"id"`
	OwnerID     string    `json:"user"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Completed   bool      `json:"completed"`
	ExpiryDate  Date      `json:"expiryDate"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Completed
}

// IsOwnedBy reports whether accountID owns the task.
func (t *Task) IsOwnedBy(accountID string) bool {
	return t != nil && accountID != "" && t.OwnerID == accountID
}

// TaskPatch is a partial update. Nil fields are left untouched; owner and id are never patchable.
type TaskPatch struct {
	Title       *string   `json:"title,omitempty"`
	Description *string   `json:"description,omitempty"`
	Tags        *[]string `json:"tags,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	ExpiryDate  *Date     `json:"expiryDate,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Tags == nil && p.Completed == nil && !p.SetsExpiry()
}

// SetsExpiry reports whether the patch carries a date. An empty or null
// expiryDate leaves the stored date as it is.
func (p TaskPatch) SetsExpiry() bool {
	return p.ExpiryDate != nil && !p.ExpiryDate.IsZero()
}

// Apply writes the patch onto t.
func (p TaskPatch) Apply(t *Task) {
	if t == nil {
		return
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Description != nil {
		t.Description = *p.Description
	}
	if p.Tags != nil {
		t.Tags = append([]string{}, (*p.Tags)...)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	if p.SetsExpiry() {
		t.ExpiryDate = *p.ExpiryDate
	}
}
