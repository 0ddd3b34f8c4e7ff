package transport

import "github.com/fastygo/taskbox/domain"

// CredentialsRequest is the body of register and login.
type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type TaskCreateRequest struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Tags        []string    `json:"tags"`
	ExpiryDate  domain.Date `json:"expiryDate"`
}

// TaskUpdateRequest is a partial task. Absent fields stay untouched; owner and id are
// not part of the contract and are ignored if sent.
type TaskUpdateRequest struct {
	Title       *string      `json:"title"`
	Description *string      `json:"description"`
	Tags        *[]string    `json:"tags"`
	Completed   *bool        `json:"completed"`
	ExpiryDate  *domain.Date `json:"expiryDate"`
}

func (r TaskUpdateRequest) Patch() domain.TaskPatch {
	return domain.TaskPatch{
		Title:       r.Title,
		Description: r.Description,
		Tags:        r.Tags,
		Completed:   r.Completed,
		ExpiryDate:  r.ExpiryDate,
	}
}
