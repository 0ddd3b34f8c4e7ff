package domain

import "time"

// Account represents a registered identity. The password hash never leaves the server.
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Public returns a copy of the account without credential material.
func (a *Account) Public() *Account {
	if a == nil {
		return nil
	}
	return &Account{
		ID:        a.ID,
		Email:     a.Email,
		CreatedAt: a.CreatedAt,
	}
}
