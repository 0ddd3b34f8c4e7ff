package boltdb

import (
	"context"
	"encoding/json"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskbox/domain"
	"github.com/fastygo/taskbox/repository"
)

type accountRecord struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}

type accountRepository struct {
	db *bolt.DB
}

// NewAccountRepository creates a BoltDB-backed account repository. Email uniqueness is
// kept by a secondary bucket written in the same transaction as the account.
func NewAccountRepository(db *bolt.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.View(func(tx *bolt.Tx) error {
		var err error
		account, err = getAccount(tx, id)
		return err
	})
	return account, err
}

func (r *accountRepository) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	var account *domain.Account
	err := r.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(bucketEmails).Get([]byte(email))
		if id == nil {
			return domain.ErrAccountNotFound
		}
		var err error
		account, err = getAccount(tx, string(id))
		return err
	})
	return account, err
}

func (r *accountRepository) Create(ctx context.Context, account *domain.Account) error {
	if account == nil {
		return domain.ErrInvalidPayload
	}
	if account.ID == "" {
		account.ID = newID()
	}
	if account.CreatedAt.IsZero() {
		account.CreatedAt = time.Now().UTC()
	}

	return r.db.Update(func(tx *bolt.Tx) error {
		emails := tx.Bucket(bucketEmails)
		if emails.Get([]byte(account.Email)) != nil {
			return domain.ErrDuplicateEmail
		}
		if err := emails.Put([]byte(account.Email), []byte(account.ID)); err != nil {
			return err
		}
		return put(tx.Bucket(bucketAccounts), account.ID, accountRecord{
			ID:           account.ID,
			Email:        account.Email,
			PasswordHash: account.PasswordHash,
			CreatedAt:    account.CreatedAt,
		})
	})
}

func (r *accountRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.View(func(tx *bolt.Tx) error {
		count = int64(tx.Bucket(bucketAccounts).Stats().KeyN)
		return nil
	})
	return count, err
}

func getAccount(tx *bolt.Tx, id string) (*domain.Account, error) {
	raw := tx.Bucket(bucketAccounts).Get([]byte(id))
	if raw == nil {
		return nil, domain.ErrAccountNotFound
	}
	var record accountRecord
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, err
	}
	return &domain.Account{
		ID:           record.ID,
		Email:        record.Email,
		PasswordHash: record.PasswordHash,
		CreatedAt:    record.CreatedAt,
	}, nil
}
