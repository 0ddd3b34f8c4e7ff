package boltdb

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/fastygo/taskbox/repository"
)

var (
	bucketAccounts = []byte("accounts")
	bucketEmails   = []byte("accounts_by_email")
	bucketTasks    = []byte("tasks")
)

// Open initializes the BoltDB file and ensures every bucket exists.
func Open(path string) (*bolt.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bucketAccounts, bucketEmails, bucketTasks} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// NewStore bundles the embedded repositories around an open database.
func NewStore(db *bolt.DB) repository.Store {
	return repository.Store{
		Name:     "bolt",
		Accounts: NewAccountRepository(db),
		Tasks:    NewTaskRepository(db),
		Ping: func(ctx context.Context) error {
			return db.View(func(tx *bolt.Tx) error {
				if tx.Bucket(bucketTasks) == nil {
					return bolt.ErrBucketNotFound
				}
				return nil
			})
		},
		Close: func(ctx context.Context) error {
			return db.Close()
		},
	}
}

// newID returns a time-ordered id so bucket order follows insertion order.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

func put(b *bolt.Bucket, key string, value interface{}) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return b.Put([]byte(key), payload)
}
