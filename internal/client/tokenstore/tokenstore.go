// Package tokenstore persists the session token between runs of the client.
package tokenstore

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"
)

// Key is the well-known key the token lives under.
const Key = "token"

var bucketSession = []byte("session")

// Store keeps a single token in a BoltDB file.
type Store struct {
	db *bolt.DB
}

// Open creates the file and its parent directory when missing.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketSession)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Get returns the stored token, or "" when there is none.
func (s *Store) Get() (string, error) {
	var token string
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSession)
		if b == nil {
			return bolt.ErrBucketNotFound
		}
		token = string(b.Get([]byte(Key)))
		return nil
	})
	return token, err
}

func (s *Store) Set(token string) error {
	if token == "" {
		return errors.New("tokenstore: empty token")
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Put([]byte(Key), []byte(token))
	})
}

// Delete removes the token. Deleting a missing token is not an error.
func (s *Store) Delete() error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSession).Delete([]byte(Key))
	})
}

func (s *Store) Close() error {
	return s.db.Close()
}
