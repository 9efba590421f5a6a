package bolt

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bbolt "go.etcd.io/bbolt"
)

var bucketName = []byte("storefront")

// Store is a device-local key-value store backed by a single bbolt
// file. It satisfies model.KV.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the store file at dir/fileName.
func Open(dir, fileName string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	path := filepath.Join(dir, fileName)
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open store file: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create bucket: %w", err)
	}

	return &Store{db: db}, nil
}

// Get returns the value stored under key. Absent keys report ok=false
// with a nil error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	var value []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(key))
		if v != nil {
			value = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("failed to read key %q: %w", key, err)
	}
	if value == nil {
		return "", false, nil
	}

	return string(value), true, nil
}

// Set stores value under key, overwriting any previous value.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Put([]byte(key), []byte(value))
	})
	if err != nil {
		return fmt.Errorf("failed to write key %q: %w", key, err)
	}

	return nil
}

// Delete removes key. Deleting an absent key is not an error.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("failed to delete key %q: %w", key, err)
	}

	return nil
}

// Close closes the underlying store file.
func (s *Store) Close() error {
	return s.db.Close()
}
