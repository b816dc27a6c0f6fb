// Package keystore caches circuit setup artifacts (constraint systems,
// proving keys, verifying keys) in a single-file bbolt database so setup is
// paid once and the verifying-key identifier stays stable across runs.
// Witnesses and proofs are never stored here.
package keystore

import (
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"
)

// ErrNotFound is returned when no artifact exists for the requested key.
var ErrNotFound = errors.New("keystore: artifact not found")

// Store is a bbolt-backed artifact cache. One bucket per proving backend,
// keyed by "<circuit>/<kind>".
type Store struct {
	db *bolt.DB
}

// Open opens or creates the store file.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("open keystore %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database.
func (s *Store) Close() error { return s.db.Close() }

func artifactKey(circuit, kind string) []byte {
	return []byte(circuit + "/" + kind)
}

// Put stores an artifact, overwriting any previous value.
func (s *Store) Put(backend, circuit, kind string, data []byte) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte(backend))
		if err != nil {
			return fmt.Errorf("bucket %s: %w", backend, err)
		}
		return b.Put(artifactKey(circuit, kind), data)
	})
}

// Get retrieves an artifact. The returned slice is a copy and stays valid
// after the transaction closes.
func (s *Store) Get(backend, circuit, kind string) ([]byte, error) {
	var out []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(backend))
		if b == nil {
			return ErrNotFound
		}
		v := b.Get(artifactKey(circuit, kind))
		if v == nil {
			return ErrNotFound
		}
		out = make([]byte, len(v))
		copy(out, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
