// Package store persists the session identity in a local bbolt file,
// the client-side equivalent of browser storage.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	bolt "go.etcd.io/bbolt"

	"github.com/dkeye/Huddle/internal/domain"
)

var (
	bucketIdentity = []byte("identity")
	keyCurrent     = []byte("current")
)

type IdentityStore struct {
	db *bolt.DB
}

func Open(path string) (*IdentityStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create identity dir: %w", err)
	}
	db, err := bolt.Open(path, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("open identity db: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketIdentity)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init identity bucket: %w", err)
	}
	return &IdentityStore{db: db}, nil
}

func (s *IdentityStore) Close() error { return s.db.Close() }

// Load returns (nil, nil) when no identity is stored.
func (s *IdentityStore) Load() (*domain.Identity, error) {
	var raw []byte
	err := s.db.View(func(tx *bolt.Tx) error {
		if v := tx.Bucket(bucketIdentity).Get(keyCurrent); v != nil {
			raw = append([]byte(nil), v...)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load identity: %w", err)
	}
	if raw == nil {
		return nil, nil
	}
	var id domain.Identity
	if err := json.Unmarshal(raw, &id); err != nil {
		return nil, fmt.Errorf("decode identity: %w", err)
	}
	return &id, nil
}

func (s *IdentityStore) Save(id domain.Identity) error {
	raw, err := json.Marshal(id)
	if err != nil {
		return fmt.Errorf("encode identity: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdentity).Put(keyCurrent, raw)
	})
	if err != nil {
		return fmt.Errorf("save identity: %w", err)
	}
	return nil
}

func (s *IdentityStore) Clear() error {
	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketIdentity).Delete(keyCurrent)
	})
	if err != nil {
		return fmt.Errorf("clear identity: %w", err)
	}
	return nil
}
