package sessions

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"moviehub/proj/internal/domain/models"
	"time"

	"github.com/dgraph-io/badger/v4"
)

const sessionKeyPrefix = "session:"

// BadgerStore persists sessions across restarts. Expiry relies on badger entry TTLs.
type BadgerStore struct {
	db *badger.DB
}

func OpenBadgerStore(path string) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

func (s *BadgerStore) Save(_ context.Context, id string, user models.SessionUser, ttl time.Duration) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(sessionKeyPrefix+id), data).WithTTL(ttl)
		return txn.SetEntry(entry)
	})
}

func (s *BadgerStore) Get(_ context.Context, id string) (*models.SessionUser, error) {
	var user models.SessionUser
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(sessionKeyPrefix + id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNoSession
		}
		if err != nil {
			return fmt.Errorf("get session: %w", err)
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &user)
		})
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *BadgerStore) Delete(_ context.Context, id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete([]byte(sessionKeyPrefix + id))
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("delete session: %w", err)
		}
		return nil
	})
}

func (s *BadgerStore) Close() error {
	return s.db.Close()
}
