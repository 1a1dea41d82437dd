//go:generate go run go.uber.org/mock/mockgen -source=registry.go -destination=../mocks/mock_identity.go -package=mocks

// Package identity resolves and persists the local participant identifier.
package identity

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/dgraph-io/badger/v4"

	"peerchat/errors"
)

// StorageKey is the single key-value pair this layer persists.
const StorageKey = "identity:username"

type IRegistry interface {
	Resolve() string
}

// Registry resolves the local identifier once per process lifetime.
//
// The first resolution reads the persisted value, falling back to the prompt
// function, then to a pseudo-random default. A nil or failing store degrades
// to an ephemeral identity: resolution never fails, but the identity will not
// survive a restart. That side effect is logged, not surfaced.
type Registry struct {
	db     *badger.DB
	log    *slog.Logger
	prompt func() string
	cached string
}

// NewRegistry builds a registry over db, which may be nil when the local
// store could not be opened. prompt obtains an identifier from external
// input on first use.
func NewRegistry(db *badger.DB, log *slog.Logger, prompt func() string) *Registry {
	return &Registry{db: db, log: log, prompt: prompt}
}

// Resolve returns the local identifier, stable for the process lifetime.
func (r *Registry) Resolve() string {
	if r.cached != "" {
		return r.cached
	}

	if stored, err := r.load(); err != nil {
		r.log.Warn("Falling back to ephemeral identity",
			"error", fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err))
	} else if stored != "" {
		r.cached = stored
		return r.cached
	}

	username := strings.TrimSpace(r.prompt())
	if username == "" {
		username = defaultUsername()
	}
	r.cached = username

	if err := r.store(username); err != nil {
		r.log.Warn("Identity will not survive restart",
			"error", fmt.Errorf("%w: %v", errors.ErrStorageUnavailable, err))
	}
	return r.cached
}

func (r *Registry) load() (string, error) {
	if r.db == nil {
		return "", errors.ErrStorageUnavailable
	}
	var value string
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(StorageKey))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		return item.Value(func(v []byte) error {
			value = string(v)
			return nil
		})
	})
	return value, err
}

func (r *Registry) store(username string) error {
	if r.db == nil {
		return errors.ErrStorageUnavailable
	}
	return r.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(StorageKey), []byte(username))
	})
}

// defaultUsername mirrors the historical fallback of the web client.
func defaultUsername() string {
	return fmt.Sprintf("User%d", rand.N(1000))
}
