// Package store persists owner-scoped JSON collections on top of a flat
// KeyValue medium. Each collection is read and replaced wholesale, so every
// read-modify-write cycle must run under the owner's lock (LockOwner).
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"retailmanager/internal/domain"
	"retailmanager/internal/storage"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrStorageFault = errors.New("storage fault")
)

// DefaultNamespace matches the key prefix the mobile app established, so an
// existing device store keeps working unchanged.
const DefaultNamespace = "@retail_manager:"

const (
	kindUsers     = "users"
	kindProducts  = "products:"
	kindEmployees = "employees:"
	kindSales     = "sales:"
)

type Collections struct {
	kv        storage.KeyValue
	namespace string

	mu         sync.Mutex
	ownerLocks map[string]*sync.Mutex
}

func New(kv storage.KeyValue, namespace string) *Collections {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	return &Collections{
		kv:         kv,
		namespace:  namespace,
		ownerLocks: make(map[string]*sync.Mutex),
	}
}

// LockOwner serializes every mutation touching one owner's partition. The
// whole-collection write pattern loses updates under concurrent writers, so
// callers hold this lock across their read-modify-write cycle. The returned
// function releases the lock.
func (c *Collections) LockOwner(owner string) func() {
	c.mu.Lock()
	lock, ok := c.ownerLocks[owner]
	if !ok {
		lock = &sync.Mutex{}
		c.ownerLocks[owner] = lock
	}
	c.mu.Unlock()

	lock.Lock()
	return lock.Unlock
}

func (c *Collections) LoadProducts(ctx context.Context, owner string) ([]domain.Product, error) {
	return loadCollection[domain.Product](ctx, c.kv, c.namespace+kindProducts+owner)
}

func (c *Collections) SaveProducts(ctx context.Context, owner string, products []domain.Product) error {
	return saveCollection(ctx, c.kv, c.namespace+kindProducts+owner, products)
}

func (c *Collections) LoadEmployees(ctx context.Context, owner string) ([]domain.Employee, error) {
	return loadCollection[domain.Employee](ctx, c.kv, c.namespace+kindEmployees+owner)
}

func (c *Collections) SaveEmployees(ctx context.Context, owner string, employees []domain.Employee) error {
	return saveCollection(ctx, c.kv, c.namespace+kindEmployees+owner, employees)
}

func (c *Collections) LoadSales(ctx context.Context, owner string) ([]domain.Sale, error) {
	return loadCollection[domain.Sale](ctx, c.kv, c.namespace+kindSales+owner)
}

func (c *Collections) SaveSales(ctx context.Context, owner string, sales []domain.Sale) error {
	return saveCollection(ctx, c.kv, c.namespace+kindSales+owner, sales)
}

// Users is the one global collection: credential records are not scoped by
// owner, they define owners.
func (c *Collections) LoadUsers(ctx context.Context) ([]domain.User, error) {
	return loadCollection[domain.User](ctx, c.kv, c.namespace+kindUsers)
}

func (c *Collections) SaveUsers(ctx context.Context, users []domain.User) error {
	return saveCollection(ctx, c.kv, c.namespace+kindUsers, users)
}

// PurgeAll removes every key under the namespace. Reachable from the ops
// tool only, never from an application flow.
func (c *Collections) PurgeAll(ctx context.Context) (int, error) {
	keys, err := c.kv.Keys(ctx, c.namespace)
	if err != nil {
		return 0, fmt.Errorf("%w: listing keys: %v", ErrStorageFault, err)
	}

	removed := 0
	for _, key := range keys {
		if err := c.kv.Delete(ctx, key); err != nil {
			return removed, fmt.Errorf("%w: deleting %s: %v", ErrStorageFault, key, err)
		}
		removed++
	}
	return removed, nil
}

func loadCollection[T any](ctx context.Context, kv storage.KeyValue, key string) ([]T, error) {
	payload, ok, err := kv.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrStorageFault, key, err)
	}
	if !ok {
		return []T{}, nil
	}

	var records []T
	if err := json.Unmarshal([]byte(payload), &records); err != nil {
		return nil, fmt.Errorf("%w: malformed payload at %s: %v", ErrStorageFault, key, err)
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

func saveCollection[T any](ctx context.Context, kv storage.KeyValue, key string, records []T) error {
	if records == nil {
		records = []T{}
	}
	payload, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: encoding %s: %v", ErrStorageFault, key, err)
	}
	if err := kv.Set(ctx, key, string(payload)); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrStorageFault, key, err)
	}
	return nil
}
