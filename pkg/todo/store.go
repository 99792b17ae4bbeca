package todo

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/matzehuels/stagger/pkg/errors"
)

// Store persists a list's items.
type Store interface {
	// Load returns the saved items in order. An empty store yields no items.
	Load(ctx context.Context) ([]Item, error)

	// Save replaces the saved items.
	Save(ctx context.Context, items []Item) error

	// Close releases the store.
	Close() error
}

// MemoryStore keeps items in memory.
type MemoryStore struct {
	mu    sync.Mutex
	items []Item
}

// NewMemoryStore returns an empty memory store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.items), nil
}

func (s *MemoryStore) Save(ctx context.Context, items []Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = slices.Clone(items)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

const bucketItems = "items"

// BoltStore keeps items in a bbolt database, one key per position.
type BoltStore struct {
	db *bolt.DB
}

// OpenBoltStore opens or creates the database at path.
func OpenBoltStore(path string) (*BoltStore, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create %s", filepath.Dir(path))
	}
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketItems))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "initialize %s", path)
	}
	return &BoltStore{db: db}, nil
}

func (s *BoltStore) Load(ctx context.Context) ([]Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []Item
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(bucketItems)).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var it Item
			if err := json.Unmarshal(v, &it); err != nil {
				return errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode item %d", binary.BigEndian.Uint64(k))
			}
			items = append(items, it)
		}
		return nil
	})
	return items, err
}

func (s *BoltStore) Save(ctx context.Context, items []Item) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket([]byte(bucketItems)); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		b, err := tx.CreateBucket([]byte(bucketItems))
		if err != nil {
			return err
		}
		for i, it := range items {
			v, err := json.Marshal(it)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "encode item %s", it.ID)
			}
			if err := b.Put(marshalPos(uint64(i)), v); err != nil {
				return err
			}
		}
		return nil
	})
}

// Path returns the database file path.
func (s *BoltStore) Path() string { return s.db.Path() }

func (s *BoltStore) Close() error { return s.db.Close() }

func marshalPos(i uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, i)
	return b
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*BoltStore)(nil)
)
