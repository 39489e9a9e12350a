package thumbs

import (
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// keyPrefix namespaces thumbnail records so the database can host other
// data later without key collisions.
const keyPrefix = "thumb:"

// BadgerCache is a persistent thumbnail cache backed by BadgerDB.
//
// Thumbnails survive restarts, which matters for large photo trees where
// re-rendering everything after a deploy is noticeable. BadgerDB handles
// its own concurrency; no extra locking is needed here.
type BadgerCache struct {
	db *badger.DB
}

// NewBadgerCache opens (or creates) a badger database at path.
func NewBadgerCache(path string) (*BadgerCache, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open thumbnail cache at %s: %w", path, err)
	}

	return &BadgerCache{db: db}, nil
}

// Get implements Cache.
func (c *BadgerCache) Get(key string) ([]byte, bool, error) {
	var data []byte

	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyPrefix + key))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read thumbnail %s: %w", key, err)
	}

	return data, true, nil
}

// Set implements Cache.
func (c *BadgerCache) Set(key string, data []byte) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyPrefix+key), data)
	})
	if err != nil {
		return fmt.Errorf("store thumbnail %s: %w", key, err)
	}
	return nil
}

// Close implements Cache.
func (c *BadgerCache) Close() error {
	return c.db.Close()
}
