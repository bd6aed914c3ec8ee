package storage

import (
	"encoding/json"
	"errors"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/manav03panchal/studiodesk/internal/model"
)

// ErrKeyNotFound is returned by Get for a missing or expired key.
var ErrKeyNotFound = errors.New("key not found")

// IsErrKeyNotFound reports whether err means the key is absent.
func IsErrKeyNotFound(err error) bool {
	return errors.Is(err, ErrKeyNotFound) || errors.Is(err, badger.ErrKeyNotFound)
}

// Get decodes the JSON value under key into v.
func (d *DB) Get(key string, v model.Model) error {
	err := d.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return ErrKeyNotFound
	}
	if err == nil {
		v.SetKey(key)
	}
	return err
}

// Set stores v under its own key with no expiry.
func (d *DB) Set(v model.Model) error {
	return d.Put(v, 0)
}

// Put stores v under its own key. A positive ttl makes badger drop the
// key once it elapses.
func (d *DB) Put(v model.Model, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	entry := badger.NewEntry([]byte(v.GetKey()), data)
	if ttl > 0 {
		entry = entry.WithTTL(ttl)
	}
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.SetEntry(entry)
	})
}

// Delete removes a key. Deleting a missing key is not an error.
func (d *DB) Delete(key string) error {
	return d.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// ListByPrefix returns every key starting with prefix.
func (d *DB) ListByPrefix(prefix string) ([]string, error) {
	var keys []string
	err := d.scan(prefix, false, func(item *badger.Item) error {
		keys = append(keys, string(item.KeyCopy(nil)))
		return nil
	})
	return keys, err
}

// GetAllByPrefix decodes every value whose key starts with prefix.
func GetAllByPrefix[T model.Model](d *DB, prefix string, newFunc func() T) ([]T, error) {
	var results []T
	err := d.scan(prefix, true, func(item *badger.Item) error {
		v := newFunc()
		if err := item.Value(func(val []byte) error { return json.Unmarshal(val, v) }); err != nil {
			return err
		}
		v.SetKey(string(item.KeyCopy(nil)))
		results = append(results, v)
		return nil
	})
	return results, err
}

func (d *DB) scan(prefix string, values bool, fn func(*badger.Item) error) error {
	return d.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = values
		opts.Prefix = []byte(prefix)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := fn(it.Item()); err != nil {
				return err
			}
		}
		return nil
	})
}
