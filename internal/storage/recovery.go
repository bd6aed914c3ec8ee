package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/manav03panchal/studiodesk/internal/errors"
	"github.com/manav03panchal/studiodesk/internal/logging"
)

// RecoveryStatus represents the result of a database health check.
type RecoveryStatus struct {
	Healthy    bool      `json:"healthy"`
	Corrupted  bool      `json:"corrupted"`
	LastCheck  time.Time `json:"last_check"`
	ErrorCount int       `json:"error_count"`
	Errors     []string  `json:"errors,omitempty"`
}

// CheckDatabaseIntegrity reads a sample of keys and values to detect corruption.
func CheckDatabaseIntegrity(db *DB) *RecoveryStatus {
	status := &RecoveryStatus{
		LastCheck: time.Now(),
		Healthy:   true,
	}

	if db == nil || db.db == nil {
		status.Healthy = false
		status.Corrupted = true
		status.Errors = append(status.Errors, "database not initialized")
		return status
	}

	err := db.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchSize = 10
		it := txn.NewIterator(opts)
		defer it.Close()

		count := 0
		for it.Rewind(); it.Valid() && count < 100; it.Next() {
			item := it.Item()
			if err := item.Value(func([]byte) error { return nil }); err != nil {
				status.Errors = append(status.Errors, fmt.Sprintf("corrupted value at key: %s", item.Key()))
				status.ErrorCount++
			}
			count++
		}
		return nil
	})

	if err != nil {
		status.Errors = append(status.Errors, fmt.Sprintf("iteration error: %v", err))
		status.ErrorCount++
	}

	if status.ErrorCount > 0 {
		status.Healthy = false
		status.Corrupted = true
	}

	return status
}

// CheckIntegrity returns ErrDatabaseCorrupted when the integrity scan fails.
func (d *DB) CheckIntegrity() error {
	status := CheckDatabaseIntegrity(d)
	if status.Healthy {
		return nil
	}
	return errors.NewSystemErrorWithOp("integrity check",
		strings.Join(status.Errors, "; "), errors.ErrDatabaseCorrupted)
}

// IsDatabaseCorrupted checks if the given error indicates database corruption.
func IsDatabaseCorrupted(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, errors.ErrDatabaseCorrupted) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"checksum mismatch", "corrupt", "unexpected eof", "bad magic", "truncated"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// Quarantine moves a state directory aside so a fresh one can be created.
// It returns the path the old directory was moved to.
func Quarantine(dbPath string, now time.Time) (string, error) {
	if dbPath == "" {
		return "", fmt.Errorf("database path is empty")
	}

	dest := filepath.Join(filepath.Dir(dbPath),
		fmt.Sprintf("%s-corrupt-%s", filepath.Base(dbPath), now.Format("20060102-150405")))
	if err := os.Rename(dbPath, dest); err != nil {
		return "", fmt.Errorf("failed to move state database aside: %w", err)
	}

	logging.Warn("state database quarantined", logging.KeyOperation, "quarantine", logging.KeyPath, dest)
	return dest, nil
}

// OpenState opens the state database in dataDir. The state only holds caches
// and the undo journal, so a corrupted database is moved aside and recreated.
func OpenState(dataDir string) (*DB, error) {
	path := StatePath(dataDir)

	db, err := OpenWithIntegrityCheck(Options{Path: path})
	if err == nil {
		return db, nil
	}
	if !IsDatabaseCorrupted(err) {
		return nil, errors.NewSystemErrorWithOp("open state", "cannot open state database", err)
	}

	logging.Warn("state database corrupted, recreating", logging.KeyPath, path, logging.KeyError, err)
	if _, qerr := Quarantine(path, time.Now()); qerr != nil {
		return nil, errors.NewSystemErrorWithOp("open state", "cannot recover state database", qerr)
	}
	return Open(Options{Path: path})
}
