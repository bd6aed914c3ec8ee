package storage

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/manav03panchal/studiodesk/internal/errors"
)

const (
	// LockFileName is the name of the lock file in the data directory.
	LockFileName = "studiodesk.lock"
)

var (
	// ErrLockAcquireFailed is returned when the lock cannot be acquired.
	ErrLockAcquireFailed = stderrors.New("failed to acquire data directory lock")
	// ErrLockAlreadyHeld is returned when another process holds the lock.
	ErrLockAlreadyHeld = stderrors.New("data directory is locked by another process")
)

// FileLock is an advisory lock on the data directory. One studiodesk process
// writes the CSV files at a time.
type FileLock struct {
	path string
	file *os.File
}

// NewFileLock creates a new file lock in the specified directory.
func NewFileLock(dir string) *FileLock {
	return &FileLock{
		path: filepath.Join(dir, LockFileName),
	}
}

// Acquire takes the lock without blocking. When another live process holds
// it, the returned *LockError carries that process' PID.
func (l *FileLock) Acquire() error {
	if err := l.cleanStaleLock(); err != nil {
		return err
	}

	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_RDWR, 0644)
	if err != nil {
		return &LockError{Err: fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)}
	}

	if err := flockAcquire(file); err != nil {
		file.Close()
		return &LockError{Err: err, PID: l.readPID()}
	}

	if err := writePID(file); err != nil {
		flockRelease(file)
		file.Close()
		return &LockError{Err: fmt.Errorf("%w: %v", ErrLockAcquireFailed, err)}
	}

	l.file = file
	return nil
}

func writePID(file *os.File) error {
	if err := file.Truncate(0); err != nil {
		return err
	}
	if _, err := file.Seek(0, 0); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(file, "%d", os.Getpid()); err != nil {
		return err
	}
	return file.Sync()
}

// Release releases the lock. Releasing twice is a no-op.
func (l *FileLock) Release() error {
	if l.file == nil {
		return nil
	}

	if err := flockRelease(l.file); err != nil {
		l.file.Close()
		l.file = nil
		return err
	}

	if err := l.file.Close(); err != nil {
		l.file = nil
		return err
	}
	l.file = nil

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// cleanStaleLock removes a lock file left behind by a process that is gone.
func (l *FileLock) cleanStaleLock() error {
	pid := l.readPID()
	if pid <= 0 || isProcessRunning(pid) {
		return nil
	}

	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clean stale lock: %v", err)
	}
	return nil
}

// readPID returns the PID stored in the lock file, or 0.
func (l *FileLock) readPID() int {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return 0
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}

// LockError provides a user-friendly error message for lock failures.
type LockError struct {
	Err error
	PID int
}

func (e *LockError) Error() string {
	if e.PID > 0 {
		return fmt.Sprintf("cannot access data directory: another studiodesk instance (PID %d) is running", e.PID)
	}
	return fmt.Sprintf("cannot access data directory: %v", e.Err)
}

func (e *LockError) Unwrap() error {
	return e.Err
}

// Is matches errors.ErrLockHeld when another process holds the lock.
func (e *LockError) Is(target error) bool {
	return target == errors.ErrLockHeld && stderrors.Is(e.Err, ErrLockAlreadyHeld)
}
