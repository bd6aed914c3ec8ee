package storage

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/manav03panchal/studiodesk/internal/errors"
)

const (
	mb = 1024 * 1024

	// MinFreeSpace is the free space a write needs.
	MinFreeSpace = 10 * mb
	// MinFreeSpaceWarning is where LowSpaceWarning starts to report.
	MinFreeSpaceWarning = 50 * mb
)

// DiskSpaceInfo contains information about available disk space.
type DiskSpaceInfo struct {
	Path       string
	TotalBytes uint64
	FreeBytes  uint64
	UsedBytes  uint64
}

// FreePercent returns the percentage of free space.
func (d *DiskSpaceInfo) FreePercent() float64 {
	if d.TotalBytes == 0 {
		return 0
	}
	return float64(d.FreeBytes) / float64(d.TotalBytes) * 100
}

// CheckDiskSpace returns ErrDiskFull when free space at path is below
// MinFreeSpace. Unknown free space allows the write.
func CheckDiskSpace(path string) error {
	info, err := GetDiskSpace(path)
	if err != nil || info.FreeBytes >= MinFreeSpace {
		return nil
	}
	return errors.NewSystemError(
		fmt.Sprintf("insufficient disk space: %d MB free, need at least %d MB",
			info.FreeBytes/mb, MinFreeSpace/mb),
		errors.ErrDiskFull,
	)
}

// LowSpaceWarning describes low free space under path, or returns "".
func LowSpaceWarning(path string) string {
	info, err := GetDiskSpace(path)
	if err != nil || info.FreeBytes >= MinFreeSpaceWarning {
		return ""
	}
	return fmt.Sprintf("low disk space: %d MB free (%.1f%%)", info.FreeBytes/mb, info.FreePercent())
}

// ioError maps a failed file operation to ErrDiskFull when the device is
// full.
func ioError(op string, err error) error {
	if isDiskFullError(err) {
		return errors.NewSystemErrorWithOp(op, "disk full", errors.ErrDiskFull)
	}
	return fmt.Errorf("%s: %w", op, err)
}

// SafeWrite replaces path with data atomically. Data goes to a temp file
// in the same directory which is synced and renamed over path, so readers
// see the old file or the new one.
func SafeWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := CheckDiskSpace(dir); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".studiodesk-*.tmp")
	if err != nil {
		return ioError("create temp file", err)
	}
	tmpPath := tmp.Name()
	committed := false
	defer func() {
		if !committed {
			os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return ioError("write", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return ioError("sync", err)
	}
	if err := tmp.Close(); err != nil {
		return ioError("close temp file", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		return fmt.Errorf("set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("replace %s: %w", filepath.Base(path), err)
	}

	committed = true
	return nil
}

// EnsureDirectory creates path and its parents as 0700 when missing.
func EnsureDirectory(path string) error {
	if err := CheckDiskSpace(filepath.Dir(path)); err != nil {
		return err
	}
	if err := os.MkdirAll(path, 0700); err != nil {
		return ioError("mkdir", err)
	}
	return nil
}
