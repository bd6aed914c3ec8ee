//go:build windows

package storage

import "errors"

// GetDiskSpace is not implemented on Windows; CheckDiskSpace then allows the write.
func GetDiskSpace(path string) (*DiskSpaceInfo, error) {
	return nil, errors.New("disk space check not supported on windows")
}

func isDiskFullError(err error) bool {
	return false
}
