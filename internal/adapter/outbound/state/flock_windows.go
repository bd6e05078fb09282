//go:build windows

package state

import "golang.org/x/sys/windows"

// flockLock takes an exclusive lock on the policy lock sidecar via
// LockFileEx, blocking like the Unix flock path. One byte of lock range is
// enough; the sidecar carries no data.
func flockLock(fd uintptr) error {
	var ol windows.Overlapped
	return windows.LockFileEx(windows.Handle(fd), windows.LOCKFILE_EXCLUSIVE_LOCK, 0, 1, 0, &ol)
}

// flockUnlock releases the lock taken by flockLock.
func flockUnlock(fd uintptr) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(windows.Handle(fd), 0, 1, 0, &ol)
}
