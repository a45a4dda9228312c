//go:build windows

package dbase

import (
	"math"
	"os"

	"golang.org/x/sys/windows"
)

// lockFile takes a lock on the whole file without blocking.
func lockFile(f *os.File, exclusive bool) error {
	flags := uint32(windows.LOCKFILE_FAIL_IMMEDIATELY)
	if exclusive {
		flags |= windows.LOCKFILE_EXCLUSIVE_LOCK
	}
	o := &windows.Overlapped{}
	return windows.LockFileEx(windows.Handle(f.Fd()), flags, 0, math.MaxUint32, math.MaxUint32, o)
}

func unlockFile(f *os.File) error {
	o := &windows.Overlapped{}
	return windows.UnlockFileEx(windows.Handle(f.Fd()), 0, math.MaxUint32, math.MaxUint32, o)
}
