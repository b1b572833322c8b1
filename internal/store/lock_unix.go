//go:build unix

package store

import (
	"os"
	"syscall"
)

// tryLock attempts to acquire an exclusive lock without blocking.
// It fails with EWOULDBLOCK while another process holds the lock.
func (l *writeLocker) tryLock() error {
	return syscall.Flock(int(l.lockFile.Fd()), syscall.LOCK_EX|syscall.LOCK_NB)
}

// unlock releases the flock.
func (l *writeLocker) unlock() {
	if l.lockFile != nil {
		syscall.Flock(int(l.lockFile.Fd()), syscall.LOCK_UN)
	}
}

// isProcessAlive reports whether pid names a running process.
func isProcessAlive(pid int) bool {
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	// FindProcess always succeeds on Unix; signal 0 checks that it exists.
	return process.Signal(syscall.Signal(0)) == nil
}
