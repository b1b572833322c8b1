package store

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultTimeout = 2 * time.Second
	initialBackoff = 5 * time.Millisecond
	maxBackoff     = 50 * time.Millisecond
)

// writeLocker holds an OS file lock beside the library database. The OS
// drops the lock when the process exits, crashes included.
type writeLocker struct {
	lockPath string
	lockFile *os.File
}

// newWriteLocker creates a locker for the lock file at lockPath.
func newWriteLocker(lockPath string) *writeLocker {
	return &writeLocker{lockPath: lockPath}
}

// acquire waits up to timeout for the exclusive lock, backing off
// exponentially between attempts. The error names the current holder.
func (l *writeLocker) acquire(timeout time.Duration) error {
	// Open or create lock file
	f, err := os.OpenFile(l.lockPath, os.O_CREATE|os.O_RDWR, 0600)
	if err != nil {
		return fmt.Errorf("open lock file: %w", err)
	}
	l.lockFile = f

	deadline := time.Now().Add(timeout)
	backoff := initialBackoff

	for {
		// Non-blocking exclusive lock (platform-specific)
		if err := l.tryLock(); err == nil {
			// Record holder info for diagnostics
			l.writeHolder()
			return nil
		}

		if time.Now().After(deadline) {
			holder := l.readHolder()
			l.lockFile.Close()
			l.lockFile = nil
			return fmt.Errorf("library is locked (waited %v)\n  holder: %s", timeout, holder)
		}

		// Exponential backoff with cap
		time.Sleep(backoff)
		if backoff < maxBackoff {
			backoff = min(backoff*2, maxBackoff)
		}
	}
}

// release drops the write lock. Releasing an unheld lock is a no-op.
func (l *writeLocker) release() error {
	if l.lockFile == nil {
		return nil
	}

	// Clear holder info
	l.lockFile.Truncate(0)

	l.unlock()
	l.lockFile.Close()
	l.lockFile = nil
	return nil
}

// writeHolder writes the current pid and time to the lock file.
func (l *writeLocker) writeHolder() {
	if l.lockFile == nil {
		return
	}
	l.lockFile.Truncate(0)
	l.lockFile.Seek(0, 0)
	fmt.Fprintf(l.lockFile, "pid:%d\ntime:%s\n", os.Getpid(), time.Now().Format(time.RFC3339))
	l.lockFile.Sync()
}

// readHolder describes the current holder, marking it stale when its
// process has gone.
func (l *writeLocker) readHolder() string {
	data, err := os.ReadFile(l.lockPath)
	if err != nil {
		return "unknown"
	}

	var pid, timestamp string
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if v, ok := strings.CutPrefix(line, "pid:"); ok {
			pid = v
		} else if v, ok := strings.CutPrefix(line, "time:"); ok {
			timestamp = v
		}
	}
	if pid == "" {
		return "unknown"
	}

	// A dead holder means the OS has already dropped its lock
	if n, err := strconv.Atoi(pid); err == nil && !isProcessAlive(n) {
		return fmt.Sprintf("pid:%s since %s (STALE - process dead)", pid, timestamp)
	}
	return fmt.Sprintf("pid:%s since %s", pid, timestamp)
}

// tryLock, unlock and isProcessAlive live in lock_unix.go and lock_windows.go.
