// Package filelock provides advisory locks on a sidecar lock file so that
// several gradwatch processes (dashboard, watch mode, one-shot commands) can
// share one cache file.
package filelock

import "os"

const lockFileMode = 0o600

// Unlock releases a lock obtained from Lock or RLock.
type Unlock func() error

// Lock takes an exclusive lock on path, creating the file if needed.
// It blocks until no other process holds a shared or exclusive lock.
func Lock(path string) (Unlock, error) {
	return acquire(path, true)
}

// RLock takes a shared lock on path. Any number of readers may hold it
// while no writer holds the exclusive lock.
func RLock(path string) (Unlock, error) {
	return acquire(path, false)
}

// With runs fn while holding the exclusive lock on path.
func With(path string, fn func() error) error {
	unlock, err := Lock(path)
	if err != nil {
		return err
	}
	fnErr := fn()
	if err := unlock(); err != nil && fnErr == nil {
		return err
	}
	return fnErr
}

func acquire(path string, exclusive bool) (Unlock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, lockFileMode) //nolint:gosec // lock path derives from the config dir
	if err != nil {
		return nil, err
	}
	if err := lockFile(f, exclusive); err != nil {
		_ = f.Close()
		return nil, err
	}
	return func() error {
		unlockErr := unlockFile(f)
		if closeErr := f.Close(); unlockErr == nil {
			return closeErr
		}
		return unlockErr
	}, nil
}
