package database

import (
	"github.com/gofrs/flock"
	"github.com/pkg/errors"
)

// ErrLocked is returned when another session already holds the lock.
var ErrLocked = errors.New("another session is already using this database")

// Lock is an advisory lock file held for the lifetime of a session so two
// sessions never write to the same database file.
type Lock struct {
	path string
	lock *flock.Flock
}

// LockPath returns the lock file used for a database file.
func LockPath(databaseFilePath string) string {
	return databaseFilePath + ".lock"
}

// AcquireLock takes the lock at path without waiting. ErrLocked means another
// process holds it.
func AcquireLock(path string) (*Lock, error) {
	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, errors.Wrapf(err, "failed to acquire lock %s", path)
	}
	if !ok {
		return nil, errors.Wrap(ErrLocked, path)
	}
	return l, nil
}

func (l *Lock) Path() string {
	return l.path
}

func (l *Lock) Release() error {
	return errors.WithStack(l.lock.Unlock())
}
