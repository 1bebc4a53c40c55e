package storage

import (
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

const (
	bucketRuns     = "runs"
	bucketRunIndex = "run_index"
)

// ErrRunNotFound is returned when a run ID has no stored record
var ErrRunNotFound = errors.New("drift run not found")

// PersistenceError reports a history store that could not be opened, read
// or written. For check-drift it is fatal: an unsaved run is a failed run.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("history store: %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Store wraps a bbolt database holding the drift run history
type Store struct {
	db  *bbolt.DB
	now func() time.Time
}

// NewStore opens a bbolt database at the given path and initializes required buckets
func NewStore(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, &PersistenceError{Op: "open " + path, Err: err}
	}

	// Create required buckets
	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketRuns)); err != nil {
			return err
		}
		if _, err := tx.CreateBucketIfNotExists([]byte(bucketRunIndex)); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, &PersistenceError{Op: "init buckets", Err: err}
	}

	return &Store{db: db, now: time.Now}, nil
}

// Path returns the database file location
func (s *Store) Path() string {
	return s.db.Path()
}

// Close closes the bbolt database
func (s *Store) Close() error {
	return s.db.Close()
}
