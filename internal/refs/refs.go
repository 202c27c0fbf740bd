// Package refs stores the single stored commit pointer the core's Non-goals
// carve out ("branch/ref management beyond a single stored commit chain"):
// one HEAD, pointing at the most recently sealed commit's identity.
package refs

import (
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/logosito/svcs-go/internal/objects"
)

var bucketHead = []byte("head")

const headKey = "HEAD"

// Store wraps a bbolt database holding exactly one pointer.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if absent) the ref store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, fmt.Errorf("refs: open: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketHead)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("refs: init: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error { return s.db.Close() }

// WriteHead records commitID as the current HEAD.
func (s *Store) WriteHead(commitID objects.ObjectID) error {
	if !commitID.Valid() {
		return fmt.Errorf("refs: refusing to write invalid commit identity %q", commitID)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketHead).Put([]byte(headKey), []byte(commitID))
	})
}

// ReadHead returns the current HEAD commit identity, and false if none has
// ever been written.
func (s *Store) ReadHead() (objects.ObjectID, bool, error) {
	var id objects.ObjectID
	var ok bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketHead).Get([]byte(headKey))
		if v != nil {
			id = objects.ObjectID(string(v))
			ok = true
		}
		return nil
	})
	if err != nil {
		return "", false, fmt.Errorf("refs: read head: %w", err)
	}
	return id, ok, nil
}
