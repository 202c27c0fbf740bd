// Package fsck implements a standalone integrity sweep over the object
// store: re-verify every stored object's framing and digest, and maintain a
// fast non-authoritative fingerprint cache so repeat scans can skip objects
// that have not changed since they were last verified clean.
//
// The cache is keyed by a BLAKE3 fingerprint of the compressed on-disk
// bytes, not by the object's SHA-256 identity — identity itself stays fixed
// to SHA-256 per the object model. BLAKE3 here is purely a fast "has this
// file's bytes changed since I last checked" signal backed by bbolt.
package fsck

import (
	"fmt"

	"go.etcd.io/bbolt"
	"lukechampine.com/blake3"

	"github.com/logosito/svcs-go/internal/objects"
	"github.com/logosito/svcs-go/internal/store"
)

var bucketVerified = []byte("verified-fingerprints")

// Cache wraps a bbolt database recording, per object identity, the BLAKE3
// fingerprint of the on-disk bytes last seen clean.
type Cache struct {
	db *bbolt.DB
}

// OpenCache opens (creating if absent) the verification cache at path.
func OpenCache(path string) (*Cache, error) {
	db, err := bbolt.Open(path, 0o666, nil)
	if err != nil {
		return nil, fmt.Errorf("fsck: open cache: %w", err)
	}
	if err := db.Update(func(tx *bbolt.Tx) error {
		_, e := tx.CreateBucketIfNotExists(bucketVerified)
		return e
	}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("fsck: init cache: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close releases the underlying database handle.
func (c *Cache) Close() error { return c.db.Close() }

func (c *Cache) fingerprintFor(id objects.ObjectID) ([]byte, bool) {
	var fp []byte
	_ = c.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketVerified).Get([]byte(id))
		if v != nil {
			fp = append([]byte(nil), v...)
		}
		return nil
	})
	return fp, fp != nil
}

func (c *Cache) markVerified(id objects.ObjectID, fingerprint [32]byte) error {
	return c.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketVerified).Put([]byte(id), fingerprint[:])
	})
}

// Finding describes one object that failed verification.
type Finding struct {
	ID    objects.ObjectID
	Error error
}

// Report summarizes one fsck pass.
type Report struct {
	Scanned  int
	Skipped  int
	Findings []Finding
}

// Clean reports whether the scan found zero integrity problems.
func (r Report) Clean() bool { return len(r.Findings) == 0 }

// Scan walks every object in s, re-verifying each one that the cache has not
// already marked clean at its current on-disk fingerprint, and records the
// result for clean objects so the next Scan can skip them.
func Scan(s *store.FileStore, cache *Cache) (Report, error) {
	var report Report

	err := s.Walk(func(id objects.ObjectID) error {
		raw, readErr := s.ReadRaw(id)
		if readErr != nil {
			report.Findings = append(report.Findings, Finding{ID: id, Error: readErr})
			return nil
		}

		fingerprint := blake3.Sum256(raw)

		if cache != nil {
			if cached, ok := cache.fingerprintFor(id); ok {
				if string(cached) == string(fingerprint[:]) {
					report.Skipped++
					return nil
				}
			}
		}

		report.Scanned++
		if _, err := s.Load(id); err != nil {
			report.Findings = append(report.Findings, Finding{ID: id, Error: err})
			return nil
		}

		if cache != nil {
			if err := cache.markVerified(id, fingerprint); err != nil {
				return fmt.Errorf("fsck: record verified fingerprint for %s: %w", id, err)
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	return report, nil
}
