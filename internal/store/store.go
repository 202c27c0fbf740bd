// Package store implements the sharded, content-addressed persistence layer
// for objects.Object values: save, load, and exists, with integrity
// verification on every load.
package store

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/logosito/svcs-go/internal/codec"
	"github.com/logosito/svcs-go/internal/events"
	"github.com/logosito/svcs-go/internal/objects"
	"github.com/logosito/svcs-go/internal/storeerr"
)

// FileStore persists objects under root, sharded by the first two
// characters of their identity: root/XX/YYYY...
type FileStore struct {
	root string
	sink events.Sink
}

// New creates a FileStore rooted at path, creating the directory if absent.
func New(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, storeerr.New(storeerr.IoFailure, "", root, err)
	}
	return &FileStore{root: root, sink: events.NoopSink{}}, nil
}

// SetSink installs the event sink used for informational and error events.
// A nil sink installs NoopSink.
func (s *FileStore) SetSink(sink events.Sink) {
	if sink == nil {
		sink = events.NoopSink{}
	}
	s.sink = sink
}

func (s *FileStore) pathFor(id objects.ObjectID) string {
	str := string(id)
	return filepath.Join(s.root, str[:2], str[2:])
}

// Save writes obj to its content-addressed path, compressing the framed
// form, truncating whatever was there before. It is idempotent: saving the
// same object twice leaves the same bytes on disk. It is also the only
// repair path the store has — since identity is a pure function of
// content, re-saving the correct object overwrites a corrupted or tampered
// file at the same path with a correct one, rather than skipping it.
func (s *FileStore) Save(obj objects.Object) error {
	id := obj.ID()
	if !id.Valid() {
		err := storeerr.New(storeerr.InvalidInput, string(id), "", fmt.Errorf("identity is not 64 lowercase hex characters"))
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: string(id), Message: err.Error()})
		return err
	}

	path := s.pathFor(id)

	framed := objects.Frame(obj.Kind(), obj.Payload())
	compressed, err := codec.Compress(framed)
	if err != nil {
		wrapped := storeerr.New(storeerr.CodecFailure, string(id), path, err)
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
		return wrapped
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		wrapped := storeerr.New(storeerr.IoFailure, string(id), dir, err)
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
		return wrapped
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, compressed, 0o644); err != nil {
		wrapped := storeerr.New(storeerr.IoFailure, string(id), path, err)
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
		return wrapped
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		wrapped := storeerr.New(storeerr.IoFailure, string(id), path, err)
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
		return wrapped
	}

	s.sink.Publish(events.Event{Kind: events.ObjectSaved, Identity: id.Short(8), Path: path})
	return nil
}

// Load reads, decompresses, and verifies the object named id, dispatching to
// the appropriate type parser. Every corruption is surfaced as a distinct
// error kind; none is silently recovered.
func (s *FileStore) Load(id objects.ObjectID) (objects.Object, error) {
	if !id.Valid() {
		return nil, storeerr.New(storeerr.InvalidInput, string(id), "", fmt.Errorf("identity is not 64 lowercase hex characters"))
	}

	path := s.pathFor(id)
	compressed, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			wrapped := storeerr.New(storeerr.NotFound, string(id), path, err)
			s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
			return nil, wrapped
		}
		wrapped := storeerr.New(storeerr.IoFailure, string(id), path, err)
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
		return nil, wrapped
	}

	framed, err := codec.Decompress(compressed, id.Short(8))
	if err != nil {
		wrapped := storeerr.New(storeerr.CodecFailure, string(id), path, err)
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: wrapped.Error()})
		return nil, wrapped
	}

	obj, err := decodeFramed(id, framed)
	if err != nil {
		s.sink.Publish(events.Event{Kind: events.ErrorRaised, Identity: id.Short(8), Message: err.Error()})
		return nil, err
	}

	s.sink.Publish(events.Event{Kind: events.ObjectLoaded, Identity: id.Short(8), Path: path})
	return obj, nil
}

// decodeFramed parses framed bytes into an Object, verifying the NUL
// separator, header length, and digest against the requested identity.
func decodeFramed(id objects.ObjectID, framed []byte) (objects.Object, error) {
	sep := bytes.IndexByte(framed, 0)
	if sep < 0 {
		return nil, storeerr.New(storeerr.Malformed, string(id), "", fmt.Errorf("missing NUL after header"))
	}
	header := string(framed[:sep])
	payload := framed[sep+1:]

	var kindStr string
	var length int
	if _, err := fmt.Sscanf(header, "%s %d", &kindStr, &length); err != nil {
		return nil, storeerr.New(storeerr.Malformed, string(id), "", fmt.Errorf("invalid header %q: %w", header, err))
	}
	if length != len(payload) {
		return nil, storeerr.New(storeerr.IntegrityFailure, string(id), "", fmt.Errorf("payload length %d disagrees with header length %d", len(payload), length))
	}

	if got := objects.Digest(framed); got != id {
		return nil, storeerr.New(storeerr.IntegrityFailure, string(id), "", fmt.Errorf("recomputed digest %s disagrees with requested identity", got))
	}

	obj, err := objects.Parse(objects.Kind(kindStr), payload)
	if err != nil {
		return nil, storeerr.New(storeerr.Malformed, string(id), "", err)
	}
	return obj, nil
}

// Exists is a pure filesystem existence check: no parse, no integrity
// verification.
func (s *FileStore) Exists(id objects.ObjectID) (bool, error) {
	if !id.Valid() {
		return false, storeerr.New(storeerr.InvalidInput, string(id), "", fmt.Errorf("identity is not 64 lowercase hex characters"))
	}
	_, err := os.Stat(s.pathFor(id))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, storeerr.New(storeerr.IoFailure, string(id), s.pathFor(id), err)
}

// Root returns the store's root directory.
func (s *FileStore) Root() string { return s.root }

// ReadRaw returns the exact compressed bytes on disk for id, with no
// decompression or verification. Used by fsck to fingerprint an object's
// current on-disk form cheaply, before deciding whether a full Load (which
// does verify) is warranted.
func (s *FileStore) ReadRaw(id objects.ObjectID) ([]byte, error) {
	if !id.Valid() {
		return nil, storeerr.New(storeerr.InvalidInput, string(id), "", fmt.Errorf("identity is not 64 lowercase hex characters"))
	}
	path := s.pathFor(id)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, storeerr.New(storeerr.NotFound, string(id), path, err)
		}
		return nil, storeerr.New(storeerr.IoFailure, string(id), path, err)
	}
	return data, nil
}

// Walk calls fn with the identity of every object currently on disk. Used by
// fsck to enumerate the full object set without the caller needing to know
// every identity in advance.
func (s *FileStore) Walk(fn func(objects.ObjectID) error) error {
	shards, err := os.ReadDir(s.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return storeerr.New(storeerr.IoFailure, "", s.root, err)
	}
	for _, shard := range shards {
		if !shard.IsDir() || len(shard.Name()) != 2 {
			continue
		}
		shardPath := filepath.Join(s.root, shard.Name())
		files, err := os.ReadDir(shardPath)
		if err != nil {
			return storeerr.New(storeerr.IoFailure, "", shardPath, err)
		}
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			id := objects.ObjectID(shard.Name() + f.Name())
			if !id.Valid() {
				continue
			}
			if err := fn(id); err != nil {
				return err
			}
		}
	}
	return nil
}
