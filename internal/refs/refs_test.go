package refs

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/logosito/svcs-go/internal/objects"
)

func TestReadHeadAbsentInitially(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	_, ok, err := s.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if ok {
		t.Fatalf("expected no HEAD before any commit sealed")
	}
}

func TestWriteThenReadHead(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	id := objects.ObjectID(strings.Repeat("a", 64))
	if err := s.WriteHead(id); err != nil {
		t.Fatalf("WriteHead: %v", err)
	}

	got, ok, err := s.ReadHead()
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if !ok || got != id {
		t.Fatalf("got %s, ok=%v, want %s", got, ok, id)
	}
}

func TestWriteHeadRejectsInvalidIdentity(t *testing.T) {
	s, err := Open(filepath.Join(t.TempDir(), "refs.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	if err := s.WriteHead(objects.ObjectID("short")); err == nil {
		t.Fatalf("expected error writing invalid identity")
	}
}
