package fsck

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/logosito/svcs-go/internal/objects"
	"github.com/logosito/svcs-go/internal/store"
)

func newScanEnv(t *testing.T) (*store.FileStore, *Cache) {
	t.Helper()
	dir := t.TempDir()
	s, err := store.New(filepath.Join(dir, "objects"))
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	cache, err := OpenCache(filepath.Join(dir, "fsck.db"))
	if err != nil {
		t.Fatalf("OpenCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return s, cache
}

func TestScanCleanStoreReportsNoFindings(t *testing.T) {
	s, cache := newScanEnv(t)
	for _, c := range []string{"one", "two", "three"} {
		if err := s.Save(objects.NewBlob([]byte(c))); err != nil {
			t.Fatalf("Save: %v", err)
		}
	}

	report, err := Scan(s, cache)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if !report.Clean() {
		t.Fatalf("expected clean report, got findings: %+v", report.Findings)
	}
	if report.Scanned != 3 {
		t.Fatalf("expected 3 scanned, got %d", report.Scanned)
	}
}

func TestSecondScanSkipsUnchangedObjects(t *testing.T) {
	s, cache := newScanEnv(t)
	if err := s.Save(objects.NewBlob([]byte("stable"))); err != nil {
		t.Fatalf("Save: %v", err)
	}

	if _, err := Scan(s, cache); err != nil {
		t.Fatalf("first Scan: %v", err)
	}
	report, err := Scan(s, cache)
	if err != nil {
		t.Fatalf("second Scan: %v", err)
	}
	if report.Scanned != 0 || report.Skipped != 1 {
		t.Fatalf("expected second scan to skip the cached object, got %+v", report)
	}
}

func TestScanDetectsTamperedObject(t *testing.T) {
	s, cache := newScanEnv(t)
	blob := objects.NewBlob([]byte("original"))
	if err := s.Save(blob); err != nil {
		t.Fatalf("Save: %v", err)
	}

	path := filepath.Join(s.Root(), string(blob.ID())[:2], string(blob.ID())[2:])
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	tampered := append([]byte(nil), raw...)
	tampered[len(tampered)-1] ^= 0xff
	if err := os.WriteFile(path, tampered, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	report, err := Scan(s, cache)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if report.Clean() {
		t.Fatalf("expected a finding for the tampered object")
	}
}
