package index

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/logosito/svcs-go/internal/objects"
	"github.com/logosito/svcs-go/internal/store"
)

func newTestIndex(t *testing.T) (*Index, string) {
	t.Helper()
	repoDir := t.TempDir()
	objRoot := filepath.Join(repoDir, ".svcs", "objects")
	s, err := store.New(objRoot)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	ix, err := New(filepath.Join(repoDir, ".svcs", "index"), repoDir, s)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return ix, repoDir
}

func writeFile(t *testing.T, dir, relPath, content string) {
	t.Helper()
	full := filepath.Join(dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestStageRecordsEntryAndIsUnmodified(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	writeFile(t, repoDir, "a.txt", "hello")

	if err := ix.Stage("a.txt"); err != nil {
		t.Fatalf("Stage: %v", err)
	}
	if ix.IsModified("a.txt") {
		t.Fatalf("expected unmodified immediately after stage")
	}

	entry, ok := ix.Get("a.txt")
	if !ok {
		t.Fatalf("expected entry for a.txt")
	}
	if entry.BlobID != objects.NewBlob([]byte("hello")).ID() {
		t.Fatalf("unexpected blob id")
	}
}

func TestStageRejectsMissingOrDirectory(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	if err := ix.Stage("missing.txt"); err == nil {
		t.Fatalf("expected error staging missing path")
	}
	if err := os.MkdirAll(filepath.Join(repoDir, "adir"), 0o755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}
	if err := ix.Stage("adir"); err == nil {
		t.Fatalf("expected error staging a directory")
	}
}

func TestIsModifiedDetectsRemovalGrowthAndShrink(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	writeFile(t, repoDir, "a.txt", "hello")
	if err := ix.Stage("a.txt"); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	if err := os.Remove(filepath.Join(repoDir, "a.txt")); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if !ix.IsModified("a.txt") {
		t.Fatalf("expected modified after removal")
	}

	writeFile(t, repoDir, "a.txt", "hello world, now longer")
	if !ix.IsModified("a.txt") {
		t.Fatalf("expected modified after growth")
	}

	writeFile(t, repoDir, "a.txt", "h")
	if !ix.IsModified("a.txt") {
		t.Fatalf("expected modified after shrink")
	}
}

func TestIsModifiedRehashesOnEqualSizeDifferentMtime(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	writeFile(t, repoDir, "a.txt", "abcde")
	if err := ix.Stage("a.txt"); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	full := filepath.Join(repoDir, "a.txt")
	if err := os.WriteFile(full, []byte("zzzzz"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(full, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	if !ix.IsModified("a.txt") {
		t.Fatalf("expected modified: same size, different content, advanced mtime")
	}
}

func TestIsModifiedUntrackedButPresent(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	writeFile(t, repoDir, "untracked.txt", "surprise")
	if !ix.IsModified("untracked.txt") {
		t.Fatalf("expected modified for untracked-but-present file")
	}
}

func TestSaveAndReloadRoundTrip(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	writeFile(t, repoDir, "a.txt", "hello")
	if err := ix.Stage("a.txt"); err != nil {
		t.Fatalf("Stage: %v", err)
	}

	objRoot := filepath.Join(repoDir, ".svcs", "objects")
	s2, err := store.New(objRoot)
	if err != nil {
		t.Fatalf("store.New: %v", err)
	}
	reloaded, err := New(filepath.Join(repoDir, ".svcs", "index"), repoDir, s2)
	if err != nil {
		t.Fatalf("New (reload): %v", err)
	}
	entry, ok := reloaded.Get("a.txt")
	if !ok {
		t.Fatalf("expected reloaded entry for a.txt")
	}
	original, _ := ix.Get("a.txt")
	if entry.BlobID != original.BlobID || entry.Size != original.Size {
		t.Fatalf("reloaded entry mismatch: got %+v, want %+v", entry, original)
	}
}

func TestBuildTreeEmptyIndexFails(t *testing.T) {
	ix, _ := newTestIndex(t)
	if _, err := ix.BuildTree(); err == nil {
		t.Fatalf("expected error building tree from empty index")
	}
}

func TestBuildTreeBottomUp(t *testing.T) {
	ix, repoDir := newTestIndex(t)
	writeFile(t, repoDir, "a.txt", "root file")
	writeFile(t, repoDir, "sub/b.txt", "sub file")
	writeFile(t, repoDir, "sub/deep/c.txt", "deep file")

	for _, p := range []string{"a.txt", "sub/b.txt", "sub/deep/c.txt"} {
		if err := ix.Stage(p); err != nil {
			t.Fatalf("Stage(%s): %v", p, err)
		}
	}

	rootID, err := ix.BuildTree()
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	s := ix.store.(*store.FileStore)
	rootObj, err := s.Load(rootID)
	if err != nil {
		t.Fatalf("Load root: %v", err)
	}
	rootTree := rootObj.(*objects.Tree)
	if len(rootTree.Entries()) != 2 {
		t.Fatalf("expected 2 root entries (a.txt, sub), got %d", len(rootTree.Entries()))
	}
	aEntry, ok := rootTree.Find("a.txt")
	if !ok || aEntry.Target != objects.TargetBlob {
		t.Fatalf("expected root to contain a.txt blob entry")
	}
	subEntry, ok := rootTree.Find("sub")
	if !ok || subEntry.Target != objects.TargetTree {
		t.Fatalf("expected root to contain sub tree entry")
	}

	subObj, err := s.Load(subEntry.ID)
	if err != nil {
		t.Fatalf("Load sub: %v", err)
	}
	subTree := subObj.(*objects.Tree)
	if len(subTree.Entries()) != 2 {
		t.Fatalf("expected 2 sub entries (b.txt, deep), got %d", len(subTree.Entries()))
	}
	bEntry, ok := subTree.Find("b.txt")
	if !ok || bEntry.Target != objects.TargetBlob {
		t.Fatalf("expected sub to contain b.txt blob entry")
	}
	deepEntry, ok := subTree.Find("deep")
	if !ok || deepEntry.Target != objects.TargetTree {
		t.Fatalf("expected sub to contain deep tree entry")
	}

	deepObj, err := s.Load(deepEntry.ID)
	if err != nil {
		t.Fatalf("Load deep: %v", err)
	}
	deepTree := deepObj.(*objects.Tree)
	if len(deepTree.Entries()) != 1 {
		t.Fatalf("expected 1 deep entry (c.txt), got %d", len(deepTree.Entries()))
	}
	if _, ok := deepTree.Find("c.txt"); !ok {
		t.Fatalf("expected deep to contain c.txt")
	}

	rootID2, err := ix.BuildTree()
	if err != nil {
		t.Fatalf("second BuildTree: %v", err)
	}
	if rootID2 != rootID {
		t.Fatalf("expected deterministic rebuild: got %s, want %s", rootID2, rootID)
	}
}
