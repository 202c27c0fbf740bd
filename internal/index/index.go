// Package index implements the staging area: an ordered mapping from
// repository-relative paths to staged file identities, modification
// detection against the working copy, and the bottom-up tree builder that
// turns a staged snapshot into a hierarchy of Tree objects.
package index

import (
	"bufio"
	"fmt"
	"os"
	"path"
	"strconv"
	"strings"

	"github.com/logosito/svcs-go/internal/events"
	"github.com/logosito/svcs-go/internal/objects"
	"github.com/logosito/svcs-go/internal/storeerr"
)

// Entry is one staged file record.
type Entry struct {
	Path        string
	BlobID      objects.ObjectID
	Size        int64
	ModTimeUnix int64
}

// Saver is the subset of store.FileStore the index needs: saving blobs and
// trees built from the staged snapshot.
type Saver interface {
	Save(obj objects.Object) error
}

// Index holds the in-memory staged set, backed by a single text file at
// path. Repository-relative paths are always normalized to forward slashes.
type Index struct {
	path    string
	repoDir string
	order   []string
	entries map[string]Entry
	store   Saver
	sink    events.Sink
}

// New constructs an Index whose persistence file lives at indexPath and
// whose staged paths are resolved relative to repoDir. It loads any existing
// file immediately, per spec: "called implicitly at construction."
func New(indexPath, repoDir string, store Saver) (*Index, error) {
	ix := &Index{
		path:    indexPath,
		repoDir: repoDir,
		entries: make(map[string]Entry),
		store:   store,
		sink:    events.NoopSink{},
	}
	if err := ix.load(); err != nil {
		return nil, err
	}
	return ix, nil
}

// SetSink installs the event sink used for informational and error events.
func (ix *Index) SetSink(sink events.Sink) {
	if sink == nil {
		sink = events.NoopSink{}
	}
	ix.sink = sink
}

// load reads the index file if present. A missing file means an empty
// index; any other read failure is fatal.
func (ix *Index) load() error {
	f, err := os.Open(ix.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return storeerr.New(storeerr.IoFailure, "", ix.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		entry, ok := parseIndexLine(line)
		if !ok {
			continue
		}
		ix.set(entry)
	}
	if err := scanner.Err(); err != nil {
		return storeerr.New(storeerr.IoFailure, "", ix.path, err)
	}
	return nil
}

// parseIndexLine parses "blob_identity SP size SP mtime SP path"; the path
// may itself contain spaces, so everything past the third separator is the
// path. Lines that fail to parse the first three fields are skipped.
func parseIndexLine(line string) (Entry, bool) {
	i1 := strings.IndexByte(line, ' ')
	if i1 < 0 {
		return Entry{}, false
	}
	blobID := line[:i1]
	rest := line[i1+1:]

	i2 := strings.IndexByte(rest, ' ')
	if i2 < 0 {
		return Entry{}, false
	}
	sizeStr := rest[:i2]
	rest = rest[i2+1:]

	i3 := strings.IndexByte(rest, ' ')
	if i3 < 0 {
		return Entry{}, false
	}
	mtimeStr := rest[:i3]
	p := rest[i3+1:]

	size, err := strconv.ParseInt(sizeStr, 10, 64)
	if err != nil {
		return Entry{}, false
	}
	mtime, err := strconv.ParseInt(mtimeStr, 10, 64)
	if err != nil {
		return Entry{}, false
	}
	if p == "" {
		return Entry{}, false
	}
	return Entry{Path: p, BlobID: objects.ObjectID(blobID), Size: size, ModTimeUnix: mtime}, true
}

func (ix *Index) set(e Entry) {
	if _, exists := ix.entries[e.Path]; !exists {
		ix.order = append(ix.order, e.Path)
	}
	ix.entries[e.Path] = e
}

// Save persists the current in-memory state by truncating and rewriting the
// file. The spec's source exposes two historical entry points (save/write)
// that differ only in error-reporting style; this is the consolidated
// single operation returning a result value.
func (ix *Index) Save() error {
	f, err := os.Create(ix.path)
	if err != nil {
		return storeerr.New(storeerr.IoFailure, "", ix.path, err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for _, p := range ix.order {
		e := ix.entries[p]
		if _, err := fmt.Fprintf(w, "%s %d %d %s\n", e.BlobID, e.Size, e.ModTimeUnix, e.Path); err != nil {
			return storeerr.New(storeerr.IoFailure, "", ix.path, err)
		}
	}
	if err := w.Flush(); err != nil {
		return storeerr.New(storeerr.IoFailure, "", ix.path, err)
	}
	return nil
}

// normalizePath converts relativePath to forward-slash form, which is what
// every on-disk key and derived identity must use regardless of platform.
func normalizePath(relativePath string) string {
	return strings.ReplaceAll(relativePath, "\\", "/")
}

// Stage reads relativePath from disk, saves its content as a Blob, and
// records an Entry for it. relativePath must name a regular file that
// exists under the repository root.
func (ix *Index) Stage(relativePath string) error {
	normalized := normalizePath(relativePath)
	fullPath := path.Join(ix.repoDir, normalized)

	info, err := os.Stat(fullPath)
	if err != nil {
		if os.IsNotExist(err) {
			wrapped := storeerr.New(storeerr.InvalidInput, "", fullPath, fmt.Errorf("path does not exist"))
			ix.sink.Publish(events.Event{Kind: events.ErrorRaised, Path: fullPath, Message: wrapped.Error()})
			return wrapped
		}
		wrapped := storeerr.New(storeerr.IoFailure, "", fullPath, err)
		ix.sink.Publish(events.Event{Kind: events.ErrorRaised, Path: fullPath, Message: wrapped.Error()})
		return wrapped
	}
	if info.IsDir() {
		wrapped := storeerr.New(storeerr.InvalidInput, "", fullPath, fmt.Errorf("path is a directory"))
		ix.sink.Publish(events.Event{Kind: events.ErrorRaised, Path: fullPath, Message: wrapped.Error()})
		return wrapped
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		wrapped := storeerr.New(storeerr.IoFailure, "", fullPath, err)
		ix.sink.Publish(events.Event{Kind: events.ErrorRaised, Path: fullPath, Message: wrapped.Error()})
		return wrapped
	}

	blob := objects.NewBlob(data)
	if err := ix.store.Save(blob); err != nil {
		return err
	}

	entry := Entry{
		Path:        normalized,
		BlobID:      blob.ID(),
		Size:        info.Size(),
		ModTimeUnix: info.ModTime().Unix(),
	}
	ix.set(entry)
	if err := ix.Save(); err != nil {
		return err
	}
	ix.sink.Publish(events.Event{Kind: events.FileStaged, Identity: blob.ID().Short(8), Path: normalized})
	return nil
}

// Get returns the entry staged for relativePath, if any.
func (ix *Index) Get(relativePath string) (Entry, bool) {
	e, ok := ix.entries[normalizePath(relativePath)]
	return e, ok
}

// IsModified reports whether relativePath has drifted from its staged
// record. See spec.md §4.7 for the exact fast-path / rehash contract.
func (ix *Index) IsModified(relativePath string) bool {
	normalized := normalizePath(relativePath)
	fullPath := path.Join(ix.repoDir, normalized)
	entry, staged := ix.entries[normalized]

	info, statErr := os.Stat(fullPath)
	fileExists := statErr == nil && !info.IsDir()

	if !staged {
		return fileExists
	}
	if !fileExists {
		return true
	}
	if entry.Size != info.Size() {
		return true
	}
	if entry.ModTimeUnix == info.ModTime().Unix() {
		return false
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return true
	}
	current := objects.NewBlob(data)
	return current.ID() != entry.BlobID
}

// Entries returns the staged entries in file order.
func (ix *Index) Entries() []Entry {
	out := make([]Entry, 0, len(ix.order))
	for _, p := range ix.order {
		out = append(out, ix.entries[p])
	}
	return out
}

// Len reports the number of staged entries.
func (ix *Index) Len() int { return len(ix.entries) }
