package objects

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// TargetType distinguishes what a TreeEntry points at.
type TargetType string

const (
	TargetBlob TargetType = "blob"
	TargetTree TargetType = "tree"
)

// Mode tokens. Executable and symlink modes are deliberately not modeled.
const (
	ModeFile = "100644"
	ModeDir  = "040000"
)

// TreeEntry is one row of a directory manifest.
type TreeEntry struct {
	Mode   string
	Name   string
	Target TargetType
	ID     ObjectID
}

// Tree is a directory manifest: a sorted, unique-by-name list of entries.
type Tree struct {
	entries []TreeEntry
	id      ObjectID
}

// NewTree sorts entries by name and computes the tree's identity. The input
// slice is not mutated; NewTree copies before sorting.
func NewTree(entries []TreeEntry) *Tree {
	t := &Tree{entries: append([]TreeEntry(nil), entries...)}
	t.sortAndDedup()
	t.recompute()
	return t
}

func (t *Tree) sortAndDedup() {
	sort.SliceStable(t.entries, func(i, j int) bool {
		return t.entries[i].Name < t.entries[j].Name
	})
	// Keep the last write for any duplicate name, matching AddOrUpdate's
	// replace semantics if callers pre-seeded entries with duplicates.
	seen := make(map[string]int, len(t.entries))
	out := t.entries[:0:0]
	for _, e := range t.entries {
		if idx, ok := seen[e.Name]; ok {
			out[idx] = e
			continue
		}
		seen[e.Name] = len(out)
		out = append(out, e)
	}
	t.entries = out
}

func (t *Tree) recompute() {
	t.id = identityOf(KindTree, t.serializeBytes())
}

func (t *Tree) Kind() Kind      { return KindTree }
func (t *Tree) ID() ObjectID    { return t.id }
func (t *Tree) Payload() []byte { return t.serializeBytes() }

// Entries returns the sorted entry list. Callers must not mutate the result.
func (t *Tree) Entries() []TreeEntry { return t.entries }

// AddOrUpdate replaces the entry with the same name or appends a new one,
// then re-sorts the entries and recomputes the identity, so ID() is current
// when it returns.
func (t *Tree) AddOrUpdate(entry TreeEntry) {
	for i := range t.entries {
		if t.entries[i].Name == entry.Name {
			t.entries[i] = entry
			t.sortAndDedup()
			t.recompute()
			return
		}
	}
	t.entries = append(t.entries, entry)
	t.sortAndDedup()
	t.recompute()
}

// Remove deletes the entry named name, reporting whether one existed.
func (t *Tree) Remove(name string) bool {
	for i := range t.entries {
		if t.entries[i].Name == name {
			t.entries = append(t.entries[:i], t.entries[i+1:]...)
			t.recompute()
			return true
		}
	}
	return false
}

// Find returns the entry named name, if present.
func (t *Tree) Find(name string) (TreeEntry, bool) {
	for _, e := range t.entries {
		if e.Name == name {
			return e, true
		}
	}
	return TreeEntry{}, false
}

func (t *Tree) serializeBytes() []byte {
	var buf bytes.Buffer
	for _, e := range t.entries {
		buf.WriteString(e.Mode)
		buf.WriteByte(' ')
		buf.WriteString(string(e.Target))
		buf.WriteByte(' ')
		buf.WriteString(string(e.ID))
		buf.WriteByte(' ')
		buf.WriteString(e.Name)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

// Serialize emits the entries in sorted order, one line per entry:
// "mode type identity name\n".
func (t *Tree) Serialize() []byte { return t.serializeBytes() }

// ParseTree reads a Tree's payload. Lines that fail to parse are rejected;
// empty lines are skipped. The entry name may itself contain internal
// spaces: everything after the third space-separated field is the name,
// with any extra leading spaces stripped.
func ParseTree(payload []byte) (*Tree, error) {
	text := string(payload)
	var entries []TreeEntry
	for _, line := range strings.Split(text, "\n") {
		if line == "" {
			continue
		}
		entry, err := parseTreeLine(line)
		if err != nil {
			return nil, fmt.Errorf("objects: malformed tree line %q: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return NewTree(entries), nil
}

func parseTreeLine(line string) (TreeEntry, error) {
	i1 := strings.IndexByte(line, ' ')
	if i1 < 0 {
		return TreeEntry{}, fmt.Errorf("missing mode separator")
	}
	mode := line[:i1]
	rest := line[i1+1:]

	i2 := strings.IndexByte(rest, ' ')
	if i2 < 0 {
		return TreeEntry{}, fmt.Errorf("missing type separator")
	}
	typ := rest[:i2]
	rest = rest[i2+1:]

	i3 := strings.IndexByte(rest, ' ')
	if i3 < 0 {
		return TreeEntry{}, fmt.Errorf("missing identity separator")
	}
	id := rest[:i3]
	name := strings.TrimLeft(rest[i3+1:], " ")

	if mode != ModeFile && mode != ModeDir {
		// Accept the literal octal-looking forms too, for defensiveness
		// against a hand-edited tree; reject anything else.
		if _, err := strconv.ParseInt(mode, 8, 32); err != nil {
			return TreeEntry{}, fmt.Errorf("invalid mode %q", mode)
		}
	}
	var target TargetType
	switch typ {
	case string(TargetBlob):
		target = TargetBlob
	case string(TargetTree):
		target = TargetTree
	default:
		return TreeEntry{}, fmt.Errorf("unknown target type %q", typ)
	}
	if name == "" {
		return TreeEntry{}, fmt.Errorf("empty name")
	}

	return TreeEntry{
		Mode:   mode,
		Name:   name,
		Target: target,
		ID:     ObjectID(id),
	}, nil
}
