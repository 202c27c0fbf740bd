package objects

import (
	"encoding/hex"
	"fmt"
	"testing"
)

func TestFrameAndDigestStable(t *testing.T) {
	framed := Frame(KindBlob, []byte("hello\n"))
	want := "62 6c 6f 62 20 36 00 68 65 6c 6c 6f 0a"
	got := fmt.Sprintf("% x", framed)
	if got != want {
		t.Fatalf("framed bytes = %q, want %q", got, want)
	}

	d1 := Digest(framed)
	d2 := Digest(Frame(KindBlob, []byte("hello\n")))
	if d1 != d2 {
		t.Fatalf("digest not stable across identical constructions: %s != %s", d1, d2)
	}
	if len(d1) != idLength {
		t.Fatalf("digest length = %d, want %d", len(d1), idLength)
	}
	if _, err := hex.DecodeString(string(d1)); err != nil {
		t.Fatalf("digest not hex: %v", err)
	}
}

func TestBlobRoundTrip(t *testing.T) {
	b := NewBlob([]byte("package main\n"))
	again := ParseBlob(b.Payload())
	if again.ID() != b.ID() {
		t.Fatalf("round trip identity mismatch: %s != %s", again.ID(), b.ID())
	}
	if string(again.Data()) != string(b.Data()) {
		t.Fatalf("round trip payload mismatch")
	}
}

func TestEmptyBlobDistinctFromNonEmpty(t *testing.T) {
	empty := NewBlob(nil)
	a := NewBlob([]byte("A"))
	if empty.ID() == a.ID() {
		t.Fatalf("empty blob and non-empty blob share an identity")
	}
	if !empty.ID().Valid() {
		t.Fatalf("empty blob identity is not valid hex64: %s", empty.ID())
	}
}

func TestTreeOrderIndependence(t *testing.T) {
	a := TreeEntry{Mode: ModeFile, Name: "a.txt", Target: TargetBlob, ID: ObjectID(repeatHex("1"))}
	b := TreeEntry{Mode: ModeDir, Name: "sub", Target: TargetTree, ID: ObjectID(repeatHex("2"))}

	t1 := NewTree([]TreeEntry{a, b})
	t2 := NewTree([]TreeEntry{b, a})

	if t1.ID() != t2.ID() {
		t.Fatalf("tree identity depends on insertion order: %s != %s", t1.ID(), t2.ID())
	}
	entries := t1.Entries()
	if len(entries) != 2 || entries[0].Name != "a.txt" || entries[1].Name != "sub" {
		t.Fatalf("tree entries not sorted by name: %+v", entries)
	}
}

func TestTreeSerializeLineCount(t *testing.T) {
	entries := []TreeEntry{
		{Mode: ModeFile, Name: "z.txt", Target: TargetBlob, ID: ObjectID(repeatHex("3"))},
		{Mode: ModeFile, Name: "a.txt", Target: TargetBlob, ID: ObjectID(repeatHex("4"))},
	}
	tree := NewTree(entries)
	parsed, err := ParseTree(tree.Serialize())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.ID() != tree.ID() {
		t.Fatalf("round trip identity mismatch")
	}
	names := []string{}
	for _, e := range parsed.Entries() {
		names = append(names, e.Name)
	}
	if len(names) != 2 || names[0] != "a.txt" || names[1] != "z.txt" {
		t.Fatalf("serialized tree not ordered: %v", names)
	}
}

func TestTreeAddUpdateRemoveFind(t *testing.T) {
	tree := NewTree(nil)
	tree.AddOrUpdate(TreeEntry{Mode: ModeFile, Name: "x", Target: TargetBlob, ID: ObjectID(repeatHex("5"))})
	if _, ok := tree.Find("x"); !ok {
		t.Fatalf("expected to find entry x")
	}
	tree.AddOrUpdate(TreeEntry{Mode: ModeFile, Name: "x", Target: TargetBlob, ID: ObjectID(repeatHex("6"))})
	entry, _ := tree.Find("x")
	if entry.ID != ObjectID(repeatHex("6")) {
		t.Fatalf("AddOrUpdate did not replace existing entry")
	}
	if !tree.Remove("x") {
		t.Fatalf("expected Remove to report success")
	}
	if tree.Remove("x") {
		t.Fatalf("expected second Remove to report failure")
	}
}

func TestCommitParentOrderIndependence(t *testing.T) {
	treeID := ObjectID(repeatHex("0"))
	a := ObjectID(repeatHex("a"))
	b := ObjectID(repeatHex("b"))

	c1 := NewCommit(treeID, []ObjectID{a, b}, "Alice <alice@example.com>", "msg", 1000)
	c2 := NewCommit(treeID, []ObjectID{b, a}, "Alice <alice@example.com>", "msg", 1000)

	if c1.ID() != c2.ID() {
		t.Fatalf("commit identity depends on parent order: %s != %s", c1.ID(), c2.ID())
	}
}

func TestCommitRoundTrip(t *testing.T) {
	treeID := ObjectID(repeatHex("0"))
	p1 := ObjectID(repeatHex("1"))
	p2 := ObjectID(repeatHex("2"))
	msg := "Testing commit message with\nmultiple lines."

	c := NewCommit(treeID, []ObjectID{p1, p2}, "Alice <alice@example.com>", msg, 1234567890)
	parsed, err := ParseCommit(c.Serialize())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed.Message() != c.Message() {
		t.Fatalf("message mismatch: %q != %q", parsed.Message(), c.Message())
	}
	if parsed.Timestamp() != c.Timestamp() {
		t.Fatalf("timestamp mismatch: %d != %d", parsed.Timestamp(), c.Timestamp())
	}
	if parsed.Author() != c.Author() {
		t.Fatalf("author mismatch: %q != %q", parsed.Author(), c.Author())
	}
	if parsed.ID() != c.ID() {
		t.Fatalf("identity mismatch after round trip: %s != %s", parsed.ID(), c.ID())
	}
}

func TestCommitMissingMandatoryFields(t *testing.T) {
	if _, err := ParseCommit([]byte("author Alice <a@example.com> 1 +0000\n\nmsg")); err == nil {
		t.Fatalf("expected error for missing tree")
	}
	if _, err := ParseCommit([]byte("tree " + repeatHex("0") + "\n\nmsg")); err == nil {
		t.Fatalf("expected error for missing author")
	}
}

func TestParseFactoryUnknownKind(t *testing.T) {
	if _, err := Parse(Kind("widget"), nil); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
}

func repeatHex(ch string) string {
	out := ""
	for i := 0; i < 64; i++ {
		out += ch
	}
	return out[:64]
}
