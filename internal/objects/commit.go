package objects

import (
	"bytes"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Commit is a history node: a tree snapshot plus parentage and metadata.
// Zero parents means a root commit, one a normal commit, two (or more) a
// merge. Commits are immutable once constructed; there is no mutator.
type Commit struct {
	treeID    ObjectID
	parents   []ObjectID
	author    string
	timestamp int64
	message   string
	id        ObjectID
}

// NewCommit sorts parents by byte value and computes the commit's identity.
// timestamp is seconds since the epoch, UTC.
func NewCommit(treeID ObjectID, parents []ObjectID, author string, message string, timestamp int64) *Commit {
	c := &Commit{
		treeID:    treeID,
		parents:   append([]ObjectID(nil), parents...),
		author:    author,
		message:   message,
		timestamp: timestamp,
	}
	sort.Slice(c.parents, func(i, j int) bool { return c.parents[i] < c.parents[j] })
	c.id = identityOf(KindCommit, c.serializeBytes())
	return c
}

func (c *Commit) Kind() Kind      { return KindCommit }
func (c *Commit) ID() ObjectID    { return c.id }
func (c *Commit) Payload() []byte { return c.serializeBytes() }

func (c *Commit) TreeID() ObjectID        { return c.treeID }
func (c *Commit) Parents() []ObjectID     { return c.parents }
func (c *Commit) Author() string          { return c.author }
func (c *Commit) Timestamp() int64        { return c.timestamp }
func (c *Commit) Message() string         { return c.message }
func (c *Commit) IsRoot() bool            { return len(c.parents) == 0 }
func (c *Commit) IsMerge() bool           { return len(c.parents) >= 2 }

func (c *Commit) serializeBytes() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "tree %s\n", c.treeID)
	for _, p := range c.parents {
		fmt.Fprintf(&buf, "parent %s\n", p)
	}
	fmt.Fprintf(&buf, "author %s %d +0000\n", c.author, c.timestamp)
	fmt.Fprintf(&buf, "committer %s %d +0000\n", c.author, c.timestamp)
	buf.WriteByte('\n')
	buf.WriteString(c.message)
	return buf.Bytes()
}

// Serialize produces the header-then-message layout described in §3/§6.
func (c *Commit) Serialize() []byte { return c.serializeBytes() }

// ParseCommit reads a Commit's payload. tree and author are mandatory; their
// absence is a fatal parse error. parent may repeat zero or more times.
func ParseCommit(payload []byte) (*Commit, error) {
	raw := string(payload)
	idx := strings.Index(raw, "\n\n")
	var header, message string
	if idx >= 0 {
		header = raw[:idx]
		message = raw[idx+2:]
	} else {
		header = raw
		message = ""
	}
	message = strings.TrimPrefix(message, "\n")

	var (
		treeID     ObjectID
		haveTree   bool
		parents    []ObjectID
		author     string
		haveAuthor bool
		timestamp  int64
	)

	for _, line := range strings.Split(header, "\n") {
		if line == "" {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			continue
		}
		key, value := line[:sp], line[sp+1:]
		switch key {
		case "tree":
			treeID = ObjectID(value)
			haveTree = true
		case "parent":
			parents = append(parents, ObjectID(value))
		case "author":
			a, ts, err := parseAuthorLine(value)
			if err != nil {
				return nil, fmt.Errorf("objects: malformed author line: %w", err)
			}
			author = a
			timestamp = ts
			haveAuthor = true
		case "committer":
			// Informational; author is authoritative for the fields this
			// model exposes.
		}
	}

	if !haveTree {
		return nil, fmt.Errorf("objects: commit missing mandatory tree field")
	}
	if !haveAuthor {
		return nil, fmt.Errorf("objects: commit missing mandatory author field")
	}

	sort.Slice(parents, func(i, j int) bool { return parents[i] < parents[j] })
	return NewCommit(treeID, parents, author, message, timestamp), nil
}

// parseAuthorLine parses "<name and email> <timestamp> <timezone>" by
// scanning from the right for the last two space-separated tokens and
// treating everything before them as the author. The timezone is currently
// informational (always "+0000" on write).
func parseAuthorLine(value string) (author string, timestamp int64, err error) {
	lastSpace := strings.LastIndexByte(value, ' ')
	if lastSpace < 0 {
		return "", 0, fmt.Errorf("expected at least author, timestamp, timezone")
	}
	rest := value[:lastSpace]
	// timezone := value[lastSpace+1:] // informational, not modeled further

	secondLastSpace := strings.LastIndexByte(rest, ' ')
	if secondLastSpace < 0 {
		return "", 0, fmt.Errorf("expected at least author and timestamp")
	}
	authorPart := rest[:secondLastSpace]
	tsPart := rest[secondLastSpace+1:]

	ts, err := strconv.ParseInt(tsPart, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("invalid timestamp %q: %w", tsPart, err)
	}
	return authorPart, ts, nil
}
