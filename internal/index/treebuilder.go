package index

import (
	"fmt"
	"path"
	"sort"

	"github.com/logosito/svcs-go/internal/events"
	"github.com/logosito/svcs-go/internal/objects"
	"github.com/logosito/svcs-go/internal/storeerr"
)

// parentDir returns the normalized parent directory of a staged path, using
// the empty string to denote the repository root. Matching normalization
// must be used on both sides of the parent relation, or identical working
// copies on different platforms would synthesize different root identities.
func parentDir(p string) string {
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}
	return dir
}

func baseName(p string) string {
	return path.Base(p)
}

// BuildTree groups the staged entries by parent directory and synthesizes a
// Tree per directory, bottom-up, saving each via the store. It returns the
// root Tree's identity. Fails with InvalidInput if the index is empty.
func (ix *Index) BuildTree() (objects.ObjectID, error) {
	if len(ix.entries) == 0 {
		err := storeerr.New(storeerr.InvalidInput, "", "", fmt.Errorf("cannot build a tree from an empty index"))
		ix.sink.Publish(events.Event{Kind: events.ErrorRaised, Message: err.Error()})
		return "", err
	}

	filesByDir := make(map[string][]Entry)
	for _, e := range ix.entries {
		dir := parentDir(e.Path)
		filesByDir[dir] = append(filesByDir[dir], e)
	}

	dirs := make(map[string]bool)
	for dir := range filesByDir {
		dirs[dir] = true
		addAncestors(dir, dirs)
	}

	ordered := make([]string, 0, len(dirs))
	for dir := range dirs {
		ordered = append(ordered, dir)
	}
	sort.Slice(ordered, func(i, j int) bool {
		return len(ordered[i]) > len(ordered[j])
	})

	synthesized := make(map[string]objects.ObjectID)

	for _, dir := range ordered {
		var treeEntries []objects.TreeEntry

		for _, f := range filesByDir[dir] {
			treeEntries = append(treeEntries, objects.TreeEntry{
				Mode:   objects.ModeFile,
				Name:   baseName(f.Path),
				Target: objects.TargetBlob,
				ID:     f.BlobID,
			})
		}

		for childDir, childID := range synthesized {
			if parentDir(childDir) == dir {
				treeEntries = append(treeEntries, objects.TreeEntry{
					Mode:   objects.ModeDir,
					Name:   baseName(childDir),
					Target: objects.TargetTree,
					ID:     childID,
				})
				delete(synthesized, childDir)
			}
		}

		tree := objects.NewTree(treeEntries)
		if err := ix.store.Save(tree); err != nil {
			return "", err
		}
		synthesized[dir] = tree.ID()
		ix.sink.Publish(events.Event{Kind: events.TreeBuilt, Identity: tree.ID().Short(8), Path: dir})
	}

	root, ok := synthesized[""]
	if !ok {
		err := storeerr.New(storeerr.Malformed, "", "", fmt.Errorf("root tree was never produced"))
		ix.sink.Publish(events.Event{Kind: events.ErrorRaised, Message: err.Error()})
		return "", err
	}
	return root, nil
}

// addAncestors walks from dir up to the root, marking every intermediate
// directory as needing a synthesized Tree even when it holds no staged
// files directly (it still bubbles up its descendants).
func addAncestors(dir string, dirs map[string]bool) {
	for dir != "" {
		dir = parentDir(dir)
		if dirs[dir] {
			return
		}
		dirs[dir] = true
	}
}
