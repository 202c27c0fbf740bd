package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/logosito/svcs-go/internal/colors"
	"github.com/logosito/svcs-go/internal/events"
	"github.com/logosito/svcs-go/internal/index"
	"github.com/logosito/svcs-go/internal/refs"
	"github.com/logosito/svcs-go/internal/store"
)

// controlDirName is the repository control directory, analogous to .git.
const controlDirName = ".svcs"

// repo bundles the handles every command needs: the working directory, the
// object store, the staging index, and the single-pointer ref store.
type repo struct {
	workDir    string
	controlDir string
	Store      *store.FileStore
	Index      *index.Index
	Refs       *refs.Store
}

func (r *repo) Close() error {
	if r.Refs != nil {
		return r.Refs.Close()
	}
	return nil
}

// openRepo locates the control directory from the current working directory
// and opens the store, index, and refs. It fails if no repository has been
// forged yet.
func openRepo() (*repo, error) {
	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	controlDir := filepath.Join(workDir, controlDirName)
	if _, err := os.Stat(controlDir); os.IsNotExist(err) {
		return nil, fmt.Errorf("not a svcs repository (no %s directory found)", controlDirName)
	}

	s, err := store.New(filepath.Join(controlDir, "objects"))
	if err != nil {
		return nil, fmt.Errorf("open object store: %w", err)
	}
	s.SetSink(eventSink())

	ix, err := index.New(filepath.Join(controlDir, "index"), workDir, s)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	ix.SetSink(eventSink())

	refStore, err := refs.Open(filepath.Join(controlDir, "refs.db"))
	if err != nil {
		return nil, fmt.Errorf("open refs: %w", err)
	}

	return &repo{workDir: workDir, controlDir: controlDir, Store: s, Index: ix, Refs: refStore}, nil
}

// eventSink returns the sink every core component publishes informational
// and error events through: a colors.ConsoleSink that renders staged/saved/
// error events to stdout, matching the core's contract that the sink never
// influences control flow either way.
func eventSink() events.Sink {
	return colors.NewConsoleSink()
}
