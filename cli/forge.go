package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/colors"
	"github.com/logosito/svcs-go/internal/refs"
	"github.com/logosito/svcs-go/internal/store"
)

var forgeCmd = &cobra.Command{
	Use:   "forge",
	Short: "Initialize a new svcs repository",
	Long:  "Creates the .svcs control directory, object store, and empty index in the current directory.",
	RunE:  runForge,
}

func runForge(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("forge takes no arguments, %d given", len(args))
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}
	controlDir := filepath.Join(workDir, controlDirName)
	if err := os.MkdirAll(controlDir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", controlDirName, err)
	}

	if _, err := store.New(filepath.Join(controlDir, "objects")); err != nil {
		return fmt.Errorf("create object store: %w", err)
	}
	refStore, err := refs.Open(filepath.Join(controlDir, "refs.db"))
	if err != nil {
		return fmt.Errorf("create refs store: %w", err)
	}
	defer refStore.Close()

	fmt.Println(colors.SuccessText("Initialized empty svcs repository in " + controlDir))
	return nil
}
