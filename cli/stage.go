package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/colors"
)

var stageCmd = &cobra.Command{
	Use:   "stage <path> [path...]",
	Short: "Stage one or more files for the next seal",
	Long:  "Reads each path's content, saves it as a Blob, and records its identity, size, and modification time in the index.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runStage,
}

func runStage(cmd *cobra.Command, args []string) error {
	r, err := openRepo()
	if err != nil {
		return err
	}
	defer r.Close()

	for _, p := range args {
		if err := r.Index.Stage(p); err != nil {
			return fmt.Errorf("stage %s: %w", p, err)
		}
		fmt.Printf("  %s  %s\n", colors.Added("staged"), p)
	}
	return nil
}
