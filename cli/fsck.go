package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/colors"
	"github.com/logosito/svcs-go/internal/fsck"
)

var fsckCmd = &cobra.Command{
	Use:   "fsck",
	Short: "Verify the integrity of every stored object",
	Long:  "Re-verifies framing and digest for every object under the store, skipping objects whose on-disk bytes have not changed since the last clean scan.",
	RunE:  runFsck,
}

func runFsck(cmd *cobra.Command, args []string) error {
	r, err := openRepo()
	if err != nil {
		return err
	}
	defer r.Close()

	cache, err := fsck.OpenCache(filepath.Join(r.controlDir, "fsck.db"))
	if err != nil {
		return fmt.Errorf("open fsck cache: %w", err)
	}
	defer cache.Close()

	report, err := fsck.Scan(r.Store, cache)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	for _, f := range report.Findings {
		fmt.Printf("%s %s: %v\n", colors.ErrorText("corrupt"), f.ID.Short(12), f.Error)
	}

	if report.Clean() {
		fmt.Println(colors.SuccessText(fmt.Sprintf("ok: %d verified, %d unchanged since last scan", report.Scanned, report.Skipped)))
		return nil
	}
	return fmt.Errorf("%d object(s) failed verification", len(report.Findings))
}
