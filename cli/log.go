package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/colors"
	"github.com/logosito/svcs-go/internal/objects"
)

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Show the commit history reachable from HEAD",
	Long:  "Walks the first-parent chain from HEAD, printing one commit per entry. There is no branch concept; this is the single stored commit chain.",
	RunE:  runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	r, err := openRepo()
	if err != nil {
		return err
	}
	defer r.Close()

	id, ok, err := r.Refs.ReadHead()
	if err != nil {
		return fmt.Errorf("read head: %w", err)
	}
	if !ok {
		fmt.Println(colors.InfoText("no commits yet"))
		return nil
	}

	for {
		obj, err := r.Store.Load(id)
		if err != nil {
			return fmt.Errorf("load commit %s: %w", id.Short(12), err)
		}
		commit, ok := obj.(*objects.Commit)
		if !ok {
			return fmt.Errorf("%s is not a commit (kind %s)", id.Short(12), obj.Kind())
		}

		fmt.Printf("%s %s\n", colors.Bold("commit"), commit.ID())
		fmt.Printf("Author: %s\n", commit.Author())
		fmt.Printf("Date:   %s\n", time.Unix(commit.Timestamp(), 0).UTC().Format(time.RFC3339))
		fmt.Printf("\n    %s\n\n", commit.Message())

		if len(commit.Parents()) == 0 {
			break
		}
		id = commit.Parents()[0]
	}
	return nil
}
