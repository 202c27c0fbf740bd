package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/colors"
	"github.com/logosito/svcs-go/internal/config"
	"github.com/logosito/svcs-go/internal/objects"
)

var sealCmd = &cobra.Command{
	Use:   "seal",
	Short: "Seal the staged snapshot into a new commit",
	Long:  "Builds the tree hierarchy from the current index, constructs a Commit pointing at it and the current HEAD (if any), saves it, and advances HEAD.",
	RunE:  runSeal,
}

var sealMessage string

func init() {
	sealCmd.Flags().StringVarP(&sealMessage, "message", "m", "", "commit message")
}

func runSeal(cmd *cobra.Command, args []string) error {
	if sealMessage == "" {
		return fmt.Errorf("seal requires a message: use -m \"your message\"")
	}

	r, err := openRepo()
	if err != nil {
		return err
	}
	defer r.Close()

	if r.Index.Len() == 0 {
		return fmt.Errorf("nothing staged: run 'svcs stage <path>' first")
	}

	author, err := config.GetAuthor()
	if err != nil {
		return err
	}

	rootID, err := r.Index.BuildTree()
	if err != nil {
		return fmt.Errorf("build tree: %w", err)
	}

	var parents []objects.ObjectID
	if head, ok, err := r.Refs.ReadHead(); err == nil && ok {
		parents = append(parents, head)
	} else if err != nil {
		return fmt.Errorf("read head: %w", err)
	}

	commit := objects.NewCommit(rootID, parents, author, sealMessage, time.Now().Unix())
	if err := r.Store.Save(commit); err != nil {
		return fmt.Errorf("save commit: %w", err)
	}
	if err := r.Refs.WriteHead(commit.ID()); err != nil {
		return fmt.Errorf("advance head: %w", err)
	}

	fmt.Printf("%s %s\n", colors.SuccessText("sealed"), commit.ID().Short(12))
	return nil
}
