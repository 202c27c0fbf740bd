package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/objects"
)

var lsTreeCmd = &cobra.Command{
	Use:   "ls-tree <identity>",
	Short: "List the entries of a stored Tree",
	Args:  cobra.ExactArgs(1),
	RunE:  runLsTree,
}

func runLsTree(cmd *cobra.Command, args []string) error {
	r, err := openRepo()
	if err != nil {
		return err
	}
	defer r.Close()

	id := objects.ObjectID(args[0])
	if !id.Valid() {
		return fmt.Errorf("invalid identity %q: expected 64 lowercase hex characters", args[0])
	}

	obj, err := r.Store.Load(id)
	if err != nil {
		return err
	}
	tree, ok := obj.(*objects.Tree)
	if !ok {
		return fmt.Errorf("%s is not a tree (kind %s)", id.Short(12), obj.Kind())
	}

	for _, e := range tree.Entries() {
		fmt.Printf("%s %s %s\t%s\n", e.Mode, e.Target, e.ID, e.Name)
	}
	return nil
}
