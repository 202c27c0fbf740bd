package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/logosito/svcs-go/internal/objects"
)

var catObjectCmd = &cobra.Command{
	Use:   "cat-object <identity>",
	Short: "Print a stored object's content (blobs after a kind and size line)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCatObject,
}

func runCatObject(cmd *cobra.Command, args []string) error {
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

	switch o := obj.(type) {
	case *objects.Blob:
		fmt.Printf("blob %d\n", len(o.Data()))
		_, _ = cmd.OutOrStdout().Write(o.Data())
	case *objects.Tree:
		for _, e := range o.Entries() {
			fmt.Printf("%s %s %s\t%s\n", e.Mode, e.Target, e.ID, e.Name)
		}
	case *objects.Commit:
		_, _ = cmd.OutOrStdout().Write(o.Serialize())
	default:
		return fmt.Errorf("unrecognized object kind %T", obj)
	}
	return nil
}
