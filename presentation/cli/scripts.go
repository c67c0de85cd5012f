package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newScriptsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scripts",
		Short: "List the registered automation scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := a.registry()
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tNAME\tLOGIN\tDESCRIPTION")
			for _, d := range registry.Scripts() {
				login := "no"
				if d.SupportsLogin {
					login = "yes"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", d.Key, d.Name, login, d.Description)
			}
			return w.Flush()
		},
	}
}
