package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newBindingsCommand(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "bindings",
		Short: "List the configured input, preview and endpoint bindings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "INPUT\tPREVIEW\tENDPOINT")
			for _, b := range c.cfg.Bindings {
				fmt.Fprintf(w, "%s\t%s\tPOST %s\n", b.InputID, b.PreviewID, b.Endpoint)
			}
			return w.Flush()
		},
	}
}
