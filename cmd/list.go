package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Beastly713/codecprop/pkg/property"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the available properties",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			width := 0
			for _, name := range property.Names() {
				width = max(width, len(name))
			}
			for _, p := range property.All() {
				name := fmt.Sprintf("%-*s", width, p.Name)
				fmt.Fprintf(out, "%s  %s\n", focusedStyle.Render(name), dimStyle.Render(p.Description))
			}
			return nil
		},
	}
}
