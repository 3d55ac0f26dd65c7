package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/crumbtrail/pkg/features/breadcrumb"
)

func splitCmd() *cobra.Command {
	var (
		asJSON    bool
		homeLabel string
	)

	cmd := &cobra.Command{
		Use:   "split <path>",
		Short: "Print the breadcrumb trail of a path",
		Long: `Print the breadcrumb trail derived from a path.

Examples:
  crumbs split /menu/my-products
  crumbs split --json "/docs/getting_started?tab=2"
  crumbs split --home Início /menu`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			list := breadcrumb.Splitter{HomeLabel: homeLabel}.Split(args[0])
			w := cmd.OutOrStdout()

			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(list)
			}

			tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tHREF")
			for _, seg := range list {
				key := seg.Key
				if key == breadcrumb.HomeKey {
					key = `""`
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\n", key, seg.DisplayName, seg.Href)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the trail as JSON")
	cmd.Flags().StringVar(&homeLabel, "home", "", "Label of the home entry (default \"Home\")")

	return cmd
}
