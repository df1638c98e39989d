package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/zoobzio/timings"
	"github.com/zoobzio/timings/report"
)

func newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the report types and their class tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := timings.NewRegistry()
			if err := report.Register(reg); err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "TAG\tTYPE\tPOLICY")
			for _, e := range reg.Entries() {
				tag := "-"
				if e.Tag != 0 {
					tag = fmt.Sprint(e.Tag)
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", tag, e.Name, e.Policy)
			}
			return w.Flush()
		},
	}
}
