package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"plantapi/internal/fixtures"
)

func newFixturesCmd(a *app) *cobra.Command {
	var (
		dir  string
		show string
	)

	cmd := &cobra.Command{
		Use:   "fixtures",
		Short: "List the sample diagrams served by the API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if dir == "" {
				dir = a.cfg.FixturesDir
			}
			catalog := fixtures.NewCatalog(dir)

			out := cmd.OutOrStdout()
			if show != "" {
				f, ok, err := catalog.Get(show)
				if err != nil {
					return err
				}
				if !ok {
					return errors.Errorf("fixture %q not found in %s", show, dir)
				}
				_, err = fmt.Fprint(out, f.Content)
				return err
			}

			list, err := catalog.List()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tLABEL\tFILE")
			for _, f := range list {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", f.ID, f.Label, f.FileName)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "", "fixtures directory (default from config)")
	cmd.Flags().StringVar(&show, "show", "", "print the source of one fixture")
	return cmd
}
