package main

import (
	"github.com/spf13/cobra"

	"plantapi/internal/render"
	"plantapi/internal/uml"
)

func newParseCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Print the entity graph parsed from a diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.ParseFormat(format)
			if err != nil {
				return err
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readSource(cmd, path)
			if err != nil {
				return err
			}
			d := uml.Parse(text)
			a.log.WithField("classes", len(d.Classes)).
				WithField("relations", len(d.Relations)).
				Debug("diagram parsed")
			return render.Encode(cmd.OutOrStdout(), d, f)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.FormatJSON), "output format: json, yaml or msgpack")
	return cmd
}
