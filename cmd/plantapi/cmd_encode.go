package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"plantapi/internal/plantuml"
)

func newEncodeCmd(a *app) *cobra.Command {
	var (
		format string
		server string
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Print a PlantUML server URL that renders the diagram",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			imgFormat, err := plantuml.ParseImageFormat(format)
			if err != nil {
				return err
			}
			if server == "" {
				server = a.cfg.RenderServer
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readSource(cmd, path)
			if err != nil {
				return err
			}
			encoded, err := plantuml.Encode(text)
			if err != nil {
				return err
			}
			if raw {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), encoded)
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), plantuml.URL(server, imgFormat, encoded))
			return err
		},
	}

	cmd.Flags().StringVar(&format, "format", string(plantuml.FormatSVG), "image format: svg or png")
	cmd.Flags().StringVar(&server, "server", "", "PlantUML server (default from config)")
	cmd.Flags().BoolVar(&raw, "raw", false, "print only the encoded text")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <encoded>",
		Short: "Decode PlantUML URL text back into diagram source",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			encoded := args[0]
			// accept a full URL as well
			if i := strings.LastIndex(encoded, "/"); i >= 0 {
				encoded = encoded[i+1:]
			}
			text, err := plantuml.Decode(encoded)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), text)
			return err
		},
	}
}
