package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"plantapi/internal/openapi"
	"plantapi/internal/render"
	"plantapi/internal/uml"
)

type lintReport struct {
	File   string          `json:"file"`
	Issues []openapi.Issue `json:"issues"`
}

func newLintCmd(a *app) *cobra.Command {
	var (
		strict bool
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "lint [file|dir]",
		Short: "Report relations and types the transform drops or degrades",
		Long: `Report what a transform would silently drop: relations to unknown
components, unknown attribute types, duplicate declarations.

Without arguments the diagram is read from stdin. --strict exits non-zero
when any issue is found.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			diagrams, err := lintInputs(cmd, args)
			if err != nil {
				return err
			}

			names := make([]string, 0, len(diagrams))
			for name := range diagrams {
				names = append(names, name)
			}
			sort.Strings(names)

			reports := make([]lintReport, 0, len(names))
			total := 0
			for _, name := range names {
				issues := openapi.Lint(diagrams[name])
				total += len(issues)
				reports = append(reports, lintReport{File: name, Issues: issues})
			}
			a.log.WithField("files", len(reports)).WithField("issues", total).Debug("lint finished")

			out := cmd.OutOrStdout()
			if asJSON {
				if err := render.Encode(out, reports, render.FormatJSON); err != nil {
					return err
				}
			} else {
				for _, r := range reports {
					for _, is := range r.Issues {
						where := is.Entity
						if is.Field != "" {
							where += "." + is.Field
						}
						fmt.Fprintf(out, "%s: %s %s [%s] %s\n", r.File, is.Severity, where, is.Code, is.Message)
					}
				}
			}

			if strict && total > 0 {
				return errors.Errorf("%d lint issue(s)", total)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&strict, "strict", false, "fail when any issue is reported")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print issues as JSON")
	return cmd
}

// lintInputs parses stdin, one file, or every diagram below a directory.
func lintInputs(cmd *cobra.Command, args []string) (map[string]*uml.Diagram, error) {
	if len(args) == 0 || args[0] == "-" {
		text, err := readSource(cmd, "")
		if err != nil {
			return nil, err
		}
		return map[string]*uml.Diagram{"-": uml.Parse(text)}, nil
	}

	path := args[0]
	st, err := os.Stat(path)
	if err != nil {
		return nil, errors.Wrapf(err, "input %s", path)
	}
	if !st.IsDir() {
		d, err := uml.LoadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "read %s", path)
		}
		return map[string]*uml.Diagram{filepath.ToSlash(path): d}, nil
	}
	diagrams, err := uml.LoadDir(path)
	if err != nil {
		return nil, errors.Wrapf(err, "scan %s", path)
	}
	return diagrams, nil
}
