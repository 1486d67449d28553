package main

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"plantapi/internal/pg"
	"plantapi/internal/uml"
)

func newDDLCmd(a *app) *cobra.Command {
	var (
		schema string
		dbURL  string
		apply  bool
	)

	cmd := &cobra.Command{
		Use:   "ddl [file]",
		Short: "Generate Postgres tables for the classes of a diagram",
		Long: `Generate Postgres DDL: one table per class, foreign keys for inheritance
and single-valued relations to other classes.

With --apply the statements are executed against --db (or the configured
database URL). Re-applying is safe: tables use "if not exists" and existing
constraints are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if schema == "" {
				schema = a.cfg.DBSchema
			}
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			text, err := readSource(cmd, path)
			if err != nil {
				return err
			}

			ddl, err := pg.GenerateDDL(uml.Parse(text), schema)
			if err != nil {
				return errors.Wrap(err, "generate ddl")
			}
			if !apply {
				_, err := fmt.Fprint(cmd.OutOrStdout(), pg.Render(ddl))
				return err
			}

			if dbURL == "" {
				dbURL = a.cfg.DBURL
			}
			if dbURL == "" {
				return errors.New("--apply needs --db or PLANTAPI_DB_URL")
			}
			db, err := pg.Open(cmd.Context(), dbURL)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := pg.ApplyDDL(cmd.Context(), db, ddl, a.log); err != nil {
				return err
			}
			a.log.WithField("schema", schema).Info("ddl applied")
			return nil
		},
	}

	cmd.Flags().StringVar(&schema, "schema", "", "target schema (default from config)")
	cmd.Flags().StringVar(&dbURL, "db", "", "Postgres URL used with --apply")
	cmd.Flags().BoolVar(&apply, "apply", false, "execute the statements instead of printing them")
	return cmd
}
