package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"
)

// SQLSTATE duplicate_object, raised when a constraint already exists.
const codeDuplicateObject = "42710"

// ApplyDDL runs the phases of GenerateDDL in key order. Tables use
// "if not exists"; re-adding an existing foreign key is logged and skipped.
func ApplyDDL(ctx context.Context, db *sql.DB, ddl map[string]string, log logrus.FieldLogger) error {
	for _, k := range sortedKeys(ddl) {
		for _, stmt := range splitStatements(ddl[k]) {
			if _, err := db.ExecContext(ctx, stmt); err != nil {
				var pgErr *pgconn.PgError
				if errors.As(err, &pgErr) && pgErr.Code == codeDuplicateObject {
					log.WithFields(logrus.Fields{
						"phase":      k,
						"constraint": pgErr.ConstraintName,
					}).Infof("DDL skipped (already exists): %s", strings.TrimSpace(pgErr.Message))
					continue
				}
				return fmt.Errorf("apply %s: %w", k, err)
			}
		}
		log.WithField("phase", k).Debug("DDL phase applied")
	}
	return nil
}

// splitStatements cuts a phase into single statements so one duplicate
// constraint does not abort the rest of the phase. Generated DDL never puts a
// ';' inside an identifier or literal.
func splitStatements(phase string) []string {
	var out []string
	for _, part := range strings.Split(phase, ";") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}
