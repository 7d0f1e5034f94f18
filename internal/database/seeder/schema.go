package seeder

import (
	"context"
	"errors"
	"fmt"

	"offerless/internal/database"
)

// RequireColumns fails when the migrated schema lacks any of the columns the
// seeders write to.
func RequireColumns(ctx context.Context, db database.DB, table string, columns ...string) error {
	if table == "" {
		return errors.New("empty table")
	}

	rows, err := db.Query(ctx,
		`SELECT column_name FROM information_schema.columns
		 WHERE table_schema = current_schema() AND table_name = $1`,
		table,
	)
	if err != nil {
		return err
	}
	defer rows.Close()

	present := map[string]bool{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return err
		}
		present[name] = true
	}
	if err := rows.Err(); err != nil {
		return err
	}

	var missing []error
	for _, col := range columns {
		if !present[col] {
			missing = append(missing, fmt.Errorf("missing column %s.%s", table, col))
		}
	}
	return errors.Join(missing...)
}
