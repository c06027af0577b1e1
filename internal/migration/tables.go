package migration

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"gymdesk/internal/db"
)

// probe returns the probe tables that already hold rows.
func probe(ctx context.Context, conn sqlx.QueryerContext, dialect db.Dialect) ([]string, error) {
	var nonEmpty []string
	for _, table := range probeTables {
		exists, err := db.Exists(ctx, conn, "SELECT EXISTS(SELECT 1 FROM "+dialect.Quote(table)+")")
		if err != nil {
			return nil, fmt.Errorf("probe %s: %w", table, err)
		}
		if exists {
			nonEmpty = append(nonEmpty, table)
		}
	}
	return nonEmpty, nil
}

// truncateAll empties every table, children first. Foreign key checks are
// suspended only while the deletes run.
func truncateAll(ctx context.Context, tx *sqlx.Tx, dialect db.Dialect) error {
	if err := dialect.SetForeignKeyChecks(ctx, tx, false); err != nil {
		return err
	}
	for i := len(Tables) - 1; i >= 0; i-- {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+dialect.Quote(Tables[i])); err != nil {
			return fmt.Errorf("delete from %s: %w", Tables[i], err)
		}
	}
	return dialect.SetForeignKeyChecks(ctx, tx, true)
}

// copyTable streams every source row of table into tx through one prepared
// statement. Column values are passed through unchanged.
func copyTable(ctx context.Context, src *sqlx.DB, srcDialect db.Dialect, tx *sqlx.Tx, dstDialect db.Dialect, table string) (int64, error) {
	rows, err := src.QueryxContext(ctx, "SELECT * FROM "+srcDialect.Quote(table))
	if err != nil {
		return 0, fmt.Errorf("read: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PreparexContext(ctx, insertStatement(dstDialect, table, columns))
	if err != nil {
		return 0, fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	values := make([]interface{}, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}

	var n int64
	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return n, fmt.Errorf("scan row %d: %w", n+1, err)
		}
		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return n, fmt.Errorf("insert row %d: %w", n+1, err)
		}
		n++
	}
	if err := rows.Err(); err != nil {
		return n, err
	}
	return n, nil
}

func insertStatement(dialect db.Dialect, table string, columns []string) string {
	quoted := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = dialect.Quote(c)
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", dialect.Quote(table), strings.Join(quoted, ", "), placeholders)
}

func countRows(ctx context.Context, conn sqlx.QueryerContext, dialect db.Dialect, table string) (int64, error) {
	var n int64
	err := sqlx.GetContext(ctx, conn, &n, "SELECT COUNT(*) FROM "+dialect.Quote(table))
	return n, err
}
