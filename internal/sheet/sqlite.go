package sheet

import (
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"pensionqa/internal/models"
)

// sqliteWriter stores the output table in a SQLite database, replacing any
// previous table of the same name. Dates are stored as ISO text.
type sqliteWriter struct{}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteWriter) Write(path string, records []models.CanonicalRecord, opts WriteOptions) error {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return fmt.Errorf("open sqlite: %w", err)
	}
	defer db.Close()

	// SQLite only supports one writer
	db.SetMaxOpenConns(1)

	table := quoteIdent(opts.tableName())

	cols := make([]string, len(models.CanonicalColumns))
	defs := make([]string, len(models.CanonicalColumns))
	marks := make([]string, len(models.CanonicalColumns))

	for i, name := range models.CanonicalColumns {
		cols[i] = quoteIdent(name)
		defs[i] = cols[i]
		marks[i] = "?"
	}

	defs[0] += " TEXT PRIMARY KEY"

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.Exec("DROP TABLE IF EXISTS " + table); err != nil {
		return fmt.Errorf("drop table: %w", err)
	}

	create := fmt.Sprintf("CREATE TABLE %s (%s)", table, strings.Join(defs, ", "))
	if _, err := tx.Exec(create); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	insert := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(cols, ", "), strings.Join(marks, ", "))

	stmt, err := tx.Prepare(insert)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		values := rec.Values()
		args := make([]any, len(values))

		for i, v := range values {
			if v.Kind() == models.KindDate {
				args[i] = v.String()
			} else {
				args[i] = v.Any()
			}
		}

		if _, err := stmt.Exec(args...); err != nil {
			return fmt.Errorf("insert row %s: %w", rec.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	return nil
}
