// Package repository handles all interactions with the database.
//
// It contains the raw SQL and the methods that persist and fetch
// records, abstracting SQL away from the service layer. Every value
// reaches the store as a bound parameter ($1, $2, ...), never through
// string formatting; both drivers accept the $N placeholder style.
package repository

import (
	"context"
	"database/sql"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/deppfellow/perftracker/internal/database"
	"github.com/deppfellow/perftracker/internal/sqlerr"
)

// scanRows maps every row of rows onto a T by column name, using the
// `db` struct tags. It always returns a non-nil slice on success and
// nil on any error, so callers never see a partial result.
//
// NULL text columns become "", NULL numbers become 0.
func scanRows[T any](rows *sql.Rows) ([]T, error) {
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("reading columns: %w", err)
	}

	var zero T
	fieldIndex, err := columnFields(reflect.TypeOf(zero), columns)
	if err != nil {
		return nil, err
	}

	items := make([]T, 0)
	for rows.Next() {
		var item T
		v := reflect.ValueOf(&item).Elem()

		holders := make([]any, len(columns))
		for i, idx := range fieldIndex {
			holders[i] = nullHolder(v.Field(idx))
		}

		if err := rows.Scan(holders...); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		for i, idx := range fieldIndex {
			assign(v.Field(idx), holders[i])
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}
	return items, nil
}

// columnFields resolves each column name to the index of the field
// tagged with it. An unknown column is an error: it means the query and
// the record type drifted apart.
func columnFields(t reflect.Type, columns []string) ([]int, error) {
	byTag := make(map[string]int, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		name := strings.SplitN(t.Field(i).Tag.Get("db"), ",", 2)[0]
		if name != "" && name != "-" {
			byTag[name] = i
		}
	}

	out := make([]int, len(columns))
	for i, col := range columns {
		idx, ok := byTag[strings.ToLower(col)]
		if !ok {
			return nil, fmt.Errorf("column %q has no field in %s", col, t.Name())
		}
		out[i] = idx
	}
	return out, nil
}

func nullHolder(field reflect.Value) any {
	switch field.Kind() {
	case reflect.String:
		return new(sql.NullString)
	case reflect.Int, reflect.Int32, reflect.Int64:
		return new(sql.NullInt64)
	case reflect.Float32, reflect.Float64:
		return new(sql.NullFloat64)
	default:
		return field.Addr().Interface()
	}
}

func assign(field reflect.Value, holder any) {
	switch h := holder.(type) {
	case *sql.NullString:
		field.SetString(h.String)
	case *sql.NullInt64:
		field.SetInt(h.Int64)
	case *sql.NullFloat64:
		field.SetFloat(h.Float64)
	}
}

func countRows(ctx context.Context, db *database.Database, query string) (int64, error) {
	defer db.Observe(ctx, query, time.Now())

	var n int64
	if err := db.DB.QueryRowContext(ctx, query).Scan(&n); err != nil {
		return 0, sqlerr.HandleError(err)
	}
	return n, nil
}
