package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// PostgresSource reads table metadata from PostgreSQL via
// information_schema.
type PostgresSource struct {
	conn       *pgx.Conn
	schemaName string
}

// NewPostgresSource connects to PostgreSQL. schemaName defaults to
// "public".
func NewPostgresSource(ctx context.Context, connString, schemaName string) (*PostgresSource, error) {
	conn, err := pgx.Connect(ctx, connString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := conn.Ping(ctx); err != nil {
		_ = conn.Close(ctx)
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if schemaName == "" {
		schemaName = "public"
	}
	return &PostgresSource{conn: conn, schemaName: schemaName}, nil
}

// Close closes the connection.
func (s *PostgresSource) Close(ctx context.Context) error {
	return s.conn.Close(ctx)
}

// ListColumns returns the table's columns in declaration order.
func (s *PostgresSource) ListColumns(ctx context.Context, table string) ([]schema.Column, error) {
	query := `
		SELECT
			column_name,
			data_type,
			character_maximum_length,
			numeric_precision,
			numeric_scale,
			is_nullable,
			column_default
		FROM information_schema.columns
		WHERE table_schema = $1 AND table_name = $2
		ORDER BY ordinal_position
	`

	rows, err := s.conn.Query(ctx, query, s.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			col        schema.Column
			dataType   string
			charLen    *int
			precision  *int
			scale      *int
			nullable   string
			defaultVal *string
		)
		if err := rows.Scan(&col.Name, &dataType, &charLen, &precision, &scale, &nullable, &defaultVal); err != nil {
			return nil, err
		}

		col.RawType = pgTypeToken(dataType, charLen, precision, scale)
		col.Nullable = nullable == "YES"

		if defaultVal != nil {
			switch {
			case strings.HasPrefix(*defaultVal, "nextval("):
				// Sequence-backed column: the serial convention.
				col.IsAutoIncrement = true
			default:
				// Strip the ::type cast Postgres appends to literals.
				v := strings.SplitN(*defaultVal, "::", 2)[0]
				col.DefaultValue = &v
			}
		}

		fillTypeFields(&col)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// FetchTable assembles the full table model: columns, primary key, and
// unique constraints.
func (s *PostgresSource) FetchTable(ctx context.Context, table string) (*schema.Table, error) {
	t := &schema.Table{Name: table}

	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found in schema %s", table, s.schemaName)
	}
	t.Columns = columns

	pk, err := s.primaryKey(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	t.PrimaryKey = pk

	unique, err := s.uniqueConstraints(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique constraints: %w", err)
	}
	t.UniqueConstraints = unique

	for i := range t.Columns {
		if t.IsPrimaryKeyColumn(t.Columns[i].Name) {
			t.Columns[i].IsPrimaryKey = true
			t.Columns[i].Nullable = false
		}
	}
	return t, nil
}

func (s *PostgresSource) primaryKey(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := s.conn.Query(ctx, query, s.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var pk []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		pk = append(pk, name)
	}
	return pk, rows.Err()
}

func (s *PostgresSource) uniqueConstraints(ctx context.Context, table string) ([]schema.UniqueConstraint, error) {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = $1
			AND tc.table_name = $2
			AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := s.conn.Query(ctx, query, s.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		constraints []schema.UniqueConstraint
		current     string
	)
	for rows.Next() {
		var name, column string
		if err := rows.Scan(&name, &column); err != nil {
			return nil, err
		}
		if name != current {
			constraints = append(constraints, schema.UniqueConstraint{Name: name})
			current = name
		}
		last := &constraints[len(constraints)-1]
		last.Columns = append(last.Columns, column)
	}
	return constraints, rows.Err()
}

// pgTypeToken rebuilds a declarable type token from the
// information_schema description.
func pgTypeToken(dataType string, charLen, precision, scale *int) string {
	switch dataType {
	case "character varying", "character":
		if charLen != nil {
			return fmt.Sprintf("%s(%d)", dataType, *charLen)
		}
	case "numeric", "decimal":
		if precision != nil && scale != nil && *precision > 0 {
			return fmt.Sprintf("%s(%d,%d)", dataType, *precision, *scale)
		}
	}
	return dataType
}
