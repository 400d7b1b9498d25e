package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/microsoft/go-mssqldb"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// SQLServerSource reads table metadata from SQL Server via
// INFORMATION_SCHEMA and COLUMNPROPERTY.
type SQLServerSource struct {
	db *sql.DB
}

// NewSQLServerSource connects to SQL Server using a sqlserver:// URL.
func NewSQLServerSource(ctx context.Context, connString string) (*SQLServerSource, error) {
	db, err := sql.Open("sqlserver", connString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLServerSource{db: db}, nil
}

// Close closes the connection pool.
func (s *SQLServerSource) Close(ctx context.Context) error {
	return s.db.Close()
}

// ListColumns returns the table's columns in declaration order.
func (s *SQLServerSource) ListColumns(ctx context.Context, table string) ([]schema.Column, error) {
	query := `
		SELECT
			c.COLUMN_NAME,
			c.DATA_TYPE,
			c.CHARACTER_MAXIMUM_LENGTH,
			c.NUMERIC_PRECISION,
			c.NUMERIC_SCALE,
			c.IS_NULLABLE,
			c.COLUMN_DEFAULT,
			COLUMNPROPERTY(OBJECT_ID(c.TABLE_SCHEMA + '.' + c.TABLE_NAME), c.COLUMN_NAME, 'IsIdentity')
		FROM INFORMATION_SCHEMA.COLUMNS c
		WHERE c.TABLE_NAME = @p1
		ORDER BY c.ORDINAL_POSITION
	`

	rows, err := s.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			col        schema.Column
			dataType   string
			charLen    sql.NullInt64
			precision  sql.NullInt64
			scale      sql.NullInt64
			nullable   string
			defaultVal sql.NullString
			isIdentity sql.NullInt64
		)
		if err := rows.Scan(&col.Name, &dataType, &charLen, &precision, &scale, &nullable, &defaultVal, &isIdentity); err != nil {
			return nil, err
		}

		col.RawType = mssqlTypeToken(dataType, charLen, precision, scale)
		col.Nullable = nullable == "YES"
		col.IsAutoIncrement = isIdentity.Valid && isIdentity.Int64 == 1
		if defaultVal.Valid {
			v := trimDefaultParens(defaultVal.String)
			col.DefaultValue = &v
		}

		fillTypeFields(&col)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// FetchTable assembles the full table model. Unique constraints are
// read for completeness even though the emitter does not render them
// for SQL Server targets.
func (s *SQLServerSource) FetchTable(ctx context.Context, table string) (*schema.Table, error) {
	t := &schema.Table{Name: table}

	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	t.Columns = columns

	pk, err := s.constraintColumns(ctx, table, "PRIMARY KEY")
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	for _, group := range pk {
		t.PrimaryKey = append(t.PrimaryKey, group.Columns...)
	}

	unique, err := s.constraintColumns(ctx, table, "UNIQUE")
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

func (s *SQLServerSource) constraintColumns(ctx context.Context, table, constraintType string) ([]schema.UniqueConstraint, error) {
	query := `
		SELECT tc.CONSTRAINT_NAME, kcu.COLUMN_NAME
		FROM INFORMATION_SCHEMA.TABLE_CONSTRAINTS tc
		JOIN INFORMATION_SCHEMA.KEY_COLUMN_USAGE kcu
			ON tc.CONSTRAINT_NAME = kcu.CONSTRAINT_NAME
			AND tc.TABLE_NAME = kcu.TABLE_NAME
		WHERE tc.TABLE_NAME = @p1
			AND tc.CONSTRAINT_TYPE = @p2
		ORDER BY tc.CONSTRAINT_NAME, kcu.ORDINAL_POSITION
	`

	rows, err := s.db.QueryContext(ctx, query, table, constraintType)
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

// mssqlTypeToken rebuilds a declarable type token. A character length
// of -1 means MAX.
func mssqlTypeToken(dataType string, charLen, precision, scale sql.NullInt64) string {
	switch dataType {
	case "varchar", "nvarchar", "char", "nchar", "varbinary", "binary":
		if charLen.Valid {
			if charLen.Int64 < 0 {
				return dataType + "(MAX)"
			}
			return fmt.Sprintf("%s(%d)", dataType, charLen.Int64)
		}
	case "decimal", "numeric":
		if precision.Valid && scale.Valid {
			return fmt.Sprintf("%s(%d,%d)", dataType, precision.Int64, scale.Int64)
		}
	}
	return dataType
}

// trimDefaultParens unwraps SQL Server's habit of storing defaults as
// ((0)) or ('text').
func trimDefaultParens(def string) string {
	for len(def) >= 2 && def[0] == '(' && def[len(def)-1] == ')' {
		def = def[1 : len(def)-1]
	}
	return def
}
