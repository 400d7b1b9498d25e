package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/go-sql-driver/mysql"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// MySQLSource reads table metadata from MySQL or MariaDB via
// information_schema.
type MySQLSource struct {
	db         *sql.DB
	schemaName string
}

// NewMySQLSource connects to MySQL using a driver DSN
// (user:pass@tcp(host:port)/database). The schema name is taken from
// the DSN's database segment.
func NewMySQLSource(ctx context.Context, dsn string) (*MySQLSource, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schemaName, err := databaseNameFromDSN(dsn)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to determine database name: %w", err)
	}

	return &MySQLSource{db: db, schemaName: schemaName}, nil
}

// Close closes the connection pool.
func (s *MySQLSource) Close(ctx context.Context) error {
	return s.db.Close()
}

// ListColumns returns the table's columns in declaration order.
// column_type carries the full token (varchar(255), tinyint(1),
// enum('a','b')) so no reconstruction is needed.
func (s *MySQLSource) ListColumns(ctx context.Context, table string) ([]schema.Column, error) {
	query := `
		SELECT
			column_name,
			column_type,
			is_nullable,
			column_default,
			extra
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, s.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var (
			col        schema.Column
			nullable   string
			defaultVal sql.NullString
			extra      string
		)
		if err := rows.Scan(&col.Name, &col.RawType, &nullable, &defaultVal, &extra); err != nil {
			return nil, err
		}

		col.Nullable = nullable == "YES"
		if defaultVal.Valid {
			v := defaultVal.String
			col.DefaultValue = &v
		}
		col.IsAutoIncrement = strings.Contains(strings.ToLower(extra), "auto_increment")

		fillTypeFields(&col)
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// FetchTable assembles the full table model.
func (s *MySQLSource) FetchTable(ctx context.Context, table string) (*schema.Table, error) {
	t := &schema.Table{Name: table}

	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found in database %s", table, s.schemaName)
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

func (s *MySQLSource) primaryKey(ctx context.Context, table string) ([]string, error) {
	query := `
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = ?
			AND tc.table_name = ?
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, s.schemaName, table)
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

func (s *MySQLSource) uniqueConstraints(ctx context.Context, table string) ([]schema.UniqueConstraint, error) {
	query := `
		SELECT tc.constraint_name, kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
			AND tc.table_name = kcu.table_name
		WHERE tc.table_schema = ?
			AND tc.table_name = ?
			AND tc.constraint_type = 'UNIQUE'
		ORDER BY tc.constraint_name, kcu.ordinal_position
	`

	rows, err := s.db.QueryContext(ctx, query, s.schemaName, table)
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

// databaseNameFromDSN pulls the database segment out of a MySQL driver
// DSN: user:pass@tcp(host:port)/database?params.
func databaseNameFromDSN(dsn string) (string, error) {
	slash := strings.LastIndex(dsn, "/")
	if slash < 0 || slash == len(dsn)-1 {
		return "", fmt.Errorf("no database name in DSN")
	}
	name := dsn[slash+1:]
	if q := strings.Index(name, "?"); q >= 0 {
		name = name[:q]
	}
	if name == "" {
		return "", fmt.Errorf("no database name in DSN")
	}
	return name, nil
}
