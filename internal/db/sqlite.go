package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// SQLiteSource reads table metadata from a SQLite database file via
// the PRAGMA interface.
type SQLiteSource struct {
	db *sql.DB
}

// NewSQLiteSource opens a SQLite database file.
func NewSQLiteSource(ctx context.Context, path string) (*SQLiteSource, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	return &SQLiteSource{db: db}, nil
}

// Close closes the database handle.
func (s *SQLiteSource) Close(ctx context.Context) error {
	return s.db.Close()
}

// ListColumns returns the table's columns in declaration order.
func (s *SQLiteSource) ListColumns(ctx context.Context, table string) ([]schema.Column, error) {
	columns, _, err := s.tableInfo(ctx, table)
	return columns, err
}

// tableInfo reads PRAGMA table_info, returning columns and the primary
// key column names in key order.
func (s *SQLiteSource) tableInfo(ctx context.Context, table string) ([]schema.Column, []string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%q)", table))
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	var (
		columns []schema.Column
		pkOrder = map[int]string{}
		maxPK   int
	)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, colType    string
			defaultValue     sql.NullString
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}

		col := schema.Column{
			Name:     name,
			RawType:  colType,
			Nullable: notNull == 0,
		}
		if defaultValue.Valid {
			v := defaultValue.String
			col.DefaultValue = &v
		}
		if pk > 0 {
			pkOrder[pk] = name
			if pk > maxPK {
				maxPK = pk
			}
		}

		fillTypeFields(&col)
		columns = append(columns, col)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var pk []string
	for i := 1; i <= maxPK; i++ {
		if name, ok := pkOrder[i]; ok {
			pk = append(pk, name)
		}
	}
	return columns, pk, nil
}

// FetchTable assembles the full table model.
func (s *SQLiteSource) FetchTable(ctx context.Context, table string) (*schema.Table, error) {
	t := &schema.Table{Name: table}

	columns, pk, err := s.tableInfo(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table %s not found", table)
	}
	t.Columns = columns
	t.PrimaryKey = pk

	unique, err := s.uniqueConstraints(ctx, table)
	if err != nil {
		return nil, fmt.Errorf("failed to extract unique constraints: %w", err)
	}
	t.UniqueConstraints = unique

	// An INTEGER single-column primary key is SQLite's rowid alias,
	// which behaves as auto-increment.
	if single := t.SinglePrimaryKey(); single != nil && strings.EqualFold(single.RawType, "INTEGER") {
		single.IsAutoIncrement = true
	}

	for i := range t.Columns {
		if t.IsPrimaryKeyColumn(t.Columns[i].Name) {
			t.Columns[i].IsPrimaryKey = true
			t.Columns[i].Nullable = false
		}
	}
	return t, nil
}

func (s *SQLiteSource) uniqueConstraints(ctx context.Context, table string) ([]schema.UniqueConstraint, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_list(%q)", table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var uniqueIndexes []string
	for rows.Next() {
		var (
			seq, unique, partial int
			name, origin         string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, err
		}
		// origin "u" marks indexes created by UNIQUE constraints;
		// "pk" ones are handled through the primary key.
		if unique == 1 && origin == "u" {
			uniqueIndexes = append(uniqueIndexes, name)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var constraints []schema.UniqueConstraint
	for _, idx := range uniqueIndexes {
		columns, err := s.indexColumns(ctx, idx)
		if err != nil {
			return nil, err
		}
		if len(columns) == 0 {
			continue
		}
		uc := schema.UniqueConstraint{Columns: columns}
		// Auto-generated constraint indexes have no declarable name.
		if !strings.HasPrefix(idx, "sqlite_autoindex") {
			uc.Name = idx
		}
		constraints = append(constraints, uc)
	}
	return constraints, nil
}

func (s *SQLiteSource) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA index_info(%q)", index))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []string
	for rows.Next() {
		var (
			seqno, cid int
			name       sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		if name.Valid {
			columns = append(columns, name.String)
		}
	}
	return columns, rows.Err()
}
