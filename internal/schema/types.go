package schema

import (
	"context"
	"fmt"
	"strings"
)

// Dialect identifies one of the supported SQL engines.
type Dialect string

const (
	MySQL      Dialect = "mysql"
	MariaDB    Dialect = "mariadb"
	PostgreSQL Dialect = "postgres"
	SQLite     Dialect = "sqlite"
	SQLServer  Dialect = "sqlserver"
)

// ParseDialect maps a user-supplied dialect name to a Dialect tag.
// Common aliases (postgresql, pgsql, sqlite3, mssql) are accepted.
func ParseDialect(name string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "mysql":
		return MySQL, nil
	case "mariadb":
		return MariaDB, nil
	case "postgres", "postgresql", "pgsql":
		return PostgreSQL, nil
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "sqlserver", "mssql":
		return SQLServer, nil
	default:
		return "", fmt.Errorf("unknown dialect: %q", name)
	}
}

// Known reports whether d is one of the supported dialect tags.
func (d Dialect) Known() bool {
	switch d {
	case MySQL, MariaDB, PostgreSQL, SQLite, SQLServer:
		return true
	}
	return false
}

// IsMySQLFamily reports whether d follows MySQL's DDL rules.
// MariaDB is a distinct tag but shares MySQL's rule set.
func (d Dialect) IsMySQLFamily() bool {
	return d == MySQL || d == MariaDB
}

// Table is the dialect-neutral representation of one CREATE TABLE
// statement. It is built fresh per translation and discarded after
// emission.
type Table struct {
	Name              string
	Columns           []Column
	PrimaryKey        []string
	UniqueConstraints []UniqueConstraint

	// Extras holds table-level clauses the parser does not understand
	// (FOREIGN KEY, CHECK, vendor-specific constraints). They are
	// re-emitted verbatim with source quoting stripped.
	Extras []string
}

// Column represents a single column definition.
type Column struct {
	Name     string
	RawType  string // verbatim source type token, e.g. "varchar(255)"
	BaseType string // lower-cased head token, e.g. "varchar"

	Length    int // 0 = absent
	Precision int
	Scale     int

	// EnumValues holds the literal list for enum/set types, quotes
	// stripped.
	EnumValues []string

	Nullable        bool
	DefaultValue    *string
	IsPrimaryKey    bool
	IsAutoIncrement bool
}

// UniqueConstraint is a table-level UNIQUE constraint. Name may be
// empty for anonymous constraints.
type UniqueConstraint struct {
	Name    string
	Columns []string
}

// HasColumn reports whether the table declares a column with the given
// name. Column names are compared case-insensitively.
func (t *Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}

// IsPrimaryKeyColumn reports whether name is part of the table's
// primary key.
func (t *Table) IsPrimaryKeyColumn(name string) bool {
	for _, pk := range t.PrimaryKey {
		if strings.EqualFold(pk, name) {
			return true
		}
	}
	return false
}

// SinglePrimaryKey returns the column that is the table's sole primary
// key, or nil when the key is absent or composite.
func (t *Table) SinglePrimaryKey() *Column {
	if len(t.PrimaryKey) != 1 {
		return nil
	}
	for i := range t.Columns {
		if strings.EqualFold(t.Columns[i].Name, t.PrimaryKey[0]) {
			return &t.Columns[i]
		}
	}
	return nil
}

// ColumnMetadataSource lists the columns of a live table. The
// translator core never calls this; implementations feed parsed
// metadata into it from the outside.
type ColumnMetadataSource interface {
	ListColumns(ctx context.Context, table string) ([]Column, error)
}
