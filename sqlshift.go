// Package sqlshift translates CREATE TABLE statements and column type
// declarations between SQL dialects: MySQL/MariaDB, PostgreSQL,
// SQLite, and SQL Server.
//
// A schema authored for one engine is reproduced, as faithfully as the
// target engine allows, on another. Where the target has no equivalent
// construct the translation is lossy by design: an enumerated type
// becomes a sized text column, a fixed-precision decimal becomes REAL
// on SQLite, a time-zone-aware timestamp collapses to a plain one on
// MySQL. Losses are deterministic and documented, never errors.
//
// # Quick Start
//
// Translate one statement:
//
//	out, err := sqlshift.Translate(
//		"CREATE TABLE `users` (`id` INT AUTO_INCREMENT PRIMARY KEY, `email` VARCHAR(255) NOT NULL);",
//		sqlshift.MySQL,
//		sqlshift.PostgreSQL,
//		nil,
//	)
//
// Translate a whole dump (statements are independent; one bad table
// does not stop the rest):
//
//	out, err := sqlshift.TranslateDump(dump, sqlshift.MySQL, sqlshift.SQLite, nil)
//
// Convert a single type token:
//
//	token, err := sqlshift.ConvertType("tinyint(1)", sqlshift.MySQL, sqlshift.PostgreSQL)
//	// token == "BOOLEAN"
//
// # Behavior Notes
//
//   - translate(ddl, D, D) returns the input unchanged for every
//     dialect D.
//   - An unrecognized column type is never an error; it passes through
//     upper-cased.
//   - Leading DROP TABLE IF EXISTS statements are re-quoted for the
//     target and re-emitted as comment lines, never as executable
//     drops.
//   - Output lines are CRLF-separated for cross-platform diff
//     stability.
//
// # Live Databases
//
// FetchTableDDL pulls a table's definition out of a running database
// (postgres://, mysql://, sqlite://, or sqlserver:// URL) and renders
// it as DDL in the engine's own dialect, ready to feed to Translate.
// The translator core itself never touches a connection.
package sqlshift

import (
	"context"
	"errors"
	"fmt"

	"github.com/sqlshift/sqlshift/internal/catalog"
	"github.com/sqlshift/sqlshift/internal/db"
	"github.com/sqlshift/sqlshift/internal/emitter"
	"github.com/sqlshift/sqlshift/internal/parser"
	"github.com/sqlshift/sqlshift/internal/schema"
	"github.com/sqlshift/sqlshift/internal/translate"
)

// ParseError reports input without a recognizable CREATE TABLE shape
// for the declared source dialect.
type ParseError = parser.ParseError

// UnsupportedDialectError reports an unknown dialect tag on either end
// of a translation.
type UnsupportedDialectError = translate.UnsupportedDialectError

// IsParseError reports whether err is a ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsUnsupportedDialectError reports whether err is an
// UnsupportedDialectError.
func IsUnsupportedDialectError(err error) bool {
	var ue *UnsupportedDialectError
	return errors.As(err, &ue)
}

// Dialect identifies one of the supported SQL engines. MySQL and
// MariaDB are distinct tags sharing one rule set.
type Dialect = schema.Dialect

const (
	MySQL      = schema.MySQL
	MariaDB    = schema.MariaDB
	PostgreSQL = schema.PostgreSQL
	SQLite     = schema.SQLite
	SQLServer  = schema.SQLServer
)

// ParseDialect maps a dialect name (or common alias: postgresql,
// sqlite3, mssql) to its tag.
func ParseDialect(name string) (Dialect, error) {
	return schema.ParseDialect(name)
}

// Options configures target-side rendering.
//
// Engine and Charset apply only when the target is MySQL or MariaDB;
// they fill the trailing ENGINE=... DEFAULT CHARSET=... clause and
// default to InnoDB/utf8mb4. They are never inferred from the source
// statement.
type Options struct {
	Engine  string
	Charset string
}

// Translate converts one CREATE TABLE statement (optionally preceded
// by DROP TABLE IF EXISTS statements and -- comment lines) from the
// source dialect to the target dialect. opts may be nil.
//
// Returns a *ParseError when the input has no recognizable CREATE
// TABLE shape, and an *UnsupportedDialectError for an unknown dialect
// tag.
func Translate(ddl string, source, target Dialect, opts *Options) (string, error) {
	return translate.Statement(ddl, source, target, pipelineOptions(opts))
}

// TranslateDump converts a multi-statement dump. Every CREATE TABLE
// found is translated independently; failures are joined into the
// returned error while successful statements are still returned.
func TranslateDump(sql string, source, target Dialect, opts *Options) (string, error) {
	return translate.Dump(sql, source, target, pipelineOptions(opts))
}

// ConvertType translates a single column type token, for callers that
// need a type name and nothing else.
func ConvertType(typeToken string, source, target Dialect) (string, error) {
	if !source.Known() {
		return "", &UnsupportedDialectError{Dialect: source}
	}
	if !target.Known() {
		return "", &UnsupportedDialectError{Dialect: target}
	}
	token, _ := catalog.Translate(catalog.ParseTypeToken(typeToken), source, target)
	return token, nil
}

// FetchTableDDL reads one table's definition from a live database and
// returns it rendered in the engine's own dialect, together with that
// dialect's tag. Feed the result to Translate to move it to another
// engine.
func FetchTableDDL(ctx context.Context, databaseURL, table string) (string, Dialect, error) {
	source, dialect, err := db.Open(ctx, databaseURL)
	if err != nil {
		return "", "", err
	}
	defer func() { _ = source.Close(ctx) }()

	t, err := source.FetchTable(ctx, table)
	if err != nil {
		return "", "", fmt.Errorf("failed to fetch table %s: %w", table, err)
	}

	return emitter.Emit(t, dialect, nil), dialect, nil
}

func pipelineOptions(opts *Options) *translate.Options {
	if opts == nil {
		return nil
	}
	return &translate.Options{Engine: opts.Engine, Charset: opts.Charset}
}
