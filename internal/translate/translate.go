// Package translate orchestrates DDL translation: strip dialect noise,
// parse, translate each column's type, normalize defaults, emit. The
// pipeline is a pure function of the input string and two dialect
// tags; nothing here holds state across calls.
package translate

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sqlshift/sqlshift/internal/catalog"
	"github.com/sqlshift/sqlshift/internal/emitter"
	"github.com/sqlshift/sqlshift/internal/parser"
	"github.com/sqlshift/sqlshift/internal/schema"
)

// UnsupportedDialectError signals an invalid dialect tag on either end
// of a translation.
type UnsupportedDialectError struct {
	Dialect schema.Dialect
}

func (e *UnsupportedDialectError) Error() string {
	return fmt.Sprintf("unsupported dialect: %q", string(e.Dialect))
}

// Options mirrors the emitter knobs; it exists so callers above the
// pipeline do not import the emitter directly.
type Options struct {
	Engine  string
	Charset string
}

var (
	dropTableRe   = regexp.MustCompile(`(?i)DROP\s+TABLE\s+(?:IF\s+EXISTS\s+)?([^\s;]+)\s*;`)
	createStartRe = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\b`)
	commentLineRe = regexp.MustCompile(`(?m)^\s*--[^\r\n]*`)
)

// Statement translates one CREATE TABLE statement (optionally preceded
// by DROP TABLE IF EXISTS statements and -- comment lines) from the
// source dialect to the target dialect.
func Statement(ddl string, source, target schema.Dialect, opts *Options) (string, error) {
	if !source.Known() {
		return "", &UnsupportedDialectError{Dialect: source}
	}
	if !target.Known() {
		return "", &UnsupportedDialectError{Dialect: target}
	}

	// Identity pair: required no-op fast path.
	if source == target {
		return ddl, nil
	}

	preamble, body := splitPreamble(ddl)

	table, err := parser.Parse(body, source)
	if err != nil {
		return "", err
	}

	translateColumns(table, source, target)

	if opts == nil {
		opts = &Options{}
	}

	var b strings.Builder
	for _, name := range preamble {
		// Extracted drops are advisory: re-quoted for the target and
		// commented out, never emitted as executable statements.
		b.WriteString("-- DROP TABLE IF EXISTS ")
		b.WriteString(emitter.QuoteIdent(stripQuoting(name), target))
		b.WriteString(";\r\n")
	}
	b.WriteString(emitter.Emit(table, target, &emitter.Options{Engine: opts.Engine, Charset: opts.Charset}))
	return b.String(), nil
}

// Dump translates a multi-statement dump. Each CREATE TABLE is parsed
// and emitted independently; a failure on one table does not prevent
// attempting the rest. The returned error joins the per-statement
// failures, alongside whatever output succeeded.
func Dump(sql string, source, target schema.Dialect, opts *Options) (string, error) {
	if !source.Known() {
		return "", &UnsupportedDialectError{Dialect: source}
	}
	if !target.Known() {
		return "", &UnsupportedDialectError{Dialect: target}
	}
	if source == target {
		return sql, nil
	}

	var (
		outputs []string
		errs    []error
		pending []string // DROP statements waiting for their CREATE
	)
	for _, stmt := range splitStatements(sql) {
		trimmed := strings.TrimSpace(stmt)
		if trimmed == "" {
			continue
		}
		switch {
		case dropTableRe.MatchString(trimmed + ";"):
			pending = append(pending, trimmed+";")
		case createStartRe.MatchString(trimmed):
			full := strings.Join(append(pending, trimmed+";"), "\n")
			pending = nil
			out, err := Statement(full, source, target, opts)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			outputs = append(outputs, out)
		}
		// Anything else (SET, INSERT, comments) is outside the
		// translator's scope and dropped from the output.
	}

	return strings.Join(outputs, "\r\n\r\n"), errors.Join(errs...)
}

// translateColumns rewrites every column's type token for the target
// dialect and normalizes default values against the translated type.
func translateColumns(table *schema.Table, source, target schema.Dialect) {
	for i := range table.Columns {
		col := &table.Columns[i]

		parsed := catalog.Parsed{
			Raw:        col.RawType,
			Base:       col.BaseType,
			Length:     col.Length,
			Precision:  col.Precision,
			Scale:      col.Scale,
			EnumValues: col.EnumValues,
		}

		token, auto := catalog.Translate(parsed, source, target)
		col.RawType = token
		col.BaseType = catalog.ParseTypeToken(token).Base
		if auto {
			col.IsAutoIncrement = true
		}

		if col.DefaultValue != nil {
			if v, ok := catalog.FormatDefault(*col.DefaultValue, col.RawType, target); ok {
				col.DefaultValue = &v
			} else {
				col.DefaultValue = nil
			}
		}
	}
}

// splitPreamble extracts leading DROP TABLE statements and comment
// lines, returning the dropped table names and the remaining CREATE
// TABLE text.
func splitPreamble(ddl string) (drops []string, body string) {
	body = commentLineRe.ReplaceAllString(ddl, "")

	createAt := createStartRe.FindStringIndex(body)
	head := body
	if createAt != nil {
		head = body[:createAt[0]]
	}

	for _, m := range dropTableRe.FindAllStringSubmatch(head, -1) {
		drops = append(drops, m[1])
	}
	if createAt != nil {
		body = body[createAt[0]:]
	}
	return drops, body
}

// stripQuoting removes any identifier quoting and schema qualifier
// from a bare table name.
func stripQuoting(name string) string {
	name = quoteStripper.Replace(name)
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		name = name[dot+1:]
	}
	return name
}

var quoteStripper = strings.NewReplacer("`", "", `"`, "", "[", "", "]", "")

// splitStatements splits SQL text on semicolons outside quoted
// strings.
func splitStatements(sql string) []string {
	var (
		statements []string
		start      int
		inQuote    bool
	)
	for i := 0; i < len(sql); i++ {
		switch {
		case inQuote:
			if sql[i] == '\'' {
				inQuote = false
			}
		case sql[i] == '\'':
			inQuote = true
		case sql[i] == ';':
			statements = append(statements, sql[start:i])
			start = i + 1
		}
	}
	statements = append(statements, sql[start:])
	return statements
}
