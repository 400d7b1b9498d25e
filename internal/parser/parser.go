// Package parser turns one CREATE TABLE statement into the
// dialect-neutral table model. Clause splitting tracks parenthesis
// depth and quoted strings explicitly, so nested parameter lists
// (decimal(10,2), enum('a,b','c')) and comma-bearing default literals
// survive intact.
package parser

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sqlshift/sqlshift/internal/catalog"
	"github.com/sqlshift/sqlshift/internal/schema"
)

// ParseError reports input that lacks a recognizable
// CREATE TABLE ... ( ... ) shape for the declared source dialect.
type ParseError struct {
	Dialect  schema.Dialect
	Fragment string
	Reason   string
}

func (e *ParseError) Error() string {
	frag := e.Fragment
	if len(frag) > 80 {
		frag = frag[:80] + "..."
	}
	return fmt.Sprintf("parse error (%s): %s: %q", e.Dialect, e.Reason, frag)
}

var (
	createTableRe = regexp.MustCompile(`(?i)\bCREATE\s+TABLE\s+(?:IF\s+NOT\s+EXISTS\s+)?([^\s(]+)\s*\(`)
	primaryKeyRe  = regexp.MustCompile(`(?i)^(?:CONSTRAINT\s+\S+\s+)?PRIMARY\s+KEY\s*\((.+)\)$`)
	uniqueRe      = regexp.MustCompile(`(?i)^(?:CONSTRAINT\s+(\S+)\s+)?UNIQUE(?:\s+(?:KEY|INDEX))?(?:\s+([^\s(]+))?\s*\((.+)\)$`)
	extraClauseRe = regexp.MustCompile(`(?i)^(?:FOREIGN\s+KEY|CHECK|CONSTRAINT|KEY|INDEX|FULLTEXT|SPATIAL)\b`)
	identityRe    = regexp.MustCompile(`(?i)^IDENTITY\(\s*\d+\s*,\s*\d+\s*\)$`)
)

// Parse turns one CREATE TABLE statement into a Table. The input may
// carry the source dialect's identifier quoting (backticks, double
// quotes, square brackets); quoting is stripped here and restored by
// the emitter.
func Parse(ddl string, source schema.Dialect) (*schema.Table, error) {
	normalized := normalize(ddl, source)

	loc := createTableRe.FindStringSubmatchIndex(normalized)
	if loc == nil {
		return nil, &ParseError{Dialect: source, Fragment: strings.TrimSpace(ddl), Reason: "no CREATE TABLE header"}
	}

	name := normalized[loc[2]:loc[3]]
	if dot := strings.LastIndex(name, "."); dot >= 0 {
		// Schema qualifiers are dropped, not preserved.
		name = name[dot+1:]
	}

	bodyStart := loc[1] // index just past the opening parenthesis
	body, ok := matchBody(normalized[bodyStart:])
	if !ok {
		return nil, &ParseError{Dialect: source, Fragment: normalized[loc[0]:], Reason: "unbalanced table body"}
	}

	table := &schema.Table{Name: name}
	for _, clause := range splitTopLevel(body) {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}
		if err := classifyClause(table, clause); err != nil {
			return nil, err
		}
	}

	finalizePrimaryKey(table)
	return table, nil
}

// normalize collapses whitespace runs to single spaces and strips the
// source dialect's identifier quote characters. Stripping skips
// single-quoted string literals: a default like 'say "hi"' keeps its
// embedded quote characters verbatim.
func normalize(ddl string, source schema.Dialect) string {
	s := strings.Join(strings.Fields(ddl), " ")
	switch {
	case source.IsMySQLFamily():
		return stripIdentQuotes(s, "`")
	case source == schema.SQLServer:
		return stripIdentQuotes(s, "[]")
	default:
		return stripIdentQuotes(s, `"`)
	}
}

// stripIdentQuotes removes the given identifier quote characters
// everywhere outside single-quoted string literals, honoring the ''
// escape inside them.
func stripIdentQuotes(s, quoteChars string) string {
	var (
		b       strings.Builder
		inQuote bool
	)
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case inQuote:
			b.WriteByte(c)
			if c == '\'' {
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte(s[i+1])
					i++
				} else {
					inQuote = false
				}
			}
		case c == '\'':
			b.WriteByte(c)
			inQuote = true
		case strings.IndexByte(quoteChars, c) >= 0:
			// identifier quoting, restored by the emitter
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// matchBody returns the text up to the parenthesis closing the table
// body, given input starting just inside it.
func matchBody(s string) (string, bool) {
	depth := 1
	inQuote := false
	for i := 0; i < len(s); i++ {
		switch {
		case inQuote:
			if s[i] == '\'' {
				inQuote = false
			}
		case s[i] == '\'':
			inQuote = true
		case s[i] == '(':
			depth++
		case s[i] == ')':
			depth--
			if depth == 0 {
				return s[:i], true
			}
		}
	}
	return "", false
}

// splitTopLevel splits the table body into clauses on commas, only at
// parenthesis depth zero and outside quoted strings.
func splitTopLevel(body string) []string {
	var (
		clauses []string
		start   int
		depth   int
		inQuote bool
	)
	for i := 0; i < len(body); i++ {
		switch {
		case inQuote:
			if body[i] == '\'' {
				inQuote = false
			}
		case body[i] == '\'':
			inQuote = true
		case body[i] == '(':
			depth++
		case body[i] == ')':
			depth--
		case body[i] == ',' && depth == 0:
			clauses = append(clauses, body[start:i])
			start = i + 1
		}
	}
	clauses = append(clauses, body[start:])
	return clauses
}

// classifyClause routes one top-level clause: table constraint, column
// definition, or verbatim passthrough.
func classifyClause(table *schema.Table, clause string) error {
	if m := primaryKeyRe.FindStringSubmatch(clause); m != nil {
		for _, col := range splitColumnList(m[1]) {
			addPrimaryKey(table, col)
		}
		return nil
	}

	if m := uniqueRe.FindStringSubmatch(clause); m != nil {
		name := m[1]
		if name == "" {
			name = m[2]
		}
		table.UniqueConstraints = append(table.UniqueConstraints, schema.UniqueConstraint{
			Name:    name,
			Columns: splitColumnList(m[3]),
		})
		return nil
	}

	if extraClauseRe.MatchString(clause) {
		// FOREIGN KEY, CHECK, vendor constraints: out of translation
		// scope, preserved verbatim.
		table.Extras = append(table.Extras, clause)
		return nil
	}

	return parseColumn(table, clause)
}

// parseColumn handles a single column definition clause.
func parseColumn(table *schema.Table, clause string) error {
	tokens := tokenize(clause)
	if len(tokens) < 2 {
		table.Extras = append(table.Extras, clause)
		return nil
	}

	col := schema.Column{
		Name:     tokens[0],
		Nullable: true,
	}

	// The type is the second token plus any multi-word continuation
	// ("double precision", "timestamp with time zone", "character
	// varying(40)").
	typeEnd := 2
	for typeEnd < len(tokens) && catalog.IsTypeContinuation(baseWord(tokens[typeEnd])) {
		typeEnd++
	}
	col.RawType = strings.Join(tokens[1:typeEnd], " ")

	parsed := catalog.ParseTypeToken(col.RawType)
	col.BaseType = parsed.Base
	col.Length = parsed.Length
	col.Precision = parsed.Precision
	col.Scale = parsed.Scale
	col.EnumValues = parsed.EnumValues

	inlinePK := false
	for i := typeEnd; i < len(tokens); i++ {
		word := strings.ToLower(tokens[i])
		switch {
		case word == "not" && nextIs(tokens, i, "null"):
			col.Nullable = false
			i++
		case word == "null":
			col.Nullable = true
		case word == "default" && i+1 < len(tokens):
			v := tokens[i+1]
			col.DefaultValue = &v
			i++
		case word == "primary" && nextIs(tokens, i, "key"):
			inlinePK = true
			i++
		case word == "auto_increment" || word == "autoincrement":
			col.IsAutoIncrement = true
		case identityRe.MatchString(tokens[i]):
			col.IsAutoIncrement = true
		case word == "unique":
			table.UniqueConstraints = append(table.UniqueConstraints, schema.UniqueConstraint{
				Columns: []string{col.Name},
			})
		case word == "on" && nextIs(tokens, i, "update"):
			// ON UPDATE CURRENT_TIMESTAMP: recorded then discarded,
			// trigger emulation is out of scope.
			i += 2
		case word == "comment" && i+1 < len(tokens):
			i++
		}
	}

	// Serial types imply auto-increment regardless of keywords.
	if catalog.IsSerial(parsed) {
		col.IsAutoIncrement = true
	}

	// Auto-increment is only meaningful on the integer family.
	if col.IsAutoIncrement && !catalog.IsIntegerBase(parsed.Base) {
		col.IsAutoIncrement = false
	}

	table.Columns = append(table.Columns, col)
	if inlinePK {
		addPrimaryKey(table, col.Name)
	}
	return nil
}

// addPrimaryKey records a primary key column, de-duplicating repeats
// between inline markers and the table-level clause.
func addPrimaryKey(table *schema.Table, name string) {
	for _, existing := range table.PrimaryKey {
		if strings.EqualFold(existing, name) {
			return
		}
	}
	table.PrimaryKey = append(table.PrimaryKey, name)
}

// finalizePrimaryKey forces primary key columns non-nullable and sets
// their flag.
func finalizePrimaryKey(table *schema.Table) {
	for i := range table.Columns {
		if table.IsPrimaryKeyColumn(table.Columns[i].Name) {
			table.Columns[i].IsPrimaryKey = true
			table.Columns[i].Nullable = false
		}
	}
}

// splitColumnList splits "a, b, c" into trimmed names.
func splitColumnList(list string) []string {
	parts := strings.Split(list, ",")
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			cols = append(cols, name)
		}
	}
	return cols
}

// nextIs reports whether the token after position i equals word
// (case-insensitive).
func nextIs(tokens []string, i int, word string) bool {
	return i+1 < len(tokens) && strings.EqualFold(tokens[i+1], word)
}

// baseWord strips a trailing parenthesized group from a token,
// returning just the leading word.
func baseWord(token string) string {
	if open := strings.Index(token, "("); open >= 0 {
		return token[:open]
	}
	return token
}

// tokenize splits a clause into words, keeping quoted strings and
// parenthesized groups attached as single tokens. "DEFAULT 'a, b'"
// tokenizes to two tokens, "decimal(10,2)" to one.
func tokenize(clause string) []string {
	var (
		tokens  []string
		current strings.Builder
		depth   int
		inQuote bool
	)
	flush := func() {
		if current.Len() > 0 {
			tokens = append(tokens, current.String())
			current.Reset()
		}
	}
	for i := 0; i < len(clause); i++ {
		c := clause[i]
		switch {
		case inQuote:
			current.WriteByte(c)
			if c == '\'' {
				if i+1 < len(clause) && clause[i+1] == '\'' {
					current.WriteByte(clause[i+1])
					i++
				} else {
					inQuote = false
				}
			}
		case c == '\'':
			current.WriteByte(c)
			inQuote = true
		case c == '(':
			depth++
			current.WriteByte(c)
		case c == ')':
			depth--
			current.WriteByte(c)
		case c == ' ' && depth == 0:
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return tokens
}
