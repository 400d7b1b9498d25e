// Package emitter renders a dialect-neutral table model as CREATE
// TABLE text for a target dialect. Each dialect's rendering quirks
// (identifier quoting, auto-increment/serial/identity syntax, table
// suffix) live in one rules value selected by an exhaustive dialect
// switch.
package emitter

import (
	"fmt"
	"strings"

	"github.com/sqlshift/sqlshift/internal/catalog"
	"github.com/sqlshift/sqlshift/internal/schema"
)

// Options carries target-side rendering knobs. Engine and Charset only
// apply to MySQL-family targets.
type Options struct {
	Engine  string
	Charset string
}

const (
	defaultEngine  = "InnoDB"
	defaultCharset = "utf8mb4"
)

// rules is the per-dialect rendering strategy.
type rules struct {
	quoteOpen  string
	quoteClose string
}

// rulesFor selects the rendering rules for a dialect. The dialect set
// is closed, so the switch is exhaustive.
func rulesFor(target schema.Dialect) rules {
	switch target {
	case schema.PostgreSQL, schema.SQLite:
		return rules{quoteOpen: `"`, quoteClose: `"`}
	case schema.SQLServer:
		return rules{quoteOpen: "[", quoteClose: "]"}
	default: // MySQL, MariaDB
		return rules{quoteOpen: "`", quoteClose: "`"}
	}
}

// QuoteIdent wraps an identifier in the target dialect's quote
// characters.
func QuoteIdent(name string, target schema.Dialect) string {
	r := rulesFor(target)
	return r.quoteOpen + name + r.quoteClose
}

// Emit renders the table as a CREATE TABLE statement for the target
// dialect. It never fails; an empty table produces an empty-bodied
// statement. Lines are joined with CRLF for cross-platform diff
// stability.
func Emit(t *schema.Table, target schema.Dialect, opts *Options) string {
	if opts == nil {
		opts = &Options{}
	}

	single := t.SinglePrimaryKey()
	inlinePK := single != nil && single.IsAutoIncrement

	var clauses []string
	for i := range t.Columns {
		col := &t.Columns[i]
		clauses = append(clauses, columnLine(t, col, target, inlinePK && col == single))
	}

	if len(t.PrimaryKey) > 0 && !inlinePK {
		quoted := make([]string, len(t.PrimaryKey))
		for i, name := range t.PrimaryKey {
			quoted[i] = QuoteIdent(name, target)
		}
		clauses = append(clauses, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(quoted, ", ")))
	}

	clauses = append(clauses, uniqueClauses(t, target)...)
	clauses = append(clauses, t.Extras...)

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(QuoteIdent(t.Name, target))
	b.WriteString(" (")
	for i, clause := range clauses {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\r\n\t")
		b.WriteString(clause)
	}
	if len(clauses) > 0 {
		b.WriteString("\r\n")
	}
	b.WriteString(")")
	b.WriteString(tableSuffix(target, opts))
	return b.String()
}

// columnLine renders one column definition. Clause order: name, type,
// auto-increment/identity marker, inline PRIMARY KEY, nullability,
// DEFAULT.
func columnLine(t *schema.Table, col *schema.Column, target schema.Dialect, inlinePK bool) string {
	parts := []string{QuoteIdent(col.Name, target)}

	typeToken := col.RawType
	if inlinePK {
		typeToken = autoIncrementType(col, target)
	}
	parts = append(parts, typeToken)

	if inlinePK {
		switch target {
		case schema.SQLite:
			parts = append(parts, "PRIMARY KEY AUTOINCREMENT")
		case schema.SQLServer:
			parts = append(parts, "IDENTITY(1,1)", "PRIMARY KEY")
		case schema.PostgreSQL:
			// Serial types carry the increment; no extra keyword.
			parts = append(parts, "PRIMARY KEY")
		default:
			parts = append(parts, "AUTO_INCREMENT", "PRIMARY KEY")
		}
	} else {
		// Auto-increment primary keys imply NOT NULL everywhere; an
		// explicit clause would be redundant (and misplaced keywords
		// around AUTOINCREMENT upset SQLite).
		if col.Nullable {
			parts = append(parts, "NULL")
		} else {
			parts = append(parts, "NOT NULL")
		}
	}

	if col.DefaultValue != nil && !inlinePK {
		if v, ok := catalog.FormatDefault(*col.DefaultValue, col.RawType, target); ok {
			parts = append(parts, "DEFAULT", v)
		}
	}

	return strings.Join(parts, " ")
}

// autoIncrementType forces the column type required by each dialect's
// auto-increment syntax.
func autoIncrementType(col *schema.Column, target schema.Dialect) string {
	big := strings.HasPrefix(strings.ToLower(col.RawType), "bigint") ||
		col.BaseType == "bigint" || col.BaseType == "bigserial"

	switch target {
	case schema.PostgreSQL:
		if big {
			return "BIGSERIAL"
		}
		return "SERIAL"
	case schema.SQLite:
		// AUTOINCREMENT is only valid on INTEGER PRIMARY KEY.
		return "INTEGER"
	default:
		return col.RawType
	}
}

// uniqueClauses renders table-level unique constraints. SQL Server is
// skipped: T-SQL unique constraints treat NULL as a value, so a
// faithful translation needs separately emitted filtered indexes.
func uniqueClauses(t *schema.Table, target schema.Dialect) []string {
	if target == schema.SQLServer {
		return nil
	}

	var clauses []string
	for _, uc := range t.UniqueConstraints {
		quoted := make([]string, len(uc.Columns))
		for i, name := range uc.Columns {
			quoted[i] = QuoteIdent(name, target)
		}
		cols := strings.Join(quoted, ", ")

		switch {
		case target.IsMySQLFamily() && uc.Name != "":
			clauses = append(clauses, fmt.Sprintf("UNIQUE KEY %s (%s)", QuoteIdent(uc.Name, target), cols))
		case target.IsMySQLFamily():
			clauses = append(clauses, fmt.Sprintf("UNIQUE KEY (%s)", cols))
		case uc.Name != "" && target == schema.PostgreSQL:
			clauses = append(clauses, fmt.Sprintf("CONSTRAINT %s UNIQUE (%s)", QuoteIdent(uc.Name, target), cols))
		default:
			clauses = append(clauses, fmt.Sprintf("UNIQUE (%s)", cols))
		}
	}
	return clauses
}

// tableSuffix renders the closing clause after the body's parenthesis.
func tableSuffix(target schema.Dialect, opts *Options) string {
	if !target.IsMySQLFamily() {
		return ";"
	}
	engine := opts.Engine
	if engine == "" {
		engine = defaultEngine
	}
	charset := opts.Charset
	if charset == "" {
		charset = defaultCharset
	}
	return fmt.Sprintf(" ENGINE=%s DEFAULT CHARSET=%s;", engine, charset)
}
