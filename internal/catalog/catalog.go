// Package catalog holds the type-mapping relation between the
// supported SQL dialects: static canonical-to-dialect spelling tables
// plus the ordered special-case rules a flat table cannot express
// (boolean-as-tinyint(1), serial/identity, enum/set sizing, timestamp
// time zones, json/jsonb).
package catalog

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// Parsed is the decomposed form of one raw type token.
type Parsed struct {
	Raw  string // verbatim source token, e.g. "varchar(255)"
	Base string // lower-cased head, e.g. "varchar"

	Length    int // 0 = absent
	Precision int
	Scale     int

	EnumValues []string // literal list for enum/set, quotes stripped
}

// canonicalToMySQL is the base directional table. SQL Server reuses it
// with overrides, mirroring how close the two keyword sets are.
var canonicalToMySQL = map[string]string{
	"tinyint":                  "TINYINT",
	"tinyint(1)":               "TINYINT(1)",
	"smallint":                 "SMALLINT",
	"mediumint":                "MEDIUMINT",
	"int":                      "INT",
	"bigint":                   "BIGINT",
	"float":                    "FLOAT",
	"double":                   "DOUBLE",
	"double precision":         "DOUBLE PRECISION",
	"decimal":                  "DECIMAL",
	"numeric":                  "NUMERIC",
	"char":                     "CHAR",
	"varchar":                  "VARCHAR",
	"tinytext":                 "TINYTEXT",
	"text":                     "TEXT",
	"mediumtext":               "MEDIUMTEXT",
	"longtext":                 "LONGTEXT",
	"date":                     "DATE",
	"time":                     "TIME",
	"datetime":                 "DATETIME",
	"timestamp":                "TIMESTAMP",
	"timestamp with time zone": "TIMESTAMP",
	"year":                     "YEAR",
	"boolean":                  "TINYINT(1)",
	"json":                     "JSON",
	"jsonb":                    "JSON",
	"uuid":                     "CHAR(36)",
	"blob":                     "BLOB",
	"tinyblob":                 "TINYBLOB",
	"mediumblob":               "MEDIUMBLOB",
	"longblob":                 "LONGBLOB",
	"serial":                   "INT",
	"bigserial":                "BIGINT",
	"enum":                     "ENUM",
	"set":                      "SET",
}

var canonicalToPostgres = map[string]string{
	"tinyint":                  "SMALLINT",
	"tinyint(1)":               "BOOLEAN",
	"smallint":                 "SMALLINT",
	"mediumint":                "INTEGER",
	"int":                      "INTEGER",
	"bigint":                   "BIGINT",
	"float":                    "REAL",
	"double":                   "DOUBLE PRECISION",
	"double precision":         "DOUBLE PRECISION",
	"decimal":                  "DECIMAL",
	"numeric":                  "NUMERIC",
	"char":                     "CHAR",
	"varchar":                  "CHARACTER VARYING",
	"tinytext":                 "TEXT",
	"text":                     "TEXT",
	"mediumtext":               "TEXT",
	"longtext":                 "TEXT",
	"date":                     "DATE",
	"time":                     "TIME",
	"datetime":                 "TIMESTAMP",
	"timestamp":                "TIMESTAMP",
	"timestamp with time zone": "TIMESTAMP WITH TIME ZONE",
	"year":                     "SMALLINT",
	"boolean":                  "BOOLEAN",
	"json":                     "JSON",
	"jsonb":                    "JSONB",
	"uuid":                     "UUID",
	"blob":                     "BYTEA",
	"tinyblob":                 "BYTEA",
	"mediumblob":               "BYTEA",
	"longblob":                 "BYTEA",
	"serial":                   "SERIAL",
	"bigserial":                "BIGSERIAL",
}

var canonicalToSQLite = map[string]string{
	"tinyint":                  "TINYINT",
	"tinyint(1)":               "INTEGER",
	"smallint":                 "SMALLINT",
	"mediumint":                "MEDIUMINT",
	"int":                      "INTEGER",
	"bigint":                   "BIGINT",
	"float":                    "REAL",
	"double":                   "REAL",
	"double precision":         "REAL",
	"decimal":                  "REAL",
	"numeric":                  "REAL",
	"char":                     "CHARACTER",
	"varchar":                  "VARCHAR",
	"tinytext":                 "TEXT",
	"text":                     "TEXT",
	"mediumtext":               "TEXT",
	"longtext":                 "TEXT",
	"date":                     "DATE",
	"time":                     "TIME",
	"datetime":                 "DATETIME",
	"timestamp":                "TIMESTAMP",
	"timestamp with time zone": "TIMESTAMP",
	"year":                     "INTEGER",
	"boolean":                  "INTEGER",
	"json":                     "TEXT",
	"jsonb":                    "TEXT",
	"uuid":                     "TEXT",
	"blob":                     "BLOB",
	"tinyblob":                 "BLOB",
	"mediumblob":               "BLOB",
	"longblob":                 "BLOB",
	"serial":                   "INTEGER",
	"bigserial":                "INTEGER",
}

// canonicalToSQLServer is derived from the MySQL table at init time,
// overridden where T-SQL spells things differently.
var canonicalToSQLServer map[string]string

func init() {
	canonicalToSQLServer = make(map[string]string, len(canonicalToMySQL))
	for k, v := range canonicalToMySQL {
		canonicalToSQLServer[k] = v
	}
	for k, v := range map[string]string{
		"mediumint":                "INT",
		"float":                    "REAL",
		"double":                   "FLOAT",
		"double precision":         "FLOAT",
		"char":                     "NCHAR",
		"varchar":                  "NVARCHAR",
		"tinytext":                 "NVARCHAR(MAX)",
		"text":                     "NVARCHAR(MAX)",
		"mediumtext":               "NVARCHAR(MAX)",
		"longtext":                 "NVARCHAR(MAX)",
		"datetime":                 "DATETIME",
		"timestamp":                "DATETIME2",
		"timestamp with time zone": "DATETIMEOFFSET",
		"year":                     "SMALLINT",
		"boolean":                  "BIT",
		"json":                     "NVARCHAR(MAX)",
		"jsonb":                    "NVARCHAR(MAX)",
		"uuid":                     "UNIQUEIDENTIFIER",
		"blob":                     "VARBINARY(MAX)",
		"tinyblob":                 "VARBINARY(MAX)",
		"mediumblob":               "VARBINARY(MAX)",
		"longblob":                 "VARBINARY(MAX)",
	} {
		canonicalToSQLServer[k] = v
	}
}

// baseAliases folds per-dialect spellings onto the canonical keys used
// by the directional tables above.
var baseAliases = map[string]string{
	"integer":                     "int",
	"int4":                        "int",
	"int2":                        "smallint",
	"int8":                        "bigint",
	"serial4":                     "serial",
	"serial8":                     "bigserial",
	"character varying":           "varchar",
	"nvarchar":                    "varchar",
	"character":                   "char",
	"nchar":                       "char",
	"ntext":                       "text",
	"bool":                        "boolean",
	"bit":                         "boolean",
	"timestamptz":                 "timestamp with time zone",
	"timestamp without time zone": "timestamp",
	"datetime2":                   "datetime",
	"datetimeoffset":              "timestamp with time zone",
	"real":                        "float",
	"bytea":                       "blob",
	"varbinary":                   "blob",
	"binary":                      "blob",
	"uniqueidentifier":            "uuid",
}

// typesWithLength carries the declared length into the target token.
var typesWithLength = map[string]bool{
	"char":    true,
	"varchar": true,
}

// integerBases is the integer family; auto-increment is only legal on
// these.
var integerBases = map[string]bool{
	"tinyint":   true,
	"smallint":  true,
	"mediumint": true,
	"int":       true,
	"integer":   true,
	"int2":      true,
	"int4":      true,
	"int8":      true,
	"bigint":    true,
	"serial":    true,
	"serial4":   true,
	"serial8":   true,
	"bigserial": true,
	"year":      true,
}

var floatBases = map[string]bool{
	"float":            true,
	"double":           true,
	"double precision": true,
	"real":             true,
	"decimal":          true,
	"numeric":          true,
}

var textBases = map[string]bool{
	"char":              true,
	"character":         true,
	"nchar":             true,
	"varchar":           true,
	"character varying": true,
	"nvarchar":          true,
	"tinytext":          true,
	"text":              true,
	"mediumtext":        true,
	"longtext":          true,
	"ntext":             true,
	"enum":              true,
	"set":               true,
	"uuid":              true,
	"uniqueidentifier":  true,
	"json":              true,
	"jsonb":             true,
}

// enumSlack is added to the longest enum/set literal when sizing the
// replacement text type, reserving room for quote characters in
// round-tripped data.
const enumSlack = 2

// typeContinuations are words that extend a multi-word type head, e.g.
// "double precision" or "timestamp with time zone".
var typeContinuations = map[string]bool{
	"precision": true,
	"varying":   true,
	"with":      true,
	"without":   true,
	"time":      true,
	"zone":      true,
	"unsigned":  true,
	"zerofill":  true,
}

// IsTypeContinuation reports whether word extends a preceding type
// head token.
func IsTypeContinuation(word string) bool {
	return typeContinuations[strings.ToLower(word)]
}

// IsIntegerBase reports whether base (lower-cased) belongs to the
// integer family.
func IsIntegerBase(base string) bool { return integerBases[base] }

// IsFloatBase reports whether base belongs to the floating/decimal
// family.
func IsFloatBase(base string) bool { return floatBases[base] }

// IsTextBase reports whether base is a text, char, enum-derived, or
// textual-by-storage type.
func IsTextBase(base string) bool { return textBases[base] }

// IsBooleanType reports whether a full type token denotes a boolean
// column: BOOLEAN, BOOL, BIT, or the MySQL TINYINT(1) convention.
func IsBooleanType(token string) bool {
	p := ParseTypeToken(token)
	switch p.Base {
	case "boolean", "bool", "bit":
		return true
	case "tinyint":
		return p.Length == 1
	}
	return false
}

// ParseTypeToken decomposes a raw type token into its head keyword,
// parameters, and (for enum/set) literal list. It never fails; a token
// it cannot make sense of comes back with Base set to the lower-cased
// input.
func ParseTypeToken(raw string) Parsed {
	p := Parsed{Raw: strings.TrimSpace(raw)}

	head := p.Raw
	params := ""
	if open := strings.Index(p.Raw, "("); open >= 0 {
		if close := strings.LastIndex(p.Raw, ")"); close > open {
			head = p.Raw[:open] + p.Raw[close+1:] // keep "with time zone" suffixes
			params = p.Raw[open+1 : close]
		}
	}
	p.Base = strings.ToLower(strings.Join(strings.Fields(head), " "))
	// Unsigned-ness and display padding have no cross-dialect
	// equivalent; the head keyword is what the catalog keys on.
	p.Base = strings.TrimSuffix(p.Base, " zerofill")
	p.Base = strings.TrimSuffix(p.Base, " unsigned")

	if params == "" {
		return p
	}

	if p.Base == "enum" || p.Base == "set" {
		p.EnumValues = splitEnumLiterals(params)
		return p
	}

	parts := strings.Split(params, ",")
	if n, err := strconv.Atoi(strings.TrimSpace(parts[0])); err == nil {
		p.Length = n
		p.Precision = n
	}
	if len(parts) > 1 {
		if s, err := strconv.Atoi(strings.TrimSpace(parts[1])); err == nil {
			p.Scale = s
			p.Length = 0 // (p,s) types have no character length
		}
	}
	return p
}

// splitEnumLiterals splits "'a','b,c','d''e'" into unquoted literals,
// honoring commas and doubled quotes inside the strings.
func splitEnumLiterals(list string) []string {
	var (
		values  []string
		current strings.Builder
		inQuote bool
	)
	runes := []rune(list)
	for i := 0; i < len(runes); i++ {
		c := runes[i]
		switch {
		case inQuote && c == '\'' && i+1 < len(runes) && runes[i+1] == '\'':
			current.WriteRune('\'')
			i++
		case inQuote && c == '\\' && i+1 < len(runes):
			current.WriteRune(runes[i+1])
			i++
		case c == '\'':
			if inQuote {
				values = append(values, current.String())
				current.Reset()
			}
			inQuote = !inQuote
		case inQuote:
			current.WriteRune(c)
		}
	}
	return values
}

// IsSerial reports whether the parsed type is a Postgres
// serial/bigserial spelling, which implies auto-increment.
func IsSerial(p Parsed) bool {
	key := canonicalKey(p)
	return key == "serial" || key == "bigserial"
}

// canonicalKey resolves a parsed type to the canonical lookup key,
// applying the boolean special case before anything else.
func canonicalKey(p Parsed) string {
	base := p.Base
	if alias, ok := baseAliases[base]; ok {
		base = alias
	}
	if base == "tinyint" && p.Length == 1 {
		return "tinyint(1)"
	}
	return base
}

// tableFor returns the directional table for a target dialect.
func tableFor(target schema.Dialect) map[string]string {
	switch target {
	case schema.PostgreSQL:
		return canonicalToPostgres
	case schema.SQLite:
		return canonicalToSQLite
	case schema.SQLServer:
		return canonicalToSQLServer
	default:
		return canonicalToMySQL
	}
}

// Translate converts one parsed type to the target dialect's spelling.
// The second result reports whether the source type implies
// auto-increment (serial/bigserial). Translate is total: an
// unrecognized base type falls back to the source token upper-cased,
// so a translation never aborts on one unknown column.
func Translate(p Parsed, source, target schema.Dialect) (string, bool) {
	key := canonicalKey(p)

	autoIncrement := key == "serial" || key == "bigserial"

	if key == "enum" || key == "set" {
		return translateEnum(p, target), false
	}

	spelling, ok := tableFor(target)[key]
	if !ok {
		return strings.ToUpper(p.Raw), autoIncrement
	}

	// Postgres keeps SERIAL/BIGSERIAL spellings; other targets get the
	// integer type and the caller's auto-increment flag.
	if autoIncrement && target != schema.PostgreSQL {
		return spelling, true
	}

	return withParams(spelling, key, p, target), autoIncrement
}

// translateEnum maps enum/set types. MySQL-family targets keep the
// literal list verbatim; everyone else gets a sized text type wide
// enough for the longest literal (in characters, not bytes) plus
// quoting slack.
func translateEnum(p Parsed, target schema.Dialect) string {
	if target.IsMySQLFamily() {
		upper := strings.ToUpper(p.Base)
		if len(p.EnumValues) == 0 {
			return upper
		}
		quoted := make([]string, len(p.EnumValues))
		for i, v := range p.EnumValues {
			quoted[i] = "'" + strings.ReplaceAll(v, "'", "''") + "'"
		}
		return fmt.Sprintf("%s(%s)", upper, strings.Join(quoted, ","))
	}

	width := 0
	for _, v := range p.EnumValues {
		if n := utf8.RuneCountInString(v); n > width {
			width = n
		}
	}
	width += enumSlack

	if target == schema.PostgreSQL {
		return fmt.Sprintf("CHARACTER VARYING(%d)", width)
	}
	return fmt.Sprintf("NVARCHAR(%d)", width)
}

// withParams re-attaches length or precision/scale parameters where
// the target spelling expects them.
func withParams(spelling, key string, p Parsed, target schema.Dialect) string {
	// Spellings like NVARCHAR(MAX) or TINYINT(1) already carry params.
	if strings.Contains(spelling, "(") {
		return spelling
	}

	switch {
	case typesWithLength[key] && p.Length > 0:
		return fmt.Sprintf("%s(%d)", spelling, p.Length)
	case (key == "decimal" || key == "numeric") && target != schema.SQLite && p.Precision > 0:
		if p.Scale > 0 {
			return fmt.Sprintf("%s(%d,%d)", spelling, p.Precision, p.Scale)
		}
		return fmt.Sprintf("%s(%d)", spelling, p.Precision)
	case IsIntegerBase(key) && p.Length > 0 && target.IsMySQLFamily():
		// Display width is a MySQL-ism; other targets drop it.
		return fmt.Sprintf("%s(%d)", spelling, p.Length)
	}
	return spelling
}
