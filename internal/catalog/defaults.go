package catalog

import (
	"strings"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// functionDefaults are the spellings of "current time" style defaults
// across the four dialects.
var functionDefaults = map[string]bool{
	"current_timestamp": true,
	"current_date":      true,
	"current_time":      true,
	"now()":             true,
	"getdate()":         true,
	"getutcdate()":      true,
	"localtimestamp":    true,
	"unix_timestamp()":  true,
}

// FormatDefault normalizes a raw default-value literal against the
// already-translated target type. The second result is false when the
// DEFAULT clause should be omitted entirely (NULL defaults, and
// function defaults on targets that do not support them).
func FormatDefault(raw, targetType string, target schema.Dialect) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, "NULL") {
		return "", false
	}

	if functionDefaults[strings.ToLower(raw)] {
		if target == schema.SQLite {
			return "", false
		}
		return raw, true
	}

	p := ParseTypeToken(targetType)

	if IsBooleanType(targetType) {
		return booleanLiteral(raw, target)
	}

	switch {
	case IsIntegerBase(p.Base):
		return numericLiteral(raw, "0123456789-")
	case IsFloatBase(p.Base):
		return numericLiteral(raw, "0123456789.-")
	case IsTextBase(p.Base):
		return quoteText(raw), true
	}

	// Temporal and anything else: pass the literal through as written.
	return raw, true
}

// booleanLiteral renders a truthy/falsy default in the target's
// boolean spelling: words for Postgres and SQL Server, digits for
// MySQL and SQLite.
func booleanLiteral(raw string, target schema.Dialect) (string, bool) {
	truthy := false
	switch strings.ToLower(strings.Trim(raw, "'\"")) {
	case "true", "t", "1", "yes", "on":
		truthy = true
	case "false", "f", "0", "no", "off":
		truthy = false
	default:
		return "", false
	}

	words := target == schema.PostgreSQL || target == schema.SQLServer
	switch {
	case truthy && words:
		return "TRUE", true
	case truthy:
		return "1", true
	case words:
		return "FALSE", true
	default:
		return "0", true
	}
}

// numericLiteral strips everything outside allowed from a numeric
// default. Boolean words arriving at a numeric column (a Postgres
// BOOLEAN landing on SQLite INTEGER) become 1/0; anything left empty
// is omitted rather than emitted as a dangling DEFAULT.
func numericLiteral(raw, allowed string) (string, bool) {
	switch strings.ToLower(strings.Trim(raw, "'\"")) {
	case "true", "t":
		return "1", true
	case "false", "f":
		return "0", true
	}
	v := keepChars(raw, allowed)
	if strings.Trim(v, "-.") == "" {
		return "", false
	}
	return v, true
}

// keepChars strips every rune of s not present in allowed.
func keepChars(s, allowed string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(allowed, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// quoteText wraps a literal in single quotes, stripping any quoting it
// arrived with and backslash-escaping embedded quotes.
func quoteText(raw string) string {
	s := raw
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			s = s[1 : len(s)-1]
		}
	}
	s = strings.ReplaceAll(s, "''", "'")
	s = strings.ReplaceAll(s, `\'`, "'")
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}
