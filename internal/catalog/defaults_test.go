package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlshift/sqlshift/internal/schema"
)

func TestFormatDefault(t *testing.T) {
	tests := []struct {
		name       string
		raw        string
		targetType string
		target     schema.Dialect
		want       string
		wantKeep   bool
	}{
		{name: "null is omitted", raw: "NULL", targetType: "TEXT", target: schema.SQLite},
		{name: "empty is omitted", raw: "", targetType: "TEXT", target: schema.SQLite},
		{name: "boolean word for postgres", raw: "1", targetType: "BOOLEAN", target: schema.PostgreSQL, want: "TRUE", wantKeep: true},
		{name: "boolean word for sqlserver", raw: "true", targetType: "BIT", target: schema.SQLServer, want: "TRUE", wantKeep: true},
		{name: "boolean digit for mysql", raw: "true", targetType: "TINYINT(1)", target: schema.MySQL, want: "1", wantKeep: true},
		{name: "boolean false digit for sqlite", raw: "FALSE", targetType: "TINYINT(1)", target: schema.SQLite, want: "0", wantKeep: true},
		{name: "integer stripped of noise", raw: "'42'", targetType: "INTEGER", target: schema.PostgreSQL, want: "42", wantKeep: true},
		{name: "negative integer keeps sign", raw: "-1", targetType: "INT", target: schema.MySQL, want: "-1", wantKeep: true},
		{name: "boolean word onto integer column", raw: "true", targetType: "INTEGER", target: schema.SQLite, want: "1", wantKeep: true},
		{name: "float keeps decimal point", raw: "'3.14'", targetType: "REAL", target: schema.SQLite, want: "3.14", wantKeep: true},
		{name: "text is single quoted", raw: "pending", targetType: "VARCHAR(20)", target: schema.MySQL, want: "'pending'", wantKeep: true},
		{name: "already quoted text not doubled", raw: "'pending'", targetType: "TEXT", target: schema.PostgreSQL, want: "'pending'", wantKeep: true},
		{name: "embedded quote is backslash escaped", raw: "'it''s'", targetType: "TEXT", target: schema.PostgreSQL, want: `'it\'s'`, wantKeep: true},
		{name: "function default dropped on sqlite", raw: "CURRENT_TIMESTAMP", targetType: "TIMESTAMP", target: schema.SQLite},
		{name: "function default passes through elsewhere", raw: "CURRENT_TIMESTAMP", targetType: "TIMESTAMP", target: schema.PostgreSQL, want: "CURRENT_TIMESTAMP", wantKeep: true},
		{name: "now() passes through to mysql", raw: "now()", targetType: "DATETIME", target: schema.MySQL, want: "now()", wantKeep: true},
		{name: "temporal literal passes through", raw: "'2024-01-01'", targetType: "DATE", target: schema.PostgreSQL, want: "'2024-01-01'", wantKeep: true},
		{name: "garbage on integer column omitted", raw: "'abc'", targetType: "INT", target: schema.MySQL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, keep := FormatDefault(tt.raw, tt.targetType, tt.target)
			assert.Equal(t, tt.wantKeep, keep)
			assert.Equal(t, tt.want, got)
		})
	}
}
