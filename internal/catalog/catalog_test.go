package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sqlshift/sqlshift/internal/schema"
)

func TestParseTypeToken(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Parsed
	}{
		{
			name: "plain keyword",
			raw:  "text",
			want: Parsed{Raw: "text", Base: "text"},
		},
		{
			name: "length parameter",
			raw:  "varchar(255)",
			want: Parsed{Raw: "varchar(255)", Base: "varchar", Length: 255, Precision: 255},
		},
		{
			name: "precision and scale",
			raw:  "decimal(10,2)",
			want: Parsed{Raw: "decimal(10,2)", Base: "decimal", Precision: 10, Scale: 2},
		},
		{
			name: "multi-word head",
			raw:  "double precision",
			want: Parsed{Raw: "double precision", Base: "double precision"},
		},
		{
			name: "parameter before time zone suffix",
			raw:  "timestamp(6) with time zone",
			want: Parsed{Raw: "timestamp(6) with time zone", Base: "timestamp with time zone", Length: 6, Precision: 6},
		},
		{
			name: "enum literal list",
			raw:  "enum('open','closed')",
			want: Parsed{Raw: "enum('open','closed')", Base: "enum", EnumValues: []string{"open", "closed"}},
		},
		{
			name: "enum literal containing comma",
			raw:  "enum('a,b','c')",
			want: Parsed{Raw: "enum('a,b','c')", Base: "enum", EnumValues: []string{"a,b", "c"}},
		},
		{
			name: "enum literal with doubled quote",
			raw:  "enum('it''s','other')",
			want: Parsed{Raw: "enum('it''s','other')", Base: "enum", EnumValues: []string{"it's", "other"}},
		},
		{
			name: "unsigned is folded away",
			raw:  "int(10) unsigned",
			want: Parsed{Raw: "int(10) unsigned", Base: "int", Length: 10, Precision: 10},
		},
		{
			name: "case insensitive",
			raw:  "VARCHAR(40)",
			want: Parsed{Raw: "VARCHAR(40)", Base: "varchar", Length: 40, Precision: 40},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseTypeToken(tt.raw))
		})
	}
}

func TestTranslate(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		source   schema.Dialect
		target   schema.Dialect
		want     string
		wantAuto bool
	}{
		{name: "tinyint(1) to postgres is boolean", raw: "tinyint(1)", source: schema.MySQL, target: schema.PostgreSQL, want: "BOOLEAN"},
		{name: "tinyint(1) to sqlite is integer", raw: "tinyint(1)", source: schema.MySQL, target: schema.SQLite, want: "INTEGER"},
		{name: "tinyint(1) to sqlserver is unchanged", raw: "tinyint(1)", source: schema.MySQL, target: schema.SQLServer, want: "TINYINT(1)"},
		{name: "plain tinyint to postgres", raw: "tinyint", source: schema.MySQL, target: schema.PostgreSQL, want: "SMALLINT"},
		{name: "varchar keeps length", raw: "varchar(255)", source: schema.MySQL, target: schema.PostgreSQL, want: "CHARACTER VARYING(255)"},
		{name: "varchar to sqlserver is nvarchar", raw: "varchar(255)", source: schema.MySQL, target: schema.SQLServer, want: "NVARCHAR(255)"},
		{name: "character varying comes back as varchar", raw: "character varying(80)", source: schema.PostgreSQL, target: schema.MySQL, want: "VARCHAR(80)"},
		{name: "display width survives within mysql family", raw: "int(11)", source: schema.MySQL, target: schema.MariaDB, want: "INT(11)"},
		{name: "display width dropped elsewhere", raw: "int(11)", source: schema.MySQL, target: schema.PostgreSQL, want: "INTEGER"},
		{name: "decimal keeps precision and scale", raw: "decimal(10,2)", source: schema.MySQL, target: schema.PostgreSQL, want: "DECIMAL(10,2)"},
		{name: "decimal to sqlite loses precision", raw: "decimal(10,2)", source: schema.MySQL, target: schema.SQLite, want: "REAL"},
		{name: "serial to mysql", raw: "serial", source: schema.PostgreSQL, target: schema.MySQL, want: "INT", wantAuto: true},
		{name: "bigserial to sqlite", raw: "bigserial", source: schema.PostgreSQL, target: schema.SQLite, want: "INTEGER", wantAuto: true},
		{name: "enum to sqlite sized by longest literal", raw: "enum('open','closed')", source: schema.MySQL, target: schema.SQLite, want: "NVARCHAR(8)"},
		{name: "enum to postgres", raw: "enum('open','closed')", source: schema.MySQL, target: schema.PostgreSQL, want: "CHARACTER VARYING(8)"},
		{name: "enum kept within mysql family", raw: "enum('a','b')", source: schema.MySQL, target: schema.MariaDB, want: "ENUM('a','b')"},
		{name: "set to sqlserver", raw: "set('x','yy')", source: schema.MySQL, target: schema.SQLServer, want: "NVARCHAR(4)"},
		{name: "enum width counts characters not bytes", raw: "enum('été','no')", source: schema.MySQL, target: schema.SQLite, want: "NVARCHAR(5)"},
		{name: "timestamptz to mysql collapses", raw: "timestamptz", source: schema.PostgreSQL, target: schema.MySQL, want: "TIMESTAMP"},
		{name: "timestamptz to sqlserver", raw: "timestamptz", source: schema.PostgreSQL, target: schema.SQLServer, want: "DATETIMEOFFSET"},
		{name: "timestamp with time zone to sqlite", raw: "timestamp with time zone", source: schema.PostgreSQL, target: schema.SQLite, want: "TIMESTAMP"},
		{name: "jsonb to mysql", raw: "jsonb", source: schema.PostgreSQL, target: schema.MySQL, want: "JSON"},
		{name: "jsonb to sqlite", raw: "jsonb", source: schema.PostgreSQL, target: schema.SQLite, want: "TEXT"},
		{name: "json to postgres stays json not jsonb", raw: "json", source: schema.MySQL, target: schema.PostgreSQL, want: "JSON"},
		{name: "uuid to mysql", raw: "uuid", source: schema.PostgreSQL, target: schema.MySQL, want: "CHAR(36)"},
		{name: "bytea to mysql", raw: "bytea", source: schema.PostgreSQL, target: schema.MySQL, want: "BLOB"},
		{name: "longtext collapses outside mysql", raw: "longtext", source: schema.MySQL, target: schema.PostgreSQL, want: "TEXT"},
		{name: "longtext to sqlserver", raw: "longtext", source: schema.MySQL, target: schema.SQLServer, want: "NVARCHAR(MAX)"},
		{name: "boolean to mysql", raw: "boolean", source: schema.PostgreSQL, target: schema.MySQL, want: "TINYINT(1)"},
		{name: "boolean to sqlserver", raw: "boolean", source: schema.PostgreSQL, target: schema.SQLServer, want: "BIT"},
		{name: "unknown type falls back uppercased", raw: "geometry", source: schema.MySQL, target: schema.PostgreSQL, want: "GEOMETRY"},
		{name: "unknown type with params falls back verbatim", raw: "geometry(point)", source: schema.MySQL, target: schema.SQLite, want: "GEOMETRY(POINT)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, auto := Translate(ParseTypeToken(tt.raw), tt.source, tt.target)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantAuto, auto)
		})
	}
}

func TestTranslateIsTotal(t *testing.T) {
	// An unrecognized base type must never abort a translation.
	dialects := []schema.Dialect{schema.MySQL, schema.MariaDB, schema.PostgreSQL, schema.SQLite, schema.SQLServer}
	for _, source := range dialects {
		for _, target := range dialects {
			got, _ := Translate(ParseTypeToken("hyperloglog"), source, target)
			require.Equal(t, "HYPERLOGLOG", got, "%s -> %s", source, target)
		}
	}
}

func TestIsBooleanType(t *testing.T) {
	assert.True(t, IsBooleanType("BOOLEAN"))
	assert.True(t, IsBooleanType("TINYINT(1)"))
	assert.True(t, IsBooleanType("BIT"))
	assert.False(t, IsBooleanType("TINYINT"))
	assert.False(t, IsBooleanType("INTEGER"))
}

func TestIsSerial(t *testing.T) {
	assert.True(t, IsSerial(ParseTypeToken("serial")))
	assert.True(t, IsSerial(ParseTypeToken("BIGSERIAL")))
	assert.False(t, IsSerial(ParseTypeToken("int")))
}
