package sqlshift

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in   string
		want Dialect
	}{
		{"mysql", MySQL},
		{"MySQL", MySQL},
		{"mariadb", MariaDB},
		{"postgres", PostgreSQL},
		{"postgresql", PostgreSQL},
		{"pgsql", PostgreSQL},
		{"sqlite", SQLite},
		{"sqlite3", SQLite},
		{"sqlserver", SQLServer},
		{"mssql", SQLServer},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseDialect("oracle")
	assert.Error(t, err)
}

func TestTranslate(t *testing.T) {
	out, err := Translate(
		"CREATE TABLE `users` (`id` INT AUTO_INCREMENT PRIMARY KEY, `email` VARCHAR(255) NOT NULL);",
		MySQL, PostgreSQL, nil,
	)
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE "users"`)
	assert.Contains(t, out, `"id" SERIAL PRIMARY KEY`)
	assert.Contains(t, out, `"email" CHARACTER VARYING(255) NOT NULL`)
}

func TestTranslateErrors(t *testing.T) {
	_, err := Translate("SELECT 1;", MySQL, PostgreSQL, nil)
	assert.True(t, IsParseError(err))
	assert.False(t, IsUnsupportedDialectError(err))

	_, err = Translate("CREATE TABLE t (id INT);", "oracle", PostgreSQL, nil)
	assert.True(t, IsUnsupportedDialectError(err))
	assert.False(t, IsParseError(err))
}

func TestTranslateDump(t *testing.T) {
	dump := "CREATE TABLE `a` (`x` INT NOT NULL);\nCREATE TABLE `b` (`y` TINYINT(1) NOT NULL);"
	out, err := TranslateDump(dump, MySQL, SQLite, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `CREATE TABLE "a"`)
	assert.Contains(t, out, `"y" INTEGER NOT NULL`)
}

func TestConvertType(t *testing.T) {
	tests := []struct {
		token  string
		source Dialect
		target Dialect
		want   string
	}{
		{"tinyint(1)", MySQL, PostgreSQL, "BOOLEAN"},
		{"enum('open','closed')", MySQL, SQLServer, "NVARCHAR(8)"},
		{"character varying(80)", PostgreSQL, MySQL, "VARCHAR(80)"},
		{"geometry", MySQL, SQLite, "GEOMETRY"},
	}
	for _, tt := range tests {
		got, err := ConvertType(tt.token, tt.source, tt.target)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := ConvertType("int", "oracle", MySQL)
	assert.True(t, IsUnsupportedDialectError(err))
}
