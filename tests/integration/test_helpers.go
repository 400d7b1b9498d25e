//go:build integration
// +build integration

package integration

import (
	"testing"

	"github.com/sqlshift/sqlshift/internal/schema"
)

// verifyColumns checks that expected columns exist in a table
func verifyColumns(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	columnMap := make(map[string]bool)
	for _, col := range table.Columns {
		columnMap[col.Name] = true
	}

	for _, colName := range expectedColumns {
		if !columnMap[colName] {
			t.Errorf("Expected column %s not found in %s table", colName, table.Name)
		}
	}
}

// verifyPrimaryKey checks that a table has the expected primary key
func verifyPrimaryKey(t *testing.T, table *schema.Table, expectedPK []string) {
	t.Helper()

	if len(table.PrimaryKey) != len(expectedPK) {
		t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
		return
	}

	for i, pk := range expectedPK {
		if table.PrimaryKey[i] != pk {
			t.Errorf("Expected primary key %v, got %v", expectedPK, table.PrimaryKey)
			return
		}
	}
}

// verifyUniqueConstraint checks that a unique constraint covers exactly
// the given columns
func verifyUniqueConstraint(t *testing.T, table *schema.Table, expectedColumns []string) {
	t.Helper()

	for _, uc := range table.UniqueConstraints {
		if len(uc.Columns) != len(expectedColumns) {
			continue
		}
		match := true
		for i, col := range expectedColumns {
			if uc.Columns[i] != col {
				match = false
				break
			}
		}
		if match {
			return
		}
	}

	t.Errorf("Expected unique constraint on %v not found in table %s", expectedColumns, table.Name)
}

// findColumn is a helper function to find a column by name in a table
func findColumn(table *schema.Table, name string) *schema.Column {
	for i := range table.Columns {
		if table.Columns[i].Name == name {
			return &table.Columns[i]
		}
	}
	return nil
}
