//go:build integration
// +build integration

package integration

import (
	"context"
	"os"
	"testing"

	"github.com/sqlshift/sqlshift"
	"github.com/sqlshift/sqlshift/internal/db"
)

// TestPostgresExtraction requires a running PostgreSQL with a users
// table; point POSTGRES_TEST_URL at it to enable the test.
func TestPostgresExtraction(t *testing.T) {
	ctx := context.Background()

	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	source, err := db.NewPostgresSource(ctx, url, "")
	if err != nil {
		t.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	defer source.Close(ctx)

	table, err := source.FetchTable(ctx, "users")
	if err != nil {
		t.Fatalf("Failed to fetch table: %v", err)
	}

	verifyColumns(t, table, []string{"id", "username", "email"})
	verifyPrimaryKey(t, table, []string{"id"})
}

// TestPostgresFetchedDDLTranslates checks that live PostgreSQL DDL
// survives translation to every other dialect.
func TestPostgresFetchedDDLTranslates(t *testing.T) {
	ctx := context.Background()

	url := os.Getenv("POSTGRES_TEST_URL")
	if url == "" {
		t.Skip("POSTGRES_TEST_URL not set")
	}

	ddl, dialect, err := sqlshift.FetchTableDDL(ctx, url, "users")
	if err != nil {
		t.Fatalf("Failed to fetch DDL: %v", err)
	}
	if dialect != sqlshift.PostgreSQL {
		t.Fatalf("Expected postgres dialect, got %s", dialect)
	}

	targets := []sqlshift.Dialect{sqlshift.MySQL, sqlshift.SQLite, sqlshift.SQLServer}
	for _, target := range targets {
		if _, err := sqlshift.Translate(ddl, dialect, target, nil); err != nil {
			t.Errorf("Failed to translate fetched DDL to %s: %v", target, err)
		}
	}
}
