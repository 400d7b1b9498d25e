package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sqlshift/sqlshift"
)

var (
	fromDialect string
	toDialect   string
	inputFile   string
	outputFile  string
	sourceURL   string
	tableName   string
	engine      string
	charset     string
	configFile  string
)

var rootCmd = &cobra.Command{
	Use:   "sqlshift",
	Short: "Translate CREATE TABLE statements between SQL dialects",
	Long: `SQLShift translates relational table definitions between MySQL/MariaDB,
PostgreSQL, SQLite, and SQL Server, so a schema authored for one engine can be
reproduced on another. Input is a DDL file (or stdin), or a live table pulled
from a database URL.`,
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVar(&fromDialect, "from", "", "Source dialect: mysql, mariadb, postgres, sqlite, sqlserver")
	rootCmd.Flags().StringVar(&toDialect, "to", "", "Target dialect: mysql, mariadb, postgres, sqlite, sqlserver")
	rootCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input DDL file (default: stdin)")
	rootCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	rootCmd.Flags().StringVar(&sourceURL, "source-url", "", "Read the schema from a live database URL instead of a file")
	rootCmd.Flags().StringVarP(&tableName, "table", "t", "", "Table to fetch in --source-url mode")
	rootCmd.Flags().StringVar(&engine, "engine", "", "Storage engine for MySQL targets (default: InnoDB)")
	rootCmd.Flags().StringVar(&charset, "charset", "", "Charset for MySQL targets (default: utf8mb4)")
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "", "YAML config file with defaults for these flags")
}

func run(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig(configFile)
	if err != nil {
		return err
	}
	cfg.apply()

	if toDialect == "" {
		return fmt.Errorf("--to is required")
	}
	target, err := sqlshift.ParseDialect(toDialect)
	if err != nil {
		return err
	}

	opts := &sqlshift.Options{Engine: engine, Charset: charset}

	var (
		ddl    string
		source sqlshift.Dialect
	)
	if sourceURL != "" {
		// Live mode: pull the table definition from a running database.
		if tableName == "" {
			return fmt.Errorf("--table is required with --source-url")
		}
		if inputFile != "" {
			return fmt.Errorf("cannot use both --source-url and --input")
		}
		ddl, source, err = sqlshift.FetchTableDDL(ctx, sourceURL, tableName)
		if err != nil {
			return fmt.Errorf("failed to fetch schema: %w", err)
		}
	} else {
		if fromDialect == "" {
			return fmt.Errorf("--from is required (or use --source-url)")
		}
		source, err = sqlshift.ParseDialect(fromDialect)
		if err != nil {
			return err
		}
		ddl, err = readInput()
		if err != nil {
			return err
		}
	}

	out, err := sqlshift.TranslateDump(ddl, source, target, opts)
	if err != nil {
		if out == "" {
			return fmt.Errorf("failed to translate: %w", err)
		}
		// Partial success: keep going, surface what failed.
		fmt.Fprintf(os.Stderr, "warning: some statements failed to translate: %v\n", err)
	}
	if out == "" {
		return fmt.Errorf("no CREATE TABLE statements found in input")
	}

	return writeOutput(out)
}

func readInput() (string, error) {
	if inputFile == "" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(inputFile)
	if err != nil {
		return "", fmt.Errorf("failed to read input file: %w", err)
	}
	return string(data), nil
}

func writeOutput(out string) error {
	if outputFile == "" {
		fmt.Println(out)
		return nil
	}
	f, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to close output file: %v\n", err)
		}
	}()
	if _, err := f.WriteString(out + "\r\n"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
