package main

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
)

func repoMigrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("runtime.Caller failed")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "db", "migrations")
}

// Each migration with the statements its Up and Down halves must carry.
var schemaMigrations = []struct {
	version int64
	file    string
	up      []string
	down    []string
}{
	{
		version: 1,
		file:    "00001_create_authors_books.sql",
		up: []string{
			"CREATE TABLE authors",
			"name          VARCHAR(100) NOT NULL",
			"CREATE TABLE books",
			"isbn             VARCHAR(13) NOT NULL",
			"REFERENCES authors (id)",
			"CREATE INDEX idx_books_author_id",
		},
		down: []string{"DROP TABLE IF EXISTS books", "DROP TABLE IF EXISTS authors"},
	},
	{
		version: 2,
		file:    "00002_create_revoked_tokens.sql",
		up:      []string{"CREATE TABLE revoked_tokens", "jti        VARCHAR(64) PRIMARY KEY", "idx_revoked_tokens_expires_at"},
		down:    []string{"DROP TABLE IF EXISTS revoked_tokens"},
	},
}

func TestCollectMigrations_SchemaVersions(t *testing.T) {
	migrations, err := goose.CollectMigrations(repoMigrationsDir(t), 0, goose.MaxVersion)
	if err != nil {
		t.Fatalf("expected migrations to parse, got error: %v", err)
	}
	if len(migrations) != len(schemaMigrations) {
		t.Fatalf("expected %d migrations, got %d", len(schemaMigrations), len(migrations))
	}
	for i, want := range schemaMigrations {
		got := migrations[i]
		if got.Version != want.version || filepath.Base(got.Source) != want.file {
			t.Errorf("migration %d: expected %d %s, got %d %s", i, want.version, want.file, got.Version, filepath.Base(got.Source))
		}
	}
}

func TestMigrations_UpAndDownStatements(t *testing.T) {
	dir := repoMigrationsDir(t)
	for _, m := range schemaMigrations {
		t.Run(m.file, func(t *testing.T) {
			b, err := os.ReadFile(filepath.Join(dir, m.file))
			if err != nil {
				t.Fatalf("ReadFile(%s): %v", m.file, err)
			}
			up, down, ok := strings.Cut(string(b), "-- +goose Down")
			if !ok || !strings.HasPrefix(up, "-- +goose Up") {
				t.Fatalf("%s must open with '-- +goose Up' and carry a '-- +goose Down' section", m.file)
			}
			for _, stmt := range m.up {
				if !strings.Contains(up, stmt) {
					t.Errorf("%s Up is missing %q", m.file, stmt)
				}
			}
			for _, stmt := range m.down {
				if !strings.Contains(down, stmt) {
					t.Errorf("%s Down is missing %q", m.file, stmt)
				}
			}
		})
	}
}
