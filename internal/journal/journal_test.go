package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/roach88/noir/internal/investigation"
)

func TestOpen_CreatesNewDatabase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer j.Close()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	for i := 0; i < 3; i++ {
		j, err := Open(path)
		if err != nil {
			t.Fatalf("Open() iteration %d failed: %v", i, err)
		}
		var count int
		if err := j.db.QueryRow("SELECT COUNT(*) FROM cases").Scan(&count); err != nil {
			t.Errorf("query failed: %v", err)
		}
		j.Close()
	}
}

func TestOpen_Pragmas(t *testing.T) {
	j := createTestJournal(t)

	tests := []struct {
		name     string
		expected string
	}{
		{"journal_mode", "wal"},
		{"synchronous", "1"},
		{"busy_timeout", "5000"},
		{"foreign_keys", "1"},
		{"user_version", "2"},
	}
	for _, tt := range tests {
		if err := j.verifyPragma(tt.name, tt.expected); err != nil {
			t.Error(err)
		}
	}
}

func TestOpen_RejectsNewerSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if _, err := j.db.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("set user_version: %v", err)
	}
	j.Close()

	if _, err := Open(path); err == nil {
		t.Error("Open() accepted a newer schema version")
	}
}

func TestOpen_MigratesVersionOne(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("sql.Open() failed: %v", err)
	}
	for _, stmt := range []string{
		`CREATE TABLE cases (
			case_id TEXT PRIMARY KEY,
			seed INTEGER NOT NULL,
			deadline_delta INTEGER NOT NULL DEFAULT 0,
			time_limit INTEGER NOT NULL,
			pressure_limit INTEGER NOT NULL,
			fingerprint TEXT NOT NULL
		) STRICT`,
		`INSERT INTO cases VALUES ('case_7', 7, 0, 8, 6, 'fp-0')`,
		"PRAGMA user_version = 1",
	} {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("seed v1 journal: %v", err)
		}
	}
	db.Close()

	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer j.Close()
	if err := j.verifyPragma("user_version", "2"); err != nil {
		t.Error(err)
	}
	rec, err := j.ReadCase(context.Background(), "case_7")
	if err != nil {
		t.Fatalf("ReadCase() failed: %v", err)
	}
	if rec.Start != investigation.NewState() {
		t.Errorf("migrated start = %+v, want %+v", rec.Start, investigation.NewState())
	}
}

func TestClose_NilDB(t *testing.T) {
	j := &Journal{}
	if err := j.Close(); err != nil {
		t.Errorf("Close() on empty journal: %v", err)
	}
}
