package journal

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/roach88/noir/internal/cases"
	"github.com/roach88/noir/internal/catalog"
	"github.com/roach88/noir/internal/investigation"
	"github.com/roach88/noir/internal/presentation"
)

// createTestJournal creates a journal in a temp dir for testing.
func createTestJournal(t *testing.T) *Journal {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	j, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { j.Close() })
	return j
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openTestSession generates a case and opens a session on it.
func openTestSession(t *testing.T, seed int64, opts ...investigation.SessionOption) (*investigation.Session, cases.Facts) {
	t.Helper()
	cat := catalog.MustDefault()
	st, facts, err := cases.Generate(cat, seed, "")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	opts = append([]investigation.SessionOption{investigation.WithLogger(discardLogger())}, opts...)
	s, err := investigation.NewSession(st, presentation.NewProjector(cat), 0, opts...)
	if err != nil {
		t.Fatalf("NewSession() failed: %v", err)
	}
	return s, facts
}
