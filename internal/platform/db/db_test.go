package db

import (
	"path/filepath"
	"testing"

	_ "modernc.org/sqlite"
)

func TestPlaceholders(t *testing.T) {
	if got := Postgres.Placeholders(2, 3); got != "$2,$3,$4" {
		t.Fatalf("postgres placeholders = %q", got)
	}
	if got := SQLite.Placeholders(2, 3); got != "?,?,?" {
		t.Fatalf("sqlite placeholders = %q", got)
	}
	if got := SQLite.Placeholders(1, 0); got != "" {
		t.Fatalf("empty placeholders = %q", got)
	}
}

func TestDialectFor(t *testing.T) {
	if d, err := DialectFor("pgx"); err != nil || d != Postgres {
		t.Fatalf("DialectFor(pgx) = %v, %v", d, err)
	}
	if d, err := DialectFor("sqlite"); err != nil || d != SQLite {
		t.Fatalf("DialectFor(sqlite) = %v, %v", d, err)
	}
	if _, err := DialectFor("mysql"); err == nil {
		t.Fatalf("expected error for mysql")
	}
}

func TestOpenFailsWhenPingFails(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "missing", "experts.db")

	db, err := Open("sqlite", dsn)
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error opening %s", dsn)
	}
	if db != nil {
		t.Fatalf("expected nil handle on failed ping")
	}
}

func TestOpenSQLite(t *testing.T) {
	db, err := Open("sqlite", filepath.Join(t.TempDir(), "experts.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
