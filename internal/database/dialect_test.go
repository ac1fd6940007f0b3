package database

import (
	"errors"
	"testing"
)

func TestNewDialectSelection(t *testing.T) {
	if _, ok := NewDialect(DialectSQLite).(*SQLiteDialect); !ok {
		t.Error("Expected SQLiteDialect for sqlite")
	}
	if _, ok := NewDialect(DialectPostgres).(*PostgresDialect); !ok {
		t.Error("Expected PostgresDialect for postgres")
	}
	if _, ok := NewDialect("unknown").(*SQLiteDialect); !ok {
		t.Error("Expected SQLiteDialect as the default")
	}
}

func TestSQLiteDialect(t *testing.T) {
	d := &SQLiteDialect{}

	if d.DriverName() != "sqlite" {
		t.Errorf("Expected driver sqlite, got %s", d.DriverName())
	}
	if d.Placeholder(3) != "?" {
		t.Errorf("Expected ?, got %s", d.Placeholder(3))
	}
	if !d.SupportsLastInsertID() {
		t.Error("SQLite should support LastInsertId")
	}
	if d.ReturningClause("id") != "" {
		t.Error("SQLite should not use RETURNING")
	}
	if !d.IsDuplicateKeyError(errors.New("UNIQUE constraint failed: matches.id")) {
		t.Error("Expected UNIQUE constraint error detected")
	}
	if d.IsDuplicateKeyError(nil) {
		t.Error("nil error is not a duplicate key error")
	}
}

func TestPostgresDialect(t *testing.T) {
	d := &PostgresDialect{}

	if d.DriverName() != "postgres" {
		t.Errorf("Expected driver postgres, got %s", d.DriverName())
	}
	if d.Placeholder(2) != "$2" {
		t.Errorf("Expected $2, got %s", d.Placeholder(2))
	}
	if d.SupportsLastInsertID() {
		t.Error("PostgreSQL should not support LastInsertId")
	}
	if d.ReturningClause("id") != " RETURNING id" {
		t.Errorf("Expected RETURNING clause, got %q", d.ReturningClause("id"))
	}
	if !d.IsDuplicateKeyError(errors.New(`pq: duplicate key value violates unique constraint "matches_pkey"`)) {
		t.Error("Expected duplicate key error detected")
	}
}

func TestQueryBuilderPlaceholders(t *testing.T) {
	query := "SELECT * FROM matches WHERE winner_name = ? AND room = ?"

	sqlite := NewQueryBuilder(&SQLiteDialect{})
	if got := sqlite.Build(query); got != query {
		t.Errorf("SQLite query should be unchanged, got %s", got)
	}

	postgres := NewQueryBuilder(&PostgresDialect{})
	want := "SELECT * FROM matches WHERE winner_name = $1 AND room = $2"
	if got := postgres.Build(query); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}

func TestQueryBuilderWithReturning(t *testing.T) {
	insert := "INSERT INTO matches (room) VALUES (?)"

	sqlite := NewQueryBuilder(&SQLiteDialect{})
	if got := sqlite.BuildWithReturning(insert, "id"); got != insert {
		t.Errorf("SQLite insert should be unchanged, got %s", got)
	}

	postgres := NewQueryBuilder(&PostgresDialect{})
	want := "INSERT INTO matches (room) VALUES ($1) RETURNING id"
	if got := postgres.BuildWithReturning(insert, "id"); got != want {
		t.Errorf("Expected %s, got %s", want, got)
	}
}
