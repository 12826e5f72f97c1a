package server

import (
	"errors"
	"fmt"
	"testing"

	"poker-front/internal/api"
	"poker-front/internal/poker"

	"github.com/jackc/pgconn"
	pgxconn "github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Fatalf("expected nil error to be false")
	}
	if !isUniqueViolation(&pgconn.PgError{Code: "23505"}) {
		t.Fatalf("expected pgconn unique violation")
	}
	if !isUniqueViolation(fmt.Errorf("insert: %w", &pgxconn.PgError{Code: "23505"})) {
		t.Fatalf("expected wrapped pgx unique violation")
	}
	if isUniqueViolation(&pgconn.PgError{Code: "23503"}) {
		t.Fatalf("expected other codes to be false")
	}
	if isUniqueViolation(errors.New("duplicate key")) {
		t.Fatalf("expected plain errors to be false")
	}
}

func TestPersistenceWithoutDatabaseIsNoop(t *testing.T) {
	srv := &Server{}
	if err := srv.recordAction("7", poker.NewAction("u1", poker.Call, 0), true); err != nil {
		t.Fatalf("record action: %v", err)
	}
	if err := srv.recordJoin("7", "u1", api.JoinResult{Success: true}); err != nil {
		t.Fatalf("record join: %v", err)
	}
}
