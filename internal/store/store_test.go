package store

import (
	"context"
	"strings"
	"testing"
	"time"

	"tomsolver/internal/config"
)

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), "oracle", ":memory:")
	if err == nil {
		t.Fatal("expected an error for an unsupported database type")
	}
}

func TestRecordInsertsRun(t *testing.T) {
	s, err := Open(context.Background(), "sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	id, err := s.Record(context.Background(), Run{
		EquationText:  "x^2-9",
		VarNames:      "x",
		InitialValues: "1",
		FinalValues:   "3",
		Method:        config.NewtonRaphson,
		Iterations:    4,
		Duration:      12 * time.Millisecond,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if id == "" {
		t.Fatal("expected a non-empty run id")
	}

	var count int
	row := s.db.QueryRowContext(context.Background(), "SELECT COUNT(*) FROM solve_runs WHERE run_id = ?", id)
	if err := row.Scan(&count); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if count != 1 {
		t.Fatalf("got %d rows for run_id %s, want 1", count, id)
	}
}

func TestSummaryIncludesFailure(t *testing.T) {
	r := Run{
		EquationText: "x+1",
		Method:       config.LM,
		Iterations:   100,
		Duration:     time.Second,
		Err:          errTooMany,
	}
	got := Summary(r)
	if !strings.Contains(got, "failed") {
		t.Fatalf("Summary(%+v) = %q, want it to mention failure", r, got)
	}
}

var errTooMany = &testError{"exceeded the iteration limit"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
