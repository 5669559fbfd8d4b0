package main

import (
	"testing"

	"tomsolver/internal/config"
)

func TestParseAssignments(t *testing.T) {
	values, err := parseAssignments("x=1, y=2.5")
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	if values["x"] != 1 || values["y"] != 2.5 {
		t.Fatalf("got %v, want x=1 y=2.5", values)
	}
}

func TestParseAssignmentsEmpty(t *testing.T) {
	values, err := parseAssignments("")
	if err != nil {
		t.Fatalf("parseAssignments: %v", err)
	}
	if len(values) != 0 {
		t.Fatalf("got %v, want empty", values)
	}
}

func TestParseAssignmentsRejectsMalformed(t *testing.T) {
	if _, err := parseAssignments("x"); err == nil {
		t.Fatal("expected an error for a bare name with no value")
	}
	if _, err := parseAssignments("x=notanumber"); err == nil {
		t.Fatal("expected an error for a non-numeric value")
	}
}

func TestBuildTableDefaultsThenOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.InitialValue = 7
	table, err := buildTable([]string{"x", "y"}, map[string]float64{"y": 2}, cfg)
	if err != nil {
		t.Fatalf("buildTable: %v", err)
	}
	x, _ := table.Get("x")
	y, _ := table.Get("y")
	if x != 7 {
		t.Fatalf("got x=%v, want 7 (cfg.InitialValue default)", x)
	}
	if y != 2 {
		t.Fatalf("got y=%v, want 2 (explicit override)", y)
	}
}
