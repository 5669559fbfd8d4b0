package parser

import (
	"testing"

	"tomsolver/internal/config"
	"tomsolver/internal/eval"
	"tomsolver/internal/printer"
)

func mustEval(t *testing.T, expr string, values eval.Values) float64 {
	t.Helper()
	n, err := Parse(expr)
	if err != nil {
		t.Fatalf("Parse(%q): %v", expr, err)
	}
	v, err := eval.Eval(n, values, config.Default())
	if err != nil {
		t.Fatalf("Eval(%q): %v", expr, err)
	}
	return v
}

func TestParseAndEvalArithmetic(t *testing.T) {
	tests := []struct {
		expr   string
		values eval.Values
		want   float64
	}{
		{"1+2*3", nil, 7},
		{"(1+2)*3", nil, 9},
		{"2^3^2", nil, 512}, // right-associative: 2^(3^2)
		{"(2^3)^2", nil, 64},
		{"-x+1", eval.Values{"x": 5}, -4},
		{"x-y-z", eval.Values{"x": 10, "y": 3, "z": 2}, 5},
		{"sin(0)", nil, 0},
		{"sqrt(x)", eval.Values{"x": 9}, 3},
		{"2*x+y", eval.Values{"x": 3, "y": 1}, 7},
	}
	for _, tt := range tests {
		if got := mustEval(t, tt.expr, tt.values); got != tt.want {
			t.Errorf("eval(%q) = %v, want %v", tt.expr, got, tt.want)
		}
	}
}

func TestParseRoundTripsThroughPrinter(t *testing.T) {
	n, err := Parse("2*x+1")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	got := printer.String(n, config.Default())
	if got != "2*x+1" {
		t.Fatalf("printer.String = %q, want %q", got, "2*x+1")
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"1+",
		"(1+2",
		"1 2",
		"1@2",
		"9x",
	}
	for _, expr := range tests {
		if _, err := Parse(expr); err == nil {
			t.Errorf("Parse(%q): expected an error, got none", expr)
		}
	}
}
