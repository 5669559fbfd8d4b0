package eval

import (
	"math"
	"testing"

	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/exprtree"
)

func TestEvalArithmetic(t *testing.T) {
	cfg := config.Default()
	// (x + 2) * y - 1, x=3, y=4 -> (3+2)*4-1 = 19
	n := exprtree.Sub(
		exprtree.Mul(
			exprtree.Add(exprtree.MustVar("x"), exprtree.Num(2)),
			exprtree.MustVar("y"),
		),
		exprtree.Num(1),
	)
	got, err := Eval(n, Values{"x": 3, "y": 4}, cfg)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != 19 {
		t.Fatalf("Eval = %v, want 19", got)
	}
}

func TestEvalVariablePresent(t *testing.T) {
	cfg := config.Default()
	n := exprtree.MustVar("x")
	_, err := Eval(n, Values{}, cfg)
	var e *errs.Error
	if !asErr(err, &e) || e.Kind != errs.VariablePresent {
		t.Fatalf("expected VariablePresent, got %v", err)
	}
}

func TestEvalDomainError(t *testing.T) {
	cfg := config.Default()
	n := exprtree.Sqrt(exprtree.Num(-1))
	_, err := Eval(n, Values{}, cfg)
	var e *errs.Error
	if !asErr(err, &e) || e.Kind != errs.OutOfDomain {
		t.Fatalf("expected OutOfDomain, got %v", err)
	}
}

func TestEvalDeepChainIsStackSafe(t *testing.T) {
	cfg := config.Default()
	const depth = 200000
	n := exprtree.Num(0)
	for i := 0; i < depth; i++ {
		n = exprtree.Add(n, exprtree.Num(1))
	}
	got, err := Eval(n, Values{}, cfg)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if got != float64(depth) {
		t.Fatalf("Eval = %v, want %v", got, depth)
	}
}

func TestEvalFunctionCall(t *testing.T) {
	cfg := config.Default()
	n := exprtree.Sin(exprtree.Num(0))
	got, err := Eval(n, Values{}, cfg)
	if err != nil {
		t.Fatalf("Eval: %v", err)
	}
	if math.Abs(got) > 1e-12 {
		t.Fatalf("Eval(sin(0)) = %v, want 0", got)
	}
}

func asErr(err error, target **errs.Error) bool {
	e, ok := err.(*errs.Error)
	if ok {
		*target = e
	}
	return ok
}
