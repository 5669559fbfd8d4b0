package linear

import (
	"math"
	"testing"

	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/matrix"
)

func TestSolveLinearSquareSystem(t *testing.T) {
	// 2x + y = 5; x - y = 1 -> x=2, y=1
	a := matrix.FromRows([][]float64{{2, 1}, {1, -1}})
	b := matrix.VecFromSlice([]float64{5, 1})
	x, err := SolveLinear(a, b, config.Default())
	if err != nil {
		t.Fatalf("SolveLinear: %v", err)
	}
	if math.Abs(x.At(0)-2) > 1e-9 || math.Abs(x.At(1)-1) > 1e-9 {
		t.Fatalf("got [%v %v], want [2 1]", x.At(0), x.At(1))
	}
}

func TestSolveLinearOverDetermined(t *testing.T) {
	a := matrix.FromRows([][]float64{{1, 0}, {0, 1}, {1, 1}})
	b := matrix.VecFromSlice([]float64{1, 1, 2})
	_, err := SolveLinear(a, b, config.Default())
	e, ok := err.(*errs.Error)
	if !ok || e.Kind != errs.OverDeterminedEquations {
		t.Fatalf("expected OverDeterminedEquations, got %v", err)
	}
}

func TestSolveLinearSingular(t *testing.T) {
	// inconsistent: x+y=1, x+y=2
	a := matrix.FromRows([][]float64{{1, 1}, {1, 1}})
	b := matrix.VecFromSlice([]float64{1, 2})
	_, err := SolveLinear(a, b, config.Default())
	e, ok := err.(*errs.Error)
	if !ok || e.Kind != errs.SingularMatrix {
		t.Fatalf("expected SingularMatrix, got %v", err)
	}
}

func TestSolveLinearIndeterminate(t *testing.T) {
	// one equation, two unknowns: x + y = 2
	a := matrix.FromRows([][]float64{{1, 1}})
	b := matrix.VecFromSlice([]float64{2})
	cfg := config.Default()
	_, err := SolveLinear(a, b, cfg)
	e, ok := err.(*errs.Error)
	if !ok || e.Kind != errs.IndeterminateEquation {
		t.Fatalf("expected IndeterminateEquation, got %v", err)
	}

	cfg.AllowIndeterminateEquation = true
	x, err := SolveLinear(a, b, cfg)
	if err != nil {
		t.Fatalf("SolveLinear with AllowIndeterminateEquation: %v", err)
	}
	if math.Abs(x.At(0)+x.At(1)-2) > 1e-9 {
		t.Fatalf("particular solution does not satisfy x+y=2: got %v %v", x.At(0), x.At(1))
	}
}
