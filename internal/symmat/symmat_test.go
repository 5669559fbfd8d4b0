package symmat

import (
	"math"
	"testing"

	"tomsolver/internal/config"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/parser"
)

func TestSymMatToMatRequiresConstants(t *testing.T) {
	m := New(1, 1)
	x, err := parser.Parse("x")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m.Set(0, 0, x)
	if _, err := m.ToMat(); err == nil {
		t.Fatal("expected ToMat to fail on a non-constant node")
	}
}

func TestSymMatCalcAndToMat(t *testing.T) {
	n, err := parser.Parse("2+3")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := New(1, 1)
	m.Set(0, 0, n)
	cfg := config.Default()
	if err := m.Calc(cfg); err != nil {
		t.Fatalf("Calc: %v", err)
	}
	mat, err := m.ToMat()
	if err != nil {
		t.Fatalf("ToMat: %v", err)
	}
	if math.Abs(mat.At(0, 0)-5) > 1e-9 {
		t.Fatalf("got %v, want 5", mat.At(0, 0))
	}
}

func TestSymMatSubsMap(t *testing.T) {
	n, err := parser.Parse("x+y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	m := New(1, 1)
	m.Set(0, 0, n)
	m.SubsMap(map[string]float64{"x": 1, "y": 2})
	if err := m.Calc(config.Default()); err != nil {
		t.Fatalf("Calc: %v", err)
	}
	mat, err := m.ToMat()
	if err != nil {
		t.Fatalf("ToMat: %v", err)
	}
	if math.Abs(mat.At(0, 0)-3) > 1e-9 {
		t.Fatalf("got %v, want 3", mat.At(0, 0))
	}
}

func TestSymMatGetAllVarNames(t *testing.T) {
	e0, err := parser.Parse("x^2+y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e1, err := parser.Parse("x*z")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	eqs := VecFromSlice([]*exprtree.Node{e0, e1})
	names := eqs.GetAllVarNames()
	want := map[string]bool{"x": true, "y": true, "z": true}
	if len(names) != len(want) {
		t.Fatalf("got %v, want 3 distinct names from %v", names, want)
	}
	for _, n := range names {
		if !want[n] {
			t.Fatalf("unexpected variable name %q in %v", n, names)
		}
	}
}

func TestJacobianBuildsPartials(t *testing.T) {
	cfg := config.Default()
	e0, err := parser.Parse("x^2+y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	e1, err := parser.Parse("x*y")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	eqs := VecFromSlice([]*exprtree.Node{e0, e1})

	ja, err := Jacobian(eqs, []string{"x", "y"}, cfg)
	if err != nil {
		t.Fatalf("Jacobian: %v", err)
	}
	if ja.Rows() != 2 || ja.Cols() != 2 {
		t.Fatalf("got shape (%d,%d), want (2,2)", ja.Rows(), ja.Cols())
	}

	ja.SubsMap(map[string]float64{"x": 3, "y": 5})
	if err := ja.Calc(cfg); err != nil {
		t.Fatalf("Calc: %v", err)
	}
	mat, err := ja.ToMat()
	if err != nil {
		t.Fatalf("ToMat: %v", err)
	}

	// d(x^2+y)/dx = 2x = 6, d(x^2+y)/dy = 1
	// d(x*y)/dx = y = 5, d(x*y)/dy = x = 3
	want := [2][2]float64{{6, 1}, {5, 3}}
	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			if math.Abs(mat.At(i, j)-want[i][j]) > 1e-9 {
				t.Fatalf("ja[%d][%d] = %v, want %v", i, j, mat.At(i, j), want[i][j])
			}
		}
	}
}

func TestSymMatSubAndMul(t *testing.T) {
	a0, _ := parser.Parse("x")
	a1, _ := parser.Parse("y")
	b0, _ := parser.Parse("1")
	b1, _ := parser.Parse("2")
	a := VecFromSlice([]*exprtree.Node{a0, a1})
	b := VecFromSlice([]*exprtree.Node{b0, b1})

	diff, err := a.Sub(b)
	if err != nil {
		t.Fatalf("Sub: %v", err)
	}
	diff.SubsMap(map[string]float64{"x": 5, "y": 7})
	if err := diff.Calc(config.Default()); err != nil {
		t.Fatalf("Calc: %v", err)
	}
	mat, err := diff.ToMat()
	if err != nil {
		t.Fatalf("ToMat: %v", err)
	}
	if math.Abs(mat.At(0, 0)-4) > 1e-9 || math.Abs(mat.At(1, 0)-5) > 1e-9 {
		t.Fatalf("got [%v %v], want [4 5]", mat.At(0, 0), mat.At(1, 0))
	}

	row, _ := parser.Parse("x")
	rowMat := FromRows([][]*exprtree.Node{{row, exprtree.Num(2)}})
	prod, err := rowMat.Mul(a.SymMat)
	if err != nil {
		t.Fatalf("Mul: %v", err)
	}
	if prod.Rows() != 1 || prod.Cols() != 1 {
		t.Fatalf("got shape (%d,%d), want (1,1)", prod.Rows(), prod.Cols())
	}
}

func TestSymMatCloneIsIndependent(t *testing.T) {
	n, _ := parser.Parse("x+1")
	m := New(1, 1)
	m.Set(0, 0, n)
	clone := m.Clone()
	clone.SubsMap(map[string]float64{"x": 0})
	if exprtree.Equal(m.At(0, 0), clone.At(0, 0)) {
		t.Fatal("expected Clone to be independent of the original")
	}
}
