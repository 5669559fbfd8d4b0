package subs

import (
	"testing"

	"tomsolver/internal/exprtree"
)

func TestSubsReplacesVariable(t *testing.T) {
	n := exprtree.Add(exprtree.MustVar("x"), exprtree.Num(1))
	out := Subs(n, "x", exprtree.Num(5))
	if !exprtree.Equal(out, exprtree.Add(exprtree.Num(5), exprtree.Num(1))) {
		t.Fatalf("unexpected result tree")
	}
	// original untouched
	if !n.Left.IsVariable() {
		t.Fatal("Subs mutated the original tree")
	}
}

func TestSubsRootIsVariable(t *testing.T) {
	n := exprtree.MustVar("x")
	out := Subs(n, "x", exprtree.Num(3))
	if !out.IsNumber() || out.Value != 3 {
		t.Fatalf("expected root substitution to produce Num(3), got %+v", out)
	}
}

func TestSubsManyDoesNotChain(t *testing.T) {
	n := exprtree.Add(exprtree.MustVar("x"), exprtree.MustVar("y"))
	out := SubsMany(n, Dict{
		"x": exprtree.MustVar("y"),
		"y": exprtree.Num(9),
	})
	// x -> y(not further substituted to 9), y -> 9
	if !out.Left.IsVariable() || out.Left.Name != "y" {
		t.Fatalf("expected left child to be the literal variable y, got %+v", out.Left)
	}
	if !out.Right.IsNumber() || out.Right.Value != 9 {
		t.Fatalf("expected right child Num(9), got %+v", out.Right)
	}
}

func TestSubsVarsFromSliceMismatch(t *testing.T) {
	if _, err := SubsVarsFromSlice([]string{"x", "y"}, []float64{1}); err == nil {
		t.Fatal("expected a count-mismatch error")
	}
}
