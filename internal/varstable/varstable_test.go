package varstable

import (
	"testing"

	"tomsolver/internal/config"
)

func TestNewRejectsDuplicateNames(t *testing.T) {
	if _, err := New([]string{"x", "x"}, 1); err == nil {
		t.Fatal("expected an error for a duplicate variable name")
	}
}

func TestGetSetRoundTrip(t *testing.T) {
	tbl, err := New([]string{"x", "y"}, 0)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := tbl.Set("x", 3); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := tbl.Get("x")
	if err != nil || v != 3 {
		t.Fatalf("Get(x) = %v, %v, want 3, nil", v, err)
	}
	if _, err := tbl.Get("z"); err == nil {
		t.Fatal("expected an error for an undefined variable")
	}
}

func TestEqualComparesUnderEpsilon(t *testing.T) {
	a, _ := New([]string{"x"}, 1.0)
	b, _ := New([]string{"x"}, 1.0+1e-12)
	if !a.Equal(b, config.Default()) {
		t.Fatal("expected tables within epsilon to compare equal")
	}
	c, _ := New([]string{"x"}, 2.0)
	if a.Equal(c, config.Default()) {
		t.Fatal("expected tables with different values to compare unequal")
	}
}

func TestNewRejectsFunctionKeywordNames(t *testing.T) {
	if _, err := New([]string{"sin"}, 1); err == nil {
		t.Fatal("expected an error for a variable named after a function keyword")
	}
}

func TestFromMapIsSorted(t *testing.T) {
	tbl := FromMap(map[string]float64{"b": 2, "a": 1})
	vars := tbl.Vars()
	if vars[0] != "a" || vars[1] != "b" {
		t.Fatalf("expected sorted vars [a b], got %v", vars)
	}
}
