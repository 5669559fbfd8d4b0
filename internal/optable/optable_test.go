package optable

import (
	"testing"

	"tomsolver/internal/config"
)

func TestIsFunctionName(t *testing.T) {
	for _, name := range []string{"sin", "cos", "sqrt", "log", "arctan"} {
		if !IsFunctionName(name) {
			t.Errorf("IsFunctionName(%q) = false, want true", name)
		}
	}
	for _, name := range []string{"x", "y", "sine", ""} {
		if IsFunctionName(name) {
			t.Errorf("IsFunctionName(%q) = true, want false", name)
		}
	}
}

func TestArityAndDisplay(t *testing.T) {
	if Arity(Add) != 2 || Display(Add) != "+" {
		t.Fatalf("Add: arity=%d display=%q, want 2 %q", Arity(Add), Display(Add), "+")
	}
	if Arity(Sin) != 1 || Display(Sin) != "sin" {
		t.Fatalf("Sin: arity=%d display=%q, want 1 %q", Arity(Sin), Display(Sin), "sin")
	}
	if !IsFunction(Sin) || IsFunction(Add) {
		t.Fatal("expected Sin to be a function and Add not to be")
	}
}

func TestCalcBasicArithmetic(t *testing.T) {
	cfg := config.Default()
	got, err := Calc(Add, 2, 3, cfg)
	if err != nil {
		t.Fatalf("Calc(Add): %v", err)
	}
	if got != 5 {
		t.Fatalf("Calc(Add, 2, 3) = %v, want 5", got)
	}

	if _, err := Calc(Div, 1, 0, cfg); err == nil {
		t.Fatal("expected an error for division by zero")
	}
}
