package printer

import (
	"testing"

	"tomsolver/internal/config"
	"tomsolver/internal/exprtree"
)

func TestStringBasic(t *testing.T) {
	cfg := config.Default()
	tests := []struct {
		name string
		n    *exprtree.Node
		want string
	}{
		{"number", exprtree.Num(3), "3"},
		{"variable", exprtree.MustVar("x"), "x"},
		{"sum", exprtree.Add(exprtree.MustVar("x"), exprtree.Num(1)), "x+1"},
		{
			"precedence keeps mul tighter than add",
			exprtree.Add(exprtree.Mul(exprtree.Num(2), exprtree.MustVar("x")), exprtree.Num(1)),
			"2*x+1",
		},
		{
			"parens needed when add nested inside mul",
			exprtree.Mul(exprtree.Add(exprtree.MustVar("x"), exprtree.Num(1)), exprtree.Num(2)),
			"(x+1)*2",
		},
		{
			"pow nested as the right operand of pow is parenthesized",
			exprtree.Pow(exprtree.MustVar("x"), exprtree.Pow(exprtree.MustVar("y"), exprtree.MustVar("z"))),
			"x^(y^z)",
		},
		{
			"pow is not associative on the left",
			exprtree.Pow(exprtree.Pow(exprtree.MustVar("x"), exprtree.MustVar("y")), exprtree.MustVar("z")),
			"(x^y)^z",
		},
		{
			"subtraction is not commutative so the right side parenthesizes",
			exprtree.Sub(exprtree.MustVar("x"), exprtree.Sub(exprtree.MustVar("y"), exprtree.MustVar("z"))),
			"x-(y-z)",
		},
		{
			"function call wraps its argument",
			exprtree.Sin(exprtree.Add(exprtree.MustVar("x"), exprtree.Num(1))),
			"sin(x+1)",
		},
		{
			"negative number as right operand of subtraction is wrapped",
			exprtree.Sub(exprtree.MustVar("x"), exprtree.Num(-3)),
			"x-(-3)",
		},
		{
			"positive number as right operand of subtraction is not wrapped",
			exprtree.Sub(exprtree.MustVar("x"), exprtree.Num(3)),
			"x-3",
		},
		{
			"negative number as left operand of subtraction is not wrapped",
			exprtree.Sub(exprtree.Num(-3), exprtree.MustVar("x")),
			"-3-x",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := String(tt.n, cfg); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}
