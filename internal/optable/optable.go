// Package optable is the operator metadata table: the closed set of OpTags,
// their arity/precedence/associativity/commutativity, and Calc — the single
// dispatch point for numeric evaluation of one operator application.
// Grounded on original_source/src/math_operator.h/.cpp.
package optable

import (
	"math"

	"tomsolver/internal/config"
	"tomsolver/internal/errs"
)

// OpTag is the closed set of operator tags from spec.md §3.
type OpTag int

const (
	Null OpTag = iota

	// unary
	Positive
	Negative
	Sin
	Cos
	Tan
	Arcsin
	Arccos
	Arctan
	Sqrt
	Log // natural log
	Log2
	Log10
	Exp

	// binary
	Add
	Sub
	Mul
	Div
	Pow
	And
	Or
	Mod

	// auxiliary parser tokens
	LParen
	RParen
)

// Assoc is operator associativity.
type Assoc int

const (
	LeftAssoc Assoc = iota
	RightAssoc
)

type meta struct {
	arity         int
	display       string
	rank          int
	assoc         Assoc
	commutative   bool
	isFunction    bool
}

var table = map[OpTag]meta{
	Null:     {0, "", 0, LeftAssoc, false, false},
	Positive: {1, "+", 14, RightAssoc, false, false},
	Negative: {1, "-", 14, RightAssoc, false, false},
	Sin:      {1, "sin", 15, LeftAssoc, false, true},
	Cos:      {1, "cos", 15, LeftAssoc, false, true},
	Tan:      {1, "tan", 15, LeftAssoc, false, true},
	Arcsin:   {1, "arcsin", 15, LeftAssoc, false, true},
	Arccos:   {1, "arccos", 15, LeftAssoc, false, true},
	Arctan:   {1, "arctan", 15, LeftAssoc, false, true},
	Sqrt:     {1, "sqrt", 15, LeftAssoc, false, true},
	Log:      {1, "log", 15, LeftAssoc, false, true},
	Log2:     {1, "log2", 15, LeftAssoc, false, true},
	Log10:    {1, "log10", 15, LeftAssoc, false, true},
	Exp:      {1, "exp", 15, LeftAssoc, false, true},
	Add:      {2, "+", 5, LeftAssoc, true, false},
	Sub:      {2, "-", 5, LeftAssoc, false, false},
	Mul:      {2, "*", 10, LeftAssoc, true, false},
	Div:      {2, "/", 10, LeftAssoc, false, false},
	Pow:      {2, "^", 11, RightAssoc, false, false},
	And:      {2, "&", 12, LeftAssoc, false, false},
	Or:       {2, "|", 12, LeftAssoc, false, false},
	Mod:      {2, "%", 13, LeftAssoc, false, false},
	LParen:   {0, "(", 0, LeftAssoc, false, false},
	RParen:   {0, ")", 0, LeftAssoc, false, false},
}

// Arity returns 1 or 2 for a real operator (0 for Null/LParen/RParen).
func Arity(op OpTag) int { return table[op].arity }

// Display is the operator's printed token/function name.
func Display(op OpTag) string { return table[op].display }

// Rank is the operator's precedence (higher binds tighter). Parentheses
// rank 0 so they are never displaced by any real operator.
func Rank(op OpTag) int { return table[op].rank }

// IsLeftAssoc reports left-associativity; Pow and unary +/- are right.
func IsLeftAssoc(op OpTag) bool { return table[op].assoc == LeftAssoc }

// IsCommutative is true only for Add and Mul.
func IsCommutative(op OpTag) bool { return table[op].commutative }

// IsFunction reports whether op prints as `name(arg)`.
func IsFunction(op OpTag) bool { return table[op].isFunction }

// IsFunctionName reports whether name is one of the reserved function
// keywords (sin, cos, sqrt, ...). Used at variable-binding time to resolve
// spec.md §9's "identifier rules" open question: a variable named like a
// function keyword is rejected at VarsTable construction rather than at
// parse time, since the parser needs to keep accepting e.g. `sin(x)`.
func IsFunctionName(name string) bool {
	for _, m := range table {
		if m.isFunction && m.display == name {
			return true
		}
	}
	return false
}

// isIntAndEven reports whether n is (to floating tolerance) an even integer.
func isIntAndEven(n float64) bool {
	const eps = 2.220446049250313e-16 // machine epsilon, matching std::numeric_limits<double>::epsilon()
	i := int64(n)
	if math.Abs(n-float64(i)) <= eps {
		return i%2 == 0
	}
	return false
}

// Calc evaluates a single operator application. Unary ops ignore r. Domain
// violations always raise errs.OutOfDomain (division or mod by zero raises
// errs.InvalidNumber), whatever cfg.ThrowOnInvalidValue says. Results that go
// to ±Inf/NaN raise errs.InvalidNumber unless cfg.ThrowOnInvalidValue is
// false, in which case the raw IEEE-754 value is returned. Grounded on
// math_operator.cpp's Calc.
func Calc(op OpTag, l, r float64, cfg config.Config) (float64, error) {
	v, err := calcRaw(op, l, r, cfg.Epsilon)
	if err != nil {
		return 0, err
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		if cfg.ThrowOnInvalidValue {
			return 0, errs.Newf(errs.InvalidNumber, "operator %s produced an invalid value", Display(op))
		}
	}
	return v, nil
}

func calcRaw(op OpTag, l, r, eps float64) (float64, error) {
	switch op {
	case Sqrt:
		if l < 0 {
			return 0, errs.Newf(errs.OutOfDomain, "sqrt(%v)", l)
		}
		return math.Sqrt(l), nil
	case Sin:
		return math.Sin(l), nil
	case Cos:
		return math.Cos(l), nil
	case Tan:
		value := l * 2.0 / math.Pi
		if math.Abs(value-math.Trunc(value)) < eps && int64(value)%2 != 0 {
			return 0, errs.Newf(errs.OutOfDomain, "tan(%v)", l)
		}
		return math.Tan(l), nil
	case Arcsin:
		if l < -1.0 || l > 1.0 {
			return 0, errs.Newf(errs.OutOfDomain, "arcsin(%v)", l)
		}
		return math.Asin(l), nil
	case Arccos:
		if l < -1.0 || l > 1.0 {
			return 0, errs.Newf(errs.OutOfDomain, "arccos(%v)", l)
		}
		return math.Acos(l), nil
	case Arctan:
		return math.Atan(l), nil
	case Log:
		if l <= 0 {
			return 0, errs.Newf(errs.OutOfDomain, "log(%v)", l)
		}
		return math.Log(l), nil
	case Log2:
		if l <= 0 {
			return 0, errs.Newf(errs.OutOfDomain, "log2(%v)", l)
		}
		return math.Log2(l), nil
	case Log10:
		if l <= 0 {
			return 0, errs.Newf(errs.OutOfDomain, "log10(%v)", l)
		}
		return math.Log10(l), nil
	case Exp:
		return math.Exp(l), nil
	case Positive:
		return l, nil
	case Negative:
		return -l, nil

	case Mod:
		ir, il := int64(r), int64(l)
		if ir == 0 {
			return 0, errs.Newf(errs.InvalidNumber, "mod by zero")
		}
		return float64(il % ir), nil
	case And:
		return float64(int64(l) & int64(r)), nil
	case Or:
		return float64(int64(l) | int64(r)), nil

	case Pow:
		if math.Abs(l) < eps && math.Abs(r) < eps {
			return 0, errs.Newf(errs.OutOfDomain, "0^0")
		}
		if l < 0 && isIntAndEven(1.0/r) {
			return 0, errs.Newf(errs.OutOfDomain, "pow(%v,%v) is complex", l, r)
		}
		return math.Pow(l, r), nil

	case Mul:
		return l * r, nil
	case Div:
		if math.Abs(r) < eps {
			return 0, errs.Newf(errs.InvalidNumber, "division by zero")
		}
		return l / r, nil
	case Add:
		return l + r, nil
	case Sub:
		return l - r, nil
	}
	return 0, errs.Newf(errs.InvalidOp, "unsupported operator tag %d", int(op))
}
