// Package exprtree is the expression tree data model of spec.md §3/§4.2: a
// tagged, strictly-binary tree with a non-owning parent back-link, built and
// torn down only through non-recursive traversals. Grounded on
// original_source/src/node.h/.cpp.
package exprtree

import (
	"regexp"

	"tomsolver/internal/errs"
	"tomsolver/internal/optable"
)

// Kind is the node's tagged variant.
type Kind int

const (
	KindNumber Kind = iota
	KindVariable
	KindOperator
)

// Node is one tree element. Left/Right are the owned children; Parent is a
// non-owning back-reference used only for context-sensitive printing and
// for rewriting during construction/differentiation — it is never followed
// by a destructor or cloner, so it cannot create a retain cycle in a
// garbage-collected runtime.
type Node struct {
	Kind  Kind
	Op    optable.OpTag
	Value float64
	Name  string

	Left, Right, Parent *Node
}

var varNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// VarNameIsLegal reports whether name matches [A-Za-z_][A-Za-z0-9_]*.
func VarNameIsLegal(name string) bool {
	return varNameRe.MatchString(name)
}

// Num builds a Number leaf.
func Num(v float64) *Node {
	return &Node{Kind: KindNumber, Op: optable.Null, Value: v}
}

// Var builds a Variable leaf, validating the name.
func Var(name string) (*Node, error) {
	if !VarNameIsLegal(name) {
		return nil, errs.Newf(errs.InvalidVarName, "illegal variable name: %q", name)
	}
	return &Node{Kind: KindVariable, Op: optable.Null, Name: name}, nil
}

// MustVar is Var that panics on an illegal name; for trusted call sites
// (parser-internal construction after the lexer already validated the name).
func MustVar(name string) *Node {
	n, err := Var(name)
	if err != nil {
		panic(err)
	}
	return n
}

// newOp builds a bare operator node of arity matching tag, with no children
// yet attached. Fails on optable.Null.
func newOp(tag optable.OpTag) (*Node, error) {
	if tag == optable.Null {
		return nil, errs.New(errs.InvalidOp, "cannot construct an operator node with tag Null")
	}
	return &Node{Kind: KindOperator, Op: tag}, nil
}

// Unary builds a unary operator node taking ownership of child.
func Unary(tag optable.OpTag, child *Node) *Node {
	n, err := newOp(tag)
	if err != nil {
		panic(err)
	}
	n.Left = child
	child.Parent = n
	return n
}

// Binary builds a binary operator node taking ownership of left and right.
func Binary(tag optable.OpTag, left, right *Node) *Node {
	n, err := newOp(tag)
	if err != nil {
		panic(err)
	}
	n.Left = left
	left.Parent = n
	n.Right = right
	right.Parent = n
	return n
}

// Sugar combinators, grounded on node.h's operator+/-/*// overloads. Each
// takes ownership of its operands (the "move" behavior of the original); a
// caller that wants to keep using an operand afterwards clones it first via
// Clone — Go's garbage collector removes the need for the original's
// separate move/copy constructor overloads, so cloning here is always an
// explicit, visible call rather than an implicit overload resolution.
func Add(l, r *Node) *Node { return Binary(optable.Add, l, r) }
func Sub(l, r *Node) *Node { return Binary(optable.Sub, l, r) }
func Mul(l, r *Node) *Node { return Binary(optable.Mul, l, r) }
func Div(l, r *Node) *Node { return Binary(optable.Div, l, r) }
func Pow(l, r *Node) *Node { return Binary(optable.Pow, l, r) }
func And(l, r *Node) *Node { return Binary(optable.And, l, r) }
func Or(l, r *Node) *Node  { return Binary(optable.Or, l, r) }
func Mod(l, r *Node) *Node { return Binary(optable.Mod, l, r) }

func Pos(x *Node) *Node    { return Unary(optable.Positive, x) }
func Neg(x *Node) *Node    { return Unary(optable.Negative, x) }
func Sin(x *Node) *Node    { return Unary(optable.Sin, x) }
func Cos(x *Node) *Node    { return Unary(optable.Cos, x) }
func Tan(x *Node) *Node    { return Unary(optable.Tan, x) }
func Arcsin(x *Node) *Node { return Unary(optable.Arcsin, x) }
func Arccos(x *Node) *Node { return Unary(optable.Arccos, x) }
func Arctan(x *Node) *Node { return Unary(optable.Arctan, x) }
func Sqrt(x *Node) *Node   { return Unary(optable.Sqrt, x) }
func Log(x *Node) *Node    { return Unary(optable.Log, x) }
func Log2(x *Node) *Node   { return Unary(optable.Log2, x) }
func Log10(x *Node) *Node  { return Unary(optable.Log10, x) }
func Exp(x *Node) *Node    { return Unary(optable.Exp, x) }

// IsNumber/IsVariable/IsOperator are small, commonly needed predicates.
func (n *Node) IsNumber() bool   { return n.Kind == KindNumber }
func (n *Node) IsVariable() bool { return n.Kind == KindVariable }
func (n *Node) IsOperator() bool { return n.Kind == KindOperator }

// becomeNumber rewrites n in place to become a Number leaf with value v,
// preserving n's Parent link and detaching any existing children. Nothing
// in the module calls it; the simplifier and differentiator build fresh
// Num nodes instead.
func (n *Node) becomeNumber(v float64) {
	n.Kind = KindNumber
	n.Op = optable.Null
	n.Value = v
	n.Name = ""
	n.Left = nil
	n.Right = nil
}

// ReplaceInParent swaps n for replacement in n's parent (or returns
// replacement as the new root if n has no parent), fixing up parent links.
// It is the single place tree-rewrite code should use to relink a subtree,
// since it keeps invariant (a) of spec.md §3 (parent links point at the
// true owner).
func ReplaceInParent(n, replacement *Node) *Node {
	replacement.Parent = n.Parent
	if n.Parent == nil {
		return replacement
	}
	if n.Parent.Left == n {
		n.Parent.Left = replacement
	} else if n.Parent.Right == n {
		n.Parent.Right = replacement
	}
	return replacement
}
