// Package diff symbolically differentiates an expression tree. Grounded on
// original_source/src/diff.cpp's DiffOnce/DiffOnceOperator: a breadth-first
// rewrite, one queue entry per node still needing its derivative, so no
// call recurses with the tree. Div and Pow — which the original left as
// assert(0) stubs, and tan/arcsin/arccos/arctan, which its commented-out
// legacy recursive implementation never finished either — are completed
// here following the standard quotient and generalized power rules.
package diff

import (
	"math"

	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/optable"
	"tomsolver/internal/simplify"
)

// item locates a pending node by its parent slot, so a BFS step can swap
// in a freshly built derivative subtree without recursing to find it.
// parent == nil means "the tree root", tracked via ctx.root.
type item struct {
	parent *exprtree.Node
	isLeft bool
}

type ctx struct {
	root *exprtree.Node
}

func (c *ctx) get(it item) *exprtree.Node {
	if it.parent == nil {
		return c.root
	}
	if it.isLeft {
		return it.parent.Left
	}
	return it.parent.Right
}

func (c *ctx) set(it item, replacement *exprtree.Node) {
	replacement.Parent = it.parent
	if it.parent == nil {
		c.root = replacement
		return
	}
	if it.isLeft {
		it.parent.Left = replacement
	} else {
		it.parent.Right = replacement
	}
}

// Diff differentiates n with respect to varname, i times, simplifying after
// each pass (matching the original's Diff wrapper, which always calls
// Simplify once the BFS rewrite settles).
func Diff(n *exprtree.Node, varname string, times int, cfg config.Config) (*exprtree.Node, error) {
	if times <= 0 {
		return nil, errs.Newf(errs.NonDifferentiable, "differentiation order must be positive, got %d", times)
	}
	root := exprtree.Clone(n)
	for i := 0; i < times; i++ {
		var err error
		root, err = diffOnce(root, varname)
		if err != nil {
			return nil, err
		}
		root, err = simplify.Simplify(root, cfg)
		if err != nil {
			return nil, err
		}
	}
	if err := exprtree.CheckParent(root); err != nil {
		return nil, err
	}
	return root, nil
}

func diffOnce(root *exprtree.Node, varname string) (*exprtree.Node, error) {
	c := &ctx{root: root}
	queue := []item{{parent: nil, isLeft: true}}
	for len(queue) > 0 {
		it := queue[0]
		queue = queue[1:]
		n := c.get(it)

		switch n.Kind {
		case exprtree.KindVariable:
			v := 0.0
			if n.Name == varname {
				v = 1
			}
			c.set(it, exprtree.Num(v))

		case exprtree.KindNumber:
			c.set(it, exprtree.Num(0))

		case exprtree.KindOperator:
			if allChildrenNumeric(n) {
				c.set(it, exprtree.Num(0))
				continue
			}
			if err := diffOperator(c, it, n, &queue); err != nil {
				return nil, err
			}
		}
	}
	return c.root, nil
}

func allChildrenNumeric(n *exprtree.Node) bool {
	if n.Left != nil && n.Left.Kind != exprtree.KindNumber {
		return false
	}
	if n.Right != nil && n.Right.Kind != exprtree.KindNumber {
		return false
	}
	return true
}

func diffOperator(c *ctx, it item, n *exprtree.Node, queue *[]item) error {
	switch n.Op {
	case optable.Positive, optable.Negative:
		// +u, -u: the sign node stays, only its operand needs differentiating.
		*queue = append(*queue, item{parent: n, isLeft: true})
		return nil

	case optable.Sin:
		u := n.Left
		n.Op = optable.Cos
		chainLaw(c, it, n, u, queue)
		return nil

	case optable.Cos:
		u := n.Left
		n.Op = optable.Sin
		negative := exprtree.Unary(optable.Negative, n)
		chainLaw(c, it, negative, u, queue)
		return nil

	case optable.Tan:
		// tan(u)' = (1 / cos(u)^2) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Pow(exprtree.Cos(exprtree.Clone(u)), exprtree.Num(2)))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Arcsin:
		// arcsin(u)' = (1 / sqrt(1 - u^2)) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Sqrt(exprtree.Sub(exprtree.Num(1), exprtree.Pow(exprtree.Clone(u), exprtree.Num(2)))))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Arccos:
		// arccos(u)' = (-1 / sqrt(1 - u^2)) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(-1), exprtree.Sqrt(exprtree.Sub(exprtree.Num(1), exprtree.Pow(exprtree.Clone(u), exprtree.Num(2)))))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Arctan:
		// arctan(u)' = (1 / (1 + u^2)) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Add(exprtree.Num(1), exprtree.Pow(exprtree.Clone(u), exprtree.Num(2))))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Sqrt:
		// sqrt(u)' = (1 / (2*sqrt(u))) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Mul(exprtree.Num(2), exprtree.Sqrt(exprtree.Clone(u))))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Log:
		// log(u)' = (1/u) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Clone(u))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Log2:
		// log2(u)' = (1/(u*ln2)) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Mul(exprtree.Clone(u), exprtree.Num(math.Ln2)))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Log10:
		// log10(u)' = (1/(u*ln10)) * u'
		u := n.Left
		inner := exprtree.Div(exprtree.Num(1), exprtree.Mul(exprtree.Clone(u), exprtree.Num(math.Log(10))))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Exp:
		// exp(u)' = exp(u) * u'
		u := n.Left
		inner := exprtree.Exp(exprtree.Clone(u))
		chainLaw(c, it, inner, u, queue)
		return nil

	case optable.Add, optable.Sub:
		// (u+-v)' = u' +- v': the node and its op stay, both sides recurse.
		*queue = append(*queue, item{parent: n, isLeft: true})
		*queue = append(*queue, item{parent: n, isLeft: false})
		return nil

	case optable.Mul:
		l, r := n.Left, n.Right
		if l.Kind == exprtree.KindNumber {
			*queue = append(*queue, item{parent: n, isLeft: false})
			return nil
		}
		if r.Kind == exprtree.KindNumber {
			*queue = append(*queue, item{parent: n, isLeft: true})
			return nil
		}
		// (u*v)' = u'*v + u*v'
		mulRight := exprtree.Clone(n)
		addNode := exprtree.Add(n, mulRight)
		c.set(it, addNode)
		*queue = append(*queue, item{parent: addNode.Left, isLeft: true})
		*queue = append(*queue, item{parent: addNode.Right, isLeft: false})
		return nil

	case optable.Div:
		l, r := n.Left, n.Right
		if r.Kind == exprtree.KindNumber {
			// u/c = u'/c
			*queue = append(*queue, item{parent: n, isLeft: true})
			return nil
		}
		// (u/v)' = (u'v - uv') / v^2
		uClone := exprtree.Clone(l)
		vClone1 := exprtree.Clone(r)
		vClone2 := exprtree.Clone(r)
		numMulLeft := exprtree.Mul(l, r)         // u' * v
		numMulRight := exprtree.Mul(uClone, vClone2) // u * v'
		numerator := exprtree.Sub(numMulLeft, numMulRight)
		denominator := exprtree.Pow(vClone1, exprtree.Num(2))
		divNode := exprtree.Div(numerator, denominator)
		c.set(it, divNode)
		*queue = append(*queue, item{parent: numMulLeft, isLeft: true})
		*queue = append(*queue, item{parent: numMulRight, isLeft: false})
		return nil

	case optable.Pow:
		l, r := n.Left, n.Right
		switch {
		case r.Kind == exprtree.KindNumber:
			// u^c = c * u^(c-1) * u'
			c0 := r.Value
			powNode := exprtree.Pow(exprtree.Clone(l), exprtree.Num(c0-1))
			mulInner := exprtree.Mul(exprtree.Num(c0), powNode)
			mulOuter := exprtree.Mul(mulInner, l)
			c.set(it, mulOuter)
			*queue = append(*queue, item{parent: mulOuter, isLeft: false})
			return nil
		case l.Kind == exprtree.KindNumber:
			if l.Value <= 0 {
				return errs.Newf(errs.NonDifferentiable, "cannot differentiate %v^v for non-positive base", l.Value)
			}
			// c^v = c^v * ln(c) * v'
			powNode := exprtree.Pow(exprtree.Clone(l), exprtree.Clone(r))
			lnC := exprtree.Num(math.Log(l.Value))
			mulInner := exprtree.Mul(powNode, lnC)
			mulOuter := exprtree.Mul(mulInner, r)
			c.set(it, mulOuter)
			*queue = append(*queue, item{parent: mulOuter, isLeft: false})
			return nil
		default:
			// u^v = u^v * (v*ln(u))', the inner product enqueued whole so
			// the same product/chain-rule machinery finishes it.
			powNode := exprtree.Pow(exprtree.Clone(l), exprtree.Clone(r))
			innerMul := exprtree.Mul(r, exprtree.Log(l))
			mulOuter := exprtree.Mul(powNode, innerMul)
			c.set(it, mulOuter)
			*queue = append(*queue, item{parent: mulOuter, isLeft: false})
			return nil
		}

	case optable.And, optable.Or, optable.Mod:
		return errs.Newf(errs.NonDifferentiable, "%s is not differentiable", optable.Display(n.Op))
	}
	return errs.Newf(errs.NonDifferentiable, "unsupported operator in differentiation: %d", int(n.Op))
}

// chainLaw wraps inner (already rewritten in terms of u) into inner*u',
// cloning u for the multiplication and enqueuing the clone for its own
// eventual differentiation. Mirrors diff.cpp's ChainLaw lambda.
func chainLaw(c *ctx, it item, inner, u *exprtree.Node, queue *[]item) {
	u2 := exprtree.Clone(u)
	mul := exprtree.Binary(optable.Mul, inner, u2)
	c.set(it, mul)
	*queue = append(*queue, item{parent: mul, isLeft: false})
}
