// Package simplify applies local algebraic identities and constant folding
// to an expression tree, bottom-up, mutating it in place. Grounded on
// original_source/src/simplify.cpp's SimplifyWholeNode/SimplifySingleNode:
// a non-recursive post-order pass collects operator nodes into a reverted
// sequence with one stack, then each is folded from the deepest up.
package simplify

import (
	"tomsolver/internal/config"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/optable"
)

type queuedNode struct {
	node   *exprtree.Node
	isLeft bool
}

// Simplify folds n in place and returns the (possibly different) root,
// since an identity rule may discard the root operator itself — e.g.
// `0+x` simplifies to the node for `x`.
func Simplify(n *exprtree.Node, cfg config.Config) (*exprtree.Node, error) {
	if n.Kind != exprtree.KindOperator {
		return n, nil
	}

	var stack []queuedNode
	var revertedPostOrder []queuedNode
	stack = append(stack, queuedNode{n, true})
	for len(stack) > 0 {
		f := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		cur := f.node
		if cur.Left != nil && cur.Left.Kind == exprtree.KindOperator {
			stack = append(stack, queuedNode{cur.Left, true})
		}
		if cur.Right != nil && cur.Right.Kind == exprtree.KindOperator {
			stack = append(stack, queuedNode{cur.Right, false})
		}
		revertedPostOrder = append(revertedPostOrder, f)
	}
	// drop the root entry; it is folded separately at the end
	revertedPostOrder = revertedPostOrder[1:]

	for i := len(revertedPostOrder) - 1; i >= 0; i-- {
		snode := revertedPostOrder[i]
		parent := snode.node.Parent
		var current *exprtree.Node
		if snode.isLeft {
			current = parent.Left
		} else {
			current = parent.Right
		}
		folded, err := simplifySingleNode(current, cfg)
		if err != nil {
			return nil, err
		}
		if folded != current {
			folded.Parent = parent
			if snode.isLeft {
				parent.Left = folded
			} else {
				parent.Right = folded
			}
		}
	}

	return simplifySingleNode(n, cfg)
}

// simplifySingleNode folds one operator node given its CURRENT children
// (already simplified), returning either n unchanged or a replacement for
// the caller to relink. A replacement is either a fresh node with no Parent
// or one of n's own children, whose Parent still points at n.
func simplifySingleNode(n *exprtree.Node, cfg config.Config) (*exprtree.Node, error) {
	if n.Kind != exprtree.KindOperator {
		return n, nil
	}

	if optable.Arity(n.Op) == 1 {
		if n.Left.Kind == exprtree.KindNumber {
			v, err := optable.Calc(n.Op, n.Left.Value, 0, cfg)
			if err != nil {
				return nil, err
			}
			return exprtree.Num(v), nil
		}
		return n, nil
	}

	l, r := n.Left, n.Right
	if l.Kind == exprtree.KindNumber && r.Kind == exprtree.KindNumber {
		v, err := optable.Calc(n.Op, l.Value, r.Value, cfg)
		if err != nil {
			return nil, err
		}
		return exprtree.Num(v), nil
	}

	lIs0 := l.Kind == exprtree.KindNumber && l.Value == 0
	rIs0 := r.Kind == exprtree.KindNumber && r.Value == 0
	lIs1 := l.Kind == exprtree.KindNumber && l.Value == 1
	rIs1 := r.Kind == exprtree.KindNumber && r.Value == 1

	switch {
	case n.Op == optable.Mul && (lIs0 || rIs0):
		return exprtree.Num(0), nil
	case n.Op == optable.Div && lIs0:
		return exprtree.Num(0), nil
	case n.Op == optable.Pow && lIs0:
		return exprtree.Num(0), nil

	case n.Op == optable.Pow && rIs0:
		// x^0 = 1; supplements the rule the original left commented out
		// in simplify.cpp (0^0 is already rejected earlier, by Calc).
		return exprtree.Num(1), nil

	case n.Op == optable.Add && lIs0:
		return r, nil
	case n.Op == optable.Add && rIs0:
		return l, nil
	case n.Op == optable.Sub && rIs0:
		return l, nil
	case n.Op == optable.Sub && lIs0:
		// 0-x = -x; also supplements a rule the original left commented out.
		return exprtree.Neg(r), nil
	case n.Op == optable.Mul && lIs1:
		return r, nil
	case n.Op == optable.Mul && rIs1:
		return l, nil
	case n.Op == optable.Div && rIs1:
		return l, nil
	case n.Op == optable.Pow && rIs1:
		return l, nil
	}

	return n, nil
}
