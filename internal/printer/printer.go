// Package printer renders an exprtree.Node back to source text, deciding
// parenthesization from operator precedence/associativity rather than from
// any parens present at parse time. Grounded on node.cpp's TraverseInOrder,
// walked non-recursively here via an explicit stack of (node, state) frames.
package printer

import (
	"strings"

	"tomsolver/internal/config"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/optable"
)

// String renders n using cfg's numeric formatting for literals.
func String(n *exprtree.Node, cfg config.Config) string {
	var sb strings.Builder
	write(&sb, n, cfg)
	return sb.String()
}

// visitState tracks how far a frame's in-order emission has progressed:
// before the left child, between children, or after the right child.
type visitState int

const (
	beforeLeft visitState = iota
	beforeRight
	afterRight
)

type frame struct {
	n          *exprtree.Node
	state      visitState
	needParens bool
}

// write performs a non-recursive in-order traversal, emitting tokens to sb
// as each frame advances, and inserting parentheses wherever the child's
// rank would otherwise be swallowed by the parent's.
func write(sb *strings.Builder, root *exprtree.Node, cfg config.Config) {
	stack := []*frame{{n: root, needParens: needsParens(root, nil)}}
	for len(stack) > 0 {
		top := stack[len(stack)-1]
		n := top.n

		switch n.Kind {
		case exprtree.KindNumber:
			if top.needParens {
				sb.WriteString("(")
			}
			sb.WriteString(config.ToString(n.Value))
			if top.needParens {
				sb.WriteString(")")
			}
			stack = stack[:len(stack)-1]
			continue
		case exprtree.KindVariable:
			if top.needParens {
				sb.WriteString("(")
			}
			sb.WriteString(n.Name)
			if top.needParens {
				sb.WriteString(")")
			}
			stack = stack[:len(stack)-1]
			continue
		}

		// operator node
		switch top.state {
		case beforeLeft:
			if top.needParens {
				sb.WriteString("(")
			}
			if optable.IsFunction(n.Op) {
				sb.WriteString(optable.Display(n.Op))
				sb.WriteString("(")
				top.state = afterRight // function args never need a middle token
				stack = append(stack, &frame{n: n.Left, needParens: false})
				continue
			}
			if optable.Arity(n.Op) == 1 {
				sb.WriteString(optable.Display(n.Op))
				top.state = afterRight
				stack = append(stack, &frame{n: n.Left, needParens: needsParens(n.Left, n)})
				continue
			}
			top.state = beforeRight
			stack = append(stack, &frame{n: n.Left, needParens: needsParens(n.Left, n)})
		case beforeRight:
			sb.WriteString(optable.Display(n.Op))
			top.state = afterRight
			stack = append(stack, &frame{n: n.Right, needParens: needsParens(n.Right, n)})
		case afterRight:
			if optable.IsFunction(n.Op) {
				sb.WriteString(")")
			}
			if top.needParens {
				sb.WriteString(")")
			}
			stack = stack[:len(stack)-1]
		}
	}
}

// needsParens decides whether child requires parentheses under parent,
// mirroring node.cpp's TraverseInOrder conditional: a strictly lower rank
// always needs parens; an equal rank needs parens only when non-associative
// law would otherwise reorder the evaluation (right operand of a
// non-commutative op, or either operand of a non-left-associative op).
func needsParens(child, parent *exprtree.Node) bool {
	if parent == nil {
		return false
	}
	// A negative number as the right operand of "-" is wrapped so it can't
	// be read as a second, juxtaposed sign: a-(-3), never a--3.
	if child.Kind == exprtree.KindNumber && parent.Op == optable.Sub && parent.Right == child && child.Value < 0 {
		return true
	}
	if child.Kind != exprtree.KindOperator {
		return false
	}
	pr, cr := optable.Rank(parent.Op), optable.Rank(child.Op)
	if pr > cr {
		return true
	}
	if pr == cr {
		isRight := parent.Right == child
		if !optable.IsCommutative(parent.Op) && isRight {
			return true
		}
		if !optable.IsLeftAssoc(parent.Op) {
			return true
		}
	}
	return false
}
