// Package eval computes the numeric value of an expression tree given a
// binding for every free variable. Grounded on node.cpp's
// VpaNonRecursively: a post-order walk built with one explicit stack, then
// replayed through a second value stack, so evaluation depth never rides
// the Go call stack.
package eval

import (
	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/optable"
)

// Values maps variable name to its bound numeric value.
type Values map[string]float64

// Eval computes n's value under values. Returns errs.VariablePresent if n
// references a name absent from values (a free variable remains where a
// constant was required), and whatever errs.OutOfDomain / errs.InvalidNumber
// optable.Calc raises for domain violations.
func Eval(n *exprtree.Node, values Values, cfg config.Config) (float64, error) {
	order, err := postOrder(n)
	if err != nil {
		return 0, err
	}

	var calcStack []float64
	pop := func() float64 {
		v := calcStack[len(calcStack)-1]
		calcStack = calcStack[:len(calcStack)-1]
		return v
	}

	for _, cur := range order {
		switch cur.Kind {
		case exprtree.KindNumber:
			calcStack = append(calcStack, cur.Value)
		case exprtree.KindVariable:
			v, ok := values[cur.Name]
			if !ok {
				return 0, errs.Newf(errs.VariablePresent, "variable %q is still present; it must be bound before evaluation", cur.Name)
			}
			calcStack = append(calcStack, v)
		case exprtree.KindOperator:
			var l, r float64
			if optable.Arity(cur.Op) == 1 {
				l = pop()
			} else {
				r = pop()
				l = pop()
			}
			v, err := optable.Calc(cur.Op, l, r, cfg)
			if err != nil {
				return 0, err
			}
			calcStack = append(calcStack, v)
		}
	}
	if len(calcStack) != 1 {
		return 0, errs.Newf(errs.WrongExpression, "evaluation left %d values on the stack, want 1", len(calcStack))
	}
	return calcStack[0], nil
}

// postOrder builds n's post-order node sequence non-recursively: a single
// explicit stack produces the reverse of post-order (root, right, left,
// in that push order), which is then reversed in place.
func postOrder(n *exprtree.Node) ([]*exprtree.Node, error) {
	if n == nil {
		return nil, errs.New(errs.WrongExpression, "cannot evaluate a nil expression")
	}
	var reverted []*exprtree.Node
	stack := []*exprtree.Node{n}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		reverted = append(reverted, cur)
		if cur.Left != nil {
			stack = append(stack, cur.Left)
		}
		if cur.Right != nil {
			stack = append(stack, cur.Right)
		}
	}
	for i, j := 0, len(reverted)-1; i < j; i, j = i+1, j-1 {
		reverted[i], reverted[j] = reverted[j], reverted[i]
	}
	return reverted, nil
}

// GetAllVarNames re-exports exprtree.GetAllVarNames for callers that only
// import eval (e.g. the CLI front-end prompting for missing bindings).
func GetAllVarNames(n *exprtree.Node) []string {
	return exprtree.GetAllVarNames(n)
}
