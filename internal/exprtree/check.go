package exprtree

import (
	"tomsolver/internal/errs"
	"tomsolver/internal/optable"
)

func checkOperatorArity(n *Node) error {
	switch n.Kind {
	case KindNumber, KindVariable:
		if n.Left != nil || n.Right != nil {
			return errs.Newf(errs.InvalidOp, "leaf node %q has children", n.debugLabel())
		}
		return nil
	case KindOperator:
		switch optable.Arity(n.Op) {
		case 1:
			if n.Left == nil || n.Right != nil {
				return errs.Newf(errs.InvalidOp, "unary operator %q has wrong arity", optable.Display(n.Op))
			}
		case 2:
			if n.Left == nil || n.Right == nil {
				return errs.Newf(errs.InvalidOp, "binary operator %q has wrong arity", optable.Display(n.Op))
			}
		}
	}
	return nil
}

func errParentMismatch(parent, child *Node) error {
	return errs.Newf(errs.InvalidOp, "node %q's parent link does not point at %q", child.debugLabel(), parent.debugLabel())
}

func (n *Node) debugLabel() string {
	switch n.Kind {
	case KindNumber:
		return "number"
	case KindVariable:
		return n.Name
	default:
		return optable.Display(n.Op)
	}
}
