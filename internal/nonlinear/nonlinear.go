// Package nonlinear solves systems of nonlinear equations by
// Newton-Raphson and Levenberg-Marquardt (damped Gauss-Newton with an
// Armijo line search), grounded on
// original_source/single/include/tomsolver/tomsolver.hpp's
// SolveByNewtonRaphson/SolveByLM/Armijo.
package nonlinear

import (
	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/linear"
	"tomsolver/internal/matrix"
	"tomsolver/internal/symmat"
	"tomsolver/internal/varstable"
)

// Armijo performs a one-dimensional backtracking line search along
// direction d starting from x, returning a step size alpha such that
// f(x+alpha*d) has decreased sufficiently relative to the linearized
// model built from df (the Jacobian evaluated at x).
func Armijo(x, d *matrix.Vec, f func(*matrix.Vec) (*matrix.Vec, error), df func(*matrix.Vec) (*matrix.Mat, error)) (float64, error) {
	const gamma = 0.4 // in (0, 0.5); larger converges faster
	const sigma = 0.5 // in (0, 1); larger shrinks alpha more slowly

	alpha := 1.0
	for {
		xNew := x.Add(d.Clone().Scale(alpha))
		fxNew, err := f(xNew)
		if err != nil {
			return 0, err
		}
		l := fxNew.Norm2()

		fx, err := f(x)
		if err != nil {
			return 0, err
		}
		jx, err := df(x)
		if err != nil {
			return 0, err
		}
		jxTd := jx.Transpose().Mul(d.ToMat())
		rhs := fx.ToMat().Add(jxTd.Scale(gamma * alpha))
		r := rhs.Norm2()

		if l <= r {
			return alpha, nil
		}
		alpha *= sigma
	}
}

func evalEquations(eqs *symmat.SymVec, t *varstable.Table, cfg config.Config) (*matrix.Vec, error) {
	clone, err := eqs.SymMat.Clone().ToVec()
	if err != nil {
		return nil, err
	}
	clone.SubsTable(t)
	if err := clone.Calc(cfg); err != nil {
		return nil, err
	}
	m, err := clone.ToMat()
	if err != nil {
		return nil, err
	}
	return matrix.ToVec(m)
}

func evalJacobian(ja *symmat.SymMat, t *varstable.Table, cfg config.Config) (*matrix.Mat, error) {
	clone := ja.Clone()
	clone.SubsTable(t)
	if err := clone.Calc(cfg); err != nil {
		return nil, err
	}
	return clone.ToMat()
}

// SolveByNewtonRaphson solves equations via the classical Newton-Raphson
// iteration: at each step, solve the linear system J*dq = -phi for the
// Jacobian J and residual phi, then apply dq directly with no line search.
func SolveByNewtonRaphson(equations *symmat.SymVec, varsTable *varstable.Table, cfg config.Config) (*varstable.Table, error) {
	table, err := varstable.New(varsTable.Vars(), 0)
	if err != nil {
		return nil, err
	}
	if err := table.SetValues(varsTable.Values().Clone()); err != nil {
		return nil, err
	}

	ja, err := symmat.Jacobian(equations, table.Vars(), cfg)
	if err != nil {
		return nil, err
	}

	q := table.Values().Clone()

	for it := 0; ; it++ {
		phi, err := evalEquations(equations, table, cfg)
		if err != nil {
			return nil, err
		}
		if phi.ToMat().EqualScalar(0, cfg) {
			return table, nil
		}
		if it > cfg.MaxIterations {
			return nil, errs.New(errs.TooManyIterations, "SolveByNewtonRaphson: exceeded the iteration limit")
		}

		j, err := evalJacobian(ja, table, cfg)
		if err != nil {
			return nil, err
		}

		deltaq, err := linear.SolveLinear(j, phi.Clone().Scale(-1), cfg)
		if err != nil {
			if ke, ok := err.(*errs.Error); ok && ke.Kind == errs.SingularMatrix {
				return nil, errs.Wrap(err, errs.SingularMatrix, "SolveByNewtonRaphson: Jacobian is singular at this point; try different initial values")
			}
			return nil, err
		}

		q = q.Add(deltaq)
		if err := table.SetValues(q); err != nil {
			return nil, err
		}
	}
}

// SolveByLM solves equations by damped Gauss-Newton (Levenberg-Marquardt
// in spirit): at each outer iteration, an inner loop inflates the damping
// factor mu until the step computed from (J+mu*ones) actually decreases
// the residual norm, with alpha chosen by an Armijo line search along
// that step.
func SolveByLM(equations *symmat.SymVec, varsTable *varstable.Table, cfg config.Config) (*varstable.Table, error) {
	table, err := varstable.New(varsTable.Vars(), 0)
	if err != nil {
		return nil, err
	}
	if err := table.SetValues(varsTable.Values().Clone()); err != nil {
		return nil, err
	}

	ja, err := symmat.Jacobian(equations, table.Vars(), cfg)
	if err != nil {
		return nil, err
	}

	q := table.Values().Clone()
	it := 0

	for {
		mu := 1e-5

		f, err := evalEquations(equations, table, cfg)
		if err != nil {
			return nil, err
		}
		if f.ToMat().EqualScalar(0, cfg) {
			return table, nil
		}

		var fNew, deltaq *matrix.Vec

		for {
			j, err := evalJacobian(ja, table, cfg)
			if err != nil {
				return nil, err
			}

			identity := matrix.New(j.Rows(), j.Cols(), 0).Ones()
			damped := j.Add(identity.Scale(mu))
			d, err := linear.SolveLinear(damped, f.Clone().Scale(-1), cfg)
			if err != nil {
				if ke, ok := err.(*errs.Error); ok && ke.Kind == errs.SingularMatrix {
					return nil, errs.Wrap(err, errs.SingularMatrix, "SolveByLM: Jacobian is singular at this point; try different initial values")
				}
				return nil, err
			}

			fFunc := func(v *matrix.Vec) (*matrix.Vec, error) {
				if err := table.SetValues(v); err != nil {
					return nil, err
				}
				return evalEquations(equations, table, cfg)
			}
			dfFunc := func(v *matrix.Vec) (*matrix.Mat, error) {
				if err := table.SetValues(v); err != nil {
					return nil, err
				}
				return evalJacobian(ja, table, cfg)
			}

			alpha, err := Armijo(q, d, fFunc, dfFunc)
			if err != nil {
				return nil, err
			}

			deltaq = d.Clone().Scale(alpha)

			qTemp := q.Add(deltaq)
			if err := table.SetValues(qTemp); err != nil {
				return nil, err
			}

			fNew, err = evalEquations(equations, table, cfg)
			if err != nil {
				return nil, err
			}

			if fNew.Norm2() < f.Norm2() {
				break
			}
			mu *= 10.0

			if it == cfg.MaxIterations {
				return nil, errs.New(errs.TooManyIterations, "SolveByLM: exceeded the iteration limit")
			}
			it++
		}

		q = q.Add(deltaq)
		if err := table.SetValues(q); err != nil {
			return nil, err
		}

		if it == cfg.MaxIterations {
			return nil, errs.New(errs.TooManyIterations, "SolveByLM: exceeded the iteration limit")
		}
		it++
	}
}

// Solve dispatches to SolveByNewtonRaphson or SolveByLM according to
// cfg.NonlinearMethod.
func Solve(equations *symmat.SymVec, varsTable *varstable.Table, cfg config.Config) (*varstable.Table, error) {
	switch cfg.NonlinearMethod {
	case config.NewtonRaphson:
		return SolveByNewtonRaphson(equations, varsTable, cfg)
	case config.LM:
		return SolveByLM(equations, varsTable, cfg)
	default:
		return nil, errs.Newf(errs.InvalidOp, "invalid NonlinearMethod value: %v", cfg.NonlinearMethod)
	}
}

// SolveDefault infers the unknowns from equations and starts every one of
// them at cfg.InitialValue.
func SolveDefault(equations *symmat.SymVec, cfg config.Config) (*varstable.Table, error) {
	names := equations.GetAllVarNames()
	table, err := varstable.New(names, cfg.InitialValue)
	if err != nil {
		return nil, err
	}
	return Solve(equations, table, cfg)
}
