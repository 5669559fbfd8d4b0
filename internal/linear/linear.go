// Package linear solves a dense linear system Ax = b by Gaussian
// elimination with partial pivoting, handling square, over-determined, and
// under-determined systems. Grounded on original_source/src/linear.cpp's
// SolveLinear, translated line-for-line (Go slices standing in for the
// original's std::vector<std::vector<double>>).
package linear

import (
	"math"

	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/matrix"
)

// SolveLinear solves AA*x = bb. If AA has more rows than columns it is
// over-determined (errs.OverDeterminedEquations); if fewer, it is
// under-determined and, unless cfg.AllowIndeterminateEquation is set, an
// errs.IndeterminateEquation is raised after a particular solution is
// still computed (free variables pinned at 0). A rank-deficient square
// system raises errs.SingularMatrix (inconsistent) or
// errs.InfiniteSolutions (consistent but rank < cols).
func SolveLinear(aa *matrix.Mat, bb *matrix.Vec, cfg config.Config) (*matrix.Vec, error) {
	a := aa.Clone()
	b := bb.Clone()

	rows := a.Rows()
	cols := rows
	if rows > 0 {
		cols = a.Cols()
	}

	rankA, rankAb := rows, rows

	ret := matrix.NewVec(rows, 0)
	if cols != rows {
		if rows > cols {
			return nil, errs.New(errs.OverDeterminedEquations, "SolveLinear: more equations than unknowns")
		}
		ret = matrix.NewVec(cols, 0)
	}

	trueRowNumber := make([]int, cols)

	y, x := 0, 0
	for ; y < rows && x < cols; y, x = y+1, x+1 {
		maxAbsRowIndex := matrix.GetMaxAbsRowIndex(a, y, rows-1, x)
		a.SwapRow(y, maxAbsRowIndex)
		b.SwapRow(y, maxAbsRowIndex)

		for math.Abs(a.At(y, x)) < cfg.Epsilon {
			x++
			if x == cols {
				break
			}
			maxAbsRowIndex = matrix.GetMaxAbsRowIndex(a, y, rows-1, x)
			a.SwapRow(y, maxAbsRowIndex)
			b.SwapRow(y, maxAbsRowIndex)
		}

		if x != cols && x > y {
			trueRowNumber[y] = x
		}

		if x == cols {
			rankA = y
			if math.Abs(b.At(y)) < cfg.Epsilon {
				rankAb = y
			}
			if rankA != rankAb {
				return nil, errs.New(errs.SingularMatrix, "SolveLinear: coefficient and augmented matrix ranks differ")
			}
			break
		}

		mNum := a.At(y, x)
		for j := y; j < cols; j++ {
			a.Set(y, j, a.At(y, j)/mNum)
		}
		b.Set(y, b.At(y)/mNum)

		for row := y + 1; row < rows; row++ {
			if math.Abs(a.At(row, x)) < cfg.Epsilon {
				continue
			}
			mi := a.At(row, x)
			for col := x; col < cols; col++ {
				a.Set(row, col, a.At(row, col)-a.At(y, col)*mi)
			}
			b.Set(row, b.At(row)-b.At(y)*mi)
		}
	}

	indeterminate := false
	if rows != cols {
		a.Resize(cols) // new rows are already cols-wide and zero-filled
		b.ResizeVec(cols)
		rows = cols
		indeterminate = true

		for i := rows - 1; i >= 0; i-- {
			if trueRowNumber[i] != 0 {
				a.SwapRow(i, trueRowNumber[i])
				b.SwapRow(i, trueRowNumber[i])
			}
		}
	}

	for i := rows - 1; i >= 0; i-- {
		sumOthers := 0.0
		for j := i + 1; j < rows; j++ {
			sumOthers += a.At(i, j) * ret.At(j)
		}
		ret.Set(i, b.At(i)-sumOthers)
	}

	if rankA < cols && rankA == rankAb {
		if indeterminate {
			if !cfg.AllowIndeterminateEquation {
				return nil, errs.New(errs.IndeterminateEquation, "SolveLinear: system is indeterminate")
			}
		} else {
			return nil, errs.New(errs.InfiniteSolutions, "SolveLinear: system has infinitely many solutions")
		}
	}

	return ret, nil
}
