// Package symmat is a matrix of expression trees — equations and their
// Jacobian — plus the operations needed to turn it numeric: Subs, Calc,
// ToMat. Grounded on original_source/src/symmat.cpp/.h.
package symmat

import (
	"strings"

	"tomsolver/internal/config"
	"tomsolver/internal/diff"
	"tomsolver/internal/errs"
	"tomsolver/internal/eval"
	"tomsolver/internal/exprtree"
	"tomsolver/internal/matrix"
	"tomsolver/internal/printer"
	"tomsolver/internal/subs"
	"tomsolver/internal/varstable"
)

// SymMat is a rows x cols grid of expression-tree nodes.
type SymMat struct {
	data [][]*exprtree.Node
}

// New builds a rows x cols SymMat of nil nodes, ready for FromRows-style
// assignment.
func New(rows, cols int) *SymMat {
	data := make([][]*exprtree.Node, rows)
	for i := range data {
		data[i] = make([]*exprtree.Node, cols)
	}
	return &SymMat{data: data}
}

// FromRows builds a SymMat taking ownership of the given nodes.
func FromRows(rows [][]*exprtree.Node) *SymMat {
	return &SymMat{data: rows}
}

// FromMat lifts a numeric Mat into a SymMat of Number leaves.
func FromMat(m *matrix.Mat) *SymMat {
	s := New(m.Rows(), m.Cols())
	for i := 0; i < m.Rows(); i++ {
		for j := 0; j < m.Cols(); j++ {
			s.data[i][j] = exprtree.Num(m.At(i, j))
		}
	}
	return s
}

func (s *SymMat) Rows() int { return len(s.data) }
func (s *SymMat) Cols() int {
	if len(s.data) == 0 {
		return 0
	}
	return len(s.data[0])
}

func (s *SymMat) Empty() bool { return len(s.data) == 0 }

func (s *SymMat) At(i, j int) *exprtree.Node     { return s.data[i][j] }
func (s *SymMat) Set(i, j int, n *exprtree.Node) { s.data[i][j] = n }

// Clone deep-copies every node in the grid.
func (s *SymMat) Clone() *SymMat {
	out := New(s.Rows(), s.Cols())
	for i := range s.data {
		for j := range s.data[i] {
			out.data[i][j] = exprtree.Clone(s.data[i][j])
		}
	}
	return out
}

// ToVec downcasts a single-column SymMat to a SymVec.
func (s *SymMat) ToVec() (*SymVec, error) {
	if s.Cols() != 1 {
		return nil, errs.New(errs.SizeMismatch, "ToVec: SymMat is not a single column")
	}
	return &SymVec{SymMat: s}, nil
}

// ToSymVecOneByOne flattens the grid row-major into a column SymVec,
// regardless of shape (a supplemented convenience the original exposes
// alongside the stricter single-column ToVec).
func (s *SymMat) ToSymVecOneByOne() *SymVec {
	v := New(s.Rows()*s.Cols(), 1)
	idx := 0
	for _, row := range s.data {
		for _, node := range row {
			v.data[idx][0] = exprtree.Clone(node)
			idx++
		}
	}
	return &SymVec{SymMat: v}
}

// ToMat converts every node to its numeric value; every node must already
// be a Number leaf (call Calc or Subs-then-Calc first).
func (s *SymMat) ToMat() (*matrix.Mat, error) {
	out := matrix.New(s.Rows(), s.Cols(), 0)
	for i, row := range s.data {
		for j, node := range row {
			if !node.IsNumber() {
				return nil, errs.Newf(errs.WrongExpression, "ToMat: element (%d,%d) is not a constant", i, j)
			}
			out.Set(i, j, node.Value)
		}
	}
	return out, nil
}

// Calc evaluates every node with no free variables in place; every node
// must be fully bound (see Subs) or evaluation fails.
func (s *SymMat) Calc(cfg config.Config) error {
	for i, row := range s.data {
		for j, node := range row {
			v, err := eval.Eval(node, eval.Values{}, cfg)
			if err != nil {
				return err
			}
			s.data[i][j] = exprtree.Num(v)
		}
	}
	return nil
}

// SubsMap substitutes a name->value binding into every node, in place.
func (s *SymMat) SubsMap(values map[string]float64) {
	dict := make(subs.Dict, len(values))
	for k, v := range values {
		dict[k] = exprtree.Num(v)
	}
	for i, row := range s.data {
		for j, node := range row {
			s.data[i][j] = subs.SubsMany(node, dict)
		}
	}
}

// SubsTable substitutes every variable bound in t.
func (s *SymMat) SubsTable(t *varstable.Table) {
	s.SubsMap(t.ToMap())
}

// GetAllVarNames returns the union of variable names across every node, in
// first-encountered order scanning row-major.
func (s *SymMat) GetAllVarNames() []string {
	seen := make(map[string]bool)
	var names []string
	for _, row := range s.data {
		for _, node := range row {
			for _, v := range exprtree.GetAllVarNames(node) {
				if !seen[v] {
					seen[v] = true
					names = append(names, v)
				}
			}
		}
	}
	return names
}

// Sub subtracts rhs element-wise; shapes must match.
func (s *SymMat) Sub(rhs *SymMat) (*SymMat, error) {
	if s.Rows() != rhs.Rows() || s.Cols() != rhs.Cols() {
		return nil, errs.New(errs.SizeMismatch, "SymMat.Sub: shape mismatch")
	}
	out := New(s.Rows(), s.Cols())
	for i := range s.data {
		for j := range s.data[i] {
			out.data[i][j] = exprtree.Sub(exprtree.Clone(s.data[i][j]), exprtree.Clone(rhs.data[i][j]))
		}
	}
	return out, nil
}

// Mul performs symbolic matrix multiplication; s.Cols() must equal
// rhs.Rows().
func (s *SymMat) Mul(rhs *SymMat) (*SymMat, error) {
	if s.Cols() != rhs.Rows() {
		return nil, errs.New(errs.SizeMismatch, "SymMat.Mul: inner dimensions do not match")
	}
	out := New(s.Rows(), rhs.Cols())
	for i := 0; i < s.Rows(); i++ {
		for j := 0; j < rhs.Cols(); j++ {
			sum := exprtree.Mul(exprtree.Clone(s.data[i][0]), exprtree.Clone(rhs.data[0][j]))
			for k := 1; k < s.Cols(); k++ {
				sum = exprtree.Add(sum, exprtree.Mul(exprtree.Clone(s.data[i][k]), exprtree.Clone(rhs.data[k][j])))
			}
			out.data[i][j] = sum
		}
	}
	return out, nil
}

// Equal reports structural (not semantic) equality of every element.
func (s *SymMat) Equal(rhs *SymMat) bool {
	if s.Rows() != rhs.Rows() || s.Cols() != rhs.Cols() {
		return false
	}
	for i := range s.data {
		for j := range s.data[i] {
			if !exprtree.Equal(s.data[i][j], rhs.data[i][j]) {
				return false
			}
		}
	}
	return true
}

func (s *SymMat) String(cfg config.Config) string {
	if s.Empty() {
		return "[]"
	}
	var sb strings.Builder
	sb.WriteString("[")
	for i, row := range s.data {
		if i > 0 {
			sb.WriteString(" ")
		}
		for j, node := range row {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(printer.String(node, cfg))
		}
		if i < len(s.data)-1 {
			sb.WriteString("\n")
		}
	}
	sb.WriteString("]")
	return sb.String()
}

// SymVec is a SymMat with exactly one column.
type SymVec struct {
	*SymMat
}

// NewVec builds a SymVec of rows nil nodes.
func NewVec(rows int) *SymVec { return &SymVec{SymMat: New(rows, 1)} }

// VecFromSlice builds a SymVec, taking ownership of each node.
func VecFromSlice(nodes []*exprtree.Node) *SymVec {
	v := NewVec(len(nodes))
	for i, n := range nodes {
		v.data[i][0] = n
	}
	return v
}

func (v *SymVec) At(i int) *exprtree.Node     { return v.data[i][0] }
func (v *SymVec) Set(i int, n *exprtree.Node) { v.data[i][0] = n }
func (v *SymVec) Len() int                    { return v.Rows() }

func (v *SymVec) Sub(rhs *SymVec) (*SymVec, error) {
	out, err := v.SymMat.Sub(rhs.SymMat)
	if err != nil {
		return nil, err
	}
	return &SymVec{SymMat: out}, nil
}

// Jacobian builds the equations x vars matrix of partial derivatives,
// d(equations[i]) / d(vars[j]). equations must be a single column.
func Jacobian(equations *SymVec, vars []string, cfg config.Config) (*SymMat, error) {
	rows := equations.Rows()
	cols := len(vars)
	ja := New(rows, cols)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			d, err := diff.Diff(equations.At(i), vars[j], 1, cfg)
			if err != nil {
				return nil, err
			}
			ja.data[i][j] = d
		}
	}
	return ja, nil
}
