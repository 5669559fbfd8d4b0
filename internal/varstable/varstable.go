// Package varstable is an ordered variable/value binding table: insertion
// order is preserved (for Jacobian column ordering and deterministic
// printing) alongside O(1) name lookup. Grounded on
// original_source/src/vars_table.cpp/.h.
package varstable

import (
	"fmt"
	"sort"
	"strings"

	"tomsolver/internal/config"
	"tomsolver/internal/errs"
	"tomsolver/internal/matrix"
	"tomsolver/internal/optable"
)

// Table binds a fixed, ordered set of variable names to numeric values.
type Table struct {
	vars   []string
	values *matrix.Vec
	lookup map[string]int
}

// New builds a table over vars, all initialized to initValue. A name that
// collides with a reserved function keyword (sin, cos, sqrt, ...) is
// rejected here rather than at parse time, per spec.md §9's "identifier
// rules" open question: the parser still needs to read `sin(x)` as a call,
// so the exclusion has to live at the binding-table boundary instead.
func New(vars []string, initValue float64) (*Table, error) {
	lookup := make(map[string]int, len(vars))
	for i, v := range vars {
		if _, dup := lookup[v]; dup {
			return nil, errs.Newf(errs.VariablePresent, "duplicate variable name %q", v)
		}
		if optable.IsFunctionName(v) {
			return nil, errs.Newf(errs.InvalidVarName, "variable name %q collides with a function keyword", v)
		}
		lookup[v] = i
	}
	return &Table{
		vars:   append([]string(nil), vars...),
		values: matrix.NewVec(len(vars), initValue),
		lookup: lookup,
	}, nil
}

// FromMap builds a table from a name->value map; iteration order of the map
// is not guaranteed, so names are sorted for a reproducible column order.
func FromMap(values map[string]float64) *Table {
	vars := make([]string, 0, len(values))
	for k := range values {
		vars = append(vars, k)
	}
	sort.Strings(vars)
	t, err := New(vars, 0)
	if err != nil {
		// map keys are already unique, so only a function-keyword collision
		// can fail here; treat it like exprtree.MustVar's trusted-caller panic.
		panic(err)
	}
	for _, v := range vars {
		t.Set(v, values[v])
	}
	return t
}

func (t *Table) VarNums() int          { return len(t.vars) }
func (t *Table) Vars() []string        { return append([]string(nil), t.vars...) }
func (t *Table) Values() *matrix.Vec    { return t.values }

// Get returns the value bound to name, or an error if name isn't present.
func (t *Table) Get(name string) (float64, error) {
	i, ok := t.lookup[name]
	if !ok {
		return 0, errs.Newf(errs.UndefinedVariable, "undefined variable %q", name)
	}
	return t.values.At(i), nil
}

// Set rebinds name to v. name must already be part of the table.
func (t *Table) Set(name string, v float64) error {
	i, ok := t.lookup[name]
	if !ok {
		return errs.Newf(errs.UndefinedVariable, "undefined variable %q", name)
	}
	t.values.Set(i, v)
	return nil
}

// SetValues replaces the whole value vector in one shot; v must have the
// same length as the table's variable list, in the same order.
func (t *Table) SetValues(v *matrix.Vec) error {
	if v.Len() != t.values.Len() {
		return errs.Newf(errs.SizeMismatch, "got %d values, table has %d variables", v.Len(), t.values.Len())
	}
	t.values = v
	return nil
}

// ToMap returns a plain name->value snapshot, for handing bindings to eval.
func (t *Table) ToMap() map[string]float64 {
	out := make(map[string]float64, len(t.vars))
	for i, v := range t.vars {
		out[v] = t.values.At(i)
	}
	return out
}

// Equal compares two tables' values under cfg.Epsilon; tables with
// different variable sets are never equal.
func (t *Table) Equal(o *Table, cfg config.Config) bool {
	if len(t.vars) != len(o.vars) {
		return false
	}
	for i, v := range t.vars {
		ov, err := o.Get(v)
		if err != nil {
			return false
		}
		if diff := t.values.At(i) - ov; diff > cfg.Epsilon || diff < -cfg.Epsilon {
			return false
		}
	}
	return true
}

func (t *Table) String() string {
	var sb strings.Builder
	for i, v := range t.vars {
		fmt.Fprintf(&sb, "%s = %v\n", v, t.values.At(i))
	}
	return sb.String()
}
