/*
Package sparse implements sparse integer matrices for compact parser tables.

Every position of a matrix holds either nothing, a single int32 or a pair of
int32 values. ACTION tables use the second value of a pair to keep a
conflicting action visible.

Positions are stored as triplets (COO encoding), sorted by a packed
row-major key. Lookups are binary searches.

   https://medium.com/@jmaxg3/101-ways-to-store-a-sparse-matrix-c7f2bf15a229

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package sparse

import (
	"fmt"
	"sort"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/exp/slices"
)

// tracer traces with key 'slrgen.lr'.
func tracer() tracing.Trace {
	return tracing.Select("slrgen.lr")
}

// DefaultNullValue is the default empty-value for matrices (min int32).
const DefaultNullValue = -2147483648

// IntMatrix is a sparse m x n matrix of int32 values.
//
//     M := NewIntMatrix(10, 10, -1)  // -1 marks empty positions
//     M.Set(2, 3, 4711)
//     M.Add(2, 3, 123)               // M.Values(2, 3) = (4711, 123)
//     M.Value(5, 5)                  // -1
//
// Values cannot be deleted.
type IntMatrix struct {
	entries []entry
	rows    int
	cols    int
	null    int32
}

type entry struct {
	key  int // row*cols + col
	a, b int32
}

// NewIntMatrix creates an empty m x n matrix. nullValue denotes empty
// positions and must not be stored as a value.
func NewIntMatrix(m, n int, nullValue int32) *IntMatrix {
	return &IntMatrix{rows: m, cols: n, null: nullValue}
}

// M returns the row count.
func (m *IntMatrix) M() int {
	return m.rows
}

// N returns the column count.
func (m *IntMatrix) N() int {
	return m.cols
}

// NullValue returns the value of empty positions.
func (m *IntMatrix) NullValue() int32 {
	return m.null
}

// ValueCount returns the number of non-empty positions.
func (m *IntMatrix) ValueCount() int {
	return len(m.entries)
}

// Value returns the first value at (i,j), or NullValue.
func (m *IntMatrix) Value(i, j int) int32 {
	a, _ := m.Values(i, j)
	return a
}

// Values returns both values at (i,j). Missing values are NullValue.
func (m *IntMatrix) Values(i, j int) (int32, int32) {
	if k, found := m.find(m.key(i, j)); found {
		return m.entries[k].a, m.entries[k].b
	}
	return m.null, m.null
}

// Count returns the number of values stored at (i,j), i.e. 0, 1 or 2.
func (m *IntMatrix) Count(i, j int) int {
	a, b := m.Values(i, j)
	switch {
	case a == m.null:
		return 0
	case b == m.null:
		return 1
	}
	return 2
}

// Set replaces the values at (i,j) by a single value.
func (m *IntMatrix) Set(i, j int, value int32) *IntMatrix {
	e := m.at(i, j)
	e.a, e.b = value, m.null
	return m
}

// Add stores value as an additional value at (i,j). Adding a value which is
// already present is a no-op. A position holds at most two values; a third
// one is dropped and reported as an error to the tracer.
func (m *IntMatrix) Add(i, j int, value int32) *IntMatrix {
	e := m.at(i, j)
	switch {
	case e.a == m.null:
		e.a = value
	case e.a == value || e.b == value:
	case e.b == m.null:
		e.b = value
	default:
		tracer().Errorf("sparse matrix entry (%d,%d) is full, dropping %d", i, j, value)
	}
	return m
}

// Each calls f for every non-empty position, in row-major order.
func (m *IntMatrix) Each(f func(i, j int, a, b int32)) {
	for _, e := range m.entries {
		f(e.key/m.cols, e.key%m.cols, e.a, e.b)
	}
}

func (m *IntMatrix) key(i, j int) int {
	if i < 0 || j < 0 || i >= m.rows || j >= m.cols {
		panic(fmt.Sprintf("sparse.IntMatrix: index (%d,%d) out of range %d x %d", i, j, m.rows, m.cols))
	}
	return i*m.cols + j
}

func (m *IntMatrix) find(key int) (int, bool) {
	k := sort.Search(len(m.entries), func(k int) bool {
		return m.entries[k].key >= key
	})
	return k, k < len(m.entries) && m.entries[k].key == key
}

// at returns the entry for (i,j), inserting an empty one if necessary.
func (m *IntMatrix) at(i, j int) *entry {
	key := m.key(i, j)
	k, found := m.find(key)
	if !found {
		m.entries = slices.Insert(m.entries, k, entry{key: key, a: m.null, b: m.null})
	}
	return &m.entries[k]
}
