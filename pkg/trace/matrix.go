// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package trace provides row-aligned matrices of field elements.  The main
// execution trace is a matrix over the base field with one row per cycle; the
// auxiliary trace is a matrix over the extension field with the same height.
// Matrices are immutable once constructed.
package trace

import (
	"fmt"

	"github.com/xxhh1112/miden-vm/pkg/util/field"
)

// Column is a named, length-fixed sequence of field elements.
type Column[F field.Element[F]] struct {
	name string
	data []F
}

// NewColumn constructs a column from its name and backing data.  The data is
// not copied; the caller relinquishes ownership.
func NewColumn[F field.Element[F]](name string, data []F) Column[F] {
	return Column[F]{name, data}
}

// Name returns the name of this column.
func (c Column[F]) Name() string {
	return c.name
}

// Height returns the number of rows in this column.
func (c Column[F]) Height() uint {
	return uint(len(c.data))
}

// Get returns the value at a given row of this column.
func (c Column[F]) Get(row uint) F {
	return c.data[row]
}

// Data returns the backing data of this column.  The returned slice must not
// be modified.
func (c Column[F]) Data() []F {
	return c.data
}

// Matrix is a set of equal-height columns.  Rows correspond to cycles of the
// execution, columns to registers (main trace) or running accumulators
// (auxiliary trace).
type Matrix[F field.Element[F]] struct {
	// Height of every column in this matrix.
	height uint
	// Columns, in protocol-fixed order.
	columns []Column[F]
}

// NewMatrix constructs a matrix from a set of columns, all of which must have
// the same height.
func NewMatrix[F field.Element[F]](columns []Column[F]) (*Matrix[F], error) {
	if len(columns) == 0 {
		return nil, &DimensionMismatchError{"matrix must have at least one column"}
	}
	//
	height := columns[0].Height()
	//
	for _, c := range columns[1:] {
		if c.Height() != height {
			return nil, &DimensionMismatchError{
				fmt.Sprintf("column %s has height %d, expected %d", c.Name(), c.Height(), height),
			}
		}
	}
	//
	return &Matrix[F]{height, columns}, nil
}

// NewMainTrace constructs the main execution trace matrix.  In addition to the
// uniform-height requirement, the number of rows must be a non-zero power of
// two, as required by the downstream commitment layer.
func NewMainTrace[F field.Element[F]](columns []Column[F]) (*Matrix[F], error) {
	matrix, err := NewMatrix(columns)
	//
	if err != nil {
		return nil, err
	}
	//
	if !isPowerOfTwo(matrix.height) {
		return nil, &DimensionMismatchError{
			fmt.Sprintf("trace height %d is not a power of two", matrix.height),
		}
	}
	//
	return matrix, nil
}

// Height returns the number of rows in this matrix.
func (m *Matrix[F]) Height() uint {
	return m.height
}

// Width returns the number of columns in this matrix.
func (m *Matrix[F]) Width() uint {
	return uint(len(m.columns))
}

// Column returns the ith column of this matrix.
func (m *Matrix[F]) Column(index uint) Column[F] {
	return m.columns[index]
}

// ColumnByName looks up a column by name, returning false if no column with
// that name exists.
func (m *Matrix[F]) ColumnByName(name string) (Column[F], bool) {
	for _, c := range m.columns {
		if c.name == name {
			return c, true
		}
	}
	// Column does not exist
	return Column[F]{}, false
}

// Get returns the value at a given column and row of this matrix.
func (m *Matrix[F]) Get(col uint, row uint) F {
	return m.columns[col].Get(row)
}

// Row returns the values of a given row across all columns.
func (m *Matrix[F]) Row(row uint) []F {
	values := make([]F, len(m.columns))
	//
	for i, c := range m.columns {
		values[i] = c.Get(row)
	}
	//
	return values
}

func isPowerOfTwo(n uint) bool {
	return n != 0 && n&(n-1) == 0
}
