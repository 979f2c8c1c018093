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
package auxtrace

import (
	"github.com/xxhh1112/miden-vm/pkg/trace"
	"github.com/xxhh1112/miden-vm/pkg/util/field/fext"
	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
)

// BusBuilder is a generalised running-product builder covering the remaining
// virtual tables of the protocol (memory bus, range checker, chiplet buses).
// These reuse the stack overflow formula with a different payload arity:
// requests are inserted on one side of the bus, responses removed on the
// other, and balance is again proved by a terminal boundary constraint.
// Unlike the stack overflow table, several bus events may share a single
// cycle, in which case their factors are folded into the same row transition.
type BusBuilder struct {
	// Virtual table served by this bus.
	table string
	// Name of the single column produced.
	column string
	// Payload width of bus events.
	arity uint
}

var _ Builder = BusBuilder{}

// NewBusBuilder constructs a builder for a bus with payloads of a given
// arity, producing a column with a given name.
func NewBusBuilder(table string, column string, arity uint) BusBuilder {
	if arity == 0 {
		panic("bus payload arity cannot be zero")
	}
	//
	return BusBuilder{table, column, arity}
}

// Name implementation for the Builder interface.
func (p BusBuilder) Name() string {
	return p.table
}

// ColumnNames implementation for the Builder interface.
func (p BusBuilder) ColumnNames() []string {
	return []string{p.column}
}

// NumChallenges implementation for the Builder interface.
func (p BusBuilder) NumChallenges() uint {
	return p.arity + 1
}

// Build implementation for the Builder interface.
func (p BusBuilder) Build(main *trace.Matrix[koalabear.Element], hints *Log,
	challenges Challenges) ([][]fext.Element, error) {
	//
	comp, err := newCompressor(p.table, p.arity, challenges)
	//
	if err != nil {
		return nil, err
	}
	//
	if err := hints.validate(p.table, main.Height(), p.arity, false); err != nil {
		return nil, err
	}
	//
	column, err := runningProduct(main.Height(), hints.Hints(), comp)
	//
	if err != nil {
		return nil, err
	}
	//
	return [][]fext.Element{column}, nil
}
