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

// overflowArity is the payload width of the stack overflow table: (address,
// value).  Addresses identify overflow table rows uniquely (the clock cycle at
// insertion), values are the spilled stack elements.
const overflowArity = 2

// OverflowBuilder constructs the auxiliary column p1 describing the states of
// the stack overflow table.  On a push beyond the visible stack window a row
// enters the table and p1 accumulates the randomized compression of (address,
// value); on the matching pop the row leaves and p1 accumulates its inverse:
//
//	p1[r] = p1[r-1] * (c0 + c1·address + c2·value)    on insert
//	p1[r] = p1[r-1] / (c0 + c1·address + c2·value)    on remove
//	p1[r] = p1[r-1]                                   otherwise
//
// A program which never overflows the visible stack yields the constant
// all-ones column.  Whenever inserts and removes are balanced the terminal
// value is the multiplicative identity, which the boundary constraint at the
// last row checks outside this package.
type OverflowBuilder struct{}

var _ Builder = OverflowBuilder{}

// Name implementation for the Builder interface.
func (p OverflowBuilder) Name() string {
	return "stack-overflow"
}

// ColumnNames implementation for the Builder interface.
func (p OverflowBuilder) ColumnNames() []string {
	return []string{"p1"}
}

// NumChallenges implementation for the Builder interface.  One challenge for
// the constant term, one per payload component.
func (p OverflowBuilder) NumChallenges() uint {
	return overflowArity + 1
}

// Build implementation for the Builder interface.  The stack can overflow or
// shrink at most once per cycle, hence duplicate cycles in the log are
// rejected as malformed.
func (p OverflowBuilder) Build(main *trace.Matrix[koalabear.Element], hints *Log,
	challenges Challenges) ([][]fext.Element, error) {
	//
	comp, err := newCompressor(p.Name(), overflowArity, challenges)
	//
	if err != nil {
		return nil, err
	}
	//
	if err := hints.validate(p.Name(), main.Height(), overflowArity, true); err != nil {
		return nil, err
	}
	//
	p1, err := runningProduct(main.Height(), hints.Hints(), comp)
	//
	if err != nil {
		return nil, err
	}
	//
	return [][]fext.Element{p1}, nil
}
