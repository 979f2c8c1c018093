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

// Package auxtrace constructs the auxiliary (randomized) trace columns of a STARK
// proof.  Each virtual table of the virtual machine (e.g. the stack overflow
// table) contributes one or more running-product columns which, together with
// boundary constraints checked outside this package, prove that insertions
// into and removals from the table form equal multisets.
//
// The inputs are the committed main trace, the per-table hint logs recorded
// during execution, and a vector of extension-field challenges drawn after the
// main trace was committed.  All three are read-only; construction is a pure
// function of them.
package auxtrace

import (
	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
)

// HintKind distinguishes the two events which can mutate a virtual table.
type HintKind uint8

const (
	// Insert records a tuple entering the virtual table.
	Insert HintKind = iota
	// Remove records a tuple leaving the virtual table.  For a sound proof,
	// every Insert must eventually be matched by exactly one Remove carrying
	// an identical payload.
	Remove
)

func (k HintKind) String() string {
	if k == Insert {
		return "insert"
	}
	//
	return "remove"
}

// Hint is a single virtual-table event, tagged by the cycle (i.e. trace row)
// at which it occurred.  Payloads are tuples of base field elements with a
// fixed arity per table.
type Hint struct {
	// Cycle at which this event occurred.
	Cycle uint
	// Whether the payload was inserted or removed.
	Kind HintKind
	// The affected table tuple.
	Payload []koalabear.Element
}

// Log is an append-only record of the events mutating one virtual table,
// built incrementally by the stepping engine as cycles execute.  Hints are
// appended in non-decreasing cycle order and consumed in a single forward
// pass; the log is never mutated after execution completes.
type Log struct {
	hints []Hint
}

// NewLog constructs an empty hint log.
func NewLog() *Log {
	return &Log{}
}

// Insert appends an insertion hint for a given cycle.
func (p *Log) Insert(cycle uint, payload ...koalabear.Element) {
	p.hints = append(p.hints, Hint{cycle, Insert, payload})
}

// Remove appends a removal hint for a given cycle.
func (p *Log) Remove(cycle uint, payload ...koalabear.Element) {
	p.hints = append(p.hints, Hint{cycle, Remove, payload})
}

// Len returns the number of hints in this log.
func (p *Log) Len() uint {
	return uint(len(p.hints))
}

// Hints returns the recorded hints.  The returned slice must not be modified.
func (p *Log) Hints() []Hint {
	return p.hints
}

// validate checks the structural well-formedness of this log against a table
// of the given trace height and payload arity: cycles must be non-decreasing
// (strictly increasing when single is set) and within 1..height-1, and every
// payload must have the expected arity.  Row 0 holds the initial state of the
// execution, hence no event can target it.  Conservation of payloads is *not*
// checked here; an unbalanced log yields a non-identity terminal value which
// the downstream boundary constraint rejects.
func (p *Log) validate(table string, height uint, arity uint, single bool) error {
	last := uint(0)
	//
	for i, h := range p.hints {
		switch {
		case h.Cycle == 0 || h.Cycle >= height:
			return &MalformedHintLogError{table, uint(i),
				errorf("cycle %d out of range 1..%d", h.Cycle, height-1)}
		case h.Cycle < last:
			return &MalformedHintLogError{table, uint(i),
				errorf("cycle %d out of order (follows %d)", h.Cycle, last)}
		case single && i > 0 && h.Cycle == last:
			return &MalformedHintLogError{table, uint(i),
				errorf("duplicate hint for cycle %d", h.Cycle)}
		case uint(len(h.Payload)) != arity:
			return &MalformedHintLogError{table, uint(i),
				errorf("payload has arity %d, expected %d", len(h.Payload), arity)}
		}
		//
		last = h.Cycle
	}
	//
	return nil
}
