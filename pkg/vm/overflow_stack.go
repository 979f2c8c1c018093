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

// Package vm contains the parts of the stepping engine which feed the
// auxiliary trace construction: the operand stack with its overflow table,
// recording a hint for every row entering or leaving the table.
package vm

import (
	"github.com/xxhh1112/miden-vm/pkg/trace"
	"github.com/xxhh1112/miden-vm/pkg/trace/auxtrace"
	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
)

// VisibleDepth is the number of stack slots directly visible as main trace
// registers.  Elements beyond this window live in the overflow table, whose
// consistency is proved via the auxiliary column p1.
const VisibleDepth = 16

// entry is a row of the overflow table.  Addresses are the clock cycle at
// which the row was inserted, which makes them unique since at most one row
// can be inserted per cycle.
type entry struct {
	address uint
	value   koalabear.Element
}

// snapshot captures the per-cycle register values which end up in the main
// trace: the clock, the current stack depth and the top stack element.
type snapshot struct {
	clk   koalabear.Element
	depth koalabear.Element
	top   koalabear.Element
}

// OverflowStack is the operand stack of the virtual machine: a fixed window
// of VisibleDepth slots, backed by an unbounded overflow table.  Pushing onto
// a full window spills the bottom visible element into the overflow table and
// records an insert hint; popping while the overflow table is non-empty
// restores its most recent row and records the matching remove hint.  The
// hint log and trace snapshots are append-only and tagged by cycle.
type OverflowStack struct {
	// Current clock cycle.  Cycle 0 is the initial state; every operation
	// advances the clock before taking effect.
	clk uint
	// Number of occupied visible slots.
	depth uint
	// Visible window, top of stack at index 0.
	visible [VisibleDepth]koalabear.Element
	// Overflow table rows, most recent last.
	overflow []entry
	// Hints describing every overflow table mutation.
	hints *auxtrace.Log
	// Register snapshots, one per cycle (including the initial state).
	rows []snapshot
}

// NewOverflowStack constructs a stack in its initial state: empty window,
// empty overflow table, clock at zero.
func NewOverflowStack() *OverflowStack {
	s := &OverflowStack{hints: auxtrace.NewLog()}
	//
	s.rows = append(s.rows, s.snapshot())
	//
	return s
}

// Push a value onto the stack.  If the visible window is full, its bottom
// element spills into the overflow table.
func (s *OverflowStack) Push(value koalabear.Element) {
	s.clk++
	//
	if s.depth == VisibleDepth {
		spilled := s.visible[VisibleDepth-1]
		//
		s.overflow = append(s.overflow, entry{s.clk, spilled})
		s.hints.Insert(s.clk, koalabear.New(uint64(s.clk)), spilled)
	} else {
		s.depth++
	}
	// Shift the window down and place the new top.
	copy(s.visible[1:], s.visible[:VisibleDepth-1])
	s.visible[0] = value
	//
	s.rows = append(s.rows, s.snapshot())
}

// Pop the top value off the stack.  If the overflow table is non-empty, its
// most recent row moves back into the bottom of the visible window.
func (s *OverflowStack) Pop() koalabear.Element {
	s.clk++
	//
	top := s.visible[0]
	// Shift the window up.
	copy(s.visible[:VisibleDepth-1], s.visible[1:])
	s.visible[VisibleDepth-1] = koalabear.Element{}
	//
	if n := len(s.overflow); n > 0 {
		e := s.overflow[n-1]
		s.overflow = s.overflow[:n-1]
		//
		s.visible[VisibleDepth-1] = e.value
		s.hints.Remove(s.clk, koalabear.New(uint64(e.address)), e.value)
	} else if s.depth > 0 {
		s.depth--
	}
	//
	s.rows = append(s.rows, s.snapshot())
	//
	return top
}

// Depth returns the total stack depth, including overflowed elements.
func (s *OverflowStack) Depth() uint {
	return s.depth + uint(len(s.overflow))
}

// Clk returns the current clock cycle.
func (s *OverflowStack) Clk() uint {
	return s.clk
}

// Hints returns the overflow table hint log recorded so far.
func (s *OverflowStack) Hints() *auxtrace.Log {
	return s.hints
}

// Trace finalises execution into a main trace matrix with columns clk, depth
// and s0.  The final state is repeated to pad the trace up to a power-of-two
// height; padding rows carry no hints.
func (s *OverflowStack) Trace() (*trace.Matrix[koalabear.Element], error) {
	var (
		height = nextPowerOfTwo(uint(len(s.rows)))
		clks   = make([]koalabear.Element, height)
		depths = make([]koalabear.Element, height)
		tops   = make([]koalabear.Element, height)
	)
	//
	for i := uint(0); i < height; i++ {
		row := s.rows[min(int(i), len(s.rows)-1)]
		//
		clks[i] = row.clk
		depths[i] = row.depth
		tops[i] = row.top
	}
	//
	return trace.NewMainTrace([]trace.Column[koalabear.Element]{
		trace.NewColumn("clk", clks),
		trace.NewColumn("depth", depths),
		trace.NewColumn("s0", tops),
	})
}

func (s *OverflowStack) snapshot() snapshot {
	return snapshot{
		clk:   koalabear.New(uint64(s.clk)),
		depth: koalabear.New(uint64(s.Depth())),
		top:   s.visible[0],
	}
}

func nextPowerOfTwo(n uint) uint {
	k := uint(1)
	//
	for k < n {
		k = k * 2
	}
	//
	return k
}
