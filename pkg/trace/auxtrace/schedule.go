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
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/xxhh1112/miden-vm/pkg/trace"
	"github.com/xxhh1112/miden-vm/pkg/util/field/fext"
	"github.com/xxhh1112/miden-vm/pkg/util/field/koalabear"
)

// Schedule is the protocol-fixed, ordered list of virtual table builders.
// The order determines both how the global challenge vector is carved into
// per-table sub-vectors and how the resulting columns are concatenated; it
// must match the constraint indices on the verifier side.
type Schedule struct {
	builders []Builder
}

// NewSchedule constructs a schedule from the given builders, in order.
func NewSchedule(builders ...Builder) *Schedule {
	return &Schedule{builders}
}

// NumChallenges gives the arity of the global challenge vector consumed by
// this schedule, i.e. the sum over all builders.
func (p *Schedule) NumChallenges() uint {
	sum := uint(0)
	//
	for _, b := range p.builders {
		sum += b.NumChallenges()
	}
	//
	return sum
}

// ColumnNames gives the names of all auxiliary columns produced by this
// schedule, in assembly order.
func (p *Schedule) ColumnNames() []string {
	var names []string
	//
	for _, b := range p.builders {
		names = append(names, b.ColumnNames()...)
	}
	//
	return names
}

// AuxTrace is the assembled auxiliary trace: all builders' columns, in
// schedule order, row-aligned with the main trace.
type AuxTrace struct {
	matrix *trace.Matrix[fext.Element]
}

// Matrix returns the auxiliary trace matrix, as handed to the commitment
// layer.
func (p *AuxTrace) Matrix() *trace.Matrix[fext.Element] {
	return p.matrix
}

// Terminals returns the last-row value of every column.  These are the values
// the public boundary constraints check; for a balanced hint log they all
// equal the multiplicative identity.
func (p *AuxTrace) Terminals() []fext.Element {
	return p.matrix.Row(p.matrix.Height() - 1)
}

// Build runs every builder of this schedule and assembles their columns into
// the auxiliary trace matrix.  Hint logs are given in schedule order, one per
// builder.  Builders are independent (disjoint logs, disjoint challenge
// sub-vectors, disjoint output columns) and therefore run concurrently; the
// main trace and challenge vector are shared read-only.  Either a fully
// populated matrix is returned, or the first error encountered.
func (p *Schedule) Build(main *trace.Matrix[koalabear.Element], logs []*Log,
	challenges Challenges) (*AuxTrace, error) {
	//
	if uint(len(logs)) != uint(len(p.builders)) {
		return nil, &trace.DimensionMismatchError{
			Detail: errorf("schedule has %d builders, given %d hint logs", len(p.builders), len(logs)),
		}
	}
	//
	if challenges.Len() != p.NumChallenges() {
		return nil, &trace.DimensionMismatchError{
			Detail: errorf("schedule requires %d challenges, given %d", p.NumChallenges(), challenges.Len()),
		}
	}
	//
	var (
		group   errgroup.Group
		results = make([][][]fext.Element, len(p.builders))
		offset  = uint(0)
		start   = time.Now()
	)
	//
	for i, b := range p.builders {
		sub := challenges[offset : offset+b.NumChallenges()]
		offset += b.NumChallenges()
		//
		group.Go(func() error {
			columns, err := b.Build(main, logs[i], sub)
			//
			if err != nil {
				return err
			}
			//
			results[i] = columns
			//
			return nil
		})
	}
	//
	if err := group.Wait(); err != nil {
		return nil, err
	}
	// Concatenate columns in schedule order.
	var columns []trace.Column[fext.Element]
	//
	for i, b := range p.builders {
		names := b.ColumnNames()
		//
		for j, data := range results[i] {
			columns = append(columns, trace.NewColumn(names[j], data))
		}
	}
	//
	matrix, err := trace.NewMatrix(columns)
	//
	if err != nil {
		return nil, err
	}
	//
	log.Debugf("built %d auxiliary columns over %d rows in %s",
		matrix.Width(), matrix.Height(), time.Since(start))
	//
	return &AuxTrace{matrix}, nil
}
